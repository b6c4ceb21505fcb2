package usecase

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/officeimg/pkg/domain/types"
	"github.com/richardlehane/mscfb"
)

// compoundFileSignature starts every OLE2 compound file: legacy .doc/.ppt/.xls and encrypted OOXML packages
var compoundFileSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// openContainer opens sourcePath as a ZIP archive and classifies failures as
// invalid input, invalid container or I/O failure.
func openContainer(sourcePath string) (*zip.ReadCloser, error) {
	if sourcePath == "" {
		return nil, goerr.New("source path is empty", goerr.T(types.ErrTagInvalidInput))
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(err, "source document does not exist",
				goerr.V("path", sourcePath), goerr.T(types.ErrTagInvalidInput))
		}
		return nil, goerr.Wrap(err, "failed to stat source document",
			goerr.V("path", sourcePath), goerr.T(types.ErrTagIOFailure))
	}
	if info.IsDir() {
		return nil, goerr.New("source path is a directory",
			goerr.V("path", sourcePath), goerr.T(types.ErrTagInvalidInput))
	}

	zr, err := zip.OpenReader(sourcePath)
	if errors.Is(err, zip.ErrInsecurePath) && zr != nil {
		// Only entry base names are ever written, so unsafe entry paths cannot escape the output directory
		err = nil
	}
	if err != nil {
		if isArchiveFormatError(err) {
			return nil, goerr.Wrap(err, "not a valid Office Open XML container",
				goerr.V("path", sourcePath),
				goerr.V("detail", describeNonZip(sourcePath)),
				goerr.T(types.ErrTagInvalidContainer))
		}
		return nil, goerr.Wrap(err, "failed to open source document",
			goerr.V("path", sourcePath), goerr.T(types.ErrTagIOFailure))
	}

	return zr, nil
}

func isArchiveFormatError(err error) bool {
	return errors.Is(err, zip.ErrFormat) ||
		errors.Is(err, zip.ErrAlgorithm) ||
		errors.Is(err, zip.ErrChecksum) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

// describeNonZip explains what a file that failed to open as ZIP most likely is.
// Failures while sniffing fall back to a generic description.
func describeNonZip(sourcePath string) string {
	const generic = "file is corrupt or is not an Office Open XML package"

	f, err := os.Open(sourcePath)
	if err != nil {
		return generic
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, len(compoundFileSignature))
	if _, err := io.ReadFull(f, head); err != nil {
		return generic
	}
	if !bytes.Equal(head, compoundFileSignature) {
		return generic
	}

	cfb, err := mscfb.New(f)
	if err != nil {
		return "file is a damaged OLE2 compound document"
	}

	for _, entry := range cfb.File {
		switch entry.Name {
		case "EncryptedPackage":
			return "document is password protected; save it without a password and retry"
		case "WordDocument":
			return "legacy Word 97-2003 document (.doc); save it as .docx and retry"
		case "PowerPoint Document":
			return "legacy PowerPoint 97-2003 presentation (.ppt); save it as .pptx and retry"
		case "Workbook", "Book":
			return "legacy Excel workbook; spreadsheets are not supported"
		}
	}

	return "file is an OLE2 compound document, not an Office Open XML package"
}
