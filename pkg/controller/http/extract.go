package http

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/officeimg/pkg/domain/interfaces"
	"github.com/m-mizutani/officeimg/pkg/domain/model"
	"github.com/m-mizutani/officeimg/pkg/domain/types"
	"github.com/m-mizutani/officeimg/pkg/utils/ctxlog"
)

const (
	uploadField       = "document"
	maxMultipartInMem = 8 << 20

	// HeaderImageCount carries the number of extracted images on zip responses
	HeaderImageCount = "X-Officeimg-Count"
)

// ExtractHandler extracts images from an uploaded document
type ExtractHandler struct {
	extractUC     interfaces.ExtractUseCase
	maxUploadSize int64
	tempDir       string
}

// NewExtractHandler creates a new ExtractHandler
func NewExtractHandler(extractUC interfaces.ExtractUseCase, maxUploadSize int64, tempDir string) *ExtractHandler {
	return &ExtractHandler{
		extractUC:     extractUC,
		maxUploadSize: maxUploadSize,
		tempDir:       tempDir,
	}
}

type manifestFile struct {
	Name    string `json:"name"`
	Entry   string `json:"entry"`
	Size    int64  `json:"size"`
	Renamed bool   `json:"renamed"`
}

type manifestResponse struct {
	Document string         `json:"document"`
	Count    int            `json:"count"`
	Files    []manifestFile `json:"files"`
}

// Handle accepts a multipart upload, extracts its images and answers with a
// zip archive, or with a JSON manifest when format=json is requested
func (h *ExtractHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(maxMultipartInMem); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeErrorStatus(w, r, goerr.Wrap(err, "document is too large", goerr.V("limit", h.maxUploadSize)),
				types.KindInvalidInput, http.StatusRequestEntityTooLarge)
			return
		}
		writeError(w, r, goerr.Wrap(err, "invalid multipart request", goerr.T(types.ErrTagInvalidInput)))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeError(w, r, goerr.Wrap(err, "form field is required", goerr.V("field", uploadField), goerr.T(types.ErrTagInvalidInput)))
		return
	}
	defer func() { _ = file.Close() }()

	name := uploadName(header.Filename)
	doc := model.SourceDocument{Path: name}
	if !doc.IsSupportedFormat() {
		writeError(w, r, goerr.New("unsupported document type",
			goerr.V("filename", header.Filename),
			goerr.V("supported", model.SupportedExtensions()),
			goerr.T(types.ErrTagInvalidInput)))
		return
	}

	workDir, err := os.MkdirTemp(h.tempDir, "officeimg-upload-*")
	if err != nil {
		writeError(w, r, goerr.Wrap(err, "failed to create work directory", goerr.T(types.ErrTagIOFailure)))
		return
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logger.Warn("Failed to remove work directory", "dir", workDir, "error", err)
		}
	}()

	sourcePath := filepath.Join(workDir, name)
	if err := saveUpload(sourcePath, file); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.extractUC.Extract(ctx, &model.ExtractRequest{
		SourcePath: sourcePath,
		OutputRoot: workDir,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		resp := manifestResponse{
			Document: name,
			Count:    result.Count,
			Files:    make([]manifestFile, 0, len(result.Files)),
		}
		for _, f := range result.Files {
			resp.Files = append(resp.Files, manifestFile{
				Name:    filepath.Base(f.Path),
				Entry:   f.Entry,
				Size:    f.Size,
				Renamed: f.Renamed,
			})
		}
		writeJSON(w, r, http.StatusOK, resp)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.ImagesDirName()+".zip"))
	w.Header().Set(HeaderImageCount, strconv.Itoa(result.Count))
	w.WriteHeader(http.StatusOK)

	if err := writeArchive(w, doc.ImagesDirName(), result); err != nil {
		// Headers are already sent; the client sees a truncated archive
		logger.Error("Failed to write image archive", "error", err)
	}
}

// uploadName reduces a client supplied file name to a safe base name
func uploadName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

func saveUpload(dst string, src io.Reader) error {
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return goerr.Wrap(err, "failed to create upload file", goerr.T(types.ErrTagIOFailure))
	}

	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		return goerr.Wrap(err, "failed to store upload", goerr.T(types.ErrTagIOFailure))
	}
	if err := f.Close(); err != nil {
		return goerr.Wrap(err, "failed to close upload file", goerr.T(types.ErrTagIOFailure))
	}
	return nil
}

// writeArchive streams the extracted files as <dir>/<name> entries. Images are
// already compressed, so entries are stored.
func writeArchive(w io.Writer, dir string, result *model.ExtractionResult) error {
	zw := zip.NewWriter(w)

	for _, f := range result.Files {
		entry, err := zw.CreateHeader(&zip.FileHeader{
			Name:   path.Join(dir, filepath.Base(f.Path)),
			Method: zip.Store,
		})
		if err != nil {
			return goerr.Wrap(err, "failed to add archive entry", goerr.V("path", f.Path))
		}

		if err := copyFile(entry, f.Path); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize archive")
	}
	return nil
}

func copyFile(w io.Writer, filePath string) error {
	src, err := os.Open(filePath)
	if err != nil {
		return goerr.Wrap(err, "failed to open extracted file", goerr.V("path", filePath))
	}
	defer func() { _ = src.Close() }()

	if _, err := io.Copy(w, src); err != nil {
		return goerr.Wrap(err, "failed to copy extracted file", goerr.V("path", filePath))
	}
	return nil
}
