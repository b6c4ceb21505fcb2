package usecase

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/officeimg/pkg/domain/model"
	"github.com/m-mizutani/officeimg/pkg/domain/types"
	"github.com/m-mizutani/officeimg/pkg/utils/ctxlog"
)

const (
	outputDirPerm  = 0755
	outputFilePerm = 0644
)

// mediaTarget is a kept archive entry with its planned destination
type mediaTarget struct {
	file    *zip.File
	counter int
	name    string
	renamed bool
}

// ExtractMedia copies every recognized image under word/media/ or ppt/media/ of the
// document at sourcePath into outputDir, in archive order, and returns what was written.
//
// The run is synchronous. ctx only carries the logger; cancellation is not observed.
// Files written before a failure are left in place.
func ExtractMedia(ctx context.Context, sourcePath, outputDir string, progress model.ProgressFunc) (*model.ExtractionResult, error) {
	logger := ctxlog.From(ctx)

	if outputDir == "" {
		return nil, goerr.New("output directory is empty", goerr.T(types.ErrTagInvalidInput))
	}

	zr, err := openContainer(sourcePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := zr.Close(); err != nil {
			logger.Warn("Failed to close archive", "path", sourcePath, "error", err)
		}
	}()

	var media, images []*zip.File
	for _, f := range zr.File {
		if !model.IsMediaPath(f.Name) {
			continue
		}
		media = append(media, f)
		if model.IsImageEntry(f.Name) {
			images = append(images, f)
		}
	}

	logger.Debug("Scanned archive",
		"path", sourcePath,
		"entries", len(zr.File),
		"media_entries", len(media),
		"image_entries", len(images),
	)
	progress.Report(fmt.Sprintf("found %d media files in %s, %d recognized as images",
		len(media), filepath.Base(sourcePath), len(images)))

	if err := os.MkdirAll(outputDir, outputDirPerm); err != nil {
		return nil, goerr.Wrap(err, "failed to create output directory",
			goerr.V("dir", outputDir), goerr.T(types.ErrTagIOFailure))
	}

	// Plan every destination before writing so entries of this run never overwrite each other
	plan := newDestinationPlan(outputDir)
	targets := make([]mediaTarget, 0, len(images))
	for i, f := range images {
		counter := i + 1
		// filepath.Base strips separators that are only special on the host, e.g. '\' on Windows
		base := filepath.Base(model.EntryBase(f.Name))
		name, renamed, err := plan.claim(base, counter)
		if err != nil {
			return nil, err
		}
		targets = append(targets, mediaTarget{file: f, counter: counter, name: name, renamed: renamed})
	}

	result := &model.ExtractionResult{
		OutputDir: outputDir,
		Files:     make([]model.ExtractedFile, 0, len(targets)),
	}

	for _, target := range targets {
		entry, err := readEntry(target.file)
		if err != nil {
			return nil, err
		}

		written, err := writeEntry(plan, &target, entry)
		if err != nil {
			return nil, err
		}

		result.Files = append(result.Files, *written)
		result.Count++

		logger.Debug("Extracted image",
			"entry", entry.Name,
			"path", written.Path,
			"size", written.Size,
			"renamed", written.Renamed,
		)
		progress.Report(fmt.Sprintf("extracted image %d/%d (%s) -> %s",
			target.counter, len(targets), model.EntryExtension(entry.Name), target.name))
	}

	logger.Info("Extracted images",
		"path", sourcePath,
		"output_dir", outputDir,
		"count", result.Count,
	)

	return result, nil
}

// readEntry reads the uncompressed payload of an archive entry
func readEntry(f *zip.File) (*model.MediaEntry, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open archive entry",
			goerr.V("entry", f.Name), goerr.T(types.ErrTagIOFailure))
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read archive entry",
			goerr.V("entry", f.Name), goerr.T(types.ErrTagIOFailure))
	}

	return &model.MediaEntry{Name: f.Name, Data: data}, nil
}

// writeEntry creates the planned file exclusively. When another writer created
// the same name in the meantime, the next free name is claimed instead.
func writeEntry(plan *destinationPlan, target *mediaTarget, entry *model.MediaEntry) (*model.ExtractedFile, error) {
	for {
		destPath := plan.path(target.name)
		destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, outputFilePerm)
		if errors.Is(err, fs.ErrExist) {
			name, _, err := plan.claim(filepath.Base(model.EntryBase(entry.Name)), target.counter)
			if err != nil {
				return nil, err
			}
			target.name = name
			target.renamed = true
			continue
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create destination file",
				goerr.V("path", destPath), goerr.T(types.ErrTagIOFailure))
		}

		n, err := destFile.Write(entry.Data)
		if err != nil {
			_ = destFile.Close()
			return nil, goerr.Wrap(err, "failed to write destination file",
				goerr.V("path", destPath), goerr.T(types.ErrTagIOFailure))
		}
		if err := destFile.Close(); err != nil {
			return nil, goerr.Wrap(err, "failed to close destination file",
				goerr.V("path", destPath), goerr.T(types.ErrTagIOFailure))
		}

		return &model.ExtractedFile{
			Entry:   entry.Name,
			Path:    destPath,
			Size:    int64(n),
			Renamed: target.renamed,
		}, nil
	}
}
