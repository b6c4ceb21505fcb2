package usecase

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/officeimg/pkg/domain/interfaces"
	"github.com/m-mizutani/officeimg/pkg/domain/model"
	"github.com/m-mizutani/officeimg/pkg/domain/types"
	"github.com/m-mizutani/officeimg/pkg/utils/ctxlog"
	"github.com/m-mizutani/officeimg/pkg/utils/report"
	"golang.org/x/sync/errgroup"
)

const defaultUploadConcurrency = 4

type extractUseCase struct {
	notifier          interfaces.Notifier
	store             interfaces.ObjectStore
	storePrefix       string
	revealer          interfaces.Revealer
	uploadConcurrency int
}

// ExtractOption configures the extract use case
type ExtractOption func(*extractUseCase)

// WithNotifier sets where success, warning and error messages are sent
func WithNotifier(n interfaces.Notifier) ExtractOption {
	return func(uc *extractUseCase) {
		uc.notifier = n
	}
}

// WithObjectStore publishes extracted files to store under prefix
func WithObjectStore(store interfaces.ObjectStore, prefix string) ExtractOption {
	return func(uc *extractUseCase) {
		uc.store = store
		uc.storePrefix = prefix
	}
}

// WithRevealer opens the output directory after a successful extraction
func WithRevealer(r interfaces.Revealer) ExtractOption {
	return func(uc *extractUseCase) {
		uc.revealer = r
	}
}

// WithUploadConcurrency sets the number of parallel uploads to the object store
func WithUploadConcurrency(n int) ExtractOption {
	return func(uc *extractUseCase) {
		if n > 0 {
			uc.uploadConcurrency = n
		}
	}
}

// NewExtract creates a new instance of ExtractUseCase
func NewExtract(opts ...ExtractOption) interfaces.ExtractUseCase {
	uc := &extractUseCase{
		uploadConcurrency: defaultUploadConcurrency,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Extract resolves the output directory, extracts the images and reports the outcome
func (uc *extractUseCase) Extract(ctx context.Context, req *model.ExtractRequest) (*model.ExtractionResult, error) {
	logger := ctxlog.From(ctx)

	if req == nil || req.SourcePath == "" {
		err := goerr.New("source path is required", goerr.T(types.ErrTagInvalidInput))
		uc.notifyFailure(ctx, "", err)
		return nil, err
	}

	doc := model.SourceDocument{Path: req.SourcePath}
	outputDir := doc.ImagesDir(req.OutputRoot)

	logger.Info("Extracting images",
		"source", req.SourcePath,
		"format", doc.Format(),
		"output_dir", outputDir,
	)

	result, err := ExtractMedia(ctx, req.SourcePath, outputDir, req.Progress)
	if err != nil {
		wrapped := goerr.Wrap(err, "failed to extract images", goerr.V("source", req.SourcePath))
		uc.notifyFailure(ctx, doc.Name(), wrapped)
		return nil, wrapped
	}

	if result.Count == 0 {
		uc.notify(ctx, &model.Notification{
			Level:   model.NotificationWarning,
			Title:   doc.Name(),
			Message: "no images found in the document",
		})
		return result, nil
	}

	if uc.store != nil {
		if err := uc.publish(ctx, doc, result); err != nil {
			report.Error(ctx, "Failed to publish extracted images", err)
			uc.notifyFailure(ctx, doc.Name(), err)
		}
	}

	uc.notify(ctx, &model.Notification{
		Level:   model.NotificationSuccess,
		Title:   doc.Name(),
		Message: fmt.Sprintf("saved %d images to %s", result.Count, result.OutputDir),
	})

	if uc.revealer != nil {
		if err := uc.revealer.Reveal(ctx, result.OutputDir); err != nil {
			logger.Warn("Failed to reveal output directory", "dir", result.OutputDir, "error", err)
		}
	}

	return result, nil
}

// publish uploads the written files to the object store as <prefix>/<stem>_images/<file>
func (uc *extractUseCase) publish(ctx context.Context, doc model.SourceDocument, result *model.ExtractionResult) error {
	logger := ctxlog.From(ctx)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(uc.uploadConcurrency)

	for _, file := range result.Files {
		key := path.Join(uc.storePrefix, doc.ImagesDirName(), filepath.Base(file.Path))
		eg.Go(func() error {
			return uc.upload(egCtx, key, file.Path)
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	logger.Info("Published extracted images", "prefix", uc.storePrefix, "count", len(result.Files))
	return nil
}

func (uc *extractUseCase) upload(ctx context.Context, key, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return goerr.Wrap(err, "failed to open extracted file", goerr.V("path", filePath))
	}
	defer func() { _ = f.Close() }()

	contentType := mime.TypeByExtension(filepath.Ext(filePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := uc.store.Put(ctx, key, contentType, f); err != nil {
		return goerr.Wrap(err, "failed to upload extracted file", goerr.V("key", key))
	}
	return nil
}

func (uc *extractUseCase) notifyFailure(ctx context.Context, title string, err error) {
	uc.notify(ctx, &model.Notification{
		Level:   model.NotificationError,
		Title:   title,
		Message: fmt.Sprintf("%s: %s", types.KindOf(err), err.Error()),
	})
}

func (uc *extractUseCase) notify(ctx context.Context, n *model.Notification) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.Notify(ctx, n); err != nil {
		ctxlog.From(ctx).Warn("Failed to send notification", "level", n.Level, "error", err)
	}
}
