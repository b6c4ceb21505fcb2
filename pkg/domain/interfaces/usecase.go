package interfaces

import (
	"context"

	"github.com/m-mizutani/officeimg/pkg/domain/model"
	"github.com/m-mizutani/officeimg/pkg/domain/types"
)

// ExtractUseCase defines the interface for extracting embedded images from one document
type ExtractUseCase interface {
	// Extract writes the embedded images of req.SourcePath into <OutputRoot>/<stem>_images
	Extract(ctx context.Context, req *model.ExtractRequest) (*model.ExtractionResult, error)
}

// JobUseCase defines operations for background extraction jobs
type JobUseCase interface {
	// Submit validates the request, registers a job and starts it in the background
	Submit(ctx context.Context, req *model.ExtractRequest) (*model.Job, error)

	// Get returns the current state of a job
	Get(ctx context.Context, id types.JobID) (*model.Job, error)
}
