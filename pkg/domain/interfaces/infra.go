package interfaces

import (
	"context"
	"io"

	"github.com/m-mizutani/officeimg/pkg/domain/model"
	"github.com/m-mizutani/officeimg/pkg/domain/types"
)

// Notifier delivers success, warning and error messages to the user
type Notifier interface {
	Notify(ctx context.Context, n *model.Notification) error
}

// ObjectStore stores extracted images outside the local filesystem
type ObjectStore interface {
	// Put uploads r under key
	Put(ctx context.Context, key string, contentType string, r io.Reader) error
}

// Revealer shows a directory to the user, e.g. in the host file browser
type Revealer interface {
	Reveal(ctx context.Context, dir string) error
}

// JobRepository persists background extraction jobs
type JobRepository interface {
	PutJob(ctx context.Context, job *model.Job) error
	// GetJob returns an error tagged with types.ErrTagNotFound when id is unknown
	GetJob(ctx context.Context, id types.JobID) (*model.Job, error)
}
