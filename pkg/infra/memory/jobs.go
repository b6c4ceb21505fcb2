package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/officeimg/pkg/domain/interfaces"
	"github.com/m-mizutani/officeimg/pkg/domain/model"
	"github.com/m-mizutani/officeimg/pkg/domain/types"
)

type jobRepository struct {
	mu   sync.RWMutex
	jobs map[types.JobID]*model.Job
}

// NewJobRepository creates a process local JobRepository
func NewJobRepository() interfaces.JobRepository {
	return &jobRepository{
		jobs: make(map[types.JobID]*model.Job),
	}
}

func (r *jobRepository) PutJob(ctx context.Context, job *model.Job) error {
	if job == nil || job.ID == "" {
		return goerr.New("job id is required", goerr.T(types.ErrTagInvalidInput))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job.Clone()
	return nil
}

func (r *jobRepository) GetJob(ctx context.Context, id types.JobID) (*model.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, goerr.New("job not found", goerr.V("job_id", id), goerr.T(types.ErrTagNotFound))
	}
	return job.Clone(), nil
}
