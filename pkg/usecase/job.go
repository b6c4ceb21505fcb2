package usecase

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/officeimg/pkg/domain/interfaces"
	"github.com/m-mizutani/officeimg/pkg/domain/model"
	"github.com/m-mizutani/officeimg/pkg/domain/types"
	"github.com/m-mizutani/officeimg/pkg/utils/async"
	"github.com/m-mizutani/officeimg/pkg/utils/ctxlog"
	"github.com/m-mizutani/officeimg/pkg/utils/report"
)

// JobUseCase runs extractions in the background and tracks them as jobs
type JobUseCase struct {
	extractUC interfaces.ExtractUseCase
	repo      interfaces.JobRepository
	now       func() time.Time

	// running maps the ID of each job still executing in this process to a
	// channel closed when it finishes. Entries are removed by the run itself.
	running sync.Map
}

var _ interfaces.JobUseCase = (*JobUseCase)(nil)

// NewJob creates a new instance of JobUseCase
func NewJob(extractUC interfaces.ExtractUseCase, repo interfaces.JobRepository) *JobUseCase {
	return &JobUseCase{
		extractUC: extractUC,
		repo:      repo,
		now:       time.Now,
	}
}

// Submit registers a job and runs the extraction in the background
func (uc *JobUseCase) Submit(ctx context.Context, req *model.ExtractRequest) (*model.Job, error) {
	logger := ctxlog.From(ctx)

	if req == nil || req.SourcePath == "" {
		return nil, goerr.New("source_path is required", goerr.T(types.ErrTagInvalidInput))
	}
	info, err := os.Stat(req.SourcePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(err, "source document does not exist",
				goerr.V("path", req.SourcePath), goerr.T(types.ErrTagInvalidInput))
		}
		return nil, goerr.Wrap(err, "failed to stat source document",
			goerr.V("path", req.SourcePath), goerr.T(types.ErrTagIOFailure))
	}
	if info.IsDir() {
		return nil, goerr.New("source path is a directory",
			goerr.V("path", req.SourcePath), goerr.T(types.ErrTagInvalidInput))
	}

	now := uc.now()
	job := &model.Job{
		ID:         types.NewJobID(),
		Status:     model.JobStatusPending,
		SourcePath: req.SourcePath,
		OutputRoot: req.OutputRoot,
		Progress:   []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.PutJob(ctx, job); err != nil {
		return nil, goerr.Wrap(err, "failed to save job", goerr.V("job_id", job.ID))
	}

	logger.Info("Job submitted", "job_id", job.ID, "source", job.SourcePath)

	finished := make(chan struct{})
	uc.running.Store(job.ID, finished)

	run := job.Clone()
	async.Dispatch(ctx, func(ctx context.Context) error {
		defer func() {
			uc.running.Delete(run.ID)
			close(finished)
		}()
		return uc.run(ctx, run)
	})

	return job, nil
}

// Get returns the current state of a job
func (uc *JobUseCase) Get(ctx context.Context, id types.JobID) (*model.Job, error) {
	job, err := uc.repo.GetJob(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get job", goerr.V("job_id", id))
	}
	return job, nil
}

// Wait blocks until the job finishes and returns its failure as an error carrying
// the recorded kind. A job that is neither running in this process nor finished
// yields a not found error.
func (uc *JobUseCase) Wait(ctx context.Context, id types.JobID) error {
	if v, ok := uc.running.Load(id); ok {
		<-v.(chan struct{})
	}

	job, err := uc.Get(ctx, id)
	if err != nil {
		return err
	}
	if !job.IsFinished() {
		return goerr.New("job is not running in this process",
			goerr.V("job_id", id), goerr.V("status", job.Status), goerr.T(types.ErrTagNotFound))
	}
	if job.Status == model.JobStatusFailed {
		return goerr.New(job.Error, goerr.V("job_id", id), job.ErrorKind.Option())
	}
	return nil
}

// run executes the extraction and records its progress on the job.
// Progress lines arrive on the extracting goroutine; updates are serialized by mu.
func (uc *JobUseCase) run(ctx context.Context, job *model.Job) error {
	logger := ctxlog.From(ctx).With("job_id", job.ID)
	ctx = ctxlog.With(ctx, logger)

	var mu sync.Mutex
	save := func(update func(j *model.Job)) {
		mu.Lock()
		defer mu.Unlock()
		update(job)
		job.UpdatedAt = uc.now()
		if err := uc.repo.PutJob(ctx, job.Clone()); err != nil {
			logger.Warn("Failed to save job state", "status", job.Status, "error", err)
		}
	}

	save(func(j *model.Job) { j.Status = model.JobStatusRunning })

	result, err := uc.extractUC.Extract(ctx, &model.ExtractRequest{
		SourcePath: job.SourcePath,
		OutputRoot: job.OutputRoot,
		Progress: func(status string) {
			save(func(j *model.Job) { j.AppendProgress(status) })
		},
	})
	if err != nil {
		save(func(j *model.Job) {
			j.Status = model.JobStatusFailed
			j.ErrorKind = types.KindOf(err)
			j.Error = err.Error()
		})
		report.Error(ctx, "Job failed", err)
		return err
	}

	save(func(j *model.Job) {
		j.Status = model.JobStatusSucceeded
		j.Count = result.Count
		j.OutputDir = result.OutputDir
	})
	logger.Info("Job finished", "count", result.Count, "output_dir", result.OutputDir)
	return nil
}
