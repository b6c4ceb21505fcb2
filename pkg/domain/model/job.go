package model

import (
	"time"

	"github.com/m-mizutani/officeimg/pkg/domain/types"
)

// JobStatus represents the state of an asynchronous extraction
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// MaxJobProgress is the number of most recent progress lines kept on a job
const MaxJobProgress = 100

// Job is an extraction running in the background
type Job struct {
	ID         types.JobID     `json:"id" firestore:"id"`
	Status     JobStatus       `json:"status" firestore:"status"`
	SourcePath string          `json:"source_path" firestore:"source_path"`
	OutputRoot string          `json:"output_root,omitempty" firestore:"output_root"`
	OutputDir  string          `json:"output_dir,omitempty" firestore:"output_dir"`
	Count      int             `json:"count" firestore:"count"`
	Progress   []string        `json:"progress" firestore:"progress"`
	ErrorKind  types.ErrorKind `json:"error_kind,omitempty" firestore:"error_kind"`
	Error      string          `json:"error,omitempty" firestore:"error"`
	CreatedAt  time.Time       `json:"created_at" firestore:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" firestore:"updated_at"`
}

// IsFinished checks if the job reached a terminal state
func (x *Job) IsFinished() bool {
	switch x.Status {
	case JobStatusSucceeded, JobStatusFailed:
		return true
	default:
		return false
	}
}

// AppendProgress records a status line, dropping the oldest beyond MaxJobProgress
func (x *Job) AppendProgress(status string) {
	x.Progress = append(x.Progress, status)
	if over := len(x.Progress) - MaxJobProgress; over > 0 {
		x.Progress = append([]string(nil), x.Progress[over:]...)
	}
}

// Clone returns a deep copy of the job
func (x *Job) Clone() *Job {
	c := *x
	c.Progress = append([]string(nil), x.Progress...)
	return &c
}
