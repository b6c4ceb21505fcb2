package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// JobID identifies an asynchronous extraction job
type JobID string

// NewJobID returns a time-ordered job ID
func NewJobID() JobID {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source fails
		return JobID(uuid.NewString())
	}
	return JobID(id.String())
}

// ParseJobID validates s as a job ID
func ParseJobID(s string) (JobID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", goerr.Wrap(err, "invalid job id", goerr.V("id", s), goerr.T(ErrTagInvalidInput))
	}
	return JobID(id.String()), nil
}

func (x JobID) String() string { return string(x) }
