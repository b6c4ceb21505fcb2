package types

import (
	"github.com/m-mizutani/goerr/v2"
)

var (
	// ErrTagInvalidInput marks a missing or unusable source path or output directory
	ErrTagInvalidInput = goerr.NewTag("invalid_input")
	// ErrTagInvalidContainer marks a source that cannot be read as an Office Open XML (ZIP) package
	ErrTagInvalidContainer = goerr.NewTag("invalid_container")
	// ErrTagIOFailure marks a failure while reading an entry or writing output
	ErrTagIOFailure = goerr.NewTag("io_failure")
	// ErrTagNotFound marks a lookup of an unknown resource such as a job
	ErrTagNotFound = goerr.NewTag("not_found")
)

// ErrorKind is the classification of an extraction failure
type ErrorKind string

const (
	KindNone             ErrorKind = ""
	KindInvalidInput     ErrorKind = "invalid_input"
	KindInvalidContainer ErrorKind = "invalid_container"
	KindIOFailure        ErrorKind = "io_failure"
	KindNotFound         ErrorKind = "not_found"
	KindUnknown          ErrorKind = "unknown"
)

// KindOf returns the classification carried by err's goerr tags.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case goerr.HasTag(err, ErrTagInvalidInput):
		return KindInvalidInput
	case goerr.HasTag(err, ErrTagInvalidContainer):
		return KindInvalidContainer
	case goerr.HasTag(err, ErrTagIOFailure):
		return KindIOFailure
	case goerr.HasTag(err, ErrTagNotFound):
		return KindNotFound
	default:
		return KindUnknown
	}
}

// IsUserError reports whether the failure was caused by the input rather than the environment
func (k ErrorKind) IsUserError() bool {
	return k == KindInvalidInput || k == KindInvalidContainer || k == KindNotFound
}

// Option returns the goerr option that tags an error with kind k. Kinds without a tag yield a no-op option.
func (k ErrorKind) Option() goerr.Option {
	switch k {
	case KindInvalidInput:
		return goerr.T(ErrTagInvalidInput)
	case KindInvalidContainer:
		return goerr.T(ErrTagInvalidContainer)
	case KindIOFailure:
		return goerr.T(ErrTagIOFailure)
	case KindNotFound:
		return goerr.T(ErrTagNotFound)
	default:
		return func(*goerr.Error) {}
	}
}
