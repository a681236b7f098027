package domain

import (
	"context"
	"errors"
)

var (
	ErrSourceUnreachable = errors.New("source unreachable")
	ErrFrameUnavailable  = errors.New("frame unavailable")
	ErrComposition       = errors.New("malformed frame")
	ErrPersist           = errors.New("persist failed")
	ErrInputSchema       = errors.New("input must have a url column")
	ErrTimeout           = errors.New("extraction timed out")
)

// ErrorKind classifies why a task failed. It is recorded next to the
// human readable message so reports can be grouped.
type ErrorKind string

const (
	KindNone                ErrorKind = ""
	KindSourceUnreachable   ErrorKind = "source_unreachable"
	KindFrameUnavailable    ErrorKind = "frame_unavailable"
	KindCompositionError    ErrorKind = "composition_error"
	KindPersistError        ErrorKind = "persist_error"
	KindInputSchemaError    ErrorKind = "input_schema_error"
	KindUnexpectedTaskError ErrorKind = "unexpected_task_error"
	KindCancelled           ErrorKind = "cancelled"
)

// Classify maps a wrapped task error onto its ErrorKind.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrSourceUnreachable):
		return KindSourceUnreachable
	case errors.Is(err, ErrFrameUnavailable), errors.Is(err, ErrTimeout):
		return KindFrameUnavailable
	case errors.Is(err, ErrComposition):
		return KindCompositionError
	case errors.Is(err, ErrPersist):
		return KindPersistError
	case errors.Is(err, ErrInputSchema):
		return KindInputSchemaError
	case errors.Is(err, context.Canceled):
		return KindCancelled
	default:
		return KindUnexpectedTaskError
	}
}
