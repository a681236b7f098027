package domain

import (
	"path/filepath"
	"time"
)

type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Outcome is the terminal result of one WorkItem. OutputPath and WebPath
// are set if and only if Status is OutcomeSuccess; Error only on failure.
type Outcome struct {
	RowIndex   int
	Locator    string
	Title      string
	Status     OutcomeStatus
	OutputPath string
	WebPath    string
	Error      string
	Kind       ErrorKind
	Duration   time.Duration
}

func NewSuccess(item WorkItem, outputPath, webPath string) Outcome {
	return Outcome{
		RowIndex:   item.RowIndex,
		Locator:    item.Locator,
		Title:      item.Title,
		Status:     OutcomeSuccess,
		OutputPath: outputPath,
		WebPath:    webPath,
	}
}

// NewFailure builds a failed Outcome. The kind is derived from err so
// callers only decide the user facing message.
func NewFailure(item WorkItem, message string, err error) Outcome {
	kind := Classify(err)
	if kind == KindNone {
		kind = KindUnexpectedTaskError
	}
	return Outcome{
		RowIndex: item.RowIndex,
		Locator:  item.Locator,
		Title:    item.Title,
		Status:   OutcomeFailed,
		Error:    message,
		Kind:     kind,
	}
}

func (o Outcome) Succeeded() bool {
	return o.Status == OutcomeSuccess
}

// ThumbnailName is the base name of the persisted file, or "" on failure.
func (o Outcome) ThumbnailName() string {
	if o.OutputPath == "" {
		return ""
	}
	return filepath.Base(o.OutputPath)
}
