package port

import (
	"context"

	"github.com/bnema/vthumb/internal/domain"
)

// ThumbnailStore persists encoded thumbnails. Save claims name, or the
// first free name_N variant, atomically and returns the final path. It
// either writes a complete file or none.
type ThumbnailStore interface {
	Save(name string, data []byte) (path string, err error)
}

// RunLedger records runs and their outcomes for later inspection.
type RunLedger interface {
	BeginRun(ctx context.Context, runID, inputPath string, total int) error
	RecordOutcomes(ctx context.Context, runID string, outcomes []domain.Outcome) error
	FinishRun(ctx context.Context, runID string, summary domain.Summary) error
}

// ReportStore writes the machine readable summary of a finished run.
type ReportStore interface {
	SaveReport(report domain.RunReport) error
}
