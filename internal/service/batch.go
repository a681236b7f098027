package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bnema/vthumb/internal/domain"
	"github.com/bnema/vthumb/internal/infrastructure/logger"
	"github.com/bnema/vthumb/internal/port"
)

type BatchOptions struct {
	RunID          string
	OutputDir      string
	ResultsPath    string
	CheckpointPath string
	KeepCheckpoint bool
	Concurrency    int
	Schedule       ScheduleMode
	Size           domain.Size
}

// BatchService drives one run over an input table: schedule, aggregate,
// write the result table, then record the run.
type BatchService struct {
	reader  port.TableReader
	writer  port.ResultWriter
	task    TaskFunc
	ledger  port.RunLedger
	reports port.ReportStore
	events  EventPublisher
	opts    BatchOptions
}

// NewBatchService wires a run. ledger, reports and events are optional.
func NewBatchService(
	reader port.TableReader,
	writer port.ResultWriter,
	task TaskFunc,
	ledger port.RunLedger,
	reports port.ReportStore,
	events EventPublisher,
	opts BatchOptions,
) *BatchService {
	return &BatchService{
		reader:  reader,
		writer:  writer,
		task:    task,
		ledger:  ledger,
		reports: reports,
		events:  events,
		opts:    opts,
	}
}

// Run processes every row of the table at inputPath. Failed rows are
// reported in the result table, not as an error; only problems that stop
// the run before or after scheduling are returned.
func (s *BatchService) Run(ctx context.Context, inputPath string) (domain.Summary, error) {
	table, err := s.reader.ReadTable(inputPath)
	if err != nil {
		logger.Error.Printf("failed to read input %s: %v", inputPath, err)
		return domain.Summary{}, fmt.Errorf("failed to read input: %w", err)
	}

	items, err := table.WorkItems()
	if err != nil {
		logger.Error.Printf("invalid input %s: %v", inputPath, err)
		return domain.Summary{}, err
	}

	if err := os.MkdirAll(s.opts.OutputDir, 0755); err != nil {
		logger.Error.Printf("failed to create output directory: %v", err)
		return domain.Summary{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	logger.Info.Printf("run %s: %d rows from %s, concurrency=%d, schedule=%s, size=%s",
		s.opts.RunID, len(items), inputPath, s.opts.Concurrency, s.opts.Schedule, s.opts.Size)

	if s.ledger != nil {
		if err := s.ledger.BeginRun(ctx, s.opts.RunID, inputPath, len(items)); err != nil {
			logger.Error.Printf("failed to record run start: %v", err)
		}
	}

	agg := NewAggregator(ctx, table, s.writer, s.ledger, s.events, AggregatorOptions{
		RunID:          s.opts.RunID,
		ResultsPath:    s.opts.ResultsPath,
		CheckpointPath: s.opts.CheckpointPath,
		KeepCheckpoint: s.opts.KeepCheckpoint,
	})
	NewScheduler(s.task, s.opts.Concurrency, s.opts.Schedule).Run(ctx, items, agg.Consume)

	summary, err := agg.Finish()
	summary.OutputDir = s.opts.OutputDir
	if err != nil {
		logger.Error.Printf("run %s: %v", s.opts.RunID, err)
		return summary, err
	}

	// The run outlives an interrupt long enough to record what happened.
	after := context.WithoutCancel(ctx)
	if s.ledger != nil {
		if err := s.ledger.FinishRun(after, s.opts.RunID, summary); err != nil {
			logger.Error.Printf("failed to record run end: %v", err)
		}
	}
	if s.reports != nil {
		report := domain.RunReport{
			Summary:     summary,
			InputPath:   inputPath,
			Concurrency: s.opts.Concurrency,
			Schedule:    string(s.opts.Schedule),
			Size:        s.opts.Size.String(),
			Failures:    agg.FailuresByKind(),
			GeneratedAt: time.Now().UTC(),
		}
		if err := s.reports.SaveReport(report); err != nil {
			logger.Error.Printf("failed to write run report: %v", err)
		}
	}

	logger.Info.Printf("run %s finished: %d succeeded, %d failed in %s",
		summary.RunID, summary.Succeeded, summary.Failed, domain.FormatDuration(summary.Elapsed.Seconds()))
	return summary, nil
}
