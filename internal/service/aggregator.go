package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/bnema/vthumb/internal/domain"
	"github.com/bnema/vthumb/internal/infrastructure/logger"
	"github.com/bnema/vthumb/internal/port"
)

const defaultCheckpointEvery = 2

type AggregatorOptions struct {
	RunID          string
	ResultsPath    string
	CheckpointPath string
	KeepCheckpoint bool
	// CheckpointEvery is the number of batches between checkpoint writes.
	CheckpointEvery int
}

// Aggregator owns the run statistics and the accumulated outcomes. Consume
// and Finish must be called from a single goroutine.
type Aggregator struct {
	inputs   map[int]domain.InputRow
	extra    []string
	stats    *domain.RunStats
	outcomes []domain.Outcome
	batches  int
	// unrecorded is the index into outcomes from which the ledger has not
	// seen rows yet.
	unrecorded int

	writer port.ResultWriter
	ledger port.RunLedger
	events EventPublisher
	opts   AggregatorOptions
	ctx    context.Context
	now    func() time.Time
}

// NewAggregator starts the run clock. ledger and events may be nil. Ledger
// writes use ctx without its cancellation so an interrupted run is still
// recorded.
func NewAggregator(
	ctx context.Context,
	table *domain.InputTable,
	writer port.ResultWriter,
	ledger port.RunLedger,
	events EventPublisher,
	opts AggregatorOptions,
) *Aggregator {
	if opts.CheckpointEvery < 1 {
		opts.CheckpointEvery = defaultCheckpointEvery
	}
	inputs := make(map[int]domain.InputRow, len(table.Rows))
	for _, r := range table.Rows {
		inputs[r.Index] = r
	}
	a := &Aggregator{
		inputs:   inputs,
		extra:    table.ExtraColumns(),
		outcomes: make([]domain.Outcome, 0, len(table.Rows)),
		writer:   writer,
		ledger:   ledger,
		events:   events,
		opts:     opts,
		ctx:      context.WithoutCancel(ctx),
		now:      time.Now,
	}
	a.stats = domain.NewRunStats(len(table.Rows), a.now())
	return a
}

// Consume folds one batch into the statistics, publishes progress and
// rewrites the checkpoint every CheckpointEvery batches and after the
// last one.
func (a *Aggregator) Consume(batch []domain.Outcome) {
	if len(batch) == 0 {
		return
	}
	for _, o := range batch {
		a.stats.Record(o)
	}
	a.outcomes = append(a.outcomes, batch...)
	a.batches++

	progress := a.stats.Snapshot(a.now())
	logger.Debug.Printf("progress: %s", progress)
	a.publish(Event{Type: EventProgress, Progress: progress})

	final := a.stats.Completed >= a.stats.Total
	if a.batches%a.opts.CheckpointEvery == 0 || final {
		a.checkpoint(progress)
	}
}

func (a *Aggregator) checkpoint(progress domain.Progress) {
	if a.opts.CheckpointPath != "" {
		if err := a.writer.WriteResults(a.opts.CheckpointPath, a.extra, a.rows()); err != nil {
			logger.Error.Printf("failed to write checkpoint %s: %v", a.opts.CheckpointPath, err)
		} else {
			logger.Debug.Printf("checkpoint written: %d rows to %s", len(a.outcomes), a.opts.CheckpointPath)
			a.publish(Event{Type: EventCheckpoint, Progress: progress, Message: a.opts.CheckpointPath})
		}
	}
	a.record()
}

func (a *Aggregator) record() {
	if a.ledger == nil || a.unrecorded >= len(a.outcomes) {
		return
	}
	fresh := a.outcomes[a.unrecorded:]
	if err := a.ledger.RecordOutcomes(a.ctx, a.opts.RunID, fresh); err != nil {
		logger.Error.Printf("failed to record %d outcomes in ledger: %v", len(fresh), err)
		return
	}
	a.unrecorded = len(a.outcomes)
}

// Finish writes the final result table and closes the statistics. The
// checkpoint is removed afterwards unless KeepCheckpoint is set.
func (a *Aggregator) Finish() (domain.Summary, error) {
	a.record()

	summary := a.stats.Summarize(a.now())
	summary.RunID = a.opts.RunID
	summary.ResultPath = a.opts.ResultsPath

	if err := a.writer.WriteResults(a.opts.ResultsPath, a.extra, a.rows()); err != nil {
		return summary, fmt.Errorf("write results: %w", err)
	}
	logger.Info.Printf("results written to %s", a.opts.ResultsPath)

	if !a.opts.KeepCheckpoint && a.opts.CheckpointPath != "" && !samePath(a.opts.CheckpointPath, a.opts.ResultsPath) {
		if err := os.Remove(a.opts.CheckpointPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn.Printf("failed to remove checkpoint %s: %v", a.opts.CheckpointPath, err)
		}
	}

	a.publish(Event{Type: EventDone, Progress: a.stats.Snapshot(summary.FinishedAt)})
	return summary, nil
}

// FailuresByKind counts failed outcomes per ErrorKind.
func (a *Aggregator) FailuresByKind() map[string]int {
	counts := make(map[string]int)
	for _, o := range a.outcomes {
		if !o.Succeeded() {
			counts[string(o.Kind)]++
		}
	}
	return counts
}

// rows returns every outcome so far joined with its input, by RowIndex.
func (a *Aggregator) rows() []domain.ResultRow {
	rows := make([]domain.ResultRow, 0, len(a.outcomes))
	for _, o := range a.outcomes {
		rows = append(rows, domain.ResultRow{Input: a.inputs[o.RowIndex], Outcome: o})
	}
	slices.SortStableFunc(rows, func(x, y domain.ResultRow) int {
		return x.Outcome.RowIndex - y.Outcome.RowIndex
	})
	return rows
}

func (a *Aggregator) publish(ev Event) {
	if a.events != nil {
		a.events.Publish(a.opts.RunID, ev)
	}
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
