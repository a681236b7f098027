package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"slices"
	"sync"

	"github.com/bnema/vthumb/internal/domain"
	"github.com/bnema/vthumb/internal/infrastructure/logger"
	"golang.org/x/sync/errgroup"
)

type ScheduleMode string

const (
	// ScheduleChunked runs items in chunks of limit and waits for the
	// whole chunk before starting the next one.
	ScheduleChunked ScheduleMode = "chunked"
	// ScheduleWindow keeps up to limit items in flight and starts the next
	// item as soon as any finishes.
	ScheduleWindow ScheduleMode = "window"
)

// TaskFunc processes one item. Executor.Execute satisfies it.
type TaskFunc func(ctx context.Context, item domain.WorkItem) domain.Outcome

// BatchFunc receives each group of finished outcomes. It is always called
// from the goroutine that called Run, never concurrently.
type BatchFunc func(batch []domain.Outcome)

type Scheduler struct {
	task  TaskFunc
	limit int
	mode  ScheduleMode
}

func NewScheduler(task TaskFunc, limit int, mode ScheduleMode) *Scheduler {
	if limit < 1 {
		limit = 1
	}
	if mode != ScheduleWindow {
		mode = ScheduleChunked
	}
	return &Scheduler{task: task, limit: limit, mode: mode}
}

// Run processes every item with at most limit tasks in flight and returns
// exactly one outcome per item, ordered by RowIndex. Once ctx is done no
// new task starts and the remaining items come back as cancelled failures
// in one last batch.
func (s *Scheduler) Run(ctx context.Context, items []domain.WorkItem, onBatch BatchFunc) []domain.Outcome {
	if onBatch == nil {
		onBatch = func([]domain.Outcome) {}
	}

	var results []domain.Outcome
	if s.mode == ScheduleWindow {
		results = s.runWindow(ctx, items, onBatch)
	} else {
		results = s.runChunked(ctx, items, onBatch)
	}

	slices.SortStableFunc(results, func(a, b domain.Outcome) int {
		return a.RowIndex - b.RowIndex
	})
	return results
}

func (s *Scheduler) runChunked(ctx context.Context, items []domain.WorkItem, onBatch BatchFunc) []domain.Outcome {
	results := make([]domain.Outcome, 0, len(items))

	for start := 0; start < len(items); start += s.limit {
		if ctx.Err() != nil {
			results = append(results, cancelRemaining(items[start:], onBatch)...)
			break
		}

		end := min(start+s.limit, len(items))
		chunk := make([]domain.Outcome, end-start)

		var wg sync.WaitGroup
		for i, item := range items[start:end] {
			wg.Add(1)
			go func() {
				defer wg.Done()
				chunk[i] = s.safeRun(ctx, item)
			}()
		}
		wg.Wait()

		logger.Debug.Printf("chunk %d-%d of %d finished", start, end-1, len(items))
		results = append(results, chunk...)
		onBatch(chunk)
	}
	return results
}

func (s *Scheduler) runWindow(ctx context.Context, items []domain.WorkItem, onBatch BatchFunc) []domain.Outcome {
	results := make([]domain.Outcome, 0, len(items))
	done := make(chan domain.Outcome, len(items))
	pending := make([]domain.Outcome, 0, s.limit)

	take := func(out domain.Outcome) {
		results = append(results, out)
		pending = append(pending, out)
		if len(pending) >= s.limit {
			onBatch(pending)
			pending = make([]domain.Outcome, 0, s.limit)
		}
	}
	drainReady := func() {
		for {
			select {
			case out := <-done:
				take(out)
			default:
				return
			}
		}
	}

	var g errgroup.Group
	g.SetLimit(s.limit)

	// g.Go blocks while limit tasks are running; done is buffered for every
	// item so finished tasks never wait on the collector.
	dispatched := 0
	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			done <- s.safeRun(ctx, item)
			return nil
		})
		dispatched++
		drainReady()
	}

	for len(results) < dispatched {
		take(<-done)
	}
	_ = g.Wait()

	if len(pending) > 0 {
		onBatch(pending)
	}
	if dispatched < len(items) {
		results = append(results, cancelRemaining(items[dispatched:], onBatch)...)
	}
	return results
}

// safeRun turns a panicking task into a failed outcome.
func (s *Scheduler) safeRun(ctx context.Context, item domain.WorkItem) (out domain.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error.Printf("row %d: task panicked: %v\n%s", item.RowIndex, r, debug.Stack())
			out = domain.NewFailure(item, fmt.Sprintf("unexpected error: %v", r), fmt.Errorf("panic: %v", r))
		}
	}()
	return s.task(ctx, item)
}

func cancelRemaining(items []domain.WorkItem, onBatch BatchFunc) []domain.Outcome {
	if len(items) == 0 {
		return nil
	}
	logger.Warn.Printf("run cancelled, skipping %d remaining rows", len(items))

	batch := make([]domain.Outcome, len(items))
	for i, item := range items {
		batch[i] = domain.NewFailure(item, msgCancelled, context.Canceled)
	}
	onBatch(batch)
	return batch
}
