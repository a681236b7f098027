package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/vthumb/internal/domain"
	"github.com/bnema/vthumb/internal/infrastructure/logger"
	"github.com/bnema/vthumb/internal/port"
)

const (
	msgRetrieve  = "could not retrieve frame"
	msgProcess   = "frame processing error"
	msgPersist   = "encode/write error"
	msgCancelled = "cancelled"
)

type ExecutorOptions struct {
	Size          domain.Size
	Quality       int
	FrameOffset   float64
	WebPathPrefix string
	// TaskTimeout bounds frame extraction. Zero means no limit.
	TaskTimeout time.Duration
}

// Executor turns one WorkItem into one Outcome. It never returns an error:
// every failure is folded into a failed Outcome.
type Executor struct {
	extractor port.FrameExtractor
	codec     port.ImageCodec
	store     port.ThumbnailStore
	opts      ExecutorOptions
	now       func() time.Time
}

func NewExecutor(
	extractor port.FrameExtractor,
	codec port.ImageCodec,
	store port.ThumbnailStore,
	opts ExecutorOptions,
) *Executor {
	return &Executor{
		extractor: extractor,
		codec:     codec,
		store:     store,
		opts:      opts,
		now:       time.Now,
	}
}

func (e *Executor) Execute(ctx context.Context, item domain.WorkItem) domain.Outcome {
	start := time.Now()
	out := e.execute(ctx, item)
	out.Duration = time.Since(start)

	if out.Succeeded() {
		logger.Debug.Printf("row %d: wrote %s in %s", item.RowIndex, out.OutputPath, out.Duration.Round(time.Millisecond))
	} else {
		logger.Warn.Printf("row %d: %s (%s): %s", item.RowIndex, out.Kind, logger.Field(item.Locator), logger.Field(out.Error))
	}
	return out
}

func (e *Executor) execute(ctx context.Context, item domain.WorkItem) domain.Outcome {
	if err := ctx.Err(); err != nil {
		return domain.NewFailure(item, msgCancelled, err)
	}

	frame, err := e.extract(ctx, item.Locator)
	if err != nil {
		if ctx.Err() != nil {
			return domain.NewFailure(item, msgCancelled, ctx.Err())
		}
		return domain.NewFailure(item, failureMessage(msgRetrieve, err), err)
	}

	canvas, err := Letterbox(frame, e.opts.Size)
	if err != nil {
		return domain.NewFailure(item, failureMessage(msgProcess, err), err)
	}

	data, err := e.codec.Encode(canvas, e.opts.Quality)
	if err != nil {
		err = fmt.Errorf("%w: encode: %w", domain.ErrPersist, err)
		return domain.NewFailure(item, failureMessage(msgPersist, err), err)
	}

	path, err := e.store.Save(e.fileName(item), data)
	if err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrPersist, err)
		return domain.NewFailure(item, failureMessage(msgPersist, err), err)
	}

	return domain.NewSuccess(item, path, e.webPath(path))
}

// extract runs the extractor under the task timeout, if any. The call
// runs on its own goroutine so an extractor that ignores ctx still frees
// the slot at the deadline; its late result is discarded. A deadline hit
// is reported as ErrTimeout rather than the extractor's own error.
func (e *Executor) extract(ctx context.Context, locator string) (image.Image, error) {
	if e.opts.TaskTimeout <= 0 {
		return e.extractor.ExtractFrame(ctx, locator, e.opts.FrameOffset)
	}

	taskCtx, cancel := context.WithTimeout(ctx, e.opts.TaskTimeout)
	defer cancel()

	type result struct {
		frame image.Image
		err   error
	}
	// Buffered so the goroutine can always deliver and exit.
	done := make(chan result, 1)
	go func() {
		frame, err := e.extractor.ExtractFrame(taskCtx, locator, e.opts.FrameOffset)
		done <- result{frame: frame, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil && ctx.Err() == nil && errors.Is(taskCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", domain.ErrTimeout, e.opts.TaskTimeout)
		}
		return r.frame, r.err
	case <-taskCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Debug.Printf("abandoning extraction of %s after %s", logger.Field(locator), e.opts.TaskTimeout)
		return nil, fmt.Errorf("%w after %s", domain.ErrTimeout, e.opts.TaskTimeout)
	}
}

func (e *Executor) fileName(item domain.WorkItem) string {
	name := domain.ThumbnailName(item, e.now())
	if ext := e.codec.Extension(); ext != "" && ext != domain.ThumbnailExt {
		name = strings.TrimSuffix(name, domain.ThumbnailExt) + ext
	}
	return name
}

func (e *Executor) webPath(path string) string {
	return strings.TrimSuffix(e.opts.WebPathPrefix, "/") + "/" + filepath.Base(path)
}

func failureMessage(prefix string, err error) string {
	return prefix + ": " + err.Error()
}
