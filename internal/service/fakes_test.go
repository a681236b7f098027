package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/bnema/vthumb/internal/domain"
)

var fixedNow = time.Date(2024, 12, 19, 19, 20, 28, 0, time.UTC)

type fakeCodec struct {
	err error
}

func (c *fakeCodec) Encode(img image.Image, quality int) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	b := img.Bounds()
	return []byte(fmt.Sprintf("fake %dx%d q%d", b.Dx(), b.Dy(), quality)), nil
}

func (c *fakeCodec) Extension() string {
	return ".jpg"
}

// fakeExtractor serves a solid frame for every locator not listed in fail.
// It tracks how many calls run at once.
type fakeExtractor struct {
	mu       sync.Mutex
	fail     map[string]error
	delay    time.Duration
	inFlight int
	maxSeen  int
	calls    int
}

func (f *fakeExtractor) ExtractFrame(ctx context.Context, locator string, offset float64) (image.Image, error) {
	f.mu.Lock()
	f.calls++
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := f.fail[locator]; ok {
		return nil, err
	}
	return solidFrame(64, 36, color.RGBA{R: 200, G: 100, B: 50, A: 255}), nil
}

func (f *fakeExtractor) MaxInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxSeen
}

func (f *fakeExtractor) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var errUnreachable = fmt.Errorf("%w: connection refused", domain.ErrSourceUnreachable)

var errBoom = errors.New("boom")
