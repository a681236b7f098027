package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/vthumb/internal/domain"
	"github.com/bnema/vthumb/internal/port"
)

var (
	ErrEmptyPath   = errors.New("empty locator")
	ErrInvalidPath = errors.New("locator contains null byte")
)

// runFunc executes a binary and returns its stdout. Swapped in tests.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Extractor pulls single frames out of local files or remote streams
// with ffprobe and ffmpeg. Nothing is downloaded beyond what ffmpeg needs
// to decode the requested frame.
type Extractor struct {
	ffmpegPath  string
	ffprobePath string
	run         runFunc
}

func NewExtractor(ffmpegPath, ffprobePath string) *Extractor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Extractor{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		run:         runCommand,
	}
}

func (e *Extractor) ExtractFrame(ctx context.Context, locator string, offsetSeconds float64) (image.Image, error) {
	if err := validateLocator(locator); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnreachable, err)
	}

	probe, err := e.Probe(ctx, locator)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnreachable, err)
	}
	if probe.VideoStream() == nil {
		return nil, fmt.Errorf("%w: no video stream", domain.ErrFrameUnavailable)
	}

	_, seek := probe.SeekTarget(offsetSeconds)
	args := []string{
		"-v", "error",
		"-ss", strconv.FormatFloat(seek, 'f', 3, 64),
		"-i", locator,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	}
	out, err := e.run(ctx, e.ffmpegPath, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ffmpeg: %w", domain.ErrFrameUnavailable, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: decoder returned no frame at %.3fs", domain.ErrFrameUnavailable, seek)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("%w: decode frame: %w", domain.ErrFrameUnavailable, err)
	}
	return img, nil
}

// Probe reads stream metadata for locator.
func (e *Extractor) Probe(ctx context.Context, locator string) (*domain.ProbeResult, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		locator,
	}
	out, err := e.run(ctx, e.ffprobePath, args...)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe domain.ProbeResult
	if err := json.Unmarshal(out, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	probe.RawJSON = string(out)
	return &probe, nil
}

func validateLocator(locator string) error {
	if strings.TrimSpace(locator) == "" {
		return ErrEmptyPath
	}
	if strings.ContainsRune(locator, 0) {
		return ErrInvalidPath
	}
	return nil
}

// waitDelay bounds how long Output waits for stdout to close after the
// process is killed; a forked child may still hold the pipe.
var waitDelay = 5 * time.Second

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, lastLine(msg))
		}
		return nil, err
	}
	return out, nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

var _ port.FrameExtractor = (*Extractor)(nil)
