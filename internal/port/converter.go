package port

import (
	"context"
	"image"
)

// FrameExtractor decodes a single frame at offsetSeconds into the video
// behind locator. Implementations clamp the offset to the last frame and
// wrap domain.ErrSourceUnreachable or domain.ErrFrameUnavailable.
type FrameExtractor interface {
	ExtractFrame(ctx context.Context, locator string, offsetSeconds float64) (image.Image, error)
}

// ImageCodec encodes a composed canvas.
type ImageCodec interface {
	Encode(img image.Image, quality int) ([]byte, error)
	Extension() string
}
