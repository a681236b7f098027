package jpegcodec

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"

	"github.com/bnema/vthumb/internal/port"
)

const DefaultQuality = 85

// Codec encodes thumbnails as baseline JPEG.
type Codec struct{}

func New() *Codec {
	return &Codec{}
}

// Encode clamps quality into 1..100; zero selects DefaultQuality.
func (c *Codec) Encode(img image.Image, quality int) ([]byte, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errors.New("empty image")
	}

	switch {
	case quality == 0:
		quality = DefaultQuality
	case quality < 1:
		quality = 1
	case quality > 100:
		quality = 100
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func (c *Codec) Extension() string {
	return ".jpg"
}

var _ port.ImageCodec = (*Codec)(nil)
