package service

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/bnema/vthumb/internal/domain"
	"golang.org/x/image/draw"
)

// Placement is where a resized frame lands on the canvas.
type Placement struct {
	Width   int
	Height  int
	XOffset int
	YOffset int
}

// FitWithin scales a w×h frame to fit size without cropping. The wider
// side relative to the canvas fills it; the other side is rounded and
// centred with floor-divided padding.
func FitWithin(w, h int, size domain.Size) Placement {
	aspect := float64(w) / float64(h)
	target := float64(size.Width) / float64(size.Height)

	var p Placement
	if aspect > target {
		p.Width = size.Width
		p.Height = int(math.Round(float64(size.Width) / aspect))
	} else {
		p.Height = size.Height
		p.Width = int(math.Round(float64(size.Height) * aspect))
	}
	p.Width = clamp(p.Width, 1, size.Width)
	p.Height = clamp(p.Height, 1, size.Height)
	p.XOffset = (size.Width - p.Width) / 2
	p.YOffset = (size.Height - p.Height) / 2
	return p
}

// Letterbox returns a size.Width×size.Height RGBA canvas filled black with
// frame resized into its centre.
func Letterbox(frame image.Image, size domain.Size) (canvas *image.RGBA, err error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: target size %s", domain.ErrComposition, size)
	}
	if frame == nil {
		return nil, fmt.Errorf("%w: nil frame", domain.ErrComposition)
	}
	src := frame.Bounds()
	if src.Dx() <= 0 || src.Dy() <= 0 {
		return nil, fmt.Errorf("%w: frame is %dx%d", domain.ErrComposition, src.Dx(), src.Dy())
	}

	defer func() {
		if r := recover(); r != nil {
			canvas, err = nil, fmt.Errorf("%w: %v", domain.ErrComposition, r)
		}
	}()

	p := FitWithin(src.Dx(), src.Dy(), size)
	canvas = image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	dst := image.Rect(p.XOffset, p.YOffset, p.XOffset+p.Width, p.YOffset+p.Height)
	draw.CatmullRom.Scale(canvas, dst, frame, src, draw.Src, nil)
	return canvas, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
