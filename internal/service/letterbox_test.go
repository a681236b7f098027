package service

import (
	"image"
	"image/color"
	"testing"

	"github.com/bnema/vthumb/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidFrame(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		size domain.Size
		want Placement
	}{
		{
			name: "wide frame on 4:3 canvas",
			w:    1920, h: 1080,
			size: domain.Size{Width: 320, Height: 240},
			want: Placement{Width: 320, Height: 180, XOffset: 0, YOffset: 30},
		},
		{
			name: "portrait frame on 4:3 canvas",
			w:    480, h: 640,
			size: domain.Size{Width: 320, Height: 240},
			want: Placement{Width: 180, Height: 240, XOffset: 70, YOffset: 0},
		},
		{
			name: "same aspect fills canvas",
			w:    1280, h: 720,
			size: domain.Size{Width: 320, Height: 180},
			want: Placement{Width: 320, Height: 180},
		},
		{
			name: "4:3 frame on 16:9 canvas",
			w:    640, h: 480,
			size: domain.Size{Width: 320, Height: 180},
			want: Placement{Width: 240, Height: 180, XOffset: 40, YOffset: 0},
		},
		{
			name: "odd padding floors",
			w:    100, h: 99,
			size: domain.Size{Width: 10, Height: 5},
			want: Placement{Width: 5, Height: 5, XOffset: 2, YOffset: 0},
		},
		{
			name: "extreme panorama keeps one row",
			w:    10000, h: 1,
			size: domain.Size{Width: 320, Height: 240},
			want: Placement{Width: 320, Height: 1, XOffset: 0, YOffset: 119},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FitWithin(tt.w, tt.h, tt.size))
		})
	}
}

func TestLetterbox_WideFrame(t *testing.T) {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	frame := solidFrame(192, 108, white)

	canvas, err := Letterbox(frame, domain.Size{Width: 320, Height: 240})

	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 320, 240), canvas.Bounds())

	black := color.RGBA{A: 255}
	assert.Equal(t, black, canvas.RGBAAt(160, 0), "top bar")
	assert.Equal(t, black, canvas.RGBAAt(160, 29), "last row of top bar")
	assert.Equal(t, black, canvas.RGBAAt(160, 239), "bottom bar")
	assert.Equal(t, white, canvas.RGBAAt(160, 120), "centre is the frame")
	assert.Equal(t, white, canvas.RGBAAt(0, 120), "no horizontal padding")
}

func TestLetterbox_PortraitFrame(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	frame := solidFrame(48, 64, red)

	canvas, err := Letterbox(frame, domain.Size{Width: 320, Height: 240})

	require.NoError(t, err)
	black := color.RGBA{A: 255}
	assert.Equal(t, black, canvas.RGBAAt(10, 120), "left bar")
	assert.Equal(t, black, canvas.RGBAAt(69, 120), "left bar edge")
	assert.Equal(t, black, canvas.RGBAAt(300, 120), "right bar")
	assert.Equal(t, red, canvas.RGBAAt(160, 120))
	assert.Equal(t, red, canvas.RGBAAt(160, 0), "no vertical padding")
}

func TestLetterbox_NonZeroOrigin(t *testing.T) {
	green := color.RGBA{G: 255, A: 255}
	full := solidFrame(400, 300, green)
	sub := full.SubImage(image.Rect(100, 100, 260, 190))

	canvas, err := Letterbox(sub, domain.Size{Width: 320, Height: 180})

	require.NoError(t, err)
	assert.Equal(t, green, canvas.RGBAAt(160, 90))
}

func TestLetterbox_Errors(t *testing.T) {
	_, err := Letterbox(nil, domain.Size{Width: 320, Height: 240})
	assert.ErrorIs(t, err, domain.ErrComposition)

	_, err = Letterbox(image.NewRGBA(image.Rect(0, 0, 0, 10)), domain.Size{Width: 320, Height: 240})
	assert.ErrorIs(t, err, domain.ErrComposition)

	_, err = Letterbox(solidFrame(4, 4, color.White), domain.Size{})
	assert.ErrorIs(t, err, domain.ErrComposition)
}
