package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is a thumbnail canvas in pixels.
type Size struct {
	Width  int
	Height int
}

func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// ParseSize reads "WxH".
func ParseSize(v string) (Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(v)), "x")
	if !ok {
		return Size{}, fmt.Errorf("size %q: want WIDTHxHEIGHT", v)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return Size{}, fmt.Errorf("size %q: width: %w", v, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return Size{}, fmt.Errorf("size %q: height: %w", v, err)
	}
	s := Size{Width: width, Height: height}
	if !s.Valid() {
		return Size{}, fmt.Errorf("size %q: dimensions must be positive", v)
	}
	return s, nil
}
