package ir

import (
	"fmt"
	"image"
	"image/color"
)

// MaxChannelValue is the largest max-value a plain PPM header may declare.
const MaxChannelValue = 65535

// Image is a flat, channel-interleaved RGB pixel buffer decoded from a plain
// (P3) PPM file. Channels holds exactly Width*Height*3 values in row-major
// order, red/green/blue repeating per pixel, each in [0, MaxValue].
type Image struct {
	Width    int
	Height   int
	MaxValue int32
	Channels []int32
}

// New allocates a zeroed image buffer of the given shape.
func New(width, height int, maxValue int32) *Image {
	return &Image{
		Width:    width,
		Height:   height,
		MaxValue: maxValue,
		Channels: make([]int32, width*height*3),
	}
}

// Index maps pixel coordinates and a channel to the flat buffer offset.
// The mapping (y*Width+x)*3+c is shared by the parser, filter and writer.
func (im *Image) Index(x, y, c int) int {
	return (y*im.Width+x)*3 + c
}

// Validate re-checks the buffer invariants: shape, declared max-value range
// and every channel value within [0, MaxValue].
func (im *Image) Validate() error {
	if im.Width <= 0 || im.Height <= 0 {
		return fmt.Errorf("image bounds invalid (%d x %d)", im.Width, im.Height)
	}
	if im.MaxValue < 1 || im.MaxValue > MaxChannelValue {
		return fmt.Errorf("image max value %d outside [1, %d]", im.MaxValue, MaxChannelValue)
	}
	if want := im.Width * im.Height * 3; len(im.Channels) != want {
		return fmt.Errorf("channel buffer length %d, want %d", len(im.Channels), want)
	}
	for i, v := range im.Channels {
		if v < 0 || v > im.MaxValue {
			return fmt.Errorf("channel value %d at offset %d outside [0, %d]", v, i, im.MaxValue)
		}
	}
	return nil
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ColorModel implements image.Image.
func (im *Image) ColorModel() color.Model { return color.RGBA64Model }

// Bounds implements image.Image.
func (im *Image) Bounds() image.Rectangle { return image.Rect(0, 0, im.Width, im.Height) }

// At implements image.Image, scaling channel values to the full 16-bit range.
func (im *Image) At(x, y int) color.Color {
	if x < 0 || x >= im.Width || y < 0 || y >= im.Height {
		return color.RGBA64{}
	}
	i := im.Index(x, y, 0)
	scale := func(v int32) uint16 {
		return uint16(int64(v) * 0xffff / int64(im.MaxValue))
	}
	return color.RGBA64{
		R: scale(im.Channels[i]),
		G: scale(im.Channels[i+1]),
		B: scale(im.Channels[i+2]),
		A: 0xffff,
	}
}
