package uniform

import (
	"fmt"
	"image"
)

// Image is a CPU-side RGBA pixel buffer. Exactly one of Pix (8-bit) or
// FloatPix (32-bit float) is populated; both hold Width*Height*4 components
// with rows in GL order, bottom row first. Pass outputs always use Pix;
// externally supplied textures may use either. Treated as immutable once
// produced.
type Image struct {
	Width    int
	Height   int
	Pix      []uint8
	FloatPix []float32
}

// New allocates a zeroed 8-bit image.
func New(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// NewFloat allocates a zeroed float image.
func NewFloat(width, height int) *Image {
	return &Image{
		Width:    width,
		Height:   height,
		FloatPix: make([]float32, width*height*4),
	}
}

// FromRGBA copies src into an Image, dropping any row padding the stdlib
// stride may carry. Row order is preserved; callers that need GL row order
// flip afterwards.
func FromRGBA(src *image.RGBA) *Image {
	bounds := src.Bounds()
	m := New(bounds.Dx(), bounds.Dy())
	rowSize := m.Width * 4
	for y := 0; y < m.Height; y++ {
		copy(m.Pix[y*rowSize:(y+1)*rowSize], src.Pix[y*src.Stride:])
	}
	return m
}

// ToRGBA converts to a stdlib image, preserving row order. Float components
// are clamped to [0,1] and quantized.
func (m *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
	if m.FloatPix != nil {
		for i, c := range m.FloatPix {
			if c < 0 {
				c = 0
			} else if c > 1 {
				c = 1
			}
			out.Pix[i] = uint8(c*255 + 0.5)
		}
		return out
	}
	rowSize := m.Width * 4
	for y := 0; y < m.Height; y++ {
		copy(out.Pix[y*out.Stride:], m.Pix[y*rowSize:(y+1)*rowSize])
	}
	return out
}

// FlipVertical returns a copy with the row order reversed.
func (m *Image) FlipVertical() *Image {
	flipped := &Image{Width: m.Width, Height: m.Height}
	rowSize := m.Width * 4
	if m.FloatPix != nil {
		flipped.FloatPix = make([]float32, len(m.FloatPix))
		for y := 0; y < m.Height; y++ {
			srcRow := m.FloatPix[(m.Height-1-y)*rowSize:]
			copy(flipped.FloatPix[y*rowSize:], srcRow[:rowSize])
		}
		return flipped
	}
	flipped.Pix = make([]uint8, len(m.Pix))
	for y := 0; y < m.Height; y++ {
		srcRow := m.Pix[(m.Height-1-y)*rowSize:]
		copy(flipped.Pix[y*rowSize:], srcRow[:rowSize])
	}
	return flipped
}

// Validate checks the dimensions against the populated buffer.
func (m *Image) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("image has invalid dimensions %dx%d", m.Width, m.Height)
	}
	n := m.Width * m.Height * 4
	switch {
	case m.Pix == nil && m.FloatPix == nil:
		return fmt.Errorf("image has no pixel buffer")
	case m.Pix != nil && m.FloatPix != nil:
		return fmt.Errorf("image has both byte and float pixel buffers")
	case m.Pix != nil && len(m.Pix) != n:
		return fmt.Errorf("image pixel buffer has %d bytes, want %d", len(m.Pix), n)
	case m.FloatPix != nil && len(m.FloatPix) != n:
		return fmt.Errorf("image float buffer has %d components, want %d", len(m.FloatPix), n)
	}
	return nil
}
