package uniform

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageBufferSize(t *testing.T) {
	img := New(7, 5)
	assert.Equal(t, 7*5*4, len(img.Pix))
	assert.NoError(t, img.Validate())

	fimg := NewFloat(7, 5)
	assert.Equal(t, 7*5*4, len(fimg.FloatPix))
	assert.NoError(t, fimg.Validate())
}

func TestImageValidate(t *testing.T) {
	assert.Error(t, (&Image{Width: 0, Height: 2, Pix: []uint8{}}).Validate())
	assert.Error(t, (&Image{Width: 2, Height: -1, Pix: []uint8{}}).Validate())

	// No buffer at all.
	assert.Error(t, (&Image{Width: 2, Height: 2}).Validate())

	// Both buffers at once.
	both := &Image{Width: 1, Height: 1, Pix: make([]uint8, 4), FloatPix: make([]float32, 4)}
	assert.Error(t, both.Validate())

	// Buffer length must match the dimensions exactly.
	assert.Error(t, (&Image{Width: 2, Height: 2, Pix: make([]uint8, 15)}).Validate())
	assert.Error(t, (&Image{Width: 2, Height: 2, FloatPix: make([]float32, 17)}).Validate())
}

func TestFlipVertical(t *testing.T) {
	img := New(1, 2)
	copy(img.Pix[0:4], []uint8{1, 2, 3, 4})
	copy(img.Pix[4:8], []uint8{5, 6, 7, 8})

	flipped := img.FlipVertical()
	assert.Equal(t, []uint8{5, 6, 7, 8}, flipped.Pix[0:4])
	assert.Equal(t, []uint8{1, 2, 3, 4}, flipped.Pix[4:8])

	// The original is untouched and a double flip restores it.
	assert.Equal(t, uint8(1), img.Pix[0])
	assert.Equal(t, img.Pix, flipped.FlipVertical().Pix)
}

func TestFlipVerticalFloat(t *testing.T) {
	img := NewFloat(1, 2)
	img.FloatPix[0] = 0.25
	img.FloatPix[4] = 0.75

	flipped := img.FlipVertical()
	assert.Equal(t, float32(0.75), flipped.FloatPix[0])
	assert.Equal(t, float32(0.25), flipped.FloatPix[4])
}

func TestFromRGBARoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 7)
	}

	img := FromRGBA(src)
	assert.NoError(t, img.Validate())
	assert.Equal(t, src.Pix, img.ToRGBA().Pix)
}

func TestToRGBAClampsFloat(t *testing.T) {
	img := NewFloat(1, 1)
	img.FloatPix[0] = -0.5
	img.FloatPix[1] = 0.5
	img.FloatPix[2] = 2.0
	img.FloatPix[3] = 1.0

	out := img.ToRGBA()
	assert.Equal(t, []uint8{0, 128, 255, 255}, out.Pix)
}
