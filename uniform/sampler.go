package uniform

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// Filter selects texture minification and magnification filtering.
type Filter string

// Wrap selects texture addressing outside the [0,1] coordinate range.
type Wrap string

const (
	FilterLinear  Filter = "linear"
	FilterNearest Filter = "nearest"

	WrapClamp  Wrap = "clamp"
	WrapRepeat Wrap = "repeat"
	WrapMirror Wrap = "mirror"
)

// Sampler describes how a texture-bearing uniform is sampled. The zero value
// selects linear filtering with repeat addressing.
type Sampler struct {
	Filter Filter
	Wrap   Wrap
}

// Helper to convert the wrap mode to its OpenGL constant.
func (s Sampler) wrapMode() int32 {
	switch s.Wrap {
	case WrapClamp:
		return gl.CLAMP_TO_EDGE
	case WrapMirror:
		return gl.MIRRORED_REPEAT
	default:
		return gl.REPEAT
	}
}

// Helper to convert the filter mode to its OpenGL constant, applied to both
// minification and magnification.
func (s Sampler) filterMode() int32 {
	switch s.Filter {
	case FilterNearest:
		return gl.NEAREST
	default:
		return gl.LINEAR
	}
}
