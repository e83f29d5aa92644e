package renderer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/richinsley/goshaderpipe/graphics"
	"github.com/richinsley/goshaderpipe/uniform"
)

// countingFactory records acquisitions and refuses them, which proves that
// rejected passes never reach the GPU.
type countingFactory struct {
	acquired int
}

func (f *countingFactory) Acquire(width, height int) (graphics.Context, error) {
	f.acquired++
	return nil, fmt.Errorf("no context in tests")
}

const testFragment = `#version 410 core
out vec4 fragColor;
void main() { fragColor = vec4(1.0); }`

func TestRenderRejectsDuplicateNames(t *testing.T) {
	f := &countingFactory{}
	p := New(f, 0)

	_, err := p.Render([]Pass{
		{Name: "a", FragmentSource: testFragment, Width: 4, Height: 4},
		{Name: "a", FragmentSource: testFragment, Width: 4, Height: 4},
	})

	var dup *DuplicatePassError
	assert.True(t, errors.As(err, &dup))
	assert.Equal(t, "a", dup.Name)
	assert.Equal(t, 0, f.acquired)
}

func TestRenderRejectsBadDimensions(t *testing.T) {
	f := &countingFactory{}
	p := New(f, 0)

	for _, pass := range []Pass{
		{Name: "zero", FragmentSource: testFragment, Width: 0, Height: 4},
		{Name: "negative", FragmentSource: testFragment, Width: 4, Height: -1},
	} {
		_, err := p.Render([]Pass{pass})
		var dims *InvalidDimensionsError
		assert.True(t, errors.As(err, &dims))
	}
	assert.Equal(t, 0, f.acquired)
}

func TestRenderRejectsMissingShader(t *testing.T) {
	f := &countingFactory{}
	p := New(f, 0)

	_, err := p.Render([]Pass{{Name: "empty", Width: 4, Height: 4}})

	var missing *MissingShaderError
	assert.True(t, errors.As(err, &missing))
	assert.Equal(t, 0, f.acquired)
}

func TestRenderRejectsUnresolvedReference(t *testing.T) {
	f := &countingFactory{}
	p := New(f, 0)

	_, err := p.Render([]Pass{{
		Name:           "b",
		FragmentSource: testFragment,
		Width:          4,
		Height:         4,
		Uniforms: []uniform.Uniform{
			{Name: "tex", Value: uniform.PassRef{Pass: "a"}},
		},
	}})

	var unresolved *uniform.UnresolvedPassError
	assert.True(t, errors.As(err, &unresolved))
	assert.Equal(t, "a", unresolved.Pass)
	assert.Equal(t, 0, f.acquired)
}

func TestRenderRejectsSelfReference(t *testing.T) {
	f := &countingFactory{}
	p := New(f, 0)

	_, err := p.Render([]Pass{{
		Name:           "loop",
		FragmentSource: testFragment,
		Width:          4,
		Height:         4,
		Uniforms: []uniform.Uniform{
			{Name: "tex", Value: uniform.PassRef{Pass: "loop"}},
		},
	}})

	var unresolved *uniform.UnresolvedPassError
	assert.True(t, errors.As(err, &unresolved))
	assert.Equal(t, 0, f.acquired)
}

func TestRenderErrorNamesPass(t *testing.T) {
	f := &countingFactory{}
	p := New(f, 0)

	_, err := p.Render([]Pass{{Name: "broken", FragmentSource: testFragment, Width: -2, Height: 4}})
	assert.ErrorContains(t, err, `pass "broken"`)
}

func TestRenderAcquiresAfterValidation(t *testing.T) {
	f := &countingFactory{}
	p := New(f, 0)

	_, err := p.Render([]Pass{{Name: "ok", FragmentSource: testFragment, Width: 4, Height: 4}})
	assert.ErrorContains(t, err, "failed to acquire context")
	assert.Equal(t, 1, f.acquired)
}

func TestMaxTextureUnits(t *testing.T) {
	f := &countingFactory{}
	assert.Equal(t, DefaultMaxTextureUnits, New(f, 0).MaxTextureUnits())
	assert.Equal(t, DefaultMaxTextureUnits, New(f, -3).MaxTextureUnits())
	assert.Equal(t, 4, New(f, 4).MaxTextureUnits())
}
