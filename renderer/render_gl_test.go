package renderer

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/goshaderpipe/glfwcontext"
	"github.com/richinsley/goshaderpipe/shader"
	"github.com/richinsley/goshaderpipe/uniform"
)

var glfwSetup sync.Once

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	var err error
	glfwSetup.Do(func() {
		err = glfwcontext.Init()
	})
	require.NoError(t, err)
	return New(glfwcontext.New(), 0)
}

const redFragment = `#version 410 core
out vec4 fragColor;
void main() { fragColor = vec4(1.0, 0.0, 0.0, 1.0); }`

const gradientFragment = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
void main() { fragColor = vec4(frag_uv, 0.25, 1.0); }`

const copyFragment = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D source;
void main() { fragColor = texture(source, frag_uv); }`

func TestRenderConstantColor(t *testing.T) {
	t.Skip("Need software GPU on CI")
	p := newTestPipeline(t)

	results, err := p.Render([]Pass{{Name: "red", FragmentSource: redFragment, Width: 2, Height: 2}})
	require.NoError(t, err)

	img := results["red"]
	require.NotNil(t, img)
	assert.Equal(t, 2, img.Width)
	assert.Equal(t, 2, img.Height)
	require.Len(t, img.Pix, 2*2*4)
	for i := 0; i < len(img.Pix); i += 4 {
		assert.Equal(t, []uint8{255, 0, 0, 255}, img.Pix[i:i+4])
	}
}

func TestRenderPassReferenceRoundTrip(t *testing.T) {
	t.Skip("Need software GPU on CI")
	p := newTestPipeline(t)

	// Nearest filtering at matching sizes samples texel centers exactly, so
	// the copy must be byte-identical.
	results, err := p.Render([]Pass{
		{Name: "first", FragmentSource: gradientFragment, Width: 16, Height: 16},
		{
			Name:           "second",
			FragmentSource: copyFragment,
			Width:          16,
			Height:         16,
			Uniforms: []uniform.Uniform{
				{Name: "source", Value: uniform.PassRef{
					Pass:    "first",
					Sampler: uniform.Sampler{Filter: uniform.FilterNearest, Wrap: uniform.WrapClamp},
				}},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, results["first"].Pix, results["second"].Pix)
}

func TestRenderTooManyTextures(t *testing.T) {
	t.Skip("Need software GPU on CI")
	p := newTestPipeline(t)

	var uniforms []uniform.Uniform
	for i := 0; i < DefaultMaxTextureUnits+1; i++ {
		uniforms = append(uniforms, uniform.Uniform{
			Name:  fmt.Sprintf("tex%d", i),
			Value: uniform.Texture2D{Image: uniform.New(2, 2)},
		})
	}

	_, err := p.Render([]Pass{{
		Name:           "crowded",
		FragmentSource: redFragment,
		Width:          2,
		Height:         2,
		Uniforms:       uniforms,
	}})

	var limitErr *uniform.TooManyTexturesError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, DefaultMaxTextureUnits, limitErr.Limit)
}

func TestRenderIgnoresUnknownUniformNames(t *testing.T) {
	t.Skip("Need software GPU on CI")
	p := newTestPipeline(t)

	results, err := p.Render([]Pass{{
		Name:           "tolerant",
		FragmentSource: redFragment,
		Width:          2,
		Height:         2,
		Uniforms: []uniform.Uniform{
			{Name: "nobody_reads_this", Value: uniform.Float(3.5)},
			{Name: "likewise", Value: uniform.Texture2D{Image: uniform.New(2, 2)}},
		},
	}})
	require.NoError(t, err)
	assert.NotNil(t, results["tolerant"])
}

func TestRenderReportsCompileError(t *testing.T) {
	t.Skip("Need software GPU on CI")
	p := newTestPipeline(t)

	_, err := p.Render([]Pass{{Name: "broken", FragmentSource: "this is not glsl", Width: 2, Height: 2}})

	var compile *shader.CompileError
	require.True(t, errors.As(err, &compile))
	assert.Equal(t, shader.StageFragment, compile.Stage)
	assert.NotEmpty(t, compile.Log)
}
