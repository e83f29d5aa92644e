package shader

import (
	"strings"
	"testing"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/stretchr/testify/assert"
)

func TestStageGLEnum(t *testing.T) {
	assert.Equal(t, uint32(gl.VERTEX_SHADER), StageVertex.glEnum())
	assert.Equal(t, uint32(gl.FRAGMENT_SHADER), StageFragment.glEnum())
	assert.Equal(t, uint32(0), Stage("tessellation").glEnum())
}

func TestDefaultVertexShaderAttributes(t *testing.T) {
	// The quad uploader wires these attribute names; the fragment interface
	// is the frag_uv varying.
	for _, src := range []string{DefaultVertexShader, DefaultVertexShaderES} {
		assert.True(t, strings.Contains(src, "in vec2 Position;"))
		assert.True(t, strings.Contains(src, "in vec2 UV;"))
		assert.True(t, strings.Contains(src, "out vec2 frag_uv;"))
	}
	assert.True(t, strings.HasPrefix(DefaultVertexShader, "#version 410 core"))
	assert.True(t, strings.HasPrefix(DefaultVertexShaderES, "#version 300 es"))
}

func TestDefaultVertexShaderFor(t *testing.T) {
	assert.Equal(t, DefaultVertexShader, DefaultVertexShaderFor(false))
	assert.Equal(t, DefaultVertexShaderES, DefaultVertexShaderFor(true))
}

func TestErrorMessages(t *testing.T) {
	compile := &CompileError{Stage: StageFragment, Log: "0:1: syntax error"}
	assert.Equal(t, `shader: failed to compile fragment stage: 0:1: syntax error`, compile.Error())

	link := &LinkError{Log: "missing entry point"}
	assert.Equal(t, `shader: failed to link program: missing entry point`, link.Error())
}
