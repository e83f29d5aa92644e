package shader

import (
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/richinsley/goshaderpipe/graphics"
)

// DefaultVertexShader draws the full-screen quad. Fragment shaders receive
// the interpolated texture coordinate as frag_uv.
const DefaultVertexShader = `#version 410 core
in vec2 Position;
in vec2 UV;
out vec2 frag_uv;
void main() {
    frag_uv = UV;
    gl_Position = vec4(Position, 0.0, 1.0);
}
`

// DefaultVertexShaderES is the GLES variant for ES 3.0 contexts such as the
// headless EGL backend.
const DefaultVertexShaderES = `#version 300 es
in vec2 Position;
in vec2 UV;
out vec2 frag_uv;
void main() {
    frag_uv = UV;
    gl_Position = vec4(Position, 0.0, 1.0);
}
`

// DefaultVertexShaderFor selects the default vertex shader for the context
// kind.
func DefaultVertexShaderFor(es bool) string {
	if es {
		return DefaultVertexShaderES
	}
	return DefaultVertexShader
}

// Stage identifies a shader compilation stage.
type Stage string

const (
	StageVertex   Stage = "vertex"
	StageFragment Stage = "fragment"
)

func (s Stage) glEnum() uint32 {
	switch s {
	case StageVertex:
		return gl.VERTEX_SHADER
	case StageFragment:
		return gl.FRAGMENT_SHADER
	}
	return 0
}

// Compile compiles a single stage and returns its shader object. The object
// is deleted again if the driver rejects the source.
func Compile(source string, stage Stage) (uint32, error) {
	shader := gl.CreateShader(stage.glEnum())
	if shader == 0 {
		return 0, &graphics.ResourceError{Object: "shader"}
	}
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, &CompileError{Stage: stage, Log: strings.TrimRight(logText, "\x00")}
	}
	return shader, nil
}

// NewProgram compiles both stages and links them into a program. The stage
// objects are released once linked; the caller owns the returned program.
func NewProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := Compile(vertexSource, StageVertex)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := Compile(fragmentSource, StageFragment)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	if program == 0 {
		gl.DeleteShader(vertexShader)
		gl.DeleteShader(fragmentShader)
		return 0, &graphics.ResourceError{Object: "program"}
	}
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
		gl.DeleteShader(vertexShader)
		gl.DeleteShader(fragmentShader)
		gl.DeleteProgram(program)
		return 0, &LinkError{Log: strings.TrimRight(logText, "\x00")}
	}

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return program, nil
}
