package renderer

import (
	"fmt"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/richinsley/goshaderpipe/shader"
	"github.com/richinsley/goshaderpipe/uniform"
)

var glInitOnce sync.Once

// quadVertices interleaves position and texture coordinates for a triangle
// strip covering the whole normalized device rectangle.
var quadVertices = []float32{
	-1.0, -1.0, 0.0, 0.0,
	1.0, -1.0, 1.0, 0.0,
	-1.0, 1.0, 0.0, 1.0,
	1.0, 1.0, 1.0, 1.0,
}

// execute runs one pass. Validation happens before the context is acquired,
// so a rejected pass performs no GPU work at all.
func (p *Pipeline) execute(pass *Pass, prior Results) (*uniform.Image, error) {
	if pass.Width <= 0 || pass.Height <= 0 {
		return nil, &InvalidDimensionsError{Width: pass.Width, Height: pass.Height}
	}
	if pass.FragmentSource == "" {
		return nil, &MissingShaderError{}
	}
	// A pass may only reference outputs that already rendered; the current
	// pass is not in prior yet, so self-references fail here too.
	for _, u := range pass.Uniforms {
		if ref, ok := u.Value.(uniform.PassRef); ok {
			if _, rendered := prior[ref.Pass]; !rendered {
				return nil, &uniform.UnresolvedPassError{Pass: ref.Pass}
			}
		}
	}

	ctx, err := p.factory.Acquire(pass.Width, pass.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire context: %w", err)
	}
	defer ctx.Destroy()
	ctx.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}

	return drawPass(pass, prior, p.maxUnits)
}

// passResources tracks the GL objects one pass creates so teardown runs on
// every exit path before the context goes away.
type passResources struct {
	target  *renderTarget
	program uint32
	vao     uint32
	vbo     uint32
	binder  *uniform.Binder
}

func (r *passResources) release() {
	if r.binder != nil {
		if textures := r.binder.Textures(); len(textures) > 0 {
			gl.DeleteTextures(int32(len(textures)), &textures[0])
		}
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
	if r.target != nil {
		r.target.destroy()
	}
}

// drawPass owns the GL side of one pass: render target, program, quad,
// uniforms, draw and readback. The context is already current.
func drawPass(pass *Pass, prior Results, maxUnits int) (*uniform.Image, error) {
	res := &passResources{}
	defer res.release()

	target, err := newRenderTarget(pass.Width, pass.Height)
	if err != nil {
		return nil, err
	}
	res.target = target

	vertexSource := pass.VertexSource
	if vertexSource == "" {
		vertexSource = shader.DefaultVertexShader
	}
	program, err := shader.NewProgram(vertexSource, pass.FragmentSource)
	if err != nil {
		return nil, err
	}
	res.program = program
	gl.UseProgram(program)

	uploadQuad(res, program)

	gl.BindFramebuffer(gl.FRAMEBUFFER, target.fbo)
	gl.Viewport(0, 0, int32(pass.Width), int32(pass.Height))
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	binder := uniform.NewBinder(program, prior, maxUnits)
	res.binder = binder
	for _, u := range pass.Uniforms {
		if err := binder.Bind(u); err != nil {
			return nil, fmt.Errorf("uniform %q: %w", u.Name, err)
		}
	}

	gl.BindVertexArray(res.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)

	pix := make([]uint8, pass.Width*pass.Height*4)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, target.fbo)
	gl.ReadPixels(0, 0, int32(pass.Width), int32(pass.Height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))

	return &uniform.Image{Width: pass.Width, Height: pass.Height, Pix: pix}, nil
}

// uploadQuad uploads the full-screen strip and wires the Position and UV
// attributes by name. A custom vertex shader may use either or both.
func uploadQuad(res *passResources, program uint32) {
	gl.GenVertexArrays(1, &res.vao)
	gl.GenBuffers(1, &res.vbo)
	gl.BindVertexArray(res.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, res.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	if loc := gl.GetAttribLocation(program, gl.Str("Position\x00")); loc != -1 {
		gl.EnableVertexAttribArray(uint32(loc))
		gl.VertexAttribPointer(uint32(loc), 2, gl.FLOAT, false, 4*4, gl.PtrOffset(0))
	}
	if loc := gl.GetAttribLocation(program, gl.Str("UV\x00")); loc != -1 {
		gl.EnableVertexAttribArray(uint32(loc))
		gl.VertexAttribPointer(uint32(loc), 2, gl.FLOAT, false, 4*4, gl.PtrOffset(2*4))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}
