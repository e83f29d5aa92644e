package renderer

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/richinsley/goshaderpipe/graphics"
)

// renderTarget is the exactly-sized framebuffer a pass draws into. Window
// drawables can differ from the requested size on scaled displays; an FBO
// with its own color texture never does.
type renderTarget struct {
	fbo       uint32
	textureID uint32
}

func newRenderTarget(width, height int) (*renderTarget, error) {
	t := &renderTarget{}
	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.GenTextures(1, &t.textureID)
	gl.BindTexture(gl.TEXTURE_2D, t.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height),
		0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.textureID, 0)
	if gl.CheckFramebufferStatus(gl.FRAMEBUFFER) != gl.FRAMEBUFFER_COMPLETE {
		t.destroy()
		return nil, &graphics.ResourceError{Object: "framebuffer"}
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

func (t *renderTarget) destroy() {
	gl.DeleteTextures(1, &t.textureID)
	gl.DeleteFramebuffers(1, &t.fbo)
}
