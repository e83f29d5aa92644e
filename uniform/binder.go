package uniform

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/richinsley/goshaderpipe/graphics"
)

// Binder assigns uniform values to one linked program, handing out texture
// slots in bind order. One Binder serves exactly one pass execution; the
// slot counter is shared across every uniform it binds.
type Binder struct {
	program  uint32
	prior    map[string]*Image
	limit    int
	nextUnit int
	textures []uint32
}

// NewBinder returns a binder for program. prior maps earlier pass names to
// their rendered output; maxUnits caps the texture slots this pass may use.
func NewBinder(program uint32, prior map[string]*Image, maxUnits int) *Binder {
	return &Binder{program: program, prior: prior, limit: maxUnits}
}

// Bind assigns u to its location in the program. A name the program does not
// use resolves to location -1, which GL treats as a no-op assignment; that
// tolerance is deliberate. Texture-bearing values consume a slot whether or
// not the name resolved.
func (b *Binder) Bind(u Uniform) error {
	if u.Value == nil {
		return &InvalidTypeError{Tag: "<nil>"}
	}
	loc := gl.GetUniformLocation(b.program, gl.Str(u.Name+"\x00"))
	return u.Value.bind(b, loc)
}

// Textures returns the texture objects created so far. The pass executor
// owns their deletion during teardown.
func (b *Binder) Textures() []uint32 {
	return b.textures
}

func (b *Binder) takeUnit() (int32, error) {
	if b.nextUnit >= b.limit {
		return 0, &TooManyTexturesError{Limit: b.limit}
	}
	unit := b.nextUnit
	b.nextUnit++
	return int32(unit), nil
}

// bindTexture uploads img as a new texture object on the next free slot and
// points the sampler uniform at that slot.
func (b *Binder) bindTexture(img *Image, sampler Sampler, loc int32) error {
	if img == nil {
		return fmt.Errorf("texture has no image")
	}
	if err := img.Validate(); err != nil {
		return err
	}
	unit, err := b.takeUnit()
	if err != nil {
		return err
	}

	var textureID uint32
	gl.GenTextures(1, &textureID)
	if textureID == 0 {
		return &graphics.ResourceError{Object: "texture"}
	}
	b.textures = append(b.textures, textureID)

	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, sampler.wrapMode())
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, sampler.wrapMode())
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, sampler.filterMode())
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, sampler.filterMode())

	if img.FloatPix != nil {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F, int32(img.Width), int32(img.Height),
			0, gl.RGBA, gl.FLOAT, gl.Ptr(img.FloatPix))
	} else {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(img.Width), int32(img.Height),
			0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	}

	gl.Uniform1i(loc, unit)
	return nil
}

func (v Float) bind(b *Binder, loc int32) error {
	gl.Uniform1f(loc, float32(v))
	return nil
}

func (v Int) bind(b *Binder, loc int32) error {
	gl.Uniform1i(loc, int32(v))
	return nil
}

func (v Vec2) bind(b *Binder, loc int32) error {
	gl.Uniform2f(loc, v[0], v[1])
	return nil
}

func (v Vec3) bind(b *Binder, loc int32) error {
	gl.Uniform3f(loc, v[0], v[1], v[2])
	return nil
}

func (v Vec4) bind(b *Binder, loc int32) error {
	gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
	return nil
}

func (v IVec2) bind(b *Binder, loc int32) error {
	gl.Uniform2i(loc, v[0], v[1])
	return nil
}

func (v IVec3) bind(b *Binder, loc int32) error {
	gl.Uniform3i(loc, v[0], v[1], v[2])
	return nil
}

func (v IVec4) bind(b *Binder, loc int32) error {
	gl.Uniform4i(loc, v[0], v[1], v[2], v[3])
	return nil
}

func (v Mat2) bind(b *Binder, loc int32) error {
	gl.UniformMatrix2fv(loc, 1, false, &v[0])
	return nil
}

func (v Mat3) bind(b *Binder, loc int32) error {
	gl.UniformMatrix3fv(loc, 1, false, &v[0])
	return nil
}

func (v Mat4) bind(b *Binder, loc int32) error {
	gl.UniformMatrix4fv(loc, 1, false, &v[0])
	return nil
}

func (v FloatArray) bind(b *Binder, loc int32) error {
	if len(v) == 0 {
		return nil
	}
	gl.Uniform1fv(loc, int32(len(v)), &v[0])
	return nil
}

func (v IntArray) bind(b *Binder, loc int32) error {
	if len(v) == 0 {
		return nil
	}
	gl.Uniform1iv(loc, int32(len(v)), &v[0])
	return nil
}

func (v Texture2D) bind(b *Binder, loc int32) error {
	return b.bindTexture(v.Image, v.Sampler, loc)
}

func (v PassRef) bind(b *Binder, loc int32) error {
	img, ok := b.prior[v.Pass]
	if !ok {
		return &UnresolvedPassError{Pass: v.Pass}
	}
	return b.bindTexture(img, v.Sampler, loc)
}
