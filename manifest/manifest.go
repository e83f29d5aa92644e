// Package manifest loads render pass descriptions from JSON documents.
// A document names each pass, its output size, its shader sources (inline or
// by file reference) and its uniforms, including texture files, audio sample
// files and references to earlier passes.
package manifest

import (
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"strings"

	// Blank imports for image decoders so image.Decode can handle them.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/richinsley/goshaderpipe/audiotex"
	"github.com/richinsley/goshaderpipe/renderer"
	"github.com/richinsley/goshaderpipe/translator"
	"github.com/richinsley/goshaderpipe/uniform"
)

// Document is the top-level manifest structure.
type Document struct {
	Passes []Pass `json:"passes"`
}

// Pass describes one render pass. Shader sources may be inline or loaded
// from files resolved against the document's directory.
type Pass struct {
	Name         string    `json:"name"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Fragment     string    `json:"fragment,omitempty"`
	FragmentFile string    `json:"fragmentfile,omitempty"`
	Vertex       string    `json:"vertex,omitempty"`
	VertexFile   string    `json:"vertexfile,omitempty"`
	Uniforms     []Uniform `json:"uniforms,omitempty"`
}

// Uniform describes one uniform input. Value carries the literal for scalar,
// vector, matrix, array and pass kinds; File names the source for texture
// and audio kinds.
type Uniform struct {
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Value  json.RawMessage `json:"value,omitempty"`
	File   string          `json:"file,omitempty"`
	Filter string          `json:"filter,omitempty"`
	Wrap   string          `json:"wrap,omitempty"`
	VFlip  *bool           `json:"vflip,omitempty"`
}

// Load reads a manifest file and builds the passes it describes. When
// translate is true, fragment sources are treated as WebGL2 GLSL and run
// through the shader translator; es selects ESSL output for ES contexts.
func Load(path string, translate, es bool) ([]renderer.Pass, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data, filepath.Dir(path), translate, es)
}

// Parse builds passes from raw manifest JSON. baseDir anchors relative file
// references.
func Parse(data []byte, baseDir string, translate, es bool) ([]renderer.Pass, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode manifest JSON: %w", err)
	}
	if len(doc.Passes) == 0 {
		return nil, fmt.Errorf("manifest has no passes")
	}

	passes := make([]renderer.Pass, 0, len(doc.Passes))
	for i := range doc.Passes {
		p, err := buildPass(&doc.Passes[i], baseDir, translate, es)
		if err != nil {
			return nil, err
		}
		passes = append(passes, p)
	}
	return passes, nil
}

func buildPass(doc *Pass, baseDir string, translate, es bool) (renderer.Pass, error) {
	out := renderer.Pass{
		Name:   doc.Name,
		Width:  doc.Width,
		Height: doc.Height,
	}

	frag, err := loadSource(doc.Fragment, doc.FragmentFile, baseDir)
	if err != nil {
		return out, fmt.Errorf("pass %q: %w", doc.Name, err)
	}
	if translate && frag != "" {
		frag, err = translator.TranslateFragment(frag, es)
		if err != nil {
			return out, fmt.Errorf("pass %q: %w", doc.Name, err)
		}
	}
	out.FragmentSource = frag

	vert, err := loadSource(doc.Vertex, doc.VertexFile, baseDir)
	if err != nil {
		return out, fmt.Errorf("pass %q: %w", doc.Name, err)
	}
	out.VertexSource = vert

	for i := range doc.Uniforms {
		u := &doc.Uniforms[i]
		value, err := buildUniform(u, baseDir)
		if err != nil {
			return out, fmt.Errorf("pass %q uniform %q: %w", doc.Name, u.Name, err)
		}
		out.Uniforms = append(out.Uniforms, uniform.Uniform{Name: u.Name, Value: value})
	}
	return out, nil
}

func loadSource(inline, file, baseDir string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if file == "" {
		return "", nil
	}
	data, err := os.ReadFile(resolve(baseDir, file))
	if err != nil {
		return "", fmt.Errorf("failed to read shader file: %w", err)
	}
	return string(data), nil
}

func buildUniform(doc *Uniform, baseDir string) (uniform.Value, error) {
	switch doc.Type {
	case "float":
		var v float32
		if err := json.Unmarshal(doc.Value, &v); err != nil {
			return nil, fmt.Errorf("bad float value: %w", err)
		}
		return uniform.Float(v), nil
	case "int":
		var v int32
		if err := json.Unmarshal(doc.Value, &v); err != nil {
			return nil, fmt.Errorf("bad int value: %w", err)
		}
		return uniform.Int(v), nil
	case "vec2":
		var m uniform.Vec2
		if err := fillFloats(doc.Value, m[:]); err != nil {
			return nil, err
		}
		return m, nil
	case "vec3":
		var m uniform.Vec3
		if err := fillFloats(doc.Value, m[:]); err != nil {
			return nil, err
		}
		return m, nil
	case "vec4":
		var m uniform.Vec4
		if err := fillFloats(doc.Value, m[:]); err != nil {
			return nil, err
		}
		return m, nil
	case "ivec2":
		var m uniform.IVec2
		if err := fillInts(doc.Value, m[:]); err != nil {
			return nil, err
		}
		return m, nil
	case "ivec3":
		var m uniform.IVec3
		if err := fillInts(doc.Value, m[:]); err != nil {
			return nil, err
		}
		return m, nil
	case "ivec4":
		var m uniform.IVec4
		if err := fillInts(doc.Value, m[:]); err != nil {
			return nil, err
		}
		return m, nil
	case "mat2":
		var m uniform.Mat2
		if err := fillFloats(doc.Value, m[:]); err != nil {
			return nil, err
		}
		return m, nil
	case "mat3":
		var m uniform.Mat3
		if err := fillFloats(doc.Value, m[:]); err != nil {
			return nil, err
		}
		return m, nil
	case "mat4":
		var m uniform.Mat4
		if err := fillFloats(doc.Value, m[:]); err != nil {
			return nil, err
		}
		return m, nil
	case "float[]":
		var v []float32
		if err := json.Unmarshal(doc.Value, &v); err != nil {
			return nil, fmt.Errorf("bad float array value: %w", err)
		}
		return uniform.FloatArray(v), nil
	case "int[]":
		var v []int32
		if err := json.Unmarshal(doc.Value, &v); err != nil {
			return nil, fmt.Errorf("bad int array value: %w", err)
		}
		return uniform.IntArray(v), nil
	case "texture":
		return loadTexture(doc, baseDir)
	case "pass":
		var ref string
		if err := json.Unmarshal(doc.Value, &ref); err != nil {
			return nil, fmt.Errorf("bad pass reference: %w", err)
		}
		return uniform.PassRef{Pass: ref, Sampler: sampler(doc)}, nil
	case "audio":
		return loadAudio(doc, baseDir)
	default:
		return nil, &uniform.InvalidTypeError{Tag: doc.Type}
	}
}

// loadTexture decodes an image file into a texture uniform. Decoded images
// arrive top-down; the flip puts rows in texture order unless vflip is
// explicitly false.
func loadTexture(doc *Uniform, baseDir string) (uniform.Value, error) {
	if doc.File == "" {
		return nil, fmt.Errorf("texture uniform needs a file")
	}
	f, err := os.Open(resolve(baseDir, doc.File))
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture file: %w", err)
	}

	rgba := image.NewRGBA(src.Bounds())
	draw.Draw(rgba, rgba.Bounds(), src, image.Point{}, draw.Src)

	img := uniform.FromRGBA(rgba)
	if doc.VFlip == nil || *doc.VFlip {
		img = img.FlipVertical()
	}
	return uniform.Texture2D{Image: img, Sampler: sampler(doc)}, nil
}

// loadAudio builds the spectrum/waveform texture from an audio file. Raw
// extensions are read as 32-bit little-endian float PCM directly; anything
// else goes through FFmpeg.
func loadAudio(doc *Uniform, baseDir string) (uniform.Value, error) {
	if doc.File == "" {
		return nil, fmt.Errorf("audio uniform needs a file")
	}
	path := resolve(baseDir, doc.File)

	var samples []float32
	switch strings.ToLower(filepath.Ext(path)) {
	case ".f32le", ".pcm", ".raw":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open audio file: %w", err)
		}
		defer f.Close()
		samples, err = audiotex.ReadPCM(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read audio samples: %w", err)
		}
	default:
		var err error
		samples, err = audiotex.DecodeFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to decode audio file: %w", err)
		}
	}
	return uniform.Texture2D{Image: audiotex.Spectrum(samples), Sampler: sampler(doc)}, nil
}

func sampler(doc *Uniform) uniform.Sampler {
	return uniform.Sampler{
		Filter: uniform.Filter(doc.Filter),
		Wrap:   uniform.Wrap(doc.Wrap),
	}
}

func resolve(baseDir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(baseDir, name)
}

func fillFloats(raw json.RawMessage, dst []float32) error {
	var v []float32
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("bad component list: %w", err)
	}
	if len(v) != len(dst) {
		return fmt.Errorf("need %d components, got %d", len(dst), len(v))
	}
	copy(dst, v)
	return nil
}

func fillInts(raw json.RawMessage, dst []int32) error {
	var v []int32
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("bad component list: %w", err)
	}
	if len(v) != len(dst) {
		return fmt.Errorf("need %d components, got %d", len(dst), len(v))
	}
	copy(dst, v)
	return nil
}
