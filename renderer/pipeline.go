// Package renderer executes ordered sequences of fragment-shader passes
// against offscreen GL contexts, producing one named RGBA image per pass.
// Later passes may sample earlier outputs through pass-reference uniforms.
package renderer

import (
	"fmt"

	"github.com/richinsley/goshaderpipe/graphics"
	"github.com/richinsley/goshaderpipe/uniform"
)

// DefaultMaxTextureUnits is the texture slot budget a pass gets when the
// pipeline is constructed without an explicit limit.
const DefaultMaxTextureUnits = 8

// Pass describes one unit of rendering work producing one named image. A
// Pass is pure description; it owns no GPU resources.
type Pass struct {
	Name           string
	VertexSource   string // empty selects shader.DefaultVertexShader
	FragmentSource string
	Width          int
	Height         int
	Uniforms       []uniform.Uniform
}

// Results maps a pass name to its rendered output. Entries are written once
// and never mutated, so a later pass always samples finished pixels.
type Results map[string]*uniform.Image

// Pipeline renders pass sequences against contexts from a graphics.Factory.
// Every pass acquires a fresh context and releases it fully before the next
// pass begins; nothing is cached between runs.
type Pipeline struct {
	factory  graphics.Factory
	maxUnits int
}

// New returns a pipeline backed by factory. maxTextureUnits caps the texture
// slots one pass may consume; values <= 0 select DefaultMaxTextureUnits.
func New(factory graphics.Factory, maxTextureUnits int) *Pipeline {
	if maxTextureUnits <= 0 {
		maxTextureUnits = DefaultMaxTextureUnits
	}
	return &Pipeline{factory: factory, maxUnits: maxTextureUnits}
}

// MaxTextureUnits reports how many texture slots each pass may consume.
func (p *Pipeline) MaxTextureUnits() int {
	return p.maxUnits
}

// Render executes the passes in declaration order, threading each output
// into the results that later passes may reference. A failing pass aborts
// the whole run with an error naming the pass; no partial results are
// returned. Render blocks until the last pass has read back, and must run
// on the OS thread that owns GL, locked with runtime.LockOSThread.
func (p *Pipeline) Render(passes []Pass) (Results, error) {
	seen := make(map[string]bool, len(passes))
	for i := range passes {
		if seen[passes[i].Name] {
			return nil, &DuplicatePassError{Name: passes[i].Name}
		}
		seen[passes[i].Name] = true
	}

	results := make(Results, len(passes))
	for i := range passes {
		img, err := p.execute(&passes[i], results)
		if err != nil {
			return nil, fmt.Errorf("pass %q: %w", passes[i].Name, err)
		}
		results[passes[i].Name] = img
	}
	return results, nil
}
