//go:build !linux

package headless

import (
	"fmt"

	"github.com/richinsley/goshaderpipe/graphics"
)

// Factory is a placeholder on platforms without EGL support.
type Factory struct{}

func New() (*Factory, error) {
	return nil, fmt.Errorf("egl headless rendering is not supported on this platform")
}

func (f *Factory) Acquire(width, height int) (graphics.Context, error) {
	return nil, fmt.Errorf("egl headless rendering is not supported on this platform")
}

func (f *Factory) Terminate() {}
