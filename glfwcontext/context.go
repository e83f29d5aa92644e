// Package glfwcontext provides an OpenGL context factory backed by hidden
// GLFW windows. It needs a display server (or a virtual one such as Xvfb);
// for display-free operation use the headless package instead.
package glfwcontext

import (
	"fmt"
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/goshaderpipe/graphics"
)

// Init initializes GLFW and pins the calling goroutine to its OS thread.
// It must be called from the main goroutine before any factory is used.
func Init() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	log.Printf("GLFW Initialized")
	return nil
}

// Terminate shuts GLFW down. Must be called from the main thread.
func Terminate() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}

// Factory creates hidden-window OpenGL 4.1 core contexts.
type Factory struct{}

// New returns a factory for hidden-window contexts. Init must have been
// called first.
func New() *Factory {
	return &Factory{}
}

// Acquire creates a hidden window with an OpenGL 4.1 core context.
func (f *Factory) Acquire(width, height int) (graphics.Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)

	win, err := glfw.CreateWindow(width, height, "goshaderpipe", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create hidden window: %w", err)
	}
	return &Context{window: win}, nil
}

// Context wraps a hidden GLFW window.
type Context struct {
	window *glfw.Window
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Destroy detaches and destroys the window.
func (c *Context) Destroy() {
	glfw.DetachCurrentContext()
	c.window.Destroy()
}
