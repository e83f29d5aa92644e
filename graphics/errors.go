package graphics

import "fmt"

// ResourceError reports that the backend could not allocate a GL object.
type ResourceError struct {
	Object string // "shader", "program", "texture" or "framebuffer"
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("graphics: failed to allocate %s object", e.Object)
}
