package renderer

import "fmt"

// InvalidDimensionsError reports a pass sized outside the positive range.
type InvalidDimensionsError struct {
	Width  int
	Height int
}

func (e *InvalidDimensionsError) Error() string {
	return fmt.Sprintf("renderer: invalid pass dimensions %dx%d", e.Width, e.Height)
}

// MissingShaderError reports a pass with no fragment shader source.
type MissingShaderError struct{}

func (e *MissingShaderError) Error() string {
	return "renderer: pass has no fragment shader source"
}

// DuplicatePassError reports two passes sharing one name. Allowing the
// second pass would silently overwrite the first result.
type DuplicatePassError struct {
	Name string
}

func (e *DuplicatePassError) Error() string {
	return fmt.Sprintf("renderer: duplicate pass name %q", e.Name)
}
