package uniform

import "fmt"

// InvalidTypeError reports a uniform whose type tag falls outside the closed
// set of bindable kinds.
type InvalidTypeError struct {
	Tag string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("uniform: invalid type %q", e.Tag)
}

// TooManyTexturesError reports a texture-bearing uniform that would exceed
// the pass's texture slot limit.
type TooManyTexturesError struct {
	Limit int
}

func (e *TooManyTexturesError) Error() string {
	return fmt.Sprintf("uniform: texture slot limit of %d exceeded", e.Limit)
}

// UnresolvedPassError reports a pass reference naming a pass that has not
// rendered yet, including the referencing pass itself.
type UnresolvedPassError struct {
	Pass string
}

func (e *UnresolvedPassError) Error() string {
	return fmt.Sprintf("uniform: pass reference %q does not resolve to a rendered pass", e.Pass)
}
