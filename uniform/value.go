package uniform

// Uniform is a named, typed value assigned to a shader program before a pass
// draws. Names must be non-empty and unique within one pass's uniform list.
type Uniform struct {
	Name  string
	Value Value
}

// Value is the closed set of bindable uniform payloads. Every kind lives in
// this package and implements the unexported bind method, so a kind without
// a binding rule cannot compile.
type Value interface {
	bind(b *Binder, loc int32) error
}

// Float is a single float value.
type Float float32

// Int is a single integer value.
type Int int32

// Vec2 is a 2-component float vector.
type Vec2 [2]float32

// Vec3 is a 3-component float vector.
type Vec3 [3]float32

// Vec4 is a 4-component float vector.
type Vec4 [4]float32

// IVec2 is a 2-component integer vector.
type IVec2 [2]int32

// IVec3 is a 3-component integer vector.
type IVec3 [3]int32

// IVec4 is a 4-component integer vector.
type IVec4 [4]int32

// Mat2 is a 2x2 float matrix, flattened column-major.
type Mat2 [4]float32

// Mat3 is a 3x3 float matrix, flattened column-major.
type Mat3 [9]float32

// Mat4 is a 4x4 float matrix, flattened column-major.
type Mat4 [16]float32

// FloatArray is a variable-length float sequence.
type FloatArray []float32

// IntArray is a variable-length integer sequence.
type IntArray []int32

// Texture2D supplies an inline image sampled as a 2D texture.
type Texture2D struct {
	Image   *Image
	Sampler Sampler
}

// PassRef samples the output of an earlier pass as a 2D texture. Pass names
// only resolve against passes that have already rendered.
type PassRef struct {
	Pass    string
	Sampler Sampler
}
