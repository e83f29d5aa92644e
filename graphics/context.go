package graphics

// Context is an isolated handle to backend GL state sized for one pass's
// output. After MakeCurrent the context owns every GL object created on the
// calling thread; Destroy releases them all.
type Context interface {
	MakeCurrent()
	Destroy()
}

// Factory hands out offscreen rendering contexts. The pipeline acquires one
// context per pass and destroys it before the next pass begins.
type Factory interface {
	Acquire(width, height int) (Context, error)
}
