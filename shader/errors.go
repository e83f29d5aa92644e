package shader

import "fmt"

// CompileError reports a stage the driver refused to compile.
type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader: failed to compile %s stage: %s", e.Stage, e.Log)
}

// LinkError reports a program the driver refused to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("shader: failed to link program: %s", e.Log)
}
