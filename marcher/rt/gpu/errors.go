package gpu

import "fmt"

// CompileError reports a shader stage that failed to compile. Log holds the
// diagnostic text exactly as the compiler produced it.
type CompileError struct {
	Stage Stage
	Label string
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader %q failed to compile:\n%s", e.Stage, e.Label, e.Log)
}

// LinkError reports a program whose stages compiled but could not be linked
// into a usable program.
type LinkError struct {
	Program string
	Log     string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("program %q failed to link:\n%s", e.Program, e.Log)
}
