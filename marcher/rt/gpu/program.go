package gpu

import (
	"errors"
	"fmt"
	"strings"
)

const (
	ComputeProgramLabel = "Raymarch CS"
	QuadProgramLabel    = "Quad VS/FS"
)

// CompileComputeProgram checks the kernel source against the binding
// contract and builds it on the device. Failures are *CompileError or
// *LinkError and carry the diagnostics verbatim.
func CompileComputeProgram(dev Device, source string) (ProgramId, error) {
	module, err := frontEnd(StageCompute, ComputeProgramLabel, source)
	if err != nil {
		return "", err
	}
	if problems := checkComputeContract(module); len(problems) > 0 {
		return "", &LinkError{Program: ComputeProgramLabel, Log: strings.Join(problems, "\n")}
	}

	shader, err := compileOnDevice(dev, StageCompute, ComputeProgramLabel, source)
	if err != nil {
		return "", err
	}
	defer dev.ReleaseShader(shader)

	return linkOnDevice(dev, ComputeProgramLabel, shader)
}

// CompileQuadProgram builds the presentation program from separate vertex
// and fragment sources.
func CompileQuadProgram(dev Device, vertexSource, fragmentSource string) (ProgramId, error) {
	vertexModule, err := frontEnd(StageVertex, QuadProgramLabel, vertexSource)
	if err != nil {
		return "", err
	}
	fragmentModule, err := frontEnd(StageFragment, QuadProgramLabel, fragmentSource)
	if err != nil {
		return "", err
	}
	if problems := checkQuadContract(vertexModule, fragmentModule); len(problems) > 0 {
		return "", &LinkError{Program: QuadProgramLabel, Log: strings.Join(problems, "\n")}
	}

	vs, err := compileOnDevice(dev, StageVertex, QuadProgramLabel, vertexSource)
	if err != nil {
		return "", err
	}
	defer dev.ReleaseShader(vs)
	fs, err := compileOnDevice(dev, StageFragment, QuadProgramLabel, fragmentSource)
	if err != nil {
		return "", err
	}
	defer dev.ReleaseShader(fs)

	return linkOnDevice(dev, QuadProgramLabel, vs, fs)
}

func compileOnDevice(dev Device, stage Stage, label, source string) (ShaderId, error) {
	id, err := dev.CompileShader(stage, label, source)
	if err == nil {
		return id, nil
	}
	var ce *CompileError
	if errors.As(err, &ce) {
		return "", ce
	}
	return "", &CompileError{Stage: stage, Label: label, Log: err.Error()}
}

func linkOnDevice(dev Device, label string, shaders ...ShaderId) (ProgramId, error) {
	id, err := dev.LinkProgram(label, shaders...)
	if err == nil {
		return id, nil
	}
	var le *LinkError
	if errors.As(err, &le) {
		return "", le
	}
	return "", &LinkError{Program: label, Log: err.Error()}
}

// QuadVertices is the fullscreen quad as a 4 vertex triangle strip in NDC.
var QuadVertices = []float32{
	-1, 1,
	1, 1,
	-1, -1,
	1, -1,
}

// CreateQuadGeometry uploads QuadVertices.
func CreateQuadGeometry(dev Device) (GeometryId, error) {
	id, err := dev.CreateGeometry("Quad VB", QuadVertices, 2)
	if err != nil {
		return "", fmt.Errorf("create quad geometry: %w", err)
	}
	return id, nil
}
