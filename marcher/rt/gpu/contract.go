package gpu

import (
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// TileSize is the edge length, in pixels, of the square tile one compute
// workgroup covers. Kernels must declare @workgroup_size(16, 16, 1).
const TileSize = 16

// Bind points shared by the core and every kernel. A GL-style uniform
// location N is @group(0) @binding(N); a GL-style image unit N of the compute
// program is @group(1) @binding(N); a texture unit N of the quad program is
// @group(0) @binding(N).
const (
	UniformGroup       = 0
	ComputeImageGroup  = 1
	QuadTextureGroup   = 0
	TransformLocation  = 0
	TargetImageBinding = 0
	TargetTextureUnit  = 0
)

var irStages = map[Stage]ir.ShaderStage{
	StageVertex:   ir.StageVertex,
	StageFragment: ir.StageFragment,
	StageCompute:  ir.StageCompute,
}

// frontEnd parses, lowers and validates WGSL source on the host so that
// broken shaders are reported with line and column before any device call.
func frontEnd(stage Stage, label, source string) (*ir.Module, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, &CompileError{Stage: stage, Label: label, Log: err.Error()}
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, &CompileError{Stage: stage, Label: label, Log: err.Error()}
	}
	problems, err := naga.Validate(module)
	if err != nil {
		return nil, &CompileError{Stage: stage, Label: label, Log: err.Error()}
	}
	if len(problems) > 0 {
		lines := make([]string, 0, len(problems))
		for _, p := range problems {
			lines = append(lines, p.Error())
		}
		return nil, &CompileError{Stage: stage, Label: label, Log: strings.Join(lines, "\n")}
	}
	if entryPoint(module, stage) == nil {
		return nil, &CompileError{
			Stage: stage,
			Label: label,
			Log:   fmt.Sprintf("no @%s entry point named %q", stage, EntryPoint),
		}
	}
	return module, nil
}

// EntryPoint is the function name every stage must export.
const EntryPoint = "main"

func entryPoint(module *ir.Module, stage Stage) *ir.EntryPoint {
	want := irStages[stage]
	for i := range module.EntryPoints {
		ep := &module.EntryPoints[i]
		if ep.Stage == want && ep.Name == EntryPoint {
			return ep
		}
	}
	return nil
}

func globalAt(module *ir.Module, group, binding uint32) *ir.GlobalVariable {
	for i := range module.GlobalVariables {
		gv := &module.GlobalVariables[i]
		if gv.Binding != nil && gv.Binding.Group == group && gv.Binding.Binding == binding {
			return gv
		}
	}
	return nil
}

func typeOf(module *ir.Module, gv *ir.GlobalVariable) ir.TypeInner {
	if int(gv.Type) >= len(module.Types) {
		return nil
	}
	return module.Types[gv.Type].Inner
}

func isMat4x4f(inner ir.TypeInner) bool {
	m, ok := inner.(ir.MatrixType)
	return ok && m.Columns == ir.Vec4 && m.Rows == ir.Vec4 && m.Scalar.Kind == ir.ScalarFloat && m.Scalar.Width == 4
}

// checkComputeContract verifies the kernel consumes exactly what the frame
// pipeline binds.
func checkComputeContract(module *ir.Module) []string {
	var problems []string

	ep := entryPoint(module, StageCompute)
	if want := [3]uint32{TileSize, TileSize, 1}; ep.Workgroup != want {
		problems = append(problems, fmt.Sprintf("entry point %q: workgroup size %v, want %v", ep.Name, ep.Workgroup, want))
	}

	if gv := globalAt(module, UniformGroup, TransformLocation); gv == nil {
		problems = append(problems, fmt.Sprintf("missing camera transform uniform at @group(%d) @binding(%d)", UniformGroup, TransformLocation))
	} else if gv.Space != ir.SpaceUniform || !isMat4x4f(typeOf(module, gv)) {
		problems = append(problems, fmt.Sprintf("%q at @group(%d) @binding(%d) must be var<uniform> of mat4x4<f32>", gv.Name, UniformGroup, TransformLocation))
	}

	if gv := globalAt(module, ComputeImageGroup, TargetImageBinding); gv == nil {
		problems = append(problems, fmt.Sprintf("missing target image at @group(%d) @binding(%d)", ComputeImageGroup, TargetImageBinding))
	} else {
		img, ok := typeOf(module, gv).(ir.ImageType)
		if !ok || img.Class != ir.ImageClassStorage || img.Dim != ir.Dim2D || img.Arrayed ||
			img.StorageFormat != ir.StorageFormatRgba32Float || img.StorageAccess != ir.StorageAccessWrite {
			problems = append(problems, fmt.Sprintf("%q at @group(%d) @binding(%d) must be texture_storage_2d<rgba32float, write>", gv.Name, ComputeImageGroup, TargetImageBinding))
		}
	}
	return problems
}

func checkQuadContract(vertex, fragment *ir.Module) []string {
	var problems []string
	gv := globalAt(fragment, QuadTextureGroup, TargetTextureUnit)
	if gv == nil {
		return append(problems, fmt.Sprintf("missing target texture at @group(%d) @binding(%d)", QuadTextureGroup, TargetTextureUnit))
	}
	img, ok := typeOf(fragment, gv).(ir.ImageType)
	if !ok || img.Class != ir.ImageClassSampled || img.Dim != ir.Dim2D || img.Arrayed || img.Multisampled || img.SampledKind != ir.ScalarFloat {
		problems = append(problems, fmt.Sprintf("%q at @group(%d) @binding(%d) must be texture_2d<f32>", gv.Name, QuadTextureGroup, TargetTextureUnit))
	}
	if other := globalAt(vertex, QuadTextureGroup, TargetTextureUnit); other != nil && other.Name != gv.Name {
		problems = append(problems, fmt.Sprintf("vertex %q and fragment %q share @group(%d) @binding(%d)", other.Name, gv.Name, QuadTextureGroup, TargetTextureUnit))
	}
	return problems
}
