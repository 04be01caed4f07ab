package gpu

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Handles to device objects. The zero value means "none" and unbinds a slot.
type (
	ShaderId   string
	ProgramId  string
	ImageId    string
	GeometryId string
)

func NewShaderId() ShaderId     { return ShaderId(uuid.NewString()) }
func NewProgramId() ProgramId   { return ProgramId(uuid.NewString()) }
func NewImageId() ImageId       { return ImageId(uuid.NewString()) }
func NewGeometryId() GeometryId { return GeometryId(uuid.NewString()) }

// Stage identifies a shader stage.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
	StageCompute
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// ImageFormat is the pixel format of an image.
type ImageFormat int

const (
	FormatRGBA32Float ImageFormat = iota
)

// ImageAccess is how a compute program may touch a bound image.
type ImageAccess int

const (
	AccessWriteOnly ImageAccess = iota
	AccessReadOnly
	AccessReadWrite
)

// Barrier selects which memory accesses a MemoryBarrier orders.
type Barrier int

const (
	// BarrierShaderImageAccess makes image stores from earlier dispatches
	// visible to later shader reads of the same image.
	BarrierShaderImageAccess Barrier = iota
)

// Topology is the primitive assembly mode of a draw.
type Topology int

const (
	TopologyTriangleList Topology = iota
	TopologyTriangleStrip
)

// Limits are compute capabilities reported by the device.
type Limits struct {
	MaxWorkgroupsPerDimension  uint32
	MaxWorkgroupSize           [3]uint32
	MaxInvocationsPerWorkgroup uint32
}

// Device is the minimal set of GPU operations the frame pipeline needs.
// Only object creation reports errors. Per-frame commands are fire and
// forget; backends report their own failures.
type Device interface {
	Limits() Limits

	CompileShader(stage Stage, label, source string) (ShaderId, error)
	// LinkProgram builds a program from compiled shaders. The shaders may be
	// released afterwards.
	LinkProgram(label string, shaders ...ShaderId) (ProgramId, error)
	ReleaseShader(id ShaderId)

	CreateImage(label string, width, height uint32, format ImageFormat) (ImageId, error)
	ReleaseImage(id ImageId)
	// CreateGeometry uploads tightly packed float vertices with components
	// floats per vertex, bound to attribute location 0.
	CreateGeometry(label string, vertices []float32, components int) (GeometryId, error)

	UseProgram(id ProgramId)
	SetUniformMat4(location uint32, m mgl32.Mat4)
	BindImage(binding uint32, id ImageId, access ImageAccess)
	Dispatch(x, y, z uint32)
	MemoryBarrier(b Barrier)

	BindGeometry(id GeometryId)
	BindTexture(unit uint32, id ImageId)
	Draw(topology Topology, first, count uint32)

	// Resize reconfigures the presentable surface.
	Resize(width, height uint32)
	Present()
}
