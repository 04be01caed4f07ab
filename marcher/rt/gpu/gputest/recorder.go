// Package gputest provides a gpu.Device that records every call instead of
// talking to a GPU.
package gputest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gekko3d/raymarch/marcher/rt/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Call is one recorded device operation.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = fmt.Sprint(a)
	}
	return c.Op + "(" + strings.Join(parts, ", ") + ")"
}

type image struct {
	Width, Height uint32
	Format        gpu.ImageFormat
}

// Recorder implements gpu.Device. Set the failure fields before use to make
// shader compilation or linking fail with a given diagnostic.
type Recorder struct {
	DeviceLimits  gpu.Limits
	CompileErrors map[gpu.Stage]string
	LinkErrorLog  string
	ImageErr      error

	Calls    []Call
	Images   map[gpu.ImageId]image
	Released []gpu.ImageId
	Shaders  map[gpu.ShaderId]gpu.Stage
	Programs map[gpu.ProgramId][]gpu.Stage
	Geometry map[gpu.GeometryId][]float32
	Surface  [2]uint32
}

func NewRecorder() *Recorder {
	return &Recorder{
		DeviceLimits: gpu.Limits{
			MaxWorkgroupsPerDimension:  65535,
			MaxWorkgroupSize:           [3]uint32{256, 256, 64},
			MaxInvocationsPerWorkgroup: 256,
		},
		CompileErrors: make(map[gpu.Stage]string),
		Images:        make(map[gpu.ImageId]image),
		Shaders:       make(map[gpu.ShaderId]gpu.Stage),
		Programs:      make(map[gpu.ProgramId][]gpu.Stage),
		Geometry:      make(map[gpu.GeometryId][]float32),
	}
}

func (r *Recorder) record(op string, args ...any) {
	r.Calls = append(r.Calls, Call{Op: op, Args: args})
}

// Ops returns the operation names in call order.
func (r *Recorder) Ops() []string {
	ops := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Find returns every recorded call of op.
func (r *Recorder) Find(op string) []Call {
	var found []Call
	for _, c := range r.Calls {
		if c.Op == op {
			found = append(found, c)
		}
	}
	return found
}

// Reset forgets recorded calls but keeps created objects.
func (r *Recorder) Reset() {
	r.Calls = nil
}

// LiveImages returns images created and not yet released.
func (r *Recorder) LiveImages() []gpu.ImageId {
	var live []gpu.ImageId
	for id := range r.Images {
		live = append(live, id)
	}
	return live
}

// ImageSize returns the dimensions an image was created with.
func (r *Recorder) ImageSize(id gpu.ImageId) (uint32, uint32, bool) {
	img, ok := r.Images[id]
	return img.Width, img.Height, ok
}

func (r *Recorder) Limits() gpu.Limits {
	r.record("Limits")
	return r.DeviceLimits
}

func (r *Recorder) CompileShader(stage gpu.Stage, label, source string) (gpu.ShaderId, error) {
	r.record("CompileShader", stage, label)
	if msg, ok := r.CompileErrors[stage]; ok {
		return "", errors.New(msg)
	}
	id := gpu.NewShaderId()
	r.Shaders[id] = stage
	return id, nil
}

func (r *Recorder) LinkProgram(label string, shaders ...gpu.ShaderId) (gpu.ProgramId, error) {
	r.record("LinkProgram", label, len(shaders))
	if r.LinkErrorLog != "" {
		return "", errors.New(r.LinkErrorLog)
	}
	stages := make([]gpu.Stage, 0, len(shaders))
	for _, s := range shaders {
		stage, ok := r.Shaders[s]
		if !ok {
			return "", fmt.Errorf("unknown shader %s", s)
		}
		stages = append(stages, stage)
	}
	id := gpu.NewProgramId()
	r.Programs[id] = stages
	return id, nil
}

func (r *Recorder) ReleaseShader(id gpu.ShaderId) {
	r.record("ReleaseShader", id)
	delete(r.Shaders, id)
}

func (r *Recorder) CreateImage(label string, width, height uint32, format gpu.ImageFormat) (gpu.ImageId, error) {
	r.record("CreateImage", label, width, height, format)
	if r.ImageErr != nil {
		return "", r.ImageErr
	}
	id := gpu.NewImageId()
	r.Images[id] = image{Width: width, Height: height, Format: format}
	return id, nil
}

func (r *Recorder) ReleaseImage(id gpu.ImageId) {
	r.record("ReleaseImage", id)
	delete(r.Images, id)
	r.Released = append(r.Released, id)
}

func (r *Recorder) CreateGeometry(label string, vertices []float32, components int) (gpu.GeometryId, error) {
	r.record("CreateGeometry", label, len(vertices)/components, components)
	id := gpu.NewGeometryId()
	r.Geometry[id] = append([]float32(nil), vertices...)
	return id, nil
}

func (r *Recorder) UseProgram(id gpu.ProgramId) { r.record("UseProgram", id) }

func (r *Recorder) SetUniformMat4(location uint32, m mgl32.Mat4) {
	r.record("SetUniformMat4", location, m)
}

func (r *Recorder) BindImage(binding uint32, id gpu.ImageId, access gpu.ImageAccess) {
	r.record("BindImage", binding, id, access)
}

func (r *Recorder) Dispatch(x, y, z uint32) { r.record("Dispatch", x, y, z) }

func (r *Recorder) MemoryBarrier(b gpu.Barrier) { r.record("MemoryBarrier", b) }

func (r *Recorder) BindGeometry(id gpu.GeometryId) { r.record("BindGeometry", id) }

func (r *Recorder) BindTexture(unit uint32, id gpu.ImageId) { r.record("BindTexture", unit, id) }

func (r *Recorder) Draw(topology gpu.Topology, first, count uint32) {
	r.record("Draw", topology, first, count)
}

func (r *Recorder) Resize(width, height uint32) {
	r.record("Resize", width, height)
	r.Surface = [2]uint32{width, height}
}

func (r *Recorder) Present() { r.record("Present") }
