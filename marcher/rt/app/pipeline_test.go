package app

import (
	"testing"

	"github.com/gekko3d/raymarch/marcher/rt/gpu"
	"github.com/gekko3d/raymarch/marcher/rt/gpu/gputest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchExtent(t *testing.T) {
	tests := []struct {
		w, h         uint32
		wantX, wantY uint32
	}{
		{1, 1, 1, 1},
		{16, 16, 1, 1},
		{17, 16, 2, 1},
		{1920, 1080, 120, 68},
		{2560, 1440, 160, 90},
		{800, 600, 50, 38},
	}
	for _, tt := range tests {
		x, y, z := DispatchExtent(tt.w, tt.h)
		assert.Equal(t, tt.wantX, x, "%dx%d", tt.w, tt.h)
		assert.Equal(t, tt.wantY, y, "%dx%d", tt.w, tt.h)
		assert.Equal(t, uint32(1), z)
	}
}

func TestDispatchExtentIsMinimalCover(t *testing.T) {
	for w := uint32(1); w <= 300; w++ {
		h := 301 - w
		x, y, _ := DispatchExtent(w, h)
		assert.GreaterOrEqual(t, x*gpu.TileSize, w)
		assert.Less(t, (x-1)*gpu.TileSize, w)
		assert.GreaterOrEqual(t, y*gpu.TileSize, h)
		assert.Less(t, (y-1)*gpu.TileSize, h)
	}
}

func TestEncodeFrameCallOrder(t *testing.T) {
	rec := gputest.NewRecorder()
	target := &RenderTarget{Image: gpu.NewImageId(), Width: 100, Height: 40}
	progs := framePrograms{compute: gpu.NewProgramId(), quad: gpu.NewProgramId(), vertices: gpu.NewGeometryId()}
	transform := mgl32.Translate3D(1, 2, 3)

	encodeFrame(rec, progs, target, transform)

	want := []gputest.Call{
		{Op: "UseProgram", Args: []any{progs.compute}},
		{Op: "SetUniformMat4", Args: []any{uint32(gpu.TransformLocation), transform}},
		{Op: "BindImage", Args: []any{uint32(gpu.TargetImageBinding), target.Image, gpu.AccessWriteOnly}},
		{Op: "Dispatch", Args: []any{uint32(7), uint32(3), uint32(1)}},
		{Op: "MemoryBarrier", Args: []any{gpu.BarrierShaderImageAccess}},
		{Op: "BindImage", Args: []any{uint32(gpu.TargetImageBinding), gpu.ImageId(""), gpu.AccessWriteOnly}},
		{Op: "UseProgram", Args: []any{gpu.ProgramId("")}},
		{Op: "UseProgram", Args: []any{progs.quad}},
		{Op: "BindGeometry", Args: []any{progs.vertices}},
		{Op: "BindTexture", Args: []any{uint32(gpu.TargetTextureUnit), target.Image}},
		{Op: "Draw", Args: []any{gpu.TopologyTriangleStrip, uint32(0), uint32(4)}},
		{Op: "BindTexture", Args: []any{uint32(gpu.TargetTextureUnit), gpu.ImageId("")}},
		{Op: "BindGeometry", Args: []any{gpu.GeometryId("")}},
		{Op: "UseProgram", Args: []any{gpu.ProgramId("")}},
	}
	assert.Equal(t, want, rec.Calls)
}

func TestBarrierSitsBetweenDispatchAndDraw(t *testing.T) {
	rec := gputest.NewRecorder()
	target := &RenderTarget{Image: gpu.NewImageId(), Width: 1, Height: 1}
	encodeFrame(rec, framePrograms{}, target, mgl32.Ident4())

	ops := rec.Ops()
	dispatch, barrier, draw := -1, -1, -1
	for i, op := range ops {
		switch op {
		case "Dispatch":
			dispatch = i
		case "MemoryBarrier":
			barrier = i
		case "Draw":
			draw = i
		}
	}
	require.NotEqual(t, -1, barrier)
	assert.Less(t, dispatch, barrier)
	assert.Less(t, barrier, draw)
}

func TestCreateTarget(t *testing.T) {
	rec := gputest.NewRecorder()
	target, err := createTarget(rec, 320, 200)
	require.NoError(t, err)

	w, h, ok := rec.ImageSize(target.Image)
	require.True(t, ok)
	assert.Equal(t, uint32(320), w)
	assert.Equal(t, uint32(200), h)
	assert.Equal(t, []any{targetLabel, uint32(320), uint32(200), gpu.FormatRGBA32Float}, rec.Find("CreateImage")[0].Args)
}
