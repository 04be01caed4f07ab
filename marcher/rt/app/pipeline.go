package app

import (
	"github.com/gekko3d/raymarch/marcher/rt/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// RenderTarget is the image the compute pass writes and the quad pass reads.
// Its size is fixed at creation.
type RenderTarget struct {
	Image         gpu.ImageId
	Width, Height uint32
}

const targetLabel = "Raymarch Target"

func createTarget(dev gpu.Device, width, height uint32) (*RenderTarget, error) {
	id, err := dev.CreateImage(targetLabel, width, height, gpu.FormatRGBA32Float)
	if err != nil {
		return nil, err
	}
	return &RenderTarget{Image: id, Width: width, Height: height}, nil
}

// DispatchExtent returns the workgroup counts that cover a width x height
// image with TileSize square tiles. Partial tiles at the right and bottom
// edges are included; the kernel discards their out-of-range invocations.
func DispatchExtent(width, height uint32) (x, y, z uint32) {
	return (width + gpu.TileSize - 1) / gpu.TileSize, (height + gpu.TileSize - 1) / gpu.TileSize, 1
}

type framePrograms struct {
	compute  gpu.ProgramId
	quad     gpu.ProgramId
	vertices gpu.GeometryId
}

// encodeFrame issues one frame: the compute pass fills the target, the
// barrier publishes its stores, and the quad pass samples it to the screen.
func encodeFrame(dev gpu.Device, progs framePrograms, target *RenderTarget, transform mgl32.Mat4) {
	x, y, z := DispatchExtent(target.Width, target.Height)

	dev.UseProgram(progs.compute)
	dev.SetUniformMat4(gpu.TransformLocation, transform)
	dev.BindImage(gpu.TargetImageBinding, target.Image, gpu.AccessWriteOnly)
	dev.Dispatch(x, y, z)
	dev.MemoryBarrier(gpu.BarrierShaderImageAccess)
	dev.BindImage(gpu.TargetImageBinding, "", gpu.AccessWriteOnly)
	dev.UseProgram("")

	dev.UseProgram(progs.quad)
	dev.BindGeometry(progs.vertices)
	dev.BindTexture(gpu.TargetTextureUnit, target.Image)
	dev.Draw(gpu.TopologyTriangleStrip, 0, uint32(len(gpu.QuadVertices)/2))
	dev.BindTexture(gpu.TargetTextureUnit, "")
	dev.BindGeometry("")
	dev.UseProgram("")
}
