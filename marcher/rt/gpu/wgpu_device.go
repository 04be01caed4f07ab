package gpu

import (
	"errors"
	"fmt"
	"sort"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/naga/ir"
)

// Logger is what the wgpu backend reports through.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

type wgpuShader struct {
	stage  Stage
	module *wgpu.ShaderModule
	ir     *ir.Module

	// retained is set once a program owns the module.
	retained bool
}

type renderKey struct {
	topology   Topology
	components int
}

type wgpuProgram struct {
	label string

	compute *wgpu.ComputePipeline

	vertex    *wgpu.ShaderModule
	fragment  *wgpu.ShaderModule
	pipelines map[renderKey]*wgpu.RenderPipeline

	groups   []*wgpu.BindGroupLayout
	layout   *wgpu.PipelineLayout
	entries  map[uint32][]wgpu.BindGroupLayoutEntry
	uniforms map[uint32]*wgpu.Buffer
}

type wgpuImage struct {
	texture       *wgpu.Texture
	view          *wgpu.TextureView
	width, height uint32
}

type wgpuGeometry struct {
	buffer     *wgpu.Buffer
	components int
	count      uint32
}

// WGPUDevice implements Device on top of wgpu and a glfw window surface.
//
// Commands are recorded into one encoder per frame. A compute pass opens on
// the first Dispatch and is ended by MemoryBarrier; the pass boundary orders
// storage writes before any later sampled read. The render pass targets the
// current surface texture and is submitted by Present.
type WGPUDevice struct {
	log Logger

	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	shaders  map[ShaderId]*wgpuShader
	programs map[ProgramId]*wgpuProgram
	images   map[ImageId]*wgpuImage
	geometry map[GeometryId]*wgpuGeometry

	// Bound state.
	program  ProgramId
	storage  map[uint32]ImageId
	textures map[uint32]ImageId
	vertices GeometryId

	// writeBuffer is Queue.WriteBuffer unless replaced.
	writeBuffer func(buf *wgpu.Buffer, offset uint64, data []byte) error

	// Frame state.
	encoder      *wgpu.CommandEncoder
	computePass  *wgpu.ComputePassEncoder
	renderPass   *wgpu.RenderPassEncoder
	frameTexture *wgpu.Texture
	frameView    *wgpu.TextureView
	garbage      []*wgpu.BindGroup
	frameErr     error
}

// NewWGPUDevice brings up wgpu on the window surface with FIFO presentation.
func NewWGPUDevice(window *glfw.Window, log Logger) (*WGPUDevice, error) {
	d := &WGPUDevice{
		log:      log,
		shaders:  make(map[ShaderId]*wgpuShader),
		programs: make(map[ProgramId]*wgpuProgram),
		images:   make(map[ImageId]*wgpuImage),
		geometry: make(map[GeometryId]*wgpuGeometry),
		storage:  make(map[uint32]ImageId),
		textures: make(map[uint32]ImageId),
	}

	d.Instance = wgpu.CreateInstance(nil)
	d.Surface = d.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	adapter, err := d.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: d.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	d.Adapter = adapter

	d.Device, err = adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "Raymarch Device"})
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	d.Queue = d.Device.GetQueue()
	d.writeBuffer = d.Queue.WriteBuffer

	width, height := window.GetFramebufferSize()
	caps := d.Surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return nil, errors.New("surface reports no usable formats")
	}
	d.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	if width > 0 && height > 0 {
		d.Surface.Configure(adapter, d.Device, d.Config)
	}
	return d, nil
}

func (d *WGPUDevice) Limits() Limits {
	l := d.Device.GetLimits().Limits
	return Limits{
		MaxWorkgroupsPerDimension: l.MaxComputeWorkgroupsPerDimension,
		MaxWorkgroupSize: [3]uint32{
			l.MaxComputeWorkgroupSizeX,
			l.MaxComputeWorkgroupSizeY,
			l.MaxComputeWorkgroupSizeZ,
		},
		MaxInvocationsPerWorkgroup: l.MaxComputeInvocationsPerWorkgroup,
	}
}

func (d *WGPUDevice) CompileShader(stage Stage, label, source string) (ShaderId, error) {
	module, err := frontEnd(stage, label, source)
	if err != nil {
		return "", err
	}
	sm, err := d.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	})
	if err != nil {
		return "", &CompileError{Stage: stage, Label: label, Log: err.Error()}
	}
	id := NewShaderId()
	d.shaders[id] = &wgpuShader{stage: stage, module: sm, ir: module}
	return id, nil
}

func (d *WGPUDevice) ReleaseShader(id ShaderId) {
	s, ok := d.shaders[id]
	if !ok {
		return
	}
	delete(d.shaders, id)
	if !s.retained {
		s.module.Release()
	}
}

func (d *WGPUDevice) LinkProgram(label string, ids ...ShaderId) (ProgramId, error) {
	var compute, vertex, fragment *wgpuShader
	for _, id := range ids {
		s, ok := d.shaders[id]
		if !ok {
			return "", &LinkError{Program: label, Log: fmt.Sprintf("unknown shader %s", id)}
		}
		switch s.stage {
		case StageCompute:
			compute = s
		case StageVertex:
			vertex = s
		case StageFragment:
			fragment = s
		}
	}

	p := &wgpuProgram{
		label:     label,
		entries:   make(map[uint32][]wgpu.BindGroupLayoutEntry),
		uniforms:  make(map[uint32]*wgpu.Buffer),
		pipelines: make(map[renderKey]*wgpu.RenderPipeline),
	}
	var err error
	switch {
	case compute != nil && vertex == nil && fragment == nil:
		err = d.reflectBindings(p, compute.ir, wgpu.ShaderStageCompute)
		if err == nil {
			err = d.createLayout(p)
		}
		if err == nil {
			p.compute, err = d.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
				Label:  label,
				Layout: p.layout,
				Compute: wgpu.ProgrammableStageDescriptor{
					Module:     compute.module,
					EntryPoint: EntryPoint,
				},
			})
		}
	case compute == nil && vertex != nil && fragment != nil:
		err = d.reflectBindings(p, vertex.ir, wgpu.ShaderStageVertex)
		if err == nil {
			err = d.reflectBindings(p, fragment.ir, wgpu.ShaderStageFragment)
		}
		if err == nil {
			err = d.createLayout(p)
		}
		if err == nil {
			p.vertex, p.fragment = vertex.module, fragment.module
			vertex.retained, fragment.retained = true, true
		}
	default:
		err = errors.New("a program is either one compute shader or a vertex and a fragment shader")
	}
	if err != nil {
		d.releaseProgram(p)
		return "", &LinkError{Program: label, Log: err.Error()}
	}

	id := NewProgramId()
	d.programs[id] = p
	d.log.Debugf("linked program %q with %d bind groups", label, len(p.groups))
	return id, nil
}

// reflectBindings turns the resource globals of a validated module into
// bind group layout entries. Entries seen from both stages are merged.
func (d *WGPUDevice) reflectBindings(p *wgpuProgram, module *ir.Module, visibility wgpu.ShaderStage) error {
	for i := range module.GlobalVariables {
		gv := &module.GlobalVariables[i]
		if gv.Binding == nil {
			continue
		}
		group, binding := gv.Binding.Group, gv.Binding.Binding

		merged := false
		for j, e := range p.entries[group] {
			if e.Binding == binding {
				p.entries[group][j].Visibility |= visibility
				merged = true
			}
		}
		if merged {
			continue
		}

		entry, err := layoutEntry(module, gv, visibility)
		if err != nil {
			return err
		}
		if entry.Buffer.Type == wgpu.BufferBindingTypeUniform {
			buf, err := d.Device.CreateBuffer(&wgpu.BufferDescriptor{
				Label: fmt.Sprintf("%s %s", p.label, gv.Name),
				Size:  mat4Size,
				Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
			})
			if err != nil {
				return fmt.Errorf("uniform %q: %w", gv.Name, err)
			}
			if group == UniformGroup {
				p.uniforms[binding] = buf
			}
		}
		p.entries[group] = append(p.entries[group], entry)
	}
	return nil
}

const mat4Size = 64

// layoutEntry describes one resource global as a bind group layout entry.
// Only mat4x4<f32> uniforms, rgba32float storage images and 2D float
// textures are accepted.
func layoutEntry(module *ir.Module, gv *ir.GlobalVariable, visibility wgpu.ShaderStage) (wgpu.BindGroupLayoutEntry, error) {
	entry := wgpu.BindGroupLayoutEntry{Binding: gv.Binding.Binding, Visibility: visibility}
	inner := typeOf(module, gv)
	switch gv.Space {
	case ir.SpaceUniform:
		if !isMat4x4f(inner) {
			return entry, fmt.Errorf("uniform %q: only mat4x4<f32> uniforms are supported", gv.Name)
		}
		entry.Buffer = wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeUniform,
			MinBindingSize: mat4Size,
		}
	case ir.SpaceHandle:
		img, ok := inner.(ir.ImageType)
		if !ok || img.Dim != ir.Dim2D || img.Arrayed {
			return entry, fmt.Errorf("%q: only 2D non-arrayed textures are supported", gv.Name)
		}
		if img.Class == ir.ImageClassStorage {
			if img.StorageFormat != ir.StorageFormatRgba32Float {
				return entry, fmt.Errorf("%q: only rgba32float storage textures are supported", gv.Name)
			}
			entry.StorageTexture = wgpu.StorageTextureBindingLayout{
				Access:        storageAccess(img.StorageAccess),
				Format:        wgpu.TextureFormatRGBA32Float,
				ViewDimension: wgpu.TextureViewDimension2D,
			}
		} else {
			entry.Texture = wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeUnfilterableFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			}
		}
	default:
		return entry, fmt.Errorf("%q: unsupported resource binding", gv.Name)
	}
	return entry, nil
}

func storageAccess(a ir.StorageAccess) wgpu.StorageTextureAccess {
	switch a {
	case ir.StorageAccessRead:
		return wgpu.StorageTextureAccessReadOnly
	case ir.StorageAccessWrite:
		return wgpu.StorageTextureAccessWriteOnly
	}
	return wgpu.StorageTextureAccessReadWrite
}

func (d *WGPUDevice) createLayout(p *wgpuProgram) error {
	var last uint32
	for g := range p.entries {
		last = max(last, g+1)
	}
	p.groups = make([]*wgpu.BindGroupLayout, last)
	for g := uint32(0); g < last; g++ {
		entries := p.entries[g]
		sort.Slice(entries, func(i, j int) bool { return entries[i].Binding < entries[j].Binding })
		bgl, err := d.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s BGL %d", p.label, g),
			Entries: entries,
		})
		if err != nil {
			return fmt.Errorf("bind group layout %d: %w", g, err)
		}
		p.groups[g] = bgl
	}
	layout, err := d.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.label,
		BindGroupLayouts: p.groups,
	})
	if err != nil {
		return fmt.Errorf("pipeline layout: %w", err)
	}
	p.layout = layout
	return nil
}

func (d *WGPUDevice) releaseProgram(p *wgpuProgram) {
	for _, rp := range p.pipelines {
		rp.Release()
	}
	if p.compute != nil {
		p.compute.Release()
	}
	if p.vertex != nil {
		p.vertex.Release()
	}
	if p.fragment != nil {
		p.fragment.Release()
	}
	for _, buf := range p.uniforms {
		buf.Release()
	}
	if p.layout != nil {
		p.layout.Release()
	}
	for _, bgl := range p.groups {
		if bgl != nil {
			bgl.Release()
		}
	}
}

func (d *WGPUDevice) CreateImage(label string, width, height uint32, format ImageFormat) (ImageId, error) {
	if format != FormatRGBA32Float {
		return "", fmt.Errorf("image %q: unsupported format %d", label, format)
	}
	texture, err := d.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA32Float,
		Usage:         wgpu.TextureUsageStorageBinding | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return "", fmt.Errorf("image %q: %w", label, err)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return "", fmt.Errorf("image %q view: %w", label, err)
	}
	id := NewImageId()
	d.images[id] = &wgpuImage{texture: texture, view: view, width: width, height: height}
	return id, nil
}

func (d *WGPUDevice) ReleaseImage(id ImageId) {
	img, ok := d.images[id]
	if !ok {
		return
	}
	delete(d.images, id)
	img.view.Release()
	img.texture.Release()
}

func (d *WGPUDevice) CreateGeometry(label string, vertices []float32, components int) (GeometryId, error) {
	if components < 1 || components > 4 || len(vertices)%components != 0 {
		return "", fmt.Errorf("geometry %q: %d floats do not split into %d-component vertices", label, len(vertices), components)
	}
	buf, err := d.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: float32Bytes(vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return "", fmt.Errorf("geometry %q: %w", label, err)
	}
	id := NewGeometryId()
	d.geometry[id] = &wgpuGeometry{buffer: buf, components: components, count: uint32(len(vertices) / components)}
	return id, nil
}

func (d *WGPUDevice) UseProgram(id ProgramId) {
	d.program = id
}

func (d *WGPUDevice) SetUniformMat4(location uint32, m mgl32.Mat4) {
	p := d.programs[d.program]
	if p == nil {
		d.fail(fmt.Errorf("set uniform %d: no program in use", location))
		return
	}
	buf, ok := p.uniforms[location]
	if !ok {
		d.fail(fmt.Errorf("set uniform %d: program %q has no uniform there", location, p.label))
		return
	}
	if err := d.writeBuffer(buf, 0, float32Bytes(m[:])); err != nil {
		d.fail(fmt.Errorf("set uniform %d: %w", location, err))
	}
}

func float32Bytes(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}

func (d *WGPUDevice) BindImage(binding uint32, id ImageId, access ImageAccess) {
	if id == "" {
		delete(d.storage, binding)
		return
	}
	d.storage[binding] = id
}

func (d *WGPUDevice) BindTexture(unit uint32, id ImageId) {
	if id == "" {
		delete(d.textures, unit)
		return
	}
	d.textures[unit] = id
}

func (d *WGPUDevice) BindGeometry(id GeometryId) {
	d.vertices = id
}

func (d *WGPUDevice) Dispatch(x, y, z uint32) {
	if d.frameErr != nil {
		return
	}
	p := d.programs[d.program]
	if p == nil || p.compute == nil {
		d.fail(errors.New("dispatch: no compute program in use"))
		return
	}
	if !d.beginFrame() {
		return
	}
	if d.computePass == nil {
		d.computePass = d.encoder.BeginComputePass(&wgpu.ComputePassDescriptor{Label: p.label})
	}
	groups, ok := d.bindGroups(p, ComputeImageGroup, d.storage)
	if !ok {
		return
	}
	d.computePass.SetPipeline(p.compute)
	for g, bg := range groups {
		d.computePass.SetBindGroup(uint32(g), bg, nil)
	}
	d.computePass.DispatchWorkgroups(x, y, z)
}

func (d *WGPUDevice) MemoryBarrier(b Barrier) {
	if d.computePass == nil {
		return
	}
	if err := d.computePass.End(); err != nil {
		d.fail(fmt.Errorf("compute pass end: %w", err))
	}
	d.computePass.Release()
	d.computePass = nil
}

func (d *WGPUDevice) Draw(topology Topology, first, count uint32) {
	if d.frameErr != nil {
		return
	}
	p := d.programs[d.program]
	if p == nil || p.vertex == nil {
		d.fail(errors.New("draw: no render program in use"))
		return
	}
	geo := d.geometry[d.vertices]
	if geo == nil {
		d.fail(errors.New("draw: no geometry bound"))
		return
	}
	if !d.beginFrame() {
		return
	}
	// A draw after an unfenced dispatch still has to see its writes.
	d.MemoryBarrier(BarrierShaderImageAccess)
	if !d.beginRenderPass() {
		return
	}
	pipeline, err := d.renderPipeline(p, renderKey{topology: topology, components: geo.components})
	if err != nil {
		d.fail(fmt.Errorf("draw: %w", err))
		return
	}
	groups, ok := d.bindGroups(p, QuadTextureGroup, d.textures)
	if !ok {
		return
	}
	d.renderPass.SetPipeline(pipeline)
	for g, bg := range groups {
		d.renderPass.SetBindGroup(uint32(g), bg, nil)
	}
	d.renderPass.SetVertexBuffer(0, geo.buffer, 0, wgpu.WholeSize)
	d.renderPass.Draw(count, 1, first, 0)
}

var topologies = map[Topology]wgpu.PrimitiveTopology{
	TopologyTriangleList:  wgpu.PrimitiveTopologyTriangleList,
	TopologyTriangleStrip: wgpu.PrimitiveTopologyTriangleStrip,
}

var vertexFormats = map[int]wgpu.VertexFormat{
	1: wgpu.VertexFormatFloat32,
	2: wgpu.VertexFormatFloat32x2,
	3: wgpu.VertexFormatFloat32x3,
	4: wgpu.VertexFormatFloat32x4,
}

func (d *WGPUDevice) renderPipeline(p *wgpuProgram, key renderKey) (*wgpu.RenderPipeline, error) {
	if rp, ok := p.pipelines[key]; ok {
		return rp, nil
	}
	rp, err := d.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.label,
		Layout: p.layout,
		Vertex: wgpu.VertexState{
			Module:     p.vertex,
			EntryPoint: EntryPoint,
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(4 * key.components),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: vertexFormats[key.components], Offset: 0, ShaderLocation: 0},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     p.fragment,
			EntryPoint: EntryPoint,
			Targets: []wgpu.ColorTargetState{{
				Format:    d.Config.Format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: topologies[key.topology],
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}
	p.pipelines[key] = rp
	return rp, nil
}

// bindGroups builds one bind group per layout group from the program's
// uniforms and the images bound for imageGroup. Bind groups live for one
// frame.
func (d *WGPUDevice) bindGroups(p *wgpuProgram, imageGroup uint32, images map[uint32]ImageId) ([]*wgpu.BindGroup, bool) {
	groups := make([]*wgpu.BindGroup, len(p.groups))
	for g, layout := range p.groups {
		var entries []wgpu.BindGroupEntry
		for _, le := range p.entries[uint32(g)] {
			e := wgpu.BindGroupEntry{Binding: le.Binding}
			switch {
			case le.Buffer.Type == wgpu.BufferBindingTypeUniform:
				buf := p.uniforms[le.Binding]
				if buf == nil {
					d.fail(fmt.Errorf("%s: no uniform buffer for @group(%d) @binding(%d)", p.label, g, le.Binding))
					return nil, false
				}
				e.Buffer = buf
				e.Size = wgpu.WholeSize
			default:
				img := d.images[images[le.Binding]]
				if uint32(g) != imageGroup || img == nil {
					d.fail(fmt.Errorf("%s: no image bound for @group(%d) @binding(%d)", p.label, g, le.Binding))
					return nil, false
				}
				e.TextureView = img.view
			}
			entries = append(entries, e)
		}
		bg, err := d.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:   fmt.Sprintf("%s BG %d", p.label, g),
			Layout:  layout,
			Entries: entries,
		})
		if err != nil {
			d.fail(fmt.Errorf("%s bind group %d: %w", p.label, g, err))
			return nil, false
		}
		d.garbage = append(d.garbage, bg)
		groups[g] = bg
	}
	return groups, true
}

func (d *WGPUDevice) beginFrame() bool {
	if d.encoder != nil {
		return true
	}
	encoder, err := d.Device.CreateCommandEncoder(nil)
	if err != nil {
		d.fail(fmt.Errorf("create command encoder: %w", err))
		return false
	}
	d.encoder = encoder
	return true
}

func (d *WGPUDevice) beginRenderPass() bool {
	if d.renderPass != nil {
		return true
	}
	texture, err := d.Surface.GetCurrentTexture()
	if err != nil {
		d.fail(fmt.Errorf("get current texture: %w", err))
		return false
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		d.fail(fmt.Errorf("create surface view: %w", err))
		return false
	}
	d.frameTexture, d.frameView = texture, view
	d.renderPass = d.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	return true
}

func (d *WGPUDevice) Resize(width, height uint32) {
	d.Config.Width = width
	d.Config.Height = height
	if width > 0 && height > 0 {
		d.Surface.Configure(d.Adapter, d.Device, d.Config)
	}
}

// Present submits the frame. A frame that hit an error is dropped after the
// error is logged; the next frame starts clean.
func (d *WGPUDevice) Present() {
	defer d.endFrame()

	if d.computePass != nil {
		d.MemoryBarrier(BarrierShaderImageAccess)
	}
	if d.renderPass != nil {
		if err := d.renderPass.End(); err != nil {
			d.fail(fmt.Errorf("render pass end: %w", err))
		}
		d.renderPass.Release()
		d.renderPass = nil
	}
	if d.frameErr != nil {
		d.log.Errorf("frame dropped: %v", d.frameErr)
		return
	}
	if d.encoder == nil {
		return
	}
	cmd, err := d.encoder.Finish(nil)
	if err != nil {
		d.log.Errorf("encoder finish failed: %v", err)
		return
	}
	defer cmd.Release()
	d.Queue.Submit(cmd)
	if d.frameTexture != nil {
		d.Surface.Present()
	}
}

func (d *WGPUDevice) endFrame() {
	if d.encoder != nil {
		d.encoder.Release()
		d.encoder = nil
	}
	if d.frameView != nil {
		d.frameView.Release()
		d.frameView = nil
	}
	if d.frameTexture != nil {
		d.frameTexture.Release()
		d.frameTexture = nil
	}
	for _, bg := range d.garbage {
		bg.Release()
	}
	d.garbage = d.garbage[:0]
	d.frameErr = nil
}

func (d *WGPUDevice) fail(err error) {
	if d.frameErr == nil {
		d.frameErr = err
	}
}

// Release frees every object the device still owns.
func (d *WGPUDevice) Release() {
	d.endFrame()
	for id := range d.images {
		d.ReleaseImage(id)
	}
	for id, g := range d.geometry {
		g.buffer.Release()
		delete(d.geometry, id)
	}
	for id, p := range d.programs {
		d.releaseProgram(p)
		delete(d.programs, id)
	}
	for id := range d.shaders {
		d.ReleaseShader(id)
	}
	if d.Queue != nil {
		d.Queue.Release()
	}
	if d.Device != nil {
		d.Device.Release()
	}
	if d.Adapter != nil {
		d.Adapter.Release()
	}
	if d.Surface != nil {
		d.Surface.Release()
	}
	if d.Instance != nil {
		d.Instance.Release()
	}
}
