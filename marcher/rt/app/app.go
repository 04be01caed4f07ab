package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/gekko3d/raymarch/marcher/rt/core"
	"github.com/gekko3d/raymarch/marcher/rt/gpu"
	"github.com/gekko3d/raymarch/marcher/rt/shaders"
)

// DefaultTargetRate is the tick rate the loop paces to, in ticks per second.
const DefaultTargetRate = 61

// Action tells the caller whether to keep ticking.
type Action int

const (
	ActionContinue Action = iota
	ActionExit
)

// Logger is the subset of the application logger the loop uses.
type Logger interface {
	DebugEnabled() bool
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Surface is the window side of presentation.
type Surface interface {
	// Size returns the drawable size in pixels. Zero while minimized.
	Size() (width, height int)
	// SetCursorLocked captures and hides the cursor, or releases it.
	SetCursorLocked(locked bool)
}

// Sources holds the WGSL text of the three shader stages.
type Sources struct {
	Compute      string
	QuadVertex   string
	QuadFragment string
}

// DefaultSources returns the embedded raymarching kernel and blit shaders.
func DefaultSources() Sources {
	return Sources{
		Compute:      shaders.RaymarchWGSL,
		QuadVertex:   shaders.QuadVertexWGSL,
		QuadFragment: shaders.QuadFragmentWGSL,
	}
}

// Config tunes the loop. Start from DefaultConfig; zero numeric fields fall
// back to their defaults.
type Config struct {
	TargetRate     float64
	ReportInterval time.Duration
	// ResizeTarget recreates the render target when the surface size
	// changes. When false the first target is kept for the whole run.
	ResizeTarget bool
	Clock        Clock
}

func DefaultConfig() Config {
	return Config{
		TargetRate:     DefaultTargetRate,
		ReportInterval: time.Second,
		ResizeTarget:   true,
		Clock:          SystemClock,
	}
}

// App owns the camera, the compiled programs and the render target, and runs
// one frame per Tick.
type App struct {
	Camera   *core.CameraState
	Target   *RenderTarget
	Timer    *FrameTimer
	Profiler *Profiler

	cfg     Config
	log     Logger
	device  gpu.Device
	surface Surface

	programs framePrograms
	ready    bool
	closing  bool
	focused  bool
}

func New(device gpu.Device, surface Surface, log Logger, cfg Config) *App {
	def := DefaultConfig()
	if cfg.TargetRate <= 0 {
		cfg.TargetRate = def.TargetRate
	}
	if cfg.ReportInterval <= 0 {
		cfg.ReportInterval = def.ReportInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = def.Clock
	}
	return &App{
		Camera:   core.NewCameraState(),
		Timer:    NewFrameTimer(cfg.TargetRate, cfg.ReportInterval, cfg.Clock),
		Profiler: NewProfiler(cfg.Clock),
		cfg:      cfg,
		log:      log,
		device:   device,
		surface:  surface,
	}
}

// Init compiles both programs and uploads the quad. Any error leaves the App
// unusable; shader diagnostics are reachable with errors.As as
// *gpu.CompileError or *gpu.LinkError.
func (a *App) Init(src Sources) error {
	if a.ready {
		return errors.New("app: already initialized")
	}

	limits := a.device.Limits()
	a.log.Infof("max workgroups per dimension: %d", limits.MaxWorkgroupsPerDimension)
	a.log.Infof("max workgroup size: %d x %d x %d",
		limits.MaxWorkgroupSize[0], limits.MaxWorkgroupSize[1], limits.MaxWorkgroupSize[2])
	a.log.Infof("max invocations per workgroup: %d", limits.MaxInvocationsPerWorkgroup)

	compute, err := gpu.CompileComputeProgram(a.device, src.Compute)
	if err != nil {
		return fmt.Errorf("compute program: %w", err)
	}
	a.log.Infof("compiled %q", gpu.ComputeProgramLabel)

	quad, err := gpu.CompileQuadProgram(a.device, src.QuadVertex, src.QuadFragment)
	if err != nil {
		return fmt.Errorf("quad program: %w", err)
	}
	a.log.Infof("compiled %q", gpu.QuadProgramLabel)

	vertices, err := gpu.CreateQuadGeometry(a.device)
	if err != nil {
		return err
	}

	a.programs = framePrograms{compute: compute, quad: quad, vertices: vertices}
	a.ready = true
	return nil
}

// Tick applies input, integrates the camera, renders one frame, and paces
// the loop. A close request is honoured on the tick after it arrives.
func (a *App) Tick(events []core.Event) Action {
	if !a.ready {
		panic("app: Tick called before Init")
	}
	if a.closing {
		return ActionExit
	}

	for _, ev := range events {
		a.handle(ev)
	}

	p := a.Profiler
	p.BeginScope("integrate")
	elapsed := a.Timer.LoopStart()
	a.Camera.Integrate(elapsed)
	p.EndScope("integrate")

	p.BeginScope("render")
	a.render()
	p.EndScope("render")
	p.EndTick()

	if rate, ok := a.Timer.Report(); ok {
		if a.log.DebugEnabled() {
			a.log.Debugf("%.1f ticks/s\n%s", rate, p.GetStatsString())
		}
		p.Reset()
	}

	a.Timer.LoopSleep()
	return ActionContinue
}

func (a *App) render() {
	w, h := a.surface.Size()
	if w <= 0 || h <= 0 {
		return
	}
	if a.Target == nil {
		target, err := createTarget(a.device, uint32(w), uint32(h))
		if err != nil {
			a.log.Errorf("create render target %dx%d: %v", w, h, err)
			return
		}
		a.Target = target
		a.log.Debugf("render target %dx%d", w, h)
	}
	a.Profiler.SetCount("target width", int(a.Target.Width))
	a.Profiler.SetCount("target height", int(a.Target.Height))

	encodeFrame(a.device, a.programs, a.Target, a.Camera.Transform())
	a.device.Present()
}

func (a *App) handle(ev core.Event) {
	switch e := ev.(type) {
	case core.MouseDelta:
		if a.focused {
			a.Camera.OnMouseDelta(e.DX, e.DY)
		}
	case core.Scroll:
		a.Camera.OnScroll(e.Delta)
	case core.KeyInput:
		a.Camera.OnKey(e.Key, e.Pressed)
	case core.Focus:
		a.focused = e.Focused
		a.surface.SetCursorLocked(e.Focused)
	case core.CloseRequest:
		a.closing = true
	case core.Resize:
		a.resize(e.Width, e.Height)
	}
}

func (a *App) resize(width, height int) {
	if width < 0 || height < 0 {
		return
	}
	a.device.Resize(uint32(width), uint32(height))
	if !a.cfg.ResizeTarget || a.Target == nil {
		return
	}
	if a.Target.Width == uint32(width) && a.Target.Height == uint32(height) {
		return
	}
	if width == 0 || height == 0 {
		// Keep the old target while minimized; it is replaced once the
		// surface has a size again.
		return
	}
	a.device.ReleaseImage(a.Target.Image)
	a.Target = nil
}

// Focused reports whether mouse motion currently steers the camera.
func (a *App) Focused() bool {
	return a.focused
}

// Shutdown releases the render target.
func (a *App) Shutdown() {
	if a.Target != nil {
		a.device.ReleaseImage(a.Target.Image)
		a.Target = nil
	}
	a.ready = false
}
