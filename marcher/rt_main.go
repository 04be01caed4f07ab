package main

import (
	"flag"
	"os"
	"runtime"

	"github.com/gekko3d/raymarch"
	"github.com/gekko3d/raymarch/marcher/rt/app"
	"github.com/gekko3d/raymarch/marcher/rt/gpu"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging (tick rate and profiler scopes)")
	flag.Parse()

	logger := raymarch.NewDefaultLogger("raymarch", *debug)

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	window, err := raymarch.NewWindow(raymarch.WindowTitle)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	device, err := gpu.NewWGPUDevice(window.GLFW, logger.Named("gpu"))
	if err != nil {
		panic(err)
	}
	defer device.Release()

	application := app.New(device, window, logger, app.DefaultConfig())
	if err := application.Init(app.DefaultSources()); err != nil {
		logger.Errorf("%v", err)
		device.Release()
		window.Destroy()
		glfw.Terminate()
		os.Exit(1)
	}
	defer application.Shutdown()

	for {
		if application.Tick(window.PollEvents()) == app.ActionExit {
			return
		}
	}
}
