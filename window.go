package raymarch

import (
	"errors"
	"fmt"

	"github.com/gekko3d/raymarch/marcher/rt/core"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowTitle is the caption of the render window.
const WindowTitle = "Raymarch"

// eventQueue turns glfw callbacks into core events between polls.
type eventQueue struct {
	events []core.Event

	locked       bool
	haveCursor   bool
	lastX, lastY float64
}

func (q *eventQueue) push(ev core.Event) {
	q.events = append(q.events, ev)
}

func (q *eventQueue) cursorPos(x, y float64) {
	if !q.locked {
		q.haveCursor = false
		return
	}
	if q.haveCursor {
		q.push(core.MouseDelta{DX: float32(x - q.lastX), DY: float32(y - q.lastY)})
	}
	q.lastX, q.lastY = x, y
	q.haveCursor = true
}

func (q *eventQueue) scroll(yoff float64) {
	if yoff != 0 {
		q.push(core.Scroll{Delta: float32(yoff)})
	}
}

func (q *eventQueue) key(k glfw.Key, action glfw.Action) {
	if action == glfw.Repeat {
		return
	}
	pressed := action == glfw.Press
	if k == glfw.KeyEscape && pressed {
		q.push(core.CloseRequest{})
		return
	}
	q.push(core.KeyInput{Key: TranslateKey(k), Pressed: pressed})
}

func (q *eventQueue) setLocked(locked bool) {
	q.locked = locked
	// The first position after a lock change is a new origin, not motion.
	q.haveCursor = false
}

func (q *eventQueue) drain() []core.Event {
	events := q.events
	q.events = nil
	return events
}

// Window is a borderless fullscreen glfw window without a client API; the
// GPU backend attaches its own surface.
type Window struct {
	GLFW  *glfw.Window
	queue eventQueue
}

// NewWindow opens the window on the primary monitor at its current video
// mode. glfw must be initialized on the main thread.
func NewWindow(title string) (*Window, error) {
	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return nil, errors.New("no primary monitor")
	}
	mode := monitor.GetVideoMode()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.RedBits, mode.RedBits)
	glfw.WindowHint(glfw.GreenBits, mode.GreenBits)
	glfw.WindowHint(glfw.BlueBits, mode.BlueBits)
	glfw.WindowHint(glfw.RefreshRate, mode.RefreshRate)

	win, err := glfw.CreateWindow(mode.Width, mode.Height, title, monitor, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	w := &Window{GLFW: win}
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		w.queue.cursorPos(x, y)
	})
	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		w.queue.scroll(yoff)
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		w.queue.key(key, action)
	})
	win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		w.queue.push(core.Focus{Focused: focused})
	})
	win.SetCloseCallback(func(_ *glfw.Window) {
		w.queue.push(core.CloseRequest{})
	})
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.queue.push(core.Resize{Width: width, Height: height})
	})

	// A window can open focused without a focus callback ever firing.
	w.queue.push(core.Focus{Focused: win.GetAttrib(glfw.Focused) == glfw.True})
	return w, nil
}

// PollEvents processes pending window events and returns them in arrival
// order.
func (w *Window) PollEvents() []core.Event {
	glfw.PollEvents()
	return w.queue.drain()
}

func (w *Window) Size() (int, int) {
	return w.GLFW.GetFramebufferSize()
}

// SetCursorLocked hides and captures the cursor for relative motion, using
// raw motion where the platform has it.
func (w *Window) SetCursorLocked(locked bool) {
	if locked {
		w.GLFW.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		if glfw.RawMouseMotionSupported() {
			w.GLFW.SetInputMode(glfw.RawMouseMotion, glfw.True)
		}
	} else {
		if glfw.RawMouseMotionSupported() {
			w.GLFW.SetInputMode(glfw.RawMouseMotion, glfw.False)
		}
		w.GLFW.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
	w.queue.setLocked(locked)
}

func (w *Window) Destroy() {
	w.GLFW.Destroy()
}
