package core

// Event is a single input notification delivered by the windowing layer.
// The concrete types below are the only implementations.
type Event interface {
	isEvent()
}

// MouseDelta is relative pointer motion, in screen units.
type MouseDelta struct {
	DX, DY float32
}

// Scroll carries the vertical wheel delta. Line and pixel deltas are both
// passed through as a single float.
type Scroll struct {
	Delta float32
}

// KeyInput is a press or release of a key.
type KeyInput struct {
	Key     Key
	Pressed bool
}

// Focus reports the window gaining or losing input focus.
type Focus struct {
	Focused bool
}

// CloseRequest asks the loop to stop.
type CloseRequest struct{}

// Resize reports the new framebuffer size in pixels.
type Resize struct {
	Width, Height int
}

func (MouseDelta) isEvent()   {}
func (Scroll) isEvent()       {}
func (KeyInput) isEvent()     {}
func (Focus) isEvent()        {}
func (CloseRequest) isEvent() {}
func (Resize) isEvent()       {}
