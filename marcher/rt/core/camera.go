package core

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// LookSensitivity is radians of rotation per unit of pointer motion.
	LookSensitivity float32 = 0.005
	// ScrollSensitivity is log-speed gained per unit of scroll.
	ScrollSensitivity float32 = 0.2
)

// CameraState is a free flying camera. Yaw and pitch are free-running radians:
// they are never clamped or wrapped, so pitch may go past straight up.
// Speed is kept in log space so that each scroll step scales it geometrically.
type CameraState struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32
	LogSpeed float32

	Forward, Back bool
	Left, Right   bool
	Up, Down      bool

	Bindings KeyBindings
}

func NewCameraState() *CameraState {
	return &CameraState{
		Position: mgl32.Vec3{0, 1, 0},
		Bindings: DefaultKeyBindings(),
	}
}

func (c *CameraState) OnMouseDelta(dx, dy float32) {
	c.Yaw -= dx * LookSensitivity
	c.Pitch -= dy * LookSensitivity
}

func (c *CameraState) OnScroll(delta float32) {
	c.LogSpeed += delta * ScrollSensitivity
}

// OnKey updates the intent flag bound to code. Unbound codes are ignored.
func (c *CameraState) OnKey(code Key, pressed bool) {
	intent, ok := c.Bindings[code]
	if !ok {
		return
	}
	switch intent {
	case IntentForward:
		c.Forward = pressed
	case IntentBack:
		c.Back = pressed
	case IntentLeft:
		c.Left = pressed
	case IntentRight:
		c.Right = pressed
	case IntentUp:
		c.Up = pressed
	case IntentDown:
		c.Down = pressed
	}
}

// Speed is the linear movement speed in world units per second.
func (c *CameraState) Speed() float32 {
	return float32(math.Exp(float64(c.LogSpeed)))
}

// Direction returns the held movement direction in world space. Pitch does
// not tilt it: movement stays in the yaw-rotated frame.
// Forward is -Z, right is +X and up is +Y at zero yaw.
func (c *CameraState) Direction() mgl32.Vec3 {
	local := mgl32.Vec3{
		UnitAxis(c.Left, c.Right),
		UnitAxis(c.Down, c.Up),
		UnitAxis(c.Forward, c.Back),
	}
	return mgl32.Rotate3DY(c.Yaw).Mul3x1(local)
}

// Integrate advances the position by elapsed time. Called once per tick.
func (c *CameraState) Integrate(elapsed time.Duration) {
	seconds := float32(elapsed.Seconds())
	c.Position = c.Position.Add(c.Direction().Mul(seconds * c.Speed()))
}

// Transform returns translate(position) * rotateY(yaw) * rotateX(pitch).
// This is the camera-to-world matrix; it is handed to the kernel uninverted.
func (c *CameraState) Transform() mgl32.Mat4 {
	return mgl32.Translate3D(c.Position.X(), c.Position.Y(), c.Position.Z()).
		Mul4(mgl32.HomogRotate3DY(c.Yaw)).
		Mul4(mgl32.HomogRotate3DX(c.Pitch))
}

// UnitAxis folds a pair of opposing flags into -1, 0 or +1.
// Holding both cancels out.
func UnitAxis(negative, positive bool) float32 {
	switch {
	case positive && !negative:
		return 1
	case negative && !positive:
		return -1
	default:
		return 0
	}
}
