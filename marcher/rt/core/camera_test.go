package core

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

func assertVec3(t *testing.T, expected, actual mgl32.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, expected[i], actual[i], eps, "component %d of %v vs %v", i, expected, actual)
	}
}

func TestUnitAxis(t *testing.T) {
	tests := []struct {
		negative, positive bool
		expected           float32
	}{
		{false, false, 0},
		{true, false, -1},
		{false, true, 1},
		{true, true, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, UnitAxis(tt.negative, tt.positive), "UnitAxis(%v, %v)", tt.negative, tt.positive)
	}
}

func TestNewCameraState(t *testing.T) {
	cam := NewCameraState()
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, cam.Position)
	assert.Zero(t, cam.Yaw)
	assert.Zero(t, cam.Pitch)
	assert.Zero(t, cam.LogSpeed)
	assert.Equal(t, float32(1), cam.Speed())
}

func TestIntegrate_NoKeysHeldLeavesPositionUnchanged(t *testing.T) {
	for _, logSpeed := range []float32{-3, 0, 0.5, 4} {
		for _, elapsed := range []time.Duration{0, time.Millisecond, 16 * time.Millisecond, 3 * time.Second} {
			cam := NewCameraState()
			cam.LogSpeed = logSpeed
			cam.Yaw = 0.7
			cam.Pitch = -2.1
			cam.Integrate(elapsed)
			assert.Equal(t, mgl32.Vec3{0, 1, 0}, cam.Position, "logSpeed=%v elapsed=%v", logSpeed, elapsed)
		}
	}
}

func TestIntegrate_ForwardOneSecondIsUnitStep(t *testing.T) {
	cam := NewCameraState()
	cam.OnKey(KeyW, true)
	cam.Integrate(time.Second)

	assertVec3(t, mgl32.Vec3{0, 1, -1}, cam.Position)
}

func TestIntegrate_ScrollScalesSpeedExponentially(t *testing.T) {
	cam := NewCameraState()
	cam.OnScroll(5)
	require.InDelta(t, 1.0, cam.LogSpeed, eps)

	start := cam.Position
	cam.OnKey(KeyW, true)
	cam.Integrate(time.Second)

	displacement := cam.Position.Sub(start).Len()
	assert.InDelta(t, math.E, displacement, 1e-4)
	assert.Greater(t, displacement, float32(2.5), "speed must compound, not add")
}

func TestIntegrate_PressReleaseLeavesNoResidue(t *testing.T) {
	cam := NewCameraState()
	cam.OnKey(KeyW, true)
	cam.Integrate(time.Second)
	cam.OnKey(KeyW, false)
	cam.Integrate(time.Second)
	cam.OnKey(KeyS, true)
	cam.Integrate(time.Second)

	reference := NewCameraState()
	reference.OnKey(KeyS, true)
	reference.Integrate(time.Second)

	// The idle second contributes nothing, so the walk is one step forward
	// followed by one step back.
	assertVec3(t, reference.Position.Add(mgl32.Vec3{0, 0, -1}), cam.Position)
	assert.False(t, cam.Forward)
	assert.True(t, cam.Back)
}

func TestIntegrate_ReleaseThenBackMatchesBackAlone(t *testing.T) {
	cam := NewCameraState()
	cam.OnKey(KeyW, true)
	cam.OnKey(KeyW, false)
	cam.Integrate(time.Second)
	cam.OnKey(KeyS, true)
	cam.Integrate(time.Second)

	reference := NewCameraState()
	reference.OnKey(KeyS, true)
	reference.Integrate(time.Second)

	assertVec3(t, reference.Position, cam.Position)
}

func TestIntegrate_OpposingKeysCancel(t *testing.T) {
	cam := NewCameraState()
	for _, k := range []Key{KeyW, KeyS, KeyA, KeyD, KeySpace, KeyLeftShift} {
		cam.OnKey(k, true)
	}
	cam.Integrate(2 * time.Second)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, cam.Position)
}

func TestIntegrate_PitchDoesNotTiltMovement(t *testing.T) {
	cam := NewCameraState()
	cam.Pitch = 1.2
	cam.OnKey(KeyW, true)
	cam.Integrate(time.Second)
	assertVec3(t, mgl32.Vec3{0, 1, -1}, cam.Position)
}

func TestIntegrate_YawRotatesMovement(t *testing.T) {
	tests := []struct {
		name     string
		key      Key
		yaw      float32
		expected mgl32.Vec3
	}{
		{"forward, quarter turn left", KeyW, math.Pi / 2, mgl32.Vec3{-1, 1, 0}},
		{"forward, half turn", KeyW, math.Pi, mgl32.Vec3{0, 1, 1}},
		{"right, zero yaw", KeyD, 0, mgl32.Vec3{1, 1, 0}},
		{"right, quarter turn left", KeyD, math.Pi / 2, mgl32.Vec3{0, 1, -1}},
		{"up ignores yaw", KeySpace, 1.3, mgl32.Vec3{0, 2, 0}},
		{"down ignores yaw", KeyLeftShift, -0.4, mgl32.Vec3{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCameraState()
			cam.Yaw = tt.yaw
			cam.OnKey(tt.key, true)
			cam.Integrate(time.Second)
			assertVec3(t, tt.expected, cam.Position)
		})
	}
}

func TestIntegrate_ScalesWithElapsed(t *testing.T) {
	cam := NewCameraState()
	cam.OnKey(KeyD, true)
	for i := 0; i < 4; i++ {
		cam.Integrate(250 * time.Millisecond)
	}
	assertVec3(t, mgl32.Vec3{1, 1, 0}, cam.Position)
}

func TestOnScroll_AdditiveInLogSpace(t *testing.T) {
	pairs := [][2]float32{{1, 2}, {-3, 0.5}, {0.25, -0.25}, {120, -7}}
	for _, p := range pairs {
		split := NewCameraState()
		split.OnScroll(p[0])
		split.OnScroll(p[1])

		joined := NewCameraState()
		joined.OnScroll(p[0] + p[1])

		assert.InDelta(t, joined.LogSpeed, split.LogSpeed, 1e-4, "deltas %v", p)
	}
}

func TestOnMouseDelta_OrderIndependent(t *testing.T) {
	a := NewCameraState()
	a.OnMouseDelta(12, -3)
	a.OnMouseDelta(-40, 9.5)

	b := NewCameraState()
	b.OnMouseDelta(-40, 9.5)
	b.OnMouseDelta(12, -3)

	c := NewCameraState()
	c.OnMouseDelta(12-40, -3+9.5)

	assert.InDelta(t, c.Yaw, a.Yaw, eps)
	assert.InDelta(t, c.Pitch, a.Pitch, eps)
	assert.InDelta(t, c.Yaw, b.Yaw, eps)
	assert.InDelta(t, c.Pitch, b.Pitch, eps)
	assert.InDelta(t, 28*LookSensitivity, c.Yaw, eps)
}

func TestOnMouseDelta_PitchIsNotClamped(t *testing.T) {
	cam := NewCameraState()
	cam.OnMouseDelta(0, -1000) // 5 radians up
	assert.InDelta(t, 5.0, cam.Pitch, eps)
	cam.OnMouseDelta(-2000, 0)
	assert.InDelta(t, 10.0, cam.Yaw, eps)
}

func TestOnKey_UnknownKeyIgnored(t *testing.T) {
	cam := NewCameraState()
	cam.OnKey(KeyF, true)
	cam.OnKey(KeyUnknown, true)
	cam.OnKey(Key(9999), false)
	assert.False(t, cam.Back || cam.Left || cam.Right || cam.Up || cam.Down || cam.Forward)
}

func TestOnKey_CustomBindings(t *testing.T) {
	cam := NewCameraState()
	cam.Bindings = KeyBindings{KeyUp: IntentForward}
	cam.OnKey(KeyW, true)
	assert.False(t, cam.Forward)
	cam.OnKey(KeyUp, true)
	assert.True(t, cam.Forward)
}

func TestTransform(t *testing.T) {
	cam := NewCameraState()
	cam.Position = mgl32.Vec3{3, -2, 7}

	assert.True(t, cam.Transform().ApproxEqual(mgl32.Translate3D(3, -2, 7)))

	cam.Yaw = 0.4
	cam.Pitch = -1.1
	expected := mgl32.Translate3D(3, -2, 7).Mul4(mgl32.HomogRotate3DY(0.4)).Mul4(mgl32.HomogRotate3DX(-1.1))
	assert.True(t, cam.Transform().ApproxEqualThreshold(expected, eps))

	// The origin of camera space lands on the camera position.
	origin := cam.Transform().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assertVec3(t, cam.Position, origin.Vec3())

	// Camera-space forward with zero pitch follows the movement direction.
	cam.Pitch = 0
	cam.Forward = true
	forward := cam.Transform().Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	assertVec3(t, cam.Direction(), forward)
}
