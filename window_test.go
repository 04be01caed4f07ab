package raymarch

import (
	"testing"

	"github.com/gekko3d/raymarch/marcher/rt/core"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestCursorDeltasOnlyWhileLocked(t *testing.T) {
	var q eventQueue

	q.cursorPos(10, 10)
	q.cursorPos(20, 30)
	assert.Empty(t, q.drain(), "free cursor motion does not steer")

	q.setLocked(true)
	q.cursorPos(100, 100)
	q.cursorPos(103, 96)
	q.cursorPos(110, 96)

	assert.Equal(t, []core.Event{
		core.MouseDelta{DX: 3, DY: -4},
		core.MouseDelta{DX: 7, DY: 0},
	}, q.drain())
}

func TestRelockStartsFromNewOrigin(t *testing.T) {
	var q eventQueue
	q.setLocked(true)
	q.cursorPos(0, 0)
	q.cursorPos(5, 5)
	q.setLocked(false)
	q.setLocked(true)
	q.cursorPos(500, 500)
	q.cursorPos(501, 500)

	assert.Equal(t, []core.Event{
		core.MouseDelta{DX: 5, DY: 5},
		core.MouseDelta{DX: 1, DY: 0},
	}, q.drain())
}

func TestKeyActions(t *testing.T) {
	var q eventQueue
	q.key(glfw.KeyW, glfw.Press)
	q.key(glfw.KeyW, glfw.Repeat)
	q.key(glfw.KeyW, glfw.Release)
	q.key(glfw.KeyF5, glfw.Press)

	assert.Equal(t, []core.Event{
		core.KeyInput{Key: core.KeyW, Pressed: true},
		core.KeyInput{Key: core.KeyW, Pressed: false},
		core.KeyInput{Key: core.KeyUnknown, Pressed: true},
	}, q.drain())
}

func TestEscapeRequestsClose(t *testing.T) {
	var q eventQueue
	q.key(glfw.KeyEscape, glfw.Press)
	assert.Equal(t, []core.Event{core.CloseRequest{}}, q.drain())
}

func TestScrollSkipsHorizontalOnly(t *testing.T) {
	var q eventQueue
	q.scroll(0)
	q.scroll(1.5)
	q.scroll(-1)
	assert.Equal(t, []core.Event{core.Scroll{Delta: 1.5}, core.Scroll{Delta: -1}}, q.drain())
}

func TestDrainEmpties(t *testing.T) {
	var q eventQueue
	q.push(core.Resize{Width: 1, Height: 2})
	assert.Len(t, q.drain(), 1)
	assert.Empty(t, q.drain())
}
