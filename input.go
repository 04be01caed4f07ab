package raymarch

import (
	"github.com/gekko3d/raymarch/marcher/rt/core"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfw key codes name physical positions on a US layout, so KeyW is the
// key left of E on any layout (Z on AZERTY).
var glfwToKey = map[glfw.Key]core.Key{
	glfw.KeyA:            core.KeyA,
	glfw.KeyB:            core.KeyB,
	glfw.KeyC:            core.KeyC,
	glfw.KeyD:            core.KeyD,
	glfw.KeyE:            core.KeyE,
	glfw.KeyF:            core.KeyF,
	glfw.KeyG:            core.KeyG,
	glfw.KeyH:            core.KeyH,
	glfw.KeyI:            core.KeyI,
	glfw.KeyJ:            core.KeyJ,
	glfw.KeyK:            core.KeyK,
	glfw.KeyL:            core.KeyL,
	glfw.KeyM:            core.KeyM,
	glfw.KeyN:            core.KeyN,
	glfw.KeyO:            core.KeyO,
	glfw.KeyP:            core.KeyP,
	glfw.KeyQ:            core.KeyQ,
	glfw.KeyR:            core.KeyR,
	glfw.KeyS:            core.KeyS,
	glfw.KeyT:            core.KeyT,
	glfw.KeyU:            core.KeyU,
	glfw.KeyV:            core.KeyV,
	glfw.KeyW:            core.KeyW,
	glfw.KeyX:            core.KeyX,
	glfw.KeyY:            core.KeyY,
	glfw.KeyZ:            core.KeyZ,
	glfw.KeySpace:        core.KeySpace,
	glfw.KeyEnter:        core.KeyEnter,
	glfw.KeyEscape:       core.KeyEscape,
	glfw.KeyTab:          core.KeyTab,
	glfw.KeyRight:        core.KeyRight,
	glfw.KeyLeft:         core.KeyLeft,
	glfw.KeyDown:         core.KeyDown,
	glfw.KeyUp:           core.KeyUp,
	glfw.KeyLeftShift:    core.KeyLeftShift,
	glfw.KeyRightShift:   core.KeyRightShift,
	glfw.KeyLeftControl:  core.KeyLeftControl,
	glfw.KeyRightControl: core.KeyRightControl,
	glfw.KeyLeftAlt:      core.KeyLeftAlt,
}

// TranslateKey maps a glfw key to its core code, or core.KeyUnknown.
func TranslateKey(k glfw.Key) core.Key {
	if key, ok := glfwToKey[k]; ok {
		return key
	}
	return core.KeyUnknown
}
