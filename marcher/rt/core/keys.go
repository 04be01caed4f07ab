package core

// Key is a platform independent key code. The platform layer translates its
// native codes into these before they reach the camera.
type Key int

const (
	KeyUnknown Key = iota
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyLeftShift
	KeyRightShift
	KeyLeftControl
	KeyRightControl
	KeyLeftAlt
)

// Intent is one of the six motion directions the camera understands.
type Intent int

const (
	IntentForward Intent = iota
	IntentBack
	IntentLeft
	IntentRight
	IntentUp
	IntentDown
)

// KeyBindings maps keys to camera intents. Keys that are not present are ignored.
type KeyBindings map[Key]Intent

// DefaultKeyBindings binds by physical key position: W/A/S/D on QWERTY,
// Z/Q/S/D on AZERTY.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		KeyW:         IntentForward,
		KeyS:         IntentBack,
		KeyA:         IntentLeft,
		KeyD:         IntentRight,
		KeySpace:     IntentUp,
		KeyLeftShift: IntentDown,
	}
}
