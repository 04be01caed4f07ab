package raymarch

import (
	"testing"

	"github.com/gekko3d/raymarch/marcher/rt/core"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		in   glfw.Key
		want core.Key
	}{
		{glfw.KeyW, core.KeyW},
		{glfw.KeyS, core.KeyS},
		{glfw.KeyA, core.KeyA},
		{glfw.KeyD, core.KeyD},
		{glfw.KeySpace, core.KeySpace},
		{glfw.KeyLeftShift, core.KeyLeftShift},
		{glfw.KeyEscape, core.KeyEscape},
		{glfw.KeyF1, core.KeyUnknown},
		{glfw.KeyUnknown, core.KeyUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TranslateKey(tt.in), "glfw key %d", tt.in)
	}
}

func TestDefaultBindingsAreReachable(t *testing.T) {
	reachable := make(map[core.Key]bool)
	for _, k := range glfwToKey {
		reachable[k] = true
	}
	for k := range core.DefaultKeyBindings() {
		assert.True(t, reachable[k], "bound key %d has no glfw source", k)
	}
}
