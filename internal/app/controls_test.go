package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/heliscene/internal/engine/camera"
	"github.com/Faultbox/heliscene/internal/engine/input"
)

func TestMovementFor(t *testing.T) {
	tests := []struct {
		name string
		keys []sdl.Scancode
		want camera.Movement
	}{
		{"none", nil, camera.Movement{}},
		{"forward", []sdl.Scancode{sdl.SCANCODE_W}, camera.Movement{Forward: true}},
		{"strafe", []sdl.Scancode{sdl.SCANCODE_A, sdl.SCANCODE_D}, camera.Movement{Left: true, Right: true}},
		{"vertical", []sdl.Scancode{sdl.SCANCODE_E, sdl.SCANCODE_Q}, camera.Movement{Up: true, Down: true}},
		{"back and unbound", []sdl.Scancode{sdl.SCANCODE_S, sdl.SCANCODE_X}, camera.Movement{Back: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ks := input.NewKeySet()
			for _, k := range tt.keys {
				ks.Press(k)
			}
			assert.Equal(t, tt.want, MovementFor(ks.Snapshot()))
		})
	}
}

func TestActions(t *testing.T) {
	got := Actions([]sdl.Scancode{sdl.SCANCODE_W, sdl.SCANCODE_F12, sdl.SCANCODE_R, sdl.SCANCODE_C, sdl.SCANCODE_F2})
	assert.Equal(t, []Action{ActionScreenshot, ActionToggleRotor, ActionToggleCamera, ActionDumpScene}, got)
	assert.Empty(t, Actions(nil))
	assert.Equal(t, "toggle-rotor", ActionToggleRotor.String())
	assert.Equal(t, "none", Action(99).String())
}
