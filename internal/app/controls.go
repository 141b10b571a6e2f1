package app

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/heliscene/internal/engine/camera"
	"github.com/Faultbox/heliscene/internal/engine/input"
)

// Action is a one-shot command triggered by a key press.
type Action int

const (
	ActionNone Action = iota
	ActionScreenshot
	ActionToggleRotor
	ActionToggleCamera
	ActionDumpScene
)

func (a Action) String() string {
	switch a {
	case ActionScreenshot:
		return "screenshot"
	case ActionToggleRotor:
		return "toggle-rotor"
	case ActionToggleCamera:
		return "toggle-camera"
	case ActionDumpScene:
		return "dump-scene"
	default:
		return "none"
	}
}

var actionKeys = map[sdl.Scancode]Action{
	sdl.SCANCODE_F12: ActionScreenshot,
	sdl.SCANCODE_R:   ActionToggleRotor,
	sdl.SCANCODE_C:   ActionToggleCamera,
	sdl.SCANCODE_F2:  ActionDumpScene,
}

// Actions maps newly pressed keys to actions, dropping unbound keys.
func Actions(pressed []sdl.Scancode) []Action {
	var out []Action
	for _, sc := range pressed {
		if a, ok := actionKeys[sc]; ok {
			out = append(out, a)
		}
	}
	return out
}

// MovementFor maps held keys to camera movement. WASD moves on the ground
// plane, E rises and Q sinks.
func MovementFor(keys input.Keys) camera.Movement {
	return camera.Movement{
		Forward: keys.Has(sdl.SCANCODE_W),
		Back:    keys.Has(sdl.SCANCODE_S),
		Left:    keys.Has(sdl.SCANCODE_A),
		Right:   keys.Has(sdl.SCANCODE_D),
		Up:      keys.Has(sdl.SCANCODE_E),
		Down:    keys.Has(sdl.SCANCODE_Q),
	}
}
