package app

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/heliscene/internal/config"
	"github.com/Faultbox/heliscene/internal/engine/camera"
	"github.com/Faultbox/heliscene/pkg/scenegraph"
)

// Viewer owns the cameras and builds the per-frame draw inputs. The free
// camera is the default; the orbit camera follows the lead helicopter.
type Viewer struct {
	Free  *camera.FreeCamera
	Orbit *camera.OrbitCamera
	Light mgl32.Vec3

	fixedAspect float32
	orbiting    bool
}

// NewViewer creates the cameras for a width x height viewport.
func NewViewer(cc config.CameraConfig, light [3]float32, width, height int) *Viewer {
	v := &Viewer{
		Free:        camera.NewFreeCamera(cc.FOV, 1, cc.Near, cc.Far),
		Orbit:       camera.NewOrbitCamera(),
		Light:       mgl32.Vec3(light),
		fixedAspect: cc.FixedRatio,
	}
	v.Free.MoveSpeed = cc.MoveSpeed
	v.Free.LookSpeed = cc.LookSpeed
	v.Free.SetPosition(mgl32.Vec3(cc.Start))
	v.Resize(width, height)
	return v
}

// Resize updates the projection for a new viewport unless the aspect ratio
// is fixed.
func (v *Viewer) Resize(width, height int) {
	aspect := v.fixedAspect
	if aspect <= 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	v.Free.SetAspect(aspect)
}

// ToggleMode switches between the free and orbit cameras.
func (v *Viewer) ToggleMode() {
	v.orbiting = !v.orbiting
}

// Orbiting reports whether the orbit camera is active.
func (v *Viewer) Orbiting() bool {
	return v.orbiting
}

// Step applies one frame of input to the active camera. target is the
// point the orbit camera circles.
func (v *Viewer) Step(dt float32, move camera.Movement, dx, dy, wheel float32, target mgl32.Vec3) {
	if v.orbiting {
		v.Orbit.Target = target
		v.Orbit.Drag(dx, dy)
		if wheel != 0 {
			v.Orbit.Zoom(wheel)
		}
		return
	}
	v.Free.Move(move, dt)
	v.Free.Look(dx, dy)
}

// Frame returns the uniforms shared by every draw call this frame.
func (v *Viewer) Frame() scenegraph.Frame {
	if v.orbiting {
		return scenegraph.Frame{
			ViewProjection: v.Free.Projection().Mul4(v.Orbit.View()),
			CameraPosition: v.Orbit.Position(),
			LightPosition:  v.Light,
		}
	}
	return scenegraph.Frame{
		ViewProjection: v.Free.ViewProjection(),
		CameraPosition: v.Free.Position(),
		LightPosition:  v.Light,
	}
}
