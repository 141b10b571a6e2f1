// Package camera provides the cameras used to view the scene.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Movement is the set of movement keys held during a frame.
type Movement struct {
	Forward, Back bool
	Left, Right   bool
	Up, Down      bool
}

// Any reports whether any movement key is held.
func (m Movement) Any() bool {
	return m.Forward || m.Back || m.Left || m.Right || m.Up || m.Down
}

// FreeCamera flies through the scene. Translation and rotation are kept as
// separate matrices; the view is rotation · translation, so movement is
// always expressed in world space.
type FreeCamera struct {
	MoveSpeed float32 // world units per second
	LookSpeed float32 // radians per pixel of mouse motion

	projection mgl32.Mat4
	fovy       float32
	near, far  float32

	offset   mgl32.Vec3 // world translation applied by the view
	rotation mgl32.Mat4
}

// NewFreeCamera creates a camera at the origin looking down -Z.
// fovDegrees is the vertical field of view.
func NewFreeCamera(fovDegrees, aspect, near, far float32) *FreeCamera {
	c := &FreeCamera{
		MoveSpeed: 100,
		LookSpeed: 0.001,
		fovy:      mgl32.DegToRad(fovDegrees),
		near:      near,
		far:       far,
		rotation:  mgl32.Ident4(),
	}
	c.SetAspect(aspect)
	return c
}

// SetAspect rebuilds the projection for a new viewport aspect ratio.
func (c *FreeCamera) SetAspect(aspect float32) {
	if aspect <= 0 {
		aspect = 1
	}
	c.projection = mgl32.Perspective(c.fovy, aspect, c.near, c.far)
}

// Projection returns the projection matrix.
func (c *FreeCamera) Projection() mgl32.Mat4 {
	return c.projection
}

// Position returns the camera position in world space.
func (c *FreeCamera) Position() mgl32.Vec3 {
	return c.offset.Mul(-1)
}

// SetPosition places the camera.
func (c *FreeCamera) SetPosition(p mgl32.Vec3) {
	c.offset = p.Mul(-1)
}

// Rotation returns the camera rotation matrix.
func (c *FreeCamera) Rotation() mgl32.Mat4 {
	return c.rotation
}

// Move translates the camera for dt seconds. Forward and sideways motion
// stay in the horizontal plane regardless of pitch; Up and Down move along
// world Y.
func (c *FreeCamera) Move(m Movement, dt float32) {
	step := dt * c.MoveSpeed
	if step == 0 || !m.Any() {
		return
	}

	inv := c.rotation.Transpose()
	dirZ := horizontal(inv.Mul4x1(mgl32.Vec4{0, 0, 1, 1}).Vec3()).Mul(step)
	dirX := horizontal(inv.Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()).Mul(step)
	dirY := mgl32.Vec3{0, step, 0}

	if m.Forward {
		c.offset = c.offset.Add(dirZ)
	}
	if m.Back {
		c.offset = c.offset.Sub(dirZ)
	}
	if m.Left {
		c.offset = c.offset.Add(dirX)
	}
	if m.Right {
		c.offset = c.offset.Sub(dirX)
	}
	if m.Up {
		c.offset = c.offset.Sub(dirY)
	}
	if m.Down {
		c.offset = c.offset.Add(dirY)
	}
}

// horizontal projects v onto the XZ plane and normalizes it. A vertical
// vector yields zero.
func horizontal(v mgl32.Vec3) mgl32.Vec3 {
	h := mgl32.Vec3{v[0], 0, v[2]}
	if h.Len() < 1e-6 {
		return mgl32.Vec3{}
	}
	return h.Normalize()
}

// Look applies mouse motion in pixels. Pitch is applied in view space and
// yaw about world Y, so the horizon never rolls.
func (c *FreeCamera) Look(dx, dy float32) {
	if dx == 0 && dy == 0 {
		return
	}
	yaw := dx * c.LookSpeed
	pitch := -dy * c.LookSpeed
	c.rotation = mgl32.HomogRotate3D(pitch, mgl32.Vec3{-1, 0, 0}).
		Mul4(c.rotation).
		Mul4(mgl32.HomogRotate3D(yaw, mgl32.Vec3{0, 1, 0}))
}

// View returns the view matrix.
func (c *FreeCamera) View() mgl32.Mat4 {
	return c.rotation.Mul4(mgl32.Translate3D(c.offset[0], c.offset[1], c.offset[2]))
}

// ViewProjection returns projection · rotation · translation.
func (c *FreeCamera) ViewProjection() mgl32.Mat4 {
	return c.projection.Mul4(c.View())
}

// OrbitCamera circles a target point, used to follow a helicopter.
type OrbitCamera struct {
	Target   mgl32.Vec3
	Distance float32
	Pitch    float32 // radians above the horizon
	Yaw      float32 // radians around world Y

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera with default limits.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        40,
		Pitch:           0.4,
		MinDistance:     5,
		MaxDistance:     2000,
		MinPitch:        -1.4,
		MaxPitch:        1.4,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	cp := float32(math.Cos(float64(c.Pitch)))
	return c.Target.Add(mgl32.Vec3{
		c.Distance * cp * float32(math.Sin(float64(c.Yaw))),
		c.Distance * float32(math.Sin(float64(c.Pitch))),
		c.Distance * cp * float32(math.Cos(float64(c.Yaw))),
	})
}

// View returns the view matrix looking at the target.
func (c *OrbitCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// Drag rotates the orbit by mouse motion in pixels.
func (c *OrbitCamera) Drag(dx, dy float32) {
	c.Yaw -= dx * c.DragSensitivity
	c.Pitch = mgl32.Clamp(c.Pitch+dy*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// Zoom moves toward (positive) or away from the target.
func (c *OrbitCamera) Zoom(amount float32) {
	c.Distance = mgl32.Clamp(c.Distance*(1-amount*c.ZoomSensitivity), c.MinDistance, c.MaxDistance)
}
