package scenegraph

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Uniform names the shader program is expected to declare.
const (
	UniformViewProjection = "ViewProjectionMatrix"
	// UniformSceneTransform keeps the spelling used by the shaders.
	UniformSceneTransform = "SceneTransfrom"
	UniformCameraPosition = "CameraPosition"
	UniformLightSource    = "LightSource"
)

// Backend receives the graphics calls issued by Draw.
// Every drawable node shares one shader program, which the backend is
// expected to have bound before Draw is called.
type Backend interface {
	BindVertexArray(vao VAO)
	UniformMatrix4(name string, m mgl32.Mat4)
	Uniform3(name string, v mgl32.Vec3)
	DrawTriangles(indexCount int32)
}

// Frame holds the per-frame values shared by every draw call.
type Frame struct {
	ViewProjection mgl32.Mat4
	CameraPosition mgl32.Vec3
	LightPosition  mgl32.Vec3
}

// DrawStats summarizes one Draw pass.
type DrawStats struct {
	Visited   int
	DrawCalls int
	Indices   int64
}

// Draw walks root and its descendants in pre-order and issues one indexed
// triangle draw per drawable node. The root uses the transform from the
// last Propagate; every descendant composes its local transform onto the
// transform of the parent it was reached through, so a node shared by two
// parents is drawn once under each. Group nodes draw nothing but their
// children are still visited.
//
// Each drawable node gets all four uniforms set right before its draw
// call, so a draw never sees another node's transform.
func (g *Graph) Draw(root NodeID, fr Frame, b Backend) (DrawStats, error) {
	var stats DrawStats
	policy := g.scale
	err := g.traverse(root, func(f *frame) bool {
		stats.Visited++
		n := f.node
		if f.depth > 0 {
			f.world = f.parentWorld.Mul4(LocalTransform(n, policy))
		}
		if !n.Drawable() {
			return true
		}

		b.BindVertexArray(n.VAO)
		b.UniformMatrix4(UniformViewProjection, fr.ViewProjection)
		b.UniformMatrix4(UniformSceneTransform, f.world)
		b.Uniform3(UniformCameraPosition, fr.CameraPosition)
		b.Uniform3(UniformLightSource, fr.LightPosition)
		b.DrawTriangles(n.IndexCount)

		stats.DrawCalls++
		stats.Indices += int64(n.IndexCount)
		return true
	})
	return stats, err
}
