package scenegraph

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Propagate recomputes the world transform of root and every descendant.
//
// For each node, in pre-order:
//
//	T      = translate(position)
//	Rpivot = translate(ref) * Rx * Ry * Rz * translate(-ref)
//	world  = parent * T * Rpivot
//
// Children read their parent's freshly computed world transform. There is
// no dirty tracking: the whole subtree is rebuilt on every call, so two
// calls with the same inputs yield identical matrices. A node with several
// parents keeps the transform of the last path that reached it.
func (g *Graph) Propagate(root NodeID, parent mgl32.Mat4) error {
	policy := g.scale
	return g.traverseFrom(root, parent, func(f *frame) bool {
		f.world = f.parentWorld.Mul4(LocalTransform(f.node, policy))
		f.node.Transform = f.world
		return true
	})
}

// Update propagates from root with an identity parent transform.
func (g *Graph) Update(root NodeID) error {
	return g.Propagate(root, mgl32.Ident4())
}

// LocalTransform returns the node's transform relative to its parent.
func LocalTransform(n *Node, policy ScalePolicy) mgl32.Mat4 {
	translation := mgl32.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	return translation.Mul4(PivotRotation(n.Rotation, n.ReferencePoint, scaleFor(n, policy)))
}

func scaleFor(n *Node, policy ScalePolicy) mgl32.Mat4 {
	if policy == ScaleAboutPivot {
		return mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	}
	return mgl32.Ident4()
}

// PivotRotation rotates by Euler angles (X, then Y, then Z, in radians)
// about ref rather than the origin. scale is applied between the rotation
// and the move back from the pivot; pass identity to leave it out.
func PivotRotation(rotation, ref mgl32.Vec3, scale mgl32.Mat4) mgl32.Mat4 {
	toPivot := mgl32.Translate3D(ref.X(), ref.Y(), ref.Z())
	fromPivot := mgl32.Translate3D(-ref.X(), -ref.Y(), -ref.Z())

	return toPivot.
		Mul4(mgl32.HomogRotate3DX(rotation.X())).
		Mul4(mgl32.HomogRotate3DY(rotation.Y())).
		Mul4(mgl32.HomogRotate3DZ(rotation.Z())).
		Mul4(scale).
		Mul4(fromPivot)
}
