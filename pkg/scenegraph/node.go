// Package scenegraph implements a hierarchical scene of drawable nodes.
//
// A Graph owns every node by value and hands out NodeID handles. Children are
// stored as ID lists, so a hierarchy can be built in any order (leaves first,
// parents later) without ever holding a dangling reference. Each frame the
// caller mutates node positions and rotations, runs Propagate to refresh the
// cached world transforms and then Draw to issue one draw call per drawable
// node.
package scenegraph

import (
	"github.com/go-gl/mathgl/mgl32"
)

// NodeID identifies a node inside a Graph.
type NodeID uint32

// Nil is the zero NodeID. It never refers to a node.
const Nil NodeID = 0

// VAO is an opaque handle to GPU-resident vertex and index buffers.
// Zero means no geometry.
type VAO uint32

// NonDrawable is the index count given to group nodes.
// Any count of 1 or less marks a node as non-drawable.
const NonDrawable int32 = -1

// Node is a positioned entity in the scene hierarchy.
type Node struct {
	Position mgl32.Vec3
	// Rotation holds Euler angles in radians, applied X then Y then Z
	// about ReferencePoint.
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
	// ReferencePoint is the local-space pivot for Rotation.
	ReferencePoint mgl32.Vec3

	// Transform is the world transform from the last Propagate pass.
	Transform mgl32.Mat4

	VAO        VAO
	IndexCount int32

	Children []NodeID
}

func newNode(vao VAO, indexCount int32, ref mgl32.Vec3) Node {
	return Node{
		Scale:          mgl32.Vec3{1, 1, 1},
		ReferencePoint: ref,
		Transform:      mgl32.Ident4(),
		VAO:            vao,
		IndexCount:     indexCount,
	}
}

// Drawable reports whether the node issues a draw call.
func (n *Node) Drawable() bool {
	return n.VAO != 0 && n.IndexCount > 1
}

// WorldPosition returns the world-space image of the node's local origin.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return mgl32.TransformCoordinate(mgl32.Vec3{}, n.Transform)
}
