package app

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/heliscene/pkg/scenegraph"
)

// Part is a mesh resident on the GPU.
type Part struct {
	VAO        scenegraph.VAO
	IndexCount int32
	Center     mgl32.Vec3
}

// Assets are the uploaded meshes the scene is built from.
type Assets struct {
	Terrain   Part
	Body      Part
	Door      Part
	MainRotor Part
	TailRotor Part
}

// SceneOptions control how the scene is assembled and animated.
type SceneOptions struct {
	Helicopters    int
	MainRotorPivot mgl32.Vec3 // zero uses the main rotor center
	TailRotorPivot mgl32.Vec3 // zero uses the tail rotor center
	Altitude       float32
	Spacing        float64 // seconds between helicopters along the path
	Animate        bool
	Scale          scenegraph.ScalePolicy
	MaxDepth       int // 0 keeps the default
}

// parkedSpacing is the x distance between helicopters when animation is off.
const parkedSpacing = 20

// HelicopterNodes are the nodes of one helicopter. The body is the
// subtree root; rotors and door follow it.
type HelicopterNodes struct {
	Body      scenegraph.NodeID
	MainRotor scenegraph.NodeID
	TailRotor scenegraph.NodeID
	Door      scenegraph.NodeID
	Delay     float64
}

// Scene is the persistent scene graph: a group root holding the terrain
// and every helicopter.
type Scene struct {
	Graph       *scenegraph.Graph
	Root        scenegraph.NodeID
	Terrain     scenegraph.NodeID
	Helicopters []HelicopterNodes

	opts SceneOptions
}

// BuildScene creates the graph once. Per frame only positions and
// rotations change.
func BuildScene(a Assets, opts SceneOptions) (*Scene, error) {
	if opts.Helicopters < 0 {
		return nil, fmt.Errorf("helicopter count %d is negative", opts.Helicopters)
	}
	g := scenegraph.New(
		scenegraph.WithScalePolicy(opts.Scale),
		scenegraph.WithMaxDepth(opts.MaxDepth),
	)
	s := &Scene{Graph: g, opts: opts}
	s.Root = g.AddGroup()
	s.Terrain = g.AddDrawable(a.Terrain.VAO, a.Terrain.IndexCount, mgl32.Vec3{})
	if err := g.AddChild(s.Root, s.Terrain); err != nil {
		return nil, err
	}

	mainPivot := pivotOr(opts.MainRotorPivot, a.MainRotor.Center)
	tailPivot := pivotOr(opts.TailRotorPivot, a.TailRotor.Center)

	for i := 0; i < opts.Helicopters; i++ {
		h := HelicopterNodes{
			Body:      g.AddDrawable(a.Body.VAO, a.Body.IndexCount, a.Body.Center),
			MainRotor: g.AddDrawable(a.MainRotor.VAO, a.MainRotor.IndexCount, mainPivot),
			TailRotor: g.AddDrawable(a.TailRotor.VAO, a.TailRotor.IndexCount, tailPivot),
			Door:      g.AddDrawable(a.Door.VAO, a.Door.IndexCount, mgl32.Vec3{}),
			Delay:     float64(i) * opts.Spacing,
		}
		for _, edge := range [][2]scenegraph.NodeID{
			{s.Root, h.Body},
			{h.Body, h.MainRotor},
			{h.Body, h.TailRotor},
			{h.Body, h.Door},
		} {
			if err := g.AddChild(edge[0], edge[1]); err != nil {
				return nil, err
			}
		}
		// parked helicopters stand in a row
		g.MustNode(h.Body).Position = mgl32.Vec3{float32(i) * parkedSpacing, opts.Altitude, 0}
		s.Helicopters = append(s.Helicopters, h)
	}
	return s, nil
}

func pivotOr(p, fallback mgl32.Vec3) mgl32.Vec3 {
	if p == (mgl32.Vec3{}) {
		return fallback
	}
	return p
}

// Animate poses every helicopter for time elapsed and sets the main and
// tail rotor angles. Followers fly the same path, each Spacing seconds behind the one
// before. Transforms are not recomputed until the next Propagate.
func (s *Scene) Animate(elapsed float64, mainAngle, tailAngle float32) {
	g := s.Graph
	for _, h := range s.Helicopters {
		if s.opts.Animate {
			pose := HeadingAt(elapsed - h.Delay)
			g.MustNode(h.Body).Position = mgl32.Vec3{pose.X, s.opts.Altitude, pose.Z}
			g.MustNode(h.Body).Rotation = mgl32.Vec3{pose.Pitch, pose.Yaw, pose.Roll}
		}
		g.MustNode(h.MainRotor).Rotation = mgl32.Vec3{0, mainAngle, 0}
		g.MustNode(h.TailRotor).Rotation = mgl32.Vec3{tailAngle, 0, 0}
	}
}

// Leader returns the world position of the first helicopter's pivot as of
// the last propagation, or the origin when there is none.
func (s *Scene) Leader() mgl32.Vec3 {
	if len(s.Helicopters) == 0 {
		return mgl32.Vec3{}
	}
	body := s.Graph.MustNode(s.Helicopters[0].Body)
	return mgl32.TransformCoordinate(body.ReferencePoint, body.Transform)
}
