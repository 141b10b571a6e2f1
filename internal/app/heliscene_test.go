package app

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/heliscene/pkg/scenegraph"
)

func testAssets() Assets {
	return Assets{
		Terrain:   Part{VAO: 1, IndexCount: 600},
		Body:      Part{VAO: 2, IndexCount: 300, Center: mgl32.Vec3{0, 1, 0}},
		Door:      Part{VAO: 3, IndexCount: 36},
		MainRotor: Part{VAO: 4, IndexCount: 120, Center: mgl32.Vec3{0, 2.5, 0.5}},
		TailRotor: Part{VAO: 5, IndexCount: 60, Center: mgl32.Vec3{0.3, 2, 9}},
	}
}

type countingBackend struct {
	vaos []scenegraph.VAO
}

func (c *countingBackend) BindVertexArray(vao scenegraph.VAO) { c.vaos = append(c.vaos, vao) }
func (c *countingBackend) UniformMatrix4(string, mgl32.Mat4)  {}
func (c *countingBackend) Uniform3(string, mgl32.Vec3)        {}
func (c *countingBackend) DrawTriangles(int32)                {}

func TestBuildSceneStructure(t *testing.T) {
	s, err := BuildScene(testAssets(), SceneOptions{Helicopters: 2, Altitude: 10, Spacing: 0.75})
	require.NoError(t, err)

	assert.Equal(t, 2+4*2, s.Graph.Len())
	require.Len(t, s.Helicopters, 2)

	kids, err := s.Graph.Children(s.Root)
	require.NoError(t, err)
	assert.Equal(t, []scenegraph.NodeID{s.Terrain, s.Helicopters[0].Body, s.Helicopters[1].Body}, kids)

	h := s.Helicopters[1]
	kids, err = s.Graph.Children(h.Body)
	require.NoError(t, err)
	assert.Equal(t, []scenegraph.NodeID{h.MainRotor, h.TailRotor, h.Door}, kids)
	assert.InDelta(t, 0.75, h.Delay, 1e-9)

	require.NoError(t, s.Graph.Update(s.Root))
	rec := &countingBackend{}
	stats, err := s.Graph.Draw(s.Root, scenegraph.Frame{}, rec)
	require.NoError(t, err)
	assert.Equal(t, 9, stats.DrawCalls)
	assert.Equal(t, []scenegraph.VAO{1, 2, 4, 5, 3, 2, 4, 5, 3}, rec.vaos)
}

func TestBuildScenePivots(t *testing.T) {
	a := testAssets()

	s, err := BuildScene(a, SceneOptions{Helicopters: 1})
	require.NoError(t, err)
	h := s.Helicopters[0]
	assert.Equal(t, a.MainRotor.Center, s.Graph.MustNode(h.MainRotor).ReferencePoint)
	assert.Equal(t, a.TailRotor.Center, s.Graph.MustNode(h.TailRotor).ReferencePoint)
	assert.Equal(t, a.Body.Center, s.Graph.MustNode(h.Body).ReferencePoint)

	tail := mgl32.Vec3{0.35, 2.3, 10.4}
	s, err = BuildScene(a, SceneOptions{Helicopters: 1, TailRotorPivot: tail})
	require.NoError(t, err)
	assert.Equal(t, tail, s.Graph.MustNode(s.Helicopters[0].TailRotor).ReferencePoint)
}

func TestBuildSceneWithoutHelicopters(t *testing.T) {
	s, err := BuildScene(testAssets(), SceneOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Graph.Len())
	assert.Equal(t, mgl32.Vec3{}, s.Leader())

	_, err = BuildScene(testAssets(), SceneOptions{Helicopters: -1})
	assert.Error(t, err)
}

func TestAnimateFollowsHeading(t *testing.T) {
	s, err := BuildScene(testAssets(), SceneOptions{Helicopters: 2, Altitude: 10, Spacing: 0.5, Animate: true})
	require.NoError(t, err)

	s.Animate(3, 1.2, 1.8)

	for _, h := range s.Helicopters {
		pose := HeadingAt(3 - h.Delay)
		body := s.Graph.MustNode(h.Body)
		assert.Equal(t, mgl32.Vec3{pose.X, 10, pose.Z}, body.Position)
		assert.Equal(t, mgl32.Vec3{pose.Pitch, pose.Yaw, pose.Roll}, body.Rotation)
		assert.Equal(t, mgl32.Vec3{0, 1.2, 0}, s.Graph.MustNode(h.MainRotor).Rotation)
		assert.Equal(t, mgl32.Vec3{1.8, 0, 0}, s.Graph.MustNode(h.TailRotor).Rotation)
	}
	assert.NotEqual(t,
		s.Graph.MustNode(s.Helicopters[0].Body).Position,
		s.Graph.MustNode(s.Helicopters[1].Body).Position)
}

func TestAnimateParkedKeepsBodies(t *testing.T) {
	s, err := BuildScene(testAssets(), SceneOptions{Helicopters: 3, Altitude: 4})
	require.NoError(t, err)

	s.Animate(10, 0.7, 1.05)
	for i, h := range s.Helicopters {
		body := s.Graph.MustNode(h.Body)
		assert.Equal(t, mgl32.Vec3{float32(i) * parkedSpacing, 4, 0}, body.Position)
		assert.Equal(t, mgl32.Vec3{}, body.Rotation)
		assert.Equal(t, mgl32.Vec3{0, 0.7, 0}, s.Graph.MustNode(h.MainRotor).Rotation)
	}
}

func TestRotorPivotStaysOnBody(t *testing.T) {
	a := testAssets()
	s, err := BuildScene(a, SceneOptions{Helicopters: 1, Altitude: 10, Animate: true})
	require.NoError(t, err)
	h := s.Helicopters[0]

	for _, angle := range []float32{0, 0.5, math.Pi, 4} {
		s.Animate(2, angle, angle*TailRotorRatio)
		require.NoError(t, s.Graph.Update(s.Root))

		body := s.Graph.MustNode(h.Body).Transform
		rotor := s.Graph.MustNode(h.MainRotor).Transform
		want := mgl32.TransformCoordinate(a.MainRotor.Center, body)
		got := mgl32.TransformCoordinate(a.MainRotor.Center, rotor)
		for i := 0; i < 3; i++ {
			assert.InDelta(t, want[i], got[i], 1e-3, "angle %v axis %d", angle, i)
		}
	}
}

func TestLeaderTracksFirstHelicopter(t *testing.T) {
	a := testAssets()
	s, err := BuildScene(a, SceneOptions{Helicopters: 1, Altitude: 10, Animate: true})
	require.NoError(t, err)

	s.Animate(1, 0, 0)
	require.NoError(t, s.Graph.Update(s.Root))

	pose := HeadingAt(1)
	leader := s.Leader()
	assert.InDelta(t, pose.X, leader.X(), 1e-3)
	assert.InDelta(t, 10+a.Body.Center.Y(), leader.Y(), 1e-3)
	assert.InDelta(t, pose.Z, leader.Z(), 1e-3)
}
