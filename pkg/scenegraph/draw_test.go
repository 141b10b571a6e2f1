package scenegraph

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	op    string
	name  string
	vao   VAO
	count int32
	mat   mgl32.Mat4
	vec   mgl32.Vec3
}

type recorder struct {
	calls []call
}

func (r *recorder) BindVertexArray(vao VAO) {
	r.calls = append(r.calls, call{op: "bind", vao: vao})
}

func (r *recorder) UniformMatrix4(name string, m mgl32.Mat4) {
	r.calls = append(r.calls, call{op: "mat4", name: name, mat: m})
}

func (r *recorder) Uniform3(name string, v mgl32.Vec3) {
	r.calls = append(r.calls, call{op: "vec3", name: name, vec: v})
}

func (r *recorder) DrawTriangles(count int32) {
	r.calls = append(r.calls, call{op: "draw", count: count})
}

func (r *recorder) draws() []call {
	var out []call
	for _, c := range r.calls {
		if c.op == "draw" {
			out = append(out, c)
		}
	}
	return out
}

func testFrame() Frame {
	return Frame{
		ViewProjection: mgl32.Perspective(1, math.Pi/2, 0.1, 100),
		CameraPosition: mgl32.Vec3{1, 2, 3},
		LightPosition:  mgl32.Vec3{3000, 1000, 0},
	}
}

func TestDrawSkipsGroupsButVisitsChildren(t *testing.T) {
	g := New()
	root := g.AddGroup()
	left := g.AddDrawable(11, 30, mgl32.Vec3{})
	right := g.AddDrawable(12, 60, mgl32.Vec3{})
	require.NoError(t, g.AddChild(root, left))
	require.NoError(t, g.AddChild(root, right))
	require.NoError(t, g.SetPosition(root, mgl32.Vec3{0, 10, 0}))
	require.NoError(t, g.SetPosition(left, mgl32.Vec3{-1, 0, 0}))
	require.NoError(t, g.SetPosition(right, mgl32.Vec3{1, 0, 0}))
	require.NoError(t, g.Update(root))

	rec := &recorder{}
	stats, err := g.Draw(root, testFrame(), rec)
	require.NoError(t, err)

	assert.Equal(t, DrawStats{Visited: 3, DrawCalls: 2, Indices: 90}, stats)
	draws := rec.draws()
	require.Len(t, draws, 2)
	assert.Equal(t, int32(30), draws[0].count)
	assert.Equal(t, int32(60), draws[1].count)

	var transforms []mgl32.Mat4
	for _, c := range rec.calls {
		if c.op == "mat4" && c.name == UniformSceneTransform {
			transforms = append(transforms, c.mat)
		}
	}
	require.Len(t, transforms, 2)
	assertMat4(t, mgl32.Translate3D(-1, 10, 0), transforms[0])
	assertMat4(t, mgl32.Translate3D(1, 10, 0), transforms[1])
}

func TestDrawCallSequencePerNode(t *testing.T) {
	g := New()
	body := g.AddDrawable(2, 120, mgl32.Vec3{})
	rotor := g.AddDrawable(3, 48, mgl32.Vec3{0, 2, 0})
	require.NoError(t, g.AddChild(body, rotor))
	require.NoError(t, g.SetPosition(body, mgl32.Vec3{5, 0, 0}))
	require.NoError(t, g.SetRotation(rotor, mgl32.Vec3{0, 1, 0}))
	require.NoError(t, g.Update(body))

	fr := testFrame()
	rec := &recorder{}
	_, err := g.Draw(body, fr, rec)
	require.NoError(t, err)

	want := []call{
		{op: "bind", vao: 2},
		{op: "mat4", name: UniformViewProjection, mat: fr.ViewProjection},
		{op: "mat4", name: UniformSceneTransform, mat: g.MustNode(body).Transform},
		{op: "vec3", name: UniformCameraPosition, vec: fr.CameraPosition},
		{op: "vec3", name: UniformLightSource, vec: fr.LightPosition},
		{op: "draw", count: 120},
		{op: "bind", vao: 3},
		{op: "mat4", name: UniformViewProjection, mat: fr.ViewProjection},
		{op: "mat4", name: UniformSceneTransform, mat: g.MustNode(rotor).Transform},
		{op: "vec3", name: UniformCameraPosition, vec: fr.CameraPosition},
		{op: "vec3", name: UniformLightSource, vec: fr.LightPosition},
		{op: "draw", count: 48},
	}
	assert.Equal(t, want, rec.calls)
	assert.NotEqual(t, g.MustNode(body).Transform, g.MustNode(rotor).Transform)
}

func TestDrawChildOrder(t *testing.T) {
	g := New()
	root := g.AddGroup()
	var ids []NodeID
	for i := 1; i <= 4; i++ {
		id := g.AddDrawable(VAO(i), int32(3*i), mgl32.Vec3{})
		ids = append(ids, id)
	}
	// Attach out of creation order; draw order follows the child list.
	for _, i := range []int{2, 0, 3, 1} {
		require.NoError(t, g.AddChild(root, ids[i]))
	}
	require.NoError(t, g.Update(root))

	rec := &recorder{}
	_, err := g.Draw(root, testFrame(), rec)
	require.NoError(t, err)

	var bound []VAO
	for _, c := range rec.calls {
		if c.op == "bind" {
			bound = append(bound, c.vao)
		}
	}
	assert.Equal(t, []VAO{3, 1, 4, 2}, bound)
}

func TestDrawDetectsCycles(t *testing.T) {
	g := New()
	a := g.AddDrawable(1, 3, mgl32.Vec3{})
	b := g.AddDrawable(2, 3, mgl32.Vec3{})
	require.NoError(t, g.AddChild(a, b))
	require.NoError(t, g.AddChild(b, a))

	_, err := g.Draw(a, testFrame(), &recorder{})
	assert.ErrorIs(t, err, ErrCycle)
}

func TestDrawSingleIndexNodeIsGroup(t *testing.T) {
	g := New()
	root := g.AddDrawable(9, 1, mgl32.Vec3{})
	child := g.AddDrawable(10, 6, mgl32.Vec3{})
	require.NoError(t, g.AddChild(root, child))
	require.NoError(t, g.Update(root))

	rec := &recorder{}
	stats, err := g.Draw(root, testFrame(), rec)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DrawCalls)
	assert.Equal(t, VAO(10), rec.calls[0].vao)
}

func TestDump(t *testing.T) {
	g := New()
	root := g.AddGroup()
	mesh := g.AddDrawable(7, 36, mgl32.Vec3{0.35, 2.3, 10.4})
	require.NoError(t, g.AddChild(root, mesh))
	require.NoError(t, g.SetPosition(mesh, mgl32.Vec3{1, 2, 3}))
	require.NoError(t, g.Update(root))

	var buf bytes.Buffer
	require.NoError(t, g.Dump(&buf, root))
	out := buf.String()

	assert.Contains(t, out, fmt.Sprintf("Node %d (group)", root))
	assert.Contains(t, out, fmt.Sprintf("    Node %d (mesh)", mesh))
	assert.Contains(t, out, "VAO:       7")
	assert.Contains(t, out, "Indices:   36")
	assert.Contains(t, out, "Reference: [0.35, 2.30, 10.40]")
	// Translation column shows up at the end of the first three rows.
	assert.Contains(t, out, "  1.00    0.00    0.00    1.00")

	buf.Reset()
	g.Spew(&buf)
	assert.Contains(t, buf.String(), "#2 ")
	assert.Contains(t, buf.String(), "IndexCount: (int32) 36")
}
