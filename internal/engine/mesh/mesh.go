// Package mesh loads triangle meshes for upload to the GPU.
package mesh

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh holds flat per-vertex attributes and a triangle index list.
type Mesh struct {
	Name     string
	Vertices []float32 // xyz
	Colors   []float32 // rgba
	Normals  []float32 // xyz
	Indices  []uint32
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// IndexCount returns the number of indices, as the draw call expects it.
func (m *Mesh) IndexCount() int32 {
	return int32(len(m.Indices))
}

// Position returns vertex i.
func (m *Mesh) Position(i int) mgl32.Vec3 {
	return mgl32.Vec3{m.Vertices[3*i], m.Vertices[3*i+1], m.Vertices[3*i+2]}
}

// Bounds computes the bounding box of all vertices.
func (m *Mesh) Bounds() Bounds {
	if m.VertexCount() == 0 {
		return Bounds{}
	}
	b := Bounds{Min: m.Position(0), Max: m.Position(0)}
	for i := 1; i < m.VertexCount(); i++ {
		p := m.Position(i)
		for k := 0; k < 3; k++ {
			if p[k] < b.Min[k] {
				b.Min[k] = p[k]
			}
			if p[k] > b.Max[k] {
				b.Max[k] = p[k]
			}
		}
	}
	return b
}

// Center returns the center of the bounding box. Scene nodes commonly use
// it as the rotation pivot.
func (m *Mesh) Center() mgl32.Vec3 {
	return m.Bounds().Center()
}

// SetColor paints every vertex with c.
func (m *Mesh) SetColor(c [4]float32) {
	n := m.VertexCount()
	if cap(m.Colors) >= 4*n {
		m.Colors = m.Colors[:4*n]
	} else {
		m.Colors = make([]float32, 4*n)
	}
	for i := 0; i < n; i++ {
		copy(m.Colors[4*i:4*i+4], c[:])
	}
}

// Validate checks that attribute arrays agree with each other and that
// every index refers to an existing vertex.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%3 != 0 {
		return fmt.Errorf("mesh %q: vertex array length %d is not a multiple of 3", m.Name, len(m.Vertices))
	}
	n := m.VertexCount()
	if len(m.Colors) != 4*n {
		return fmt.Errorf("mesh %q: %d colors for %d vertices", m.Name, len(m.Colors)/4, n)
	}
	if len(m.Normals) != 3*n {
		return fmt.Errorf("mesh %q: %d normals for %d vertices", m.Name, len(m.Normals)/3, n)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh %q: index count %d is not a multiple of 3", m.Name, len(m.Indices))
	}
	for _, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("mesh %q: index %d out of range (%d vertices)", m.Name, idx, n)
		}
	}
	return nil
}

// Merge concatenates meshes into one, rebasing indices.
func Merge(name string, parts ...Mesh) Mesh {
	out := Mesh{Name: name}
	for _, p := range parts {
		base := uint32(out.VertexCount())
		out.Vertices = append(out.Vertices, p.Vertices...)
		out.Colors = append(out.Colors, p.Colors...)
		out.Normals = append(out.Normals, p.Normals...)
		for _, idx := range p.Indices {
			out.Indices = append(out.Indices, base+idx)
		}
	}
	return out
}

// computeNormals fills Normals by averaging the area-weighted normals of
// the faces around each vertex.
func (m *Mesh) computeNormals() {
	n := m.VertexCount()
	acc := make([]mgl32.Vec3, n)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		pa, pb, pc := m.Position(int(a)), m.Position(int(b)), m.Position(int(c))
		face := pb.Sub(pa).Cross(pc.Sub(pa))
		acc[a] = acc[a].Add(face)
		acc[b] = acc[b].Add(face)
		acc[c] = acc[c].Add(face)
	}
	m.Normals = make([]float32, 3*n)
	for i, v := range acc {
		if v.Len() > 1e-12 {
			v = v.Normalize()
		} else {
			v = mgl32.Vec3{0, 1, 0}
		}
		copy(m.Normals[3*i:3*i+3], v[:])
	}
}

// Load reads every mesh in a model file, choosing the format by extension.
func Load(path string) ([]Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return LoadOBJ(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, fmt.Errorf("unsupported model format %q", filepath.Ext(path))
	}
}
