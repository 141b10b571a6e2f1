package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/heliscene/internal/engine/mesh"
	"github.com/Faultbox/heliscene/internal/logger"
	"github.com/Faultbox/heliscene/pkg/scenegraph"
)

// Layout selects which attributes are interleaved into the vertex buffer.
type Layout int

const (
	// LayoutPosColorNormal is position(3) color(4) normal(3) at locations 0, 1, 2.
	LayoutPosColorNormal Layout = iota
	// LayoutPosColor is position(3) color(4) at locations 0, 1.
	LayoutPosColor
)

// attribute describes one vertex attribute in floats.
type attribute struct {
	location uint32
	size     int32
	offset   int
}

// Stride returns the number of floats per vertex.
func (l Layout) Stride() int {
	switch l {
	case LayoutPosColor:
		return 7
	default:
		return 10
	}
}

func (l Layout) attributes() []attribute {
	attrs := []attribute{
		{location: 0, size: 3, offset: 0},
		{location: 1, size: 4, offset: 3},
	}
	if l == LayoutPosColorNormal {
		attrs = append(attrs, attribute{location: 2, size: 3, offset: 7})
	}
	return attrs
}

func (l Layout) String() string {
	switch l {
	case LayoutPosColorNormal:
		return "pos+color+normal"
	case LayoutPosColor:
		return "pos+color"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// Interleave packs the mesh attributes into a single vertex array.
func Interleave(m *mesh.Mesh, layout Layout) ([]float32, error) {
	n := m.VertexCount()
	if len(m.Vertices) != 3*n {
		return nil, fmt.Errorf("mesh %q: vertex array length %d is not a multiple of 3", m.Name, len(m.Vertices))
	}
	if len(m.Colors) != 4*n {
		return nil, fmt.Errorf("mesh %q: %d color values for %d vertices", m.Name, len(m.Colors), n)
	}
	withNormals := layout == LayoutPosColorNormal
	if withNormals && len(m.Normals) != 3*n {
		return nil, fmt.Errorf("mesh %q: %d normal values for %d vertices", m.Name, len(m.Normals), n)
	}

	stride := layout.Stride()
	out := make([]float32, 0, n*stride)
	for i := 0; i < n; i++ {
		out = append(out, m.Vertices[3*i:3*i+3]...)
		out = append(out, m.Colors[4*i:4*i+4]...)
		if withNormals {
			out = append(out, m.Normals[3*i:3*i+3]...)
		}
	}
	return out, nil
}

// gpuMesh tracks the buffers behind one uploaded VAO.
type gpuMesh struct {
	vao, vbo, ebo uint32
}

// UploadMesh copies the mesh to static GPU buffers and returns the VAO
// handle used by the scene graph.
func (r *Renderer) UploadMesh(m *mesh.Mesh, layout Layout) (scenegraph.VAO, error) {
	if len(m.Indices) == 0 {
		return 0, fmt.Errorf("mesh %q has no indices", m.Name)
	}
	vertices, err := Interleave(m, layout)
	if err != nil {
		return 0, err
	}

	var g gpuMesh
	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	stride := int32(layout.Stride() * 4)
	for _, a := range layout.attributes() {
		gl.VertexAttribPointerWithOffset(a.location, a.size, gl.FLOAT, false, stride, uintptr(a.offset*4))
		gl.EnableVertexAttribArray(a.location)
	}

	// The element buffer binding is part of VAO state, so only the array
	// buffer is unbound here.
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.meshes = append(r.meshes, g)
	logger.Debug("mesh uploaded",
		zap.String("mesh", m.Name),
		zap.Uint32("vao", g.vao),
		zap.Int("vertices", m.VertexCount()),
		zap.Int32("indices", m.IndexCount()),
		zap.Stringer("layout", layout),
	)
	return scenegraph.VAO(g.vao), nil
}
