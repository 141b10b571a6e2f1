package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/heliscene/internal/engine/mesh"
)

func triangle() *mesh.Mesh {
	return &mesh.Mesh{
		Name:     "tri",
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Colors:   []float32{1, 0, 0, 1, 0, 1, 0, 1, 0, 0, 1, 1},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:  []uint32{0, 1, 2},
	}
}

func TestInterleavePosColorNormal(t *testing.T) {
	got, err := Interleave(triangle(), LayoutPosColorNormal)
	require.NoError(t, err)
	require.Len(t, got, 3*10)
	assert.Equal(t, []float32{1, 0, 0, 0, 1, 0, 1, 0, 0, 1}, got[10:20])
}

func TestInterleavePosColor(t *testing.T) {
	got, err := Interleave(triangle(), LayoutPosColor)
	require.NoError(t, err)
	require.Len(t, got, 3*7)
	assert.Equal(t, []float32{0, 1, 0, 0, 0, 1, 1}, got[14:21])
}

func TestInterleaveMismatch(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *mesh.Mesh)
		layout Layout
	}{
		{"short colors", func(m *mesh.Mesh) { m.Colors = m.Colors[:8] }, LayoutPosColor},
		{"short normals", func(m *mesh.Mesh) { m.Normals = m.Normals[:6] }, LayoutPosColorNormal},
		{"ragged vertices", func(m *mesh.Mesh) { m.Vertices = append(m.Vertices, 1) }, LayoutPosColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := triangle()
			tt.mutate(m)
			_, err := Interleave(m, tt.layout)
			assert.Error(t, err)
		})
	}

	// normals are not consulted without the normal attribute
	m := triangle()
	m.Normals = nil
	_, err := Interleave(m, LayoutPosColor)
	assert.NoError(t, err)
}

func TestLayoutAttributes(t *testing.T) {
	assert.Equal(t, 10, LayoutPosColorNormal.Stride())
	assert.Equal(t, 7, LayoutPosColor.Stride())

	attrs := LayoutPosColorNormal.attributes()
	require.Len(t, attrs, 3)
	assert.Equal(t, attribute{location: 2, size: 3, offset: 7}, attrs[2])
	assert.Len(t, LayoutPosColor.attributes(), 2)
	assert.Equal(t, "pos+color", LayoutPosColor.String())
}
