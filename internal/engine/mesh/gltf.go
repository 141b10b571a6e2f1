package mesh

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF reads a .gltf or .glb file, one Mesh per primitive. Node
// transforms in the file are not applied.
func LoadGLTF(path string) ([]Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "gltf open %q", path)
	}

	var out []Mesh
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			name := gm.Name
			if name == "" {
				name = fmt.Sprintf("mesh_%d", mi)
			}
			if len(gm.Primitives) > 1 {
				name = fmt.Sprintf("%s_p%d", name, pi)
			}
			m, err := readPrimitive(doc, name, prim)
			if err != nil {
				return nil, errors.Wrapf(err, "%s primitive %s", path, name)
			}
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, errors.Errorf("%s: no meshes", path)
	}
	return out, nil
}

func readPrimitive(doc *gltf.Document, name string, prim *gltf.Primitive) (Mesh, error) {
	m := Mesh{Name: name}
	if prim.Mode != gltf.PrimitiveTriangles {
		return m, errors.Errorf("unsupported primitive mode %v", prim.Mode)
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return m, errors.New("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return m, errors.Wrap(err, "positions")
	}
	m.Vertices = make([]float32, 0, 3*len(positions))
	for _, p := range positions {
		m.Vertices = append(m.Vertices, p[0], p[1], p[2])
	}

	if prim.Indices != nil {
		m.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return m, errors.Wrap(err, "indices")
		}
	} else {
		m.Indices = make([]uint32, len(positions))
		for i := range m.Indices {
			m.Indices[i] = uint32(i)
		}
	}

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return m, errors.Wrap(err, "normals")
		}
		m.Normals = make([]float32, 0, 3*len(normals))
		for _, n := range normals {
			m.Normals = append(m.Normals, n[0], n[1], n[2])
		}
	} else {
		m.computeNormals()
	}

	if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		colors, err := modeler.ReadColor(doc, doc.Accessors[idx], nil)
		if err != nil {
			return m, errors.Wrap(err, "colors")
		}
		m.Colors = make([]float32, 0, 4*len(colors))
		for _, c := range colors {
			m.Colors = append(m.Colors,
				float32(c[0])/255, float32(c[1])/255, float32(c[2])/255, float32(c[3])/255)
		}
	} else {
		m.SetColor([4]float32{1, 1, 1, 1})
	}

	return m, m.Validate()
}
