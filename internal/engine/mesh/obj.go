package mesh

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// LoadOBJ parses a Wavefront .obj file. Each "o" or "g" statement starts a
// new Mesh; faces are fan-triangulated. Texture coordinates and materials
// are ignored.
func LoadOBJ(path string) ([]Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open OBJ file")
	}
	defer f.Close()

	meshes, err := ParseOBJ(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return meshes, nil
}

type objBuilder struct {
	cur       Mesh
	hasNormal bool
	seen      map[[2]int]uint32 // (position, normal) -> vertex index
	out       []Mesh
}

func (b *objBuilder) start(name string) {
	b.flush()
	b.cur = Mesh{Name: name}
	b.hasNormal = true
	b.seen = make(map[[2]int]uint32)
}

func (b *objBuilder) flush() {
	if len(b.cur.Indices) == 0 {
		return
	}
	if !b.hasNormal {
		b.cur.computeNormals()
	}
	b.cur.SetColor([4]float32{1, 1, 1, 1})
	b.out = append(b.out, b.cur)
}

// ParseOBJ reads OBJ statements from r.
func ParseOBJ(r io.Reader) ([]Mesh, error) {
	var positions, normals [][3]float32
	b := &objBuilder{}
	b.start("default")

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		parts := strings.Fields(text)

		switch parts[0] {
		case "v":
			v, err := parseVec3(parts[1:])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			positions = append(positions, v)
		case "vn":
			v, err := parseVec3(parts[1:])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			normals = append(normals, v)
		case "o", "g":
			name := "unnamed"
			if len(parts) > 1 {
				name = strings.Join(parts[1:], " ")
			}
			b.start(name)
		case "f":
			if len(parts) < 4 {
				return nil, errors.Errorf("line %d: face needs at least 3 vertices", line)
			}
			face := make([]uint32, 0, len(parts)-1)
			for _, ref := range parts[1:] {
				pi, ni, err := parseFaceRef(ref, len(positions), len(normals))
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", line)
				}
				if ni < 0 {
					b.hasNormal = false
				}
				key := [2]int{pi, ni}
				idx, ok := b.seen[key]
				if !ok {
					idx = uint32(b.cur.VertexCount())
					p := positions[pi]
					b.cur.Vertices = append(b.cur.Vertices, p[0], p[1], p[2])
					n := [3]float32{0, 1, 0}
					if ni >= 0 {
						n = normals[ni]
					}
					b.cur.Normals = append(b.cur.Normals, n[0], n[1], n[2])
					b.seen[key] = idx
				}
				face = append(face, idx)
			}
			for i := 2; i < len(face); i++ {
				b.cur.Indices = append(b.cur.Indices, face[0], face[i-1], face[i])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read OBJ")
	}
	b.flush()

	if len(b.out) == 0 {
		return nil, errors.New("no faces found")
	}
	return b.out, nil
}

func parseVec3(fields []string) ([3]float32, error) {
	var v [3]float32
	if len(fields) < 3 {
		return v, errors.Errorf("expected 3 components, got %d", len(fields))
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return v, errors.Wrapf(err, "component %d", i)
		}
		v[i] = float32(f)
	}
	return v, nil
}

// parseFaceRef decodes "v", "v/vt", "v//vn" or "v/vt/vn" into zero-based
// position and normal indices. A missing normal is reported as -1.
func parseFaceRef(ref string, numPos, numNorm int) (int, int, error) {
	fields := strings.Split(ref, "/")
	pi, err := resolveIndex(fields[0], numPos)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "position in %q", ref)
	}
	ni := -1
	if len(fields) >= 3 && fields[2] != "" {
		ni, err = resolveIndex(fields[2], numNorm)
		if err != nil {
			return 0, 0, errors.Wrapf(err, "normal in %q", ref)
		}
	}
	return pi, ni, nil
}

// resolveIndex turns a one-based or negative (relative) OBJ index into a
// zero-based one.
func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += count
	default:
		return 0, errors.New("index 0 is invalid")
	}
	if i < 0 || i >= count {
		return 0, errors.Errorf("index out of range (%d defined)", count)
	}
	return i, nil
}
