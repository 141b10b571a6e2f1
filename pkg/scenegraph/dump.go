package scenegraph

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-gl/mathgl/mgl32"
)

// Dump writes an indented description of root and its descendants: buffer
// binding, child count, local state and the cached world transform.
func (g *Graph) Dump(w io.Writer, root NodeID) error {
	var werr error
	err := g.traverse(root, func(f *frame) bool {
		if werr != nil {
			return false
		}
		werr = dumpNode(w, f.id, f.node, strings.Repeat("    ", f.depth))
		return true
	})
	if err != nil {
		return err
	}
	return werr
}

func dumpNode(w io.Writer, id NodeID, n *Node, indent string) error {
	kind := "group"
	if n.Drawable() {
		kind = "mesh"
	}
	_, err := fmt.Fprintf(w,
		"%sNode %d (%s)\n"+
			"%s  VAO:       %d\n"+
			"%s  Indices:   %d\n"+
			"%s  Children:  %d\n"+
			"%s  Position:  %s\n"+
			"%s  Rotation:  %s\n"+
			"%s  Reference: %s\n"+
			"%s  Transform:\n%s",
		indent, id, kind,
		indent, n.VAO,
		indent, n.IndexCount,
		indent, len(n.Children),
		indent, formatVec3(n.Position),
		indent, formatVec3(n.Rotation),
		indent, formatVec3(n.ReferencePoint),
		indent, formatMat4(n.Transform, indent+"    "),
	)
	return err
}

func formatVec3(v mgl32.Vec3) string {
	return fmt.Sprintf("[%.2f, %.2f, %.2f]", v[0], v[1], v[2])
}

// formatMat4 prints m row by row (the matrix is stored column-major).
func formatMat4(m mgl32.Mat4, indent string) string {
	var sb strings.Builder
	for row := 0; row < 4; row++ {
		sb.WriteString(indent)
		for col := 0; col < 4; col++ {
			if col > 0 {
				sb.WriteString("  ")
			}
			fmt.Fprintf(&sb, "%6.2f", m.At(row, col))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Spew writes a raw dump of every node in the arena, in ID order.
func (g *Graph) Spew(w io.Writer) {
	for i := range g.nodes {
		fmt.Fprintf(w, "#%d ", i+1)
		spewConfig.Fdump(w, g.nodes[i])
	}
}
