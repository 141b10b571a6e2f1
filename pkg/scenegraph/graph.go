package scenegraph

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrUnknownNode is returned for IDs the graph does not hold.
	ErrUnknownNode = errors.New("scenegraph: unknown node")
	// ErrCycle is returned when a traversal reaches one of its own ancestors.
	ErrCycle = errors.New("scenegraph: cycle in hierarchy")
	// ErrTooDeep is returned when a traversal exceeds the graph's depth limit.
	ErrTooDeep = errors.New("scenegraph: hierarchy too deep")
)

// DefaultMaxDepth bounds traversal depth unless overridden with WithMaxDepth.
const DefaultMaxDepth = 1024

// ScalePolicy decides whether Node.Scale takes part in transform composition.
type ScalePolicy int

const (
	// ScaleIgnored keeps Scale as inert data. Local transform is T * Rpivot.
	ScaleIgnored ScalePolicy = iota
	// ScaleAboutPivot scales about the reference point after rotating.
	// Local transform is T * ref * Rx*Ry*Rz * S * ref^-1.
	ScaleAboutPivot
)

func (p ScalePolicy) String() string {
	switch p {
	case ScaleIgnored:
		return "ignored"
	case ScaleAboutPivot:
		return "about-pivot"
	default:
		return fmt.Sprintf("ScalePolicy(%d)", int(p))
	}
}

// Option configures a Graph.
type Option func(*Graph)

// WithScalePolicy sets how node scale is composed.
func WithScalePolicy(p ScalePolicy) Option {
	return func(g *Graph) { g.scale = p }
}

// WithMaxDepth sets the traversal depth limit. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(g *Graph) {
		if depth > 0 {
			g.maxDepth = depth
		}
	}
}

// Graph is an arena of scene nodes.
// It is not safe for concurrent use; one goroutine owns it for the
// duration of a propagate+draw pass.
type Graph struct {
	nodes    []Node
	scale    ScalePolicy
	maxDepth int
}

// New returns an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ScalePolicy returns the graph's scale policy.
func (g *Graph) ScalePolicy() ScalePolicy {
	return g.scale
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// AddGroup adds a non-drawable node used only for grouping.
func (g *Graph) AddGroup() NodeID {
	return g.add(newNode(0, NonDrawable, mgl32.Vec3{}))
}

// AddDrawable adds a node bound to a vertex array with indexCount indices.
// ref is the pivot its rotation is applied about.
func (g *Graph) AddDrawable(vao VAO, indexCount int32, ref mgl32.Vec3) NodeID {
	return g.add(newNode(vao, indexCount, ref))
}

func (g *Graph) add(n Node) NodeID {
	g.nodes = append(g.nodes, n)
	return NodeID(len(g.nodes))
}

// Node returns the node for id. The pointer stays valid until the next
// node is added to the graph.
func (g *Graph) Node(id NodeID) (*Node, error) {
	if id == Nil || int(id) > len(g.nodes) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	return &g.nodes[id-1], nil
}

// MustNode is like Node but panics on unknown IDs.
func (g *Graph) MustNode(id NodeID) *Node {
	n, err := g.Node(id)
	if err != nil {
		panic(err)
	}
	return n
}

// AddChild appends child to parent's child list. Ownership does not move
// and no cycle check happens here; Propagate and Draw report cycles.
func (g *Graph) AddChild(parent, child NodeID) error {
	p, err := g.Node(parent)
	if err != nil {
		return err
	}
	if _, err := g.Node(child); err != nil {
		return err
	}
	p.Children = append(p.Children, child)
	return nil
}

// Children returns the child list of id.
func (g *Graph) Children(id NodeID) ([]NodeID, error) {
	n, err := g.Node(id)
	if err != nil {
		return nil, err
	}
	return n.Children, nil
}

// SetPosition sets the local translation of id.
func (g *Graph) SetPosition(id NodeID, v mgl32.Vec3) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	n.Position = v
	return nil
}

// SetRotation sets the local Euler rotation of id, in radians.
func (g *Graph) SetRotation(id NodeID, v mgl32.Vec3) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	n.Rotation = v
	return nil
}

// SetScale sets the local scale of id. It only affects transforms under
// ScaleAboutPivot.
func (g *Graph) SetScale(id NodeID, v mgl32.Vec3) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	n.Scale = v
	return nil
}

// Walk visits root and its descendants depth-first, pre-order. depth is 0
// for root. Returning false from fn skips that node's children.
func (g *Graph) Walk(root NodeID, fn func(id NodeID, n *Node, depth int) bool) error {
	return g.traverse(root, func(f *frame) bool {
		return fn(f.id, f.node, f.depth)
	})
}
