package scenegraph

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// frame is one entry of the explicit traversal stack.
type frame struct {
	id    NodeID
	node  *Node
	depth int
	// parentWorld is the world transform of the parent on the current
	// path, or the caller-supplied matrix for the root.
	parentWorld mgl32.Mat4
	// world is this node's transform on the current path. It starts as the
	// cached Node.Transform; visit may replace it, and children inherit it.
	world mgl32.Mat4

	descend bool
	next    int
}

// traverse walks the hierarchy under root depth-first, pre-order, calling
// visit on entering each node. A node is fully visited (and its transform
// final) before any of its children are entered.
//
// The walk uses a heap-allocated stack, so depth is bounded by maxDepth
// instead of the goroutine stack. A child that is already on the current
// path stops the walk with ErrCycle. A node reachable through several
// parents is entered once per path, each time with that path's parent
// transform.
func (g *Graph) traverse(root NodeID, visit func(f *frame) bool) error {
	return g.traverseFrom(root, mgl32.Ident4(), visit)
}

func (g *Graph) traverseFrom(root NodeID, parentWorld mgl32.Mat4, visit func(f *frame) bool) error {
	rootNode, err := g.Node(root)
	if err != nil {
		return err
	}

	onPath := make([]bool, len(g.nodes)+1)
	stack := make([]frame, 0, 16)

	stack = append(stack, frame{id: root, node: rootNode, parentWorld: parentWorld, world: rootNode.Transform})
	onPath[root] = true
	stack[0].descend = visit(&stack[0])

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if !top.descend || top.next >= len(top.node.Children) {
			onPath[top.id] = false
			stack = stack[:len(stack)-1]
			continue
		}

		childID := top.node.Children[top.next]
		top.next++

		child, err := g.Node(childID)
		if err != nil {
			return fmt.Errorf("child of node %d: %w", top.id, err)
		}
		if onPath[childID] {
			return fmt.Errorf("%w: node %d reached again under node %d", ErrCycle, childID, top.id)
		}
		depth := top.depth + 1
		if depth >= g.maxDepth {
			return fmt.Errorf("%w: node %d at depth %d (limit %d)", ErrTooDeep, childID, depth, g.maxDepth)
		}

		stack = append(stack, frame{
			id:          childID,
			node:        child,
			depth:       depth,
			parentWorld: top.world,
			world:       child.Transform,
		})
		onPath[childID] = true
		entered := &stack[len(stack)-1]
		entered.descend = visit(entered)
	}
	return nil
}
