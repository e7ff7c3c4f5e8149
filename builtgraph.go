package rendergraph

import "github.com/nical/rendergraph/geom"

// BuiltGraph is the builder's output: the (possibly copy-task-
// extended) graph, its passes, and every active node's allocated
// rectangle.
type BuiltGraph struct {
	graph   *Graph
	passes  []Pass
	passOf  []int
	rects   []geom.Rectangle
	hasRect []bool
}

// Graph returns the built graph's underlying node graph, including
// any synthetic copy tasks the target assignment stage inserted.
func (bg *BuiltGraph) Graph() *Graph {
	return bg.graph
}

// Passes returns the ordered list of passes.
func (bg *BuiltGraph) Passes() []Pass {
	return bg.passes
}

// Pass returns the index of the pass id landed in, or -1 if id was
// culled.
func (bg *BuiltGraph) Pass(id NodeID) int {
	return bg.passOf[id]
}

// AllocatedRectangle returns id's rectangle within its destination
// texture. The second return is false for culled (inactive) nodes,
// which have no allocation (spec.md §8 invariant 4).
func (bg *BuiltGraph) AllocatedRectangle(id NodeID) (geom.Rectangle, bool) {
	if int(id) >= len(bg.hasRect) || !bg.hasRect[id] {
		return geom.Rectangle{}, false
	}
	return bg.rects[id], true
}

// NodeIDs delegates to the underlying graph.
func (bg *BuiltGraph) NodeIDs() NodeIDRange {
	return bg.graph.NodeIDs()
}

// Dependencies delegates to the underlying graph.
func (bg *BuiltGraph) Dependencies(id NodeID) []NodeID {
	return bg.graph.Dependencies(id)
}

// Node delegates to the underlying graph.
func (bg *BuiltGraph) Node(id NodeID) Node {
	return bg.graph.Node(id)
}

// Roots delegates to the underlying graph.
func (bg *BuiltGraph) Roots() []NodeID {
	return bg.graph.Roots()
}
