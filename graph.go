package rendergraph

import (
	"fmt"

	"github.com/nical/rendergraph/geom"
)

// Graph owns an append-only vector of nodes plus the list of root node
// ids the caller wants as outputs. It is cheap to clone because a
// build mutates a working copy rather than the caller's original
// (spec.md §3 "the graph is cheaply cloneable").
type Graph struct {
	nodes []Node
	roots []NodeID
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// AddNode appends a new node and returns its id. Every dependency must
// already exist (must be strictly smaller than the new id); violating
// this returns a wrapped ErrGraphValidation and the graph is left
// unchanged.
func (g *Graph) AddNode(task TaskIdentity, target TargetKindTag, size geom.Size, alloc AllocKind, deps []NodeID) (NodeID, error) {
	id := NodeID(len(g.nodes))
	for _, dep := range deps {
		if dep >= id {
			return 0, fmt.Errorf("rendergraph: dependency %d out of range for node %d: %w", dep, id, ErrGraphValidation)
		}
	}
	depsCopy := make([]NodeID, len(deps))
	copy(depsCopy, deps)
	g.nodes = append(g.nodes, Node{
		Task:   task,
		Target: target,
		Size:   size,
		Alloc:  alloc,
		Deps:   depsCopy,
	})
	return id, nil
}

// addNodeRaw appends a node without dependency validation, used
// internally by the ping-pong target strategy to insert synthetic
// copy tasks whose single dependency (the original producer) is known
// by construction to already exist.
func (g *Graph) addNodeRaw(n Node) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	return id
}

// redirectDependency rewrites node's dependency edge from oldDep to
// newDep, used by the ping-pong target strategy to splice in a
// synthetic copy task.
func (g *Graph) redirectDependency(node, oldDep, newDep NodeID) {
	deps := g.nodes[node].Deps
	for i, d := range deps {
		if d == oldDep {
			deps[i] = newDep
			return
		}
	}
}

// AddRoot marks id as one of the graph's outputs. id must already
// exist.
func (g *Graph) AddRoot(id NodeID) error {
	if int(id) >= len(g.nodes) {
		return fmt.Errorf("rendergraph: root id %d out of range: %w", id, ErrGraphValidation)
	}
	g.roots = append(g.roots, id)
	return nil
}

// Roots returns the graph's root node ids.
func (g *Graph) Roots() []NodeID {
	return g.roots
}

// NodeIDs returns the half-open range of all node ids in the graph.
func (g *Graph) NodeIDs() NodeIDRange {
	return NodeIDRange{Start: 0, End: NodeID(len(g.nodes))}
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Dependencies returns id's dependency list.
func (g *Graph) Dependencies(id NodeID) []NodeID {
	return g.nodes[id].Deps
}

// Node returns the full node record at id (indexed access, per
// spec.md §6's programmatic surface).
func (g *Graph) Node(id NodeID) Node {
	return g.nodes[id]
}

// Clone returns a deep copy of the graph, used by the builder so a
// build never mutates the caller's original.
func (g *Graph) Clone() *Graph {
	clone := &Graph{
		nodes: make([]Node, len(g.nodes)),
		roots: make([]NodeID, len(g.roots)),
	}
	copy(clone.roots, g.roots)
	for i, n := range g.nodes {
		deps := make([]NodeID, len(n.Deps))
		copy(deps, n.Deps)
		n.Deps = deps
		clone.nodes[i] = n
	}
	return clone
}
