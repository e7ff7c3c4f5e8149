// Package rgparallel lets independent goroutines build pieces of the
// same Graph concurrently: each producer gets its own Builder sharing
// one atomic id counter and one edit channel, and a single Resolver
// drains the channel afterwards to materialize the final Graph.
//
// Grounded in original_source/src/parallel.rs's
// ParallelGraphBuilder/ParallelGraphReceiver pair: a shared atomic
// counter hands out NodeIDs before the Resolver has placed the node's
// data, so an id can be used as a dependency by a different goroutine
// as soon as AddNode returns, before the Resolver drains that edit. An
// id that was reserved but whose AddNode edit is not queued when
// Resolve runs is filled with a placeholder and reported.
package rgparallel

import (
	"errors"
	"fmt"
	"sync/atomic"

	rendergraph "github.com/nical/rendergraph"
	"github.com/nical/rendergraph/geom"
)

// ErrUnresolvedNode is returned by Resolve when an id was referenced
// (as a dependency, or implicitly by being skipped over) but never
// filled in by a matching AddNode edit.
var ErrUnresolvedNode = errors.New("rgparallel: node id referenced but never added")

type editKind int

const (
	editAddNode editKind = iota
	editAddDependency
	editAddRoot
)

type edit struct {
	kind editKind
	id   rendergraph.NodeID
	dep  rendergraph.NodeID
	node rendergraph.Node
	set  bool
}

// Builder is a per-producer handle: cheap to clone, safe to use from
// its own goroutine concurrently with any other Builder sharing the
// same Resolver.
type Builder struct {
	nextID *uint32
	edits  chan<- edit
}

// AddNode reserves the next id atomically and queues the node's data
// for the Resolver to place once resolution begins. The returned id is
// valid to use as another node's dependency immediately, even from a
// different goroutine, before this call's edit has been drained.
func (b *Builder) AddNode(task rendergraph.TaskIdentity, target rendergraph.TargetKindTag, size geom.Size, alloc rendergraph.AllocKind, deps []rendergraph.NodeID) rendergraph.NodeID {
	id := rendergraph.NodeID(atomic.AddUint32(b.nextID, 1) - 1)
	depsCopy := append([]rendergraph.NodeID(nil), deps...)
	b.edits <- edit{
		kind: editAddNode,
		id:   id,
		node: rendergraph.Node{Task: task, Target: target, Size: size, Alloc: alloc, Deps: depsCopy},
		set:  true,
	}
	return id
}

// AddDependency appends dep to node's dependency list. node must
// already have been the subject of an AddNode call, though not
// necessarily from this Builder: this is the cross-goroutine case the
// package exists for, where one producer discovers a dependency on an
// id another producer reserved and sent only after the fact.
func (b *Builder) AddDependency(node, dep rendergraph.NodeID) {
	b.edits <- edit{kind: editAddDependency, id: node, dep: dep}
}

// AddRoot marks id as one of the resolved graph's roots.
func (b *Builder) AddRoot(id rendergraph.NodeID) {
	b.edits <- edit{kind: editAddRoot, id: id}
}

// Resolver owns the shared id counter and edit channel. Call
// NewBuilder once per producer goroutine, have every producer finish
// (and its Builder go out of scope), then call Resolve.
type Resolver struct {
	nextID uint32
	edits  chan edit
}

// NewResolver creates an empty Resolver. capacityHint is the edit
// channel's buffer size. Every AddNode, AddDependency and AddRoot call
// queues one edit and blocks while the buffer is full; Resolve is the
// only reader, so capacityHint must be at least the total number of
// edits sent before Resolve is called.
func NewResolver(capacityHint int) *Resolver {
	return &Resolver{edits: make(chan edit, capacityHint)}
}

// NewBuilder returns a Builder sharing this Resolver's id counter and
// edit channel.
func (r *Resolver) NewBuilder() *Builder {
	return &Builder{nextID: &r.nextID, edits: r.edits}
}

// Resolve drains every queued edit and materializes a Graph. Any id
// that was reserved (referenced as a dependency, or implicitly skipped
// over while placing a later id) but never the subject of an AddNode
// edit is left as a placeholder node and reported in the returned
// error, wrapping ErrUnresolvedNode.
func (r *Resolver) Resolve() (*rendergraph.Graph, error) {
	n := int(atomic.LoadUint32(&r.nextID))
	set := make([]bool, n)
	nodes := make([]rendergraph.Node, n)
	var roots []rendergraph.NodeID

drain:
	for {
		select {
		case e := <-r.edits:
			switch e.kind {
			case editAddNode:
				nodes[e.id] = e.node
				set[e.id] = true
			case editAddDependency:
				nodes[e.id].Deps = append(nodes[e.id].Deps, e.dep)
			case editAddRoot:
				roots = append(roots, e.id)
			}
		default:
			break drain
		}
	}

	var unresolved []rendergraph.NodeID
	g := rendergraph.NewGraph()
	remap := make([]rendergraph.NodeID, n)
	for i := 0; i < n; i++ {
		id := rendergraph.NodeID(i)
		if !set[i] {
			unresolved = append(unresolved, id)
			newID, _ := g.AddNode(rendergraph.RenderTask(0), rendergraph.Color, geom.Size{}, rendergraph.DynamicAlloc(), nil)
			remap[i] = newID
			continue
		}
		node := nodes[i]
		deps := make([]rendergraph.NodeID, len(node.Deps))
		for j, d := range node.Deps {
			deps[j] = remap[d]
		}
		newID, err := g.AddNode(node.Task, node.Target, node.Size, node.Alloc, deps)
		if err != nil {
			return nil, fmt.Errorf("rgparallel: %w", err)
		}
		remap[i] = newID
	}

	for _, root := range roots {
		if err := g.AddRoot(remap[root]); err != nil {
			return nil, fmt.Errorf("rgparallel: %w", err)
		}
	}

	if len(unresolved) > 0 {
		return g, fmt.Errorf("rgparallel: %d node id(s) never resolved (first: %d): %w", len(unresolved), unresolved[0], ErrUnresolvedNode)
	}
	return g, nil
}
