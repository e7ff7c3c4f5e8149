package rendergraph

import (
	"github.com/nical/rendergraph/geom"
	"github.com/nical/rendergraph/texalloc"
)

// NodeID is a dense, stable, 32-bit index assigned in insertion order.
// A node's dependencies always carry strictly smaller ids than the
// node itself, so insertion order is already a valid topological
// order.
type NodeID uint32

// NodeIDRange is a half-open range of node ids, as returned by
// Graph.NodeIDs.
type NodeIDRange struct {
	Start, End NodeID
}

// Len returns the number of ids in the range.
func (r NodeIDRange) Len() int {
	return int(r.End - r.Start)
}

// TargetKindTag distinguishes the two render target kinds a dynamic
// allocation can land in.
type TargetKindTag uint8

const (
	Color TargetKindTag = iota
	Alpha
)

// numTargetKinds is the fixed cardinality of TargetKindTag, used to
// size per-kind arrays throughout pass and target assignment.
const numTargetKinds = 2

// TaskKindTag distinguishes the caller-opaque task identities a node
// can carry. Copy is never constructed by callers; it is the synthetic
// identity the ping-pong target strategy inserts to break read/write
// hazards.
type TaskKindTag uint8

const (
	Blit TaskKindTag = iota
	Render
	Copy
)

// TaskIdentity is a node's caller-opaque label: an enum tag plus, for
// Render, a small caller-supplied id. It participates only in labeling
// and equality, never in scheduling decisions.
type TaskIdentity struct {
	Kind     TaskKindTag
	RenderID uint64
}

// BlitTask identifies a blit task.
func BlitTask() TaskIdentity {
	return TaskIdentity{Kind: Blit}
}

// RenderTask identifies a render task carrying the caller's own id.
func RenderTask(id uint64) TaskIdentity {
	return TaskIdentity{Kind: Render, RenderID: id}
}

func copyTask() TaskIdentity {
	return TaskIdentity{Kind: Copy}
}

// AllocKind is a node's allocation strategy: either Dynamic (the
// builder picks target and origin) or Fixed (the caller pins a
// texture id and origin).
type AllocKind struct {
	Dynamic bool
	Texture texalloc.TextureID
	Origin  geom.Point
}

// DynamicAlloc returns the Dynamic allocation kind.
func DynamicAlloc() AllocKind {
	return AllocKind{Dynamic: true}
}

// FixedAlloc returns the Fixed allocation kind, pinning the node to
// origin within texture.
func FixedAlloc(texture texalloc.TextureID, origin geom.Point) AllocKind {
	return AllocKind{Dynamic: false, Texture: texture, Origin: origin}
}

// Node is a single unit of render work: a task identity, desired
// output size, target kind, allocation strategy, and dependency list.
type Node struct {
	Task   TaskIdentity
	Target TargetKindTag
	Size   geom.Size
	Alloc  AllocKind
	Deps   []NodeID
}
