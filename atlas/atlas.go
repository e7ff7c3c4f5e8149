// Package atlas implements a single-texture guillotine bin packer: an
// orientation-alternating binary tree of free/allocated rectangles with
// coalescing deallocation, backing the dynamic allocations the graph
// builder requests.
//
// The tree is realized as an arena (a slice of nodes addressed by
// index) rather than as linked heap objects, since the sibling/parent
// links form a cyclic object graph that doesn't map cleanly onto Go
// pointers with safe deallocation. Vacated slots are threaded onto a
// single-linked free stack through the node's own "next" field to avoid
// reallocating the arena on every deallocate/allocate pair.
package atlas

import "github.com/nical/rendergraph/geom"

// AllocID identifies a live allocation returned by Allocate. It is the
// index of the allocation's node in the arena, so zero is a valid id
// (the first root node, when a request fills it exactly).
type AllocID uint32

type nodeID uint32

const nilNode nodeID = ^nodeID(0)

// Orientation records how a node's siblings (and, by the alternation
// invariant, its own children) line up.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// Flip returns the other orientation.
func (o Orientation) Flip() Orientation {
	if o == Horizontal {
		return Vertical
	}
	return Horizontal
}

type kind uint8

const (
	kindFree kind = iota
	kindAlloc
	kindContainer
	kindUnused
)

type node struct {
	kind        kind
	orientation Orientation
	rect        geom.Rectangle

	parent      nodeID
	prev, next  nodeID // sibling links; for kindUnused, next threads the free arena stack
	firstChild  nodeID
	secondChild nodeID
}

// Options configures snapping and free-list binning, mirroring the
// AllocatorOptions of the programmatic surface (spec.md §6).
type Options struct {
	// SnapSize rounds every requested dimension up to a multiple of this
	// value before packing. A value <= 1 disables snapping.
	SnapSize int32
	// SmallSizeThreshold and LargeSizeThreshold classify free
	// rectangles into small/medium/large free-list bins so that
	// allocation doesn't scan through many small leftover strips when
	// packing large rectangles.
	SmallSizeThreshold int32
	LargeSizeThreshold int32
}

// DefaultOptions mirrors the thresholds observed in the reference
// texture allocator: no snapping, medium starts at 16px, large at 32px.
var DefaultOptions = Options{
	SnapSize:           1,
	SmallSizeThreshold: 16,
	LargeSizeThreshold: 32,
}

// Allocator packs rectangles into a single texture-sized area using the
// guillotine algorithm described in spec.md §4.B.
type Allocator struct {
	nodes      []node
	unusedHead nodeID
	free       freeList
	size       geom.Size
	options    Options
}

// New creates an allocator for a texture of the given size.
func New(size geom.Size, options Options) *Allocator {
	a := &Allocator{
		unusedHead: nilNode,
		size:       size,
		options:    options,
	}
	a.free.init(options)
	a.pushNewRoot(geom.RectFromOriginAndSize(geom.Point{}, size))
	return a
}

// Size returns the atlas's current size.
func (a *Allocator) Size() geom.Size {
	return a.size
}

func (a *Allocator) pushNewRoot(rect geom.Rectangle) {
	id := a.newNode(rect, kindFree, Horizontal)
	a.nodes[id].parent = nilNode
	a.nodes[id].prev = nilNode
	a.nodes[id].next = nilNode
	a.free.push(a.classify(rect.Size()), id)
}

func (a *Allocator) snap(size geom.Size) geom.Size {
	s := a.options.SnapSize
	if s <= 1 {
		return size
	}
	return geom.Sz(snapUp(size.Width, s), snapUp(size.Height, s))
}

func snapUp(v, multiple int32) int32 {
	if v <= 0 {
		return 0
	}
	rem := v % multiple
	if rem == 0 {
		return v
	}
	return v + (multiple - rem)
}

// newNode allocates a node slot, reusing a vacated one if available.
func (a *Allocator) newNode(rect geom.Rectangle, k kind, orientation Orientation) nodeID {
	n := node{
		kind:        k,
		orientation: orientation,
		rect:        rect,
		parent:      nilNode,
		prev:        nilNode,
		next:        nilNode,
		firstChild:  nilNode,
		secondChild: nilNode,
	}
	if a.unusedHead != nilNode {
		id := a.unusedHead
		a.unusedHead = a.nodes[id].next
		a.nodes[id] = n
		return id
	}
	a.nodes = append(a.nodes, n)
	return nodeID(len(a.nodes) - 1)
}

func (a *Allocator) vacate(id nodeID) {
	a.nodes[id] = node{kind: kindUnused, next: a.unusedHead}
	a.unusedHead = id
}

func linkSiblings(a *Allocator, parent, first, second nodeID) {
	a.nodes[first].parent = parent
	a.nodes[second].parent = parent
	a.nodes[first].prev = nilNode
	a.nodes[first].next = second
	a.nodes[second].prev = first
	a.nodes[second].next = nilNode
}

// insertSiblingAfter splices newID in right after id, at id's level.
func (a *Allocator) insertSiblingAfter(id, newID nodeID) {
	n := &a.nodes[id]
	newNode := &a.nodes[newID]
	newNode.parent = n.parent
	newNode.prev = id
	newNode.next = n.next
	if n.next != nilNode {
		a.nodes[n.next].prev = newID
	}
	n.next = newID
}

// Allocate finds space for size, splitting a free rectangle and
// threading the guillotine tree as described in spec.md §4.B. It never
// grows the atlas (texalloc.GuillotineAllocator grows and retries); it
// returns false if no free rectangle can hold the snapped size, or if
// that size is empty.
func (a *Allocator) Allocate(size geom.Size) (AllocID, geom.Rectangle, bool) {
	size = a.snap(size)
	if size.Width <= 0 || size.Height <= 0 {
		return 0, geom.Rectangle{}, false
	}

	idx, ok := a.free.findFit(a, size)
	if !ok {
		return 0, geom.Rectangle{}, false
	}

	chosen := &a.nodes[idx]
	rect := chosen.rect
	origin := rect.Min
	allocatedRect := geom.RectFromOriginAndSize(origin, size)

	rightRect := geom.Rectangle{
		Min: geom.Pt(origin.X+size.Width, origin.Y),
		Max: geom.Pt(rect.MaxX(), origin.Y+size.Height),
	}
	bottomRect := geom.Rectangle{
		Min: geom.Pt(origin.X, origin.Y+size.Height),
		Max: geom.Pt(origin.X+size.Width, rect.MaxY()),
	}

	var split, leftover geom.Rectangle
	var newOrientation Orientation
	if rightRect.Area() > bottomRect.Area() {
		newOrientation = Horizontal
		split = geom.Rectangle{Min: rightRect.Min, Max: geom.Pt(rect.MaxX(), rect.MaxY())}
		leftover = bottomRect
	} else {
		newOrientation = Vertical
		split = geom.Rectangle{Min: bottomRect.Min, Max: geom.Pt(rect.MaxX(), rect.MaxY())}
		leftover = rightRect
	}

	var innerRect geom.Rectangle
	if newOrientation == Horizontal {
		innerRect = geom.Rectangle{Min: rect.Min, Max: geom.Pt(origin.X+size.Width, rect.MaxY())}
	} else {
		innerRect = geom.Rectangle{Min: rect.Min, Max: geom.Pt(rect.MaxX(), origin.Y+size.Height)}
	}

	splitEmpty := split.IsEmpty()
	leftoverEmpty := leftover.IsEmpty()

	if splitEmpty && leftoverEmpty {
		// Perfect fit: the chosen node becomes the allocation with no
		// tree mutation.
		chosen.kind = kindAlloc
		return AllocID(idx), allocatedRect, true
	}

	if chosen.orientation == newOrientation {
		chosen.rect = innerRect

		if !splitEmpty {
			splitID := a.newNode(split, kindFree, newOrientation)
			a.insertSiblingAfter(idx, splitID)
			a.free.push(a.classify(split.Size()), splitID)
			// Re-fetch chosen: newNode may have grown a.nodes and
			// invalidated the earlier pointer.
			chosen = &a.nodes[idx]
		}

		if leftoverEmpty {
			chosen.kind = kindAlloc
			return AllocID(idx), allocatedRect, true
		}

		childOrientation := newOrientation.Flip()
		allocID := a.newNode(allocatedRect, kindAlloc, childOrientation)
		leftoverID := a.newNode(leftover, kindFree, childOrientation)
		linkSiblings(a, idx, allocID, leftoverID)
		chosen = &a.nodes[idx]
		chosen.kind = kindContainer
		chosen.firstChild = allocID
		chosen.secondChild = leftoverID
		a.free.push(a.classify(leftover.Size()), leftoverID)
		return AllocID(allocID), allocatedRect, true
	}

	// Different orientation: chosen becomes a container spanning its
	// original full rectangle.
	originalOrientation := chosen.orientation
	splitID := a.newNode(split, kindFree, newOrientation)

	var otherID nodeID
	var resultID nodeID
	if leftoverEmpty {
		otherID = a.newNode(allocatedRect, kindAlloc, newOrientation)
		resultID = otherID
	} else {
		allocID := a.newNode(allocatedRect, kindAlloc, originalOrientation)
		leftoverID := a.newNode(leftover, kindFree, originalOrientation)
		innerID := a.newNode(innerRect, kindContainer, newOrientation)
		linkSiblings(a, innerID, allocID, leftoverID)
		a.free.push(a.classify(leftover.Size()), leftoverID)
		otherID = innerID
		resultID = allocID
	}

	linkSiblings(a, idx, otherID, splitID)
	chosen = &a.nodes[idx]
	chosen.kind = kindContainer
	chosen.firstChild = otherID
	chosen.secondChild = splitID
	a.free.push(a.classify(split.Size()), splitID)

	return AllocID(resultID), allocatedRect, true
}

// Deallocate releases the rectangle backing id, coalescing it with
// adjacent free siblings and collapsing empty containers back into
// their parent, as described in spec.md §4.B.
func (a *Allocator) Deallocate(id AllocID) {
	idx := nodeID(id)
	a.nodes[idx].kind = kindFree

	for {
		n := &a.nodes[idx]
		if a.tryMerge(idx, n.next) {
			continue
		}
		if a.tryMerge(idx, n.prev) {
			continue
		}

		if n.prev == nilNode && n.next == nilNode && n.parent != nilNode {
			parentID := n.parent
			parentRect := n.rect
			a.vacate(idx)
			parent := &a.nodes[parentID]
			parent.rect = parentRect
			parent.kind = kindFree
			idx = parentID
			continue
		}

		break
	}

	final := &a.nodes[idx]
	a.free.push(a.classify(final.rect.Size()), idx)
}

// tryMerge attempts to coalesce the node at idx with the sibling at
// otherID, if that sibling is Free and adjacent along the orientation
// axis. On success the sibling is vacated and idx's rect grows to
// cover both; idx's sibling links are updated to skip the vacated node.
func (a *Allocator) tryMerge(idx, otherID nodeID) bool {
	if otherID == nilNode {
		return false
	}
	n := &a.nodes[idx]
	other := &a.nodes[otherID]
	if other.kind != kindFree {
		return false
	}
	if !adjacent(n.orientation, n.rect, other.rect) {
		return false
	}

	// otherID is left in the free list; it is now kindUnused and will
	// be dropped the next time that bin is scanned (spec.md §9's
	// documented free-list staleness, chosen over a doubly-linked
	// free list).
	merged := n.rect.Union(other.rect)
	var newPrev, newNext nodeID
	if n.next == otherID {
		newPrev, newNext = n.prev, other.next
	} else {
		newPrev, newNext = other.prev, n.next
	}
	a.vacate(otherID)

	n = &a.nodes[idx]
	n.rect = merged
	n.prev = newPrev
	n.next = newNext
	if newPrev != nilNode {
		a.nodes[newPrev].next = idx
	}
	if newNext != nilNode {
		a.nodes[newNext].prev = idx
	}
	return true
}

// adjacent reports whether a and b share the full extent of the
// cross-axis implied by orientation and touch along the split axis.
func adjacent(o Orientation, a, b geom.Rectangle) bool {
	if o == Horizontal {
		if a.MinY() != b.MinY() || a.MaxY() != b.MaxY() {
			return false
		}
		return a.MaxX() == b.MinX() || b.MaxX() == a.MinX()
	}
	if a.MinX() != b.MinX() || a.MaxX() != b.MaxX() {
		return false
	}
	return a.MaxY() == b.MinY() || b.MaxY() == a.MinY()
}

// Grow enlarges the atlas, adding up to two new independent free
// rectangles covering the newly available strips. new_size must be >=
// the current size in both axes.
func (a *Allocator) Grow(newSize geom.Size) {
	if newSize.Width < a.size.Width || newSize.Height < a.size.Height {
		panic("atlas: Grow requires newSize >= current size in both axes")
	}

	right := geom.Rectangle{
		Min: geom.Pt(a.size.Width, 0),
		Max: geom.Pt(newSize.Width, newSize.Height),
	}
	bottom := geom.Rectangle{
		Min: geom.Pt(0, a.size.Height),
		Max: geom.Pt(a.size.Width, newSize.Height),
	}

	if !right.IsEmpty() {
		a.pushNewRoot(right)
	}
	if !bottom.IsEmpty() {
		a.pushNewRoot(bottom)
	}

	a.size = newSize
}
