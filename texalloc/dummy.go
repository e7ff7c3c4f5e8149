package texalloc

import "github.com/nical/rendergraph/geom"

// DummyAllocator performs no real packing: every allocation returns a
// zero-sized rectangle at the origin. It exists so the builder's
// scheduling stages (culling, pass/target assignment) can be exercised
// and benchmarked without the cost of real rectangle packing (spec.md
// §4.C, §9 "dynamic-dispatch allocator").
type DummyAllocator struct {
	nextTexture TextureID
	nextAlloc   AllocID
}

func NewDummyAllocator() *DummyAllocator {
	return &DummyAllocator{}
}

func (d *DummyAllocator) AddTexture() TextureID {
	id := d.nextTexture
	d.nextTexture++
	return id
}

func (d *DummyAllocator) Allocate(TextureID, geom.Size) (geom.Rectangle, AllocID, bool) {
	id := d.nextAlloc
	d.nextAlloc++
	return geom.Rectangle{}, id, true
}

func (d *DummyAllocator) Deallocate(AllocID) {}
