// Package texalloc exposes the multi-texture allocator boundary the
// graph builder consumes: add a texture, allocate a sub-rectangle
// inside it growing the backing atlas on demand, deallocate. Three
// implementations share the interface: a real guillotine-backed
// packer, a statistics-collecting decorator, and a zero-work dummy for
// scheduling-only benchmarks (spec.md §4.C, §9 "dynamic-dispatch
// allocator").
package texalloc

import "github.com/nical/rendergraph/geom"

// TextureID identifies one of the allocator's backing textures.
type TextureID uint32

// AllocID identifies a single live sub-rectangle allocation, unique
// across all textures of the allocator that produced it.
type AllocID uint64

// TextureAllocator is the capability the builder consumes. The
// builder never inspects which implementation it was handed.
type TextureAllocator interface {
	// AddTexture introduces a new backing texture at the allocator's
	// default size and returns its id.
	AddTexture() TextureID

	// Allocate reserves size inside textureID, growing the texture
	// (doubling) and retrying as needed. It returns false only if the
	// requested size cannot fit even in a maximally grown texture.
	Allocate(textureID TextureID, size geom.Size) (geom.Rectangle, AllocID, bool)

	// Deallocate releases a previously returned AllocID.
	Deallocate(id AllocID)
}

// TextureSizer is an optional capability a TextureAllocator
// implementation can provide to report a texture's current size. The
// sub-rectangle allocation stage uses it, when available, to validate
// that a Fixed allocation's pinned origin+size actually fits its
// pinned texture. Implementations that cannot meaningfully answer
// (e.g. DummyAllocator) simply don't implement this interface, and the
// check is skipped.
type TextureSizer interface {
	TextureSize(id TextureID) (geom.Size, bool)
}
