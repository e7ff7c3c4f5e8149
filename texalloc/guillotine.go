package texalloc

import (
	"github.com/nical/rendergraph/atlas"
	"github.com/nical/rendergraph/geom"
)

// maxGrowDoublings bounds the grow-and-retry loop: a texture that
// still can't fit an allocation after this many doublings of its
// starting size is treated as unable to satisfy the request at all,
// per spec.md §7's "implementation-defined maximum".
const maxGrowDoublings = 16

// GuillotineAllocator realises TextureAllocator as one atlas.Allocator
// per texture, keyed by TextureID. Allocate grows a texture by
// doubling and retries until the request fits or the retry budget is
// exhausted.
type GuillotineAllocator struct {
	defaultSize geom.Size
	options     atlas.Options
	textures    []*atlas.Allocator
}

// NewGuillotineAllocator creates an allocator whose textures start at
// defaultSize and share the given atlas options.
func NewGuillotineAllocator(defaultSize geom.Size, options atlas.Options) *GuillotineAllocator {
	return &GuillotineAllocator{defaultSize: defaultSize, options: options}
}

func (g *GuillotineAllocator) AddTexture() TextureID {
	id := TextureID(len(g.textures))
	g.textures = append(g.textures, atlas.New(g.defaultSize, g.options))
	return id
}

func (g *GuillotineAllocator) Allocate(textureID TextureID, size geom.Size) (geom.Rectangle, AllocID, bool) {
	a := g.textures[textureID]

	for attempt := 0; attempt <= maxGrowDoublings; attempt++ {
		if id, rect, ok := a.Allocate(size); ok {
			return rect, encodeAllocID(textureID, id), true
		}
		current := a.Size()
		grown := geom.Sz(current.Width*2, current.Height*2)
		if !size.FitsInside(grown) {
			grown = grown.Max(geom.Sz(size.Width, size.Height))
		}
		a.Grow(grown)
	}
	return geom.Rectangle{}, 0, false
}

// TextureSize reports textureID's current size, satisfying
// TextureSizer.
func (g *GuillotineAllocator) TextureSize(textureID TextureID) (geom.Size, bool) {
	if int(textureID) >= len(g.textures) {
		return geom.Size{}, false
	}
	return g.textures[textureID].Size(), true
}

func (g *GuillotineAllocator) Deallocate(id AllocID) {
	textureID, localID := decodeAllocID(id)
	g.textures[textureID].Deallocate(localID)
}

func encodeAllocID(textureID TextureID, id atlas.AllocID) AllocID {
	return AllocID(uint64(textureID)<<32 | uint64(id))
}

func decodeAllocID(id AllocID) (TextureID, atlas.AllocID) {
	return TextureID(id >> 32), atlas.AllocID(uint32(id))
}
