package texalloc

import "github.com/nical/rendergraph/geom"

// TextureStats summarizes the high-water marks observed for one
// texture over the lifetime of a DebugAllocator.
type TextureStats struct {
	MaxLivePixels int64
	MaxLiveRects  int
}

// DebugAllocator wraps a TextureAllocator and records, per texture,
// the set of currently-live rectangles, updating max-pixel and
// max-rect high-water marks on every successful allocate (deallocate
// only removes the rectangle from the live set). It changes
// no allocation decisions; it is purely an observer (spec.md §4.C).
type DebugAllocator struct {
	inner TextureAllocator
	live  map[AllocID]liveEntry
	stats map[TextureID]*TextureStats
}

type liveEntry struct {
	texture TextureID
	pixels  int64
}

// NewDebugAllocator wraps inner, an allocator that will perform the
// real work.
func NewDebugAllocator(inner TextureAllocator) *DebugAllocator {
	return &DebugAllocator{
		inner: inner,
		live:  make(map[AllocID]liveEntry),
		stats: make(map[TextureID]*TextureStats),
	}
}

func (d *DebugAllocator) AddTexture() TextureID {
	id := d.inner.AddTexture()
	d.stats[id] = &TextureStats{}
	return id
}

func (d *DebugAllocator) Allocate(textureID TextureID, size geom.Size) (geom.Rectangle, AllocID, bool) {
	rect, id, ok := d.inner.Allocate(textureID, size)
	if !ok {
		return rect, id, false
	}

	d.live[id] = liveEntry{texture: textureID, pixels: int64(rect.Area())}

	stats := d.stats[textureID]
	if stats == nil {
		stats = &TextureStats{}
		d.stats[textureID] = stats
	}

	var livePixels int64
	var liveRects int
	for _, entry := range d.live {
		if entry.texture == textureID {
			livePixels += entry.pixels
			liveRects++
		}
	}
	if livePixels > stats.MaxLivePixels {
		stats.MaxLivePixels = livePixels
	}
	if liveRects > stats.MaxLiveRects {
		stats.MaxLiveRects = liveRects
	}

	return rect, id, true
}

func (d *DebugAllocator) Deallocate(id AllocID) {
	delete(d.live, id)
	d.inner.Deallocate(id)
}

// Stats returns the recorded high-water marks for textureID. The
// second return is false if the texture is unknown.
func (d *DebugAllocator) Stats(textureID TextureID) (TextureStats, bool) {
	s, ok := d.stats[textureID]
	if !ok {
		return TextureStats{}, false
	}
	return *s, true
}

// TextureSize forwards to the wrapped allocator if it implements
// TextureSizer, satisfying TextureSizer itself.
func (d *DebugAllocator) TextureSize(textureID TextureID) (geom.Size, bool) {
	if sizer, ok := d.inner.(TextureSizer); ok {
		return sizer.TextureSize(textureID)
	}
	return geom.Size{}, false
}
