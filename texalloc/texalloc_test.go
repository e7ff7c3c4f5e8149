package texalloc_test

import (
	"testing"

	"github.com/nical/rendergraph/atlas"
	"github.com/nical/rendergraph/geom"
	"github.com/nical/rendergraph/texalloc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuillotineAllocatorGrowsOnDemand(t *testing.T) {
	g := texalloc.NewGuillotineAllocator(geom.Sz(32, 32), atlas.DefaultOptions)
	tex := g.AddTexture()

	_, id1, ok := g.Allocate(tex, geom.Sz(32, 32))
	require.True(t, ok)

	// The texture is now full; this must grow internally and succeed.
	rect2, id2, ok := g.Allocate(tex, geom.Sz(32, 32))
	require.True(t, ok)
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, int32(32*32), rect2.Area())

	g.Deallocate(id1)
	g.Deallocate(id2)
}

func TestGuillotineAllocatorMultipleTextures(t *testing.T) {
	g := texalloc.NewGuillotineAllocator(geom.Sz(64, 64), atlas.DefaultOptions)
	texA := g.AddTexture()
	texB := g.AddTexture()
	assert.NotEqual(t, texA, texB)

	_, idA, ok := g.Allocate(texA, geom.Sz(16, 16))
	require.True(t, ok)
	_, idB, ok := g.Allocate(texB, geom.Sz(16, 16))
	require.True(t, ok)

	g.Deallocate(idA)
	g.Deallocate(idB)
}

func TestDebugAllocatorTracksHighWaterMark(t *testing.T) {
	inner := texalloc.NewGuillotineAllocator(geom.Sz(128, 128), atlas.DefaultOptions)
	d := texalloc.NewDebugAllocator(inner)
	tex := d.AddTexture()

	_, id1, ok := d.Allocate(tex, geom.Sz(16, 16))
	require.True(t, ok)
	_, id2, ok := d.Allocate(tex, geom.Sz(16, 16))
	require.True(t, ok)

	stats, ok := d.Stats(tex)
	require.True(t, ok)
	assert.Equal(t, 2, stats.MaxLiveRects)
	assert.Equal(t, int64(16*16*2), stats.MaxLivePixels)

	d.Deallocate(id1)
	d.Deallocate(id2)

	// High-water mark persists after releasing allocations.
	stats, _ = d.Stats(tex)
	assert.Equal(t, 2, stats.MaxLiveRects)
}

func TestDummyAllocatorNeverFails(t *testing.T) {
	d := texalloc.NewDummyAllocator()
	tex := d.AddTexture()

	rect, id, ok := d.Allocate(tex, geom.Sz(99999, 99999))
	require.True(t, ok)
	assert.Equal(t, geom.Zero(), rect)
	d.Deallocate(id)
}
