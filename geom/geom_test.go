package geom_test

import (
	"testing"

	"github.com/nical/rendergraph/geom"
	"github.com/stretchr/testify/assert"
)

func TestUnionWithEmpty(t *testing.T) {
	r := geom.RectFromOriginAndSize(geom.Pt(10, 10), geom.Sz(5, 5))
	empty := geom.Zero()

	assert.Equal(t, r, empty.Union(r))
	assert.Equal(t, r, r.Union(empty))
}

func TestUnionGrowsBounds(t *testing.T) {
	a := geom.RectFromOriginAndSize(geom.Pt(0, 0), geom.Sz(10, 10))
	b := geom.RectFromOriginAndSize(geom.Pt(5, -5), geom.Sz(10, 10))

	u := a.Union(b)
	assert.Equal(t, geom.Pt(0, -5), u.Min)
	assert.Equal(t, geom.Pt(15, 10), u.Max)
}

func TestFitsInside(t *testing.T) {
	assert.True(t, geom.Sz(10, 20).FitsInside(geom.Sz(10, 20)))
	assert.True(t, geom.Sz(9, 19).FitsInside(geom.Sz(10, 20)))
	assert.False(t, geom.Sz(11, 19).FitsInside(geom.Sz(10, 20)))
	assert.False(t, geom.Sz(9, 21).FitsInside(geom.Sz(10, 20)))
}

func TestAreaAndSize(t *testing.T) {
	r := geom.RectFromOriginAndSize(geom.Pt(3, 4), geom.Sz(5, 6))
	assert.Equal(t, int32(30), r.Area())
	assert.Equal(t, geom.Sz(5, 6), r.Size())
	assert.Equal(t, int32(3), r.MinX())
	assert.Equal(t, int32(8), r.MaxX())
}

func TestBoxRoundTrip(t *testing.T) {
	r := geom.RectFromOriginAndSize(geom.Pt(1, 2), geom.Sz(3, 4))
	assert.Equal(t, r, r.ToBox2D().ToRectangle())
}
