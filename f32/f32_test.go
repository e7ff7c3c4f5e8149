package f32_test

import (
	"testing"

	"github.com/nical/rendergraph/f32"
	"github.com/stretchr/testify/assert"
)

func TestLerpEndpoints(t *testing.T) {
	a := f32.Pt(0, 0)
	b := f32.Pt(10, 20)

	assert.Equal(t, a, a.Lerp(b, 0))
	assert.Equal(t, b, a.Lerp(b, 1))
	assert.Equal(t, f32.Pt(5, 10), a.Lerp(b, 0.5))
}

func TestInflateGrowsAndShrinks(t *testing.T) {
	r := f32.Rectangle{Min: f32.Pt(10, 10), Max: f32.Pt(20, 20)}

	grown := r.Inflate(2, 3)
	assert.Equal(t, f32.Pt(8, 7), grown.Min)
	assert.Equal(t, f32.Pt(22, 23), grown.Max)

	shrunk := r.Inflate(-2, -2)
	assert.Equal(t, f32.Pt(12, 12), shrunk.Min)
	assert.Equal(t, f32.Pt(18, 18), shrunk.Max)
}

func TestRectangleAddTranslates(t *testing.T) {
	r := f32.Rectangle{Min: f32.Pt(1, 1), Max: f32.Pt(3, 3)}
	moved := r.Add(f32.Pt(10, -1))
	assert.Equal(t, f32.Pt(11, 0), moved.Min)
	assert.Equal(t, f32.Pt(13, 2), moved.Max)
}

func TestRectangleUnionUnchangedWhenContained(t *testing.T) {
	outer := f32.Rectangle{Min: f32.Pt(0, 0), Max: f32.Pt(100, 100)}
	inner := f32.Rectangle{Min: f32.Pt(10, 10), Max: f32.Pt(20, 20)}
	assert.Equal(t, outer, outer.Union(inner))
}
