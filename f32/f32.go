// SPDX-License-Identifier: Unlicense OR MIT

// Package f32 is a float32 geometry toolkit parallel to package geom's
// integer one: a Point and a Rectangle plus the handful of operations
// rendersvg needs to lay out an SVG diagram, where sub-pixel positions
// (midpoints, bowed bezier control points, atlas-preview scaling) make
// an integer type the wrong fit.
package f32

// A Point is a two dimensional point.
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// A Rectangle contains the points (X, Y) where Min.X <= X < Max.X,
// Min.Y <= Y < Max.Y.
type Rectangle struct {
	Min, Max Point
}

// Add return the point p+p2.
func (p Point) Add(p2 Point) Point {
	return Point{X: p.X + p2.X, Y: p.Y + p2.Y}
}

// Sub returns the vector p-p2.
func (p Point) Sub(p2 Point) Point {
	return Point{X: p.X - p2.X, Y: p.Y - p2.Y}
}

// Lerp returns the point t of the way from p to other (t=0 is p, t=1
// is other), used to place bezier control points along a link.
func (p Point) Lerp(other Point, t float32) Point {
	return Point{X: p.X + (other.X-p.X)*t, Y: p.Y + (other.Y-p.Y)*t}
}

// Size returns r's width and height.
func (r Rectangle) Size() Point {
	return Point{X: r.Dx(), Y: r.Dy()}
}

// Dx returns r's width.
func (r Rectangle) Dx() float32 {
	return r.Max.X - r.Min.X
}

// Dy returns r's Height.
func (r Rectangle) Dy() float32 {
	return r.Max.Y - r.Min.Y
}

// Union returns the union of r and s.
func (r Rectangle) Union(s Rectangle) Rectangle {
	if r.Min.X > s.Min.X {
		r.Min.X = s.Min.X
	}
	if r.Min.Y > s.Min.Y {
		r.Min.Y = s.Min.Y
	}
	if r.Max.X < s.Max.X {
		r.Max.X = s.Max.X
	}
	if r.Max.Y < s.Max.Y {
		r.Max.Y = s.Max.Y
	}
	return r
}

// Add offsets r with the vector p.
func (r Rectangle) Add(p Point) Rectangle {
	return Rectangle{
		Point{r.Min.X + p.X, r.Min.Y + p.Y},
		Point{r.Max.X + p.X, r.Max.Y + p.Y},
	}
}

// Sub offsets r with the vector -p.
func (r Rectangle) Sub(p Point) Rectangle {
	return Rectangle{
		Point{r.Min.X - p.X, r.Min.Y - p.Y},
		Point{r.Max.X - p.X, r.Max.Y - p.Y},
	}
}

// Inflate grows r by dx on each side horizontally and dy on each side
// vertically (negative values shrink it), used to pad a box around its
// label or nudge an allocated-rectangle preview off its border.
func (r Rectangle) Inflate(dx, dy float32) Rectangle {
	return Rectangle{
		Min: Pt(r.Min.X-dx, r.Min.Y-dy),
		Max: Pt(r.Max.X+dx, r.Max.Y+dy),
	}
}
