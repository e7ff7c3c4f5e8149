// Package geom implements the integer point, size and rectangle types
// shared by the atlas allocator and the graph builder.
//
// The coordinate space has its origin in the top left corner with the
// axes extending right and down, mirroring how the renderer's device
// pixels are addressed. All arithmetic is 32-bit signed; overflow is a
// programmer error and is not guarded against.
package geom

import "golang.org/x/exp/constraints"

// A Point is a two dimensional integer point.
type Point struct {
	X, Y int32
}

// Pt is a shorthand constructor for Point.
func Pt(x, y int32) Point {
	return Point{X: x, Y: y}
}

// Add returns p+p2.
func (p Point) Add(p2 Point) Point {
	return Point{X: p.X + p2.X, Y: p.Y + p2.Y}
}

// Sub returns the vector p-p2.
func (p Point) Sub(p2 Point) Point {
	return Point{X: p.X - p2.X, Y: p.Y - p2.Y}
}

// A Size is a width and height pair.
type Size struct {
	Width, Height int32
}

// Sz is a shorthand constructor for Size.
func Sz(width, height int32) Size {
	return Size{Width: width, Height: height}
}

// Area returns width*height.
func (s Size) Area() int32 {
	return s.Width * s.Height
}

// FitsInside reports whether s fits inside other along both axes.
func (s Size) FitsInside(other Size) bool {
	return s.Width <= other.Width && s.Height <= other.Height
}

// ToVector treats s as the vector (Width, Height).
func (s Size) ToVector() Point {
	return Point{X: s.Width, Y: s.Height}
}

// Max returns the larger size along each axis independently.
func (s Size) Max(other Size) Size {
	return Size{Width: maxOf(s.Width, other.Width), Height: maxOf(s.Height, other.Height)}
}

// A Rectangle is stored as its min and max corners;
// RectFromOriginAndSize builds one from an origin point plus a size.
type Rectangle struct {
	Min Point
	Max Point
}

// RectFromOriginAndSize builds a Rectangle from an origin and a size.
func RectFromOriginAndSize(origin Point, size Size) Rectangle {
	return Rectangle{Min: origin, Max: origin.Add(size.ToVector())}
}

// Zero is the empty rectangle at the origin.
func Zero() Rectangle {
	return Rectangle{}
}

// Size returns the rectangle's width and height.
func (r Rectangle) Size() Size {
	return Size{Width: r.Dx(), Height: r.Dy()}
}

// Dx returns the rectangle's width.
func (r Rectangle) Dx() int32 { return r.Max.X - r.Min.X }

// Dy returns the rectangle's height.
func (r Rectangle) Dy() int32 { return r.Max.Y - r.Min.Y }

// Area returns the rectangle's area.
func (r Rectangle) Area() int32 { return r.Dx() * r.Dy() }

// IsEmpty reports whether the rectangle has zero width or height.
func (r Rectangle) IsEmpty() bool { return r.Dx() == 0 || r.Dy() == 0 }

func (r Rectangle) MinX() int32 { return r.Min.X }
func (r Rectangle) MinY() int32 { return r.Min.Y }
func (r Rectangle) MaxX() int32 { return r.Max.X }
func (r Rectangle) MaxY() int32 { return r.Max.Y }

// Union returns the smallest rectangle enclosing r and other. Union with
// an empty rectangle returns the other rectangle unchanged.
func (r Rectangle) Union(other Rectangle) Rectangle {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Rectangle{
		Min: Point{X: minOf(r.MinX(), other.MinX()), Y: minOf(r.MinY(), other.MinY())},
		Max: Point{X: maxOf(r.MaxX(), other.MaxX()), Y: maxOf(r.MaxY(), other.MaxY())},
	}
}

// ToBox2D converts the rectangle to its min/max box representation. It is
// the identity conversion: Rectangle already stores Min/Max, this method
// exists so callers that think in terms of "box" rather than
// "origin+size" have a named spelling.
func (r Rectangle) ToBox2D() Box2D {
	return Box2D{Min: r.Min, Max: r.Max}
}

// A Box2D is a rectangle expressed as a min/max pair. It is structurally
// identical to Rectangle; the two names exist because the rest of the
// codebase sometimes thinks in terms of "origin+size" (Rectangle) and
// sometimes in terms of "bounds" (Box2D).
type Box2D struct {
	Min, Max Point
}

// ToRectangle converts a Box2D back to a Rectangle.
func (b Box2D) ToRectangle() Rectangle {
	return Rectangle{Min: b.Min, Max: b.Max}
}

func minOf[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func maxOf[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}
