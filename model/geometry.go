package model

import (
	"fmt"
	"math"
)

// Point is a position or displacement in some coordinate space.
type Point struct {
	X, Y float64
}

// BBox is an axis-aligned rectangle stored as its lower left corner and
// size. Y grows upwards.
type BBox struct {
	X, Y          float64
	Width, Height float64
}

func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// NewBBoxFromPoints returns the smallest box containing p and q.
func NewBBoxFromPoints(p, q Point) BBox {
	return BBox{
		X:      math.Min(p.X, q.X),
		Y:      math.Min(p.Y, q.Y),
		Width:  math.Abs(q.X - p.X),
		Height: math.Abs(q.Y - p.Y),
	}
}

// NewBBoxFromCorners converts a rectangle array [x0 y0 x1 y1], whose
// corners may come in any order.
func NewBBoxFromCorners(x0, y0, x1, y1 float64) BBox {
	return NewBBoxFromPoints(Point{x0, y0}, Point{x1, y1})
}

func (b BBox) Left() float64   { return b.X }
func (b BBox) Right() float64  { return b.X + b.Width }
func (b BBox) Bottom() float64 { return b.Y }
func (b BBox) Top() float64    { return b.Y + b.Height }

// Union returns the smallest box containing both b and o.
func (b BBox) Union(o BBox) BBox {
	return NewBBoxFromCorners(
		math.Min(b.Left(), o.Left()), math.Min(b.Bottom(), o.Bottom()),
		math.Max(b.Right(), o.Right()), math.Max(b.Top(), o.Top()),
	)
}

// String formats the box as "x0 y0 x1 y1" with three decimals.
func (b BBox) String() string {
	return fmt.Sprintf("%.3f %.3f %.3f %.3f", b.Left(), b.Bottom(), b.Right(), b.Top())
}

// Matrix is the affine transform [a b c d e f] mapping (x, y) to
// (a*x + c*y + e, b*x + d*y + f).
type Matrix [6]float64

func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

func (m Matrix) Transform(p Point) Point {
	v := m.TransformVector(p)
	return Point{X: v.X + m[4], Y: v.Y + m[5]}
}

// TransformVector applies the linear part of m, ignoring translation.
func (m Matrix) TransformVector(p Point) Point {
	return Point{X: m[0]*p.X + m[2]*p.Y, Y: m[1]*p.X + m[3]*p.Y}
}

// Multiply returns the transform that applies m and then n.
func (m Matrix) Multiply(n Matrix) Matrix {
	a, b, c, d, e, f := m[0], m[1], m[2], m[3], m[4], m[5]
	return Matrix{
		a*n[0] + b*n[2], a*n[1] + b*n[3],
		c*n[0] + d*n[2], c*n[1] + d*n[3],
		e*n[0] + f*n[2] + n[4], e*n[1] + f*n[3] + n[5],
	}
}

// Translated moves the origin of m to (x, y) in m's input space. It equals
// Translate(x, y).Multiply(m).
func (m Matrix) Translated(x, y float64) Matrix {
	o := m.Transform(Point{x, y})
	return Matrix{m[0], m[1], m[2], m[3], o.X, o.Y}
}

func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// Origin returns where m maps (0, 0).
func (m Matrix) Origin() Point {
	return Point{X: m[4], Y: m[5]}
}
