package geometry

import (
	"fmt"

	"github.com/bytearena/robotworld/common/utils/number"
	"github.com/bytearena/robotworld/common/utils/vector"
)

type Point struct {
	X int
	Y int
}

func MakePoint(x, y int) Point {
	return Point{X: x, Y: y}
}

// PointFromVector rounds v to the nearest integer coordinates.
func PointFromVector(v vector.Vector2) Point {
	return Point{
		X: number.Round(v.GetX()),
		Y: number.Round(v.GetY()),
	}
}

func (p Point) Vector() vector.Vector2 {
	return vector.MakeVector2(float64(p.X), float64(p.Y))
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Point) Distance(o Point) float64 {
	return p.Vector().Distance(o.Vector())
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Size is the width (X) and depth (Y) of a footprint.
type Size struct {
	X int
	Y int
}

var DefaultSize = Size{X: 20, Y: 20}

func (s Size) Vector() vector.Vector2 {
	return vector.MakeVector2(float64(s.X), float64(s.Y))
}

func (s Size) Max() int {
	if s.X > s.Y {
		return s.X
	}

	return s.Y
}

func (s Size) IsZero() bool {
	return s.X == 0 && s.Y == 0
}

// BoundedVector is the displacement from a base point to a head point.
// Only the displacement is kept; it gives a heading.
type BoundedVector struct {
	X int
	Y int
}

func MakeBoundedVector(head Point, base Point) BoundedVector {
	d := head.Sub(base)
	return BoundedVector{X: d.X, Y: d.Y}
}

func (b BoundedVector) Vector() vector.Vector2 {
	return vector.MakeVector2(float64(b.X), float64(b.Y))
}

// Angle is atan2(dy, dx) in radians. A null vector has angle 0.
func (b BoundedVector) Angle() float64 {
	return b.Vector().Heading()
}

func (b BoundedVector) IsNull() bool {
	return b.X == 0 && b.Y == 0
}

func (b BoundedVector) String() string {
	return fmt.Sprintf("<%d,%d>", b.X, b.Y)
}
