package state

import (
	"math"

	"github.com/dhconnelly/rtreego"
	uuid "github.com/satori/go.uuid"

	"github.com/bytearena/robotworld/arenaserver/geometry"
	"github.com/bytearena/robotworld/common/utils/vector"
)

// Wall is an immutable segment.
type Wall struct {
	ID uuid.UUID
	p1 geometry.Point
	p2 geometry.Point
}

func MakeWall(p1 geometry.Point, p2 geometry.Point) Wall {
	return Wall{
		ID: uuid.NewV4(),
		p1: p1,
		p2: p2,
	}
}

func (w Wall) P1() geometry.Point {
	return w.p1
}

func (w Wall) P2() geometry.Point {
	return w.p2
}

func (w Wall) Segment() vector.Segment2 {
	return vector.MakeSegment2(w.p1.Vector(), w.p2.Vector())
}

// SameEndpoints ignores the wall direction.
func (w Wall) SameEndpoints(p1 geometry.Point, p2 geometry.Point) bool {
	return (w.p1 == p1 && w.p2 == p2) || (w.p1 == p2 && w.p2 == p1)
}

// rtreego refuses empty extents, so axis-aligned walls get a thin margin.
const wallBoundsMargin = 0.5

func (w Wall) Bounds() rtreego.Rect {
	minx := math.Min(float64(w.p1.X), float64(w.p2.X)) - wallBoundsMargin
	miny := math.Min(float64(w.p1.Y), float64(w.p2.Y)) - wallBoundsMargin
	maxx := math.Max(float64(w.p1.X), float64(w.p2.X)) + wallBoundsMargin
	maxy := math.Max(float64(w.p1.Y), float64(w.p2.Y)) + wallBoundsMargin

	rect, _ := rtreego.NewRect(rtreego.Point{minx, miny}, []float64{maxx - minx, maxy - miny})
	return rect
}

func (w Wall) String() string {
	return "Wall " + w.p1.String() + "-" + w.p2.String()
}

// Goal is the named area robots drive to.
type Goal struct {
	Name     string
	Position geometry.Point
	Size     geometry.Size
}

const DefaultGoalName = "Goal"

func (g Goal) Region() geometry.Region {
	return geometry.MakeRectRegion(g.Position, g.Size)
}
