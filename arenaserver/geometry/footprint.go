package geometry

import (
	"math"

	"github.com/bytearena/robotworld/common/utils/vector"
)

// Quad is a footprint turned to face a heading. Front is the side the
// heading points to.
type Quad struct {
	FrontLeft  vector.Vector2
	FrontRight vector.Vector2
	BackLeft   vector.Vector2
	BackRight  vector.Vector2
}

// footprintAngle turns an axis-aligned shape facing -Y (up on screen) so
// that it faces front.
func footprintAngle(front BoundedVector) float64 {
	return front.Angle() + 0.5*math.Pi
}

func turn(position Point, front BoundedVector, corners [4]vector.Vector2) Quad {
	center := position.Vector()
	angle := footprintAngle(front)

	return Quad{
		FrontLeft:  corners[0].RotateAround(center, angle),
		FrontRight: corners[1].RotateAround(center, angle),
		BackLeft:   corners[2].RotateAround(center, angle),
		BackRight:  corners[3].RotateAround(center, angle),
	}
}

// BodyQuad is the footprint of size centred on position.
func BodyQuad(position Point, size Size, front BoundedVector) Quad {
	x := float64(position.X - size.X/2)
	y := float64(position.Y - size.Y/2)
	sx := float64(size.X)
	sy := float64(size.Y)

	return turn(position, front, [4]vector.Vector2{
		vector.MakeVector2(x, y),
		vector.MakeVector2(x+sx, y),
		vector.MakeVector2(x, y+sy),
		vector.MakeVector2(x+sx, y+sy),
	})
}

// ProximityQuad is the area scanned ahead of the robot: one and a half
// body lengths in front, slightly wider than the body.
func ProximityQuad(position Point, size Size, front BoundedVector) Quad {
	x := float64(position.X - size.X/2)
	y := float64(position.Y - size.Y/2)
	sx := float64(size.X)
	sy := float64(size.Y)

	return turn(position, front, [4]vector.Vector2{
		vector.MakeVector2(x-0.1*sx, y-1.5*sy),
		vector.MakeVector2(x+1.1*sx, y-1.5*sy),
		vector.MakeVector2(x-0.1*sx, y),
		vector.MakeVector2(x+1.1*sx+sx, y),
	})
}

func (q Quad) FrontEdge() vector.Segment2 {
	return vector.MakeSegment2(q.FrontLeft, q.FrontRight)
}

func (q Quad) BackEdge() vector.Segment2 {
	return vector.MakeSegment2(q.BackLeft, q.BackRight)
}

func (q Quad) LeftEdge() vector.Segment2 {
	return vector.MakeSegment2(q.FrontLeft, q.BackLeft)
}

func (q Quad) RightEdge() vector.Segment2 {
	return vector.MakeSegment2(q.FrontRight, q.BackRight)
}

// FrontLeftToBackRight is the diagonal of the quad.
func (q Quad) FrontLeftToBackRight() vector.Segment2 {
	return vector.MakeSegment2(q.FrontLeft, q.BackRight)
}

func (q Quad) Region() Region {
	return MakeRegion(q.FrontRight, q.FrontLeft, q.BackLeft, q.BackRight)
}
