package trigo

import (
	"math"

	"github.com/bytearena/robotworld/common/utils/number"
	"github.com/bytearena/robotworld/common/utils/vector"
)

// IntersectionWithLineSegment tests segment [p, p2] against [q, q2].
// Colinear overlapping segments intersect; the returned point is then null.
func IntersectionWithLineSegment(p vector.Vector2, p2 vector.Vector2, q vector.Vector2, q2 vector.Vector2) (intersection vector.Vector2, intersects bool, colinear bool, parallel bool) {

	r := p2.Sub(p)
	s := q2.Sub(q)
	rxs := r.Cross(s)
	qpxr := q.Sub(p).Cross(r)

	// r x s = 0 and (q - p) x r = 0: colinear
	if number.IsZero(rxs) && number.IsZero(qpxr) {
		qSubPTimesR := q.Sub(p).Dot(r)
		pSubQTimesS := p.Sub(q).Dot(s)
		rSquared := r.Dot(r)
		sSquared := s.Dot(s)

		if (qSubPTimesR >= 0 && qSubPTimesR <= rSquared) || (pSubQTimesS >= 0 && pSubQTimesS <= sSquared) {
			return vector.MakeNullVector2(), true, true, true
		}

		return vector.MakeNullVector2(), false, true, true
	}

	// r x s = 0 and (q - p) x r != 0: parallel, disjoint
	if number.IsZero(rxs) {
		return vector.MakeNullVector2(), false, false, true
	}

	t := q.Sub(p).Cross(s) / rxs
	u := q.Sub(p).Cross(r) / rxs

	if (0 <= t && t <= 1) && (0 <= u && u <= 1) {
		return p.Add(r.MultScalar(t)), true, false, false
	}

	return vector.MakeNullVector2(), false, false, false
}

// SegmentsIntersect reports whether two segments share at least one point.
func SegmentsIntersect(a vector.Segment2, b vector.Segment2) bool {
	_, intersects, _, _ := IntersectionWithLineSegment(a.GetA(), a.GetB(), b.GetA(), b.GetB())
	return intersects
}

// SegmentIntersectsBox reports whether seg touches the axis-aligned box
// [min, max], including a segment lying fully inside it.
func SegmentIntersectsBox(seg vector.Segment2, min vector.Vector2, max vector.Vector2) bool {
	if PointInBox(seg.GetA(), min, max) || PointInBox(seg.GetB(), min, max) {
		return true
	}

	minx, miny := min.Get()
	maxx, maxy := max.Get()

	topLeft := vector.MakeVector2(minx, miny)
	topRight := vector.MakeVector2(maxx, miny)
	bottomRight := vector.MakeVector2(maxx, maxy)
	bottomLeft := vector.MakeVector2(minx, maxy)

	edges := []vector.Segment2{
		vector.MakeSegment2(topLeft, topRight),
		vector.MakeSegment2(topRight, bottomRight),
		vector.MakeSegment2(bottomRight, bottomLeft),
		vector.MakeSegment2(bottomLeft, topLeft),
	}

	for _, edge := range edges {
		if SegmentsIntersect(seg, edge) {
			return true
		}
	}

	return false
}

func PointInBox(p vector.Vector2, min vector.Vector2, max vector.Vector2) bool {
	px, py := p.Get()
	return px >= min.GetX() && px <= max.GetX() && py >= min.GetY() && py <= max.GetY()
}

func PointOnLineSegment(p vector.Vector2, a vector.Vector2, b vector.Vector2) bool {
	t := 0.0001

	px, py := p.Get()
	ax, ay := a.Get()
	bx, by := b.Get()

	// ensure points are collinear
	zero := (bx-ax)*(py-ay) - (px-ax)*(by-ay)
	if zero > t || zero < -t {
		return false
	}

	if math.Abs(ax-bx) > t {
		return px+t > math.Min(ax, bx) && px-t < math.Max(ax, bx)
	}

	return py+t > math.Min(ay, by) && py-t < math.Max(ay, by)
}
