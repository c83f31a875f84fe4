package trigo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bytearena/robotworld/common/utils/vector"
)

func seg(x1, y1, x2, y2 float64) vector.Segment2 {
	return vector.MakeSegment2(vector.MakeVector2(x1, y1), vector.MakeVector2(x2, y2))
}

func TestSegmentsIntersect(t *testing.T) {
	cases := []struct {
		name string
		a    vector.Segment2
		b    vector.Segment2
		want bool
	}{
		{"crossing", seg(0, 0, 10, 10), seg(0, 10, 10, 0), true},
		{"touching endpoint", seg(0, 0, 10, 0), seg(10, 0, 10, 10), true},
		{"parallel", seg(0, 0, 10, 0), seg(0, 1, 10, 1), false},
		{"colinear overlap", seg(0, 0, 10, 0), seg(5, 0, 15, 0), true},
		{"colinear disjoint", seg(0, 0, 10, 0), seg(11, 0, 15, 0), false},
		{"apart", seg(0, 0, 1, 1), seg(5, 0, 6, -3), false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, SegmentsIntersect(c.a, c.b))
			assert.Equal(t, c.want, SegmentsIntersect(c.b, c.a))
		})
	}
}

func TestIntersectionPoint(t *testing.T) {
	p, ok, colinear, parallel := IntersectionWithLineSegment(
		vector.MakeVector2(0, 0), vector.MakeVector2(10, 10),
		vector.MakeVector2(0, 10), vector.MakeVector2(10, 0),
	)

	assert.True(t, ok)
	assert.False(t, colinear)
	assert.False(t, parallel)
	assert.True(t, p.Equals(vector.MakeVector2(5, 5)), p.String())
}

func TestSegmentIntersectsBox(t *testing.T) {
	min := vector.MakeVector2(0, 0)
	max := vector.MakeVector2(10, 10)

	assert.True(t, SegmentIntersectsBox(seg(-5, 5, 15, 5), min, max))
	assert.True(t, SegmentIntersectsBox(seg(2, 2, 3, 3), min, max), "inside")
	assert.True(t, SegmentIntersectsBox(seg(10, -5, 10, 20), min, max), "edge")
	assert.False(t, SegmentIntersectsBox(seg(11, -5, 11, 20), min, max))
}

func TestPointOnLineSegment(t *testing.T) {
	assert.True(t, PointOnLineSegment(vector.MakeVector2(5, 0), vector.MakeVector2(0, 0), vector.MakeVector2(10, 0)))
	assert.True(t, PointOnLineSegment(vector.MakeVector2(0, 5), vector.MakeVector2(0, 10), vector.MakeVector2(0, 0)))
	assert.False(t, PointOnLineSegment(vector.MakeVector2(5, 1), vector.MakeVector2(0, 0), vector.MakeVector2(10, 0)))
}
