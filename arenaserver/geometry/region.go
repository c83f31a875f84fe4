package geometry

import (
	"math"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"

	"github.com/bytearena/robotworld/common/utils/number"
	"github.com/bytearena/robotworld/common/utils/vector"
)

var ErrGeometryFailure = errors.New("geometry failure")

// StrictMode makes degenerate regions panic instead of being reported as an
// intersection. Tests switch it on.
var StrictMode = false

// Region is a simple polygon given by its ordered vertices.
type Region struct {
	points []vector.Vector2
}

func MakeRegion(points ...vector.Vector2) Region {
	cp := make([]vector.Vector2, len(points))
	copy(cp, points)
	return Region{points: cp}
}

// MakeRectRegion is the axis-aligned rectangle of size centred on center.
func MakeRectRegion(center Point, size Size) Region {
	half := size.Vector().MultScalar(0.5)
	c := center.Vector()
	min := c.Sub(half)
	max := c.Add(half)

	return MakeRegion(
		min,
		vector.MakeVector2(max.GetX(), min.GetY()),
		max,
		vector.MakeVector2(min.GetX(), max.GetY()),
	)
}

func (r Region) Points() []vector.Vector2 {
	cp := make([]vector.Vector2, len(r.points))
	copy(cp, r.points)
	return cp
}

func (r Region) ring() orb.Ring {
	ring := make(orb.Ring, 0, len(r.points)+1)
	for _, p := range r.points {
		ring = append(ring, orb.Point{p.GetX(), p.GetY()})
	}

	if len(ring) > 0 && !ring[0].Equal(ring[len(ring)-1]) {
		ring = append(ring, ring[0])
	}

	return ring
}

func (r Region) Area() float64 {
	if len(r.points) < 3 {
		return 0
	}

	_, area := planar.CentroidArea(r.ring())
	return math.Abs(area)
}

// IsEmpty is true for a region that encloses no surface.
func (r Region) IsEmpty() bool {
	return number.IsZero(r.Area())
}

// Validate returns ErrGeometryFailure for degenerate polygons.
func (r Region) Validate() error {
	if len(r.points) < 3 {
		return errors.Wrapf(ErrGeometryFailure, "region has %d points", len(r.points))
	}

	if r.IsEmpty() {
		return errors.Wrapf(ErrGeometryFailure, "region %v has no area", r.points)
	}

	return nil
}

func (r Region) contour() polyclip.Contour {
	contour := make(polyclip.Contour, len(r.points))
	for i, p := range r.points {
		contour[i] = polyclip.Point{X: p.GetX(), Y: p.GetY()}
	}

	return contour
}

// Intersection clips r against other. The result is empty when they do not
// overlap.
func (r Region) Intersection(other Region) (Region, error) {
	if err := r.Validate(); err != nil {
		return Region{}, err
	}

	if err := other.Validate(); err != nil {
		return Region{}, err
	}

	subject := polyclip.Polygon{r.contour()}
	clipping := polyclip.Polygon{other.contour()}

	result := subject.Construct(polyclip.INTERSECTION, clipping)
	if len(result) == 0 || len(result[0]) < 3 {
		return Region{}, nil
	}

	res := make([]vector.Vector2, len(result[0]))
	for i, p := range result[0] {
		res[i] = vector.MakeVector2(p.X, p.Y)
	}

	return Region{points: res}, nil
}

// Intersects reports whether both regions share some surface. A degenerate
// operand counts as an intersection, or panics under StrictMode.
func (r Region) Intersects(other Region) bool {
	inter, err := r.Intersection(other)
	if err != nil {
		if StrictMode {
			panic(err)
		}

		return true
	}

	return !inter.IsEmpty()
}

func (r Region) Contains(p vector.Vector2) bool {
	if len(r.points) < 3 {
		return false
	}

	return planar.RingContains(r.ring(), orb.Point{p.GetX(), p.GetY()})
}

// Bounds is the axis-aligned bounding box of the region.
func (r Region) Bounds() (min vector.Vector2, max vector.Vector2) {
	if len(r.points) == 0 {
		return vector.MakeNullVector2(), vector.MakeNullVector2()
	}

	bound := r.ring().Bound()
	return vector.MakeVector2(bound.Min[0], bound.Min[1]), vector.MakeVector2(bound.Max[0], bound.Max[1])
}

// Center is the centre of the bounding box.
func (r Region) Center() vector.Vector2 {
	min, max := r.Bounds()
	return min.Add(max).MultScalar(0.5)
}

// Edges are the closed polygon sides, in vertex order.
func (r Region) Edges() []vector.Segment2 {
	n := len(r.points)
	if n < 2 {
		return nil
	}

	edges := make([]vector.Segment2, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, vector.MakeSegment2(r.points[i], r.points[(i+1)%n]))
	}

	return edges
}
