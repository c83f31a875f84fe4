package vector

type Segment2 struct {
	a Vector2
	b Vector2
}

func MakeSegment2(a Vector2, b Vector2) Segment2 {
	return Segment2{a: a, b: b}
}

func (s Segment2) Get() (Vector2, Vector2) {
	return s.a, s.b
}

func (s Segment2) GetA() Vector2 {
	return s.a
}

func (s Segment2) GetB() Vector2 {
	return s.b
}

func (s Segment2) Vector() Vector2 {
	return s.b.Sub(s.a)
}

func (s Segment2) Length() float64 {
	return s.Vector().Mag()
}

func (s Segment2) Center() Vector2 {
	return s.a.Add(s.Vector().MultScalar(0.5))
}

func (s Segment2) String() string {
	return "<Segment2(" + s.a.String() + ", " + s.b.String() + ")>"
}
