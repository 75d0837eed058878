package geo

import "math"

// Segment is a directed straight edge between two coordinates.
//
// Layer tags grade separated infrastructure: a bridge on layer 1 does not
// cross the road on layer 0 below it. A nil Layer means untagged.
type Segment struct {
	A     Coord `json:"a" yaml:"a"`
	B     Coord `json:"b" yaml:"b"`
	Layer *int8 `json:"layer,omitempty" yaml:"layer,omitempty"`
}

// NewSegment returns an untagged segment from a to b.
func NewSegment(a, b Coord) Segment {
	return Segment{A: a, B: b}
}

// Layer returns a pointer to l, for use in Segment literals.
func Layer(l int8) *int8 {
	return &l
}

// WithLayer returns a copy of s on layer l.
func (s Segment) WithLayer(l int8) Segment {
	s.Layer = Layer(l)
	return s
}

// Tuple returns the endpoints as ((lat, lon), (lat, lon)).
func (s Segment) Tuple() ([2]float64, [2]float64) {
	return [2]float64{s.A.Lat, s.A.Lon}, [2]float64{s.B.Lat, s.B.Lon}
}

// BBox returns the bounding box of the segment.
func (s Segment) BBox() BBox {
	return NewBBox(s.A, s.B)
}

// Length is the haversine length of the segment in kilometres.
func (s Segment) Length() float64 {
	return s.A.Distance(s.B)
}

// Reverse returns the segment from B to A on the same layer.
func (s Segment) Reverse() Segment {
	return Segment{A: s.B, B: s.A, Layer: s.Layer}.clone()
}

// clone detaches the layer from the pointer s was built with.
func (s Segment) clone() Segment {
	if s.Layer != nil {
		s.Layer = Layer(*s.Layer)
	}
	return s
}

// Contains reports whether p lies on the segment, endpoints included.
func (s Segment) Contains(p Point) bool {
	if !s.BBox().Expand(Tolerance).Contains(p) {
		return false
	}
	a := p.Sub(s.A)
	b := s.B.Sub(s.A)
	return math.Abs(a.Lon*b.Lat-a.Lat*b.Lon) < Tolerance
}

// StrictlyContains reports whether p lies on the segment but is not one of its ends.
func (s Segment) StrictlyContains(p Point) bool {
	if p.Near(s.A) || p.Near(s.B) {
		return false
	}
	return s.Contains(p)
}

// IsContiguous reports whether the segments chain into each other or touch
// without crossing. A segment is not contiguous with itself.
func (s Segment) IsContiguous(o Segment) bool {
	if s.A == o.A && s.B == o.B {
		return false
	}
	return s.Contains(o.A) || s.Contains(o.B) || o.Contains(s.A) || o.Contains(s.B)
}

// Intersection returns the crossing point of the two segments.
//
// When s is tagged with a layer, segments on different layers only intersect
// when they are contiguous.
func (s Segment) Intersection(o Segment) (Coord, bool) {
	if s.Layer != nil && !sameLayer(s.Layer, o.Layer) && !s.IsContiguous(o) {
		return Coord{}, false
	}

	p1, p2 := s.A, s.B
	q1, q2 := o.A, o.B

	ap := p2.Lon - p1.Lon
	bp := p1.Lat - p2.Lat
	cp := -p2.Lat*ap - p2.Lon*bp

	aq := q2.Lon - q1.Lon
	bq := q1.Lat - q2.Lat
	cq := -q2.Lat*aq - q2.Lon*bq

	// parallel or collinear lines
	over := ap*bq - aq*bp
	if over == 0 {
		return Coord{}, false
	}

	ans := Coord{
		Lat: (bp*cq - bq*cp) / over,
		Lon: (aq*cp - ap*cq) / over,
	}
	if !ans.IsFinite() {
		return Coord{}, false
	}

	if s.Contains(ans) && o.Contains(ans) {
		return ans, true
	}
	return Coord{}, false
}

// DistanceFromPoint returns the distance in kilometres from p to the nearest
// point of the segment, and that point.
func (s Segment) DistanceFromPoint(p Point) (float64, Coord) {
	if s.A == s.B {
		return p.Distance(s.A), s.A
	}

	n := s.B.Sub(s.A).Normalized()
	proj := n.Mul(n.Dot(p.Sub(s.A))).Add(s.A)
	if s.Contains(proj) {
		return proj.Distance(p), proj
	}

	da := p.Distance(s.A)
	db := p.Distance(s.B)
	if da < db {
		return da, s.A
	}
	return db, s.B
}

func sameLayer(a, b *int8) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
