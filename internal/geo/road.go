package geo

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrEmptyRoad is returned when a road is built without segments.
	ErrEmptyRoad = errors.New("road must have at least one segment")
	// ErrNotContiguous is returned when a segment does not start where the previous one ends.
	ErrNotContiguous = errors.New("road segments are not contiguous")
	// ErrTooFewPoints is returned when a polyline has less than two points.
	ErrTooFewPoints = errors.New("road needs at least two points")
)

// Direction selects the end of a road a walk starts from.
type Direction int

const (
	// Forward walks from the first segment's start.
	Forward Direction = iota
	// Backward walks from the last segment's end.
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Road is a directed polyline made of contiguous segments.
// Build it with NewRoad or RoadFromPoints. The zero Road has no segments:
// its accessors return zero values and it is never reported as valid.
type Road struct {
	Name                   string
	ForbiddenToPedestrians bool
	ForbiddenToBikes       bool

	segments []Segment
}

// NewRoad validates segments and wraps them in a road.
// The segment slice is copied.
func NewRoad(name string, segments []Segment) (*Road, error) {
	if len(segments) == 0 {
		return nil, ErrEmptyRoad
	}
	for i := 1; i < len(segments); i++ {
		if !segments[i-1].B.Near(segments[i].A) {
			return nil, fmt.Errorf("%w: segment %d ends at %v, segment %d starts at %v",
				ErrNotContiguous, i-1, segments[i-1].B, i, segments[i].A)
		}
	}

	return &Road{
		Name:     name,
		segments: cloneSegments(segments),
	}, nil
}

func cloneSegments(segments []Segment) []Segment {
	out := make([]Segment, len(segments))
	for i, s := range segments {
		out[i] = s.clone()
	}
	return out
}

// RoadFromPoints builds a road through points, every segment on layer when set.
func RoadFromPoints(name string, layer *int8, points []Coord) (*Road, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(points))
	}

	segments := make([]Segment, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		segments = append(segments, Segment{A: points[i-1], B: points[i], Layer: layer})
	}
	return NewRoad(name, segments)
}

// Segments returns a copy of the road's segments.
func (r *Road) Segments() []Segment {
	return cloneSegments(r.segments)
}

// Valid reports whether the road was built with at least one segment.
func (r *Road) Valid() bool {
	return len(r.segments) > 0
}

// Layer returns a copy of the first segment's layer, nil when untagged.
func (r *Road) Layer() *int8 {
	if !r.Valid() {
		return nil
	}
	return r.segments[0].clone().Layer
}

// Points returns the polyline vertices, start to end.
func (r *Road) Points() []Coord {
	if !r.Valid() {
		return nil
	}
	points := make([]Coord, 0, len(r.segments)+1)
	points = append(points, r.segments[0].A)
	for _, s := range r.segments {
		points = append(points, s.B)
	}
	return points
}

// Start is the first segment's start.
func (r *Road) Start() Coord {
	if !r.Valid() {
		return Coord{}
	}
	return r.segments[0].A
}

// End is the last segment's end.
func (r *Road) End() Coord {
	if !r.Valid() {
		return Coord{}
	}
	return r.segments[len(r.segments)-1].B
}

// AllowsPedestrians reports whether the road can be walked.
func (r *Road) AllowsPedestrians() bool {
	return !r.ForbiddenToPedestrians
}

// AllowsBikes reports whether the road can be cycled.
func (r *Road) AllowsBikes() bool {
	return !r.ForbiddenToBikes
}

// BBox returns the bounding box of all segments.
func (r *Road) BBox() BBox {
	if !r.Valid() {
		return BBox{}
	}
	box := r.segments[0].BBox()
	for _, s := range r.segments[1:] {
		box = box.Union(s.BBox())
	}
	return box
}

// Center is the midpoint between the road's start and end.
func (r *Road) Center() Coord {
	return r.Start().Add(r.End()).Div(2.0)
}

// Length is the sum of the segment lengths in kilometres.
func (r *Road) Length() float64 {
	total := 0.0
	for _, s := range r.segments {
		total += s.Length()
	}
	return total
}

// DistanceFromNearestPoint returns the distance in kilometres from p to the
// nearest point of the road, and that point. On ties the earliest segment wins.
func (r *Road) DistanceFromNearestPoint(p Point) (float64, Coord) {
	minDist, nearest := math.MaxFloat64, Coord{}
	for _, s := range r.segments {
		d, c := s.DistanceFromPoint(p)
		if d < minDist {
			minDist, nearest = d, c
		}
	}
	return minDist, nearest
}

// LengthFrom returns the distance in kilometres along the road between the
// end selected by dir and p.
//
// p is expected to lie strictly inside one of the segments. Otherwise the
// whole road length is returned, as if p was past the far end.
func (r *Road) LengthFrom(p Point, dir Direction) float64 {
	distance := 0.0
	walk := func(s Segment, from Coord) bool {
		if s.StrictlyContains(p) {
			distance += from.Distance(p)
			return false
		}
		distance += s.Length()
		return true
	}

	if dir == Backward {
		for i := len(r.segments) - 1; i >= 0; i-- {
			if !walk(r.segments[i], r.segments[i].B) {
				break
			}
		}
		return distance
	}

	for _, s := range r.segments {
		if !walk(s, s.A) {
			break
		}
	}
	return distance
}

// Intersections returns every point where r crosses o, without duplicates,
// in discovery order.
func (r *Road) Intersections(o *Road) []Coord {
	var result []Coord
	for _, a := range r.segments {
		for _, b := range o.segments {
			p, ok := a.Intersection(b)
			if !ok || slices.Contains(result, p) {
				continue
			}
			result = append(result, p)
		}
	}
	return result
}
