package network

import (
	"fmt"
	"math"
	"slices"

	"github.com/woozymasta/transitgeo/internal/geo"
	"github.com/woozymasta/transitgeo/internal/transit"
)

// Mode is the way a traveller moves along roads.
type Mode int

const (
	// ModeAny accepts every road.
	ModeAny Mode = iota
	// ModeWalk skips roads forbidden to pedestrians.
	ModeWalk
	// ModeBike skips roads forbidden to bikes.
	ModeBike
)

// ParseMode accepts "any", "walk" and "bike".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "any":
		return ModeAny, nil
	case "walk":
		return ModeWalk, nil
	case "bike":
		return ModeBike, nil
	default:
		return ModeAny, fmt.Errorf("unknown mode %q", s)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeWalk:
		return "walk"
	case ModeBike:
		return "bike"
	default:
		return "any"
	}
}

func (m Mode) allows(r *geo.Road) bool {
	switch m {
	case ModeWalk:
		return r.AllowsPedestrians()
	case ModeBike:
		return r.AllowsBikes()
	default:
		return true
	}
}

// Crossing is a point where two roads of the network meet.
type Crossing struct {
	RoadA string    `yaml:"road_a" json:"road_a"`
	RoadB string    `yaml:"road_b" json:"road_b"`
	Point geo.Coord `yaml:"point" json:"point"`
}

// Crossings checks every pair of roads once. Results come in discovery order.
func (n *Network) Crossings() []Crossing {
	var crossings []Crossing
	for i, a := range n.Roads {
		for _, b := range n.Roads[i+1:] {
			for _, p := range a.Intersections(b) {
				crossings = append(crossings, Crossing{RoadA: a.Name, RoadB: b.Name, Point: p})
			}
		}
	}
	return crossings
}

// CrossingPoints returns the distinct crossing points, sorted by longitude
// then latitude.
func (n *Network) CrossingPoints() []geo.Coord {
	crossings := n.Crossings()
	points := make([]geo.Coord, 0, len(crossings))
	for _, c := range crossings {
		points = append(points, c.Point)
	}
	slices.SortFunc(points, geo.Coord.Compare)
	return slices.Compact(points)
}

// Match is the nearest point of a road to a query point.
type Match struct {
	Road *geo.Road `yaml:"-" json:"-"`
	// Distance in kilometres.
	Distance float64   `yaml:"distance_km" json:"distance_km"`
	Point    geo.Coord `yaml:"point" json:"point"`
}

// Nearest finds the road closest to p among those open to mode.
// The earliest road wins ties.
func (n *Network) Nearest(p geo.Point, mode Mode) (Match, bool) {
	best := Match{Distance: math.MaxFloat64}
	for _, r := range n.Roads {
		if !mode.allows(r) {
			continue
		}
		d, c := r.DistanceFromNearestPoint(p)
		if d < best.Distance {
			best = Match{Road: r, Distance: d, Point: c}
		}
	}
	return best, best.Road != nil
}

// Placement puts a point on its nearest road.
type Placement struct {
	Match `yaml:",inline"`

	RoadName string `yaml:"road" json:"road"`
	// Snapped is set when the point is within geo.SpatialTolerance of the road.
	Snapped bool `yaml:"snapped" json:"snapped"`
	// Forward and Backward are kilometres from the road start and end to the
	// snapped point. Both are zero when the point was not snapped.
	Forward  float64 `yaml:"forward_km" json:"forward_km"`
	Backward float64 `yaml:"backward_km" json:"backward_km"`
}

// Place matches p to its nearest road and measures progress along it.
func (n *Network) Place(p geo.Point, mode Mode) (Placement, bool) {
	m, ok := n.Nearest(p, mode)
	if !ok {
		return Placement{}, false
	}

	pl := Placement{Match: m, RoadName: m.Road.Name}
	if m.Point.Sub(p).Norm() > geo.SpatialTolerance {
		return pl, true
	}

	pl.Snapped = true
	pl.Forward, pl.Backward = progress(m.Road, m.Point)
	return pl, true
}

// StopPlacement is a bus stop placed on the network.
type StopPlacement struct {
	Stop      transit.BusStop `yaml:"stop" json:"stop"`
	Placement `yaml:",inline"`
}

// PlaceStops places every bus stop that has a road open to mode.
func (n *Network) PlaceStops(mode Mode) []StopPlacement {
	placed := make([]StopPlacement, 0, len(n.BusStops))
	for _, s := range n.BusStops {
		pl, ok := n.Place(s.Position, mode)
		if !ok {
			continue
		}
		placed = append(placed, StopPlacement{Stop: s, Placement: pl})
	}
	return placed
}

// progress measures p, which lies on r, from both ends.
// LengthFrom only handles interior points, vertices are found by walking.
func progress(r *geo.Road, p geo.Coord) (forward, backward float64) {
	segments := r.Segments()
	for _, s := range segments {
		if s.StrictlyContains(p) {
			return r.LengthFrom(p, geo.Forward), r.LengthFrom(p, geo.Backward)
		}
	}

	total := r.Length()
	walked := 0.0
	for _, s := range segments {
		if s.A.Near(p) {
			return walked, total - walked
		}
		walked += s.Length()
	}
	return total, 0
}
