// Package geo implements the planar geodetic geometry used to place stops,
// detect road crossings and measure progress along roads.
//
// Everything except Distance treats (lat, lon) as a flat euclidean plane.
// This holds at road-segment scale and is meaningless over large distances.
package geo

import (
	"fmt"
	"math"
)

const (
	// Tolerance is the numerical epsilon used by containment and collinearity tests.
	Tolerance = 1e-9
	// SpatialTolerance is the radius in degrees (about 50 m) within which an
	// off-road point is considered to be on a road.
	SpatialTolerance = 0.5e-3

	// EarthDiameter is the mean diameter of the earth in kilometres.
	EarthDiameter = 12742.0
)

// Coord is a geodetic position in decimal degrees.
// It doubles as a planar vector for local approximations.
type Coord struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Point is an alias of Coord used where a query position is meant.
type Point = Coord

// Add returns c + o.
func (c Coord) Add(o Coord) Coord {
	return Coord{Lat: c.Lat + o.Lat, Lon: c.Lon + o.Lon}
}

// Sub returns c - o.
func (c Coord) Sub(o Coord) Coord {
	return Coord{Lat: c.Lat - o.Lat, Lon: c.Lon - o.Lon}
}

// Mul scales both components by m.
func (c Coord) Mul(m float64) Coord {
	return Coord{Lat: c.Lat * m, Lon: c.Lon * m}
}

// Div divides both components by d.
func (c Coord) Div(d float64) Coord {
	return Coord{Lat: c.Lat / d, Lon: c.Lon / d}
}

// Norm is the planar magnitude of c.
func (c Coord) Norm() float64 {
	return math.Sqrt(c.Lat*c.Lat + c.Lon*c.Lon)
}

// Normalized returns the unit vector of c.
// The zero vector has no direction and yields NaN components.
func (c Coord) Normalized() Coord {
	return c.Div(c.Norm())
}

// Dot is the planar dot product.
func (c Coord) Dot(o Coord) float64 {
	return o.Lat*c.Lat + o.Lon*c.Lon
}

// Compare orders coordinates by longitude, then latitude.
// The order has no geometric meaning, it only makes sorting deterministic.
func (c Coord) Compare(o Coord) int {
	if c.Lon == o.Lon {
		switch {
		case c.Lat < o.Lat:
			return -1
		case c.Lat > o.Lat:
			return 1
		default:
			return 0
		}
	}
	if c.Lon < o.Lon {
		return -1
	}
	return 1
}

// Less reports whether c sorts before o.
func (c Coord) Less(o Coord) bool {
	return c.Compare(o) < 0
}

// Near reports whether c and o differ by less than Tolerance on both components.
func (c Coord) Near(o Coord) bool {
	return math.Abs(c.Lat-o.Lat) < Tolerance && math.Abs(c.Lon-o.Lon) < Tolerance
}

// IsFinite reports whether neither component is NaN or infinite.
func (c Coord) IsFinite() bool {
	return !math.IsNaN(c.Lat) && !math.IsInf(c.Lat, 0) &&
		!math.IsNaN(c.Lon) && !math.IsInf(c.Lon, 0)
}

// Distance is the haversine great-circle distance to o in kilometres.
func (c Coord) Distance(o Coord) float64 {
	const p = math.Pi / 180.0
	a := 0.5 - math.Cos((o.Lat-c.Lat)*p)/2.0 +
		math.Cos(c.Lat*p)*math.Cos(o.Lat*p)*
			(1.0-math.Cos((o.Lon-c.Lon)*p))/2.0
	return EarthDiameter * math.Asin(math.Sqrt(a))
}

// String implements fmt.Stringer.
func (c Coord) String() string {
	return fmt.Sprintf("(%.7f, %.7f)", c.Lat, c.Lon)
}
