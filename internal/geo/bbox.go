package geo

import "math"

// BBox is an axis aligned bounding box in the (lat, lon) plane.
type BBox struct {
	Min Coord
	Max Coord
}

// NewBBox returns the smallest box containing a and b.
func NewBBox(a, b Coord) BBox {
	return BBox{
		Min: Coord{Lat: math.Min(a.Lat, b.Lat), Lon: math.Min(a.Lon, b.Lon)},
		Max: Coord{Lat: math.Max(a.Lat, b.Lat), Lon: math.Max(a.Lon, b.Lon)},
	}
}

// Union returns the smallest box containing both b and o.
func (b BBox) Union(o BBox) BBox {
	return BBox{
		Min: Coord{Lat: math.Min(b.Min.Lat, o.Min.Lat), Lon: math.Min(b.Min.Lon, o.Min.Lon)},
		Max: Coord{Lat: math.Max(b.Max.Lat, o.Max.Lat), Lon: math.Max(b.Max.Lon, o.Max.Lon)},
	}
}

// Extend grows the box to contain p.
func (b BBox) Extend(p Coord) BBox {
	return b.Union(BBox{Min: p, Max: p})
}

// Expand grows the box by d on all four sides.
func (b BBox) Expand(d float64) BBox {
	return BBox{
		Min: Coord{Lat: b.Min.Lat - d, Lon: b.Min.Lon - d},
		Max: Coord{Lat: b.Max.Lat + d, Lon: b.Max.Lon + d},
	}
}

// Contains reports whether p lies inside the box, borders included.
func (b BBox) Contains(p Coord) bool {
	return b.Min.Lat <= p.Lat && p.Lat <= b.Max.Lat &&
		b.Min.Lon <= p.Lon && p.Lon <= b.Max.Lon
}

// Width is the longitude extent.
func (b BBox) Width() float64 {
	return b.Max.Lon - b.Min.Lon
}

// Height is the latitude extent.
func (b BBox) Height() float64 {
	return b.Max.Lat - b.Min.Lat
}
