// Package render draws raster previews of a network.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/woozymasta/transitgeo/internal/geo"
	"github.com/woozymasta/transitgeo/internal/network"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// ErrEmptyNetwork is returned when there is nothing to draw.
var ErrEmptyNetwork = errors.New("network has nothing to draw")

var (
	background  = color.RGBA{0xf7, 0xf5, 0xf0, 0xff}
	roadColor   = color.RGBA{0x4a, 0x4a, 0x4a, 0xff}
	bridgeColor = color.RGBA{0xe0, 0x8a, 0x1e, 0xff}
	tunnelColor = color.RGBA{0x6d, 0x8f, 0xc7, 0xff}
	noWalkColor = color.RGBA{0xc0, 0x39, 0x2b, 0xff}
	crossColor  = color.RGBA{0x8e, 0x44, 0xad, 0xff}
	busColor    = color.RGBA{0x27, 0xae, 0x60, 0xff}
	trainColor  = color.RGBA{0x2c, 0x3e, 0x50, 0xff}
	bikeColor   = color.RGBA{0x16, 0xa0, 0x85, 0xff}
)

const markerRadius = 4.0

// Options controls the preview geometry.
type Options struct {
	// Size is the length in pixels of the longest side of the drawing area.
	Size    int
	Padding int
	// Supersample renders at this multiple of the final size before scaling down.
	Supersample int
	RoadWidth   float64
	Crossings   bool
	Places      bool
}

// DefaultOptions is a sensible starting point. Zero Size, Supersample and
// RoadWidth fall back to it.
var DefaultOptions = Options{
	Size:        1024,
	Padding:     16,
	Supersample: 2,
	RoadWidth:   3,
	Crossings:   true,
	Places:      true,
}

func (o Options) withDefaults() Options {
	if o.Size <= 0 {
		o.Size = DefaultOptions.Size
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	if o.Supersample <= 0 {
		o.Supersample = DefaultOptions.Supersample
	}
	if o.RoadWidth <= 0 {
		o.RoadWidth = DefaultOptions.RoadWidth
	}
	return o
}

// projection maps (lat, lon) into pixel space, north up.
type projection struct {
	box   geo.BBox
	scale float64
	pad   float64
}

func (p projection) xy(c geo.Coord) (float64, float64) {
	return p.pad + (c.Lon-p.box.Min.Lon)*p.scale, p.pad + (p.box.Max.Lat-c.Lat)*p.scale
}

// Preview draws the network: roads coloured by layer and access, crossings
// and places as markers.
func Preview(n *network.Network, opts Options) (*image.RGBA, error) {
	opts = opts.withDefaults()

	box, ok := n.BBox()
	if !ok {
		return nil, ErrEmptyNetwork
	}
	if !box.Min.IsFinite() || !box.Max.IsFinite() {
		return nil, fmt.Errorf("network extent %v-%v is not finite", box.Min, box.Max)
	}

	if box.Width() == 0 && box.Height() == 0 {
		// a single place, give it some room
		box = box.Expand(geo.SpatialTolerance)
	}
	extent := math.Max(box.Width(), box.Height())

	s := float64(opts.Supersample)
	proj := projection{
		box:   box,
		scale: float64(opts.Size) * s / extent,
		pad:   float64(opts.Padding) * s,
	}

	width := pixels(box.Width(), extent, opts.Size) + 2*opts.Padding
	height := pixels(box.Height(), extent, opts.Size) + 2*opts.Padding
	width, height = max(width, 1), max(height, 1)

	big := image.NewRGBA(image.Rect(0, 0, width*opts.Supersample, height*opts.Supersample))
	draw.Draw(big, big.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	z := vector.NewRasterizer(big.Bounds().Dx(), big.Bounds().Dy())
	fill := func(c color.Color) {
		z.DrawOp = draw.Over
		z.Draw(big, big.Bounds(), image.NewUniform(c), image.Point{})
		z.Reset(big.Bounds().Dx(), big.Bounds().Dy())
	}

	for _, r := range n.Roads {
		for _, seg := range r.Segments() {
			x0, y0 := proj.xy(seg.A)
			x1, y1 := proj.xy(seg.B)
			thickLine(z, x0, y0, x1, y1, opts.RoadWidth*s)
		}
		fill(roadStyle(r))
	}

	if opts.Crossings {
		for _, c := range n.Crossings() {
			x, y := proj.xy(c.Point)
			square(z, x, y, markerRadius*s)
		}
		fill(crossColor)
	}

	if opts.Places {
		marker := func(c geo.Coord) {
			x, y := proj.xy(c)
			disc(z, x, y, markerRadius*s)
		}
		for _, p := range n.BusStops {
			marker(p.Position)
		}
		fill(busColor)
		for _, p := range n.TrainStations {
			marker(p.Position)
		}
		fill(trainColor)
		for _, p := range n.BikeStations {
			marker(p.Position)
		}
		fill(bikeColor)
	}

	if opts.Supersample == 1 {
		return big, nil
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(out, out.Bounds(), big, big.Bounds(), draw.Src, nil)
	return out, nil
}

// pixels scales a span so that extent maps to size, rounding up.
func pixels(span, extent float64, size int) int {
	return int(math.Ceil(span*float64(size)/extent - 1e-9))
}

func roadStyle(r *geo.Road) color.Color {
	if !r.AllowsPedestrians() {
		return noWalkColor
	}
	if layer := r.Layer(); layer != nil {
		switch {
		case *layer > 0:
			return bridgeColor
		case *layer < 0:
			return tunnelColor
		}
	}
	return roadColor
}

// thickLine adds a quad of the given width around the segment.
func thickLine(z *vector.Rasterizer, x0, y0, x1, y1, width float64) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		square(z, x0, y0, width/2)
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2

	z.MoveTo(float32(x0+nx), float32(y0+ny))
	z.LineTo(float32(x1+nx), float32(y1+ny))
	z.LineTo(float32(x1-nx), float32(y1-ny))
	z.LineTo(float32(x0-nx), float32(y0-ny))
	z.ClosePath()
}

func square(z *vector.Rasterizer, x, y, r float64) {
	z.MoveTo(float32(x-r), float32(y-r))
	z.LineTo(float32(x+r), float32(y-r))
	z.LineTo(float32(x+r), float32(y+r))
	z.LineTo(float32(x-r), float32(y+r))
	z.ClosePath()
}

func disc(z *vector.Rasterizer, x, y, r float64) {
	const steps = 16
	z.MoveTo(float32(x+r), float32(y))
	for i := 1; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / steps
		z.LineTo(float32(x+r*math.Cos(a)), float32(y+r*math.Sin(a)))
	}
	z.ClosePath()
}

// Encode writes img as "webp" or "png". WebP quality 100 means lossless.
func Encode(w io.Writer, img image.Image, format string, quality float32) error {
	switch format {
	case "webp":
		return webp.Encode(w, img, &webp.Options{
			Lossless: quality >= 100,
			Quality:  quality,
		})
	case "png":
		return png.Encode(w, img)
	default:
		return fmt.Errorf("unknown image format %q", format)
	}
}
