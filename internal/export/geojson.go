// Package export renders networks as GeoJSON.
package export

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/woozymasta/transitgeo/internal/geo"
	"github.com/woozymasta/transitgeo/internal/network"
	"github.com/woozymasta/transitgeo/internal/transit"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	mjson "github.com/tdewolff/minify/v2/json"
)

const mediaType = "application/json"

// Options selects the feature groups written to the collection.
type Options struct {
	Roads     bool
	Places    bool
	Crossings bool
}

// All enables every feature group.
var All = Options{Roads: true, Places: true, Crossings: true}

// point converts to GeoJSON axis order, [lon, lat].
func point(c geo.Coord) orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// LineString converts a road to its GeoJSON geometry.
func LineString(r *geo.Road) orb.LineString {
	points := r.Points()
	ls := make(orb.LineString, 0, len(points))
	for _, p := range points {
		ls = append(ls, point(p))
	}
	return ls
}

// FeatureCollection renders n as a GeoJSON feature collection.
func FeatureCollection(n *network.Network, opts Options) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if opts.Roads {
		for _, r := range n.Roads {
			f := geojson.NewFeature(LineString(r))
			f.Properties["kind"] = "road"
			f.Properties["name"] = r.Name
			f.Properties["length_km"] = r.Length()
			f.Properties["pedestrians"] = r.AllowsPedestrians()
			f.Properties["bikes"] = r.AllowsBikes()
			if layer := r.Layer(); layer != nil {
				f.Properties["layer"] = int(*layer)
			}
			fc.Append(f)
		}
	}

	if opts.Places {
		for _, s := range n.BusStops {
			fc.Append(placeFeature(transit.KindBusStop, s.ID, s.Name, s.Position))
		}
		for _, s := range n.TrainStations {
			f := placeFeature(transit.KindTrainStation, s.ID, s.Name, s.Position)
			f.Properties["region_id"] = int(s.RegionID)
			fc.Append(f)
		}
		for _, s := range n.BikeStations {
			f := placeFeature(transit.KindBikeStation, s.ID, s.Name, s.Position)
			if available, known := s.HasBikes(); known {
				f.Properties["bikes"] = available
			}
			fc.Append(f)
		}
	}

	if opts.Crossings {
		for _, c := range n.Crossings() {
			f := geojson.NewFeature(point(c.Point))
			f.Properties["kind"] = "crossing"
			f.Properties["roads"] = []string{c.RoadA, c.RoadB}
			fc.Append(f)
		}
	}

	return fc
}

func placeFeature(kind transit.Kind, id, name string, pos geo.Coord) *geojson.Feature {
	f := geojson.NewFeature(point(pos))
	f.ID = id
	f.Properties["kind"] = string(kind)
	if name != "" {
		f.Properties["name"] = name
	}
	return f
}

// Marshal encodes the collection, minified when requested.
func Marshal(fc *geojson.FeatureCollection, minified bool) ([]byte, error) {
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, err
	}
	if !minified {
		return data, nil
	}
	return Minify(data)
}

// JSON encodes any value as indented JSON, minified when requested.
func JSON(v any, minified bool) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil || !minified {
		return data, err
	}
	return Minify(data)
}

// Minify strips insignificant whitespace from a JSON document.
func Minify(data []byte) ([]byte, error) {
	m := minify.New()
	m.AddFunc(mediaType, mjson.Minify)
	return m.Bytes(mediaType, data)
}

// Save writes data to path, creating parent directories.
func Save(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	_, err = f.Write(data)
	return err
}
