// Package config handles loading of road network descriptions.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/woozymasta/transitgeo/internal/geo"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid network configuration")

// Config represents the root network file structure.
type Config struct {
	Name          string  `yaml:"name,omitempty" json:"name,omitempty"`
	Roads         []Road  `yaml:"roads" json:"roads"`
	BusStops      []Place `yaml:"bus_stops,omitempty" json:"bus_stops,omitempty"`
	TrainStations []Place `yaml:"train_stations,omitempty" json:"train_stations,omitempty"`
	BikeStations  []Place `yaml:"bike_stations,omitempty" json:"bike_stations,omitempty"`
	Trips         []Trip  `yaml:"trips,omitempty" json:"trips,omitempty"`
}

// Road is a polyline given as [lat, lon] pairs.
type Road struct {
	// applied to every segment of the road
	Layer *int8 `yaml:"layer,omitempty" json:"layer,omitempty"`

	Name                   string       `yaml:"name" json:"name"`
	Points                 [][2]float64 `yaml:"points" json:"points"`
	ForbiddenToPedestrians bool         `yaml:"forbidden_to_pedestrians,omitempty" json:"forbidden_to_pedestrians,omitempty"`
	ForbiddenToBikes       bool         `yaml:"forbidden_to_bikes,omitempty" json:"forbidden_to_bikes,omitempty"`
}

// Place is a bus stop, train station or bike station.
type Place struct {
	Bikes *bool `yaml:"bikes,omitempty" json:"bikes,omitempty"` // bike stations only

	ID       string  `yaml:"id" json:"id"`
	Name     string  `yaml:"name,omitempty" json:"name,omitempty"`
	Lat      float64 `yaml:"lat" json:"lat"`
	Lon      float64 `yaml:"lon" json:"lon"`
	RegionID uint8   `yaml:"region_id,omitempty" json:"region_id,omitempty"` // train stations only
}

// Trip is a scheduled train between two train stations, given by id.
type Trip struct {
	Departure time.Time      `yaml:"departure" json:"departure"`
	Arrival   time.Time      `yaml:"arrival" json:"arrival"`
	Delay     *time.Duration `yaml:"delay,omitempty" json:"delay,omitempty"`

	Train string `yaml:"train,omitempty" json:"train,omitempty"`
	From  string `yaml:"from" json:"from"`
	To    string `yaml:"to" json:"to"`
}

// Coords converts the road points.
func (r Road) Coords() []geo.Coord {
	coords := make([]geo.Coord, 0, len(r.Points))
	for _, p := range r.Points {
		coords = append(coords, geo.Coord{Lat: p[0], Lon: p[1]})
	}
	return coords
}

// Coord returns the place position.
func (p Place) Coord() geo.Coord {
	return geo.Coord{Lat: p.Lat, Lon: p.Lon}
}

// Load reads and parses the YAML network file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML (or JSON) network description.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks coordinates, identifiers and trip references. Road geometry is validated
// when the road is built.
func (c *Config) Validate() error {
	for i, r := range c.Roads {
		for j, p := range r.Points {
			if err := checkPosition(p[0], p[1]); err != nil {
				return fmt.Errorf("%w: road %d (%q) point %d: %v", ErrInvalid, i, r.Name, j, err)
			}
		}
	}

	groups := []struct {
		kind   string
		places []Place
	}{
		{"bus stop", c.BusStops},
		{"train station", c.TrainStations},
		{"bike station", c.BikeStations},
	}
	for _, g := range groups {
		seen := make(map[string]bool, len(g.places))
		for i, p := range g.places {
			if p.ID == "" {
				return fmt.Errorf("%w: %s %d has no id", ErrInvalid, g.kind, i)
			}
			if seen[p.ID] {
				return fmt.Errorf("%w: duplicate %s id %q", ErrInvalid, g.kind, p.ID)
			}
			seen[p.ID] = true

			if err := checkPosition(p.Lat, p.Lon); err != nil {
				return fmt.Errorf("%w: %s %q: %v", ErrInvalid, g.kind, p.ID, err)
			}
		}
	}

	stations := make(map[string]bool, len(c.TrainStations))
	for _, s := range c.TrainStations {
		stations[s.ID] = true
	}
	for i, t := range c.Trips {
		if !stations[t.From] || !stations[t.To] {
			return fmt.Errorf("%w: trip %d (%q) references unknown station %q or %q", ErrInvalid, i, t.Train, t.From, t.To)
		}
		if t.Departure.IsZero() {
			return fmt.Errorf("%w: trip %d (%q) has no departure", ErrInvalid, i, t.Train)
		}
		if t.Arrival.Before(t.Departure) {
			return fmt.Errorf("%w: trip %d (%q) has departure %v after arrival %v", ErrInvalid, i, t.Train, t.Departure, t.Arrival)
		}
	}

	return nil
}

func checkPosition(lat, lon float64) error {
	if !(geo.Coord{Lat: lat, Lon: lon}).IsFinite() {
		return fmt.Errorf("position (%v, %v) is not finite", lat, lon)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range", lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude %v out of range", lon)
	}
	return nil
}
