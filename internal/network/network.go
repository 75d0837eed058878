// Package network assembles roads and transit places into a queryable network.
package network

import (
	"fmt"

	"github.com/woozymasta/transitgeo/internal/config"
	"github.com/woozymasta/transitgeo/internal/geo"
	"github.com/woozymasta/transitgeo/internal/transit"

	"github.com/rs/zerolog/log"
)

// Network is an immutable set of roads and places.
type Network struct {
	Name          string
	Roads         []*geo.Road
	BusStops      []transit.BusStop
	TrainStations []transit.TrainStation
	BikeStations  []transit.BikeStation

	catalog   *transit.Catalog
	timetable *transit.Timetable
}

// New builds a network from already constructed parts.
func New(name string, roads []*geo.Road, stops []transit.BusStop, stations []transit.TrainStation, bikes []transit.BikeStation) *Network {
	return &Network{
		Name:          name,
		Roads:         roads,
		BusStops:      stops,
		TrainStations: stations,
		BikeStations:  bikes,
		catalog:       transit.NewCatalog(stops, stations, bikes).Named(name, name),
		timetable:     transit.NewTimetable(name, name, stations, nil),
	}
}

// FromConfig builds the network described by cfg.
// Roads that fail validation are skipped with a warning, or abort the whole
// build when strict is set.
func FromConfig(cfg *config.Config, strict bool) (*Network, error) {
	log.Debug().
		Str("network", cfg.Name).
		Int("config_roads_count", len(cfg.Roads)).
		Msg("Building network")

	roads := make([]*geo.Road, 0, len(cfg.Roads))
	for i, rc := range cfg.Roads {
		road, err := geo.RoadFromPoints(rc.Name, rc.Layer, rc.Coords())
		if err != nil {
			if strict {
				return nil, fmt.Errorf("road %d (%q): %w", i, rc.Name, err)
			}
			log.Warn().
				Err(err).
				Int("index", i).
				Str("road", rc.Name).
				Msg("Skipping invalid road")
			continue
		}
		road.ForbiddenToPedestrians = rc.ForbiddenToPedestrians
		road.ForbiddenToBikes = rc.ForbiddenToBikes

		log.Trace().
			Str("road", road.Name).
			Int("segments", len(rc.Points)-1).
			Float64("length_km", road.Length()).
			Msg("Road added")

		roads = append(roads, road)
	}

	stops := make([]transit.BusStop, 0, len(cfg.BusStops))
	for _, p := range cfg.BusStops {
		stops = append(stops, transit.BusStop{ID: p.ID, Name: p.Name, Position: p.Coord()})
	}
	stations := make([]transit.TrainStation, 0, len(cfg.TrainStations))
	for _, p := range cfg.TrainStations {
		stations = append(stations, transit.TrainStation{ID: p.ID, Name: p.Name, RegionID: p.RegionID, Position: p.Coord()})
	}
	bikes := make([]transit.BikeStation, 0, len(cfg.BikeStations))
	for _, p := range cfg.BikeStations {
		bikes = append(bikes, transit.BikeStation{ID: p.ID, Name: p.Name, Position: p.Coord(), Bikes: p.Bikes})
	}

	n := New(cfg.Name, roads, stops, stations, bikes)

	trips := make([]transit.TrainTrip, 0, len(cfg.Trips))
	for _, t := range cfg.Trips {
		trips = append(trips, transit.TrainTrip{
			Train:     t.Train,
			From:      t.From,
			To:        t.To,
			Departure: t.Departure,
			Arrival:   t.Arrival,
			Delay:     t.Delay,
		})
	}
	n.timetable = transit.NewTimetable(cfg.Name, cfg.Name, stations, trips)

	log.Info().
		Str("network", n.Name).
		Int("roads", len(n.Roads)).
		Int("places", n.catalog.Len()).
		Int("trips", n.timetable.Len()).
		Msg("Network built")

	return n, nil
}

// Catalog returns a resolver over every place of the network.
func (n *Network) Catalog() *transit.Catalog {
	return n.catalog
}

// Timetable returns the train service of the network.
func (n *Network) Timetable() *transit.Timetable {
	return n.timetable
}

// TrainStation returns the train station with the given id.
func (n *Network) TrainStation(id string) (transit.TrainStation, bool) {
	for _, s := range n.TrainStations {
		if s.ID == id {
			return s, true
		}
	}
	return transit.TrainStation{}, false
}

// Road returns the first road called name.
func (n *Network) Road(name string) (*geo.Road, bool) {
	for _, r := range n.Roads {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// Limit returns a network restricted to the named roads, in the given order.
// Unknown and repeated names are ignored. Places are kept.
func (n *Network) Limit(names []string) *Network {
	if len(names) == 0 {
		return n
	}

	roads := make([]*geo.Road, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		r, ok := n.Road(name)
		if !ok {
			log.Error().
				Str("road", name).
				Msg("Road not found in network")
			continue
		}
		roads = append(roads, r)
	}

	limited := *n
	limited.Roads = roads
	return &limited
}

// BBox returns the bounding box of all roads and places.
// It reports false for an empty network.
func (n *Network) BBox() (geo.BBox, bool) {
	var (
		box geo.BBox
		set bool
	)
	extend := func(b geo.BBox) {
		if !set {
			box, set = b, true
			return
		}
		box = box.Union(b)
	}

	for _, r := range n.Roads {
		extend(r.BBox())
	}
	for _, s := range n.BusStops {
		extend(geo.NewBBox(s.Position, s.Position))
	}
	for _, s := range n.TrainStations {
		extend(geo.NewBBox(s.Position, s.Position))
	}
	for _, s := range n.BikeStations {
		extend(geo.NewBBox(s.Position, s.Position))
	}
	return box, set
}

// Length is the total length of all roads in kilometres.
func (n *Network) Length() float64 {
	total := 0.0
	for _, r := range n.Roads {
		total += r.Length()
	}
	return total
}
