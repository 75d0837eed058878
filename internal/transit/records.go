// Package transit holds the places a route can start, stop or change mode at,
// and the contracts of the services that know about them.
package transit

import (
	"time"

	"github.com/woozymasta/transitgeo/internal/geo"
)

// Kind tells which service a place belongs to.
type Kind string

const (
	KindBusStop      Kind = "bus_stop"
	KindTrainStation Kind = "train_station"
	KindBikeStation  Kind = "bike_station"
)

// BusStop is a bus stop.
type BusStop struct {
	ID       string    `yaml:"id" json:"id"`
	Name     string    `yaml:"name" json:"name"`
	Position geo.Coord `yaml:"position" json:"position"`
}

// TrainStation is a railway station.
type TrainStation struct {
	ID       string    `yaml:"id" json:"id"`
	Name     string    `yaml:"name" json:"name"`
	RegionID uint8     `yaml:"region_id" json:"region_id"`
	Position geo.Coord `yaml:"position" json:"position"`
}

// BikeStation is a bike sharing dock. Name and Bikes are optional because
// not every operator publishes them.
type BikeStation struct {
	ID       string    `yaml:"id" json:"id"`
	Name     string    `yaml:"name,omitempty" json:"name,omitempty"`
	Position geo.Coord `yaml:"position" json:"position"`
	Bikes    *bool     `yaml:"bikes,omitempty" json:"bikes,omitempty"`
}

// HasBikes reports whether bikes are available and whether that is known at all.
func (s BikeStation) HasBikes() (available, known bool) {
	if s.Bikes == nil {
		return false, false
	}
	return *s.Bikes, true
}

// TrainTrip is a scheduled train between two stations, referenced by ID.
type TrainTrip struct {
	Departure time.Time `yaml:"departure" json:"departure"`
	Arrival   time.Time `yaml:"arrival" json:"arrival"`
	// Delay is nil when the operator reports none.
	Delay *time.Duration `yaml:"delay,omitempty" json:"delay,omitempty"`

	Train string `yaml:"train,omitempty" json:"train,omitempty"`
	From  string `yaml:"from" json:"from"`
	To    string `yaml:"to" json:"to"`
}

// Duration is the scheduled travel time.
func (t TrainTrip) Duration() time.Duration {
	return t.Arrival.Sub(t.Departure)
}

// ExpectedArrival is the scheduled arrival shifted by the known delay.
func (t TrainTrip) ExpectedArrival() time.Time {
	if t.Delay == nil {
		return t.Arrival
	}
	return t.Arrival.Add(*t.Delay)
}

// StationHandle is the answer of a StationResolver.
type StationHandle struct {
	Kind     Kind      `yaml:"kind" json:"kind"`
	ID       string    `yaml:"id" json:"id"`
	Name     string    `yaml:"name,omitempty" json:"name,omitempty"`
	Position geo.Coord `yaml:"position" json:"position"`
	// Distance from the query point in kilometres.
	Distance float64 `yaml:"distance_km" json:"distance_km"`
}

func (s BusStop) handle() StationHandle {
	return StationHandle{Kind: KindBusStop, ID: s.ID, Name: s.Name, Position: s.Position}
}

func (s TrainStation) handle() StationHandle {
	return StationHandle{Kind: KindTrainStation, ID: s.ID, Name: s.Name, Position: s.Position}
}

func (s BikeStation) handle() StationHandle {
	return StationHandle{Kind: KindBikeStation, ID: s.ID, Name: s.Name, Position: s.Position}
}
