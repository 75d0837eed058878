package transit

import (
	"context"
	"errors"
	"time"

	"github.com/woozymasta/transitgeo/internal/geo"
)

var (
	// ErrNoStations is returned when a resolver has nothing to offer.
	ErrNoStations = errors.New("no stations available")
	// ErrNoTrip is returned when no trip connects two stations after the requested time.
	ErrNoTrip = errors.New("no trip found")
)

// Provider identifies the operator behind a service.
type Provider interface {
	ID() string
	Name() string
}

// StationResolver finds the station nearest to a position.
type StationResolver interface {
	ResolveNearest(ctx context.Context, from geo.Coord) (StationHandle, error)
}

// BikeSharingProvider is a bike sharing operator.
type BikeSharingProvider interface {
	Provider
	StationResolver
	Stations(ctx context.Context) ([]BikeStation, error)
}

// TrainServiceProvider is a railway operator.
type TrainServiceProvider interface {
	Provider
	StationResolver
	// Trip returns the first trip from one station to another leaving at or after at.
	Trip(ctx context.Context, from, to TrainStation, at time.Time) (TrainTrip, error)
}
