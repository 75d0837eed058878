package transit

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/woozymasta/transitgeo/internal/geo"
)

// Timetable is a static TrainServiceProvider over a fixed schedule.
// It is read-only after construction and safe for concurrent use.
type Timetable struct {
	stations *Catalog
	trips    []TrainTrip
}

var _ TrainServiceProvider = (*Timetable)(nil)

// NewTimetable indexes stations and trips. Trips are ordered by departure,
// trips leaving at the same time keep their given order.
func NewTimetable(id, name string, stations []TrainStation, trips []TrainTrip) *Timetable {
	sorted := slices.Clone(trips)
	slices.SortStableFunc(sorted, func(a, b TrainTrip) int {
		return a.Departure.Compare(b.Departure)
	})

	return &Timetable{
		stations: NewCatalog(nil, stations, nil).Named(id, name),
		trips:    sorted,
	}
}

// ID identifies the operator.
func (t *Timetable) ID() string {
	return t.stations.ID()
}

// Name is the operator's display name.
func (t *Timetable) Name() string {
	return t.stations.Name()
}

// Len is the number of scheduled trips.
func (t *Timetable) Len() int {
	return len(t.trips)
}

// ResolveNearest returns the train station closest to from.
func (t *Timetable) ResolveNearest(ctx context.Context, from geo.Coord) (StationHandle, error) {
	return t.stations.ResolveNearest(ctx, from)
}

// Trip returns the first trip from one station to the other whose scheduled
// departure is not before at.
func (t *Timetable) Trip(ctx context.Context, from, to TrainStation, at time.Time) (TrainTrip, error) {
	if err := ctx.Err(); err != nil {
		return TrainTrip{}, err
	}

	for _, trip := range t.trips {
		if trip.From == from.ID && trip.To == to.ID && !trip.Departure.Before(at) {
			return trip, nil
		}
	}
	return TrainTrip{}, fmt.Errorf("%w: %s to %s after %s", ErrNoTrip, from.ID, to.ID, at.Format(time.RFC3339))
}
