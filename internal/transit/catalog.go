package transit

import (
	"context"
	"slices"

	"github.com/woozymasta/transitgeo/internal/geo"
)

// Catalog is a static, in-memory StationResolver built from known places.
// It is read-only after construction and safe for concurrent use.
type Catalog struct {
	id     string
	name   string
	places []StationHandle
	bikes  []BikeStation
}

var _ BikeSharingProvider = (*Catalog)(nil)

// NewCatalog indexes the given places. Insertion order breaks distance ties:
// bus stops, then train stations, then bike stations.
func NewCatalog(stops []BusStop, stations []TrainStation, bikes []BikeStation) *Catalog {
	c := &Catalog{
		places: make([]StationHandle, 0, len(stops)+len(stations)+len(bikes)),
		bikes:  slices.Clone(bikes),
	}
	for _, s := range stops {
		c.places = append(c.places, s.handle())
	}
	for _, s := range stations {
		c.places = append(c.places, s.handle())
	}
	for _, s := range bikes {
		c.places = append(c.places, s.handle())
	}
	return c
}

// Named returns a copy of the catalog reporting the given identity.
func (c *Catalog) Named(id, name string) *Catalog {
	named := *c
	named.id, named.name = id, name
	return &named
}

// ID identifies the catalog operator.
func (c *Catalog) ID() string {
	return c.id
}

// Name is the catalog operator's display name.
func (c *Catalog) Name() string {
	return c.name
}

// Len is the number of indexed places.
func (c *Catalog) Len() int {
	return len(c.places)
}

// Only returns a catalog restricted to the given kinds.
func (c *Catalog) Only(kinds ...Kind) *Catalog {
	filtered := &Catalog{id: c.id, name: c.name}
	for _, p := range c.places {
		if slices.Contains(kinds, p.Kind) {
			filtered.places = append(filtered.places, p)
		}
	}
	if slices.Contains(kinds, KindBikeStation) {
		filtered.bikes = slices.Clone(c.bikes)
	}
	return filtered
}

// ResolveNearest returns the place closest to from by great-circle distance.
func (c *Catalog) ResolveNearest(ctx context.Context, from geo.Coord) (StationHandle, error) {
	if err := ctx.Err(); err != nil {
		return StationHandle{}, err
	}
	if len(c.places) == 0 {
		return StationHandle{}, ErrNoStations
	}

	best := c.places[0]
	best.Distance = from.Distance(best.Position)
	for _, p := range c.places[1:] {
		if d := from.Distance(p.Position); d < best.Distance {
			best = p
			best.Distance = d
		}
	}
	return best, nil
}

// Within returns every place at most radius kilometres from from, nearest first.
func (c *Catalog) Within(ctx context.Context, from geo.Coord, radius float64) ([]StationHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var found []StationHandle
	for _, p := range c.places {
		p.Distance = from.Distance(p.Position)
		if p.Distance <= radius {
			found = append(found, p)
		}
	}
	slices.SortStableFunc(found, func(a, b StationHandle) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		default:
			return 0
		}
	})
	return found, nil
}

// Stations lists the bike stations known to the catalog.
func (c *Catalog) Stations(ctx context.Context) ([]BikeStation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(c.bikes), nil
}
