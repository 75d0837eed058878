package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRoad(t *testing.T, name string, points ...Coord) *Road {
	t.Helper()
	r, err := RoadFromPoints(name, nil, points)
	require.NoError(t, err)
	return r
}

func TestNewRoadValidation(t *testing.T) {
	_, err := NewRoad("empty", nil)
	assert.ErrorIs(t, err, ErrEmptyRoad)

	_, err = NewRoad("gap", []Segment{
		NewSegment(Coord{Lat: 1, Lon: 1}, Coord{Lat: 2, Lon: 2}),
		NewSegment(Coord{Lat: 3, Lon: 3}, Coord{Lat: 4, Lon: 4}),
	})
	assert.ErrorIs(t, err, ErrNotContiguous)

	_, err = RoadFromPoints("dot", nil, []Coord{{Lat: 1, Lon: 1}})
	assert.ErrorIs(t, err, ErrTooFewPoints)

	segments := []Segment{diagonal, NewSegment(diagonal.B, Coord{Lat: 5, Lon: 4})}
	r, err := NewRoad("ok", segments)
	require.NoError(t, err)

	segments[0] = NewSegment(Coord{}, Coord{})
	assert.Equal(t, diagonal, r.Segments()[0], "road owns its segments")
}

func TestRoadFromPoints(t *testing.T) {
	r, err := RoadFromPoints("bridge", Layer(1), []Coord{
		{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 1},
	})
	require.NoError(t, err)

	segments := r.Segments()
	require.Len(t, segments, 2)
	for _, s := range segments {
		require.NotNil(t, s.Layer)
		assert.Equal(t, int8(1), *s.Layer)
	}
	assert.Equal(t, []Coord{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 1}}, r.Points())
	assert.Equal(t, Coord{Lat: 0, Lon: 0}, r.Start())
	assert.Equal(t, Coord{Lat: 1, Lon: 1}, r.End())
	assert.Equal(t, BBox{Min: Coord{}, Max: Coord{Lat: 1, Lon: 1}}, r.BBox())
}

func TestRoadOwnsLayers(t *testing.T) {
	layer := Layer(0)
	ground, err := RoadFromPoints("ground", layer, []Coord{{Lat: 1, Lon: 1}, {Lat: 3, Lon: 3}})
	require.NoError(t, err)
	bridge, err := RoadFromPoints("bridge", Layer(1), []Coord{{Lat: 1, Lon: 3}, {Lat: 3, Lon: 1}})
	require.NoError(t, err)
	require.Empty(t, ground.Intersections(bridge))

	*layer = 1
	assert.Empty(t, ground.Intersections(bridge), "source pointer is not shared")

	*ground.Segments()[0].Layer = 7
	*ground.Layer() = 7
	require.NotNil(t, ground.Layer())
	assert.Equal(t, int8(0), *ground.Layer())
	assert.Empty(t, ground.Intersections(bridge))
}

func TestZeroRoad(t *testing.T) {
	var r Road

	assert.False(t, r.Valid())
	assert.NotPanics(t, func() {
		assert.Nil(t, r.Points())
		assert.Nil(t, r.Layer())
		assert.Equal(t, Coord{}, r.Center())
		assert.Equal(t, BBox{}, r.BBox())
		assert.Zero(t, r.Length())
	})
	assert.True(t, mustRoad(t, "", Coord{}, Coord{Lat: 1}).Valid())
}

func TestRoadCenterAndLength(t *testing.T) {
	r := mustRoad(t, "", Coord{Lat: 1, Lon: 1}, Coord{Lat: 4, Lon: 4}, Coord{Lat: 5, Lon: 4})

	assert.Equal(t, Coord{Lat: 3, Lon: 2.5}, r.Center())
	want := Coord{Lat: 1, Lon: 1}.Distance(Coord{Lat: 4, Lon: 4}) +
		Coord{Lat: 4, Lon: 4}.Distance(Coord{Lat: 5, Lon: 4})
	assert.InDelta(t, want, r.Length(), 1e-9)
}

func TestRoadAccess(t *testing.T) {
	r := mustRoad(t, "motorway", Coord{}, Coord{Lat: 1})
	assert.True(t, r.AllowsPedestrians())
	assert.True(t, r.AllowsBikes())

	r.ForbiddenToPedestrians = true
	r.ForbiddenToBikes = true
	assert.False(t, r.AllowsPedestrians())
	assert.False(t, r.AllowsBikes())
}

func TestDistanceFromNearestPoint(t *testing.T) {
	r := mustRoad(t, "", Coord{Lat: 0, Lon: 0}, Coord{Lat: 0, Lon: 4}, Coord{Lat: 4, Lon: 4})

	d, p := r.DistanceFromNearestPoint(Point{Lat: 2, Lon: 5})
	assertCoordInDelta(t, Coord{Lat: 2, Lon: 4}, p)
	assert.InDelta(t, Point{Lat: 2, Lon: 5}.Distance(p), d, 1e-9)

	d, p = r.DistanceFromNearestPoint(Point{Lat: -1, Lon: 1})
	assertCoordInDelta(t, Coord{Lat: 0, Lon: 1}, p)
	assert.InDelta(t, Point{Lat: -1, Lon: 1}.Distance(p), d, 1e-9)

	// the corner is nearest for both segments, the first one wins
	_, p = r.DistanceFromNearestPoint(Point{Lat: -1, Lon: 5})
	assert.Equal(t, Coord{Lat: 0, Lon: 4}, p)
}

func TestLengthFrom(t *testing.T) {
	r := mustRoad(t, "", Coord{Lat: 1, Lon: 1}, Coord{Lat: 4, Lon: 4}, Coord{Lat: 5, Lon: 4})
	p := Point{Lat: 2, Lon: 2}

	forward := r.LengthFrom(p, Forward)
	backward := r.LengthFrom(p, Backward)
	assert.Less(t, math.Abs(forward+backward-r.Length()), 0.1)

	assert.InDelta(t, Coord{Lat: 1, Lon: 1}.Distance(p), forward, 1e-9)
	want := Coord{Lat: 5, Lon: 4}.Distance(Coord{Lat: 4, Lon: 4}) + Coord{Lat: 4, Lon: 4}.Distance(p)
	assert.InDelta(t, want, backward, 1e-9)
}

func TestLengthFromSecondSegment(t *testing.T) {
	r := mustRoad(t, "", Coord{Lat: 0, Lon: 0}, Coord{Lat: 0, Lon: 0.01}, Coord{Lat: 0.01, Lon: 0.01})
	p := Point{Lat: 0.004, Lon: 0.01}

	forward := r.LengthFrom(p, Forward)
	backward := r.LengthFrom(p, Backward)
	assert.InDelta(t, r.Length(), forward+backward, 1e-6)
	assert.Greater(t, forward, backward)
}

func TestLengthFromOffRoad(t *testing.T) {
	r := mustRoad(t, "", Coord{Lat: 1, Lon: 1}, Coord{Lat: 4, Lon: 4}, Coord{Lat: 5, Lon: 4})

	// off the road and on a vertex both fall back to the whole length
	for _, p := range []Point{{Lat: 9, Lon: 0}, {Lat: 4, Lon: 4}} {
		assert.InDelta(t, r.Length(), r.LengthFrom(p, Forward), 1e-9)
		assert.InDelta(t, r.Length(), r.LengthFrom(p, Backward), 1e-9)
	}
}

func TestRoadIntersections(t *testing.T) {
	zigzag := mustRoad(t, "zigzag",
		Coord{Lat: 0, Lon: 0}, Coord{Lat: 2, Lon: 2}, Coord{Lat: 0, Lon: 4}, Coord{Lat: 2, Lon: 6})
	straight := mustRoad(t, "straight", Coord{Lat: 1, Lon: -1}, Coord{Lat: 1, Lon: 7})

	assert.Equal(t, []Coord{
		{Lat: 1, Lon: 1},
		{Lat: 1, Lon: 3},
		{Lat: 1, Lon: 5},
	}, zigzag.Intersections(straight))

	// the shared vertex is reported once
	through := mustRoad(t, "through", Coord{Lat: 2, Lon: 0}, Coord{Lat: 2, Lon: 4})
	assert.Equal(t, []Coord{{Lat: 2, Lon: 2}}, zigzag.Intersections(through))

	far := mustRoad(t, "far", Coord{Lat: 10, Lon: 10}, Coord{Lat: 11, Lon: 11})
	assert.Empty(t, zigzag.Intersections(far))
}

func TestRoadIntersectionsLayers(t *testing.T) {
	ground, err := RoadFromPoints("ground", Layer(0), []Coord{{Lat: 1, Lon: 1}, {Lat: 4, Lon: 4}})
	require.NoError(t, err)
	bridge, err := RoadFromPoints("bridge", Layer(1), []Coord{{Lat: 1, Lon: 3}, {Lat: 3, Lon: 1}})
	require.NoError(t, err)

	assert.Empty(t, ground.Intersections(bridge))
	assert.Empty(t, bridge.Intersections(ground))
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "forward", Forward.String())
	assert.Equal(t, "backward", Backward.String())
	assert.Equal(t, "Direction(7)", Direction(7).String())
}
