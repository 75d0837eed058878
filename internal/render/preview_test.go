package render

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xwebp "golang.org/x/image/webp"

	"github.com/woozymasta/transitgeo/internal/geo"
	"github.com/woozymasta/transitgeo/internal/network"
	"github.com/woozymasta/transitgeo/internal/transit"
)

func straightNetwork(t *testing.T) *network.Network {
	t.Helper()
	r, err := geo.RoadFromPoints("Main Street", nil, []geo.Coord{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}})
	require.NoError(t, err)
	return network.New("straight", []*geo.Road{r}, nil, nil, nil)
}

func TestPreviewGeometry(t *testing.T) {
	img, err := Preview(straightNetwork(t), Options{Size: 200, Padding: 20, Supersample: 2, RoadWidth: 3})
	require.NoError(t, err)

	assert.Equal(t, 240, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())

	onRoad := img.RGBAAt(120, 20)
	assert.Less(t, onRoad.R, background.R, "road pixel is drawn")
	assert.Equal(t, background, img.RGBAAt(120, 2), "far from the road stays blank")
	assert.Equal(t, background, img.RGBAAt(2, 20), "padding stays blank")
}

func TestPreviewSinglePlace(t *testing.T) {
	n := network.New("one", nil, []transit.BusStop{{ID: "b1", Position: geo.Coord{Lat: 48, Lon: 11}}}, nil, nil)

	img, err := Preview(n, Options{Size: 64, Supersample: 1})
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())
	assert.NotEqual(t, background, img.RGBAAt(32, 32))
}

func TestPreviewEmpty(t *testing.T) {
	_, err := Preview(network.New("", nil, nil, nil, nil), DefaultOptions)
	assert.ErrorIs(t, err, ErrEmptyNetwork)
}

func TestPreviewNonFinite(t *testing.T) {
	n := network.New("nan", nil, []transit.BusStop{{ID: "b1", Position: geo.Coord{Lat: math.NaN(), Lon: 11}}}, nil, nil)

	_, err := Preview(n, DefaultOptions)
	assert.Error(t, err)
}

func TestRoadStyle(t *testing.T) {
	bridge, err := geo.RoadFromPoints("", geo.Layer(1), []geo.Coord{{}, {Lat: 1}})
	require.NoError(t, err)
	tunnel, err := geo.RoadFromPoints("", geo.Layer(-2), []geo.Coord{{}, {Lat: 1}})
	require.NoError(t, err)
	motorway, err := geo.RoadFromPoints("", geo.Layer(1), []geo.Coord{{}, {Lat: 1}})
	require.NoError(t, err)
	motorway.ForbiddenToPedestrians = true

	assert.Equal(t, bridgeColor, roadStyle(bridge))
	assert.Equal(t, tunnelColor, roadStyle(tunnel))
	assert.Equal(t, noWalkColor, roadStyle(motorway))
}

func TestEncode(t *testing.T) {
	img, err := Preview(straightNetwork(t), Options{Size: 100, Padding: 4})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, "png", 0))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	buf.Reset()
	require.NoError(t, Encode(&buf, img, "webp", 100))
	cfg, err := xwebp.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds().Dx(), cfg.Width)
	assert.Equal(t, img.Bounds().Dy(), cfg.Height)

	assert.Error(t, Encode(&buf, img, "gif", 0))
}
