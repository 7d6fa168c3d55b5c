package geo

import (
	"testing"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitsim/eclipsevis/internal/geomath"
	"github.com/orbitsim/eclipsevis/internal/shadow"
)

const earthRadius = 6.371e6

func TestGroundPoint_AxisThroughCenter(t *testing.T) {
	// Moon on +X: the axis points -X and enters the sphere at +X.
	axis := shadow.BuildAxis(geomath.Vector3{X: 3.8e8})
	center := geomath.Vector3{X: 2 * earthRadius}

	p, err := GroundPoint(axis, center, earthRadius)
	require.NoError(t, err)
	assert.InDelta(t, earthRadius, p.X, 1e-3)
	assert.InDelta(t, 0.0, p.Y, 1e-9)
	assert.InDelta(t, 0.0, p.Z, 1e-9)
}

func TestGroundPoint_OffsetAxis(t *testing.T) {
	axis := shadow.BuildAxis(geomath.Vector3{X: 3.8e8})
	center := geomath.Vector3{X: 2 * earthRadius, Y: earthRadius / 2}

	p, err := GroundPoint(axis, center, earthRadius)
	require.NoError(t, err)
	// Point lies on the sphere and keeps the axis offset.
	assert.InDelta(t, earthRadius, p.Norm(), 1e-3)
	assert.InDelta(t, earthRadius/2, p.Y, 1e-3)
	assert.Greater(t, p.X, 0.0)
}

func TestGroundPoint_Miss(t *testing.T) {
	axis := shadow.BuildAxis(geomath.Vector3{X: 3.8e8})
	center := geomath.Vector3{X: 0, Y: 2 * earthRadius}

	_, err := GroundPoint(axis, center, earthRadius)
	assert.ErrorIs(t, err, ErrNoIntersection)
}

func TestGroundPoint_UndefinedAxis(t *testing.T) {
	_, err := GroundPoint(shadow.Axis{}, geomath.Vector3{}, earthRadius)
	assert.ErrorIs(t, err, ErrNoIntersection)
}

func TestGeodetic(t *testing.T) {
	lat, lon := Geodetic(geomath.Vector3{X: earthRadius})
	assert.InDelta(t, 0.0, lat, 1e-9)
	assert.InDelta(t, 0.0, lon, 1e-9)

	lat, lon = Geodetic(geomath.Vector3{Z: earthRadius})
	assert.InDelta(t, 90.0, lat, 1e-9)

	lat, lon = Geodetic(geomath.Vector3{Y: earthRadius})
	assert.InDelta(t, 0.0, lat, 1e-9)
	assert.InDelta(t, 90.0, lon, 1e-9)

	// Degenerate origin maps to (0,0) instead of NaN.
	lat, lon = Geodetic(geomath.Vector3{})
	assert.Zero(t, lat)
	assert.Zero(t, lon)
}

func TestMercator(t *testing.T) {
	p := Mercator(0, 0)
	assert.InDelta(t, 0.0, p.X, 1e-6)
	assert.InDelta(t, 0.0, p.Y, 1e-6)

	// Longitude maps linearly in web mercator.
	p = Mercator(180, 0)
	assert.InDelta(t, 2.0037508342789244e7, p.X, 1.0)
}

func TestBuildTrack(t *testing.T) {
	_, err := BuildTrack(nil)
	assert.Error(t, err)
	_, err = BuildTrack([]geom.XY{{X: 1, Y: 2}})
	assert.Error(t, err)

	ls, err := BuildTrack([]geom.XY{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}})
	require.NoError(t, err)
	assert.Equal(t, 3, ls.Coordinates().Length())
}
