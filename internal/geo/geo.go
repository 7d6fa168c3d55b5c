// Package geo maps shadow geometry onto the Earth's surface: the ground
// point under the shadow axis, its geodetic coordinates, and accumulated
// ground tracks.
//
// Coordinates are stored in EPSG:3857 (web mercator) so exported tracks
// line up with web map frontends; conversion from geographic 4326 goes
// through wgs84.
package geo

import (
	"errors"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"

	"github.com/orbitsim/eclipsevis/internal/geomath"
	"github.com/orbitsim/eclipsevis/internal/shadow"
)

// ErrNoIntersection is returned when the shadow axis misses the sphere.
var ErrNoIntersection = errors.New("shadow axis does not intersect the surface")

// GroundPoint intersects the shadow axis line through the shadow center
// with the sphere of the given radius about the Earth center (origin) and
// returns the intersection nearest the Moon side. Positions are
// Earth-centered meters.
func GroundPoint(axis shadow.Axis, shadowCenter geomath.Vector3, radius float64) (geomath.Vector3, error) {
	if !axis.Defined() || radius <= 0 {
		return geomath.Vector3{}, ErrNoIntersection
	}

	// Solve |C + t*u|^2 = r^2 for t.
	u := axis.Dir
	b := shadowCenter.Dot(u)
	c := shadowCenter.Dot(shadowCenter) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return geomath.Vector3{}, ErrNoIntersection
	}

	// The smaller root is the entry point on the Moon-facing side.
	t := -b - math.Sqrt(disc)
	return shadowCenter.Add(u.Scale(t)), nil
}

// Geodetic converts an Earth-centered point to spherical latitude and
// longitude in degrees. The simulation has no Earth rotation model, so
// longitude is measured in the inertial frame.
func Geodetic(p geomath.Vector3) (lat, lon float64) {
	r := p.Norm()
	if r == 0 {
		return 0, 0
	}
	lat = math.Asin(p.Z/r) * 180 / math.Pi
	lon = math.Atan2(p.Y, p.X) * 180 / math.Pi
	return lat, lon
}

// Mercator projects geographic coordinates (EPSG:4326) to web mercator
// (EPSG:3857).
func Mercator(lon, lat float64) geom.XY {
	f := wgs84.EPSG().Transform(4326, 3857)
	x, y, _ := f(lon, lat, 0)
	return geom.XY{X: x, Y: y}
}

// BuildTrack builds a line string from projected track points. At least
// two points are required to form a track.
func BuildTrack(points []geom.XY) (geom.LineString, error) {
	if len(points) < 2 {
		return geom.LineString{}, errors.New("ground track needs at least 2 points")
	}
	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		flat = append(flat, p.X, p.Y)
	}
	seq := geom.NewSequence(flat, geom.DimXY)
	return geom.NewLineString(seq), nil
}
