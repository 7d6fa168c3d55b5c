package shadow

import (
	"math"

	"github.com/orbitsim/eclipsevis/internal/geomath"
	"github.com/orbitsim/eclipsevis/internal/model/core"
)

// DefaultRingSamples is the sample count for shadow cross-section rings.
const DefaultRingSamples = 120

// ProjectCircle samples a planar circle of the given radius around center,
// lying in the plane perpendicular to axis. The axis need not be
// pre-normalized. A zero-length axis or non-positive radius yields an empty
// polyline: that is the "nothing to draw" policy, not an error.
//
// Samples are taken at strictly increasing theta uniformly over [0,2pi), so
// identical inputs reproduce identical rings point for point. Callers close
// the ring by connecting the last sample back to the first.
func ProjectCircle(center, axis geomath.Vector3, radius float64, n int) core.Polyline3D {
	norm := axis.Norm()
	if norm == 0 || radius <= 0 || n <= 0 {
		return nil
	}
	a := axis.Scale(1 / norm)

	// Reference vector for the in-plane basis: world X unless the axis is
	// nearly parallel to it, then world Y. Keeps the cross product away
	// from zero.
	ref := geomath.Vector3{X: 1}
	if math.Abs(a.X) >= 0.9 {
		ref = geomath.Vector3{Y: 1}
	}

	v1 := a.Cross(ref).Normalize()
	v2 := a.Cross(v1)

	ring := make(core.Polyline3D, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		sin, cos := math.Sincos(theta)
		ring[i] = center.Add(v1.Scale(radius * cos)).Add(v2.Scale(radius * sin))
	}
	return ring
}
