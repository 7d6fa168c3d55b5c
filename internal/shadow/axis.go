package shadow

import (
	"github.com/orbitsim/eclipsevis/internal/geomath"
	"github.com/orbitsim/eclipsevis/internal/model/core"
)

// DefaultAxisSamples is the sample count for the drawable axis segment.
const DefaultAxisSamples = 60

// Axis is the Moon->Earth shadow axis for one frame. It is recomputed every
// frame from the Moon vector and never cached across frames.
type Axis struct {
	// Dir is the unit Moon->Earth direction. Zero when undefined.
	Dir geomath.Vector3
	// Length is the Earth-Moon distance in meters.
	Length float64

	defined bool
}

// BuildAxis derives the shadow axis from the Earth-centered Moon vector.
// A zero-length Moon vector leaves the axis undefined; distance-based
// classification is skipped for such frames.
func BuildAxis(moon geomath.Vector3) Axis {
	moonToEarth := moon.Neg()
	l := moonToEarth.Norm()
	if l == 0 {
		return Axis{}
	}
	return Axis{
		Dir:     moonToEarth.Scale(1 / l),
		Length:  l,
		defined: true,
	}
}

// Defined reports whether the axis direction is usable.
func (a Axis) Defined() bool {
	return a.defined
}

// Segment samples the drawable axis line from the Moon through the Earth,
// extended past it by extend times bodyRadius so the line visibly crosses
// the mesh. Returns nil for an undefined axis.
func (a Axis) Segment(moon geomath.Vector3, bodyRadius, extend float64, samples int) core.Polyline3D {
	if !a.defined || samples < 2 {
		return nil
	}
	total := a.Length + extend*bodyRadius
	seg := make(core.Polyline3D, samples)
	for i := 0; i < samples; i++ {
		t := total * float64(i) / float64(samples-1)
		seg[i] = moon.Add(a.Dir.Scale(t))
	}
	return seg
}
