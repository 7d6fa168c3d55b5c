// Package eclipse implements the analytic solar eclipse geometry: umbra and
// penumbra radii at Earth distance, the shadow center on Earth's surface,
// and the eclipse type classification.
package eclipse

import (
	"github.com/orbitsim/eclipsevis/internal/geomath"
	"github.com/orbitsim/eclipsevis/internal/model/core"
)

// Physical body radii in meters.
const (
	RadiusSun   = 6.9634e8
	RadiusEarth = 6.371e6
	RadiusMoon  = 1.7374e6
)

// Eclipse type codes as written to the eclipse log.
const (
	TypeNone    = 0
	TypeTotal   = 1
	TypeAnnular = 2
	TypePartial = 3
)

// Geometry is the analytic shadow geometry for one step.
type Geometry struct {
	// ShadowCenter is the shadow center on Earth's surface, world frame.
	ShadowCenter geomath.Vector3
	Params       core.ShadowParameters
}

// Compute derives the Moon's shadow geometry from world positions of the
// Sun, Earth and Moon using the analytic cone equations. Degenerate
// configurations (coincident bodies) yield a zero result with TypeNone.
func Compute(sun, earth, moon geomath.Vector3) Geometry {
	moonToEarth := earth.Sub(moon)
	sunToMoon := moon.Sub(sun)

	dEM := moonToEarth.Norm()
	dSM := sunToMoon.Norm()
	if dEM <= 0 || dSM <= 0 {
		return Geometry{ShadowCenter: earth}
	}

	// Cone lengths behind the Moon.
	lUmbra := (RadiusMoon * dSM) / (RadiusSun - RadiusMoon)
	lPenumbra := (RadiusMoon * dSM) / (RadiusSun + RadiusMoon)

	// Cross-section radii at Earth distance. The umbra radius goes negative
	// past the cone apex, which is the antumbra condition.
	umbraRadius := RadiusMoon * (1.0 - dEM/lUmbra)
	penumbraRadius := RadiusMoon * (1.0 + dEM/lPenumbra)

	u := moonToEarth.Normalize()
	shadowCenter := earth.Sub(u.Scale(RadiusEarth))

	eclipseType := TypeNone
	switch {
	case umbraRadius > RadiusEarth:
		eclipseType = TypeTotal
	case umbraRadius < 0 && penumbraRadius > RadiusEarth:
		eclipseType = TypeAnnular
	case penumbraRadius > 0:
		eclipseType = TypePartial
	}

	return Geometry{
		ShadowCenter: shadowCenter,
		Params: core.ShadowParameters{
			UmbraRadius:    umbraRadius,
			PenumbraRadius: penumbraRadius,
			EclipseType:    eclipseType,
		},
	}
}

// Label maps an eclipse type code to its display string. Unknown codes
// display as no eclipse.
func Label(eclipseType int) string {
	switch eclipseType {
	case TypeTotal:
		return "Total eclipse (umbra)"
	case TypeAnnular:
		return "Annular eclipse (antumbra)"
	case TypePartial:
		return "Partial eclipse (penumbra)"
	default:
		return "No eclipse"
	}
}
