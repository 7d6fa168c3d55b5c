// Package shadow implements the per-frame eclipse shadow geometry: the
// Earth-centered frame resolution, the Moon->Earth shadow axis, the
// umbra/penumbra cross-section rings, and the surface shader that colors
// the sphere mesh.
package shadow

import (
	"errors"
	"fmt"

	"github.com/orbitsim/eclipsevis/internal/geomath"
	"github.com/orbitsim/eclipsevis/internal/model/core"
)

// ErrNonFinite is returned when an input position carries a NaN or Inf
// component. It is the only error class this package propagates: geometric
// degeneracies resolve to empty results instead.
var ErrNonFinite = errors.New("non-finite input coordinate")

// FrameState holds the Earth-centered vectors for one step.
type FrameState struct {
	// Moon is the Moon position relative to Earth.
	Moon geomath.Vector3
	// Sun is the Sun position relative to Earth.
	Sun geomath.Vector3
	// ShadowCenter is the shadow center relative to Earth.
	ShadowCenter geomath.Vector3
}

// ResolveFrameState converts the world-space body positions of a frame into
// the Earth-centered frame. It is pure and validates finiteness of every
// input vector.
func ResolveFrameState(f core.BodyFrame) (FrameState, error) {
	for _, in := range []struct {
		name string
		v    geomath.Vector3
	}{
		{"earth", f.Earth},
		{"moon", f.Moon},
		{"sun", f.Sun},
		{"shadowCenter", f.ShadowCenter},
	} {
		if !in.v.IsFinite() {
			return FrameState{}, fmt.Errorf("step %d: %s position: %w", f.Step, in.name, ErrNonFinite)
		}
	}

	return FrameState{
		Moon:         f.Moon.Sub(f.Earth),
		Sun:          f.Sun.Sub(f.Earth),
		ShadowCenter: f.ShadowCenter.Sub(f.Earth),
	}, nil
}
