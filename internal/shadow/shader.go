package shadow

import (
	"github.com/orbitsim/eclipsevis/internal/geomath"
	"github.com/orbitsim/eclipsevis/internal/mesh"
	"github.com/orbitsim/eclipsevis/internal/model/core"
)

// FaceClass is the shading category of a mesh face for one frame. Every
// face gets exactly one class per frame.
type FaceClass uint8

const (
	FaceLit FaceClass = iota
	FacePenumbra
	FaceUmbra
)

// Default shader colors, RGBA in [0,1].
var (
	DefaultBaseColor     = core.RGBA{R: 0.2, G: 0.5, B: 1.0, A: 1.0}
	DefaultUmbraColor    = core.RGBA{R: 0.05, G: 0.05, B: 0.1, A: 1.0}
	DefaultPenumbraColor = core.RGBA{R: 0.1, G: 0.2, B: 0.4, A: 1.0}
)

// Lambert term clamp bounds. The floor keeps the night side visible.
const (
	lambertFloor = 0.2
	lambertCeil  = 1.0
)

// Shader colors mesh faces by shadow class combined with Lambertian
// shading. The zero value is not usable; construct with NewShader.
type Shader struct {
	base     core.RGBA
	umbra    core.RGBA
	penumbra core.RGBA
}

// NewShader creates a shader with the given colors.
func NewShader(base, umbra, penumbra core.RGBA) *Shader {
	return &Shader{base: base, umbra: umbra, penumbra: penumbra}
}

// DefaultShader creates a shader with the default color set.
func DefaultShader() *Shader {
	return NewShader(DefaultBaseColor, DefaultUmbraColor, DefaultPenumbraColor)
}

// Classify determines the shadow class of a single point. The shadow test
// is the perpendicular distance to the infinite axis line through the
// shadow center: an infinite-cylinder test, not a finite cone. That
// approximation is intentional and downstream visuals depend on it.
// Negative radii are treated as zero. An undefined axis classifies
// everything as lit.
func Classify(p geomath.Vector3, shadowCenter geomath.Vector3, axis Axis, umbraRadius, penumbraRadius float64) FaceClass {
	if !axis.Defined() {
		return FaceLit
	}
	if umbraRadius < 0 {
		umbraRadius = 0
	}
	if penumbraRadius < 0 {
		penumbraRadius = 0
	}

	d := p.Sub(shadowCenter)
	parallel := d.Dot(axis.Dir)
	dist := d.Sub(axis.Dir.Scale(parallel)).Norm()

	switch {
	case dist <= umbraRadius:
		return FaceUmbra
	case dist <= penumbraRadius:
		return FacePenumbra
	default:
		return FaceLit
	}
}

// Shade recomputes the color of every face into dst, which must have
// exactly one entry per face, and returns the per-class tally.
// Classification is from scratch each call: no state carries over between
// frames.
//
// Lit faces get the base color scaled by the Lambert term of the face
// normal against the Sun direction; umbra and penumbra faces get their
// fixed colors regardless of lighting.
func (sh *Shader) Shade(faces []mesh.Face, st FrameState, axis Axis, params core.ShadowParameters, dst []core.RGBA) core.FaceTally {
	// Light arrives from the Sun: direction toward Earth. With the Sun at
	// the origin (degenerate) fall back to +Z like the renderer does.
	lightDir := geomath.Vector3{Z: 1}
	if st.Sun.Norm() > 0 {
		lightDir = st.Sun.Neg().Normalize()
	}

	var tally core.FaceTally
	for i, f := range faces {
		switch Classify(f.Center, st.ShadowCenter, axis, params.UmbraRadius, params.PenumbraRadius) {
		case FaceUmbra:
			tally.Umbra++
			dst[i] = sh.umbra
		case FacePenumbra:
			tally.Penumbra++
			dst[i] = sh.penumbra
		default:
			tally.Lit++
			lambert := f.Center.Normalize().Dot(lightDir)
			if lambert < lambertFloor {
				lambert = lambertFloor
			} else if lambert > lambertCeil {
				lambert = lambertCeil
			}
			dst[i] = core.RGBA{
				R: sh.base.R * lambert,
				G: sh.base.G * lambert,
				B: sh.base.B * lambert,
				A: 1.0,
			}
		}
	}
	return tally
}
