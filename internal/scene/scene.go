// Package scene owns the per-frame recompute: it threads a frame record
// through the frame resolver, the shadow axis builder, the ring projector
// and the surface shader, and hands the result to registered sinks. One
// Scene value replaces the renderer's pile of mutable drawables; there is
// no hidden shared state.
package scene

import (
	"fmt"

	"github.com/orbitsim/eclipsevis/internal/eclipse"
	"github.com/orbitsim/eclipsevis/internal/mesh"
	"github.com/orbitsim/eclipsevis/internal/model/core"
	"github.com/orbitsim/eclipsevis/internal/shadow"
)

// Config holds the tunables of a scene.
type Config struct {
	// RingSamples is the sample count per shadow ring.
	RingSamples int
	// AxisSamples is the sample count of the drawable axis segment.
	AxisSamples int
	// AxisExtend extends the axis segment past Earth by this many Earth
	// radii so the line visibly crosses the mesh.
	AxisExtend float64
	// ShadowScale exaggerates the shadow radii for visibility. 1 disables.
	ShadowScale float64
}

// DefaultConfig returns the renderer's default tunables.
func DefaultConfig() Config {
	return Config{
		RingSamples: shadow.DefaultRingSamples,
		AxisSamples: shadow.DefaultAxisSamples,
		AxisExtend:  3,
		ShadowScale: 1,
	}
}

// Scene computes one FrameOutput per input record over a fixed mesh.
// Not safe for concurrent use: one frame's update must complete before the
// next begins, and the color buffer is reused across frames.
type Scene struct {
	cfg    Config
	sphere *mesh.Sphere
	shader *shadow.Shader
	colors []core.RGBA
}

// New creates a scene over the given mesh and shader.
func New(cfg Config, sphere *mesh.Sphere, shader *shadow.Shader) *Scene {
	if cfg.RingSamples <= 0 {
		cfg.RingSamples = shadow.DefaultRingSamples
	}
	if cfg.AxisSamples <= 0 {
		cfg.AxisSamples = shadow.DefaultAxisSamples
	}
	if cfg.ShadowScale <= 0 {
		cfg.ShadowScale = 1
	}
	return &Scene{
		cfg:    cfg,
		sphere: sphere,
		shader: shader,
		colors: sphere.NewColorBuffer(),
	}
}

// FaceCount returns the mesh face count, which is also the color buffer size.
func (s *Scene) FaceCount() int {
	return s.sphere.FaceCount()
}

// Update recomputes the frame output for one record. Only non-finite input
// coordinates produce an error; every geometric degeneracy resolves to an
// empty ring or a lit-only mesh. The returned FaceColors slice aliases the
// scene's buffer and is valid until the next Update.
func (s *Scene) Update(rec core.FrameRecord) (core.FrameOutput, error) {
	st, err := shadow.ResolveFrameState(rec.BodyFrame)
	if err != nil {
		return core.FrameOutput{}, fmt.Errorf("resolving frame state: %w", err)
	}

	params := rec.Shadow
	params.UmbraRadius *= s.cfg.ShadowScale
	params.PenumbraRadius *= s.cfg.ShadowScale

	axis := shadow.BuildAxis(st.Moon)

	out := core.FrameOutput{
		Step:         rec.Step,
		Moon:         st.Moon,
		Sun:          st.Sun,
		ShadowCenter: st.ShadowCenter,
		Params:       params,
		Label:        eclipse.Label(params.EclipseType),
		Derived:      rec.Derived,
	}

	if axis.Defined() {
		out.AxisSegment = axis.Segment(st.Moon, eclipse.RadiusEarth, s.cfg.AxisExtend, s.cfg.AxisSamples)
		// Rings share the Moon->Earth axis with the cylinder test.
		moonToEarth := st.Moon.Neg()
		out.UmbraRing = shadow.ProjectCircle(st.ShadowCenter, moonToEarth, params.UmbraRadius, s.cfg.RingSamples)
		out.PenumbraRing = shadow.ProjectCircle(st.ShadowCenter, moonToEarth, params.PenumbraRadius, s.cfg.RingSamples)
	}

	out.Faces = s.shader.Shade(s.sphere.Faces(), st, axis, params, s.colors)
	out.FaceColors = s.colors

	return out, nil
}
