package shadow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitsim/eclipsevis/internal/geomath"
	"github.com/orbitsim/eclipsevis/internal/mesh"
	"github.com/orbitsim/eclipsevis/internal/model/core"
)

const earthRadius = 6.371e6

func testState() FrameState {
	return FrameState{
		Moon:         geomath.Vector3{X: 3.8e8},
		Sun:          geomath.Vector3{X: 1.5e11},
		ShadowCenter: geomath.Vector3{},
	}
}

func testSphere(t *testing.T) *mesh.Sphere {
	t.Helper()
	s, err := mesh.NewSphere(earthRadius, 24, 12)
	require.NoError(t, err)
	return s
}

func shadeAll(sh *Shader, s *mesh.Sphere, st FrameState, axis Axis, params core.ShadowParameters) []core.RGBA {
	dst := s.NewColorBuffer()
	sh.Shade(s.Faces(), st, axis, params, dst)
	return dst
}

func countColors(colors []core.RGBA) (umbra, penumbra, lit int) {
	for _, c := range colors {
		switch c {
		case DefaultUmbraColor:
			umbra++
		case DefaultPenumbraColor:
			penumbra++
		default:
			lit++
		}
	}
	return
}

func TestClassify_ZeroDistanceIsUmbra(t *testing.T) {
	st := testState()
	axis := BuildAxis(st.Moon)

	// A point exactly on the axis through the shadow center.
	p := st.ShadowCenter.Add(axis.Dir.Scale(1234.5))
	cls := Classify(p, st.ShadowCenter, axis, 1, 10)
	assert.Equal(t, FaceUmbra, cls)
}

func TestClassify_BoundariesAndClamping(t *testing.T) {
	st := testState()
	axis := BuildAxis(st.Moon)

	// Axis is -X; perpendicular offset along Y.
	at := func(dist float64) geomath.Vector3 {
		return st.ShadowCenter.Add(geomath.Vector3{Y: dist})
	}

	assert.Equal(t, FaceUmbra, Classify(at(2000), st.ShadowCenter, axis, 2000, 5000))
	assert.Equal(t, FacePenumbra, Classify(at(2001), st.ShadowCenter, axis, 2000, 5000))
	assert.Equal(t, FacePenumbra, Classify(at(5000), st.ShadowCenter, axis, 2000, 5000))
	assert.Equal(t, FaceLit, Classify(at(5001), st.ShadowCenter, axis, 2000, 5000))

	// Negative radii clamp to zero silently instead of failing.
	assert.Equal(t, FaceLit, Classify(at(1), st.ShadowCenter, axis, -2000, -5000))
	assert.Equal(t, FaceUmbra, Classify(at(0), st.ShadowCenter, axis, 0.5, -5000))
}

func TestClassify_UndefinedAxisIsLit(t *testing.T) {
	st := testState()
	p := st.ShadowCenter
	assert.Equal(t, FaceLit, Classify(p, st.ShadowCenter, Axis{}, 1e9, 1e9))
}

func TestShade_ScenarioNoEclipse(t *testing.T) {
	s := testSphere(t)
	st := testState()
	axis := BuildAxis(st.Moon)

	colors := shadeAll(DefaultShader(), s, st, axis, core.ShadowParameters{})
	umbra, penumbra, lit := countColors(colors)
	assert.Zero(t, umbra)
	assert.Zero(t, penumbra)
	assert.Equal(t, s.FaceCount(), lit)

	// Every lit face carries full alpha and base-hued color.
	for _, c := range colors {
		assert.Equal(t, 1.0, c.A)
		assert.GreaterOrEqual(t, c.R, DefaultBaseColor.R*0.2-1e-12)
		assert.LessOrEqual(t, c.R, DefaultBaseColor.R+1e-12)
	}
}

func TestShade_ScenarioTotalEclipse(t *testing.T) {
	s := testSphere(t)
	st := testState() // shadow center at origin, axis along -X
	axis := BuildAxis(st.Moon)
	params := core.ShadowParameters{UmbraRadius: 2000, PenumbraRadius: 5000, EclipseType: 1}

	colors := shadeAll(DefaultShader(), s, st, axis, params)

	for i, f := range s.Faces() {
		d := f.Center.Sub(st.ShadowCenter)
		perp := d.Sub(axis.Dir.Scale(d.Dot(axis.Dir))).Norm()
		switch {
		case perp <= 2000:
			assert.Equal(t, DefaultUmbraColor, colors[i], "face %d at perp %g", i, perp)
		case perp <= 5000:
			assert.Equal(t, DefaultPenumbraColor, colors[i], "face %d at perp %g", i, perp)
		default:
			assert.NotEqual(t, DefaultUmbraColor, colors[i])
			assert.NotEqual(t, DefaultPenumbraColor, colors[i])
		}
	}
}

func TestShade_Idempotent(t *testing.T) {
	s := testSphere(t)
	st := testState()
	axis := BuildAxis(st.Moon)
	params := core.ShadowParameters{UmbraRadius: 1e6, PenumbraRadius: 3e6}

	a := shadeAll(DefaultShader(), s, st, axis, params)
	b := shadeAll(DefaultShader(), s, st, axis, params)
	assert.Equal(t, a, b)
}

func TestShade_PenumbraMonotoneInRadius(t *testing.T) {
	s := testSphere(t)
	st := testState()
	axis := BuildAxis(st.Moon)

	inPenumbraSet := func(rp float64) map[int]bool {
		colors := shadeAll(DefaultShader(), s, st, axis, core.ShadowParameters{
			UmbraRadius:    1e5,
			PenumbraRadius: rp,
		})
		set := make(map[int]bool)
		for i, c := range colors {
			if c == DefaultPenumbraColor {
				set[i] = true
			}
		}
		return set
	}

	prev := inPenumbraSet(5e5)
	for _, rp := range []float64{1e6, 2e6, 4e6, 8e6} {
		cur := inPenumbraSet(rp)
		for i := range prev {
			assert.True(t, cur[i], "face %d left the penumbra set when rp grew to %g", i, rp)
		}
		prev = cur
	}
}

func TestShade_UndefinedAxisLitOnly(t *testing.T) {
	s := testSphere(t)
	st := FrameState{Sun: geomath.Vector3{X: 1.5e11}}

	colors := shadeAll(DefaultShader(), s, st, Axis{}, core.ShadowParameters{
		UmbraRadius:    1e9,
		PenumbraRadius: 1e9,
	})
	umbra, penumbra, lit := countColors(colors)
	assert.Zero(t, umbra)
	assert.Zero(t, penumbra)
	assert.Equal(t, s.FaceCount(), lit)
}

func TestShade_LambertGradient(t *testing.T) {
	s := testSphere(t)
	st := testState()
	axis := BuildAxis(st.Moon)

	colors := shadeAll(DefaultShader(), s, st, axis, core.ShadowParameters{})

	// Sun is on +X, so light comes from +X toward Earth: faces on the -X
	// side of the sphere face the light and shade brighter than +X faces.
	var brightest, darkest float64 = 0, 2
	for i := range s.Faces() {
		if colors[i].R > brightest {
			brightest = colors[i].R
		}
		if colors[i].R < darkest {
			darkest = colors[i].R
		}
	}
	assert.InDelta(t, DefaultBaseColor.R*1.0, brightest, 0.02)
	assert.InDelta(t, DefaultBaseColor.R*0.2, darkest, 1e-9)
}
