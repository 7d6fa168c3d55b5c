package shadow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitsim/eclipsevis/internal/geomath"
	"github.com/orbitsim/eclipsevis/internal/model/core"
)

func TestResolveFrameState(t *testing.T) {
	f := core.BodyFrame{
		Step:         7,
		Earth:        geomath.Vector3{X: 100, Y: 200, Z: 300},
		Moon:         geomath.Vector3{X: 3.8e8, Y: 200, Z: 300},
		Sun:          geomath.Vector3{X: 1.5e11, Y: 200, Z: 300},
		ShadowCenter: geomath.Vector3{X: 100 + 6.371e6, Y: 200, Z: 300},
	}

	st, err := ResolveFrameState(f)
	require.NoError(t, err)

	assert.Equal(t, geomath.Vector3{X: 3.8e8 - 100}, st.Moon)
	assert.Equal(t, geomath.Vector3{X: 1.5e11 - 100}, st.Sun)
	assert.Equal(t, geomath.Vector3{X: 6.371e6}, st.ShadowCenter)
}

func TestResolveFrameState_NonFinite(t *testing.T) {
	base := core.BodyFrame{
		Moon: geomath.Vector3{X: 3.8e8},
		Sun:  geomath.Vector3{X: 1.5e11},
	}

	tests := []struct {
		name   string
		mutate func(*core.BodyFrame)
	}{
		{"NaN earth", func(f *core.BodyFrame) { f.Earth.Y = math.NaN() }},
		{"Inf moon", func(f *core.BodyFrame) { f.Moon.Z = math.Inf(1) }},
		{"NaN sun", func(f *core.BodyFrame) { f.Sun.X = math.NaN() }},
		{"Inf shadow center", func(f *core.BodyFrame) { f.ShadowCenter.X = math.Inf(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base
			tt.mutate(&f)
			_, err := ResolveFrameState(f)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNonFinite)
		})
	}
}

func TestBuildAxis(t *testing.T) {
	moon := geomath.Vector3{X: 3.8e8}
	a := BuildAxis(moon)

	require.True(t, a.Defined())
	assert.Equal(t, geomath.Vector3{X: -1}, a.Dir)
	assert.InDelta(t, 3.8e8, a.Length, 1e-3)
}

func TestBuildAxis_Undefined(t *testing.T) {
	a := BuildAxis(geomath.Vector3{})
	assert.False(t, a.Defined())
	assert.Nil(t, a.Segment(geomath.Vector3{}, 6.371e6, 3, DefaultAxisSamples))
}

func TestAxisSegment(t *testing.T) {
	moon := geomath.Vector3{X: 3.8e8}
	const bodyRadius = 6.371e6
	const extend = 3.0

	a := BuildAxis(moon)
	seg := a.Segment(moon, bodyRadius, extend, DefaultAxisSamples)
	require.Len(t, seg, DefaultAxisSamples)

	// Starts at the Moon, ends past Earth by extend*bodyRadius.
	assert.Equal(t, moon, seg[0])
	end := seg[len(seg)-1]
	assert.InDelta(t, -extend*bodyRadius, end.X, 1.0)
	assert.InDelta(t, 0.0, end.Y, 1e-9)

	// Monotone progression along the axis direction.
	for i := 1; i < len(seg); i++ {
		assert.Less(t, seg[i].X, seg[i-1].X)
	}
}
