package convert

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitsim/eclipsevis/internal/geomath"
	"github.com/orbitsim/eclipsevis/internal/model/core"
)

func TestRingToJSON(t *testing.T) {
	ring := core.Polyline3D{
		{X: 1, Y: 2, Z: 3},
		{X: 4, Y: 5, Z: 6},
	}

	data := RingToJSON(ring)

	var rows [][3]float64
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, [3]float64{1, 2, 3}, rows[0])
	assert.Equal(t, [3]float64{4, 5, 6}, rows[1])
}

func TestRingToJSON_Empty(t *testing.T) {
	assert.Equal(t, "[]", string(RingToJSON(nil)))
}

func TestOutputToFrame(t *testing.T) {
	now := time.Now().UTC()
	out := core.FrameOutput{
		Step:         12,
		Moon:         geomath.Vector3{X: 3.8e8},
		Sun:          geomath.Vector3{X: 1.5e11},
		ShadowCenter: geomath.Vector3{Y: 2e6},
		Params: core.ShadowParameters{
			UmbraRadius:    -30000,
			PenumbraRadius: 3.6e6,
			EclipseType:    3,
		},
		Label:   "Partial eclipse (penumbra)",
		Derived: true,
		Faces:   core.FaceTally{Lit: 600, Penumbra: 120, Umbra: 21},
	}

	f := OutputToFrame(out, now)

	assert.Equal(t, 12, f.Step)
	assert.Equal(t, now, f.Time)
	assert.InDelta(t, 3.8e8, f.Moon.X, 1)
	assert.InDelta(t, 2e6, f.ShadowCenter.Y, 1)
	assert.Equal(t, uint8(3), f.EclipseType)
	assert.Equal(t, "Partial eclipse (penumbra)", f.Label)
	assert.True(t, f.Derived)
	assert.Equal(t, uint16(21), f.Faces.Umbra)
}

func TestOutputToFrame_UnknownTypeStoresAsNone(t *testing.T) {
	out := core.FrameOutput{Params: core.ShadowParameters{EclipseType: 99}}
	f := OutputToFrame(out, time.Now())
	assert.Equal(t, uint8(0), f.EclipseType)
}
