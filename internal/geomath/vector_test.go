package geomath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorArithmetic(t *testing.T) {
	a := Vector3{1, 2, 3}
	b := Vector3{4, -5, 6}

	assert.Equal(t, Vector3{5, -3, 9}, a.Add(b))
	assert.Equal(t, Vector3{-3, 7, -3}, a.Sub(b))
	assert.Equal(t, Vector3{2, 4, 6}, a.Scale(2))
	assert.Equal(t, Vector3{-1, -2, -3}, a.Neg())
	assert.InDelta(t, 12.0, a.Dot(b), 1e-12)
}

func TestCross(t *testing.T) {
	x := Vector3{1, 0, 0}
	y := Vector3{0, 1, 0}

	assert.Equal(t, Vector3{0, 0, 1}, x.Cross(y))
	assert.Equal(t, Vector3{0, 0, -1}, y.Cross(x))
	// parallel vectors cross to zero
	assert.Equal(t, Vector3{}, x.Cross(x))
}

func TestNormalize(t *testing.T) {
	v := Vector3{3, 4, 0}
	n := v.Normalize()
	assert.InDelta(t, 1.0, n.Norm(), 1e-12)
	assert.InDelta(t, 0.6, n.X, 1e-12)
	assert.InDelta(t, 0.8, n.Y, 1e-12)

	// zero vector stays zero instead of producing NaN
	assert.Equal(t, Vector3{}, Vector3{}.Normalize())
}

func TestIsFinite(t *testing.T) {
	assert.True(t, Vector3{1, 2, 3}.IsFinite())
	assert.False(t, Vector3{math.NaN(), 0, 0}.IsFinite())
	assert.False(t, Vector3{0, math.Inf(1), 0}.IsFinite())
	assert.False(t, Vector3{0, 0, math.Inf(-1)}.IsFinite())
}
