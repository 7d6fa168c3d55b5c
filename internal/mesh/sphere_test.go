package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSphere_GridShape(t *testing.T) {
	s, err := NewSphere(6.371e6, DefaultSegments, DefaultRings)
	require.NoError(t, err)

	assert.Equal(t, (DefaultSegments-1)*(DefaultRings-1), s.FaceCount())
	assert.Len(t, s.Faces(), s.FaceCount())
	assert.Len(t, s.NewColorBuffer(), s.FaceCount())
}

func TestNewSphere_FaceGeometry(t *testing.T) {
	const radius = 100.0
	s, err := NewSphere(radius, 16, 8)
	require.NoError(t, err)

	for _, f := range s.Faces() {
		// Quad centers sit near but inside the sphere surface.
		d := f.Center.Norm()
		assert.Greater(t, d, 0.8*radius)
		assert.LessOrEqual(t, d, radius+1e-9)

		// Normals are unit length and point outward.
		assert.InDelta(t, 1.0, f.Normal.Norm(), 1e-12)
		assert.Greater(t, f.Normal.Dot(f.Center), 0.0)
	}
}

func TestNewSphere_PolesAndSeam(t *testing.T) {
	const radius = 1.0
	s, err := NewSphere(radius, 9, 5)
	require.NoError(t, err)

	// First ring collapses to the +Z pole, last to the -Z pole.
	assert.InDelta(t, radius, s.Vertex(0, 0).Z, 1e-12)
	assert.InDelta(t, -radius, s.Vertex(4, 0).Z, 1e-12)

	// Seam: first and last segment samples coincide.
	first := s.Vertex(2, 0)
	last := s.Vertex(2, 8)
	assert.InDelta(t, first.X, last.X, 1e-9)
	assert.InDelta(t, first.Y, last.Y, 1e-9)
	assert.InDelta(t, first.Z, last.Z, 1e-9)
}

func TestNewSphere_Invalid(t *testing.T) {
	_, err := NewSphere(0, 10, 10)
	assert.Error(t, err)
	_, err = NewSphere(-5, 10, 10)
	assert.Error(t, err)
	_, err = NewSphere(1, 1, 10)
	assert.Error(t, err)
	_, err = NewSphere(1, 10, 0)
	assert.Error(t, err)
}
