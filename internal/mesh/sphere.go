// Package mesh builds the structured sphere grid the surface shader colors.
// Topology is fixed at construction; only the face color buffer changes
// between frames.
package mesh

import (
	"fmt"
	"math"

	"github.com/orbitsim/eclipsevis/internal/geomath"
	"github.com/orbitsim/eclipsevis/internal/model/core"
)

// Default grid resolution, matching the drawing grid the renderer uses.
const (
	DefaultSegments = 40
	DefaultRings    = 20
)

// Face is one quad cell of the sphere grid.
type Face struct {
	// Center is the mean of the four corner vertices. It lies slightly
	// inside the sphere surface, which is fine for shading purposes.
	Center geomath.Vector3
	// Normal is the outward unit normal at the face center.
	Normal geomath.Vector3
}

// Sphere is a UV sphere centered at the origin. The grid has Segments
// longitude samples and Rings latitude samples (both inclusive of the seam
// and the poles), giving (Segments-1)*(Rings-1) quad faces.
type Sphere struct {
	Radius   float64
	Segments int
	Rings    int

	vertices []geomath.Vector3 // row-major: ring index * Segments + segment index
	faces    []Face
}

// NewSphere builds the sphere grid. Radius must be positive and the grid
// needs at least two samples per direction.
func NewSphere(radius float64, segments, rings int) (*Sphere, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("sphere radius must be positive, got %g", radius)
	}
	if segments < 2 || rings < 2 {
		return nil, fmt.Errorf("sphere grid needs at least 2x2 samples, got %dx%d", segments, rings)
	}

	s := &Sphere{
		Radius:   radius,
		Segments: segments,
		Rings:    rings,
		vertices: make([]geomath.Vector3, segments*rings),
	}

	for ri := 0; ri < rings; ri++ {
		phi := math.Pi * float64(ri) / float64(rings-1)
		sinPhi, cosPhi := math.Sincos(phi)
		for si := 0; si < segments; si++ {
			theta := 2 * math.Pi * float64(si) / float64(segments-1)
			sinTheta, cosTheta := math.Sincos(theta)
			s.vertices[ri*segments+si] = geomath.Vector3{
				X: radius * cosTheta * sinPhi,
				Y: radius * sinTheta * sinPhi,
				Z: radius * cosPhi,
			}
		}
	}

	s.faces = make([]Face, 0, (rings-1)*(segments-1))
	for ri := 0; ri < rings-1; ri++ {
		for si := 0; si < segments-1; si++ {
			i0 := ri*segments + si
			i1 := i0 + 1
			i2 := i0 + segments
			i3 := i2 + 1
			center := s.vertices[i0].
				Add(s.vertices[i1]).
				Add(s.vertices[i2]).
				Add(s.vertices[i3]).
				Scale(0.25)
			s.faces = append(s.faces, Face{
				Center: center,
				Normal: center.Normalize(),
			})
		}
	}

	return s, nil
}

// Faces returns the face slice. Callers must not mutate it.
func (s *Sphere) Faces() []Face {
	return s.faces
}

// FaceCount returns the number of quad faces.
func (s *Sphere) FaceCount() int {
	return len(s.faces)
}

// Vertex returns the grid vertex at the given ring and segment index.
func (s *Sphere) Vertex(ring, segment int) geomath.Vector3 {
	return s.vertices[ring*s.Segments+segment]
}

// NewColorBuffer allocates a face color buffer sized for this mesh.
func (s *Sphere) NewColorBuffer() []core.RGBA {
	return make([]core.RGBA, len(s.faces))
}
