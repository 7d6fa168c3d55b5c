// Package core defines the plain value types passed between the ingestion
// layer, the shadow geometry core, and the sinks. These carry no storage or
// GIS dependencies.
package core

import "github.com/orbitsim/eclipsevis/internal/geomath"

// BodyFrame holds the world-space positions of the three bodies and the
// shadow center for one simulation step. All positions are meters.
type BodyFrame struct {
	Step         int             `json:"step"`
	Sun          geomath.Vector3 `json:"sun"`
	Earth        geomath.Vector3 `json:"earth"`
	Moon         geomath.Vector3 `json:"moon"`
	ShadowCenter geomath.Vector3 `json:"shadowCenter"`
}

// ShadowParameters holds the precomputed shadow cross-section radii and the
// eclipse type code for one step. Radii are meters at Earth distance.
// Type codes: 0 = none, 1 = total (umbra), 2 = annular (antumbra),
// 3 = partial (penumbra). Any other code displays as no eclipse.
type ShadowParameters struct {
	UmbraRadius    float64 `json:"umbraRadius"`
	PenumbraRadius float64 `json:"penumbraRadius"`
	EclipseType    int     `json:"eclipseType"`
}

// FrameRecord is one merged input row: body positions plus shadow
// parameters. Derived marks rows whose shadow parameters were filled
// analytically because the eclipse log had no entry for the step.
type FrameRecord struct {
	BodyFrame
	Shadow  ShadowParameters `json:"shadow"`
	Derived bool             `json:"derived,omitempty"`
}

// RGBA is a color with components in [0,1].
type RGBA struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Polyline3D is an ordered sequence of 3D points. Ring polylines are open:
// consumers close them by connecting the last point back to the first.
type Polyline3D []geomath.Vector3

// FaceTally counts mesh faces per shading class for one frame.
type FaceTally struct {
	Lit      int
	Penumbra int
	Umbra    int
}

// FrameOutput is everything the per-frame recompute produces for one step.
// Vectors are Earth-centered. Rings may be empty when there is nothing to
// draw. FaceColors matches the mesh face ordering and is overwritten in
// place each frame, so sinks that retain colors must copy.
type FrameOutput struct {
	Step         int
	Moon         geomath.Vector3
	Sun          geomath.Vector3
	ShadowCenter geomath.Vector3
	AxisSegment  Polyline3D
	UmbraRing    Polyline3D
	PenumbraRing Polyline3D
	FaceColors   []RGBA
	Faces        FaceTally
	Params       ShadowParameters
	Label        string
	Derived      bool
}
