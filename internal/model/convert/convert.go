// Package convert provides functions to convert between GORM models and core types
package convert

import (
	"encoding/json"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"

	"github.com/orbitsim/eclipsevis/internal/geomath"
	"github.com/orbitsim/eclipsevis/internal/model"
	"github.com/orbitsim/eclipsevis/internal/model/core"
)

// vectorToCoordinate converts a geomath.Vector3 to an embedded model.Coordinate
func vectorToCoordinate(v geomath.Vector3) model.Coordinate {
	return model.Coordinate{X: v.X, Y: v.Y, Z: v.Z}
}

// XYToPoint converts a projected geom.XY to a geom.Point
func XYToPoint(xy geom.XY) geom.Point {
	return geom.NewPoint(geom.Coordinates{XY: xy})
}

// RingToJSON converts a ring polyline to a JSON array of [x,y,z] triples
// for DB storage.
func RingToJSON(p core.Polyline3D) datatypes.JSON {
	if len(p) == 0 {
		return datatypes.JSON("[]")
	}
	rows := make([][3]float64, 0, len(p))
	for _, pt := range p {
		rows = append(rows, [3]float64{pt.X, pt.Y, pt.Z})
	}
	data, _ := json.Marshal(rows)
	return datatypes.JSON(data)
}

// OutputToFrame converts one frame output to a GORM model.Frame.
// The ground point is left empty; callers that resolve it fill it in.
// Eclipse type codes outside 0..3 store as 0, matching how they display.
func OutputToFrame(out core.FrameOutput, now time.Time) model.Frame {
	eclipseType := out.Params.EclipseType
	if eclipseType < 0 || eclipseType > 3 {
		eclipseType = 0
	}
	return model.Frame{
		Time:           now,
		Step:           out.Step,
		Moon:           vectorToCoordinate(out.Moon),
		Sun:            vectorToCoordinate(out.Sun),
		ShadowCenter:   vectorToCoordinate(out.ShadowCenter),
		UmbraRadius:    out.Params.UmbraRadius,
		PenumbraRadius: out.Params.PenumbraRadius,
		EclipseType:    uint8(eclipseType),
		Label:          out.Label,
		Derived:        out.Derived,
		Faces: model.FaceCounts{
			Lit:      uint16(out.Faces.Lit),
			Penumbra: uint16(out.Faces.Penumbra),
			Umbra:    uint16(out.Faces.Umbra),
		},
	}
}
