// Package sink adapts frame outputs to the recording backends: the storage
// layer, the eclipse span tracker, and InfluxDB telemetry.
package sink

import (
	"time"

	"github.com/orbitsim/eclipsevis/internal/geo"
	"github.com/orbitsim/eclipsevis/internal/model/convert"
	"github.com/orbitsim/eclipsevis/internal/model/core"
	"github.com/orbitsim/eclipsevis/internal/shadow"
	"github.com/orbitsim/eclipsevis/internal/storage"
)

// StorageSink records every delivered frame into a storage backend,
// resolving the shadow ground point along the way.
type StorageSink struct {
	backend       storage.Backend
	surfaceRadius float64
}

// NewStorageSink creates a storage sink. surfaceRadius is the sphere radius
// used to intersect the shadow axis with the ground, in scene units.
func NewStorageSink(backend storage.Backend, surfaceRadius float64) *StorageSink {
	return &StorageSink{
		backend:       backend,
		surfaceRadius: surfaceRadius,
	}
}

func (s *StorageSink) Name() string { return "storage" }

// Consume converts the frame output to a DB row and records it. A shadow
// axis that misses the surface leaves the ground point empty.
func (s *StorageSink) Consume(out core.FrameOutput) error {
	f := convert.OutputToFrame(out, time.Now().UTC())

	axis := shadow.BuildAxis(out.Moon)
	if p, err := geo.GroundPoint(axis, out.ShadowCenter, s.surfaceRadius); err == nil {
		lat, lon := geo.Geodetic(p)
		f.GroundPoint = convert.XYToPoint(geo.Mercator(lon, lat))
		f.OnSurface = true
	}

	return s.backend.RecordFrame(&f)
}
