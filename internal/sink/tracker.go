package sink

import (
	"context"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/orbitsim/eclipsevis/internal/geo"
	"github.com/orbitsim/eclipsevis/internal/influx"
	"github.com/orbitsim/eclipsevis/internal/model"
	"github.com/orbitsim/eclipsevis/internal/model/convert"
	"github.com/orbitsim/eclipsevis/internal/model/core"
	"github.com/orbitsim/eclipsevis/internal/shadow"
	"github.com/orbitsim/eclipsevis/internal/storage"
)

// span is an open eclipse interval being accumulated.
type span struct {
	startStep int
	endStep   int
	typ       int
	label     string

	peakStep   int
	peakUmbra  float64
	peakPen    float64
	umbraRing  core.Polyline3D
	penRing    core.Polyline3D
	trackSteps []geom.XY
}

// EventTracker watches the eclipse type across frames and records one
// EclipseEvent per contiguous span of a non-none type, with the rings at
// the span's peak and the accumulated ground track.
type EventTracker struct {
	backend       storage.Backend
	surfaceRadius float64
	open          *span

	influx  *influx.Manager
	runName string
}

// NewEventTracker creates an event tracker sink.
func NewEventTracker(backend storage.Backend, surfaceRadius float64) *EventTracker {
	return &EventTracker{
		backend:       backend,
		surfaceRadius: surfaceRadius,
	}
}

// WithInflux also mirrors closed spans to InfluxDB. Call before playback.
func (t *EventTracker) WithInflux(m *influx.Manager, runName string) *EventTracker {
	t.influx = m
	t.runName = runName
	return t
}

func (t *EventTracker) Name() string { return "events" }

// Consume folds one frame into the open span, closing and recording it
// when the eclipse type changes.
func (t *EventTracker) Consume(out core.FrameOutput) error {
	typ := out.Params.EclipseType
	if typ < 0 || typ > 3 {
		typ = 0
	}

	if t.open != nil && t.open.typ != typ {
		if err := t.closeSpan(); err != nil {
			return err
		}
	}

	if t.open == nil {
		t.open = &span{
			startStep: out.Step,
			typ:       typ,
			label:     out.Label,
			peakStep:  out.Step,
			peakUmbra: out.Params.UmbraRadius,
			peakPen:   out.Params.PenumbraRadius,
		}
		t.open.umbraRing = clonePolyline(out.UmbraRing)
		t.open.penRing = clonePolyline(out.PenumbraRing)
	}

	s := t.open
	s.endStep = out.Step

	// The peak is the step where the umbra cross-section is widest, by
	// magnitude so antumbral spans peak too.
	if math.Abs(out.Params.UmbraRadius) >= math.Abs(s.peakUmbra) {
		s.peakStep = out.Step
		s.peakUmbra = out.Params.UmbraRadius
		s.peakPen = out.Params.PenumbraRadius
		s.umbraRing = clonePolyline(out.UmbraRing)
		s.penRing = clonePolyline(out.PenumbraRing)
	}

	if typ != 0 {
		axis := shadow.BuildAxis(out.Moon)
		if p, err := geo.GroundPoint(axis, out.ShadowCenter, t.surfaceRadius); err == nil {
			lat, lon := geo.Geodetic(p)
			s.trackSteps = append(s.trackSteps, geo.Mercator(lon, lat))
		}
	}

	return nil
}

// Finish closes the last open span. Call after playback ends.
func (t *EventTracker) Finish() error {
	if t.open == nil {
		return nil
	}
	return t.closeSpan()
}

func (t *EventTracker) closeSpan() error {
	s := t.open
	t.open = nil

	// Spans with no eclipse are gaps, not events.
	if s.typ == 0 {
		return nil
	}

	evt := model.EclipseEvent{
		StartStep:          s.startStep,
		EndStep:            s.endStep,
		EclipseType:        uint8(s.typ),
		Label:              s.label,
		PeakStep:           s.peakStep,
		PeakUmbraRadius:    s.peakUmbra,
		PeakPenumbraRadius: s.peakPen,
		UmbraRing:          convert.RingToJSON(s.umbraRing),
		PenumbraRing:       convert.RingToJSON(s.penRing),
	}

	if track, err := geo.BuildTrack(s.trackSteps); err == nil {
		evt.GroundTrack = track
	}

	if t.influx != nil {
		point := influx.EventPoint(t.runName, &evt)
		_ = t.influx.WritePoint(context.Background(), influx.BucketEvents, point)
	}

	return t.backend.RecordEclipseEvent(&evt)
}

func clonePolyline(p core.Polyline3D) core.Polyline3D {
	if len(p) == 0 {
		return nil
	}
	out := make(core.Polyline3D, len(p))
	copy(out, p)
	return out
}
