package sink

import (
	"context"
	"time"

	"github.com/orbitsim/eclipsevis/internal/influx"
	"github.com/orbitsim/eclipsevis/internal/model/convert"
	"github.com/orbitsim/eclipsevis/internal/model/core"
)

// InfluxSink forwards per-frame shadow geometry to InfluxDB (or its backup
// file when the server is unreachable).
type InfluxSink struct {
	manager *influx.Manager
	runName string
}

// NewInfluxSink creates an influx sink for the named run.
func NewInfluxSink(manager *influx.Manager, runName string) *InfluxSink {
	return &InfluxSink{
		manager: manager,
		runName: runName,
	}
}

func (s *InfluxSink) Name() string { return "influx" }

func (s *InfluxSink) Consume(out core.FrameOutput) error {
	f := convert.OutputToFrame(out, time.Now().UTC())
	point := influx.FramePoint(s.runName, &f)
	return s.manager.WritePoint(context.Background(), influx.BucketFrames, point)
}
