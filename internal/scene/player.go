package scene

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/orbitsim/eclipsevis/internal/model/core"
	"github.com/orbitsim/eclipsevis/internal/shadow"
)

// Sink consumes frame outputs. Sinks run synchronously on the playback
// goroutine, in registration order, so they may read FaceColors without
// copying for the duration of the call.
type Sink interface {
	Name() string
	Consume(out core.FrameOutput) error
}

// Player drives frames through a scene strictly sequentially and fans each
// output out to the registered sinks. Frames with non-finite coordinates
// are logged and skipped; the run never aborts on a malformed frame.
type Player struct {
	scene  *Scene
	logger *slog.Logger
	sinks  []Sink

	// Stride plays every Nth frame, matching the renderer's frame skip.
	Stride int

	processed metric.Int64Counter
	skipped   metric.Int64Counter

	processedCount atomic.Uint64
	skippedCount   atomic.Uint64
	lastNanos      atomic.Int64
}

// NewPlayer creates a player over the scene. Uses the global OTel meter
// for metrics (no-op if not configured).
func NewPlayer(s *Scene, logger *slog.Logger) (*Player, error) {
	p := &Player{
		scene:  s,
		logger: logger,
		Stride: 1,
	}

	m := meter()
	var err error

	p.processed, err = m.Int64Counter(
		"playback.frames.processed",
		metric.WithDescription("Frames recomputed and delivered to sinks"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	p.skipped, err = m.Int64Counter(
		"playback.frames.skipped",
		metric.WithDescription("Frames skipped due to malformed input"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating skipped counter: %w", err)
	}

	_, err = m.Int64ObservableGauge(
		"playback.frame.duration_ns",
		metric.WithDescription("Duration of the last frame recompute"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(p.lastNanos.Load())
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration gauge: %w", err)
	}

	return p, nil
}

// Processed returns the number of frames delivered so far. Safe to call
// from another goroutine while Run is in progress.
func (p *Player) Processed() uint64 { return p.processedCount.Load() }

// Skipped returns the number of malformed frames skipped so far.
func (p *Player) Skipped() uint64 { return p.skippedCount.Load() }

// LastFrameNanos returns the duration of the most recent frame recompute.
func (p *Player) LastFrameNanos() int64 { return p.lastNanos.Load() }

// Register adds a sink. Not safe to call while Run is in progress.
func (p *Player) Register(s Sink) {
	p.sinks = append(p.sinks, s)
}

// Run plays all records in order, honoring Stride, until the records are
// exhausted or ctx is canceled. Returns the number of frames delivered.
func (p *Player) Run(ctx context.Context, records []core.FrameRecord) (int, error) {
	stride := p.Stride
	if stride < 1 {
		stride = 1
	}

	delivered := 0
	for i := 0; i < len(records); i += stride {
		if err := ctx.Err(); err != nil {
			return delivered, err
		}

		rec := records[i]
		start := time.Now()
		out, err := p.scene.Update(rec)
		p.lastNanos.Store(time.Since(start).Nanoseconds())

		if err != nil {
			if errors.Is(err, shadow.ErrNonFinite) {
				p.skipped.Add(ctx, 1)
				p.skippedCount.Add(1)
				p.logger.Warn("Skipping malformed frame", "step", rec.Step, "error", err)
				continue
			}
			return delivered, fmt.Errorf("frame %d: %w", rec.Step, err)
		}

		p.processed.Add(ctx, 1, metric.WithAttributes(
			attribute.Int("eclipse.type", out.Params.EclipseType),
		))
		p.processedCount.Add(1)

		for _, sink := range p.sinks {
			if err := sink.Consume(out); err != nil {
				p.logger.Error("Sink failed", "sink", sink.Name(), "step", rec.Step, "error", err)
			}
		}
		delivered++
	}

	return delivered, nil
}
