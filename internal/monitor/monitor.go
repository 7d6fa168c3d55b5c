// Package monitor samples playback progress while a run is in flight and
// records the samples through the storage backend.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/orbitsim/eclipsevis/internal/influx"
	"github.com/orbitsim/eclipsevis/internal/model"
	"github.com/orbitsim/eclipsevis/internal/scene"
	"github.com/orbitsim/eclipsevis/internal/storage"
)

// queueReporter is implemented by backends that buffer writes.
type queueReporter interface {
	QueueLengths() (frames, events, performances int)
}

// Dependencies holds all dependencies for the monitor service. Influx and
// RunName are optional; when set, samples are mirrored to InfluxDB.
type Dependencies struct {
	Backend  storage.Backend
	Player   *scene.Player
	Logger   *slog.Logger
	Interval time.Duration
	Influx   *influx.Manager
	RunName  string
}

// Service periodically snapshots the player counters and write queue
// depths into RunPerformance rows.
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service. Interval defaults to one second.
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the monitor is running.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Sample builds one performance snapshot from the current player state.
func (s *Service) Sample() model.RunPerformance {
	var buffered int
	if qr, ok := s.deps.Backend.(queueReporter); ok {
		frames, events, perfs := qr.QueueLengths()
		buffered = frames + events + perfs
	}

	return model.RunPerformance{
		Time:                time.Now(),
		FramesBuffered:      uint16(buffered),
		FramesSkipped:       uint16(s.deps.Player.Skipped()),
		LastFrameDurationMs: float32(s.deps.Player.LastFrameNanos()) / 1e6,
	}
}

// Start starts the sampling goroutine. Calling Start on a running monitor
// is a no-op.
func (s *Service) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				perf := s.Sample()
				if err := s.deps.Backend.RecordPerformance(&perf); err != nil {
					s.deps.Logger.Error("Error recording performance sample", "error", err)
				}
				if s.deps.Influx != nil {
					point := influx.PerformancePoint(s.deps.RunName, &perf)
					_ = s.deps.Influx.WritePoint(context.Background(), influx.BucketPerformance, point)
				}
			}
		}
	}()
}

// Stop stops the monitor.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
	}
}
