// internal/storage/memory/memory.go
package memory

import (
	"sync"

	"github.com/orbitsim/eclipsevis/internal/model"
)

// Config holds configuration for the memory storage backend.
type Config struct {
	OutputDir      string
	CompressOutput bool
}

// Backend stores run data in memory and exports to JSON at the end of the run
type Backend struct {
	cfg Config
	run *model.Run

	frames        []model.Frame
	eclipseEvents []model.EclipseEvent
	performances  []model.RunPerformance

	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg Config) *Backend {
	return &Backend{
		cfg: cfg,
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartRun begins recording a new run
func (b *Backend) StartRun(run *model.Run) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.run = run

	// Reset all collections
	b.frames = nil
	b.eclipseEvents = nil
	b.performances = nil
	b.lastExportPath = ""

	return nil
}

// EndRun finalizes and exports the run data
func (b *Backend) EndRun() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.run == nil {
		return nil
	}
	b.run.FrameCount = uint(len(b.frames))

	return b.exportJSON()
}

// RecordFrame records one played frame
func (b *Backend) RecordFrame(f *model.Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = append(b.frames, *f)
	return nil
}

// RecordEclipseEvent records a closed eclipse span
func (b *Backend) RecordEclipseEvent(e *model.EclipseEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.eclipseEvents = append(b.eclipseEvents, *e)
	return nil
}

// RecordPerformance records a playback performance sample
func (b *Backend) RecordPerformance(p *model.RunPerformance) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.performances = append(b.performances, *p)
	return nil
}

// FrameCount returns the number of frames recorded so far
func (b *Backend) FrameCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.frames)
}

// GetFrameByStep looks up a recorded frame by its simulation step
func (b *Backend) GetFrameByStep(step int) (*model.Frame, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i := range b.frames {
		if b.frames[i].Step == step {
			return &b.frames[i], true
		}
	}
	return nil, false
}
