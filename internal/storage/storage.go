// internal/storage/storage.go
package storage

import "github.com/orbitsim/eclipsevis/internal/model"

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Run management
	StartRun(run *model.Run) error
	EndRun() error

	// Frame recording
	RecordFrame(f *model.Frame) error

	// Event recording
	RecordEclipseEvent(e *model.EclipseEvent) error
	RecordPerformance(p *model.RunPerformance) error
}

// Exportable is an optional interface for storage backends that produce
// a replayable file at the end of a run.
type Exportable interface {
	GetExportedFilePath() string
}
