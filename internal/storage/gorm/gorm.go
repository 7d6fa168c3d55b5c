// Package gormstorage implements the storage.Backend interface using GORM
// with internal queues and a background DB writer goroutine.
package gormstorage

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/orbitsim/eclipsevis/internal/database"
	"github.com/orbitsim/eclipsevis/internal/model"
	"github.com/orbitsim/eclipsevis/internal/queue"
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB     *gorm.DB
	Logger *slog.Logger
}

// queues holds all the write queues for batch DB insertion.
type queues struct {
	Frames        *queue.Queue[model.Frame]
	EclipseEvents *queue.Queue[model.EclipseEvent]
	Performances  *queue.Queue[model.RunPerformance]
}

func newQueues() *queues {
	return &queues{
		Frames:        queue.New[model.Frame](),
		EclipseEvents: queue.New[model.EclipseEvent](),
		Performances:  queue.New[model.RunPerformance](),
	}
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
type Backend struct {
	deps     Dependencies
	manager  *database.Manager
	queues   *queues
	runID    atomic.Uint64
	frames   atomic.Uint64
	stopChan chan struct{}
	dbReady  bool
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{
		deps: deps,
	}
}

// Init creates internal queues, runs schema migration, and starts the DB writer goroutine.
// If no DB was injected via Dependencies, it connects through the database
// manager, which falls back to in-memory SQLite when Postgres is down.
func (b *Backend) Init() error {
	b.queues = newQueues()
	b.stopChan = make(chan struct{})

	if b.deps.DB == nil {
		b.manager = database.NewManager(zerolog.New(os.Stdout).With().Timestamp().Logger())
		if err := b.manager.Connect(); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := b.manager.Setup(); err != nil {
			return fmt.Errorf("failed to setup DB: %w", err)
		}
		if b.manager.ShouldSaveLocal {
			b.manager.SqliteFilePath = viper.GetString("storage.sqlite.dumpPath")
			b.deps.Logger.Warn("Postgres unavailable, recording to in-memory SQLite",
				"dumpPath", b.manager.SqliteFilePath)
		}
		b.deps.DB = b.manager.DB
	} else if err := b.setupDB(); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	b.dbReady = true

	b.startDBWriter()
	return nil
}

// setupDB migrates tables.
func (b *Backend) setupDB() error {
	db := b.deps.DB
	log := b.deps.Logger

	if db.Name() == "postgres" {
		if err := db.Exec(`CREATE Extension IF NOT EXISTS postgis;`).Error; err != nil {
			return fmt.Errorf("failed to create PostGIS Extension: %w", err)
		}
		log.Info("PostGIS Extension created")
	}

	log.Info("Migrating schema")
	if err := db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.Info("Database setup complete")
	return nil
}

// Close flushes pending writes and stops the DB writer goroutine. When the
// run was recorded to the in-memory fallback, the database is saved to disk.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
	}
	b.flush()

	if b.manager != nil && b.manager.ShouldSaveLocal {
		if err := b.manager.DumpMemoryToDisk(); err != nil {
			return fmt.Errorf("saving fallback database: %w", err)
		}
	}
	return nil
}

// StartRun inserts the run synchronously so queued rows can be stamped
// with its DB-assigned ID.
func (b *Backend) StartRun(run *model.Run) error {
	if b.deps.DB == nil {
		return nil
	}

	if err := b.deps.DB.Create(run).Error; err != nil {
		return fmt.Errorf("failed to insert new run: %w", err)
	}

	b.runID.Store(uint64(run.ID))
	b.frames.Store(0)
	return nil
}

// SetRunID sets the current run ID for the DB writer (used by CLI tools).
func (b *Backend) SetRunID(id uint) {
	b.runID.Store(uint64(id))
}

// EndRun flushes the queues and records the final frame count on the run.
func (b *Backend) EndRun() error {
	b.flush()

	if b.deps.DB == nil {
		return nil
	}
	return b.deps.DB.Model(&model.Run{}).
		Where("id = ?", uint(b.runID.Load())).
		Update("frame_count", uint(b.frames.Load())).Error
}

// RecordFrame queues a frame row for batch insertion.
func (b *Backend) RecordFrame(f *model.Frame) error {
	b.frames.Add(1)
	b.queues.Frames.Push(*f)
	return nil
}

// RecordEclipseEvent queues an eclipse event span.
func (b *Backend) RecordEclipseEvent(e *model.EclipseEvent) error {
	b.queues.EclipseEvents.Push(*e)
	return nil
}

// RecordPerformance queues a playback performance sample.
func (b *Backend) RecordPerformance(p *model.RunPerformance) error {
	b.queues.Performances.Push(*p)
	return nil
}

// QueueLengths reports the current write queue depths.
func (b *Backend) QueueLengths() (frames, events, performances int) {
	return b.queues.Frames.Len(), b.queues.EclipseEvents.Len(), b.queues.Performances.Len()
}

// writeQueue writes all items from a queue to the database in a transaction.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log *slog.Logger, prepare func([]T)) {
	if q.Empty() {
		return
	}

	tx := db.Begin()
	items := q.GetAndEmpty()
	if prepare != nil {
		prepare(items)
	}
	if err := tx.Create(&items).Error; err != nil {
		log.Error("DB writer insert failed", "queue", name, "error", err)
		tx.Rollback()
		q.Push(items...)
		return
	}

	tx.Commit()
}

// flush drains all queues once.
func (b *Backend) flush() {
	if b.deps.DB == nil || !b.dbReady {
		return
	}

	runID := uint(b.runID.Load())

	stampFrames := func(items []model.Frame) {
		for i := range items {
			items[i].RunID = runID
		}
	}
	stampEvents := func(items []model.EclipseEvent) {
		for i := range items {
			items[i].RunID = runID
		}
	}
	stampPerformances := func(items []model.RunPerformance) {
		for i := range items {
			items[i].RunID = runID
		}
	}

	writeQueue(b.deps.DB, b.queues.Frames, "frames", b.deps.Logger, stampFrames)
	writeQueue(b.deps.DB, b.queues.EclipseEvents, "eclipse events", b.deps.Logger, stampEvents)
	writeQueue(b.deps.DB, b.queues.Performances, "run performances", b.deps.Logger, stampPerformances)
}

// startDBWriter starts the background goroutine that periodically drains queues into the DB.
func (b *Backend) startDBWriter() {
	go func() {
		for {
			select {
			case <-b.stopChan:
				return
			default:
			}

			if !b.dbReady {
				time.Sleep(1 * time.Second)
				continue
			}

			b.flush()
			time.Sleep(2 * time.Second)
		}
	}()
}
