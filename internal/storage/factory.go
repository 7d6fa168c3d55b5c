// internal/storage/factory.go
package storage

import (
	"fmt"
	"log/slog"

	"github.com/orbitsim/eclipsevis/internal/config"
	gormstorage "github.com/orbitsim/eclipsevis/internal/storage/gorm"
	"github.com/orbitsim/eclipsevis/internal/storage/memory"
	sqlitestorage "github.com/orbitsim/eclipsevis/internal/storage/sqlite"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, log *slog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return gormstorage.New(gormstorage.Dependencies{Logger: log}), nil
	case "sqlite":
		return sqlitestorage.New(sqlitestorage.Config{
			DumpInterval: cfg.SQLite.DumpInterval,
			DumpPath:     cfg.SQLite.DumpPath,
		}, log)
	case "memory":
		return memory.New(memory.Config{
			OutputDir:      cfg.Memory.OutputDir,
			CompressOutput: cfg.Memory.CompressOutput,
		}), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
