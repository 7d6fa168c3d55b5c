package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/orbitsim/eclipsevis/internal/database"
	"github.com/orbitsim/eclipsevis/internal/model"
	"github.com/orbitsim/eclipsevis/internal/util"
)

// runExport dumps recorded runs from Postgres as gzipped JSON, one file
// per run ID. The layout matches the memory backend's export so either
// source feeds the same viewer.
func runExport(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no run IDs provided")
	}

	Logger.Info("Connecting to database...")
	db, err := database.GetPostgresDBStandalone()
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err = sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to validate connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	Logger.Info("Database connection established.")

	for _, arg := range args {
		runID, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid run ID %q: %w", arg, err)
		}

		txStart := time.Now()

		var run model.Run
		err = db.Model(&model.Run{}).Where("id = ?", runID).First(&run).Error
		if err != nil {
			return fmt.Errorf("error getting run %d: %w", runID, err)
		}

		frames := []model.Frame{}
		err = db.Model(&model.Frame{}).
			Where("run_id = ?", runID).
			Order("step").
			Find(&frames).Error
		if err != nil {
			return fmt.Errorf("error getting frames for run %d: %w", runID, err)
		}

		events := []model.EclipseEvent{}
		err = db.Model(&model.EclipseEvent{}).
			Where("run_id = ?", runID).
			Order("start_step").
			Find(&events).Error
		if err != nil {
			return fmt.Errorf("error getting eclipse events for run %d: %w", runID, err)
		}

		export := map[string]any{
			"runName":          run.Name,
			"orbitLog":         run.OrbitLog,
			"eclipseLog":       run.EclipseLog,
			"scaleMeters":      run.ScaleMeters,
			"moonExaggeration": run.MoonExaggeration,
			"shadowScale":      run.ShadowScale,
			"frames":           frameRows(frames),
			"events":           eventRows(events),
		}
		if len(frames) > 0 {
			export["endStep"] = frames[len(frames)-1].Step
		}

		outPath := fmt.Sprintf("%s_%d.json.gz", util.SanitizeName(run.Name), run.ID)
		if err := writeGzippedJSON(outPath, export); err != nil {
			return err
		}

		Logger.Info("Run exported",
			"runId", runID,
			"frames", len(frames),
			"events", len(events),
			"path", outPath,
			"took", time.Since(txStart),
		)
	}
	return nil
}

// frameRows flattens frames into the compact row arrays the memory
// backend writes.
func frameRows(frames []model.Frame) [][]any {
	rows := make([][]any, 0, len(frames))
	for _, f := range frames {
		derived := 0
		if f.Derived {
			derived = 1
		}
		rows = append(rows, []any{
			f.Step,
			[]float64{f.Moon.X, f.Moon.Y, f.Moon.Z},
			[]float64{f.Sun.X, f.Sun.Y, f.Sun.Z},
			[]float64{f.ShadowCenter.X, f.ShadowCenter.Y, f.ShadowCenter.Z},
			f.UmbraRadius,
			f.PenumbraRadius,
			int(f.EclipseType),
			derived,
		})
	}
	return rows
}

func eventRows(events []model.EclipseEvent) [][]any {
	rows := make([][]any, 0, len(events))
	for _, e := range events {
		rows = append(rows, []any{
			e.StartStep,
			e.EndStep,
			int(e.EclipseType),
			e.Label,
			e.PeakStep,
			e.PeakUmbraRadius,
		})
	}
	return rows
}

func writeGzippedJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	defer gz.Close()

	if err := json.NewEncoder(gz).Encode(v); err != nil {
		return fmt.Errorf("error encoding %s: %w", path, err)
	}
	return nil
}
