// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/orbitsim/eclipsevis/internal/util"
)

// RunExport is the root JSON structure
type RunExport struct {
	RunName          string  `json:"runName"`
	OrbitLog         string  `json:"orbitLog"`
	EclipseLog       string  `json:"eclipseLog,omitempty"`
	ScaleMeters      float64 `json:"scaleMeters"`
	MoonExaggeration float64 `json:"moonExaggeration"`
	ShadowScale      float64 `json:"shadowScale"`
	EndStep          int     `json:"endStep"`
	Frames           [][]any `json:"frames"`
	Events           [][]any `json:"events"`
}

// exportJSON writes the run data to a JSON file, gzipped when configured
func (b *Backend) exportJSON() error {
	export := b.buildExport()

	// Build filename
	runName := util.SanitizeName(b.run.Name)
	timestamp := b.run.StartTime.Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s.json.gz", runName, timestamp)
	} else {
		filename = fmt.Sprintf("%s_%s.json", runName, timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Write file
	if b.cfg.CompressOutput {
		if err := b.writeGzipJSON(outputPath, export); err != nil {
			return err
		}
	} else {
		if err := b.writeJSON(outputPath, export); err != nil {
			return err
		}
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) buildExport() RunExport {
	export := RunExport{
		RunName:          b.run.Name,
		OrbitLog:         b.run.OrbitLog,
		EclipseLog:       b.run.EclipseLog,
		ScaleMeters:      b.run.ScaleMeters,
		MoonExaggeration: b.run.MoonExaggeration,
		ShadowScale:      b.run.ShadowScale,
		Frames:           make([][]any, 0, len(b.frames)),
		Events:           make([][]any, 0, len(b.eclipseEvents)),
	}

	maxStep := 0

	// Convert frames
	// Format: [step, [moonXYZ], [sunXYZ], [shadowXYZ], umbraR, penumbraR, type, derived]
	for _, f := range b.frames {
		row := []any{
			f.Step,
			[]float64{f.Moon.X, f.Moon.Y, f.Moon.Z},
			[]float64{f.Sun.X, f.Sun.Y, f.Sun.Z},
			[]float64{f.ShadowCenter.X, f.ShadowCenter.Y, f.ShadowCenter.Z},
			f.UmbraRadius,
			f.PenumbraRadius,
			f.EclipseType,
			boolToInt(f.Derived),
		}
		export.Frames = append(export.Frames, row)
		if f.Step > maxStep {
			maxStep = f.Step
		}
	}

	export.EndStep = maxStep

	// Convert eclipse events
	// Format: [startStep, endStep, type, label, peakStep, peakUmbraRadius]
	for _, evt := range b.eclipseEvents {
		export.Events = append(export.Events, []any{
			evt.StartStep,
			evt.EndStep,
			evt.EclipseType,
			evt.Label,
			evt.PeakStep,
			evt.PeakUmbraRadius,
		})
	}

	return export
}

// GetExportedFilePath returns the path of the last exported file
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}

func (b *Backend) writeJSON(path string, data RunExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func (b *Backend) writeGzipJSON(path string, data RunExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
