// Package parser ingests the precomputed simulation CSVs: the orbit log
// with per-step body positions and the eclipse log with shadow parameters.
// Rows are parsed into typed records and validated here, outside the
// geometry core; the merge mirrors the renderer's left join on step.
package parser

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/orbitsim/eclipsevis/internal/eclipse"
	"github.com/orbitsim/eclipsevis/internal/geomath"
	"github.com/orbitsim/eclipsevis/internal/model/core"
	"github.com/orbitsim/eclipsevis/internal/util"
)

// Options holds ingestion-time adjustments. Both default to 1 (off). These
// are visualization aids applied before the core ever sees the data.
type Options struct {
	// ScaleMeters multiplies every position component.
	ScaleMeters float64
	// MoonExaggeration scales the Moon's offset from Earth for visibility.
	MoonExaggeration float64
}

// Parser loads and merges the two CSV logs.
type Parser struct {
	logger *slog.Logger
	opts   Options
}

// New creates a parser. A nil logger falls back to slog.Default.
func New(logger *slog.Logger, opts Options) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ScaleMeters == 0 {
		opts.ScaleMeters = 1
	}
	if opts.MoonExaggeration == 0 {
		opts.MoonExaggeration = 1
	}
	return &Parser{logger: logger, opts: opts}
}

// EclipseEntry is one parsed eclipse log row.
type EclipseEntry struct {
	Step         int
	ShadowCenter geomath.Vector3
	Params       core.ShadowParameters
}

// columnIndex resolves named columns in a CSV header, accepting any of the
// given aliases per column (the simulation wrote two header generations).
func columnIndex(header []string, aliases ...string) (int, error) {
	for i, col := range header {
		col = util.TrimQuotes(strings.TrimSpace(col))
		for _, a := range aliases {
			if strings.EqualFold(col, a) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("missing column %q", aliases[0])
}

func parseField(row []string, idx int, name string) (float64, error) {
	if idx >= len(row) {
		return 0, fmt.Errorf("row too short for column %s", name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
	if err != nil {
		return 0, fmt.Errorf("error converting %s to float: %w", name, err)
	}
	return v, nil
}

func parseStep(row []string, idx int) (int, error) {
	f, err := parseField(row, idx, "step")
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// Merge joins orbit frames with eclipse entries by step, the same left
// join the renderer performs. Steps with no eclipse entry get their shadow
// parameters derived analytically when derive is set; otherwise they carry
// zero radii and render lit-only.
func (p *Parser) Merge(frames []core.BodyFrame, entries map[int]EclipseEntry, derive bool) []core.FrameRecord {
	records := make([]core.FrameRecord, 0, len(frames))
	for _, f := range frames {
		rec := core.FrameRecord{BodyFrame: f}

		if e, ok := entries[f.Step]; ok {
			rec.ShadowCenter = e.ShadowCenter
			rec.Shadow = e.Params
			if e.Params.PenumbraRadius < e.Params.UmbraRadius {
				p.logger.Warn("Penumbra radius below umbra radius",
					"step", f.Step,
					"umbra", e.Params.UmbraRadius,
					"penumbra", e.Params.PenumbraRadius)
			}
		} else if derive {
			g := eclipse.Compute(f.Sun, f.Earth, f.Moon)
			rec.ShadowCenter = g.ShadowCenter
			rec.Shadow = g.Params
			rec.Derived = true
		} else {
			rec.ShadowCenter = f.Earth
		}

		records = append(records, rec)
	}
	return records
}
