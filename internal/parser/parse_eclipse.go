package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

type eclipseColumns struct {
	step        int
	shadowX     int
	shadowY     int
	shadowZ     int
	umbraR      int
	penumbraR   int
	eclipseType int
}

func resolveEclipseColumns(header []string) (eclipseColumns, error) {
	var c eclipseColumns
	var err error

	fields := []struct {
		dst     *int
		aliases []string
	}{
		{&c.step, []string{"step"}},
		{&c.shadowX, []string{"shadow_x"}},
		{&c.shadowY, []string{"shadow_y"}},
		{&c.shadowZ, []string{"shadow_z"}},
		{&c.umbraR, []string{"umbraRadius", "umbra_r"}},
		{&c.penumbraR, []string{"penumbraRadius", "penumbra_r"}},
		{&c.eclipseType, []string{"eclipseType", "eclipse_type"}},
	}
	for _, f := range fields {
		if *f.dst, err = columnIndex(header, f.aliases...); err != nil {
			return c, err
		}
	}
	return c, nil
}

// LoadEclipse parses the eclipse log from r into a step-keyed map.
// Malformed rows are logged and dropped. A duplicate step keeps the last
// row, matching the simulation's append-on-rerun behavior.
func (p *Parser) LoadEclipse(r io.Reader) (map[int]EclipseEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading eclipse header: %w", err)
	}
	cols, err := resolveEclipseColumns(header)
	if err != nil {
		return nil, fmt.Errorf("eclipse header: %w", err)
	}

	entries := make(map[int]EclipseEntry)
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading eclipse row %d: %w", line, err)
		}

		e, err := p.parseEclipseRow(row, cols)
		if err != nil {
			p.logger.Warn("Dropping malformed eclipse row", "line", line, "error", err)
			continue
		}
		entries[e.Step] = e
	}

	p.logger.Info("Loaded eclipse log", "entries", len(entries))
	return entries, nil
}

// LoadEclipseFile opens and parses the eclipse log at path.
func (p *Parser) LoadEclipseFile(path string) (map[int]EclipseEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening eclipse log: %w", err)
	}
	defer file.Close()
	return p.LoadEclipse(file)
}

func (p *Parser) parseEclipseRow(row []string, cols eclipseColumns) (EclipseEntry, error) {
	var e EclipseEntry
	var err error

	if e.Step, err = parseStep(row, cols.step); err != nil {
		return e, err
	}
	if e.ShadowCenter.X, err = parseField(row, cols.shadowX, "shadow_x"); err != nil {
		return e, err
	}
	if e.ShadowCenter.Y, err = parseField(row, cols.shadowY, "shadow_y"); err != nil {
		return e, err
	}
	if e.ShadowCenter.Z, err = parseField(row, cols.shadowZ, "shadow_z"); err != nil {
		return e, err
	}
	if e.Params.UmbraRadius, err = parseField(row, cols.umbraR, "umbraRadius"); err != nil {
		return e, err
	}
	if e.Params.PenumbraRadius, err = parseField(row, cols.penumbraR, "penumbraRadius"); err != nil {
		return e, err
	}

	t, err := parseField(row, cols.eclipseType, "eclipseType")
	if err != nil {
		return e, err
	}
	e.Params.EclipseType = int(t)

	if s := p.opts.ScaleMeters; s != 1 {
		e.ShadowCenter = e.ShadowCenter.Scale(s)
		e.Params.UmbraRadius *= s
		e.Params.PenumbraRadius *= s
	}

	return e, nil
}
