package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/orbitsim/eclipsevis/internal/geomath"
	"github.com/orbitsim/eclipsevis/internal/model/core"
)

// orbitColumns maps the orbit log header to field indices. Two header
// generations exist: CamelCase body suffixes and lowercase ones.
type orbitColumns struct {
	step                   int
	sunX, sunY, sunZ       int
	earthX, earthY, earthZ int
	moonX, moonY, moonZ    int
}

func resolveOrbitColumns(header []string) (orbitColumns, error) {
	var c orbitColumns
	var err error

	fields := []struct {
		dst     *int
		aliases []string
	}{
		{&c.step, []string{"step"}},
		{&c.sunX, []string{"x_Sun", "x_sun"}},
		{&c.sunY, []string{"y_Sun", "y_sun"}},
		{&c.sunZ, []string{"z_Sun", "z_sun"}},
		{&c.earthX, []string{"x_Earth", "x_earth"}},
		{&c.earthY, []string{"y_Earth", "y_earth"}},
		{&c.earthZ, []string{"z_Earth", "z_earth"}},
		{&c.moonX, []string{"x_Moon", "x_moon"}},
		{&c.moonY, []string{"y_Moon", "y_moon"}},
		{&c.moonZ, []string{"z_Moon", "z_moon"}},
	}
	for _, f := range fields {
		if *f.dst, err = columnIndex(header, f.aliases...); err != nil {
			return c, err
		}
	}
	return c, nil
}

// LoadOrbit parses the orbit log from r. Malformed rows are logged and
// dropped; the load only fails on an unreadable stream or a header missing
// required columns.
func (p *Parser) LoadOrbit(r io.Reader) ([]core.BodyFrame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading orbit header: %w", err)
	}
	cols, err := resolveOrbitColumns(header)
	if err != nil {
		return nil, fmt.Errorf("orbit header: %w", err)
	}

	var frames []core.BodyFrame
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading orbit row %d: %w", line, err)
		}

		f, err := p.parseOrbitRow(row, cols)
		if err != nil {
			p.logger.Warn("Dropping malformed orbit row", "line", line, "error", err)
			continue
		}
		frames = append(frames, f)
	}

	p.logger.Info("Loaded orbit log", "frames", len(frames))
	return frames, nil
}

// LoadOrbitFile opens and parses the orbit log at path.
func (p *Parser) LoadOrbitFile(path string) ([]core.BodyFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening orbit log: %w", err)
	}
	defer file.Close()
	return p.LoadOrbit(file)
}

func (p *Parser) parseOrbitRow(row []string, cols orbitColumns) (core.BodyFrame, error) {
	var f core.BodyFrame
	var err error

	if f.Step, err = parseStep(row, cols.step); err != nil {
		return f, err
	}

	vecs := []struct {
		dst     *geomath.Vector3
		name    string
		x, y, z int
	}{
		{&f.Sun, "sun", cols.sunX, cols.sunY, cols.sunZ},
		{&f.Earth, "earth", cols.earthX, cols.earthY, cols.earthZ},
		{&f.Moon, "moon", cols.moonX, cols.moonY, cols.moonZ},
	}
	for _, v := range vecs {
		if v.dst.X, err = parseField(row, v.x, v.name+".x"); err != nil {
			return f, err
		}
		if v.dst.Y, err = parseField(row, v.y, v.name+".y"); err != nil {
			return f, err
		}
		if v.dst.Z, err = parseField(row, v.z, v.name+".z"); err != nil {
			return f, err
		}
	}

	if s := p.opts.ScaleMeters; s != 1 {
		f.Sun = f.Sun.Scale(s)
		f.Earth = f.Earth.Scale(s)
		f.Moon = f.Moon.Scale(s)
	}
	if e := p.opts.MoonExaggeration; e != 1 {
		offset := f.Moon.Sub(f.Earth)
		f.Moon = f.Earth.Add(offset.Scale(e))
	}

	return f, nil
}
