package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"

	"github.com/orbitsim/eclipsevis/internal/eclipse"
	"github.com/orbitsim/eclipsevis/internal/parser"
)

// runDerive computes an eclipse log analytically from the orbit log and
// writes it as CSV, in the same column layout the simulation emits. The
// orbit log is read unscaled so the radii come out in real meters.
func runDerive(args []string) error {
	outPath := "derived_eclipse_log.csv"
	if len(args) > 0 {
		outPath = args[0]
	}

	p := parser.New(Logger, parser.Options{})
	frames, err := p.LoadOrbitFile(viper.GetString("input.orbitLog"))
	if err != nil {
		return fmt.Errorf("loading orbit log: %w", err)
	}
	if len(frames) == 0 {
		return fmt.Errorf("orbit log %q contains no frames", viper.GetString("input.orbitLog"))
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write([]string{
		"step", "shadow_x", "shadow_y", "shadow_z",
		"umbraRadius", "penumbraRadius", "eclipseType",
	}); err != nil {
		return err
	}

	eclipsed := 0
	for _, f := range frames {
		g := eclipse.Compute(f.Sun, f.Earth, f.Moon)
		if g.Params.EclipseType != eclipse.TypeNone {
			eclipsed++
		}
		row := []string{
			strconv.Itoa(f.Step),
			formatFloat(g.ShadowCenter.X),
			formatFloat(g.ShadowCenter.Y),
			formatFloat(g.ShadowCenter.Z),
			formatFloat(g.Params.UmbraRadius),
			formatFloat(g.Params.PenumbraRadius),
			strconv.Itoa(g.Params.EclipseType),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row for step %d: %w", f.Step, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	Logger.Info("Derived eclipse log written",
		"path", outPath,
		"steps", len(frames),
		"eclipsedSteps", eclipsed,
	)
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
