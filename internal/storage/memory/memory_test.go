package memory

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitsim/eclipsevis/internal/model"
)

func testRun() *model.Run {
	return &model.Run{
		Name:             "lunar month",
		OrbitLog:         "orbit_log.csv",
		EclipseLog:       "eclipse_log.csv",
		StartTime:        time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		ScaleMeters:      1,
		MoonExaggeration: 1,
		ShadowScale:      1,
	}
}

func testFrame(step int) *model.Frame {
	return &model.Frame{
		Step:           step,
		Moon:           model.Coordinate{X: 3.8e8, Y: 0, Z: 0},
		Sun:            model.Coordinate{X: 1.5e11, Y: 0, Z: 0},
		ShadowCenter:   model.Coordinate{X: 0, Y: 0, Z: 0},
		UmbraRadius:    -30000,
		PenumbraRadius: 3.6e6,
		EclipseType:    3,
		Label:          "Partial eclipse (penumbra)",
	}
}

func TestStartRun_ResetsState(t *testing.T) {
	b := New(Config{OutputDir: t.TempDir()})
	require.NoError(t, b.Init())

	require.NoError(t, b.StartRun(testRun()))
	require.NoError(t, b.RecordFrame(testFrame(0)))
	require.NoError(t, b.RecordEclipseEvent(&model.EclipseEvent{StartStep: 0}))
	assert.Equal(t, 1, b.FrameCount())

	require.NoError(t, b.StartRun(testRun()))
	assert.Equal(t, 0, b.FrameCount())
}

func TestGetFrameByStep(t *testing.T) {
	b := New(Config{OutputDir: t.TempDir()})
	require.NoError(t, b.StartRun(testRun()))
	require.NoError(t, b.RecordFrame(testFrame(5)))
	require.NoError(t, b.RecordFrame(testFrame(9)))

	f, ok := b.GetFrameByStep(9)
	require.True(t, ok)
	assert.Equal(t, 9, f.Step)

	_, ok = b.GetFrameByStep(12)
	assert.False(t, ok)
}

func TestEndRun_ExportsJSON(t *testing.T) {
	dir := t.TempDir()
	b := New(Config{OutputDir: dir})
	require.NoError(t, b.StartRun(testRun()))

	for step := 0; step < 3; step++ {
		require.NoError(t, b.RecordFrame(testFrame(step)))
	}
	require.NoError(t, b.RecordEclipseEvent(&model.EclipseEvent{
		StartStep:       0,
		EndStep:         2,
		EclipseType:     3,
		Label:           "Partial eclipse (penumbra)",
		PeakStep:        1,
		PeakUmbraRadius: -30000,
	}))

	require.NoError(t, b.EndRun())

	path := b.GetExportedFilePath()
	require.NotEmpty(t, path)
	assert.Equal(t, "lunar_month_20260314_093000.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var export RunExport
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, "lunar month", export.RunName)
	assert.Equal(t, 2, export.EndStep)
	assert.Len(t, export.Frames, 3)
	assert.Len(t, export.Events, 1)
}

func TestEndRun_ExportsGzip(t *testing.T) {
	dir := t.TempDir()
	b := New(Config{OutputDir: dir, CompressOutput: true})
	require.NoError(t, b.StartRun(testRun()))
	require.NoError(t, b.RecordFrame(testFrame(0)))
	require.NoError(t, b.EndRun())

	path := b.GetExportedFilePath()
	assert.Equal(t, ".gz", filepath.Ext(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	var export RunExport
	require.NoError(t, json.NewDecoder(gz).Decode(&export))
	assert.Len(t, export.Frames, 1)
}

func TestEndRun_NoRun(t *testing.T) {
	b := New(Config{OutputDir: t.TempDir()})
	assert.NoError(t, b.EndRun())
	assert.Empty(t, b.GetExportedFilePath())
}

func TestFrameRowFormat(t *testing.T) {
	b := New(Config{OutputDir: t.TempDir()})
	require.NoError(t, b.StartRun(testRun()))
	f := testFrame(7)
	f.Derived = true
	require.NoError(t, b.RecordFrame(f))

	export := b.buildExport()
	require.Len(t, export.Frames, 1)
	row := export.Frames[0]
	require.Len(t, row, 8)
	assert.Equal(t, 7, row[0])
	assert.Equal(t, []float64{3.8e8, 0, 0}, row[1])
	assert.Equal(t, -30000.0, row[4])
	assert.Equal(t, 1, row[7])
}
