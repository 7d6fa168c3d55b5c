package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"input": { "orbitLog": "/data/orbit.csv" },
		"mesh": { "segments": 64 },
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "eclipsevis.cfg.json"), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "/data/orbit.csv", viper.GetString("input.orbitLog"))
	assert.Equal(t, 64, viper.GetInt("mesh.segments"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "eclipsevis.cfg.json"), []byte(`{}`), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./eclipselogs", viper.GetString("logsDir"))
	assert.Equal(t, "build/orbit_three_body.csv", viper.GetString("input.orbitLog"))
	assert.Equal(t, "build/eclipse_log.csv", viper.GetString("input.eclipseLog"))
	assert.Equal(t, 1.0, viper.GetFloat64("input.scaleMeters"))
	assert.Equal(t, true, viper.GetBool("input.deriveMissing"))
	assert.Equal(t, 6.371e6, viper.GetFloat64("mesh.radius"))
	assert.Equal(t, 40, viper.GetInt("mesh.segments"))
	assert.Equal(t, 20, viper.GetInt("mesh.rings"))
	assert.Equal(t, 120, viper.GetInt("shadow.ringSamples"))
	assert.Equal(t, 3.0, viper.GetFloat64("shadow.axisExtend"))
	assert.Equal(t, 1, viper.GetInt("playback.stride"))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
	assert.Equal(t, "localhost", viper.GetString("db.host"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, false, viper.GetBool("otel.enabled"))
	assert.Equal(t, "eclipsevis", viper.GetString("otel.serviceName"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestGetStorageConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"storage": {
			"type": "sqlite",
			"memory": { "outputDir": "/tmp/out", "compressOutput": false },
			"sqlite": { "dumpInterval": "10m", "dumpPath": "/tmp/run.db" }
		}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "eclipsevis.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	sc := GetStorageConfig()
	assert.Equal(t, "sqlite", sc.Type)
	assert.Equal(t, "/tmp/out", sc.Memory.OutputDir)
	assert.False(t, sc.Memory.CompressOutput)
	assert.Equal(t, 10*time.Minute, sc.SQLite.DumpInterval)
	assert.Equal(t, "/tmp/run.db", sc.SQLite.DumpPath)
}

func TestGetters(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	viper.Set("testInt", 42)
	viper.Set("testFloat", 2.5)
	viper.Set("testBool", true)

	assert.Equal(t, "testValue", GetString("testKey"))
	assert.Equal(t, 42, GetInt("testInt"))
	assert.Equal(t, 2.5, GetFloat64("testFloat"))
	assert.Equal(t, true, GetBool("testBool"))
}

func TestGetOTelConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "eclipsevis.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	cfg := GetOTelConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "eclipsevis", cfg.ServiceName)
	assert.Equal(t, 5*time.Second, cfg.BatchTimeout)
	assert.Equal(t, "", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
}
