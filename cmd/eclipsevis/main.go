package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/orbitsim/eclipsevis/internal/api"
	"github.com/orbitsim/eclipsevis/internal/config"
	"github.com/orbitsim/eclipsevis/internal/eclipse"
	"github.com/orbitsim/eclipsevis/internal/influx"
	"github.com/orbitsim/eclipsevis/internal/logging"
	"github.com/orbitsim/eclipsevis/internal/mesh"
	"github.com/orbitsim/eclipsevis/internal/model"
	"github.com/orbitsim/eclipsevis/internal/monitor"
	intOtel "github.com/orbitsim/eclipsevis/internal/otel"
	"github.com/orbitsim/eclipsevis/internal/parser"
	"github.com/orbitsim/eclipsevis/internal/scene"
	"github.com/orbitsim/eclipsevis/internal/shadow"
	"github.com/orbitsim/eclipsevis/internal/sink"
	"github.com/orbitsim/eclipsevis/internal/storage"
)

// version defs - BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.1.0"
	BuildDate      string = "unknown"

	AppName string = "eclipsevis"
)

var (
	SessionStartTime time.Time = time.Now()

	LogFilePath string
	LogFile     *os.File

	// SlogManager handles all slog-based logging
	SlogManager *logging.Manager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider
)

func main() {
	// Bootstrap logging to stdout so config errors are visible
	SlogManager = logging.NewManager()
	SlogManager.Setup(nil, nil, "info", nil)
	Logger = SlogManager.Logger()

	if err := config.Load("."); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config")
	}

	setupLogging()

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		shutdown(1)
	}

	var err error
	switch strings.ToLower(args[0]) {
	case "play":
		err = runPlay()
	case "validate":
		err = runValidate()
	case "derive":
		err = runDerive(args[1:])
	case "export":
		err = runExport(args[1:])
	case "version":
		fmt.Printf("%s %s (built %s)\n", AppName, CurrentVersion, BuildDate)
	default:
		fmt.Printf("Unknown command %q.\n", args[0])
		usage()
		shutdown(1)
	}

	if err != nil {
		Logger.Error("Command failed", "command", args[0], "error", err)
		shutdown(1)
	}
	shutdown(0)
}

func usage() {
	fmt.Printf(`Usage: %s <command>

Commands:
  play       replay the orbit log through the shadow pipeline and record it
  validate   parse the configured input logs and report what they contain
  derive     compute an eclipse log analytically from the orbit log
  export     dump recorded runs from the database as JSON (export <runID>...)
  version    print the version
`, AppName)
}

// setupLogging re-initializes logging with file output, optional Graylog
// and optional OTel, in that order of availability.
func setupLogging() {
	logsDir := viper.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		os.MkdirAll(logsDir, 0755)
	}

	var err error
	LogFilePath = logging.LogFilePath(logsDir, AppName, SessionStartTime)
	if _, err = os.Stat(LogFilePath); err == nil {
		os.Rename(LogFilePath, LogFilePath+".old")
	}
	LogFile, err = os.OpenFile(LogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err, "path", LogFilePath)
	}

	var gelfWriter *gelf.Writer
	if viper.GetBool("graylog.enabled") {
		gelfWriter, err = gelf.NewWriter(viper.GetString("graylog.address"))
		if err != nil {
			Logger.Warn("Failed to connect to Graylog", "error", err)
			gelfWriter = nil
		}
	}

	// Initialize OTel provider if enabled (after log file is created)
	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    LogFile,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
		} else if otelCfg.Endpoint != "" {
			Logger.Info("OTel provider initialized", "file", LogFilePath, "endpoint", otelCfg.Endpoint)
		} else {
			Logger.Info("OTel provider initialized", "file", LogFilePath)
		}
	}

	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}
	SlogManager.Setup(LogFile, gelfWriter, viper.GetString("logLevel"), otelLogProvider)
	Logger = SlogManager.Logger()
	Logger.Info("Logging to file", "path", LogFilePath)
}

func shutdown(code int) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	SlogManager.Flush(ctx)
	if OTelProvider != nil {
		OTelProvider.Flush(ctx)
		OTelProvider.Shutdown(ctx)
	}
	if LogFile != nil {
		LogFile.Close()
	}
	os.Exit(code)
}

func buildScene() (*scene.Scene, float64, error) {
	radius := viper.GetFloat64("mesh.radius") * viper.GetFloat64("mesh.radiusScale")
	sphere, err := mesh.NewSphere(
		radius,
		viper.GetInt("mesh.segments"),
		viper.GetInt("mesh.rings"),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("building sphere mesh: %w", err)
	}

	sc := scene.New(scene.Config{
		RingSamples: viper.GetInt("shadow.ringSamples"),
		AxisSamples: viper.GetInt("shadow.axisSamples"),
		AxisExtend:  viper.GetFloat64("shadow.axisExtend"),
		ShadowScale: viper.GetFloat64("shadow.shadowScale"),
	}, sphere, shadow.DefaultShader())
	return sc, radius, nil
}

func runName() string {
	if name := viper.GetString("playback.runName"); name != "" {
		return name
	}
	orbitLog := viper.GetString("input.orbitLog")
	return strings.TrimSuffix(filepath.Base(orbitLog), filepath.Ext(orbitLog))
}

func runPlay() error {
	playStart := time.Now()

	p := parser.New(Logger, parser.Options{
		ScaleMeters:      viper.GetFloat64("input.scaleMeters"),
		MoonExaggeration: viper.GetFloat64("input.moonExaggeration"),
	})

	frames, err := p.LoadOrbitFile(viper.GetString("input.orbitLog"))
	if err != nil {
		return fmt.Errorf("loading orbit log: %w", err)
	}

	var entries map[int]parser.EclipseEntry
	eclipseLog := viper.GetString("input.eclipseLog")
	if eclipseLog != "" {
		entries, err = p.LoadEclipseFile(eclipseLog)
		if err != nil {
			Logger.Warn("Failed to load eclipse log, deriving shadow parameters", "error", err)
			entries = nil
		}
	}

	records := p.Merge(frames, entries, viper.GetBool("input.deriveMissing"))
	Logger.Info("Input loaded", "frames", len(records), "eclipseEntries", len(entries))

	sc, surfaceRadius, err := buildScene()
	if err != nil {
		return err
	}

	player, err := scene.NewPlayer(sc, Logger)
	if err != nil {
		return fmt.Errorf("creating player: %w", err)
	}
	player.Stride = viper.GetInt("playback.stride")

	backend, err := storage.NewBackend(config.GetStorageConfig(), Logger)
	if err != nil {
		return fmt.Errorf("creating storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("initializing storage backend: %w", err)
	}
	defer backend.Close()

	run := &model.Run{
		Name:             runName(),
		OrbitLog:         viper.GetString("input.orbitLog"),
		EclipseLog:       eclipseLog,
		StartTime:        SessionStartTime,
		ScaleMeters:      viper.GetFloat64("input.scaleMeters"),
		MoonExaggeration: viper.GetFloat64("input.moonExaggeration"),
		ShadowScale:      viper.GetFloat64("shadow.shadowScale"),
		DeriveMissing:    viper.GetBool("input.deriveMissing"),
		Tag:              viper.GetString("api.tag"),
	}
	if err := backend.StartRun(run); err != nil {
		return fmt.Errorf("starting run: %w", err)
	}

	var influxManager *influx.Manager
	if viper.GetBool("influx.enabled") {
		zlog := zerolog.New(os.Stdout).With().Timestamp().Logger()
		backupPath := filepath.Join(viper.GetString("logsDir"),
			fmt.Sprintf("influx_backup_%s.lp.gz", SessionStartTime.Format("20060102_150405")))
		influxManager = influx.NewManager(zlog, backupPath)
		if err := influxManager.Connect(); err != nil {
			Logger.Warn("InfluxDB unavailable, frame metrics disabled", "error", err)
			influxManager = nil
		}
	}

	player.Register(sink.NewStorageSink(backend, surfaceRadius))
	tracker := sink.NewEventTracker(backend, surfaceRadius)
	if influxManager != nil {
		tracker.WithInflux(influxManager, run.Name)
		player.Register(sink.NewInfluxSink(influxManager, run.Name))
	}
	player.Register(tracker)

	mon := monitor.NewService(monitor.Dependencies{
		Backend:  backend,
		Player:   player,
		Logger:   Logger,
		Interval: viper.GetDuration("playback.sampleInterval"),
		Influx:   influxManager,
		RunName:  run.Name,
	})
	mon.Start()

	delivered, err := player.Run(context.Background(), records)
	mon.Stop()
	if err != nil {
		return fmt.Errorf("playback: %w", err)
	}

	if err := tracker.Finish(); err != nil {
		Logger.Error("Failed to close trailing eclipse span", "error", err)
	}
	if err := backend.EndRun(); err != nil {
		return fmt.Errorf("ending run: %w", err)
	}

	Logger.Info("Playback complete",
		"frames", delivered,
		"skipped", player.Skipped(),
		"duration", time.Since(playStart),
	)

	if viper.GetBool("api.enabled") {
		uploadRecording(backend, run, uint(delivered), time.Since(playStart))
	}
	return nil
}

// uploadRecording pushes the exported recording file to the results server.
// Only backends that export a file can upload; failures are logged, not fatal.
func uploadRecording(backend storage.Backend, run *model.Run, frameCount uint, duration time.Duration) {
	exportable, ok := backend.(storage.Exportable)
	if !ok {
		Logger.Warn("Storage backend has no exported file, skipping upload",
			"type", viper.GetString("storage.type"))
		return
	}
	path := exportable.GetExportedFilePath()
	if path == "" {
		Logger.Warn("No exported file to upload")
		return
	}

	client := api.New(viper.GetString("api.serverUrl"), viper.GetString("api.apiKey"))
	if err := client.Healthcheck(); err != nil {
		Logger.Error("Results server unreachable, skipping upload", "error", err)
		return
	}
	err := client.Upload(path, api.UploadMetadata{
		RunName:         run.Name,
		Tag:             run.Tag,
		FrameCount:      frameCount,
		DurationSeconds: duration.Seconds(),
	})
	if err != nil {
		Logger.Error("Failed to upload recording", "error", err, "path", path)
		return
	}
	Logger.Info("Recording uploaded", "path", path)
}

func runValidate() error {
	p := parser.New(Logger, parser.Options{
		ScaleMeters:      viper.GetFloat64("input.scaleMeters"),
		MoonExaggeration: viper.GetFloat64("input.moonExaggeration"),
	})

	frames, err := p.LoadOrbitFile(viper.GetString("input.orbitLog"))
	if err != nil {
		return fmt.Errorf("loading orbit log: %w", err)
	}
	fmt.Printf("Orbit log:   %d frames\n", len(frames))

	var entries map[int]parser.EclipseEntry
	eclipseLog := viper.GetString("input.eclipseLog")
	if eclipseLog != "" {
		entries, err = p.LoadEclipseFile(eclipseLog)
		if err != nil {
			fmt.Printf("Eclipse log: unreadable (%v)\n", err)
		} else {
			fmt.Printf("Eclipse log: %d entries\n", len(entries))
		}
	}

	missing := 0
	byType := map[int]int{}
	records := p.Merge(frames, entries, viper.GetBool("input.deriveMissing"))
	for _, rec := range records {
		if rec.Derived {
			missing++
		}
		byType[rec.Shadow.EclipseType]++
	}
	fmt.Printf("Merged:      %d records, %d with derived shadow parameters\n", len(records), missing)
	for _, typ := range []int{eclipse.TypeNone, eclipse.TypeTotal, eclipse.TypeAnnular, eclipse.TypePartial} {
		fmt.Printf("  %-26s %d\n", eclipse.Label(typ), byType[typ])
	}

	if len(records) == 0 {
		return fmt.Errorf("orbit log %q contains no frames", viper.GetString("input.orbitLog"))
	}
	return nil
}
