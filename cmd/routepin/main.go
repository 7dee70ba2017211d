package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/routepin/routepin/internal/bridge"
	"github.com/routepin/routepin/internal/config"
	"github.com/routepin/routepin/internal/dispatcher"
	"github.com/routepin/routepin/internal/export"
	"github.com/routepin/routepin/internal/logging"
	"github.com/routepin/routepin/internal/monitor"
	"github.com/routepin/routepin/internal/server"
	"github.com/routepin/routepin/internal/surface"
	"github.com/routepin/routepin/internal/telemetry"
	"github.com/routepin/routepin/internal/widget"
	"github.com/routepin/routepin/web"
)

// CurrentVersion can be set at build time via ldflags.
var (
	CurrentVersion string = "0.1.0"
	BuildDate      string = "unknown"

	AppName string = "routepin"
)

// global variables
var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	LogFilePath string
	LogFile     *os.File

	SessionStartTime time.Time = time.Now()

	// Services
	peerHub         *bridge.Hub
	mapWidget       *widget.Widget
	eventBridge     *bridge.Bridge
	eventDispatcher *dispatcher.Dispatcher
	exportWriter    *export.Writer
	influxManager   *telemetry.Manager
	statusMonitor   *monitor.Service
	httpServer      *server.Server
)

func setupLogging() {
	// Bootstrap logger before config is available
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(nil, viper.GetString("logLevel"), nil)
	Logger = SlogManager.Logger()

	if err := config.Load("."); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config")
	}

	logsDir := viper.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		_ = os.Mkdir(logsDir, 0755)
	}

	LogFilePath = logging.LogFilePath(logsDir, AppName, SessionStartTime)

	var err error
	LogFile, err = os.OpenFile(LogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Logger.Error("Failed to create/open log file, logging to console", "error", err, "path", LogFilePath)
		return
	}

	// Re-setup with file output and dynamic peer context
	SlogManager.Setup(LogFile, viper.GetString("logLevel"), func() []slog.Attr {
		if peerHub == nil {
			return nil
		}
		return []slog.Attr{slog.Int("peers", peerHub.PeerCount())}
	})
	Logger = SlogManager.Logger()
	Logger.Info("Logging to file", "path", LogFilePath)
}

func setupTelemetry() {
	if !viper.GetBool("influx.enabled") {
		Logger.Info("Telemetry disabled")
		return
	}

	zlog := zerolog.New(os.Stdout).With().Timestamp().Logger()
	backupPath := filepath.Join(viper.GetString("logsDir"), "telemetry_backup.lp.gz")
	influxManager = telemetry.NewManager(zlog, backupPath)
	if err := influxManager.Connect(); err != nil {
		Logger.Warn("Telemetry unavailable", "error", err)
		influxManager = nil
	}
}

func setupServices() error {
	peerHub = bridge.NewHub(Logger)

	mapWidget = widget.New(
		surface.NewRemote(peerHub),
		nil,
		Logger,
		widget.WithDefaultColor(viper.GetString("defaultRouteColor")),
	)

	var err error
	eventDispatcher, err = dispatcher.New(logging.NewDispatcherLogger(Logger))
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	exportWriter = export.NewWriter(mapWidget, config.GetExportConfig().OutputDir, Logger)

	var recorder bridge.Recorder
	if influxManager != nil {
		recorder = influxManager
	}
	eventBridge = bridge.New(mapWidget, peerHub, eventDispatcher, exportWriter, recorder, Logger)
	mapWidget.SetNotifier(eventBridge)

	httpServer = server.New(
		viper.GetString("listenAddr"),
		mapWidget,
		eventBridge,
		peerHub,
		web.Handler(),
		config.GetMapConfig(),
		Logger,
	)
	return nil
}

func setupMonitor() {
	var recorder monitor.StatsRecorder
	if influxManager != nil {
		recorder = influxManager
	}
	statusMonitor = monitor.NewService(monitor.Dependencies{
		Routes:     mapWidget,
		Peers:      peerHub,
		Recorder:   recorder,
		Logger:     Logger,
		StatusPath: filepath.Join(viper.GetString("logsDir"), "status.json"),
		Interval:   10 * time.Second,
	})
	if err := statusMonitor.Start(); err != nil {
		Logger.Warn("Status monitor failed to start", "error", err)
	}
}

func main() {
	setupLogging()
	Logger.Info("Starting up...", "version", CurrentVersion, "build", BuildDate)

	setupTelemetry()

	if err := setupServices(); err != nil {
		Logger.Error("Startup failed", "error", err)
		os.Exit(1)
	}

	setupMonitor()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := httpServer.Start(); err != nil {
			Logger.Error("HTTP server failed", "error", err)
			cancel()
		}
	}()

	args := os.Args[1:]
	if len(args) > 0 && strings.ToLower(args[0]) == "demo" {
		Logger.Info("Populating demo routes...")
		demoStart := time.Now()
		populateDemoRoutes()
		Logger.Info("Demo routes populated.", "duration", time.Since(demoStart))
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		Logger.Info("Shutting down", "signal", sig.String())
	case <-ctx.Done():
	}

	statusMonitor.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		Logger.Warn("HTTP shutdown incomplete", "error", err)
	}

	if influxManager != nil {
		influxManager.Close()
	}
	if LogFile != nil {
		_ = LogFile.Close()
	}
}
