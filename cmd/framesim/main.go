package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexandreRouma/vhf-framing/internal/channel"
	"github.com/AlexandreRouma/vhf-framing/internal/config"
	"github.com/AlexandreRouma/vhf-framing/internal/metrics"
	"github.com/AlexandreRouma/vhf-framing/internal/server"
	"github.com/AlexandreRouma/vhf-framing/internal/sim"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "vhf-framesim"
	serviceVersion    = "1.0.0"
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Logging)

	logger.Info("Service starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("config_path", *configPath),
	)
	logger.Info("Configuration loaded",
		slog.Int("channels", cfg.Sim.Channels),
		slog.Int("frames_per_second", cfg.Sim.FramesPerSecond),
		slog.Float64("bit_error_rate", cfg.Sim.BitErrorRate),
		slog.Int("lead_in_bits", cfg.Sim.LeadInBits),
		slog.Int("channel_idle_timeout", cfg.Channel.IdleTimeout),
		slog.Bool("http_enabled", cfg.HTTP.Enabled),
		slog.String("log_level", cfg.Logging.Level),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appMetrics := metrics.New()
	logger.Info("Prometheus metrics initialized")

	channelMgr := channel.NewManager(logger, cfg.Channel.GetIdleTimeoutDuration(), appMetrics)
	logger.Info("Channel manager initialized",
		slog.Duration("idle_timeout", cfg.Channel.GetIdleTimeoutDuration()),
	)

	runner, err := sim.NewRunner(cfg.Sim, logger, channelMgr, appMetrics)
	if err != nil {
		logger.Error("Failed to create simulator", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var httpServer *server.HTTPServer
	if cfg.HTTP.Enabled {
		httpServer = server.NewHTTPServer(cfg.HTTP, logger, channelMgr)
		if err := httpServer.Start(); err != nil {
			logger.Error("Failed to start HTTP server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	runnerDone := make(chan error, 1)
	go func() {
		runnerDone <- runner.Run(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Service started successfully, waiting for signals...")

	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-runnerDone:
		if err != nil && err != context.Canceled {
			logger.Error("Simulator stopped", slog.String("error", err.Error()))
		}
	}

	logger.Info("Starting graceful shutdown...")
	cancel()

	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping HTTP server", slog.String("error", err.Error()))
		}
	}

	channelMgr.Stop()

	for _, stats := range channelMgr.AllStats() {
		logger.Info("Final channel statistics",
			slog.String("channel", stats.Name),
			slog.Uint64("bits_pushed", stats.BitsPushed),
			slog.Uint64("frames_extracted", stats.FramesExtracted),
			slog.Uint64("sync_acquired", stats.SyncAcquired),
			slog.Uint64("sync_lost", stats.SyncLost),
			slog.Bool("synchronized", stats.Synchronized),
		)
	}

	logger.Info("Service stopped")
}

// initLogger creates the structured logger from the logging configuration
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var output *os.File
	switch cfg.Output {
	case "stderr":
		output = os.Stderr
	case "stdout", "":
		output = os.Stdout
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stdout\n", cfg.Output, err)
			output = os.Stdout
		} else {
			output = file
		}
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
