package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	cellsadapter "github.com/couchcryptid/era5-rechunk/internal/adapter/cells"
	"github.com/couchcryptid/era5-rechunk/internal/adapter/csvout"
	httpadapter "github.com/couchcryptid/era5-rechunk/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/era5-rechunk/internal/adapter/kafka"
	"github.com/couchcryptid/era5-rechunk/internal/config"
	"github.com/couchcryptid/era5-rechunk/internal/crs"
	"github.com/couchcryptid/era5-rechunk/internal/extract"
	"github.com/couchcryptid/era5-rechunk/internal/observability"
	"github.com/couchcryptid/era5-rechunk/internal/rechunk"
)

func main() {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	conv, err := crs.NewConverter()
	if err != nil {
		logger.Error("failed to build coordinate converter", "error", err)
		os.Exit(1)
	}

	var source rechunk.CellSource
	switch strings.ToLower(filepath.Ext(cfg.CellsPath)) {
	case ".shp":
		source = cellsadapter.NewShapefileSource(cfg.CellsPath, cfg.CellNameField)
	default:
		source = cellsadapter.NewCSVSource(cfg.CellsPath)
	}

	writer, err := csvout.NewWriter(cfg.OutputDir)
	if err != nil {
		logger.Error("failed to prepare output directory", "error", err)
		os.Exit(1)
	}

	// Completion events are feature-flagged via KAFKA_ENABLED.
	var publisher rechunk.EventPublisher
	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		kafkaWriter = kafkaadapter.NewWriter(cfg, logger)
		publisher = kafkaWriter
		logger.Info("completion events enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("completion events disabled")
	}

	runner := rechunk.New(source, extract.New(), writer, publisher, conv,
		cfg.RawDir, cfg.Years, cfg.Workers, cfg.GridRefFigs, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, runner, runner, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	exitCode := 0
	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("run failed", "error", err)
		exitCode = 1
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	os.Exit(exitCode)
}
