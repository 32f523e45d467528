package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/surf-forecast-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/surf-forecast-service/internal/adapter/kafka"
	"github.com/couchcryptid/surf-forecast-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/surf-forecast-service/internal/adapter/sqlite"
	"github.com/couchcryptid/surf-forecast-service/internal/config"
	"github.com/couchcryptid/surf-forecast-service/internal/forecast"
	"github.com/couchcryptid/surf-forecast-service/internal/observability"
	"github.com/couchcryptid/surf-forecast-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		logger.Error("failed to open beach store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	client := openmeteo.NewClient(cfg.OpenMeteoURL, cfg.OpenMeteoTimeout, metrics, logger)
	source := openmeteo.NewCachedSource(client, cfg.OpenMeteoCacheSize, cfg.OpenMeteoCacheTTL, metrics)
	logger.Info("open-meteo source configured",
		"url", cfg.OpenMeteoURL,
		"cache_size", cfg.OpenMeteoCacheSize,
		"cache_ttl", cfg.OpenMeteoCacheTTL,
	)

	svc := forecast.NewService(source, nil, logger, metrics, cfg.ForecastConcurrency)

	ready := readiness{repo}

	// Scheduled publishing is feature-flagged via PUBLISH_ENABLED.
	var writer *kafkaadapter.Writer
	var refresher *pipeline.Refresher
	if cfg.PublishEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		refresher = pipeline.New(repo, svc, writer, logger, metrics, cfg.PublishSchedule)
		ready = append(ready, refresher)
		logger.Info("forecast publishing enabled", "schedule", cfg.PublishSchedule, "topic", cfg.KafkaForecastTopic)
	} else {
		logger.Info("forecast publishing disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, repo, svc, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start forecast refresher.
	if refresher != nil {
		go func() {
			if err := refresher.Run(ctx); err != nil {
				logger.Error("refresher error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := repo.Close(); err != nil {
		logger.Error("beach store close error", "error", err)
	}

	logger.Info("shutdown complete")
}

type readinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// readiness is ready when every component is.
type readiness []readinessChecker

func (r readiness) CheckReadiness(ctx context.Context) error {
	for _, c := range r {
		if err := c.CheckReadiness(ctx); err != nil {
			return err
		}
	}
	return nil
}
