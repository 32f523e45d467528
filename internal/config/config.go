package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/robfig/cron/v3"
)

const defaultOpenMeteoURL = "https://marine-api.open-meteo.com/v1"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	DBPath string

	// Open-Meteo weather source configuration.
	OpenMeteoURL       string
	OpenMeteoTimeout   time.Duration
	OpenMeteoCacheSize int
	OpenMeteoCacheTTL  time.Duration

	// ForecastConcurrency bounds parallel weather fetches per forecast; 1 is sequential.
	ForecastConcurrency int

	// Scheduled forecast publishing.
	PublishEnabled     bool
	PublishSchedule    string
	KafkaBrokers       []string
	KafkaForecastTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	openMeteoTimeout, err := parsePositiveDuration("OPENMETEO_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cacheTTL, err := parsePositiveDuration("OPENMETEO_CACHE_TTL", "30m")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("OPENMETEO_CACHE_SIZE", 500)
	if err != nil {
		return nil, err
	}

	concurrency, err := parsePositiveInt("FORECAST_CONCURRENCY", 1)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DBPath: sharedcfg.EnvOrDefault("DB_PATH", "surf.db"),

		OpenMeteoURL:       sharedcfg.EnvOrDefault("OPENMETEO_URL", defaultOpenMeteoURL),
		OpenMeteoTimeout:   openMeteoTimeout,
		OpenMeteoCacheSize: cacheSize,
		OpenMeteoCacheTTL:  cacheTTL,

		ForecastConcurrency: concurrency,

		PublishEnabled:     os.Getenv("PUBLISH_ENABLED") == "true",
		PublishSchedule:    sharedcfg.EnvOrDefault("PUBLISH_SCHEDULE", "@hourly"),
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaForecastTopic: sharedcfg.EnvOrDefault("KAFKA_FORECAST_TOPIC", "surf-forecasts"),
	}

	if cfg.DBPath == "" {
		return nil, errors.New("DB_PATH is required")
	}
	if cfg.PublishEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when PUBLISH_ENABLED is true")
		}
		if cfg.KafkaForecastTopic == "" {
			return nil, errors.New("KAFKA_FORECAST_TOPIC is required when PUBLISH_ENABLED is true")
		}
		if _, err := cron.ParseStandard(cfg.PublishSchedule); err != nil {
			return nil, fmt.Errorf("invalid PUBLISH_SCHEDULE: %w", err)
		}
	}

	return cfg, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
