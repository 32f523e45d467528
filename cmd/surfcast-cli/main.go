package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/surf-forecast-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/surf-forecast-service/internal/config"
	"github.com/couchcryptid/surf-forecast-service/internal/domain"
	"github.com/couchcryptid/surf-forecast-service/internal/forecast"
	"github.com/couchcryptid/surf-forecast-service/internal/observability"
)

var (
	verbose bool

	facing      string
	waveDir     float64
	windDir     float64
	swellHeight float64
	swellPeriod float64

	lat       float64
	lng       float64
	beachName string
	apiURL    string
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "surfcast",
	Short: "Rate surf conditions from the command line",
	Long:  `Score single forecast points or fetch and rate the Open-Meteo marine forecast for a beach.`,
}

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Rate a single forecast point",
	Long:  `Compute the 1-5 rating for one set of wave, wind and swell readings and print the sub-scores.`,
	RunE:  runRate,
}

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Fetch and rate the forecast for a beach",
	Long:  `Fetch the hourly marine forecast from Open-Meteo for one beach and print the rated forecast as JSON.`,
	RunE:  runForecast,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rateCmd.Flags().StringVarP(&facing, "facing", "p", "E", "Beach position (N, E, S, W)")
	rateCmd.Flags().Float64Var(&waveDir, "wave-dir", 0, "Wave direction in degrees")
	rateCmd.Flags().Float64Var(&windDir, "wind-dir", 0, "Wind direction in degrees")
	rateCmd.Flags().Float64Var(&swellHeight, "swell-height", 0, "Swell height in metres")
	rateCmd.Flags().Float64Var(&swellPeriod, "swell-period", 0, "Swell period in seconds")

	forecastCmd.Flags().Float64Var(&lat, "lat", 0, "Beach latitude")
	forecastCmd.Flags().Float64Var(&lng, "lng", 0, "Beach longitude")
	forecastCmd.Flags().StringVarP(&facing, "position", "p", "E", "Beach position (N, E, S, W)")
	forecastCmd.Flags().StringVarP(&beachName, "name", "n", "beach", "Beach name")
	forecastCmd.Flags().StringVar(&apiURL, "url", openmeteo.DefaultBaseURL, "Open-Meteo marine API base URL")
	forecastCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "HTTP timeout")
	_ = forecastCmd.MarkFlagRequired("lat")
	_ = forecastCmd.MarkFlagRequired("lng")

	rootCmd.AddCommand(rateCmd, forecastCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runRate(cmd *cobra.Command, _ []string) error {
	position, err := domain.ParseGeoPosition(facing)
	if err != nil {
		return err
	}

	beach := domain.Beach{Name: "cli", Position: position}
	point := domain.ForecastPoint{
		WaveDirection: waveDir,
		WindDirection: windDir,
		SwellHeight:   swellHeight,
		SwellPeriod:   swellPeriod,
	}

	out := cmd.OutOrStdout()
	waveSector := domain.SectorOf(waveDir)
	windSector := domain.SectorOf(windDir)
	if verbose {
		fmt.Fprintf(out, "wave sector:  %s\n", waveSector)
		fmt.Fprintf(out, "wind sector:  %s\n", windSector)
		fmt.Fprintf(out, "relational:   %d\n", domain.RelationalScore(waveSector, windSector))
		fmt.Fprintf(out, "swell size:   %d\n", domain.SizeScore(swellHeight))
		fmt.Fprintf(out, "swell period: %d\n", domain.PeriodScore(swellPeriod))
	}
	fmt.Fprintf(out, "rating: %d\n", domain.ScorePoint(beach, point))
	return nil
}

func runForecast(cmd *cobra.Command, _ []string) error {
	beach := domain.Beach{Name: beachName, Lat: lat, Lng: lng}
	position, err := domain.ParseGeoPosition(facing)
	if err != nil {
		return err
	}
	beach.Position = position
	if err := beach.Validate(); err != nil {
		return err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	logger := observability.NewLogger(&config.Config{LogLevel: level, LogFormat: "text"})
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 2*timeout)
	defer cancel()

	client := openmeteo.NewClient(apiURL, timeout, metrics, logger)
	svc := forecast.NewService(client, domain.Rating{}, logger, metrics, 1)

	forecasts, err := svc.BuildForecast(ctx, []domain.Beach{beach})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(forecasts)
}
