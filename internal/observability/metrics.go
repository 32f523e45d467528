package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "surf_forecast"

// Metrics holds the Prometheus counters, histograms, and gauges for the forecast service.
type Metrics struct {
	// Aggregation metrics.
	ForecastsBuilt       prometheus.Counter
	ForecastErrors       prometheus.Counter
	ForecastDuration     prometheus.Histogram
	BeachesPerForecast   prometheus.Histogram
	PointsRated          *prometheus.CounterVec // labels: rating={1..5}
	ForecastFetchLatency prometheus.Histogram

	// Open-Meteo metrics.
	WeatherRequests    *prometheus.CounterVec // labels: outcome={success,error}
	WeatherCache       *prometheus.CounterVec // labels: result={hit,miss}
	WeatherAPIDuration prometheus.Histogram

	// Publisher metrics.
	ForecastsPublished prometheus.Counter
	PublishErrors      prometheus.Counter
	RefreshRunning     prometheus.Gauge
}

func newMetrics(help bool) *Metrics {
	h := func(s string) string {
		if help {
			return s
		}
		return ""
	}
	return &Metrics{
		ForecastsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecasts_built_total",
			Help:      h("Total forecasts aggregated successfully."),
		}),
		ForecastErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_errors_total",
			Help:      h("Total forecast aggregations aborted by a weather source failure."),
		}),
		ForecastDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "forecast_duration_seconds",
			Help:      h("Duration of a complete multi-beach forecast aggregation."),
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		BeachesPerForecast: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "beaches_per_forecast",
			Help:      h("Number of beaches in each aggregated forecast."),
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}),
		PointsRated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_rated_total",
			Help:      h("Forecast points rated, by rating."),
		}, []string{"rating"}),
		ForecastFetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "beach_fetch_duration_seconds",
			Help:      h("Duration of a single beach's weather fetch as seen by the aggregator."),
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_requests_total",
			Help:      h("Open-Meteo API requests by outcome."),
		}, []string{"outcome"}),
		WeatherCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_cache_total",
			Help:      h("Weather cache lookups by result."),
		}, []string{"result"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "weather_api_duration_seconds",
			Help:      h("Open-Meteo API request duration in seconds."),
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		ForecastsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecasts_published_total",
			Help:      h("Per-user forecasts written to the forecast topic."),
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      h("Per-user forecasts that could not be built or published."),
		}),
		RefreshRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "refresh_running",
			Help:      h("1 when the scheduled forecast refresher is active, 0 when shut down."),
		}),
	}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)

	prometheus.MustRegister(
		m.ForecastsBuilt,
		m.ForecastErrors,
		m.ForecastDuration,
		m.BeachesPerForecast,
		m.PointsRated,
		m.ForecastFetchLatency,
		m.WeatherRequests,
		m.WeatherCache,
		m.WeatherAPIDuration,
		m.ForecastsPublished,
		m.PublishErrors,
		m.RefreshRunning,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}
