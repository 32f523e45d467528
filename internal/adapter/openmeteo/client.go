package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
	"github.com/couchcryptid/surf-forecast-service/internal/observability"
)

// DefaultBaseURL is the public Open-Meteo Marine API.
const DefaultBaseURL = "https://marine-api.open-meteo.com/v1"

const hourlyParams = "wave_height,wave_direction,wind_wave_direction,swell_wave_height,swell_wave_direction,swell_wave_period"

// Client implements domain.WeatherSource using the Open-Meteo Marine API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo marine client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// FetchPoints returns the hourly marine forecast for a coordinate.
func (c *Client) FetchPoints(ctx context.Context, lat, lng float64) ([]domain.ForecastPoint, error) {
	params := url.Values{
		"latitude":  {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(lng, 'f', -1, 64)},
		"hourly":    {hourlyParams},
	}

	start := time.Now()
	points, err := c.doRequest(ctx, c.baseURL+"/marine?"+params.Encode())
	c.metrics.WeatherAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	c.metrics.WeatherRequests.WithLabelValues("success").Inc()
	c.logger.Debug("fetched marine forecast", "lat", lat, "lng", lng, "points", len(points))
	return points, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]domain.ForecastPoint, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open-meteo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var marine response
	if err := json.NewDecoder(resp.Body).Decode(&marine); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return normalize(marine.Hourly)
}

// normalize turns the columnar hourly arrays into one point per hour. Hours
// with a null in any column (e.g. over land) are skipped.
func normalize(h hourly) ([]domain.ForecastPoint, error) {
	n := len(h.Time)
	columns := map[string][]*float64{
		"wave_height":          h.WaveHeight,
		"wave_direction":       h.WaveDirection,
		"wind_wave_direction":  h.WindWaveDirection,
		"swell_wave_height":    h.SwellWaveHeight,
		"swell_wave_direction": h.SwellWaveDirection,
		"swell_wave_period":    h.SwellWavePeriod,
	}
	for name, col := range columns {
		if len(col) < n {
			return nil, fmt.Errorf("malformed response: %s has %d values for %d hours", name, len(col), n)
		}
	}

	points := make([]domain.ForecastPoint, 0, n)
	for i, ts := range h.Time {
		values := [...]*float64{
			h.WaveHeight[i], h.WaveDirection[i], h.WindWaveDirection[i],
			h.SwellWaveHeight[i], h.SwellWaveDirection[i], h.SwellWavePeriod[i],
		}
		if hasNil(values[:]) {
			continue
		}
		points = append(points, domain.ForecastPoint{
			Time:           ts,
			WaveHeight:     *h.WaveHeight[i],
			WaveDirection:  *h.WaveDirection[i],
			WindDirection:  *h.WindWaveDirection[i],
			SwellHeight:    *h.SwellWaveHeight[i],
			SwellDirection: *h.SwellWaveDirection[i],
			SwellPeriod:    *h.SwellWavePeriod[i],
		})
	}
	return points, nil
}

func hasNil(values []*float64) bool {
	for _, v := range values {
		if v == nil {
			return true
		}
	}
	return false
}

// Open-Meteo API response types.

type response struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Hourly    hourly  `json:"hourly"`
}

type hourly struct {
	Time               []string   `json:"time"`
	WaveHeight         []*float64 `json:"wave_height"`
	WaveDirection      []*float64 `json:"wave_direction"`
	WindWaveDirection  []*float64 `json:"wind_wave_direction"`
	SwellWaveHeight    []*float64 `json:"swell_wave_height"`
	SwellWaveDirection []*float64 `json:"swell_wave_direction"`
	SwellWavePeriod    []*float64 `json:"swell_wave_period"`
}
