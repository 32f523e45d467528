package openmeteo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
	"github.com/couchcryptid/surf-forecast-service/internal/observability"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

// threeHours mirrors a trimmed Open-Meteo marine response.
const threeHours = `{
  "latitude": -33.75,
  "longitude": 151.25,
  "hourly": {
    "time": ["2020-04-26T00:00", "2020-04-26T01:00", "2020-04-26T02:00"],
    "wave_height": [0.46, 0.45, 0.44],
    "wave_direction": [232.12, 232.12, 231.38],
    "wind_wave_direction": [310.48, 299.45, 299.45],
    "swell_wave_height": [0.21, 0.2, 0.15],
    "swell_wave_direction": [123.41, 64.26, 64.26],
    "swell_wave_period": [3.67, 13.89, 13.89]
  }
}`

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_FetchPoints_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/marine", r.URL.Path)
		assert.Equal(t, "-33.792726", r.URL.Query().Get("latitude"))
		assert.Equal(t, "151.289824", r.URL.Query().Get("longitude"))
		assert.Equal(t, hourlyParams, r.URL.Query().Get("hourly"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(threeHours))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	points, err := c.FetchPoints(context.Background(), -33.792726, 151.289824)
	require.NoError(t, err)

	require.Len(t, points, 3)
	assert.Equal(t, domain.ForecastPoint{
		Time:           "2020-04-26T00:00",
		WaveHeight:     0.46,
		WaveDirection:  232.12,
		WindDirection:  310.48,
		SwellHeight:    0.21,
		SwellDirection: 123.41,
		SwellPeriod:    3.67,
	}, points[0])
	assert.Equal(t, "2020-04-26T02:00", points[2].Time)
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.WeatherRequests.WithLabelValues("success")), 0)
}

func TestClient_FetchPoints_SkipsHoursWithNulls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"hourly":{
			"time":["t0","t1"],
			"wave_height":[1.0,null],
			"wave_direction":[90,90],
			"wind_wave_direction":[270,270],
			"swell_wave_height":[1.2,1.2],
			"swell_wave_direction":[90,90],
			"swell_wave_period":[11,11]}}`))
	}))
	defer srv.Close()

	points, err := testClient(srv.URL).FetchPoints(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "t0", points[0].Time)
}

func TestClient_FetchPoints_MalformedColumns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"hourly":{"time":["t0","t1"],"wave_height":[1.0]}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchPoints(context.Background(), 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed response")
}

func TestClient_FetchPoints_EmptyHourly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"hourly":{"time":[]}}`))
	}))
	defer srv.Close()

	points, err := testClient(srv.URL).FetchPoints(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestClient_FetchPoints_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":true,"reason":"Latitude must be in range of -90 to 90°."}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.FetchPoints(context.Background(), 100, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "Latitude must be in range")
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.WeatherRequests.WithLabelValues("error")), 0)
}

func TestClient_FetchPoints_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchPoints(context.Background(), 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_FetchPoints_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.FetchPoints(context.Background(), 0, 0)
	require.Error(t, err)
}

func TestNewClient_DefaultsBaseURL(t *testing.T) {
	c := NewClient("", time.Second, observability.NewMetricsForTesting(), slog.Default())
	assert.Equal(t, DefaultBaseURL, c.baseURL)

	c = NewClient("http://localhost:9999/v1/", time.Second, observability.NewMetricsForTesting(), slog.Default())
	assert.Equal(t, "http://localhost:9999/v1", c.baseURL)
}
