//go:build openmeteo

package openmeteo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
	"github.com/couchcryptid/surf-forecast-service/internal/observability"
)

// These tests hit the real Open-Meteo Marine API (no key required).
// Run with: go test -tags=openmeteo ./internal/adapter/openmeteo/ -v -count=1

func smokeClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    DefaultBaseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSmoke_FetchPoints_Manly(t *testing.T) {
	points, err := smokeClient().FetchPoints(context.Background(), -33.792726, 151.289824)
	require.NoError(t, err)

	require.NotEmpty(t, points)
	for _, p := range points[:24] {
		assert.NotEmpty(t, p.Time)
		assert.GreaterOrEqual(t, p.SwellHeight, 0.0)
		rating := domain.ScorePoint(domain.Beach{Position: domain.East}, p)
		assert.GreaterOrEqual(t, rating, 1)
		assert.LessOrEqual(t, rating, 5)
	}
}

func TestSmoke_CachedSource(t *testing.T) {
	cached := NewCachedSource(smokeClient(), 10, time.Minute, observability.NewMetricsForTesting())

	// First call: cache miss → real API call.
	p1, err := cached.FetchPoints(context.Background(), -33.89, 151.27)
	require.NoError(t, err)

	// Second call: cache hit → no API call.
	p2, err := cached.FetchPoints(context.Background(), -33.89, 151.27)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
}
