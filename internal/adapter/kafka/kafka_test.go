package kafka

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2020, 4, 26, 3, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { domain.SetClock(nil) })

	forecasts := []domain.TimeForecast{{
		Time: "2020-04-26T00:00:00+00:00",
		Forecast: []domain.BeachForecast{{
			Name:          "Manly",
			Position:      domain.East,
			Rating:        3,
			ForecastPoint: domain.ForecastPoint{Time: "2020-04-26T00:00:00+00:00", SwellHeight: 0.7},
		}},
	}}

	msg, err := serializeToMessage("user-1", forecasts)
	require.NoError(t, err)

	assert.Equal(t, []byte("user-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"name":"Manly"`)
	assert.Contains(t, string(msg.Value), `"rating":3`)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "user_id", msg.Headers[0].Key)
	assert.Equal(t, []byte("user-1"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeToMessage_NilForecastIsEmptyArray(t *testing.T) {
	msg, err := serializeToMessage("user-2", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(msg.Value))
}
