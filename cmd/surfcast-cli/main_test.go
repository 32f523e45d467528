package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
)

func TestRateCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"rate", "-v",
		"--facing", "E",
		"--wave-dir", "90",
		"--wind-dir", "270",
		"--swell-height", "2.2",
		"--swell-period", "12",
	})

	require.NoError(t, rootCmd.Execute())

	got := out.String()
	assert.Contains(t, got, "wave sector:  E")
	assert.Contains(t, got, "wind sector:  W")
	assert.Contains(t, got, "relational:   5")
	assert.Contains(t, got, "rating: 4")
}

func TestRateCommandRejectsUnknownPosition(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"rate", "--facing", "NE"})

	assert.Error(t, rootCmd.Execute())
}

func TestForecastCommand(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hourly":{
			"time":["2020-04-26T00:00"],
			"wave_height":[2.1],
			"wave_direction":[90],
			"wind_wave_direction":[270],
			"swell_wave_height":[2.2],
			"swell_wave_direction":[95],
			"swell_wave_period":[12]
		}}`))
	}))
	defer api.Close()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"forecast",
		"--url", api.URL,
		"--lat=-33.7923",
		"--lng=151.2897",
		"--position", "E",
		"--name", "Manly",
	})

	require.NoError(t, rootCmd.Execute())

	var got []domain.TimeForecast
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 1)
	require.Len(t, got[0].Forecast, 1)
	assert.Equal(t, "Manly", got[0].Forecast[0].Name)
	assert.Equal(t, 4, got[0].Forecast[0].Rating)
}

func TestForecastCommandHasNoWorkersFlag(t *testing.T) {
	assert.Nil(t, forecastCmd.Flags().Lookup("workers"))

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"forecast", "--workers", "4", "--lat", "1", "--lng", "1"})

	assert.Error(t, rootCmd.Execute())
}
