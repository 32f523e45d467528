package domain

import "context"

// WeatherSource supplies hourly forecast points for a coordinate.
type WeatherSource interface {
	FetchPoints(ctx context.Context, lat, lng float64) ([]ForecastPoint, error)
}
