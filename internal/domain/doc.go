// Package domain models beaches, hourly marine forecast points and the rules
// that turn them into a surf quality rating.
//
// # Data Source
//
// Forecast points come from the Open-Meteo Marine API
// (https://open-meteo.com/en/docs/marine-weather-api). The adapter in
// internal/adapter/openmeteo requests hourly wave, swell and wind-wave values
// for a beach's coordinates and normalizes the columnar response into one
// [ForecastPoint] per hour. Timestamps are kept as the provider's ISO-8601
// strings and are never parsed; grouping relies on exact string equality.
//
// # Compass Sectors
//
// Every direction in degrees is bucketed into one of four sectors. Boundaries
// are half-open and the input is taken modulo 360:
//
//	North: [310, 360) and [0, 50)
//	East:  [50, 120)
//	South: [120, 220)
//	West:  [220, 310)
//
// So 50 is East, 310 is North and 360 is North. Non-finite input (NaN, ±Inf)
// falls back to North so that scoring stays total.
//
// # Rating
//
// A point is scored from 1 (flat or blown out) to 5 (classic) by combining:
//
//	Wind vs wave:  same sector 1 (onshore) | opposite 5 (offshore) | adjacent 3 (cross)
//	Swell height:  <0.5m 1 | <1.0m 2 | <2.0m 3 | <2.5m 4 | ≥2.5m 5
//	Swell period:  <7s 1 | <10s 2 | <14s 4 | ≥14s 5   (3 is never produced)
//
// The swell score is the mean of the height and period scores, kept
// fractional. The final rating is floor((windWave + swell) / 2), clamped to
// [1, 5]. Truncation matters: 3.75 rates 3, not 4.
//
// The wind/wave comparison uses the sector of the point's wave direction, not
// the beach's stored facing. A beach's Position is carried through to the
// output for display only.
//
// # Aggregation
//
// Scored points from every beach are grouped by timestamp in first-seen order
// and each group is stable-sorted by rating, best first. See the forecast
// package for the orchestration.
package domain
