package domain

import "math"

const (
	minRating = 1
	maxRating = 5
)

// Rating scores forecast points with the package rating rules.
// The zero value is ready to use and safe for concurrent use.
type Rating struct{}

// ScorePoint implements forecast.Scorer.
func (Rating) ScorePoint(beach Beach, point ForecastPoint) int {
	return ScorePoint(beach, point)
}

// ScorePoint rates a single forecast point for a beach on a 1–5 scale.
// The beach does not affect the score today; see the package doc.
func ScorePoint(_ Beach, point ForecastPoint) int {
	windWave := RelationalScore(SectorOf(point.WaveDirection), SectorOf(point.WindDirection))
	swell := float64(SizeScore(point.SwellHeight)+PeriodScore(point.SwellPeriod)) / 2

	return clampRating(math.Floor((float64(windWave) + swell) / 2))
}

// SectorOf buckets a direction in degrees into a compass sector.
func SectorOf(degrees float64) GeoPosition {
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return North
	}
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}

	switch {
	case d >= 310 || d < 50:
		return North
	case d < 120:
		return East
	case d < 220:
		return South
	default:
		return West
	}
}

// RelationalScore compares the wave sector with the wind sector:
// onshore (same) 1, offshore (opposite) 5, cross 3.
func RelationalScore(wave, wind GeoPosition) int {
	switch {
	case wave == wind:
		return 1
	case wave.Opposite() == wind:
		return 5
	default:
		return 3
	}
}

// SizeScore rates swell height in meters.
func SizeScore(height float64) int {
	switch {
	case math.IsNaN(height) || height < 0.5:
		return 1
	case height < 1.0:
		return 2
	case height < 2.0:
		return 3
	case height < 2.5:
		return 4
	default:
		return 5
	}
}

// PeriodScore rates swell period in seconds. There is no bucket for 3.
func PeriodScore(period float64) int {
	switch {
	case math.IsNaN(period) || period < 7:
		return 1
	case period < 10:
		return 2
	case period < 14:
		return 4
	default:
		return 5
	}
}

// ClampRating bounds a rating to the 1-5 scale.
func ClampRating(rating int) int {
	return max(minRating, min(maxRating, rating))
}

func clampRating(v float64) int {
	if math.IsNaN(v) || v < minRating {
		return minRating
	}
	if v > maxRating {
		return maxRating
	}
	return int(v)
}
