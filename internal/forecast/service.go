package forecast

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
	"github.com/couchcryptid/surf-forecast-service/internal/observability"
)

// Scorer rates one forecast point for a beach.
type Scorer interface {
	ScorePoint(beach domain.Beach, point domain.ForecastPoint) int
}

// Service builds time-grouped, rated forecasts for a set of beaches.
type Service struct {
	source      domain.WeatherSource
	scorer      Scorer
	logger      *slog.Logger
	metrics     *observability.Metrics
	concurrency int
}

// NewService creates a forecast Service. A nil scorer uses domain.Rating;
// ratings from any scorer are clamped to 1-5.
// Concurrency below 2 fetches beaches one at a time.
func NewService(source domain.WeatherSource, scorer Scorer, logger *slog.Logger, metrics *observability.Metrics, concurrency int) *Service {
	if scorer == nil {
		scorer = domain.Rating{}
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		source:      source,
		scorer:      scorer,
		logger:      logger,
		metrics:     metrics,
		concurrency: concurrency,
	}
}

// BuildForecast fetches, rates and groups forecast points for the beaches.
// Groups keep first-seen timestamp order and each group is ordered by rating,
// best first, with ties left in beach order. Any fetch failure aborts the
// whole build with a *domain.ProcessingError.
func (s *Service) BuildForecast(ctx context.Context, beaches []domain.Beach) ([]domain.TimeForecast, error) {
	start := time.Now()
	s.logger.Info("preparing forecast", "beaches", len(beaches))

	rated, err := s.rateBeaches(ctx, beaches)
	if err != nil {
		s.logger.Error("forecast processing failed", "error", err)
		s.metrics.ForecastErrors.Inc()
		return nil, &domain.ProcessingError{Err: err}
	}

	forecasts := groupByTime(slices.Concat(rated...))
	for i := range forecasts {
		slices.SortStableFunc(forecasts[i].Forecast, func(a, b domain.BeachForecast) int {
			return b.Rating - a.Rating
		})
	}

	s.metrics.ForecastsBuilt.Inc()
	s.metrics.BeachesPerForecast.Observe(float64(len(beaches)))
	s.metrics.ForecastDuration.Observe(time.Since(start).Seconds())
	return forecasts, nil
}

// rateBeaches returns one slice of rated points per beach, indexed like beaches.
func (s *Service) rateBeaches(ctx context.Context, beaches []domain.Beach) ([][]domain.BeachForecast, error) {
	rated := make([][]domain.BeachForecast, len(beaches))

	if s.concurrency == 1 {
		for i, beach := range beaches {
			out, err := s.rateBeach(ctx, beach)
			if err != nil {
				return nil, err
			}
			rated[i] = out
		}
		return rated, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, beach := range beaches {
		g.Go(func() error {
			out, err := s.rateBeach(gctx, beach)
			if err != nil {
				return err
			}
			rated[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rated, nil
}

func (s *Service) rateBeach(ctx context.Context, beach domain.Beach) ([]domain.BeachForecast, error) {
	fetchStart := time.Now()
	points, err := s.source.FetchPoints(ctx, beach.Lat, beach.Lng)
	s.metrics.ForecastFetchLatency.Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		s.logger.Warn("weather fetch failed",
			"beach", beach.Name,
			"lat", beach.Lat,
			"lng", beach.Lng,
			"error", err,
		)
		return nil, err
	}

	out := make([]domain.BeachForecast, 0, len(points))
	for _, point := range points {
		rating := domain.ClampRating(s.scorer.ScorePoint(beach, point))
		s.metrics.PointsRated.WithLabelValues(strconv.Itoa(rating)).Inc()
		out = append(out, domain.BeachForecast{
			Lat:           beach.Lat,
			Lng:           beach.Lng,
			Name:          beach.Name,
			Position:      beach.Position,
			Rating:        rating,
			ForecastPoint: point,
		})
	}
	return out, nil
}

// groupByTime buckets entries by exact time string, in first-seen order.
func groupByTime(entries []domain.BeachForecast) []domain.TimeForecast {
	forecasts := []domain.TimeForecast{}
	index := make(map[string]int)

	for _, entry := range entries {
		i, ok := index[entry.Time]
		if !ok {
			i = len(forecasts)
			index[entry.Time] = i
			forecasts = append(forecasts, domain.TimeForecast{Time: entry.Time})
		}
		forecasts[i].Forecast = append(forecasts[i].Forecast, entry)
	}
	return forecasts
}
