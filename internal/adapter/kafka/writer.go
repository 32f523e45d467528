package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/surf-forecast-service/internal/config"
	"github.com/couchcryptid/surf-forecast-service/internal/domain"
)

// Writer produces per-user forecast snapshots to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured forecast topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaForecastTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes one message holding a user's full forecast. Messages are
// keyed by user so a compacted topic keeps the latest forecast per user.
func (w *Writer) Publish(ctx context.Context, userID string, forecasts []domain.TimeForecast) error {
	msg, err := serializeToMessage(userID, forecasts)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write forecast message: %w", err)
	}
	w.logger.Debug("forecast published", "user_id", userID, "hours", len(forecasts))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a user's forecast into a Kafka message.
func serializeToMessage(userID string, forecasts []domain.TimeForecast) (kafkago.Message, error) {
	if forecasts == nil {
		forecasts = []domain.TimeForecast{}
	}
	data, err := json.Marshal(forecasts)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize forecast: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(userID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "user_id", Value: []byte(userID)},
			{Key: "generated_at", Value: []byte(domain.Now().UTC().Format(time.RFC3339))},
		},
	}, nil
}
