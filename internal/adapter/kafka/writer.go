// Package kafka publishes cell completion events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/era5-rechunk/internal/config"
	"github.com/couchcryptid/era5-rechunk/internal/domain"
)

// Writer produces completion events to the configured topic.
// It implements rechunk.EventPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the completion-event topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishCellDone serializes one completion event and publishes it, keyed by
// cell name so per-cell ordering is preserved across retries.
func (w *Writer) PublishCellDone(ctx context.Context, result domain.CellResult) error {
	msg, err := serializeToMessage(result)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a CellResult into a Kafka message.
func serializeToMessage(result domain.CellResult) (kafkago.Message, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize cell result: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(result.Cell),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "completed_at", Value: []byte(result.CompletedAt.Format(time.RFC3339))},
		},
	}, nil
}
