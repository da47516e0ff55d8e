// Package ionotify publishes load events, one per successfully loaded
// partition file, so downstream consumers can refresh their caches.
package ionotify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/config"
	kafkago "github.com/segmentio/kafka-go"
)

// Event describes a committed load of a partition file.
type Event struct {
	// RunID identifies the command run.
	RunID string `json:"run_id"`

	// FileID is a UUID v5 of tier and path.
	FileID string `json:"file_id"`

	Tier     string    `json:"tier"`
	Path     string    `json:"path"`
	Rows     int       `json:"rows"`
	Regions  []string  `json:"regions"`
	Columns  []string  `json:"columns"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Notifier publishes load events.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
	Close() error
}

// New returns a Kafka notifier, or a no-op one when no brokers are
// configured.
func New(cfg config.NotifyConfig) Notifier {
	if len(cfg.Brokers) == 0 {
		return Noop{}
	}
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return NewKafka(w, cfg.Topic)
}

// Noop drops events.
type Noop struct{}

func (Noop) Notify(context.Context, Event) error { return nil }

func (Noop) Close() error { return nil }

// MessageWriter is the part of kafka-go Writer used by Kafka.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Kafka publishes events to a topic, keyed by file id.
type Kafka struct {
	w     MessageWriter
	topic string
}

// NewKafka wraps a message writer.
func NewKafka(w MessageWriter, topic string) *Kafka {
	return &Kafka{w: w, topic: topic}
}

func (k *Kafka) Notify(ctx context.Context, ev Event) error {
	msg, err := serializeToMessage(ev)
	if err != nil {
		return NotifyError(k.topic, ev.Path, err)
	}
	if err = k.w.WriteMessages(ctx, msg); err != nil {
		return NotifyError(k.topic, ev.Path, err)
	}
	slog.Debug("Load event published", "topic", k.topic, "path", ev.Path)
	return nil
}

func (k *Kafka) Close() error {
	return k.w.Close()
}

func serializeToMessage(ev Event) (kafkago.Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize load event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(ev.FileID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "tier", Value: []byte(ev.Tier)},
			{Key: "loaded_at", Value: []byte(ev.LoadedAt.Format(time.RFC3339))},
		},
	}, nil
}
