package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"starwars-api/internal/entity"
)

const (
	EventUserSignedUp    = "user-signedup"
	EventFavoriteAdded   = "favorite-added"
	EventFavoriteRemoved = "favorite-removed"
)

// Event is the payload published after a successful write.
type Event struct {
	Type       string      `json:"type"`
	UserID     int         `json:"user_id"`
	Email      string      `json:"email,omitempty"`
	Kind       entity.Kind `json:"kind,omitempty"`
	TargetID   int         `json:"target_id,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// Key identifies the event on the topic, e.g. "favorite-added-planet-3".
func (e Event) Key() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s-%s-%d", e.Type, e.Kind, e.TargetID)
	}
	return fmt.Sprintf("%s-%d", e.Type, e.UserID)
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// KafkaPublisher writes events to a kafka topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.Key()),
		Value: eventJSON,
	}

	return p.writer.WriteMessages(ctx, msg)
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// publish sends event and only logs failures: the write it describes has
// already been committed.
func publish(ctx context.Context, events EventPublisher, event Event) {
	if events == nil {
		return
	}
	event.OccurredAt = time.Now().UTC()
	if err := events.Publish(ctx, event); err != nil {
		logger.Error().Err(err).Str("key", event.Key()).Msg("Error publishing event")
	}
}
