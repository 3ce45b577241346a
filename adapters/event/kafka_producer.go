package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/getauthentic/backend/internal/config"
)

const TopicBrandingEvents = "branding.events"

const (
	BrandingEventTypeSignedUp              = "user.signed_up"
	BrandingEventTypeVerified              = "user.verified"
	BrandingEventTypeQuizCompleted         = "quiz.completed"
	BrandingEventTypeSubscriptionActivated = "subscription.activated"
)

// BrandingEventPayload is the wire format of a branding.events message.
type BrandingEventPayload struct {
	EventID    uuid.UUID `json:"event_id"`
	EventType  string    `json:"event_type"`
	Email      string    `json:"email"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type KafkaProducerClient struct {
	BrandingEventsWriter *kafka.Writer
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	brandingWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicBrandingEvents,
		Balancer: &kafka.LeastBytes{},
	}

	return &KafkaProducerClient{BrandingEventsWriter: brandingWriter}, nil
}

func (c *KafkaProducerClient) PublishBrandingEvent(ctx context.Context, payload BrandingEventPayload) error {
	if payload.EventID == uuid.Nil {
		payload.EventID = uuid.New()
	}
	if payload.OccurredAt.IsZero() {
		payload.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal branding event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(payload.Email),
		Value: value,
	}
	if err := c.BrandingEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write branding event: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.BrandingEventsWriter != nil {
		c.BrandingEventsWriter.Close()
	}
}
