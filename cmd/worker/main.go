package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/getauthentic/backend/adapters/event"
	"github.com/getauthentic/backend/adapters/persistence"
	"github.com/getauthentic/backend/internal/config"
	"github.com/getauthentic/backend/internal/domain/audit"
	"github.com/getauthentic/backend/pkg/logger"
)

// The worker drains branding.events into the audit_events table so signups,
// verifications, quiz completions and activations stay queryable.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	appLogger.Info("Starting GetAuthentic audit worker...")

	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	auditRepo := persistence.NewPostgresAuditRepo(dbPool)

	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicBrandingEvents,
		GroupID:  "audit-writer-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer consumer.Close()

	appLogger.Info("Worker listening on topic '" + event.TopicBrandingEvents + "'...")

	ctx := context.Background()
	for {
		msg, err := consumer.ReadMessage(ctx)
		if err != nil {
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		var payload event.BrandingEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			appLogger.Error("Failed to unmarshal event, skipping", err)
			commitMessage(consumer, msg, appLogger)
			continue
		}

		entry := &audit.Event{
			ID:         payload.EventID,
			EventType:  payload.EventType,
			Email:      payload.Email,
			Payload:    msg.Value,
			OccurredAt: payload.OccurredAt,
		}
		if err := auditRepo.Save(ctx, entry); err != nil {
			appLogger.Error("Failed to store audit event", err)
			continue
		}

		commitMessage(consumer, msg, appLogger)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message, log logger.Logger) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Error("Failed to commit message", err)
	}
}
