package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is one processed domain event, kept for audit trail purposes.
type Event struct {
	ID         uuid.UUID       `json:"id"`
	EventType  string          `json:"event_type"`
	Email      string          `json:"email"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type Repository interface {
	Save(ctx context.Context, e *Event) error
}
