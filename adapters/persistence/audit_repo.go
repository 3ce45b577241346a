package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/getauthentic/backend/internal/domain/audit"
)

type postgresAuditRepo struct {
	db *pgxpool.Pool
}

func NewPostgresAuditRepo(db *pgxpool.Pool) audit.Repository {
	return &postgresAuditRepo{db: db}
}

func (r *postgresAuditRepo) Save(ctx context.Context, e *audit.Event) error {
	query := `
		INSERT INTO audit_events (id, event_type, email, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, e.ID, e.EventType, e.Email, e.Payload, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}
	return nil
}
