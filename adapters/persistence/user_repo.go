package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/getauthentic/backend/internal/domain/user"
	"github.com/getauthentic/backend/pkg/logger"
)

type postgresUserRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresUserRepo(db *pgxpool.Pool, log logger.Logger) user.Repository {
	return &postgresUserRepo{db: db, logger: log}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const userColumns = `
	id, email, restaurant_name, password_hash, is_verified, verification_token,
	owner_name, location, business_type, current_position,
	phone, contact_email, website, description,
	result_image_url, quiz_result, subscribed, stripe_customer_id,
	subscription_type, chat_history, created_at, updated_at
`

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	var quizResultBytes, chatHistoryBytes []byte

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.RestaurantName,
		&u.PasswordHash,
		&u.IsVerified,
		&u.VerificationToken,
		&u.OwnerName,
		&u.Location,
		&u.BusinessType,
		&u.CurrentPosition,
		&u.Phone,
		&u.ContactEmail,
		&u.Website,
		&u.Description,
		&u.ResultImageURL,
		&quizResultBytes,
		&u.Subscribed,
		&u.StripeCustomerID,
		&u.SubscriptionType,
		&chatHistoryBytes,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}

	if len(quizResultBytes) > 0 {
		qr := &user.QuizResult{}
		if err := json.Unmarshal(quizResultBytes, qr); err == nil {
			u.QuizResult = qr
		}
	}

	u.ChatHistory = []user.ChatTurn{}
	if len(chatHistoryBytes) > 0 {
		if err := json.Unmarshal(chatHistoryBytes, &u.ChatHistory); err != nil {
			u.ChatHistory = []user.ChatTurn{}
		}
	}
	return u, nil
}

func (r *postgresUserRepo) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (
			id, email, restaurant_name, password_hash, is_verified, verification_token,
			owner_name, location, business_type, current_position,
			result_image_url, subscribed, stripe_customer_id, subscription_type,
			chat_history, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	historyBytes, err := json.Marshal(u.ChatHistory)
	if err != nil {
		return fmt.Errorf("failed to marshal chat_history: %w", err)
	}

	_, err = r.db.Exec(ctx, query,
		u.ID,
		u.Email,
		u.RestaurantName,
		u.PasswordHash,
		u.IsVerified,
		u.VerificationToken,
		u.OwnerName,
		u.Location,
		u.BusinessType,
		u.CurrentPosition,
		u.ResultImageURL,
		u.Subscribed,
		u.StripeCustomerID,
		u.SubscriptionType,
		historyBytes,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		// Signup checks existence first, but two concurrent signups can both
		// pass that check; the unique constraint decides the loser.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.ErrDuplicate
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *postgresUserRepo) Delete(ctx context.Context, email string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM users WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *postgresUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *postgresUserRepo) FindByIdentifier(ctx context.Context, identifier string) (*user.User, error) {
	// Restaurant names are not unique; ORDER BY created_at keeps the
	// ambiguous case deterministic (oldest record wins).
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE email = $1 OR restaurant_name = $1
		ORDER BY created_at
		LIMIT 1
	`, userColumns)
	return scanUser(r.db.QueryRow(ctx, query, identifier))
}

func (r *postgresUserRepo) FindByStripeCustomerID(ctx context.Context, customerID string) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE stripe_customer_id = $1`, userColumns)
	return scanUser(r.db.QueryRow(ctx, query, customerID))
}

func (r *postgresUserRepo) MarkVerified(ctx context.Context, email, token string) error {
	query := `
		UPDATE users
		SET is_verified = TRUE, verification_token = NULL, updated_at = NOW()
		WHERE email = $1 AND verification_token = $2 AND is_verified = FALSE
	`
	ct, err := r.db.Exec(ctx, query, email, token)
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *postgresUserRepo) UpdateProfile(ctx context.Context, email string, upd user.ProfileUpdate) error {
	builder := psql.Update("users").Set("updated_at", time.Now().UTC())

	set := func(column string, value *string) {
		if value != nil {
			builder = builder.Set(column, *value)
		}
	}
	set("owner_name", upd.OwnerName)
	set("location", upd.Location)
	set("business_type", upd.BusinessType)
	set("current_position", upd.CurrentPosition)
	set("phone", upd.Phone)
	set("contact_email", upd.ContactEmail)
	set("website", upd.Website)
	set("description", upd.Description)

	query, args, err := builder.Where(sq.Eq{"email": email}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build profile update: %w", err)
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *postgresUserRepo) SetResultImageURL(ctx context.Context, email, url string) error {
	return r.setField(ctx, email, "result_image_url", url)
}

func (r *postgresUserRepo) SetQuizResult(ctx context.Context, email string, result *user.QuizResult) error {
	resultBytes, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal quiz_result: %w", err)
	}
	return r.setField(ctx, email, "quiz_result", resultBytes)
}

func (r *postgresUserRepo) SetStripeCustomerID(ctx context.Context, email, customerID string) error {
	return r.setField(ctx, email, "stripe_customer_id", customerID)
}

func (r *postgresUserRepo) SetSubscribedByEmail(ctx context.Context, email string) error {
	return r.setField(ctx, email, "subscribed", true)
}

func (r *postgresUserRepo) SetSubscribedByCustomerID(ctx context.Context, customerID, subscriptionType string) error {
	query := `
		UPDATE users
		SET subscribed = TRUE, subscription_type = $2, updated_at = NOW()
		WHERE stripe_customer_id = $1
	`
	ct, err := r.db.Exec(ctx, query, customerID, subscriptionType)
	if err != nil {
		return fmt.Errorf("failed to activate subscription: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *postgresUserRepo) SetChatHistory(ctx context.Context, email string, history []user.ChatTurn) error {
	historyBytes, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal chat_history: %w", err)
	}
	return r.setField(ctx, email, "chat_history", historyBytes)
}

func (r *postgresUserRepo) setField(ctx context.Context, email, column string, value any) error {
	query, args, err := psql.Update("users").
		Set(column, value).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update for %s: %w", column, err)
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("user field update failed", err, zap.String("column", column))
		return fmt.Errorf("failed to update %s: %w", column, err)
	}
	if ct.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}
