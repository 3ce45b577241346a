package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("user not exist")
	ErrDuplicate = errors.New("user already exist")
)

// ChatTurn is one message of the persisted assistant conversation.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// QuizResult is the stored branding assessment outcome.
type QuizResult struct {
	Scores         []float64 `json:"scores"`
	Categories     []string  `json:"categories"`
	ProfileType    string    `json:"profile_type"`
	ResultImageURL string    `json:"result_image_url"`
}

type User struct {
	ID                uuid.UUID   `json:"id"`
	Email             string      `json:"email"`
	RestaurantName    string      `json:"restaurant_name"`
	PasswordHash      string      `json:"-"`
	IsVerified        bool        `json:"is_verified"`
	VerificationToken *string     `json:"-"`
	OwnerName         string      `json:"owner_name"`
	Location          string      `json:"location"`
	BusinessType      string      `json:"business_type"`
	CurrentPosition   string      `json:"current_position"`
	Phone             *string     `json:"phone"`
	ContactEmail      *string     `json:"contact_email"`
	Website           *string     `json:"website"`
	Description       *string     `json:"description"`
	ResultImageURL    string      `json:"result_image_url"`
	QuizResult        *QuizResult `json:"quiz_result"`
	Subscribed        bool        `json:"subscribed"`
	StripeCustomerID  string      `json:"-"`
	SubscriptionType  string      `json:"subscription_type"`
	ChatHistory       []ChatTurn  `json:"-"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// ProfileCompleted reports whether the four required onboarding fields are
// all filled in. It is derived on every login, never stored.
func (u *User) ProfileCompleted() bool {
	return u.OwnerName != "" && u.Location != "" && u.BusinessType != "" && u.CurrentPosition != ""
}

// ProfileUpdate carries the fields of a profile-update payload. Nil pointers
// mean "not provided, keep the stored value"; present fields overwrite.
type ProfileUpdate struct {
	OwnerName       *string
	Location        *string
	BusinessType    *string
	CurrentPosition *string
	Phone           *string
	ContactEmail    *string
	Website         *string
	Description     *string
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	Delete(ctx context.Context, email string) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindByIdentifier matches on email or restaurant name. Restaurant names
	// are not unique; the oldest matching record wins.
	FindByIdentifier(ctx context.Context, identifier string) (*User, error)
	FindByStripeCustomerID(ctx context.Context, customerID string) (*User, error)
	MarkVerified(ctx context.Context, email, token string) error
	UpdateProfile(ctx context.Context, email string, upd ProfileUpdate) error
	SetResultImageURL(ctx context.Context, email, url string) error
	SetQuizResult(ctx context.Context, email string, result *QuizResult) error
	SetStripeCustomerID(ctx context.Context, email, customerID string) error
	SetSubscribedByEmail(ctx context.Context, email string) error
	SetSubscribedByCustomerID(ctx context.Context, customerID, subscriptionType string) error
	SetChatHistory(ctx context.Context, email string, history []ChatTurn) error
}
