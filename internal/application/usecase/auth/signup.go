package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/getauthentic/backend/adapters/event"
	"github.com/getauthentic/backend/internal/application/service"
	"github.com/getauthentic/backend/internal/domain/user"
	"github.com/getauthentic/backend/pkg/apperror"
	"github.com/getauthentic/backend/pkg/auth"
	"github.com/getauthentic/backend/pkg/logger"
)

type SignupUseCase struct {
	userRepo    user.Repository
	mailer      service.Mailer
	kafkaClient *event.KafkaProducerClient
	logger      logger.Logger
}

func NewSignupUseCase(repo user.Repository, mailer service.Mailer, k *event.KafkaProducerClient, log logger.Logger) *SignupUseCase {
	return &SignupUseCase{
		userRepo:    repo,
		mailer:      mailer,
		kafkaClient: k,
		logger:      log,
	}
}

type SignupInput struct {
	RestaurantName string
	Email          string
	Password       string
}

const mailDeliveryTimeout = 15 * time.Second

func (uc *SignupUseCase) Execute(ctx context.Context, input SignupInput) error {
	_, err := uc.userRepo.FindByEmail(ctx, input.Email)
	if err == nil {
		return apperror.NewConflict("user", "email", input.Email)
	}
	if !errors.Is(err, user.ErrNotFound) {
		return apperror.NewInternal("failed to check existing user", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return apperror.NewInternal("failed to hash password", err)
	}

	token, err := newVerificationToken()
	if err != nil {
		return apperror.NewInternal("failed to generate verification token", err)
	}

	now := time.Now().UTC()
	newUser := &user.User{
		ID:                uuid.New(),
		Email:             input.Email,
		RestaurantName:    input.RestaurantName,
		PasswordHash:      hash,
		IsVerified:        false,
		VerificationToken: &token,
		ChatHistory:       []user.ChatTurn{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := uc.userRepo.Create(ctx, newUser); err != nil {
		if errors.Is(err, user.ErrDuplicate) {
			return apperror.NewConflict("user", "email", input.Email)
		}
		return apperror.NewInternal("failed to create user", err)
	}

	mailCtx, cancel := context.WithTimeout(ctx, mailDeliveryTimeout)
	defer cancel()

	if err := uc.mailer.SendVerificationEmail(mailCtx, input.Email, input.RestaurantName, token); err != nil {
		// Signup is not complete without a deliverable verification email.
		// Remove the record again so the address is not stranded unverifiable.
		if delErr := uc.userRepo.Delete(context.WithoutCancel(ctx), input.Email); delErr != nil {
			uc.logger.Error("compensating delete after mail failure did not succeed", delErr,
				zap.String("email", input.Email))
		}
		return apperror.NewDependency("verification email could not be delivered", err)
	}

	if uc.kafkaClient != nil {
		go func() {
			payload := event.BrandingEventPayload{
				EventType: event.BrandingEventTypeSignedUp,
				Email:     newUser.Email,
			}
			if err := uc.kafkaClient.PublishBrandingEvent(context.Background(), payload); err != nil {
				uc.logger.Error("Failed to publish 'user.signed_up' event", err, zap.String("email", newUser.Email))
			}
		}()
	}

	return nil
}

func newVerificationToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s", uuid.NewString(), hex.EncodeToString(b)), nil
}
