package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/getauthentic/backend/adapters/event"
	"github.com/getauthentic/backend/internal/domain/user"
	"github.com/getauthentic/backend/pkg/apperror"
	"github.com/getauthentic/backend/pkg/logger"
)

type VerifyEmailUseCase struct {
	userRepo    user.Repository
	kafkaClient *event.KafkaProducerClient
	logger      logger.Logger
}

func NewVerifyEmailUseCase(repo user.Repository, k *event.KafkaProducerClient, log logger.Logger) *VerifyEmailUseCase {
	return &VerifyEmailUseCase{userRepo: repo, kafkaClient: k, logger: log}
}

type VerifyEmailInput struct {
	Token string
	Email string
}

// Execute consumes the one-time verification token. A second call with the
// same token fails because the first call cleared it.
func (uc *VerifyEmailUseCase) Execute(ctx context.Context, input VerifyEmailInput) error {
	if input.Token == "" || input.Email == "" {
		return apperror.NewInvalidInput("token and email are required", nil)
	}

	err := uc.userRepo.MarkVerified(ctx, input.Email, input.Token)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return apperror.NewInvalidInput("invalid or already used verification link", nil)
		}
		return apperror.NewInternal("failed to verify email", err)
	}

	if uc.kafkaClient != nil {
		go func() {
			payload := event.BrandingEventPayload{
				EventType: event.BrandingEventTypeVerified,
				Email:     input.Email,
			}
			if err := uc.kafkaClient.PublishBrandingEvent(context.Background(), payload); err != nil {
				uc.logger.Error("Failed to publish 'user.verified' event", err, zap.String("email", input.Email))
			}
		}()
	}

	return nil
}
