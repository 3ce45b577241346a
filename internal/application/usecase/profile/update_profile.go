package profile

import (
	"context"
	"errors"

	"github.com/getauthentic/backend/internal/domain/user"
	"github.com/getauthentic/backend/pkg/apperror"
	"github.com/getauthentic/backend/pkg/logger"
)

type UpdateProfileUseCase struct {
	userRepo user.Repository
	logger   logger.Logger
}

func NewUpdateProfileUseCase(repo user.Repository, log logger.Logger) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{userRepo: repo, logger: log}
}

type UpdateProfileInput struct {
	// Email identifies the record being updated. The frontend sends the
	// account email in the contact_email field of the payload.
	Email  string
	Update user.ProfileUpdate
}

func (uc *UpdateProfileUseCase) Execute(ctx context.Context, input UpdateProfileInput) error {
	if input.Email == "" {
		return apperror.NewInvalidInput("contact_email is required to resolve the account", nil)
	}

	err := uc.userRepo.UpdateProfile(ctx, input.Email, input.Update)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return apperror.NewNotFound("user", input.Email)
		}
		return apperror.NewInternal("failed to update profile", err)
	}
	return nil
}
