package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/getauthentic/backend/internal/domain/user"
	"github.com/getauthentic/backend/pkg/apperror"
	"github.com/getauthentic/backend/pkg/auth"
	"github.com/getauthentic/backend/pkg/logger"
)

type LoginUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	logger   logger.Logger
}

func NewLoginUseCase(repo user.Repository, jwtSvc *auth.JWTService, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		userRepo: repo,
		jwtSvc:   jwtSvc,
		logger:   log,
	}
}

type LoginInput struct {
	// Identifier is the account email or the restaurant display name.
	Identifier string
	Password   string
}

type LoginOutput struct {
	RestaurantName   string
	Email            string
	ProfileCompleted bool
	AccessToken      string
}

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	u, err := uc.userRepo.FindByIdentifier(ctx, input.Identifier)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperror.NewUnauthorized("no account matches identifier", nil)
		}
		return nil, apperror.NewInternal("failed to look up user", err)
	}

	if !auth.CheckPasswordHash(input.Password, u.PasswordHash) {
		return nil, apperror.NewUnauthorized("incorrect password", nil)
	}

	if !u.IsVerified {
		return nil, apperror.NewForbidden("Email not verified", "verify the email address before logging in")
	}

	token, err := uc.jwtSvc.GenerateToken(u.Email)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("email", u.Email))
		return nil, apperror.NewInternal("failed to generate token", err)
	}

	return &LoginOutput{
		RestaurantName:   u.RestaurantName,
		Email:            u.Email,
		ProfileCompleted: u.ProfileCompleted(),
		AccessToken:      token,
	}, nil
}
