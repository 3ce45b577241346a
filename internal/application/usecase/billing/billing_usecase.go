package billing

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/getauthentic/backend/internal/application/service"
	"github.com/getauthentic/backend/internal/domain/user"
	"github.com/getauthentic/backend/pkg/apperror"
	"github.com/getauthentic/backend/pkg/logger"
)

const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"
)

// Plans maps the public plan names onto payment-processor price IDs.
type Plans struct {
	MonthlyPriceID string
	YearlyPriceID  string
}

func (p Plans) PriceID(plan string) (string, bool) {
	switch plan {
	case PlanMonthly:
		return p.MonthlyPriceID, true
	case PlanYearly:
		return p.YearlyPriceID, true
	}
	return "", false
}

// PlanForPriceID is the reverse lookup used by the webhook to tag the
// subscription type.
func (p Plans) PlanForPriceID(priceID string) string {
	switch priceID {
	case p.MonthlyPriceID:
		return PlanMonthly
	case p.YearlyPriceID:
		return PlanYearly
	}
	return ""
}

type BillingUseCase struct {
	userRepo    user.Repository
	provider    service.BillingProvider
	plans       Plans
	frontendURL string
	logger      logger.Logger
}

func NewBillingUseCase(repo user.Repository, provider service.BillingProvider, plans Plans, frontendURL string, log logger.Logger) *BillingUseCase {
	return &BillingUseCase{
		userRepo:    repo,
		provider:    provider,
		plans:       plans,
		frontendURL: frontendURL,
		logger:      log,
	}
}

func (uc *BillingUseCase) SubscriptionStatus(ctx context.Context, email string) (bool, error) {
	u, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return false, apperror.NewNotFound("user", email)
		}
		return false, apperror.NewInternal("failed to look up user", err)
	}
	return u.Subscribed, nil
}

// Activate is the direct, non-webhook path. The route serving it is gated to
// authenticated callers; the webhook remains the source of truth for paid
// activation.
func (uc *BillingUseCase) Activate(ctx context.Context, email string) error {
	err := uc.userRepo.SetSubscribedByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return apperror.NewNotFound("user", email)
		}
		return apperror.NewInternal("failed to activate subscription", err)
	}
	return nil
}

type CheckoutOutput struct {
	CheckoutURL string
}

func (uc *BillingUseCase) CreateCheckoutSession(ctx context.Context, email, plan string) (*CheckoutOutput, error) {
	priceID, ok := uc.plans.PriceID(plan)
	if !ok {
		return nil, apperror.NewInvalidInput("unknown plan: "+plan, nil)
	}

	u, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperror.NewNotFound("user", email)
		}
		return nil, apperror.NewInternal("failed to look up user", err)
	}

	customerID := u.StripeCustomerID
	if customerID == "" {
		customerID, err = uc.provider.CreateCustomer(ctx, u.Email, u.RestaurantName)
		if err != nil {
			return nil, apperror.NewDependency("could not create payment customer", err)
		}
		if err := uc.userRepo.SetStripeCustomerID(ctx, u.Email, customerID); err != nil {
			return nil, apperror.NewInternal("failed to persist payment customer id", err)
		}
		uc.logger.Info("created payment customer", zap.String("email", u.Email))
	}

	successURL := fmt.Sprintf("%s/profile?checkout=success", uc.frontendURL)
	cancelURL := fmt.Sprintf("%s/profile?checkout=cancelled", uc.frontendURL)

	checkoutURL, err := uc.provider.CreateCheckoutSession(ctx, customerID, priceID, successURL, cancelURL)
	if err != nil {
		return nil, apperror.NewDependency("could not create checkout session", err)
	}

	return &CheckoutOutput{CheckoutURL: checkoutURL}, nil
}
