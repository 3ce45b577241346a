package billing

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/getauthentic/backend/adapters/event"
	"github.com/getauthentic/backend/internal/application/service"
	"github.com/getauthentic/backend/internal/domain/user"
	"github.com/getauthentic/backend/pkg/apperror"
	"github.com/getauthentic/backend/pkg/logger"
)

type WebhookUseCase struct {
	userRepo    user.Repository
	provider    service.BillingProvider
	plans       Plans
	redis       *redis.Client
	kafkaClient *event.KafkaProducerClient
	logger      logger.Logger
}

func NewWebhookUseCase(
	repo user.Repository,
	provider service.BillingProvider,
	plans Plans,
	rdb *redis.Client,
	k *event.KafkaProducerClient,
	log logger.Logger,
) *WebhookUseCase {
	return &WebhookUseCase{
		userRepo:    repo,
		provider:    provider,
		plans:       plans,
		redis:       rdb,
		kafkaClient: k,
		logger:      log,
	}
}

const webhookDedupTTL = 24 * time.Hour

// Execute verifies and applies one payment-processor event. Events other than
// checkout completion are acknowledged and ignored. Retried deliveries of an
// already applied event ID are dropped via a Redis marker; when activation
// fails the marker is released again so the processor's retry can land.
func (uc *WebhookUseCase) Execute(ctx context.Context, payload []byte, signature string) error {
	ev, err := uc.provider.ParseWebhookEvent(payload, signature)
	if err != nil {
		return apperror.NewUnauthorized("webhook signature verification failed", err)
	}

	if ev.Type != service.EventCheckoutCompleted {
		uc.logger.Info("ignoring webhook event", zap.String("type", ev.Type))
		return nil
	}

	dedupKey := ""
	if uc.redis != nil && ev.ID != "" {
		dedupKey = "webhook:seen:" + ev.ID
		set, err := uc.redis.SetNX(ctx, dedupKey, 1, webhookDedupTTL).Result()
		if err != nil {
			uc.logger.Warn("webhook dedup check failed, processing anyway", zap.Error(err))
			dedupKey = ""
		} else if !set {
			uc.logger.Info("duplicate webhook delivery dropped", zap.String("event_id", ev.ID))
			return nil
		}
	}

	if ev.CustomerID == "" {
		uc.releaseDedupMarker(ctx, dedupKey)
		return apperror.NewInvalidInput("checkout completed event carries no customer id", nil)
	}

	u, err := uc.userRepo.FindByStripeCustomerID(ctx, ev.CustomerID)
	if err != nil {
		uc.releaseDedupMarker(ctx, dedupKey)
		if errors.Is(err, user.ErrNotFound) {
			return apperror.NewNotFound("customer", ev.CustomerID)
		}
		return apperror.NewInternal("failed to resolve customer", err)
	}

	subscriptionType := uc.plans.PlanForPriceID(ev.PriceID)

	if err := uc.userRepo.SetSubscribedByCustomerID(ctx, ev.CustomerID, subscriptionType); err != nil {
		uc.releaseDedupMarker(ctx, dedupKey)
		return apperror.NewInternal("failed to activate subscription from webhook", err)
	}

	uc.logger.Info("subscription activated",
		zap.String("customer_id", ev.CustomerID),
		zap.String("email", u.Email),
		zap.String("plan", subscriptionType))

	if uc.kafkaClient != nil {
		email := u.Email
		go func() {
			payload := event.BrandingEventPayload{
				EventType: event.BrandingEventTypeSubscriptionActivated,
				Email:     email,
				Detail:    subscriptionType,
			}
			if err := uc.kafkaClient.PublishBrandingEvent(context.Background(), payload); err != nil {
				uc.logger.Error("Failed to publish 'subscription.activated' event", err)
			}
		}()
	}

	return nil
}

// releaseDedupMarker clears the seen-marker for an event that was not applied,
// so a retried delivery is not dropped as a duplicate.
func (uc *WebhookUseCase) releaseDedupMarker(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := uc.redis.Del(context.WithoutCancel(ctx), key).Err(); err != nil {
		uc.logger.Warn("failed to release webhook dedup marker", zap.Error(err))
	}
}
