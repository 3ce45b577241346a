package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/getauthentic/backend/internal/application/service"
	"github.com/getauthentic/backend/internal/config"
	"github.com/getauthentic/backend/pkg/logger"
)

type stripeAdapter struct {
	webhookSecret string
	log           logger.Logger
}

func NewStripeAdapter(cfg config.Config, log logger.Logger) (service.BillingProvider, error) {
	if cfg.Stripe.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key has not config")
	}
	stripe.Key = cfg.Stripe.SecretKey

	return &stripeAdapter{
		webhookSecret: cfg.Stripe.WebhookSecret,
		log:           log,
	}, nil
}

func (a *stripeAdapter) CreateCustomer(ctx context.Context, email, restaurantName string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(restaurantName),
	}
	params.Context = ctx

	cust, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe customer create failed: %w", err)
	}
	return cust.ID, nil
}

func (a *stripeAdapter) CreateCheckoutSession(ctx context.Context, customerID, priceID, successURL, cancelURL string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	// Carried through to the checkout.session.completed event so the webhook
	// can tag the subscription type without expanding line items.
	params.AddMetadata("price_id", priceID)
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe checkout session create failed: %w", err)
	}
	return sess.URL, nil
}

func (a *stripeAdapter) ParseWebhookEvent(payload []byte, signature string) (service.WebhookEvent, error) {
	ev, err := webhook.ConstructEvent(payload, signature, a.webhookSecret)
	if err != nil {
		return service.WebhookEvent{}, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	out := service.WebhookEvent{
		ID:   ev.ID,
		Type: string(ev.Type),
	}

	if out.Type == service.EventCheckoutCompleted {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(ev.Data.Raw, &sess); err != nil {
			return service.WebhookEvent{}, fmt.Errorf("failed to decode checkout session payload: %w", err)
		}
		if sess.Customer != nil {
			out.CustomerID = sess.Customer.ID
		}
		// The price is not expanded on checkout.session.completed; the
		// subscription plan tag is resolved from session metadata instead.
		if sess.Metadata != nil {
			out.PriceID = sess.Metadata["price_id"]
		}
	}

	return out, nil
}
