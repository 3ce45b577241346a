package service

import "context"

// WebhookEvent is the subset of a payment-processor event the billing
// use cases care about.
type WebhookEvent struct {
	ID         string
	Type       string
	CustomerID string
	PriceID    string
}

const EventCheckoutCompleted = "checkout.session.completed"

type BillingProvider interface {
	CreateCustomer(ctx context.Context, email, restaurantName string) (string, error)
	CreateCheckoutSession(ctx context.Context, customerID, priceID, successURL, cancelURL string) (string, error)
	// ParseWebhookEvent verifies the payload signature against the shared
	// signing secret before decoding. A bad signature is an error.
	ParseWebhookEvent(payload []byte, signature string) (WebhookEvent, error)
}
