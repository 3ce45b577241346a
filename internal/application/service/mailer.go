package service

import "context"

// Mailer delivers transactional mail. The verification link embedding the
// token and email is built by the adapter from the configured frontend URL.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, toEmail, restaurantName, token string) error
}
