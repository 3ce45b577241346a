package mailer

import (
	"context"
	"fmt"
	"net/url"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"

	"github.com/getauthentic/backend/internal/application/service"
	"github.com/getauthentic/backend/internal/config"
	"github.com/getauthentic/backend/pkg/logger"
)

type mailgunAdapter struct {
	domain      string
	apiKey      string
	sender      string
	frontendURL string
	log         logger.Logger
}

func NewMailgunAdapter(cfg config.Config, log logger.Logger) (service.Mailer, error) {
	if cfg.Mailgun.Domain == "" || cfg.Mailgun.APIKey == "" {
		return nil, fmt.Errorf("mailgun domain/api key has not config")
	}

	return &mailgunAdapter{
		domain:      cfg.Mailgun.Domain,
		apiKey:      cfg.Mailgun.APIKey,
		sender:      cfg.Mailgun.Sender,
		frontendURL: cfg.App.FrontendURL,
		log:         log,
	}, nil
}

func (a *mailgunAdapter) SendVerificationEmail(ctx context.Context, toEmail, restaurantName, token string) error {
	link := fmt.Sprintf("%s/api/verify-email?token=%s&email=%s",
		a.frontendURL, url.QueryEscape(token), url.QueryEscape(toEmail))

	subject := "Verify your GetAuthentic account"
	text := fmt.Sprintf(
		"Hi %s,\n\nPlease confirm your email address to finish creating your account:\n\n%s\n\nIf you did not sign up, you can ignore this message.",
		restaurantName, link)
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>Please confirm your email address to finish creating your account:</p><p><a href="%s">Verify my email</a></p><p>If you did not sign up, you can ignore this message.</p>`,
		restaurantName, link)

	client := mg.NewMailgun(a.domain, a.apiKey)
	msg := client.NewMessage(a.sender, subject, text, toEmail)
	msg.SetHtml(html)

	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, _, err := client.Send(c, msg)
	if err != nil {
		return fmt.Errorf("mailgun send failed: %w", err)
	}
	return nil
}
