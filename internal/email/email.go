// Package email implements cropdoc.ContactService for contact-form
// delivery via Postmark, with a mock for development.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/keighl/postmark"

	"github.com/adjeikofi/cropdoc"
)

// NewContactService creates a contact service based on the provider configuration.
func NewContactService(logger *slog.Logger, config cropdoc.ContactConfig) cropdoc.ContactService {
	switch config.Provider {
	case "postmark":
		return newPostmarkContactService(logger, config)
	default:
		return newMockContactService(logger, config)
	}
}

// mockContactService logs messages instead of sending them
type mockContactService struct {
	logger *slog.Logger
	config cropdoc.ContactConfig
}

func newMockContactService(logger *slog.Logger, config cropdoc.ContactConfig) *mockContactService {
	return &mockContactService{
		logger: logger,
		config: config,
	}
}

// SendContactMessage logs the contact message instead of sending it
func (s *mockContactService) SendContactMessage(ctx context.Context, msg *cropdoc.ContactMessage) error {
	s.logger.Info("📧 MOCK EMAIL: Contact message",
		slog.String("from", msg.FromEmail),
		slog.String("to", s.config.ToAddress),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body),
	)
	return nil
}

// postmarkContactService sends contact messages via Postmark
type postmarkContactService struct {
	client *postmark.Client
	logger *slog.Logger
	config cropdoc.ContactConfig
}

func newPostmarkContactService(logger *slog.Logger, config cropdoc.ContactConfig) *postmarkContactService {
	client := postmark.NewClient(config.PostmarkServerToken, "")
	return &postmarkContactService{
		client: client,
		logger: logger,
		config: config,
	}
}

// SendContactMessage forwards the message to the support inbox. The
// grower's address goes in ReplyTo so support can answer directly.
func (s *postmarkContactService) SendContactMessage(ctx context.Context, msg *cropdoc.ContactMessage) error {
	email := postmark.Email{
		From:     s.config.FromAddress,
		To:       s.config.ToAddress,
		ReplyTo:  msg.FromEmail,
		Subject:  fmt.Sprintf("Contact form: %s", msg.Subject),
		TextBody: fmt.Sprintf("From: %s\n\n%s", msg.FromEmail, msg.Body),
		Tag:      "contact-form",
	}

	_, err := s.client.SendEmail(email)
	if err != nil {
		s.logger.Error("failed to send contact message via Postmark",
			slog.String("from", msg.FromEmail),
			slog.String("error", err.Error()),
		)
		return cropdoc.Unavailable("Failed to send contact message", err)
	}

	s.logger.Info("contact message sent via Postmark",
		slog.String("from", msg.FromEmail),
		slog.String("subject", msg.Subject),
	)
	return nil
}
