package cropdoc

import "context"

// ContactMessage is a message sent by a grower to the support inbox.
type ContactMessage struct {
	FromEmail string `json:"fromEmail"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// ContactService delivers contact messages.
type ContactService interface {
	// SendContactMessage delivers a message to the configured inbox.
	SendContactMessage(ctx context.Context, msg *ContactMessage) error
}

// ContactConfig holds configuration for contact-message delivery.
type ContactConfig struct {
	// Provider is the delivery provider ("mock" or "postmark").
	Provider string

	// ToAddress is the support inbox address.
	ToAddress string

	// FromAddress is the verified sender address.
	FromAddress string

	// Postmark-specific configuration
	PostmarkServerToken string
}
