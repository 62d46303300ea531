package http

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/adjeikofi/cropdoc"
)

// ContactRequest is a message from the contact form.
type ContactRequest struct {
	Subject string `json:"subject" validate:"required,max=200"`
	Body    string `json:"body" validate:"required,max=5000"`
}

func (s *Server) handleContact(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req ContactRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	msg := &cropdoc.ContactMessage{
		FromEmail: user.Email,
		Subject:   req.Subject,
		Body:      req.Body,
	}

	if err := s.contactService.SendContactMessage(ctx, msg); err != nil {
		return err
	}

	s.log(c).Info("contact message sent",
		slog.String("user_id", user.ID.String()),
		slog.String("subject", req.Subject),
	)

	return RespondSuccess(c, "Message sent")
}
