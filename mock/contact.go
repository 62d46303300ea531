package mock

import (
	"context"

	"github.com/adjeikofi/cropdoc"
)

// Compile-time interface check
var _ cropdoc.ContactService = (*ContactService)(nil)

// ContactService is a mock implementation of cropdoc.ContactService.
type ContactService struct {
	SendContactMessageFn func(ctx context.Context, msg *cropdoc.ContactMessage) error
}

func (s *ContactService) SendContactMessage(ctx context.Context, msg *cropdoc.ContactMessage) error {
	if s.SendContactMessageFn != nil {
		return s.SendContactMessageFn(ctx, msg)
	}
	return nil
}
