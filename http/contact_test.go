package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adjeikofi/cropdoc"
)

func TestContact(t *testing.T) {
	ts := newTestServer(t)

	var sent *cropdoc.ContactMessage
	ts.contact.SendContactMessageFn = func(ctx context.Context, msg *cropdoc.ContactMessage) error {
		sent = msg
		return nil
	}

	rec := postAuthedJSON(ts, "/api/contact", `{"subject": "App feedback", "body": "The diagnosis for my rice field was spot on."}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, sent)
	assert.Equal(t, "App feedback", sent.Subject)
	assert.Equal(t, "grower@example.com", sent.FromEmail, "sender taken from the authenticated user")
}

func TestContact_MissingBody(t *testing.T) {
	ts := newTestServer(t)

	rec := postAuthedJSON(ts, "/api/contact", `{"subject": "Empty"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContact_DeliveryFailure(t *testing.T) {
	ts := newTestServer(t)

	ts.contact.SendContactMessageFn = func(ctx context.Context, msg *cropdoc.ContactMessage) error {
		return cropdoc.Unavailable("postmark request failed", nil)
	}

	rec := postAuthedJSON(ts, "/api/contact", `{"subject": "Hi", "body": "Is anyone there?"}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
