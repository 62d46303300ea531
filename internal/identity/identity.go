// Package identity implements cropdoc.IdentityVerifier against an
// external identity provider, with a mock for development.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/adjeikofi/cropdoc"
)

// NewVerifier creates a verifier based on the provider configuration.
func NewVerifier(logger *slog.Logger, config cropdoc.IdentityConfig) cropdoc.IdentityVerifier {
	switch config.Provider {
	case "http":
		return newHTTPVerifier(logger, config)
	default:
		return newMockVerifier(logger)
	}
}

// mockVerifier accepts any token that looks like an email address and
// asserts it as the identity. Development only.
type mockVerifier struct {
	logger *slog.Logger
}

func newMockVerifier(logger *slog.Logger) *mockVerifier {
	return &mockVerifier{logger: logger}
}

func (v *mockVerifier) Verify(ctx context.Context, token string) (*cropdoc.Identity, error) {
	email := strings.TrimSpace(token)
	if email == "" || !strings.Contains(email, "@") {
		return nil, cropdoc.Unauthorized("Invalid identity token")
	}

	v.logger.Info("🔑 MOCK IDENTITY: Accepting token as email",
		slog.String("email", email),
	)

	name := email[:strings.Index(email, "@")]
	return &cropdoc.Identity{Email: email, DisplayName: name}, nil
}

// httpVerifier exchanges the token with the identity provider's verify
// endpoint.
type httpVerifier struct {
	client    *http.Client
	logger    *slog.Logger
	verifyURL string
}

func newHTTPVerifier(logger *slog.Logger, config cropdoc.IdentityConfig) *httpVerifier {
	return &httpVerifier{
		client:    &http.Client{Timeout: 10 * time.Second},
		logger:    logger,
		verifyURL: config.VerifyURL,
	}
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

func (v *httpVerifier) Verify(ctx context.Context, token string) (*cropdoc.Identity, error) {
	body, err := json.Marshal(verifyRequest{Token: token})
	if err != nil {
		return nil, cropdoc.Internal("Failed to encode verification request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, bytes.NewReader(body))
	if err != nil {
		return nil, cropdoc.Internal("Failed to build verification request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, cropdoc.Unavailable("Identity provider unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Verified
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, cropdoc.Unauthorized("Invalid identity token")
	default:
		v.logger.Error("unexpected identity provider response",
			slog.Int("status", resp.StatusCode),
		)
		return nil, cropdoc.Unavailable("Identity provider error", nil)
	}

	var verified verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&verified); err != nil {
		return nil, cropdoc.Unavailable("Unreadable identity provider response", err)
	}
	if verified.Email == "" {
		return nil, cropdoc.Unauthorized("Identity token carries no email")
	}

	return &cropdoc.Identity{
		Email:       verified.Email,
		DisplayName: verified.DisplayName,
	}, nil
}
