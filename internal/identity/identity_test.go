package identity

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adjeikofi/cropdoc"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMockVerifier(t *testing.T) {
	v := NewVerifier(testLogger(), cropdoc.IdentityConfig{Provider: "mock"})

	identity, err := v.Verify(context.Background(), "grower@example.com")
	require.NoError(t, err)
	assert.Equal(t, "grower@example.com", identity.Email)
	assert.Equal(t, "grower", identity.DisplayName)
}

func TestMockVerifier_RejectsNonEmail(t *testing.T) {
	v := NewVerifier(testLogger(), cropdoc.IdentityConfig{Provider: "mock"})

	_, err := v.Verify(context.Background(), "not-an-email")
	require.Error(t, err)
	assert.Equal(t, cropdoc.EUNAUTHORIZED, cropdoc.ErrorCode(err))
}

func TestHTTPVerifier(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req verifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Token != "good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(verifyResponse{
			Email:       "grower@example.com",
			DisplayName: "Test Grower",
		})
	}))
	defer provider.Close()

	v := NewVerifier(testLogger(), cropdoc.IdentityConfig{
		Provider:  "http",
		VerifyURL: provider.URL,
	})

	identity, err := v.Verify(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "grower@example.com", identity.Email)
	assert.Equal(t, "Test Grower", identity.DisplayName)

	_, err = v.Verify(context.Background(), "bad-token")
	require.Error(t, err)
	assert.Equal(t, cropdoc.EUNAUTHORIZED, cropdoc.ErrorCode(err))
}

func TestHTTPVerifier_ProviderDown(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	provider.Close()

	v := NewVerifier(testLogger(), cropdoc.IdentityConfig{
		Provider:  "http",
		VerifyURL: provider.URL,
	})

	_, err := v.Verify(context.Background(), "any")
	require.Error(t, err)
	assert.Equal(t, cropdoc.EUNAVAILABLE, cropdoc.ErrorCode(err))
}
