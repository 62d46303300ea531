package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adjeikofi/cropdoc"
)

func postJSON(ts *testServer, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return ts.do(req)
}

func TestCreateSession(t *testing.T) {
	ts := newTestServer(t)

	ts.verifier.VerifyFn = func(ctx context.Context, token string) (*cropdoc.Identity, error) {
		require.Equal(t, "valid-identity-token", token)
		return &cropdoc.Identity{Email: "grower@example.com", DisplayName: "Test Grower"}, nil
	}

	var upserted *cropdoc.User
	ts.users.UpsertUserFn = func(ctx context.Context, user *cropdoc.User) error {
		upserted = user
		return nil
	}

	expiresAt := time.Now().Add(24 * time.Hour)
	ts.sessions.CreateSessionFn = func(ctx context.Context, userID uuid.UUID, duration time.Duration) (*cropdoc.Session, error) {
		assert.Equal(t, 24*time.Hour, duration)
		return &cropdoc.Session{
			ID:        1,
			UserID:    userID,
			Token:     "fresh-token",
			ExpiresAt: expiresAt,
			CreatedAt: time.Now(),
		}, nil
	}

	rec := postJSON(ts, "/api/auth/session", `{"identity_token":"valid-identity-token"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, upserted)
	assert.Equal(t, "grower@example.com", upserted.Email)
	assert.Equal(t, "Test Grower", upserted.DisplayName)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "fresh-token", resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, "grower@example.com", resp.User.Email)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, "fresh-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestCreateSession_InvalidIdentityToken(t *testing.T) {
	ts := newTestServer(t)

	ts.verifier.VerifyFn = func(ctx context.Context, token string) (*cropdoc.Identity, error) {
		return nil, cropdoc.Unauthorized("invalid identity token")
	}

	rec := postJSON(ts, "/api/auth/session", `{"identity_token":"forged"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateSession_MissingToken(t *testing.T) {
	ts := newTestServer(t)

	rec := postJSON(ts, "/api/auth/session", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, cropdoc.EINVALID, resp.Error)
	assert.Contains(t, resp.Fields, "identity_token")
}

func TestDeleteSession(t *testing.T) {
	ts := newTestServer(t)

	var deletedToken string
	ts.sessions.DeleteSessionFn = func(ctx context.Context, token string) error {
		deletedToken = token
		return nil
	}

	rec := ts.do(authenticate(httptest.NewRequest(http.MethodDelete, "/api/auth/session", nil)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testSessionToken, deletedToken)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge, "cookie cleared on sign-out")
}

func TestMe(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(authenticate(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)))
	require.Equal(t, http.StatusOK, rec.Code)

	var user cropdoc.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, testUserID, user.ID)
	assert.Equal(t, "grower@example.com", user.Email)
}
