package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/adjeikofi/cropdoc"
	"github.com/adjeikofi/cropdoc/internal/queue"
	"github.com/adjeikofi/cropdoc/mock"
)

const testSessionToken = "test-session-token"

var testUserID = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testUser() *cropdoc.User {
	return &cropdoc.User{
		ID:          testUserID,
		Email:       "grower@example.com",
		DisplayName: "Test Grower",
		CreatedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

// testServer bundles a Server with the mocks it was built from so tests
// can reprogram individual service methods.
type testServer struct {
	*Server

	users     *mock.UserService
	sessions  *mock.SessionService
	uploads   *mock.UploadService
	diagnoses *mock.DiagnosisService
	storage   *mock.FileStorage
	ai        *mock.AIService
	contact   *mock.ContactService
	verifier  *mock.IdentityVerifier
	queue     *queue.MockQueue
}

// newTestServer builds a server backed entirely by mocks. The session
// service recognizes testSessionToken and resolves it to testUser.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{
		users:     &mock.UserService{},
		sessions:  &mock.SessionService{},
		uploads:   &mock.UploadService{},
		diagnoses: &mock.DiagnosisService{},
		storage:   &mock.FileStorage{},
		ai:        &mock.AIService{},
		contact:   &mock.ContactService{},
		verifier:  &mock.IdentityVerifier{},
		queue:     queue.NewMockQueue(),
	}

	ts.sessions.FindSessionByTokenFn = func(ctx context.Context, token string) (*cropdoc.Session, error) {
		if token != testSessionToken {
			return nil, cropdoc.Unauthorized("Session not found or expired")
		}
		return &cropdoc.Session{
			ID:        1,
			UserID:    testUserID,
			Token:     token,
			ExpiresAt: time.Now().Add(time.Hour),
			CreatedAt: time.Now(),
			User:      testUser(),
		}, nil
	}

	ts.Server = NewServer(Config{
		Addr:             "localhost:0",
		Logger:           testLogger(),
		UserService:      ts.users,
		SessionService:   ts.sessions,
		UploadService:    ts.uploads,
		DiagnosisService: ts.diagnoses,
		FileStorage:      ts.storage,
		AIService:        ts.ai,
		ContactService:   ts.contact,
		IdentityVerifier: ts.verifier,
		Queue:            ts.queue,
	})

	return ts
}

// do routes the request through the full middleware chain.
func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)
	return rec
}

// authenticate attaches the recognized session cookie.
func authenticate(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: testSessionToken})
	return req
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadinessCheck_StorageDown(t *testing.T) {
	ts := newTestServer(t)
	ts.storage.ExistsFn = func(ctx context.Context, key string) (bool, error) {
		return false, cropdoc.Unavailable("connection refused", nil)
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestProtectedRoutes_RequireSession(t *testing.T) {
	ts := newTestServer(t)

	// No cookie at all
	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/uploads", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Unknown token
	req := httptest.NewRequest(http.MethodGet, "/api/uploads", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "bogus"})
	rec = ts.do(req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerTokenAuth(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+testSessionToken)
	rec := ts.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
}
