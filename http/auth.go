package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/adjeikofi/cropdoc"
)

// CreateSessionRequest exchanges an externally verified identity token for
// a session. Password and account flows live with the identity provider.
type CreateSessionRequest struct {
	IdentityToken string `json:"identity_token" validate:"required"`
}

// SessionResponse is the payload returned on sign-in.
type SessionResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	User      *cropdoc.User `json:"user"`
}

func (s *Server) handleCreateSession(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	var req CreateSessionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	identity, err := s.identityVerifier.Verify(ctx, req.IdentityToken)
	if err != nil {
		return err
	}

	user := &cropdoc.User{
		ID:          uuid.New(),
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		CreatedAt:   time.Now(),
	}
	if err := s.userService.UpsertUser(ctx, user); err != nil {
		return err
	}

	session, err := s.sessionService.CreateSession(ctx, user.ID, s.SessionDuration)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.SessionSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  session.ExpiresAt,
	})

	s.log(c).Info("user signed in", slog.String("user_id", user.ID.String()))

	return RespondCreated(c, SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      user,
	})
}

func (s *Server) handleDeleteSession(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	session := cropdoc.SessionFromContext(c.Request().Context())
	if session != nil {
		if err := s.sessionService.DeleteSession(ctx, session.Token); err != nil {
			s.log(c).Error("failed to delete session", slog.String("error", err.Error()))
		}
	}

	// Clear cookie
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	s.log(c).Info("user signed out")

	return RespondSuccess(c, "signed out")
}

func (s *Server) handleMe(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	return RespondOK(c, user)
}
