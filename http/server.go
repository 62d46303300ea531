// Package http provides the Echo-based HTTP server exposing the upload and
// diagnosis API.
package http

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adjeikofi/cropdoc"
	"github.com/adjeikofi/cropdoc/internal/queue"
	"github.com/adjeikofi/cropdoc/internal/validation"
)

// Server represents the HTTP server with all its dependencies.
type Server struct {
	echo   *echo.Echo
	ln     net.Listener
	logger *slog.Logger

	// Configuration
	Addr   string
	Domain string

	// Session configuration
	SessionDuration time.Duration
	SessionSecure   bool

	// Domain services
	userService      cropdoc.UserService
	sessionService   cropdoc.SessionService
	uploadService    cropdoc.UploadService
	diagnosisService cropdoc.DiagnosisService

	// External services
	fileStorage      cropdoc.FileStorage
	aiService        cropdoc.AIService
	contactService   cropdoc.ContactService
	identityVerifier cropdoc.IdentityVerifier
	queue            queue.Queue
}

// Config holds the configuration for creating a new Server.
type Config struct {
	Addr   string
	Domain string
	Logger *slog.Logger

	// Session configuration
	SessionDuration time.Duration
	SessionSecure   bool

	// Domain services
	UserService      cropdoc.UserService
	SessionService   cropdoc.SessionService
	UploadService    cropdoc.UploadService
	DiagnosisService cropdoc.DiagnosisService

	// External services
	FileStorage      cropdoc.FileStorage
	AIService        cropdoc.AIService
	ContactService   cropdoc.ContactService
	IdentityVerifier cropdoc.IdentityVerifier
	Queue            queue.Queue
}

// NewServer creates a new HTTP server with the given configuration.
func NewServer(cfg Config) *Server {
	s := &Server{
		Addr:             cfg.Addr,
		Domain:           cfg.Domain,
		logger:           cfg.Logger,
		SessionDuration:  cfg.SessionDuration,
		SessionSecure:    cfg.SessionSecure,
		userService:      cfg.UserService,
		sessionService:   cfg.SessionService,
		uploadService:    cfg.UploadService,
		diagnosisService: cfg.DiagnosisService,
		fileStorage:      cfg.FileStorage,
		aiService:        cfg.AIService,
		contactService:   cfg.ContactService,
		identityVerifier: cfg.IdentityVerifier,
		queue:            cfg.Queue,
	}

	if s.SessionDuration == 0 {
		s.SessionDuration = 24 * time.Hour
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Validator = validation.NewValidator()

	s.registerMiddleware()
	s.registerRoutes()

	return s
}

// Echo returns the underlying Echo instance.
// Use sparingly - prefer registering routes through Server methods.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Open starts the HTTP server.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	go func() {
		if err := s.echo.Server.Serve(s.ln); err != nil {
			s.logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	s.logger.Info("server started", slog.String("addr", s.Addr))
	return nil
}

// Close gracefully shuts down the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// URL returns the URL of the server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}
