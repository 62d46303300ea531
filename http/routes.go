package http

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerRoutes sets up all routes for the server.
// All routes are defined in this single file for easy navigation.
func (s *Server) registerRoutes() {
	// Health check routes (public)
	s.echo.GET("/health", s.handleHealthCheck)
	s.echo.GET("/health/live", s.handleLivenessCheck)
	s.echo.GET("/health/ready", s.handleReadinessCheck)

	// Prometheus metrics (public)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Public auth routes
	auth := s.echo.Group("/api/auth")
	auth.POST("/session", s.handleCreateSession)

	// Protected routes (require authentication)
	protected := s.echo.Group("/api")
	protected.Use(s.RequireAuth())

	// Auth (authenticated)
	protected.DELETE("/auth/session", s.handleDeleteSession)
	protected.GET("/auth/me", s.handleMe)

	// Uploads
	protected.POST("/uploads", s.handleCreateUpload)
	protected.GET("/uploads", s.handleListUploads)
	protected.GET("/uploads/categories", s.handleListPlantCategories)
	protected.GET("/uploads/:id", s.handleGetUpload)
	protected.DELETE("/uploads/:id", s.handleDeleteUpload)
	protected.GET("/uploads/:id/diagnosis", s.handleGetDiagnosis)

	// AI chat
	protected.POST("/chat", s.handleChat)

	// Contact form
	protected.POST("/contact", s.handleContact)
}
