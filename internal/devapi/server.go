// Package devapi is an in-memory stand-in for the portal backend. It answers
// the auth and public content endpoints the client consumes, with a
// configurable envelope style so normalization can be exercised end to end.
package devapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/smolensk-traffic/portal/internal/config"
	"github.com/smolensk-traffic/portal/internal/httpserver"
	"github.com/smolensk-traffic/portal/internal/models"
)

// Server represents the development API server
type Server struct {
	router   *gin.Engine
	db       *gorm.DB
	config   *config.Config
	logger   zerolog.Logger
	tokens   *issuer
	envelope Envelope
}

// New creates a seeded server instance
func New(cfg *config.Config, zlog zerolog.Logger) (*Server, error) {
	db, err := openDatabase()
	if err != nil {
		return nil, err
	}

	if err := seed(db, cfg.DevAPI); err != nil {
		return nil, err
	}

	server := &Server{
		db:       db,
		config:   cfg,
		logger:   zlog,
		tokens:   newIssuer(cfg.DevAPI.JWTSecret),
		envelope: Envelope(cfg.DevAPI.Envelope),
	}

	server.setupRouter()

	return server, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	s.router.Use(httpserver.CORS(s.config.Web.AllowOrigins))

	s.router.GET("/health", s.healthCheck)

	api := s.router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/login", s.login())
		auth.POST("/admin/login", s.login(models.RoleAdmin))
		auth.POST("/editor/login", s.login(models.RoleEditor, models.RoleAdmin))

		authed := auth.Group("")
		authed.Use(authMiddleware(s.tokens, s.db, s.logger))
		{
			authed.POST("/logout", s.logout)
			authed.GET("/refresh", s.refresh)
		}

		api.GET("/team", listHandler[models.TeamMember](s, "team", "id"))
		api.GET("/news", listHandler[models.NewsItem](s, "news", "date DESC"))
		api.GET("/services", listHandler[models.Service](s, "services", "id"))
		api.GET("/projects", listHandler[models.Project](s, "projects", "id"))
		api.GET("/traffic", s.getTraffic)
		api.GET("/stats", s.getStats)
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", c.GetHeader("X-Request-ID")).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "portal-devapi",
		"envelope":  s.envelope,
	})
}

// Handler returns the router for use with httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on the configured address until ctx is canceled
func (s *Server) Start(ctx context.Context) error {
	err := httpserver.Run(ctx, httpserver.New(s.config.DevAPI.Addr, s.router), s.logger)
	if closeErr := s.Close(); closeErr != nil {
		s.logger.Error().Err(closeErr).Msg("Error closing database")
	}
	return err
}

// Close releases the in-memory database
func (s *Server) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
