// Package web serves the public pages as server-rendered HTML. Every page
// is a view.Page resolved per request; clients that accept JSON get the
// same page as JSON.
package web

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/smolensk-traffic/portal/internal/config"
	"github.com/smolensk-traffic/portal/internal/httpserver"
	"github.com/smolensk-traffic/portal/internal/models"
	"github.com/smolensk-traffic/portal/internal/publicinfo"
	"github.com/smolensk-traffic/portal/internal/session"
	"github.com/smolensk-traffic/portal/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

// Content is the public content the pages show
type Content interface {
	Team(ctx context.Context) ([]models.TeamMember, error)
	News(ctx context.Context) ([]models.NewsItem, error)
	Services(ctx context.Context) ([]models.Service, error)
	Projects(ctx context.Context) ([]models.Project, error)
	Traffic(ctx context.Context) (*models.Traffic, error)
	Statistics(ctx context.Context) (*models.Statistics, error)
	Home(ctx context.Context) (*publicinfo.Home, error)
}

// Server represents the web front
type Server struct {
	router  *gin.Engine
	config  *config.Config
	logger  zerolog.Logger
	content Content
	store   *session.Store
}

// New creates a web front. store may be nil to serve anonymous pages only.
func New(cfg *config.Config, content Content, store *session.Store, zlog zerolog.Logger) (*Server, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:  cfg,
		logger:  zlog,
		content: content,
		store:   store,
	}
	s.setupRouter(tmpl)
	return s, nil
}

func (s *Server) setupRouter(tmpl *template.Template) {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()
	s.router.SetHTMLTemplate(tmpl)

	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(httpserver.CORS(s.config.Web.AllowOrigins, "GET", "OPTIONS"))
	s.router.Use(s.sessionMiddleware())

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/session", s.getSession)

	s.router.GET("/", s.homePage)
	s.router.GET("/team", s.teamPage)
	s.router.GET("/news", s.newsPage)
	s.router.GET("/services", s.servicesPage)
	s.router.GET("/projects", s.projectsPage)
	s.router.GET("/statistics", s.statisticsPage)
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
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

// sessionMiddleware injects the session store into the request context and
// reconciles the persisted token until the check settles
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.store == nil {
			c.Next()
			return
		}
		// a client that disconnects must not cut the check short for everyone
		if err := s.store.Reconcile(context.WithoutCancel(c.Request.Context())); err != nil {
			s.logger.Warn().Err(err).Msg("Session check failed")
		}
		c.Request = c.Request.WithContext(session.WithStore(c.Request.Context(), s.store))
		c.Next()
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "portal-web",
	})
}

func (s *Server) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, currentSession(c))
}

// Handler returns the router for use with httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start reconciles the session, then serves on the configured address until
// ctx is canceled. A failed check is retried on the next request.
func (s *Server) Start(ctx context.Context) error {
	if s.store != nil {
		if err := s.store.Reconcile(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Initial session check failed")
		}
	}
	return httpserver.Run(ctx, httpserver.New(s.config.Web.Addr, s.router), s.logger)
}

func currentSession(c *gin.Context) session.Session {
	if store, ok := session.FromContext(c.Request.Context()); ok {
		return store.Snapshot()
	}
	return session.Session{}
}

// render writes a resolved page as JSON or HTML. A detached page means the
// client is gone and nothing is written.
func render[T any](s *Server, c *gin.Context, name, title string, page view.Page[T], err error, extra gin.H) {
	if err != nil {
		s.logger.Debug().Str("path", c.Request.URL.Path).Msg("Client went away before page loaded")
		c.Abort()
		return
	}

	status := http.StatusOK
	if page.Status == view.StatusFailed {
		status = http.StatusBadGateway
	}

	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		body := gin.H{"page": page}
		for k, v := range extra {
			body[k] = v
		}
		c.JSON(status, body)
		return
	}

	data := gin.H{
		"title":   title,
		"path":    c.Request.URL.Path,
		"session": currentSession(c),
		"page":    page,
	}
	for k, v := range extra {
		data[k] = v
	}
	c.HTML(status, name, data)
}
