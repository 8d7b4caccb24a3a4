// Package http provides the API server, its router and middleware.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditHTTP "github.com/allisson/piivault/internal/audit/http"
	consentHTTP "github.com/allisson/piivault/internal/consent/http"
	deletionHTTP "github.com/allisson/piivault/internal/deletion/http"
	"github.com/allisson/piivault/internal/metrics"
	subjectHTTP "github.com/allisson/piivault/internal/subject/http"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers groups the API handlers mounted under /v1.
type Handlers struct {
	Subject  *subjectHTTP.SubjectHandler
	Consent  *consentHTTP.ConsentHandler
	Deletion *deletionHTTP.DeletionHandler
	Audit    *auditHTTP.AuditHandler
}

// RouterConfig holds the cross-cutting router options.
type RouterConfig struct {
	CORSEnabled             bool
	CORSAllowOrigins        string
	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int
	MetricsProvider         *metrics.Provider
	MetricsNamespace        string
}

// Server is the API HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
	router *gin.Engine
	db     Pinger
}

// NewServer creates a server bound to host:port. Call SetupRouter before Start.
func NewServer(db Pinger, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: newHTTPServer(host, port, nil),
	}
}

// SetupRouter builds the gin engine. Background middleware state lives until
// ctx is cancelled.
func (s *Server) SetupRouter(ctx context.Context, cfg RouterConfig, h Handlers) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if cors := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); cors != nil {
		router.Use(cors)
	}
	if cfg.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MetricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if cfg.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}

	if h.Subject != nil {
		subjects := v1.Group("/subjects")
		subjects.POST("", h.Subject.CreateHandler)
		subjects.GET("", h.Subject.ListHandler)
		subjects.GET("/:id", h.Subject.GetHandler)
		subjects.PUT("/:id", h.Subject.UpdateHandler)
		subjects.DELETE("/:id", h.Subject.DeleteHandler)
		subjects.GET("/:id/export", h.Subject.ExportHandler)
	}

	if h.Consent != nil {
		v1.POST("/subjects/:id/consents", h.Consent.SetHandler)
		v1.GET("/subjects/:id/consents", h.Consent.ListHandler)
		v1.POST("/subjects/:id/consents/revoke-all", h.Consent.RevokeAllHandler)
		v1.GET("/consents/:id", h.Consent.GetHandler)
	}

	if h.Deletion != nil {
		requests := v1.Group("/deletion-requests")
		requests.POST("", h.Deletion.SubmitHandler)
		requests.GET("", h.Deletion.ListPendingHandler)
		requests.POST("/process-pending", h.Deletion.ProcessPendingHandler)
		requests.GET("/:id", h.Deletion.GetHandler)
		requests.POST("/:id/process", h.Deletion.ProcessHandler)
		v1.GET("/subjects/:id/deletion-requests", h.Deletion.ListBySubjectHandler)
		v1.GET("/subjects/:id/rtbf-safe", h.Deletion.SafetyHandler)
	}

	if h.Audit != nil {
		v1.GET("/audit-events", h.Audit.ListHandler)
	}

	s.router = router
}

// GetHandler returns the router for tests.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router
	return serve(s.server, s.logger, "http server")
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db == nil || s.db.PingContext(ctx) != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
