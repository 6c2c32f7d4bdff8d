package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	authHTTP "github.com/allisson/userauth/internal/auth/http"
	authService "github.com/allisson/userauth/internal/auth/service"
	"github.com/allisson/userauth/internal/metrics"
	userDomain "github.com/allisson/userauth/internal/user/domain"
	userHTTP "github.com/allisson/userauth/internal/user/http"
)

// RouterOptions bundles the handlers and policies the API router is built from.
type RouterOptions struct {
	AuthHandler     *authHTTP.AuthHandler
	UserHandler     *userHTTP.UserHandler
	AuditLogHandler *authHTTP.AuditLogHandler

	// BearerStrategy authenticates requests on protected routes.
	BearerStrategy authService.CredentialStrategy

	// RateLimitEnabled applies per-IP rate limiting on the credential
	// endpoints (register, login, refresh).
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	CORSEnabled      bool
	CORSAllowOrigins string

	// MeterProvider enables per-route HTTP metrics when non-nil.
	MeterProvider    metric.MeterProvider
	MetricsNamespace string
}

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	db     *sql.DB
	logger *slog.Logger
	opts   RouterOptions
}

// NewServer creates a new API HTTP server. The database handle is only used
// by the readiness endpoint and may be nil in tests.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
	opts RouterOptions,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		opts:   opts,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// createRouter builds the gin engine with middleware and all API routes.
func (s *Server) createRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(
		s.opts.CORSEnabled, s.opts.CORSAllowOrigins, s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if s.opts.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(s.opts.MeterProvider, s.opts.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	auth := router.Group("/auth")

	// Credential endpoints run before authentication, so they carry their
	// own per-IP rate limit.
	credentials := auth.Group("")
	if s.opts.RateLimitEnabled {
		credentials.Use(authHTTP.LoginRateLimitMiddleware(
			s.opts.RateLimitRPS, s.opts.RateLimitBurst, s.logger,
		))
	}
	credentials.POST("/register", s.opts.AuthHandler.RegisterHandler)
	credentials.POST("/login", s.opts.AuthHandler.LoginHandler)
	credentials.POST("/refresh", s.opts.AuthHandler.RefreshHandler)

	authenticated := auth.Group("", authHTTP.AuthenticationMiddleware(s.opts.BearerStrategy, s.logger))
	authenticated.GET("/profile", s.opts.AuthHandler.ProfileHandler)
	authenticated.POST("/logout", s.opts.AuthHandler.LogoutHandler)

	v1 := router.Group("/v1", authHTTP.AuthenticationMiddleware(s.opts.BearerStrategy, s.logger))

	adminOnly := authHTTP.RequireRoleMiddleware(s.logger, userDomain.RoleAdmin)

	users := v1.Group("/users")
	users.GET("", adminOnly, s.opts.UserHandler.ListHandler)
	users.GET("/:id", s.opts.UserHandler.GetHandler)
	users.PUT("/:id", s.opts.UserHandler.UpdateHandler)
	users.DELETE("/:id", s.opts.UserHandler.DeleteHandler)

	v1.GET("/audit-logs", adminOnly, s.opts.AuditLogHandler.ListHandler)

	return router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic, checking
// database connectivity.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	status := "ready"
	code := http.StatusOK

	if s.db == nil {
		components["database"] = "error"
		status = "not_ready"
		code = http.StatusServiceUnavailable
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Error("readiness check failed", slog.Any("error", err))
			components["database"] = "error"
			status = "not_ready"
			code = http.StatusServiceUnavailable
		} else {
			components["database"] = "ok"
		}
	}

	c.JSON(code, gin.H{"status": status, "components": components})
}

// Start starts the API HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.createRouter()

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
