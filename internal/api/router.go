package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/tegha-romeo/auth-api/internal/api/handler"
	"github.com/tegha-romeo/auth-api/internal/api/middleware"
	"github.com/tegha-romeo/auth-api/internal/core/domain"
	"github.com/tegha-romeo/auth-api/internal/core/ports"
)

// Deps are the collaborators the router wires into handlers and middleware.
type Deps struct {
	Auth   ports.AuthService
	Tokens ports.TokenService
	Users  ports.UserStore
	Log    zerolog.Logger

	StoreTimeout time.Duration
	FrontendURL  string
	// EnforceRoles gates /api/admin on the Admin role. Off by default, in
	// which case any authenticated user reaches it.
	EnforceRoles bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// HTTP metrics get their own registry so several routers can coexist in
	// one process; /metrics serves it next to the default one.
	httpMetrics := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: httpMetrics,
	}))
	// inside the metrics middleware so handled errors are counted with their final status
	e.Use(requestLogger(d.Log))
	if d.FrontendURL != "" {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins: []string{d.FrontendURL},
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions, http.MethodHead},
			AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	protectedHandler := handler.NewProtectedHandler()
	healthHandler := handler.NewHealthHandler(d.Users, d.Log)
	authenticate := middleware.Authenticate(d.Tokens, d.Users, d.StoreTimeout, d.Log)

	// --- Health probes and tooling (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, httpMetrics},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Protected routes ---
	protected := e.Group("/api", authenticate)
	protected.GET("/profile", protectedHandler.Profile)
	protected.GET("/user", protectedHandler.User)
	if d.EnforceRoles {
		protected.GET("/admin", protectedHandler.Admin, middleware.RequireRole(domain.RoleAdmin))
	} else {
		protected.GET("/admin", protectedHandler.Admin)
	}

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
