package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/soundstage/soundstage-api/docs"
	"github.com/soundstage/soundstage-api/internal/api/handler"
	"github.com/soundstage/soundstage-api/internal/api/middleware"
	"github.com/soundstage/soundstage-api/internal/core/ports"
	"github.com/soundstage/soundstage-api/internal/infrastructure/http/handlers"
)

// Dependencies is everything the HTTP layer needs from the composition root.
type Dependencies struct {
	Log        zerolog.Logger
	CORSOrigin string

	Auth     ports.AuthService
	Songs    ports.SongService
	Comments ports.CommentService
	Tokens   ports.TokenVerifier

	// Readiness lists the dependencies probed by /health/ready.
	Readiness map[string]handlers.PingFunc

	// Registry isolates HTTP metrics, mainly for tests. Nil uses the
	// Prometheus default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(corsConfig(deps.CORSOrigin)))
	e.Use(echoprometheus.NewMiddlewareWithConfig(metricsConfig(deps.Registry)))

	// --- Ops ---
	e.GET("/metrics", metricsHandler(deps.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	authMiddleware := middleware.Auth(deps.Tokens)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authMiddleware)

	// --- Song routes ---
	songHandler := handler.NewSongHandler(deps.Songs)
	commentHandler := handler.NewCommentHandler(deps.Comments)

	songs := e.Group("/songs")
	songs.GET("/top", songHandler.Top)
	songs.GET("/my", songHandler.Mine, authMiddleware)
	songs.POST("", songHandler.Create, authMiddleware)
	songs.GET("/:id", songHandler.Get)
	songs.DELETE("/:id", songHandler.Delete, authMiddleware)
	songs.POST("/:id/like", songHandler.Like, authMiddleware)
	songs.GET("/:id/comments", commentHandler.List)
	songs.POST("/:id/comments", commentHandler.Create, authMiddleware)

	// --- Comment routes ---
	e.DELETE("/comments/:id", commentHandler.Delete, authMiddleware)

	return e
}

func corsConfig(origin string) echomiddleware.CORSConfig {
	origins := []string{"*"}
	if origin != "" && origin != "*" {
		origins = strings.Split(origin, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}
	return echomiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}
}

func metricsConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{
		Subsystem: "http",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}
