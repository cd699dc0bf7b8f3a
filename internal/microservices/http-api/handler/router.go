package handler

import (
	"log/slog"
	"net/http"
	"time"

	"quotehub/internal/microservices/http-api/gql"
	"quotehub/internal/microservices/http-api/middleware"
	"quotehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// RouterDeps is everything the HTTP surface is built from.
type RouterDeps struct {
	Logger         *slog.Logger
	QuoteService   service.QuoteService
	AuthService    service.AuthService
	GraphQL        *gql.Handler
	DB             Pinger
	AuthLimiter    *middleware.IPRateLimiter
	CORSOrigins    []string
	RequestTimeout time.Duration

	// optional; /metrics is only mounted when both are set
	Requests       middleware.RequestRecorder
	MetricsHandler http.Handler
}

// NewRouter assembles the middleware chain and mounts REST, GraphQL and the
// operational endpoints.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(deps.Logger),
		middleware.RequestID(),
		middleware.RequestLogger(deps.Logger),
		middleware.CORS(deps.CORSOrigins),
	)
	if deps.Requests != nil {
		r.Use(middleware.Metrics(deps.Requests))
	}
	if deps.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.RequestTimeout))
	}

	r.GET("/health", NewHealthHandler(deps.DB, deps.Logger).Health)
	if deps.Requests != nil && deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	if deps.AuthLimiter != nil {
		authGroup.Use(deps.AuthLimiter.Middleware())
	}
	NewAuthHandler(deps.AuthService, deps.Logger).RegisterRoutes(authGroup)

	NewQuoteHandler(deps.QuoteService, deps.Logger).RegisterRoutes(
		api.Group("/quotes"),
		middleware.OptionalAuthMiddleware(deps.AuthService),
		middleware.AuthMiddleware(deps.AuthService),
	)

	if deps.GraphQL != nil {
		deps.GraphQL.RegisterRoutes(r)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	return r
}
