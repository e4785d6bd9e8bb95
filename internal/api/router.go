package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/persistorai/netgraph/internal/middleware"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log            *logrus.Logger
	Analytics      AnalyticsRepository
	ServiceName    string
	Version        string
	SchemaVersion  int
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(deps.ServiceName))
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, deps.RateLimitRPS, deps.RateLimitBurst).Handler())
	r.Use(middleware.Prometheus())
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(api *gin.RouterGroup, deps *RouterDeps) {
	health := NewHealthHandler(deps.Analytics, deps.Log, deps.Version, deps.SchemaVersion)
	analytics := NewAnalyticsHandler(deps.Analytics, deps.Log)

	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	graph := api.Group("/graph")
	graph.GET("/social", analytics.Social)
	graph.GET("/messages", analytics.Messages)
	graph.GET("/centrality", analytics.Centrality)
	graph.GET("/pagerank", analytics.PageRank)
	graph.GET("/hits", analytics.HITS)
	graph.GET("/communities", analytics.Communities)
	graph.GET("/path", analytics.Path)

	api.GET("/timeseries", analytics.TimeSeries)

	users := api.Group("/users")
	users.GET("/behavior", analytics.Behavior)
	users.GET("/friend-distribution", analytics.FriendDistribution)
}

// NewRouter creates and configures the Gin engine with all middleware and
// routes. The rate limiter's cleanup stops when ctx is cancelled.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	if deps.ServiceName == "" {
		deps.ServiceName = "netgraph"
	}

	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(r.Group("/api/v1"), deps)

	return r
}
