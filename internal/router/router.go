package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/agendahub/agenda-api/internal/handler"
	"github.com/agendahub/agenda-api/internal/middleware"
)

type Config struct {
	RateLimit      rate.Limit
	RateBurst      int
	RequestTimeout time.Duration
	CORS           middleware.CORSConfig
}

type Router struct {
	engine        *gin.Engine
	metrics       *routerMetrics
	authenticated *gin.RouterGroup
	public        *gin.RouterGroup
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func newRouterMetrics() *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agenda",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		requestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
	}
}

func (m *routerMetrics) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.requestDuration.WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
		m.requestTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Inc()
	}
}

// New assembles the engine with the shared middleware chain. Core
// routes are registered by the caller on Authenticated(); display and
// operational endpoints stay public.
func New(
	cfg Config,
	identity *middleware.Identity,
	h *handler.Handler,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	metrics := newRouterMetrics()
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  cfg.RateLimit,
		Burst: cfg.RateBurst,
	})

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORS),
		rateLimiter.RateLimit(),
		middleware.Timeout(cfg.RequestTimeout),
		metrics.instrument(),
	)

	engine.GET("/healthz", h.LivenessCheck)
	engine.GET("/readyz", h.ReadinessCheck)
	engine.GET("/health", h.HealthCheck)
	engine.GET("/metrics", h.MetricsHandler)

	r := &Router{engine: engine, metrics: metrics}

	api := engine.Group("/api/v1")
	api.Use(identity.Require())
	r.authenticated = api

	r.public = engine.Group("/api/v1")

	return r
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Authenticated is the identity-gated API group.
func (r *Router) Authenticated() *gin.RouterGroup {
	return r.authenticated
}

// Public is the ungated API group for display clients.
func (r *Router) Public() *gin.RouterGroup {
	return r.public
}
