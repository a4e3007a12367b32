package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meridianpsych/clinic-api/internal/middleware"
	"github.com/meridianpsych/clinic-api/pkg/logger"
)

// Handler registers routes on the shared API group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// AdminHandler additionally takes the admin gate for its write routes.
type AdminHandler interface {
	RegisterRoutes(*gin.RouterGroup, gin.HandlerFunc)
}

// EngineHandler registers routes on the bare engine, outside /api/v1.
type EngineHandler interface {
	RegisterRoutes(*gin.Engine)
}

type Config struct {
	Timeout        time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	CORS           middleware.CORSConfig
	MetricsPrefix  string
}

type Router struct {
	engine  *gin.Engine
	metrics *httpMetrics
}

type httpMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func newHTTPMetrics(prefix string) *httpMetrics {
	if prefix == "" {
		prefix = "clinic_api"
	}
	return &httpMetrics{
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: prefix,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and path",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		requestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: prefix,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),
	}
}

func (m *httpMetrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// FullPath keeps the route template so cardinality stays bounded.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
		m.requestTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// New assembles the HTTP surface: global middleware, the metrics and
// health endpoints, the public login route, and the authenticated
// /api/v1 group.
func New(
	cfg Config,
	l *logger.Logger,
	validator middleware.TokenValidator,
	healthH EngineHandler,
	authH Handler,
	providerH AdminHandler,
	payerH AdminHandler,
	appointmentH Handler,
	patientH Handler,
	partnerH AdminHandler,
	articleH AdminHandler,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	metrics := newHTTPMetrics(cfg.MetricsPrefix)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(l),
		middleware.ErrorHandler(l),
		middleware.CORS(cfg.CORS),
		middleware.Timeout(cfg.Timeout),
		limiter.Middleware(),
		metrics.middleware(),
	)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	healthH.RegisterRoutes(engine)

	api := engine.Group("/api/v1")
	authH.RegisterRoutes(api)

	protected := api.Group("", middleware.Auth(validator))
	adminOnly := middleware.AdminOnly(validator)

	providerH.RegisterRoutes(protected, adminOnly)
	payerH.RegisterRoutes(protected, adminOnly)
	appointmentH.RegisterRoutes(protected)
	patientH.RegisterRoutes(protected)
	partnerH.RegisterRoutes(protected, adminOnly)
	articleH.RegisterRoutes(protected, adminOnly)

	return &Router{engine: engine, metrics: metrics}
}

// Engine exposes the underlying gin engine for the HTTP server.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
