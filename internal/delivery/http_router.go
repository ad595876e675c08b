package delivery

import (
	"time"

	"insightgo/internal/delivery/middleware"
	"insightgo/pkg/logger"
	"insightgo/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type HTTPRouter struct {
	handlers *HTTPHandlers
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewHTTPRouter(handlers *HTTPHandlers, logger *logger.Logger, metrics *metrics.Metrics) *HTTPRouter {
	return &HTTPRouter{
		handlers: handlers,
		logger:   logger,
		metrics:  metrics,
	}
}

func (r *HTTPRouter) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.Recovery(r.logger))
	router.Use(middleware.Metrics(r.metrics))
	// Report generation fans out dozens of provider calls per network, so the
	// budget is generous.
	router.Use(middleware.Timeout(120 * time.Second))

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "OPTIONS"}
	config.AllowHeaders = []string{"Content-Type", "X-Request-ID"}
	config.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}

	router.Use(cors.New(config))

	// Health endpoint
	router.GET("/health", r.handlers.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/", r.handlers.GetAPIInfo)
		v1.GET("", r.handlers.GetAPIInfo)

		v1.GET("/projects", r.handlers.GetProjects)

		// Convenience routes against the configured default project
		v1.GET("/availability", r.handlers.GetAvailability)
		v1.GET("/report", r.handlers.DownloadReport)

		projects := v1.Group("/projects/:blogId")
		{
			projects.GET("/availability", r.handlers.GetAvailability)
			projects.GET("/networks/:network/metrics", r.handlers.GetNetworkMetrics)
			projects.GET("/report", r.handlers.DownloadReport)
		}
	}

	// Prometheus metrics endpoint
	router.GET("/metrics", middleware.PrometheusHandler())

	return router
}
