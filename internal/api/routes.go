package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/config"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/handler"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/metrics"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/middleware"
)

// Handlers groups the route handlers wired by SetupRoutes.
type Handlers struct {
	Click  *handler.ClickHandler
	Ads    *handler.AdHandler
	Report *handler.ReportHandler
	Model  *handler.ModelHandler
	Health *handler.HealthHandler
}

// SetupRoutes configures all API routes. The done channel stops middleware
// background goroutines on shutdown.
func SetupRoutes(
	router *gin.Engine,
	h Handlers,
	m *metrics.Metrics,
	cfg *config.Config,
	done <-chan struct{},
) {
	router.GET("/health", h.Health.HealthCheck)
	router.HEAD("/health", h.Health.HealthCheck)
	router.GET("/health/ready", h.Health.Readiness)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	v1 := router.Group("/api/v1")

	// Click ingestion with UA classification and per-IP rate limiting.
	rateLimitWindow := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
	clicks := v1.Group("")
	clicks.Use(middleware.AgentClassifier())
	clicks.Use(middleware.RateLimiter(cfg.RateLimit.MaxClicksPerMinute, rateLimitWindow, done))
	clicks.POST("/clicks", h.Click.HandleClick)

	v1.GET("/ads", h.Ads.ListAds)
	v1.POST("/ads", h.Ads.CreateAd)
	v1.GET("/advertisers/:id/sessions", h.Report.ListSessions)
	v1.GET("/advertisers/:id/stats", h.Report.Stats)
	v1.GET("/model/info", h.Model.Info)
}
