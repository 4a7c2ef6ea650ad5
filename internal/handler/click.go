package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/aggregator"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/domain"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/logger"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/metrics"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/middleware"
)

// ClickHandler accepts click events and returns the fraud assessment
// together with the authoritative session summary.
type ClickHandler struct {
	agg     *aggregator.Aggregator
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewClickHandler creates a ClickHandler with the given dependencies.
func NewClickHandler(agg *aggregator.Aggregator, m *metrics.Metrics, log logger.Logger) *ClickHandler {
	return &ClickHandler{
		agg:     agg,
		metrics: m,
		logger:  log,
	}
}

// clickRequest is the POST /api/v1/clicks payload. user_agent_category is
// optional; when omitted the category classified from the User-Agent header
// is used.
type clickRequest struct {
	SessionID              string  `json:"session_id"`
	AdID                   int64   `json:"ad_id"`
	SequenceIndex          int     `json:"sequence_index"`
	TimeGapSeconds         float64 `json:"time_gap_seconds"`
	SessionDurationMinutes float64 `json:"session_duration_minutes"`
	UserAgentCategory      int     `json:"user_agent_category"`
}

// HandleClick scores one click and folds it into its session.
func (h *ClickHandler) HandleClick(c *gin.Context) {
	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.ClicksRejected.WithLabelValues(metrics.ReasonValidation).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	category := domain.UserAgentCategory(req.UserAgentCategory)
	if req.UserAgentCategory == 0 {
		category = middleware.AgentCategoryFrom(c)
	}

	event := &domain.ClickEvent{
		SessionID:              req.SessionID,
		AdID:                   req.AdID,
		SequenceIndex:          req.SequenceIndex,
		TimeGapSeconds:         req.TimeGapSeconds,
		SessionDurationMinutes: req.SessionDurationMinutes,
		UserAgentCategory:      category,
	}

	start := time.Now()
	summary, assess, err := h.agg.Ingest(c.Request.Context(), event)
	if err != nil {
		h.respondIngestError(c, event, err)
		return
	}
	h.metrics.IngestDuration.Observe(time.Since(start).Seconds())

	h.recordIngest(summary, assess)

	c.JSON(http.StatusOK, gin.H{
		"is_fraud":          assess.IsFraud,
		"fraud_probability": assess.FraudProbability,
		"risk_level":        assess.RiskLevel,
		"model_used":        assess.ModelUsed,
		"session":           sessionView(summary),
	})
}

func (h *ClickHandler) recordIngest(summary *domain.SessionSummary, assess domain.Assessment) {
	h.metrics.ClicksIngested.WithLabelValues(string(assess.RiskLevel)).Inc()
	if assess.IsFraud {
		h.metrics.FraudClicks.Inc()
	}
	if summary.ClickCount == 1 {
		h.metrics.SessionsStarted.Inc()
	}
}

// respondIngestError maps ingest failures to HTTP statuses. Scorer outages
// are surfaced as 503 so the caller can retry; a click is never accepted
// without an assessment.
func (h *ClickHandler) respondIngestError(c *gin.Context, event *domain.ClickEvent, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		h.metrics.ClicksRejected.WithLabelValues(metrics.ReasonValidation).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
	case errors.Is(err, domain.ErrAdNotFound):
		h.metrics.ClicksRejected.WithLabelValues(metrics.ReasonAdNotFound).Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "ad not found"})
	case errors.Is(err, domain.ErrScorerUnavailable):
		h.metrics.ClicksRejected.WithLabelValues(metrics.ReasonScorerUnavailable).Inc()
		h.logger.Error("Fraud scorer unavailable",
			logger.String("session_id", event.SessionID),
			logger.Error(err),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "fraud scoring unavailable"})
	default:
		h.metrics.ClicksRejected.WithLabelValues(metrics.ReasonStorage).Inc()
		h.logger.Error("Click ingest failed",
			logger.String("session_id", event.SessionID),
			logger.Int64("ad_id", event.AdID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// sessionView renders a summary for API responses. An unset minimum gap is
// rendered as "n/a", never as a number.
func sessionView(s *domain.SessionSummary) gin.H {
	var minGap any = "n/a"
	if s.MinGapSet {
		minGap = s.MinGap
	}
	return gin.H{
		"session_id":               s.SessionID,
		"ad_id":                    s.AdID,
		"ad_title":                 s.AdTitle,
		"advertiser_id":            s.AdvertiserID,
		"click_count":              s.ClickCount,
		"session_duration_minutes": s.SessionDurationMinutes,
		"min_gap":                  minGap,
		"max_gap":                  s.MaxGap,
		"is_fraud":                 s.IsFraud,
		"fraud_probability":        s.FraudProbability,
		"risk_level":               s.RiskLevel,
		"model_used":               s.ModelUsed,
		"last_updated":             s.LastUpdated.UTC().Format(time.RFC3339),
	}
}
