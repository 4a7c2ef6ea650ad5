package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/cache"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/domain"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/logger"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/metrics"
)

// maxSessionLimit caps the per-request session limit regardless of what the
// client asks for.
const maxSessionLimit = 500

// ReportHandler serves the advertiser-facing query surface. Session
// summaries are always read fresh; only the derived stats go through
// the cache.
type ReportHandler struct {
	query        domain.QueryStore
	cache        cache.Cache
	statsTTL     time.Duration
	sessionLimit int
	metrics      *metrics.Metrics
	logger       logger.Logger
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(
	query domain.QueryStore,
	statsCache cache.Cache,
	statsTTL time.Duration,
	sessionLimit int,
	m *metrics.Metrics,
	log logger.Logger,
) *ReportHandler {
	return &ReportHandler{
		query:        query,
		cache:        statsCache,
		statsTTL:     statsTTL,
		sessionLimit: sessionLimit,
		metrics:      m,
		logger:       log,
	}
}

// ListSessions returns recent session summaries for an advertiser, most
// recently updated first.
func (h *ReportHandler) ListSessions(c *gin.Context) {
	advertiserID, ok := advertiserParam(c)
	if !ok {
		return
	}

	limit := h.sessionLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	if limit > maxSessionLimit {
		limit = maxSessionLimit
	}

	sessions, err := h.query.RecentSessions(c.Request.Context(), advertiserID, limit)
	if err != nil {
		h.logger.Error("List sessions failed",
			logger.Int64("advertiser_id", advertiserID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	views := make([]gin.H, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, sessionView(s))
	}
	c.JSON(http.StatusOK, gin.H{"sessions": views})
}

// Stats returns the aggregate click and fraud breakdown for an advertiser.
// Responses are cached for a short TTL; a cache outage degrades to direct
// reads.
func (h *ReportHandler) Stats(c *gin.Context) {
	advertiserID, ok := advertiserParam(c)
	if !ok {
		return
	}

	key := "stats:" + strconv.FormatInt(advertiserID, 10)
	if cached, err := h.cache.Get(c.Request.Context(), key); err != nil {
		h.logger.Warn("Stats cache read failed", logger.Error(err))
	} else if cached != nil {
		h.metrics.StatsCacheHits.Inc()
		c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}
	h.metrics.StatsCacheMisses.Inc()

	stats, err := h.query.AdvertiserStats(c.Request.Context(), advertiserID)
	if err != nil {
		h.logger.Error("Advertiser stats failed",
			logger.Int64("advertiser_id", advertiserID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	body, err := json.Marshal(stats)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if err := h.cache.Set(c.Request.Context(), key, body, h.statsTTL); err != nil {
		h.logger.Warn("Stats cache write failed", logger.Error(err))
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func advertiserParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "advertiser id must be a positive integer"})
		return 0, false
	}
	return id, true
}
