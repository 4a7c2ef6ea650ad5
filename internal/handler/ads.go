package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/domain"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/logger"
)

// AdHandler serves the ad catalog endpoints.
type AdHandler struct {
	store  domain.AdStore
	logger logger.Logger
}

// NewAdHandler creates an AdHandler backed by the given store.
func NewAdHandler(store domain.AdStore, log logger.Logger) *AdHandler {
	return &AdHandler{store: store, logger: log}
}

// ListAds returns all active ads.
func (h *AdHandler) ListAds(c *gin.Context) {
	ads, err := h.store.ListActiveAds(c.Request.Context())
	if err != nil {
		h.logger.Error("List ads failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ads": ads})
}

type createAdRequest struct {
	AdvertiserID int64  `json:"advertiser_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	TargetURL    string `json:"target_url"`
}

// CreateAd registers a new ad for an advertiser.
func (h *AdHandler) CreateAd(c *gin.Context) {
	var req createAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.AdvertiserID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "advertiser_id must be positive"})
		return
	}
	if req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	if req.TargetURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_url is required"})
		return
	}

	ad := &domain.Ad{
		AdvertiserID: req.AdvertiserID,
		Title:        req.Title,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		TargetURL:    req.TargetURL,
		Active:       true,
	}
	if err := h.store.CreateAd(c.Request.Context(), ad); err != nil {
		h.logger.Error("Create ad failed",
			logger.Int64("advertiser_id", req.AdvertiserID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, ad)
}
