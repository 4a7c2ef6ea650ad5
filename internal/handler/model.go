package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/features"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/scorer"
)

// ModelHandler exposes metadata about the active fraud model.
type ModelHandler struct {
	model scorer.Scorer
}

// NewModelHandler creates a ModelHandler for the given model.
func NewModelHandler(model scorer.Scorer) *ModelHandler {
	return &ModelHandler{model: model}
}

// Info returns the model's reporting name, its implementation type and
// the number of features it consumes.
func (h *ModelHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"model_name":        h.model.Name(),
		"model_type":        strings.TrimPrefix(fmt.Sprintf("%T", h.model), "*"),
		"features_expected": len(features.Vector{}.Values()),
	})
}
