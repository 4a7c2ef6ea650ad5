package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/handler"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/scorer"
)

func TestModelInfo_ReportsActiveModel(t *testing.T) {
	env := setupEnv(t, &stubScorer{probability: 0.1})

	w := env.get(t, "/api/v1/model/info")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["model_name"] != "stub-model" {
		t.Fatalf("expected model_name=stub-model, got %v", body["model_name"])
	}
	if body["features_expected"] != float64(5) {
		t.Fatalf("expected features_expected=5, got %v", body["features_expected"])
	}
	if body["model_type"] == "" {
		t.Fatalf("expected non-empty model_type")
	}
}

func TestModelInfo_RuleScorerType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/model/info", handler.NewModelHandler(scorer.NewRuleScorer()).Info)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/model/info", http.NoBody)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["model_name"] != scorer.NewRuleScorer().Name() {
		t.Fatalf("expected rule model name, got %v", body["model_name"])
	}
}
