package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/aggregator"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/cache"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/domain"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/features"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/handler"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/logger"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/metrics"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/middleware"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/scorer"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/storage"
)

// Prometheus collectors register on the default registry once per process.
var testMetrics = metrics.New()

// stubScorer returns queued probabilities in order, then the fixed
// probability, or fails when err is set.
type stubScorer struct {
	queue       []float64
	probability float64
	err         error
}

func (s *stubScorer) Name() string { return "stub-model" }

func (s *stubScorer) Score(_ context.Context, _ features.Vector) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	if len(s.queue) > 0 {
		p := s.queue[0]
		s.queue = s.queue[1:]
		return p, nil
	}
	return s.probability, nil
}

var _ scorer.Scorer = (*stubScorer)(nil)

type testEnv struct {
	router *gin.Engine
	store  *storage.MemoryStore
	adID   int64
}

func setupEnv(t *testing.T, model scorer.Scorer) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)
	store := storage.NewMemoryStore()

	ad := &domain.Ad{
		AdvertiserID: 1,
		Title:        "Running Shoes",
		TargetURL:    "https://example.com/shoes",
		Active:       true,
	}
	if err := store.CreateAd(context.Background(), ad); err != nil {
		t.Fatalf("seed ad: %v", err)
	}

	log := logger.NewNop()
	agg := aggregator.New(store, store, model, log)

	r := gin.New()
	r.Use(middleware.AgentClassifier())
	clickHandler := handler.NewClickHandler(agg, testMetrics, log)
	reportHandler := handler.NewReportHandler(
		store, cache.NewMemoryCache(16), 15*time.Second, 50, testMetrics, log,
	)
	adHandler := handler.NewAdHandler(store, log)
	modelHandler := handler.NewModelHandler(model)

	v1 := r.Group("/api/v1")
	v1.POST("/clicks", clickHandler.HandleClick)
	v1.GET("/ads", adHandler.ListAds)
	v1.POST("/ads", adHandler.CreateAd)
	v1.GET("/advertisers/:id/sessions", reportHandler.ListSessions)
	v1.GET("/advertisers/:id/stats", reportHandler.Stats)
	v1.GET("/model/info", modelHandler.Info)

	return &testEnv{router: r, store: store, adID: ad.ID}
}

func (e *testEnv) postJSON(t *testing.T, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func clickPayload(env *testEnv, sessionID string, seq int, gap float64) map[string]any {
	return map[string]any{
		"session_id":               sessionID,
		"ad_id":                    env.adID,
		"sequence_index":           seq,
		"time_gap_seconds":         gap,
		"session_duration_minutes": 2.0,
		"user_agent_category":      1,
	}
}

func TestHandleClick_FirstClick(t *testing.T) {
	env := setupEnv(t, &stubScorer{probability: 0.1})

	w := env.postJSON(t, "/api/v1/clicks", clickPayload(env, "sess-1", 1, 0))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["is_fraud"] != false {
		t.Fatalf("expected is_fraud=false, got %v", body["is_fraud"])
	}
	if body["risk_level"] != "Low" {
		t.Fatalf("expected Low risk, got %v", body["risk_level"])
	}

	session, ok := body["session"].(map[string]any)
	if !ok {
		t.Fatalf("expected session object, got %T", body["session"])
	}
	if session["click_count"] != float64(1) {
		t.Fatalf("expected click_count=1, got %v", session["click_count"])
	}
	if session["min_gap"] != "n/a" {
		t.Fatalf("expected min_gap=n/a on first click, got %v", session["min_gap"])
	}
	if session["ad_title"] != "Running Shoes" {
		t.Fatalf("expected denormalized ad title, got %v", session["ad_title"])
	}
}

func TestHandleClick_PositiveGapSetsMinGap(t *testing.T) {
	env := setupEnv(t, &stubScorer{probability: 0.1})

	env.postJSON(t, "/api/v1/clicks", clickPayload(env, "sess-2", 1, 0))
	w := env.postJSON(t, "/api/v1/clicks", clickPayload(env, "sess-2", 2, 1.8))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	session := decodeBody(t, w)["session"].(map[string]any)
	if session["min_gap"] != 1.8 {
		t.Fatalf("expected min_gap=1.8, got %v", session["min_gap"])
	}
	if session["max_gap"] != 1.8 {
		t.Fatalf("expected max_gap=1.8, got %v", session["max_gap"])
	}
}

func TestHandleClick_FraudulentClick(t *testing.T) {
	env := setupEnv(t, &stubScorer{probability: 0.9})

	w := env.postJSON(t, "/api/v1/clicks", clickPayload(env, "sess-3", 1, 0))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["is_fraud"] != true {
		t.Fatalf("expected is_fraud=true, got %v", body["is_fraud"])
	}
	if body["risk_level"] != "High" {
		t.Fatalf("expected High risk, got %v", body["risk_level"])
	}
}

func TestHandleClick_MalformedBody(t *testing.T) {
	env := setupEnv(t, &stubScorer{probability: 0.1})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/clicks", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", w.Code)
	}
}

func TestHandleClick_MissingSessionID(t *testing.T) {
	env := setupEnv(t, &stubScorer{probability: 0.1})

	payload := clickPayload(env, "", 1, 0)
	w := env.postJSON(t, "/api/v1/clicks", payload)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing session id, got %d", w.Code)
	}
	if env.store.EventCount() != 0 {
		t.Fatalf("expected no recorded events, got %d", env.store.EventCount())
	}
}

func TestHandleClick_UnknownAd(t *testing.T) {
	env := setupEnv(t, &stubScorer{probability: 0.1})

	payload := clickPayload(env, "sess-4", 1, 0)
	payload["ad_id"] = int64(999)
	w := env.postJSON(t, "/api/v1/clicks", payload)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown ad, got %d", w.Code)
	}
}

func TestHandleClick_ScorerUnavailable(t *testing.T) {
	env := setupEnv(t, &stubScorer{err: context.DeadlineExceeded})

	w := env.postJSON(t, "/api/v1/clicks", clickPayload(env, "sess-5", 1, 0))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when scorer is down, got %d", w.Code)
	}
	if env.store.EventCount() != 0 {
		t.Fatalf("expected no recorded events, got %d", env.store.EventCount())
	}
}

func TestHandleClick_DefaultsCategoryFromUserAgent(t *testing.T) {
	env := setupEnv(t, &stubScorer{probability: 0.1})

	payload := clickPayload(env, "sess-6", 1, 0)
	delete(payload, "user_agent_category")
	w := env.postJSON(t, "/api/v1/clicks", payload)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with classified category, got %d: %s", w.Code, w.Body.String())
	}
}
