package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/domain"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/middleware"
)

func classifyRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.AgentClassifier())
	r.POST("/clicks", func(c *gin.Context) {
		cat := middleware.AgentCategoryFrom(c)
		c.String(http.StatusOK, strconv.Itoa(int(cat)))
	})
	return r
}

func classify(t *testing.T, userAgent string) domain.UserAgentCategory {
	t.Helper()

	r := classifyRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/clicks", http.NoBody)
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	r.ServeHTTP(w, req)

	n, err := strconv.Atoi(w.Body.String())
	if err != nil {
		t.Fatalf("unexpected body %q: %v", w.Body.String(), err)
	}
	return domain.UserAgentCategory(n)
}

func TestAgentClassifier_NormalUA(t *testing.T) {
	got := classify(t, "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")
	if got != domain.AgentNormal {
		t.Fatalf("expected normal category, got %d", got)
	}
}

func TestAgentClassifier_MobileUA(t *testing.T) {
	got := classify(t, "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)")
	if got != domain.AgentMobile {
		t.Fatalf("expected mobile category, got %d", got)
	}
}

func TestAgentClassifier_BotUA(t *testing.T) {
	got := classify(t, "Googlebot/2.1 (+http://www.google.com/bot.html)")
	if got != domain.AgentBotLike {
		t.Fatalf("expected bot-like category, got %d", got)
	}
}

func TestAgentClassifier_ScriptedClientUA(t *testing.T) {
	got := classify(t, "python-requests/2.31.0")
	if got != domain.AgentBotLike {
		t.Fatalf("expected bot-like category, got %d", got)
	}
}

func TestAgentClassifier_MissingUA(t *testing.T) {
	got := classify(t, "")
	if got != domain.AgentBotLike {
		t.Fatalf("expected bot-like category for missing UA, got %d", got)
	}
}

func TestAgentCategoryFrom_DefaultWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/clicks", func(c *gin.Context) {
		c.String(http.StatusOK, strconv.Itoa(int(middleware.AgentCategoryFrom(c))))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/clicks", http.NoBody)
	r.ServeHTTP(w, req)

	if w.Body.String() != strconv.Itoa(int(domain.AgentNormal)) {
		t.Fatalf("expected normal category default, got %q", w.Body.String())
	}
}
