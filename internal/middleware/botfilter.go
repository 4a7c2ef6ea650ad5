package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/domain"
)

// AgentCategoryKey is the gin context key holding the classified
// domain.UserAgentCategory for the request.
const AgentCategoryKey = "agent_category"

// botPatterns are known automated-client User-Agent substrings (lowercase).
var botPatterns = []string{
	"bot", "crawler", "spider", "slurp", "curl", "wget",
	"python-requests", "go-http-client", "java/", "okhttp",
	"headlesschrome", "phantomjs", "selenium", "scrapy",
}

// mobilePatterns are common mobile User-Agent substrings (lowercase).
var mobilePatterns = []string{
	"android", "iphone", "ipad", "ipod", "mobile", "windows phone",
}

// AgentClassifier classifies the request User-Agent into a coarse category
// and stores it on the context. Handlers use it as the default when the
// click payload omits user_agent_category; an explicit payload value wins.
// An empty User-Agent is treated as bot-like.
func AgentClassifier() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(AgentCategoryKey, ClassifyUserAgent(c.Request.UserAgent()))
		c.Next()
	}
}

// ClassifyUserAgent maps a raw User-Agent string to a category.
func ClassifyUserAgent(ua string) domain.UserAgentCategory {
	ua = strings.ToLower(ua)
	if ua == "" {
		return domain.AgentBotLike
	}
	for _, pattern := range botPatterns {
		if strings.Contains(ua, pattern) {
			return domain.AgentBotLike
		}
	}
	for _, pattern := range mobilePatterns {
		if strings.Contains(ua, pattern) {
			return domain.AgentMobile
		}
	}
	return domain.AgentNormal
}

// AgentCategoryFrom reads the classified category from the context,
// defaulting to AgentNormal when the middleware did not run.
func AgentCategoryFrom(c *gin.Context) domain.UserAgentCategory {
	if v, ok := c.Get(AgentCategoryKey); ok {
		if cat, ok := v.(domain.UserAgentCategory); ok {
			return cat
		}
	}
	return domain.AgentNormal
}
