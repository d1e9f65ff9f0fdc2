package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docstore-backend/internal/documents"
	"docstore-backend/internal/services/health"
	"docstore-backend/internal/shared/config"
	"docstore-backend/internal/shared/metrics"
	"docstore-backend/internal/shared/server/middleware"
	"docstore-backend/internal/shared/server/respond"
)

const uploadRateGroup = "UPLOAD"

// RouterDeps carries the wired handlers and services the router mounts.
type RouterDeps struct {
	Config    config.Config
	Documents *documents.Handler
	Health    *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(rateLimits()),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Status())
	})
	r.GET("/metrics", metrics.Handler())

	root := r.Group("/")
	deps.Documents.RegisterRoutes(root)

	return r
}

func rateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT":       {Rate: 20, Burst: 40},
			uploadRateGroup: {Rate: 2, Burst: 5},
		},
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && strings.HasPrefix(c.Request.URL.Path, "/upload") {
				return uploadRateGroup
			}
			return ""
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
