package api

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates the status server with all routes configured
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: accessLogLine,
		SkipPaths: []string{"/health", "/metrics"},
	}))
	r.Use(gin.Recovery())
	r.Use(statusCORS())

	setupRoutes(r, handler, apiAccessKey)

	return r
}

// accessLogLine renders one request in combined-log style with latency.
func accessLogLine(p gin.LogFormatterParams) string {
	return fmt.Sprintf("%s - [%s] \"%s %s %s\" %d %s %q %s\n",
		p.ClientIP,
		p.TimeStamp.Format(time.RFC3339),
		p.Method,
		p.Path,
		p.Request.Proto,
		p.StatusCode,
		p.Latency.Round(time.Microsecond),
		p.Request.UserAgent(),
		p.ErrorMessage,
	)
}

// statusCORS allows read-only cross-origin access so dashboards can poll
// the status endpoints from a browser.
func statusCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "X-API-Key, Authorization")
		h.Set("Access-Control-Max-Age", "600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	r.GET("/health", handler.GetHealth)
	r.GET("/stats", handler.GetStats)
	r.GET("/metrics", handler.GetMetrics)

	if apiAccessKey != "" {
		api := r.Group("/api")
		api.Use(authMiddleware(apiAccessKey))
		{
			api.GET("/feeds", handler.ListFeeds)
			api.GET("/watchlist", handler.GetWatchlist)
		}
		slog.Info("API endpoints enabled with authentication")
	} else {
		slog.Info("API endpoints disabled (API_ACCESS_KEY not set)")
	}

	r.GET("/", func(c *gin.Context) {
		endpoints := map[string]string{
			"health":  "/health",
			"stats":   "/stats",
			"metrics": "/metrics",
		}

		if apiAccessKey != "" {
			endpoints["feeds"] = "/api/feeds (requires X-API-Key header)"
			endpoints["watchlist"] = "/api/watchlist (requires X-API-Key header)"
		}

		c.JSON(http.StatusOK, gin.H{
			"service":     "Market Radar",
			"version":     handler.version,
			"description": "Financial news monitor with keyword matching, AI classification and Discord alerts",
			"endpoints":   endpoints,
			"api_status": map[string]any{
				"enabled":       apiAccessKey != "",
				"auth_required": apiAccessKey != "",
				"header":        "X-API-Key",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

// authMiddleware accepts the key from X-API-Key or an Authorization bearer token
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	want := []byte(apiAccessKey)

	return func(c *gin.Context) {
		key := requestKey(c.Request)
		switch {
		case key == "":
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
		case subtle.ConstantTimeCompare([]byte(key), want) != 1:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
		default:
			c.Next()
		}
	}
}

func requestKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
