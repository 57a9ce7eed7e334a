package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/market-radar/app/ledger"
	"github.com/lysyi3m/market-radar/app/metrics"
	"github.com/lysyi3m/market-radar/app/watchlist"
)

func NewHandler(stats StatsProvider, store ledger.Store, registry *watchlist.Registry,
	feeds FeedSource, m *metrics.Metrics, version string) *Handler {
	return &Handler{
		stats:    stats,
		ledger:   store,
		registry: registry,
		feeds:    feeds,
		metrics:  m,
		version:  version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().In(time.Local).Format(time.RFC3339),
		Feeds:     len(h.feedURLs()),
	}

	if h.registry != nil {
		health.Keywords = h.registry.Len()
	}
	if h.ledger != nil {
		health.LedgerSize = h.ledger.Len()
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	if h.stats == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}

	stats := h.stats.Stats()
	resp := statsResponse{Stats: stats, Version: h.version}
	if !stats.StartedAt.IsZero() {
		resp.Uptime = time.Since(stats.StartedAt).Round(time.Second).String()
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetMetrics(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

func (h *Handler) ListFeeds(c *gin.Context) {
	feeds := h.feedURLs()

	c.JSON(http.StatusOK, gin.H{
		"feeds": feeds,
		"count": len(feeds),
	})
}

func (h *Handler) GetWatchlist(c *gin.Context) {
	resp := watchlistResponse{Portfolio: []string{}, Opportunity: []string{}}
	if h.registry != nil {
		resp.Portfolio = append(resp.Portfolio, h.registry.Portfolio()...)
		resp.Opportunity = append(resp.Opportunity, h.registry.Opportunity()...)
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) feedURLs() []string {
	if h.feeds == nil {
		return []string{}
	}
	if feeds := h.feeds.Feeds(); feeds != nil {
		return feeds
	}
	return []string{}
}
