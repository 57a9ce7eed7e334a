package api

import (
	"github.com/lysyi3m/market-radar/app/ledger"
	"github.com/lysyi3m/market-radar/app/metrics"
	"github.com/lysyi3m/market-radar/app/tasks"
	"github.com/lysyi3m/market-radar/app/watchlist"
)

type StatsProvider interface {
	Stats() tasks.Stats
}

// FeedSource lists the feed URLs polled each tick.
type FeedSource interface {
	Feeds() []string
}

var (
	_ StatsProvider = (*tasks.Scheduler)(nil)
	_ FeedSource    = (*tasks.Pipeline)(nil)
)

type Handler struct {
	stats    StatsProvider
	ledger   ledger.Store
	registry *watchlist.Registry
	feeds    FeedSource
	metrics  *metrics.Metrics
	version  string
}

type healthResponse struct {
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
	Feeds      int    `json:"feeds"`
	Keywords   int    `json:"keywords"`
	LedgerSize int    `json:"ledger_size"`
}

type statsResponse struct {
	tasks.Stats
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

type watchlistResponse struct {
	Portfolio   []string `json:"portfolio"`
	Opportunity []string `json:"opportunity"`
}
