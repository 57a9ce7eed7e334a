package tasks

import (
	"context"

	"github.com/lysyi3m/market-radar/app/analyzer"
	"github.com/lysyi3m/market-radar/app/feed"
	"github.com/lysyi3m/market-radar/app/notifier"
)

// Ingester produces the news items of one tick, oldest first.
type Ingester interface {
	FetchAllNews(ctx context.Context) []feed.NewsItem
}

type Analyzer interface {
	Analyze(ctx context.Context, item feed.NewsItem) (*analyzer.Result, error)
}

type Notifier interface {
	SendAnalysisAlert(ctx context.Context, item feed.NewsItem, result *analyzer.Result) error
	SendStartup(ctx context.Context, info notifier.StartupInfo) error
	SendErrorAlert(ctx context.Context, msg string) error
}

// Scraper returns the body text of an article or an empty string.
type Scraper interface {
	Scrape(ctx context.Context, url string) string
}

var (
	_ Ingester = (*Pipeline)(nil)
	_ Analyzer = (*analyzer.Client)(nil)
	_ Notifier = (*notifier.Discord)(nil)
	_ Scraper  = (*feed.BodyScraper)(nil)
)
