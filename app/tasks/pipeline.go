package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/lysyi3m/market-radar/app/feed"
	"github.com/lysyi3m/market-radar/app/ledger"
	"github.com/lysyi3m/market-radar/app/metrics"
	"github.com/lysyi3m/market-radar/app/watchlist"
)

const DefaultMaxEntries = 30

// PipelineDeps are the collaborators shared by every ProcessFeedTask. Scraper
// and Metrics may be nil.
type PipelineDeps struct {
	Getter      feed.Getter
	Parser      *feed.Parser
	Filterer    *feed.Filterer
	Registry    *watchlist.Registry
	Ledger      ledger.Store
	Scraper     Scraper
	Metrics     *metrics.Metrics
	HTTPTimeout time.Duration
	MaxEntries  int
	Now         func() time.Time
}

// Pipeline fetches every configured feed in order and merges the results.
type Pipeline struct {
	feeds []string
	deps  *PipelineDeps
}

func NewPipeline(feeds []string, deps *PipelineDeps) *Pipeline {
	if deps.MaxEntries <= 0 {
		deps.MaxEntries = DefaultMaxEntries
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Pipeline{
		feeds: slices.Clone(feeds),
		deps:  deps,
	}
}

func (p *Pipeline) Feeds() []string {
	return slices.Clone(p.feeds)
}

// FetchAllNews never fails: a feed that cannot be fetched or parsed is
// logged and skipped. The result is sorted by publish time, oldest first.
func (p *Pipeline) FetchAllNews(ctx context.Context) []feed.NewsItem {
	now := p.deps.Now()

	var all []feed.NewsItem
	for _, url := range p.feeds {
		if ctx.Err() != nil {
			slog.Warn("Ingestion cancelled", "error", ctx.Err())
			break
		}

		task := NewProcessFeedTask(url, p.deps)
		task.Start()

		if err := runTask(ctx, task); err != nil {
			slog.Error("Task failed", "type", task.GetType(), "id", task.GetID(), "feed", task.GetFeedName(), "error", err)
			p.deps.Metrics.FeedFetched(false)
			continue
		}

		p.deps.Metrics.FeedFetched(true)
		all = append(all, task.Items...)
	}

	SortByPublished(all, now)

	if err := p.deps.Ledger.Trim(); err != nil {
		slog.Warn("Failed to trim ledger", "error", err)
	}
	p.deps.Metrics.SetLedgerSize(p.deps.Ledger.Len())

	return all
}

func runTask(ctx context.Context, task *ProcessFeedTask) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return task.Execute(ctx)
}

// SortByPublished orders items oldest first. Items without a timestamp sort
// as if published at now. Ties keep their fetch order.
func SortByPublished(items []feed.NewsItem, now time.Time) {
	key := func(item feed.NewsItem) time.Time {
		if item.PublishedAt.IsZero() {
			return now
		}
		return item.PublishedAt
	}
	slices.SortStableFunc(items, func(a, b feed.NewsItem) int {
		return key(a).Compare(key(b))
	})
}
