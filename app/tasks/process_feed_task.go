package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lysyi3m/market-radar/app/feed"
)

// ProcessFeedTask ingests one feed document: fetch, parse, filter, match,
// scrape and record. Items are returned through Items in feed order.
type ProcessFeedTask struct {
	Task
	URL   string
	Items []feed.NewsItem

	deps *PipelineDeps
}

func NewProcessFeedTask(url string, deps *PipelineDeps) *ProcessFeedTask {
	return &ProcessFeedTask{
		Task: NewTask(TaskTypeProcessFeed, url),
		URL:  url,
		deps: deps,
	}
}

func (t *ProcessFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	_, data, err := t.deps.Getter.Get(ctx, t.URL, t.deps.HTTPTimeout, nil)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	entries, err := t.deps.Parser.Run(data, t.deps.MaxEntries)
	if err != nil {
		return fmt.Errorf("failed to parse feed: %w", err)
	}

	rejected := make(map[feed.Rejection]int)
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}

		item, reason := t.processEntry(ctx, entry)
		if reason != feed.Accepted {
			rejected[reason]++
			t.deps.Metrics.EntryRejected(string(reason))
			continue
		}
		t.Items = append(t.Items, *item)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"feed", t.GetFeedName(),
		"duration", t.GetDuration(),
		"total", len(entries),
		"new", len(t.Items),
		"seen", rejected[feed.RejectSeen],
		"stale", rejected[feed.RejectStale]+rejected[feed.RejectFuture]+rejected[feed.RejectNoTimestamp],
		"duplicates", rejected[feed.RejectDuplicate],
		"unmatched", rejected[feed.RejectNoMatch])

	return nil
}

// processEntry runs the per-entry checks in order. A panic while handling
// one entry drops that entry only.
func (t *ProcessFeedTask) processEntry(ctx context.Context, entry feed.Entry) (item *feed.NewsItem, reason feed.Rejection) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Failed to process entry", "feed", t.GetFeedName(), "link", entry.Link, "panic", r)
			item, reason = nil, feed.RejectError
		}
	}()

	if entry.Link == "" {
		return nil, feed.RejectNoLink
	}
	if t.deps.Ledger.Contains(entry.Link) {
		return nil, feed.RejectSeen
	}

	publishedAt, reason := t.deps.Filterer.CheckRecency(entry)
	if reason != feed.Accepted {
		slog.Debug("Entry rejected", "reason", reason, "title", feed.Truncate(entry.Title, 50))
		return nil, reason
	}

	if dup := t.deps.Filterer.CheckDuplicate(entry.Title); dup != feed.Accepted {
		slog.Debug("Duplicate skipped", "title", feed.Truncate(entry.Title, 50))
		return nil, dup
	}

	matched := t.deps.Registry.Match(entry.Title + " " + entry.Summary)
	if len(matched) == 0 {
		return nil, feed.RejectNoMatch
	}

	news := &feed.NewsItem{
		Title:           entry.Title,
		Link:            entry.Link,
		PublishedRaw:    entry.PublishedRaw,
		PublishedAt:     publishedAt,
		Summary:         feed.Truncate(entry.Summary, feed.MaxSummaryLength),
		MatchedKeywords: matched,
		Category:        t.deps.Registry.Classify(matched),
	}

	if t.deps.Scraper != nil {
		news.ArticleBody = feed.Truncate(t.deps.Scraper.Scrape(ctx, entry.Link), feed.MaxArticleBodyLength)
	}

	if err := t.deps.Ledger.Record(entry.Link); err != nil {
		slog.Warn("Failed to persist seen URL", "link", entry.Link, "error", err)
	}

	t.deps.Metrics.ItemEmitted(string(news.Category))
	slog.Debug("Entry accepted",
		"title", feed.Truncate(news.Title, 50),
		"category", news.Category,
		"keywords", strings.Join(matched, ", "))

	return news, feed.Accepted
}
