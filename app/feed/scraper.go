package feed

import (
	"context"
	"log/slog"
	"time"
)

const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/120.0.0.0 Safari/537.36"

// Getter is the HTTP contract the pipeline depends on.
type Getter interface {
	Get(ctx context.Context, url string, timeout time.Duration, headers map[string]string) (int, []byte, error)
}

// PageFetcher is the HTTP contract of the scraper: the body and its
// Content-Type, so non-UTF-8 pages can be decoded.
type PageFetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration, headers map[string]string) (*Page, error)
}

var (
	_ Getter      = (*Fetcher)(nil)
	_ PageFetcher = (*Fetcher)(nil)
)

// BodyScraper fetches an article page and extracts its body text.
type BodyScraper struct {
	fetcher   PageFetcher
	extractor *ContentExtractor
	timeout   time.Duration
}

func NewBodyScraper(fetcher PageFetcher, extractor *ContentExtractor, timeout time.Duration) *BodyScraper {
	return &BodyScraper{
		fetcher:   fetcher,
		extractor: extractor,
		timeout:   timeout,
	}
}

// Scrape returns the article body for url or an empty string on any failure.
func (s *BodyScraper) Scrape(ctx context.Context, url string) (body string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Article scrape panicked", "url", url, "panic", r)
			body = ""
		}
	}()

	page, err := s.fetcher.Fetch(ctx, url, s.timeout, map[string]string{"User-Agent": BrowserUserAgent})
	if err != nil {
		slog.Warn("Failed to fetch article", "url", url, "error", err)
		return ""
	}

	text, err := s.extractor.Run(page.Body, url, page.ContentType)
	if err != nil {
		slog.Debug("No article body found", "url", url, "error", err)
		return ""
	}

	slog.Debug("Article body extracted", "url", url, "chars", len([]rune(text)))
	return text
}
