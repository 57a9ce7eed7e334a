package tasks

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/lysyi3m/market-radar/app/feed"
	"github.com/lysyi3m/market-radar/app/ledger"
	"github.com/lysyi3m/market-radar/app/metrics"
	"github.com/lysyi3m/market-radar/app/watchlist"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func testClock() time.Time {
	return testNow
}

type rssItem struct {
	title   string
	link    string
	summary string
	pubDate time.Time
}

func rssDoc(items ...rssItem) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>Test</title>`)
	for _, it := range items {
		b.WriteString("<item>")
		fmt.Fprintf(&b, "<title>%s</title>", html.EscapeString(it.title))
		if it.link != "" {
			fmt.Fprintf(&b, "<link>%s</link>", html.EscapeString(it.link))
		}
		fmt.Fprintf(&b, "<description>%s</description>", html.EscapeString(it.summary))
		if !it.pubDate.IsZero() {
			fmt.Fprintf(&b, "<pubDate>%s</pubDate>", it.pubDate.Format(time.RFC1123Z))
		}
		b.WriteString("</item>")
	}
	b.WriteString("</channel></rss>")
	return b.String()
}

type fakeResponse struct {
	status int
	body   string
	err    error
}

// fakeGetter serves canned responses by URL and records every request.
type fakeGetter struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	requests  []string
}

func newFakeGetter() *fakeGetter {
	return &fakeGetter{responses: make(map[string]fakeResponse)}
}

func (g *fakeGetter) set(url string, resp fakeResponse) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.responses[url] = resp
}

func (g *fakeGetter) Get(_ context.Context, url string, _ time.Duration, _ map[string]string) (int, []byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.requests = append(g.requests, url)
	resp, ok := g.responses[url]
	if !ok {
		return 0, nil, fmt.Errorf("no route to %s", url)
	}
	if resp.err != nil {
		return 0, nil, resp.err
	}
	if resp.status != 0 && (resp.status < 200 || resp.status > 299) {
		return resp.status, nil, &feed.StatusError{Code: resp.status, Status: fmt.Sprint(resp.status)}
	}
	return 200, []byte(resp.body), nil
}

type fakeScraper struct {
	bodies map[string]string
	calls  []string
}

func (s *fakeScraper) Scrape(_ context.Context, url string) string {
	s.calls = append(s.calls, url)
	return s.bodies[url]
}

func newTestPipeline(feeds []string, getter feed.Getter, registry *watchlist.Registry, store ledger.Store) (*Pipeline, *PipelineDeps) {
	deps := &PipelineDeps{
		Getter:      getter,
		Parser:      feed.NewParser(),
		Filterer:    feed.NewFilterer(testClock),
		Registry:    registry,
		Ledger:      store,
		Metrics:     metrics.New(),
		HTTPTimeout: time.Second,
		Now:         testClock,
	}
	return NewPipeline(feeds, deps), deps
}

func links(items []feed.NewsItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Link)
	}
	return out
}
