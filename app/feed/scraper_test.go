package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

func newTestScraper(client *http.Client) *BodyScraper {
	return NewBodyScraper(NewFetcher(client, "InvestmentMonitorBot/2.0"), NewContentExtractor(ExtractSelectors), time.Second)
}

func TestBodyScraperExtractsArticle(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><article><p>Shares jumped after the earnings release.</p></article></body></html>`))
	}))
	defer server.Close()

	body := newTestScraper(server.Client()).Scrape(context.Background(), server.URL)

	assert.Equal(t, "Shares jumped after the earnings release.", body)
	assert.Equal(t, BrowserUserAgent, gotUA)
}

func TestBodyScraperDecodesShiftJIS(t *testing.T) {
	page, err := japanese.ShiftJIS.NewEncoder().String(
		`<html><body><article><p>トヨタ自動車が過去最高益を発表しました。円安が追い風となった。</p></article></body></html>`)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=Shift_JIS")
		w.Write([]byte(page))
	}))
	defer server.Close()

	body := newTestScraper(server.Client()).Scrape(context.Background(), server.URL)

	assert.Contains(t, body, "過去最高益")
	assert.Contains(t, body, "円安が追い風")
}

func TestBodyScraperResilience(t *testing.T) {
	errorServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html><body><article>Error page body</article></body></html>`))
	}))
	defer errorServer.Close()

	emptyServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div>No container</div><p>Tiny</p></body></html>`))
	}))
	defer emptyServer.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	unreachable := closed.URL
	closed.Close()

	tests := []struct {
		name string
		url  string
	}{
		{"unreachable", unreachable},
		{"server error", errorServer.URL},
		{"no content", emptyServer.URL},
		{"malformed url", "http://[::1]:namedport"},
	}

	scraper := newTestScraper(&http.Client{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, "", scraper.Scrape(context.Background(), tt.url))
		})
	}
}

type panickingFetcher struct{}

func (panickingFetcher) Fetch(context.Context, string, time.Duration, map[string]string) (*Page, error) {
	panic("transport exploded")
}

func TestBodyScraperRecoversPanic(t *testing.T) {
	scraper := NewBodyScraper(panickingFetcher{}, NewContentExtractor(ExtractSelectors), time.Second)

	assert.NotPanics(t, func() {
		assert.Equal(t, "", scraper.Scrape(context.Background(), "https://example.com"))
	})
}
