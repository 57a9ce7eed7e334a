package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/market-radar/app/ledger"
	"github.com/lysyi3m/market-radar/app/metrics"
	"github.com/lysyi3m/market-radar/app/tasks"
	"github.com/lysyi3m/market-radar/app/watchlist"
)

type staticStats struct {
	stats tasks.Stats
}

func (s staticStats) Stats() tasks.Stats {
	return s.stats
}

type staticFeeds []string

func (f staticFeeds) Feeds() []string {
	return f
}

func newTestServer(t *testing.T, apiKey string) (*gin.Engine, *metrics.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := metrics.New()
	stats := staticStats{stats: tasks.Stats{
		Loops:      3,
		NewsFound:  5,
		StrongBuys: 1,
		StartedAt:  time.Now().Add(-90 * time.Second),
	}}
	registry := watchlist.NewRegistry([]string{"トヨタ", "ソニー"}, []string{"IPO"})
	store := ledger.NewMemory(10, "https://example.com/a", "https://example.com/b")
	feeds := staticFeeds{"https://example.com/rss.xml"}

	handler := NewHandler(stats, store, registry, feeds, m, "1.2.3")
	return NewServer(handler, apiKey), m
}

func doRequest(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newTestServer(t, "")

	w := doRequest(r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 1, body.Feeds)
	assert.Equal(t, 3, body.Keywords)
	assert.Equal(t, 2, body.LedgerSize)
	_, err := time.Parse(time.RFC3339, body.Timestamp)
	assert.NoError(t, err)
}

func TestStats(t *testing.T) {
	r, _ := newTestServer(t, "")

	w := doRequest(r, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 3, body["loops"])
	assert.EqualValues(t, 5, body["news_found"])
	assert.EqualValues(t, 1, body["strong_buys"])
	assert.Equal(t, "1.2.3", body["version"])
	assert.NotEmpty(t, body["uptime"])
	assert.NotContains(t, body, "last_tick_at")
}

func TestStatsWithoutProvider(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewServer(NewHandler(nil, nil, nil, nil, nil, "dev"), "")

	w := doRequest(r, http.MethodGet, "/stats", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doRequest(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r, m := newTestServer(t, "")
	m.ItemEmitted("portfolio")
	m.SetLedgerSize(2)

	w := doRequest(r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `market_radar_items_emitted_total{category="portfolio"} 1`)
	assert.Contains(t, w.Body.String(), "market_radar_ledger_size 2")
}

func TestRootAndFavicon(t *testing.T) {
	r, _ := newTestServer(t, "")

	w := doRequest(r, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Market Radar", body["service"])
	assert.Equal(t, "1.2.3", body["version"])
	endpoints, ok := body["endpoints"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, endpoints, "feeds")

	w = doRequest(r, http.MethodGet, "/favicon.ico", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newTestServer(t, "")

	w := doRequest(r, http.MethodOptions, "/health", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-API-Key")
}

func TestAPIDisabledWithoutKey(t *testing.T) {
	r, _ := newTestServer(t, "")

	w := doRequest(r, http.MethodGet, "/api/feeds", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIAuthentication(t *testing.T) {
	r, _ := newTestServer(t, "secret")

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"missing key", nil, http.StatusUnauthorized},
		{"wrong key", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"header key", map[string]string{"X-API-Key": "secret"}, http.StatusOK},
		{"bearer token", map[string]string{"Authorization": "Bearer secret"}, http.StatusOK},
		{"basic auth ignored", map[string]string{"Authorization": "Basic secret"}, http.StatusUnauthorized},
		{"key prefix only", map[string]string{"X-API-Key": "secre"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodGet, "/api/feeds", tt.headers)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAPIListFeeds(t *testing.T) {
	r, _ := newTestServer(t, "secret")

	w := doRequest(r, http.MethodGet, "/api/feeds", map[string]string{"X-API-Key": "secret"})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Feeds []string `json:"feeds"`
		Count int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"https://example.com/rss.xml"}, body.Feeds)
	assert.Equal(t, 1, body.Count)
}

func TestAPIWatchlist(t *testing.T) {
	r, _ := newTestServer(t, "secret")

	w := doRequest(r, http.MethodGet, "/api/watchlist", map[string]string{"X-API-Key": "secret"})
	require.Equal(t, http.StatusOK, w.Code)

	var body watchlistResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"トヨタ", "ソニー"}, body.Portfolio)
	assert.Equal(t, []string{"IPO"}, body.Opportunity)
}

func TestAccessLogLine(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	req.Header.Set("User-Agent", "uptime-checker/1.0")

	line := accessLogLine(gin.LogFormatterParams{
		Request:    req,
		TimeStamp:  time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		StatusCode: http.StatusOK,
		Latency:    1500 * time.Microsecond,
		ClientIP:   "10.0.0.1",
		Method:     http.MethodGet,
		Path:       "/stats",
	})

	assert.Equal(t, "10.0.0.1 - [2025-03-10T12:00:00Z] \"GET /stats HTTP/1.1\" 200 1.5ms \"uptime-checker/1.0\" \n", line)
}
