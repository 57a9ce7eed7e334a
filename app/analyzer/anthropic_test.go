package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/market-radar/app/feed"
	"github.com/lysyi3m/market-radar/app/watchlist"
)

func testItem() feed.NewsItem {
	return feed.NewsItem{
		Title:           "トヨタ、通期見通しを上方修正",
		Link:            "https://example.com/toyota",
		Summary:         "営業利益が市場予想を上回った",
		ArticleBody:     "トヨタ自動車は本日、通期の業績予想を上方修正した。",
		MatchedKeywords: []string{"トヨタ", "上方修正"},
		Category:        watchlist.CategoryPortfolio,
	}
}

func TestAnalyze(t *testing.T) {
	var got messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"{\"verdict\":\"STRONG_BUY\",\"timeframe\":\"DAY_TRADE\",\"reason\":\"上方修正\"}"}],"stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	client := New("test-key", "claude-test", time.Second, WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	result, err := client.Analyze(context.Background(), testItem())
	require.NoError(t, err)

	assert.Equal(t, VerdictStrongBuy, result.Verdict)
	assert.Equal(t, TimeframeDayTrade, result.Timeframe)
	assert.Equal(t, "上方修正", result.Reason)

	assert.Equal(t, "claude-test", got.Model)
	assert.Equal(t, 300, got.MaxTokens)
	assert.Equal(t, systemPrompt, got.System)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.True(t, strings.HasPrefix(got.Messages[0].Content, labelPortfolio))
	assert.Contains(t, got.Messages[0].Content, "トヨタ, 上方修正")
	assert.Contains(t, got.Messages[0].Content, "通期の業績予想を上方修正した")
}

func TestAnalyzeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	client := New("test-key", "claude-test", time.Second, WithBaseURL(server.URL))

	result, err := client.Analyze(context.Background(), testItem())
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestAnalyzeEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[],"stop_reason":"max_tokens"}`))
	}))
	defer server.Close()

	client := New("test-key", "claude-test", time.Second, WithBaseURL(server.URL))

	_, err := client.Analyze(context.Background(), testItem())
	assert.Error(t, err)
}

func TestAnalyzeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := New("test-key", "claude-test", 50*time.Millisecond, WithBaseURL(server.URL))

	_, err := client.Analyze(context.Background(), testItem())
	assert.Error(t, err)
}

func TestAnalyzeDisabled(t *testing.T) {
	client := New("", "claude-test", time.Second)

	assert.False(t, client.Enabled())
	_, err := client.Analyze(context.Background(), testItem())
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestBuildPromptOpportunity(t *testing.T) {
	item := testItem()
	item.Category = watchlist.CategoryOpportunity
	item.ArticleBody = ""

	prompt := buildPrompt(item)

	assert.True(t, strings.HasPrefix(prompt, labelOpportunity))
	assert.NotContains(t, prompt, "記事本文")
}
