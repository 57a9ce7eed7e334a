package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/lysyi3m/market-radar/app/analyzer"
	"github.com/lysyi3m/market-radar/app/feed"
	"github.com/lysyi3m/market-radar/app/watchlist"
)

type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color"`
	Fields      []Field      `json:"fields"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
}

type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

var jst = time.FixedZone("JST", 9*60*60)

var verdictLabels = map[analyzer.Verdict]string{
	analyzer.VerdictStrongBuy: "🚀 STRONG BUY",
	analyzer.VerdictBuy:       "🟢 BUY",
	analyzer.VerdictWait:      "⏳ WAIT",
	analyzer.VerdictSell:      "🔴 SELL",
}

var timeframeLabels = map[analyzer.Timeframe]string{
	analyzer.TimeframeDayTrade: "⚡️ [DAY TRADE]",
	analyzer.TimeframeMidLong:  "🌱 [MID TERM]",
}

var verdictColors = map[analyzer.Verdict]int{
	analyzer.VerdictStrongBuy: 0xFF4500,
	analyzer.VerdictBuy:       0x00FF00,
	analyzer.VerdictWait:      0xFFAA00,
	analyzer.VerdictSell:      0xFF0000,
}

const (
	defaultLabel = "📊"
	defaultColor = 0x888888
)

func label(m map[analyzer.Verdict]string, v analyzer.Verdict) string {
	if l, ok := m[v]; ok {
		return l
	}
	return defaultLabel
}

// BuildEmbed renders a classified item as a Discord embed.
func BuildEmbed(item feed.NewsItem, result *analyzer.Result) Embed {
	timeframe, ok := timeframeLabels[result.Timeframe]
	if !ok {
		timeframe = defaultLabel
	}

	color, ok := verdictColors[result.Verdict]
	if !ok {
		color = defaultColor
	}

	categoryLabel := "💡 Opportunity"
	if item.Category == watchlist.CategoryPortfolio {
		categoryLabel = "🛡️ Portfolio"
	}

	embed := Embed{
		Title:       fmt.Sprintf("%s %s", timeframe, label(verdictLabels, result.Verdict)),
		Description: result.Reason,
		URL:         item.Link,
		Color:       color,
		Fields: []Field{
			{Name: "Category", Value: categoryLabel, Inline: true},
			{Name: "Verdict", Value: fmt.Sprintf("**%s**", result.Verdict), Inline: true},
			{Name: "Timeframe", Value: fmt.Sprintf("**%s**", result.Timeframe), Inline: true},
			{Name: "📰 ニュース", Value: feed.Truncate(item.Title, 120), Inline: false},
		},
		Footer: &EmbedFooter{
			Text: fmt.Sprintf("Keywords: %s | Powered by Claude", feed.Truncate(strings.Join(item.MatchedKeywords, ", "), 80)),
		},
	}

	if item.PublishedRaw != "" || !item.PublishedAt.IsZero() {
		embed.Fields = append(embed.Fields, Field{
			Name:   "📅 記事公開日時",
			Value:  FormatPublished(item),
			Inline: true,
		})
	}

	if result.Urgent() {
		embed.Fields = append(embed.Fields, Field{
			Name:   "⚠️ URGENT",
			Value:  "**→ 翌営業日の寄り付きをチェック！**",
			Inline: false,
		})
	}

	return embed
}

// FormatPublished renders the publish time in JST, falling back to the
// first 20 characters of the raw string when it cannot be parsed.
func FormatPublished(item feed.NewsItem) string {
	ts := item.PublishedAt
	if ts.IsZero() {
		parsed, ok := feed.ParseTimestamp(item.PublishedRaw)
		if !ok {
			return feed.Truncate(item.PublishedRaw, 20)
		}
		ts = parsed
	}
	return ts.In(jst).Format("01/02 15:04 JST")
}

// StartupInfo summarises the running configuration for the startup message.
type StartupInfo struct {
	Version     string
	Portfolio   []string
	Opportunity []string
	Interval    time.Duration
	Feeds       int
}

func (s StartupInfo) Message() string {
	return fmt.Sprintf("🤖 **Market Radar %s Started**\n\n"+
		"🛡️ Portfolio: %s...\n"+
		"💡 Opportunity: %s...\n"+
		"⏱️ Interval: %s\n"+
		"📡 RSS feeds: %d\n\n"+
		"🚀 Bot is now running!",
		s.Version, head(s.Portfolio, 5), head(s.Opportunity, 5), s.Interval, s.Feeds)
}

func head(list []string, n int) string {
	if len(list) > n {
		list = list[:n]
	}
	return strings.Join(list, ", ")
}
