package feed

import (
	"time"

	"github.com/lysyi3m/market-radar/app/watchlist"
)

// Entry is a raw feed entry as parsed from the document, before any
// filtering.
type Entry struct {
	Title        string
	Link         string
	Summary      string
	PublishedRaw string

	// Structured timestamps supplied by the feed library, if any.
	PublishedParsed *time.Time
	UpdatedParsed   *time.Time
}

// NewsItem is an entry that survived filtering and keyword matching.
type NewsItem struct {
	Title           string
	Link            string
	PublishedRaw    string
	PublishedAt     time.Time // zero when no timestamp could be parsed
	Summary         string
	ArticleBody     string
	MatchedKeywords []string
	Category        watchlist.Category
}

const (
	MaxSummaryLength     = 500
	MaxArticleBodyLength = 2000
)
