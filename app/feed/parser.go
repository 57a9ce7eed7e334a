package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

const defaultTitle = "No title"

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses an RSS, Atom or JSON feed document and returns at most limit
// entries in document order. A non-positive limit returns all of them.
func (p *Parser) Run(data []byte, limit int) ([]Entry, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := feed.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		entries = append(entries, p.normalizeItem(item))
	}

	return entries, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) Entry {
	entry := Entry{
		Title:           cmp.Or(strings.TrimSpace(item.Title), defaultTitle),
		Link:            strings.TrimSpace(item.Link),
		Summary:         cmp.Or(item.Description, item.Content),
		PublishedRaw:    cmp.Or(item.Published, item.Updated),
		PublishedParsed: item.PublishedParsed,
		UpdatedParsed:   item.UpdatedParsed,
	}

	if entry.Link == "" && len(item.Links) > 0 {
		entry.Link = strings.TrimSpace(item.Links[0])
	}

	return entry
}
