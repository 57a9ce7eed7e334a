package watchlist

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Group is a named set of portfolio keywords, usually one holding.
type Group struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

type Watchlist struct {
	Portfolio   []Group  `yaml:"portfolio"`
	Opportunity []string `yaml:"opportunity"`
	Feeds       []string `yaml:"feeds"`
}

// Load reads a watchlist YAML file. An empty path yields the built-in
// defaults; sections missing from the file are taken from the defaults too.
func Load(path string) (*Watchlist, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var wl Watchlist
	if err := yaml.Unmarshal(data, &wl); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	def := Default()
	if wl.Portfolio == nil {
		wl.Portfolio = def.Portfolio
	}
	if wl.Opportunity == nil {
		wl.Opportunity = def.Opportunity
	}
	if wl.Feeds == nil {
		wl.Feeds = def.Feeds
	}

	if err := wl.validate(); err != nil {
		return nil, fmt.Errorf("invalid watchlist %s: %w", path, err)
	}

	slog.Debug("Watchlist loaded", "file", path, "groups", len(wl.Portfolio), "opportunity", len(wl.Opportunity), "feeds", len(wl.Feeds))

	return &wl, nil
}

// PortfolioKeywords flattens all groups in declaration order.
func (w *Watchlist) PortfolioKeywords() []string {
	var keywords []string
	for _, g := range w.Portfolio {
		keywords = append(keywords, g.Keywords...)
	}
	return keywords
}

func (w *Watchlist) Registry() *Registry {
	return NewRegistry(w.PortfolioKeywords(), w.Opportunity)
}

// FeedURLs returns the configured feeds trimmed, without blanks or repeats,
// in their original order.
func (w *Watchlist) FeedURLs() []string {
	urls := make([]string, 0, len(w.Feeds))
	for _, u := range w.Feeds {
		u = strings.TrimSpace(u)
		if u == "" || slices.Contains(urls, u) {
			continue
		}
		urls = append(urls, u)
	}
	return urls
}

func (w *Watchlist) validate() error {
	for i, g := range w.Portfolio {
		if len(compact(g.Keywords)) == 0 {
			return fmt.Errorf("portfolio group at index %d (%q) has no keywords", i, g.Name)
		}
	}

	for _, u := range w.FeedURLs() {
		if err := ValidateFeedURL(u); err != nil {
			return err
		}
	}

	return nil
}

func ValidateFeedURL(raw string) error {
	parsed, err := url.ParseRequestURI(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("invalid feed URL: %s", raw)
	}
	return nil
}
