package watchlist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	wl, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if len(wl.Portfolio) != 3 {
		t.Errorf("Expected 3 default portfolio groups, got %d", len(wl.Portfolio))
	}
	if len(wl.FeedURLs()) != 3 {
		t.Errorf("Expected 3 default feeds, got %d", len(wl.FeedURLs()))
	}
	if wl.Registry().Lookup("三菱UFJ") != CategoryPortfolio {
		t.Error("Expected default registry to know portfolio keywords")
	}
}

func TestLoadValidFile(t *testing.T) {
	tempDir := t.TempDir()

	content := `
portfolio:
  - name: "Foo Corp"
    keywords: ["Foo Corp", "1234"]
opportunity:
  - "upgrade"
feeds:
  - "https://example.com/feed.xml"
  - " https://example.com/feed.xml "
  - "https://example.com/other.xml"
`
	path := filepath.Join(tempDir, "watchlist.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	wl, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := wl.PortfolioKeywords(); len(got) != 2 || got[0] != "Foo Corp" {
		t.Errorf("Unexpected portfolio keywords: %v", got)
	}
	if len(wl.Opportunity) != 1 || wl.Opportunity[0] != "upgrade" {
		t.Errorf("Unexpected opportunity keywords: %v", wl.Opportunity)
	}

	feeds := wl.FeedURLs()
	if len(feeds) != 2 {
		t.Fatalf("Expected 2 unique feeds, got %d: %v", len(feeds), feeds)
	}
	if feeds[0] != "https://example.com/feed.xml" || feeds[1] != "https://example.com/other.xml" {
		t.Errorf("Expected feed order to be preserved, got %v", feeds)
	}
}

func TestLoadMissingSectionsFallBackToDefaults(t *testing.T) {
	tempDir := t.TempDir()

	content := `
opportunity:
  - "upgrade"
`
	path := filepath.Join(tempDir, "watchlist.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	wl, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(wl.Portfolio) != len(Default().Portfolio) {
		t.Errorf("Expected default portfolio groups, got %d", len(wl.Portfolio))
	}
	if len(wl.Opportunity) != 1 {
		t.Errorf("Expected file opportunity list to win, got %v", wl.Opportunity)
	}
}

func TestLoadInvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "broken yaml", content: "portfolio: [unclosed"},
		{name: "empty group", content: "portfolio:\n  - name: empty\n    keywords: []\n"},
		{name: "bad feed url", content: "feeds:\n  - \"not a url\"\n"},
		{name: "unsupported scheme", content: "feeds:\n  - \"ftp://example.com/feed\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "watchlist.yml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Expected error for invalid watchlist")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
