package cfg

import "time"

type Cfg struct {
	// Watchlist and sources
	WatchlistFile       string
	Feeds               []string
	OpportunityKeywords []string
	LedgerFile          string

	// Loop and HTTP timing
	Interval      time.Duration
	HTTPTimeout   time.Duration
	ScrapeTimeout time.Duration
	ClaudeTimeout time.Duration
	Extractor     string

	// External collaborators
	AnthropicAPIKey   string
	ClaudeModel       string
	DiscordWebhookURL string

	// Application metadata
	Port         string
	APIAccessKey string
	UserAgent    string
	Timezone     string
	Debug        bool
	Once         bool
	Version      string
}

// Problems lists settings that leave part of the bot disabled. None of them
// is fatal: the loop keeps running and the affected stage is skipped.
func (c *Cfg) Problems() []string {
	var problems []string
	if c.AnthropicAPIKey == "" {
		problems = append(problems, "ANTHROPIC_API_KEY is not set")
	}
	if c.DiscordWebhookURL == "" {
		problems = append(problems, "DISCORD_WEBHOOK_URL is not set")
	}
	return problems
}
