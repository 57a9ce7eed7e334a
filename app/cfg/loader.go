package cfg

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

const (
	ExtractorSelectors   = "selectors"
	ExtractorReadability = "readability"
)

type rawCfg struct {
	// Watchlist and sources
	WatchlistFile       string `long:"watchlist-file" env:"WATCHLIST_FILE" description:"YAML file with portfolio/opportunity keywords and feed URLs (built-in lists when empty)"`
	Feeds               string `long:"feeds" env:"RSS_FEEDS" description:"Comma-separated feed URLs, overrides the watchlist feeds"`
	OpportunityKeywords string `long:"opportunity-keywords" env:"OPPORTUNITY_KEYWORDS" description:"Comma-separated opportunity keywords, overrides the watchlist list"`
	LedgerFile          string `long:"ledger-file" env:"LAST_SEEN_FILE" default:"last_seen.txt" description:"Append-only file of already emitted URLs"`

	// Loop and HTTP timing
	IntervalSeconds      int    `long:"interval" env:"INTERVAL_SECONDS" default:"60" description:"Seconds between polling rounds"`
	HTTPTimeoutSeconds   int    `long:"http-timeout" env:"HTTP_TIMEOUT" default:"15" description:"Feed and webhook request timeout in seconds"`
	ScrapeTimeoutSeconds int    `long:"scrape-timeout" env:"SCRAPE_TIMEOUT" default:"10" description:"Article page request timeout in seconds"`
	ClaudeTimeoutSeconds int    `long:"claude-timeout" env:"CLAUDE_TIMEOUT" default:"30" description:"Classifier request timeout in seconds"`
	Extractor            string `long:"extractor" env:"EXTRACTOR" default:"selectors" choice:"selectors" choice:"readability" description:"Article body extraction strategy"`

	// External collaborators
	AnthropicAPIKey   string `long:"anthropic-api-key" env:"ANTHROPIC_API_KEY" description:"Anthropic API key (classification disabled when empty)"`
	ClaudeModel       string `long:"claude-model" env:"CLAUDE_MODEL" default:"claude-3-5-sonnet-latest" description:"Model used for classification"`
	DiscordWebhookURL string `long:"discord-webhook-url" env:"DISCORD_WEBHOOK_URL" description:"Discord webhook URL (notifications disabled when empty)"`

	// Application metadata
	Port         string `long:"port" env:"PORT" description:"Status server port (disabled when empty)"`
	APIAccessKey string `long:"api-access-key" env:"API_ACCESS_KEY" description:"Key for the /api endpoints of the status server (disabled when empty)"`
	UserAgent    string `long:"user-agent" env:"USER_AGENT" default:"InvestmentMonitorBot/2.0" description:"User agent string for feed requests"`
	Timezone     string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Tokyo)"`
	Debug        bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
	Once         bool   `long:"once" description:"Run a single polling round and exit"`
}

func Load() (*Cfg, error) {
	return LoadArgs(nil)
}

// LoadArgs parses the given arguments instead of os.Args. A nil slice means os.Args.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		WatchlistFile:       raw.WatchlistFile,
		Feeds:               SplitList(raw.Feeds),
		OpportunityKeywords: SplitList(raw.OpportunityKeywords),
		LedgerFile:          raw.LedgerFile,
		Interval:            seconds(raw.IntervalSeconds, 60),
		HTTPTimeout:         seconds(raw.HTTPTimeoutSeconds, 15),
		ScrapeTimeout:       seconds(raw.ScrapeTimeoutSeconds, 10),
		ClaudeTimeout:       seconds(raw.ClaudeTimeoutSeconds, 30),
		Extractor:           cmp.Or(raw.Extractor, ExtractorSelectors),
		AnthropicAPIKey:     raw.AnthropicAPIKey,
		ClaudeModel:         raw.ClaudeModel,
		DiscordWebhookURL:   raw.DiscordWebhookURL,
		Port:                raw.Port,
		APIAccessKey:        raw.APIAccessKey,
		UserAgent:           raw.UserAgent,
		Timezone:            raw.Timezone,
		Debug:               raw.Debug,
		Once:                raw.Once,
		Version:             GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

// SplitList splits a comma-separated value, dropping blank entries.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// seconds falls back to def for non-positive values.
func seconds(value, def int) time.Duration {
	if value <= 0 {
		value = def
	}
	return time.Duration(value) * time.Second
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
