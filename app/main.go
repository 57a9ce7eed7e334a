package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/market-radar/app/analyzer"
	"github.com/lysyi3m/market-radar/app/api"
	"github.com/lysyi3m/market-radar/app/cfg"
	"github.com/lysyi3m/market-radar/app/feed"
	"github.com/lysyi3m/market-radar/app/ledger"
	"github.com/lysyi3m/market-radar/app/metrics"
	"github.com/lysyi3m/market-radar/app/notifier"
	"github.com/lysyi3m/market-radar/app/tasks"
	"github.com/lysyi3m/market-radar/app/watchlist"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	setupLogging(appCfg.Debug)

	slog.Info("Starting Market Radar", "version", appCfg.Version)
	for _, problem := range appCfg.Problems() {
		slog.Error("Configuration problem", "problem", problem)
	}

	wl, err := watchlist.Load(appCfg.WatchlistFile)
	if err != nil {
		slog.Error("Failed to load watchlist", "file", appCfg.WatchlistFile, "error", err)
		os.Exit(1)
	}
	if len(appCfg.OpportunityKeywords) > 0 {
		wl.Opportunity = appCfg.OpportunityKeywords
	}
	if len(appCfg.Feeds) > 0 {
		wl.Feeds = validFeeds(appCfg.Feeds)
	}

	registry := wl.Registry()
	feeds := wl.FeedURLs()
	slog.Info("Watchlist ready", "portfolio", len(registry.Portfolio()), "opportunity", len(registry.Opportunity()), "feeds", len(feeds))

	store := ledger.Open(appCfg.LedgerFile, ledger.DefaultMaxEntries)
	slog.Info("Ledger ready", "file", store.Path(), "urls", store.Len())
	m := metrics.New()
	m.SetLedgerSize(store.Len())

	fetcher := feed.NewFetcher(&http.Client{}, appCfg.UserAgent)
	extractor := feed.NewContentExtractor(feed.ExtractMode(appCfg.Extractor))

	pipeline := tasks.NewPipeline(feeds, &tasks.PipelineDeps{
		Getter:      fetcher,
		Parser:      feed.NewParser(),
		Filterer:    feed.NewFilterer(nil),
		Registry:    registry,
		Ledger:      store,
		Scraper:     feed.NewBodyScraper(fetcher, extractor, appCfg.ScrapeTimeout),
		Metrics:     m,
		HTTPTimeout: appCfg.HTTPTimeout,
	})

	classifier := analyzer.New(appCfg.AnthropicAPIKey, appCfg.ClaudeModel, appCfg.ClaudeTimeout)
	discord := notifier.NewDiscord(appCfg.DiscordWebhookURL, appCfg.HTTPTimeout, nil)

	scheduler := tasks.NewScheduler(pipeline, classifier, discord, m, notifier.StartupInfo{
		Version:     appCfg.Version,
		Portfolio:   registry.Portfolio(),
		Opportunity: registry.Opportunity(),
		Interval:    appCfg.Interval,
		Feeds:       len(feeds),
	}, appCfg.Interval)

	if appCfg.Once {
		scheduler.RunOnce(context.Background())
		return
	}

	var httpServer *http.Server
	serverErrChan := make(chan error, 1)
	if appCfg.Port != "" {
		handler := api.NewHandler(scheduler, store, registry, pipeline, m, appCfg.Version)
		httpServer = &http.Server{
			Addr:         ":" + appCfg.Port,
			Handler:      api.NewServer(handler, appCfg.APIAccessKey),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		go func() {
			slog.Info("Starting status server", "port", appCfg.Port)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
			}
		}()
	}

	scheduler.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Status server failed", "error", err)
	}

	slog.Info("Shutting down gracefully")

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("Status server shutdown error", "error", err)
		}
	}

	scheduler.Stop()

	slog.Info("Market Radar stopped")
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// validFeeds drops feed URLs that are not absolute http(s) URLs.
func validFeeds(urls []string) []string {
	valid := make([]string, 0, len(urls))
	for _, u := range urls {
		if err := watchlist.ValidateFeedURL(u); err != nil {
			slog.Warn("Skipping feed", "url", u, "error", err)
			continue
		}
		valid = append(valid, u)
	}
	return valid
}
