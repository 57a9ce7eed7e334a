package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/lysyi3m/market-radar/app/analyzer"
	"github.com/lysyi3m/market-radar/app/feed"
	"github.com/lysyi3m/market-radar/app/metrics"
	"github.com/lysyi3m/market-radar/app/notifier"
)

const DefaultNotifyPause = 2 * time.Second

// Stats are cumulative counters for the lifetime of the process.
type Stats struct {
	Loops      int       `json:"loops"`
	NewsFound  int       `json:"news_found"`
	Analyzed   int       `json:"analyzed"`
	StrongBuys int       `json:"strong_buys"`
	Suppressed int       `json:"suppressed"`
	Notified   int       `json:"notified"`
	Errors     int       `json:"errors"`
	StartedAt  time.Time `json:"started_at"`
	LastTickAt time.Time `json:"last_tick_at,omitzero"`
}

// Scheduler runs the monitor loop: ingest, classify, notify, sleep.
type Scheduler struct {
	ingester    Ingester
	analyzer    Analyzer
	notifier    Notifier
	metrics     *metrics.Metrics
	startup     notifier.StartupInfo
	interval    time.Duration
	notifyPause time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	stats Stats
}

func NewScheduler(ingester Ingester, classifier Analyzer, alerts Notifier, m *metrics.Metrics, startup notifier.StartupInfo, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		ingester:    ingester,
		analyzer:    classifier,
		notifier:    alerts,
		metrics:     m,
		startup:     startup,
		interval:    interval,
		notifyPause: DefaultNotifyPause,
		ctx:         ctx,
		cancel:      cancel,
		stats:       Stats{StartedAt: time.Now()},
	}
}

// SetNotifyPause changes the delay between two notifications.
func (s *Scheduler) SetNotifyPause(d time.Duration) {
	s.notifyPause = d
}

// Start sends the startup notification and runs one tick immediately, then
// one per interval until Stop.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.sendStartup(s.ctx)
		s.Tick(s.ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.Tick(s.ctx)
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	s.logStats("Scheduler stopped")
}

// RunOnce sends the startup notification and runs a single tick.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.sendStartup(ctx)
	s.Tick(ctx)
}

func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stats
}

// Tick runs one iteration. Panics are recovered, counted and reported so the
// loop survives any single failure.
func (s *Scheduler) Tick(ctx context.Context) {
	task := NewTask(TaskTypeMonitorTick, "")
	task.Start()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic in monitor tick: %v", r)
			slog.Error("Critical loop error", "id", task.GetID(), "error", err, "stack", string(debug.Stack()))
			s.update(func(st *Stats) { st.Errors++ })
			s.reportError(ctx, err.Error())
		}
		s.metrics.ObserveTick(task.GetDuration().Seconds())
	}()

	loop := s.update(func(st *Stats) {
		st.Loops++
		st.LastTickAt = time.Now()
	}).Loops
	slog.Info("Loop started", "loop", loop, "id", task.GetID())

	items := s.ingester.FetchAllNews(ctx)
	if len(items) == 0 {
		slog.Info("No new matching news", "loop", loop)
		s.logStats("Task completed")
		return
	}

	s.update(func(st *Stats) { st.NewsFound += len(items) })
	slog.Info("Found new items", "loop", loop, "count", len(items))

	for idx, item := range items {
		if ctx.Err() != nil {
			return
		}
		slog.Info("Processing item", "index", idx+1, "total", len(items), "title", feed.Truncate(item.Title, 60))
		s.handleItem(ctx, item)
	}

	s.logStats("Task completed")
}

func (s *Scheduler) handleItem(ctx context.Context, item feed.NewsItem) {
	result, err := s.analyzer.Analyze(ctx, item)
	if err != nil {
		if errors.Is(err, analyzer.ErrDisabled) {
			slog.Debug("Analyzer disabled, skipping item", "link", item.Link)
		} else {
			slog.Warn("Analysis failed, skipping item", "link", item.Link, "error", err)
		}
		return
	}
	if result == nil {
		slog.Warn("Analysis returned no result, skipping item", "link", item.Link)
		return
	}

	s.metrics.Verdict(string(result.Verdict))
	s.update(func(st *Stats) {
		st.Analyzed++
		if result.Verdict == analyzer.VerdictStrongBuy {
			st.StrongBuys++
		}
	})

	if result.Verdict == analyzer.VerdictWait {
		slog.Info("Verdict WAIT, notification suppressed", "link", item.Link)
		s.update(func(st *Stats) { st.Suppressed++ })
		return
	}

	if err := s.notifier.SendAnalysisAlert(ctx, item, result); err != nil {
		s.metrics.Notification(notificationResult(err))
		slog.Error("Notification failed", "link", item.Link, "error", err)
	} else {
		s.metrics.Notification("success")
		s.update(func(st *Stats) { st.Notified++ })
	}

	s.pause(ctx)
}

func (s *Scheduler) pause(ctx context.Context) {
	if s.notifyPause <= 0 {
		return
	}
	timer := time.NewTimer(s.notifyPause)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (s *Scheduler) sendStartup(ctx context.Context) {
	if err := s.notifier.SendStartup(ctx, s.startup); err != nil {
		slog.Warn("Startup notification failed", "error", err)
	}
}

func (s *Scheduler) reportError(ctx context.Context, msg string) {
	if err := s.notifier.SendErrorAlert(ctx, msg); err != nil {
		slog.Warn("Error alert failed", "error", err)
	}
}

func (s *Scheduler) update(fn func(*Stats)) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.stats)
	return s.stats
}

func (s *Scheduler) logStats(msg string) {
	st := s.Stats()
	slog.Info(msg,
		"type", TaskTypeMonitorTick,
		"loops", st.Loops,
		"found", st.NewsFound,
		"analyzed", st.Analyzed,
		"strong_buys", st.StrongBuys,
		"suppressed", st.Suppressed,
		"notified", st.Notified,
		"errors", st.Errors,
		"uptime", time.Since(st.StartedAt).Round(time.Second))
}

func notificationResult(err error) string {
	switch {
	case errors.Is(err, notifier.ErrNotConfigured):
		return "disabled"
	case errors.Is(err, notifier.ErrRateLimited):
		return "rate_limited"
	default:
		return "error"
	}
}
