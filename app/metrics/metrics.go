package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "market_radar"

// Metrics holds the collectors for one process. Every method is safe to call
// on a nil receiver so components can run without instrumentation.
type Metrics struct {
	registry *prometheus.Registry

	feedFetches     *prometheus.CounterVec
	entriesRejected *prometheus.CounterVec
	itemsEmitted    *prometheus.CounterVec
	verdicts        *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	ledgerSize      prometheus.Gauge
	tickDuration    prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		feedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_fetch_total",
			Help:      "Feed fetch attempts by result.",
		}, []string{"result"}),
		entriesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_rejected_total",
			Help:      "Feed entries dropped before emission, by reason.",
		}, []string{"reason"}),
		itemsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_emitted_total",
			Help:      "News items emitted by the ingestion pipeline, by category.",
		}, []string{"category"}),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_total",
			Help:      "Classifier verdicts.",
		}, []string{"verdict"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Webhook deliveries by result.",
		}, []string{"result"}),
		ledgerSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_size",
			Help:      "URLs currently held by the seen-URL ledger.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall time of one monitor tick.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
		}),
	}

	m.registry.MustRegister(
		m.feedFetches,
		m.entriesRejected,
		m.itemsEmitted,
		m.verdicts,
		m.notifications,
		m.ledgerSize,
		m.tickDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) FeedFetched(ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "error"
	}
	m.feedFetches.WithLabelValues(result).Inc()
}

func (m *Metrics) EntryRejected(reason string) {
	if m == nil {
		return
	}
	m.entriesRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) ItemEmitted(category string) {
	if m == nil {
		return
	}
	m.itemsEmitted.WithLabelValues(category).Inc()
}

func (m *Metrics) Verdict(verdict string) {
	if m == nil {
		return
	}
	m.verdicts.WithLabelValues(verdict).Inc()
}

func (m *Metrics) Notification(result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(result).Inc()
}

func (m *Metrics) SetLedgerSize(n int) {
	if m == nil {
		return
	}
	m.ledgerSize.Set(float64(n))
}

func (m *Metrics) ObserveTick(seconds float64) {
	if m == nil {
		return
	}
	m.tickDuration.Observe(seconds)
}
