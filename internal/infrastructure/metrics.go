package infrastructure

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "mentions"

// RunMetrics collects one run's figures in a private registry. The batch job
// has no listener to scrape, so the registry is written out as a textfile
// for node_exporter's textfile collector.
type RunMetrics struct {
	registry *prometheus.Registry

	LexiconEntries   prometheus.Gauge
	CommentsFetched  prometheus.Gauge
	CommentsMatched  prometheus.Gauge
	TickersMentioned prometheus.Gauge
	MentionsTotal    prometheus.Gauge
	TickerMentions   *prometheus.GaugeVec
	StageDuration    *prometheus.GaugeVec
	LastSuccess      prometheus.Gauge
}

// NewRunMetrics creates and registers the run's gauges
func NewRunMetrics() *RunMetrics {
	m := &RunMetrics{
		registry: prometheus.NewRegistry(),
		LexiconEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "lexicon_entries",
			Help:      "Company names loaded into the lexicon.",
		}),
		CommentsFetched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "comments_fetched",
			Help:      "Comments fetched from the daily thread.",
		}),
		CommentsMatched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "comments_matched",
			Help:      "Comments mentioning at least one ticker.",
		}),
		TickersMentioned: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "tickers_mentioned",
			Help:      "Distinct tickers in the tally.",
		}),
		MentionsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "mentions_total",
			Help:      "Sum of all ticker mention counts.",
		}),
		TickerMentions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "ticker_mentions",
			Help:      "Mention count per ticker in the last run.",
		}, []string{"ticker"}),
		StageDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of each pipeline stage.",
		}, []string{"stage", "status"}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}

	m.registry.MustRegister(
		m.LexiconEntries,
		m.CommentsFetched,
		m.CommentsMatched,
		m.TickersMentioned,
		m.MentionsTotal,
		m.TickerMentions,
		m.StageDuration,
		m.LastSuccess,
	)
	return m
}

// ObserveStage records how long a stage took and whether it failed
func (m *RunMetrics) ObserveStage(stage string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.StageDuration.WithLabelValues(stage, status).Set(d.Seconds())
}

// ObserveTally records the per-ticker counts and their totals
func (m *RunMetrics) ObserveTally(tally map[string]int) {
	total := 0
	for ticker, count := range tally {
		m.TickerMentions.WithLabelValues(ticker).Set(float64(count))
		total += count
	}
	m.TickersMentioned.Set(float64(len(tally)))
	m.MentionsTotal.Set(float64(total))
}

// MarkSuccess stamps the run as successful at t
func (m *RunMetrics) MarkSuccess(t time.Time) {
	m.LastSuccess.Set(float64(t.Unix()))
}

// Gatherer exposes the registry for tests and custom exporters
func (m *RunMetrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the registry atomically in the text exposition format
func (m *RunMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
