// Package metrics exports Prometheus metrics for the fraud tracker.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all fraud tracker Prometheus metrics.
type Metrics struct {
	// Ingest metrics
	ClicksIngested  *prometheus.CounterVec
	ClicksRejected  *prometheus.CounterVec
	FraudClicks     prometheus.Counter
	SessionsStarted prometheus.Counter
	IngestDuration  prometheus.Histogram

	// Reporting metrics
	StatsCacheHits   prometheus.Counter
	StatsCacheMisses prometheus.Counter
}

// New initializes and registers all metrics on the default registry.
func New() *Metrics {
	m := &Metrics{}
	initIngestMetrics(m)
	initReportingMetrics(m)
	return m
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

func initIngestMetrics(m *Metrics) {
	m.ClicksIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fraud_tracker_clicks_ingested_total",
		Help: "Total click events ingested, by risk level (Low, Medium, High)",
	}, []string{"risk_level"})

	m.ClicksRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fraud_tracker_clicks_rejected_total",
		Help: "Total click events rejected before being recorded, by reason",
	}, []string{"reason"})

	m.FraudClicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fraud_tracker_fraud_clicks_total",
		Help: "Total click events assessed as fraudulent",
	})

	m.SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fraud_tracker_sessions_started_total",
		Help: "Total sessions created by a first click",
	})

	m.IngestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fraud_tracker_ingest_duration_seconds",
		Help:    "Time to score and persist a single click",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	})
}

func initReportingMetrics(m *Metrics) {
	m.StatsCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fraud_tracker_stats_cache_hits_total",
		Help: "Advertiser stats responses served from cache",
	})

	m.StatsCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fraud_tracker_stats_cache_misses_total",
		Help: "Advertiser stats responses recomputed from storage",
	})
}

// Rejection reasons for ClicksRejected.
const (
	ReasonValidation        = "validation"
	ReasonAdNotFound        = "ad_not_found"
	ReasonScorerUnavailable = "scorer_unavailable"
	ReasonStorage           = "storage"
)
