package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	trackedTokens prometheus.Gauge
	tokensAdded   prometheus.Counter
	removalsTotal *prometheus.CounterVec
	alertsTotal   *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	cycleRemovals prometheus.Histogram
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		trackedTokens: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "solasub_tracked_tokens",
				Help: "Number of tokens currently tracked",
			},
		),
		tokensAdded: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "solasub_tokens_added_total",
				Help: "Total number of tokens admitted from the launch stream",
			},
		),
		removalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solasub_removals_total",
				Help: "Total number of tokens removed, by reason",
			},
			[]string{"reason"},
		),
		alertsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solasub_alerts_total",
				Help: "Total number of admitted risk alerts",
			},
			[]string{"type", "escalated"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solasub_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		cycleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "solasub_cycle_duration_seconds",
				Help:    "Duration of one refresh-and-filter cycle",
				Buckets: prometheus.DefBuckets,
			},
		),
		cycleRemovals: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "solasub_cycle_removals",
				Help:    "Tokens removed per cycle",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solasub_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordCycle records one completed filter pass.
func (r *Recorder) RecordCycle(tracked, removed, alerts int, elapsed time.Duration) {
	r.trackedTokens.Set(float64(tracked))
	r.cycleDuration.Observe(elapsed.Seconds())
	r.cycleRemovals.Observe(float64(removed))
}

// RecordTokenAdded records a token admitted from the launch stream.
func (r *Recorder) RecordTokenAdded() {
	r.tokensAdded.Inc()
}

// RecordRemoval records a removal by reason kind.
func (r *Recorder) RecordRemoval(reasonKind string) {
	r.removalsTotal.WithLabelValues(reasonKind).Inc()
}

// RecordAlert records an admitted risk alert.
func (r *Recorder) RecordAlert(alertType string, escalated bool) {
	esc := "no"
	if escalated {
		esc = "yes"
	}
	r.alertsTotal.WithLabelValues(alertType, esc).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
