package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkerMetrics records metadata for the participation feed worker.
type WorkerMetrics struct {
	tickDuration *prometheus.HistogramVec
	tickSuccess  *prometheus.CounterVec
	tickFailure  *prometheus.CounterVec
	commitments  *prometheus.CounterVec
	units        *prometheus.CounterVec
}

// NewWorkerMetrics registers the feed worker metrics on the provided registerer.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	if reg == nil {
		return &WorkerMetrics{}
	}
	tickDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "growth_tick_duration_seconds",
		Help:    "Duration of feed worker ticks in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"feed"})
	tickSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "growth_tick_success",
		Help: "Successful feed worker ticks.",
	}, []string{"feed"})
	tickFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "growth_tick_failure",
		Help: "Failed feed worker ticks.",
	}, []string{"feed"})
	commitments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "growth_commitments_applied_total",
		Help: "Commitments applied to campaigns by the feed worker.",
	}, []string{"feed"})
	units := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "growth_units_committed_total",
		Help: "Units committed to campaigns by the feed worker.",
	}, []string{"feed"})
	reg.MustRegister(tickDuration, tickSuccess, tickFailure, commitments, units)
	return &WorkerMetrics{
		tickDuration: tickDuration,
		tickSuccess:  tickSuccess,
		tickFailure:  tickFailure,
		commitments:  commitments,
		units:        units,
	}
}

// ObserveTick records the duration for the named feed.
func (m *WorkerMetrics) ObserveTick(feed string, duration time.Duration) {
	if m == nil || m.tickDuration == nil {
		return
	}
	m.tickDuration.WithLabelValues(normalizeLabel(feed)).Observe(duration.Seconds())
}

// IncTickSuccess increments the success counter for the named feed.
func (m *WorkerMetrics) IncTickSuccess(feed string) {
	if m == nil || m.tickSuccess == nil {
		return
	}
	m.tickSuccess.WithLabelValues(normalizeLabel(feed)).Inc()
}

// IncTickFailure increments the failure counter for the named feed.
func (m *WorkerMetrics) IncTickFailure(feed string) {
	if m == nil || m.tickFailure == nil {
		return
	}
	m.tickFailure.WithLabelValues(normalizeLabel(feed)).Inc()
}

// AddCommitments records applied commitments and the units they carried.
func (m *WorkerMetrics) AddCommitments(feed string, applied int, totalUnits int) {
	if m == nil || m.commitments == nil {
		return
	}
	label := normalizeLabel(feed)
	m.commitments.WithLabelValues(label).Add(float64(applied))
	m.units.WithLabelValues(label).Add(float64(totalUnits))
}

func normalizeLabel(feed string) string {
	if feed == "" {
		return "unknown"
	}
	return feed
}
