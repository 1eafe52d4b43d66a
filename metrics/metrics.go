// Package metrics exposes Prometheus metrics for synchronization sessions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c360studio/graphsync/sync"
)

// Recorder holds the session metrics. A nil Recorder is a no-op.
type Recorder struct {
	registry *prometheus.Registry

	datasetsAdded    prometheus.Counter
	datasetsDeleted  prometheus.Counter
	datasetsModified prometheus.Counter
	sessionsFailed   prometheus.Counter
	sessionDuration  prometheus.Histogram
	lastSyncTime     prometheus.Gauge
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		datasetsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphsync",
			Name:      "datasets_added_total",
			Help:      "Datasets added to the triplestore.",
		}),
		datasetsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphsync",
			Name:      "datasets_deleted_total",
			Help:      "Datasets deleted from the triplestore.",
		}),
		datasetsModified: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphsync",
			Name:      "datasets_modified_total",
			Help:      "Datasets replaced because their content changed.",
		}),
		sessionsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphsync",
			Name:      "sessions_failed_total",
			Help:      "Synchronization sessions that aborted with an error.",
		}),
		sessionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "graphsync",
			Name:      "session_duration_seconds",
			Help:      "Wall-clock duration of synchronization sessions.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		lastSyncTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "graphsync",
			Name:      "last_sync_timestamp_seconds",
			Help:      "Unix time of the last successful synchronization.",
		}),
	}
	r.registry.MustRegister(
		r.datasetsAdded,
		r.datasetsDeleted,
		r.datasetsModified,
		r.sessionsFailed,
		r.sessionDuration,
		r.lastSyncTime,
	)
	return r
}

// ObserveSession records a completed session.
func (r *Recorder) ObserveSession(report *sync.Report, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.datasetsAdded.Add(float64(len(report.Added)))
	r.datasetsDeleted.Add(float64(len(report.Deleted)))
	r.datasetsModified.Add(float64(len(report.Modified)))
	r.sessionDuration.Observe(elapsed.Seconds())
	r.lastSyncTime.SetToCurrentTime()
}

// ObserveFailure records an aborted session.
func (r *Recorder) ObserveFailure() {
	if r == nil {
		return
	}
	r.sessionsFailed.Inc()
}

// Handler returns the /metrics HTTP handler for this recorder.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve starts a blocking /metrics listener on addr.
func (r *Recorder) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	return http.ListenAndServe(addr, mux)
}
