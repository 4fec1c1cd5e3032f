// Package metrics records report pipeline counters in a private Prometheus
// registry and exports them in the node_exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/j-veylop/artist-engagement/internal/engagement"
)

// Event dispositions.
const (
	DispositionAccepted           = "accepted"
	DispositionUnknownType        = "unknown_type"
	DispositionUnresolvedTimezone = "unresolved_timezone"
	DispositionOutsideWindow      = "outside_window"
)

var (
	// Registry holds every collector in this package.
	Registry = prometheus.NewRegistry()

	Builds = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aeng_report_builds_total",
		Help: "Total report builds by aggregation source",
	}, []string{"source"})
	BuildErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aeng_report_build_errors_total",
		Help: "Total report builds that failed to fetch data",
	})
	BuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "aeng_report_build_duration_seconds",
		Help:    "Report build duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	Events = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aeng_events_total",
		Help: "Raw events seen by the engine, by disposition",
	}, []string{"disposition"})
	WatchTriggers = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aeng_watch_triggers_total",
		Help: "Database changes that triggered a rebuild in watch mode",
	})
)

func init() {
	Registry.MustRegister(Builds, BuildErrors, BuildDuration, Events, WatchTriggers)
}

// ObserveBuildDuration records a build that started at start.
func ObserveBuildDuration(start time.Time) {
	BuildDuration.Observe(time.Since(start).Seconds())
}

// RecordLocalizeStats adds one engine pass to the event counters.
func RecordLocalizeStats(s engagement.LocalizeStats) {
	Events.WithLabelValues(DispositionAccepted).Add(float64(s.Accepted))
	Events.WithLabelValues(DispositionUnknownType).Add(float64(s.UnknownType))
	Events.WithLabelValues(DispositionUnresolvedTimezone).Add(float64(s.UnresolvedTimezone))
	Events.WithLabelValues(DispositionOutsideWindow).Add(float64(s.OutsideWindow))
}

// WriteTextfile writes the registry to path for the node_exporter textfile
// collector. An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, Registry)
}
