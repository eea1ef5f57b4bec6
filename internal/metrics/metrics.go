// Package metrics defines the Prometheus instrumentation for the service.
// Metrics are registered at package init via promauto and shared globally.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Playlist and synchronization metrics
var (
	AnchorResetsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_anchor_resets_total",
			Help: "Total number of sync anchor resets caused by playlist changes",
		},
	)

	PlaylistEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_playlist_entries",
			Help: "Number of entries in the current synchronized playlist",
		},
	)

	PlaylistDurationSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_playlist_duration_seconds",
			Help: "Total loop duration of the current synchronized playlist in seconds",
		},
	)
)

// Duration probe metrics
var (
	ProbeCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_probe_cache_hits_total",
			Help: "Total number of duration cache hits",
		},
	)

	ProbeCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_probe_cache_misses_total",
			Help: "Total number of duration cache misses",
		},
	)

	ProbeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_probe_failures_total",
			Help: "Total number of failed duration probes",
		},
	)
)

// Content watcher metrics
var (
	WatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_watcher_events_total",
			Help: "Total number of filesystem watcher events",
		},
		[]string{"event_type"},
	)

	WatcherErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_watcher_errors_total",
			Help: "Total number of filesystem watcher errors",
		},
	)

	WatcherRescansTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_watcher_rescans_total",
			Help: "Total number of content rescans triggered by the watcher",
		},
	)
)
