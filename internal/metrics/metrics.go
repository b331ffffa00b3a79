// Package metrics defines Prometheus metrics for price-list-publisher.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "plp"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 if the last /healthz check succeeded.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 if the last /readyz check succeeded.",
	})

	HTTPPanicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_panics_total",
		Help:      "Total number of handler panics recovered by the API server.",
	})
)

// Run metrics.
var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Total number of publication runs by final status.",
	}, []string{"status"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of publication runs in seconds.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	RunsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_skipped_total",
		Help:      "Scheduled runs skipped because another run held the lock.",
	})

	LastSuccessfulRun = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_successful_run_timestamp_seconds",
		Help:      "Unix time of the last run that completed without errors.",
	})

	SchedulerNextRunTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduler_next_run_timestamp_seconds",
		Help:      "Unix time of the next scheduled publication run.",
	})
)

// Scrape metrics.
var (
	ScrapedItemsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scraped_items_total",
		Help:      "Total number of raw items harvested from the source.",
	})

	ScrapeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scrape_duration_seconds",
		Help:      "Duration of a full scrape pass in seconds.",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
	})

	OrphanLinesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orphan_lines_total",
		Help:      "Variant lines dropped because no product header preceded them.",
	})
)

// Publication metrics.
var (
	ReconcileActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconcile_actions_total",
		Help:      "Reconciler transitions by category and action.",
	}, []string{"category", "action"})

	CategoryParts = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "category_parts",
		Help:      "Number of message parts published for each category.",
	}, []string{"category"})

	TransportCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transport_calls_total",
		Help:      "Messaging API calls by operation and result.",
	}, []string{"op", "result"})

	TransportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "transport_duration_seconds",
		Help:      "Duration of messaging API calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	TransportRateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transport_rate_limited_total",
		Help:      "Messaging API calls rejected with 429 Too Many Requests.",
	})

	SummaryPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "summary_published_total",
		Help:      "Summary message publications by action.",
	}, []string{"action"})
)

// Ledger metrics.
var (
	LedgerErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_errors_total",
		Help:      "Ledger read and write failures by operation.",
	}, []string{"op"})

	LedgerPrunedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_pruned_total",
		Help:      "Ledger rows removed because they belong to a previous day.",
	})
)
