package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Throughput metrics - Track daemon traffic
var (
	DaemonInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harness_daemon_invocations_total",
			Help: "Total number of daemon invocations by command group",
		},
		[]string{"command"},
	)

	DaemonRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harness_daemon_retries_total",
		Help: "Total number of daemon invocations repeated after stderr output",
	})

	ParseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harness_parse_failures_total",
		Help: "Total number of daemon outputs that failed JSON deserialization",
	})
)

// Performance metrics - Track invocation latency
var (
	DaemonInvocationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "harness_daemon_invocation_duration_seconds",
		Help:    "Time taken by a single daemon invocation, retries included",
		Buckets: prometheus.DefBuckets,
	})
)

// Cache metrics - Track deployment cache effectiveness
var (
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harness_cache_hits_total",
		Help: "Total number of contract deployments served from the cache",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harness_cache_misses_total",
		Help: "Total number of cache lookups that fell through to deployment",
	})
)
