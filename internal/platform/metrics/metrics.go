package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request cache metrics
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mapsx_request_cache_lookups_total",
		Help: "Request cache lookups by cache and result (hit, miss)",
	}, []string{"cache", "result"})

	CacheRetryableEvictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mapsx_request_cache_retryable_evictions_total",
		Help: "Entries dropped because their request failed with a retryable error",
	}, []string{"cache"})

	CacheCapacityEvictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mapsx_request_cache_capacity_evictions_total",
		Help: "Entries dropped by LRU capacity pressure",
	}, []string{"cache"})

	// SDK loader metrics
	SDKBootstraps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mapsx_sdk_bootstraps_total",
		Help: "Number of times the mapping SDK bootstrap was invoked",
	})

	SDKPollAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mapsx_sdk_poll_attempts_total",
		Help: "Checks of the global SDK slot by result (found, missing)",
	}, []string{"result"})

	LibraryImports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mapsx_library_imports_total",
		Help: "Library imports by library name and result",
	}, []string{"library", "result"})

	// HTTP
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mapsx_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})
)
