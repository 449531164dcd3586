package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Global collector instance for singleton pattern
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds all Prometheus metrics for the application.
// The fetch counters are the dispatcher's advisory observability channel:
// they record per-URL outcomes but carry no correctness weight.
type Collector struct {
	registry *prometheus.Registry

	// Fetch pipeline metrics
	FetchSuccesses   prometheus.Counter
	FetchFailures    *prometheus.CounterVec
	DocumentsKept    prometheus.Counter
	DocumentsDropped prometheus.Counter

	// Graph metrics
	GraphsGenerated prometheus.Counter
	LayoutSettles   prometheus.Counter

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewCollector creates a new metrics collector with the given namespace
func NewCollector(namespace string) *Collector {
	// Singleton avoids duplicate registration in tests
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	fetchSuccesses := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_successes_total",
		Help:      "Total number of source URLs fetched successfully",
	})

	fetchFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_failures_total",
		Help:      "Total number of failed source fetches",
	}, []string{"reason"})

	documentsKept := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_kept_total",
		Help:      "Total number of fetched documents that passed the length filter",
	})

	documentsDropped := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_dropped_total",
		Help:      "Total number of fetched documents discarded as too short",
	})

	graphsGenerated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "graphs_generated_total",
		Help:      "Total number of skill graphs synthesized",
	})

	layoutSettles := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "layout_settles_total",
		Help:      "Total number of layout simulations reaching the settled state",
	})

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	registry.MustRegister(
		fetchSuccesses, fetchFailures, documentsKept, documentsDropped,
		graphsGenerated, layoutSettles, httpRequests, httpDuration,
	)

	globalCollector = &Collector{
		registry:         registry,
		FetchSuccesses:   fetchSuccesses,
		FetchFailures:    fetchFailures,
		DocumentsKept:    documentsKept,
		DocumentsDropped: documentsDropped,
		GraphsGenerated:  graphsGenerated,
		LayoutSettles:    layoutSettles,
		HTTPRequests:     httpRequests,
		HTTPDuration:     httpDuration,
	}
	return globalCollector
}

// Handler exposes the collector's registry for the /metrics endpoint
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
