// Package metrics exposes the application's prometheus collectors. Each
// Collector owns a private registry so that several instances (the client
// and the replay server in one test binary, for example) never collide.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/epanalyzer/internal/progress"
)

// Namespace prefixes every metric name.
const Namespace = "epanalyzer"

// Job results used as label values.
const (
	ResultSucceeded  = "succeeded"
	ResultFailed     = "failed"
	ResultSuperseded = "superseded"
)

// Collector groups the job, progress and HTTP metrics.
type Collector struct {
	registry *prometheus.Registry

	jobsTotal      *prometheus.CounterVec
	jobDuration    prometheus.Histogram
	progressEvents *prometheus.CounterVec
	droppedEvents  prometheus.Counter
	reconnects     prometheus.Counter
	degraded       prometheus.Counter

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	activeRequests  prometheus.Gauge
}

var _ progress.Observer = (*Collector)(nil)

// New builds a Collector with Go runtime and process collectors registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		jobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "job",
			Name:      "total",
			Help:      "Analysis jobs by outcome.",
		}, []string{"result"}),
		jobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "job",
			Name:      "duration_seconds",
			Help:      "Wall time from job start to its outcome.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 40, 80, 160, 320},
		}),
		progressEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "progress",
			Name:      "events_total",
			Help:      "Progress events received by step.",
		}, []string{"step"}),
		droppedEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "progress",
			Name:      "dropped_events_total",
			Help:      "Malformed progress events that were discarded.",
		}),
		reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "progress",
			Name:      "reconnects_total",
			Help:      "Successful progress stream reconnections.",
		}),
		degraded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "progress",
			Name:      "degraded_total",
			Help:      "Jobs that continued without a progress stream.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served.",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "active_requests",
			Help:      "HTTP requests currently in flight.",
		}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.jobsTotal, c.jobDuration,
		c.progressEvents, c.droppedEvents, c.reconnects, c.degraded,
		c.requestsTotal, c.requestDuration, c.activeRequests,
	)
	return c
}

// Registry returns the private registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// JobFinished records a job outcome and how long it took.
func (c *Collector) JobFinished(result string, elapsed time.Duration) {
	c.jobsTotal.WithLabelValues(result).Inc()
	if result != ResultSuperseded {
		c.jobDuration.Observe(elapsed.Seconds())
	}
}

// EventReceived counts a parsed progress event.
func (c *Collector) EventReceived(step progress.Step) {
	label := string(step)
	if !step.Known() {
		label = "other"
	}
	c.progressEvents.WithLabelValues(label).Inc()
}

// EventDropped counts a malformed progress event.
func (c *Collector) EventDropped() { c.droppedEvents.Inc() }

// Reconnected counts a progress stream reconnection.
func (c *Collector) Reconnected() { c.reconnects.Inc() }

// Degraded counts a job that lost its progress stream.
func (c *Collector) Degraded() { c.degraded.Inc() }

// RequestStarted increments the in-flight gauge.
func (c *Collector) RequestStarted() { c.activeRequests.Inc() }

// RequestFinished decrements the in-flight gauge and records the request.
func (c *Collector) RequestFinished(method, route string, code int, elapsed time.Duration) {
	c.activeRequests.Dec()
	c.requestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
