// Package metrics exposes Prometheus collectors for the HTTP layer and the quote engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the quote engine reports to.
type Recorder interface {
	RecordRandomPool(pool string)
	RecordLikeToggle(liked bool)
	RecordRating(rating int)
}

// Collector is the Prometheus implementation of Recorder plus HTTP request metrics.
type Collector struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	randomPool      *prometheus.CounterVec
	likeToggles     *prometheus.CounterVec
	ratings         *prometheus.CounterVec
}

// NewCollector creates a Collector registered on its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quotehub_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quotehub_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		randomPool: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quotehub_random_quote_pool_total",
			Help: "Random quote selections by candidate pool.",
		}, []string{"pool"}),
		likeToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quotehub_like_toggles_total",
			Help: "Like toggles by resulting state.",
		}, []string{"action"}),
		ratings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quotehub_ratings_submitted_total",
			Help: "Submitted ratings by star value.",
		}, []string{"stars"}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.requests,
		c.requestDuration,
		c.randomPool,
		c.likeToggles,
		c.ratings,
	)
	return c
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordRequest records one served HTTP request.
func (c *Collector) RecordRequest(method, route string, status int, elapsed time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *Collector) RecordRandomPool(pool string) {
	c.randomPool.WithLabelValues(pool).Inc()
}

func (c *Collector) RecordLikeToggle(liked bool) {
	action := "unliked"
	if liked {
		action = "liked"
	}
	c.likeToggles.WithLabelValues(action).Inc()
}

func (c *Collector) RecordRating(rating int) {
	c.ratings.WithLabelValues(strconv.Itoa(rating)).Inc()
}

// Nop discards everything. Used when metrics are disabled and in tests.
type Nop struct{}

func (Nop) RecordRandomPool(string) {}
func (Nop) RecordLikeToggle(bool)   {}
func (Nop) RecordRating(int)        {}
