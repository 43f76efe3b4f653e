// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the API's Prometheus instruments.
type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	emailsSent      *prometheus.CounterVec
	activityDropped prometheus.Counter
}

// NewCollector creates the instruments and registers them on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recruitdesk_http_requests_total",
			Help: "HTTP requests served, by method and status code.",
		}, []string{"method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recruitdesk_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		emailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recruitdesk_emails_sent_total",
			Help: "Outbound emails, by kind and result.",
		}, []string{"kind", "result"}),
		activityDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recruitdesk_activity_dropped_total",
			Help: "Activity log entries dropped because the buffer was full.",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.emailsSent,
		c.activityDropped,
	)
	return c
}

// RecordHTTPRequest counts a served request and observes its latency.
func (c *Collector) RecordHTTPRequest(method string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordEmail counts a send attempt. It matches notify.ObserverFunc.
func (c *Collector) RecordEmail(kind string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	c.emailsSent.WithLabelValues(kind, result).Inc()
}

// RecordActivityDropped counts an activity entry discarded under back-pressure.
func (c *Collector) RecordActivityDropped() {
	c.activityDropped.Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// Middleware records request counts and latency.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)
		c.RecordHTTPRequest(r.Method, rec.statusCode, time.Since(start))
	})
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
