// Package metrics exposes Prometheus collectors for HTTP traffic and
// marketplace events. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	// Request metrics
	RequestDuration *prometheus.HistogramVec
	RequestCounter  *prometheus.CounterVec
	ErrorCounter    *prometheus.CounterVec

	// Domain metrics
	PropertyViews      *prometheus.CounterVec
	ContactAccess      *prometheus.CounterVec
	SearchResults      prometheus.Histogram
	Subscriptions      *prometheus.CounterVec
	PropertiesCreated  prometheus.Counter
	ImageUploadFailure prometheus.Counter
}

// New registers every collector on a private registry.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of API requests",
			},
			[]string{"method", "path"},
		),
		ErrorCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_errors_total",
				Help:      "Total number of API errors",
			},
			[]string{"method", "path", "status"},
		),

		PropertyViews: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "property_detail_views_total",
				Help:      "Property detail fetches by viewer kind",
			},
			[]string{"viewer"},
		),
		ContactAccess: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "contact_access_decisions_total",
				Help:      "Contact visibility decisions by reason",
			},
			[]string{"reason"},
		),
		SearchResults: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "property_search_results",
			Help:      "Total matches per property search",
			Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000},
		}),
		Subscriptions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "subscription_attempts_total",
				Help:      "Subscription purchase attempts by plan and outcome",
			},
			[]string{"plan", "outcome"},
		),
		PropertiesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "properties_created_total",
			Help:      "Listings created",
		}),
		ImageUploadFailure: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_upload_failures_total",
			Help:      "Failed uploads to the image store",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.RequestCounter.WithLabelValues(method, path).Inc()
	m.RequestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
	if status >= 400 {
		m.ErrorCounter.WithLabelValues(method, path, code).Inc()
	}
}

func (m *Metrics) RecordPropertyView(authenticated bool) {
	if m == nil {
		return
	}
	viewer := "anonymous"
	if authenticated {
		viewer = "authenticated"
	}
	m.PropertyViews.WithLabelValues(viewer).Inc()
}

// RecordContactAccess counts a visibility decision; reason is one of
// subscription, grandfathered, owner_override, denied.
func (m *Metrics) RecordContactAccess(reason string) {
	if m == nil {
		return
	}
	m.ContactAccess.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordSearch(total int64) {
	if m == nil {
		return
	}
	m.SearchResults.Observe(float64(total))
}

// RecordSubscription counts a purchase attempt; outcome is one of
// created, conflict, payment_failed, invalid_plan, error.
func (m *Metrics) RecordSubscription(plan, outcome string) {
	if m == nil {
		return
	}
	m.Subscriptions.WithLabelValues(plan, outcome).Inc()
}

func (m *Metrics) RecordPropertyCreated() {
	if m == nil {
		return
	}
	m.PropertiesCreated.Inc()
}

func (m *Metrics) RecordImageUploadFailure() {
	if m == nil {
		return
	}
	m.ImageUploadFailure.Inc()
}
