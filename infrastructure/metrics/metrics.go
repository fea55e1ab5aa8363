package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	feedSelections  *prometheus.CounterVec
	reactions       *prometheus.CounterVec
	comments        prometheus.Counter
	eventsFailed    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		feedSelections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feed_selections_total",
			Help: "Videos selected for the feed, by selection mode.",
		}, []string{"mode"}),
		reactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reactions_total",
			Help: "Stored reactions, by kind.",
		}, []string{"kind"}),
		comments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "comments_total",
			Help: "Stored comments.",
		}),
		eventsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engagement_events_failed_total",
			Help: "Engagement events that could not be delivered, by driver.",
		}, []string{"driver"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	m.registry.MustRegister(
		m.feedSelections,
		m.reactions,
		m.comments,
		m.eventsFailed,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) FeedSelection(mode string) { m.feedSelections.WithLabelValues(mode).Inc() }

func (m *Metrics) Reaction(kind string) { m.reactions.WithLabelValues(kind).Inc() }

func (m *Metrics) Comment() { m.comments.Inc() }

func (m *Metrics) EventFailed(driver string) { m.eventsFailed.WithLabelValues(driver).Inc() }

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
