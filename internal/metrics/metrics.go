package metrics

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"travelbook/internal/events"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "travelbook"

// Metrics holds every collector of the process. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	HTTPRequests         *prometheus.CounterVec
	BookingsCreated      *prometheus.CounterVec
	SinkFailures         *prometheus.CounterVec
	UpdateProcessingTime prometheus.Histogram
	ErrorsTotal          prometheus.Counter

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status code.",
		}, []string{"endpoint", "code"}),

		BookingsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Bookings accepted by at least one sink, by booking type.",
		}, []string{"booking_type"}),

		SinkFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_sink_failures_total",
			Help:      "Failed booking writes by sink.",
		}, []string{"sink"}),

		UpdateProcessingTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bot_update_processing_time_seconds",
			Help:      "Time spent processing Telegram updates.",
			Buckets:   prometheus.DefBuckets,
		}),

		ErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bot_errors_total",
			Help:      "Recovered panics in update handlers.",
		}),

		gatherer: reg,
	}
}

func (m *Metrics) IncHTTP(endpoint string, code int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
}

func (m *Metrics) ObserveUpdate(d time.Duration) {
	if m == nil {
		return
	}
	m.UpdateProcessingTime.Observe(d.Seconds())
}

func (m *Metrics) IncError() {
	if m == nil {
		return
	}
	m.ErrorsTotal.Inc()
}

// Subscribe counts booking events published on bus.
func (m *Metrics) Subscribe(bus *events.EventBus) {
	if m == nil || bus == nil {
		return
	}
	bus.Subscribe(events.EventBookingCreated, func(ev *events.Event) error {
		var p events.BookingEventPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return err
		}
		m.BookingsCreated.WithLabelValues(p.Type).Inc()
		return nil
	})
	bus.Subscribe(events.EventBookingSinkFailed, func(ev *events.Event) error {
		var p events.BookingEventPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return err
		}
		m.SinkFailures.WithLabelValues(p.Sink).Inc()
		return nil
	})
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
