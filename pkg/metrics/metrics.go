package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus instruments for the booking engine.
type Metrics struct {
	BookingsTotal          prometheus.Counter
	BookingFailures        *prometheus.CounterVec
	StatusTransitions      *prometheus.CounterVec
	TokenSequencerFailures prometheus.Counter
	QueueRequests          prometheus.Counter
}

// New registers the instruments on reg. Tests pass a fresh registry so
// engines can be built repeatedly without duplicate registration.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BookingsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "The total number of appointments booked",
		}),
		BookingFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_failures_total",
			Help:      "Booking attempts rejected, by reason",
		}, []string{"reason"}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Lifecycle transitions applied, by target status",
		}, []string{"status"}),
		TokenSequencerFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_sequencer_failures_total",
			Help:      "Token sequence scans that failed and aborted a booking",
		}),
		QueueRequests: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_requests_total",
			Help:      "Public queue view requests served",
		}),
	}
}
