package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "booking_engine"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_created_total",
			Help:      "Appointments created by initial status.",
		},
		[]string{"status"},
	)

	bookingConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflicts_total",
			Help:      "Booking attempts rejected at commit time, by reason.",
		},
		[]string{"reason"},
	)

	slotQueries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_queries_total",
			Help:      "Availability computations.",
		},
	)

	blocksMaterialized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_materialized_total",
			Help:      "Schedule block rows written by recurrence materialization.",
		},
	)

	statusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_transitions_total",
			Help:      "Applied appointment status transitions.",
		},
		[]string{"to"},
	)

	availabilityDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "availability_duration_seconds",
			Help:      "Time spent computing a day of slots.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	lockWait = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lock_wait_seconds",
			Help:      "Time spent waiting for the per-employee booking lock.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 3},
		},
	)

	queueDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dropped_total",
			Help:      "Events dropped because an async queue was full.",
		},
		[]string{"queue"},
	)

	deliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Outbound notification attempts by sink and result.",
		},
		[]string{"sink", "result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			bookingsCreated,
			bookingConflicts,
			slotQueries,
			blocksMaterialized,
			statusTransitions,
			availabilityDuration,
			lockWait,
			queueDropped,
			deliveries,
		)
	})
}

func ObserveHTTP(method, route, status string, seconds float64) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(seconds)
}

func IncBookingCreated(status string) {
	bookingsCreated.WithLabelValues(status).Inc()
}

func IncBookingConflict(reason string) {
	bookingConflicts.WithLabelValues(reason).Inc()
}

func IncSlotQuery() {
	slotQueries.Inc()
}

func AddBlocksMaterialized(n int) {
	blocksMaterialized.Add(float64(n))
}

func IncTransition(to string) {
	statusTransitions.WithLabelValues(to).Inc()
}

func ObserveAvailability(seconds float64) {
	availabilityDuration.Observe(seconds)
}

func ObserveLockWait(seconds float64) {
	lockWait.Observe(seconds)
}

func IncDropped(queue string) {
	queueDropped.WithLabelValues(queue).Inc()
}

func IncDelivery(sink, result string) {
	deliveries.WithLabelValues(sink, result).Inc()
}
