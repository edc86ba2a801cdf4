package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking flow.
type BookingMetrics struct {
	bookingsTotal      *prometheus.CounterVec
	slotConflictsTotal prometheus.Counter
	recomputeSeconds   *prometheus.HistogramVec
	feedEventsTotal    *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "booking",
			Name:      "bookings_total",
			Help:      "Total booking submissions by outcome",
		}, []string{"category", "outcome"}),
		slotConflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "booking",
			Name:      "slot_conflicts_total",
			Help:      "Bookings rejected because the slot was already confirmed",
		}),
		recomputeSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "salon",
			Subsystem: "scheduling",
			Name:      "occupied_recompute_seconds",
			Help:      "Latency of occupied-slot recomputation",
			Buckets:   prometheus.DefBuckets,
		}, []string{"category"}),
		feedEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "changefeed",
			Name:      "events_total",
			Help:      "Row-change notifications received from the store",
		}, []string{"table", "action"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.slotConflictsTotal, m.recomputeSeconds, m.feedEventsTotal)
	return m
}

func (m *BookingMetrics) ObserveBooking(category, outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(category, outcome).Inc()
}

func (m *BookingMetrics) ObserveSlotConflict() {
	if m == nil {
		return
	}
	m.slotConflictsTotal.Inc()
}

func (m *BookingMetrics) ObserveRecompute(category string, seconds float64) {
	if m == nil {
		return
	}
	m.recomputeSeconds.WithLabelValues(category).Observe(seconds)
}

func (m *BookingMetrics) ObserveFeedEvent(table, action string) {
	if m == nil {
		return
	}
	m.feedEventsTotal.WithLabelValues(table, action).Inc()
}
