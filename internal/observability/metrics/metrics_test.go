package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)
	m.ObserveBooking("hair", "created")
	m.ObserveBooking("hair", "created")
	m.ObserveSlotConflict()
	m.ObserveRecompute("hair", 0.02)
	m.ObserveFeedEvent("appointments", "INSERT")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var bookings *dto.MetricFamily
	for _, mf := range families {
		if mf.GetName() == "salon_booking_bookings_total" {
			bookings = mf
		}
	}
	if bookings == nil {
		t.Fatalf("expected salon_booking_bookings_total to be registered")
	}
	if got := bookings.GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Fatalf("expected bookings counter 2, got %v", got)
	}
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveBooking("nails", "rejected")
	m.ObserveSlotConflict()
	m.ObserveRecompute("nails", 0.1)
	m.ObserveFeedEvent("services", "UPDATE")
}
