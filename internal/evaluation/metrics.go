package evaluation

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"restaurantsim/internal/events"
	"restaurantsim/internal/models"
)

// MetricsCollector turns a run's event stream into Prometheus metrics on its
// own registry. Observe is meant to be subscribed to the event log.
type MetricsCollector struct {
	registry *prometheus.Registry

	events          *prometheus.CounterVec
	ordersCompleted prometheus.Counter
	itemsProduced   *prometheus.CounterVec
	orderSize       prometheus.Histogram
	inFlight        *prometheus.GaugeVec
	tablesOccupied  prometheus.Gauge
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()

	mc := &MetricsCollector{
		registry: registry,
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "restaurant_events_total",
				Help: "Events appended to the simulation log",
			},
			[]string{"type"},
		),
		ordersCompleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "restaurant_orders_completed_total",
				Help: "Orders completed by cooks",
			},
		),
		itemsProduced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "restaurant_items_produced_total",
				Help: "Food items finished by machines",
			},
			[]string{"food"},
		),
		orderSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "restaurant_order_items",
				Help:    "Number of items per placed order",
				Buckets: prometheus.LinearBuckets(0, 2, 7),
			},
		),
		inFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "restaurant_machine_in_flight",
				Help: "Items currently cooking per machine",
			},
			[]string{"machine"},
		),
		tablesOccupied: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "restaurant_tables_occupied",
				Help: "Customers currently seated",
			},
		),
	}

	registry.MustRegister(
		mc.events,
		mc.ordersCompleted,
		mc.itemsProduced,
		mc.orderSize,
		mc.inFlight,
		mc.tablesOccupied,
	)
	for _, mt := range models.MachineTypes {
		mc.inFlight.WithLabelValues(mt.String()).Set(0)
	}
	return mc
}

// Registry returns the collector's registry
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}

// Observe records one event
func (mc *MetricsCollector) Observe(e events.Event) {
	mc.events.WithLabelValues(e.Type.String()).Inc()

	switch e.Type {
	case events.EventCustomerEnteredRestaurant:
		mc.tablesOccupied.Inc()
	case events.EventCustomerLeavingRestaurant:
		mc.tablesOccupied.Dec()
	case events.EventCustomerPlacedOrder:
		mc.orderSize.Observe(float64(len(e.Items)))
	case events.EventCookCompletedOrder:
		mc.ordersCompleted.Inc()
	case events.EventMachineStartingFood:
		mc.inFlight.WithLabelValues(e.Machine.String()).Inc()
	case events.EventMachineDoneFood:
		mc.inFlight.WithLabelValues(e.Machine.String()).Dec()
		mc.itemsProduced.WithLabelValues(e.Food.Name).Inc()
	}
}

// RecordLog replays a finished log into the collector
func (mc *MetricsCollector) RecordLog(evs []events.Event) {
	for _, e := range evs {
		mc.Observe(e)
	}
}

// WriteText writes every collected metric in the Prometheus text format
func (mc *MetricsCollector) WriteText(w io.Writer) error {
	families, err := mc.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
