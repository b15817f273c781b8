// Package monitoring keeps a live snapshot of a running simulation
package monitoring

import (
	"sync"
	"time"

	"restaurantsim/internal/events"
	"restaurantsim/internal/models"
)

// Monitor collects and provides metrics for a simulation run
type Monitor struct {
	metrics      map[string]interface{}
	metricsMutex sync.RWMutex
	startTime    time.Time

	occupancy int
	inFlight  map[models.MachineType]int
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	return &Monitor{
		metrics:   make(map[string]interface{}),
		startTime: time.Now(),
		inFlight:  make(map[models.MachineType]int),
	}
}

// RecordMetric records a metric value
func (m *Monitor) RecordMetric(name string, value interface{}) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics[name] = value
}

// GetMetric returns a specific metric value
func (m *Monitor) GetMetric(name string) (interface{}, bool) {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	value, exists := m.metrics[name]
	return value, exists
}

// GetMetrics returns all current metrics
func (m *Monitor) GetMetrics() map[string]interface{} {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()

	metrics := make(map[string]interface{}, len(m.metrics)+1)
	for k, v := range m.metrics {
		metrics[k] = v
	}
	metrics["uptime_seconds"] = time.Since(m.startTime).Seconds()

	return metrics
}

// Reset clears all metrics and live counters
func (m *Monitor) Reset() {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics = make(map[string]interface{})
	m.occupancy = 0
	m.inFlight = make(map[models.MachineType]int)
	m.startTime = time.Now()
}

// Observe folds one log event into the snapshot. It is meant to be
// subscribed to the event log, which calls it once per event in order.
func (m *Monitor) Observe(e events.Event) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()

	m.add("events_total", 1)
	m.metrics["last_event"] = e.Type.String()

	switch e.Type {
	case events.EventSimulationStarting:
		m.metrics["customers"] = e.Params.Customers
		m.metrics["cooks"] = e.Params.Cooks
		m.metrics["tables"] = e.Params.Tables
		m.metrics["machine_capacity"] = e.Params.MachineCapacity
	case events.EventCustomerEnteredRestaurant:
		m.occupancy++
		m.metrics["tables_occupied"] = m.occupancy
		m.peak("peak_tables_occupied", m.occupancy)
	case events.EventCustomerLeavingRestaurant:
		m.occupancy--
		m.metrics["tables_occupied"] = m.occupancy
		m.add("customers_served", 1)
	case events.EventCustomerPlacedOrder:
		m.add("orders_placed", 1)
	case events.EventCookCompletedOrder:
		m.add("orders_completed", 1)
	case events.EventMachineStartingFood:
		m.inFlight[e.Machine]++
		key := string(e.Machine)
		m.metrics[key+"_in_flight"] = m.inFlight[e.Machine]
		m.peak(key+"_peak_in_flight", m.inFlight[e.Machine])
	case events.EventMachineDoneFood:
		m.inFlight[e.Machine]--
		key := string(e.Machine)
		m.metrics[key+"_in_flight"] = m.inFlight[e.Machine]
		m.add(key+"_produced", 1)
	case events.EventSimulationEnded:
		m.metrics["duration_seconds"] = time.Since(m.startTime).Seconds()
	}
}

// RecordValidation records the validator's verdict for a run
func (m *Monitor) RecordValidation(runID string, valid bool, violation error) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()

	m.metrics["run_id"] = runID
	m.metrics["valid"] = valid
	if violation != nil {
		m.metrics["violation"] = violation.Error()
	} else {
		delete(m.metrics, "violation")
	}
	m.metrics["last_evaluated"] = time.Now().Format(time.RFC3339)
}

// add and peak expect the caller to hold metricsMutex
func (m *Monitor) add(name string, delta int) {
	n, _ := m.metrics[name].(int)
	m.metrics[name] = n + delta
}

func (m *Monitor) peak(name string, value int) {
	if n, _ := m.metrics[name].(int); value > n {
		m.metrics[name] = value
	}
}
