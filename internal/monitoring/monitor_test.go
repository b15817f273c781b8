package monitoring

import (
	"errors"
	"testing"

	"restaurantsim/internal/events"
	"restaurantsim/internal/models"
)

func TestMonitor_GetMetrics(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("test_metric", 42)

	metrics := m.GetMetrics()

	value, exists := metrics["test_metric"]
	if !exists {
		t.Fatalf("Expected 'test_metric' to be present in metrics, but it was not")
	}
	if value != 42 {
		t.Errorf("Expected 'test_metric' to be 42, but got %v", value)
	}

	// Uptime is added on every GetMetrics call
	if _, exists = metrics["uptime_seconds"]; !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in metrics, but it was not")
	}
}

func TestMonitor_Observe(t *testing.T) {
	m := NewMonitor()

	for _, e := range []events.Event{
		events.SimulationStarting(events.Params{Customers: 2, Cooks: 1, Tables: 2, MachineCapacity: 2}),
		events.CustomerEnteredRestaurant("Customer 0"),
		events.CustomerEnteredRestaurant("Customer 1"),
		events.CustomerPlacedOrder("Customer 0", models.Items{models.Pizza}, 1),
		events.MachineStartingFood(models.MachineTypeOven, models.Pizza),
		events.MachineStartingFood(models.MachineTypeOven, models.Pizza),
		events.MachineDoneFood(models.MachineTypeOven, models.Pizza),
		events.CookCompletedOrder("Cook 0", 1),
		events.CustomerLeavingRestaurant("Customer 0"),
	} {
		m.Observe(e)
	}

	want := map[string]int{
		"events_total":         9,
		"tables":               2,
		"tables_occupied":      1,
		"peak_tables_occupied": 2,
		"customers_served":     1,
		"orders_placed":        1,
		"orders_completed":     1,
		"oven_in_flight":       1,
		"oven_peak_in_flight":  2,
		"oven_produced":        1,
	}
	for name, expected := range want {
		value, exists := m.GetMetric(name)
		if !exists {
			t.Errorf("Expected %q to be present in metrics, but it was not", name)
			continue
		}
		if value != expected {
			t.Errorf("Expected %q to be %d, but got %v", name, expected, value)
		}
	}

	if value, _ := m.GetMetric("last_event"); value != "CustomerLeavingRestaurant" {
		t.Errorf("Expected last_event to be CustomerLeavingRestaurant, but got %v", value)
	}
}

func TestMonitor_RecordValidation(t *testing.T) {
	m := NewMonitor()

	m.RecordValidation("run-1", false, errors.New("causality violation"))

	metrics := m.GetMetrics()
	if metrics["valid"] != false {
		t.Errorf("Expected 'valid' to be false, but got %v", metrics["valid"])
	}
	if metrics["violation"] != "causality violation" {
		t.Errorf("Expected violation message to be recorded, but got %v", metrics["violation"])
	}
	if _, exists := metrics["last_evaluated"]; !exists {
		t.Errorf("Expected 'last_evaluated' to be present in metrics, but it was not")
	}

	m.RecordValidation("run-2", true, nil)
	if _, exists := m.GetMetric("violation"); exists {
		t.Errorf("Expected 'violation' to be cleared after a valid run")
	}
	if value, _ := m.GetMetric("run_id"); value != "run-2" {
		t.Errorf("Expected run_id to be run-2, but got %v", value)
	}
}

func TestMonitor_Reset(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("test_metric", 42)
	m.Observe(events.CustomerEnteredRestaurant("Customer 0"))

	m.Reset()

	metrics := m.GetMetrics()
	if _, exists := metrics["test_metric"]; exists {
		t.Errorf("Expected 'test_metric' to be removed after Reset(), but it was present")
	}
	if _, exists := metrics["uptime_seconds"]; !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in metrics, but it was not")
	}

	m.Observe(events.CustomerEnteredRestaurant("Customer 1"))
	if value, _ := m.GetMetric("tables_occupied"); value != 1 {
		t.Errorf("Expected live occupancy to restart from zero, but got %v", value)
	}
}
