// Package events holds the records every simulation actor emits and the
// single totally ordered log they are appended to.
package events

import (
	"fmt"

	"restaurantsim/internal/models"
)

// Type identifies the variant of an Event
type Type int

const (
	EventSimulationStarting Type = iota + 1
	EventSimulationEnded

	EventCustomerStarting
	EventCustomerEnteredRestaurant
	EventCustomerPlacedOrder
	EventCustomerReceivedOrder
	EventCustomerLeavingRestaurant

	EventCookStarting
	EventCookReceivedOrder
	EventCookStartedFood
	EventCookFinishedFood
	EventCookCompletedOrder
	EventCookEnding

	EventMachineStarting
	EventMachineStartingFood
	EventMachineDoneFood
	EventMachineEnding
)

var typeNames = map[Type]string{
	EventSimulationStarting:        "SimulationStarting",
	EventSimulationEnded:           "SimulationEnded",
	EventCustomerStarting:          "CustomerStarting",
	EventCustomerEnteredRestaurant: "CustomerEnteredRestaurant",
	EventCustomerPlacedOrder:       "CustomerPlacedOrder",
	EventCustomerReceivedOrder:     "CustomerReceivedOrder",
	EventCustomerLeavingRestaurant: "CustomerLeavingRestaurant",
	EventCookStarting:              "CookStarting",
	EventCookReceivedOrder:         "CookReceivedOrder",
	EventCookStartedFood:           "CookStartedFood",
	EventCookFinishedFood:          "CookFinishedFood",
	EventCookCompletedOrder:        "CookCompletedOrder",
	EventCookEnding:                "CookEnding",
	EventMachineStarting:           "MachineStarting",
	EventMachineStartingFood:       "MachineStartingFood",
	EventMachineDoneFood:           "MachineDoneFood",
	EventMachineEnding:             "MachineEnding",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// IsCustomer reports whether the event describes a customer transition
func (t Type) IsCustomer() bool {
	return t >= EventCustomerStarting && t <= EventCustomerLeavingRestaurant
}

// IsCook reports whether the event describes a cook transition
func (t Type) IsCook() bool {
	return t >= EventCookStarting && t <= EventCookEnding
}

// IsMachine reports whether the event describes a machine transition
func (t Type) IsMachine() bool {
	return t >= EventMachineStarting && t <= EventMachineEnding
}

// Params are the parameters a run was started with
type Params struct {
	Customers       int
	Cooks           int
	Tables          int
	MachineCapacity int
}

// Event is a single entry of the log. Only the fields relevant to Type are set.
// Items is always a private copy, never shared with the emitting actor.
type Event struct {
	Type        Type
	Params      Params
	Customer    string
	Cook        string
	Machine     models.MachineType
	Food        models.Food
	Items       models.Items
	OrderNumber int
	Capacity    int
}

// SimulationStarting creates the first event of a run, carrying its parameters
func SimulationStarting(p Params) Event {
	return Event{Type: EventSimulationStarting, Params: p}
}

// SimulationEnded creates the last event of a run
func SimulationEnded() Event {
	return Event{Type: EventSimulationEnded}
}

// CustomerStarting creates the event of a customer heading to the restaurant
func CustomerStarting(customer string) Event {
	return Event{Type: EventCustomerStarting, Customer: customer}
}

// CustomerEnteredRestaurant creates the event of a customer taking a table
func CustomerEnteredRestaurant(customer string) Event {
	return Event{Type: EventCustomerEnteredRestaurant, Customer: customer}
}

// CustomerPlacedOrder creates the event of a customer placing an order
func CustomerPlacedOrder(customer string, items models.Items, orderNumber int) Event {
	return Event{Type: EventCustomerPlacedOrder, Customer: customer, Items: items.Clone(), OrderNumber: orderNumber}
}

// CustomerReceivedOrder creates the event of a customer receiving a completed order
func CustomerReceivedOrder(customer string, items models.Items, orderNumber int) Event {
	return Event{Type: EventCustomerReceivedOrder, Customer: customer, Items: items.Clone(), OrderNumber: orderNumber}
}

// CustomerLeavingRestaurant creates the event of a customer freeing a table
func CustomerLeavingRestaurant(customer string) Event {
	return Event{Type: EventCustomerLeavingRestaurant, Customer: customer}
}

// CookStarting creates the event of a cook reporting for work
func CookStarting(cook string) Event {
	return Event{Type: EventCookStarting, Cook: cook}
}

// CookReceivedOrder creates the event of a cook claiming an order
func CookReceivedOrder(cook string, items models.Items, orderNumber int) Event {
	return Event{Type: EventCookReceivedOrder, Cook: cook, Items: items.Clone(), OrderNumber: orderNumber}
}

// CookStartedFood creates the event of a cook putting one item on its machine
func CookStartedFood(cook string, food models.Food, orderNumber int) Event {
	return Event{Type: EventCookStartedFood, Cook: cook, Food: food, OrderNumber: orderNumber}
}

// CookFinishedFood creates the event of a cook collecting one produced item
func CookFinishedFood(cook string, food models.Food, orderNumber int) Event {
	return Event{Type: EventCookFinishedFood, Cook: cook, Food: food, OrderNumber: orderNumber}
}

// CookCompletedOrder creates the event of a cook handing back a completed order
func CookCompletedOrder(cook string, orderNumber int) Event {
	return Event{Type: EventCookCompletedOrder, Cook: cook, OrderNumber: orderNumber}
}

// CookEnding creates the event of a cook going home
func CookEnding(cook string) Event {
	return Event{Type: EventCookEnding, Cook: cook}
}

// MachineStarting creates the event of a machine starting up
func MachineStarting(machine models.MachineType, food models.Food, capacity int) Event {
	return Event{Type: EventMachineStarting, Machine: machine, Food: food, Capacity: capacity}
}

// MachineStartingFood creates the event of a machine beginning one item
func MachineStartingFood(machine models.MachineType, food models.Food) Event {
	return Event{Type: EventMachineStartingFood, Machine: machine, Food: food}
}

// MachineDoneFood creates the event of a machine finishing one item
func MachineDoneFood(machine models.MachineType, food models.Food) Event {
	return Event{Type: EventMachineDoneFood, Machine: machine, Food: food}
}

// MachineEnding creates the event of a machine shutting down
func MachineEnding(machine models.MachineType) Event {
	return Event{Type: EventMachineEnding, Machine: machine}
}

// String renders the event as one line of the textual trace
func (e Event) String() string {
	switch e.Type {
	case EventSimulationStarting:
		return fmt.Sprintf("Starting simulation: %d customers; %d cooks; %d tables; machine capacity %d.",
			e.Params.Customers, e.Params.Cooks, e.Params.Tables, e.Params.MachineCapacity)
	case EventSimulationEnded:
		return "Simulation ended."
	case EventCustomerStarting:
		return e.Customer + " going to restaurant."
	case EventCustomerEnteredRestaurant:
		return e.Customer + " entered restaurant."
	case EventCustomerPlacedOrder:
		return fmt.Sprintf("%s placing order %d %s", e.Customer, e.OrderNumber, e.Items)
	case EventCustomerReceivedOrder:
		return fmt.Sprintf("%s received order %d %s", e.Customer, e.OrderNumber, e.Items)
	case EventCustomerLeavingRestaurant:
		return e.Customer + " leaving restaurant."
	case EventCookStarting:
		return e.Cook + " reporting for work."
	case EventCookReceivedOrder:
		return fmt.Sprintf("%s starting order %d %s", e.Cook, e.OrderNumber, e.Items)
	case EventCookStartedFood:
		return fmt.Sprintf("%s preparing %s for order %d", e.Cook, e.Food, e.OrderNumber)
	case EventCookFinishedFood:
		return fmt.Sprintf("%s finished %s for order %d", e.Cook, e.Food, e.OrderNumber)
	case EventCookCompletedOrder:
		return fmt.Sprintf("%s completed order %d", e.Cook, e.OrderNumber)
	case EventCookEnding:
		return e.Cook + " going home for the night."
	case EventMachineStarting:
		return fmt.Sprintf("%s starting up for making %s; capacity=%d", e.Machine, e.Food, e.Capacity)
	case EventMachineStartingFood:
		return fmt.Sprintf("%s cooking %s", e.Machine, e.Food)
	case EventMachineDoneFood:
		return fmt.Sprintf("%s completed %s", e.Machine, e.Food)
	case EventMachineEnding:
		return e.Machine.String() + " shutting down."
	default:
		return "unknown event " + e.Type.String()
	}
}
