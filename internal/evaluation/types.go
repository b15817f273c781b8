package evaluation

import (
	"restaurantsim/internal/events"
	"restaurantsim/internal/models"
)

// Summary describes a run as reconstructed from its log
type Summary struct {
	Params          events.Params
	Events          int
	OrdersPlaced    int
	OrdersCompleted int
	ItemsOrdered    map[string]int
	ItemsProduced   map[string]int
	PeakOccupancy   int
	PeakInFlight    map[models.MachineType]int
	CooksByOrders   map[string]int
}

// Summarize walks evs once. It does not validate them.
func Summarize(evs []events.Event) Summary {
	s := Summary{
		Events:        len(evs),
		ItemsOrdered:  make(map[string]int),
		ItemsProduced: make(map[string]int),
		PeakInFlight:  make(map[models.MachineType]int),
		CooksByOrders: make(map[string]int),
	}
	occupancy := 0
	inFlight := make(map[models.MachineType]int)

	for _, e := range evs {
		switch e.Type {
		case events.EventSimulationStarting:
			s.Params = e.Params
		case events.EventCustomerEnteredRestaurant:
			occupancy++
			s.PeakOccupancy = max(s.PeakOccupancy, occupancy)
		case events.EventCustomerLeavingRestaurant:
			occupancy--
		case events.EventCustomerPlacedOrder:
			s.OrdersPlaced++
			for name, n := range e.Items.Counts() {
				s.ItemsOrdered[name] += n
			}
		case events.EventCookCompletedOrder:
			s.OrdersCompleted++
			s.CooksByOrders[e.Cook]++
		case events.EventMachineStartingFood:
			inFlight[e.Machine]++
			s.PeakInFlight[e.Machine] = max(s.PeakInFlight[e.Machine], inFlight[e.Machine])
		case events.EventMachineDoneFood:
			inFlight[e.Machine]--
			s.ItemsProduced[e.Food.Name]++
		}
	}
	return s
}
