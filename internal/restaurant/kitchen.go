package restaurant

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"restaurantsim/internal/events"
	"restaurantsim/internal/models"
)

// Machine produces one kind of food, up to Capacity items at a time
type Machine struct {
	Type     models.MachineType
	Food     models.Food
	Capacity int
	inFlight int
}

// InFlight returns the number of items being produced
func (m Machine) InFlight() int {
	return m.inFlight
}

// Kitchen owns the machines and the cooking state shared by cooks and item
// workers: items produced per order and items handed back to cooks. One mutex
// guards all of it, including every Machine's in-flight count.
type Kitchen struct {
	log    *events.Log
	logger zerolog.Logger
	unit   time.Duration

	mu        sync.Mutex
	machines  map[string]*Machine
	produced  map[int]models.Items
	delivered map[int]models.Items
	changed   chan struct{}
	open      bool

	workers sync.WaitGroup
}

// NewKitchen creates one machine per food on the menu. Cook times are scaled
// by unit.
func NewKitchen(log *events.Log, capacity int, unit time.Duration, logger zerolog.Logger) *Kitchen {
	k := &Kitchen{
		log:       log,
		logger:    logger.With().Str("component", "kitchen").Logger(),
		unit:      unit,
		machines:  make(map[string]*Machine, len(models.Menu)),
		produced:  make(map[int]models.Items),
		delivered: make(map[int]models.Items),
		changed:   make(chan struct{}),
	}
	for _, mt := range models.MachineTypes {
		food, _ := models.FoodFor(mt)
		k.machines[food.Name] = &Machine{Type: mt, Food: food, Capacity: capacity}
	}
	return k
}

// Open emits MachineStarting for every machine
func (k *Kitchen) Open() {
	k.mu.Lock()
	defer k.mu.Unlock()

	for _, mt := range models.MachineTypes {
		food, _ := models.FoodFor(mt)
		m := k.machines[food.Name]
		k.log.Append(events.MachineStarting(m.Type, m.Food, m.Capacity))
	}
	k.open = true
}

// Start puts one item of food for the order on its machine if the machine has
// room, and returns false without blocking otherwise.
func (k *Kitchen) Start(cook string, orderNumber int, food models.Food) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	m, ok := k.machines[food.Name]
	if !ok {
		panic(fmt.Sprintf("restaurant: no machine makes %s", food))
	}
	if !k.open {
		panic("restaurant: kitchen is not open")
	}
	if m.inFlight >= m.Capacity {
		return false
	}
	m.inFlight++
	k.log.Append(events.CookStartedFood(cook, food, orderNumber))
	k.log.Append(events.MachineStartingFood(m.Type, m.Food))

	k.workers.Add(1)
	go k.cook(m, orderNumber)
	return true
}

// cook is the per-item worker. The cook time elapses outside every lock.
func (k *Kitchen) cook(m *Machine, orderNumber int) {
	defer k.workers.Done()

	time.Sleep(m.Food.Duration(k.unit))

	k.mu.Lock()
	defer k.mu.Unlock()

	if m.inFlight <= 0 {
		panic(fmt.Sprintf("restaurant: %s in-flight count would go negative", m.Type))
	}
	m.inFlight--
	k.produced[orderNumber] = append(k.produced[orderNumber], m.Food)
	k.log.Append(events.MachineDoneFood(m.Type, m.Food))
	k.logger.Trace().Int("order", orderNumber).Str("food", m.Food.Name).Msg("item produced")

	close(k.changed)
	k.changed = make(chan struct{})
}

// ClaimFinishedItem hands one produced item of food back to the cook handling
// the order and emits CookFinishedFood. It returns false if no such item is
// ready.
func (k *Kitchen) ClaimFinishedItem(cook string, orderNumber int, food models.Food) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	ready := k.produced[orderNumber]
	if !ready.Remove(food) {
		return false
	}
	k.produced[orderNumber] = ready
	k.delivered[orderNumber] = append(k.delivered[orderNumber], food)
	k.log.Append(events.CookFinishedFood(cook, food, orderNumber))
	return true
}

// Changed returns a channel closed the next time any machine finishes an
// item. Take it before attempting work so a finish in between is not missed.
func (k *Kitchen) Changed() <-chan struct{} {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.changed
}

// TakeDelivered removes and returns the items handed back for the order
func (k *Kitchen) TakeDelivered(orderNumber int) models.Items {
	k.mu.Lock()
	defer k.mu.Unlock()

	items := k.delivered[orderNumber]
	delete(k.delivered, orderNumber)
	delete(k.produced, orderNumber)
	return items.Clone()
}

// Machine returns a snapshot of the machine making food
func (k *Kitchen) Machine(food models.Food) (Machine, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	m, ok := k.machines[food.Name]
	if !ok {
		return Machine{}, false
	}
	return *m, true
}

// Close waits for every item worker and emits MachineEnding for every machine
func (k *Kitchen) Close() {
	k.workers.Wait()

	k.mu.Lock()
	defer k.mu.Unlock()

	for _, mt := range models.MachineTypes {
		food, _ := models.FoodFor(mt)
		m := k.machines[food.Name]
		if m.inFlight != 0 {
			panic(fmt.Sprintf("restaurant: %s shutting down with %d items in flight", m.Type, m.inFlight))
		}
		k.log.Append(events.MachineEnding(m.Type))
	}
	k.open = false
}
