package evaluation

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"restaurantsim/internal/events"
	"restaurantsim/internal/models"
)

// Rule names the family of invariant a log violated
type Rule string

const (
	RuleOrdering  Rule = "ordering"
	RuleCapacity  Rule = "capacity"
	RuleState     Rule = "state"
	RuleCausality Rule = "causality"
	RuleMultiset  Rule = "multiset"
	RuleCount     Rule = "count"
)

// ViolationError describes the first invariant a log breaks
type ViolationError struct {
	Rule    Rule
	Index   int // position of the offending event, -1 for end-of-log checks
	Event   events.Type
	Message string
}

func (v *ViolationError) Error() string {
	if v.Index < 0 {
		return fmt.Sprintf("%s violation: %s", v.Rule, v.Message)
	}
	return fmt.Sprintf("%s violation at event %d (%s): %s", v.Rule, v.Index, v.Event, v.Message)
}

// Validator replays event logs against the restaurant's rules
type Validator struct {
	logger zerolog.Logger
}

// NewValidator creates a validator reporting failures to logger
func NewValidator(logger zerolog.Logger) *Validator {
	return &Validator{logger: logger}
}

// ValidateSimulation checks evs and reports any violation on stderr
func ValidateSimulation(evs []events.Event) bool {
	return NewValidator(zerolog.New(os.Stderr).With().Timestamp().Logger()).Validate(evs)
}

// Validate reports whether evs is a valid run, logging the violation if not
func (v *Validator) Validate(evs []events.Event) bool {
	if err := Check(evs); err != nil {
		v.logger.Error().Str("reason", err.Error()).Msg("SIMULATION INVALID")
		return false
	}
	return true
}

// Check replays evs and returns a *ViolationError for the first broken rule.
// It does not modify evs and keeps no state between calls.
func Check(evs []events.Event) error {
	if len(evs) == 0 {
		return &ViolationError{Rule: RuleCount, Index: -1, Message: "log is empty"}
	}
	last := len(evs) - 1
	if evs[0].Type != events.EventSimulationStarting {
		return checker{index: 0, event: evs[0]}.fail(RuleOrdering, "log does not begin with SimulationStarting")
	}
	if evs[last].Type != events.EventSimulationEnded {
		return checker{index: last, event: evs[last]}.fail(RuleOrdering, "log does not end with SimulationEnded")
	}

	r := newReplay(evs[0].Params)
	for i, e := range evs {
		if err := r.apply(i, len(evs), e); err != nil {
			return err
		}
	}
	return r.finish()
}

type replay struct {
	params events.Params

	customers map[string]events.Type
	cooks     map[string]events.Type
	machines  map[models.MachineType]events.Type

	occupancy int
	handled   int
	inFlight  map[models.MachineType]int
	// awaiting counts CookStartedFood items not yet picked up by their machine
	awaiting map[models.MachineType]int
	// produced counts MachineDoneFood items not yet picked up by a cook
	produced map[models.MachineType]int

	placed    map[int]models.Items
	placedBy  map[int]string
	handlers  map[int]string
	current   map[string]int
	started   map[int]models.Items
	finished  map[int]models.Items
	completed map[int]bool
}

func newReplay(p events.Params) *replay {
	return &replay{
		params:    p,
		customers: make(map[string]events.Type),
		cooks:     make(map[string]events.Type),
		machines:  make(map[models.MachineType]events.Type),
		inFlight:  make(map[models.MachineType]int),
		awaiting:  make(map[models.MachineType]int),
		produced:  make(map[models.MachineType]int),
		placed:    make(map[int]models.Items),
		placedBy:  make(map[int]string),
		handlers:  make(map[int]string),
		current:   make(map[string]int),
		started:   make(map[int]models.Items),
		finished:  make(map[int]models.Items),
		completed: make(map[int]bool),
	}
}

type checker struct {
	index int
	event events.Event
}

func (c checker) fail(rule Rule, format string, args ...any) error {
	return &ViolationError{Rule: rule, Index: c.index, Event: c.event.Type, Message: fmt.Sprintf(format, args...)}
}

func (c checker) check(ok bool, rule Rule, format string, args ...any) error {
	if ok {
		return nil
	}
	return c.fail(rule, format, args...)
}

func (r *replay) apply(i, n int, e events.Event) error {
	c := checker{index: i, event: e}

	switch e.Type {
	case events.EventSimulationStarting:
		return c.check(i == 0, RuleOrdering, "simulation started again")
	case events.EventSimulationEnded:
		return c.check(i == n-1, RuleOrdering, "events after the simulation ended")
	}

	switch {
	case e.Type.IsCustomer():
		return r.applyCustomer(c, e)
	case e.Type.IsCook():
		return r.applyCook(c, e)
	case e.Type.IsMachine():
		return r.applyMachine(c, e)
	default:
		return c.fail(RuleState, "unknown event type %s", e.Type)
	}
}

// customerPrev lists the only state each customer event may follow
var customerPrev = map[events.Type]events.Type{
	events.EventCustomerStarting:          0,
	events.EventCustomerEnteredRestaurant: events.EventCustomerStarting,
	events.EventCustomerPlacedOrder:       events.EventCustomerEnteredRestaurant,
	events.EventCustomerReceivedOrder:     events.EventCustomerPlacedOrder,
	events.EventCustomerLeavingRestaurant: events.EventCustomerReceivedOrder,
}

func (r *replay) applyCustomer(c checker, e events.Event) error {
	prev := r.customers[e.Customer]
	if prev != customerPrev[e.Type] {
		return c.fail(RuleState, "%s tried to switch from %s to %s", e.Customer, stateName(prev), e.Type)
	}
	r.customers[e.Customer] = e.Type

	switch e.Type {
	case events.EventCustomerEnteredRestaurant:
		r.occupancy++
		return c.check(r.occupancy <= r.params.Tables, RuleCapacity,
			"%d customers in restaurant with %d tables", r.occupancy, r.params.Tables)

	case events.EventCustomerPlacedOrder:
		if _, ok := r.placed[e.OrderNumber]; ok {
			return c.fail(RuleOrdering, "order number %d placed twice", e.OrderNumber)
		}
		r.placed[e.OrderNumber] = e.Items.Clone()
		r.placedBy[e.OrderNumber] = e.Customer

	case events.EventCustomerReceivedOrder:
		if !r.completed[e.OrderNumber] {
			return c.fail(RuleCausality, "%s received order %d before it was completed", e.Customer, e.OrderNumber)
		}
		if r.placedBy[e.OrderNumber] != e.Customer {
			return c.fail(RuleCausality, "%s received order %d placed by %q", e.Customer, e.OrderNumber, r.placedBy[e.OrderNumber])
		}
		return c.check(e.Items.Equal(r.placed[e.OrderNumber]), RuleMultiset,
			"received %s but ordered %s", e.Items, r.placed[e.OrderNumber])

	case events.EventCustomerLeavingRestaurant:
		r.occupancy--
		if r.occupancy < 0 {
			return c.fail(RuleCapacity, "negative number of customers in restaurant")
		}
		r.handled++
	}
	return nil
}

func (r *replay) applyCook(c checker, e events.Event) error {
	prev := r.cooks[e.Cook]
	var allowed bool
	switch e.Type {
	case events.EventCookStarting:
		allowed = prev == 0
	case events.EventCookReceivedOrder:
		allowed = prev == events.EventCookStarting || prev == events.EventCookCompletedOrder
	case events.EventCookStartedFood:
		allowed = prev == events.EventCookReceivedOrder || prev == events.EventCookStartedFood || prev == events.EventCookFinishedFood
	case events.EventCookFinishedFood:
		allowed = prev == events.EventCookStartedFood || prev == events.EventCookFinishedFood
	case events.EventCookCompletedOrder:
		allowed = prev == events.EventCookReceivedOrder || prev == events.EventCookFinishedFood
	case events.EventCookEnding:
		allowed = prev == events.EventCookStarting || prev == events.EventCookCompletedOrder
	}
	if !allowed {
		return c.fail(RuleState, "%s tried to switch from %s to %s", e.Cook, stateName(prev), e.Type)
	}
	r.cooks[e.Cook] = e.Type

	order := e.OrderNumber
	switch e.Type {
	case events.EventCookReceivedOrder:
		placed, ok := r.placed[order]
		if !ok {
			return c.fail(RuleCausality, "%s received order %d that was never placed", e.Cook, order)
		}
		if h, ok := r.handlers[order]; ok {
			return c.fail(RuleCausality, "%s received order %d already given to %s", e.Cook, order, h)
		}
		if !e.Items.Equal(placed) {
			return c.fail(RuleMultiset, "%s received %s for order %d placed as %s", e.Cook, e.Items, order, placed)
		}
		r.handlers[order] = e.Cook
		r.current[e.Cook] = order
		r.started[order] = models.Items{}
		r.finished[order] = models.Items{}

	case events.EventCookStartedFood:
		if err := r.checkHandling(c, e); err != nil {
			return err
		}
		machine, ok := models.MachineFor(e.Food)
		if !ok {
			return c.fail(RuleState, "no machine makes %s", e.Food)
		}
		// a machine slot stays taken from the cook's start until MachineDoneFood
		if load := r.awaiting[machine] + r.inFlight[machine]; load >= r.params.MachineCapacity {
			return c.fail(RuleCapacity, "%s started %s with %d items already on the %s (capacity %d)",
				e.Cook, e.Food, load, machine, r.params.MachineCapacity)
		}
		r.awaiting[machine]++
		r.started[order] = append(r.started[order], e.Food)
		return c.check(r.started[order].SubsetOf(r.placed[order]), RuleMultiset,
			"%s started more %s than order %d holds", e.Cook, e.Food, order)

	case events.EventCookFinishedFood:
		if err := r.checkHandling(c, e); err != nil {
			return err
		}
		machine, ok := models.MachineFor(e.Food)
		if !ok {
			return c.fail(RuleState, "no machine makes %s", e.Food)
		}
		if r.produced[machine] == 0 {
			return c.fail(RuleCausality, "%s finished %s for order %d before %s produced it", e.Cook, e.Food, order, machine)
		}
		r.produced[machine]--
		r.finished[order] = append(r.finished[order], e.Food)
		return c.check(r.finished[order].SubsetOf(r.started[order]), RuleCausality,
			"%s finished %s for order %d before starting it", e.Cook, e.Food, order)

	case events.EventCookCompletedOrder:
		if err := r.checkHandling(c, e); err != nil {
			return err
		}
		if r.current[e.Cook] != order {
			return c.fail(RuleCausality, "%s completed order %d while working on %d", e.Cook, order, r.current[e.Cook])
		}
		if !r.finished[order].Equal(r.placed[order]) {
			return c.fail(RuleMultiset, "%s completed order %d with %s, ordered %s", e.Cook, order, r.finished[order], r.placed[order])
		}
		r.completed[order] = true
		delete(r.current, e.Cook)

	case events.EventCookEnding:
		return c.check(r.handled == r.params.Customers, RuleCausality,
			"%s left after %d of %d customers were handled", e.Cook, r.handled, r.params.Customers)
	}
	return nil
}

// checkHandling verifies e comes from the cook that claimed its order and
// the order is still in progress.
func (r *replay) checkHandling(c checker, e events.Event) error {
	h, ok := r.handlers[e.OrderNumber]
	if !ok || h != e.Cook {
		return c.fail(RuleCausality, "%s handled order %d claimed by %q", e.Cook, e.OrderNumber, h)
	}
	return c.check(!r.completed[e.OrderNumber], RuleCausality,
		"%s handled order %d after it was completed", e.Cook, e.OrderNumber)
}

func (r *replay) applyMachine(c checker, e events.Event) error {
	prev := r.machines[e.Machine]
	var allowed bool
	switch e.Type {
	case events.EventMachineStarting:
		allowed = prev == 0
	case events.EventMachineStartingFood:
		allowed = prev != 0 && prev != events.EventMachineEnding
	case events.EventMachineDoneFood:
		allowed = prev != 0 && prev != events.EventMachineStarting && prev != events.EventMachineEnding
	case events.EventMachineEnding:
		allowed = prev == events.EventMachineStarting || prev == events.EventMachineDoneFood
	}
	if !allowed {
		return c.fail(RuleState, "%s tried to switch from %s to %s", e.Machine, stateName(prev), e.Type)
	}
	r.machines[e.Machine] = e.Type

	if e.Type != events.EventMachineEnding {
		food, ok := models.FoodFor(e.Machine)
		if !ok || food.Name != e.Food.Name {
			return c.fail(RuleState, "%s cannot make %s", e.Machine, e.Food)
		}
	}

	switch e.Type {
	case events.EventMachineStartingFood:
		if r.awaiting[e.Machine] == 0 {
			return c.fail(RuleCausality, "%s started %s no cook asked for", e.Machine, e.Food)
		}
		r.awaiting[e.Machine]--
		r.inFlight[e.Machine]++
		return c.check(r.inFlight[e.Machine] <= r.params.MachineCapacity, RuleCapacity,
			"%s cooking %d items with capacity %d", e.Machine, r.inFlight[e.Machine], r.params.MachineCapacity)

	case events.EventMachineDoneFood:
		r.inFlight[e.Machine]--
		if r.inFlight[e.Machine] < 0 {
			return c.fail(RuleCapacity, "%s finished an item it never started", e.Machine)
		}
		r.produced[e.Machine]++

	case events.EventMachineEnding:
		if r.awaiting[e.Machine] != 0 {
			return c.fail(RuleCausality, "%s shut down with %d started items never cooked", e.Machine, r.awaiting[e.Machine])
		}
		return c.check(r.inFlight[e.Machine] == 0, RuleCapacity,
			"%s shut down with %d items cooking", e.Machine, r.inFlight[e.Machine])
	}
	return nil
}

func (r *replay) finish() error {
	end := checker{index: -1}
	p := r.params

	if len(r.customers) != p.Customers {
		return end.fail(RuleCount, "expected %d customers, log records %d", p.Customers, len(r.customers))
	}
	if len(r.cooks) != p.Cooks {
		return end.fail(RuleCount, "expected %d cooks, log records %d", p.Cooks, len(r.cooks))
	}
	if len(r.machines) != len(models.MachineTypes) {
		return end.fail(RuleCount, "expected %d machines, log records %d", len(models.MachineTypes), len(r.machines))
	}
	for name, s := range r.customers {
		if s != events.EventCustomerLeavingRestaurant {
			return end.fail(RuleState, "%s never left the restaurant (last %s)", name, s)
		}
	}
	for name, s := range r.cooks {
		if s != events.EventCookEnding {
			return end.fail(RuleState, "%s never went home (last %s)", name, s)
		}
	}
	for mt, s := range r.machines {
		if s != events.EventMachineEnding {
			return end.fail(RuleState, "%s never shut down (last %s)", mt, s)
		}
	}
	if len(r.completed) != p.Customers {
		return end.fail(RuleCount, "%d orders completed for %d customers", len(r.completed), p.Customers)
	}
	return nil
}

func stateName(t events.Type) string {
	if t == 0 {
		return "nothing"
	}
	return t.String()
}
