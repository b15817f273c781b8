package restaurant

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurantsim/internal/events"
	"restaurantsim/internal/models"
)

func newTestKitchen(capacity int) (*Kitchen, *events.Log) {
	log := events.NewLog(nil)
	k := NewKitchen(log, capacity, time.Microsecond, zerolog.Nop())
	k.Open()
	return k, log
}

func waitFor(t *testing.T, k *Kitchen, cook string, order int, food models.Food) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		changed := k.Changed()
		if k.ClaimFinishedItem(cook, order, food) {
			return
		}
		select {
		case <-changed:
		case <-deadline:
			t.Fatalf("%s for order %d never finished", food, order)
		}
	}
}

func TestKitchenOpenEmitsMachineStarting(t *testing.T) {
	_, log := newTestKitchen(2)
	evs := log.Events()
	require.Len(t, evs, 4)
	for i, mt := range models.MachineTypes {
		assert.Equal(t, events.EventMachineStarting, evs[i].Type)
		assert.Equal(t, mt, evs[i].Machine)
		assert.Equal(t, 2, evs[i].Capacity)
	}
}

func TestKitchenRespectsCapacity(t *testing.T) {
	k, _ := newTestKitchen(1)

	require.True(t, k.Start("Cook 0", 1, models.Wings))
	m, ok := k.Machine(models.Wings)
	require.True(t, ok)
	assert.LessOrEqual(t, m.InFlight(), 1)

	// Another food has its own machine.
	assert.True(t, k.Start("Cook 0", 1, models.Soda))

	waitFor(t, k, "Cook 0", 1, models.Wings)
	waitFor(t, k, "Cook 0", 1, models.Soda)

	m, _ = k.Machine(models.Wings)
	assert.Equal(t, 0, m.InFlight())
	assert.True(t, k.Start("Cook 0", 1, models.Wings))
	waitFor(t, k, "Cook 0", 1, models.Wings)
}

func TestKitchenRejectsBeyondCapacity(t *testing.T) {
	log := events.NewLog(nil)
	k := NewKitchen(log, 1, time.Hour, zerolog.Nop())
	k.Open()

	require.True(t, k.Start("Cook 0", 1, models.Pizza))
	assert.False(t, k.Start("Cook 1", 2, models.Pizza))
	m, _ := k.Machine(models.Pizza)
	assert.Equal(t, 1, m.InFlight())
}

func TestKitchenClaimOnlyProducedItems(t *testing.T) {
	k, log := newTestKitchen(2)

	assert.False(t, k.ClaimFinishedItem("Cook 0", 1, models.Sub))
	require.True(t, k.Start("Cook 0", 1, models.Sub))
	waitFor(t, k, "Cook 0", 1, models.Sub)
	assert.False(t, k.ClaimFinishedItem("Cook 0", 1, models.Sub), "item handed out twice")
	assert.False(t, k.ClaimFinishedItem("Cook 0", 2, models.Sub), "item of another order")

	delivered := k.TakeDelivered(1)
	assert.True(t, delivered.Equal(models.Items{models.Sub}))

	k.Close()
	var types []events.Type
	for _, e := range log.Events()[4:] {
		types = append(types, e.Type)
	}
	assert.Equal(t, []events.Type{
		events.EventCookStartedFood,
		events.EventMachineStartingFood,
		events.EventMachineDoneFood,
		events.EventCookFinishedFood,
		events.EventMachineEnding,
		events.EventMachineEnding,
		events.EventMachineEnding,
		events.EventMachineEnding,
	}, types)
}

func TestKitchenStartBeforeOpenPanics(t *testing.T) {
	k := NewKitchen(events.NewLog(nil), 1, time.Microsecond, zerolog.Nop())
	assert.Panics(t, func() { k.Start("Cook 0", 1, models.Soda) })
}
