package events

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurantsim/internal/models"
)

func TestLogAppendRendersInOrder(t *testing.T) {
	var buf bytes.Buffer
	l := NewLog(&buf)

	l.Append(SimulationStarting(Params{Customers: 1, Cooks: 2, Tables: 3, MachineCapacity: 4}))
	l.Append(CustomerStarting("Customer 0"))
	l.Append(MachineStarting(models.MachineTypeFryer, models.Wings, 4))
	l.Append(SimulationEnded())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Starting simulation: 1 customers; 2 cooks; 3 tables; machine capacity 4.", lines[0])
	assert.Equal(t, "Customer 0 going to restaurant.", lines[1])
	assert.Equal(t, "Fryer starting up for making wings; capacity=4", lines[2])
	assert.Equal(t, "Simulation ended.", lines[3])
	assert.Equal(t, 4, l.Len())
	assert.True(t, l.Closed())
}

func TestLogAppendAfterEndPanics(t *testing.T) {
	l := NewLog(nil)
	l.Append(SimulationEnded())
	assert.Panics(t, func() { l.Append(CookStarting("Cook 0")) })
}

func TestEventsCarrySnapshots(t *testing.T) {
	l := NewLog(nil)
	items := models.Items{models.Wings, models.Soda}
	l.Append(CustomerPlacedOrder("Customer 0", items, 1))

	items[0] = models.Pizza
	got := l.Events()
	require.Len(t, got, 1)
	assert.Equal(t, models.Wings, got[0].Items[0])

	got[0].Items[1] = models.Sub
	assert.Equal(t, models.Soda, l.Events()[0].Items[1])
}

func TestLogConcurrentAppendsMatchTrace(t *testing.T) {
	var buf bytes.Buffer
	l := NewLog(&buf)

	var seen []Type
	l.Subscribe(func(e Event) { seen = append(seen, e.Type) })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				l.Append(CookStarting("Cook"))
			} else {
				l.Append(CustomerStarting("Customer"))
			}
		}(i)
	}
	wg.Wait()

	evs := l.Events()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(evs))
	require.Len(t, seen, len(evs))
	for i, e := range evs {
		assert.Equal(t, e.String(), lines[i])
		assert.Equal(t, e.Type, seen[i])
	}
}

func TestTypeClassification(t *testing.T) {
	assert.True(t, EventCustomerReceivedOrder.IsCustomer())
	assert.False(t, EventCookStarting.IsCustomer())
	assert.True(t, EventCookEnding.IsCook())
	assert.True(t, EventMachineDoneFood.IsMachine())
	assert.False(t, EventSimulationEnded.IsMachine())
	assert.Equal(t, "CookFinishedFood", EventCookFinishedFood.String())
}
