package restaurant

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurantsim/internal/events"
	"restaurantsim/internal/models"
)

func TestBrokerFIFOClaims(t *testing.T) {
	b := NewOrderBroker(events.NewLog(nil), 3)
	require.NoError(t, b.Place(1, models.Items{models.Wings}))
	require.NoError(t, b.Place(2, models.Items{models.Soda}))

	require.True(t, b.Claim("Cook 0"))
	n, items, ok := b.ReleaseClaim("Cook 0")
	require.True(t, ok)
	assert.Equal(t, 1, n)
	assert.True(t, items.Equal(models.Items{models.Wings}))

	require.True(t, b.Claim("Cook 1"))
	n, _, ok = b.ReleaseClaim("Cook 1")
	require.True(t, ok)
	assert.Equal(t, 2, n)

	assert.False(t, b.Claim("Cook 0"))
	_, _, ok = b.ReleaseClaim("Cook 0")
	assert.False(t, ok)
}

func TestBrokerRejectsDuplicatesAndOverflow(t *testing.T) {
	b := NewOrderBroker(events.NewLog(nil), 1)
	require.NoError(t, b.Place(7, models.FixedOrder()))
	assert.ErrorIs(t, b.Place(7, models.FixedOrder()), ErrDuplicateOrder)
	assert.ErrorIs(t, b.Place(8, models.FixedOrder()), ErrBrokerFull)
}

func TestBrokerCompletionLifecycle(t *testing.T) {
	log := events.NewLog(nil)
	b := NewOrderBroker(log, 1)
	items := models.Items{models.Pizza, models.Pizza}
	require.NoError(t, b.Place(1, items))

	status, err := b.Status(1)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPlaced, status)

	require.True(t, b.Claim("Cook 0"))
	status, _ = b.Status(1)
	assert.Equal(t, models.OrderStatusClaimed, status)

	assert.ErrorIs(t, b.MarkCompleted("Cook 1", 1, items), ErrNotClaimed)
	assert.False(t, b.IsCompleted(1))

	waited := make(chan error, 1)
	go func() { waited <- b.Wait(context.Background(), 1) }()

	require.NoError(t, b.MarkCompleted("Cook 0", 1, items))
	require.NoError(t, <-waited)
	assert.True(t, b.IsCompleted(1))

	got, ok := b.TakeCompletedItems(1)
	require.True(t, ok)
	assert.True(t, got.Equal(items))
	_, ok = b.TakeCompletedItems(1)
	assert.False(t, ok)

	evs := log.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, events.EventCookCompletedOrder, evs[0].Type)
	assert.Equal(t, "Cook 0", evs[0].Cook)
	assert.Equal(t, 1, evs[0].OrderNumber)
}

func TestBrokerNextBlocksUntilPlacedOrCancelled(t *testing.T) {
	b := NewOrderBroker(events.NewLog(nil), 1)

	got := make(chan error, 1)
	go func() { got <- b.Next(context.Background(), "Cook 0") }()
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, b.Place(3, models.Items{models.Sub}))
	require.NoError(t, <-got)
	n, _, ok := b.ReleaseClaim("Cook 0")
	require.True(t, ok)
	assert.Equal(t, 3, n)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, b.Next(ctx, "Cook 0"), context.Canceled)
}

func TestBrokerEachOrderClaimedOnce(t *testing.T) {
	const orders = 100
	b := NewOrderBroker(events.NewLog(nil), orders)
	for i := 1; i <= orders; i++ {
		require.NoError(t, b.Place(i, models.Items{models.Soda}))
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		claimed = make(map[int]int)
	)
	for c := 0; c < 8; c++ {
		wg.Add(1)
		go func(cook string) {
			defer wg.Done()
			for b.Claim(cook) {
				n, _, ok := b.ReleaseClaim(cook)
				assert.True(t, ok)
				mu.Lock()
				claimed[n]++
				mu.Unlock()
			}
		}(string(rune('A' + c)))
	}
	wg.Wait()

	assert.Len(t, claimed, orders)
	for n, count := range claimed {
		assert.Equal(t, 1, count, "order %d", n)
	}
}

func TestBrokerConcurrentClaimsFollowQueueOrder(t *testing.T) {
	const orders = 200
	b := NewOrderBroker(events.NewLog(nil), orders)
	for i := 1; i <= orders; i++ {
		require.NoError(t, b.Place(i, models.Items{models.Sub}))
	}

	var wg sync.WaitGroup
	for c := 0; c < 8; c++ {
		wg.Add(1)
		go func(cook string) {
			defer wg.Done()
			for b.Claim(cook) {
				n, _, ok := b.ReleaseClaim(cook)
				assert.True(t, ok)
				// every older order must already be claimed
				for older := 1; older < n; older++ {
					status, err := b.Status(older)
					assert.NoError(t, err)
					assert.Equal(t, models.OrderStatusClaimed, status, "order %d still queued after %d was claimed", older, n)
				}
			}
		}(string(rune('A' + c)))
	}
	wg.Wait()
}

func TestBrokerWaitUnknownOrder(t *testing.T) {
	b := NewOrderBroker(events.NewLog(nil), 0)
	assert.ErrorIs(t, b.Wait(context.Background(), 42), ErrUnknownOrder)
	_, err := b.Status(42)
	assert.ErrorIs(t, err, ErrUnknownOrder)
}
