package restaurant

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"restaurantsim/internal/events"
	"restaurantsim/internal/models"
)

var (
	ErrDuplicateOrder = errors.New("order number already placed")
	ErrUnknownOrder   = errors.New("unknown order number")
	ErrBrokerFull     = errors.New("order queue is full")
	ErrNotClaimed     = errors.New("order not claimed by cook")
)

type claim struct {
	orderNumber int
	items       models.Items
}

// OrderBroker hands placed orders to cooks in FIFO order, one cook per order,
// and signals customers once their order is completed. All state is guarded
// by a single mutex. The buffered channel only carries one token per queued
// order so cooks can wait on it alongside cancellation; which order a token
// stands for is decided under the mutex, so claims complete in queue order.
type OrderBroker struct {
	log   *events.Log
	queue chan struct{}

	mu        sync.Mutex
	fifo      []int
	placed    map[int]models.Items
	pending   map[int]models.Items
	claims    map[string]claim
	owners    map[int]string
	completed map[int]models.Items
	done      map[int]chan struct{}
}

// NewOrderBroker creates a broker able to queue up to capacity orders
func NewOrderBroker(log *events.Log, capacity int) *OrderBroker {
	if capacity < 0 {
		capacity = 0
	}
	return &OrderBroker{
		log:       log,
		queue:     make(chan struct{}, capacity),
		placed:    make(map[int]models.Items),
		pending:   make(map[int]models.Items),
		claims:    make(map[string]claim),
		owners:    make(map[int]string),
		completed: make(map[int]models.Items),
		done:      make(map[int]chan struct{}),
	}
}

// Place queues an order. Order numbers are unique for the broker's lifetime.
func (b *OrderBroker) Place(orderNumber int, items models.Items) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.placed[orderNumber]; ok {
		return fmt.Errorf("place order %d: %w", orderNumber, ErrDuplicateOrder)
	}
	select {
	case b.queue <- struct{}{}:
	default:
		return fmt.Errorf("place order %d: %w", orderNumber, ErrBrokerFull)
	}
	b.fifo = append(b.fifo, orderNumber)
	b.placed[orderNumber] = items.Clone()
	b.pending[orderNumber] = items.Clone()
	b.done[orderNumber] = make(chan struct{})
	return nil
}

// Claim assigns the oldest queued order to cook without blocking
func (b *OrderBroker) Claim(cook string) bool {
	select {
	case <-b.queue:
		b.assign(cook)
		return true
	default:
		return false
	}
}

// Next blocks until cook is assigned an order or ctx is done. A queued order
// wins over a concurrent cancellation.
func (b *OrderBroker) Next(ctx context.Context, cook string) error {
	if b.Claim(cook) {
		return nil
	}
	select {
	case <-b.queue:
		b.assign(cook)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// assign gives cook the oldest queued order. The caller holds a queue token,
// so fifo is never empty here.
func (b *OrderBroker) assign(cook string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	orderNumber := b.fifo[0]
	b.fifo = b.fifo[1:]
	if held, ok := b.claims[cook]; ok {
		panic(fmt.Sprintf("restaurant: %s claimed order %d while holding %d", cook, orderNumber, held.orderNumber))
	}
	items, ok := b.pending[orderNumber]
	if !ok {
		panic(fmt.Sprintf("restaurant: queued order %d has no pending items", orderNumber))
	}
	delete(b.pending, orderNumber)
	b.claims[cook] = claim{orderNumber: orderNumber, items: items}
	b.owners[orderNumber] = cook
}

// ReleaseClaim drains the cook's slot and returns the claimed order
func (b *OrderBroker) ReleaseClaim(cook string) (int, models.Items, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.claims[cook]
	if !ok {
		return 0, nil, false
	}
	delete(b.claims, cook)
	return c.orderNumber, c.items, true
}

// MarkCompleted records the finished contents of an order, emits
// CookCompletedOrder and wakes the waiting customer.
func (b *OrderBroker) MarkCompleted(cook string, orderNumber int, finished models.Items) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if owner, ok := b.owners[orderNumber]; !ok || owner != cook {
		return fmt.Errorf("complete order %d by %s: %w", orderNumber, cook, ErrNotClaimed)
	}
	if _, ok := b.completed[orderNumber]; ok {
		return fmt.Errorf("complete order %d by %s: %w", orderNumber, cook, ErrDuplicateOrder)
	}
	b.completed[orderNumber] = finished.Clone()
	b.log.Append(events.CookCompletedOrder(cook, orderNumber))
	close(b.done[orderNumber])
	return nil
}

// IsCompleted reports whether MarkCompleted has run for the order
func (b *OrderBroker) IsCompleted(orderNumber int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.completed[orderNumber]
	return ok
}

// Wait blocks until the order is completed or ctx is done
func (b *OrderBroker) Wait(ctx context.Context, orderNumber int) error {
	b.mu.Lock()
	done, ok := b.done[orderNumber]
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("wait for order %d: %w", orderNumber, ErrUnknownOrder)
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TakeCompletedItems hands the finished contents to the customer. It returns
// false if the order is not completed or was already taken.
func (b *OrderBroker) TakeCompletedItems(orderNumber int) (models.Items, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	items, ok := b.completed[orderNumber]
	if !ok || items == nil {
		return nil, false
	}
	b.completed[orderNumber] = nil
	return items, true
}

// Status returns the lifecycle state of a placed order
func (b *OrderBroker) Status(orderNumber int) (models.OrderStatus, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.completed[orderNumber]; ok {
		return models.OrderStatusCompleted, nil
	}
	if _, ok := b.owners[orderNumber]; ok {
		return models.OrderStatusClaimed, nil
	}
	if _, ok := b.placed[orderNumber]; ok {
		return models.OrderStatusPlaced, nil
	}
	return "", fmt.Errorf("status of order %d: %w", orderNumber, ErrUnknownOrder)
}
