package restaurant

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// TableGate admits at most a fixed number of customers into the restaurant
type TableGate struct {
	sem      *semaphore.Weighted
	tables   int
	mu       sync.Mutex
	occupied int
}

// NewTableGate creates a gate with the given number of tables
func NewTableGate(tables int) *TableGate {
	if tables < 0 {
		tables = 0
	}
	return &TableGate{
		sem:    semaphore.NewWeighted(int64(tables)),
		tables: tables,
	}
}

// TryEnter takes a table if one is free and never blocks
func (g *TableGate) TryEnter() bool {
	if !g.sem.TryAcquire(1) {
		return false
	}
	g.seat()
	return true
}

// Enter blocks until a table is free or ctx is done
func (g *TableGate) Enter(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("waiting for a table: %w", err)
	}
	g.seat()
	return nil
}

func (g *TableGate) seat() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.occupied++
	if g.occupied > g.tables {
		panic(fmt.Sprintf("restaurant: %d customers seated at %d tables", g.occupied, g.tables))
	}
}

// Leave frees a table taken by TryEnter or Enter
func (g *TableGate) Leave() {
	g.mu.Lock()
	if g.occupied == 0 {
		g.mu.Unlock()
		panic("restaurant: leave without a seated customer")
	}
	g.occupied--
	g.mu.Unlock()
	g.sem.Release(1)
}

// Occupied returns the number of seated customers
func (g *TableGate) Occupied() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.occupied
}
