package agents

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"restaurantsim/internal/events"
	"restaurantsim/internal/models"
)

// Cook claims orders one at a time, puts every item on its machine and
// collects the finished items before returning the order.
type Cook struct {
	*BaseAgent
	rng *rand.Rand
}

// NewCook creates a cook. rng decides the order in which items are dispatched
// and collected; it is owned by the cook.
func NewCook(name string, rng *rand.Rand, place Workplace, logger zerolog.Logger) *Cook {
	return &Cook{
		BaseAgent: NewBaseAgent(RoleCook, name, place, logger),
		rng:       rng,
	}
}

// Run handles orders until ctx is cancelled. Cancellation is observed only
// between orders; a claimed order always runs to completion.
func (c *Cook) Run(ctx context.Context) error {
	c.emit(events.CookStarting(c.name))

	for {
		err := c.place.Orders.Next(ctx, c.name)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		if err := c.handleOrder(context.WithoutCancel(ctx)); err != nil {
			return err
		}
	}

	c.emit(events.CookEnding(c.name))
	c.logger.Debug().Msg("going home")
	return nil
}

func (c *Cook) handleOrder(ctx context.Context) error {
	orderNumber, items, ok := c.place.Orders.ReleaseClaim(c.name)
	if !ok {
		panic(fmt.Sprintf("agents: %s has no claimed order", c.name))
	}
	_, span := c.tracer.Start(ctx, "cook.order", trace.WithAttributes(
		attribute.String("cook", c.name),
		attribute.Int("order", orderNumber),
		attribute.Int("items", len(items)),
	))
	defer span.End()

	c.emit(events.CookReceivedOrder(c.name, items, orderNumber))
	c.logger.Debug().Int("order", orderNumber).Stringer("items", items).Msg("order claimed")

	kitchen := c.place.Kitchen
	pending := items.Clone()
	awaiting := items.Clone()
	for len(awaiting) > 0 {
		changed := kitchen.Changed()
		progress := false

		c.shuffle(pending)
		for i := 0; i < len(pending); {
			if kitchen.Start(c.name, orderNumber, pending[i]) {
				pending = removeAt(pending, i)
				progress = true
				continue
			}
			i++
		}

		c.shuffle(awaiting)
		for i := 0; i < len(awaiting); {
			if kitchen.ClaimFinishedItem(c.name, orderNumber, awaiting[i]) {
				awaiting = removeAt(awaiting, i)
				progress = true
				continue
			}
			i++
		}

		if !progress && len(awaiting) > 0 {
			<-changed
		}
	}

	finished := kitchen.TakeDelivered(orderNumber)
	if err := c.place.Orders.MarkCompleted(c.name, orderNumber, finished); err != nil {
		return fail(span, fmt.Errorf("%s: %w", c.name, err))
	}
	c.logger.Debug().Int("order", orderNumber).Msg("order completed")
	return nil
}

func (c *Cook) shuffle(items models.Items) {
	c.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

func removeAt(items models.Items, i int) models.Items {
	last := len(items) - 1
	items[i] = items[last]
	return items[:last]
}
