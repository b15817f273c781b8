package agents

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"restaurantsim/internal/events"
	"restaurantsim/internal/models"
)

// Customer enters the restaurant when a table is free, places one order,
// waits for it and leaves.
type Customer struct {
	*BaseAgent
	OrderNumber int
	Items       models.Items
}

// NewCustomer creates a customer that will order items under orderNumber
func NewCustomer(name string, orderNumber int, items models.Items, place Workplace, logger zerolog.Logger) *Customer {
	return &Customer{
		BaseAgent:   NewBaseAgent(RoleCustomer, name, place, logger),
		OrderNumber: orderNumber,
		Items:       items.Clone(),
	}
}

// Run plays out the customer's visit
func (c *Customer) Run(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "customer.visit", trace.WithAttributes(
		attribute.String("customer", c.name),
		attribute.Int("order", c.OrderNumber),
		attribute.Int("items", len(c.Items)),
	))
	defer span.End()

	c.emit(events.CustomerStarting(c.name))

	if err := c.place.Tables.Enter(ctx); err != nil {
		return fail(span, fmt.Errorf("%s: %w", c.name, err))
	}
	c.emit(events.CustomerEnteredRestaurant(c.name))

	c.emit(events.CustomerPlacedOrder(c.name, c.Items, c.OrderNumber))
	if err := c.place.Orders.Place(c.OrderNumber, c.Items); err != nil {
		c.place.Tables.Leave()
		return fail(span, fmt.Errorf("%s: %w", c.name, err))
	}
	c.logger.Debug().Int("order", c.OrderNumber).Stringer("items", c.Items).Msg("order placed")

	if err := c.place.Orders.Wait(ctx, c.OrderNumber); err != nil {
		c.place.Tables.Leave()
		return fail(span, fmt.Errorf("%s waiting for order %d: %w", c.name, c.OrderNumber, err))
	}
	received, ok := c.place.Orders.TakeCompletedItems(c.OrderNumber)
	if !ok {
		received = models.Items{}
	}
	c.emit(events.CustomerReceivedOrder(c.name, received, c.OrderNumber))

	c.emit(events.CustomerLeavingRestaurant(c.name))
	c.place.Tables.Leave()
	c.logger.Debug().Int("order", c.OrderNumber).Msg("left restaurant")
	return nil
}
