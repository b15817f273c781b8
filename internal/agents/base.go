package agents

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"restaurantsim/internal/events"
	"restaurantsim/internal/restaurant"
)

// AgentRole represents the role of an actor in the restaurant
type AgentRole string

const (
	RoleCustomer AgentRole = "customer"
	RoleCook     AgentRole = "cook"
)

const tracerName = "restaurantsim/agents"

// Agent is an independently running actor of the simulation
type Agent interface {
	Name() string
	GetRole() AgentRole
	Run(ctx context.Context) error
}

// Workplace holds the shared resources actors coordinate over
type Workplace struct {
	Log     *events.Log
	Tables  *restaurant.TableGate
	Orders  *restaurant.OrderBroker
	Kitchen *restaurant.Kitchen
}

// BaseAgent provides common functionality for all agents
type BaseAgent struct {
	name   string
	role   AgentRole
	place  Workplace
	logger zerolog.Logger
	tracer trace.Tracer
}

// NewBaseAgent creates a new base agent with the specified role and name
func NewBaseAgent(role AgentRole, name string, place Workplace, logger zerolog.Logger) *BaseAgent {
	return &BaseAgent{
		name:   name,
		role:   role,
		place:  place,
		logger: logger.With().Str("role", string(role)).Str("agent", name).Logger(),
		tracer: otel.Tracer(tracerName),
	}
}

// Name returns the agent's display name
func (a *BaseAgent) Name() string {
	return a.name
}

// GetRole returns the agent's role
func (a *BaseAgent) GetRole() AgentRole {
	return a.role
}

func (a *BaseAgent) emit(e events.Event) {
	a.place.Log.Append(e)
}

// fail marks span as failed and returns err unchanged
func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
