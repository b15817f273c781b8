// Package simulation drives a full restaurant run: it opens the kitchen,
// starts cooks and customers, joins them and closes the log.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"restaurantsim/internal/agents"
	"restaurantsim/internal/events"
	"restaurantsim/internal/models"
	"restaurantsim/internal/restaurant"
)

// ErrInvalidConfig is returned for parameters a run cannot complete with
var ErrInvalidConfig = errors.New("invalid simulation config")

// Config holds the parameters of one run
type Config struct {
	Customers       int
	Cooks           int
	Tables          int
	MachineCapacity int
	RandomOrders    bool
	// CookTimeUnit scales every food's cook time. Zero means one millisecond.
	CookTimeUnit time.Duration
	// Seed drives order generation and cook dispatch order. Zero picks a
	// time based seed.
	Seed int64
}

// Option customises a run
type Option func(*runner)

// WithLogger sets the structured logger
func WithLogger(logger zerolog.Logger) Option {
	return func(r *runner) { r.logger = logger }
}

// WithTrace sets where the textual event trace is written. Nil discards it.
func WithTrace(w io.Writer) Option {
	return func(r *runner) { r.trace = w }
}

// WithRunID sets the run identifier attached to every log line. By default a
// random UUID is used.
func WithRunID(id string) Option {
	return func(r *runner) { r.runID = id }
}

// WithObserver subscribes fn to every event of the run
func WithObserver(fn events.Observer) Option {
	return func(r *runner) { r.observers = append(r.observers, fn) }
}

type runner struct {
	cfg       Config
	logger    zerolog.Logger
	trace     io.Writer
	observers []events.Observer
	tracer    trace.Tracer
	runID     string
}

// orderNumbers hands out unique, increasing order numbers starting at 1
type orderNumbers struct {
	last int
}

func (o *orderNumbers) next() int {
	o.last++
	return o.last
}

// RunSimulation runs with the given parameters, printing the trace to stdout
func RunSimulation(numCustomers, numCooks, numTables, machineCapacity int, randomOrders bool) (*events.Log, error) {
	return Run(context.Background(), Config{
		Customers:       numCustomers,
		Cooks:           numCooks,
		Tables:          numTables,
		MachineCapacity: machineCapacity,
		RandomOrders:    randomOrders,
	}, WithTrace(os.Stdout))
}

// Run drives one simulation to completion and returns its log
func Run(ctx context.Context, cfg Config, opts ...Option) (*events.Log, error) {
	r := &runner{
		cfg:    cfg,
		logger: zerolog.Nop(),
		tracer: otel.Tracer("restaurantsim/simulation"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cfg.CookTimeUnit == 0 {
		r.cfg.CookTimeUnit = time.Millisecond
	}
	if r.cfg.Seed == 0 {
		r.cfg.Seed = time.Now().UnixNano()
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	return r.run(ctx)
}

func (r *runner) run(ctx context.Context) (*events.Log, error) {
	cfg := r.cfg
	if err := checkConfig(cfg); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	orders := GenerateOrders(rng, cfg.Customers, cfg.RandomOrders)
	if err := checkOrders(cfg, orders); err != nil {
		return nil, err
	}

	logger := r.logger.With().Str("run_id", r.runID).Logger()
	ctx, span := r.tracer.Start(ctx, "simulation.run", trace.WithAttributes(
		attribute.String("run_id", r.runID),
		attribute.Int("customers", cfg.Customers),
		attribute.Int("cooks", cfg.Cooks),
		attribute.Int("tables", cfg.Tables),
		attribute.Int("machine_capacity", cfg.MachineCapacity),
		attribute.Bool("random_orders", cfg.RandomOrders),
	))
	defer span.End()

	log := events.NewLog(r.trace)
	for _, fn := range r.observers {
		log.Subscribe(fn)
	}

	logger.Info().
		Int("customers", cfg.Customers).
		Int("cooks", cfg.Cooks).
		Int("tables", cfg.Tables).
		Int("machine_capacity", cfg.MachineCapacity).
		Bool("random_orders", cfg.RandomOrders).
		Int64("seed", cfg.Seed).
		Msg("simulation starting")
	log.Append(events.SimulationStarting(events.Params{
		Customers:       cfg.Customers,
		Cooks:           cfg.Cooks,
		Tables:          cfg.Tables,
		MachineCapacity: cfg.MachineCapacity,
	}))

	kitchen := restaurant.NewKitchen(log, cfg.MachineCapacity, cfg.CookTimeUnit, logger)
	kitchen.Open()
	place := agents.Workplace{
		Log:     log,
		Tables:  restaurant.NewTableGate(cfg.Tables),
		Orders:  restaurant.NewOrderBroker(log, cfg.Customers),
		Kitchen: kitchen,
	}

	cookCtx, stopCooks := context.WithCancel(ctx)
	defer stopCooks()
	var cooks errgroup.Group
	for i := 0; i < cfg.Cooks; i++ {
		cook := agents.NewCook(fmt.Sprintf("Cook %d", i), rand.New(rand.NewSource(rng.Int63())), place, logger)
		start(cookCtx, &cooks, cook, logger)
	}

	customers, customerCtx := errgroup.WithContext(ctx)
	var numbers orderNumbers
	for i, items := range orders {
		customer := agents.NewCustomer(fmt.Sprintf("Customer %d", i), numbers.next(), items, place, logger)
		start(customerCtx, customers, customer, logger)
	}

	customerErr := customers.Wait()
	stopCooks()
	cookErr := cooks.Wait()
	if err := errors.Join(customerErr, cookErr); err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("simulation aborted")
		return log, fmt.Errorf("simulation aborted: %w", err)
	}

	kitchen.Close()
	log.Append(events.SimulationEnded())
	logger.Info().Int("events", log.Len()).Msg("simulation ended")
	return log, nil
}

// start runs a in g until it returns
func start(ctx context.Context, g *errgroup.Group, a agents.Agent, logger zerolog.Logger) {
	g.Go(func() error {
		logger.Debug().Str("agent", a.Name()).Str("role", string(a.GetRole())).Msg("agent started")
		return a.Run(ctx)
	})
}

// GenerateOrders builds one order per customer. Fixed orders hold one of each
// food; random orders hold between zero and three of each.
func GenerateOrders(rng *rand.Rand, customers int, random bool) []models.Items {
	orders := make([]models.Items, customers)
	for i := range orders {
		if !random {
			orders[i] = models.FixedOrder()
			continue
		}
		order := models.Items{}
		for _, food := range models.Menu {
			for n := rng.Intn(4); n > 0; n-- {
				order = append(order, food)
			}
		}
		orders[i] = order
	}
	return orders
}

func checkConfig(cfg Config) error {
	switch {
	case cfg.Customers < 0, cfg.Cooks < 0, cfg.Tables < 0, cfg.MachineCapacity < 0:
		return fmt.Errorf("%w: counts must not be negative", ErrInvalidConfig)
	case cfg.CookTimeUnit < 0:
		return fmt.Errorf("%w: cook time unit must not be negative", ErrInvalidConfig)
	case cfg.Customers == 0:
		return nil
	case cfg.Tables == 0:
		return fmt.Errorf("%w: %d customers but no tables", ErrInvalidConfig, cfg.Customers)
	case cfg.Cooks == 0:
		return fmt.Errorf("%w: %d customers but no cooks", ErrInvalidConfig, cfg.Customers)
	}
	return nil
}

// checkOrders rejects runs whose orders no machine could ever cook
func checkOrders(cfg Config, orders []models.Items) error {
	if cfg.MachineCapacity == 0 {
		for _, order := range orders {
			if len(order) > 0 {
				return fmt.Errorf("%w: machine capacity 0 cannot cook any item", ErrInvalidConfig)
			}
		}
	}
	return nil
}
