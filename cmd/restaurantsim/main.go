package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"restaurantsim/internal/config"
	"restaurantsim/internal/evaluation"
	"restaurantsim/internal/monitoring"
	"restaurantsim/internal/simulation"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	customers  = flag.Int("customers", 0, "Number of customers")
	cooks      = flag.Int("cooks", 0, "Number of cooks")
	tables     = flag.Int("tables", 0, "Number of tables")
	capacity   = flag.Int("capacity", 0, "Items each machine can cook at once")
	random     = flag.Bool("random", false, "Give customers random orders")
	seed       = flag.Int64("seed", 0, "Random seed, 0 picks one from the clock")
	unit       = flag.Duration("unit", 0, "Duration of one cook time unit")
	quiet      = flag.Bool("quiet", false, "Do not print the event trace")
	logLevel   = flag.String("log-level", "", "Log level (debug, info, warn, error)")
	metrics    = flag.Bool("metrics", false, "Print Prometheus metrics for the run")
	randomize  = flag.Bool("randomize", false, "Pick random run parameters")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(2)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(cfg.Level()).
		With().Timestamp().Logger()

	// Cancelled runs abort instead of finishing the remaining customers
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, cfg, logger))
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) int {
	runID := uuid.NewString()
	monitor := monitoring.NewMonitor()
	collector := evaluation.NewMetricsCollector()
	monitor.RecordMetric("random_orders", cfg.RandomOrders)
	monitor.RecordMetric("cook_time_unit", cfg.CookTimeUnit.String())
	monitor.RecordMetric("seed", cfg.Seed)

	var trace io.Writer = os.Stdout
	if !cfg.Trace {
		trace = nil
	}

	log, err := simulation.Run(ctx, cfg.Simulation(),
		simulation.WithLogger(logger),
		simulation.WithRunID(runID),
		simulation.WithTrace(trace),
		simulation.WithObserver(monitor.Observe),
		simulation.WithObserver(collector.Observe),
	)
	if log == nil {
		logger.Error().Err(err).Msg("Simulation could not start")
		return 2
	}
	if err != nil {
		logger.Error().Err(err).Msg("Simulation did not finish")
	}

	evs := log.Events()
	validator := evaluation.NewValidator(logger.With().Str("run_id", runID).Logger())
	ok := validator.Validate(evs)
	monitor.RecordValidation(runID, ok, evaluation.Check(evs))

	fmt.Printf("Did it work? %v\n", ok)

	s := evaluation.Summarize(evs)
	duration, _ := monitor.GetMetric("duration_seconds")
	logger.Info().
		Str("run_id", runID).
		Interface("duration_seconds", duration).
		Int("orders_placed", s.OrdersPlaced).
		Int("orders_completed", s.OrdersCompleted).
		Int("peak_tables_occupied", s.PeakOccupancy).
		Interface("items_produced", s.ItemsProduced).
		Interface("peak_in_flight", s.PeakInFlight).
		Interface("orders_by_cook", s.CooksByOrders).
		Msg("Run summary")
	logger.Debug().Interface("monitor", monitor.GetMetrics()).Msg("Monitor snapshot")

	if cfg.Metrics {
		if err := collector.WriteText(os.Stderr); err != nil {
			logger.Error().Err(err).Msg("Failed to write metrics")
		}
	}

	if !ok {
		return 1
	}
	return 0
}

// loadConfig layers the config file, then -randomize, then explicit flags
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if *randomize {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		cfg.Customers = rng.Intn(1000)
		cfg.Cooks = 1 + rng.Intn(99)
		cfg.Tables = 1 + rng.Intn(49)
		cfg.MachineCapacity = 1 + rng.Intn(19)
		cfg.RandomOrders = true
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "customers":
			cfg.Customers = *customers
		case "cooks":
			cfg.Cooks = *cooks
		case "tables":
			cfg.Tables = *tables
		case "capacity":
			cfg.MachineCapacity = *capacity
		case "random":
			cfg.RandomOrders = *random
		case "seed":
			cfg.Seed = *seed
		case "unit":
			cfg.CookTimeUnit = *unit
		case "quiet":
			cfg.Trace = !*quiet
		case "log-level":
			cfg.LogLevel = *logLevel
		case "metrics":
			cfg.Metrics = *metrics
		}
	})

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}
