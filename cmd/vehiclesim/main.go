// Package main runs a vehicle simulation over a spatial index and reports
// separation conflicts.
package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/bmharper/spatialindex"
	"github.com/bmharper/spatialindex/internal/sim"
)

const (
	flagConfig     = "config"
	flagVehicles   = "vehicles"
	flagSteps      = "steps"
	flagTick       = "tick"
	flagInterval   = "interval"
	flagSeparation = "separation"
	flagCapacity   = "capacity"
	flagMaxDepth   = "max-depth"
	flagSeed       = "seed"
	flagDebug      = "debug"
)

// defaultArea is a 2x2 degree box around Istanbul.
var defaultArea = map[string]interface{}{
	"name":    "vehiclesim",
	"min_lat": 40.0,
	"max_lat": 42.0,
	"min_lon": 28.0,
	"max_lon": 30.0,
}

func main() {
	defaults := sim.DefaultConfig()

	app := &cli.App{
		Name:  "vehiclesim",
		Usage: "simulate vehicles over a quadtree index",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:  flagConfig,
				Usage: "JSON file with index attributes (name, min_lat, max_lat, min_lon, max_lon, capacity, max_depth, metric)",
			},
			&cli.IntFlag{Name: flagVehicles, Value: defaults.Vehicles, Usage: "number of vehicles to spawn"},
			&cli.IntFlag{Name: flagSteps, Value: 60, Usage: "number of simulation steps"},
			&cli.DurationFlag{Name: flagTick, Value: defaults.Tick, Usage: "simulated time per step"},
			&cli.DurationFlag{Name: flagInterval, Usage: "wall time between steps, 0 runs as fast as possible"},
			&cli.Float64Flag{Name: flagSeparation, Value: defaults.SeparationMeters, Usage: "minimum separation in meters"},
			&cli.IntFlag{Name: flagCapacity, Usage: "override leaf capacity"},
			&cli.IntFlag{Name: flagMaxDepth, Value: -1, Usage: "override max depth"},
			&cli.Int64Flag{Name: flagSeed, Value: defaults.Seed, Usage: "random seed"},
			&cli.BoolFlag{Name: flagDebug, Usage: "enable debug logging"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}

func loadAttributes(path string) (map[string]interface{}, error) {
	if path == "" {
		attrs := make(map[string]interface{}, len(defaultArea))
		for k, v := range defaultArea {
			attrs[k] = v
		}
		return attrs, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	var attrs map[string]interface{}
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	return attrs, nil
}

func run(c *cli.Context) error {
	logger, err := newLogger(c.Bool(flagDebug))
	if err != nil {
		return errors.Wrap(err, "creating logger")
	}
	defer logger.Sync() //nolint:errcheck

	attrs, err := loadAttributes(c.Path(flagConfig))
	if err != nil {
		return err
	}
	if c.IsSet(flagCapacity) {
		attrs["capacity"] = c.Int(flagCapacity)
	}
	if c.Int(flagMaxDepth) >= 0 {
		attrs["max_depth"] = c.Int(flagMaxDepth)
	}

	cfg, err := spatialindex.DecodeConfig(attrs)
	if err != nil {
		return err
	}
	index, err := spatialindex.NewFromConfig(cfg, logger.Named("index"))
	if err != nil {
		return err
	}

	simCfg := sim.Config{
		Vehicles:         c.Int(flagVehicles),
		Tick:             c.Duration(flagTick),
		Interval:         c.Duration(flagInterval),
		SeparationMeters: c.Float64(flagSeparation),
		MaxSpeed:         sim.DefaultConfig().MaxSpeed,
		Seed:             c.Int64(flagSeed),
	}
	shared := spatialindex.NewSyncIndex(index)
	driver := sim.New(simCfg, shared, nil, logger.Named("sim"))
	if err := driver.Populate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt)
	defer cancel()

	start := time.Now()
	sum, err := driver.Run(ctx, c.Int(flagSteps))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	stats := shared.Stats()
	logger.Info("simulation finished",
		zap.Int("steps", sum.Steps),
		zap.Int("active", sum.Active),
		zap.Int("exited", sum.Exited),
		zap.Int("conflicts", sum.Conflicts),
		zap.Int("indexed", shared.Size()),
		zap.Int("nodes", stats.Nodes),
		zap.Int("leaves", stats.Leaves),
		zap.Int("depth", stats.Depth),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
