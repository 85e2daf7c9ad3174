// Package sim drives a population of vehicles around a spatial index, keeping
// the index in step with their movement and reporting separation conflicts.
package sim

import (
	"bytes"
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	geo "github.com/kellydunn/golang-geo"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/bmharper/spatialindex"
)

const earthRadiusMeters = 6371e3

// Config controls a simulation run.
type Config struct {
	Vehicles         int
	SeparationMeters float64
	MaxSpeed         float64 // meters per second, per axis
	Seed             int64

	// Tick is the simulated time covered by one step.
	Tick time.Duration

	// Interval is the clock time between steps. Zero runs steps back to back.
	Interval time.Duration
}

// DefaultConfig returns a small simulation ticking once per second.
func DefaultConfig() Config {
	return Config{
		Vehicles:         200,
		Tick:             time.Second,
		SeparationMeters: 500,
		MaxSpeed:         60,
		Seed:             1,
	}
}

// A Conflict is a pair of active vehicles closer than the separation minimum.
type Conflict struct {
	A, B     uuid.UUID
	Distance float64
}

// StepResult describes one simulation step.
type StepResult struct {
	Moved     int
	Exited    int
	Conflicts []Conflict
}

// Summary accumulates the results of Run.
type Summary struct {
	Steps     int
	Exited    int
	Conflicts int
	Active    int
}

// Driver moves vehicles and keeps an index of their positions.
type Driver struct {
	cfg      Config
	index    *spatialindex.SyncIndex
	clock    clock.Clock
	logger   *zap.Logger
	rng      *rand.Rand
	vehicles []*spatialindex.Vehicle
}

// New returns a driver over index. A nil clock means the wall clock.
func New(cfg Config, index *spatialindex.SyncIndex, clk clock.Clock, logger *zap.Logger) *Driver {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		cfg:    cfg,
		index:  index,
		clock:  clk,
		logger: logger,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Vehicles returns every vehicle spawned so far, including grounded ones.
func (d *Driver) Vehicles() []*spatialindex.Vehicle {
	return d.vehicles
}

// Active returns the vehicles still flying inside the index bounds.
func (d *Driver) Active() []*spatialindex.Vehicle {
	return lo.Filter(d.vehicles, func(v *spatialindex.Vehicle, _ int) bool {
		return v.Status == spatialindex.StatusActive
	})
}

// Add indexes v and hands it to the driver. Only active vehicles move.
func (d *Driver) Add(v *spatialindex.Vehicle) error {
	if err := d.index.Insert(v); err != nil {
		return errors.Wrapf(err, "indexing vehicle %s", v.ID)
	}
	d.vehicles = append(d.vehicles, v)
	return nil
}

// Populate spawns cfg.Vehicles active vehicles uniformly inside the index
// bounds with random velocities and indexes them.
func (d *Driver) Populate() error {
	b := d.index.Bounds()
	for i := 0; i < d.cfg.Vehicles; i++ {
		p := geo.NewPoint(
			b.MinLat+d.rng.Float64()*(b.MaxLat-b.MinLat),
			b.MinLon+d.rng.Float64()*(b.MaxLon-b.MinLon),
		)
		id, err := uuid.NewRandomFromReader(d.rng)
		if err != nil {
			return errors.Wrap(err, "generating vehicle id")
		}
		v := spatialindex.NewVehicle(id, p)
		v.Status = spatialindex.StatusActive
		v.Altitude = 100 + d.rng.Float64()*900
		v.Velocity = spatialindex.Velocity{
			North: (d.rng.Float64()*2 - 1) * d.cfg.MaxSpeed,
			East:  (d.rng.Float64()*2 - 1) * d.cfg.MaxSpeed,
		}
		if err := d.Add(v); err != nil {
			return err
		}
	}
	d.logger.Info("populated", zap.Int("vehicles", d.cfg.Vehicles), zap.Int("indexed", d.index.Size()))
	return nil
}

// Advance returns where a vehicle at p ends up after travelling at vel for dt.
func Advance(p *geo.Point, vel spatialindex.Velocity, dt time.Duration) *geo.Point {
	secs := dt.Seconds()
	dLat := vel.North * secs / earthRadiusMeters * 180 / math.Pi
	dLon := vel.East * secs / (earthRadiusMeters * math.Cos(p.Lat()*math.Pi/180)) * 180 / math.Pi
	return geo.NewPoint(p.Lat()+dLat, p.Lng()+dLon)
}

// Step moves every active vehicle by dt. Vehicles that leave the bounds are
// removed from the index and grounded. Conflicts are computed after all
// vehicles have moved.
func (d *Driver) Step(dt time.Duration) (StepResult, error) {
	var res StepResult
	b := d.index.Bounds()

	for _, v := range d.Active() {
		next := Advance(v.Position(), v.Velocity, dt)
		if !b.Contains(next) {
			if _, err := d.index.Remove(v); err != nil {
				return res, err
			}
			v.SetPosition(next)
			v.Status = spatialindex.StatusGrounded
			res.Exited++
			d.logger.Debug("vehicle left the area", zap.Stringer("id", v.ID))
			continue
		}
		if err := d.index.Move(v, next); err != nil {
			return res, errors.Wrapf(err, "moving vehicle %s", v.ID)
		}
		res.Moved++
	}

	res.Conflicts = d.Conflicts()
	return res, nil
}

// Conflicts returns each pair of active vehicles closer than the separation
// minimum once.
func (d *Driver) Conflicts() []Conflict {
	var conflicts []Conflict
	snap := d.index.Snapshot()
	m := d.index.Metric()
	for _, v := range d.Active() {
		for _, e := range snap.Query(v.Position(), d.cfg.SeparationMeters) {
			other, ok := e.(*spatialindex.Vehicle)
			if !ok || other == v || other.Status != spatialindex.StatusActive {
				continue
			}
			if bytes.Compare(v.ID[:], other.ID[:]) >= 0 {
				continue
			}
			conflicts = append(conflicts, Conflict{
				A:        v.ID,
				B:        other.ID,
				Distance: m.Distance(v.Position(), other.Position()),
			})
		}
	}
	return conflicts
}

// Run steps the simulation once per cfg.Interval of clock time until steps
// have run or ctx is done.
func (d *Driver) Run(ctx context.Context, steps int) (Summary, error) {
	var sum Summary
	var tick <-chan time.Time
	if d.cfg.Interval > 0 {
		ticker := d.clock.Ticker(d.cfg.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for sum.Steps < steps {
		if err := d.wait(ctx, tick); err != nil {
			sum.Active = len(d.Active())
			return sum, err
		}

		res, err := d.Step(d.cfg.Tick)
		if err != nil {
			return sum, err
		}
		sum.Steps++
		sum.Exited += res.Exited
		sum.Conflicts += len(res.Conflicts)
		d.logger.Debug("step",
			zap.Int("step", sum.Steps),
			zap.Int("moved", res.Moved),
			zap.Int("exited", res.Exited),
			zap.Int("conflicts", len(res.Conflicts)))
	}

	sum.Active = len(d.Active())
	return sum, nil
}

func (d *Driver) wait(ctx context.Context, tick <-chan time.Time) error {
	if tick == nil {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-tick:
		return nil
	}
}
