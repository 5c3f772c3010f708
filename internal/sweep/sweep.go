// Package sweep drives a sampler across a temperature range and records the
// magnetization curve. One trajectory owns one lattice, one model, and one
// sampler; nothing is shared between trajectories, so parallel sweeps stay
// reproducible.
package sweep

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/lattice"
	"github.com/san-kum/spinlab/internal/mc"
)

// Domain errors for sweep configuration.
var (
	ErrUnknownSampler = errors.New("sweep: unknown sampler")
	ErrInvalidSteps   = errors.New("sweep: step count must be positive")
	ErrInvalidRange   = errors.New("sweep: temperature range must be positive")
)

const (
	SamplerMetropolis = "metropolis"
	SamplerHeatBath   = "heatbath"
)

// Samplers lists the supported sampler names.
func Samplers() []string {
	return []string{SamplerMetropolis, SamplerHeatBath}
}

// Config describes one sweep.
type Config struct {
	Rows     int
	Cols     int
	Sampler  string // "metropolis" or "heatbath"
	Topology string // heat-bath adjacency, default "square"
	Steps    int    // sampler updates per temperature point
	MaxTc    float64 // sweep upper bound in units of Tc, default 4
	TStep    float64 // absolute temperature increment, default 0.005
	Seed     int64
	// FixedSeed reseeds the lattice, model, and sampler before every
	// temperature point and relaxes from both the all-up and all-down
	// ordered states, making each point independent of sweep order.
	FixedSeed bool
	Workers   int // parallel trajectories; <=1 runs sequentially
	Params    ising.Params
}

func (c Config) withDefaults() Config {
	if c.Sampler == "" {
		c.Sampler = SamplerMetropolis
	}
	if c.Topology == "" {
		c.Topology = "square"
	}
	if c.MaxTc == 0 {
		c.MaxTc = 4.0
	}
	if c.TStep == 0 {
		c.TStep = 0.005
	}
	if c.Params == (ising.Params{}) {
		c.Params = ising.DefaultParams()
	}
	return c
}

func (c Config) validate() error {
	if c.Steps <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSteps, c.Steps)
	}
	if c.MaxTc <= 0 || c.TStep <= 0 {
		return fmt.Errorf("%w: maxTc=%f tStep=%f", ErrInvalidRange, c.MaxTc, c.TStep)
	}
	switch c.Sampler {
	case SamplerMetropolis, SamplerHeatBath:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSampler, c.Sampler)
	}
	if _, err := mc.ParseTopology(c.Topology); err != nil {
		return err
	}
	return nil
}

// Point is one record of the sweep output: the reduced temperature T/Tc and
// the relaxed average spin. AverageSpinDown is populated only in fixed-seed
// mode, where each point also relaxes from the all-down start.
type Point struct {
	ReducedT        float64
	AverageSpin     float64
	AverageSpinDown float64
}

// Result is the completed magnetization curve.
type Result struct {
	Points     []Point
	BothStarts bool
}

// trajectory bundles the exclusively-owned state, model, and sampler of one
// Markov chain, each with an independently seeded stream.
type trajectory struct {
	state   *lattice.Grid[bool]
	model   *ising.Model
	sampler mc.Sampler
	cfg     Config
}

func newTrajectory(cfg Config, seed int64) (*trajectory, error) {
	state, err := lattice.New[bool](cfg.Rows, cfg.Cols, seed)
	if err != nil {
		return nil, err
	}

	model := ising.New(cfg.Params, seed+1)

	var sampler mc.Sampler
	switch cfg.Sampler {
	case SamplerMetropolis:
		sampler = mc.NewMetropolis(model)
	case SamplerHeatBath:
		topology, err := mc.ParseTopology(cfg.Topology)
		if err != nil {
			return nil, err
		}
		sampler = mc.NewHeatBath(model, topology, seed+2)
	}

	return &trajectory{state: state, model: model, sampler: sampler, cfg: cfg}, nil
}

func (tr *trajectory) reseed(seed int64) {
	tr.state.SetSeed(seed)
	tr.model.SetSeed(seed)
	tr.sampler.SetSeed(seed)
}

// point relaxes the trajectory at one temperature and records the result.
func (tr *trajectory) point(temp, tc float64) Point {
	tr.model.Params.T = temp
	reduced := temp / tc

	if tr.cfg.FixedSeed {
		tr.reseed(tr.cfg.Seed)
		tr.state.Init(true)
		tr.sampler.Optimize(tr.state, tr.cfg.Steps)
		up := ising.AverageSpin(tr.state)

		tr.reseed(tr.cfg.Seed)
		tr.state.Init(false)
		tr.sampler.Optimize(tr.state, tr.cfg.Steps)
		down := ising.AverageSpin(tr.state)

		return Point{ReducedT: reduced, AverageSpin: up, AverageSpinDown: down}
	}

	tr.state.InitRand(lattice.UniformBool())
	tr.sampler.Optimize(tr.state, tr.cfg.Steps)
	return Point{ReducedT: reduced, AverageSpin: ising.AverageSpin(tr.state)}
}

// Temperatures returns the absolute sweep temperatures for cfg.
func Temperatures(cfg Config) []float64 {
	c := cfg.withDefaults()
	tc := ising.New(c.Params, 0).Tc()
	maxT := c.MaxTc * tc

	temps := make([]float64, 0, int(maxT/c.TStep)+1)
	for temp := 0.0; temp < maxT; temp += c.TStep {
		temps = append(temps, temp)
	}
	return temps
}

// Run executes the sweep, sequentially or across Workers parallel
// trajectories. The context is checked between temperature points.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	return RunWithCallback(ctx, cfg, nil)
}

// RunWithCallback is Run with a per-point hook. Under parallel execution the
// hook observes points in completion order, not temperature order; the
// returned Result is always in temperature order.
func RunWithCallback(ctx context.Context, cfg Config, onPoint func(Point)) (*Result, error) {
	c := cfg.withDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}

	temps := Temperatures(c)
	tc := ising.New(c.Params, 0).Tc()
	points := make([]Point, len(temps))

	if c.Workers <= 1 {
		tr, err := newTrajectory(c, c.Seed)
		if err != nil {
			return nil, err
		}
		for i, temp := range temps {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			points[i] = tr.point(temp, tc)
			if onPoint != nil {
				onPoint(points[i])
			}
		}
		return &Result{Points: points, BothStarts: c.FixedSeed}, nil
	}

	return runParallel(ctx, c, temps, tc, points, onPoint)
}
