// Package meanfield computes the magnetization-temperature curve of the
// Ising model from its mean-field free energy, without touching the lattice
// engine: only the scalar functional is minimized.
package meanfield

import (
	"math"

	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/optim"
)

// Point holds the magnetization found by each optimizer at one temperature.
type Point struct {
	ReducedT float64
	SGD      float64
	Momentum float64
	AdaGrad  float64
}

// Config controls a mean-field temperature sweep. Zero values fall back to
// the reference defaults.
type Config struct {
	InitM    float64 // descent starting point
	MaxTc    float64 // sweep upper bound in units of Tc
	TStep    float64 // absolute temperature increment
	MaxIters int
}

func (c Config) withDefaults() Config {
	if c.InitM == 0 {
		c.InitM = 1e-2
	}
	if c.MaxTc == 0 {
		c.MaxTc = 3.0
	}
	if c.TStep == 0 {
		c.TStep = 0.002
	}
	if c.MaxIters == 0 {
		c.MaxIters = 3000
	}
	return c
}

// SolveFreeEnergy sweeps the temperature and minimizes the free-energy
// functional with all three optimizers at each point. The model's
// temperature parameter is mutated in place during the sweep.
func SolveFreeEnergy(model *ising.Model, cfg Config) []Point {
	c := cfg.withDefaults()
	return solve(model, c, func(mag float64) float64 {
		return model.FreeEnergy(mag)
	})
}

// SolveSelfConsistent sweeps the temperature minimizing the squared residual
// of the self-consistency equation m = tanh(Tc/T·m).
func SolveSelfConsistent(model *ising.Model, cfg Config) []Point {
	c := cfg.withDefaults()
	if cfg.InitM == 0 {
		c.InitM = 0.5 + 1e-2
	}
	if cfg.MaxIters == 0 {
		c.MaxIters = 10000
	}
	return solve(model, c, func(mag float64) float64 {
		diff := mag - math.Tanh(model.Tc()/model.Params.T*mag)
		return diff * diff
	})
}

func solve(model *ising.Model, c Config, objective optim.Objective) []Point {
	tc := model.Tc()
	maxT := c.MaxTc * tc
	opts := optim.Options{MaxIters: c.MaxIters}

	points := make([]Point, 0, int(maxT/c.TStep)+1)
	for temp := 0.0; temp < maxT; temp += c.TStep {
		model.Params.T = temp

		points = append(points, Point{
			ReducedT: temp / tc,
			SGD:      optim.SGD(objective, c.InitM, opts),
			Momentum: optim.Momentum(objective, c.InitM, opts),
			AdaGrad:  optim.AdaGrad(objective, c.InitM, opts),
		})
	}
	return points
}
