// Package ising implements the 2D Ising spin model: exchange energy,
// Metropolis proposal/acceptance semantics, and magnetization observables
// over a boolean occupancy lattice.
package ising

import (
	"math"
	"math/rand"

	"github.com/san-kum/spinlab/internal/lattice"
)

// Params holds the physical parameters. They may be mutated between
// optimize calls (a temperature sweep does exactly that); every method
// reads the current values.
type Params struct {
	N  int     `yaml:"n"`  // degeneracy count
	Z  int     `yaml:"z"`  // coordination number
	J  float64 `yaml:"j"`  // coupling constant, ferromagnetic when J > 0
	T  float64 `yaml:"t"`  // temperature
	Kb float64 `yaml:"kb"` // Boltzmann constant
}

// DefaultParams returns the conventional reduced-unit parameter set.
func DefaultParams() Params {
	return Params{N: 1, Z: 1, J: 1, T: 0.1, Kb: 1.0}
}

// Model is the Ising physical model. It owns a private random stream for
// proposal and acceptance draws; the lattice and the samplers own theirs.
type Model struct {
	Params Params
	rng    *rand.Rand
}

func New(p Params, seed int64) *Model {
	return &Model{Params: p, rng: rand.New(rand.NewSource(seed))}
}

// SetSeed replaces the model's random stream.
func (m *Model) SetSeed(seed int64) {
	m.rng = rand.New(rand.NewSource(seed))
}

// Spin maps a boolean occupancy to a physical spin value of ±1.
func Spin(b bool) float64 {
	if b {
		return 1
	}
	return -1
}

// Tc returns the mean-field critical temperature z·J/kb.
func (m *Model) Tc() float64 { return float64(m.Params.Z) * m.Params.J / m.Params.Kb }

// KbT returns the thermal energy kb·T.
func (m *Model) KbT() float64 { return m.Params.Kb * m.Params.T }

// Energy sums the exchange energy −J·s(r,c)·(s(r,c+1)+s(r+1,c)) of the
// rightward and downward neighbor pairs with r < rows−1 and c < cols−1.
// Under the mirrored-edge storage convention the last row and column
// duplicate the first, so the loop never reads a duplicate as a fresh site.
func (m *Model) Energy(g *lattice.Grid[bool]) float64 {
	energy := 0.0
	for r := 0; r < g.Rows()-1; r++ {
		for c := 0; c < g.Cols()-1; c++ {
			energy += -m.Params.J * Spin(g.At(r, c)) *
				(Spin(g.At(r, c+1)) + Spin(g.At(r+1, c)))
		}
	}
	return energy
}

// ProposeMutation flips one uniformly chosen site in place, propagating the
// new value to the site's periodic-boundary mirror cells.
func (m *Model) ProposeMutation(g *lattice.Grid[bool]) {
	row := m.rng.Intn(g.Rows())
	col := m.rng.Intn(g.Cols())
	lattice.SetMirrored(g, row, col, !g.At(row, col))
}

// Accept applies the Metropolis rule: accept with probability
// min(1, exp(−(next−prev)/kbT)). As kbT→0 the exponential may evaluate to
// +Inf for downhill moves; u < +Inf is always true, which is the correct
// zero-temperature limit, so no special casing is needed.
func (m *Model) Accept(prevEnergy, nextEnergy float64) bool {
	return m.rng.Float64() < math.Exp(-(nextEnergy-prevEnergy)/m.KbT())
}

// FreeEnergy evaluates the closed-form mean-field free energy at
// magnetization mag. It exists for the self-consistent solvers; the lattice
// engine never calls it.
func (m *Model) FreeEnergy(mag float64) float64 {
	p := m.Params
	return -0.5*float64(p.N*p.Z)*p.J*mag*mag -
		0.5*float64(p.N)*p.Kb*p.T*
			(-(1+mag)*math.Log(1+mag)-(1-mag)*math.Log(1-mag))
}

// Magnetization returns the spin sum over the whole grid.
func Magnetization(g *lattice.Grid[bool]) float64 {
	mag := 0.0
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			mag += Spin(g.At(r, c))
		}
	}
	return mag
}

// AverageSpin returns the mean spin, the primary simulation observable.
// Grid construction guarantees a nonzero site count.
func AverageSpin(g *lattice.Grid[bool]) float64 {
	return Magnetization(g) / float64(g.Rows()*g.Cols())
}

// FlattenSpins converts the grid to a row-major ±1 vector for hand-off to
// external consumers such as a phase classifier.
func FlattenSpins(g *lattice.Grid[bool]) []float64 {
	out := make([]float64, 0, g.Rows()*g.Cols())
	for _, b := range g.Flatten() {
		out = append(out, Spin(b))
	}
	return out
}

// TransitionT returns the exact Onsager transition temperature
// 2J/(kb·ln(1+√2)) used to label spin configurations by phase.
func (m *Model) TransitionT() float64 {
	return 2 * m.Params.J / (m.Params.Kb * math.Log(math.Sqrt2+1))
}
