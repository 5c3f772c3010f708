// Package mc provides the Markov-chain Monte Carlo samplers that drive a
// spin lattice toward thermal equilibrium: single-spin-flip Metropolis and
// topology-aware heat-bath (Gibbs) updates. Each Update is one Markov
// transition; Optimize runs a fixed number of them with no early exit.
package mc

import (
	"github.com/san-kum/spinlab/internal/lattice"
)

// Model is the capability set Metropolis needs from a physical model:
// a scalar energy, an in-place trial mutation, and an accept/reject rule
// for an energy delta. *ising.Model satisfies it.
type Model interface {
	Energy(g *lattice.Grid[bool]) float64
	ProposeMutation(g *lattice.Grid[bool])
	Accept(prevEnergy, nextEnergy float64) bool
}

// Seeder is implemented by anything owning a reseedable random stream.
type Seeder interface {
	SetSeed(seed int64)
}

// Sampler is the update-rule interface the sweep drivers hold.
type Sampler interface {
	Update(g *lattice.Grid[bool])
	Optimize(g *lattice.Grid[bool], steps int)
	SetSeed(seed int64)
}

// Metropolis performs accept/reject single-step updates against any Model.
type Metropolis struct {
	model Model
	trial *lattice.Grid[bool]
}

func NewMetropolis(model Model) *Metropolis {
	return &Metropolis{model: model}
}

// Update performs one Metropolis transition: propose a mutation on a trial
// copy, accept unconditionally on an energy decrease, otherwise let the
// model's acceptance rule decide. A rejected trial leaves the state
// untouched. Downhill moves never draw an acceptance variate, which keeps
// the random streams aligned with the reference trajectories.
func (s *Metropolis) Update(g *lattice.Grid[bool]) {
	prevEnergy := s.model.Energy(g)

	if s.trial == nil || s.trial.Rows() != g.Rows() || s.trial.Cols() != g.Cols() {
		s.trial = g.Clone()
	} else {
		s.trial.CopyFrom(g)
	}
	s.model.ProposeMutation(s.trial)

	nextEnergy := s.model.Energy(s.trial)

	if nextEnergy < prevEnergy || s.model.Accept(prevEnergy, nextEnergy) {
		g.CopyFrom(s.trial)
	}
}

// Optimize invokes Update exactly steps times. Sampling statistics between
// calls are the driver's concern.
func (s *Metropolis) Optimize(g *lattice.Grid[bool], steps int) {
	for i := 0; i < steps; i++ {
		s.Update(g)
	}
}

// SetSeed reseeds the stream behind the proposal and acceptance draws. For
// the Metropolis rule both draws belong to the model, so the call forwards
// to it when the model is reseedable.
func (s *Metropolis) SetSeed(seed int64) {
	if r, ok := s.model.(Seeder); ok {
		r.SetSeed(seed)
	}
}
