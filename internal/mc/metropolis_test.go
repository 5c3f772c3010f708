package mc

import (
	"testing"

	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/lattice"
)

func mustGrid(t *testing.T, rows, cols int) *lattice.Grid[bool] {
	t.Helper()
	g, err := lattice.New[bool](rows, cols, 1)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	return g
}

// fakeModel drives Update through chosen energy sequences without randomness.
type fakeModel struct {
	energies    []float64
	energyCalls int
	acceptCalls int
	accept      bool
}

func (f *fakeModel) Energy(g *lattice.Grid[bool]) float64 {
	e := f.energies[f.energyCalls%len(f.energies)]
	f.energyCalls++
	return e
}

func (f *fakeModel) ProposeMutation(g *lattice.Grid[bool]) {
	lattice.SetMirrored(g, 0, 0, !g.At(0, 0))
}

func (f *fakeModel) Accept(prevEnergy, nextEnergy float64) bool {
	f.acceptCalls++
	return f.accept
}

func TestMetropolisUpdate_UnconditionalAccept(t *testing.T) {
	g := mustGrid(t, 4, 4)
	g.Init(true)

	// energy drops on the trial: must accept without consulting Accept
	model := &fakeModel{energies: []float64{1.0, -1.0}, accept: false}
	s := NewMetropolis(model)
	s.Update(g)

	if g.At(0, 0) {
		t.Error("downhill trial was not applied to the state")
	}
	if model.acceptCalls != 0 {
		t.Errorf("downhill move consulted Accept %d times", model.acceptCalls)
	}
}

func TestMetropolisUpdate_RejectKeepsState(t *testing.T) {
	g := mustGrid(t, 4, 4)
	g.Init(true)

	model := &fakeModel{energies: []float64{-1.0, 1.0}, accept: false}
	s := NewMetropolis(model)
	s.Update(g)

	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if !g.At(r, c) {
				t.Fatalf("rejected trial mutated site (%d,%d)", r, c)
			}
		}
	}
	if model.acceptCalls != 1 {
		t.Errorf("expected exactly one Accept call, got %d", model.acceptCalls)
	}
}

func TestMetropolisUpdate_UphillAccept(t *testing.T) {
	g := mustGrid(t, 4, 4)
	g.Init(true)

	model := &fakeModel{energies: []float64{-1.0, 1.0}, accept: true}
	s := NewMetropolis(model)
	s.Update(g)

	if g.At(0, 0) {
		t.Error("accepted uphill trial was not applied")
	}
}

func TestMetropolisOptimize_StepCount(t *testing.T) {
	g := mustGrid(t, 4, 4)
	g.Init(true)

	model := &fakeModel{energies: []float64{0.0}, accept: false}
	s := NewMetropolis(model)
	s.Optimize(g, 25)

	// two energy evaluations per update, no early exit
	if model.energyCalls != 50 {
		t.Errorf("expected 50 energy evaluations, got %d", model.energyCalls)
	}
}

func TestMetropolis_Deterministic(t *testing.T) {
	run := func() []bool {
		g := mustGrid(t, 8, 8)
		g.SetSeed(3)
		g.InitRand(lattice.UniformBool())

		model := ising.New(ising.DefaultParams(), 42)
		s := NewMetropolis(model)
		s.Optimize(g, 300)
		return g.Flatten()
	}

	first := run()
	second := run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("site %d differs between identically seeded runs", i)
		}
	}
}

func TestMetropolis_LowTemperatureStaysOrdered(t *testing.T) {
	g := mustGrid(t, 4, 4)
	g.Init(true)

	p := ising.Params{N: 1, Z: 1, J: 1, T: 0.1, Kb: 1}
	model := ising.New(p, 42)
	s := NewMetropolis(model)
	s.Optimize(g, 100)

	// every flip from the ordered state raises the energy; at kbT=0.1 the
	// acceptance probability is astronomically small
	if got := ising.AverageSpin(g); got < 0.9 {
		t.Errorf("expected near-ordered state, got averageSpin %f", got)
	}
}

func TestMetropolis_SetSeedForwardsToModel(t *testing.T) {
	model := ising.New(ising.DefaultParams(), 1)
	s := NewMetropolis(model)

	run := func() []bool {
		g := mustGrid(t, 6, 6)
		g.Init(true)
		s.SetSeed(42)
		s.Optimize(g, 200)
		return g.Flatten()
	}

	first := run()
	second := run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("site %d differs after sampler reseed", i)
		}
	}
}
