package mc

import (
	"math"
	"math/rand"

	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/lattice"
)

// HeatBath samples each chosen site directly from its local conditional
// distribution given the fixed neighbors; there is no accept/reject step.
// The neighbor set comes from the topology selected at construction.
type HeatBath struct {
	model    *ising.Model
	topology Topology
	neighbor NeighborFunc
	rng      *rand.Rand
}

func NewHeatBath(model *ising.Model, topology Topology, seed int64) *HeatBath {
	return &HeatBath{
		model:    model,
		topology: topology,
		neighbor: neighborSums[topology],
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Topology reports the adjacency pattern this sampler was built with.
func (h *HeatBath) Topology() Topology { return h.topology }

// SetSeed replaces the sampler's random stream.
func (h *HeatBath) SetSeed(seed int64) {
	h.rng = rand.New(rand.NewSource(seed))
}

// Acceptance returns the probability 0.5·(tanh(J/kbT·spinSum)+1) of setting
// the chosen site "up" given its neighbor spin sum. The value always lies in
// [0, 1]; at T=0 with a zero spin sum the tanh argument is NaN and the
// comparison in Update fails, leaving the site "down", matching the
// reference behavior.
func (h *HeatBath) Acceptance(spinSum float64) float64 {
	return 0.5 * (math.Tanh(h.model.Params.J/h.model.KbT()*spinSum) + 1.0)
}

// Update performs one Gibbs transition: pick a uniformly random site, sum
// its neighbor spins under the topology, and set the site (and its edge
// mirrors) "up" with the conditional probability.
func (h *HeatBath) Update(g *lattice.Grid[bool]) {
	row := h.rng.Intn(g.Rows())
	col := h.rng.Intn(g.Cols())

	spinSum := h.neighbor(g, row, col)

	up := h.rng.Float64() < h.Acceptance(spinSum)
	lattice.SetMirrored(g, row, col, up)
}

// Optimize invokes Update exactly steps times.
func (h *HeatBath) Optimize(g *lattice.Grid[bool], steps int) {
	for i := 0; i < steps; i++ {
		h.Update(g)
	}
}
