package mc

import (
	"fmt"
	"strings"

	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/lattice"
)

// Topology selects the geometric adjacency pattern used by the heat-bath
// neighbor sum.
type Topology int

const (
	Square Topology = iota
	Triangle
	Rhombus
	Hexagonal
)

var topologyNames = map[Topology]string{
	Square:    "square",
	Triangle:  "triangle",
	Rhombus:   "rhombus",
	Hexagonal: "hexagonal",
}

func (t Topology) String() string {
	if name, ok := topologyNames[t]; ok {
		return name
	}
	return fmt.Sprintf("topology(%d)", int(t))
}

// ParseTopology maps a name to its Topology tag.
func ParseTopology(name string) (Topology, error) {
	for t, n := range topologyNames {
		if n == strings.ToLower(name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown topology: %s", name)
}

// Topologies lists the supported topology names.
func Topologies() []string {
	return []string{"square", "triangle", "rhombus", "hexagonal"}
}

// NeighborFunc sums the spins of the sites adjacent to (row, col) under one
// topology.
type NeighborFunc func(g *lattice.Grid[bool], row, col int) float64

// neighborSums is the strategy table mapping each topology tag to its
// neighbor-sum function.
var neighborSums = map[Topology]NeighborFunc{
	Square:    squareSpin,
	Triangle:  triangleSpin,
	Rhombus:   rhombusSpin,
	Hexagonal: hexagonalSpin,
}

// The wraparound is an explicit fold over the mirrored-edge storage, not an
// index modulo: the previous neighbor of row/col 0 is row/col size−2 (the
// last row/col is a duplicate of the first), and the next neighbor of the
// last row/col is row/col 1.
func foldPrev(i, size int) int {
	if i == 0 {
		return size - 2
	}
	return i - 1
}

func foldNext(i, size int) int {
	if i == size-1 {
		return 1
	}
	return i + 1
}

// degenerateSpin handles lattices where an axis has 2 or fewer sites: that
// axis carries no independent neighbors and is skipped entirely.
func degenerateSpin(g *lattice.Grid[bool], row, col int) float64 {
	spin := 0.0
	if g.Rows() > 2 {
		spin += ising.Spin(g.At(foldPrev(row, g.Rows()), col)) +
			ising.Spin(g.At(foldNext(row, g.Rows()), col))
	}
	if g.Cols() > 2 {
		spin += ising.Spin(g.At(row, foldPrev(col, g.Cols()))) +
			ising.Spin(g.At(row, foldNext(col, g.Cols())))
	}
	return spin
}

// squareSpin sums the 4 axis-aligned neighbors. With a degenerate axis the
// general form already reduces to the per-axis sum.
func squareSpin(g *lattice.Grid[bool], row, col int) float64 {
	return degenerateSpin(g, row, col)
}

// triangleSpin sums 6 neighbors whose set alternates with row parity.
func triangleSpin(g *lattice.Grid[bool], row, col int) float64 {
	if g.Rows() <= 2 || g.Cols() <= 2 {
		return degenerateSpin(g, row, col)
	}

	up := foldPrev(row, g.Rows())
	down := foldNext(row, g.Rows())
	left := foldPrev(col, g.Cols())
	right := foldNext(col, g.Cols())

	if row%2 == 0 {
		return ising.Spin(g.At(up, col)) +
			ising.Spin(g.At(up, right)) +
			ising.Spin(g.At(row, left)) +
			ising.Spin(g.At(row, right)) +
			ising.Spin(g.At(down, col)) +
			ising.Spin(g.At(down, right))
	}
	return ising.Spin(g.At(up, left)) +
		ising.Spin(g.At(up, col)) +
		ising.Spin(g.At(row, left)) +
		ising.Spin(g.At(row, right)) +
		ising.Spin(g.At(down, left)) +
		ising.Spin(g.At(down, col))
}

// rhombusSpin sums 4 diagonal neighbors alternating with row parity.
func rhombusSpin(g *lattice.Grid[bool], row, col int) float64 {
	if g.Rows() <= 2 || g.Cols() <= 2 {
		return degenerateSpin(g, row, col)
	}

	up := foldPrev(row, g.Rows())
	down := foldNext(row, g.Rows())
	left := foldPrev(col, g.Cols())
	right := foldNext(col, g.Cols())

	if row%2 == 0 {
		return ising.Spin(g.At(up, col)) +
			ising.Spin(g.At(up, right)) +
			ising.Spin(g.At(down, col)) +
			ising.Spin(g.At(down, right))
	}
	return ising.Spin(g.At(up, left)) +
		ising.Spin(g.At(up, col)) +
		ising.Spin(g.At(down, left)) +
		ising.Spin(g.At(down, col))
}

// hexagonalSpin sums 3 neighbors chosen from four triples cycling with
// row mod 4.
func hexagonalSpin(g *lattice.Grid[bool], row, col int) float64 {
	if g.Rows() <= 2 || g.Cols() <= 2 {
		return degenerateSpin(g, row, col)
	}

	up := foldPrev(row, g.Rows())
	down := foldNext(row, g.Rows())
	left := foldPrev(col, g.Cols())
	right := foldNext(col, g.Cols())

	switch row % 4 {
	case 0:
		return ising.Spin(g.At(up, col)) +
			ising.Spin(g.At(down, col)) +
			ising.Spin(g.At(down, right))
	case 1:
		return ising.Spin(g.At(up, right)) +
			ising.Spin(g.At(up, col)) +
			ising.Spin(g.At(down, col))
	case 2:
		return ising.Spin(g.At(up, col)) +
			ising.Spin(g.At(down, left)) +
			ising.Spin(g.At(down, col))
	default:
		return ising.Spin(g.At(up, col)) +
			ising.Spin(g.At(up, right)) +
			ising.Spin(g.At(down, col))
	}
}
