package lattice

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidDimension indicates a grid constructed with a non-positive size.
var ErrInvalidDimension = errors.New("lattice: invalid dimension")

// Grid is a fixed-size 2D container with row-major storage. Each grid owns
// its own random stream, so two grids never perturb each other's sequences.
type Grid[T any] struct {
	rows  int
	cols  int
	cells []T
	rng   *rand.Rand
}

// New constructs a rows×cols grid with zero-valued cells and a stream seeded
// from seed. Construction fails when either dimension is not positive.
func New[T any](rows, cols int, seed int64) (*Grid[T], error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, rows, cols)
	}
	return &Grid[T]{
		rows:  rows,
		cols:  cols,
		cells: make([]T, rows*cols),
		rng:   rand.New(rand.NewSource(seed)),
	}, nil
}

func (g *Grid[T]) Rows() int { return g.rows }
func (g *Grid[T]) Cols() int { return g.cols }

// At returns the value at (row, col).
func (g *Grid[T]) At(row, col int) T {
	return g.cells[row*g.cols+col]
}

// Set writes a single cell.
func (g *Grid[T]) Set(row, col int, v T) {
	g.cells[row*g.cols+col] = v
}

// Init sets every cell to v.
func (g *Grid[T]) Init(v T) {
	for i := range g.cells {
		g.cells[i] = v
	}
}

// InitRand fills every cell with an independent draw from sample, consuming
// the grid's own stream.
func (g *Grid[T]) InitRand(sample func(*rand.Rand) T) {
	for i := range g.cells {
		g.cells[i] = sample(g.rng)
	}
}

// SetSeed replaces the grid's random stream. Subsequent InitRand output is
// fully determined by the new seed.
func (g *Grid[T]) SetSeed(seed int64) {
	g.rng = rand.New(rand.NewSource(seed))
}

// Clone returns a deep copy sharing nothing with the receiver. Cloning does
// not consume the parent's stream; the clone starts from a zero seed and
// should be reseeded before any random use.
func (g *Grid[T]) Clone() *Grid[T] {
	c := &Grid[T]{
		rows:  g.rows,
		cols:  g.cols,
		cells: make([]T, len(g.cells)),
		rng:   rand.New(rand.NewSource(0)),
	}
	copy(c.cells, g.cells)
	return c
}

// CopyFrom overwrites the receiver's cells with those of src. Dimensions must
// match; the receiver keeps its own stream.
func (g *Grid[T]) CopyFrom(src *Grid[T]) {
	copy(g.cells, src.cells)
}

// Flatten returns a row-major copy of the grid contents. This is the only
// hand-off the lattice exposes to outside consumers.
func (g *Grid[T]) Flatten() []T {
	out := make([]T, len(g.cells))
	copy(out, g.cells)
	return out
}

// SetMirrored writes (row, col) and its periodic-boundary mirror cells: an
// edge row duplicates into the opposite edge row, an edge column into the
// opposite edge column. A single logical write touches up to 4 physical
// cells. Interior writes touch only (row, col).
func SetMirrored[T any](g *Grid[T], row, col int, v T) {
	g.Set(row, col, v)

	if row == 0 {
		g.Set(g.rows-1, col, v)
	} else if row == g.rows-1 {
		g.Set(0, col, v)
	}
	if col == 0 {
		g.Set(row, g.cols-1, v)
	} else if col == g.cols-1 {
		g.Set(row, 0, v)
	}
	if (row == 0 || row == g.rows-1) && (col == 0 || col == g.cols-1) {
		g.Set(g.rows-1-row, g.cols-1-col, v)
	}
}

// UniformBool samples a fair coin flip.
func UniformBool() func(*rand.Rand) bool {
	return func(r *rand.Rand) bool { return r.Intn(2) == 0 }
}

// UniformFloat samples uniformly in [min, max).
func UniformFloat(min, max float64) func(*rand.Rand) float64 {
	return func(r *rand.Rand) float64 { return min + (max-min)*r.Float64() }
}
