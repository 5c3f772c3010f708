package lattice

import (
	"testing"
)

func mustGrid(t *testing.T, rows, cols int) *Grid[bool] {
	t.Helper()
	g, err := New[bool](rows, cols, 1)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	return g
}

func TestNew_InvalidDimension(t *testing.T) {
	tests := []struct {
		name string
		rows int
		cols int
	}{
		{"zero rows", 0, 4},
		{"zero cols", 4, 0},
		{"both zero", 0, 0},
		{"negative rows", -1, 4},
		{"negative cols", 4, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New[bool](tt.rows, tt.cols, 1)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestInitAndAt(t *testing.T) {
	g := mustGrid(t, 3, 5)
	g.Init(true)

	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if !g.At(r, c) {
				t.Fatalf("site (%d,%d) not initialized", r, c)
			}
		}
	}

	g.Set(1, 2, false)
	if g.At(1, 2) {
		t.Error("indexed write did not take effect")
	}
	if !g.At(1, 1) || !g.At(1, 3) {
		t.Error("indexed write touched neighboring sites")
	}
}

func TestInitRand_Deterministic(t *testing.T) {
	g := mustGrid(t, 8, 8)

	g.SetSeed(42)
	g.InitRand(UniformBool())
	first := g.Flatten()

	g.SetSeed(42)
	g.InitRand(UniformBool())
	second := g.Flatten()

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("site %d differs after reseed", i)
		}
	}
}

func TestInitRand_FloatRange(t *testing.T) {
	g, err := New[float64](16, 16, 7)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}

	g.InitRand(UniformFloat(-2.0, 3.0))
	for _, v := range g.Flatten() {
		if v < -2.0 || v >= 3.0 {
			t.Fatalf("value %f outside [-2,3)", v)
		}
	}
}

func TestFlatten_RowMajor(t *testing.T) {
	g, err := New[float64](2, 3, 1)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			g.Set(r, c, float64(r*3+c))
		}
	}

	flat := g.Flatten()
	for i, v := range flat {
		if v != float64(i) {
			t.Errorf("index %d: expected %d, got %f", i, i, v)
		}
	}
}

func TestSetMirrored(t *testing.T) {
	tests := []struct {
		name    string
		row     int
		col     int
		touched [][2]int
	}{
		{"corner", 0, 0, [][2]int{{0, 0}, {3, 0}, {0, 3}, {3, 3}}},
		{"opposite corner", 3, 3, [][2]int{{3, 3}, {0, 3}, {3, 0}, {0, 0}}},
		{"top edge", 0, 2, [][2]int{{0, 2}, {3, 2}}},
		{"left edge", 2, 0, [][2]int{{2, 0}, {2, 3}}},
		{"interior", 1, 2, [][2]int{{1, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGrid(t, 4, 4)
			g.Init(false)
			SetMirrored(g, tt.row, tt.col, true)

			want := make(map[[2]int]bool, len(tt.touched))
			for _, rc := range tt.touched {
				want[rc] = true
			}

			for r := 0; r < 4; r++ {
				for c := 0; c < 4; c++ {
					if g.At(r, c) != want[[2]int{r, c}] {
						t.Errorf("site (%d,%d): expected %v, got %v",
							r, c, want[[2]int{r, c}], g.At(r, c))
					}
				}
			}
		})
	}
}

func TestClone_Independent(t *testing.T) {
	g := mustGrid(t, 4, 4)
	g.Init(true)

	c := g.Clone()
	c.Set(2, 2, false)

	if !g.At(2, 2) {
		t.Error("mutating the clone leaked into the parent")
	}

	g.Set(1, 1, false)
	if !c.At(1, 1) {
		t.Error("mutating the parent leaked into the clone")
	}
}

func TestCopyFrom(t *testing.T) {
	g := mustGrid(t, 4, 4)
	g.SetSeed(3)
	g.InitRand(UniformBool())

	dst := mustGrid(t, 4, 4)
	dst.CopyFrom(g)

	src := g.Flatten()
	for i, v := range dst.Flatten() {
		if v != src[i] {
			t.Fatalf("site %d differs after CopyFrom", i)
		}
	}
}
