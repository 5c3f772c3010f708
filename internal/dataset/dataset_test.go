package dataset

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/mc"
)

func smallConfig() Config {
	return Config{
		Rows: 4, Cols: 4,
		Topology:  mc.Square,
		HalfCount: 2,
		Steps:     200,
		Seed:      17,
	}
}

func TestGenerate_SplitAndLabels(t *testing.T) {
	set, err := Generate(context.Background(), smallConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(set.Train) != 4 || len(set.Test) != 4 {
		t.Fatalf("expected 4 train and 4 test samples, got %d/%d", len(set.Train), len(set.Test))
	}

	model := ising.New(ising.DefaultParams(), 0)
	tc := model.TransitionT()

	for _, split := range [][]Sample{set.Train, set.Test} {
		for i, s := range split {
			if len(s.Features) != 16 {
				t.Fatalf("sample %d: expected 16 features, got %d", i, len(s.Features))
			}
			for _, v := range s.Features {
				if v != 1 && v != -1 {
					t.Fatalf("sample %d: feature %f is not a spin value", i, v)
				}
			}
			if i < 2 {
				if s.Label != LabelOrdered {
					t.Errorf("sample %d: expected ordered label, got %v", i, s.Label)
				}
				if s.Temp >= tc {
					t.Errorf("sample %d: ordered-phase temperature %f above transition %f", i, s.Temp, tc)
				}
			} else {
				if s.Label != LabelDisordered {
					t.Errorf("sample %d: expected disordered label, got %v", i, s.Label)
				}
				if s.Temp < tc || s.Temp >= 2*tc {
					t.Errorf("sample %d: disordered-phase temperature %f outside [tc, 2tc)", i, s.Temp)
				}
			}
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate(context.Background(), smallConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := Generate(context.Background(), smallConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed should reproduce the same dataset")
	}
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Generate(ctx, smallConfig()); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSave(t *testing.T) {
	set, err := Generate(context.Background(), smallConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "dataset")
	if err := set.Save(dir); err != nil {
		t.Fatalf("save: %v", err)
	}

	for _, name := range []string{"train_x.txt", "train_t.txt", "test_x.txt", "test_t.txt"} {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
		if len(lines) != 4 {
			t.Errorf("%s: expected 4 rows, got %d", name, len(lines))
		}
	}

	raw, _ := os.ReadFile(filepath.Join(dir, "train_t.txt"))
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if lines[0] != "0\t1" {
		t.Errorf("expected ordered one-hot row, got %q", lines[0])
	}
	if lines[2] != "1\t0" {
		t.Errorf("expected disordered one-hot row, got %q", lines[2])
	}
}
