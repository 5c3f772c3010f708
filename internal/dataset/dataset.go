// Package dataset builds labelled spin-configuration datasets for phase
// classification. Configurations are relaxed with the heat-bath sampler at
// temperatures drawn uniformly below and above the exact transition
// temperature, then flattened to feature vectors with a one-hot phase label.
package dataset

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/lattice"
	"github.com/san-kum/spinlab/internal/mc"
)

// One-hot phase labels. The ordered phase sits below the transition
// temperature.
var (
	LabelOrdered    = [2]float64{0, 1}
	LabelDisordered = [2]float64{1, 0}
)

// Sample is one relaxed spin configuration with its phase label.
type Sample struct {
	Features []float64
	Label    [2]float64
	Temp     float64
}

// Set holds the train/test split of generated samples.
type Set struct {
	Train []Sample
	Test  []Sample
}

// Config drives dataset generation.
type Config struct {
	Rows      int
	Cols      int
	Topology  mc.Topology
	HalfCount int // samples per phase per split
	Steps     int // heat-bath relaxation steps per sample
	Seed      int64
	Params    ising.Params
}

func (c Config) withDefaults() Config {
	if c.Rows <= 0 {
		c.Rows = 20
	}
	if c.Cols <= 0 {
		c.Cols = 20
	}
	if c.HalfCount <= 0 {
		c.HalfCount = 10
	}
	if c.Steps <= 0 {
		c.Steps = 1000000
	}
	if c.Params == (ising.Params{}) {
		c.Params = ising.DefaultParams()
	}
	return c
}

// Generate relaxes 4*HalfCount configurations and splits them evenly into
// train and test sets. Each phase contributes 2*HalfCount samples: the first
// half to training, the rest to testing.
func Generate(ctx context.Context, cfg Config) (*Set, error) {
	cfg = cfg.withDefaults()

	state, err := lattice.New[bool](cfg.Rows, cfg.Cols, cfg.Seed)
	if err != nil {
		return nil, err
	}
	model := ising.New(cfg.Params, cfg.Seed+1)
	sampler := mc.NewHeatBath(model, cfg.Topology, cfg.Seed+2)
	tempRNG := rand.New(rand.NewSource(cfg.Seed + 3))

	tc := model.TransitionT()
	set := &Set{
		Train: make([]Sample, 0, 2*cfg.HalfCount),
		Test:  make([]Sample, 0, 2*cfg.HalfCount),
	}

	relax := func(temp float64, label [2]float64, train bool) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		model.Params.T = temp
		state.InitRand(lattice.UniformBool())
		sampler.Optimize(state, cfg.Steps)

		sample := Sample{Features: ising.FlattenSpins(state), Label: label, Temp: temp}
		if train {
			set.Train = append(set.Train, sample)
		} else {
			set.Test = append(set.Test, sample)
		}
		return nil
	}

	// ordered phase: T uniform in [0, tc)
	for i := 0; i < 2*cfg.HalfCount; i++ {
		if err := relax(tempRNG.Float64()*tc, LabelOrdered, i < cfg.HalfCount); err != nil {
			return nil, err
		}
	}
	// disordered phase: T uniform in [tc, 2*tc)
	for i := 0; i < 2*cfg.HalfCount; i++ {
		if err := relax(tc+tempRNG.Float64()*tc, LabelDisordered, i < cfg.HalfCount); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Save writes the split as four tab-separated text files in dir:
// train_x.txt, train_t.txt, test_x.txt, test_t.txt. Feature files carry one
// configuration per line, label files the matching one-hot rows.
func (s *Set) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating dataset dir: %w", err)
	}
	if err := writeFeatures(filepath.Join(dir, "train_x.txt"), s.Train); err != nil {
		return err
	}
	if err := writeLabels(filepath.Join(dir, "train_t.txt"), s.Train); err != nil {
		return err
	}
	if err := writeFeatures(filepath.Join(dir, "test_x.txt"), s.Test); err != nil {
		return err
	}
	return writeLabels(filepath.Join(dir, "test_t.txt"), s.Test)
}

func writeFeatures(path string, samples []Sample) error {
	var sb strings.Builder
	for _, s := range samples {
		for j, v := range s.Features {
			if j > 0 {
				sb.WriteByte('\t')
			}
			sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		}
		sb.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func writeLabels(path string, samples []Sample) error {
	var sb strings.Builder
	for _, s := range samples {
		sb.WriteString(strconv.FormatFloat(s.Label[0], 'f', -1, 64))
		sb.WriteByte('\t')
		sb.WriteString(strconv.FormatFloat(s.Label[1], 'f', -1, 64))
		sb.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}
