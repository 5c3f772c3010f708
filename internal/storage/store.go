package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/sweep"
)

// Store persists sweep runs under a base directory, one subdirectory per
// run holding metadata.json and points.csv. The CSV rows are the output
// contract: "reducedTemperature,averageSpin" per sampled point, newline
// terminated, no header; fixed-seed runs carry the all-down start as a
// third column.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string       `json:"id"`
	Sampler    string       `json:"sampler"`
	Topology   string       `json:"topology"`
	Rows       int          `json:"rows"`
	Cols       int          `json:"cols"`
	Steps      int          `json:"steps"`
	MaxTc      float64      `json:"max_tc"`
	TStep      float64      `json:"t_step"`
	Seed       int64        `json:"seed"`
	FixedSeed  bool         `json:"fixed_seed"`
	Params     ising.Params `json:"params"`
	Points     int          `json:"points"`
	Timestamp  time.Time    `json:"timestamp"`
}

// Save writes one completed sweep and returns its run id.
func (s *Store) Save(cfg sweep.Config, result *sweep.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", cfg.Sampler, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Sampler:   cfg.Sampler,
		Topology:  cfg.Topology,
		Rows:      cfg.Rows,
		Cols:      cfg.Cols,
		Steps:     cfg.Steps,
		MaxTc:     cfg.MaxTc,
		TStep:     cfg.TStep,
		Seed:      cfg.Seed,
		FixedSeed: cfg.FixedSeed,
		Params:    cfg.Params,
		Points:    len(result.Points),
		Timestamp: time.Now(),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "points.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	for _, p := range result.Points {
		row := []string{
			strconv.FormatFloat(p.ReducedT, 'f', 6, 64),
			strconv.FormatFloat(p.AverageSpin, 'f', 6, 64),
		}
		if result.BothStarts {
			row = append(row, strconv.FormatFloat(p.AverageSpinDown, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// Load reads one run's metadata.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadPoints reads one run's magnetization curve back from points.csv.
func (s *Store) LoadPoints(runID string) ([]sweep.Point, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "points.csv"))
	if err != nil {
		return nil, fmt.Errorf("load points for %s: %w", runID, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	points := make([]sweep.Point, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, err
		}
		m, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, err
		}
		p := sweep.Point{ReducedT: t, AverageSpin: m}
		if len(row) > 2 {
			if down, err := strconv.ParseFloat(row[2], 64); err == nil {
				p.AverageSpinDown = down
			}
		}
		points = append(points, p)
	}
	return points, nil
}

// List scans the base directory and returns every run's metadata, newest
// first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}
