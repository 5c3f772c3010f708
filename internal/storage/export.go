package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/spinlab/internal/sweep"
)

type ExportData struct {
	ID        string      `json:"id"`
	Sampler   string      `json:"sampler"`
	Topology  string      `json:"topology"`
	Rows      int         `json:"rows"`
	Cols      int         `json:"cols"`
	Steps     int         `json:"steps"`
	Seed      int64       `json:"seed"`
	FixedSeed bool        `json:"fixed_seed"`
	Points    []PointData `json:"points"`
}

type PointData struct {
	ReducedT        float64  `json:"t"`
	AverageSpin     float64  `json:"m"`
	AverageSpinDown *float64 `json:"m_down,omitempty"`
}

func exportData(meta *RunMetadata, points []sweep.Point) ExportData {
	data := ExportData{
		ID:        meta.ID,
		Sampler:   meta.Sampler,
		Topology:  meta.Topology,
		Rows:      meta.Rows,
		Cols:      meta.Cols,
		Steps:     meta.Steps,
		Seed:      meta.Seed,
		FixedSeed: meta.FixedSeed,
		Points:    make([]PointData, len(points)),
	}

	for i, p := range points {
		data.Points[i] = PointData{ReducedT: p.ReducedT, AverageSpin: p.AverageSpin}
		if meta.FixedSeed {
			down := p.AverageSpinDown
			data.Points[i].AverageSpinDown = &down
		}
	}
	return data
}

// ExportJSON writes one run as indented JSON.
func ExportJSON(w io.Writer, meta *RunMetadata, points []sweep.Point) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData(meta, points))
}

// ExportJSONFile writes one run as indented JSON to path.
func ExportJSONFile(path string, meta *RunMetadata, points []sweep.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ExportJSON(f, meta, points)
}
