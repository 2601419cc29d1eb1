package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Kind       string             `json:"kind"`
	Integrator string             `json:"integrator"`
	Columns    []string           `json:"columns"`
	Ticks      int                `json:"ticks"`
	Completed  bool               `json:"completed"`
	Times      []float64          `json:"times"`
	Values     [][]float64        `json:"values"`
	Velocities [][]float64        `json:"velocities"`
	Phases     []string           `json:"phases"`
	Metrics    map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run and its trace as one indented JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, trace *Trace) error {
	data := ExportData{
		ID:         meta.ID,
		Name:       meta.Name,
		Kind:       meta.Kind,
		Integrator: meta.Integrator,
		Columns:    meta.Columns,
		Ticks:      meta.Ticks,
		Completed:  meta.Completed,
		Times:      trace.Times,
		Values:     trace.Values,
		Velocities: trace.Velocities,
		Phases:     trace.Phases,
		Metrics:    meta.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
