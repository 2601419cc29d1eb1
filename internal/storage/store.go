package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/motion/internal/anim"
	"github.com/san-kum/motion/internal/sim"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes a saved run. Columns names the value components in
// the trace, in order.
type RunMetadata struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Kind          string             `json:"kind"`
	Timestamp     time.Time          `json:"timestamp"`
	Integrator    string             `json:"integrator"`
	TargetFPS     float64            `json:"target_fps"`
	FrameInterval float64            `json:"frame_interval_ms"`
	Segments      int                `json:"segments"`
	Ticks         int                `json:"ticks"`
	Completed     bool               `json:"completed"`
	Columns       []string           `json:"columns"`
	Metrics       map[string]float64 `json:"metrics"`
	Events        []string           `json:"events,omitempty"`
}

// Trace is the per-tick data of a saved run.
type Trace struct {
	Times      []float64
	Values     [][]float64
	Velocities [][]float64
	Phases     []string
}

// Save writes metadata.json and trace.csv under a new run directory and
// returns the run ID. ID, Timestamp, Ticks, Completed and Metrics are taken
// from the result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := s.now()
	runID, runDir, err := s.newRunDir(meta.Name, now)
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Ticks = result.Ticks
	meta.Completed = result.Completed
	meta.Metrics = result.Metrics
	meta.Events = nil
	for _, e := range result.Events {
		meta.Events = append(meta.Events, e.String())
	}
	if n := len(result.Final()); len(meta.Columns) != n {
		meta.Columns = defaultColumns(n)
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrace(filepath.Join(runDir, traceFile), meta.Columns, result); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) newRunDir(name string, now time.Time) (string, string, error) {
	if name == "" {
		name = "run"
	}
	base := fmt.Sprintf("%s_%d", name, now.Unix())
	runID := base
	for i := 2; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

func defaultColumns(n int) []string {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = fmt.Sprintf("v%d", i)
	}
	return cols
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTrace(path string, columns []string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"time", "phase"}
	header = append(header, columns...)
	for _, c := range columns {
		header = append(header, "d"+c)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.Times {
		row := []string{strconv.FormatFloat(result.Times[i], 'f', 6, 64), phaseAt(result.Phases, i)}
		for _, val := range result.Values[i] {
			row = append(row, strconv.FormatFloat(val, 'g', 10, 64))
		}
		for _, val := range result.Velocities[i] {
			row = append(row, strconv.FormatFloat(val, 'g', 10, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func phaseAt(phases []anim.Phase, i int) string {
	if i < len(phases) {
		return phases[i].String()
	}
	return ""
}

// List returns saved runs, oldest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTrace(runID string) (*Trace, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	trace := &Trace{}
	if len(records) < 2 {
		return trace, nil
	}
	n := (len(records[0]) - 2) / 2

	for _, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("run %s: time %q: %w", runID, record[0], err)
		}
		values, err := parseFloats(record[2 : 2+n])
		if err != nil {
			return nil, fmt.Errorf("run %s at t=%g: %w", runID, t, err)
		}
		velocities, err := parseFloats(record[2+n:])
		if err != nil {
			return nil, fmt.Errorf("run %s at t=%g: %w", runID, t, err)
		}
		trace.Times = append(trace.Times, t)
		trace.Phases = append(trace.Phases, record[1])
		trace.Values = append(trace.Values, values)
		trace.Velocities = append(trace.Velocities, velocities)
	}
	return trace, nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Column returns component i of every sample.
func (t *Trace) Column(i int) []float64 {
	out := make([]float64, 0, len(t.Values))
	for _, v := range t.Values {
		if i < len(v) {
			out = append(out, v[i])
		}
	}
	return out
}
