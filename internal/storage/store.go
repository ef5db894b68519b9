package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/stickshift/internal/sim"
	"github.com/san-kum/stickshift/internal/vehicle"
)

var ErrNotFound = errors.New("storage: run not found")

const (
	metaFile      = "metadata.json"
	telemetryFile = "telemetry.csv"
)

var header = []string{
	"time", "rpm", "speed_kmh", "gear", "gas", "brake", "clutch", "steering",
	"x", "z", "heading", "tire_slip", "engine_on", "stalled", "distance",
}

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
	ID        string             `json:"id"`
	Source    string             `json:"source"` // scenario name or "drive"
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Samples   int                `json:"samples"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run under a fresh id and returns it. meta.ID, Timestamp and
// Samples are filled in here.
func (s *Store) Save(meta RunMetadata, samples []sim.Sample) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	meta.Timestamp = time.Now()
	meta.Samples = len(samples)
	runID, runDir, err := s.allocate(meta.Source, meta.Timestamp)
	if err != nil {
		return "", err
	}
	meta.ID = runID

	if err := writeJSON(filepath.Join(runDir, metaFile), meta); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, telemetryFile))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := WriteCSV(f, samples); err != nil {
		return "", err
	}
	return runID, f.Close()
}

func (s *Store) allocate(source string, ts time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%d", source, ts.Unix())
	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s-%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func WriteCSV(w io.Writer, samples []sim.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, smp := range samples {
		st := smp.State
		row := []string{
			ff(smp.Time),
			ff(st.RPM),
			ff(st.SpeedKmh),
			st.Gear.String(),
			ff(st.GasPedal),
			ff(st.BrakePedal),
			ff(st.ClutchPedal),
			ff(st.SteeringInput),
			ff(st.X),
			ff(st.Z),
			ff(st.Heading),
			ff(st.TireSlip),
			strconv.FormatBool(st.EngineOn),
			strconv.FormatBool(st.Stalled),
			ff(st.DistanceTraveled),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// List returns stored runs, newest first. Directories without readable
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metaFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, telemetryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()

	samples, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return samples, nil
}

func ReadCSV(r io.Reader) ([]sim.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("telemetry has no header")
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		smp, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		samples = append(samples, smp)
	}
	return samples, nil
}

func parseRow(rec []string) (sim.Sample, error) {
	var floats [12]float64
	cols := []int{0, 1, 2, 4, 5, 6, 7, 8, 9, 10, 11, 14}
	for i, c := range cols {
		v, err := strconv.ParseFloat(rec[c], 64)
		if err != nil {
			return sim.Sample{}, fmt.Errorf("%s: %w", header[c], err)
		}
		floats[i] = v
	}
	gear, err := vehicle.ParseGear(rec[3])
	if err != nil {
		return sim.Sample{}, err
	}
	on, err := strconv.ParseBool(rec[12])
	if err != nil {
		return sim.Sample{}, err
	}
	stalled, err := strconv.ParseBool(rec[13])
	if err != nil {
		return sim.Sample{}, err
	}

	st := vehicle.State{
		EngineOn:         on,
		Stalled:          stalled,
		RPM:              floats[1],
		SpeedKmh:         floats[2],
		Gear:             gear,
		GasPedal:         floats[3],
		BrakePedal:       floats[4],
		ClutchPedal:      floats[5],
		SteeringInput:    floats[6],
		X:                floats[7],
		Z:                floats[8],
		Heading:          floats[9],
		TireSlip:         floats[10],
		DistanceTraveled: floats[11],
	}
	return sim.Sample{Time: floats[0], State: st, Input: vehicle.InputOf(st)}, nil
}
