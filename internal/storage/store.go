package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/impact/internal/collision"
	"github.com/san-kum/impact/internal/sim"
)

// Store keeps one directory per recorded run: metadata.json with the
// run parameters and metrics, frames.csv with the per-tick particle
// state.
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
	ID            string             `json:"id"`
	Scenario      string             `json:"scenario"`
	Timestamp     time.Time          `json:"timestamp"`
	Dt            float64            `json:"dt"`
	Duration      float64            `json:"duration"`
	CollisionTime float64            `json:"collision_time"`
	EnergyLost    float64            `json:"energy_lost"`
	Metrics       map[string]float64 `json:"metrics"`
}

func (s *Store) Save(scenario string, cfg sim.Config, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Scenario:      scenario,
		Timestamp:     time.Now(),
		Dt:            cfg.Dt,
		Duration:      cfg.Duration,
		CollisionTime: result.CollisionTime,
		EnergyLost:    result.EnergyLost,
		Metrics:       result.Metrics,
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

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.Frames) == 0 {
		return runID, nil
	}

	// Column count is fixed by the widest frame; post-merge rows are
	// zero padded.
	maxParticles := 0
	for _, f := range result.Frames {
		if len(f.Particles) > maxParticles {
			maxParticles = len(f.Particles)
		}
	}

	header := []string{"time", "count"}
	for i := 0; i < maxParticles; i++ {
		header = append(header,
			fmt.Sprintf("mass%d", i),
			fmt.Sprintf("velocity%d", i),
			fmt.Sprintf("position%d", i),
		)
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, f := range result.Frames {
		row := []string{
			strconv.FormatFloat(f.Time, 'f', 6, 64),
			strconv.Itoa(len(f.Particles)),
		}
		for i := 0; i < maxParticles; i++ {
			var p collision.Particle
			if i < len(f.Particles) {
				p = f.Particles[i]
			}
			row = append(row,
				strconv.FormatFloat(p.Mass, 'f', 6, 64),
				strconv.FormatFloat(p.Velocity, 'f', 6, 64),
				strconv.FormatFloat(p.Position, 'f', 6, 64),
			)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		count, err := strconv.Atoi(record[1])
		if err != nil || count < 0 {
			continue
		}
		if len(record) < 2+count*3 {
			continue
		}

		f := sim.Frame{Time: t, Particles: make([]collision.Particle, 0, count)}
		for i := 0; i < count; i++ {
			mass, err1 := strconv.ParseFloat(record[2+i*3], 64)
			vel, err2 := strconv.ParseFloat(record[3+i*3], 64)
			pos, err3 := strconv.ParseFloat(record[4+i*3], 64)
			if err1 != nil || err2 != nil || err3 != nil {
				continue
			}
			p := collision.Particle{Mass: mass, Velocity: vel, Position: pos}
			f.Particles = append(f.Particles, p)
			f.Momentum += p.Momentum()
			f.Energy += p.KineticEnergy()
		}
		frames = append(frames, f)
	}

	return frames, nil
}
