package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/impact/internal/sim"
)

type ExportData struct {
	ID            string             `json:"id"`
	Scenario      string             `json:"scenario"`
	Dt            float64            `json:"dt"`
	Duration      float64            `json:"duration"`
	Steps         int                `json:"steps"`
	CollisionTime float64            `json:"collision_time"`
	EnergyLost    float64            `json:"energy_lost"`
	Frames        []sim.Frame        `json:"frames"`
	Metrics       map[string]float64 `json:"metrics"`
}

func ExportJSON(path string, meta *RunMetadata, frames []sim.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return exportJSON(file, meta, frames)
}

func ExportJSONStdout(meta *RunMetadata, frames []sim.Frame) error {
	return exportJSON(os.Stdout, meta, frames)
}

func exportJSON(w io.Writer, meta *RunMetadata, frames []sim.Frame) error {
	data := ExportData{
		ID:            meta.ID,
		Scenario:      meta.Scenario,
		Dt:            meta.Dt,
		Duration:      meta.Duration,
		Steps:         len(frames),
		CollisionTime: meta.CollisionTime,
		EnergyLost:    meta.EnergyLost,
		Frames:        frames,
		Metrics:       meta.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
