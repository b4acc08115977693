package sim

import "github.com/san-kum/impact/internal/collision"

// Frame is one recorded tick of a run.
type Frame struct {
	Time      float64
	Particles []collision.Particle
	Momentum  float64
	Energy    float64
}

type Metric interface {
	Name() string
	Observe(ps []collision.Particle, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(ps []collision.Particle, t float64)
}

type Config struct {
	Dt       float64
	Duration float64
}

func DefaultConfig() Config {
	return Config{
		Dt:       0.01,
		Duration: 10.0,
	}
}

type Result struct {
	Frames  []Frame
	Times   []float64
	Metrics map[string]float64
	// CollisionTime is the simulated time of the tick where the merge
	// fired, or -1 if the particles never met.
	CollisionTime float64
	EnergyLost    float64
	StepsTaken    int
}
