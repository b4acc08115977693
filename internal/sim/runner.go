package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/impact/internal/collision"
)

// Runner drives a collision simulation at a fixed timestep, recording
// a frame per tick and fanning state out to metrics and observers.
type Runner struct {
	sim       *collision.Simulation
	metrics   []Metric
	observers []Observer
}

func New(s *collision.Simulation) *Runner {
	return &Runner{
		sim:       s,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Simulation returns the underlying simulation for seeding and resets.
func (r *Runner) Simulation() *collision.Simulation { return r.sim }

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := r.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Frames:        make([]Frame, 0, steps+1),
		Times:         make([]float64, 0, steps+1),
		Metrics:       make(map[string]float64),
		CollisionTime: -1,
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	t := 0.0
	result.record(r.sim, t)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		ps := r.sim.Particles()
		for _, m := range r.metrics {
			m.Observe(ps, t)
		}
		for _, obs := range r.observers {
			obs.OnStep(ps, t)
		}

		wasCollided := r.sim.Collided()
		if err := r.sim.Update(cfg.Dt); err != nil {
			return result, fmt.Errorf("step %d (t=%.4f): %w", i, t, err)
		}
		t += cfg.Dt
		result.StepsTaken++

		if !wasCollided && r.sim.Collided() {
			result.CollisionTime = t
			result.EnergyLost = r.sim.EnergyLost()
		}

		result.record(r.sim, t)
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback steps the simulation until the callback returns
// false or the duration elapses. No frames are recorded.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, callback func(ps []collision.Particle, t float64) bool) error {
	if err := r.validateConfig(cfg); err != nil {
		return err
	}

	t := 0.0
	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(r.sim.Particles(), t) {
			return nil
		}

		if err := r.sim.Update(cfg.Dt); err != nil {
			return fmt.Errorf("t=%.4f: %w", t, err)
		}
		t += cfg.Dt
	}

	return nil
}

func (r *Runner) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if r.sim.Count() == 0 {
		return fmt.Errorf("simulation has no particles")
	}
	return nil
}

func (res *Result) record(s *collision.Simulation, t float64) {
	res.Frames = append(res.Frames, Frame{
		Time:      t,
		Particles: s.Particles(),
		Momentum:  s.Momentum(),
		Energy:    s.KineticEnergy(),
	})
	res.Times = append(res.Times, t)
}
