package collision

import (
	"errors"
	"fmt"
)

var (
	ErrNonPositiveMass = errors.New("mass must be positive")
	ErrNegativeDt      = errors.New("dt must be non-negative")
)

// Simulation holds the live particle list and the snapshot Reset
// restores. The zero value is an empty, usable simulation.
type Simulation struct {
	particles []Particle
	initial   []Particle
	collided  bool
	lost      float64
}

func New() *Simulation {
	return &Simulation{}
}

// AddParticle appends p to the live particle list. It does not touch
// the initial snapshot, so a later Reset discards p.
func (s *Simulation) AddParticle(p Particle) error {
	if p.Mass <= 0 {
		return fmt.Errorf("add particle: %w, got %g", ErrNonPositiveMass, p.Mass)
	}
	s.particles = append(s.particles, p)
	return nil
}

// SetInitial replaces both the live particles and the reset snapshot
// with a copy of list. Callers must order particles left to right:
// index 0 is the left particle, index 1 the right one.
func (s *Simulation) SetInitial(list []Particle) error {
	for i, p := range list {
		if p.Mass <= 0 {
			return fmt.Errorf("particle %d: %w, got %g", i, ErrNonPositiveMass, p.Mass)
		}
	}
	s.initial = make([]Particle, len(list))
	copy(s.initial, list)
	s.particles = make([]Particle, len(list))
	copy(s.particles, list)
	s.collided = false
	s.lost = 0
	return nil
}

// Reset restores the particles captured by the last SetInitial and
// clears the collision flag. Calling it repeatedly is a no-op.
func (s *Simulation) Reset() {
	s.particles = make([]Particle, len(s.initial))
	copy(s.particles, s.initial)
	s.collided = false
	s.lost = 0
}

// Update advances the simulation by dt seconds: every particle drifts
// by velocity*dt, then the particles at indices 0 and 1 merge if the
// left one has reached or passed the right one. The merge fires at
// most once per Reset cycle; afterwards the single combined particle
// keeps drifting. Particles beyond index 1, if any, are discarded by
// the merge.
func (s *Simulation) Update(dt float64) error {
	if dt < 0 {
		return fmt.Errorf("update: %w, got %g", ErrNegativeDt, dt)
	}
	for i := range s.particles {
		s.particles[i].Position += s.particles[i].Velocity * dt
	}
	if s.collided || len(s.particles) < 2 {
		return nil
	}
	left, right := s.particles[0], s.particles[1]
	if left.Position < right.Position {
		return nil
	}
	s.merge(left, right)
	return nil
}

func (s *Simulation) merge(a, b Particle) {
	mass := a.Mass + b.Mass
	combined := Particle{
		Mass:     mass,
		Velocity: (a.Momentum() + b.Momentum()) / mass,
		Position: 0.5 * (a.Position + b.Position),
	}
	s.lost = a.KineticEnergy() + b.KineticEnergy() - combined.KineticEnergy()
	s.particles = []Particle{combined}
	s.collided = true
}

// Particles returns a copy of the live particle list. Mutating the
// returned slice does not affect the simulation.
func (s *Simulation) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

// Count reports the number of live particles.
func (s *Simulation) Count() int {
	return len(s.particles)
}

// Collided reports whether the merge has occurred since the last
// Reset or SetInitial.
func (s *Simulation) Collided() bool {
	return s.collided
}

// Momentum returns the total momentum of the live particles. It is
// conserved across the merge.
func (s *Simulation) Momentum() float64 {
	total := 0.0
	for _, p := range s.particles {
		total += p.Momentum()
	}
	return total
}

// KineticEnergy returns the total kinetic energy of the live
// particles.
func (s *Simulation) KineticEnergy() float64 {
	total := 0.0
	for _, p := range s.particles {
		total += p.KineticEnergy()
	}
	return total
}

// EnergyLost returns the kinetic energy dissipated by the merge, or 0
// if no collision has happened yet.
func (s *Simulation) EnergyLost() float64 {
	return s.lost
}
