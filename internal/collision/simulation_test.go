package collision

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func headOn() []Particle {
	return []Particle{
		{Mass: 5, Velocity: 10, Position: 0},
		{Mass: 2, Velocity: 0, Position: 20},
	}
}

func runUntilCollision(t *testing.T, s *Simulation, dt float64, maxSteps int) int {
	t.Helper()
	for i := 0; i < maxSteps; i++ {
		if err := s.Update(dt); err != nil {
			t.Fatalf("update failed at step %d: %v", i, err)
		}
		if s.Collided() {
			return i + 1
		}
	}
	t.Fatal("no collision within step budget")
	return 0
}

func TestMomentumConservation(t *testing.T) {
	tests := []struct {
		name string
		a, b Particle
	}{
		{"head on", Particle{5, 10, 0}, Particle{2, 0, 20}},
		{"chase", Particle{1, 6, 0}, Particle{3, 2, 10}},
		{"opposing", Particle{2, 4, 0}, Particle{2, -4, 30}},
		{"heavy", Particle{50, 3, 0}, Particle{1, 0, 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			if err := s.SetInitial([]Particle{tt.a, tt.b}); err != nil {
				t.Fatalf("set initial: %v", err)
			}
			before := s.Momentum()
			runUntilCollision(t, s, 0.01, 100000)

			assert.InDelta(t, before, s.Momentum(), 1e-9, "momentum across merge")

			merged := s.Particles()[0]
			wantV := (tt.a.Momentum() + tt.b.Momentum()) / (tt.a.Mass + tt.b.Mass)
			assert.InDelta(t, wantV, merged.Velocity, 1e-9, "combined velocity")
			assert.InDelta(t, tt.a.Mass+tt.b.Mass, merged.Mass, 1e-12, "combined mass")
		})
	}
}

func TestConcreteScenario(t *testing.T) {
	s := New()
	if err := s.SetInitial(headOn()); err != nil {
		t.Fatalf("set initial: %v", err)
	}

	dt := 0.01
	steps := runUntilCollision(t, s, dt, 100000)

	// Closing speed 10 m/s over a 20 m gap: crossing at t = 2.0s,
	// detected within one tick (plus accumulated rounding).
	elapsed := float64(steps) * dt
	if elapsed < 2.0-1e-9 || elapsed > 2.0+2*dt {
		t.Errorf("collision at t=%.4f, want within one tick after 2.0", elapsed)
	}

	merged := s.Particles()[0]
	assert.Equal(t, 7.0, merged.Mass)
	assert.InDelta(t, 50.0/7.0, merged.Velocity, 1e-9)
	// Midpoint of the two positions at the crossing tick, so near 20
	// but overshot by at most half a tick of relative displacement.
	assert.InDelta(t, 20.0, merged.Position, 10*dt)
}

func TestSingleCollision(t *testing.T) {
	s := New()
	if err := s.SetInitial(headOn()); err != nil {
		t.Fatalf("set initial: %v", err)
	}
	runUntilCollision(t, s, 0.05, 10000)

	merged := s.Particles()[0]
	for i := 0; i < 500; i++ {
		if err := s.Update(0.05); err != nil {
			t.Fatalf("update after merge: %v", err)
		}
		if s.Count() != 1 {
			t.Fatalf("particle count %d after merge, want 1", s.Count())
		}
	}

	after := s.Particles()[0]
	assert.Equal(t, merged.Mass, after.Mass)
	assert.Equal(t, merged.Velocity, after.Velocity)
	assert.InDelta(t, merged.Position+merged.Velocity*0.05*500, after.Position, 1e-6)
}

func TestNoCollisionWhenSeparating(t *testing.T) {
	s := New()
	init := []Particle{
		{Mass: 1, Velocity: -2, Position: 0},
		{Mass: 1, Velocity: 3, Position: 10},
	}
	if err := s.SetInitial(init); err != nil {
		t.Fatalf("set initial: %v", err)
	}

	dt := 0.1
	for i := 1; i <= 1000; i++ {
		if err := s.Update(dt); err != nil {
			t.Fatalf("update: %v", err)
		}
		if s.Collided() {
			t.Fatalf("separating particles collided at step %d", i)
		}
		ps := s.Particles()
		elapsed := float64(i) * dt
		assert.InDelta(t, -2*elapsed, ps[0].Position, 1e-6)
		assert.InDelta(t, 10+3*elapsed, ps[1].Position, 1e-6)
		// Velocity never changes before a collision.
		assert.Equal(t, -2.0, ps[0].Velocity)
		assert.Equal(t, 3.0, ps[1].Velocity)
	}
}

func TestResetIdempotent(t *testing.T) {
	s := New()
	if err := s.SetInitial(headOn()); err != nil {
		t.Fatalf("set initial: %v", err)
	}
	runUntilCollision(t, s, 0.01, 100000)

	s.Reset()
	first := s.Particles()
	if s.Collided() {
		t.Error("collided flag survived reset")
	}

	s.Reset()
	s.Reset()
	assert.Equal(t, first, s.Particles())
	assert.Equal(t, headOn(), s.Particles())
	assert.Equal(t, 0.0, s.EnergyLost())
}

func TestResetRestartsCollisionCycle(t *testing.T) {
	s := New()
	if err := s.SetInitial(headOn()); err != nil {
		t.Fatalf("set initial: %v", err)
	}
	runUntilCollision(t, s, 0.01, 100000)
	s.Reset()
	runUntilCollision(t, s, 0.01, 100000)
	assert.Equal(t, 1, s.Count())
}

func TestZeroAndOneParticleSafety(t *testing.T) {
	empty := New()
	if err := empty.Update(0.1); err != nil {
		t.Fatalf("update on empty simulation: %v", err)
	}
	if empty.Count() != 0 {
		t.Errorf("empty simulation grew to %d particles", empty.Count())
	}

	single := New()
	if err := single.SetInitial([]Particle{{Mass: 1, Velocity: 2, Position: 0}}); err != nil {
		t.Fatalf("set initial: %v", err)
	}
	for i := 0; i < 100; i++ {
		if err := single.Update(0.1); err != nil {
			t.Fatalf("update on singleton: %v", err)
		}
	}
	if single.Collided() {
		t.Error("singleton reported a collision")
	}
	assert.InDelta(t, 20.0, single.Particles()[0].Position, 1e-9)
}

func TestZeroDtIsNoOp(t *testing.T) {
	s := New()
	if err := s.SetInitial(headOn()); err != nil {
		t.Fatalf("set initial: %v", err)
	}
	before := s.Particles()
	if err := s.Update(0); err != nil {
		t.Fatalf("update(0): %v", err)
	}
	assert.Equal(t, before, s.Particles())
}

func TestNegativeDtRejected(t *testing.T) {
	s := New()
	if err := s.SetInitial(headOn()); err != nil {
		t.Fatalf("set initial: %v", err)
	}
	before := s.Particles()
	err := s.Update(-0.1)
	if !errors.Is(err, ErrNegativeDt) {
		t.Fatalf("expected ErrNegativeDt, got %v", err)
	}
	assert.Equal(t, before, s.Particles(), "state changed by rejected update")
}

func TestMassValidation(t *testing.T) {
	tests := []struct {
		name string
		mass float64
	}{
		{"zero", 0},
		{"negative", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			err := s.SetInitial([]Particle{{Mass: tt.mass, Velocity: 1, Position: 0}})
			if !errors.Is(err, ErrNonPositiveMass) {
				t.Errorf("SetInitial: expected ErrNonPositiveMass, got %v", err)
			}
			err = s.AddParticle(Particle{Mass: tt.mass})
			if !errors.Is(err, ErrNonPositiveMass) {
				t.Errorf("AddParticle: expected ErrNonPositiveMass, got %v", err)
			}
		})
	}
}

func TestExtraParticlesDroppedOnMerge(t *testing.T) {
	s := New()
	init := []Particle{
		{Mass: 5, Velocity: 10, Position: 0},
		{Mass: 2, Velocity: 0, Position: 20},
		{Mass: 1, Velocity: 0, Position: 50},
	}
	if err := s.SetInitial(init); err != nil {
		t.Fatalf("set initial: %v", err)
	}
	runUntilCollision(t, s, 0.01, 100000)
	assert.Equal(t, 1, s.Count(), "extras beyond index 1 survive the merge")
	assert.Equal(t, 7.0, s.Particles()[0].Mass)
}

func TestParticlesReturnsCopy(t *testing.T) {
	s := New()
	if err := s.SetInitial(headOn()); err != nil {
		t.Fatalf("set initial: %v", err)
	}
	ps := s.Particles()
	ps[0].Position = 9999
	ps[0].Mass = 9999
	assert.Equal(t, headOn(), s.Particles())
}

func TestEnergyLost(t *testing.T) {
	s := New()
	if err := s.SetInitial(headOn()); err != nil {
		t.Fatalf("set initial: %v", err)
	}
	assert.Equal(t, 0.0, s.EnergyLost())

	before := s.KineticEnergy()
	runUntilCollision(t, s, 0.01, 100000)
	after := s.KineticEnergy()

	assert.InDelta(t, before-after, s.EnergyLost(), 1e-9)
	if s.EnergyLost() <= 0 {
		t.Errorf("inelastic merge must dissipate energy, lost = %g", s.EnergyLost())
	}
	// KE(5kg at 10) = 250, merged KE = 0.5*7*(50/7)^2 = 1250/7.
	assert.InDelta(t, 250.0-1250.0/7.0, s.EnergyLost(), 1e-9)
}

func TestAddParticleBypassesSnapshot(t *testing.T) {
	s := New()
	if err := s.SetInitial(headOn()); err != nil {
		t.Fatalf("set initial: %v", err)
	}
	if err := s.AddParticle(Particle{Mass: 1, Velocity: 0, Position: 40}); err != nil {
		t.Fatalf("add particle: %v", err)
	}
	assert.Equal(t, 3, s.Count())

	s.Reset()
	assert.Equal(t, 2, s.Count(), "reset restores the SetInitial snapshot only")
}

func TestParticleHelpers(t *testing.T) {
	p := Particle{Mass: 4, Velocity: -3, Position: 1}
	assert.Equal(t, -12.0, p.Momentum())
	assert.Equal(t, 18.0, p.KineticEnergy())
	if math.Signbit(p.KineticEnergy()) {
		t.Error("kinetic energy must be non-negative")
	}
}
