package metrics

import (
	"math"

	"github.com/san-kum/impact/internal/collision"
)

// MomentumDrift tracks the largest relative deviation of total
// momentum from its first observed value. A correct inelastic merge
// keeps this at zero up to floating-point noise.
type MomentumDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(ps []collision.Particle, t float64) {
	total := 0.0
	for _, p := range ps {
		total += p.Momentum()
	}

	if m.samples == 0 {
		m.initial = total
	}
	m.samples++

	if m.initial != 0 {
		drift := math.Abs(total-m.initial) / math.Abs(m.initial)
		m.maxDrift = math.Max(m.maxDrift, drift)
	} else {
		m.maxDrift = math.Max(m.maxDrift, math.Abs(total))
	}
}

func (m *MomentumDrift) Value() float64 {
	return m.maxDrift
}

func (m *MomentumDrift) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.samples = 0
}
