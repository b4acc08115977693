package metrics

import (
	"math"

	"github.com/san-kum/impact/internal/collision"
)

// KineticEnergy averages the total kinetic energy over a run.
type KineticEnergy struct {
	name    string
	sum     float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(ps []collision.Particle, t float64) {
	total := 0.0
	for _, p := range ps {
		total += p.KineticEnergy()
	}
	e.sum += total
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.sum = 0
	e.samples = 0
}

// DissipatedEnergy reports the largest drop of total kinetic energy
// below its first observed value. Before the merge it stays at zero;
// after a perfectly inelastic merge it equals the energy the
// collision destroyed.
type DissipatedEnergy struct {
	name    string
	initial float64
	maxLoss float64
	samples int
}

func NewDissipatedEnergy() *DissipatedEnergy {
	return &DissipatedEnergy{name: "dissipated_energy"}
}

func (d *DissipatedEnergy) Name() string { return d.name }

func (d *DissipatedEnergy) Observe(ps []collision.Particle, t float64) {
	total := 0.0
	for _, p := range ps {
		total += p.KineticEnergy()
	}

	if d.samples == 0 {
		d.initial = total
	}
	d.samples++

	d.maxLoss = math.Max(d.maxLoss, d.initial-total)
}

func (d *DissipatedEnergy) Value() float64 {
	return d.maxLoss
}

func (d *DissipatedEnergy) Reset() {
	d.initial = 0
	d.maxLoss = 0
	d.samples = 0
}
