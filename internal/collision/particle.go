package collision

// Particle is a point mass on a single axis.
type Particle struct {
	Mass     float64 // kg, must be positive
	Velocity float64 // m/s, signed
	Position float64 // m, signed
}

func (p Particle) Momentum() float64 {
	return p.Mass * p.Velocity
}

func (p Particle) KineticEnergy() float64 {
	return 0.5 * p.Mass * p.Velocity * p.Velocity
}
