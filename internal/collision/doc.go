// Package collision models a one-dimensional perfectly inelastic
// collision between point masses.
//
// A [Simulation] owns an ordered list of particles on a single axis.
// Each call to [Simulation.Update] advances positions by forward Euler
// (exact here, since velocity is constant between collisions) and then
// checks whether the left particle has reached or passed the right
// one. When it has, the two bodies merge into a single particle whose
// velocity follows from momentum conservation:
//
//	vf = (m0*v0 + m1*v1) / (m0 + m1)
//
// Kinetic energy is not conserved; the amount dissipated by the merge
// is exposed through [Simulation.EnergyLost].
//
// The crossing test is discrete: it fires on the first tick where the
// positions overlap, so with a large dt the merge point can overshoot
// the true contact point by up to one tick of relative displacement.
package collision
