// Package particlelife runs particle life simulations.
//
// A fixed number of point particles interact in a 2D toroidal world.
// Each pair of particles closer than an interaction radius repels at
// short range and attracts at longer range. There are no particle types:
// the same force law applies to every pair, and the clustering that
// emerges comes from that law and from the way velocities are damped.
//
// The state is laid out for the GPU: positions and colors are dense
// arrays whose length is the area of a power-of-two texture, so that
// they can be uploaded as textures without any repacking.
package particlelife

import "image/color"

// Params contains the parameters of the force law and the integrator.
type Params struct {
	// Threshold is the interaction radius in world units.
	// Pairs farther apart do not interact.
	Threshold float64

	// RMin is the normalized distance at which the force
	// switches from repulsion to attraction.
	RMin float64

	// Attraction is the peak of the attraction bump,
	// reached halfway between RMin and 1.
	Attraction float64

	// Damping multiplies both velocities after every interacting pair.
	// It is applied once per partner, not once per step.
	Damping float64

	// Epsilon is the smallest normalized distance for which a force is
	// computed. Closer pairs are skipped.
	Epsilon float64

	// Rate is the number of steps per simulated second.
	// Positions advance by vel/Rate at every step.
	Rate float64
}

// DefaultParams are the default parameters.
var DefaultParams = Params{
	Threshold:  200,
	RMin:       0.15,
	Attraction: 0.1,
	Damping:    0.99,
	Epsilon:    1e-8,
	Rate:       60,
}

// A Simulation contains all the state and parameters of a simulation.
type Simulation struct {
	// Width and Height are the extents of the toroidal world,
	// centered on the origin.
	Width  float64
	Height float64

	// TexWidth and TexHeight are the dimensions of the texture grid
	// that mirrors the particle arrays (one texel per particle).
	TexWidth  int
	TexHeight int

	Pos []Vec2       // positions
	Vel []Vec2       // velocities
	Col []color.RGBA // display colors, fixed after initialization

	Params Params
}

// Len returns the number of particles.
func (s *Simulation) Len() int {
	return len(s.Pos)
}

// Step runs a single simulation step.
// All pairwise forces are accumulated first, then positions are integrated
// and wrapped around the edges of the world.
func (s *Simulation) Step() {
	s.accumulate()
	s.integrate()
}

// accumulate applies the pairwise forces to the velocities.
// Pairs are visited in index order and velocities are damped after each
// pair, so the result depends on the visiting order.
func (s *Simulation) accumulate() {
	p := s.Params
	damp := p.Damping
	for i := range s.Pos {
		for j := i + 1; j < len(s.Pos); j++ {
			dvx, dvy, ok := p.impulse(s.Pos[i], s.Pos[j])
			if !ok {
				continue
			}
			vi, vj := &s.Vel[i], &s.Vel[j]
			vi.X = float32(float64(vi.X) + dvx)
			vi.Y = float32(float64(vi.Y) + dvy)
			vj.X = float32(float64(vj.X) - dvx)
			vj.Y = float32(float64(vj.Y) - dvy)

			vi.X = float32(float64(vi.X) * damp)
			vi.Y = float32(float64(vi.Y) * damp)
			vj.X = float32(float64(vj.X) * damp)
			vj.Y = float32(float64(vj.Y) * damp)
		}
	}
}

// integrate advances positions by one time step.
func (s *Simulation) integrate() {
	rate := s.Params.Rate
	for i := range s.Pos {
		p, v := &s.Pos[i], s.Vel[i]
		// positions are stored before they are wrapped
		x := float32(float64(p.X) + float64(v.X)/rate)
		y := float32(float64(p.Y) + float64(v.Y)/rate)
		p.X = wrap(float64(x), s.Width)
		p.Y = wrap(float64(y), s.Height)
	}
}
