package particlelife

import (
	"image/color"
	"math"
	"math/rand"
	"time"
)

// A Vec2 is a 2D vector stored in single precision.
// A []Vec2 has the memory layout of a two-channel float texture.
type Vec2 struct {
	X float32
	Y float32
}

// NextPow2 returns the smallest power of two greater than or equal to x.
func NextPow2(x int) int {
	n := 1
	for n < x {
		n <<= 1
	}
	return n
}

// TextureDims returns the dimensions of the smallest power-of-two texture
// grid holding n particles whose width is NextPow2(ceil(sqrt(n))).
// It returns 0, 0 when n is not positive.
func TextureDims(n int) (w, h int) {
	if n <= 0 {
		return 0, 0
	}
	w = NextPow2(int(math.Ceil(math.Sqrt(float64(n)))))
	h = NextPow2((n + w - 1) / w)
	return w, h
}

// New returns a simulation of at least n particles in a world of the given
// extents. The particle count is rounded up to fill a power-of-two texture.
// Particles start at rest, uniformly spread over 90% of the world,
// with uniformly random colors. If rng is nil, a time-seeded source is used.
func New(n int, width, height float64, rng *rand.Rand) *Simulation {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := Empty(n, width, height)
	for i := range s.Pos {
		s.Pos[i].X = float32(0.9 * width * (rng.Float64() - 0.5))
		s.Pos[i].Y = float32(0.9 * height * (rng.Float64() - 0.5))
	}
	s.Paint(RandomPalette(rng))
	return s
}

// Empty returns a simulation of at least n particles, all at rest at the
// origin and transparent black.
func Empty(n int, width, height float64) *Simulation {
	w, h := TextureDims(n)
	return &Simulation{
		Width:     width,
		Height:    height,
		TexWidth:  w,
		TexHeight: h,
		Pos:       make([]Vec2, w*h),
		Vel:       make([]Vec2, w*h),
		Col:       make([]color.RGBA, w*h),
		Params:    DefaultParams,
	}
}

// Force returns the signed magnitude of the force between two particles
// at normalized distance dis (distance divided by the threshold).
// Negative values repel. Below RMin the force rises linearly from -1 to 0;
// above it the force is a triangular bump peaking at Attraction
// halfway between RMin and 1.
func (p Params) Force(dis float64) float64 {
	if dis < p.RMin {
		return dis/p.RMin - 1
	}
	return p.Attraction * (1 - math.Abs(1+p.RMin-2*dis)/(1-p.RMin))
}

// impulse returns the velocity change of the particle at a caused by the
// particle at b. The particle at b receives the opposite change.
// It reports false if the pair does not interact.
func (p Params) impulse(a, b Vec2) (dvx, dvy float64, ok bool) {
	dx := float64(b.X) - float64(a.X)
	dy := float64(b.Y) - float64(a.Y)
	d2 := dx*dx + dy*dy
	if d2 > p.Threshold*p.Threshold {
		return 0, 0, false
	}
	dis := math.Sqrt(d2) / p.Threshold
	if dis < p.Epsilon {
		return 0, 0, false
	}
	f := p.Force(dis)
	return dx * f / dis, dy * f / dis, true
}

// wrap maps x into [-extent/2, extent/2) modulo extent.
// A non-positive extent disables wrapping.
func wrap(x, extent float64) float32 {
	if extent <= 0 {
		return float32(x)
	}
	h := extent / 2
	if x < -h {
		x += extent
	} else if x >= h {
		x -= extent
	}
	if x < -h || x >= h {
		// moved farther than a whole world in one step
		x = math.Mod(x+h, extent)
		if x < 0 {
			x += extent
		}
		x -= h
	}
	v := float32(x)
	if float64(v) >= h {
		// rounded up onto the upper edge
		v -= float32(extent)
	}
	return v
}
