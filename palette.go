package particlelife

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// A Palette returns the display color of particle i at position p.
type Palette func(i int, p Vec2) color.RGBA

// Paint assigns a color to every particle.
// Colors are meant to be set once, before the first upload to the GPU.
func (s *Simulation) Paint(pal Palette) {
	for i := range s.Col {
		s.Col[i] = pal(i, s.Pos[i])
	}
}

// RandomPalette returns opaque colors with uniformly random channels.
func RandomPalette(rng *rand.Rand) Palette {
	return func(int, Vec2) color.RGBA {
		return color.RGBA{
			R: uint8(rng.Intn(256)),
			G: uint8(rng.Intn(256)),
			B: uint8(rng.Intn(256)),
			A: 255,
		}
	}
}

// NoisePalette returns opaque, fully saturated colors whose hue follows a
// Perlin noise field sampled at the particle position.
// Scale is the size of a noise feature in world units.
func NoisePalette(seed int64, scale float64) Palette {
	const (
		alpha  = 2
		beta   = 2
		octave = 3
	)
	if scale <= 0 {
		scale = 1
	}
	noise := perlin.NewPerlin(alpha, beta, octave, seed)
	return func(_ int, p Vec2) color.RGBA {
		v := noise.Noise2D(float64(p.X)/scale, float64(p.Y)/scale)
		h := math.Mod(180*(v+1), 360)
		if h < 0 {
			h += 360
		}
		r, g, b := colorful.Hsv(h, 1, 1).Clamped().RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 255}
	}
}
