package particlelife

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomPaletteIsOpaque(t *testing.T) {
	pal := RandomPalette(rand.New(rand.NewSource(1)))
	seen := map[uint8]bool{}
	for i := 0; i < 1000; i++ {
		c := pal(i, Vec2{})
		assert.EqualValues(t, 255, c.A)
		seen[c.R] = true
	}
	assert.Greater(t, len(seen), 100, "red channel should be spread out")
}

func TestNoisePalette(t *testing.T) {
	s := New(256, 800, 600, rand.New(rand.NewSource(2)))
	s.Paint(NoisePalette(42, 200))
	first := append(s.Col[:0:0], s.Col...)

	for _, c := range s.Col {
		assert.EqualValues(t, 255, c.A)
		// fully saturated: at least one channel is off and one is on
		lo := min(c.R, c.G, c.B)
		hi := max(c.R, c.G, c.B)
		assert.EqualValues(t, 255, hi)
		assert.LessOrEqual(t, lo, uint8(1))
	}

	s.Paint(NoisePalette(42, 200))
	assert.Equal(t, first, s.Col, "same seed, same colors")
}

func TestNoisePaletteIgnoresBadScale(t *testing.T) {
	pal := NoisePalette(1, 0)
	assert.NotPanics(t, func() { pal(0, Vec2{10, 10}) })
}
