package opengl

import (
	"image/color"
	"math/rand"
	"testing"
	"unsafe"

	"github.com/PrincetonUniversity/particlelife"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTexelSizes(t *testing.T) {
	assert.EqualValues(t, posTexelSize, unsafe.Sizeof(particlelife.Vec2{}))
	assert.EqualValues(t, colTexelSize, unsafe.Sizeof(color.RGBA{}))
}

func TestTexelsCoverTexture(t *testing.T) {
	for _, n := range []int{1, 3, 50, 1000, 4000} {
		s := particlelife.New(n, 800, 600, rand.New(rand.NewSource(int64(n))))

		pos, err := texels(s.Pos, s.TexWidth, s.TexHeight)
		require.NoError(t, err, "n=%d", n)
		assert.Equal(t, unsafe.Pointer(&s.Pos[0]), pos)

		col, err := texels(s.Col, s.TexWidth, s.TexHeight)
		require.NoError(t, err, "n=%d", n)
		assert.Equal(t, unsafe.Pointer(&s.Col[0]), col)

		// the last texel is the last particle
		last := unsafe.Add(pos, (s.Len()-1)*posTexelSize)
		assert.Equal(t, s.Pos[s.Len()-1], *(*particlelife.Vec2)(last))
	}
}

func TestTexelsWithoutParticles(t *testing.T) {
	s := particlelife.Empty(0, 800, 600)
	pos, err := texels(s.Pos, s.TexWidth, s.TexHeight)
	assert.NoError(t, err)
	assert.Nil(t, pos)
}

func TestTexelsRejectsPartialTexture(t *testing.T) {
	s := particlelife.Empty(16, 800, 600)
	_, err := texels(s.Pos[:15], s.TexWidth, s.TexHeight)
	assert.Error(t, err)
	_, err = texels(s.Col, s.TexWidth*2, s.TexHeight)
	assert.Error(t, err)
}
