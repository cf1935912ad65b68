// Package opengl draws a particlelife simulation in an OpenGL window.
//
// Particle state reaches the GPU only through two textures with one texel
// per particle: positions (RG32F, uploaded every frame) and colors (RGBA8,
// uploaded once). No vertex buffer carries particle data. A single draw
// call requests six vertices per particle and the vertex shader derives the
// particle and the billboard corner from gl_VertexID, fetches the texels,
// and expands the particle into a quad. The fragment shader shades a soft
// disc with premultiplied alpha.
//
// The functions in this file mirror the shaders on the CPU so that the
// geometry and shading can be checked without a GPU.
package opengl

import (
	"image/color"
	"math"

	"github.com/PrincetonUniversity/particlelife"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	VerticesPerParticle = 6 // two triangles

	SpriteSize   = 8.0 // half side of the billboard quad, world units
	FeatherStart = 6.0 // radius where the disc starts fading out
	Gamma        = 2.2
)

// Corners holds the offset direction of each billboard vertex.
// Two triangles per particle, sharing the 1-2 / 3-4 diagonal:
//
//	0---1
//	| /   3
//	2   / |
//	  4---5
var Corners = [VerticesPerParticle]mgl32.Vec2{
	{-1, -1},
	{+1, -1},
	{-1, +1},
	{+1, -1},
	{-1, +1},
	{+1, +1},
}

// Vertex returns the particle and the billboard corner of a vertex id.
func Vertex(id int) (particle, corner int) {
	return id / VerticesPerParticle, id % VerticesPerParticle
}

// TexelCoord returns the integer texel coordinate of particle i
// in a texture that is w texels wide.
func TexelCoord(i, w int) (x, y int) {
	return i % w, i / w
}

// ViewProjection returns the orthographic projection mapping a world of the
// given extents, centered on the origin, to normalized device coordinates.
// The y axis points down as in screen coordinates.
func ViewProjection(width, height float64) mgl32.Mat4 {
	w, h := float32(width/2), float32(height/2)
	return mgl32.Ortho(-w, w, h, -h, -1, 1)
}

// Billboard computes what the vertex shader computes for one corner of the
// quad around center: the projected vertex position and the quad-local
// coordinate (approximately in pixels) used for the circular falloff.
func Billboard(center particlelife.Vec2, corner int, viewProj mgl32.Mat4, resolution mgl32.Vec2) (pos, local mgl32.Vec2) {
	c := mgl32.Vec2{center.X, center.Y}
	v := c.Add(Corners[corner].Mul(SpriteSize))

	vp := viewProj.Mul4x1(mgl32.Vec4{v[0], v[1], 0, 1})
	cp := viewProj.Mul4x1(mgl32.Vec4{c[0], c[1], 0, 1})

	pos = mgl32.Vec2{vp[0], vp[1]}
	local = mgl32.Vec2{
		0.5 * resolution[0] * (vp[0] - cp[0]),
		0.5 * resolution[1] * (vp[1] - cp[1]),
	}
	return pos, local
}

// Shade computes what the fragment shader computes for a fragment at the
// quad-local coordinate local: an opaque core out to FeatherStart fading to
// nothing at SpriteSize, gamma applied to the color, alpha premultiplied.
func Shade(c color.RGBA, local mgl32.Vec2) mgl32.Vec4 {
	a := float32(c.A) / 255 * (1 - smoothstep(FeatherStart, SpriteSize, local.Len()))
	g := func(u uint8) float32 {
		return float32(math.Pow(float64(u)/255, 1/Gamma)) * a
	}
	return mgl32.Vec4{g(c.R), g(c.G), g(c.B), a}
}

// smoothstep is the GLSL built-in of the same name.
func smoothstep(e0, e1, x float32) float32 {
	t := mgl32.Clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}
