package opengl

// vertexShader expands particle gl_VertexID/6 into a billboard quad.
// Keep in sync with Corners, SpriteSize and Billboard.
const vertexShader = `#version 330 core

uniform mat4 viewProj;
uniform ivec2 texSize;
uniform vec2 resolution;
uniform sampler2D posTex;
uniform sampler2D colTex;

out vec2 vPos;
out vec4 vCol;

const float size = 8.0;

const vec2 corners[6] = vec2[6](
	vec2(-1.0, -1.0),
	vec2( 1.0, -1.0),
	vec2(-1.0,  1.0),
	vec2( 1.0, -1.0),
	vec2(-1.0,  1.0),
	vec2( 1.0,  1.0));

void main() {
	int particle = gl_VertexID / 6;
	int corner = gl_VertexID % 6;

	ivec2 coord = ivec2(particle % texSize.x, particle / texSize.x);
	vec2 pos = texelFetch(posTex, coord, 0).xy;
	vec4 col = texelFetch(colTex, coord, 0);

	vec2 vertexPos = (viewProj * vec4(pos + size * corners[corner], 0.0, 1.0)).xy;
	vec2 particlePos = (viewProj * vec4(pos, 0.0, 1.0)).xy;

	vPos = 0.5 * resolution * (vertexPos - particlePos);
	vCol = col;
	gl_Position = vec4(vertexPos, 0.0, 1.0);
}
`

// fragmentShader shades a soft disc with premultiplied alpha.
// Keep in sync with Shade.
const fragmentShader = `#version 330 core

in vec2 vPos;
in vec4 vCol;

out vec4 oCol;

void main() {
	float dis = length(vPos);
	oCol = vCol;
	oCol.a *= 1.0 - smoothstep(6.0, 8.0, dis);
	oCol.rgb = pow(oCol.rgb, vec3(1.0 / 2.2));
	oCol.rgb *= oCol.a;
}
`
