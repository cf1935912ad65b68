//go:build !nogl
// +build !nogl

package opengl

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/PrincetonUniversity/particlelife"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Run runs an interactive simulation in an OpenGL window.
// The window has the size of the simulated world.
func Run(s *particlelife.Simulation, conf *Config) error {
	log := conf.logger()
	step := conf.Step
	if step == nil {
		step = func() error {
			s.Step()
			return nil
		}
	}

	// init GLFW and OpenGL
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	title := conf.Title
	if title == "" {
		title = "Particle Life"
	}
	w, err := glfw.CreateWindow(int(s.Width), int(s.Height), title, nil, nil)
	if err != nil {
		return err
	}
	w.MakeContextCurrent()
	glfw.SwapInterval(1) // one step per display refresh

	if err := gl.Init(); err != nil {
		return err
	}
	logCapabilities(log)

	// initialize OpenGL objects
	d, err := newDisplay(s, log)
	if err != nil {
		return err
	}
	defer d.delete()

	var quit, once bool
	pause := conf.ForcePause
	w.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			quit = true
		}
		if key == glfw.KeySpace && action == glfw.Press && !conf.ForcePause {
			pause = !pause
		}
		if key == glfw.KeyRight && (action == glfw.Press || action == glfw.Repeat) && pause {
			once = true
		}
	})

	var frames int
	last := time.Now()
	for !(quit || w.ShouldClose()) {
		if !pause || once {
			once = false
			if err := step(); err != nil {
				return err
			}
		}
		if err := d.upload(s.Pos); err != nil {
			return err
		}
		d.draw(w.GetFramebufferSize())
		w.SwapBuffers()
		glfw.PollEvents()

		frames++
		if dt := time.Since(last); dt >= 5*time.Second {
			log.Info("frame rate",
				zap.Float64("fps", float64(frames)/dt.Seconds()),
				zap.Bool("paused", pause))
			frames, last = 0, time.Now()
		}
	}
	return nil
}

// logCapabilities logs the OpenGL implementation and its extensions.
func logCapabilities(log *zap.Logger) {
	log.Info("OpenGL context",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	var n int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &n)
	for i := uint32(0); i < uint32(n); i++ {
		log.Debug("OpenGL extension", zap.String("name", gl.GoStr(gl.GetStringi(gl.EXTENSIONS, i))))
	}
}

// display contains all the OpenGL objects required to display the simulation.
type display struct {
	n    int32 // number of particles
	vao  uint32
	prog uint32
	tex  struct {
		pos uint32 // RG32F positions, one texel per particle
		col uint32 // RGBA8 colors, one texel per particle
	}
	uni struct {
		viewProj   int32
		texSize    int32
		resolution int32
		posTex     int32
		colTex     int32
	}

	texWidth, texHeight int32
	resolution          mgl32.Vec2
	viewProj            mgl32.Mat4
}

// Texture units of the samplers.
const (
	posUnit = 0
	colUnit = 1
)

// newDisplay compiles shaders, creates the particle textures
// and uploads the colors.
func newDisplay(s *particlelife.Simulation, log *zap.Logger) (*display, error) {
	d := &display{
		n:          int32(s.Len()),
		texWidth:   int32(s.TexWidth),
		texHeight:  int32(s.TexHeight),
		resolution: mgl32.Vec2{float32(s.Width), float32(s.Height)},
		viewProj:   ViewProjection(s.Width, s.Height),
	}

	// compile and link shaders
	var err error
	d.prog, err = makeProg([]shader{
		{"Vertex", vertexShader, gl.VERTEX_SHADER},
		{"Fragment", fragmentShader, gl.FRAGMENT_SHADER},
	}, log)
	if err != nil {
		return nil, err
	}

	for _, u := range []struct {
		name string
		loc  *int32
	}{
		{"viewProj", &d.uni.viewProj},
		{"texSize", &d.uni.texSize},
		{"resolution", &d.uni.resolution},
		{"posTex", &d.uni.posTex},
		{"colTex", &d.uni.colTex},
	} {
		*u.loc = gl.GetUniformLocation(d.prog, gl.Str(u.name+"\x00"))
		if *u.loc < 0 {
			d.delete()
			return nil, fmt.Errorf("opengl: uniform %q not found", u.name)
		}
	}

	gl.UseProgram(d.prog)
	gl.Uniform1i(d.uni.posTex, posUnit)
	gl.Uniform1i(d.uni.colTex, colUnit)

	// a core profile draw call needs a bound VAO even without any attribute
	gl.GenVertexArrays(1, &d.vao)

	pos, err := texels(s.Pos, s.TexWidth, s.TexHeight)
	if err != nil {
		d.delete()
		return nil, err
	}
	col, err := texels(s.Col, s.TexWidth, s.TexHeight)
	if err != nil {
		d.delete()
		return nil, err
	}
	gl.ActiveTexture(gl.TEXTURE0 + posUnit)
	d.tex.pos = newTexture(d.texWidth, d.texHeight, gl.RG32F, gl.RG, gl.FLOAT, pos)
	gl.ActiveTexture(gl.TEXTURE0 + colUnit)
	d.tex.col = newTexture(d.texWidth, d.texHeight, gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE, col)

	return d, nil
}

// upload replaces the whole position texture.
func (d *display) upload(pos []particlelife.Vec2) error {
	data, err := texels(pos, int(d.texWidth), int(d.texHeight))
	if err != nil || data == nil {
		return err
	}
	gl.ActiveTexture(gl.TEXTURE0 + posUnit)
	gl.BindTexture(gl.TEXTURE_2D, d.tex.pos)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, d.texWidth, d.texHeight, gl.RG, gl.FLOAT, data)
	return nil
}

// draw clears the framebuffer and draws all particles with a single call.
func (d *display) draw(fbWidth, fbHeight int) {
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(d.prog)
	gl.Uniform2i(d.uni.texSize, d.texWidth, d.texHeight)
	gl.Uniform2f(d.uni.resolution, d.resolution[0], d.resolution[1])
	gl.UniformMatrix4fv(d.uni.viewProj, 1, false, &d.viewProj[0])

	gl.ActiveTexture(gl.TEXTURE0 + posUnit)
	gl.BindTexture(gl.TEXTURE_2D, d.tex.pos)
	gl.ActiveTexture(gl.TEXTURE0 + colUnit)
	gl.BindTexture(gl.TEXTURE_2D, d.tex.col)

	// premultiplied alpha
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)

	gl.BindVertexArray(d.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, VerticesPerParticle*d.n)
}

// delete releases the OpenGL objects.
func (d *display) delete() {
	gl.DeleteTextures(1, &d.tex.pos)
	gl.DeleteTextures(1, &d.tex.col)
	gl.DeleteVertexArrays(1, &d.vao)
	gl.DeleteProgram(d.prog)
}

// newTexture creates a 2D texture sampled by exact texel fetches
// and leaves it bound to the active texture unit.
func newTexture(w, h int32, internalFormat int32, format, xtype uint32, data unsafe.Pointer) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, w, h, 0, format, xtype, data)
	return tex
}

// A shader is the source of one stage of an OpenGL program.
type shader struct {
	name string
	src  string
	kind uint32
}

// makeProg builds OpenGL programs.
func makeProg(shaders []shader, log *zap.Logger) (uint32, error) {
	var fail bool
	ids := make([]uint32, 0, len(shaders))
	for _, s := range shaders {
		id := gl.CreateShader(s.kind)
		str, free := gl.Strs(s.src + "\x00")
		gl.ShaderSource(id, 1, str, nil)
		free()
		gl.CompileShader(id)
		var status int32
		gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
		if status != gl.TRUE {
			var n int32
			gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &n)
			msg := make([]uint8, n+1)
			gl.GetShaderInfoLog(id, n, nil, &msg[0])
			log.Error("shader compilation failed", zap.String("stage", s.name), zap.String("log", gl.GoStr(&msg[0])))
			fail = true
			gl.DeleteShader(id)
			continue
		}
		ids = append(ids, id)
	}
	if fail {
		for _, id := range ids {
			gl.DeleteShader(id)
		}
		return 0, fmt.Errorf("opengl: GLSL errors")
	}

	prog := gl.CreateProgram()
	for _, id := range ids {
		gl.AttachShader(prog, id)
	}
	gl.LinkProgram(prog)
	for _, id := range ids {
		gl.DeleteShader(id)
	}

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status != gl.TRUE {
		var n int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &n)
		msg := make([]uint8, n+1)
		gl.GetProgramInfoLog(prog, n, nil, &msg[0])
		log.Error("program link failed", zap.String("log", gl.GoStr(&msg[0])))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("opengl: GLSL link error")
	}
	return prog, nil
}
