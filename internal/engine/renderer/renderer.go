// Package renderer draws the displaced ocean mesh with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Beygs/Waves/internal/engine/lighting"
	"github.com/Beygs/Waves/internal/engine/renderer/shaders"
	"github.com/Beygs/Waves/internal/engine/shader"
	"github.com/Beygs/Waves/internal/engine/surface"
	"github.com/Beygs/Waves/internal/logger"
	"github.com/Beygs/Waves/pkg/math"
	"github.com/Beygs/Waves/pkg/ocean"
)

// Uniform names used by the ocean program.
const (
	uViewProj        = "uViewProj"
	uDepthColor      = "uDepthColor"
	uSurfaceColor    = "uSurfaceColor"
	uColorOffset     = "uColorOffset"
	uColorMultiplier = "uColorMultiplier"
	uLightDir        = "uLightDir"
	uShade           = "uShade"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor ocean.RGB

	SunAzimuth   float64 // Degrees around Y
	SunElevation float64 // Degrees above the horizon
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	program *shader.Program

	// Ocean mesh buffers. Positions and normals change every frame, the
	// index buffer only when the layout does.
	vao, posVBO, normVBO, ebo uint32
	vertexCount               int
	indexCount                int32

	// Shade blends Lambert lighting over the elevation gradient, 0..1.
	Shade    float32
	LightDir [3]float32
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		log:      logger.Named("renderer"),
		LightDir: lighting.SunDirection(cfg.SunAzimuth, cfg.SunElevation),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	r.SetClearColor(cfg.ClearColor)

	program, err := shader.NewProgram(shaders.OceanVertexShader, shaders.OceanFragmentShader,
		uViewProj, uDepthColor, uSurfaceColor, uColorOffset, uColorMultiplier, uLightDir, uShade)
	if err != nil {
		return nil, fmt.Errorf("ocean shader: %w", err)
	}
	r.program = program

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.posVBO)
	gl.GenBuffers(1, &r.normVBO)
	gl.GenBuffers(1, &r.ebo)

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	for _, b := range []*uint32{&r.posVBO, &r.normVBO, &r.ebo} {
		if *b != 0 {
			gl.DeleteBuffers(1, b)
			*b = 0
		}
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// SetClearColor sets the background color.
func (r *Renderer) SetClearColor(c ocean.RGB) {
	r.config.ClearColor = c
	gl.ClearColor(float32(c.R), float32(c.G), float32(c.B), 1.0)
}

// Resize handles window resize. width and height are drawable pixels.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport's width/height.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Upload copies the mesh's vertex data to the GPU. The first upload, and
// any upload after the vertex count changes, reallocates the buffers and
// the index buffer; later uploads only rewrite positions and normals.
func (r *Renderer) Upload(m *surface.Mesh) {
	if len(m.Positions) == 0 || len(m.Indices) == 0 {
		r.indexCount = 0
		return
	}

	n := len(m.Positions) / 3
	gl.BindVertexArray(r.vao)

	if n != r.vertexCount || int32(len(m.Indices)) != r.indexCount {
		gl.BindBuffer(gl.ARRAY_BUFFER, r.posVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(m.Positions)*4, unsafe.Pointer(&m.Positions[0]), gl.DYNAMIC_DRAW)
		gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
		gl.EnableVertexAttribArray(0)

		gl.BindBuffer(gl.ARRAY_BUFFER, r.normVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(m.Normals)*4, unsafe.Pointer(&m.Normals[0]), gl.DYNAMIC_DRAW)
		gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, 3*4, 0)
		gl.EnableVertexAttribArray(1)

		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

		r.vertexCount = n
		r.indexCount = int32(len(m.Indices))
		r.log.Debug("ocean buffers allocated",
			zap.Int("vertices", n),
			zap.Int32("indices", r.indexCount))
	} else {
		gl.BindBuffer(gl.ARRAY_BUFFER, r.posVBO)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(m.Positions)*4, unsafe.Pointer(&m.Positions[0]))
		gl.BindBuffer(gl.ARRAY_BUFFER, r.normVBO)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(m.Normals)*4, unsafe.Pointer(&m.Normals[0]))
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// DrawOcean draws the last uploaded mesh.
func (r *Renderer) DrawOcean(viewProj math.Mat4, p ocean.Params) {
	if r.indexCount == 0 {
		return
	}

	u := uniformsFor(p, r.Shade, r.LightDir)

	r.program.Use()
	gl.UniformMatrix4fv(r.program.Uniform(uViewProj), 1, false, viewProj.Ptr())
	gl.Uniform3fv(r.program.Uniform(uDepthColor), 1, &u.depth[0])
	gl.Uniform3fv(r.program.Uniform(uSurfaceColor), 1, &u.surface[0])
	gl.Uniform1f(r.program.Uniform(uColorOffset), u.offset)
	gl.Uniform1f(r.program.Uniform(uColorMultiplier), u.multiplier)
	gl.Uniform3fv(r.program.Uniform(uLightDir), 1, &u.lightDir[0])
	gl.Uniform1f(r.program.Uniform(uShade), u.shade)

	gl.BindVertexArray(r.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, r.indexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

// ReadPixels reads the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

// oceanUniforms is the CPU side of the fragment shader inputs.
type oceanUniforms struct {
	depth, surface [3]float32
	offset         float32
	multiplier     float32
	lightDir       [3]float32
	shade          float32
}

func uniformsFor(p ocean.Params, shade float32, lightDir [3]float32) oceanUniforms {
	return oceanUniforms{
		depth:      p.DepthColor.Array(),
		surface:    p.SurfaceColor.Array(),
		offset:     float32(p.ColorOffset),
		multiplier: float32(p.ColorMultiplier),
		lightDir:   lightDir,
		shade:      math.Clamp(shade, 0, 1),
	}
}
