// Package renderer owns OpenGL state for the scene: buffer upload, frame
// setup and the draw calls issued by the scene graph.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/heliscene/internal/logger"
	"github.com/Faultbox/heliscene/pkg/scenegraph"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [4]float32
	CullFaces  bool
}

// Uniforms resolves uniform locations for the active program.
type Uniforms interface {
	Use()
	Uniform(name string) int32
}

// Info describes the OpenGL implementation.
type Info struct {
	Vendor   string
	Renderer string
	Version  string
	GLSL     string
}

// Renderer issues OpenGL calls. It must only be used from the goroutine
// that holds the GL context.
type Renderer struct {
	config  Config
	program Uniforms
	meshes  []gpuMesh
	info    Info
}

var _ scenegraph.Backend = (*Renderer)(nil)

// New creates a new renderer.
// Must be called after the GL context is current on this thread.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{config: cfg}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.info = Info{
		Vendor:   gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
		GLSL:     gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
	logger.Info("OpenGL initialized",
		zap.String("vendor", r.info.Vendor),
		zap.String("renderer", r.info.Renderer),
		zap.String("version", r.info.Version),
		zap.String("glsl", r.info.GLSL),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	if cfg.CullFaces {
		gl.Enable(gl.CULL_FACE)
	}
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return r, nil
}

// Info returns the OpenGL implementation strings captured at startup.
func (r *Renderer) Info() Info {
	return r.info
}

// Close deletes every uploaded buffer.
func (r *Renderer) Close() {
	logger.Info("closing renderer", zap.Int("meshes", len(r.meshes)))
	for i := range r.meshes {
		g := &r.meshes[i]
		gl.DeleteVertexArrays(1, &g.vao)
		gl.DeleteBuffers(1, &g.vbo)
		gl.DeleteBuffers(1, &g.ebo)
	}
	r.meshes = nil
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// SetProgram selects the shader program used for uniform lookups.
func (r *Renderer) SetProgram(p Uniforms) {
	r.program = p
}

// Begin clears the frame and activates the program.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if r.program != nil {
		r.program.Use()
	}
}

// End unbinds the last vertex array.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
}

// BindVertexArray implements scenegraph.Backend.
func (r *Renderer) BindVertexArray(vao scenegraph.VAO) {
	gl.BindVertexArray(uint32(vao))
}

// UniformMatrix4 implements scenegraph.Backend. Uniforms the program does
// not declare are skipped.
func (r *Renderer) UniformMatrix4(name string, m mgl32.Mat4) {
	if loc := r.location(name); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

// Uniform3 implements scenegraph.Backend.
func (r *Renderer) Uniform3(name string, v mgl32.Vec3) {
	if loc := r.location(name); loc >= 0 {
		gl.Uniform3f(loc, v[0], v[1], v[2])
	}
}

// DrawTriangles implements scenegraph.Backend.
func (r *Renderer) DrawTriangles(indexCount int32) {
	gl.DrawElements(gl.TRIANGLES, indexCount, gl.UNSIGNED_INT, nil)
}

func (r *Renderer) location(name string) int32 {
	if r.program == nil {
		return -1
	}
	return r.program.Uniform(name)
}

// CheckError returns the first pending OpenGL error, if any.
func CheckError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: GL error 0x%04x", op, code)
	}
	return nil
}
