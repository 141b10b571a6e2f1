// Package shader provides OpenGL shader compilation utilities.
package shader

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/heliscene/internal/logger"
)

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Returns the program ID or an error if compilation/linking fails.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", trimLog(log))
	}

	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, trimLog(log))
	}

	return shader, nil
}

func trimLog(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// GetUniform returns the uniform location for the given name, or -1 if
// the program does not declare it.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

// Source supplies vertex and fragment shader text.
type Source struct {
	VertexPath   string
	FragmentPath string
}

// Embedded reports whether the built-in shaders are used.
func (s Source) Embedded() bool {
	return s.VertexPath == "" && s.FragmentPath == ""
}

// Read returns the shader sources, falling back to the built-in shader for
// any path left empty.
func (s Source) Read() (vert, frag string, err error) {
	vert, frag = SimpleVertex, SimpleFragment
	if s.VertexPath != "" {
		b, err := os.ReadFile(s.VertexPath)
		if err != nil {
			return "", "", fmt.Errorf("read vertex shader: %w", err)
		}
		vert = string(b)
	}
	if s.FragmentPath != "" {
		b, err := os.ReadFile(s.FragmentPath)
		if err != nil {
			return "", "", fmt.Errorf("read fragment shader: %w", err)
		}
		frag = string(b)
	}
	return vert, frag, nil
}

// Program is a linked shader program with a uniform location cache.
// All methods except MarkStale must be called on the GL thread.
type Program struct {
	id       uint32
	source   Source
	uniforms map[string]int32

	compile func(vert, frag string) (uint32, error)
	lookup  func(program uint32, name string) int32
	destroy func(program uint32)

	mu    sync.Mutex
	stale bool
}

// LoadProgram reads, compiles and links the program described by src.
func LoadProgram(src Source) (*Program, error) {
	p := &Program{
		source:  src,
		compile: CompileProgram,
		lookup:  GetUniform,
		destroy: gl.DeleteProgram,
	}
	if err := p.build(); err != nil {
		return nil, err
	}
	logger.Debug("shader program created",
		zap.Uint32("program", p.id),
		zap.Bool("embedded", src.Embedded()),
	)
	return p, nil
}

func (p *Program) build() error {
	vert, frag, err := p.source.Read()
	if err != nil {
		return err
	}
	id, err := p.compile(vert, frag)
	if err != nil {
		return err
	}
	if p.id != 0 {
		p.destroy(p.id)
	}
	p.id = id
	p.uniforms = make(map[string]int32)
	return nil
}

// ID returns the OpenGL program name.
func (p *Program) ID() uint32 {
	return p.id
}

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.id)
}

// Uniform returns the cached location of a uniform, querying the driver
// on first use. Missing uniforms are cached as -1.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := p.lookup(p.id, name)
	p.uniforms[name] = loc
	if loc < 0 {
		logger.Debug("uniform not active", zap.String("name", name), zap.Uint32("program", p.id))
	}
	return loc
}

// Reload recompiles the program from its source. On failure the previous
// program stays in use.
func (p *Program) Reload() error {
	if err := p.build(); err != nil {
		return fmt.Errorf("reload shader program: %w", err)
	}
	logger.Info("shader program reloaded", zap.Uint32("program", p.id))
	return nil
}

// MarkStale flags the program for reload. Safe from any goroutine.
func (p *Program) MarkStale() {
	p.mu.Lock()
	p.stale = true
	p.mu.Unlock()
}

// ReloadIfStale reloads the program when it was marked stale. It reports
// whether a reload was attempted.
func (p *Program) ReloadIfStale() (bool, error) {
	p.mu.Lock()
	stale := p.stale
	p.stale = false
	p.mu.Unlock()
	if !stale {
		return false, nil
	}
	return true, p.Reload()
}

// Delete releases the program.
func (p *Program) Delete() {
	if p.id != 0 {
		p.destroy(p.id)
		p.id = 0
	}
}
