package shader

import (
	"errors"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/umbra/pkg/math"
)

var (
	// ErrCompile is returned when a stage fails to compile or the program fails to link.
	ErrCompile = errors.New("shader: compile failed")
	// ErrProgramNotFound is returned when no program is registered under a name.
	ErrProgramNotFound = errors.New("shader: program not found")
)

// Program is a linked shader program that accepts uniform values by name.
// Setting an inactive uniform is a no-op.
type Program interface {
	Bind()
	SetMat4(name string, m math.Mat4)
	SetVec3(name string, v math.Vec3)
	SetFloat(name string, f float32)
	SetInt(name string, i int32)
	SetBool(name string, b bool)
}

// GLProgram is a Program backed by an OpenGL program object. Uniform
// locations are looked up once and cached.
type GLProgram struct {
	id        uint32
	locations map[string]int32
}

// NewGLProgram compiles and links a program from GLSL sources.
func NewGLProgram(vertexSrc, fragmentSrc string) (*GLProgram, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &GLProgram{id: id, locations: make(map[string]int32)}, nil
}

// ID returns the GL program name.
func (p *GLProgram) ID() uint32 { return p.id }

// Bind makes p the current program.
func (p *GLProgram) Bind() {
	gl.UseProgram(p.id)
}

func (p *GLProgram) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.locations[name] = loc
	return loc
}

// SetMat4 sets a mat4 uniform. Values are written with glProgramUniform so
// p does not need to be bound.
func (p *GLProgram) SetMat4(name string, m math.Mat4) {
	if loc := p.location(name); loc >= 0 {
		gl.ProgramUniformMatrix4fv(p.id, loc, 1, false, m.Ptr())
	}
}

// SetVec3 sets a vec3 uniform.
func (p *GLProgram) SetVec3(name string, v math.Vec3) {
	if loc := p.location(name); loc >= 0 {
		gl.ProgramUniform3f(p.id, loc, v.X, v.Y, v.Z)
	}
}

// SetFloat sets a float uniform.
func (p *GLProgram) SetFloat(name string, f float32) {
	if loc := p.location(name); loc >= 0 {
		gl.ProgramUniform1f(p.id, loc, f)
	}
}

// SetInt sets an int or sampler uniform.
func (p *GLProgram) SetInt(name string, i int32) {
	if loc := p.location(name); loc >= 0 {
		gl.ProgramUniform1i(p.id, loc, i)
	}
}

// SetBool sets a bool uniform.
func (p *GLProgram) SetBool(name string, b bool) {
	var i int32
	if b {
		i = 1
	}
	p.SetInt(name, i)
}

// Destroy deletes the program object.
func (p *GLProgram) Destroy() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
