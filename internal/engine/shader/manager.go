package shader

import (
	"fmt"
	"io/fs"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/umbra/internal/logger"
)

// Compiler builds a Program from GLSL sources.
type Compiler func(vertexSrc, fragmentSrc string) (Program, error)

// GLCompiler compiles programs on the current GL context.
func GLCompiler(vertexSrc, fragmentSrc string) (Program, error) {
	return NewGLProgram(vertexSrc, fragmentSrc)
}

type destroyer interface {
	Destroy()
}

// Manager owns named programs. It is used from the render thread only.
type Manager struct {
	compile  Compiler
	sources  fs.FS
	programs map[string]Program
	log      *zap.Logger
}

// NewManager creates a manager that compiles with compile and reads
// program sources from sources (see Sources).
func NewManager(compile Compiler, sources fs.FS) *Manager {
	return &Manager{
		compile:  compile,
		sources:  sources,
		programs: make(map[string]Program),
		log:      logger.Named("shader"),
	}
}

// Register compiles a program and stores it under name, replacing and
// destroying any program already registered there.
func (m *Manager) Register(name, vertexSrc, fragmentSrc string) error {
	prog, err := m.compile(vertexSrc, fragmentSrc)
	if err != nil {
		return fmt.Errorf("register %q: %w", name, err)
	}
	if old, ok := m.programs[name]; ok {
		if d, ok := old.(destroyer); ok {
			d.Destroy()
		}
	}
	m.programs[name] = prog
	m.log.Debug("program registered", zap.String("name", name))
	return nil
}

// Load reads a program from the manager's sources and registers it.
func (m *Manager) Load(name string) error {
	src, err := ReadSource(m.sources, name)
	if err != nil {
		return err
	}
	return m.Register(name, src.Vertex, src.Fragment)
}

// LoadBuiltins loads every program in Builtins.
func (m *Manager) LoadBuiltins() error {
	for _, name := range Builtins {
		if err := m.Load(name); err != nil {
			return err
		}
	}
	return nil
}

// Reload recompiles name from its sources. On failure the previous
// program stays in place and the error is logged.
func (m *Manager) Reload(name string) {
	if _, ok := m.programs[name]; !ok {
		m.log.Debug("ignoring change to unknown program", zap.String("name", name))
		return
	}
	if err := m.Load(name); err != nil {
		m.log.Error("shader reload failed", zap.String("name", name), zap.Error(err))
		return
	}
	m.log.Info("shader reloaded", zap.String("name", name))
}

// Get returns the program registered under name.
func (m *Manager) Get(name string) (Program, error) {
	prog, ok := m.programs[name]
	if !ok {
		m.log.Error("program not found", zap.String("name", name))
		return nil, fmt.Errorf("%w: %q", ErrProgramNotFound, name)
	}
	return prog, nil
}

// MustGet is like Get but panics when the program is missing.
func (m *Manager) MustGet(name string) Program {
	prog, err := m.Get(name)
	if err != nil {
		panic(err)
	}
	return prog
}

// Names returns the registered program names in sorted order.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.programs))
	for name := range m.programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Destroy releases every program.
func (m *Manager) Destroy() {
	for name, prog := range m.programs {
		if d, ok := prog.(destroyer); ok {
			d.Destroy()
		}
		delete(m.programs, name)
	}
}
