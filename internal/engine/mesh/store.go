package mesh

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/umbra/internal/logger"
	"github.com/Faultbox/umbra/pkg/math"
)

var (
	ErrDuplicateMesh = errors.New("mesh: name already registered")
	ErrMeshNotFound  = errors.New("mesh: not found")
)

// Names of the meshes every engine registers.
const (
	NamePlane   = "plane"
	NameCube    = "cube"
	NamePyramid = "pyramid"
	NameSphere  = "sphere"
	NameQuad    = "quad"
)

// Drawable is anything the renderer can draw.
type Drawable interface {
	Render(p Primitive)
	Primitive() Primitive
}

// ID is a handle into a Store. The zero ID is never valid.
type ID uint32

// Uploader turns CPU geometry into a Drawable.
type Uploader func(d *Data) (Drawable, error)

// GLUploader uploads geometry to the current GL context.
func GLUploader(d *Data) (Drawable, error) {
	return Upload(d)
}

type entry struct {
	name string
	mesh Drawable

	// lo and hi bound the geometry. Only meshes added from Data have them.
	lo, hi    math.Vec3
	hasBounds bool
}

// Store owns named meshes. Entities refer to meshes by ID.
type Store struct {
	names   map[string]ID
	entries []entry
	log     *zap.Logger
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		names: make(map[string]ID),
		log:   logger.Named("mesh"),
	}
}

// Add registers m under name.
func (s *Store) Add(name string, m Drawable) (ID, error) {
	return s.add(entry{name: name, mesh: m})
}

func (s *Store) add(e entry) (ID, error) {
	name := e.name
	if _, ok := s.names[name]; ok {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateMesh, name)
	}
	s.entries = append(s.entries, e)
	id := ID(len(s.entries))
	s.names[name] = id
	s.log.Debug("mesh added", zap.String("name", name), zap.Uint32("id", uint32(id)))
	return id, nil
}

// Lookup returns the ID registered under name.
func (s *Store) Lookup(name string) (ID, error) {
	id, ok := s.names[name]
	if !ok {
		s.log.Error("mesh not found", zap.String("name", name))
		return 0, fmt.Errorf("%w: %q", ErrMeshNotFound, name)
	}
	return id, nil
}

// Get returns the mesh for id, or nil if id is not valid.
func (s *Store) Get(id ID) Drawable {
	if id == 0 || int(id) > len(s.entries) {
		return nil
	}
	return s.entries[id-1].mesh
}

// Name returns the name id was registered under.
func (s *Store) Name(id ID) string {
	if id == 0 || int(id) > len(s.entries) {
		return ""
	}
	return s.entries[id-1].name
}

// Len returns the number of meshes.
func (s *Store) Len() int { return len(s.entries) }

// AddData uploads d and registers it under name.
func (s *Store) AddData(name string, d *Data, upload Uploader) (ID, error) {
	if _, ok := s.names[name]; ok {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateMesh, name)
	}
	m, err := upload(d)
	if err != nil {
		return 0, fmt.Errorf("upload %q: %w", name, err)
	}
	lo, hi := d.Bounds()
	return s.add(entry{name: name, mesh: m, lo: lo, hi: hi, hasBounds: true})
}

// Bounds returns the local bounding box of id. ok is false for unknown
// ids and for meshes added without their Data.
func (s *Store) Bounds(id ID) (lo, hi math.Vec3, ok bool) {
	if id == 0 || int(id) > len(s.entries) {
		return lo, hi, false
	}
	e := s.entries[id-1]
	return e.lo, e.hi, e.hasBounds
}

// AddBuiltins registers the plane, cube, pyramid, sphere and quad meshes.
func (s *Store) AddBuiltins(upload Uploader) error {
	builtins := []struct {
		name string
		data *Data
	}{
		{NamePlane, Plane(4)},
		{NameCube, Cube()},
		{NamePyramid, Pyramid()},
		{NameSphere, Sphere(24, 32)},
		{NameQuad, Quad()},
	}
	for _, b := range builtins {
		if _, err := s.AddData(b.name, b.data, upload); err != nil {
			return err
		}
	}
	return nil
}

type destroyer interface {
	Destroy()
}

// Destroy releases every mesh that holds GL resources.
func (s *Store) Destroy() {
	for _, e := range s.entries {
		if d, ok := e.mesh.(destroyer); ok {
			d.Destroy()
		}
	}
	s.entries = nil
	s.names = make(map[string]ID)
}
