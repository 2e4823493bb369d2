package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/umbra/internal/engine/material"
	"github.com/Faultbox/umbra/internal/engine/mesh"
	"github.com/Faultbox/umbra/pkg/math"
)

var (
	ErrInvalidScale = errors.New("scene: scale must be positive")
	ErrInvalidMesh  = errors.New("scene: entity needs a mesh")
)

// Entity is a placed instance of a shared mesh.
type Entity struct {
	name     string
	mesh     mesh.ID
	Material *material.Material

	Position math.Vec3
	// Rotation is in degrees about X, Y and Z.
	Rotation math.Vec3
	scale    float32
}

func newEntity(name string, id mesh.ID) *Entity {
	return &Entity{
		name:     name,
		mesh:     id,
		Material: material.New(),
		scale:    1,
	}
}

// Name returns the name of the mesh the entity was created from.
func (e *Entity) Name() string { return e.name }

// Mesh returns the handle of the entity's geometry.
func (e *Entity) Mesh() mesh.ID { return e.mesh }

// Scale returns the uniform scale factor.
func (e *Entity) Scale() float32 { return e.scale }

// SetScale sets the uniform scale factor.
func (e *Entity) SetScale(s float32) error {
	if !(s > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidScale, s)
	}
	e.scale = s
	return nil
}

// ModelMatrix returns T * RX * RY * RZ * S.
func (e *Entity) ModelMatrix() math.Mat4 {
	r := math.RotateX(math.Radians(e.Rotation.X)).
		Mul(math.RotateY(math.Radians(e.Rotation.Y))).
		Mul(math.RotateZ(math.Radians(e.Rotation.Z)))
	return math.Translate(e.Position).Mul(r).Mul(math.UniformScale(e.scale))
}
