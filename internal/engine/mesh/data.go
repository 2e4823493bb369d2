// Package mesh holds indexed triangle geometry: CPU-side Data, the
// built-in generators, an OBJ decoder, GL upload and a named store.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/umbra/pkg/math"
)

var (
	ErrEmptyMesh     = errors.New("mesh: no positions or indices")
	ErrIndexRange    = errors.New("mesh: index out of range")
	ErrAttributeSize = errors.New("mesh: attribute count does not match positions")
)

// Primitive selects how indices are assembled.
type Primitive uint8

const (
	Triangles Primitive = iota
	Lines
	TriangleStrip
)

func (p Primitive) String() string {
	switch p {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	case TriangleStrip:
		return "triangle-strip"
	default:
		return fmt.Sprintf("Primitive(%d)", p)
	}
}

// RestartIndex ends a strip when primitive restart is enabled.
const RestartIndex = 0xFFFF

// Data is mesh geometry ready for upload. Normals and TexCoords are
// either empty or one per position.
type Data struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	TexCoords [][2]float32
	Indices   []uint32

	// Primitive is the mode the mesh is normally drawn with.
	Primitive Primitive
	// Restart enables primitive restart on RestartIndex.
	Restart bool
}

// Validate checks attribute counts and index bounds.
func (d *Data) Validate() error {
	if len(d.Positions) == 0 || len(d.Indices) == 0 {
		return ErrEmptyMesh
	}
	if len(d.Normals) != 0 && len(d.Normals) != len(d.Positions) {
		return fmt.Errorf("%w: %d normals for %d positions", ErrAttributeSize, len(d.Normals), len(d.Positions))
	}
	if len(d.TexCoords) != 0 && len(d.TexCoords) != len(d.Positions) {
		return fmt.Errorf("%w: %d texcoords for %d positions", ErrAttributeSize, len(d.TexCoords), len(d.Positions))
	}
	for i, idx := range d.Indices {
		if d.Restart && idx == RestartIndex {
			continue
		}
		if int(idx) >= len(d.Positions) {
			return fmt.Errorf("%w: indices[%d] = %d, %d positions", ErrIndexRange, i, idx, len(d.Positions))
		}
	}
	return nil
}

// Bounds returns the corners of the box enclosing every position.
func (d *Data) Bounds() (lo, hi math.Vec3) {
	if len(d.Positions) == 0 {
		return
	}
	lo, hi = d.Positions[0], d.Positions[0]
	for _, p := range d.Positions[1:] {
		lo = math.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = math.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	return lo, hi
}

// GenerateNormals computes smooth vertex normals for an indexed triangle
// list. Each face contributes its area-weighted normal to its vertices.
func GenerateNormals(positions []math.Vec3, indices []uint32) []math.Vec3 {
	normals := make([]math.Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		face := positions[b].Sub(positions[a]).Cross(positions[c].Sub(positions[a]))
		normals[a] = normals[a].Add(face)
		normals[b] = normals[b].Add(face)
		normals[c] = normals[c].Add(face)
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	return normals
}
