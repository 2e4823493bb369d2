// Package material describes how a surface reflects light.
package material

import (
	"github.com/Faultbox/umbra/internal/engine/shader"
	"github.com/Faultbox/umbra/internal/engine/texture"
	"github.com/Faultbox/umbra/pkg/math"
)

// DiffuseUnit is the texture unit the diffuse map is bound to.
const DiffuseUnit = 0

// DefaultShininess is the specular exponent of a new material.
const DefaultShininess = 32

// Material holds Phong reflectance terms and an optional diffuse map.
type Material struct {
	Ambient   math.Vec3
	Diffuse   math.Vec3
	Specular  math.Vec3
	Shininess float32

	diffuseMap texture.Handle
}

// New returns a white material with no texture.
func New() *Material {
	return &Material{
		Ambient:   math.Splat(1),
		Diffuse:   math.Splat(1),
		Specular:  math.Splat(1),
		Shininess: DefaultShininess,
	}
}

// SetDiffuseMap sets the texture sampled for the surface color. A nil
// handle removes it.
func (m *Material) SetDiffuseMap(tex texture.Handle) {
	m.diffuseMap = tex
}

// DiffuseMap returns the diffuse texture, or nil.
func (m *Material) DiffuseMap() texture.Handle { return m.diffuseMap }

// HasTexture reports whether a diffuse map is set.
func (m *Material) HasTexture() bool { return m.diffuseMap != nil }

// Apply binds the diffuse map and writes the material uniforms to p.
func (m *Material) Apply(p shader.Program) {
	if m.diffuseMap != nil {
		m.diffuseMap.Bind(DiffuseUnit)
	}
	p.SetVec3("material.ambient", m.Ambient)
	p.SetVec3("material.diffuse", m.Diffuse)
	p.SetVec3("material.specular", m.Specular)
	p.SetFloat("material.shininess", m.Shininess)
}
