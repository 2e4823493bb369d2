package lighting

import (
	"fmt"

	"github.com/Faultbox/umbra/pkg/math"
)

// Uniforms is the part of a shader program the light model writes to.
type Uniforms interface {
	SetVec3(name string, v math.Vec3)
	SetFloat(name string, f float32)
	SetInt(name string, i int32)
}

// ResolveUniforms writes l into the program's light arrays at the light's
// id. shadowSlot is the index of the light's shadow map.
func ResolveUniforms(l *Light, u Uniforms, shadowSlot int) {
	var prefix string
	switch l.kind {
	case KindPoint:
		prefix = fmt.Sprintf("pointLights[%d]", l.id)
		u.SetVec3(prefix+".position", l.position)
		u.SetFloat(prefix+".attenuation.quadratic", l.attenuation.Quadratic)
		u.SetFloat(prefix+".attenuation.linear", l.attenuation.Linear)
		u.SetFloat(prefix+".attenuation.constant", l.attenuation.Constant)
	case KindDirectional:
		prefix = fmt.Sprintf("directionalLights[%d]", l.id)
		u.SetVec3(prefix+".direction", l.direction)
	default:
		panic(fmt.Sprintf("lighting: unknown light kind %d", l.kind))
	}

	u.SetInt(prefix+".light.shadowIndex", int32(shadowSlot))
	u.SetVec3(prefix+".light.ambient", l.Ambient())
	u.SetVec3(prefix+".light.diffuse", l.Diffuse())
	u.SetVec3(prefix+".light.specular", l.Specular())
}
