// Package scene holds what gets rendered: entities, up to MaxLights
// lights, the global ambient term and an optional skybox.
package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/umbra/internal/engine/lighting"
	"github.com/Faultbox/umbra/internal/engine/mesh"
	"github.com/Faultbox/umbra/internal/engine/texture"
	"github.com/Faultbox/umbra/internal/logger"
	"github.com/Faultbox/umbra/pkg/math"
)

// MaxLights is the number of light slots, and of shadow maps.
const MaxLights = 4

var ErrTooManyLights = errors.New("scene: light capacity reached")

// DefaultAmbient is the global ambient color of a new scene.
var DefaultAmbient = math.Splat(0.1)

// Skybox is a cubemap drawn behind everything else.
type Skybox struct {
	Dir     string
	Cubemap texture.Handle
}

// Scene owns entities and lights. Lights occupy slots in creation order;
// the slot indexes the light's shadow map.
type Scene struct {
	lights     [MaxLights]*lighting.Light
	numLights  int
	numPoint   int
	numDir     int
	pointSlots []int

	entities []*Entity
	ambient  math.Vec3
	skybox   *Skybox

	log *zap.Logger
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		ambient: DefaultAmbient,
		log:     logger.Named("scene"),
	}
}

// AddEntity creates an entity drawing the mesh id. name is used for
// display only.
func (s *Scene) AddEntity(name string, id mesh.ID) (*Entity, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMesh, name)
	}
	e := newEntity(name, id)
	s.entities = append(s.entities, e)
	s.log.Debug("entity added", zap.String("mesh", name), zap.Int("count", len(s.entities)))
	return e, nil
}

func (s *Scene) checkCapacity() error {
	if s.numLights >= MaxLights {
		return fmt.Errorf("%w: %d/%d", ErrTooManyLights, s.numLights, MaxLights)
	}
	return nil
}

func (s *Scene) addLight(l *lighting.Light) int {
	slot := s.numLights
	s.lights[slot] = l
	s.numLights++
	s.log.Info("light added",
		zap.String("name", l.Name()),
		zap.Int("slot", slot),
		zap.Int("lights", s.numLights),
		zap.Int("max", MaxLights))
	return slot
}

// AddPointLight creates a point light. Its id is the number of point
// lights created before it.
func (s *Scene) AddPointLight(pos, color math.Vec3, intensity float32, att lighting.Attenuation) (*lighting.Light, error) {
	if err := s.checkCapacity(); err != nil {
		return nil, err
	}
	l, err := lighting.NewPointLight(s.numPoint, pos, color, intensity, att)
	if err != nil {
		return nil, err
	}
	s.numPoint++
	s.pointSlots = append(s.pointSlots, s.addLight(l))
	return l, nil
}

// AddDirectionalLight creates a directional light. Its id is the number
// of directional lights created before it.
func (s *Scene) AddDirectionalLight(dir, color math.Vec3, intensity float32) (*lighting.Light, error) {
	if err := s.checkCapacity(); err != nil {
		return nil, err
	}
	l, err := lighting.NewDirectionalLight(s.numDir, dir, color, intensity)
	if err != nil {
		return nil, err
	}
	s.numDir++
	s.addLight(l)
	return l, nil
}

// SetAmbient sets the global ambient color.
func (s *Scene) SetAmbient(c math.Vec3) error {
	if !lighting.IsValidColor(c) {
		return fmt.Errorf("%w: ambient %v", lighting.ErrInvalidColor, c)
	}
	s.ambient = c
	return nil
}

// Ambient returns the global ambient color.
func (s *Scene) Ambient() math.Vec3 { return s.ambient }

// SetSkybox replaces the skybox. nil removes it.
func (s *Scene) SetSkybox(sb *Skybox) { s.skybox = sb }

// Skybox returns the skybox, or nil.
func (s *Scene) Skybox() *Skybox { return s.skybox }

// Lights returns the occupied light slots in slot order.
func (s *Scene) Lights() []*lighting.Light { return s.lights[:s.numLights] }

// Light returns the light in slot, or nil.
func (s *Scene) Light(slot int) *lighting.Light {
	if slot < 0 || slot >= s.numLights {
		return nil
	}
	return s.lights[slot]
}

// PointLights returns the point lights in id order.
func (s *Scene) PointLights() []*lighting.Light {
	out := make([]*lighting.Light, len(s.pointSlots))
	for i, slot := range s.pointSlots {
		out[i] = s.lights[slot]
	}
	return out
}

// LightCount returns the number of lights.
func (s *Scene) LightCount() int { return s.numLights }

// PointLightCount returns the number of point lights.
func (s *Scene) PointLightCount() int { return s.numPoint }

// DirectionalLightCount returns the number of directional lights.
func (s *Scene) DirectionalLightCount() int { return s.numDir }

// Entities returns the entities in creation order.
func (s *Scene) Entities() []*Entity { return s.entities }
