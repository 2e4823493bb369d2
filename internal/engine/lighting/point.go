package lighting

import (
	"github.com/Faultbox/umbra/internal/engine/shadow"
	"github.com/Faultbox/umbra/pkg/math"
)

// NewPointLight creates a point light without shadow data. Call
// CreateShadowData once the viewport aspect ratio is known.
func NewPointLight(id int, pos, color math.Vec3, intensity float32, att Attenuation) (*Light, error) {
	l, err := newLight(KindPoint, id, color, intensity)
	if err != nil {
		return nil, err
	}
	l.position = pos
	l.attenuation = att
	return l, nil
}

// CreateShadowData gives a point light a perspective shadow descriptor.
// The light's shadow view always faces the world origin, so a light
// placed exactly at the origin gets a degenerate view.
func (l *Light) CreateShadowData(aspect float32) {
	if l.kind != KindPoint {
		return
	}
	l.shadow = shadow.NewPoint(l.position, aspect)
}

// Position returns a point light's position.
func (l *Light) Position() math.Vec3 { return l.position }

// SetPosition moves a point light and refreshes its shadow view.
// It has no effect on directional lights.
func (l *Light) SetPosition(pos math.Vec3) {
	if l.kind != KindPoint {
		return
	}
	l.position = pos
	if l.shadow != nil {
		l.shadow.UpdateView(shadow.PointView(pos))
	}
}

// Attenuation returns a point light's falloff.
func (l *Light) Attenuation() Attenuation { return l.attenuation }

// SetAttenuation replaces a point light's falloff.
func (l *Light) SetAttenuation(att Attenuation) {
	l.attenuation = att
}
