package lighting

import (
	"github.com/Faultbox/umbra/internal/engine/shadow"
	"github.com/Faultbox/umbra/pkg/math"
)

// NewDirectionalLight creates a directional light with an orthographic
// shadow descriptor. dir is normalized; a vector with no usable length
// is rejected.
func NewDirectionalLight(id int, dir, color math.Vec3, intensity float32) (*Light, error) {
	unit, ok := unitDirection(dir)
	if !ok {
		return nil, ErrZeroDirection
	}
	l, err := newLight(KindDirectional, id, color, intensity)
	if err != nil {
		return nil, err
	}
	l.direction = unit
	l.shadow = shadow.NewDirectional(l.direction)
	return l, nil
}

// unitDirection normalizes dir. It fails for zero, NaN and vectors whose
// length underflows or overflows float32, all of which normalize to
// something other than a unit vector.
func unitDirection(dir math.Vec3) (math.Vec3, bool) {
	n := dir.Normalize()
	return n, n.Length() > 0.5
}

// Direction returns a directional light's unit direction.
func (l *Light) Direction() math.Vec3 { return l.direction }

// SetDirection re-aims a directional light. A vector with no usable
// length is ignored and the previous direction kept.
func (l *Light) SetDirection(dir math.Vec3) {
	if l.kind != KindDirectional {
		return
	}
	unit, ok := unitDirection(dir)
	if !ok {
		return
	}
	l.direction = unit
	if l.shadow != nil {
		l.shadow.UpdateView(shadow.DirectionalView(l.direction))
	}
}
