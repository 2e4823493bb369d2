// Package lighting implements the light model: point and directional
// lights sharing color, intensity and an optional shadow descriptor.
package lighting

import (
	"errors"
	"fmt"

	"github.com/Faultbox/umbra/internal/engine/shadow"
	"github.com/Faultbox/umbra/pkg/math"
)

// Configuration errors. All of them indicate bad scene content.
var (
	ErrInvalidColor     = errors.New("lighting: color channels must be in [0,1]")
	ErrInvalidIntensity = errors.New("lighting: intensity must be in [0,1]")
	ErrZeroDirection    = errors.New("lighting: direction must be non-zero")
)

// AmbientFactor scales the input color into the ambient term.
const AmbientFactor = 0.1

// Kind tags the light variant.
type Kind uint8

const (
	KindPoint Kind = iota
	KindDirectional
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "PointLight"
	case KindDirectional:
		return "DirectionalLight"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Attenuation is the point light falloff, 1 / (c + l*d + q*d^2).
type Attenuation struct {
	Constant  float32
	Linear    float32
	Quadratic float32
}

// DefaultAttenuation gives a light a useful range of roughly 30 units.
var DefaultAttenuation = Attenuation{Constant: 1.0, Linear: 0.14, Quadratic: 0.07}

// Light is a tagged union over the point and directional variants. Fields
// that do not belong to the light's Kind are zero and ignored.
type Light struct {
	kind Kind
	id   int

	ambient   math.Vec3
	diffuse   math.Vec3
	specular  math.Vec3
	intensity float32

	shadow *shadow.Descriptor

	// Point
	position    math.Vec3
	attenuation Attenuation

	// Directional
	direction math.Vec3
}

// IsValidColor reports whether every channel of c lies in [0,1].
func IsValidColor(c math.Vec3) bool {
	return c.X >= 0 && c.X <= 1 &&
		c.Y >= 0 && c.Y <= 1 &&
		c.Z >= 0 && c.Z <= 1
}

func newLight(kind Kind, id int, color math.Vec3, intensity float32) (*Light, error) {
	l := &Light{kind: kind, id: id}
	if err := l.SetColor(color); err != nil {
		return nil, err
	}
	if err := l.SetIntensity(intensity); err != nil {
		return nil, err
	}
	return l, nil
}

// Kind returns the light variant.
func (l *Light) Kind() Kind { return l.kind }

// ID returns the per-variant index used in the shader's light arrays.
func (l *Light) ID() int { return l.id }

// Name returns a display name such as "PointLight [0]".
func (l *Light) Name() string {
	return fmt.Sprintf("%s [%d]", l.kind, l.id)
}

// SetColor derives ambient, diffuse and specular from c.
func (l *Light) SetColor(c math.Vec3) error {
	if !IsValidColor(c) {
		return fmt.Errorf("%w: got %v", ErrInvalidColor, c)
	}
	l.ambient = c.Scale(AmbientFactor)
	l.diffuse = c
	l.specular = c
	return nil
}

// SetIntensity sets the multiplier applied when colors are read.
func (l *Light) SetIntensity(intensity float32) error {
	if intensity < 0 || intensity > 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidIntensity, intensity)
	}
	l.intensity = intensity
	return nil
}

// Intensity returns the intensity multiplier.
func (l *Light) Intensity() float32 { return l.intensity }

// Color returns the color given at construction, ignoring intensity.
func (l *Light) Color() math.Vec3 { return l.diffuse }

// Ambient returns the ambient term scaled by intensity.
func (l *Light) Ambient() math.Vec3 { return l.ambient.Scale(l.intensity) }

// Diffuse returns the diffuse term scaled by intensity.
func (l *Light) Diffuse() math.Vec3 { return l.diffuse.Scale(l.intensity) }

// Specular returns the specular term scaled by intensity.
func (l *Light) Specular() math.Vec3 { return l.specular.Scale(l.intensity) }

// Shadow returns the shadow descriptor, or nil if the light casts no shadows.
func (l *Light) Shadow() *shadow.Descriptor { return l.shadow }
