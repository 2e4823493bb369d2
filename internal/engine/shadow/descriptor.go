// Package shadow provides shadow mapping: per-light shadow descriptors
// (the light's projection and view) and the depth-only buffers they
// render into.
package shadow

import (
	"errors"
	"fmt"

	"github.com/Faultbox/umbra/pkg/math"
)

// ErrInvalidPlanes is returned for a projection whose planes do not
// satisfy 0 < near < far.
var ErrInvalidPlanes = errors.New("shadow: near and far planes must satisfy 0 < near < far")

// Descriptor defines a light's point of view for shadow computation.
type Descriptor struct {
	proj  math.Mat4
	view  math.Mat4
	near  float32
	far   float32
	bias  float32
	ortho bool
}

// NewDescriptor creates a descriptor from a projection and view pair.
func NewDescriptor(proj, view math.Mat4, near, far, bias float32, ortho bool) (*Descriptor, error) {
	if near <= 0 || far <= near {
		return nil, fmt.Errorf("%w (near=%g far=%g)", ErrInvalidPlanes, near, far)
	}
	return &Descriptor{
		proj:  proj,
		view:  view,
		near:  near,
		far:   far,
		bias:  bias,
		ortho: ortho,
	}, nil
}

// LightMatrix returns projection * view, mapping world space into the
// light's clip space. It is computed on every call because the view
// changes whenever the light moves.
func (d *Descriptor) LightMatrix() math.Mat4 {
	return d.proj.Mul(d.view)
}

// UpdateView replaces the view matrix.
func (d *Descriptor) UpdateView(view math.Mat4) {
	d.view = view
}

// Projection returns the projection matrix.
func (d *Descriptor) Projection() math.Mat4 { return d.proj }

// View returns the view matrix.
func (d *Descriptor) View() math.Mat4 { return d.view }

// Near returns the near plane distance.
func (d *Descriptor) Near() float32 { return d.near }

// Far returns the far plane distance.
func (d *Descriptor) Far() float32 { return d.far }

// Bias returns the depth comparison bias.
func (d *Descriptor) Bias() float32 { return d.bias }

// IsOrthographic reports whether the projection is orthographic.
func (d *Descriptor) IsOrthographic() bool { return d.ortho }
