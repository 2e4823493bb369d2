package shadow

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/umbra/pkg/math"
)

// Directional light shadow volume.
const (
	DirectionalHalfExtent = 7.0
	DirectionalNear       = 0.1
	DirectionalFar        = 12.0
	DirectionalBias       = 0.001

	// DirectionalEyeOffset is how far back along the direction the
	// light's eye is placed.
	DirectionalEyeOffset = 6.0
)

// Point light shadow frustum.
const (
	PointFOV  = 60.0 // degrees
	PointNear = 0.1
	PointFar  = 10.0
	PointBias = 0.000075
)

// colinearLimit is the |y| above which a unit direction is treated as
// parallel to world up.
const colinearLimit = 0.99

// upFor returns an up vector that is not parallel to dir.
func upFor(dir math.Vec3) math.Vec3 {
	if math32.Abs(dir.Y) > colinearLimit {
		if dir.Y < 0 {
			return math.Vec3{X: 0, Y: 0, Z: -1}
		}
		return math.Vec3{X: 0, Y: 0, Z: 1}
	}
	return math.WorldUp
}

// DirectionalView returns the view for a directional light. dir must be
// normalized. The eye sits at -dir*DirectionalEyeOffset looking along dir.
func DirectionalView(dir math.Vec3) math.Mat4 {
	eye := dir.Neg().Scale(DirectionalEyeOffset)
	return math.LookAt(eye, eye.Add(dir), upFor(dir))
}

// PointView returns the view for a point light at pos. It always looks at
// the world origin, so shadows are only correct for geometry between the
// light and the origin.
func PointView(pos math.Vec3) math.Mat4 {
	return math.LookAt(pos, math.Vec3{}, upFor(pos.Neg().Normalize()))
}

// NewDirectional creates the orthographic descriptor for a normalized
// direction.
func NewDirectional(dir math.Vec3) *Descriptor {
	const e = DirectionalHalfExtent
	proj := math.Ortho(-e, e, -e, e, DirectionalNear, DirectionalFar)
	d, _ := NewDescriptor(proj, DirectionalView(dir), DirectionalNear, DirectionalFar, DirectionalBias, true)
	return d
}

// NewPoint creates the perspective descriptor for a point light at pos.
func NewPoint(pos math.Vec3, aspect float32) *Descriptor {
	if aspect <= 0 {
		aspect = 1
	}
	proj := math.Perspective(math.Radians(PointFOV), aspect, PointNear, PointFar)
	d, _ := NewDescriptor(proj, PointView(pos), PointNear, PointFar, PointBias, false)
	return d
}
