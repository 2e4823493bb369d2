// Package camera provides the first-person fly camera used to view the scene.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/umbra/pkg/math"
)

// MoveDirection is a movement relative to the camera basis.
type MoveDirection int

const (
	Forward MoveDirection = iota
	Backward
	Left
	Right
	Up
	Down
)

// Default lens and control settings.
const (
	DefaultFOV         = 60.0 // degrees
	DefaultNear        = 0.01
	DefaultFar         = 100.0
	DefaultSensitivity = 0.1

	// MaxPitch keeps the forward vector off the world up axis.
	MaxPitch = 89.0
)

// Options configures the lens and mouse sensitivity.
type Options struct {
	FOV         float32 // vertical, degrees
	Near        float32
	Far         float32
	Sensitivity float32
}

// DefaultOptions returns the default camera options.
func DefaultOptions() Options {
	return Options{
		FOV:         DefaultFOV,
		Near:        DefaultNear,
		Far:         DefaultFar,
		Sensitivity: DefaultSensitivity,
	}
}

// Camera is a fly-through camera. Yaw and pitch are in degrees; yaw -90
// faces down -Z.
type Camera struct {
	opts Options

	position math.Vec3
	velocity math.Vec3

	yaw   float32
	pitch float32

	forward math.Vec3
	right   math.Vec3
	up      math.Vec3

	projection math.Mat4
}

// New creates a camera at the origin facing -Z with a projection for a
// width x height output.
func New(width, height int, opts Options) *Camera {
	c := &Camera{
		opts: opts,
		yaw:  -90,
	}
	c.updateBasis()
	c.SetProjection(width, height)
	return c
}

// UpdateOrientation applies a mouse delta. dy is positive when the mouse
// moves up.
func (c *Camera) UpdateOrientation(dx, dy float32) {
	c.yaw += dx * c.opts.Sensitivity
	c.pitch = math.Clamp(c.pitch+dy*c.opts.Sensitivity, -MaxPitch, MaxPitch)
	c.updateBasis()
}

func (c *Camera) updateBasis() {
	yaw, pitch := math.Radians(c.yaw), math.Radians(c.pitch)
	c.forward = math.Vec3{
		X: math32.Cos(yaw) * math32.Cos(pitch),
		Y: math32.Sin(pitch),
		Z: math32.Sin(yaw) * math32.Cos(pitch),
	}.Normalize()
	c.right = c.forward.Cross(math.WorldUp).Normalize()
	c.up = c.right.Cross(c.forward).Normalize()
}

// CalculateVelocity adds one unit step in dir to the velocity for this
// frame. Calls compose until UpdatePosition consumes them.
func (c *Camera) CalculateVelocity(dir MoveDirection, dt float32) {
	switch dir {
	case Forward:
		c.velocity = c.velocity.Add(c.forward)
	case Backward:
		c.velocity = c.velocity.Sub(c.forward)
	case Left:
		c.velocity = c.velocity.Sub(c.right)
	case Right:
		c.velocity = c.velocity.Add(c.right)
	case Up:
		c.velocity = c.velocity.Add(c.up)
	case Down:
		c.velocity = c.velocity.Sub(c.up)
	}
}

// UpdatePosition moves the camera by the normalized velocity over dt and
// resets the velocity.
func (c *Camera) UpdatePosition(dt float32) {
	if !c.velocity.IsZero() {
		c.position = c.position.Add(c.velocity.Normalize().Scale(dt))
	}
	c.velocity = math.Vec3{}
}

// SetProjection rebuilds the projection for a new output size.
func (c *Camera) SetProjection(width, height int) {
	if height < 1 {
		height = 1
	}
	aspect := float32(width) / float32(height)
	c.projection = math.Perspective(math.Radians(c.opts.FOV), aspect, c.opts.Near, c.opts.Far)
}

// ViewMatrix returns the view matrix, computed on every call.
func (c *Camera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.position, c.position.Add(c.forward), c.up)
}

// ProjectionMatrix returns the current projection.
func (c *Camera) ProjectionMatrix() math.Mat4 { return c.projection }

// Position returns the camera position.
func (c *Camera) Position() math.Vec3 { return c.position }

// SetPosition teleports the camera.
func (c *Camera) SetPosition(p math.Vec3) { c.position = p }

// Velocity returns the velocity accumulated since the last UpdatePosition.
func (c *Camera) Velocity() math.Vec3 { return c.velocity }

// Forward returns the unit view direction.
func (c *Camera) Forward() math.Vec3 { return c.forward }

// Right returns the unit right vector.
func (c *Camera) Right() math.Vec3 { return c.right }

// Up returns the unit up vector.
func (c *Camera) Up() math.Vec3 { return c.up }

// Yaw returns the yaw in degrees.
func (c *Camera) Yaw() float32 { return c.yaw }

// Pitch returns the pitch in degrees.
func (c *Camera) Pitch() float32 { return c.pitch }
