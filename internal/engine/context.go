// Package engine ties the window, scene, camera and renderer together and
// runs the frame loop.
package engine

import (
	"github.com/Faultbox/umbra/internal/engine/camera"
	"github.com/Faultbox/umbra/internal/engine/renderer"
	"github.com/Faultbox/umbra/internal/engine/scene"
)

// Context is the state shared between the engine loop and the inspector.
// The inspector edits it directly; the loop applies it at the start of
// every frame.
type Context struct {
	Scene    *scene.Scene
	Camera   *camera.Camera
	Renderer *renderer.Renderer
	GL       renderer.Info
	Stats    *Stats

	BackfaceCulling bool

	dirty bool
}

// Invalidate marks scene-wide uniforms (ambient color, light counts) as
// stale so they are uploaded again before the next frame.
func (c *Context) Invalidate() { c.dirty = true }

// takeDirty reports and clears the stale flag.
func (c *Context) takeDirty() bool {
	d := c.dirty
	c.dirty = false
	return d
}
