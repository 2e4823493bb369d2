package engine

import (
	"github.com/Faultbox/umbra/internal/engine/camera"
	"github.com/Faultbox/umbra/internal/engine/input"
)

// Cursor is the mouse capture state of whatever hosts the view.
type Cursor interface {
	SetMouseCaptured(captured bool)
	MouseCaptured() bool
}

// Toggles are the render modes bound to keys.
type Toggles interface {
	ToggleWireframe()
	ToggleShadowMapView()
	NextShadowMapView(lightCount int)
}

var moveKeys = []struct {
	key input.Key
	dir camera.MoveDirection
}{
	{input.KeyW, camera.Forward},
	{input.KeyS, camera.Backward},
	{input.KeyA, camera.Left},
	{input.KeyD, camera.Right},
	{input.KeyQ, camera.Up},
	{input.KeyE, camera.Down},
}

// Action is a one-shot request raised by a key press.
type Action uint8

const (
	// ActionScreenshot asks for the next rendered frame to be saved.
	ActionScreenshot Action = 1 << iota
)

const ActionNone Action = 0

// applyControls applies one frame of input to the camera and render
// toggles.
func applyControls(in *input.Input, dt float32, cam *camera.Camera, t Toggles, cur Cursor, lightCount int) Action {
	if in.Pressed(input.KeyEscape) {
		cur.SetMouseCaptured(false)
	} else if in.Clicked(input.ButtonLeft) && !cur.MouseCaptured() {
		cur.SetMouseCaptured(true)
	}

	if cur.MouseCaptured() {
		// Screen y grows downwards, pitch grows upwards.
		dx, dy := in.MouseDelta()
		if dx != 0 || dy != 0 {
			cam.UpdateOrientation(dx, -dy)
		}
	}

	for _, m := range moveKeys {
		if in.Down(m.key) {
			cam.CalculateVelocity(m.dir, dt)
		}
	}
	cam.UpdatePosition(dt)

	if in.Pressed(input.KeyF) {
		t.ToggleWireframe()
	}
	if in.Pressed(input.KeyTab) {
		t.ToggleShadowMapView()
	}
	if in.Pressed(input.KeyC) {
		t.NextShadowMapView(lightCount)
	}

	action := ActionNone
	if in.Pressed(input.KeyF12) {
		action |= ActionScreenshot
	}
	return action
}
