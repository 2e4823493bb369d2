package ui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/umbra/internal/engine/input"
)

var imguiKeys = []struct {
	from imgui.Key
	to   input.Key
}{
	{imgui.KeyW, input.KeyW},
	{imgui.KeyA, input.KeyA},
	{imgui.KeyS, input.KeyS},
	{imgui.KeyD, input.KeyD},
	{imgui.KeyQ, input.KeyQ},
	{imgui.KeyE, input.KeyE},
	{imgui.KeyF, input.KeyF},
	{imgui.KeyC, input.KeyC},
	{imgui.KeyTab, input.KeyTab},
	{imgui.KeyEscape, input.KeyEscape},
	{imgui.KeyF12, input.KeyF12},
}

// keyState answers key queries for the current ImGui frame.
type keyState interface {
	Pressed(k imgui.Key) bool
	Down(k imgui.Key) bool
}

type liveKeys struct{}

func (liveKeys) Pressed(k imgui.Key) bool { return imgui.IsKeyChordPressed(imgui.KeyChord(k)) }
func (liveKeys) Down(k imgui.Key) bool    { return imgui.IsKeyDown(k) }

// pushKeys turns ImGui key state into key events. Keys released since the
// last frame produce a key up.
func pushKeys(in *input.Input, ks keyState) {
	for _, m := range imguiKeys {
		switch {
		case ks.Pressed(m.from):
			in.Push(input.Event{Type: input.EventKeyDown, Key: m.to})
		case in.Down(m.to) && !ks.Down(m.from):
			in.Push(input.Event{Type: input.EventKeyUp, Key: m.to})
		}
	}
}

// clickSlop is how far in pixels the mouse may travel between press and
// release for the drag to count as a click.
const clickSlop = 3

// viewportMouse turns left-button drags over the viewport image into
// mouse motion. It stands in for cursor capture: the camera looks around
// only while a drag that started on the viewport is in progress. A drag
// that barely moves is reported as a click instead.
type viewportMouse struct {
	hovered  bool
	dragging bool
	last     imgui.Vec2

	start   imgui.Vec2
	clicked bool
}

// update records the mouse state for this frame and pushes the motion
// since the previous one. down is the left button state.
func (m *viewportMouse) update(in *input.Input, pos imgui.Vec2, down bool) {
	switch {
	case down && m.dragging:
		dx, dy := pos.X-m.last.X, pos.Y-m.last.Y
		if dx != 0 || dy != 0 {
			in.Push(input.Event{Type: input.EventMouseMove, DX: dx, DY: dy})
		}
	case down && m.hovered:
		m.dragging = true
		m.start = pos
	default:
		if m.dragging && !down {
			dx, dy := pos.X-m.start.X, pos.Y-m.start.Y
			m.clicked = dx*dx+dy*dy <= clickSlop*clickSlop
		}
		m.dragging = false
	}
	m.last = pos
}

// click returns the position of a click completed this frame.
func (m *viewportMouse) click() (imgui.Vec2, bool) {
	if !m.clicked {
		return imgui.Vec2{}, false
	}
	m.clicked = false
	return m.start, true
}

// SetMouseCaptured ends a drag when released. Capture itself only starts
// from a drag.
func (m *viewportMouse) SetMouseCaptured(captured bool) {
	if !captured {
		m.dragging = false
	}
}

// MouseCaptured reports whether a viewport drag is in progress.
func (m *viewportMouse) MouseCaptured() bool { return m.dragging }
