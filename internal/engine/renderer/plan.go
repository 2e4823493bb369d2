package renderer

import (
	"fmt"

	"github.com/Faultbox/umbra/internal/engine/scene"
)

// State is one stage of a frame.
type State uint8

const (
	// StateUniforms writes the camera position and every light to the
	// lit programs.
	StateUniforms State = iota
	// StateWireframe draws all geometry as flat white lines. It replaces
	// every stage after StateUniforms.
	StateWireframe
	// StateShadowPass renders depth from one light into its shadow map.
	StateShadowPass
	// StateShaded draws the skybox and the lit, shadowed entities.
	StateShaded
	// StateShadowMapView overlays one shadow map on the output.
	StateShadowMapView
	// StatePointLightMarkers draws a small sphere at every point light.
	StatePointLightMarkers
)

func (s State) String() string {
	switch s {
	case StateUniforms:
		return "Uniforms"
	case StateWireframe:
		return "Wireframe"
	case StateShadowPass:
		return "ShadowPass"
	case StateShaded:
		return "Shaded"
	case StateShadowMapView:
		return "ShadowMapView"
	case StatePointLightMarkers:
		return "PointLightMarkers"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// Step is a State bound to a light slot. Slot is only meaningful for
// StateShadowPass and StateShadowMapView.
type Step struct {
	State State
	Slot  int
}

func (s Step) String() string {
	if s.State == StateShadowPass || s.State == StateShadowMapView {
		return fmt.Sprintf("%s(%d)", s.State, s.Slot)
	}
	return s.State.String()
}

// Frame is the ordered list of steps for one call to Render.
type Frame []Step

// Plan returns the steps Render would execute for s with the current
// toggles.
func (r *Renderer) Plan(s *scene.Scene) Frame {
	frame := Frame{{State: StateUniforms}}
	if r.wireframe {
		return append(frame, Step{State: StateWireframe})
	}

	for slot, l := range s.Lights() {
		if l.Shadow() != nil {
			frame = append(frame, Step{State: StateShadowPass, Slot: slot})
		}
	}
	frame = append(frame, Step{State: StateShaded})

	if r.shadowView {
		if l := s.Light(r.shadowViewIdx); l != nil && l.Shadow() != nil {
			frame = append(frame, Step{State: StateShadowMapView, Slot: r.shadowViewIdx})
		}
	}
	if s.PointLightCount() > 0 {
		frame = append(frame, Step{State: StatePointLightMarkers})
	}
	return frame
}
