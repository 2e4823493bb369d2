// Package window creates the OS window and its OpenGL 4.1 core context.
// SDL2 is the default backend; GLFW is available as an alternative.
package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Faultbox/umbra/internal/engine/input"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// ErrUnknownBackend is returned by New for an unsupported backend name.
var ErrUnknownBackend = errors.New("window: unknown backend")

// Backend names.
const (
	BackendSDL  = "sdl"
	BackendGLFW = "glfw"
)

// Config holds window configuration.
type Config struct {
	Title       string
	Width       int
	Height      int
	Fullscreen  bool
	VSync       bool
	MSAASamples int
	Backend     string
}

// Window is an OS window owning the GL context the engine draws with.
type Window interface {
	// PollEvents pushes pending events into in.
	PollEvents(in *input.Input)
	ShouldClose() bool
	SwapBuffers()
	// Size returns the drawable size in pixels.
	Size() (int, int)
	SetTitle(title string)
	// SetMouseCaptured hides the cursor and switches to relative motion.
	SetMouseCaptured(captured bool)
	MouseCaptured() bool
	Close()
}

// New creates a window with the configured backend.
func New(cfg Config) (Window, error) {
	switch cfg.Backend {
	case BackendSDL, "":
		return NewSDL(cfg)
	case BackendGLFW:
		return NewGLFW(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
