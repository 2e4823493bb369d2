package window

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/umbra/internal/engine/input"
	"github.com/Faultbox/umbra/internal/logger"
)

var sdlKeys = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_W:      input.KeyW,
	sdl.SCANCODE_A:      input.KeyA,
	sdl.SCANCODE_S:      input.KeyS,
	sdl.SCANCODE_D:      input.KeyD,
	sdl.SCANCODE_Q:      input.KeyQ,
	sdl.SCANCODE_E:      input.KeyE,
	sdl.SCANCODE_F:      input.KeyF,
	sdl.SCANCODE_C:      input.KeyC,
	sdl.SCANCODE_TAB:    input.KeyTab,
	sdl.SCANCODE_ESCAPE: input.KeyEscape,
	sdl.SCANCODE_F12:    input.KeyF12,
}

var sdlButtons = map[uint8]input.Button{
	sdl.BUTTON_LEFT:   input.ButtonLeft,
	sdl.BUTTON_RIGHT:  input.ButtonRight,
	sdl.BUTTON_MIDDLE: input.ButtonMiddle,
}

// SDL is the SDL2 window backend.
type SDL struct {
	win      *sdl.Window
	ctx      sdl.GLContext
	closed   bool
	captured bool
	log      *zap.Logger
}

// NewSDL creates an SDL2 window with an OpenGL 4.1 core context.
func NewSDL(cfg Config) (*SDL, error) {
	w := &SDL{log: logger.Named("window")}

	w.log.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// Attributes must be set before the window is created.
	// OpenGL 4.1 core is the newest profile macOS supports.
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)
	if cfg.MSAASamples > 0 {
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLEBUFFERS, 1)
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLESAMPLES, cfg.MSAASamples)
	}

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	var err error
	w.win, err = sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height), flags)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.ctx, err = w.win.GLCreateContext()
	if err != nil {
		w.win.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		w.log.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	w.log.Info("window created",
		zap.String("backend", BackendSDL),
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
		zap.Int("msaa", cfg.MSAASamples),
	)
	return w, nil
}

// PollEvents drains the SDL event queue into in.
func (w *SDL) PollEvents(in *input.Input) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			w.closed = true
			in.Push(input.Event{Type: input.EventQuit})

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				width, height := w.Size()
				in.Push(input.Event{Type: input.EventWindowResize, Width: width, Height: height})
			case sdl.WINDOWEVENT_FOCUS_LOST:
				in.Push(input.Event{Type: input.EventFocusLost})
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			key := sdlKeys[e.Keysym.Scancode]
			if e.Type == sdl.KEYDOWN {
				in.Push(input.Event{Type: input.EventKeyDown, Key: key})
			} else {
				in.Push(input.Event{Type: input.EventKeyUp, Key: key})
			}

		case *sdl.MouseMotionEvent:
			in.Push(input.Event{Type: input.EventMouseMove, DX: float32(e.XRel), DY: float32(e.YRel)})

		case *sdl.MouseButtonEvent:
			t := input.EventMouseUp
			if e.Type == sdl.MOUSEBUTTONDOWN {
				t = input.EventMouseDown
			}
			in.Push(input.Event{Type: t, Button: sdlButtons[e.Button]})
		}
	}
}

// ShouldClose reports whether the user asked to close the window.
func (w *SDL) ShouldClose() bool { return w.closed }

// SwapBuffers presents the back buffer.
func (w *SDL) SwapBuffers() { w.win.GLSwap() }

// Size returns the drawable size, which differs from the window size on
// high-DPI displays.
func (w *SDL) Size() (int, int) {
	width, height := w.win.GLGetDrawableSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *SDL) SetTitle(title string) { w.win.SetTitle(title) }

// SetMouseCaptured switches SDL relative mouse mode.
func (w *SDL) SetMouseCaptured(captured bool) {
	sdl.SetRelativeMouseMode(captured)
	w.captured = captured
}

// MouseCaptured reports whether relative mouse mode is on.
func (w *SDL) MouseCaptured() bool { return w.captured }

// Close destroys the context and window and shuts SDL down.
func (w *SDL) Close() {
	w.log.Info("closing window")
	if w.ctx != nil {
		sdl.GLDeleteContext(w.ctx)
	}
	if w.win != nil {
		w.win.Destroy()
	}
	sdl.Quit()
}
