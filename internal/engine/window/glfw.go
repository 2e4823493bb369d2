package window

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/Faultbox/umbra/internal/engine/input"
	"github.com/Faultbox/umbra/internal/logger"
)

var glfwKeys = map[glfw.Key]input.Key{
	glfw.KeyW:      input.KeyW,
	glfw.KeyA:      input.KeyA,
	glfw.KeyS:      input.KeyS,
	glfw.KeyD:      input.KeyD,
	glfw.KeyQ:      input.KeyQ,
	glfw.KeyE:      input.KeyE,
	glfw.KeyF:      input.KeyF,
	glfw.KeyC:      input.KeyC,
	glfw.KeyTab:    input.KeyTab,
	glfw.KeyEscape: input.KeyEscape,
	glfw.KeyF12:    input.KeyF12,
}

var glfwButtons = map[glfw.MouseButton]input.Button{
	glfw.MouseButtonLeft:   input.ButtonLeft,
	glfw.MouseButtonRight:  input.ButtonRight,
	glfw.MouseButtonMiddle: input.ButtonMiddle,
}

// GLFW is the GLFW window backend. GLFW reports input through callbacks,
// so events are queued there and handed out by PollEvents.
type GLFW struct {
	win      *glfw.Window
	pending  []input.Event
	captured bool

	// Cursor position of the previous motion callback.
	lastX, lastY float64
	haveLast     bool

	log *zap.Logger
}

// NewGLFW creates a GLFW window with an OpenGL 4.1 core context.
func NewGLFW(cfg Config) (*GLFW, error) {
	w := &GLFW{log: logger.Named("window")}

	w.log.Info("initializing GLFW")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	if cfg.MSAASamples > 0 {
		glfw.WindowHint(glfw.Samples, cfg.MSAASamples)
	}

	var monitor *glfw.Monitor
	if cfg.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}
	w.win = win
	win.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		switch action {
		case glfw.Press:
			w.pending = append(w.pending, input.Event{Type: input.EventKeyDown, Key: glfwKeys[key]})
		case glfw.Release:
			w.pending = append(w.pending, input.Event{Type: input.EventKeyUp, Key: glfwKeys[key]})
		}
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		t := input.EventMouseUp
		if action == glfw.Press {
			t = input.EventMouseDown
		}
		w.pending = append(w.pending, input.Event{Type: t, Button: glfwButtons[button]})
	})

	// GLFW reports absolute positions; the engine wants motion deltas.
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if w.haveLast {
			w.pending = append(w.pending, input.Event{
				Type: input.EventMouseMove,
				DX:   float32(x - w.lastX),
				DY:   float32(y - w.lastY),
			})
		}
		w.lastX, w.lastY, w.haveLast = x, y, true
	})

	// Framebuffer size is in pixels, unlike the window size on high-DPI
	// displays.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.pending = append(w.pending, input.Event{Type: input.EventWindowResize, Width: width, Height: height})
	})

	win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		if !focused {
			w.pending = append(w.pending, input.Event{Type: input.EventFocusLost})
			w.haveLast = false
		}
	})

	w.log.Info("window created",
		zap.String("backend", BackendGLFW),
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
		zap.Int("msaa", cfg.MSAASamples),
	)
	return w, nil
}

// PollEvents runs the GLFW callbacks and pushes what they queued into in.
func (w *GLFW) PollEvents(in *input.Input) {
	glfw.PollEvents()
	for _, e := range w.pending {
		in.Push(e)
	}
	w.pending = w.pending[:0]
	if w.win.ShouldClose() {
		in.Push(input.Event{Type: input.EventQuit})
	}
}

// ShouldClose reports whether the user asked to close the window.
func (w *GLFW) ShouldClose() bool { return w.win.ShouldClose() }

// SwapBuffers presents the back buffer.
func (w *GLFW) SwapBuffers() { w.win.SwapBuffers() }

// Size returns the framebuffer size in pixels.
func (w *GLFW) Size() (int, int) { return w.win.GetFramebufferSize() }

// SetTitle sets the window title.
func (w *GLFW) SetTitle(title string) { w.win.SetTitle(title) }

// SetMouseCaptured disables the cursor, which gives unbounded motion.
func (w *GLFW) SetMouseCaptured(captured bool) {
	mode := glfw.CursorNormal
	if captured {
		mode = glfw.CursorDisabled
	}
	w.win.SetInputMode(glfw.CursorMode, mode)
	w.captured = captured
	w.haveLast = false
}

// MouseCaptured reports whether the cursor is disabled.
func (w *GLFW) MouseCaptured() bool { return w.captured }

// Close destroys the window and terminates GLFW.
func (w *GLFW) Close() {
	w.log.Info("closing window")
	if w.win != nil {
		w.win.Destroy()
	}
	glfw.Terminate()
}
