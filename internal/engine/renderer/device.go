package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/umbra/internal/logger"
	"github.com/Faultbox/umbra/pkg/math"
)

// Device is the fixed-function GL state the renderer changes between
// passes.
type Device interface {
	// BindTarget makes fbo the draw target with a viewport of w x h.
	BindTarget(fbo uint32, w, h int32)
	// Clear clears color and depth of the bound target.
	Clear(color math.Vec3)
	SetPolygonOffset(enabled bool, factor, units float32)
	SetWireframe(enabled bool)
	// SetSkyboxState switches to clockwise front faces with depth writes
	// off, and back.
	SetSkyboxState(enabled bool)
	SetCullFace(enabled bool)
}

// Info describes the GL implementation.
type Info struct {
	Vendor   string
	Renderer string
	Version  string
}

// InitGL loads the GL function pointers for the current context.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func InitGL() (Info, error) {
	if err := gl.Init(); err != nil {
		return Info{}, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	info := Info{
		Vendor:   gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
	}
	logger.Info("OpenGL initialized",
		zap.String("vendor", info.Vendor),
		zap.String("renderer", info.Renderer),
		zap.String("version", info.Version),
	)
	return info, nil
}

// GLDevice implements Device on the current GL context.
type GLDevice struct{}

// NewGLDevice sets the default state: depth testing with LEQUAL so the
// skybox, drawn at the far plane, passes.
func NewGLDevice() *GLDevice {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.FrontFace(gl.CCW)
	gl.CullFace(gl.BACK)
	return &GLDevice{}
}

func (d *GLDevice) BindTarget(fbo uint32, w, h int32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.Viewport(0, 0, w, h)
}

func (d *GLDevice) Clear(c math.Vec3) {
	gl.ClearColor(c.X, c.Y, c.Z, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *GLDevice) SetPolygonOffset(enabled bool, factor, units float32) {
	if !enabled {
		gl.Disable(gl.POLYGON_OFFSET_FILL)
		return
	}
	gl.Enable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(factor, units)
}

func (d *GLDevice) SetWireframe(enabled bool) {
	mode := uint32(gl.FILL)
	if enabled {
		mode = gl.LINE
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, mode)
}

func (d *GLDevice) SetSkyboxState(enabled bool) {
	if enabled {
		gl.FrontFace(gl.CW)
		gl.DepthMask(false)
		return
	}
	gl.FrontFace(gl.CCW)
	gl.DepthMask(true)
}

func (d *GLDevice) SetCullFace(enabled bool) {
	if enabled {
		gl.Enable(gl.CULL_FACE)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
}
