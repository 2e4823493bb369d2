package engine

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/umbra/internal/config"
	"github.com/Faultbox/umbra/internal/engine/camera"
	"github.com/Faultbox/umbra/internal/engine/debug"
	"github.com/Faultbox/umbra/internal/engine/framebuffer"
	"github.com/Faultbox/umbra/internal/engine/input"
	"github.com/Faultbox/umbra/internal/engine/mesh"
	"github.com/Faultbox/umbra/internal/engine/renderer"
	"github.com/Faultbox/umbra/internal/engine/scene"
	"github.com/Faultbox/umbra/internal/engine/shader"
	"github.com/Faultbox/umbra/internal/engine/shadow"
	"github.com/Faultbox/umbra/internal/engine/texture"
	"github.com/Faultbox/umbra/internal/engine/window"
	"github.com/Faultbox/umbra/internal/logger"
	"github.com/Faultbox/umbra/pkg/math"
)

// Engine owns every GL resource and drives one frame at a time. It must
// be created and used on the thread that owns the GL context.
type Engine struct {
	ctx *Context

	shaders  *shader.Manager
	watcher  *shader.Watcher
	meshes   *mesh.Store
	textures *texture.Store
	shadows  []*shadow.Map

	upload      mesh.Uploader
	loadCubemap func(dir string) (texture.Handle, error)

	title         string
	width, height int

	// offscreen is the render target in inspector mode.
	offscreen *framebuffer.Framebuffer

	screenshot        *debug.Screenshot
	pendingScreenshot bool

	log *zap.Logger
}

// New initializes GL and creates the engine for a width x height output.
// The GL context must already be current.
func New(cfg *config.Config, width, height int) (*Engine, error) {
	log := logger.Named("engine")

	info, err := renderer.InitGL()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		title:      cfg.Window.Title,
		width:      width,
		height:     height,
		upload:     mesh.GLUploader,
		screenshot: debug.NewScreenshot(cfg.Screenshot.Dir, ""),
		log:        log,
	}

	if err := e.loadAssets(cfg, shader.GLCompiler); err != nil {
		e.Destroy()
		return nil, err
	}

	buffers := make([]renderer.ShadowBuffer, scene.MaxLights)
	for i := range buffers {
		m, err := shadow.NewMap(int32(cfg.Shadow.Resolution))
		if err != nil {
			e.Destroy()
			return nil, fmt.Errorf("shadow map %d: %w", i, err)
		}
		e.shadows = append(e.shadows, m)
		buffers[i] = m
	}

	r, err := renderer.New(rendererConfig(cfg), renderer.NewGLDevice(), e.shaders, e.meshes,
		buffers, int32(width), int32(height))
	if err != nil {
		e.Destroy()
		return nil, err
	}

	e.ctx = &Context{
		Scene:    scene.New(),
		Camera:   camera.New(width, height, cameraOptions(cfg)),
		Renderer: r,
		GL:       info,
		Stats:    NewStats(StatsInterval),

		BackfaceCulling: cfg.Render.BackfaceCulling,
	}

	log.Info("engine ready",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("shadow_resolution", cfg.Shadow.Resolution),
		zap.Bool("hot_reload", e.watcher != nil))
	return e, nil
}

func rendererConfig(cfg *config.Config) renderer.Config {
	rc := renderer.DefaultConfig()
	rc.ClearColor = vec3(cfg.Render.ClearColor)
	rc.WireframeColor = vec3(cfg.Render.WireframeColor)
	rc.MarkerScale = cfg.Render.MarkerScale
	rc.OffsetFactor = cfg.Shadow.OffsetFactor
	rc.OffsetUnits = cfg.Shadow.OffsetUnits
	return rc
}

func cameraOptions(cfg *config.Config) camera.Options {
	return camera.Options{
		FOV:         cfg.Camera.FOV,
		Near:        cfg.Camera.Near,
		Far:         cfg.Camera.Far,
		Sensitivity: cfg.Camera.Sensitivity,
	}
}

func vec3(c [3]float32) math.Vec3 { return math.Vec3{X: c[0], Y: c[1], Z: c[2]} }

// Context returns the state shared with the inspector.
func (e *Engine) Context() *Context { return e.ctx }

// Camera returns the view camera.
func (e *Engine) Camera() *camera.Camera { return e.ctx.Camera }

// Scene returns the scene being rendered.
func (e *Engine) Scene() *scene.Scene { return e.ctx.Scene }

// Size returns the output size.
func (e *Engine) Size() (int, int) { return e.width, e.height }

// Resize rebuilds the camera projection and the render target size.
func (e *Engine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.width, e.height = width, height
	e.ctx.Camera.SetProjection(width, height)
	e.ctx.Renderer.Resize(int32(width), int32(height))
	e.log.Debug("resized", zap.Int("width", width), zap.Int("height", height))
}

// ReloadShaders recompiles every program whose sources changed on disk.
func (e *Engine) ReloadShaders() {
	if e.watcher == nil {
		return
	}
	names := e.watcher.Drain()
	for _, name := range names {
		e.shaders.Reload(name)
	}
	if len(names) > 0 {
		// New programs have none of the scene-wide uniforms set.
		e.ctx.Invalidate()
	}
}

// HandleInput applies one frame of input. dt is in seconds.
func (e *Engine) HandleInput(in *input.Input, dt float32, cur Cursor) {
	if w, h, ok := in.Resized(); ok {
		e.Resize(w, h)
	}
	action := applyControls(in, dt, e.ctx.Camera, e.ctx.Renderer, cur, e.ctx.Scene.LightCount())
	if action&ActionScreenshot != 0 {
		e.pendingScreenshot = true
	}
}

// RenderFrame draws the scene into the current target and takes a
// screenshot of it if one was requested.
func (e *Engine) RenderFrame() error {
	r := e.ctx.Renderer
	if e.ctx.takeDirty() {
		r.Invalidate()
	}
	r.SetCullFace(e.ctx.BackfaceCulling)

	if err := r.Render(e.ctx.Camera, e.ctx.Scene); err != nil {
		return err
	}

	if e.pendingScreenshot {
		e.pendingScreenshot = false
		e.takeScreenshot()
	}
	if e.offscreen != nil {
		// The inspector draws to the window after us.
		framebuffer.Unbind()
	}
	return nil
}

func (e *Engine) takeScreenshot() {
	w, h := e.ctx.Renderer.Size()
	var pixels []byte
	if e.offscreen != nil {
		pixels = e.offscreen.ReadPixels()
	} else {
		pixels = framebuffer.Read(0, w, h)
	}
	path, err := e.screenshot.Capture(pixels, int(w), int(h))
	if err != nil {
		e.log.Error("screenshot failed", zap.Error(err))
		return
	}
	e.log.Info("screenshot saved", zap.String("path", path))
}

// Tick records frame statistics and logs the frame rate once per
// interval. It reports whether the rate was updated.
func (e *Engine) Tick(dt time.Duration) bool {
	if !e.ctx.Stats.Tick(dt) {
		return false
	}
	e.log.Info("frame stats",
		zap.Float64("fps", e.ctx.Stats.FPS()),
		zap.Uint64("frames", e.ctx.Stats.Frames()))
	return true
}

// Title returns the window title with the current frame rate.
func (e *Engine) Title() string {
	return fmt.Sprintf("%s - %.0f FPS", e.title, e.ctx.Stats.FPS())
}

// Run drives win until it closes or ctx is cancelled.
func (e *Engine) Run(ctx context.Context, win window.Window) error {
	in := input.New()
	w, h := win.Size()
	e.Resize(w, h)

	last := time.Now()
	for ctx.Err() == nil && !win.ShouldClose() {
		now := time.Now()
		dt := now.Sub(last)
		last = now

		in.BeginFrame()
		win.PollEvents(in)
		if in.QuitRequested() {
			break
		}

		e.ReloadShaders()
		e.HandleInput(in, float32(dt.Seconds()), win)

		if err := e.RenderFrame(); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		win.SwapBuffers()
		if e.Tick(dt) {
			win.SetTitle(e.Title())
		}
	}

	e.log.Info("main loop stopped", zap.Uint64("frames", e.ctx.Stats.Frames()))
	return nil
}

// UseOffscreen renders into a framebuffer of the given size instead of
// the window. The inspector shows its color texture.
func (e *Engine) UseOffscreen(width, height int) error {
	fb, err := framebuffer.New(int32(width), int32(height))
	if err != nil {
		return err
	}
	if e.offscreen != nil {
		e.offscreen.Destroy()
	}
	e.offscreen = fb
	fw, fh := fb.Size()
	e.ctx.Renderer.SetTarget(fb.FBO(), fw, fh)
	e.Resize(int(fw), int(fh))
	return nil
}

// ResizeOffscreen resizes the offscreen target. It is a no-op outside
// inspector mode or when the size is unchanged.
func (e *Engine) ResizeOffscreen(width, height int) {
	if e.offscreen == nil || !e.offscreen.Resize(int32(width), int32(height)) {
		return
	}
	w, h := e.offscreen.Size()
	e.Resize(int(w), int(h))
}

// OffscreenTexture returns the color texture of the offscreen target, or
// 0 outside inspector mode.
func (e *Engine) OffscreenTexture() uint32 {
	if e.offscreen == nil {
		return 0
	}
	return e.offscreen.ColorTexture()
}

// loadAssets creates the shader, mesh and texture stores and the optional
// shader watcher. On error the caller releases whatever was created.
func (e *Engine) loadAssets(cfg *config.Config, compile shader.Compiler) error {
	e.shaders = shader.NewManager(compile, shader.Sources(cfg.Assets.ShaderDir))
	if err := e.shaders.LoadBuiltins(); err != nil {
		return fmt.Errorf("load shaders: %w", err)
	}
	if cfg.Assets.HotReload && cfg.Assets.ShaderDir != "" {
		w, err := shader.NewWatcher(cfg.Assets.ShaderDir, shader.Builtins)
		if err != nil {
			// Not fatal: the embedded or already loaded sources still work.
			e.log.Warn("shader hot reload disabled", zap.String("dir", cfg.Assets.ShaderDir), zap.Error(err))
		} else {
			e.watcher = w
		}
	}

	e.meshes = mesh.NewStore()
	if err := e.meshes.AddBuiltins(e.upload); err != nil {
		return fmt.Errorf("load meshes: %w", err)
	}

	e.textures = texture.NewStore(os.DirFS(cfg.Assets.TextureDir),
		texture.GLLoader(texture.Options{Anisotropy: cfg.Render.Anisotropy}))
	e.loadCubemap = func(dir string) (texture.Handle, error) {
		return texture.LoadCubemap(e.textures.Root(), dir)
	}
	return nil
}

// Destroy releases every GL resource and stops the shader watcher.
func (e *Engine) Destroy() {
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			e.log.Warn("close shader watcher", zap.Error(err))
		}
		e.watcher = nil
	}
	if e.ctx != nil {
		e.destroySkybox()
	}
	if e.offscreen != nil {
		e.offscreen.Destroy()
	}
	for _, m := range e.shadows {
		m.Destroy()
	}
	if e.textures != nil {
		e.textures.Destroy()
	}
	if e.meshes != nil {
		e.meshes.Destroy()
	}
	if e.shaders != nil {
		e.shaders.Destroy()
	}
}
