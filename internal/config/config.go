// Package config handles engine configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Window backends.
const (
	BackendSDL  = "sdl"
	BackendGLFW = "glfw"
)

// Config holds all engine settings.
type Config struct {
	Window     WindowConfig     `yaml:"window" toml:"window"`
	Render     RenderConfig     `yaml:"render" toml:"render"`
	Shadow     ShadowConfig     `yaml:"shadow" toml:"shadow"`
	Camera     CameraConfig     `yaml:"camera" toml:"camera"`
	Assets     AssetsConfig     `yaml:"assets" toml:"assets"`
	Inspector  InspectorConfig  `yaml:"inspector" toml:"inspector"`
	Logging    LoggingConfig    `yaml:"logging" toml:"logging"`
	Screenshot ScreenshotConfig `yaml:"screenshot" toml:"screenshot"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title       string `yaml:"title" toml:"title"`
	Width       int    `yaml:"width" toml:"width"`
	Height      int    `yaml:"height" toml:"height"`
	Fullscreen  bool   `yaml:"fullscreen" toml:"fullscreen"`
	VSync       bool   `yaml:"vsync" toml:"vsync"`
	Backend     string `yaml:"backend" toml:"backend"`
	MSAASamples int    `yaml:"msaa_samples" toml:"msaa_samples"`
}

// RenderConfig holds renderer settings. Colors are linear RGB in [0,1].
type RenderConfig struct {
	ClearColor      [3]float32 `yaml:"clear_color" toml:"clear_color"`
	WireframeColor  [3]float32 `yaml:"wireframe_color" toml:"wireframe_color"`
	MarkerScale     float32    `yaml:"marker_scale" toml:"marker_scale"`
	BackfaceCulling bool       `yaml:"backface_culling" toml:"backface_culling"`
	Anisotropy      float32    `yaml:"anisotropy" toml:"anisotropy"`
}

// ShadowConfig holds shadow buffer settings.
type ShadowConfig struct {
	Resolution   int     `yaml:"resolution" toml:"resolution"`
	OffsetFactor float32 `yaml:"offset_factor" toml:"offset_factor"`
	OffsetUnits  float32 `yaml:"offset_units" toml:"offset_units"`
}

// CameraConfig holds the fly camera settings. Angles are in degrees.
type CameraConfig struct {
	FOV         float32 `yaml:"fov" toml:"fov"`
	Near        float32 `yaml:"near" toml:"near"`
	Far         float32 `yaml:"far" toml:"far"`
	Sensitivity float32 `yaml:"sensitivity" toml:"sensitivity"`
}

// AssetsConfig holds asset locations. An empty ShaderDir uses the
// shaders compiled into the binary. Skybox is a cubemap directory under
// TextureDir; empty means no skybox. Each OBJ file in Meshes is loaded at
// startup and placed in the scene.
type AssetsConfig struct {
	ShaderDir  string   `yaml:"shader_dir" toml:"shader_dir"`
	TextureDir string   `yaml:"texture_dir" toml:"texture_dir"`
	HotReload  bool     `yaml:"hot_reload" toml:"hot_reload"`
	Skybox     string   `yaml:"skybox" toml:"skybox"`
	Meshes     []string `yaml:"meshes" toml:"meshes"`
}

// InspectorConfig holds the on-screen inspector settings.
type InspectorConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// ScreenshotConfig holds screenshot output settings.
type ScreenshotConfig struct {
	Dir string `yaml:"dir" toml:"dir"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:       "umbra",
			Width:       1280,
			Height:      720,
			VSync:       true,
			Backend:     BackendSDL,
			MSAASamples: 4,
		},
		Render: RenderConfig{
			ClearColor:      [3]float32{0.1, 0.1, 0.15},
			WireframeColor:  [3]float32{1, 1, 1},
			MarkerScale:     0.1,
			BackfaceCulling: true,
			Anisotropy:      8,
		},
		Shadow: ShadowConfig{
			Resolution:   1024,
			OffsetFactor: 1.1,
			OffsetUnits:  4.0,
		},
		Camera: CameraConfig{
			FOV:         60,
			Near:        0.01,
			Far:         100,
			Sensitivity: 0.1,
		},
		Assets: AssetsConfig{
			TextureDir: "res/textures",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Screenshot: ScreenshotConfig{
			Dir: "screenshots",
		},
	}
}

// Validate reports the first setting the engine cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Window.Backend != BackendSDL && c.Window.Backend != BackendGLFW:
		return fmt.Errorf("%w: unknown window backend %q", ErrInvalidConfig, c.Window.Backend)
	case c.Shadow.Resolution <= 0:
		return fmt.Errorf("%w: shadow resolution %d", ErrInvalidConfig, c.Shadow.Resolution)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: camera planes near=%g far=%g", ErrInvalidConfig, c.Camera.Near, c.Camera.Far)
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return fmt.Errorf("%w: camera fov %g", ErrInvalidConfig, c.Camera.FOV)
	case c.Render.MarkerScale <= 0:
		return fmt.Errorf("%w: marker scale %g", ErrInvalidConfig, c.Render.MarkerScale)
	}
	for _, ch := range append(c.Render.ClearColor[:], c.Render.WireframeColor[:]...) {
		if ch < 0 || ch > 1 {
			return fmt.Errorf("%w: color channel %g outside [0,1]", ErrInvalidConfig, ch)
		}
	}
	return nil
}
