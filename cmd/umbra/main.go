// Package main is the entry point for the umbra demo scene.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp" // BMP decoder registration

	"github.com/Faultbox/umbra/internal/config"
	"github.com/Faultbox/umbra/internal/engine"
	"github.com/Faultbox/umbra/internal/engine/lighting"
	"github.com/Faultbox/umbra/internal/engine/mesh"
	"github.com/Faultbox/umbra/internal/engine/scene"
	"github.com/Faultbox/umbra/internal/engine/ui"
	"github.com/Faultbox/umbra/internal/engine/window"
	"github.com/Faultbox/umbra/internal/logger"
	"github.com/Faultbox/umbra/pkg/math"
)

// Textures of the demo scene, relative to the texture directory.
const (
	groundTexture = "Tiles095_1K_Color.jpg"
	objectTexture = "checker.png"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== umbra ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.SaveRequested() {
		path, err := cfg.Save()
		if err != nil {
			logger.Fatal("failed to save config", zap.Error(err))
		}
		logger.Info("config saved", zap.String("path", path))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Inspector.Enabled {
		err = runInspector(ctx, cfg)
	} else {
		err = runWindow(ctx, cfg)
	}
	if err != nil {
		logger.Fatal("engine error", zap.Error(err))
	}
	logger.Info("closed normally")
}

func runWindow(ctx context.Context, cfg *config.Config) error {
	win, err := window.New(window.Config{
		Title:       cfg.Window.Title,
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		Fullscreen:  cfg.Window.Fullscreen,
		VSync:       cfg.Window.VSync,
		MSAASamples: cfg.Window.MSAASamples,
		Backend:     cfg.Window.Backend,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	w, h := win.Size()
	eng, err := engine.New(cfg, w, h)
	if err != nil {
		return err
	}
	defer eng.Destroy()

	buildScene(eng, cfg)
	return eng.Run(ctx, win)
}

func runInspector(ctx context.Context, cfg *config.Config) error {
	b, err := ui.NewBackend(cfg.Window.Title, int32(cfg.Window.Width), int32(cfg.Window.Height))
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg, cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}
	defer eng.Destroy()

	buildScene(eng, cfg)

	app, err := ui.NewApp(b, eng)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

// buildScene creates the demo scene: a tiled ground plane, a few
// objects, a green and a blue point light and a white light from above. Scene
// errors are fatal; missing textures only leave surfaces untextured.
func buildScene(eng *engine.Engine, cfg *config.Config) {
	must := func(what string, err error) {
		if err != nil {
			logger.Fatal("failed to build scene", zap.String("step", what), zap.Error(err))
		}
	}
	texture := func(ent *scene.Entity, name string) {
		if err := eng.SetTexture(ent, name); err != nil {
			logger.Warn("texture unavailable", zap.String("entity", ent.Name()), zap.Error(err))
		}
	}

	plane, err := eng.CreateEntity(mesh.NamePlane)
	must("ground", err)
	must("ground scale", plane.SetScale(5))
	texture(plane, groundTexture)

	cube, err := eng.CreateEntity(mesh.NameCube)
	must("cube", err)
	cube.Position = math.Vec3{X: -1.5, Y: 1}
	texture(cube, objectTexture)

	sphere, err := eng.CreateEntity(mesh.NameSphere)
	must("sphere", err)
	sphere.Position = math.Vec3{X: 1.5, Y: 1}

	pyramid, err := eng.CreateEntity(mesh.NamePyramid)
	must("pyramid", err)
	pyramid.Position = math.Vec3{Y: 0.5, Z: -3}
	must("pyramid scale", pyramid.SetScale(0.5))
	pyramid.Rotation = math.Vec3{Y: 45}

	for i, path := range cfg.Assets.Meshes {
		name := filepath.Base(path)
		must("mesh "+name, eng.LoadMesh(name, path))
		ent, err := eng.CreateEntity(name)
		must("mesh "+name, err)
		ent.Position = math.Vec3{X: float32(i) * 2, Z: -2}
		texture(ent, objectTexture)
	}

	if cfg.Assets.Skybox != "" {
		must("skybox", eng.SetSkybox(cfg.Assets.Skybox))
	}
	must("ambient", eng.SetGlobalAmbient(math.Splat(0.1)))

	_, err = eng.CreatePointLight(math.Vec3{X: -3, Y: 3, Z: 3}, math.Vec3{Y: 1}, 1, lighting.DefaultAttenuation)
	must("green light", err)
	_, err = eng.CreatePointLight(math.Vec3{X: 3, Y: 3}, math.Vec3{Z: 1}, 1, lighting.DefaultAttenuation)
	must("blue light", err)
	_, err = eng.CreateDirectionalLight(math.Vec3{Y: -1}, math.Splat(1), 0.5)
	must("sun", err)

	eng.Camera().SetPosition(math.Vec3{Y: 2, Z: 6})
}
