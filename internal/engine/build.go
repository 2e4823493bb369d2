package engine

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/umbra/internal/engine/lighting"
	"github.com/Faultbox/umbra/internal/engine/mesh"
	"github.com/Faultbox/umbra/internal/engine/scene"
	"github.com/Faultbox/umbra/pkg/math"
)

var ErrNoSkybox = errors.New("engine: skybox directory is empty")

// CreateEntity adds an entity drawing the named mesh.
func (e *Engine) CreateEntity(meshName string) (*scene.Entity, error) {
	id, err := e.meshes.Lookup(meshName)
	if err != nil {
		return nil, fmt.Errorf("create entity: %w", err)
	}
	ent, err := e.ctx.Scene.AddEntity(meshName, id)
	if err != nil {
		return nil, fmt.Errorf("create entity: %w", err)
	}
	return ent, nil
}

// CreatePointLight adds a point light with a shadow descriptor sized for
// the current output.
func (e *Engine) CreatePointLight(pos, color math.Vec3, intensity float32, att lighting.Attenuation) (*lighting.Light, error) {
	l, err := e.ctx.Scene.AddPointLight(pos, color, intensity, att)
	if err != nil {
		return nil, fmt.Errorf("create point light: %w", err)
	}
	l.CreateShadowData(float32(e.width) / float32(e.height))
	e.ctx.Invalidate()
	return l, nil
}

// CreateDirectionalLight adds a directional light. dir need not be
// normalized but must not be zero.
func (e *Engine) CreateDirectionalLight(dir, color math.Vec3, intensity float32) (*lighting.Light, error) {
	l, err := e.ctx.Scene.AddDirectionalLight(dir, color, intensity)
	if err != nil {
		return nil, fmt.Errorf("create directional light: %w", err)
	}
	e.ctx.Invalidate()
	return l, nil
}

// SetGlobalAmbient sets the ambient color applied to every surface.
func (e *Engine) SetGlobalAmbient(color math.Vec3) error {
	if err := e.ctx.Scene.SetAmbient(color); err != nil {
		return fmt.Errorf("set global ambient: %w", err)
	}
	e.ctx.Invalidate()
	return nil
}

// SetSkybox loads the cubemap faces under dir, relative to the texture
// directory, and replaces the current skybox.
func (e *Engine) SetSkybox(dir string) error {
	if dir == "" {
		return ErrNoSkybox
	}
	cubemap, err := e.loadCubemap(dir)
	if err != nil {
		return fmt.Errorf("set skybox %q: %w", dir, err)
	}
	e.destroySkybox()
	e.ctx.Scene.SetSkybox(&scene.Skybox{Dir: dir, Cubemap: cubemap})
	e.log.Info("skybox set", zap.String("dir", dir))
	return nil
}

type destroyer interface {
	Destroy()
}

func (e *Engine) destroySkybox() {
	old := e.ctx.Scene.Skybox()
	if old == nil {
		return
	}
	if d, ok := old.Cubemap.(destroyer); ok {
		d.Destroy()
	}
	e.ctx.Scene.SetSkybox(nil)
}

// LoadMesh decodes the Wavefront OBJ file at path and registers it as
// name.
func (e *Engine) LoadMesh(name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load mesh %q: %w", name, err)
	}
	defer f.Close()

	d, err := mesh.DecodeOBJ(f)
	if err != nil {
		return fmt.Errorf("load mesh %q: %w", name, err)
	}
	if _, err := e.meshes.AddData(name, d, e.upload); err != nil {
		return fmt.Errorf("load mesh %q: %w", name, err)
	}
	return nil
}

// SetTexture gives ent the named diffuse texture, loading it on first use.
func (e *Engine) SetTexture(ent *scene.Entity, name string) error {
	tex, err := e.textures.GetOrAdd(name)
	if err != nil {
		return fmt.Errorf("set texture %q: %w", name, err)
	}
	ent.Material.SetDiffuseMap(tex)
	return nil
}
