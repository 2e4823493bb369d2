// Package renderer orchestrates a frame: shadow passes for every shadowed
// light, then the shaded pass and the debug overlays.
package renderer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/umbra/internal/engine/lighting"
	"github.com/Faultbox/umbra/internal/engine/material"
	"github.com/Faultbox/umbra/internal/engine/mesh"
	"github.com/Faultbox/umbra/internal/engine/scene"
	"github.com/Faultbox/umbra/internal/engine/shader"
	"github.com/Faultbox/umbra/internal/logger"
	"github.com/Faultbox/umbra/pkg/math"
)

// ErrShadowBuffers is returned when New is not given one shadow buffer
// per light slot.
var ErrShadowBuffers = errors.New("renderer: need one shadow buffer per light slot")

// BiasMatrix maps clip space [-1,1] to texture space [0,1].
var BiasMatrix = math.Mat4{
	0.5, 0, 0, 0,
	0, 0.5, 0, 0,
	0, 0, 0.5, 0,
	0.5, 0.5, 0.5, 1,
}

// ShadowUnitBase is the texture unit of slot 0's shadow map. Unit 0 is
// left for the diffuse map.
const ShadowUnitBase = 1

// Debug quad placement in normalized device coordinates.
var (
	DebugQuadScale       = math.Scale(0.25, 0.25, 0)
	DebugQuadTranslation = math.Translate(math.Vec3{X: 0.75, Y: 0.75, Z: 0})
)

// ShadowBuffer is a depth render target for one light slot.
type ShadowBuffer interface {
	Write()
	Read(unit uint32)
	SetCompare(enabled bool)
}

// Programs resolves shader programs by name. Programs are looked up
// every frame so reloaded programs take effect immediately.
type Programs interface {
	Get(name string) (shader.Program, error)
}

// Meshes resolves mesh handles.
type Meshes interface {
	Lookup(name string) (mesh.ID, error)
	Get(id mesh.ID) mesh.Drawable
}

// Eye is the viewpoint a frame is rendered from.
type Eye interface {
	Position() math.Vec3
	ViewMatrix() math.Mat4
	ProjectionMatrix() math.Mat4
}

// Config holds renderer configuration.
type Config struct {
	ClearColor     math.Vec3
	WireframeColor math.Vec3
	// MarkerScale is the scale of the sphere drawn at each point light.
	MarkerScale float32
	// OffsetFactor and OffsetUnits are the polygon offset applied while
	// rendering shadow maps.
	OffsetFactor float32
	OffsetUnits  float32
}

// DefaultConfig returns the default renderer configuration.
func DefaultConfig() Config {
	return Config{
		ClearColor:     math.Vec3{X: 0.1, Y: 0.1, Z: 0.15},
		WireframeColor: math.Splat(1),
		MarkerScale:    0.1,
		OffsetFactor:   1.1,
		OffsetUnits:    4.0,
	}
}

var (
	lightMatrixNames [scene.MaxLights]string
	shadowBiasNames  [scene.MaxLights]string
	shadowMapNames   [scene.MaxLights]string
)

func init() {
	for i := range scene.MaxLights {
		lightMatrixNames[i] = fmt.Sprintf("lightMatrices[%d]", i)
		shadowBiasNames[i] = fmt.Sprintf("shadowBiases[%d]", i)
		shadowMapNames[i] = fmt.Sprintf("shadowMaps[%d]", i)
	}
}

// target is where the shaded pass and the overlays draw.
type target struct {
	fbo           uint32
	width, height int32
}

// programSet holds the programs resolved for one frame.
type programSet struct {
	phong, phongNoTexture, flat, skybox, depth, quad shader.Program
}

// Renderer draws a scene. It holds no scene state besides the per-slot
// light matrices of the last shadow pass.
type Renderer struct {
	cfg      Config
	dev      Device
	programs Programs
	meshes   Meshes
	shadows  [scene.MaxLights]ShadowBuffer

	sphere, cube, quad mesh.ID

	target    target
	biasLight [scene.MaxLights]math.Mat4
	prepared  bool

	wireframe     bool
	shadowView    bool
	shadowViewIdx int

	last Frame
	log  *zap.Logger
}

// New creates a renderer. Every built-in program and the sphere, cube and
// quad meshes must already be registered.
func New(cfg Config, dev Device, programs Programs, meshes Meshes, shadows []ShadowBuffer, width, height int32) (*Renderer, error) {
	if len(shadows) != scene.MaxLights {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrShadowBuffers, len(shadows), scene.MaxLights)
	}
	for _, name := range shader.Builtins {
		if _, err := programs.Get(name); err != nil {
			return nil, fmt.Errorf("renderer: %w", err)
		}
	}

	r := &Renderer{
		cfg:      cfg,
		dev:      dev,
		programs: programs,
		meshes:   meshes,
		target:   target{width: width, height: height},
		log:      logger.Named("renderer"),
	}
	copy(r.shadows[:], shadows)

	var err error
	if r.sphere, err = meshes.Lookup(mesh.NameSphere); err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	if r.cube, err = meshes.Lookup(mesh.NameCube); err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	if r.quad, err = meshes.Lookup(mesh.NameQuad); err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	return r, nil
}

// Config returns the current configuration.
func (r *Renderer) Config() Config { return r.cfg }

// SetTarget redirects the shaded pass and overlays to fbo. Zero is the
// window.
func (r *Renderer) SetTarget(fbo uint32, width, height int32) {
	r.target = target{fbo: fbo, width: width, height: height}
}

// Resize changes the output size without changing the target.
func (r *Renderer) Resize(width, height int32) {
	r.target.width = width
	r.target.height = height
	r.log.Debug("renderer resized", zap.Int32("width", width), zap.Int32("height", height))
}

// Size returns the output size.
func (r *Renderer) Size() (int32, int32) { return r.target.width, r.target.height }

// Wireframe reports whether wireframe mode is on.
func (r *Renderer) Wireframe() bool { return r.wireframe }

// ToggleWireframe switches between wireframe and shaded rendering.
func (r *Renderer) ToggleWireframe() {
	r.wireframe = !r.wireframe
	r.dev.SetWireframe(r.wireframe)
	r.log.Debug("wireframe", zap.Bool("enabled", r.wireframe))
}

// ShadowMapView returns whether the shadow map overlay is on and which
// slot it shows.
func (r *Renderer) ShadowMapView() (bool, int) { return r.shadowView, r.shadowViewIdx }

// ToggleShadowMapView shows or hides the shadow map overlay.
func (r *Renderer) ToggleShadowMapView() {
	r.shadowView = !r.shadowView
}

// NextShadowMapView cycles the overlay through the light slots.
func (r *Renderer) NextShadowMapView(lightCount int) {
	if lightCount <= 0 {
		r.shadowViewIdx = 0
		return
	}
	r.shadowViewIdx = (r.shadowViewIdx + 1) % lightCount
}

// SetCullFace enables or disables backface culling.
func (r *Renderer) SetCullFace(enabled bool) {
	r.dev.SetCullFace(enabled)
}

// Invalidate makes the next Render call Prepare again. Call it after
// lights are added, the ambient color changes or programs are reloaded.
func (r *Renderer) Invalidate() { r.prepared = false }

// LastFrame returns the steps executed by the most recent Render.
func (r *Renderer) LastFrame() Frame { return r.last }

// LightMatrix returns the bias-transformed light matrix stored for slot
// by the last shadow pass.
func (r *Renderer) LightMatrix(slot int) math.Mat4 { return r.biasLight[slot] }

func (r *Renderer) resolve() (programSet, error) {
	var ps programSet
	for _, p := range []struct {
		name string
		dst  *shader.Program
	}{
		{shader.Phong, &ps.phong},
		{shader.PhongNoTexture, &ps.phongNoTexture},
		{shader.FlatColour, &ps.flat},
		{shader.Skybox, &ps.skybox},
		{shader.ShadowMap, &ps.depth},
		{shader.DebugQuad, &ps.quad},
	} {
		prog, err := r.programs.Get(p.name)
		if err != nil {
			return ps, err
		}
		*p.dst = prog
	}
	return ps, nil
}

// Prepare writes the uniforms that only change when the scene's light set
// or ambient color does.
func (r *Renderer) Prepare(s *scene.Scene) error {
	ps, err := r.resolve()
	if err != nil {
		return err
	}
	for _, p := range []shader.Program{ps.phong, ps.phongNoTexture} {
		p.SetVec3("globalAmbientLight", s.Ambient())
		p.SetInt("dirLightCount", int32(s.DirectionalLightCount()))
		p.SetInt("pointLightCount", int32(s.PointLightCount()))
		for i := range scene.MaxLights {
			p.SetInt(shadowMapNames[i], int32(ShadowUnitBase+i))
		}
	}
	ps.quad.SetMat4("scale", DebugQuadScale)
	ps.quad.SetMat4("translation", DebugQuadTranslation)
	ps.quad.SetInt("depthMap", 0)
	ps.skybox.SetInt("skybox", 0)
	ps.phong.SetInt("diffuseMap", material.DiffuseUnit)

	r.prepared = true
	r.log.Debug("prepared",
		zap.Int("pointLights", s.PointLightCount()),
		zap.Int("dirLights", s.DirectionalLightCount()))
	return nil
}

// Render draws one frame of s as seen from eye.
func (r *Renderer) Render(eye Eye, s *scene.Scene) error {
	if !r.prepared {
		if err := r.Prepare(s); err != nil {
			return err
		}
	}
	ps, err := r.resolve()
	if err != nil {
		return err
	}

	frame := r.Plan(s)
	for _, step := range frame {
		switch step.State {
		case StateUniforms:
			r.uniforms(ps, eye, s)
		case StateWireframe:
			r.wireframePass(ps, eye, s)
		case StateShadowPass:
			r.shadowPass(ps, s, step.Slot)
		case StateShaded:
			r.shadedPass(ps, eye, s)
		case StateShadowMapView:
			r.shadowMapView(ps, s, step.Slot)
		case StatePointLightMarkers:
			r.pointLightMarkers(ps.flat, eye, s, nil)
		}
	}
	r.last = frame
	return nil
}

func (r *Renderer) draw(id mesh.ID) {
	m := r.meshes.Get(id)
	if m == nil {
		panic(fmt.Sprintf("renderer: draw of invalid mesh %d", id))
	}
	m.Render(m.Primitive())
}

func (r *Renderer) uniforms(ps programSet, eye Eye, s *scene.Scene) {
	for _, p := range []shader.Program{ps.phong, ps.phongNoTexture} {
		p.SetVec3("eyePositionWorld", eye.Position())
		for slot, l := range s.Lights() {
			lighting.ResolveUniforms(l, p, slot)
		}
	}
}

func (r *Renderer) bindTarget() {
	r.dev.BindTarget(r.target.fbo, r.target.width, r.target.height)
}

func (r *Renderer) wireframePass(ps programSet, eye Eye, s *scene.Scene) {
	r.bindTarget()
	r.dev.Clear(math.Vec3{})

	viewProj := eye.ProjectionMatrix().Mul(eye.ViewMatrix())
	ps.flat.Bind()
	ps.flat.SetVec3("diffuseColour", r.cfg.WireframeColor)
	for _, e := range s.Entities() {
		ps.flat.SetMat4("modelViewProjMatrix", viewProj.Mul(e.ModelMatrix()))
		r.draw(e.Mesh())
	}
	color := r.cfg.WireframeColor
	r.pointLightMarkers(ps.flat, eye, s, &color)
}

func (r *Renderer) shadowPass(ps programSet, s *scene.Scene, slot int) {
	d := s.Light(slot).Shadow()
	buf := r.shadows[slot]

	buf.Write()
	r.dev.SetPolygonOffset(true, r.cfg.OffsetFactor, r.cfg.OffsetUnits)
	r.dev.Clear(r.cfg.ClearColor)

	lightMatrix := d.LightMatrix()
	ps.depth.Bind()
	for _, e := range s.Entities() {
		ps.depth.SetMat4("lightMatrix", lightMatrix.Mul(e.ModelMatrix()))
		r.draw(e.Mesh())
	}

	r.dev.SetPolygonOffset(false, 0, 0)
	buf.Read(uint32(ShadowUnitBase + slot))
	r.biasLight[slot] = BiasMatrix.Mul(lightMatrix)
}

func (r *Renderer) shadedPass(ps programSet, eye Eye, s *scene.Scene) {
	r.bindTarget()
	r.dev.Clear(r.cfg.ClearColor)

	view := eye.ViewMatrix()
	proj := eye.ProjectionMatrix()

	if sb := s.Skybox(); sb != nil && sb.Cubemap != nil {
		ps.skybox.Bind()
		ps.skybox.SetMat4("projection", proj)
		ps.skybox.SetMat4("view", view.Rotation())
		sb.Cubemap.Bind(0)
		r.dev.SetSkyboxState(true)
		r.draw(r.cube)
		r.dev.SetSkyboxState(false)
	}

	viewProj := proj.Mul(view)
	lights := s.Lights()
	for _, e := range s.Entities() {
		p := ps.phongNoTexture
		if e.Material.HasTexture() {
			p = ps.phong
		}
		p.Bind()
		e.Material.Apply(p)

		model := e.ModelMatrix()
		for slot, l := range lights {
			d := l.Shadow()
			if d == nil {
				continue
			}
			p.SetFloat(shadowBiasNames[slot], d.Bias())
			p.SetMat4(lightMatrixNames[slot], r.biasLight[slot].Mul(model))
		}
		p.SetMat4("modelToWorldMatrix", model)
		p.SetMat4("modelViewProjMatrix", viewProj.Mul(model))
		r.draw(e.Mesh())
	}
}

func (r *Renderer) shadowMapView(ps programSet, s *scene.Scene, slot int) {
	d := s.Light(slot).Shadow()
	buf := r.shadows[slot]

	r.bindTarget()
	ps.quad.Bind()
	ps.quad.SetBool("isOrtho", d.IsOrthographic())
	if !d.IsOrthographic() {
		ps.quad.SetFloat("nearZ", d.Near())
		ps.quad.SetFloat("farZ", d.Far())
	}

	buf.SetCompare(false)
	buf.Read(0)
	r.draw(r.quad)
	buf.SetCompare(true)
}

// pointLightMarkers draws a sphere at every point light, tinted with the
// light's diffuse color unless color is given.
func (r *Renderer) pointLightMarkers(flat shader.Program, eye Eye, s *scene.Scene, color *math.Vec3) {
	viewProj := eye.ProjectionMatrix().Mul(eye.ViewMatrix())
	scale := math.UniformScale(r.cfg.MarkerScale)

	flat.Bind()
	for _, l := range s.PointLights() {
		c := l.Diffuse()
		if color != nil {
			c = *color
		}
		flat.SetVec3("diffuseColour", c)
		flat.SetMat4("modelViewProjMatrix", viewProj.Mul(math.Translate(l.Position()).Mul(scale)))
		r.draw(r.sphere)
	}
}
