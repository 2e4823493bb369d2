package renderer

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/umbra/internal/engine/camera"
	"github.com/Faultbox/umbra/internal/engine/lighting"
	"github.com/Faultbox/umbra/internal/engine/mesh"
	"github.com/Faultbox/umbra/internal/engine/scene"
	"github.com/Faultbox/umbra/internal/engine/shader"
	"github.com/Faultbox/umbra/internal/engine/shadow"
	"github.com/Faultbox/umbra/pkg/math"
)

const eps = 1e-5

// events is a shared, ordered log of everything the fakes are asked to do.
type events struct{ log []string }

func (e *events) add(format string, args ...any) {
	e.log = append(e.log, fmt.Sprintf(format, args...))
}

func (e *events) index(s string) int { return slices.Index(e.log, s) }

func (e *events) count(s string) int {
	n := 0
	for _, v := range e.log {
		if v == s {
			n++
		}
	}
	return n
}

type fakeProgram struct {
	name  string
	ev    *events
	mats  map[string]math.Mat4
	vecs  map[string]math.Vec3
	flts  map[string]float32
	ints  map[string]int32
	bools map[string]bool
}

func newFakeProgram(name string, ev *events) *fakeProgram {
	return &fakeProgram{
		name:  name,
		ev:    ev,
		mats:  map[string]math.Mat4{},
		vecs:  map[string]math.Vec3{},
		flts:  map[string]float32{},
		ints:  map[string]int32{},
		bools: map[string]bool{},
	}
}

func (p *fakeProgram) Bind() { p.ev.add("bind %s", p.name) }

func (p *fakeProgram) SetMat4(n string, m math.Mat4) {
	p.mats[n] = m
	p.ev.add("%s.%s", p.name, n)
}

func (p *fakeProgram) SetVec3(n string, v math.Vec3) {
	p.vecs[n] = v
	p.ev.add("%s.%s", p.name, n)
}

func (p *fakeProgram) SetFloat(n string, f float32) {
	p.flts[n] = f
	p.ev.add("%s.%s", p.name, n)
}

func (p *fakeProgram) SetInt(n string, i int32) {
	p.ints[n] = i
	p.ev.add("%s.%s", p.name, n)
}

func (p *fakeProgram) SetBool(n string, b bool) {
	p.bools[n] = b
	p.ev.add("%s.%s", p.name, n)
}

type fakePrograms map[string]*fakeProgram

func (f fakePrograms) Get(name string) (shader.Program, error) {
	p, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", shader.ErrProgramNotFound, name)
	}
	return p, nil
}

type fakeDrawable struct {
	name string
	ev   *events
}

func (d *fakeDrawable) Render(mesh.Primitive)     { d.ev.add("draw %s", d.name) }
func (d *fakeDrawable) Primitive() mesh.Primitive { return mesh.Triangles }

type fakeDevice struct{ ev *events }

func (d *fakeDevice) BindTarget(fbo uint32, w, h int32) { d.ev.add("target %d %dx%d", fbo, w, h) }
func (d *fakeDevice) Clear(c math.Vec3)                 { d.ev.add("clear %v", c) }

func (d *fakeDevice) SetPolygonOffset(enabled bool, factor, units float32) {
	if enabled {
		d.ev.add("offset %g %g", factor, units)
		return
	}
	d.ev.add("offset off")
}

func (d *fakeDevice) SetWireframe(enabled bool)   { d.ev.add("wireframe %t", enabled) }
func (d *fakeDevice) SetSkyboxState(enabled bool) { d.ev.add("skybox state %t", enabled) }
func (d *fakeDevice) SetCullFace(enabled bool)    { d.ev.add("cull %t", enabled) }

type fakeBuffer struct {
	slot int
	ev   *events
}

func (b *fakeBuffer) Write()                  { b.ev.add("shadow%d write", b.slot) }
func (b *fakeBuffer) Read(unit uint32)        { b.ev.add("shadow%d read %d", b.slot, unit) }
func (b *fakeBuffer) SetCompare(enabled bool) { b.ev.add("shadow%d compare %t", b.slot, enabled) }

type fakeTexture struct{ ev *events }

func (t *fakeTexture) Bind(unit uint32) { t.ev.add("texture %d", unit) }

type fixture struct {
	ev       *events
	programs fakePrograms
	meshes   *mesh.Store
	r        *Renderer
	cam      *camera.Camera
	scene    *scene.Scene
}

func newMeshes(t *testing.T, ev *events, names ...string) *mesh.Store {
	t.Helper()
	s := mesh.NewStore()
	for _, n := range names {
		_, err := s.Add(n, &fakeDrawable{name: n, ev: ev})
		require.NoError(t, err)
	}
	return s
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ev := &events{}

	programs := fakePrograms{}
	for _, n := range shader.Builtins {
		programs[n] = newFakeProgram(n, ev)
	}
	meshes := newMeshes(t, ev, mesh.NamePlane, mesh.NameCube, mesh.NameSphere, mesh.NameQuad)

	buffers := make([]ShadowBuffer, scene.MaxLights)
	for i := range buffers {
		buffers[i] = &fakeBuffer{slot: i, ev: ev}
	}

	r, err := New(DefaultConfig(), &fakeDevice{ev: ev}, programs, meshes, buffers, 800, 600)
	require.NoError(t, err)

	cam := camera.New(800, 600, camera.DefaultOptions())
	cam.SetPosition(math.Vec3{X: 0, Y: 2, Z: 6})

	return &fixture{ev: ev, programs: programs, meshes: meshes, r: r, cam: cam, scene: scene.New()}
}

func (f *fixture) addEntity(t *testing.T, name string) *scene.Entity {
	t.Helper()
	id, err := f.meshes.Lookup(name)
	require.NoError(t, err)
	e, err := f.scene.AddEntity(name, id)
	require.NoError(t, err)
	return e
}

func (f *fixture) addPointLight(t *testing.T, pos, color math.Vec3) *lighting.Light {
	t.Helper()
	l, err := f.scene.AddPointLight(pos, color, 1, lighting.DefaultAttenuation)
	require.NoError(t, err)
	l.CreateShadowData(800.0 / 600.0)
	return l
}

func (f *fixture) render(t *testing.T) {
	t.Helper()
	f.ev.log = nil
	require.NoError(t, f.r.Render(f.cam, f.scene))
}

func TestNewRequiresEveryProgram(t *testing.T) {
	ev := &events{}
	programs := fakePrograms{}
	for _, n := range shader.Builtins {
		if n != shader.DebugQuad {
			programs[n] = newFakeProgram(n, ev)
		}
	}
	meshes := newMeshes(t, ev, mesh.NameCube, mesh.NameSphere, mesh.NameQuad)

	_, err := New(DefaultConfig(), &fakeDevice{ev: ev}, programs, meshes, make([]ShadowBuffer, scene.MaxLights), 1, 1)
	assert.ErrorIs(t, err, shader.ErrProgramNotFound)
}

func TestNewRequiresMeshes(t *testing.T) {
	ev := &events{}
	programs := fakePrograms{}
	for _, n := range shader.Builtins {
		programs[n] = newFakeProgram(n, ev)
	}
	meshes := newMeshes(t, ev, mesh.NameCube, mesh.NameQuad)

	_, err := New(DefaultConfig(), &fakeDevice{ev: ev}, programs, meshes, make([]ShadowBuffer, scene.MaxLights), 1, 1)
	assert.ErrorIs(t, err, mesh.ErrMeshNotFound)
}

func TestNewRequiresShadowBuffers(t *testing.T) {
	_, err := New(DefaultConfig(), &fakeDevice{}, fakePrograms{}, mesh.NewStore(), nil, 1, 1)
	assert.ErrorIs(t, err, ErrShadowBuffers)
}

func TestBiasMatrixMapsClipToTexture(t *testing.T) {
	tests := []struct {
		in, want math.Vec3
	}{
		{math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{}},
		{math.Vec3{X: 1, Y: 1, Z: 1}, math.Splat(1)},
		{math.Vec3{}, math.Splat(0.5)},
	}
	for _, tt := range tests {
		assert.True(t, BiasMatrix.TransformPoint(tt.in).ApproxEqual(tt.want, eps), "%v", tt.in)
	}
}

func TestPlan(t *testing.T) {
	uniforms := Step{State: StateUniforms}
	shaded := Step{State: StateShaded}
	markers := Step{State: StatePointLightMarkers}

	tests := []struct {
		name  string
		setup func(t *testing.T, f *fixture)
		want  Frame
	}{
		{
			name: "empty scene",
			want: Frame{uniforms, shaded},
		},
		{
			name: "directional light",
			setup: func(t *testing.T, f *fixture) {
				_, err := f.scene.AddDirectionalLight(math.Vec3{Y: -1}, math.Splat(1), 0.5)
				require.NoError(t, err)
			},
			want: Frame{uniforms, {State: StateShadowPass, Slot: 0}, shaded},
		},
		{
			name: "point light without shadow data",
			setup: func(t *testing.T, f *fixture) {
				_, err := f.scene.AddPointLight(math.Vec3{X: 1}, math.Splat(1), 1, lighting.DefaultAttenuation)
				require.NoError(t, err)
			},
			want: Frame{uniforms, shaded, markers},
		},
		{
			name: "mixed lights in slot order",
			setup: func(t *testing.T, f *fixture) {
				f.addPointLight(t, math.Vec3{X: -3, Y: 3, Z: 3}, math.Vec3{Y: 1})
				_, err := f.scene.AddDirectionalLight(math.Vec3{Y: -1}, math.Splat(1), 0.5)
				require.NoError(t, err)
			},
			want: Frame{
				uniforms,
				{State: StateShadowPass, Slot: 0},
				{State: StateShadowPass, Slot: 1},
				shaded,
				markers,
			},
		},
		{
			name: "wireframe replaces every pass",
			setup: func(t *testing.T, f *fixture) {
				f.addPointLight(t, math.Vec3{X: -3, Y: 3, Z: 3}, math.Vec3{Y: 1})
				f.r.ToggleWireframe()
			},
			want: Frame{uniforms, {State: StateWireframe}},
		},
		{
			name: "shadow map view",
			setup: func(t *testing.T, f *fixture) {
				_, err := f.scene.AddDirectionalLight(math.Vec3{Y: -1}, math.Splat(1), 0.5)
				require.NoError(t, err)
				f.r.ToggleShadowMapView()
			},
			want: Frame{uniforms, {State: StateShadowPass, Slot: 0}, shaded, {State: StateShadowMapView, Slot: 0}},
		},
		{
			name: "shadow map view without lights",
			setup: func(t *testing.T, f *fixture) {
				f.r.ToggleShadowMapView()
			},
			want: Frame{uniforms, shaded},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(t, f)
			}
			assert.Equal(t, tt.want, f.r.Plan(f.scene))

			f.render(t)
			assert.Equal(t, tt.want, f.r.LastFrame())
		})
	}
}

func TestDirectionalLightShadowScenario(t *testing.T) {
	f := newFixture(t)
	light, err := f.scene.AddDirectionalLight(math.Vec3{Y: -1}, math.Splat(1), 0.5)
	require.NoError(t, err)
	e := f.addEntity(t, mesh.NameCube)

	f.render(t)

	assert.Equal(t, 1, f.ev.count("shadow0 write"))
	for slot := 1; slot < scene.MaxLights; slot++ {
		assert.Zero(t, f.ev.count(fmt.Sprintf("shadow%d write", slot)))
	}

	write := f.ev.index("shadow0 write")
	shaded := f.ev.index("target 0 800x600")
	require.GreaterOrEqual(t, write, 0)
	require.GreaterOrEqual(t, shaded, 0)
	assert.Less(t, write, shaded, "shadow pass must run before the shaded pass")

	want := BiasMatrix.Mul(light.Shadow().LightMatrix()).Mul(e.ModelMatrix())
	notex := f.programs[shader.PhongNoTexture]
	assert.True(t, want.ApproxEqual(notex.mats["lightMatrices[0]"], eps))
	assert.InDelta(t, shadow.DirectionalBias, notex.flts["shadowBiases[0]"], 1e-9)
	assert.NotContains(t, notex.mats, "lightMatrices[1]")
}

func TestShadowPassSequence(t *testing.T) {
	f := newFixture(t)
	light, err := f.scene.AddDirectionalLight(math.Vec3{X: 1, Y: -1}, math.Splat(1), 1)
	require.NoError(t, err)
	e := f.addEntity(t, mesh.NameSphere)

	f.render(t)

	write := f.ev.index("shadow0 write")
	seq := f.ev.log[write : write+7]
	assert.Equal(t, []string{
		"shadow0 write",
		"offset 1.1 4",
		fmt.Sprintf("clear %v", DefaultConfig().ClearColor),
		"bind shadow-map",
		"shadow-map.lightMatrix",
		"draw sphere",
		"offset off",
	}, seq)
	assert.Equal(t, "shadow0 read 1", f.ev.log[write+7])

	depth := f.programs[shader.ShadowMap]
	assert.True(t, light.Shadow().LightMatrix().Mul(e.ModelMatrix()).ApproxEqual(depth.mats["lightMatrix"], eps))
	assert.True(t, BiasMatrix.Mul(light.Shadow().LightMatrix()).ApproxEqual(f.r.LightMatrix(0), eps))
}

func TestShadowMapsReadOnOwnUnits(t *testing.T) {
	f := newFixture(t)
	f.addPointLight(t, math.Vec3{X: -3, Y: 3, Z: 3}, math.Vec3{Y: 1})
	f.addPointLight(t, math.Vec3{X: 3, Y: 3}, math.Vec3{Z: 1})
	_, err := f.scene.AddDirectionalLight(math.Vec3{Y: -1}, math.Splat(1), 0.5)
	require.NoError(t, err)

	f.render(t)

	for slot := range 3 {
		assert.Equal(t, 1, f.ev.count(fmt.Sprintf("shadow%d read %d", slot, ShadowUnitBase+slot)))
	}
}

func TestShadedPassProgramSelection(t *testing.T) {
	f := newFixture(t)
	plain := f.addEntity(t, mesh.NameCube)
	textured := f.addEntity(t, mesh.NamePlane)
	textured.Material.SetDiffuseMap(&fakeTexture{ev: f.ev})

	f.render(t)

	assert.Equal(t, 1, f.ev.count("bind phong-notexture"))
	assert.Equal(t, 1, f.ev.count("bind phong"))
	assert.Equal(t, 1, f.ev.count("texture 0"))
	assert.Less(t, f.ev.index("bind phong-notexture"), f.ev.index("bind phong"))

	viewProj := f.cam.ProjectionMatrix().Mul(f.cam.ViewMatrix())
	notex := f.programs[shader.PhongNoTexture]
	assert.True(t, viewProj.Mul(plain.ModelMatrix()).ApproxEqual(notex.mats["modelViewProjMatrix"], eps))
	assert.Equal(t, plain.ModelMatrix(), notex.mats["modelToWorldMatrix"])
	assert.Contains(t, f.programs[shader.Phong].vecs, "material.diffuse")
}

func TestSkyboxDrawnFirst(t *testing.T) {
	f := newFixture(t)
	f.scene.SetSkybox(&scene.Skybox{Dir: "sky", Cubemap: &fakeTexture{ev: f.ev}})
	f.addEntity(t, mesh.NameSphere)

	f.render(t)

	on := f.ev.index("skybox state true")
	off := f.ev.index("skybox state false")
	require.GreaterOrEqual(t, on, 0)
	assert.Equal(t, []string{"skybox state true", "draw cube", "skybox state false"}, f.ev.log[on:off+1])
	assert.Less(t, off, f.ev.index("draw sphere"))

	sky := f.programs[shader.Skybox]
	view := sky.mats["view"]
	assert.Equal(t, float32(0), view[12])
	assert.Equal(t, float32(0), view[13])
	assert.Equal(t, float32(0), view[14])
	assert.Equal(t, f.cam.ProjectionMatrix(), sky.mats["projection"])
}

func TestUniformsStage(t *testing.T) {
	f := newFixture(t)
	f.addPointLight(t, math.Vec3{X: -3, Y: 3, Z: 3}, math.Vec3{Y: 1})
	_, err := f.scene.AddDirectionalLight(math.Vec3{Y: -1}, math.Splat(1), 0.5)
	require.NoError(t, err)

	f.render(t)

	for _, name := range []string{shader.Phong, shader.PhongNoTexture} {
		p := f.programs[name]
		assert.Equal(t, f.cam.Position(), p.vecs["eyePositionWorld"])
		assert.Equal(t, int32(0), p.ints["pointLights[0].light.shadowIndex"])
		assert.Equal(t, int32(1), p.ints["directionalLights[0].light.shadowIndex"])
		assert.Equal(t, math.Vec3{Y: -1}, p.vecs["directionalLights[0].direction"])
	}
}

func TestPrepare(t *testing.T) {
	f := newFixture(t)
	f.addPointLight(t, math.Vec3{X: -3, Y: 3, Z: 3}, math.Vec3{Y: 1})
	require.NoError(t, f.scene.SetAmbient(math.Splat(0.2)))

	require.NoError(t, f.r.Prepare(f.scene))

	for _, name := range []string{shader.Phong, shader.PhongNoTexture} {
		p := f.programs[name]
		assert.Equal(t, math.Splat(0.2), p.vecs["globalAmbientLight"])
		assert.Equal(t, int32(1), p.ints["pointLightCount"])
		assert.Equal(t, int32(0), p.ints["dirLightCount"])
		for i := range scene.MaxLights {
			assert.Equal(t, int32(i+1), p.ints[fmt.Sprintf("shadowMaps[%d]", i)])
		}
	}
	quad := f.programs[shader.DebugQuad]
	assert.Equal(t, math.Scale(0.25, 0.25, 0), quad.mats["scale"])
	assert.Equal(t, math.Translate(math.Vec3{X: 0.75, Y: 0.75}), quad.mats["translation"])
}

func TestPrepareRunsOnceUntilInvalidated(t *testing.T) {
	f := newFixture(t)

	f.render(t)
	assert.Equal(t, 1, f.ev.count("phong.globalAmbientLight"))

	f.render(t)
	assert.Zero(t, f.ev.count("phong.globalAmbientLight"))

	f.r.Invalidate()
	f.render(t)
	assert.Equal(t, 1, f.ev.count("phong.globalAmbientLight"))
}

func TestWireframe(t *testing.T) {
	f := newFixture(t)
	f.addPointLight(t, math.Vec3{X: -3, Y: 3, Z: 3}, math.Vec3{Y: 1})
	f.addEntity(t, mesh.NameCube)

	f.ev.log = nil
	f.r.ToggleWireframe()
	assert.Equal(t, []string{"wireframe true"}, f.ev.log)
	assert.True(t, f.r.Wireframe())

	f.render(t)

	assert.Zero(t, f.ev.count("shadow0 write"))
	assert.Equal(t, 1, f.ev.count(fmt.Sprintf("clear %v", math.Vec3{})))
	assert.Equal(t, 1, f.ev.count("draw cube"))
	assert.Equal(t, 1, f.ev.count("draw sphere"))
	assert.Equal(t, math.Splat(1), f.programs[shader.FlatColour].vecs["diffuseColour"])
	assert.Zero(t, f.ev.count("bind phong-notexture"))

	f.r.ToggleWireframe()
	f.render(t)
	assert.Equal(t, 1, f.ev.count("shadow0 write"))
}

func TestShadowMapView(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, f *fixture)
		ortho bool
	}{
		{
			name: "orthographic",
			setup: func(t *testing.T, f *fixture) {
				_, err := f.scene.AddDirectionalLight(math.Vec3{Y: -1}, math.Splat(1), 0.5)
				require.NoError(t, err)
			},
			ortho: true,
		},
		{
			name: "perspective",
			setup: func(t *testing.T, f *fixture) {
				f.addPointLight(t, math.Vec3{X: -3, Y: 3, Z: 3}, math.Vec3{Y: 1})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(t, f)
			f.r.ToggleShadowMapView()

			f.render(t)

			start := f.ev.index("shadow0 compare false")
			require.GreaterOrEqual(t, start, 0)
			assert.Equal(t, []string{
				"shadow0 compare false",
				"shadow0 read 0",
				"draw quad",
				"shadow0 compare true",
			}, f.ev.log[start:start+4])

			quad := f.programs[shader.DebugQuad]
			assert.Equal(t, tt.ortho, quad.bools["isOrtho"])
			if tt.ortho {
				assert.NotContains(t, quad.flts, "nearZ")
			} else {
				assert.InDelta(t, shadow.PointNear, quad.flts["nearZ"], 1e-7)
				assert.InDelta(t, shadow.PointFar, quad.flts["farZ"], 1e-7)
			}
		})
	}
}

func TestNextShadowMapViewWraps(t *testing.T) {
	f := newFixture(t)

	f.r.NextShadowMapView(3)
	f.r.NextShadowMapView(3)
	_, idx := f.r.ShadowMapView()
	assert.Equal(t, 2, idx)

	f.r.NextShadowMapView(3)
	_, idx = f.r.ShadowMapView()
	assert.Equal(t, 0, idx)

	f.r.NextShadowMapView(0)
	_, idx = f.r.ShadowMapView()
	assert.Equal(t, 0, idx)
}

func TestPointLightMarkers(t *testing.T) {
	f := newFixture(t)
	l := f.addPointLight(t, math.Vec3{X: 3, Y: 3}, math.Vec3{Z: 1})
	require.NoError(t, l.SetIntensity(0.5))

	f.render(t)

	flat := f.programs[shader.FlatColour]
	assert.Equal(t, math.Vec3{Z: 0.5}, flat.vecs["diffuseColour"])

	viewProj := f.cam.ProjectionMatrix().Mul(f.cam.ViewMatrix())
	want := viewProj.Mul(math.Translate(l.Position()).Mul(math.UniformScale(0.1)))
	assert.True(t, want.ApproxEqual(flat.mats["modelViewProjMatrix"], eps))
	assert.Greater(t, f.ev.index("draw sphere"), f.ev.index("target 0 800x600"))
}

func TestSetTargetAndResize(t *testing.T) {
	f := newFixture(t)

	f.r.SetTarget(7, 320, 240)
	f.render(t)
	assert.Equal(t, 1, f.ev.count("target 7 320x240"))

	f.r.Resize(640, 480)
	f.render(t)
	assert.Equal(t, 1, f.ev.count("target 7 640x480"))
	w, h := f.r.Size()
	assert.Equal(t, int32(640), w)
	assert.Equal(t, int32(480), h)
}

func TestRenderFailsWhenProgramDisappears(t *testing.T) {
	f := newFixture(t)
	delete(f.programs, shader.FlatColour)

	err := f.r.Render(f.cam, f.scene)
	assert.True(t, errors.Is(err, shader.ErrProgramNotFound))
}

func TestDrawInvalidMeshPanics(t *testing.T) {
	f := newFixture(t)
	_, err := f.scene.AddEntity("ghost", 99)
	require.NoError(t, err)

	assert.Panics(t, func() { _ = f.r.Render(f.cam, f.scene) })
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "ShadowPass(2)", Step{State: StateShadowPass, Slot: 2}.String())
	assert.Equal(t, "Shaded", Step{State: StateShaded}.String())
	assert.Equal(t, "State(42)", State(42).String())
}
