package lighting

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/umbra/pkg/math"
)

const eps = 1e-6

var white = math.Vec3{X: 1, Y: 1, Z: 1}

// recorder captures uniform writes by name.
type recorder struct {
	vec3s  map[string]math.Vec3
	floats map[string]float32
	ints   map[string]int32
}

func newRecorder() *recorder {
	return &recorder{
		vec3s:  make(map[string]math.Vec3),
		floats: make(map[string]float32),
		ints:   make(map[string]int32),
	}
}

func (r *recorder) SetVec3(name string, v math.Vec3) { r.vec3s[name] = v }
func (r *recorder) SetFloat(name string, f float32)  { r.floats[name] = f }
func (r *recorder) SetInt(name string, i int32)      { r.ints[name] = i }
func (r *recorder) count() int                       { return len(r.vec3s) + len(r.floats) + len(r.ints) }

func TestIsValidColor(t *testing.T) {
	tests := []struct {
		name string
		c    math.Vec3
		want bool
	}{
		{"black", math.Vec3{}, true},
		{"white", white, true},
		{"mid", math.Vec3{X: 0.2, Y: 0.9, Z: 0.5}, true},
		{"negative red", math.Vec3{X: -0.01, Y: 0, Z: 0}, false},
		{"green above one", math.Vec3{X: 0, Y: 1.01, Z: 0}, false},
		{"blue above one", math.Vec3{X: 0, Y: 0, Z: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidColor(tt.c))
		})
	}
}

func TestColorTermsScaleWithIntensity(t *testing.T) {
	c := math.Vec3{X: 0.2, Y: 0.9, Z: 0.4}
	const intensity = 0.5

	l, err := NewPointLight(0, math.Vec3{}, c, intensity, DefaultAttenuation)
	require.NoError(t, err)

	assert.True(t, l.Ambient().ApproxEqual(c.Scale(0.1*intensity), eps))
	assert.True(t, l.Diffuse().ApproxEqual(c.Scale(intensity), eps))
	assert.True(t, l.Specular().ApproxEqual(c.Scale(intensity), eps))
	assert.Equal(t, c, l.Color())
	assert.InDelta(t, intensity, l.Intensity(), eps)
}

func TestSetColor(t *testing.T) {
	l, err := NewPointLight(0, math.Vec3{}, white, 1, DefaultAttenuation)
	require.NoError(t, err)

	require.NoError(t, l.SetColor(math.Vec3{X: 0.2, Y: 0.9, Z: 0}))
	assert.Equal(t, math.Vec3{X: 0.2, Y: 0.9, Z: 0}, l.Color())

	err = l.SetColor(math.Vec3{X: -1})
	assert.ErrorIs(t, err, ErrInvalidColor)
	assert.Equal(t, math.Vec3{X: 0.2, Y: 0.9, Z: 0}, l.Color(), "rejected color must not be stored")
}

func TestConstructorValidation(t *testing.T) {
	_, err := NewPointLight(0, math.Vec3{}, math.Vec3{X: 1.5}, 1, DefaultAttenuation)
	assert.ErrorIs(t, err, ErrInvalidColor)

	_, err = NewPointLight(0, math.Vec3{}, white, 1.2, DefaultAttenuation)
	assert.ErrorIs(t, err, ErrInvalidIntensity)

	_, err = NewDirectionalLight(0, math.Vec3{X: 0, Y: -1, Z: 0}, white, -0.1)
	assert.ErrorIs(t, err, ErrInvalidIntensity)

	for _, dir := range []math.Vec3{
		{},
		{X: 1e-30},
		{Y: float32(gomath.NaN())},
		{Z: float32(gomath.Inf(1))},
	} {
		_, err = NewDirectionalLight(0, dir, white, 1)
		assert.ErrorIs(t, err, ErrZeroDirection, "direction %v", dir)
	}

	l, err := NewDirectionalLight(0, math.Vec3{Y: -1e-15}, white, 1)
	require.NoError(t, err)
	assert.True(t, l.Direction().ApproxEqual(math.Vec3{Y: -1}, eps))
}

func TestIntensityBoundaries(t *testing.T) {
	l, err := NewPointLight(0, math.Vec3{}, white, 0, DefaultAttenuation)
	require.NoError(t, err)
	assert.Equal(t, math.Vec3{}, l.Diffuse())

	require.NoError(t, l.SetIntensity(1))
	assert.Equal(t, white, l.Diffuse())
}

func TestPointLightPosition(t *testing.T) {
	l, err := NewPointLight(0, math.Vec3{X: 4, Y: -0.3}, white, 1, DefaultAttenuation)
	require.NoError(t, err)
	assert.Equal(t, math.Vec3{X: 4, Y: -0.3}, l.Position())

	l.SetPosition(math.Vec3{X: -1.1, Y: -4.2, Z: -8.5})
	assert.Equal(t, math.Vec3{X: -1.1, Y: -4.2, Z: -8.5}, l.Position())
}

func TestPointLightShadowIsLazy(t *testing.T) {
	l, err := NewPointLight(0, math.Vec3{X: -3, Y: 3, Z: 3}, white, 1, DefaultAttenuation)
	require.NoError(t, err)
	assert.Nil(t, l.Shadow())

	l.CreateShadowData(16.0 / 9.0)
	require.NotNil(t, l.Shadow())
	assert.False(t, l.Shadow().IsOrthographic())
}

func TestPointLightMoveUpdatesLightMatrix(t *testing.T) {
	l, err := NewPointLight(0, math.Vec3{X: -3, Y: 3, Z: 3}, white, 1, DefaultAttenuation)
	require.NoError(t, err)
	l.CreateShadowData(1)

	before := l.Shadow().LightMatrix()
	l.SetPosition(math.Vec3{X: 3, Y: 3, Z: 0})

	assert.Equal(t, math.Vec3{X: 3, Y: 3, Z: 0}, l.Position())
	assert.NotEqual(t, before, l.Shadow().LightMatrix())
}

func TestDirectionalLightDirection(t *testing.T) {
	down, err := NewDirectionalLight(0, math.Vec3{X: 0, Y: -1, Z: 0}, white, 1)
	require.NoError(t, err)
	assert.Equal(t, math.Vec3{X: 0, Y: -1, Z: 0}, down.Direction())
	require.NotNil(t, down.Shadow())
	assert.True(t, down.Shadow().IsOrthographic())

	in := math.Vec3{X: 1, Y: -1, Z: 0}
	oblique, err := NewDirectionalLight(1, in, white, 1)
	require.NoError(t, err)
	assert.True(t, oblique.Direction().ApproxEqual(in.Normalize(), eps))
}

func TestSetDirectionIgnoresZero(t *testing.T) {
	l, err := NewDirectionalLight(0, math.Vec3{X: 1, Y: -1, Z: 0}, white, 1)
	require.NoError(t, err)
	want := l.Direction()
	matrix := l.Shadow().LightMatrix()

	for _, dir := range []math.Vec3{{}, {Z: 1e-25}, {X: float32(gomath.NaN())}} {
		l.SetDirection(dir)
		assert.Equal(t, want, l.Direction(), "direction %v", dir)
		assert.Equal(t, matrix, l.Shadow().LightMatrix(), "direction %v", dir)
	}

	l.SetDirection(math.Vec3{X: 0, Y: -2, Z: 0})
	assert.Equal(t, math.Vec3{X: 0, Y: -1, Z: 0}, l.Direction())
	assert.NotEqual(t, matrix, l.Shadow().LightMatrix())
}

func TestVariantSettersIgnoreOtherKind(t *testing.T) {
	dir, err := NewDirectionalLight(0, math.Vec3{X: 0, Y: -1, Z: 0}, white, 1)
	require.NoError(t, err)
	dir.SetPosition(math.Vec3{X: 5})
	dir.CreateShadowData(1)
	assert.Equal(t, math.Vec3{}, dir.Position())
	assert.True(t, dir.Shadow().IsOrthographic())

	point, err := NewPointLight(0, math.Vec3{X: 1}, white, 1, DefaultAttenuation)
	require.NoError(t, err)
	point.SetDirection(math.Vec3{X: 1})
	assert.Equal(t, math.Vec3{}, point.Direction())
}

func TestResolveUniformsPoint(t *testing.T) {
	att := Attenuation{Constant: 1, Linear: 0.5, Quadratic: 0.25}
	l, err := NewPointLight(1, math.Vec3{X: 3, Y: 3}, math.Vec3{Y: 1}, 0.5, att)
	require.NoError(t, err)

	r := newRecorder()
	ResolveUniforms(l, r, 2)

	assert.Equal(t, int32(2), r.ints["pointLights[1].light.shadowIndex"])
	assert.Equal(t, l.Ambient(), r.vec3s["pointLights[1].light.ambient"])
	assert.Equal(t, math.Vec3{Y: 0.5}, r.vec3s["pointLights[1].light.diffuse"])
	assert.Equal(t, math.Vec3{Y: 0.5}, r.vec3s["pointLights[1].light.specular"])
	assert.Equal(t, math.Vec3{X: 3, Y: 3}, r.vec3s["pointLights[1].position"])
	assert.Equal(t, float32(0.25), r.floats["pointLights[1].attenuation.quadratic"])
	assert.Equal(t, float32(0.5), r.floats["pointLights[1].attenuation.linear"])
	assert.Equal(t, float32(1), r.floats["pointLights[1].attenuation.constant"])
	assert.Equal(t, 8, r.count())
}

func TestResolveUniformsDirectional(t *testing.T) {
	l, err := NewDirectionalLight(0, math.Vec3{X: 0, Y: -1, Z: 0}, white, 0.5)
	require.NoError(t, err)

	r := newRecorder()
	ResolveUniforms(l, r, 2)

	assert.Equal(t, int32(2), r.ints["directionalLights[0].light.shadowIndex"])
	assert.Equal(t, math.Vec3{X: 0, Y: -1, Z: 0}, r.vec3s["directionalLights[0].direction"])
	assert.Equal(t, math.Splat(0.5), r.vec3s["directionalLights[0].light.diffuse"])
	assert.Equal(t, 5, r.count())
}

func TestName(t *testing.T) {
	l, err := NewDirectionalLight(3, math.Vec3{X: 1}, white, 1)
	require.NoError(t, err)
	assert.Equal(t, "DirectionalLight [3]", l.Name())
}
