package picking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/umbra/pkg/math"
)

const (
	eps   = 1e-3
	sqrt2 = 1.41421356
)

func TestScreenToRayCenter(t *testing.T) {
	eye := math.Vec3{Y: 2, Z: 6}
	view := math.LookAt(eye, math.Vec3{Y: 2}, math.Vec3{Y: 1})
	proj := math.Perspective(math.Radians(45), 1, 0.1, 100)
	inv, ok := proj.Mul(view).Inverse()
	require.True(t, ok)

	r := ScreenToRay(400, 400, 800, 800, inv)
	assert.True(t, r.Direction.ApproxEqual(math.Vec3{Z: -1}, eps), "direction %v", r.Direction)
	assert.InDelta(t, 2, r.Origin.Y, eps)
	assert.InDelta(t, 5.9, r.Origin.Z, eps)

	// The top of the viewport looks up.
	top := ScreenToRay(400, 0, 800, 800, inv)
	assert.Greater(t, top.Direction.Y, float32(0))
}

func TestIntersectAABB(t *testing.T) {
	box := NewAABB(math.Splat(1), math.Splat(-1))
	assert.Equal(t, math.Splat(-1), box.Min)

	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		wantT float32
	}{
		{"head on", Ray{math.Vec3{Z: 5}, math.Vec3{Z: -1}}, true, 4},
		{"from inside", Ray{math.Vec3{}, math.Vec3{X: 1}}, true, 1},
		{"pointing away", Ray{math.Vec3{Z: 5}, math.Vec3{Z: 1}}, false, 0},
		{"parallel outside", Ray{math.Vec3{Y: 2, Z: 5}, math.Vec3{Z: -1}}, false, 0},
		{"diagonal miss", Ray{math.Vec3{X: -5, Z: 5}, math.Vec3{X: 1, Z: 1}.Normalize()}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.ray.IntersectAABB(box)
			assert.Equal(t, tt.hit, ok)
			if tt.hit {
				assert.InDelta(t, tt.wantT, got, eps)
			}
		})
	}
}

func TestTransform(t *testing.T) {
	box := NewAABB(math.Splat(-1), math.Splat(1))
	m := math.Translate(math.Vec3{X: 3}).Mul(math.RotateY(math.Radians(45))).Mul(math.UniformScale(2))

	got := box.Transform(m)
	r := float32(2 * sqrt2)
	assert.True(t, got.Min.ApproxEqual(math.Vec3{X: 3 - r, Y: -2, Z: -r}, eps), "min %v", got.Min)
	assert.True(t, got.Max.ApproxEqual(math.Vec3{X: 3 + r, Y: 2, Z: r}, eps), "max %v", got.Max)
}

func TestNearest(t *testing.T) {
	boxes := []AABB{
		NewAABB(math.Vec3{X: -1, Y: -1, Z: -10}, math.Vec3{X: 1, Y: 1, Z: -8}),
		NewAABB(math.Vec3{X: -1, Y: -1, Z: -4}, math.Vec3{X: 1, Y: 1, Z: -2}),
		NewAABB(math.Vec3{X: 4, Y: -1, Z: -4}, math.Vec3{X: 6, Y: 1, Z: -2}),
	}
	r := Ray{Direction: math.Vec3{Z: -1}}

	i, ok := Nearest(r, boxes)
	require.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = Nearest(Ray{Direction: math.Vec3{Y: 1}}, boxes)
	assert.False(t, ok)
}
