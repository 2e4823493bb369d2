package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/umbra/pkg/math"
)

// Cube returns a 2x2x2 cube centred on the origin. Faces do not share
// vertices so each face gets a flat normal.
func Cube() *Data {
	positions := []math.Vec3{
		// front
		{X: -1, Y: 1, Z: 1}, {X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: 1},
		// back
		{X: 1, Y: 1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1},
		// top
		{X: -1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: -1},
		// bottom
		{X: -1, Y: -1, Z: 1}, {X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: 1},
		// left
		{X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: 1}, {X: -1, Y: 1, Z: 1},
		// right
		{X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1},
	}

	indices := make([]uint32, 0, 36)
	texCoords := make([][2]float32, 0, len(positions))
	for face := uint32(0); face < 6; face++ {
		base := face * 4
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
		texCoords = append(texCoords, [2]float32{0, 1}, [2]float32{0, 0}, [2]float32{1, 0}, [2]float32{1, 1})
	}

	return &Data{
		Positions: positions,
		Normals:   GenerateNormals(positions, indices),
		TexCoords: texCoords,
		Indices:   indices,
	}
}

// Pyramid returns a square pyramid with its base at y=-1 and apex at y=1.
func Pyramid() *Data {
	apex := math.Vec3{Y: 1}
	positions := []math.Vec3{
		// base
		{X: -1, Y: -1, Z: 1}, {X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: 1},
		// front
		apex, {X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1},
		// back
		apex, {X: 1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: -1},
		// left
		apex, {X: -1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: 1},
		// right
		apex, {X: 1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: -1},
	}
	texCoords := [][2]float32{
		{0, 1}, {0, 0}, {1, 0}, {1, 1},
		{0.5, 1}, {0, 0}, {1, 0},
		{0.5, 1}, {0, 0}, {1, 0},
		{0.5, 1}, {0, 0}, {1, 0},
		{0.5, 1}, {0, 0}, {1, 0},
	}
	indices := []uint32{
		0, 1, 2,
		2, 3, 0,
		4, 5, 6,
		7, 8, 9,
		10, 11, 12,
		13, 14, 15,
	}

	return &Data{
		Positions: positions,
		Normals:   GenerateNormals(positions, indices),
		TexCoords: texCoords,
		Indices:   indices,
	}
}

// Plane returns a 2x2 quad in the XZ plane facing +Y. The texture repeats
// texRepeat times along each axis.
func Plane(texRepeat int) *Data {
	r := float32(texRepeat)
	positions := []math.Vec3{
		{X: -1, Z: 1},
		{X: 1, Z: 1},
		{X: 1, Z: -1},
		{X: -1, Z: -1},
	}
	indices := []uint32{
		0, 1, 3,
		3, 1, 2,
	}

	return &Data{
		Positions: positions,
		Normals:   GenerateNormals(positions, indices),
		TexCoords: [][2]float32{{0, 0}, {r, 0}, {r, r}, {0, r}},
		Indices:   indices,
	}
}

// GridPlane returns a size x size grid of unit quads in the XZ plane,
// starting at the origin. Each row is a triangle strip terminated by
// RestartIndex.
func GridPlane(size int) *Data {
	if size < 1 {
		size = 1
	}
	stride := uint32(size + 1)

	positions := make([]math.Vec3, 0, (size+1)*(size+1))
	normals := make([]math.Vec3, 0, cap(positions))
	for z := 0; z <= size; z++ {
		for x := 0; x <= size; x++ {
			positions = append(positions, math.Vec3{X: float32(x), Z: float32(z)})
			normals = append(normals, math.WorldUp)
		}
	}

	indices := make([]uint32, 0, 2*(size+1)*size+size)
	for z := uint32(0); z < uint32(size); z++ {
		for x := uint32(0); x < stride; x++ {
			indices = append(indices, z*stride+x, (z+1)*stride+x)
		}
		indices = append(indices, RestartIndex)
	}

	return &Data{
		Positions: positions,
		Normals:   normals,
		Indices:   indices,
		Primitive: TriangleStrip,
		Restart:   true,
	}
}

// Sphere returns a unit UV sphere. rings is the number of latitude bands
// and sectors the number of longitude bands.
func Sphere(rings, sectors int) *Data {
	if rings < 2 {
		rings = 2
	}
	if sectors < 3 {
		sectors = 3
	}

	count := (rings + 1) * (sectors + 1)
	positions := make([]math.Vec3, 0, count)
	texCoords := make([][2]float32, 0, count)
	for r := 0; r <= rings; r++ {
		v := float32(r) / float32(rings)
		sinTheta, cosTheta := math32.Sincos(v * math32.Pi)
		for s := 0; s <= sectors; s++ {
			u := float32(s) / float32(sectors)
			sinPhi, cosPhi := math32.Sincos(u * 2 * math32.Pi)
			positions = append(positions, math.Vec3{
				X: sinTheta * cosPhi,
				Y: cosTheta,
				Z: sinTheta * sinPhi,
			})
			texCoords = append(texCoords, [2]float32{u, 1 - v})
		}
	}

	// On a unit sphere the position is the normal.
	normals := make([]math.Vec3, len(positions))
	copy(normals, positions)

	stride := uint32(sectors + 1)
	indices := make([]uint32, 0, rings*sectors*6)
	for r := uint32(0); r < uint32(rings); r++ {
		for s := uint32(0); s < uint32(sectors); s++ {
			a := r*stride + s
			b := (r+1)*stride + s
			c := b + 1
			d := a + 1
			indices = append(indices, a, d, b, d, c, b)
		}
	}

	return &Data{
		Positions: positions,
		Normals:   normals,
		TexCoords: texCoords,
		Indices:   indices,
	}
}

// Quad returns a full-screen quad in clip space drawn as a triangle strip.
func Quad() *Data {
	return &Data{
		Positions: []math.Vec3{
			{X: -1, Y: 1},
			{X: -1, Y: -1},
			{X: 1, Y: 1},
			{X: 1, Y: -1},
		},
		TexCoords: [][2]float32{{0, 1}, {0, 0}, {1, 1}, {1, 0}},
		Indices:   []uint32{0, 1, 2, 3},
		Primitive: TriangleStrip,
	}
}
