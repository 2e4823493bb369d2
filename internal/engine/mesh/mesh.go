package mesh

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/umbra/pkg/math"
)

// Vertex attribute locations shared by every program.
const (
	PositionLocation = 0
	NormalLocation   = 1
	TexCoordLocation = 2
)

// Mesh is geometry uploaded to GL buffers, one buffer per attribute.
type Mesh struct {
	vao       uint32
	buffers   [4]uint32 // index, position, normal, texcoord
	count     int32
	primitive Primitive
	restart   bool
}

// Upload validates d and copies it into a new vertex array. A GL context
// must be current.
func Upload(d *Data) (*Mesh, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	m := &Mesh{
		count:     int32(len(d.Indices)),
		primitive: d.Primitive,
		restart:   d.Restart,
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)
	gl.GenBuffers(int32(len(m.buffers)), &m.buffers[0])

	sendFloats(m.buffers[1], PositionLocation, 3, flatten(d.Positions))
	if len(d.Normals) > 0 {
		sendFloats(m.buffers[2], NormalLocation, 3, flatten(d.Normals))
	}
	if len(d.TexCoords) > 0 {
		uv := make([]float32, 0, 2*len(d.TexCoords))
		for _, t := range d.TexCoords {
			uv = append(uv, t[0], t[1])
		}
		sendFloats(m.buffers[3], TexCoordLocation, 2, uv)
	}

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.buffers[0])
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(d.Indices)*4, unsafe.Pointer(&d.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return m, nil
}

func sendFloats(buffer uint32, location uint32, size int32, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(location, size, gl.FLOAT, false, size*4, 0)
	gl.EnableVertexAttribArray(location)
}

func flatten(vs []math.Vec3) []float32 {
	out := make([]float32, 0, 3*len(vs))
	for _, v := range vs {
		out = append(out, v.X, v.Y, v.Z)
	}
	return out
}

// Primitive returns the mode the mesh was built for.
func (m *Mesh) Primitive() Primitive { return m.primitive }

// Render draws the mesh with the given primitive mode.
func (m *Mesh) Render(p Primitive) {
	if m.restart {
		gl.Enable(gl.PRIMITIVE_RESTART)
		gl.PrimitiveRestartIndex(RestartIndex)
		defer gl.Disable(gl.PRIMITIVE_RESTART)
	}

	gl.BindVertexArray(m.vao)
	gl.DrawElementsWithOffset(glMode(p), m.count, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

func glMode(p Primitive) uint32 {
	switch p {
	case Lines:
		return gl.LINES
	case TriangleStrip:
		return gl.TRIANGLE_STRIP
	default:
		return gl.TRIANGLES
	}
}

// Destroy releases the GL objects.
func (m *Mesh) Destroy() {
	if m.vao == 0 {
		return
	}
	gl.DeleteBuffers(int32(len(m.buffers)), &m.buffers[0])
	gl.DeleteVertexArrays(1, &m.vao)
	m.vao = 0
}
