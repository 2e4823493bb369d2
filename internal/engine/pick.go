package engine

import (
	"github.com/Faultbox/umbra/internal/engine/picking"
)

// PickEntity returns the index of the nearest entity under pixel (x, y)
// of the output, counted from the top left. Entities are tested against
// the world bounds of their meshes.
func (e *Engine) PickEntity(x, y float32) (int, bool) {
	cam := e.ctx.Camera
	inv, ok := cam.ProjectionMatrix().Mul(cam.ViewMatrix()).Inverse()
	if !ok {
		return -1, false
	}
	ray := picking.ScreenToRay(x, y, float32(e.width), float32(e.height), inv)

	ents := e.ctx.Scene.Entities()
	boxes := make([]picking.AABB, 0, len(ents))
	index := make([]int, 0, len(ents))
	for i, ent := range ents {
		lo, hi, ok := e.meshes.Bounds(ent.Mesh())
		if !ok {
			continue
		}
		boxes = append(boxes, picking.NewAABB(lo, hi).Transform(ent.ModelMatrix()))
		index = append(index, i)
	}

	n, ok := picking.Nearest(ray, boxes)
	if !ok {
		return -1, false
	}
	return index[n], true
}
