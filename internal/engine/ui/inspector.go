package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/umbra/internal/engine"
	"github.com/Faultbox/umbra/internal/engine/lighting"
	"github.com/Faultbox/umbra/internal/engine/scene"
	"github.com/Faultbox/umbra/internal/logger"
	"github.com/Faultbox/umbra/pkg/math"
)

// Slider ranges of the inspector panel.
const (
	translationRange = 10
	rotationRange    = 180
	maxScale         = 10
	minScale         = 0.01
)

type selectionKind int

const (
	selectNone selectionKind = iota
	selectEntity
	selectLight
)

// selection is the item shown in the Inspector panel. index is an entity
// index or a light slot.
type selection struct {
	kind  selectionKind
	index int
}

// Inspector draws the System, Scene and Inspector panels.
type Inspector struct {
	ctx *engine.Context
	sel selection
	log *zap.Logger
}

// NewInspector creates an inspector editing ctx.
func NewInspector(ctx *engine.Context) *Inspector {
	return &Inspector{ctx: ctx, log: logger.Named("ui")}
}

// entity returns the selected entity, or nil.
func (i *Inspector) entity() *scene.Entity {
	ents := i.ctx.Scene.Entities()
	if i.sel.kind != selectEntity || i.sel.index >= len(ents) {
		return nil
	}
	return ents[i.sel.index]
}

// light returns the selected light, or nil.
func (i *Inspector) light() *lighting.Light {
	if i.sel.kind != selectLight {
		return nil
	}
	return i.ctx.Scene.Light(i.sel.index)
}

// selectPicked selects the entity at index, or clears the selection when
// nothing was hit.
func (i *Inspector) selectPicked(index int, hit bool) {
	if !hit {
		i.sel = selection{}
		return
	}
	i.sel = selection{selectEntity, index}
	if e := i.entity(); e != nil {
		i.log.Debug("entity picked", zap.String("name", e.Name()), zap.Int("index", index))
	}
}

// Draw draws the panels into a column of the given width at the left of
// the work area.
func (i *Inspector) Draw(x, y, width, height float32) {
	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	systemHeight := float32(120)
	sceneHeight := (height - systemHeight) * 0.45

	imgui.SetNextWindowPos(imgui.NewVec2(x, y))
	imgui.SetNextWindowSize(imgui.NewVec2(width, systemHeight))
	if imgui.BeginV("System", nil, flags) {
		i.drawSystem()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(x, y+systemHeight))
	imgui.SetNextWindowSize(imgui.NewVec2(width, sceneHeight))
	if imgui.BeginV("Scene", nil, flags) {
		i.drawScene()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(x, y+systemHeight+sceneHeight))
	imgui.SetNextWindowSize(imgui.NewVec2(width, height-systemHeight-sceneHeight))
	if imgui.BeginV("Inspector", nil, flags) {
		i.drawInspector()
	}
	imgui.End()
}

func (i *Inspector) drawSystem() {
	gl := i.ctx.GL
	imgui.Text(fmt.Sprintf("Vendor: %s", gl.Vendor))
	imgui.Text(fmt.Sprintf("Renderer: %s", gl.Renderer))
	imgui.Text(fmt.Sprintf("Version: %s", gl.Version))
	imgui.Separator()
	imgui.Text(fmt.Sprintf("FPS: %.1f", i.ctx.Stats.FPS()))
}

func (i *Inspector) drawScene() {
	if !imgui.BeginTabBar("SceneTabs") {
		return
	}
	if imgui.BeginTabItem("Entities") {
		for n, e := range i.ctx.Scene.Entities() {
			label := fmt.Sprintf("%s##entity%d", e.Name(), n)
			selected := i.sel == selection{selectEntity, n}
			if imgui.SelectableBoolV(label, selected, 0, imgui.NewVec2(0, 0)) {
				i.sel = selection{selectEntity, n}
			}
		}
		imgui.Separator()
		imgui.Checkbox("Backface culling", &i.ctx.BackfaceCulling)
		imgui.EndTabItem()
	}
	if imgui.BeginTabItem("Lighting") {
		for slot, l := range i.ctx.Scene.Lights() {
			label := fmt.Sprintf("%s##light%d", l.Name(), slot)
			selected := i.sel == selection{selectLight, slot}
			if imgui.SelectableBoolV(label, selected, 0, imgui.NewVec2(0, 0)) {
				i.sel = selection{selectLight, slot}
			}
		}
		imgui.Separator()
		ambient := toArray(i.ctx.Scene.Ambient())
		if imgui.ColorEdit3("Global ambient", &ambient) {
			i.setAmbient(ambient)
		}
		imgui.EndTabItem()
	}
	imgui.EndTabBar()
}

func (i *Inspector) setAmbient(c [3]float32) {
	if err := i.ctx.Scene.SetAmbient(fromArray(c)); err != nil {
		i.log.Warn("ambient rejected", zap.Error(err))
		return
	}
	i.ctx.Invalidate()
}

func (i *Inspector) drawInspector() {
	if !imgui.BeginTabBar("InspectorTabs") {
		return
	}
	if imgui.BeginTabItem("Entity") {
		if e := i.entity(); e != nil {
			i.drawEntity(e)
		} else {
			imgui.TextDisabled("Select an entity")
		}
		imgui.EndTabItem()
	}
	if imgui.BeginTabItem("Light") {
		if l := i.light(); l != nil {
			i.drawLight(l)
		} else {
			imgui.TextDisabled("Select a light")
		}
		imgui.EndTabItem()
	}
	imgui.EndTabBar()
}

func (i *Inspector) drawEntity(e *scene.Entity) {
	imgui.Text(e.Name())
	imgui.Separator()

	pos := toArray(e.Position)
	if imgui.SliderFloat3("Translation", &pos, -translationRange, translationRange) {
		e.Position = fromArray(pos)
	}

	rot := toArray(e.Rotation)
	if imgui.SliderFloat3("Rotation", &rot, -rotationRange, rotationRange) {
		e.Rotation = fromArray(rot)
	}

	scale := e.Scale()
	if imgui.SliderFloatV("Scale", &scale, minScale, maxScale, "%.2f", imgui.SliderFlagsNone) {
		if err := e.SetScale(scale); err != nil {
			i.log.Warn("scale rejected", zap.Float32("scale", scale), zap.Error(err))
		}
	}
}

func (i *Inspector) drawLight(l *lighting.Light) {
	imgui.Text(l.Name())
	imgui.Separator()

	switch l.Kind() {
	case lighting.KindPoint:
		pos := toArray(l.Position())
		if imgui.SliderFloat3("Position", &pos, -translationRange, translationRange) {
			l.SetPosition(fromArray(pos))
		}
	case lighting.KindDirectional:
		dir := toArray(l.Direction())
		if imgui.SliderFloat3("Direction", &dir, -1, 1) {
			l.SetDirection(fromArray(dir))
		}
	}

	color := toArray(l.Color())
	if imgui.ColorEdit3("Color", &color) {
		if err := l.SetColor(fromArray(color)); err != nil {
			i.log.Warn("color rejected", zap.Error(err))
		}
	}

	intensity := l.Intensity()
	if imgui.SliderFloatV("Intensity", &intensity, 0, 1, "%.2f", imgui.SliderFlagsNone) {
		if err := l.SetIntensity(intensity); err != nil {
			i.log.Warn("intensity rejected", zap.Error(err))
		}
	}
}

func toArray(v math.Vec3) [3]float32 { return [3]float32{v.X, v.Y, v.Z} }

func fromArray(a [3]float32) math.Vec3 { return math.Vec3{X: a[0], Y: a[1], Z: a[2]} }
