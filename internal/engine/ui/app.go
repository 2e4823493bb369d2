package ui

import (
	"context"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/umbra/internal/engine"
	"github.com/Faultbox/umbra/internal/engine/input"
	"github.com/Faultbox/umbra/internal/logger"
)

// panelWidth is the width of the inspector column.
const panelWidth = 340

// App runs the engine inside the ImGui backend loop.
type App struct {
	backend   *Backend
	eng       *engine.Engine
	inspector *Inspector
	in        *input.Input
	mouse     viewportMouse
	log       *zap.Logger

	// imageMin is the top left corner of the viewport image last frame.
	imageMin imgui.Vec2
}

// NewApp creates an app drawing eng's output in a Viewport window. The
// engine must have been created on the backend's GL context.
func NewApp(b *Backend, eng *engine.Engine) (*App, error) {
	w, h := b.Size()
	if err := eng.UseOffscreen(int(w)-panelWidth, int(h)); err != nil {
		return nil, err
	}
	return &App{
		backend:   b,
		eng:       eng,
		inspector: NewInspector(eng.Context()),
		in:        input.New(),
		log:       logger.Named("ui"),
	}, nil
}

// Run drives frames until the window closes or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	var runErr error
	last := time.Now()
	a.backend.Run(func() {
		if ctx.Err() != nil || runErr != nil {
			a.backend.Close()
			return
		}
		now := time.Now()
		dt := now.Sub(last)
		last = now

		a.in.BeginFrame()
		pushKeys(a.in, liveKeys{})
		a.mouse.update(a.in, imgui.MousePos(), imgui.IsMouseDown(imgui.MouseButtonLeft))
		if pos, ok := a.mouse.click(); ok {
			a.inspector.selectPicked(a.eng.PickEntity(pos.X-a.imageMin.X, pos.Y-a.imageMin.Y))
		}

		a.eng.ReloadShaders()
		a.eng.HandleInput(a.in, float32(dt.Seconds()), &a.mouse)

		x, y, width, height := Viewport()
		a.inspector.Draw(x, y, panelWidth, height)

		if err := a.eng.RenderFrame(); err != nil {
			a.log.Error("render failed", zap.Error(err))
			runErr = err
		}
		a.drawViewport(x+panelWidth, y, width-panelWidth, height)
		if a.eng.Tick(dt) {
			a.backend.SetWindowTitle(a.eng.Title())
		}
	})
	return runErr
}

func (a *App) drawViewport(x, y, width, height float32) {
	imgui.SetNextWindowPos(imgui.NewVec2(x, y))
	imgui.SetNextWindowSize(imgui.NewVec2(width, height))

	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize |
		imgui.WindowFlagsNoCollapse | imgui.WindowFlagsNoScrollbar |
		imgui.WindowFlagsNoScrollWithMouse

	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(0, 0))
	if imgui.BeginV("Viewport", nil, flags) {
		avail := imgui.ContentRegionAvail()
		// Takes effect on the next frame; this one shows the old size
		// stretched.
		a.eng.ResizeOffscreen(int(avail.X), int(avail.Y))

		texRef := imgui.NewTextureRefTextureID(imgui.TextureID(a.eng.OffscreenTexture()))
		imgui.ImageV(*texRef,
			avail,
			imgui.NewVec2(0, 1),
			imgui.NewVec2(1, 0))
		a.mouse.hovered = imgui.IsItemHovered()
		a.imageMin = imgui.ItemRectMin()
	}
	imgui.End()
	imgui.PopStyleVar()
}
