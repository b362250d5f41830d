package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.design/x/clipboard"

	"github.com/milk9111/planview/config"
	"github.com/milk9111/planview/geometry"
	"github.com/milk9111/planview/infofmt"
	"github.com/milk9111/planview/render"
	"github.com/milk9111/planview/scene"
	"github.com/milk9111/planview/viewport"
)

const (
	panelWidth      = 240
	infoPadding     = 8
	infoLineSpacing = 18
)

// pointerState is one frame of mouse input in window pixels.
type pointerState struct {
	X, Y     float64
	Pressed  bool
	Released bool
	WheelY   float64
}

// keyState is one frame of shortcut input.
type keyState struct {
	Fit   bool
	Reset bool
	Copy  bool
	Help  bool
}

// Viewer is the ebiten game hosting the plan viewport, the layer panel and
// the hover info overlay.
type Viewer struct {
	cfg   config.Config
	debug bool

	renderer *viewport.Renderer
	screen   *render.Screen
	canvas   *ebiten.Image
	panel    *LayerPanel

	ui       *ebitenui.UI
	help     *ebitenui.UI
	showHelp bool
	face     text.Face

	watcher  *scene.Watcher
	info     string
	copyText func(text string)

	width, height int
	pointerIn     bool
	lastX, lastY  float64
}

// NewViewer builds the viewer and its widgets.
func NewViewer(cfg config.Config, debug bool) (*Viewer, error) {
	v, err := newViewer(cfg, debug)
	if err != nil {
		return nil, err
	}
	if err := v.buildUI(); err != nil {
		return nil, err
	}
	if err := clipboard.Init(); err != nil {
		log.Printf("planview: clipboard unavailable: %v", err)
	} else {
		v.copyText = func(text string) {
			clipboard.Write(clipboard.FmtText, []byte(text))
		}
	}
	return v, nil
}

// newViewer wires the renderer, formatter and layer panel state without
// creating any ebiten resources.
func newViewer(cfg config.Config, debug bool) (*Viewer, error) {
	v := &Viewer{
		cfg:    cfg,
		debug:  debug,
		width:  cfg.Window.Width,
		height: cfg.Window.Height,
	}
	v.renderer = viewport.NewRenderer(v.canvasSize(), cfg.Window.Height, cfg.RendererOptions())

	var formatter viewport.InfoFormatter = infofmt.Default{}
	if cfg.Info.Script != "" {
		s, err := infofmt.Load(cfg.Info.Script)
		if err != nil {
			return nil, err
		}
		formatter = s
	}
	v.renderer.SetFormatter(formatter)
	v.renderer.SetInfoSink(viewport.InfoSinkFunc(func(text string) {
		v.info = text
	}))

	v.panel = NewLayerPanel(v.renderer.Layers())
	v.panel.onToggle = v.renderer.UpdateLayerVisibility
	v.panel.onShowAll = v.renderer.ShowAllLayers
	v.panel.onHideAll = v.renderer.HideAllLayers
	return v, nil
}

func (v *Viewer) buildUI() error {
	face, err := newFontFace(14)
	if err != nil {
		return fmt.Errorf("planview: load font: %w", err)
	}
	v.face = face

	ui := &ebitenui.UI{}
	ui.PrimaryTheme = newViewerTheme(&face)

	left := buildLayerPanelUI(ui.PrimaryTheme, &face, v.panel, panelWidth)
	left.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
		StretchVertical:    true,
	}
	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(left)
	ui.Container = root

	v.ui = ui
	v.help = NewHelpUI(v)
	return nil
}

// Load replaces the displayed scene.
func (v *Viewer) Load(entities []geometry.Entity) {
	v.renderer.LoadGeometry(entities)
	v.panel.SetScene(v.renderer.Scene())
	log.Printf("planview: loaded %d entities on %d layers", v.renderer.Scene().Len(), len(v.renderer.Scene().LayerNames()))
}

// Watch reloads filename whenever it changes on disk.
func (v *Viewer) Watch(filename string) error {
	w, err := scene.Watch(filename)
	if err != nil {
		return err
	}
	v.watcher = w
	return nil
}

// Close stops the file watcher.
func (v *Viewer) Close() error {
	if v.watcher == nil {
		return nil
	}
	return v.watcher.Close()
}

func (v *Viewer) Update() error {
	v.pollWatcher()

	// Typing in the filter box must not trigger shortcuts.
	if !v.panel.FilterFocused() {
		ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
		v.handleKeys(keyState{
			Fit:   inpututil.IsKeyJustPressed(ebiten.KeyF),
			Reset: inpututil.IsKeyJustPressed(ebiten.KeyR),
			Copy:  ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC),
			Help:  inpututil.IsKeyJustPressed(ebiten.KeyH) || inpututil.IsKeyJustPressed(ebiten.KeyF1),
		})
	}

	if v.showHelp {
		if v.help != nil {
			v.help.Update()
		}
	} else {
		if v.ui != nil {
			v.ui.Update()
		}
		cx, cy := ebiten.CursorPosition()
		_, wy := ebiten.Wheel()
		v.handlePointer(pointerState{
			X:        float64(cx),
			Y:        float64(cy),
			Pressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
			Released: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
			WheelY:   wy,
		})
	}
	ebiten.SetCursorShape(v.cursorShape())

	v.ensureCanvas()
	if v.canvas != nil {
		v.renderer.Frame(v.screen)
	}
	return nil
}

func (v *Viewer) pollWatcher() {
	if v.watcher == nil {
		return
	}
	select {
	case path, ok := <-v.watcher.Events:
		if !ok {
			v.watcher = nil
			return
		}
		entities, err := scene.LoadFile(path)
		if err != nil {
			log.Printf("planview: reload %s: %v", path, err)
			return
		}
		v.Load(entities)
	case err, ok := <-v.watcher.Errors:
		if ok {
			log.Printf("planview: watch: %v", err)
		}
	default:
	}
}

func (v *Viewer) handleKeys(k keyState) {
	if k.Help {
		v.showHelp = !v.showHelp
	}
	if v.showHelp {
		return
	}
	if k.Fit {
		v.renderer.FitToScreen()
	}
	if k.Reset {
		v.renderer.ResetView()
	}
	if k.Copy && v.copyText != nil {
		v.copyText(v.info)
	}
}

// handlePointer forwards mouse input to the renderer in canvas pixels. A
// drag keeps panning when the cursor leaves the canvas.
func (v *Viewer) handlePointer(p pointerState) {
	x := p.X - panelWidth
	y := p.Y
	w, h := v.renderer.Camera().SurfaceSize()
	inside := x >= 0 && y >= 0 && x < float64(w) && y < float64(h)
	dragging := v.renderer.Cursor() == viewport.CursorGrab

	if p.Released && dragging {
		v.renderer.PointerUp(x, y)
		dragging = false
	}
	if !inside && !dragging {
		if v.pointerIn {
			v.renderer.PointerLeave()
			v.pointerIn = false
		}
		return
	}

	moved := !v.pointerIn || x != v.lastX || y != v.lastY
	v.pointerIn = true
	v.lastX, v.lastY = x, y

	if p.Pressed && inside {
		v.renderer.PointerDown(x, y)
	}
	if moved {
		v.renderer.PointerMove(x, y)
	}
	if p.WheelY != 0 && inside {
		v.renderer.Wheel(x, y, p.WheelY)
	}
}

func (v *Viewer) cursorShape() ebiten.CursorShapeType {
	if !v.pointerIn || v.showHelp {
		return ebiten.CursorShapeDefault
	}
	switch v.renderer.Cursor() {
	case viewport.CursorGrab:
		return ebiten.CursorShapeMove
	case viewport.CursorPointer:
		return ebiten.CursorShapePointer
	default:
		return ebiten.CursorShapeCrosshair
	}
}

func (v *Viewer) canvasSize() int {
	w := v.width - panelWidth
	if w < 1 {
		w = 1
	}
	return w
}

// ensureCanvas keeps the offscreen canvas matching the window.
func (v *Viewer) ensureCanvas() {
	if v.width <= 0 || v.height <= 0 {
		return
	}
	w := v.canvasSize()
	if v.canvas != nil {
		b := v.canvas.Bounds()
		if b.Dx() == w && b.Dy() == v.height {
			return
		}
		v.canvas.Deallocate()
	}
	v.canvas = ebiten.NewImage(w, v.height)
	if v.screen == nil {
		v.screen = render.NewScreen(v.canvas)
	} else {
		v.screen.SetTarget(v.canvas)
	}
	v.renderer.Resize(w, v.height)
	v.renderer.RequestRender()
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(panelBackground)
	if v.canvas != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(panelWidth, 0)
		screen.DrawImage(v.canvas, op)
	}
	if v.ui != nil {
		v.ui.Draw(screen)
	}
	v.drawInfo(screen)

	if v.debug {
		cam := v.renderer.Camera()
		stats := v.renderer.Scheduler().Stats()
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
			"FPS: %.2f  scale: %.4f  offset: %.1f,%.1f  draws: %d  superseded: %d",
			ebiten.ActualFPS(), cam.Scale, cam.OffsetX, cam.OffsetY, stats.Draws, stats.Superseded,
		), panelWidth+infoPadding, infoPadding)
	}

	if v.showHelp && v.help != nil {
		v.help.Draw(screen)
	}
}

func (v *Viewer) drawInfo(screen *ebiten.Image) {
	if v.face == nil || v.info == "" {
		return
	}
	w, h := text.Measure(v.info, v.face, infoLineSpacing)
	x := float64(panelWidth + 2*infoPadding)
	y := float64(v.height) - h - 2*infoPadding
	vector.DrawFilledRect(screen,
		float32(x-infoPadding), float32(y-infoPadding),
		float32(w+2*infoPadding), float32(h+2*infoPadding),
		color.NRGBA{A: 180}, false)

	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.LineSpacing = infoLineSpacing
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, v.info, v.face, op)
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.width, v.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
