package viewport

import (
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/milk9111/planview/geometry"
)

const (
	// MarkerUnitScale converts marker width/height into world units.
	MarkerUnitScale = 1000.0
	// MinMarkerPixels keeps tiny markers visible at any zoom.
	MinMarkerPixels = 3.0
	// EmptyInfo is shown when nothing is hovered.
	EmptyInfo = "Hover an entity for details"
)

// Cursor is the pointer shape the host should display.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorPointer
	CursorGrab
)

// InfoSink receives the hover description.
type InfoSink interface {
	SetInfo(text string)
}

// InfoSinkFunc adapts a function to InfoSink.
type InfoSinkFunc func(text string)

func (f InfoSinkFunc) SetInfo(text string) { f(text) }

// InfoFormatter describes a hovered entity.
type InfoFormatter interface {
	Format(e *geometry.Entity) string
}

// Options tunes the renderer.
type Options struct {
	Background      color.Color
	HoverFill       color.Color
	Palette         geometry.Palette
	FitMargin       float64
	ZoomStep        float64
	MarkerUnitScale float64
	MinMarkerPixels float64
	PathBounds      PathBounds
}

// DefaultOptions returns the stock look and behaviour.
func DefaultOptions() Options {
	return Options{
		Background:      color.White,
		HoverFill:       geometry.DefaultHoverFill,
		Palette:         geometry.DefaultPalette(),
		FitMargin:       DefaultFitMargin,
		ZoomStep:        ZoomStep,
		MarkerUnitScale: MarkerUnitScale,
		MinMarkerPixels: MinMarkerPixels,
		PathBounds:      PathBoundsScan,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Background == nil {
		o.Background = d.Background
	}
	if o.HoverFill == nil {
		o.HoverFill = d.HoverFill
	}
	if o.Palette == nil {
		o.Palette = d.Palette
	}
	if !(o.FitMargin > 0) {
		o.FitMargin = d.FitMargin
	}
	if !(o.ZoomStep > 1) {
		o.ZoomStep = d.ZoomStep
	}
	if !(o.MarkerUnitScale > 0) {
		o.MarkerUnitScale = d.MarkerUnitScale
	}
	if !(o.MinMarkerPixels > 0) {
		o.MinMarkerPixels = d.MinMarkerPixels
	}
	return o
}

// Renderer owns one viewer instance: scene, camera, layer state, hover and
// redraw scheduling. All methods except RequestRender must be called from
// the host's UI goroutine.
type Renderer struct {
	opts   Options
	cam    *Camera
	scene  *Scene
	layers *Layers
	sched  Scheduler
	hits   HitTester

	info   InfoSink
	format InfoFormatter

	hovered  int
	dragging bool
	lastX    float64
	lastY    float64
	pointer  geometry.Point
	havePtr  bool
}

// NewRenderer creates an empty viewer for a surface of the given size.
func NewRenderer(width, height int, opts Options) *Renderer {
	r := &Renderer{
		opts:    opts.withDefaults(),
		cam:     NewCamera(width, height),
		scene:   NewScene(nil),
		layers:  NewLayers(),
		hovered: NoHit,
	}
	r.sched.Request()
	return r
}

func (r *Renderer) Camera() *Camera       { return r.cam }
func (r *Renderer) Layers() *Layers       { return r.layers }
func (r *Renderer) Scene() *Scene         { return r.scene }
func (r *Renderer) Scheduler() *Scheduler { return &r.sched }
func (r *Renderer) Options() Options      { return r.opts }

// SetInfoSink installs the hover text receiver and pushes the current text.
func (r *Renderer) SetInfoSink(s InfoSink) {
	r.info = s
	r.publishInfo()
}

// SetFormatter replaces the hover formatter. With nil the info text is the
// entity id and kind.
func (r *Renderer) SetFormatter(f InfoFormatter) {
	r.format = f
	r.publishInfo()
}

// LoadGeometry replaces the scene, seeds new layers as visible, fits the view
// and schedules a redraw.
func (r *Renderer) LoadGeometry(entities []geometry.Entity) {
	r.scene = NewScene(entities)
	added := r.layers.Seed(r.scene.LayerNames())
	if len(added) > 0 {
		log.Printf("viewport: %d new layers", len(added))
	}

	r.hovered = NoHit
	r.dragging = false
	if !r.FitToScreen() {
		log.Printf("viewport: scene of %d entities has degenerate bounds, view kept", r.scene.Len())
	}
	r.refreshHover()
	r.publishInfo()
	r.RequestRender()
}

// FitToScreen frames the whole scene. It reports false when the bounds are
// degenerate and the camera was left alone.
func (r *Renderer) FitToScreen() bool {
	ok := Fit(r.cam, SceneBounds(r.scene, r.opts.PathBounds), r.opts.FitMargin)
	if ok {
		r.refreshHover()
		r.RequestRender()
	}
	return ok
}

// ResetView restores the default camera.
func (r *Renderer) ResetView() {
	r.cam.Reset()
	r.refreshHover()
	r.RequestRender()
}

// Resize tracks the host surface size.
func (r *Renderer) Resize(width, height int) {
	w, h := r.cam.SurfaceSize()
	if w == width && h == height {
		return
	}
	r.cam.SetSurfaceSize(width, height)
	r.RequestRender()
}

// RequestRender schedules a redraw. Safe from any goroutine.
func (r *Renderer) RequestRender() {
	r.sched.Request()
}

// PointerDown starts a drag.
func (r *Renderer) PointerDown(x, y float64) {
	r.dragging = true
	r.lastX, r.lastY = x, y
	r.pointer, r.havePtr = geometry.Point{X: x, Y: y}, true
}

// PointerMove pans while dragging and updates hover otherwise.
func (r *Renderer) PointerMove(x, y float64) {
	r.pointer, r.havePtr = geometry.Point{X: x, Y: y}, true
	if r.dragging {
		dx, dy := x-r.lastX, y-r.lastY
		r.lastX, r.lastY = x, y
		if dx == 0 && dy == 0 {
			return
		}
		r.cam.Pan(dx, dy)
		r.RequestRender()
		return
	}
	r.setHovered(r.HitAt(x, y))
}

// PointerUp ends a drag.
func (r *Renderer) PointerUp(x, y float64) {
	if !r.dragging {
		return
	}
	r.dragging = false
	r.pointer, r.havePtr = geometry.Point{X: x, Y: y}, true
	r.refreshHover()
}

// PointerLeave clears hover when the pointer exits the surface.
func (r *Renderer) PointerLeave() {
	r.dragging = false
	r.havePtr = false
	r.setHovered(NoHit)
}

// Wheel zooms around (x, y). Positive dy zooms in.
func (r *Renderer) Wheel(x, y, dy float64) {
	if dy == 0 {
		return
	}
	if !r.cam.ZoomAt(x, y, WheelFactor(dy, r.opts.ZoomStep)) {
		return
	}
	r.pointer, r.havePtr = geometry.Point{X: x, Y: y}, true
	r.refreshHover()
	r.RequestRender()
}

// UpdateLayerVisibility shows or hides one layer.
func (r *Renderer) UpdateLayerVisibility(layer string, visible bool) {
	if !r.layers.SetVisible(layer, visible) {
		return
	}
	r.refreshHover()
	r.RequestRender()
}

func (r *Renderer) ShowAllLayers() {
	if r.layers.ShowAll() {
		r.refreshHover()
		r.RequestRender()
	}
}

func (r *Renderer) HideAllLayers() {
	if r.layers.HideAll() {
		r.refreshHover()
		r.RequestRender()
	}
}

// HitAt returns the entity index under pixel (x, y), or NoHit.
func (r *Renderer) HitAt(x, y float64) int {
	wx, wy := r.cam.ScreenToWorld(x, y)
	return r.hits.Test(r.scene, r.layers, r.cam,
		geometry.Point{X: wx, Y: wy}, geometry.Point{X: x, Y: y})
}

// Hovered returns the highlighted entity, if any.
func (r *Renderer) Hovered() (*geometry.Entity, bool) {
	e := r.scene.Entity(r.hovered)
	return e, e != nil
}

// HoveredIndex returns the highlighted entity index or NoHit.
func (r *Renderer) HoveredIndex() int { return r.hovered }

// Cursor reports the pointer shape for the current interaction.
func (r *Renderer) Cursor() Cursor {
	switch {
	case r.dragging:
		return CursorGrab
	case r.hovered != NoHit:
		return CursorPointer
	default:
		return CursorDefault
	}
}

// InfoText returns the current hover description.
func (r *Renderer) InfoText() string {
	e, ok := r.Hovered()
	if !ok {
		return EmptyInfo
	}
	if r.format != nil {
		return r.format.Format(e)
	}
	return fmt.Sprintf("%s (%s)", e.ID, e.Kind())
}

func (r *Renderer) refreshHover() {
	if !r.havePtr || r.dragging {
		if r.hovered != NoHit && !r.hoverStillVisible() {
			r.setHovered(NoHit)
		}
		return
	}
	r.setHovered(r.HitAt(r.pointer.X, r.pointer.Y))
}

func (r *Renderer) hoverStillVisible() bool {
	e := r.scene.Entity(r.hovered)
	return e != nil && r.layers.Visible(e.Layer)
}

func (r *Renderer) setHovered(idx int) {
	if idx == r.hovered {
		return
	}
	r.hovered = idx
	r.publishInfo()
	r.RequestRender()
}

func (r *Renderer) publishInfo() {
	if r.info == nil {
		return
	}
	r.info.SetInfo(r.InfoText())
}

// Frame draws onto s if a redraw is pending and reports whether it did.
func (r *Renderer) Frame(s Surface) bool {
	return r.sched.Flush(func() { r.Draw(s) })
}

// Draw paints the whole scene onto s in entity order.
func (r *Renderer) Draw(s Surface) {
	s.Clear(r.opts.Background)
	m := r.cam.Matrix()
	for i := 0; i < r.scene.Len(); i++ {
		if !r.scene.Valid(i) {
			continue
		}
		e := r.scene.Entity(i)
		if !r.layers.Visible(e.Layer) {
			continue
		}
		hovered := i == r.hovered
		switch sh := e.Shape.(type) {
		case *geometry.Polygon:
			r.drawPolygon(s, m, e, sh, hovered)
		case *geometry.PathOutline:
			r.drawOutline(s, m, e, sh, hovered)
		case *geometry.LineSegment:
			r.drawLine(s, m, e, sh)
		case *geometry.Marker:
			r.drawMarker(s, m, e, sh)
		}
	}
}

func (r *Renderer) fillFor(e *geometry.Entity, hovered bool) color.Color {
	if hovered {
		return r.opts.HoverFill
	}
	return e.Style.FillOr(r.opts.Palette.Fill(e.Material))
}

func (r *Renderer) drawPolygon(s Surface, m Matrix, e *geometry.Entity, p *geometry.Polygon, hovered bool) {
	stroke := e.Style.StrokeOr(geometry.DefaultStroke)
	width := e.Style.WidthOr(geometry.DefaultStrokeWidth)
	pts := projectPoints(m, p.Points)
	if len(pts) < 3 {
		s.StrokeLine(pts[0], pts[1], width, stroke)
		return
	}
	rings := [][]geometry.Point{pts}
	s.FillPath(rings, r.fillFor(e, hovered), true)
	s.StrokePath(rings, true, width, stroke)
}

func (r *Renderer) drawOutline(s Surface, m Matrix, e *geometry.Entity, p *geometry.PathOutline, hovered bool) {
	src := p.Outline().Rings()
	rings := make([][]geometry.Point, len(src))
	for i, ring := range src {
		rings[i] = projectPoints(m, ring)
	}
	s.FillPath(rings, r.fillFor(e, hovered), true)
	s.StrokePath(rings, true, e.Style.WidthOr(geometry.DefaultStrokeWidth), e.Style.StrokeOr(geometry.DefaultStroke))
}

func (r *Renderer) drawLine(s Surface, m Matrix, e *geometry.Entity, l *geometry.LineSegment) {
	x1, y1 := m.Apply(l.X1, l.Y1)
	x2, y2 := m.Apply(l.X2, l.Y2)
	s.StrokeLine(geometry.Point{X: x1, Y: y1}, geometry.Point{X: x2, Y: y2},
		e.Style.WidthOr(geometry.DefaultLineWidth), e.Style.StrokeOr(geometry.DefaultLineColor))
}

func (r *Renderer) drawMarker(s Surface, m Matrix, e *geometry.Entity, mk *geometry.Marker) {
	s.FillPath([][]geometry.Point{MarkerQuad(m, r.cam.Scale, mk, r.opts.MarkerUnitScale, r.opts.MinMarkerPixels)},
		e.Style.FillOr(geometry.DefaultMarkerColor), false)
}

// MarkerQuad returns the four pixel corners of a marker rectangle centred on
// its anchor. Positive RotationDegrees turns it counter-clockwise on screen,
// matching the Y-up world.
func MarkerQuad(m Matrix, scale float64, mk *geometry.Marker, unit, minPx float64) []geometry.Point {
	cx, cy := m.Apply(mk.X, mk.Y)
	hw := math.Max(mk.Width*unit*scale, minPx) / 2
	hh := math.Max(mk.Height*unit*scale, minPx) / 2
	sin, cos := math.Sincos(-mk.RotationDegrees * math.Pi / 180)

	corners := [4]geometry.Point{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
	out := make([]geometry.Point, 4)
	for i, c := range corners {
		out[i] = geometry.Point{
			X: cx + c.X*cos - c.Y*sin,
			Y: cy + c.X*sin + c.Y*cos,
		}
	}
	return out
}

func projectPoints(m Matrix, pts []geometry.Point) []geometry.Point {
	out := make([]geometry.Point, len(pts))
	for i, p := range pts {
		x, y := m.Apply(p.X, p.Y)
		out[i] = geometry.Point{X: x, Y: y}
	}
	return out
}
