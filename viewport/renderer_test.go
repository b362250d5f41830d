package viewport

import (
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/milk9111/planview/geometry"
	"github.com/milk9111/planview/render"
)

type infoLog struct {
	texts []string
}

func (l *infoLog) SetInfo(text string) { l.texts = append(l.texts, text) }

func (l *infoLog) last() string {
	if len(l.texts) == 0 {
		return ""
	}
	return l.texts[len(l.texts)-1]
}

type kindFormatter struct{}

func (kindFormatter) Format(e *geometry.Entity) string {
	return strings.ToUpper(e.Kind().String()) + " " + e.ID
}

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

func TestRendererLinePolygonScenario(t *testing.T) {
	r := NewRenderer(100, 100, DefaultOptions())
	info := &infoLog{}
	r.SetInfoSink(info)
	r.LoadGeometry(linePolygonScene())

	cam := r.Camera()
	if !near(cam.Scale, 100.0/30/1.1, 1e-12) {
		t.Fatalf("unexpected fitted scale %v", cam.Scale)
	}

	rec := render.NewRecorder(100, 100)
	if !r.Frame(rec) {
		t.Fatalf("load should schedule a frame")
	}
	if rec.Count(render.OpClear) != 1 || rec.Count(render.OpLine) != 1 || rec.Count(render.OpFill) != 1 || rec.Count(render.OpStroke) != 1 {
		t.Fatalf("unexpected ops:\n%s", rec.Summary())
	}
	if rec.Ops[1].Kind != render.OpLine || rec.Ops[2].Kind != render.OpFill {
		t.Fatalf("entities must be drawn in order:\n%s", rec.Summary())
	}
	line := rec.Ops[1]
	if line.Width != geometry.DefaultLineWidth || !sameColor(line.Color, color.Black) {
		t.Fatalf("unexpected line style %+v", line)
	}
	if !sameColor(rec.Ops[2].Color, geometry.DefaultFill) {
		t.Fatalf("unhovered polygon should use the default fill")
	}
	if r.Frame(rec) {
		t.Fatalf("nothing changed, no frame expected")
	}

	sx, sy := cam.WorldToScreen(25, 5)
	r.PointerMove(sx, sy)
	e, ok := r.Hovered()
	if !ok || e.ID != "room" {
		t.Fatalf("expected polygon hovered, got %v", e)
	}
	if info.last() != "room (polygon)" {
		t.Fatalf("unexpected info %q", info.last())
	}
	if r.Cursor() != CursorPointer {
		t.Fatalf("expected pointer cursor")
	}
	if !r.Frame(rec) {
		t.Fatalf("hover change should schedule a frame")
	}
	if !sameColor(rec.Ops[2].Color, geometry.DefaultHoverFill) {
		t.Fatalf("hovered polygon should use the highlight fill")
	}

	lx, ly := cam.WorldToScreen(5, 0)
	r.PointerMove(lx, ly)
	if _, ok := r.Hovered(); ok {
		t.Fatalf("line must not be hoverable")
	}
	if info.last() != EmptyInfo {
		t.Fatalf("expected empty info, got %q", info.last())
	}
}

func TestRendererHiddenLayerNotDrawnOrHit(t *testing.T) {
	r := NewRenderer(100, 100, DefaultOptions())
	r.LoadGeometry([]geometry.Entity{
		{ID: "a", Layer: "KEEP", Shape: &geometry.Polygon{Points: square(0, 0, 10)}},
		{ID: "b", Layer: "HIDE", Shape: &geometry.Polygon{Points: square(20, 0, 10)}},
	})
	r.UpdateLayerVisibility("HIDE", false)

	rec := render.NewRecorder(100, 100)
	r.Frame(rec)
	if rec.Count(render.OpFill) != 1 {
		t.Fatalf("hidden polygon drawn:\n%s", rec.Summary())
	}
	sx, sy := r.Camera().WorldToScreen(25, 5)
	if got := r.HitAt(sx, sy); got != NoHit {
		t.Fatalf("hidden polygon hit: %d", got)
	}

	r.UpdateLayerVisibility("HIDE", true)
	if got := r.HitAt(sx, sy); got != 1 {
		t.Fatalf("visible again, expected hit 1, got %d", got)
	}
	if !r.Scheduler().Pending() {
		t.Fatalf("visibility change should request a redraw")
	}
}

func TestRendererHideClearsHover(t *testing.T) {
	r := NewRenderer(100, 100, DefaultOptions())
	info := &infoLog{}
	r.SetInfoSink(info)
	r.LoadGeometry([]geometry.Entity{{ID: "a", Layer: "L", Shape: &geometry.Polygon{Points: square(0, 0, 10)}}})
	sx, sy := r.Camera().WorldToScreen(5, 5)
	r.PointerMove(sx, sy)
	if r.HoveredIndex() != 0 {
		t.Fatalf("expected hover")
	}
	r.HideAllLayers()
	if r.HoveredIndex() != NoHit || info.last() != EmptyInfo {
		t.Fatalf("hiding the hovered layer should clear hover")
	}
}

func TestRendererMarkerMinimumSize(t *testing.T) {
	r := NewRenderer(200, 200, DefaultOptions())
	r.LoadGeometry([]geometry.Entity{
		{ID: "m", Shape: &geometry.Marker{X: 0, Y: 0, Width: 0.0001, Height: 0}},
		{ID: "anchor", Shape: &geometry.Polygon{Points: square(-50, -50, 100)}},
	})
	rec := render.NewRecorder(200, 200)
	r.Frame(rec)
	if rec.Ops[1].Kind != render.OpFill || len(rec.Ops[1].Rings[0]) != 4 {
		t.Fatalf("expected a quad for the marker:\n%s", rec.Summary())
	}
	if !sameColor(rec.Ops[1].Color, geometry.DefaultMarkerColor) {
		t.Fatalf("unexpected marker colour")
	}
	q := rec.Ops[1].Rings[0]
	w := math.Hypot(q[1].X-q[0].X, q[1].Y-q[0].Y)
	h := math.Hypot(q[2].X-q[1].X, q[2].Y-q[1].Y)
	if w < MinMarkerPixels-1e-9 || h < MinMarkerPixels-1e-9 {
		t.Fatalf("marker %vx%v px is below the minimum", w, h)
	}

	r.Camera().ZoomAt(100, 100, 1e-3)
	r.Draw(rec)
	q = rec.Ops[1].Rings[0]
	if w := math.Hypot(q[1].X-q[0].X, q[1].Y-q[0].Y); w < MinMarkerPixels-1e-9 {
		t.Fatalf("marker shrank below minimum after zoom out: %v", w)
	}
}

func TestMarkerQuadSizeAndRotation(t *testing.T) {
	cam := NewCamera(100, 100)
	cam.Set(0, 0, 2)
	mk := &geometry.Marker{X: 10, Y: 10, Width: 0.01, Height: 0.002, RotationDegrees: 90}
	q := MarkerQuad(cam.Matrix(), cam.Scale, mk, MarkerUnitScale, MinMarkerPixels)

	cx, cy := cam.WorldToScreen(10, 10)
	var mx, my float64
	for _, p := range q {
		mx += p.X / 4
		my += p.Y / 4
	}
	if !near(mx, cx, 1e-9) || !near(my, cy, 1e-9) {
		t.Fatalf("quad centre (%v,%v) is not the anchor (%v,%v)", mx, my, cx, cy)
	}
	// 0.01*1000*2 = 20px wide, 0.002*1000*2 = 4px high, turned a quarter.
	wx, wy := q[1].X-q[0].X, q[1].Y-q[0].Y
	if !near(math.Hypot(wx, wy), 20, 1e-9) || !near(math.Abs(wx), 0, 1e-9) {
		t.Fatalf("width edge should be vertical and 20px, got (%v,%v)", wx, wy)
	}
	if !near(math.Hypot(q[2].X-q[1].X, q[2].Y-q[1].Y), 4, 1e-9) {
		t.Fatalf("unexpected height edge")
	}
}

func TestRendererStrokeWidthIgnoresZoom(t *testing.T) {
	r := NewRenderer(100, 100, DefaultOptions())
	r.LoadGeometry([]geometry.Entity{
		{ID: "p", Style: geometry.Style{StrokeWidth: 2}, Shape: &geometry.Polygon{Points: square(0, 0, 10)}},
	})
	rec := render.NewRecorder(100, 100)
	r.Frame(rec)
	before := rec.Ops[2].Width
	r.Wheel(50, 50, 1)
	r.Wheel(50, 50, 1)
	r.Frame(rec)
	if rec.Ops[2].Kind != render.OpStroke || rec.Ops[2].Width != before || before != 2 {
		t.Fatalf("stroke width changed with zoom: %v -> %v", before, rec.Ops[2].Width)
	}
}

func TestRendererEmptyScene(t *testing.T) {
	r := NewRenderer(100, 100, DefaultOptions())
	info := &infoLog{}
	r.SetInfoSink(info)
	r.LoadGeometry(nil)

	rec := render.NewRecorder(100, 100)
	r.Frame(rec)
	if len(rec.Ops) != 1 || rec.Ops[0].Kind != render.OpClear {
		t.Fatalf("empty scene should only clear:\n%s", rec.Summary())
	}
	cam := r.Camera()
	if !near(cam.Scale, 1/1.1, 1e-12) || !near(cam.OffsetX, 5, 1e-9) || !near(cam.OffsetY, 5, 1e-9) {
		t.Fatalf("expected default-box fit, got %+v", cam)
	}
	r.PointerMove(50, 50)
	if info.last() != EmptyInfo {
		t.Fatalf("unexpected info %q", info.last())
	}
}

func TestRendererSkipsMalformedEntities(t *testing.T) {
	r := NewRenderer(100, 100, DefaultOptions())
	r.LoadGeometry([]geometry.Entity{
		{ID: "nil"},
		{ID: "nan", Shape: &geometry.LineSegment{X1: math.NaN()}},
		{ID: "short", Shape: &geometry.Polygon{Points: []geometry.Point{{X: 1, Y: 1}}}},
		{ID: "bad-path", Shape: &geometry.PathOutline{Spec: "Q"}},
		{ID: "arc", Shape: &geometry.Unsupported{Tag: "arc"}},
		{ID: "ok", Shape: &geometry.LineSegment{X1: 0, Y1: 0, X2: 10, Y2: 10}},
	})
	rec := render.NewRecorder(100, 100)
	r.Frame(rec)
	if rec.Count(render.OpLine) != 1 || len(rec.Ops) != 2 {
		t.Fatalf("only the valid line should draw:\n%s", rec.Summary())
	}
	if got := r.HitAt(50, 50); got != NoHit {
		t.Fatalf("unexpected hit %d", got)
	}
}

func TestRendererTwoPointPolygonDrawsLine(t *testing.T) {
	r := NewRenderer(100, 100, DefaultOptions())
	r.LoadGeometry([]geometry.Entity{
		{ID: "p", Shape: &geometry.Polygon{Points: []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}}},
	})
	rec := render.NewRecorder(100, 100)
	r.Frame(rec)
	if rec.Count(render.OpLine) != 1 || rec.Count(render.OpFill) != 0 {
		t.Fatalf("two-point polygon should stroke a line:\n%s", rec.Summary())
	}
}

func TestRendererOutlineEvenOdd(t *testing.T) {
	r := NewRenderer(100, 100, DefaultOptions())
	r.LoadGeometry([]geometry.Entity{
		{ID: "o", Material: geometry.MaterialBrick, Shape: &geometry.PathOutline{Spec: "M 0 0 L 10 0 L 10 10 L 0 10 Z M 4 4 L 6 4 L 6 6 L 4 6 Z"}},
	})
	rec := render.NewRecorder(100, 100)
	r.Frame(rec)
	fill := rec.Ops[1]
	if fill.Kind != render.OpFill || !fill.EvenOdd || len(fill.Rings) != 2 {
		t.Fatalf("expected an even-odd fill with two rings:\n%s", rec.Summary())
	}
	if !sameColor(fill.Color, geometry.DefaultPalette().Fill(geometry.MaterialBrick)) {
		t.Fatalf("outline should use the material fill")
	}
}

func pentagram(cx, cy, r float64) []geometry.Point {
	pts := make([]geometry.Point, 5)
	for k := range pts {
		a := (90 + 144*float64(k)) * math.Pi / 180
		pts[k] = geometry.Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return pts
}

func TestRendererSelfIntersectingPolygonFillMatchesHit(t *testing.T) {
	r := NewRenderer(100, 100, DefaultOptions())
	r.LoadGeometry([]geometry.Entity{
		{ID: "star", Shape: &geometry.Polygon{Points: pentagram(50, 50, 40)}},
	})
	rec := render.NewRecorder(100, 100)
	r.Frame(rec)
	fill := rec.Ops[1]
	if fill.Kind != render.OpFill || !fill.EvenOdd {
		t.Fatalf("polygons must fill with the even-odd rule:\n%s", rec.Summary())
	}

	cx, cy := r.Camera().WorldToScreen(50, 50)
	if r.HitAt(cx, cy) != NoHit {
		t.Fatalf("doubly wound centre is unfilled and must not hit")
	}
	tx, ty := r.Camera().WorldToScreen(50, 80)
	if r.HitAt(tx, ty) != 0 {
		t.Fatalf("star tip is filled and should hit")
	}
}

func TestRendererDragPans(t *testing.T) {
	r := NewRenderer(100, 100, DefaultOptions())
	r.LoadGeometry(linePolygonScene())
	cam := r.Camera()
	ox, oy, s := cam.OffsetX, cam.OffsetY, cam.Scale

	sx, sy := cam.WorldToScreen(25, 5)
	r.PointerDown(10, 10)
	r.PointerMove(sx, sy)
	if _, ok := r.Hovered(); ok {
		t.Fatalf("dragging must not hover")
	}
	if r.Cursor() != CursorGrab {
		t.Fatalf("expected grab cursor while dragging")
	}
	r.PointerUp(sx, sy)

	if !near(cam.OffsetX, ox+(sx-10)/s, 1e-9) || !near(cam.OffsetY, oy-(sy-10)/s, 1e-9) {
		t.Fatalf("unexpected pan result (%v,%v)", cam.OffsetX, cam.OffsetY)
	}

	before := *cam
	r.PointerUp(0, 0)
	r.PointerMove(90, 90)
	if cam.OffsetX != before.OffsetX || cam.OffsetY != before.OffsetY {
		t.Fatalf("move after release must not pan")
	}
}

func TestRendererWheelZoomsAtCursor(t *testing.T) {
	r := NewRenderer(100, 100, DefaultOptions())
	r.LoadGeometry(linePolygonScene())
	cam := r.Camera()
	wx, wy := cam.ScreenToWorld(30, 70)
	s := cam.Scale
	r.Wheel(30, 70, 1)
	if !near(cam.Scale, s*ZoomStep, 1e-12) {
		t.Fatalf("expected zoom in by %v", ZoomStep)
	}
	gx, gy := cam.ScreenToWorld(30, 70)
	if !near(gx, wx, 1e-9) || !near(gy, wy, 1e-9) {
		t.Fatalf("wheel zoom moved the point under the cursor")
	}
	r.Wheel(30, 70, -1)
	if !near(cam.Scale, s, 1e-12) {
		t.Fatalf("zoom out should undo zoom in")
	}
}

func TestRendererFormatterAndReload(t *testing.T) {
	r := NewRenderer(100, 100, DefaultOptions())
	info := &infoLog{}
	r.SetInfoSink(info)
	r.SetFormatter(kindFormatter{})
	r.LoadGeometry(linePolygonScene())

	sx, sy := r.Camera().WorldToScreen(25, 5)
	r.PointerMove(sx, sy)
	if info.last() != "POLYGON room" {
		t.Fatalf("formatter not used: %q", info.last())
	}

	r.LoadGeometry([]geometry.Entity{{ID: "other", Layer: "NEW", Shape: &geometry.LineSegment{X2: 1, Y2: 1}}})
	if _, ok := r.Hovered(); ok {
		t.Fatalf("reload must drop stale hover")
	}
	if !r.Layers().Visible("NEW") || !r.Layers().Visible("A") {
		t.Fatalf("layers should be seeded visible")
	}
}

func TestRendererDefaultsAndIDs(t *testing.T) {
	r := NewRenderer(100, 100, Options{})
	if r.Options().ZoomStep != ZoomStep || r.Options().Palette == nil {
		t.Fatalf("zero options should take defaults")
	}
	r.LoadGeometry([]geometry.Entity{
		{ID: "dup", Shape: &geometry.LineSegment{X2: 1}},
		{ID: "dup", Shape: &geometry.LineSegment{X2: 2}},
		{Shape: &geometry.Marker{}},
	})
	ids := map[string]bool{}
	for _, e := range r.Scene().Entities() {
		if e.ID == "" || ids[e.ID] {
			t.Fatalf("ids must be unique and non-empty, got %q", e.ID)
		}
		ids[e.ID] = true
	}
	if r.Scene().Entity(2).Layer != geometry.LayerOpenings || r.Scene().Entity(0).Layer != geometry.LayerWalls {
		t.Fatalf("unexpected fallback layers")
	}
}

func TestRendererResize(t *testing.T) {
	r := NewRenderer(100, 100, DefaultOptions())
	r.Frame(render.NewRecorder(100, 100))
	r.Resize(100, 100)
	if r.Scheduler().Pending() {
		t.Fatalf("same size should not redraw")
	}
	r.Resize(300, 200)
	if w, h := r.Camera().SurfaceSize(); w != 300 || h != 200 || !r.Scheduler().Pending() {
		t.Fatalf("resize not applied")
	}
}
