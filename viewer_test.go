package main

import (
	"math"
	"testing"

	"github.com/milk9111/planview/config"
	"github.com/milk9111/planview/geometry"
	"github.com/milk9111/planview/viewport"
)

func testViewer(t *testing.T, cfg config.Config) *Viewer {
	t.Helper()
	v, err := newViewer(cfg, false)
	if err != nil {
		t.Fatalf("newViewer: %v", err)
	}
	v.Load([]geometry.Entity{{
		ID:    "room",
		Layer: "A",
		Type:  "room",
		Shape: &geometry.Polygon{Points: []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}},
	}})
	return v
}

// roomCenter returns the window position of the room's centre.
func roomCenter(v *Viewer) (float64, float64) {
	sx, sy := v.renderer.Camera().WorldToScreen(5, 5)
	return sx + panelWidth, sy
}

func TestViewerHoverAndLeave(t *testing.T) {
	v := testViewer(t, config.Default())
	if v.info != viewport.EmptyInfo {
		t.Fatalf("expected empty info before hovering, got %q", v.info)
	}

	x, y := roomCenter(v)
	v.handlePointer(pointerState{X: x, Y: y})
	if v.info != "ROOM\nMaterial: UNKNOWN" {
		t.Fatalf("unexpected hover info %q", v.info)
	}
	if v.renderer.Cursor() != viewport.CursorPointer {
		t.Fatalf("expected pointer cursor over the room")
	}

	v.handlePointer(pointerState{X: panelWidth / 2, Y: y})
	if v.info != viewport.EmptyInfo {
		t.Fatalf("moving over the panel should clear hover, got %q", v.info)
	}
	if v.pointerIn {
		t.Fatalf("pointer should be outside the canvas")
	}
}

func TestViewerDragContinuesOutsideCanvas(t *testing.T) {
	v := testViewer(t, config.Default())
	cam := v.renderer.Camera()
	x, y := roomCenter(v)
	startX, scale := cam.OffsetX, cam.Scale

	v.handlePointer(pointerState{X: x, Y: y, Pressed: true})
	if v.renderer.Cursor() != viewport.CursorGrab {
		t.Fatalf("press inside the canvas should start a drag")
	}
	v.handlePointer(pointerState{X: x + 20, Y: y})
	if math.Abs(cam.OffsetX-(startX+20/scale)) > 1e-9 {
		t.Fatalf("drag should pan by 20px, offset %v -> %v", startX, cam.OffsetX)
	}

	// Over the panel while still dragging: keeps panning.
	v.handlePointer(pointerState{X: 10, Y: y})
	if v.renderer.Cursor() != viewport.CursorGrab {
		t.Fatalf("drag should survive leaving the canvas")
	}
	v.handlePointer(pointerState{X: 10, Y: y, Released: true})
	if v.renderer.Cursor() == viewport.CursorGrab {
		t.Fatalf("release should end the drag")
	}
	if v.pointerIn {
		t.Fatalf("release outside the canvas should leave it")
	}
}

func TestViewerWheelZoom(t *testing.T) {
	v := testViewer(t, config.Default())
	cam := v.renderer.Camera()
	x, y := roomCenter(v)
	before := cam.Scale

	v.handlePointer(pointerState{X: x, Y: y, WheelY: 1})
	if math.Abs(cam.Scale-before*viewport.ZoomStep) > 1e-9 {
		t.Fatalf("expected scale %v, got %v", before*viewport.ZoomStep, cam.Scale)
	}

	// Wheel over the panel is ignored.
	v.handlePointer(pointerState{X: 10, Y: y, WheelY: 1})
	if math.Abs(cam.Scale-before*viewport.ZoomStep) > 1e-9 {
		t.Fatalf("wheel outside the canvas must not zoom")
	}
}

func TestViewerKeys(t *testing.T) {
	v := testViewer(t, config.Default())
	cam := v.renderer.Camera()
	fitted := cam.Scale

	v.handleKeys(keyState{Reset: true})
	if cam.Scale != viewport.DefaultScale || cam.OffsetX != 0 || cam.OffsetY != 0 {
		t.Fatalf("reset should restore the default camera, got %+v", *cam)
	}

	v.handleKeys(keyState{Help: true})
	v.handleKeys(keyState{Fit: true})
	if cam.Scale != viewport.DefaultScale {
		t.Fatalf("shortcuts are ignored while help is shown")
	}
	v.handleKeys(keyState{Help: true})
	v.handleKeys(keyState{Fit: true})
	if math.Abs(cam.Scale-fitted) > 1e-9 {
		t.Fatalf("fit should restore scale %v, got %v", fitted, cam.Scale)
	}

	var copied []string
	v.copyText = func(text string) { copied = append(copied, text) }
	x, y := roomCenter(v)
	v.handlePointer(pointerState{X: x, Y: y})
	v.handleKeys(keyState{Copy: true})
	if len(copied) != 1 || copied[0] != v.info {
		t.Fatalf("copy should send the info text, got %v", copied)
	}
}

func TestViewerScriptFormatter(t *testing.T) {
	cfg := config.Default()
	cfg.Info.Script = "compact"
	v := testViewer(t, cfg)

	x, y := roomCenter(v)
	v.handlePointer(pointerState{X: x, Y: y})
	if v.info != "ROOM [A]" {
		t.Fatalf("unexpected scripted info %q", v.info)
	}

	cfg.Info.Script = "does-not-exist"
	if _, err := newViewer(cfg, false); err == nil {
		t.Fatalf("expected an error for a missing script")
	}
}

func TestViewerLayerPanelHidesHover(t *testing.T) {
	v := testViewer(t, config.Default())
	x, y := roomCenter(v)
	v.handlePointer(pointerState{X: x, Y: y})

	v.panel.activate(LayerEntry{Group: "A", Name: "A", Visible: true})
	if v.renderer.Layers().Visible("A") {
		t.Fatalf("panel click should hide the layer")
	}
	if v.info != viewport.EmptyInfo {
		t.Fatalf("hiding the hovered layer should clear hover, got %q", v.info)
	}
}
