package viewport

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/planview/geometry"
)

// NoHit is returned by HitTester.Test when nothing is under the pointer.
const NoHit = -1

// HitTester finds the entity under a pointer. It keeps scratch buffers, so
// one tester must not be shared between goroutines.
type HitTester struct {
	rings [][]geometry.Point
	pts   []geometry.Point
}

// Test returns the index of the first entity in scene order that contains
// the pointer, or NoHit. world and screen must describe the same pointer
// position under cam. Polygons are tested in world units and outlines in
// pixels. Lines and markers are never hit.
func (h *HitTester) Test(s *Scene, layers *Layers, cam *Camera, world, screen geometry.Point) int {
	wv := cp.Vector{X: world.X, Y: world.Y}
	for i := 0; i < s.Len(); i++ {
		if !s.Valid(i) {
			continue
		}
		e := s.Entity(i)
		if !layers.Visible(e.Layer) {
			continue
		}
		switch sh := e.Shape.(type) {
		case *geometry.Polygon:
			if !s.Box(i).ContainsVect(wv) {
				continue
			}
			if geometry.PointInPolygon(world, sh.Points) {
				return i
			}
		case *geometry.PathOutline:
			if !s.Box(i).ContainsVect(wv) {
				continue
			}
			if geometry.PointInRings(screen, h.project(cam, sh.Outline().Rings())) {
				return i
			}
		}
	}
	return NoHit
}

// project maps world rings to pixels into the tester's scratch space.
func (h *HitTester) project(cam *Camera, rings [][]geometry.Point) [][]geometry.Point {
	m := cam.Matrix()
	h.rings = h.rings[:0]
	h.pts = h.pts[:0]
	for _, ring := range rings {
		start := len(h.pts)
		for _, p := range ring {
			x, y := m.Apply(p.X, p.Y)
			h.pts = append(h.pts, geometry.Point{X: x, Y: y})
		}
		h.rings = append(h.rings, h.pts[start:len(h.pts):len(h.pts)])
	}
	return h.rings
}
