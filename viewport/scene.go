package viewport

import (
	"fmt"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/planview/geometry"
)

// Scene is an immutable loaded entity list plus per-entity data derived once
// at load time.
type Scene struct {
	entities []geometry.Entity
	valid    []bool
	boxes    []cp.BB
	layers   []string
}

// NewScene copies entities, fills missing layers, makes ids unique, prepares
// outline caches on private copies of the outlines and computes world bounds.
// Entities without usable geometry stay in the list but are marked invalid
// and skipped everywhere.
func NewScene(entities []geometry.Entity) *Scene {
	s := &Scene{
		entities: make([]geometry.Entity, len(entities)),
		valid:    make([]bool, len(entities)),
		boxes:    make([]cp.BB, len(entities)),
	}
	copy(s.entities, entities)

	usedIDs := make(map[string]bool, len(entities))
	seenLayers := make(map[string]bool)
	for i := range s.entities {
		e := &s.entities[i]
		if e.Layer == "" {
			e.Layer = geometry.FallbackLayer(e.Shape)
		}
		if !seenLayers[e.Layer] {
			seenLayers[e.Layer] = true
			s.layers = append(s.layers, e.Layer)
		}

		e.ID = uniqueID(e.ID, fmt.Sprintf("%s-%d", e.Kind(), i), usedIDs)

		if p, ok := e.Shape.(*geometry.PathOutline); ok {
			p = p.Clone()
			e.Shape = p
			if err := p.Prepare(); err != nil {
				log.Printf("viewport: entity %s: outline skipped: %v", e.ID, err)
			}
		}

		s.valid[i] = e.Valid()
		if s.valid[i] {
			s.boxes[i], s.valid[i] = shapeBox(e.Shape)
		}
	}
	return s
}

// uniqueID returns id, or fallback when id is empty, suffixed with ~n until
// it is not in used. The result is added to used.
func uniqueID(id, fallback string, used map[string]bool) string {
	if id == "" {
		id = fallback
	}
	candidate := id
	for n := 1; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s~%d", id, n)
	}
	used[candidate] = true
	return candidate
}

// Len returns the number of entities.
func (s *Scene) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entities)
}

// Entity returns the entity at index i.
func (s *Scene) Entity(i int) *geometry.Entity {
	if s == nil || i < 0 || i >= len(s.entities) {
		return nil
	}
	return &s.entities[i]
}

// Entities returns the entity list. Callers must not modify it.
func (s *Scene) Entities() []geometry.Entity {
	if s == nil {
		return nil
	}
	return s.entities
}

// Valid reports whether entity i has drawable geometry.
func (s *Scene) Valid(i int) bool {
	if s == nil || i < 0 || i >= len(s.valid) {
		return false
	}
	return s.valid[i]
}

// Box returns the cached world bounds of entity i.
func (s *Scene) Box(i int) cp.BB {
	if s == nil || i < 0 || i >= len(s.boxes) {
		return cp.BB{}
	}
	return s.boxes[i]
}

// LayerNames returns the layers in first-seen order.
func (s *Scene) LayerNames() []string {
	if s == nil {
		return nil
	}
	return s.layers
}

// shapeBox computes the true world extent of a valid shape. Markers use the
// anchor point only.
func shapeBox(shape geometry.Shape) (cp.BB, bool) {
	switch sh := shape.(type) {
	case *geometry.LineSegment:
		return pointsBox([]geometry.Point{{X: sh.X1, Y: sh.Y1}, {X: sh.X2, Y: sh.Y2}})
	case *geometry.Polygon:
		return pointsBox(sh.Points)
	case *geometry.PathOutline:
		var bb cp.BB
		found := false
		for _, ring := range sh.Outline().Rings() {
			rb, ok := pointsBox(ring)
			if !ok {
				continue
			}
			if !found {
				bb, found = rb, true
				continue
			}
			bb = bb.Merge(rb)
		}
		return bb, found
	case *geometry.Marker:
		return cp.BB{L: sh.X, B: sh.Y, R: sh.X, T: sh.Y}, true
	default:
		return cp.BB{}, false
	}
}

func pointsBox(pts []geometry.Point) (cp.BB, bool) {
	if len(pts) == 0 {
		return cp.BB{}, false
	}
	bb := cp.BB{L: pts[0].X, B: pts[0].Y, R: pts[0].X, T: pts[0].Y}
	for _, p := range pts[1:] {
		bb = bb.Expand(cp.Vector{X: p.X, Y: p.Y})
	}
	return bb, true
}
