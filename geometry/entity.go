// Package geometry holds the floor-plan entity model shared by the loader,
// the viewport and the draw back ends.
package geometry

import "math"

// Fallback layer names used when a payload entity has no layer.
const (
	LayerWalls    = "WALLS"
	LayerOpenings = "OPENINGS"
	LayerDefault  = "DEFAULT"
)

// Point is a 2D coordinate. World points are Y-up, screen points Y-down.
type Point struct {
	X, Y float64
}

func (p Point) finite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

// Entity is one renderable unit of a loaded scene.
type Entity struct {
	ID    string
	Layer string
	Style Style
	Shape Shape

	// Display metadata, shown by the info sink only.
	Type      string
	Material  string
	Thickness float64
}

// Kind reports the variant of the entity's shape.
func (e *Entity) Kind() Kind {
	if e == nil {
		return KindUnknown
	}
	return KindOf(e.Shape)
}

// Valid reports whether the entity carries usable geometry.
func (e *Entity) Valid() bool {
	if e == nil || e.Shape == nil {
		return false
	}
	return e.Shape.Valid()
}

// Kind tags a shape variant.
type Kind int

const (
	KindUnknown Kind = iota
	KindLine
	KindPolygon
	KindPath
	KindMarker
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindPolygon:
		return "polygon"
	case KindPath:
		return "path"
	case KindMarker:
		return "marker"
	default:
		return "unknown"
	}
}

// Shape is the closed set of entity variants. Only types in this package
// implement it.
type Shape interface {
	Valid() bool
	isShape()
}

// KindOf maps a shape to its tag.
func KindOf(s Shape) Kind {
	switch s.(type) {
	case *LineSegment:
		return KindLine
	case *Polygon:
		return KindPolygon
	case *PathOutline:
		return KindPath
	case *Marker:
		return KindMarker
	default:
		return KindUnknown
	}
}

// LineSegment is a straight wall or edge in world units.
type LineSegment struct {
	X1, Y1, X2, Y2 float64
}

func (l *LineSegment) Valid() bool {
	return l != nil && isFinite(l.X1) && isFinite(l.Y1) && isFinite(l.X2) && isFinite(l.Y2)
}

func (*LineSegment) isShape() {}

// Polygon is a closed filled shape. Two points are accepted and drawn as a line.
type Polygon struct {
	Points []Point
}

func (p *Polygon) Valid() bool {
	if p == nil || len(p.Points) < 2 {
		return false
	}
	for _, pt := range p.Points {
		if !pt.finite() {
			return false
		}
	}
	return true
}

func (*Polygon) isShape() {}

// PathOutline is a parametric outline given as an SVG-like command string.
// The parsed outline is cached by Prepare and tied to the Spec it was built
// from.
type PathOutline struct {
	Spec string

	outline *Outline
	parsed  string
}

// Prepare parses and flattens the outline. It is a no-op while Spec is
// unchanged since the last successful call; a changed Spec drops the cache
// and parses again.
func (p *PathOutline) Prepare() error {
	if p == nil {
		return nil
	}
	if p.outline != nil && p.parsed == p.Spec {
		return nil
	}
	p.outline, p.parsed = nil, ""
	o, err := ParsePath(p.Spec)
	if err != nil {
		return err
	}
	o.Flatten()
	p.outline, p.parsed = o, p.Spec
	return nil
}

// Clone returns a copy that shares the immutable cached outline.
func (p *PathOutline) Clone() *PathOutline {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Outline returns the cached outline, or nil before Prepare or after Spec
// changed.
func (p *PathOutline) Outline() *Outline {
	if p == nil || p.parsed != p.Spec {
		return nil
	}
	return p.outline
}

func (p *PathOutline) Valid() bool {
	return p.Outline() != nil && len(p.outline.Rings()) > 0
}

func (*PathOutline) isShape() {}

// Marker is a point-anchored opening symbol. Width and Height are stored in
// the coarse marker unit (see viewport.MarkerUnitScale).
type Marker struct {
	X, Y            float64
	Width, Height   float64
	RotationDegrees float64
}

func (m *Marker) Valid() bool {
	return m != nil && isFinite(m.X) && isFinite(m.Y) &&
		isFinite(m.Width) && isFinite(m.Height) && isFinite(m.RotationDegrees)
}

func (*Marker) isShape() {}

// Unsupported keeps a payload object whose type this build does not know.
// It seeds its layer but is never drawn or hit.
type Unsupported struct {
	Tag string
}

func (*Unsupported) Valid() bool { return false }

func (*Unsupported) isShape() {}

// FallbackLayer returns the layer used for a shape without one.
func FallbackLayer(s Shape) string {
	switch KindOf(s) {
	case KindLine, KindPolygon, KindPath:
		return LayerWalls
	case KindMarker:
		return LayerOpenings
	default:
		return LayerDefault
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
