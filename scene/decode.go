// Package scene decodes floor-plan payloads into geometry entities.
//
// Three layouts are accepted, as JSON or YAML:
//
//	{"entities": [...]}            viewer-ready render objects
//	{"plan": {"walls", "openings"}} axis walls and openings
//	{"scene": {"walls": [...]}}    hatch outlines as path strings
//
// A bare JSON array is read as a list of render objects.
package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/milk9111/planview/geometry"
	"gopkg.in/yaml.v3"
)

// Format selects the payload encoding.
type Format int

const (
	FormatAuto Format = iota
	FormatJSON
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "auto"
	}
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatAuto
	}
}

// Type tags stored in Entity.Type.
const (
	TypeWall        = "wall"
	TypeWallPolygon = "wall_polygon"
	TypeWallSVG     = "wall_svg"
	TypeOpening     = "opening"
)

// Defaults applied to backend payloads.
const (
	PlanWallWidth     = 2.0
	OpeningHeight     = 0.2
	openingTypeWindow = "window"
)

var (
	windowColor = geometry.DefaultMarkerColor
	doorColor   = color.Color(color.NRGBA{R: 0x8b, G: 0x45, B: 0x13, A: 0xff})
	wallColor   = geometry.DefaultLineColor
)

// ErrNoGeometry is returned when a payload has none of the known sections.
var ErrNoGeometry = errors.New("no entities, plan or scene section")

// Decode parses data into entities. Objects without usable geometry are
// skipped and logged. Missing and duplicate ids are replaced with UUIDs.
func Decode(data []byte, format Format) ([]geometry.Entity, error) {
	if format == FormatAuto {
		format = sniff(data)
	}

	var doc document
	switch format {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			if err := json.Unmarshal(trimmed, &doc.Entities); err != nil {
				return nil, fmt.Errorf("scene: decode %s: %w", format, err)
			}
			if doc.Entities == nil {
				doc.Entities = []renderObject{}
			}
			break
		}
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("scene: decode %s: %w", format, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("scene: decode %s: %w", format, err)
		}
	}

	if doc.Entities == nil && doc.Plan == nil && doc.Scene == nil {
		return nil, fmt.Errorf("scene: decode %s: %w", format, ErrNoGeometry)
	}

	var c converter
	for i := range doc.Entities {
		c.renderObject(&doc.Entities[i])
	}
	if doc.Plan != nil {
		for i := range doc.Plan.Walls {
			c.wallV1(&doc.Plan.Walls[i])
		}
		for i := range doc.Plan.Openings {
			c.openingV1(&doc.Plan.Openings[i])
		}
	}
	if doc.Scene != nil {
		for i := range doc.Scene.Walls {
			c.wallV2(&doc.Scene.Walls[i])
		}
	}

	if c.skipped > 0 {
		log.Printf("scene: skipped %d objects without usable geometry", c.skipped)
	}
	assignIDs(c.out)
	return c.out, nil
}

func sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

type converter struct {
	out     []geometry.Entity
	skipped int
}

func (c *converter) add(e geometry.Entity) {
	if p, ok := e.Shape.(*geometry.PathOutline); ok {
		if err := p.Prepare(); err != nil {
			log.Printf("scene: object %s: %v", e.ID, err)
			c.skipped++
			return
		}
	}
	if _, unsupported := e.Shape.(*geometry.Unsupported); !unsupported && !e.Valid() {
		c.skipped++
		return
	}
	if e.Layer == "" {
		e.Layer = geometry.FallbackLayer(e.Shape)
	}
	c.out = append(c.out, e)
}

func (c *converter) renderObject(o *renderObject) {
	r := &o.Render
	e := geometry.Entity{
		ID:        string(o.ID),
		Layer:     o.Layer,
		Type:      o.Type,
		Material:  o.Material,
		Thickness: o.Thickness,
		Style: geometry.Style{
			Fill:        r.FillColor.Color,
			Stroke:      r.StrokeColor.Color,
			StrokeWidth: r.LineWidth,
		},
	}

	switch {
	case o.Type == TypeWallSVG || (o.Type == "" && r.SVGPath != ""):
		if r.SVGPath == "" {
			c.skipped++
			return
		}
		e.Shape = &geometry.PathOutline{Spec: r.SVGPath}
		e.Style.Fill = firstColor(r.FillColor, r.Color)
	case o.Type == TypeWallPolygon || (o.Type == "" && r.Points != nil):
		pts, ok := toPoints(r.Points)
		if !ok {
			c.skipped++
			return
		}
		e.Shape = &geometry.Polygon{Points: pts}
		e.Style.Fill = firstColor(r.FillColor, r.Color)
	case o.Type == TypeOpening || (o.Type == "" && r.X != nil):
		if r.X == nil || r.Y == nil {
			c.skipped++
			return
		}
		e.Shape = &geometry.Marker{X: *r.X, Y: *r.Y, Width: r.Width, Height: r.Height, RotationDegrees: r.Rotation}
		e.Style.Fill = firstColor(r.Color, r.FillColor)
	case r.X1 != nil && r.Y1 != nil && r.X2 != nil && r.Y2 != nil:
		e.Shape = &geometry.LineSegment{X1: *r.X1, Y1: *r.Y1, X2: *r.X2, Y2: *r.Y2}
		e.Style.Stroke = firstColor(r.Color, r.StrokeColor)
	case o.Type != "" && o.Type != TypeWall:
		e.Shape = &geometry.Unsupported{Tag: o.Type}
	default:
		c.skipped++
		return
	}

	if e.Material == "" && e.Kind() != geometry.KindMarker && e.Kind() != geometry.KindUnknown {
		e.Material = geometry.InferMaterial(e.Layer)
	}
	c.add(e)
}

func (c *converter) wallV1(w *wallV1) {
	e := geometry.Entity{
		ID:        string(w.ID),
		Layer:     w.Layer,
		Type:      TypeWall,
		Material:  w.Material,
		Thickness: w.Thickness,
	}
	if e.Layer == "" {
		e.Layer = geometry.LayerWalls
	}
	if e.Material == "" {
		e.Material = geometry.InferMaterial(e.Layer)
	}

	if pts, ok := toPoints(w.Coordinates); ok && len(pts) >= 3 {
		e.Type = TypeWallPolygon
		e.Shape = &geometry.Polygon{Points: pts}
		c.add(e)
		return
	}

	var p1, p2 []float64
	switch {
	case len(w.Start) >= 2 && len(w.End) >= 2:
		p1, p2 = w.Start, w.End
	case w.Geometry != nil && len(w.Geometry.Points) >= 2 && len(w.Geometry.Points[0]) >= 2 && len(w.Geometry.Points[1]) >= 2:
		p1, p2 = w.Geometry.Points[0], w.Geometry.Points[1]
	default:
		c.skipped++
		return
	}
	e.Shape = &geometry.LineSegment{X1: p1[0], Y1: p1[1], X2: p2[0], Y2: p2[1]}
	e.Style = geometry.Style{Stroke: wallColor, StrokeWidth: PlanWallWidth}
	c.add(e)
}

func (c *converter) openingV1(o *openingV1) {
	if len(o.Position) < 2 {
		c.skipped++
		return
	}
	fill := doorColor
	if o.Type == openingTypeWindow {
		fill = windowColor
	}
	layer := o.Layer
	if layer == "" {
		layer = geometry.LayerOpenings
	}
	c.add(geometry.Entity{
		ID:    string(o.ID),
		Layer: layer,
		Type:  TypeOpening,
		Style: geometry.Style{Fill: fill},
		Shape: &geometry.Marker{
			X:               o.Position[0],
			Y:               o.Position[1],
			Width:           o.Width,
			Height:          OpeningHeight,
			RotationDegrees: o.Rotation,
		},
	})
}

func (c *converter) wallV2(w *wallV2) {
	if w.SVGPath == "" {
		c.skipped++
		return
	}
	material := w.Material
	if material == "" {
		material = geometry.InferMaterial(w.Layer)
	}
	c.add(geometry.Entity{
		ID:        string(w.ID),
		Layer:     w.Layer,
		Type:      TypeWallSVG,
		Material:  material,
		Thickness: w.Thickness,
		Style:     geometry.Style{Fill: w.Color.Color},
		Shape:     &geometry.PathOutline{Spec: w.SVGPath},
	})
}

// assignIDs gives every entity a unique id.
func assignIDs(entities []geometry.Entity) {
	seen := make(map[string]bool, len(entities))
	for i := range entities {
		id := entities[i].ID
		if id == "" || seen[id] {
			id = uuid.NewString()
		}
		seen[id] = true
		entities[i].ID = id
	}
}

func toPoints(raw [][]float64) ([]geometry.Point, bool) {
	if len(raw) < 2 {
		return nil, false
	}
	pts := make([]geometry.Point, 0, len(raw))
	for _, p := range raw {
		if len(p) < 2 {
			return nil, false
		}
		pts = append(pts, geometry.Point{X: p[0], Y: p[1]})
	}
	return pts, true
}

func firstColor(cs ...geometry.Color) color.Color {
	for _, c := range cs {
		if c.Color != nil {
			return c.Color
		}
	}
	return nil
}
