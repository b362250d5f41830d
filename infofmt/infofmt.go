// Package infofmt turns a hovered entity into the text shown in the info
// panel.
package infofmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/milk9111/planview/geometry"
)

// Default is the built-in formatter:
//
//	WALL_POLYGON
//	Material: CONCRETE
//	Thickness: 200 mm
type Default struct{}

func (Default) Format(e *geometry.Entity) string {
	if e == nil {
		return ""
	}
	return strings.Join(defaultLines(e), "\n")
}

func defaultLines(e *geometry.Entity) []string {
	title := e.Type
	if title == "" {
		title = e.Kind().String()
	}
	material := e.Material
	if material == "" {
		material = "unknown"
	}
	lines := []string{
		strings.ToUpper(title),
		"Material: " + strings.ToUpper(material),
	}
	if e.Thickness > 0 {
		lines = append(lines, "Thickness: "+strconv.FormatFloat(e.Thickness, 'f', -1, 64)+" mm")
	}
	return lines
}

// Fields exposes an entity to scripts.
func Fields(e *geometry.Entity) map[string]any {
	if e == nil {
		return map[string]any{}
	}
	return map[string]any{
		"id":        e.ID,
		"layer":     e.Layer,
		"kind":      e.Kind().String(),
		"type":      e.Type,
		"material":  e.Material,
		"thickness": e.Thickness,
		"text":      Default{}.Format(e),
	}
}

func describe(e *geometry.Entity) string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s (%s)", e.ID, e.Kind())
}
