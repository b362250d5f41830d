// Package render provides drawing surfaces for the viewport: an ebiten
// image, a software rasterizer and an operation recorder.
package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/planview/geometry"
)

// Screen draws onto an ebiten image.
type Screen struct {
	dst       *ebiten.Image
	AntiAlias bool
}

func NewScreen(dst *ebiten.Image) *Screen {
	return &Screen{dst: dst, AntiAlias: true}
}

// SetTarget switches the destination image, e.g. the frame's screen.
func (s *Screen) SetTarget(dst *ebiten.Image) {
	s.dst = dst
}

func (s *Screen) Size() (int, int) {
	if s == nil || s.dst == nil {
		return 0, 0
	}
	b := s.dst.Bounds()
	return b.Dx(), b.Dy()
}

func (s *Screen) Clear(c color.Color) {
	if s == nil || s.dst == nil {
		return
	}
	s.dst.Fill(c)
}

func (s *Screen) FillPath(rings [][]geometry.Point, c color.Color, evenOdd bool) {
	if s == nil || s.dst == nil || len(rings) == 0 {
		return
	}
	path := buildPath(rings, true)
	fill := &vector.FillOptions{FillRule: vector.FillRuleNonZero}
	if evenOdd {
		fill.FillRule = vector.FillRuleEvenOdd
	}
	vector.FillPath(s.dst, path, fill, s.drawOptions(c))
}

func (s *Screen) StrokePath(rings [][]geometry.Point, closed bool, width float64, c color.Color) {
	if s == nil || s.dst == nil || len(rings) == 0 || width <= 0 {
		return
	}
	path := buildPath(rings, closed)
	stroke := &vector.StrokeOptions{
		Width:    float32(width),
		LineJoin: vector.LineJoinMiter,
	}
	vector.StrokePath(s.dst, path, stroke, s.drawOptions(c))
}

func (s *Screen) StrokeLine(a, b geometry.Point, width float64, c color.Color) {
	if s == nil || s.dst == nil || width <= 0 {
		return
	}
	vector.StrokeLine(s.dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), float32(width), c, s.AntiAlias)
}

func (s *Screen) drawOptions(c color.Color) *vector.DrawPathOptions {
	op := &vector.DrawPathOptions{AntiAlias: s.AntiAlias}
	op.ColorScale.ScaleWithColor(c)
	return op
}

func buildPath(rings [][]geometry.Point, closed bool) *vector.Path {
	var path vector.Path
	for _, ring := range rings {
		if len(ring) == 0 {
			continue
		}
		path.MoveTo(float32(ring[0].X), float32(ring[0].Y))
		for _, p := range ring[1:] {
			path.LineTo(float32(p.X), float32(p.Y))
		}
		if closed {
			path.Close()
		}
	}
	return &path
}
