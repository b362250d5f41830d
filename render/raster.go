package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/milk9111/planview/geometry"
	"golang.org/x/image/vector"
)

// Raster is a CPU surface backed by an *image.RGBA. It needs no window or
// GPU, so it serves headless snapshots and tests.
type Raster struct {
	img *image.RGBA
	ras *vector.Rasterizer
}

func NewRaster(width, height int) *Raster {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Raster{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
		ras: vector.NewRasterizer(width, height),
	}
}

// Image returns the backing image.
func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (r *Raster) Clear(c color.Color) {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// FillPath fills rings. Nonzero fills go through the vector rasterizer.
// Even-odd fills sample each pixel on a 4x4 grid with the same even-odd test
// hit testing uses, so self-intersecting rings and holes agree with hover.
func (r *Raster) FillPath(rings [][]geometry.Point, c color.Color, evenOdd bool) {
	if len(rings) == 0 {
		return
	}
	if !evenOdd {
		r.reset()
		for _, ring := range rings {
			r.addRing(ring)
		}
		r.paint(c)
		return
	}

	area, ok := ringsRect(rings, r.img.Bounds())
	if !ok {
		return
	}
	mask := image.NewAlpha(area)
	const n = evenOddSamples
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			hits := 0
			for sy := 0; sy < n; sy++ {
				for sx := 0; sx < n; sx++ {
					p := geometry.Point{
						X: float64(x) + (float64(sx)+0.5)/n,
						Y: float64(y) + (float64(sy)+0.5)/n,
					}
					if geometry.PointInRings(p, rings) {
						hits++
					}
				}
			}
			mask.SetAlpha(x, y, color.Alpha{A: uint8(hits * 255 / (n * n))})
		}
	}
	draw.DrawMask(r.img, area, image.NewUniform(c), image.Point{}, mask, area.Min, draw.Over)
}

const evenOddSamples = 4

// ringsRect returns the pixel rectangle covering rings, clipped to bounds.
func ringsRect(rings [][]geometry.Point, bounds image.Rectangle) (image.Rectangle, bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, ring := range rings {
		for _, p := range ring {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if minX > maxX || minY > maxY {
		return image.Rectangle{}, false
	}
	rect := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY))).Intersect(bounds)
	return rect, !rect.Empty()
}

// StrokePath strokes each ring as a chain of thick segments.
func (r *Raster) StrokePath(rings [][]geometry.Point, closed bool, width float64, c color.Color) {
	if width <= 0 {
		return
	}
	r.reset()
	for _, ring := range rings {
		for i := 0; i+1 < len(ring); i++ {
			r.addSegment(ring[i], ring[i+1], width)
		}
		if closed && len(ring) > 2 {
			r.addSegment(ring[len(ring)-1], ring[0], width)
		}
	}
	r.paint(c)
}

func (r *Raster) StrokeLine(a, b geometry.Point, width float64, c color.Color) {
	if width <= 0 {
		return
	}
	r.reset()
	r.addSegment(a, b, width)
	r.paint(c)
}

func (r *Raster) reset() {
	b := r.img.Bounds()
	r.ras.Reset(b.Dx(), b.Dy())
	r.ras.DrawOp = draw.Over
}

func (r *Raster) paint(c color.Color) {
	r.ras.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
}

func (r *Raster) addRing(ring []geometry.Point) {
	if len(ring) < 3 {
		return
	}
	r.ras.MoveTo(float32(ring[0].X), float32(ring[0].Y))
	for _, p := range ring[1:] {
		r.ras.LineTo(float32(p.X), float32(p.Y))
	}
	r.ras.ClosePath()
}

// addSegment adds a rectangle of the given width around a-b. Every quad has
// the same orientation, so overlaps at joints do not cancel.
func (r *Raster) addSegment(a, b geometry.Point, width float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	r.ras.MoveTo(float32(a.X+nx), float32(a.Y+ny))
	r.ras.LineTo(float32(b.X+nx), float32(b.Y+ny))
	r.ras.LineTo(float32(b.X-nx), float32(b.Y-ny))
	r.ras.LineTo(float32(a.X-nx), float32(a.Y-ny))
	r.ras.ClosePath()
}
