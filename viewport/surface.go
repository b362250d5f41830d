package viewport

import (
	"image/color"

	"github.com/milk9111/planview/geometry"
)

// Surface is a 2D drawing target. All coordinates are surface pixels and
// widths are in pixels.
type Surface interface {
	Size() (int, int)
	Clear(c color.Color)
	// FillPath fills the rings as one shape. With evenOdd set, nested rings
	// cut holes.
	FillPath(rings [][]geometry.Point, c color.Color, evenOdd bool)
	StrokePath(rings [][]geometry.Point, closed bool, width float64, c color.Color)
	StrokeLine(a, b geometry.Point, width float64, c color.Color)
}
