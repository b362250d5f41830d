package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/milk9111/planview/geometry"
)

// OpKind tags a recorded draw call.
type OpKind int

const (
	OpClear OpKind = iota
	OpFill
	OpStroke
	OpLine
)

func (k OpKind) String() string {
	switch k {
	case OpClear:
		return "clear"
	case OpFill:
		return "fill"
	case OpStroke:
		return "stroke"
	case OpLine:
		return "line"
	default:
		return "unknown"
	}
}

// Op is one recorded draw call.
type Op struct {
	Kind    OpKind
	Rings   [][]geometry.Point
	Closed  bool
	EvenOdd bool
	Width   float64
	Color   color.Color
}

// Recorder keeps the draw calls of the last frame instead of painting.
type Recorder struct {
	Width  int
	Height int
	Ops    []Op
}

func NewRecorder(width, height int) *Recorder {
	return &Recorder{Width: width, Height: height}
}

func (r *Recorder) Size() (int, int) { return r.Width, r.Height }

// Clear starts a new frame.
func (r *Recorder) Clear(c color.Color) {
	r.Ops = append(r.Ops[:0], Op{Kind: OpClear, Color: c})
}

func (r *Recorder) FillPath(rings [][]geometry.Point, c color.Color, evenOdd bool) {
	r.Ops = append(r.Ops, Op{Kind: OpFill, Rings: copyRings(rings), Closed: true, EvenOdd: evenOdd, Color: c})
}

func (r *Recorder) StrokePath(rings [][]geometry.Point, closed bool, width float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpStroke, Rings: copyRings(rings), Closed: closed, Width: width, Color: c})
}

func (r *Recorder) StrokeLine(a, b geometry.Point, width float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, Rings: [][]geometry.Point{{a, b}}, Width: width, Color: c})
}

// Count returns how many ops of kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Summary renders one line per op, for debug dumps.
func (r *Recorder) Summary() string {
	var b strings.Builder
	for i, op := range r.Ops {
		var cr, cg, cb, ca uint32
		if op.Color != nil {
			cr, cg, cb, ca = op.Color.RGBA()
		}
		fmt.Fprintf(&b, "%03d %-6s rings=%d width=%.1f rgba=%02x%02x%02x%02x\n",
			i, op.Kind, len(op.Rings), op.Width, cr>>8, cg>>8, cb>>8, ca>>8)
	}
	return b.String()
}

func copyRings(rings [][]geometry.Point) [][]geometry.Point {
	out := make([][]geometry.Point, len(rings))
	for i, ring := range rings {
		out[i] = append([]geometry.Point(nil), ring...)
	}
	return out
}
