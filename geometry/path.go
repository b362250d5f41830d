package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// MaxPathCoord bounds the magnitude of any path coordinate. Parsed outlines
// are stored in 26.6 fixed point, so coordinates resolve to 1/64 world unit.
const MaxPathCoord = 1 << 24

// PathOp is an absolute outline drawing operation.
type PathOp int

const (
	OpMove PathOp = iota
	OpLine
	OpQuad
	OpCubic
	OpClose
)

// PathCommand is one parsed command in absolute world coordinates. Pts holds
// the control points followed by the end point.
type PathCommand struct {
	Op  PathOp
	Pts []Point
}

// Outline is a parsed path specification plus its flattened rings.
type Outline struct {
	Commands []PathCommand

	path  rasterx.Path
	rings [][]Point
}

// Rings returns the flattened rings, or nil before Flatten.
func (o *Outline) Rings() [][]Point {
	if o == nil {
		return nil
	}
	return o.rings
}

// Contains reports whether a world point is inside the filled outline using
// the even-odd rule.
func (o *Outline) Contains(p Point) bool {
	if o == nil {
		return false
	}
	return PointInRings(p, o.rings)
}

// Bounds returns the box over every end and control point of the parsed
// commands. Control points make it conservative for curves.
func (o *Outline) Bounds() (cp.BB, bool) {
	if o == nil {
		return cp.BB{}, false
	}
	var bb cp.BB
	found := false
	for _, c := range o.Commands {
		for _, p := range c.Pts {
			if !found {
				bb = cp.BB{L: p.X, B: p.Y, R: p.X, T: p.Y}
				found = true
				continue
			}
			bb = bb.Expand(cp.Vector{X: p.X, Y: p.Y})
		}
	}
	return bb, found
}

// Flatten converts curves to line segments and caches the resulting rings.
// Curves are split by rasterx with the same flatness heuristic it uses when
// filling. Rings with fewer than three points cannot enclose area and are
// dropped.
func (o *Outline) Flatten() [][]Point {
	if o == nil {
		return nil
	}
	rb := &ringBuilder{}
	o.path.AddTo(rb)
	o.rings = rb.rings
	return o.rings
}

// ParsePath parses an SVG-like path specification with oksvg. Every SVG 1.1
// path command is accepted (arcs and smooth curves are converted to Béziers);
// numbers may be separated by whitespace or commas. Unknown commands and
// malformed arguments are errors.
func ParsePath(spec string) (*Outline, error) {
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return nil, fmt.Errorf("geometry: empty path")
	}
	if trimmed[0] != 'M' && trimmed[0] != 'm' {
		return nil, fmt.Errorf("geometry: path must start with a moveto")
	}
	for _, v := range scanNumbers(trimmed) {
		if math.Abs(v) > MaxPathCoord {
			return nil, fmt.Errorf("geometry: path coordinate %g out of range", v)
		}
	}

	c := &oksvg.PathCursor{ErrorMode: oksvg.StrictErrorMode}
	if err := c.CompilePath(trimmed); err != nil {
		return nil, fmt.Errorf("geometry: parse path: %w", err)
	}

	o := &Outline{path: append(rasterx.Path(nil), c.Path...)}
	rec := &commandRecorder{}
	o.path.AddTo(rec)
	o.Commands = rec.cmds
	return o, nil
}

// ScanBounds is the coarse outline bound used for view fitting: every numeric
// literal in the spec is taken as both an X and a Y candidate, so the box is
// the square [min,min]-[max,max]. It never under-covers the outline but may be
// much looser than its true extent.
func ScanBounds(spec string) (cp.BB, bool) {
	nums := scanNumbers(spec)
	if len(nums) == 0 {
		return cp.BB{}, false
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range nums {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return cp.BB{L: lo, B: lo, R: hi, T: hi}, true
}

func fromFixed(p fixed.Point26_6) Point {
	return Point{X: float64(p.X) / 64, Y: float64(p.Y) / 64}
}

// commandRecorder replays a rasterx path into absolute commands.
type commandRecorder struct {
	cmds []PathCommand
}

func (r *commandRecorder) Start(a fixed.Point26_6) {
	r.cmds = append(r.cmds, PathCommand{Op: OpMove, Pts: []Point{fromFixed(a)}})
}

func (r *commandRecorder) Line(b fixed.Point26_6) {
	r.cmds = append(r.cmds, PathCommand{Op: OpLine, Pts: []Point{fromFixed(b)}})
}

func (r *commandRecorder) QuadBezier(b, c fixed.Point26_6) {
	r.cmds = append(r.cmds, PathCommand{Op: OpQuad, Pts: []Point{fromFixed(b), fromFixed(c)}})
}

func (r *commandRecorder) CubeBezier(b, c, d fixed.Point26_6) {
	r.cmds = append(r.cmds, PathCommand{Op: OpCubic, Pts: []Point{fromFixed(b), fromFixed(c), fromFixed(d)}})
}

func (r *commandRecorder) Stop(closeLoop bool) {
	if closeLoop {
		r.cmds = append(r.cmds, PathCommand{Op: OpClose})
	}
}

// ringBuilder flattens a rasterx path into closed rings.
type ringBuilder struct {
	rings      [][]Point
	ring       []Point
	cur, start Point
}

func (b *ringBuilder) flush() {
	if len(b.ring) >= 3 {
		b.rings = append(b.rings, b.ring)
	}
	b.ring = nil
}

func (b *ringBuilder) lineTo(p Point) {
	if b.ring == nil {
		b.ring = []Point{b.cur}
	}
	b.ring = append(b.ring, p)
	b.cur = p
}

func (b *ringBuilder) lineTo32(x, y float32) {
	b.lineTo(Point{X: float64(x), Y: float64(y)})
}

func (b *ringBuilder) Start(a fixed.Point26_6) {
	b.flush()
	b.cur = fromFixed(a)
	b.start = b.cur
	b.ring = []Point{b.cur}
}

func (b *ringBuilder) Line(p fixed.Point26_6) {
	b.lineTo(fromFixed(p))
}

func (b *ringBuilder) QuadBezier(c1, p fixed.Point26_6) {
	ctrl, end := fromFixed(c1), fromFixed(p)
	rasterx.QuadTo(float32(b.cur.X), float32(b.cur.Y), float32(ctrl.X), float32(ctrl.Y),
		float32(end.X), float32(end.Y), b.lineTo32)
	b.cur = end
}

func (b *ringBuilder) CubeBezier(c1, c2, p fixed.Point26_6) {
	k1, k2, end := fromFixed(c1), fromFixed(c2), fromFixed(p)
	rasterx.CubeTo(float32(b.cur.X), float32(b.cur.Y), float32(k1.X), float32(k1.Y),
		float32(k2.X), float32(k2.Y), float32(end.X), float32(end.Y), b.lineTo32)
	b.cur = end
}

func (b *ringBuilder) Stop(closeLoop bool) {
	if closeLoop {
		b.cur = b.start
	}
	b.flush()
}

// scanNumbers returns every parseable numeric literal, skipping anything else.
func scanNumbers(spec string) []float64 {
	var nums []float64
	for i := 0; i < len(spec); {
		if !isNumberStart(spec[i]) {
			i++
			continue
		}
		end := scanNumber(spec, i)
		if v, err := strconv.ParseFloat(spec[i:end], 64); err == nil && isFinite(v) {
			nums = append(nums, v)
		}
		if end == i {
			end++
		}
		i = end
	}
	return nums
}

func isNumberStart(ch byte) bool {
	return (ch >= '0' && ch <= '9') || ch == '.' || ch == '-' || ch == '+'
}

// scanNumber returns the end index of the number starting at i.
func scanNumber(s string, i int) int {
	j := i
	if j < len(s) && (s[j] == '+' || s[j] == '-') {
		j++
	}
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j < len(s) && s[j] == '.' {
		j++
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
	}
	if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		k := j + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		if k < len(s) && s[k] >= '0' && s[k] <= '9' {
			for k < len(s) && s[k] >= '0' && s[k] <= '9' {
				k++
			}
			j = k
		}
	}
	if j == i {
		j = i + 1
	}
	return j
}
