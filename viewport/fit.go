package viewport

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/planview/geometry"
)

// DefaultFitMargin shrinks the fitted scale so geometry does not touch the
// surface border.
const DefaultFitMargin = 1.1

// DefaultFitBox frames an empty scene.
var DefaultFitBox = cp.BB{L: 0, B: 0, R: 100, T: 100}

// PathBounds selects how outline entities contribute to scene bounds.
type PathBounds int

const (
	// PathBoundsScan pools every numeric literal of the outline string into
	// one range used for both axes. Cheap, never too small, often too big.
	PathBoundsScan PathBounds = iota
	// PathBoundsParsed uses the parsed command endpoints and control points.
	PathBoundsParsed
)

func (m PathBounds) String() string {
	if m == PathBoundsParsed {
		return "parsed"
	}
	return "scan"
}

// ParsePathBounds maps a config string to a mode. Unknown values fall back
// to PathBoundsScan.
func ParsePathBounds(s string) PathBounds {
	if s == "parsed" {
		return PathBoundsParsed
	}
	return PathBoundsScan
}

// ComputeBounds returns the world box of every valid entity. Hidden layers
// still count. It reports false when nothing contributed.
func ComputeBounds(s *Scene, mode PathBounds) (cp.BB, bool) {
	var bb cp.BB
	found := false
	add := func(b cp.BB) {
		if !found {
			bb, found = b, true
			return
		}
		bb = bb.Merge(b)
	}

	for i := 0; i < s.Len(); i++ {
		if !s.Valid(i) {
			continue
		}
		e := s.Entity(i)
		if p, ok := e.Shape.(*geometry.PathOutline); ok {
			b, ok := pathBounds(p, mode)
			if ok {
				add(b)
			}
			continue
		}
		add(s.Box(i))
	}
	return bb, found
}

// SceneBounds is ComputeBounds with DefaultFitBox for empty scenes.
func SceneBounds(s *Scene, mode PathBounds) cp.BB {
	if bb, ok := ComputeBounds(s, mode); ok {
		return bb
	}
	return DefaultFitBox
}

func pathBounds(p *geometry.PathOutline, mode PathBounds) (cp.BB, bool) {
	if mode == PathBoundsParsed {
		return p.Outline().Bounds()
	}
	return geometry.ScanBounds(p.Spec)
}

// Fit centres bb on the camera's surface and scales it to fit with margin.
// Degenerate boxes and empty surfaces leave the camera unchanged.
func Fit(c *Camera, bb cp.BB, margin float64) bool {
	if c == nil {
		return false
	}
	if !(margin > 0) || math.IsInf(margin, 0) {
		margin = DefaultFitMargin
	}
	ww := bb.R - bb.L
	wh := bb.T - bb.B
	if !(ww > 0) || !(wh > 0) || math.IsInf(ww, 0) || math.IsInf(wh, 0) {
		return false
	}
	w, h := c.SurfaceSize()
	if w <= 0 || h <= 0 {
		return false
	}

	sw, sh := float64(w), float64(h)
	scale := math.Min(sw/ww, sh/wh) / margin
	center := bb.Center()
	return c.Set(sw/2/scale-center.X, sh/2/scale-center.Y, scale)
}
