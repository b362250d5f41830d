// Package viewport implements the plan viewer core: camera, view fit, hit
// testing, layer visibility, redraw scheduling and draw dispatch.
package viewport

import "math"

const (
	// DefaultScale is the world-to-pixel ratio of a fresh camera.
	DefaultScale = 1.0
	// ZoomStep is the per-notch wheel zoom factor.
	ZoomStep = 1.1
)

// Matrix is a 2D affine transform in canvas setTransform order
// [a, b, c, d, e, f]: x' = a*x + c*y + e, y' = b*x + d*y + f.
type Matrix [6]float64

// Apply transforms a point.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Camera maps world coordinates (Y-up) to surface pixels (Y-down).
type Camera struct {
	OffsetX float64
	OffsetY float64
	Scale   float64

	width  int
	height int
}

// NewCamera returns a camera with zero offset and DefaultScale.
func NewCamera(width, height int) *Camera {
	return &Camera{Scale: DefaultScale, width: width, height: height}
}

// SetSurfaceSize updates the pixel size of the drawing surface.
func (c *Camera) SetSurfaceSize(width, height int) {
	if c == nil || width < 0 || height < 0 {
		return
	}
	c.width = width
	c.height = height
}

// SurfaceSize returns the pixel size of the drawing surface.
func (c *Camera) SurfaceSize() (int, int) {
	if c == nil {
		return 0, 0
	}
	return c.width, c.height
}

// Set replaces offset and scale. Non-finite values or a non-positive scale
// are rejected and leave the camera unchanged.
func (c *Camera) Set(offsetX, offsetY, scale float64) bool {
	if c == nil || !finite(offsetX) || !finite(offsetY) || !validScale(scale) {
		return false
	}
	c.OffsetX = offsetX
	c.OffsetY = offsetY
	c.Scale = scale
	return true
}

// Reset restores the default camera.
func (c *Camera) Reset() {
	if c == nil {
		return
	}
	c.OffsetX, c.OffsetY, c.Scale = 0, 0, DefaultScale
}

// WorldToScreen maps a world point to surface pixels.
func (c *Camera) WorldToScreen(wx, wy float64) (float64, float64) {
	return (wx + c.OffsetX) * c.Scale, float64(c.height) - (wy+c.OffsetY)*c.Scale
}

// ScreenToWorld maps surface pixels back to world units.
func (c *Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	return sx/c.Scale - c.OffsetX, (float64(c.height)-sy)/c.Scale - c.OffsetY
}

// Matrix returns the affine transform equivalent to WorldToScreen:
// [s, 0, 0, -s, offsetX*s, height-offsetY*s].
func (c *Camera) Matrix() Matrix {
	s := c.Scale
	return Matrix{s, 0, 0, -s, c.OffsetX * s, float64(c.height) - c.OffsetY*s}
}

// Pan moves the view by a pixel delta. Screen Y grows downwards, world Y
// upwards, hence the sign flip on dy.
func (c *Camera) Pan(dx, dy float64) {
	if c == nil || !finite(dx) || !finite(dy) {
		return
	}
	c.OffsetX += dx / c.Scale
	c.OffsetY -= dy / c.Scale
}

// ZoomAt multiplies the scale by factor while keeping the world point under
// pixel (px, py) fixed. It reports false and leaves the camera untouched if
// the resulting scale would not be finite and positive.
func (c *Camera) ZoomAt(px, py, factor float64) bool {
	if c == nil || !finite(px) || !finite(py) || !validScale(factor) {
		return false
	}
	wx, wy := c.ScreenToWorld(px, py)
	scale := c.Scale * factor
	if !validScale(scale) {
		return false
	}
	offX := px/scale - wx
	offY := (float64(c.height)-py)/scale - wy
	return c.Set(offX, offY, scale)
}

// WheelFactor converts a wheel delta into a zoom factor. Positive dy (wheel
// away from the user) zooms in by step, negative zooms out by 1/step.
func WheelFactor(dy, step float64) float64 {
	if step <= 1 || !finite(step) {
		step = ZoomStep
	}
	switch {
	case dy > 0:
		return step
	case dy < 0:
		return 1 / step
	default:
		return 1
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validScale(s float64) bool {
	return finite(s) && s > 0
}
