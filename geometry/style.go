package geometry

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/mazznoer/csscolorparser"
	"gopkg.in/yaml.v3"
)

// Drawing defaults applied when an entity's style leaves a field unset.
var (
	DefaultFill        color.Color = color.NRGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
	DefaultStroke      color.Color = color.Black
	DefaultLineColor   color.Color = color.Black
	DefaultMarkerColor color.Color = color.NRGBA{R: 0x00, G: 0xaa, B: 0xff, A: 0xff}
	DefaultHoverFill   color.Color = color.NRGBA{R: 0xff, G: 0xff, B: 0x00, A: 0xff}
)

const (
	DefaultStrokeWidth = 1.0
	DefaultLineWidth   = 1.0
)

// Style is the optional per-entity drawing style.
type Style struct {
	Fill        color.Color
	Stroke      color.Color
	StrokeWidth float64
}

// FillOr returns the fill colour or def when unset.
func (s Style) FillOr(def color.Color) color.Color {
	if s.Fill == nil {
		return def
	}
	return s.Fill
}

// StrokeOr returns the stroke colour or def when unset.
func (s Style) StrokeOr(def color.Color) color.Color {
	if s.Stroke == nil {
		return def
	}
	return s.Stroke
}

// WidthOr returns the stroke width or def when unset or not positive.
func (s Style) WidthOr(def float64) float64 {
	if s.StrokeWidth <= 0 || !isFinite(s.StrokeWidth) {
		return def
	}
	return s.StrokeWidth
}

// ParseColor accepts any CSS colour: #rgb, #rrggbb, #rrggbbaa, rgb(), hsl()
// or a name such as "black" or "darkgray". A bare hex string without the #
// is accepted too.
func ParseColor(s string) (color.Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return nil, fmt.Errorf("geometry: empty color")
	}
	if isHexDigits(v) {
		v = "#" + v
	}
	c, err := csscolorparser.Parse(v)
	if err != nil {
		return nil, fmt.Errorf("geometry: invalid color %s: %w", s, err)
	}
	return color.NRGBA{R: unit8(c.R), G: unit8(c.G), B: unit8(c.B), A: unit8(c.A)}, nil
}

func isHexDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if !(ch >= '0' && ch <= '9') && !(ch >= 'a' && ch <= 'f') {
			return false
		}
	}
	return true
}

// unit8 maps a 0..1 channel to 0..255.
func unit8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// Color wraps color.Color so it can be read from YAML and JSON strings.
type Color struct {
	color.Color
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
		c.Color = nil
		return nil
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

// UnmarshalJSON accepts a colour string. null and "" leave the colour unset.
func (c *Color) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("color must be a string: %w", err)
	}
	if s == nil || strings.TrimSpace(*s) == "" {
		c.Color = nil
		return nil
	}
	parsed, err := ParseColor(*s)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

// Decode converts the color for use with envconfig.
func (c *Color) Decode(value string) error {
	parsed, err := ParseColor(value)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

// Or returns the wrapped colour or def when unset.
func (c Color) Or(def color.Color) color.Color {
	if c.Color == nil {
		return def
	}
	return c.Color
}
