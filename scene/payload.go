package scene

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/milk9111/planview/geometry"
)

// document is the union of every accepted top-level layout. Exactly one of
// the sections is normally present.
type document struct {
	Entities []renderObject `json:"entities" yaml:"entities"`
	Plan     *planV1        `json:"plan" yaml:"plan"`
	Scene    *sceneV2       `json:"scene" yaml:"scene"`
}

// renderObject is a viewer-ready object: a type tag plus a render block.
type renderObject struct {
	ID        flexString `json:"id" yaml:"id"`
	Layer     string     `json:"layer" yaml:"layer"`
	Type      string     `json:"type" yaml:"type"`
	Material  string     `json:"material" yaml:"material"`
	Thickness float64    `json:"thickness" yaml:"thickness"`
	Render    renderData `json:"render" yaml:"render"`
}

type renderData struct {
	// Line.
	X1 *float64 `json:"x1" yaml:"x1"`
	Y1 *float64 `json:"y1" yaml:"y1"`
	X2 *float64 `json:"x2" yaml:"x2"`
	Y2 *float64 `json:"y2" yaml:"y2"`

	// Polygon.
	Points [][]float64 `json:"points" yaml:"points"`

	// Outline.
	SVGPath string `json:"svgPath" yaml:"svgPath"`

	// Marker.
	X        *float64 `json:"x" yaml:"x"`
	Y        *float64 `json:"y" yaml:"y"`
	Width    float64  `json:"width" yaml:"width"`
	Height   float64  `json:"height" yaml:"height"`
	Rotation float64  `json:"rotation" yaml:"rotation"`

	Color       geometry.Color `json:"color" yaml:"color"`
	FillColor   geometry.Color `json:"fillColor" yaml:"fillColor"`
	StrokeColor geometry.Color `json:"strokeColor" yaml:"strokeColor"`
	LineWidth   float64        `json:"lineWidth" yaml:"lineWidth"`
}

// planV1 is the first backend layout: axis walls plus openings.
type planV1 struct {
	Walls    []wallV1    `json:"walls" yaml:"walls"`
	Openings []openingV1 `json:"openings" yaml:"openings"`
}

type wallV1 struct {
	ID          flexString  `json:"id" yaml:"id"`
	Layer       string      `json:"layer" yaml:"layer"`
	Type        string      `json:"type" yaml:"type"`
	Material    string      `json:"material" yaml:"material"`
	Thickness   float64     `json:"thickness" yaml:"thickness"`
	Start       []float64   `json:"start" yaml:"start"`
	End         []float64   `json:"end" yaml:"end"`
	Geometry    *pointsV1   `json:"geometry" yaml:"geometry"`
	Coordinates [][]float64 `json:"coordinates" yaml:"coordinates"`
}

type pointsV1 struct {
	Points [][]float64 `json:"points" yaml:"points"`
}

type openingV1 struct {
	ID       flexString `json:"id" yaml:"id"`
	Layer    string     `json:"layer" yaml:"layer"`
	Type     string     `json:"type" yaml:"type"`
	Position []float64  `json:"position" yaml:"position"`
	Width    float64    `json:"width" yaml:"width"`
	Rotation float64    `json:"rotation" yaml:"rotation"`
}

// sceneV2 is the hatch based backend layout.
type sceneV2 struct {
	Walls []wallV2 `json:"walls" yaml:"walls"`
}

type wallV2 struct {
	ID        flexString     `json:"id" yaml:"id"`
	Layer     string         `json:"layer" yaml:"layer"`
	Material  string         `json:"material" yaml:"material"`
	Color     geometry.Color `json:"color" yaml:"color"`
	SVGPath   string         `json:"svgPath" yaml:"svgPath"`
	Thickness float64        `json:"thickness" yaml:"thickness"`
}

// flexString accepts a JSON string or number. Backends emit both for ids.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}
