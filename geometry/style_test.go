package geometry

import (
	"image/color"
	"testing"

	"gopkg.in/yaml.v3"
)

func rgba(c color.Color) [4]uint32 {
	r, g, b, a := c.RGBA()
	return [4]uint32{r >> 8, g >> 8, b >> 8, a >> 8}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want [4]uint32
	}{
		{"#ffff00", [4]uint32{255, 255, 0, 255}},
		{"999", [4]uint32{0x99, 0x99, 0x99, 255}},
		{"#00aaff80", [4]uint32{0x00, 0x55, 0x80, 0x80}},
		{"black", [4]uint32{0, 0, 0, 255}},
		{"DarkGray", [4]uint32{0xa9, 0xa9, 0xa9, 255}},
		{"rgb(255, 0, 0)", [4]uint32{255, 0, 0, 255}},
		{"hsl(120, 100%, 50%)", [4]uint32{0, 255, 0, 255}},
		{" #8B4513 ", [4]uint32{0x8b, 0x45, 0x13, 255}},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := ParseColor(c.in)
			if err != nil {
				t.Fatalf("ParseColor: %v", err)
			}
			if rgba(got) != c.want {
				t.Fatalf("ParseColor(%q) = %v, want %v", c.in, rgba(got), c.want)
			}
		})
	}

	for _, bad := range []string{"", "   ", "#12", "#gggggg", "notacolor", "rgb(1, 2"} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestColorUnmarshal(t *testing.T) {
	var v struct {
		Fill Color `yaml:"fill"`
	}
	if err := yaml.Unmarshal([]byte("fill: \"#CD5C5C\"\n"), &v); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if rgba(v.Fill.Color) != [4]uint32{0xcd, 0x5c, 0x5c, 255} {
		t.Fatalf("unexpected colour %v", rgba(v.Fill.Color))
	}

	var j Color
	if err := j.UnmarshalJSON([]byte(`"yellow"`)); err != nil {
		t.Fatalf("json: %v", err)
	}
	if rgba(j.Color) != [4]uint32{255, 255, 0, 255} {
		t.Fatalf("unexpected colour %v", rgba(j.Color))
	}
}

func TestStyleDefaults(t *testing.T) {
	var s Style
	if s.FillOr(DefaultFill) != DefaultFill || s.StrokeOr(DefaultStroke) != DefaultStroke {
		t.Fatalf("unset colours should fall back to defaults")
	}
	if s.WidthOr(DefaultStrokeWidth) != DefaultStrokeWidth {
		t.Fatalf("unset width should fall back to default")
	}
	s.StrokeWidth = 2.5
	if s.WidthOr(DefaultStrokeWidth) != 2.5 {
		t.Fatalf("explicit width should be kept")
	}
}

func TestInferMaterial(t *testing.T) {
	cases := map[string]string{
		"АР_Монолит":        MaterialConcrete,
		"AR_WALL_MONOLIT":   MaterialConcrete,
		"АР_Газоблок 200мм": MaterialBrick,
		"PARTITION_GKL":     MaterialPartition,
		"STENA":             MaterialGeneric,
	}
	for layer, want := range cases {
		if got := InferMaterial(layer); got != want {
			t.Errorf("InferMaterial(%q) = %q, want %q", layer, got, want)
		}
	}
}
