package geometry

import (
	"image/color"
	"strings"
)

// Wall materials recognised in layer names.
const (
	MaterialConcrete  = "concrete"
	MaterialBrick     = "brick"
	MaterialPartition = "partition"
	MaterialGeneric   = "generic"
)

var materialKeywords = []struct {
	material string
	keywords []string
}{
	{MaterialConcrete, []string{"MONOLIT", "BETON", "ЖЕЛЕЗОБЕТОН", "CONCRETE", "МОНОЛИТ"}},
	{MaterialBrick, []string{"GAS", "BLOCK", "ГАЗОБЛОК", "KIRPICH", "BRICK", "БЛОК", "КИРПИЧ"}},
	{MaterialPartition, []string{"PEREG", "GKL", "PARTITION", "ПЕРЕГОРОДКИ", "ГКЛ"}},
}

// InferMaterial guesses a wall material from a CAD layer name.
func InferMaterial(layer string) string {
	upper := strings.ToUpper(layer)
	for _, m := range materialKeywords {
		for _, k := range m.keywords {
			if strings.Contains(upper, k) {
				return m.material
			}
		}
	}
	return MaterialGeneric
}

// Palette maps material names to fill colours.
type Palette map[string]color.Color

// DefaultPalette returns the built-in material fills.
func DefaultPalette() Palette {
	return Palette{
		MaterialConcrete:  color.NRGBA{R: 0xa9, G: 0xa9, B: 0xa9, A: 0xff},
		MaterialBrick:     color.NRGBA{R: 0xcd, G: 0x5c, B: 0x5c, A: 0xff},
		MaterialPartition: color.NRGBA{R: 0xd3, G: 0xd3, B: 0xd3, A: 0xff},
		MaterialGeneric:   DefaultFill,
	}
}

// Fill returns the colour for a material, falling back to DefaultFill.
func (p Palette) Fill(material string) color.Color {
	if p != nil {
		if c, ok := p[strings.ToLower(material)]; ok && c != nil {
			return c
		}
	}
	return DefaultFill
}
