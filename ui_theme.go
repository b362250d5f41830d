package main

import (
	"bytes"
	"image/color"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Slate palette shared by the layer panel and the canvas backdrop.
var (
	panelBackground = color.NRGBA{0x1e, 0x24, 0x2e, 0xff}
	panelInset      = color.NRGBA{0x2a, 0x32, 0x3f, 0xff}
	accent          = color.NRGBA{0x4f, 0x8c, 0xc9, 0xff}
	inkLight        = color.NRGBA{0xe4, 0xe9, 0xf0, 0xff}
	inkMuted        = color.NRGBA{0x7d, 0x88, 0x99, 0xff}

	labelColor = &widget.LabelColor{Idle: inkLight, Disabled: inkMuted}
)

func solidNineSlice(c color.Color) *image.NineSlice {
	return image.NewNineSliceColor(c)
}

// newFontFace loads Go Regular at the given size.
func newFontFace(size float64) (text.Face, error) {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, err
	}
	return &text.GoTextFace{Source: s, Size: size}, nil
}

// newViewerTheme covers the widgets the layer panel builds: the layer list,
// the bulk visibility buttons and the filter box.
func newViewerTheme(fontFace *text.Face) *widget.Theme {
	return &widget.Theme{
		ListTheme: &widget.ListParams{
			EntryFace: fontFace,
			EntryColor: &widget.ListEntryColor{
				Unselected:          inkLight,
				Selected:            color.White,
				DisabledUnselected:  inkMuted,
				DisabledSelected:    inkMuted,
				SelectingBackground: color.NRGBA{0x36, 0x4a, 0x63, 0xff},
				SelectedBackground:  accent,
			},
			ScrollContainerImage: &widget.ScrollContainerImage{
				Idle: solidNineSlice(panelInset),
				Mask: solidNineSlice(panelInset),
			},
		},
		ButtonTheme: &widget.ButtonParams{
			Image: &widget.ButtonImage{
				Idle:    solidNineSlice(panelInset),
				Hover:   solidNineSlice(color.NRGBA{0x36, 0x4a, 0x63, 0xff}),
				Pressed: solidNineSlice(accent),
			},
			TextFace:  fontFace,
			TextColor: &widget.ButtonTextColor{Idle: inkLight},
		},
		TextInputTheme: &widget.TextInputParams{
			Image: &widget.TextInputImage{
				Idle:     solidNineSlice(panelInset),
				Disabled: solidNineSlice(panelBackground),
			},
			Color: &widget.TextInputColor{
				Idle:     inkLight,
				Disabled: inkMuted,
				Caret:    accent,
			},
			Face: fontFace,
		},
	}
}
