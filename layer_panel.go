package main

import (
	"fmt"
	"strings"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/planview/viewport"
)

// LayerEntry is one row of the layer list. Rows with an empty Name are group
// headers.
type LayerEntry struct {
	Group   string
	Name    string
	Count   int
	Visible bool
	// Nested rows sit under a group header.
	Nested bool
	// rev differs between rebuilds so clicking the same row again still
	// registers as a new selection.
	rev int
}

// LayerPanel lists the scene's layers grouped by prefix and toggles their
// visibility on click.
type LayerPanel struct {
	list   *widget.List
	filter *widget.TextInput

	layers *viewport.Layers
	counts map[string]int
	query  string
	rev    int

	onToggle  func(layer string, visible bool)
	onShowAll func()
	onHideAll func()

	// suppressEvents, when true, keeps programmatic list updates from being
	// treated as clicks.
	suppressEvents bool
}

func NewLayerPanel(layers *viewport.Layers) *LayerPanel {
	return &LayerPanel{layers: layers, counts: map[string]int{}}
}

// SetScene recounts entities per layer and rebuilds the list.
func (lp *LayerPanel) SetScene(s *viewport.Scene) {
	if lp == nil {
		return
	}
	lp.counts = layerCounts(s)
	lp.Refresh()
}

// SetFilter narrows the list to layers containing query.
func (lp *LayerPanel) SetFilter(query string) {
	if lp == nil || lp.query == query {
		return
	}
	lp.query = query
	lp.Refresh()
}

// Refresh rebuilds the list from the current visibility state.
func (lp *LayerPanel) Refresh() {
	if lp == nil {
		return
	}
	lp.rev++
	entries := buildLayerEntries(lp.layers, lp.counts, lp.query, lp.rev)
	if lp.list == nil {
		return
	}
	lp.suppressEvents = true
	lp.list.SetEntries(entries)
	lp.suppressEvents = false
}

// FilterFocused reports whether the filter box has keyboard focus.
func (lp *LayerPanel) FilterFocused() bool {
	return lp != nil && lp.filter != nil && lp.filter.IsFocused()
}

func (lp *LayerPanel) activate(entry LayerEntry) {
	if entry.Name != "" {
		if lp.onToggle != nil {
			lp.onToggle(entry.Name, !entry.Visible)
		}
		lp.Refresh()
		return
	}
	// Header: hide the group if any member is visible, otherwise show it.
	show := true
	for _, g := range lp.layers.Groups() {
		if g.Prefix != entry.Group {
			continue
		}
		for _, name := range g.Names {
			if lp.layers.Visible(name) {
				show = false
				break
			}
		}
		for _, name := range g.Names {
			if lp.onToggle != nil {
				lp.onToggle(name, show)
			}
		}
	}
	lp.Refresh()
}

func layerCounts(s *viewport.Scene) map[string]int {
	counts := make(map[string]int)
	for _, e := range s.Entities() {
		counts[e.Layer]++
	}
	return counts
}

func buildLayerEntries(layers *viewport.Layers, counts map[string]int, query string, rev int) []any {
	match := make(map[string]bool)
	for _, name := range layers.Filter(query) {
		match[name] = true
	}

	var entries []any
	for _, g := range layers.Groups() {
		var rows []any
		total := 0
		nested := len(g.Names) > 1
		for _, name := range g.Names {
			if !match[name] {
				continue
			}
			total += counts[name]
			rows = append(rows, LayerEntry{
				Group:   g.Prefix,
				Name:    name,
				Count:   counts[name],
				Visible: layers.Visible(name),
				Nested:  nested,
				rev:     rev,
			})
		}
		if len(rows) == 0 {
			continue
		}
		if nested {
			entries = append(entries, LayerEntry{Group: g.Prefix, Count: total, rev: rev})
		}
		entries = append(entries, rows...)
	}
	return entries
}

func layerLabel(e any) string {
	entry, ok := e.(LayerEntry)
	if !ok {
		return ""
	}
	if entry.Name == "" {
		return fmt.Sprintf("%s (%d)", strings.ToUpper(entry.Group), entry.Count)
	}
	mark := "[ ]"
	if entry.Visible {
		mark = "[x]"
	}
	indent := ""
	if entry.Nested {
		indent = "  "
	}
	return fmt.Sprintf("%s%s %s (%d)", indent, mark, entry.Name, entry.Count)
}

// buildLayerPanelUI creates the left panel: title, filter box, bulk buttons
// and the layer list.
func buildLayerPanelUI(
	theme *widget.Theme,
	fontFace *text.Face,
	lp *LayerPanel,
	width int,
) *widget.Container {
	panel := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(width, 400),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(panelBackground)),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(8),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Bottom: 8, Left: 8, Right: 8}),
			),
		),
	)

	panel.AddChild(widget.NewLabel(
		widget.LabelOpts.Text("Layers", fontFace, labelColor),
	))
	panel.AddChild(widget.NewLabel(
		widget.LabelOpts.Text("Filter", fontFace, labelColor),
	))

	lp.filter = widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(width-16, 28),
		),
		widget.TextInputOpts.Image(theme.TextInputTheme.Image),
		widget.TextInputOpts.Color(theme.TextInputTheme.Color),
		widget.TextInputOpts.Face(theme.TextInputTheme.Face),
		widget.TextInputOpts.ChangedHandler(func(args *widget.TextInputChangedEventArgs) {
			lp.SetFilter(args.InputText)
		}),
	)
	panel.AddChild(lp.filter)

	buttonsRow := widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(6),
			),
		),
	)
	showBtn := widget.NewButton(
		widget.ButtonOpts.Image(theme.ButtonTheme.Image),
		widget.ButtonOpts.Text("Show all", fontFace, theme.ButtonTheme.TextColor),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if lp.onShowAll != nil {
				lp.onShowAll()
			}
			lp.Refresh()
		}),
	)
	hideBtn := widget.NewButton(
		widget.ButtonOpts.Image(theme.ButtonTheme.Image),
		widget.ButtonOpts.Text("Hide all", fontFace, theme.ButtonTheme.TextColor),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if lp.onHideAll != nil {
				lp.onHideAll()
			}
			lp.Refresh()
		}),
	)
	buttonsRow.AddChild(showBtn)
	buttonsRow.AddChild(hideBtn)
	panel.AddChild(buttonsRow)

	lp.list = widget.NewList(
		widget.ListOpts.Entries([]any{}),
		widget.ListOpts.EntryLabelFunc(layerLabel),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			if lp.suppressEvents {
				return
			}
			entry, ok := args.Entry.(LayerEntry)
			if !ok {
				return
			}
			lp.activate(entry)
		}),
		widget.ListOpts.ContainerOpts(widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(width-16, 480),
		)),
	)
	panel.AddChild(lp.list)
	lp.Refresh()

	return panel
}
