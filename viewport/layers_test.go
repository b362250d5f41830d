package viewport

import (
	"reflect"
	"testing"
)

func TestLayersUnknownVisible(t *testing.T) {
	l := NewLayers()
	if !l.Visible("NEVER_SEEN") {
		t.Fatalf("unknown layers should be visible")
	}
	var nilLayers *Layers
	if !nilLayers.Visible("X") {
		t.Fatalf("nil layer set should treat everything as visible")
	}
}

func TestLayersSeedKeepsChoices(t *testing.T) {
	l := NewLayers()
	added := l.Seed([]string{"A", "B"})
	if !reflect.DeepEqual(added, []string{"A", "B"}) {
		t.Fatalf("unexpected added %v", added)
	}
	l.SetVisible("A", false)
	added = l.Seed([]string{"A", "C"})
	if !reflect.DeepEqual(added, []string{"C"}) {
		t.Fatalf("unexpected added %v", added)
	}
	if l.Visible("A") {
		t.Fatalf("re-seeding must keep a hidden layer hidden")
	}
	if !l.Visible("C") {
		t.Fatalf("new layer should start visible")
	}
}

func TestLayersSetVisibleReportsChange(t *testing.T) {
	l := NewLayers()
	l.Seed([]string{"A"})
	if l.SetVisible("A", true) {
		t.Fatalf("no change expected")
	}
	if !l.SetVisible("A", false) {
		t.Fatalf("change expected")
	}
	if !l.SetVisible("NEW", true) {
		t.Fatalf("recording a new layer counts as a change")
	}
}

func TestLayersShowHideAll(t *testing.T) {
	l := NewLayers()
	l.Seed([]string{"A", "B", "C"})
	if !l.HideAll() {
		t.Fatalf("HideAll should change visible layers")
	}
	for _, n := range l.Names() {
		if l.Visible(n) {
			t.Fatalf("%s still visible", n)
		}
	}
	if l.HideAll() {
		t.Fatalf("second HideAll should be a no-op")
	}
	l.ShowAll()
	for _, n := range l.Names() {
		if !l.Visible(n) {
			t.Fatalf("%s still hidden", n)
		}
	}
}

func TestLayersGroupsAndFilter(t *testing.T) {
	l := NewLayers()
	l.Seed([]string{"AR_Walls", "AR_Doors", "KR_Slab", "WALLS", "_odd"})

	groups := l.Groups()
	want := []LayerGroup{
		{Prefix: "AR", Names: []string{"AR_Doors", "AR_Walls"}},
		{Prefix: "KR", Names: []string{"KR_Slab"}},
		{Prefix: "WALLS", Names: []string{"WALLS"}},
		{Prefix: "_odd", Names: []string{"_odd"}},
	}
	if !reflect.DeepEqual(groups, want) {
		t.Fatalf("unexpected groups %+v", groups)
	}

	cases := []struct {
		query string
		want  []string
	}{
		{"walls", []string{"AR_Walls", "WALLS"}},
		{"  kr ", []string{"KR_Slab"}},
		{"zzz", []string{}},
	}
	for _, c := range cases {
		got := l.Filter(c.query)
		if len(got) != len(c.want) || (len(got) > 0 && !reflect.DeepEqual(got, c.want)) {
			t.Errorf("Filter(%q) = %v, want %v", c.query, got, c.want)
		}
	}
	if len(l.Filter("")) != 5 {
		t.Fatalf("empty filter should return everything")
	}
}
