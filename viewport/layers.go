package viewport

import (
	"sort"
	"strings"
)

// Layers tracks per-instance layer visibility. Layers that were never seen
// are visible.
type Layers struct {
	visible map[string]bool
}

// LayerGroup collects layers sharing the prefix before the first underscore.
type LayerGroup struct {
	Prefix string
	Names  []string
}

func NewLayers() *Layers {
	return &Layers{visible: make(map[string]bool)}
}

// Visible reports whether entities on layer are drawn and hit-testable.
func (l *Layers) Visible(layer string) bool {
	if l == nil {
		return true
	}
	v, ok := l.visible[layer]
	return !ok || v
}

// SetVisible records a visibility choice and reports whether it changed
// anything.
func (l *Layers) SetVisible(layer string, visible bool) bool {
	if l == nil {
		return false
	}
	prev := l.Visible(layer)
	_, known := l.visible[layer]
	l.visible[layer] = visible
	return prev != visible || !known
}

// Seed marks names as known and visible unless a choice already exists for
// them. It returns the names that were new.
func (l *Layers) Seed(names []string) []string {
	if l == nil {
		return nil
	}
	var added []string
	for _, name := range names {
		if _, ok := l.visible[name]; ok {
			continue
		}
		l.visible[name] = true
		added = append(added, name)
	}
	return added
}

// Names returns every known layer sorted.
func (l *Layers) Names() []string {
	if l == nil {
		return nil
	}
	names := make([]string, 0, len(l.visible))
	for name := range l.visible {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetAll sets every known layer to visible and reports whether any changed.
func (l *Layers) SetAll(visible bool) bool {
	if l == nil {
		return false
	}
	changed := false
	for name, v := range l.visible {
		if v != visible {
			l.visible[name] = visible
			changed = true
		}
	}
	return changed
}

func (l *Layers) ShowAll() bool { return l.SetAll(true) }

func (l *Layers) HideAll() bool { return l.SetAll(false) }

// Groups buckets the known layers by prefix. Names without an underscore
// form their own group.
func (l *Layers) Groups() []LayerGroup {
	var groups []LayerGroup
	index := make(map[string]int)
	for _, name := range l.Names() {
		prefix := name
		if i := strings.IndexByte(name, '_'); i > 0 {
			prefix = name[:i]
		}
		gi, ok := index[prefix]
		if !ok {
			gi = len(groups)
			index[prefix] = gi
			groups = append(groups, LayerGroup{Prefix: prefix})
		}
		groups[gi].Names = append(groups[gi].Names, name)
	}
	return groups
}

// Filter returns the known layers containing query, case-insensitively.
func (l *Layers) Filter(query string) []string {
	names := l.Names()
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return names
	}
	out := names[:0]
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), query) {
			out = append(out, name)
		}
	}
	return out
}
