package scene

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"github.com/milk9111/planview/geometry"
)

//go:embed samples/*
var SamplesFS embed.FS

// DefaultSample is shown when the viewer starts without a scene file.
const DefaultSample = "office.json"

// LoadFile reads and decodes a scene file from disk.
func LoadFile(filename string) ([]geometry.Entity, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", filename, err)
	}
	entities, err := Decode(data, FormatFromPath(filename))
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", filename, err)
	}
	return entities, nil
}

// Load reads name from disk, falling back to the embedded samples.
func Load(name string) ([]geometry.Entity, error) {
	if _, err := os.Stat(name); err == nil {
		return LoadFile(name)
	}
	data, err := fs.ReadFile(SamplesFS, path.Join("samples", path.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", name, err)
	}
	entities, err := Decode(data, FormatFromPath(name))
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", name, err)
	}
	return entities, nil
}

// Samples lists the embedded sample names.
func Samples() []string {
	entries, err := fs.ReadDir(SamplesFS, "samples")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}
