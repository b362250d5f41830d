package infofmt

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// Load compiles name from disk, or from the bundled scripts when no such
// file exists. Bundled scripts may be named with or without the .tengo
// extension.
func Load(name string) (*Script, error) {
	if name == "" {
		return nil, fmt.Errorf("infofmt: empty script name")
	}
	if _, err := os.Stat(name); err == nil {
		return LoadScript(name)
	}
	clean := path.Base(filepath.ToSlash(name))
	if !strings.HasSuffix(clean, ".tengo") {
		clean += ".tengo"
	}
	src, err := ScriptsFS.ReadFile("scripts/" + clean)
	if err != nil {
		return nil, fmt.Errorf("infofmt: load %s: %w", name, err)
	}
	return CompileScript(clean, src)
}

// Bundled lists the embedded script names.
func Bundled() []string {
	entries, err := fs.ReadDir(ScriptsFS, "scripts")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}
