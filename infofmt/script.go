package infofmt

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/planview/geometry"
)

// formatDispatch calls the script's info function with the hovered entity.
const formatDispatch = `
__out := info(__entity)
`

// Script formats entities with a tengo script that defines
//
//	info := func(e) { return e.type + " " + e.id }
//
// The entity map carries id, layer, kind, type, material, thickness and
// text, the Default rendering. A script error falls back to Default.
type Script struct {
	mu       sync.Mutex
	name     string
	compiled *tengo.Compiled
}

// LoadScript reads and compiles a script file.
func LoadScript(filename string) (*Script, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("infofmt: load %s: %w", filename, err)
	}
	return CompileScript(filename, src)
}

// CompileScript compiles src. name is used in log and error messages.
func CompileScript(name string, src []byte) (*Script, error) {
	script := tengo.NewScript(append(append([]byte{}, src...), formatDispatch...))
	_ = script.Add("__entity", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("infofmt: compile %s: %w", name, err)
	}
	return &Script{name: name, compiled: compiled}, nil
}

// Format runs the script for e.
func (s *Script) Format(e *geometry.Entity) string {
	if s == nil || s.compiled == nil {
		return Default{}.Format(e)
	}
	out, err := s.run(e)
	if err != nil {
		log.Printf("infofmt: %s: entity %s: %v", s.name, describe(e), err)
		return Default{}.Format(e)
	}
	return out
}

func (s *Script) run(e *geometry.Entity) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.compiled.Set("__entity", Fields(e)); err != nil {
		return "", err
	}
	if err := s.compiled.Run(); err != nil {
		return "", err
	}
	out := s.compiled.Get("__out")
	if out.IsUndefined() {
		return "", fmt.Errorf("info returned nothing")
	}
	return out.String(), nil
}
