package automation

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

//go:embed scenarios/*.yaml
var builtinFS embed.FS

var (
	builtinOnce sync.Once
	builtins    map[string]*Scenario
	builtinErr  error
)

func loadBuiltins() {
	entries, err := builtinFS.ReadDir("scenarios")
	if err != nil {
		builtinErr = err
		return
	}
	builtins = make(map[string]*Scenario, len(entries))
	for _, e := range entries {
		data, err := builtinFS.ReadFile(path.Join("scenarios", e.Name()))
		if err != nil {
			builtinErr = err
			return
		}
		s, err := ParseScenario(data)
		if err != nil {
			builtinErr = fmt.Errorf("builtin %s: %w", e.Name(), err)
			return
		}
		builtins[strings.TrimSuffix(e.Name(), ".yaml")] = s
	}
}

// Builtin returns a copy of a scenario shipped with the binary. A broken
// embedded scenario is a build defect and panics.
func Builtin(name string) (*Scenario, bool) {
	builtinOnce.Do(loadBuiltins)
	if builtinErr != nil {
		panic(builtinErr)
	}
	s, ok := builtins[name]
	if !ok {
		return nil, false
	}
	c := *s
	c.Phases = append(c.Phases[:0:0], s.Phases...)
	return &c, true
}

func ListBuiltins() []string {
	builtinOnce.Do(loadBuiltins)
	if builtinErr != nil {
		panic(builtinErr)
	}
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve treats arg as a builtin name first and a file path otherwise.
func Resolve(arg string) (*Scenario, error) {
	if s, ok := Builtin(arg); ok {
		return s, nil
	}
	return LoadScenario(arg)
}
