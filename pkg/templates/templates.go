// Package templates provides embedded starter diagrams.
//
// The diagram sources are embedded into the binary using go:embed, so `umlpad
// new` works without any files on disk.
package templates

import (
	"embed"
	"path"
	"sort"
	"sync"
)

//go:embed diagrams/*.puml diagrams/*.dot
var diagrams embed.FS

// DefaultKey is the template used when none is requested.
const DefaultKey = "sequence"

// Template is a named starter diagram.
type Template struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Engine   string `json:"engine"`
	Code     string `json:"code"`
}

// Filename suggests a file name for a document created from t.
func (t Template) Filename() string {
	if t.Engine == "graphviz" {
		return t.Key + ".dot"
	}
	return t.Key + ".puml"
}

// catalog lists templates in display order.
var catalog = []struct {
	key, name, category, engine, file string
}{
	{"sequence", "Sequence Diagram", "Sequence", "plantuml", "sequence.puml"},
	{"class", "Class Diagram", "Class", "plantuml", "class.puml"},
	{"activity", "Activity Diagram", "Activity", "plantuml", "activity.puml"},
	{"usecase", "Use Case Diagram", "Use Case", "plantuml", "usecase.puml"},
	{"component", "Component Diagram", "Component", "plantuml", "component.puml"},
	{"state", "State Diagram", "State", "plantuml", "state.puml"},
	{"graph", "Directed Graph", "Graphviz", "graphviz", "graph.dot"},
}

var (
	all     []Template
	byKey   map[string]Template
	loadOne sync.Once
)

func load() {
	loadOne.Do(func() {
		byKey = make(map[string]Template, len(catalog))
		for _, c := range catalog {
			data, err := diagrams.ReadFile(path.Join("diagrams", c.file))
			if err != nil {
				panic("templates: missing embedded diagram " + c.file)
			}
			t := Template{Key: c.key, Name: c.name, Category: c.category, Engine: c.engine, Code: string(data)}
			all = append(all, t)
			byKey[t.Key] = t
		}
	})
}

// All returns every template in display order.
func All() []Template {
	load()
	return append([]Template(nil), all...)
}

// Get returns the template with the given key.
func Get(key string) (Template, bool) {
	load()
	t, ok := byKey[key]
	return t, ok
}

// Default returns the sequence diagram template.
func Default() Template {
	t, _ := Get(DefaultKey)
	return t
}

// Keys returns the sorted template keys.
func Keys() []string {
	load()
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
