package templates

import (
	"strings"
	"testing"
)

func TestAll(t *testing.T) {
	all := All()
	if len(all) != 7 {
		t.Fatalf("len(All()) = %d, want 7", len(all))
	}
	for _, tmpl := range all {
		if tmpl.Code == "" || tmpl.Name == "" || tmpl.Category == "" {
			t.Errorf("template %q incomplete: %+v", tmpl.Key, tmpl)
		}
		switch tmpl.Engine {
		case "plantuml":
			if !strings.HasPrefix(tmpl.Code, "@startuml") || !strings.Contains(tmpl.Code, "@enduml") {
				t.Errorf("template %q is not delimited PlantUML", tmpl.Key)
			}
		case "graphviz":
			if !strings.HasPrefix(tmpl.Code, "digraph") {
				t.Errorf("template %q is not DOT", tmpl.Key)
			}
		default:
			t.Errorf("template %q has unknown engine %q", tmpl.Key, tmpl.Engine)
		}
	}

	// Callers may modify the returned slice.
	all[0].Code = ""
	if All()[0].Code == "" {
		t.Error("All() returned shared backing array")
	}
}

func TestGet(t *testing.T) {
	for _, key := range []string{"sequence", "class", "activity", "usecase", "component", "state", "graph"} {
		if _, ok := Get(key); !ok {
			t.Errorf("Get(%q) not found", key)
		}
	}
	if _, ok := Get("gantt"); ok {
		t.Error("Get(gantt) found, want missing")
	}
}

func TestDefault(t *testing.T) {
	d := Default()
	if d.Key != "sequence" {
		t.Errorf("Default().Key = %q", d.Key)
	}
	if !strings.Contains(d.Code, "Alice -> Bob: Authentication Request") {
		t.Errorf("Default().Code = %q", d.Code)
	}
	if d.Filename() != "sequence.puml" {
		t.Errorf("Filename() = %q", d.Filename())
	}
}

func TestKeysSorted(t *testing.T) {
	keys := Keys()
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Fatalf("Keys() not sorted: %v", keys)
		}
	}
}
