package cli

import (
	"bytes"
	"testing"

	"github.com/matzehuels/umlpad/pkg/cache"
	"github.com/matzehuels/umlpad/pkg/config"
	"github.com/matzehuels/umlpad/pkg/render"
	"github.com/matzehuels/umlpad/pkg/render/graphviz"
	"github.com/matzehuels/umlpad/pkg/render/plantuml"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	want := []string{"render", "watch", "serve", "new", "templates", "cache", "config", "doctor", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input  string
		format render.Format
		want   string
	}{
		{"diagram.puml", render.FormatSVG, "diagram.svg"},
		{"dir/seq.plantuml", render.FormatPNG, "dir/seq.png"},
		{"graph.dot", render.FormatSVG, "graph.svg"},
		{"noext", render.FormatPNG, "noext.png"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.input, tt.format); got != tt.want {
			t.Errorf("outputPath(%q, %s) = %q, want %q", tt.input, tt.format, got, tt.want)
		}
	}
}

func TestEngineFlagsApply(t *testing.T) {
	tests := []struct {
		name       string
		flags      engineFlags
		input      string
		wantEngine string
		wantFormat string
		wantCache  string
		wantErr    bool
	}{
		{"defaults", engineFlags{}, "a.puml", config.EnginePlantUML, "svg", cache.BackendFile, false},
		{"dot selects graphviz", engineFlags{}, "a.dot", config.EngineGraphviz, "svg", cache.BackendFile, false},
		{"gv selects graphviz", engineFlags{}, "a.GV", config.EngineGraphviz, "svg", cache.BackendFile, false},
		{"explicit engine wins", engineFlags{engine: "plantuml"}, "a.dot", config.EnginePlantUML, "svg", cache.BackendFile, false},
		{"format flag", engineFlags{format: "png"}, "a.puml", config.EnginePlantUML, "png", cache.BackendFile, false},
		{"no cache", engineFlags{noCache: true}, "a.puml", config.EnginePlantUML, "svg", cache.BackendNone, false},
		{"bad format", engineFlags{format: "jpg"}, "a.puml", "", "", "", true},
		{"bad engine", engineFlags{engine: "mermaid"}, "a.puml", "", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			err := tt.flags.apply(cfg, tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("apply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if cfg.Render.Engine != tt.wantEngine || cfg.Render.Format != tt.wantFormat || cfg.Cache.Backend != tt.wantCache {
				t.Errorf("cfg = %+v / %q, want %s %s %s", cfg.Render, cfg.Cache.Backend, tt.wantEngine, tt.wantFormat, tt.wantCache)
			}
		})
	}
}

func TestNewEngine(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)

	cfg := config.Default()
	cfg.PlantUML.JAR = "/opt/plantuml.jar"
	if e, ok := c.newEngine(cfg).(*plantuml.Engine); !ok {
		t.Errorf("newEngine() = %T, want *plantuml.Engine", c.newEngine(cfg))
	} else {
		if e.Paths.JAR != "/opt/plantuml.jar" {
			t.Errorf("JAR = %q", e.Paths.JAR)
		}
		if e.Timeout != config.DefaultTimeout {
			t.Errorf("Timeout = %s", e.Timeout)
		}
	}

	cfg.Render.Engine = config.EngineGraphviz
	if _, ok := c.newEngine(cfg).(*graphviz.Engine); !ok {
		t.Errorf("newEngine() = %T, want *graphviz.Engine", c.newEngine(cfg))
	}
}
