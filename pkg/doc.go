// Package pkg provides the libraries behind umlpad, a live diagram renderer.
//
// # Overview
//
// umlpad turns PlantUML (or Graphviz DOT) source into SVG or PNG while the
// user types. The pkg directory is organized by concern:
//
//  1. [render] - Formats, results, and failure classification
//  2. [render/plantuml] - The PlantUML engine (JAR in a subprocess)
//  3. [render/graphviz] - The in-process DOT engine
//  4. [pipeline] - Cached runner and the latest-wins render coordinator
//  5. [cache] - File, Redis, and null render caches
//  6. [io] - Open, save, and export through a path chooser
//  7. [config] - TOML/YAML configuration with environment overrides
//  8. [session] - The remembered document between runs
//  9. [templates] - Starter diagrams for new documents
//
// # Architecture
//
// Every edit flows through the coordinator:
//
//	SetText / SetFormat
//	         ↓
//	    debounce timer (restarted on each change)
//	         ↓
//	    Runner (cache lookup, engine invoke, classify)
//	         ↓
//	    result applied only if it belongs to the latest request
//
// # Quick Start
//
//	engine := plantuml.New(plantuml.Locate(plantuml.DefaultResourcesDir()))
//	runner := pipeline.NewRunner(engine, nil, nil, logger)
//	coord := pipeline.NewCoordinator(runner, pipeline.Options{})
//	defer coord.Close()
//
//	updates, cancel := coord.Subscribe()
//	defer cancel()
//	coord.SetText("@startuml\nA -> B\n@enduml")
//	st := <-updates
//
// [render]: https://pkg.go.dev/github.com/matzehuels/umlpad/pkg/render
// [render/plantuml]: https://pkg.go.dev/github.com/matzehuels/umlpad/pkg/render/plantuml
// [render/graphviz]: https://pkg.go.dev/github.com/matzehuels/umlpad/pkg/render/graphviz
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/umlpad/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/umlpad/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/umlpad/pkg/io
// [config]: https://pkg.go.dev/github.com/matzehuels/umlpad/pkg/config
// [session]: https://pkg.go.dev/github.com/matzehuels/umlpad/pkg/session
// [templates]: https://pkg.go.dev/github.com/matzehuels/umlpad/pkg/templates
package pkg
