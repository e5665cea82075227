// Package render defines the contract between umlpad and its rendering engines.
//
// # Overview
//
// Rendering is delegated to an [Engine]: an opaque capability that turns
// diagram source into image bytes or diagnostics. The package provides:
//
//   - [Format]: the two supported output formats (svg, png)
//   - [Engine]: the one-method strategy implemented by the [plantuml]
//     (subprocess) and [graphviz] (in-process) subpackages
//   - [Outcome]: the raw output of one engine invocation
//   - [Classify]: interprets an outcome into a [Result]
//   - [Result] and [Response]: the structured result and its JSON shape
//
// # Usage
//
//	engine := plantuml.New(plantuml.Locate(resourcesDir))
//	out, err := engine.Invoke(ctx, source, render.FormatSVG)
//	result := render.Classify(render.FormatSVG, out, err)
//	if !result.OK() {
//	    fmt.Println(result.Failure.Line, result.Failure.ShortMessage)
//	}
//
// Most callers go through [pipeline.Runner], which adds caching and
// observability around the same two steps.
//
// [plantuml]: github.com/matzehuels/umlpad/pkg/render/plantuml
// [graphviz]: github.com/matzehuels/umlpad/pkg/render/graphviz
// [pipeline.Runner]: github.com/matzehuels/umlpad/pkg/pipeline#Runner
package render
