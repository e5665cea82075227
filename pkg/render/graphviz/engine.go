// Package graphviz renders Graphviz DOT source in-process.
//
// It is the second implementation of render.Engine: no subprocess, no Java.
// Parse and layout errors are reported the way a command-line tool would
// report them (exit code 1, message on stderr) so the shared classifier
// produces the same Failure shape for both engines.
package graphviz

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/umlpad/pkg/errors"
	"github.com/matzehuels/umlpad/pkg/render"
)

// Engine renders DOT source with the embedded Graphviz build.
type Engine struct {
	Logger *log.Logger
}

// New creates a Graphviz engine.
func New(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{Logger: logger}
}

// Name implements render.Namer.
func (e *Engine) Name() string { return "graphviz" }

// Invoke implements render.Engine.
func (e *Engine) Invoke(ctx context.Context, source string, format render.Format) (*render.Outcome, error) {
	start := time.Now()

	gvFormat, err := toGraphvizFormat(format)
	if err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSpawnFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(source))
	if err != nil {
		return diagnostic(start, fmt.Sprintf("parse DOT: %v", err)), nil
	}
	if g == nil {
		return diagnostic(start, "parse DOT: no graph in source"), nil
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, ctx.Err(), "render canceled")
		}
		return diagnostic(start, fmt.Sprintf("render: %v", err)), nil
	}

	e.Logger.Debug("graphviz rendered", "format", format, "bytes", buf.Len(), "duration", time.Since(start))
	return &render.Outcome{ExitCode: 0, Stdout: buf.Bytes(), Duration: time.Since(start)}, nil
}

func diagnostic(start time.Time, msg string) *render.Outcome {
	return &render.Outcome{ExitCode: 1, Stderr: msg, Duration: time.Since(start)}
}

func toGraphvizFormat(f render.Format) (graphviz.Format, error) {
	switch f {
	case render.FormatSVG:
		return graphviz.SVG, nil
	case render.FormatPNG:
		return graphviz.PNG, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "graphviz cannot render %q", f)
	}
}

var (
	_ render.Engine = (*Engine)(nil)
	_ render.Namer  = (*Engine)(nil)
)
