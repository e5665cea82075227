package render

import (
	"context"
	"time"
)

// Engine renders diagram source into an image.
//
// Invoke runs the engine once. A completed run is reported as an [Outcome]
// regardless of its exit status; the returned error is reserved for runs
// that never completed (missing dependency, spawn failure, timeout) and
// should carry an errors.Code so [Classify] can tell them apart.
type Engine interface {
	Invoke(ctx context.Context, source string, format Format) (*Outcome, error)
}

// Checker is implemented by engines with preconditions, such as tools that
// must exist on disk. A failed check means no render can succeed, cached or
// not.
type Checker interface {
	Check() error
}

// Namer is implemented by engines that expose a stable name. The name is part
// of render cache keys so two engines never share entries.
type Namer interface {
	Name() string
}

// EngineName returns the engine's name, or "engine" when it has none.
func EngineName(e Engine) string {
	if n, ok := e.(Namer); ok {
		return n.Name()
	}
	return "engine"
}

// Outcome is the raw output of one engine run.
type Outcome struct {
	// ExitCode is the process exit status; 0 is the clean sentinel.
	ExitCode int

	// Stdout holds the image bytes. It is never decoded as text.
	Stdout []byte

	// Stderr holds the decoded diagnostic text.
	Stderr string

	// Duration is the wall time of the run.
	Duration time.Duration
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, source string, format Format) (*Outcome, error)

// Invoke calls f.
func (f EngineFunc) Invoke(ctx context.Context, source string, format Format) (*Outcome, error) {
	return f(ctx, source, format)
}
