// Package pipeline turns editor text into rendered images.
//
// # Architecture
//
// The pipeline has two layers:
//
//  1. [Runner]: one request, start to finish. It short-circuits empty
//     source, consults the cache, invokes the [render.Engine], classifies the
//     outcome and caches successes. Runners are stateless apart from the
//     cache and are safe for concurrent use.
//  2. [Coordinator]: the single logical "current render" of a document. It
//     debounces text changes, allocates monotonically increasing request ids,
//     lets renders overlap, and applies only the result of the most recently
//     issued request. Older results are dropped as stale.
//
// # Usage
//
//	runner := pipeline.NewRunner(engine, cache, keyer, logger)
//	coord := pipeline.NewCoordinator(runner, pipeline.Options{Logger: logger})
//	defer coord.Close()
//
//	updates, cancel := coord.Subscribe()
//	defer cancel()
//
//	coord.SetText(source)        // debounced
//	coord.RenderNow()            // explicit, skips the debounce
//	for st := range updates {
//	    if st.Current.OK() { show(st.Current.Image) }
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/umlpad/pkg/errors"
	"github.com/matzehuels/umlpad/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultDebounce is how long text must be quiet before a render fires.
	DefaultDebounce = 300 * time.Millisecond

	// MinDebounce and MaxDebounce bound the configurable debounce. Shorter
	// windows saturate the engine while typing; longer ones feel unresponsive.
	MinDebounce = 200 * time.Millisecond
	MaxDebounce = 800 * time.Millisecond
)

// =============================================================================
// Request
// =============================================================================

// Request is one render request. It is immutable once created.
type Request struct {
	ID     uint64
	Source string
	Format render.Format
}

// =============================================================================
// Options - Coordinator Configuration
// =============================================================================

// Options configures a Coordinator.
type Options struct {
	// Debounce is the quiet period after the last text change.
	Debounce time.Duration

	// Format is the initial output format.
	Format render.Format

	Logger *log.Logger
}

// SetDefaults fills zero fields.
func (o *Options) SetDefaults() {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.Format == "" {
		o.Format = render.DefaultFormat
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Validate applies defaults and checks user-facing limits.
func (o *Options) Validate() error {
	o.SetDefaults()
	if o.Debounce < MinDebounce || o.Debounce > MaxDebounce {
		return errors.New(errors.ErrCodeInvalidConfig, "debounce %s out of range [%s, %s]", o.Debounce, MinDebounce, MaxDebounce)
	}
	if !o.Format.Valid() {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", o.Format)
	}
	return nil
}
