package pipeline

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/umlpad/pkg/cache"
	"github.com/matzehuels/umlpad/pkg/observability"
	"github.com/matzehuels/umlpad/pkg/render"
)

// keyTypeRender labels render entries in cache hooks.
const keyTypeRender = "render"

// Renderer produces the result for one request.
type Renderer interface {
	Render(ctx context.Context, req Request) render.Result
}

// Runner executes single render requests with caching.
//
// The Runner holds no per-request state; several goroutines may call Render
// at once, each getting its own engine invocation.
type Runner struct {
	Engine render.Engine
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached images.
	TTL time.Duration
}

// NewRunner creates a runner.
// If keyer is nil, an unprefixed RenderKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(engine render.Engine, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewKeyer("")
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		Engine: engine,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLRender,
	}
}

// Render implements Renderer.
func (r *Runner) Render(ctx context.Context, req Request) render.Result {
	result, _ := r.RenderWithCacheInfo(ctx, req)
	return result
}

// RenderWithCacheInfo renders req and reports whether the image came from
// the cache. Blank source yields the empty result without touching the
// engine or the cache. Engine preconditions are checked before the cache, so
// a missing tool is reported even for source rendered earlier.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, req Request) (render.Result, bool) {
	if strings.TrimSpace(req.Source) == "" {
		return render.Result{Format: req.Format}, false
	}

	engine := render.EngineName(r.Engine)
	if c, ok := r.Engine.(render.Checker); ok {
		if err := c.Check(); err != nil {
			result := render.Classify(req.Format, nil, err)
			r.Logger.Debug("render precondition failed", "id", req.ID, "engine", engine, "err", err)
			return result, false
		}
	}
	key := r.Keyer.RenderKey(engine, string(req.Format), cache.Digest(req.Source))

	data, hit, err := r.Cache.Get(ctx, key)
	switch {
	case err != nil:
		r.Logger.Warn("cache read failed", "err", err)
	case hit:
		observability.Cache().OnCacheHit(ctx, keyTypeRender)
		r.Logger.Debug("render cache hit", "id", req.ID, "format", req.Format, "bytes", len(data))
		return render.Succeeded(req.Format, data), true
	default:
		observability.Cache().OnCacheMiss(ctx, keyTypeRender)
	}

	observability.Render().OnRenderStart(ctx, engine, string(req.Format))
	start := time.Now()

	out, err := r.Engine.Invoke(ctx, req.Source, req.Format)
	result := render.Classify(req.Format, out, err)
	elapsed := time.Since(start)

	var kind string
	if !result.OK() {
		kind = string(result.Failure.Kind)
	}
	observability.Render().OnRenderComplete(ctx, engine, string(req.Format), elapsed, kind)

	if !result.OK() {
		r.Logger.Debug("render failed",
			"id", req.ID,
			"engine", engine,
			"kind", kind,
			"line", result.Failure.Line,
			"message", result.Failure.ShortMessage,
			"duration", elapsed)
		return result, false
	}

	r.Logger.Debug("rendered",
		"id", req.ID,
		"engine", engine,
		"format", req.Format,
		"bytes", len(result.Image),
		"duration", elapsed)

	if err := r.Cache.Set(ctx, key, result.Image, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, keyTypeRender, len(result.Image))
	}
	return result, false
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

var _ Renderer = (*Runner)(nil)
