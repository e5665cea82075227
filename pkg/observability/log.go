package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks traces every pipeline event to a logger at debug level. The CLI
// installs it when debug logging is on.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks creates hooks that log to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l.WithPrefix("pipeline")}
}

// Install registers h for render, cache and coordinator events.
func (h *LogHooks) Install() {
	SetRenderHooks(h)
	SetCacheHooks(h)
	SetCoordinatorHooks(h)
}

func (h *LogHooks) OnRenderStart(_ context.Context, engine, format string) {
	h.Logger.Debug("render start", "engine", engine, "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, engine, format string, d time.Duration, failureKind string) {
	if failureKind == "" {
		h.Logger.Debug("render done", "engine", engine, "format", format, "took", d.Round(time.Millisecond))
		return
	}
	h.Logger.Debug("render failed", "engine", engine, "format", format, "took", d.Round(time.Millisecond), "kind", failureKind)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequestIssued(_ context.Context, id uint64) {
	h.Logger.Debug("request issued", "id", id)
}

func (h *LogHooks) OnResultApplied(_ context.Context, id uint64, ok bool) {
	h.Logger.Debug("result applied", "id", id, "ok", ok)
}

func (h *LogHooks) OnResultStale(_ context.Context, id, latest uint64) {
	h.Logger.Debug("stale result dropped", "id", id, "latest", latest)
}

var (
	_ RenderHooks      = (*LogHooks)(nil)
	_ CacheHooks       = (*LogHooks)(nil)
	_ CoordinatorHooks = (*LogHooks)(nil)
)
