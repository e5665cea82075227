// Package observability provides hooks for metrics, tracing, and logging.
//
// Hooks let a host application observe the render pipeline without the
// pipeline depending on any metrics backend. Defaults are no-ops; register
// custom implementations once at startup.
//
//	func main() {
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    observability.SetCoordinatorHooks(&myCoordinatorHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Render().OnRenderStart(ctx, "plantuml", "svg")
//	observability.Coordinator().OnResultStale(ctx, id, latest)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events for each engine invocation.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, engine, format string)

	// OnRenderComplete reports the result; failureKind is empty on success.
	OnRenderComplete(ctx context.Context, engine, format string, duration time.Duration, failureKind string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Coordinator Hooks
// =============================================================================

// CoordinatorHooks receives request lifecycle events from the coordinator.
type CoordinatorHooks interface {
	// OnRequestIssued fires when a request id is allocated.
	OnRequestIssued(ctx context.Context, id uint64)

	// OnResultApplied fires when a result becomes the visible state.
	OnResultApplied(ctx context.Context, id uint64, ok bool)

	// OnResultStale fires when a result is dropped because a newer request
	// has been issued.
	OnResultStale(ctx context.Context, id, latest uint64)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, string)                         {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, string, time.Duration, string) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopCoordinatorHooks is a no-op implementation of CoordinatorHooks.
type NoopCoordinatorHooks struct{}

func (NoopCoordinatorHooks) OnRequestIssued(context.Context, uint64)       {}
func (NoopCoordinatorHooks) OnResultApplied(context.Context, uint64, bool) {}
func (NoopCoordinatorHooks) OnResultStale(context.Context, uint64, uint64) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	renderHooks      RenderHooks      = NoopRenderHooks{}
	cacheHooks       CacheHooks       = NoopCacheHooks{}
	coordinatorHooks CoordinatorHooks = NoopCoordinatorHooks{}
	hooksMu          sync.RWMutex
)

// SetRenderHooks registers custom render hooks. Nil is ignored.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetCoordinatorHooks registers custom coordinator hooks. Nil is ignored.
func SetCoordinatorHooks(h CoordinatorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		coordinatorHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Coordinator returns the registered coordinator hooks.
func Coordinator() CoordinatorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return coordinatorHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	cacheHooks = NoopCacheHooks{}
	coordinatorHooks = NoopCoordinatorHooks{}
}
