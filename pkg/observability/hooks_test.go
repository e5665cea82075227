package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRenderHooks{}
	r.OnRenderStart(ctx, "plantuml", "svg")
	r.OnRenderComplete(ctx, "plantuml", "svg", time.Second, "")

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "render")
	c.OnCacheMiss(ctx, "render")
	c.OnCacheSet(ctx, "render", 1024)

	co := NoopCoordinatorHooks{}
	co.OnRequestIssued(ctx, 1)
	co.OnResultApplied(ctx, 1, true)
	co.OnResultStale(ctx, 1, 2)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Coordinator().(NoopCoordinatorHooks); !ok {
		t.Error("Coordinator() should return NoopCoordinatorHooks by default")
	}

	customRender := &testRenderHooks{}
	SetRenderHooks(customRender)
	if Render() != customRender {
		t.Error("SetRenderHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customCoordinator := &testCoordinatorHooks{}
	SetCoordinatorHooks(customCoordinator)
	if Coordinator() != customCoordinator {
		t.Error("SetCoordinatorHooks should set custom hooks")
	}

	Reset()
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Reset() should restore NoopRenderHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testCoordinatorHooks{}
	SetCoordinatorHooks(custom)
	SetCoordinatorHooks(nil)

	if Coordinator() != custom {
		t.Error("SetCoordinatorHooks(nil) should be ignored")
	}
}

type testRenderHooks struct{ NoopRenderHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testCoordinatorHooks struct{ NoopCoordinatorHooks }

func TestLogHooks(t *testing.T) {
	defer Reset()
	var buf bytes.Buffer
	l := log.New(&buf)
	l.SetLevel(log.DebugLevel)

	NewLogHooks(l).Install()
	ctx := context.Background()
	Render().OnRenderComplete(ctx, "plantuml", "svg", 12*time.Millisecond, "diagram")
	Cache().OnCacheHit(ctx, "render")
	Coordinator().OnResultStale(ctx, 3, 5)

	out := buf.String()
	for _, want := range []string{"render failed", "kind=diagram", "cache hit", "stale result dropped", "latest=5", "pipeline"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
