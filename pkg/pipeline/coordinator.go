package pipeline

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/umlpad/pkg/observability"
	"github.com/matzehuels/umlpad/pkg/render"
)

// Phase is the coarse state of the coordinator.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseDebouncing Phase = "debouncing"
	PhaseInFlight   Phase = "in_flight"
)

// State is a snapshot of the coordinator.
//
// LastAppliedRequestID never exceeds LatestRequestID, and Current is always
// the result of request LastAppliedRequestID (or empty after a clear).
type State struct {
	LatestRequestID      uint64        `json:"latestRequestId"`
	LastAppliedRequestID uint64        `json:"lastAppliedRequestId"`
	Current              render.Result `json:"-"`
	LastSuccess          render.Result `json:"-"`
	InFlight             bool          `json:"inFlight"`
	Phase                Phase         `json:"phase"`
	Source               string        `json:"-"`
	Format               render.Format `json:"format"`

	// StaleDropped counts results discarded because a newer request had
	// already been issued.
	StaleDropped uint64    `json:"staleDropped"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Coordinator owns the current render of one document.
//
// All state lives in a single event-loop goroutine. Public methods only post
// messages to it, so they never block on a render. Renders run on their own
// goroutines and may overlap; a result is applied only if its request id is
// still the latest issued.
type Coordinator struct {
	renderer Renderer
	debounce time.Duration
	logger   *log.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	msgs    chan message
	stopped chan struct{}
	once    sync.Once

	published atomic.Pointer[State]

	subsMu sync.Mutex
	subs   map[int]chan State
	nextID int

	// Owned by the loop goroutine.
	state    State
	timer    *time.Timer
	timerGen uint64
}

type message interface{ isMessage() }

type (
	textChanged   struct{ text string }
	formatChanged struct{ format render.Format }
	renderNow     struct{}
	timerFired    struct{ gen uint64 }
	resultArrived struct {
		id     uint64
		result render.Result
	}
)

func (textChanged) isMessage()   {}
func (formatChanged) isMessage() {}
func (renderNow) isMessage()     {}
func (timerFired) isMessage()    {}
func (resultArrived) isMessage() {}

// NewCoordinator starts a coordinator. Options are defaulted but not
// validated; call [Options.Validate] on user-supplied values first.
func NewCoordinator(renderer Renderer, opts Options) *Coordinator {
	opts.SetDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		renderer: renderer,
		debounce: opts.Debounce,
		logger:   opts.Logger,
		ctx:      ctx,
		cancel:   cancel,
		msgs:     make(chan message, 64),
		stopped:  make(chan struct{}),
		subs:     make(map[int]chan State),
		state:    State{Format: opts.Format, Phase: PhaseIdle},
	}
	c.publish()
	go c.run()
	return c
}

// =============================================================================
// Public API
// =============================================================================

// SetText replaces the document text and restarts the debounce window.
// Blank text clears the preview immediately and supersedes any in-flight
// render.
func (c *Coordinator) SetText(text string) { c.send(textChanged{text: text}) }

// SetFormat changes the output format and schedules a re-render.
func (c *Coordinator) SetFormat(format render.Format) { c.send(formatChanged{format: format}) }

// RenderNow cancels any pending debounce and issues a request immediately.
func (c *Coordinator) RenderNow() { c.send(renderNow{}) }

// Snapshot returns the most recently published state.
func (c *Coordinator) Snapshot() State { return *c.published.Load() }

// Subscribe returns a channel of state updates and a cancel function.
//
// The channel holds at most one pending state; a slow reader sees the latest
// state, not every intermediate one. The channel is closed when the
// coordinator closes or cancel is called.
func (c *Coordinator) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	c.subsMu.Lock()
	if c.subs == nil {
		c.subsMu.Unlock()
		ch <- c.Snapshot()
		close(ch)
		return ch, func() {}
	}
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	// Registered first, so a concurrent publish either lands after this
	// offer or replaces it.
	offer(ch, c.Snapshot())
	c.subsMu.Unlock()

	return ch, func() {
		c.subsMu.Lock()
		defer c.subsMu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
}

// Close stops the coordinator. In-flight renders are cancelled and their
// results discarded. Close is idempotent.
func (c *Coordinator) Close() error {
	c.once.Do(func() {
		c.cancel()
		<-c.stopped
	})
	return nil
}

func (c *Coordinator) send(m message) {
	select {
	case c.msgs <- m:
	case <-c.ctx.Done():
	}
}

// =============================================================================
// Event Loop
// =============================================================================

func (c *Coordinator) run() {
	defer close(c.stopped)
	for {
		select {
		case <-c.ctx.Done():
			c.stopTimer()
			c.closeSubscribers()
			return
		case m := <-c.msgs:
			c.handle(m)
			c.publish()
		}
	}
}

func (c *Coordinator) handle(m message) {
	switch m := m.(type) {
	case textChanged:
		c.state.Source = m.text
		if isBlank(m.text) {
			c.clear()
			return
		}
		c.restartTimer()

	case formatChanged:
		if m.format == c.state.Format {
			return
		}
		c.state.Format = m.format
		if !isBlank(c.state.Source) {
			c.restartTimer()
		}

	case renderNow:
		c.stopTimer()
		if isBlank(c.state.Source) {
			return
		}
		c.issue()

	case timerFired:
		if m.gen != c.timerGen || c.timer == nil {
			return
		}
		c.timer = nil
		c.issue()

	case resultArrived:
		c.apply(m.id, m.result)
	}
}

// issue allocates the next request id and starts a render for the current
// text and format.
func (c *Coordinator) issue() {
	c.state.LatestRequestID++
	req := Request{
		ID:     c.state.LatestRequestID,
		Source: c.state.Source,
		Format: c.state.Format,
	}
	c.state.InFlight = true

	observability.Coordinator().OnRequestIssued(c.ctx, req.ID)
	c.logger.Debug("render requested", "id", req.ID, "format", req.Format, "bytes", len(req.Source))

	go func() {
		result := c.renderer.Render(c.ctx, req)
		select {
		case c.msgs <- resultArrived{id: req.ID, result: result}:
		case <-c.ctx.Done():
		}
	}()
}

func (c *Coordinator) apply(id uint64, result render.Result) {
	if id != c.state.LatestRequestID {
		c.state.StaleDropped++
		observability.Coordinator().OnResultStale(c.ctx, id, c.state.LatestRequestID)
		c.logger.Debug("stale result dropped", "id", id, "latest", c.state.LatestRequestID)
		return
	}

	c.state.Current = result
	c.state.LastAppliedRequestID = id
	c.state.InFlight = false
	if result.OK() {
		c.state.LastSuccess = result
	}

	observability.Coordinator().OnResultApplied(c.ctx, id, result.OK())
	if result.Failure != nil {
		c.logger.Debug("result applied", "id", id, "ok", false, "kind", result.Failure.Kind)
	} else {
		c.logger.Debug("result applied", "id", id, "ok", true, "bytes", len(result.Image))
	}
}

// clear handles blank text: it consumes a request id so that every in-flight
// render becomes stale, and resets the preview to empty. The last success
// goes too; nothing may be shown for a blank document.
func (c *Coordinator) clear() {
	c.stopTimer()
	c.state.LatestRequestID++
	c.state.LastAppliedRequestID = c.state.LatestRequestID
	c.state.Current = render.Result{Format: c.state.Format}
	c.state.LastSuccess = render.Result{}
	c.state.InFlight = false
	c.logger.Debug("preview cleared", "id", c.state.LatestRequestID)
}

func (c *Coordinator) restartTimer() {
	c.stopTimer()
	c.timerGen++
	gen := c.timerGen
	c.timer = time.AfterFunc(c.debounce, func() { c.send(timerFired{gen: gen}) })
}

func (c *Coordinator) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// =============================================================================
// Publishing
// =============================================================================

func (c *Coordinator) publish() {
	switch {
	case c.timer != nil:
		c.state.Phase = PhaseDebouncing
	case c.state.InFlight:
		c.state.Phase = PhaseInFlight
	default:
		c.state.Phase = PhaseIdle
	}
	c.state.UpdatedAt = time.Now()

	st := c.state
	c.published.Store(&st)

	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for _, ch := range c.subs {
		offer(ch, st)
	}
}

// offer replaces any pending state in ch with st.
func offer(ch chan State, st State) {
	select {
	case ch <- st:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- st:
	default:
	}
}

func (c *Coordinator) closeSubscribers() {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	c.subs = nil
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
