// Package server exposes the render pipeline over HTTP for editor front-ends.
//
// Two styles of rendering are offered. POST /api/render is stateless: one
// request, one result. The /api/source, /api/format, /api/render-now and
// /api/state endpoints drive a shared Coordinator, so an editor can send
// every keystroke and poll (or re-fetch /api/preview) for the latest result.
package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/umlpad/pkg/buildinfo"
	"github.com/matzehuels/umlpad/pkg/pipeline"
	"github.com/matzehuels/umlpad/pkg/render"
	"github.com/matzehuels/umlpad/pkg/session"
)

// Coordinator is the subset of pipeline.Coordinator the server drives.
type Coordinator interface {
	SetText(text string)
	SetFormat(format render.Format)
	RenderNow()
	Snapshot() pipeline.State
}

// Options configures a Server.
type Options struct {
	Renderer    pipeline.Renderer
	Coordinator Coordinator
	Sessions    session.Store // optional
	Session     *session.Session
	Engine      string
	Logger      *log.Logger
}

// Server holds the HTTP handlers.
type Server struct {
	renderer pipeline.Renderer
	coord    Coordinator
	sessions session.Store
	engine   string
	logger   *log.Logger

	nextID atomic.Uint64

	mu   sync.Mutex
	sess *session.Session
}

// New creates a server.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Server{
		renderer: opts.Renderer,
		coord:    opts.Coordinator,
		sessions: opts.Sessions,
		sess:     opts.Session,
		engine:   opts.Engine,
		logger:   opts.Logger,
	}
}

// Handler returns the HTTP router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.accessLog)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Get("/templates", s.handleTemplates)
		r.Get("/templates/{key}", s.handleTemplate)

		r.Post("/render", s.handleRender)

		r.Put("/source", s.handleSetSource)
		r.Put("/format", s.handleSetFormat)
		r.Post("/render-now", s.handleRenderNow)
		r.Get("/state", s.handleState)
		r.Get("/preview", s.handlePreview)

		r.Post("/open", s.handleOpen)
		r.Post("/save", s.handleSave)
		r.Post("/export", s.handleExport)
	})
	return r
}

// currentPath returns the path of the open document, if any.
func (s *Server) currentPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return ""
	}
	return s.sess.Path
}

// remember records path as the open document and persists the session.
func (s *Server) remember(ctx context.Context, path string) {
	s.mu.Lock()
	if s.sess == nil {
		s.sess = session.New(path, s.coord.Snapshot().Format, s.engine)
	} else {
		s.sess.Touch(path)
		s.sess.Format = s.coord.Snapshot().Format
	}
	sess := *s.sess
	s.mu.Unlock()

	if s.sessions == nil {
		return
	}
	if err := s.sessions.Save(ctx, &sess); err != nil {
		loggerFrom(ctx, s.logger).Warn("session save failed", "err", err)
	}
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey int

const loggerKey ctxKey = 0

// requestID tags each request with a uuid, echoed in X-Request-ID and
// attached to the request logger.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		w.Header().Set("Server", buildinfo.UserAgent())
		ctx := context.WithValue(r.Context(), loggerKey, s.logger.With("req", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		loggerFrom(r.Context(), s.logger).Debug("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

func loggerFrom(ctx context.Context, fallback *log.Logger) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return fallback
}

// =============================================================================
// Lifecycle
// =============================================================================

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
