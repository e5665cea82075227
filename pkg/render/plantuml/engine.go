package plantuml

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/umlpad/pkg/errors"
	"github.com/matzehuels/umlpad/pkg/render"
)

const (
	// DefaultTimeout bounds a single render.
	DefaultTimeout = 30 * time.Second

	// DefaultCharset is passed to PlantUML and used to encode stdin.
	DefaultCharset = "UTF-8"

	// waitDelay bounds how long Wait keeps draining pipes after the process
	// has exited or been killed.
	waitDelay = 2 * time.Second
)

// CommandFunc builds the command for one render. It matches the signature of
// exec.CommandContext, which is the default.
type CommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// Engine renders PlantUML source by running the JAR in a subprocess.
// It is safe for concurrent use; each call spawns its own process.
type Engine struct {
	Paths   Paths
	Timeout time.Duration
	Charset string
	Command CommandFunc
	Logger  *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the per-render timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.Timeout = d }
}

// WithCommand replaces the process launcher.
func WithCommand(fn CommandFunc) Option {
	return func(e *Engine) { e.Command = fn }
}

// WithLogger sets the engine's logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.Logger = l }
}

// New creates an engine for the given artifact paths.
func New(paths Paths, opts ...Option) *Engine {
	e := &Engine{
		Paths:   paths,
		Timeout: DefaultTimeout,
		Charset: DefaultCharset,
		Command: exec.CommandContext,
		Logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements render.Namer.
func (e *Engine) Name() string { return "plantuml" }

// Args returns the launch arguments for the given format.
func (e *Engine) Args(format render.Format) []string {
	charset := e.Charset
	if charset == "" {
		charset = DefaultCharset
	}
	return []string{"-jar", e.Paths.JAR, "-t" + string(format), "-pipe", "-charset", charset}
}

// Check verifies that the JAR and the Java runtime exist.
func (e *Engine) Check() error {
	if !isFile(e.Paths.JAR) {
		return errors.New(errors.ErrCodeToolNotFound, "PlantUML JAR not found at: %s", e.Paths.JAR)
	}
	if !isFile(e.Paths.Java) {
		return errors.New(errors.ErrCodeRuntimeNotFound, "JRE not found at: %s", e.Paths.Java)
	}
	return nil
}

// Invoke implements render.Engine.
func (e *Engine) Invoke(ctx context.Context, source string, format render.Format) (*render.Outcome, error) {
	if err := e.Check(); err != nil {
		return nil, err
	}

	runCtx := ctx
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	launch := e.Command
	if launch == nil {
		launch = exec.CommandContext
	}
	cmd := launch(runCtx, e.Paths.Java, e.Args(format)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdin = strings.NewReader(source)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	out := &render.Outcome{
		ExitCode: -1,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}

	e.Logger.Debug("plantuml exited",
		"format", format,
		"exit", out.ExitCode,
		"stdout_bytes", len(out.Stdout),
		"duration", out.Duration)

	switch {
	case err == nil:
		return out, nil
	case ctx.Err() != nil:
		return nil, errors.Wrap(errors.ErrCodeInternal, ctx.Err(), "render canceled")
	case runCtx.Err() == context.DeadlineExceeded:
		return nil, errors.New(errors.ErrCodeTimeout, "renderer did not exit within %s", e.Timeout)
	case stderrors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil:
		return out, nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		// The tool ran and reported failure; the classifier reads stderr.
		return out, nil
	}
	return nil, errors.Wrap(errors.ErrCodeSpawnFailed, err, "start %s", e.Paths.Java)
}

func isFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

var (
	_ render.Engine = (*Engine)(nil)
	_ render.Namer  = (*Engine)(nil)
)
