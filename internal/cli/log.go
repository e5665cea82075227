// Package cli implements the umlpad command-line interface.
//
// # Commands
//
// The main commands are:
//   - render: One-shot render of a diagram file to SVG or PNG
//   - watch: Re-render a file on every change, with a live terminal view
//   - serve: HTTP API around the render pipeline for editor front-ends
//   - new, templates: Start a document from a built-in template
//   - cache, config: Inspect and manage the render cache and configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so that long-running commands can attach
// them to the render pipeline.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/umlpad/pkg/config"
)

// newLogger creates the CLI logger. Timestamps look like "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// configureLogger applies the [log] config section. The file's level only
// takes effect while the logger is still at info, so --verbose wins.
// Unknown levels are ignored; formats are checked by config validation.
func configureLogger(l *log.Logger, cfg config.LogConfig) {
	if l.GetLevel() == log.InfoLevel && cfg.Level != "" {
		if lvl, err := log.ParseLevel(cfg.Level); err == nil {
			l.SetLevel(lvl)
		}
	}
	switch cfg.Format {
	case config.LogFormatJSON:
		l.SetFormatter(log.JSONFormatter)
	case config.LogFormatLogfmt:
		l.SetFormatter(log.LogfmtFormatter)
	default:
		l.SetFormatter(log.TextFormatter)
	}
}

// progress logs how long an operation took once it is done.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Server stopped (1m2.345s)".
func (p *progress) done(msg string) {
	p.logger.Info(msg, "elapsed", time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by the root command, or
// log.Default when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
