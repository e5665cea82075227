package cli

import (
	"context"
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/umlpad/internal/server"
	"github.com/matzehuels/umlpad/pkg/config"
	"github.com/matzehuels/umlpad/pkg/io"
	"github.com/matzehuels/umlpad/pkg/render"
	"github.com/matzehuels/umlpad/pkg/session"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	engineFlags
	addr      string
	noSession bool
}

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve the render API for an editor front-end",
		Long: `Start the HTTP API.

Without a file argument, the document from the last session is reopened.
Endpoints live under /api: render, source, format, render-now, state, preview,
open, save, export and templates.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return c.runServe(cmd, file, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, "+config.DefaultServerAddr+")")
	cmd.Flags().BoolVar(&opts.noSession, "no-session", false, "do not restore or record the session")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, file string, opts *serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	var (
		store session.Store
		sess  *session.Session
	)
	if !opts.noSession {
		store, sess = c.openSession(ctx)
		if file == "" && sess != nil && sess.Path != "" {
			file = sess.Path
			if opts.format == "" && sess.Format.Valid() {
				opts.format = string(sess.Format)
			}
			logger.Info("restoring session", "file", file)
		}
	}
	if err := opts.apply(cfg, file); err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}

	runner := c.newRunner(ctx, cfg)
	defer runner.Close()
	coord := c.newCoordinator(cfg, runner)
	defer coord.Close()

	srv := server.New(server.Options{
		Renderer:    runner,
		Coordinator: coord,
		Sessions:    store,
		Session:     sess,
		Engine:      cfg.Render.Engine,
		Logger:      logger,
	})

	if file != "" {
		source, err := io.ReadSource(file)
		if err != nil {
			logger.Warn("could not open document", "file", file, "err", err)
		} else {
			coord.SetText(source)
			coord.RenderNow()
			c.rememberDocument(ctx, cfg, file)
		}
	}

	printSuccess("Serving %s", StyleLink.Render("http://"+cfg.Server.Addr))
	printKeyValue("engine", cfg.Render.Engine)
	printKeyValue("format", cfg.Render.Format)
	if file != "" {
		printKeyValue("document", file)
	}

	prog := newProgress(logger)
	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		return err
	}
	prog.done("Server stopped")
	return nil
}

// =============================================================================
// Session Helpers
// =============================================================================

// openSession opens the session store and loads the saved session. Session
// problems are logged; they never stop a command.
func (c *CLI) openSession(ctx context.Context) (session.Store, *session.Session) {
	store, err := session.NewFileStore(config.DefaultDir())
	if err != nil {
		c.Logger.Warn("session store unavailable", "err", err)
		return nil, nil
	}
	sess, err := store.Load(ctx)
	switch {
	case stderrors.Is(err, session.ErrNotFound):
		return store, nil
	case err != nil:
		c.Logger.Warn("ignoring saved session", "err", err)
		return store, nil
	}
	return store, sess
}

// rememberDocument records path as the last opened document.
func (c *CLI) rememberDocument(ctx context.Context, cfg *config.Config, path string) {
	store, sess := c.openSession(ctx)
	if store == nil {
		return
	}
	if sess == nil {
		sess = session.New(path, render.Format(cfg.Render.Format), cfg.Render.Engine)
	} else {
		sess.Touch(path)
		sess.Format = render.Format(cfg.Render.Format)
		sess.Engine = cfg.Render.Engine
	}
	if err := store.Save(ctx, sess); err != nil {
		c.Logger.Warn("session save failed", "err", err)
	}
}
