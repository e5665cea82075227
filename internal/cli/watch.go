package cli

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/umlpad/pkg/errors"
	"github.com/matzehuels/umlpad/pkg/io"
	"github.com/matzehuels/umlpad/pkg/pipeline"
	"github.com/matzehuels/umlpad/pkg/render"
)

// watchOpts holds the command-line flags for the watch command.
type watchOpts struct {
	engineFlags
	output string // fixed output path; default derives from input and format
	plain  bool   // log state changes instead of running the terminal view
}

// watchCommand creates the watch command for live re-rendering.
func (c *CLI) watchCommand() *cobra.Command {
	var opts watchOpts

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-render a diagram file whenever it changes",
		Long: `Watch a diagram file and re-render it on every save.

Changes are debounced; only the result of the most recent edit is written.
Keys in the terminal view: r render now, f toggle svg/png, d toggle error
details, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd, args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input with format extension)")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "log updates instead of showing the terminal view")

	return cmd
}

func (c *CLI) runWatch(cmd *cobra.Command, input string, opts *watchOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if err := opts.apply(cfg, input); err != nil {
		return err
	}

	source, err := io.ReadSource(input)
	if err != nil {
		return err
	}

	watcher, err := watchFile(input, source, logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	runner := c.newRunner(ctx, cfg)
	defer runner.Close()
	coord := c.newCoordinator(cfg, runner)
	defer coord.Close()

	c.rememberDocument(ctx, cfg, input)

	coord.SetText(source)
	coord.RenderNow()
	go func() {
		for text := range watcher.Changes() {
			logger.Debug("file changed", "file", input, "bytes", len(text))
			coord.SetText(text)
		}
	}()

	writer := &imageWriter{input: input, fixed: opts.output}
	if opts.plain {
		return runPlainWatch(ctx, coord, writer, logger)
	}
	return runWatchView(ctx, coord, writer, input)
}

// runPlainWatch logs each applied result until ctx is done.
func runPlainWatch(ctx context.Context, coord *pipeline.Coordinator, writer *imageWriter, logger *log.Logger) error {
	updates, cancel := coord.Subscribe()
	defer cancel()

	logger.Info("watching", "file", writer.input)
	var applied uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case st, ok := <-updates:
			if !ok {
				return nil
			}
			if st.LastAppliedRequestID == applied {
				continue
			}
			applied = st.LastAppliedRequestID

			switch res := st.Current; {
			case res.Empty():
				logger.Info("preview cleared", "id", applied)
			case res.Failure != nil:
				logger.Error(res.Failure.ShortMessage, "id", applied, "kind", res.Failure.Kind, "line", res.Failure.Line)
			default:
				path, err := writer.write(res)
				if err != nil {
					logger.Error("write failed", "err", err)
					continue
				}
				logger.Info("rendered", "id", applied, "path", path, "size", humanize.Bytes(uint64(len(res.Image))), "stale", st.StaleDropped)
			}
		}
	}
}

// =============================================================================
// Image Writer
// =============================================================================

// imageWriter writes successful results next to the input file.
type imageWriter struct {
	input string
	fixed string
}

func (w *imageWriter) path(format render.Format) string {
	if w.fixed != "" {
		return w.fixed
	}
	return outputPath(w.input, format)
}

func (w *imageWriter) write(res render.Result) (string, error) {
	path := w.path(res.Format)
	if err := os.WriteFile(path, res.Image, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeFileIO, err, "write %s", path)
	}
	return path, nil
}

// =============================================================================
// File Watcher
// =============================================================================

// fileWatcher reports the content of a file each time it changes.
//
// The parent directory is watched rather than the file so that editors which
// save by renaming a temporary file over the original are still seen.
type fileWatcher struct {
	w       *fsnotify.Watcher
	path    string
	last    string
	logger  *log.Logger
	changes chan string
	done    chan struct{}
	once    sync.Once
}

func watchFile(path, initial string, logger *log.Logger) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create file watcher")
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, errors.Wrap(errors.ErrCodeFileIO, err, "watch %s", filepath.Dir(abs))
	}

	fw := &fileWatcher{
		w:       w,
		path:    abs,
		last:    initial,
		logger:  logger,
		changes: make(chan string),
		done:    make(chan struct{}),
	}
	go fw.loop()
	return fw, nil
}

// Changes delivers new file content. Unchanged saves are suppressed.
func (fw *fileWatcher) Changes() <-chan string { return fw.changes }

func (fw *fileWatcher) Close() error {
	var err error
	fw.once.Do(func() {
		close(fw.done)
		err = fw.w.Close()
	})
	return err
}

func (fw *fileWatcher) loop() {
	defer close(fw.changes)
	for {
		select {
		case <-fw.done:
			return
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != fw.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			text, err := io.ReadSource(fw.path)
			if err != nil {
				fw.logger.Warn("reload failed", "file", fw.path, "err", err)
				continue
			}
			if text == fw.last {
				continue
			}
			fw.last = text
			select {
			case fw.changes <- text:
			case <-fw.done:
				return
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("file watcher error", "err", err)
		}
	}
}
