package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/umlpad/pkg/errors"
	"github.com/matzehuels/umlpad/pkg/io"
	"github.com/matzehuels/umlpad/pkg/pipeline"
)

// errRenderFailed is returned after a failure has already been printed, so
// main exits non-zero without repeating the message.
var errRenderFailed = errors.New(errors.ErrCodeInvalidInput, "render failed")

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	engineFlags
	output  string // output file path; "-" writes to stdout
	details bool   // print full diagnostic output on failure
	dataURI bool   // write a data URI instead of raw bytes
}

// renderCommand creates the render command for one-shot rendering.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a diagram file to SVG or PNG",
		Long: `Render a diagram file once.

The output defaults to the input path with the format's extension
(diagram.puml -> diagram.svg). On a diagram error the offending line and
message are printed and the command exits non-zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (- for stdout)")
	cmd.Flags().BoolVarP(&opts.details, "details", "d", false, "print full diagnostic output on failure")
	cmd.Flags().BoolVar(&opts.dataURI, "data-uri", false, "write a base64 data URI instead of the image bytes")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
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

	runner := c.newRunner(ctx, cfg)
	defer runner.Close()

	format := cfg.RenderFormat()
	req := pipeline.Request{ID: 1, Source: source, Format: format}
	logger.Debug("rendering", "file", input, "engine", cfg.Render.Engine, "format", format)

	spin := startSpinner(ctx, fmt.Sprintf("Rendering %s...", input))
	start := time.Now()
	result, cached := runner.RenderWithCacheInfo(ctx, req)
	spin.Stop()

	if err := ctx.Err(); err != nil {
		return err
	}

	switch {
	case result.Empty():
		printWarning("%s is empty, nothing to render", input)
		return nil
	case result.Failure != nil:
		printFailure(result.Failure, opts.details)
		return errRenderFailed
	}

	data := result.Image
	if opts.dataURI {
		data = []byte(result.DataURI())
	}

	out := opts.output
	if out == "" {
		out = outputPath(input, format)
	}
	if out == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeFileIO, err, "write %s", out)
	}

	printSuccess("Rendered %s", StyleHighlight.Render(input))
	printFile(out)
	printRenderStats(len(data), time.Since(start), cached)
	return nil
}

// IsReported reports whether err has already been shown to the user.
func IsReported(err error) bool {
	return err == errRenderFailed
}
