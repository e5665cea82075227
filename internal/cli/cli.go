package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/umlpad/pkg/buildinfo"
	"github.com/matzehuels/umlpad/pkg/cache"
	"github.com/matzehuels/umlpad/pkg/config"
	"github.com/matzehuels/umlpad/pkg/observability"
	"github.com/matzehuels/umlpad/pkg/pipeline"
	"github.com/matzehuels/umlpad/pkg/render"
	"github.com/matzehuels/umlpad/pkg/render/graphviz"
	"github.com/matzehuels/umlpad/pkg/render/plantuml"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "umlpad renders PlantUML diagrams as you type",
		Long:          `umlpad is a diagram editor backend. It renders PlantUML (or Graphviz DOT) source through a debounced, latest-wins pipeline and reports diagram errors with their source line.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.newCommand())
	root.AddCommand(c.templatesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.doctorCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig loads and validates the configuration once per process. The
// config file's log level applies unless --verbose already raised it.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	configureLogger(c.Logger, cfg.Log)
	if c.Logger.GetLevel() <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Install()
	}
	c.cfg = cfg
	return cfg, nil
}

// engineFlags are the render flags shared by render, watch and serve.
type engineFlags struct {
	format  string
	engine  string
	noCache bool
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: svg, png (default from config)")
	cmd.Flags().StringVar(&f.engine, "engine", "", "render engine: plantuml, graphviz (default from config, or by file extension)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the render cache")
}

// apply overrides cfg with explicitly set flags. A .dot or .gv input selects
// the graphviz engine unless --engine is given.
func (f *engineFlags) apply(cfg *config.Config, inputPath string) error {
	if f.format != "" {
		if _, err := render.ParseFormat(f.format); err != nil {
			return err
		}
		cfg.Render.Format = f.format
	}
	switch {
	case f.engine != "":
		cfg.Render.Engine = f.engine
	case isDOTFile(inputPath):
		cfg.Render.Engine = config.EngineGraphviz
	}
	if f.noCache {
		cfg.Cache.Backend = cache.BackendNone
	}
	return cfg.Validate()
}

func isDOTFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		return true
	}
	return false
}

// =============================================================================
// Pipeline Factory
// =============================================================================

// newEngine builds the configured render engine.
func (c *CLI) newEngine(cfg *config.Config) render.Engine {
	if cfg.Render.Engine == config.EngineGraphviz {
		return graphviz.New(c.Logger)
	}
	return plantuml.New(plantumlPaths(cfg),
		plantuml.WithTimeout(cfg.Render.Timeout.Duration),
		plantuml.WithLogger(c.Logger))
}

func plantumlPaths(cfg *config.Config) plantuml.Paths {
	resources := cfg.PlantUML.Resources
	if resources == "" {
		resources = plantuml.DefaultResourcesDir()
	}
	return plantuml.Locate(resources).Override(cfg.PlantUML.JAR, cfg.PlantUML.Java)
}

// newRunner creates a pipeline runner. A cache that cannot be opened is
// logged and replaced by the null cache; rendering still works without it.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config) *pipeline.Runner {
	ch, keyer, err := cache.Open(ctx, cfg.CacheOptions())
	if err != nil {
		c.Logger.Warn("cache unavailable, rendering without it", "backend", cfg.Cache.Backend, "err", err)
		ch, keyer = cache.NewNullCache(), cache.NewKeyer(cfg.Cache.Prefix)
	}
	r := pipeline.NewRunner(c.newEngine(cfg), ch, keyer, c.Logger)
	if cfg.Cache.TTL.Duration > 0 {
		r.TTL = cfg.Cache.TTL.Duration
	}
	return r
}

// newCoordinator creates a coordinator around runner.
func (c *CLI) newCoordinator(cfg *config.Config, runner pipeline.Renderer) *pipeline.Coordinator {
	return pipeline.NewCoordinator(runner, pipeline.Options{
		Debounce: cfg.Render.Debounce.Duration,
		Format:   cfg.RenderFormat(),
		Logger:   c.Logger,
	})
}

// outputPath derives the image path for input: diagram.puml -> diagram.svg.
func outputPath(input string, format render.Format) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + format.Extension()
}
