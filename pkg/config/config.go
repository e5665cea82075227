// Package config loads umlpad configuration.
//
// Configuration is layered: built-in defaults, then a TOML or YAML file, then
// UMLPAD_* environment variables. Command-line flags are applied on top by
// the CLI.
//
//	[render]
//	engine   = "plantuml"
//	format   = "svg"
//	debounce = "300ms"
//	timeout  = "30s"
//
//	[cache]
//	backend = "file"
//	ttl     = "168h"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/umlpad/pkg/cache"
	"github.com/matzehuels/umlpad/pkg/errors"
	"github.com/matzehuels/umlpad/pkg/pipeline"
	"github.com/matzehuels/umlpad/pkg/render"
)

// AppName names the config and cache directories.
const AppName = "umlpad"

// Engine names.
const (
	EnginePlantUML = "plantuml"
	EngineGraphviz = "graphviz"
)

// DefaultTimeout bounds a single engine invocation.
const DefaultTimeout = 30 * time.Second

// DefaultServerAddr is the listen address for `umlpad serve`.
const DefaultServerAddr = "127.0.0.1:8765"

// Config is the complete umlpad configuration.
type Config struct {
	Render   RenderConfig   `toml:"render" yaml:"render"`
	PlantUML PlantUMLConfig `toml:"plantuml" yaml:"plantuml"`
	Cache    CacheConfig    `toml:"cache" yaml:"cache"`
	Server   ServerConfig   `toml:"server" yaml:"server"`
	Log      LogConfig      `toml:"log" yaml:"log"`
}

// RenderConfig controls the render pipeline.
type RenderConfig struct {
	Engine   string   `toml:"engine" yaml:"engine"`
	Format   string   `toml:"format" yaml:"format"`
	Debounce Duration `toml:"debounce" yaml:"debounce"`
	Timeout  Duration `toml:"timeout" yaml:"timeout"`
}

// PlantUMLConfig locates the bundled PlantUML JAR and Java runtime.
// JAR and Java override the paths derived from Resources.
type PlantUMLConfig struct {
	Resources string `toml:"resources" yaml:"resources"`
	JAR       string `toml:"jar" yaml:"jar"`
	Java      string `toml:"java" yaml:"java"`
}

// CacheConfig selects the render cache backend.
type CacheConfig struct {
	Backend string      `toml:"backend" yaml:"backend"`
	Dir     string      `toml:"dir" yaml:"dir"`
	TTL     Duration    `toml:"ttl" yaml:"ttl"`
	Prefix  string      `toml:"prefix" yaml:"prefix"`
	Redis   RedisConfig `toml:"redis" yaml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr" yaml:"addr"`
	Password string `toml:"password" yaml:"password"`
	DB       int    `toml:"db" yaml:"db"`
}

type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // text, json or logfmt
}

// Log output formats.
const (
	LogFormatText   = "text"
	LogFormatJSON   = "json"
	LogFormatLogfmt = "logfmt"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Engine:   EnginePlantUML,
			Format:   string(render.DefaultFormat),
			Debounce: Duration{pipeline.DefaultDebounce},
			Timeout:  Duration{DefaultTimeout},
		},
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			TTL:     Duration{cache.TTLRender},
		},
		Server: ServerConfig{Addr: DefaultServerAddr},
		Log:    LogConfig{Level: "info", Format: LogFormatText},
	}
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	switch c.Render.Engine {
	case EnginePlantUML, EngineGraphviz:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown engine %q (want %s or %s)", c.Render.Engine, EnginePlantUML, EngineGraphviz)
	}
	if _, err := render.ParseFormat(c.Render.Format); err != nil {
		return err
	}

	opts := pipeline.Options{Debounce: c.Render.Debounce.Duration, Format: render.Format(c.Render.Format)}
	if err := opts.Validate(); err != nil {
		return err
	}
	if c.Render.Timeout.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "timeout must be positive, got %s", c.Render.Timeout)
	}

	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "redis cache requires cache.redis.addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}

	switch c.Log.Format {
	case "", LogFormatText, LogFormatJSON, LogFormatLogfmt:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown log format %q", c.Log.Format)
	}
	return nil
}

// RenderFormat returns the configured output format.
func (c *Config) RenderFormat() render.Format {
	return render.Format(c.Render.Format)
}

// CacheOptions converts the cache section for cache.Open.
func (c *Config) CacheOptions() cache.Options {
	dir := c.Cache.Dir
	if dir == "" {
		dir = DefaultCacheDir()
	}
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     dir,
		Prefix:  c.Cache.Prefix,
		Redis: cache.RedisConfig{
			Addr:     c.Cache.Redis.Addr,
			Password: c.Cache.Redis.Password,
			DB:       c.Cache.Redis.DB,
		},
	}
}

// =============================================================================
// Paths
// =============================================================================

// DefaultDir returns the umlpad config directory
// ($XDG_CONFIG_HOME/umlpad or the platform equivalent).
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "."+AppName)
	}
	return filepath.Join(dir, AppName)
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.toml")
}

// DefaultCacheDir returns the default file cache directory.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName, "cache")
	}
	return filepath.Join(dir, AppName)
}
