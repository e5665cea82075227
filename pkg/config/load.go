package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/umlpad/pkg/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "UMLPAD_"

// Load reads configuration from path on top of the defaults and applies
// environment overrides. An empty path means DefaultPath, which may be
// absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Decode(cfg, data, formatOf(path)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	case os.IsNotExist(err) && !explicit:
	case os.IsNotExist(err):
		return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
	default:
		return nil, errors.Wrap(errors.ErrCodeFileIO, err, "read %s", path)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Syntax is a config file syntax.
type Syntax string

const (
	SyntaxTOML Syntax = "toml"
	SyntaxYAML Syntax = "yaml"
)

func formatOf(path string) Syntax {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return SyntaxYAML
	default:
		return SyntaxTOML
	}
}

// Decode merges data into cfg. Keys absent from data keep their values.
func Decode(cfg *Config, data []byte, syntax Syntax) error {
	if syntax == SyntaxYAML {
		return yaml.Unmarshal(data, cfg)
	}
	_, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
	return err
}

// Encode writes cfg in the given syntax.
func Encode(w io.Writer, cfg *Config, syntax Syntax) error {
	if syntax == SyntaxYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	}
	return toml.NewEncoder(w).Encode(cfg)
}

// ApplyEnv overrides values from UMLPAD_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"ENGINE":             &c.Render.Engine,
		"FORMAT":             &c.Render.Format,
		"PLANTUML_RESOURCES": &c.PlantUML.Resources,
		"PLANTUML_JAR":       &c.PlantUML.JAR,
		"JAVA":               &c.PlantUML.Java,
		"CACHE_BACKEND":      &c.Cache.Backend,
		"CACHE_DIR":          &c.Cache.Dir,
		"CACHE_PREFIX":       &c.Cache.Prefix,
		"REDIS_ADDR":         &c.Cache.Redis.Addr,
		"REDIS_PASSWORD":     &c.Cache.Redis.Password,
		"SERVER_ADDR":        &c.Server.Addr,
		"LOG_LEVEL":          &c.Log.Level,
		"LOG_FORMAT":         &c.Log.Format,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	durations := map[string]*Duration{
		"DEBOUNCE":  &c.Render.Debounce,
		"TIMEOUT":   &c.Render.Timeout,
		"CACHE_TTL": &c.Cache.TTL,
	}
	for key, dst := range durations {
		if v, ok := lookup(EnvPrefix + key); ok {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, key)
			}
		}
	}

	if v, ok := lookup(EnvPrefix + "REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%sREDIS_DB", EnvPrefix)
		}
		c.Cache.Redis.DB = n
	}
	return nil
}
