package config

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/umlpad/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   errors.Code
	}{
		{"unknown engine", func(c *Config) { c.Render.Engine = "mermaid" }, errors.ErrCodeInvalidConfig},
		{"bad format", func(c *Config) { c.Render.Format = "gif" }, errors.ErrCodeInvalidFormat},
		{"debounce too short", func(c *Config) { c.Render.Debounce = Duration{100 * time.Millisecond} }, errors.ErrCodeInvalidConfig},
		{"debounce too long", func(c *Config) { c.Render.Debounce = Duration{2 * time.Second} }, errors.ErrCodeInvalidConfig},
		{"zero timeout", func(c *Config) { c.Render.Timeout = Duration{} }, errors.ErrCodeInvalidConfig},
		{"redis without addr", func(c *Config) { c.Cache.Backend = "redis" }, errors.ErrCodeInvalidConfig},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, errors.ErrCodeInvalidConfig},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[render]
engine = "graphviz"
format = "png"
debounce = "500ms"

[cache]
backend = "none"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Render.Engine != EngineGraphviz || cfg.Render.Format != "png" {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Render.Debounce.Duration != 500*time.Millisecond {
		t.Errorf("Debounce = %s, want 500ms", cfg.Render.Debounce)
	}
	if cfg.Render.Timeout.Duration != DefaultTimeout {
		t.Errorf("Timeout = %s, want default", cfg.Render.Timeout)
	}
	if cfg.Cache.Backend != "none" {
		t.Errorf("Backend = %q", cfg.Cache.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "umlpad.yaml")
	writeFile(t, path, `
render:
  timeout: 5s
plantuml:
  jar: /opt/plantuml.jar
cache:
  backend: redis
  redis:
    addr: localhost:6379
    db: 2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Render.Timeout.Duration != 5*time.Second {
		t.Errorf("Timeout = %s", cfg.Render.Timeout)
	}
	if cfg.Render.Engine != EnginePlantUML {
		t.Errorf("Engine = %q, want default", cfg.Render.Engine)
	}
	if cfg.PlantUML.JAR != "/opt/plantuml.jar" {
		t.Errorf("JAR = %q", cfg.PlantUML.JAR)
	}
	if cfg.Cache.Redis.Addr != "localhost:6379" || cfg.Cache.Redis.DB != 2 {
		t.Errorf("redis = %+v", cfg.Cache.Redis)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v, want FILE_NOT_FOUND", err)
	}

	bad := filepath.Join(dir, "bad.toml")
	writeFile(t, bad, "[render\nengine=")
	_, err = Load(bad)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad toml: err = %v, want INVALID_CONFIG", err)
	}

	badDur := filepath.Join(dir, "dur.toml")
	writeFile(t, badDur, "[render]\ndebounce = \"soon\"\n")
	_, err = Load(badDur)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad duration: err = %v, want INVALID_CONFIG", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"UMLPAD_FORMAT":     "png",
		"UMLPAD_DEBOUNCE":   "250ms",
		"UMLPAD_REDIS_DB":   "3",
		"UMLPAD_JAVA":       "/usr/bin/java",
		"UMLPAD_LOG_LEVEL":  "debug",
		"UNRELATED_SETTING": "x",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if cfg.Render.Format != "png" || cfg.Render.Debounce.Duration != 250*time.Millisecond {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Cache.Redis.DB != 3 || cfg.PlantUML.Java != "/usr/bin/java" || cfg.Log.Level != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}

	env["UMLPAD_REDIS_DB"] = "two"
	if err := Default().ApplyEnv(lookup); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad int: err = %v", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, syntax := range []Syntax{SyntaxTOML, SyntaxYAML} {
		t.Run(string(syntax), func(t *testing.T) {
			cfg := Default()
			cfg.Render.Debounce = Duration{400 * time.Millisecond}

			var buf bytes.Buffer
			if err := Encode(&buf, cfg, syntax); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if !strings.Contains(buf.String(), "400ms") {
				t.Errorf("encoded config missing duration text:\n%s", buf.String())
			}

			got := &Config{}
			if err := Decode(got, buf.Bytes(), syntax); err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got.Render.Debounce != cfg.Render.Debounce || got.Cache.TTL != cfg.Cache.TTL {
				t.Errorf("round trip = %+v, want %+v", got.Render, cfg.Render)
			}
		})
	}
}

func TestCacheOptions(t *testing.T) {
	cfg := Default()
	opts := cfg.CacheOptions()
	if opts.Dir == "" {
		t.Error("CacheOptions().Dir is empty, want default cache dir")
	}
	cfg.Cache.Dir = "/tmp/x"
	if got := cfg.CacheOptions().Dir; got != "/tmp/x" {
		t.Errorf("Dir = %q", got)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultDirsFollowXDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG variables only apply on linux")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	if got, want := DefaultPath(), "/tmp/xdg-config/umlpad/config.toml"; got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
	if got := DefaultCacheDir(); !strings.HasPrefix(got, "/tmp/xdg-cache/umlpad") {
		t.Errorf("DefaultCacheDir() = %q, want under /tmp/xdg-cache/umlpad", got)
	}
	if got := Default().CacheOptions().Dir; got != DefaultCacheDir() {
		t.Errorf("CacheOptions().Dir = %q, want default cache dir", got)
	}
}
