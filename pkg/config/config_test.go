package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	asmerr "github.com/matzehuels/asmscope/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[layout]
engine = "grid"
workers = 4
max_components = 10

[bubble]
spqr_path = "/opt/bin/spqr"

[cache]
ttl = "2h"
redis_url = "redis://localhost:6379/0"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Layout.Engine != EngineGrid || cfg.Layout.Workers != 4 || cfg.Layout.MaxComponents != 10 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Layout.PointsPerInch != 72 || cfg.Layout.MinComponentSize != 1 {
		t.Errorf("defaults not kept: %+v", cfg.Layout)
	}
	if cfg.Bubble.SpqrPath != "/opt/bin/spqr" {
		t.Errorf("bubble = %+v", cfg.Bubble)
	}
	if cfg.Cache.TTL.Duration != 2*time.Hour || !cfg.Cache.Enabled || cfg.Cache.RedisURL == "" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Output.Backend != BackendBolt {
		t.Errorf("output = %+v", cfg.Output)
	}
}

func TestLoadDefaultPathMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Layout.Engine != EngineDot {
		t.Errorf("engine = %q", cfg.Layout.Engine)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "asmscope"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "asmscope", "config.toml"), []byte("[layout]\nworkers = 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout.Workers != 3 {
		t.Errorf("workers = %d", cfg.Layout.Workers)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[layout\n", "load config"},
		{"unknown key", "[layout]\nspeed = 3\n", "unknown keys: layout.speed"},
		{"bad engine", "[layout]\nengine = \"neato\"\n", "layout.engine"},
		{"bad workers", "[layout]\nworkers = 0\n", "layout.workers"},
		{"bad widths", "[layout]\nmin_node_width = 3.0\n", "node widths"},
		{"bad backend", "[output]\nbackend = \"sqlite\"\n", "output.backend"},
		{"mongo without uri", "[output]\nbackend = \"mongo\"\nmongo_uri = \"\"\n", "mongo_uri"},
		{"bad ttl", "[cache]\nttl = \"soon\"\n", "load config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !asmerr.Is(err, asmerr.ErrCodeInvalidInput) {
				t.Errorf("code = %v", asmerr.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("explicit missing path should fail")
	}
}
