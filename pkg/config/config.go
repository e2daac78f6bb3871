// Package config loads the asmscope configuration file.
//
// The file is TOML and every key is optional; missing keys keep their
// defaults. The default location is $XDG_CONFIG_HOME/asmscope/config.toml
// (or ~/.config/asmscope/config.toml):
//
//	[layout]
//	engine = "dot"
//	points_per_inch = 72.0
//	max_components = 0
//	min_component_size = 1
//	workers = 1
//
//	[bubble]
//	spqr_path = ""
//
//	[output]
//	backend = "bolt"
//
//	[cache]
//	enabled = true
//	ttl = "168h"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	asmerr "github.com/matzehuels/asmscope/pkg/errors"
)

const appName = "asmscope"

// Layout engines.
const (
	EngineDot  = "dot"
	EngineGrid = "grid"
)

// Output backends.
const (
	BackendBolt  = "bolt"
	BackendMongo = "mongo"
)

// Config is the complete configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Bubble BubbleConfig `toml:"bubble"`
	Output OutputConfig `toml:"output"`
	Cache  CacheConfig  `toml:"cache"`
}

// LayoutConfig configures component layout.
type LayoutConfig struct {
	Engine           string  `toml:"engine"`
	PointsPerInch    float64 `toml:"points_per_inch"`
	MaxComponents    int     `toml:"max_components"` // 0 = unlimited
	MinComponentSize int     `toml:"min_component_size"`
	Workers          int     `toml:"workers"`
	MinNodeWidth     float64 `toml:"min_node_width"`
	MaxNodeWidth     float64 `toml:"max_node_width"`
}

// BubbleConfig configures bubble candidate search.
type BubbleConfig struct {
	// SpqrPath is the spqr executable. Empty selects the native finder.
	SpqrPath string `toml:"spqr_path"`
}

// OutputConfig configures persistence.
type OutputConfig struct {
	Backend       string `toml:"backend"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// CacheConfig configures the layout cache.
type CacheConfig struct {
	Enabled bool `toml:"enabled"`
	// RedisURL selects a Redis cache instead of the file cache.
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a Go duration string in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration such as "168h".
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText writes the duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			Engine:           EngineDot,
			PointsPerInch:    72,
			MinComponentSize: 1,
			Workers:          1,
			MinNodeWidth:     0.3,
			MaxNodeWidth:     2.5,
		},
		Output: OutputConfig{
			Backend:       BackendBolt,
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: appName,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     Duration{7 * 24 * time.Hour},
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config file at path over the defaults and validates the
// result. An empty path means the default location, which may be absent;
// an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, cfg.Validate()
		}
		return nil, asmerr.Wrap(asmerr.ErrCodeInvalidInput, err, "load config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, asmerr.New(asmerr.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var problems []string
	l := c.Layout
	if l.Engine != EngineDot && l.Engine != EngineGrid {
		problems = append(problems, fmt.Sprintf("layout.engine %q must be %q or %q", l.Engine, EngineDot, EngineGrid))
	}
	if l.PointsPerInch <= 0 {
		problems = append(problems, "layout.points_per_inch must be positive")
	}
	if l.MaxComponents < 0 {
		problems = append(problems, "layout.max_components must not be negative")
	}
	if l.MinComponentSize < 1 {
		problems = append(problems, "layout.min_component_size must be at least 1")
	}
	if l.Workers < 1 {
		problems = append(problems, "layout.workers must be at least 1")
	}
	if l.MinNodeWidth <= 0 || l.MaxNodeWidth < l.MinNodeWidth {
		problems = append(problems, "layout node widths must satisfy 0 < min_node_width <= max_node_width")
	}
	switch c.Output.Backend {
	case BackendBolt:
	case BackendMongo:
		if c.Output.MongoURI == "" || c.Output.MongoDatabase == "" {
			problems = append(problems, "output.mongo_uri and output.mongo_database are required for the mongo backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("output.backend %q must be %q or %q", c.Output.Backend, BackendBolt, BackendMongo))
	}
	if c.Cache.TTL.Duration < 0 {
		problems = append(problems, "cache.ttl must not be negative")
	}
	if len(problems) > 0 {
		return asmerr.New(asmerr.ErrCodeInvalidInput, "invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
