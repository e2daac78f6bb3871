// Package cli implements the asmscope command-line interface.
//
// # Commands
//
// The main commands are:
//   - collate: classify, decompose, lay out and persist an assembly graph
//   - stats: print assembly statistics without laying anything out
//   - serve: expose a collated bbolt database as a read-only JSON API
//   - cache: manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is attached to the command context and reaches the HTTP handlers through
// the request context.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/asmscope/pkg/bubble"
	"github.com/matzehuels/asmscope/pkg/buildinfo"
	"github.com/matzehuels/asmscope/pkg/cache"
	"github.com/matzehuels/asmscope/pkg/config"
	"github.com/matzehuels/asmscope/pkg/layout"
	"github.com/matzehuels/asmscope/pkg/sink"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "asmscope"

	// dbSuffix is appended to the input base name for the default bbolt output.
	dbSuffix = ".asmscope.db"
)

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

	// configPath is the --config flag; empty means the default location.
	configPath string
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
		Use:   appName,
		Short: "asmscope collates genome assembly graphs for visualization",
		Long: `asmscope reads a genome assembly graph (GFA, Velvet LastGraph or Bambus GML),
collapses bubbles, frayed ropes, cycles and chains into groups, splits the
graph into connected components, lays every component out with Graphviz and
stores the result together with assembly statistics.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/asmscope/config.toml)")

	// Register all subcommands
	root.AddCommand(c.collateCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file named by --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath)
}

// =============================================================================
// Collaborator Factories
// =============================================================================

// newCache opens the layout cache selected by cfg.
func newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache || !cfg.Enabled {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisURL != "" {
		return cache.NewRedisCache(ctx, cfg.RedisURL, appName+":")
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newEngine builds the layout engine, wrapped in the layout cache.
// artifactDir keeps per-component DOT files when non-empty.
func newEngine(cfg config.Config, c cache.Cache, artifactDir string, logger *log.Logger) layout.Engine {
	var (
		engine layout.Engine
		name   string
	)
	switch cfg.Layout.Engine {
	case config.EngineGrid:
		grid := layout.Grid{PointsPerInch: cfg.Layout.PointsPerInch}
		engine, name = grid, grid.Name()
	default:
		gv := layout.Graphviz{ArtifactDir: artifactDir}
		engine, name = gv, gv.Name()
	}
	if _, ok := c.(cache.NullCache); ok {
		return engine
	}
	return &layout.Cached{
		Engine: engine,
		Name:   name,
		Cache:  c,
		Keyer:  cache.NewScopedKeyer(nil, buildinfo.CacheScope()),
		TTL:    cfg.Cache.TTL.Duration,
		Logger: logger,
	}
}

// newFinder selects the bubble candidate source. A candidate file wins
// over an spqr binary; without either the native finder is used.
func newFinder(spqrPath, candidates, workDir string, keep bool, logger *log.Logger) (bubble.Finder, error) {
	switch {
	case candidates != "":
		static, err := bubble.ReadFile(candidates)
		if err != nil {
			return nil, err
		}
		return static, nil
	case spqrPath != "":
		return bubble.Exec{Path: spqrPath, Dir: workDir, Keep: keep, Logger: logger}, nil
	default:
		return bubble.Simple{}, nil
	}
}

// newSink opens the output backend.
func newSink(ctx context.Context, cfg config.OutputConfig, output string) (sink.Sink, string, error) {
	if cfg.Backend == config.BackendMongo {
		s, err := sink.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, "", err
		}
		return s, cfg.MongoURI + "/" + cfg.MongoDatabase, nil
	}
	s, err := sink.OpenBolt(output)
	if err != nil {
		return nil, "", err
	}
	return s, output, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/asmscope/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// defaultOutput derives the bbolt output path from the input file.
func defaultOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + dbSuffix
}
