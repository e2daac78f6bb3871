package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/asmscope/pkg/bubble"
	"github.com/matzehuels/asmscope/pkg/config"
	"github.com/matzehuels/asmscope/pkg/layout"
	"github.com/matzehuels/asmscope/pkg/observability"
	"github.com/matzehuels/asmscope/pkg/parse"
	"github.com/matzehuels/asmscope/pkg/pipeline"
)

// collateOpts holds the command-line flags of the collate command.
// Flags that are set override the config file.
type collateOpts struct {
	output        string // bbolt output path (default: <input>.asmscope.db)
	engine        string // layout engine: dot or grid
	backend       string // output backend: bolt or mongo
	spqr          string // spqr binary for bubble candidates
	candidates    string // precomputed bubble candidate file
	keepDot       string // directory for per-component .gv/.xdot files
	noBubbles     bool   // skip the bubble pass
	noDNA         bool   // do not store sequences
	single        bool   // single-strand mode
	noCache       bool   // disable the layout cache
	workers       int    // concurrent component layouts
	maxComponents int    // lay out only the largest N components
	minSize       int    // skip components with fewer nodes
}

// collateCommand creates the collate command.
func (c *CLI) collateCommand() *cobra.Command {
	var opts collateOpts

	cmd := &cobra.Command{
		Use:   "collate [graph-file]",
		Short: "Classify, lay out and store an assembly graph",
		Long: `Collate an assembly graph.

The input format is chosen by extension: .gfa, .lastgraph or .gml. Every
contig gets a reverse-complement twin unless --single is given.

Bubbles come from --candidates (a saved spqr output file), from the spqr
binary given by --spqr or bubble.spqr_path, or from the built-in finder.
Frayed ropes, cycles and chains are always detected.

Components are laid out with Graphviz dot and stored in a bbolt database
next to the input file, or in MongoDB when output.backend is "mongo".
Layout results are cached locally (or in Redis, see cache.redis_url).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runCollate(cmd.Context(), args[0], cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "bbolt output file (default: <input>"+dbSuffix+")")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "layout engine: dot (default), grid")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "output backend: bolt (default), mongo")
	cmd.Flags().StringVar(&opts.spqr, "spqr", "", "spqr binary used to find bubble candidates")
	cmd.Flags().StringVar(&opts.candidates, "candidates", "", "read bubble candidates from a file instead of running a finder")
	cmd.Flags().StringVar(&opts.keepDot, "keep-dot", "", "keep .gv and .xdot layout files in this directory")
	cmd.Flags().BoolVar(&opts.noBubbles, "no-bubbles", false, "skip bubble detection")
	cmd.Flags().BoolVar(&opts.noDNA, "no-dna", false, "do not store DNA sequences")
	cmd.Flags().BoolVar(&opts.single, "single", false, "single-strand mode: no reverse-complement nodes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().IntVarP(&opts.workers, "workers", "j", 0, "components laid out concurrently")
	cmd.Flags().IntVar(&opts.maxComponents, "max-components", 0, "lay out only the largest N components (0 = all)")
	cmd.Flags().IntVar(&opts.minSize, "min-component-size", 0, "skip components with fewer nodes")

	return cmd
}

// apply overrides cfg with the flags set on cmd.
func (o collateOpts) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("engine") {
		cfg.Layout.Engine = o.engine
	}
	if changed("backend") {
		cfg.Output.Backend = o.backend
	}
	if changed("spqr") {
		cfg.Bubble.SpqrPath = o.spqr
	}
	if changed("workers") {
		cfg.Layout.Workers = o.workers
	}
	if changed("max-components") {
		cfg.Layout.MaxComponents = o.maxComponents
	}
	if changed("min-component-size") {
		cfg.Layout.MinComponentSize = o.minSize
	}
	if o.noCache {
		cfg.Cache.Enabled = false
	}
}

// pipelineOptions maps the layout config onto pipeline options.
func pipelineOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		PointsPerInch:    cfg.Layout.PointsPerInch,
		Sizer:            layout.Sizer{MinWidth: cfg.Layout.MinNodeWidth, MaxWidth: cfg.Layout.MaxNodeWidth},
		MaxComponents:    cfg.Layout.MaxComponents,
		MinComponentSize: cfg.Layout.MinComponentSize,
		Workers:          cfg.Layout.Workers,
	}
}

// runCollate wires the collaborators, runs the pipeline and prints a summary.
func (c *CLI) runCollate(ctx context.Context, input string, cfg *config.Config, opts collateOpts) error {
	logger := loggerFromContext(ctx)

	layoutCache, err := newCache(ctx, cfg.Cache, opts.noCache)
	if err != nil {
		return fmt.Errorf("open layout cache: %w", err)
	}
	defer layoutCache.Close()

	if opts.keepDot != "" {
		if err := os.MkdirAll(opts.keepDot, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", opts.keepDot, err)
		}
	}

	var finder bubble.Finder
	if !opts.noBubbles {
		finder, err = newFinder(cfg.Bubble.SpqrPath, opts.candidates, opts.keepDot, opts.keepDot != "", logger)
		if err != nil {
			return fmt.Errorf("bubble candidates: %w", err)
		}
	}

	output := opts.output
	if output == "" {
		output = defaultOutput(input)
	}
	out, dest, err := newSink(ctx, cfg.Output, output)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}

	runner := pipeline.NewRunner(newEngine(*cfg, layoutCache, opts.keepDot, logger), finder, out, logger)
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Collating %s...", filepath.Base(input)))
	observability.SetPipelineHooks(&progressHooks{spinner: spinner})
	defer observability.SetPipelineHooks(observability.NoopPipelineHooks{})
	spinner.Start()

	popts := parse.Options{SingleStrand: opts.single, NoDNA: opts.noDNA, Logger: logger}
	res, err := runner.ExecuteFile(ctx, input, popts, pipelineOptions(cfg))
	if err != nil {
		spinner.StopWithError("Collation failed")
		return fmt.Errorf("collate %s: %w", input, err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Collated %s", res.Summary.FileName)
	printFile(dest)
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.GroupCount, len(res.Components), res.Stats.Total())
	printNewline()
	printSummary(res.Summary)
	if n := len(res.Classification.Skipped); n > 0 {
		printWarning("Skipped %d malformed bubble candidates", n)
	}
	if res.Dropped > 0 {
		printWarning("%d components outside the size limits were not laid out", res.Dropped)
	}
	if cfg.Output.Backend == config.BackendBolt {
		printNewline()
		printNextStep("Browse", appName+" serve "+dest)
	}
	return nil
}

// progressHooks reports pipeline progress on the spinner.
type progressHooks struct {
	observability.NoopPipelineHooks
	spinner *Spinner
	started atomic.Int64
	done    atomic.Int64
}

func (h *progressHooks) OnClassifyComplete(_ context.Context, groups map[string]int, _ int, _ time.Duration) {
	total := 0
	for _, n := range groups {
		total += n
	}
	h.spinner.SetMessage("Classified %d groups, decomposing...", total)
}

func (h *progressHooks) OnLayoutStart(_ context.Context, rank, _ int) {
	h.started.Add(1)
	h.spinner.SetMessage("Laying out component %d (%d done)...", rank, h.done.Load())
}

func (h *progressHooks) OnLayoutComplete(_ context.Context, _ int, _ time.Duration, err error) {
	if err == nil {
		h.spinner.SetMessage("Laid out %d of %d started components...", h.done.Add(1), h.started.Load())
	}
}

func (h *progressHooks) OnPersistComplete(_ context.Context, backend string, components int, _ time.Duration, _ error) {
	h.spinner.SetMessage("Stored %d components in %s", components, backend)
}
