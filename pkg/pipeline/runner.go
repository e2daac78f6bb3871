package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/asmscope/pkg/asm"
	"github.com/matzehuels/asmscope/pkg/asm/component"
	"github.com/matzehuels/asmscope/pkg/asm/motif"
	"github.com/matzehuels/asmscope/pkg/bubble"
	"github.com/matzehuels/asmscope/pkg/layout"
	"github.com/matzehuels/asmscope/pkg/observability"
	"github.com/matzehuels/asmscope/pkg/sink"
	"github.com/matzehuels/asmscope/pkg/stats"
)

// Runner encapsulates pipeline execution against one set of collaborators.
//
// The Runner is stateless except for its collaborators - it doesn't store
// pipeline results. A graph is single-use, so every Execute call needs a
// freshly parsed graph.
type Runner struct {
	Engine layout.Engine
	Finder bubble.Finder // nil skips the bubble pass
	Sink   sink.Sink
	Logger *log.Logger
}

// NewRunner creates a runner with the given collaborators.
// If engine is nil, a Graphviz engine is used.
// If s is nil, an in-memory sink is used.
// A nil finder is kept: the bubble pass is skipped.
func NewRunner(engine layout.Engine, finder bubble.Finder, s sink.Sink, logger *log.Logger) *Runner {
	if engine == nil {
		engine = layout.Graphviz{}
	}
	if s == nil {
		s = sink.NewMemory()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Engine: engine,
		Finder: finder,
		Sink:   s,
		Logger: logger,
	}
}

// Execute runs classify → decompose → layout → stats → persist over a frozen
// graph. On error nothing has been written unless the failure happened in
// the persist stage itself.
func (r *Runner) Execute(ctx context.Context, g *asm.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if opts.RunID == "" {
		opts.RunID = sink.NewRunID()
	}

	result := &Result{RunID: opts.RunID, Graph: g}
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	// Stage 1: Classify
	classifyStart := time.Now()
	classes, err := motif.Classify(ctx, g, r.Finder, motif.Options{Logger: opts.Logger})
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	result.Classification = classes
	result.Stats.ClassifyTime = time.Since(classifyStart)
	result.Stats.GroupCount = len(classes.Groups)
	groups := groupCounts(classes)
	observability.Pipeline().OnClassifyComplete(ctx, groups, len(classes.Skipped), result.Stats.ClassifyTime)

	opts.Logger.Info("classified motifs",
		"bubbles", classes.Counts[asm.Bubble],
		"ropes", classes.Counts[asm.Rope],
		"cycles", classes.Counts[asm.Cycle],
		"chains", classes.Counts[asm.Chain],
		"skipped", len(classes.Skipped),
		"duration", result.Stats.ClassifyTime)

	// Stage 2: Decompose
	decomposeStart := time.Now()
	comps, err := component.Decompose(g, classes.Drawable)
	if err != nil {
		return nil, fmt.Errorf("decompose: %w", err)
	}
	result.Stats.DecomposeTime = time.Since(decomposeStart)
	result.Stats.ComponentCount = len(comps)
	result.Components, result.Dropped = opts.Select(comps)

	opts.Logger.Info("decomposed components",
		"components", len(comps),
		"selected", len(result.Components),
		"duration", result.Stats.DecomposeTime)

	// Stage 3: Layout
	layoutStart := time.Now()
	if err := r.Layout(ctx, g, result.Components, opts); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Stats.LayoutTime = time.Since(layoutStart)

	opts.Logger.Info("laid out components",
		"components", len(result.Components),
		"workers", opts.Workers,
		"duration", result.Stats.LayoutTime)

	// Stage 4: Stats
	summary, err := stats.Summarize(g.Assembly())
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	result.Summary = summary

	// Stage 5: Persist
	persistStart := time.Now()
	rec := sink.NewAssemblyRecord(opts.RunID, summary, g.Assembly().DoubleStranded, groups)
	err = r.Persist(ctx, g, result.Components, rec, opts.RunID)
	result.Stats.PersistTime = time.Since(persistStart)
	observability.Pipeline().OnPersistComplete(ctx, backendName(r.Sink), len(result.Components), result.Stats.PersistTime, err)
	if err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}

	opts.Logger.Info("persisted run",
		"run", opts.RunID,
		"backend", backendName(r.Sink),
		"duration", result.Stats.PersistTime)

	return result, nil
}

// Close releases the sink.
func (r *Runner) Close() error {
	if r.Sink != nil {
		return r.Sink.Close()
	}
	return nil
}

// applyLogger falls back to the runner's logger when opts has none.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func groupCounts(res *motif.Result) map[string]int {
	counts := make(map[string]int, len(res.Counts))
	for kind, n := range res.Counts {
		counts[kind.String()] = n
	}
	return counts
}

func backendName(s sink.Sink) string {
	switch s.(type) {
	case *sink.Bolt:
		return "bolt"
	case *sink.Mongo:
		return "mongo"
	case *sink.Memory:
		return "memory"
	default:
		return fmt.Sprintf("%T", s)
	}
}
