package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/asmscope/pkg/asm"
	"github.com/matzehuels/asmscope/pkg/layout"
	"github.com/matzehuels/asmscope/pkg/observability"
)

// =============================================================================
// Layout
// =============================================================================

// Layout lays out and reconciles every component, up to opts.Workers at a
// time. Components touch disjoint records of g, so they never race. The
// first failure cancels the remaining layouts and is returned.
func (r *Runner) Layout(ctx context.Context, g *asm.Graph, comps []*asm.Component, opts Options) error {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	lopts := opts.LayoutOptions()

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Workers)
	for _, comp := range comps {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			hooks := observability.Pipeline()
			hooks.OnLayoutStart(ctx, comp.Rank, len(comp.Items))
			start := time.Now()
			err := layout.Component(ctx, r.Engine, g, comp, lopts)
			hooks.OnLayoutComplete(ctx, comp.Rank, time.Since(start), err)
			if err != nil {
				return err
			}
			opts.Logger.Debug("laid out component",
				"rank", comp.Rank,
				"nodes", comp.NodeCount,
				"groups", len(comp.Groups),
				"width", comp.BBox.Right,
				"height", comp.BBox.Top,
				"duration", time.Since(start))
			return nil
		})
	}
	return eg.Wait()
}
