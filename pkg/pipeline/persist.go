package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/asmscope/pkg/asm"
	"github.com/matzehuels/asmscope/pkg/sink"
)

// =============================================================================
// Persist
// =============================================================================

// Persist writes one batch per component in the order given, then the
// assembly record. Each batch is written atomically by the sink; a failure
// stops the run with the earlier batches already written.
func (r *Runner) Persist(ctx context.Context, g *asm.Graph, comps []*asm.Component, rec *sink.AssemblyRecord, runID string) error {
	for _, comp := range comps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Sink.WriteComponent(ctx, sink.NewComponentRecord(runID, g, comp)); err != nil {
			return fmt.Errorf("component %d: %w", comp.Rank, err)
		}
	}
	if err := r.Sink.WriteAssembly(ctx, rec); err != nil {
		return fmt.Errorf("assembly: %w", err)
	}
	return nil
}
