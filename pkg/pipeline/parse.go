package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/asmscope/pkg/parse"
)

// =============================================================================
// Parse
// =============================================================================

// ExecuteFile parses the assembly graph at path and runs [Runner.Execute]
// over it. The parse logger defaults to the pipeline logger.
func (r *Runner) ExecuteFile(ctx context.Context, path string, popts parse.Options, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if popts.Logger == nil {
		popts.Logger = opts.Logger
	}

	parseStart := time.Now()
	g, err := parse.File(ctx, path, popts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	parseTime := time.Since(parseStart)

	opts.Logger.Info("parsed assembly graph",
		"file", g.Assembly().FileName,
		"type", g.Assembly().FileType,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", parseTime)

	result, err := r.Execute(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.ParseTime = parseTime
	return result, nil
}
