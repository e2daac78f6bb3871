package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/asmscope/pkg/asm/component"
	"github.com/matzehuels/asmscope/pkg/parse"
	"github.com/matzehuels/asmscope/pkg/sink"
	"github.com/matzehuels/asmscope/pkg/stats"
)

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	var (
		single bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "stats [graph-file]",
		Short: "Print assembly statistics of a graph file",
		Long: `Print node and edge counts, total length, N50, GC content and the number
of connected components of an assembly graph without laying it out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(cmd.Context(), args[0], single, asJSON)
		},
	}

	cmd.Flags().BoolVar(&single, "single", false, "single-strand mode: no reverse-complement nodes")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")

	return cmd
}

// summarize parses the file and computes its statistics. Grouping never
// changes connectivity, so components are counted over the plain nodes.
func summarize(ctx context.Context, input string, single bool) (stats.Summary, bool, error) {
	g, err := parse.File(ctx, input, parse.Options{SingleStrand: single, NoDNA: true, Logger: loggerFromContext(ctx)})
	if err != nil {
		return stats.Summary{}, false, err
	}
	if _, err := component.Decompose(g, g.Drawables()); err != nil {
		return stats.Summary{}, false, err
	}
	s, err := stats.Summarize(g.Assembly())
	return s, g.Assembly().DoubleStranded, err
}

// runStats prints the summary of one graph file.
func (c *CLI) runStats(ctx context.Context, input string, single, asJSON bool) error {
	prog := newProgress(loggerFromContext(ctx))
	s, double, err := summarize(ctx, input, single)
	if err != nil {
		return fmt.Errorf("summarize %s: %w", input, err)
	}
	prog.done("Summarized "+filepath.Base(input), "nodes", s.NodeCount, "components", s.ComponentCount)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sink.NewAssemblyRecord("", s, double, nil))
	}
	printSummary(s)
	return nil
}
