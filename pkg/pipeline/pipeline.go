// Package pipeline provides the collation pipeline of asmscope.
//
// This package implements the complete classify → decompose → layout →
// stats → persist flow over a parsed assembly graph. The CLI and the tests
// drive the same Runner, so every entry point behaves the same way.
//
// # Architecture
//
// The pipeline consists of these stages:
//
//  1. Parse (optional): read a GFA, LastGraph or GML file
//  2. Classify: collapse bubbles, frayed ropes, cycles and chains into groups
//  3. Decompose: split the collapsed graph into ranked components
//  4. Layout: lay out every component, in parallel when Workers > 1
//  5. Stats: compute the assembly summary
//  6. Persist: write every component batch in rank order, then the summary
//
// Nothing is persisted unless every earlier stage succeeded for every
// component.
//
// # Usage
//
//	runner := pipeline.NewRunner(layout.Graphviz{}, bubble.Simple{}, db, logger)
//	result, err := runner.ExecuteFile(ctx, "reads.gfa", parse.Options{}, pipeline.Options{
//	    Workers: 4,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary.N50)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/asmscope/pkg/asm"
	"github.com/matzehuels/asmscope/pkg/asm/motif"
	asmerr "github.com/matzehuels/asmscope/pkg/errors"
	"github.com/matzehuels/asmscope/pkg/layout"
	"github.com/matzehuels/asmscope/pkg/stats"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWorkers is the number of components laid out concurrently.
	DefaultWorkers = 1

	// DefaultMinComponentSize is the smallest component, in nodes, that is
	// laid out and persisted.
	DefaultMinComponentSize = 1
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Layout options
	PointsPerInch    float64      // Defaults to layout.DefaultPointsPerInch
	Sizer            layout.Sizer // Zero value means layout.DefaultSizer
	MaxComponents    int          // Lay out only the largest N components; 0 = all
	MinComponentSize int          // Skip components with fewer nodes
	Workers          int          // Concurrent component layouts

	// RunID tags every persisted record. Defaults to a fresh UUID.
	RunID string

	// Logger defaults to the runner's logger.
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID tags the persisted records of this run.
	RunID string

	// Graph is the classified and laid out assembly graph.
	Graph *asm.Graph

	// Classification holds the groups and skipped candidates.
	Classification *motif.Result

	// Components are the laid out and persisted components in rank order.
	Components []*asm.Component

	// Dropped is the number of components excluded by MaxComponents or
	// MinComponentSize.
	Dropped int

	// Summary is the assembly-wide statistics record.
	Summary stats.Summary

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount      int
	EdgeCount      int
	GroupCount     int
	ComponentCount int
	ParseTime      time.Duration
	ClassifyTime   time.Duration
	DecomposeTime  time.Duration
	LayoutTime     time.Duration
	PersistTime    time.Duration
}

// Total returns the sum of all stage durations.
func (s Stats) Total() time.Duration {
	return s.ParseTime + s.ClassifyTime + s.DecomposeTime + s.LayoutTime + s.PersistTime
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks value ranges and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.PointsPerInch < 0 {
		return asmerr.New(asmerr.ErrCodeInvalidInput, "points per inch must not be negative")
	}
	if o.MaxComponents < 0 {
		return asmerr.New(asmerr.ErrCodeInvalidInput, "max components must not be negative")
	}
	if o.MinComponentSize < 0 {
		return asmerr.New(asmerr.ErrCodeInvalidInput, "min component size must not be negative")
	}
	if o.Workers < 0 {
		return asmerr.New(asmerr.ErrCodeInvalidInput, "workers must not be negative")
	}
	if s := o.Sizer; s != (layout.Sizer{}) && (s.MinWidth <= 0 || s.MaxWidth < s.MinWidth) {
		return asmerr.New(asmerr.ErrCodeInvalidInput, "node widths must satisfy 0 < min <= max, got %g and %g", s.MinWidth, s.MaxWidth)
	}
	o.SetLayoutDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for component layout.
func (o *Options) SetLayoutDefaults() {
	if o.PointsPerInch == 0 {
		o.PointsPerInch = layout.DefaultPointsPerInch
	}
	if o.Sizer == (layout.Sizer{}) {
		o.Sizer = layout.DefaultSizer()
	}
	if o.MinComponentSize == 0 {
		o.MinComponentSize = DefaultMinComponentSize
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
}

// LayoutOptions returns the options passed to the layout reconciler.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{PointsPerInch: o.PointsPerInch, Sizer: o.Sizer}
}

// Select returns the components that are laid out and the number dropped.
// Components arrive in rank order, so the selection is a prefix.
func (o *Options) Select(comps []*asm.Component) ([]*asm.Component, int) {
	n := 0
	for _, c := range comps {
		if c.NodeCount < o.MinComponentSize {
			break
		}
		if o.MaxComponents > 0 && n == o.MaxComponents {
			break
		}
		n++
	}
	return comps[:n], len(comps) - n
}
