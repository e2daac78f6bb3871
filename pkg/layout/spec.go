package layout

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/matzehuels/asmscope/pkg/asm"
	asmerr "github.com/matzehuels/asmscope/pkg/errors"
)

var (
	// ErrMissingItem is returned when a layout result lacks a node, group
	// placeholder or edge that was submitted for layout.
	ErrMissingItem = errors.New("item missing from layout result")

	// ErrMissingAttr is returned when a laid-out item lacks a required
	// attribute.
	ErrMissingAttr = errors.New("layout attribute missing")

	// ErrOddCoordinates is returned when an edge spline has an odd number
	// of coordinates.
	ErrOddCoordinates = errors.New("odd number of spline coordinates")

	// ErrBadNumber is returned for an attribute that is not a number list.
	ErrBadNumber = errors.New("malformed layout number")
)

// NodeSpec is one node submitted for layout. Sizes are in inches.
type NodeSpec struct {
	Name          string
	Width, Height float64
	Shape         string
	Label         string
	Fixed         bool // Keep the size even if the label does not fit
}

// EdgeSpec is one edge submitted for layout. Key identifies the edge in
// the [Result].
type EdgeSpec struct {
	Key      string
	From, To string
}

// Spec is the input of one layout run.
type Spec struct {
	Name  string
	Nodes []NodeSpec
	Edges []EdgeSpec
}

// Attrs holds the raw attributes of one laid-out item.
type Attrs map[string]string

// Result is the raw output of a layout run: graph attributes (bb), node
// attributes by node name (pos, width, height, shape) and edge attributes
// by edge key (pos).
type Result struct {
	Graph Attrs            `json:"graph"`
	Nodes map[string]Attrs `json:"nodes"`
	Edges map[string]Attrs `json:"edges"`
}

// NewResult returns an empty result ready to be filled.
func NewResult() *Result {
	return &Result{
		Graph: Attrs{},
		Nodes: map[string]Attrs{},
		Edges: map[string]Attrs{},
	}
}

// Engine computes a layout.
type Engine interface {
	Layout(ctx context.Context, spec *Spec) (*Result, error)
}

// EdgeKey returns the key under which an edge is submitted for layout.
func EdgeKey(id asm.EdgeID) string { return strconv.Itoa(int(id)) }

// PlaceholderName returns the node name of a group's opaque box in the
// global layout.
func PlaceholderName(grp *asm.Group) string { return "cluster_" + grp.Name }

func (r *Result) node(name string) (Attrs, error) {
	a, ok := r.Nodes[name]
	if !ok {
		return nil, asmerr.Wrap(asmerr.ErrCodeCorruptLayout, ErrMissingItem, "node %s", name)
	}
	return a, nil
}

func (r *Result) edge(key string) (Attrs, error) {
	a, ok := r.Edges[key]
	if !ok {
		return nil, asmerr.Wrap(asmerr.ErrCodeCorruptLayout, ErrMissingItem, "edge %s", key)
	}
	return a, nil
}

func (a Attrs) str(item, name string) (string, error) {
	v, ok := a[name]
	if !ok || v == "" {
		return "", asmerr.Wrap(asmerr.ErrCodeCorruptLayout, ErrMissingAttr, "%s: %s", item, name)
	}
	return v, nil
}

func (a Attrs) float(item, name string) (float64, error) {
	v, err := a.str(item, name)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, asmerr.Wrap(asmerr.ErrCodeCorruptLayout, ErrBadNumber, "%s: %s=%q", item, name, v)
	}
	return f, nil
}

// point reads an "x,y" attribute. A trailing "!" (pinned position) is
// ignored.
func (a Attrs) point(item, name string) (asm.Point, error) {
	v, err := a.str(item, name)
	if err != nil {
		return asm.Point{}, err
	}
	nums, err := parseNumbers(strings.TrimSuffix(v, "!"))
	if err != nil || len(nums) != 2 {
		return asm.Point{}, asmerr.Wrap(asmerr.ErrCodeCorruptLayout, ErrBadNumber, "%s: %s=%q", item, name, v)
	}
	return asm.Point{X: nums[0], Y: nums[1]}, nil
}

// bbox reads the graph's "llx,lly,urx,ury" bounding box.
func (r *Result) bbox() (ll, ur asm.Point, err error) {
	v, err := r.Graph.str("graph", "bb")
	if err != nil {
		return ll, ur, err
	}
	nums, err := parseNumbers(v)
	if err != nil || len(nums) != 4 {
		return ll, ur, asmerr.Wrap(asmerr.ErrCodeCorruptLayout, ErrBadNumber, "graph: bb=%q", v)
	}
	return asm.Point{X: nums[0], Y: nums[1]}, asm.Point{X: nums[2], Y: nums[3]}, nil
}

// ParseSpline parses an edge pos attribute into control points. The first
// space-separated token is the arrowhead marker and is discarded; the rest
// is a flat list of coordinates that must have even length.
func ParseSpline(pos string) ([]asm.Point, error) {
	i := strings.IndexByte(pos, ' ')
	if i < 0 {
		return nil, asmerr.Wrap(asmerr.ErrCodeCorruptLayout, ErrBadNumber, "spline %q", pos)
	}
	nums, err := parseNumbers(pos[i+1:])
	if err != nil {
		return nil, asmerr.Wrap(asmerr.ErrCodeCorruptLayout, ErrBadNumber, "spline %q", pos)
	}
	if len(nums)%2 != 0 {
		return nil, asmerr.Wrap(asmerr.ErrCodeCorruptLayout, ErrOddCoordinates, "%d coordinates", len(nums))
	}
	pts := make([]asm.Point, len(nums)/2)
	for k := range pts {
		pts[k] = asm.Point{X: nums[2*k], Y: nums[2*k+1]}
	}
	return pts, nil
}

func parseNumbers(s string) ([]float64, error) {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	nums := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		nums[i] = v
	}
	return nums, nil
}
