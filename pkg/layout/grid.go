package layout

import (
	"context"
	"errors"
	"strconv"

	asmerr "github.com/matzehuels/asmscope/pkg/errors"
)

// ErrUnknownEndpoint is returned by [Grid] for an edge whose endpoint is
// not a node of the [Spec].
var ErrUnknownEndpoint = errors.New("edge endpoint not in spec")

// gridGap is the horizontal space between nodes in points.
const gridGap = 18.0

// Grid is a dependency-free engine that places nodes left to right on one
// rank in spec order, bottom-aligned, and draws every edge as a straight
// spline between node centers. It is meant for quick previews and for
// environments where Graphviz output is not needed.
type Grid struct {
	PointsPerInch float64 // Defaults to DefaultPointsPerInch
}

// Name identifies the engine in cache keys. Positions are in points, so
// the name carries the points-per-inch value.
func (e Grid) Name() string { return "grid@" + fmtNum(e.ppi()) }

func (e Grid) ppi() float64 {
	if e.PointsPerInch <= 0 {
		return DefaultPointsPerInch
	}
	return e.PointsPerInch
}

// Layout places the nodes of spec.
func (e Grid) Layout(ctx context.Context, spec *Spec) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ppi := e.ppi()

	res := NewResult()
	centers := make(map[string][2]float64, len(spec.Nodes))
	var right, top float64
	for i, n := range spec.Nodes {
		if i > 0 {
			right += gridGap
		}
		w, h := n.Width*ppi, n.Height*ppi
		x, y := right+w/2, h/2
		right += w
		top = max(top, h)
		centers[n.Name] = [2]float64{x, y}
		res.Nodes[n.Name] = Attrs{
			"pos":    fmtPair(x, y),
			"width":  fmtNum(n.Width),
			"height": fmtNum(n.Height),
			"shape":  n.Shape,
		}
	}

	for _, ed := range spec.Edges {
		from, ok := centers[ed.From]
		if !ok {
			return nil, asmerr.Wrap(asmerr.ErrCodeCollaborator, ErrUnknownEndpoint, "edge %s: %s", ed.Key, ed.From)
		}
		to, ok := centers[ed.To]
		if !ok {
			return nil, asmerr.Wrap(asmerr.ErrCodeCollaborator, ErrUnknownEndpoint, "edge %s: %s", ed.Key, ed.To)
		}
		head := fmtPair(to[0], to[1])
		tail := fmtPair(from[0], from[1])
		res.Edges[ed.Key] = Attrs{"pos": "e," + head + " " + tail + " " + tail + " " + head + " " + head}
	}

	res.Graph["bb"] = "0,0," + fmtNum(right) + "," + fmtNum(top)
	return res, nil
}

func fmtNum(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func fmtPair(x, y float64) string { return fmtNum(x) + "," + fmtNum(y) }
