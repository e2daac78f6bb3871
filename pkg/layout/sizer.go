package layout

import (
	"math"

	"github.com/matzehuels/asmscope/pkg/asm"
)

// Default node sizes in inches.
const (
	DefaultMinWidth = 0.3
	DefaultMaxWidth = 2.5
	nodeHeight      = 0.3

	// refLength is the length in bp that reaches the maximum width.
	refLength = 1_000_000
)

// Sizer converts contig lengths to node sizes. Width grows with the
// logarithm of the length between MinWidth and MaxWidth.
type Sizer struct {
	MinWidth, MaxWidth float64
}

// DefaultSizer returns a Sizer with the default width range.
func DefaultSizer() Sizer {
	return Sizer{MinWidth: DefaultMinWidth, MaxWidth: DefaultMaxWidth}
}

// Width returns the node width in inches for a contig of length bp.
func (s Sizer) Width(length int) float64 {
	if length <= 0 {
		return s.MinWidth
	}
	frac := math.Log10(float64(length)+1) / math.Log10(refLength+1)
	w := s.MinWidth + frac*(s.MaxWidth-s.MinWidth)
	return math.Min(math.Max(w, s.MinWidth), s.MaxWidth)
}

// Shape returns the arrow-like shape pointing along the strand.
func (s Sizer) Shape(n *asm.Node) string {
	if n.Reverse {
		return "invhouse"
	}
	return "house"
}

// NodeSpec returns the layout spec of one node.
func (s Sizer) NodeSpec(n *asm.Node) NodeSpec {
	return NodeSpec{
		Name:   n.Name,
		Width:  s.Width(n.Length),
		Height: nodeHeight,
		Shape:  s.Shape(n),
		Label:  n.Name,
		Fixed:  true,
	}
}
