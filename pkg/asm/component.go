package asm

// BBox is the top-right extremum of a drawing region in points. The origin
// is fixed at (0, 0), so only the maxima are tracked and negative
// coordinates never shrink the box.
type BBox struct {
	Right, Top float64
}

// Expand returns the box grown to include (x, y). Expand is a pure maximum,
// so any sequence of expansions yields the same box regardless of order.
func (b BBox) Expand(x, y float64) BBox {
	if x > b.Right {
		b.Right = x
	}
	if y > b.Top {
		b.Top = y
	}
	return b
}

// Union returns the smallest box containing both b and o.
func (b BBox) Union(o BBox) BBox {
	return b.Expand(o.Right, o.Top)
}

// Component is one weakly connected part of the collapsed graph.
type Component struct {
	Rank   int        // 1 = most nodes
	Items  []Drawable // Drawable items in discovery order
	Nodes  []NodeID   // Every node, including group members, in discovery order
	Groups []GroupID  // Groups in discovery order

	NodeCount int // Number of nodes, including group members
	EdgeCount int // Number of edges, including interior edges
	Length    int // Total bp
	BBox      BBox
}

// SetRank assigns the rank to the component and to every node, edge and
// group it contains.
func (c *Component) SetRank(g *Graph, rank int) {
	c.Rank = rank
	for _, id := range c.Nodes {
		n := &g.nodes[id]
		n.Rank = rank
		for _, e := range n.Out {
			g.edges[e].Rank = rank
		}
	}
	for _, id := range c.Groups {
		g.groups[id].Rank = rank
	}
}

// Edges returns every edge of the component, ordered by source node.
func (c *Component) Edges(g *Graph) []EdgeID {
	var edges []EdgeID
	for _, id := range c.Nodes {
		edges = append(edges, g.nodes[id].Out...)
	}
	return edges
}
