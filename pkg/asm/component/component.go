// Package component splits a collapsed assembly graph into weakly connected
// components.
//
// Groups are opaque: a traversal that reaches any member of a group reaches
// the whole group, and edges inside a group are not followed. Traversal is an
// explicit worklist, never recursion, so component size is bounded by memory
// only.
package component

import (
	"errors"
	"slices"

	"github.com/matzehuels/asmscope/pkg/asm"
	asmerr "github.com/matzehuels/asmscope/pkg/errors"
)

// ErrAlreadyTraversed is returned by [Decompose] when some node is not
// [asm.Unvisited]. Traversal state is single-use.
var ErrAlreadyTraversed = errors.New("graph already traversed")

// Decompose partitions the drawable items into components, ranked by node
// count with the largest first. Ties keep discovery order. Every item of
// drawable ends up in exactly one component; the items must cover every
// node of g.
func Decompose(g *asm.Graph, drawable []asm.Drawable) ([]*asm.Component, error) {
	for i := range g.NodeCount() {
		if g.Node(asm.NodeID(i)).Visit != asm.Unvisited {
			return nil, asmerr.Wrap(asmerr.ErrCodeInternal, ErrAlreadyTraversed, "decompose")
		}
	}

	var comps []*asm.Component
	for _, seed := range drawable {
		first := g.Members(seed)[0]
		if g.Node(first).Visit != asm.Unvisited {
			continue
		}
		comps = append(comps, collect(g, seed))
	}

	for i := range g.NodeCount() {
		if g.Node(asm.NodeID(i)).Visit != asm.Visited {
			return nil, asmerr.New(asmerr.ErrCodeReferential,
				"node %s is not covered by any drawable item", g.Node(asm.NodeID(i)).Name)
		}
	}

	slices.SortStableFunc(comps, func(a, b *asm.Component) int { return b.NodeCount - a.NodeCount })
	for i, c := range comps {
		c.SetRank(g, i+1)
	}
	g.Assembly().ComponentCount = len(comps)
	return comps, nil
}

// mark sets the traversal state of every member of item.
func mark(g *asm.Graph, item asm.Drawable, v asm.Visit) {
	for _, m := range g.Members(item) {
		g.Node(m).Visit = v
	}
}

// collect runs one worklist traversal from seed and returns its component.
func collect(g *asm.Graph, seed asm.Drawable) *asm.Component {
	c := &asm.Component{}
	stack := []asm.Drawable{seed}
	mark(g, seed, asm.Queued)

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		mark(g, item, asm.Visited)

		c.Items = append(c.Items, item)
		members := g.Members(item)
		c.Nodes = append(c.Nodes, members...)
		if gi, ok := item.(asm.GroupItem); ok {
			c.Groups = append(c.Groups, gi.ID)
		}

		for _, m := range members {
			n := g.Node(m)
			c.NodeCount++
			c.Length += n.Length
			c.EdgeCount += len(n.Out)
			for _, e := range n.Out {
				stack = push(g, stack, g.Edge(e).To)
			}
			for _, e := range n.In {
				stack = push(g, stack, g.Edge(e).From)
			}
		}
	}
	return c
}

// push queues the item holding node n unless it was queued or visited.
func push(g *asm.Graph, stack []asm.Drawable, n asm.NodeID) []asm.Drawable {
	if g.Node(n).Visit != asm.Unvisited {
		return stack
	}
	item := g.ItemOf(n)
	mark(g, item, asm.Queued)
	return append(stack, item)
}
