package asm

import (
	"errors"
	"strconv"

	asmerr "github.com/matzehuels/asmscope/pkg/errors"
)

var (
	// ErrAlreadyClaimed is returned by [Graph.NewGroup] when a member node
	// already belongs to a group.
	ErrAlreadyClaimed = errors.New("node already belongs to a group")

	// ErrGroupTooSmall is returned by [Graph.NewGroup] for fewer than two
	// distinct members.
	ErrGroupTooSmall = errors.New("group needs at least two members")

	// ErrInvalidKind is returned by [Graph.NewGroup] for an unknown kind.
	ErrInvalidKind = errors.New("invalid group kind")
)

// Kind tags the motif a group collapses.
type Kind uint8

const (
	// Bubble is one source fanning out over parallel paths into one sink.
	Bubble Kind = iota + 1
	// Rope is a frayed rope: several sources and sinks around a bottleneck.
	Rope
	// Cycle is a simple directed loop of unit-degree nodes.
	Cycle
	// Chain is an unbranched linear run of unit-degree nodes.
	Chain

	kindCount = iota + 1
)

var kindPrefixes = [kindCount]string{Bubble: "B", Rope: "R", Cycle: "Y", Chain: "C"}

var kindNames = [kindCount]string{Bubble: "bubble", Rope: "rope", Cycle: "cycle", Chain: "chain"}

// Valid reports whether k is one of the four group kinds.
func (k Kind) Valid() bool { return k >= Bubble && k <= Chain }

// Prefix returns the one-letter prefix of group names of this kind.
func (k Kind) Prefix() string {
	if !k.Valid() {
		return ""
	}
	return kindPrefixes[k]
}

func (k Kind) String() string {
	if !k.Valid() {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Group is a collapsed motif drawn as one opaque box in the global layout.
type Group struct {
	ID      GroupID
	Kind    Kind
	Name    string   // Kind prefix followed by a per-kind sequence number
	Members []NodeID // Member nodes in acceptance order
	Edges   []EdgeID // Interior edges: both endpoints are members
	Length  int      // Total bp of all members

	Width, Height float64 // Local layout size in inches

	X, Y                     float64 // Absolute center in points
	Left, Bottom, Right, Top float64 // Absolute extent in points
	Rank                     int     // Component rank, 0 until decomposed
}

// NodeCount returns the number of member nodes.
func (gr *Group) NodeCount() int { return len(gr.Members) }

// EdgeCount returns the number of interior edges.
func (gr *Group) EdgeCount() int { return len(gr.Edges) }

// NewGroup claims members for a new group of the given kind and returns its
// index. Either every member is claimed or none is: unknown members yield a
// REFERENTIAL error, claimed members [ErrAlreadyClaimed]. Repeated members
// are collapsed; fewer than two distinct members yield [ErrGroupTooSmall].
//
// Every edge whose endpoints are both members becomes an interior edge of
// the group.
func (g *Graph) NewGroup(kind Kind, members []NodeID) (GroupID, error) {
	if !kind.Valid() {
		return 0, asmerr.Wrap(asmerr.ErrCodeInternal, ErrInvalidKind, "%s", kind)
	}
	unique := make([]NodeID, 0, len(members))
	seen := make(map[NodeID]bool, len(members))
	for _, m := range members {
		if !g.HasNode(m) {
			return 0, asmerr.Wrap(asmerr.ErrCodeReferential, ErrUnknownNode, "%s member %d", kind, m)
		}
		if g.nodes[m].Group != NoGroup {
			return 0, asmerr.Wrap(asmerr.ErrCodeInternal, ErrAlreadyClaimed, "%s member %s", kind, g.nodes[m].Name)
		}
		if !seen[m] {
			seen[m] = true
			unique = append(unique, m)
		}
	}
	if len(unique) < 2 {
		return 0, asmerr.Wrap(asmerr.ErrCodeInternal, ErrGroupTooSmall, "%s with %d members", kind, len(unique))
	}

	id := GroupID(len(g.groups))
	g.seq[kind]++
	grp := Group{
		ID:      id,
		Kind:    kind,
		Name:    kind.Prefix() + strconv.Itoa(g.seq[kind]),
		Members: unique,
	}
	for _, m := range unique {
		g.nodes[m].Group = id
		grp.Length += g.nodes[m].Length
	}
	for _, m := range unique {
		for _, e := range g.nodes[m].Out {
			if seen[g.edges[e].To] {
				g.edges[e].Group = id
				grp.Edges = append(grp.Edges, e)
			}
		}
	}
	g.groups = append(g.groups, grp)
	return id, nil
}

// Group returns the group at id. It panics if id is out of range.
func (g *Graph) Group(id GroupID) *Group { return &g.groups[id] }

// GroupCount returns the number of groups created so far.
func (g *Graph) GroupCount() int { return len(g.groups) }

// Claimed reports whether a group has claimed the node.
func (g *Graph) Claimed(id NodeID) bool { return g.nodes[id].Group != NoGroup }
