package asm

import (
	"errors"

	asmerr "github.com/matzehuels/asmscope/pkg/errors"
)

var (
	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same name already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrNegativeLength is returned by [Graph.AddNode] for a node with a
	// negative base-pair length.
	ErrNegativeLength = errors.New("node length must not be negative")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the source
	// node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the target
	// node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUnknownNode is returned when a node index or name does not resolve
	// to a node of the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrFrozen is returned by [Graph.AddNode] and [Graph.AddEdge] after
	// [Graph.Freeze] has been called.
	ErrFrozen = errors.New("graph is frozen")
)

// NodeID is the arena index of a node.
type NodeID int

// EdgeID is the arena index of an edge.
type EdgeID int

// GroupID is the arena index of a group.
type GroupID int

// NoGroup marks a node or edge that no group has claimed.
const NoGroup GroupID = -1

// Visit is the traversal state of a node during component decomposition.
type Visit uint8

const (
	// Unvisited nodes have not been reached by any traversal.
	Unvisited Visit = iota
	// Queued nodes sit on the traversal stack.
	Queued
	// Visited nodes have been popped and assigned to a component.
	Visited
)

// Node is one contig or contig strand.
//
// [Graph.AddNode] reads only the first block of fields. The rest are owned by
// later pipeline stages.
type Node struct {
	Name     string   // Unique identifier; "-name" is the reverse strand of "name"
	Length   int      // Length in base pairs
	Reverse  bool     // Reverse-complement strand
	Sequence string   // DNA sequence, empty when not stored
	GC       *float64 // GC fraction of Sequence, nil when unknown
	Depth    *float64 // Coverage depth, nil when unknown

	Out   []EdgeID // Outgoing edges in insertion order
	In    []EdgeID // Incoming edges in insertion order
	Group GroupID  // Owning group or NoGroup
	Visit Visit    // Traversal state

	X, Y          float64 // Absolute center in points
	Width, Height float64 // Size in inches
	Shape         string  // Layout shape name
	Rank          int     // Component rank, 0 until decomposed
	RelX, RelY    float64 // Center relative to the owning group's lower-left corner
}

// Edge is a directed adjacency or scaffold link between two nodes.
type Edge struct {
	From, To     NodeID
	Multiplicity int      // Arc multiplicity or bundle size, 0 when unknown
	Orientation  string   // Scaffold link orientation, empty when unknown
	Mean         *float64 // Scaffold link mean distance
	Stdev        *float64 // Scaffold link standard deviation

	Group     GroupID // Owning group when both endpoints are its members
	Rank      int     // Component rank, 0 until decomposed
	Points    []Point // Absolute control points
	RelPoints []Point // Control points relative to the owning group
}

// Point is one layout coordinate in points.
type Point struct {
	X, Y float64
}

// Link is an edge reduced to its endpoint names.
type Link struct {
	From, To string
}

// Graph is the arena owning every record of one assembly graph.
//
// The zero value is not usable; create graphs with [New].
type Graph struct {
	nodes  []Node
	edges  []Edge
	groups []Group
	byName map[string]NodeID
	seq    [kindCount]int
	frozen bool
	info   Assembly
}

// New creates an empty graph carrying the given assembly description.
func New(info Assembly) *Graph {
	return &Graph{
		byName: make(map[string]NodeID),
		info:   info,
	}
}

// Assembly returns the graph's assembly-wide totals.
func (g *Graph) Assembly() *Assembly { return &g.info }

// AddNode adds a node and returns its index. The layout and state fields of
// n are reset. It returns an INVALID_INPUT error for a malformed name,
// [ErrNegativeLength], [ErrDuplicateNodeID] or [ErrFrozen].
func (g *Graph) AddNode(n Node) (NodeID, error) {
	if g.frozen {
		return 0, ErrFrozen
	}
	if err := asmerr.ValidateNodeName(n.Name); err != nil {
		return 0, err
	}
	if n.Length < 0 {
		return 0, asmerr.Wrap(asmerr.ErrCodeInvalidInput, ErrNegativeLength, "node %s", n.Name)
	}
	if _, exists := g.byName[n.Name]; exists {
		return 0, asmerr.Wrap(asmerr.ErrCodeInvalidInput, ErrDuplicateNodeID, "node %s", n.Name)
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{
		Name:     n.Name,
		Length:   n.Length,
		Reverse:  n.Reverse,
		Sequence: n.Sequence,
		GC:       n.GC,
		Depth:    n.Depth,
		Group:    NoGroup,
	})
	g.byName[n.Name] = id
	return id, nil
}

// AddEdge adds a directed edge between two existing nodes named from and to.
// The From, To and layout fields of e are ignored. Missing endpoints yield a
// REFERENTIAL error wrapping [ErrUnknownSourceNode] or
// [ErrUnknownTargetNode].
//
// Parallel edges and self-loops are allowed.
func (g *Graph) AddEdge(from, to string, e Edge) (EdgeID, error) {
	if g.frozen {
		return 0, ErrFrozen
	}
	src, ok := g.byName[from]
	if !ok {
		return 0, asmerr.Wrap(asmerr.ErrCodeReferential, ErrUnknownSourceNode, "edge %s -> %s", from, to)
	}
	dst, ok := g.byName[to]
	if !ok {
		return 0, asmerr.Wrap(asmerr.ErrCodeReferential, ErrUnknownTargetNode, "edge %s -> %s", from, to)
	}
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, Edge{
		From:         src,
		To:           dst,
		Multiplicity: e.Multiplicity,
		Orientation:  e.Orientation,
		Mean:         e.Mean,
		Stdev:        e.Stdev,
		Group:        NoGroup,
	})
	g.nodes[src].Out = append(g.nodes[src].Out, id)
	g.nodes[dst].In = append(g.nodes[dst].In, id)
	return id, nil
}

// Freeze finalizes the graph. Later calls to AddNode and AddEdge fail with
// [ErrFrozen]. Freeze is idempotent.
func (g *Graph) Freeze() { g.frozen = true }

// Frozen reports whether [Graph.Freeze] has been called.
func (g *Graph) Frozen() bool { return g.frozen }

// Lookup returns the index of the node with the given name.
func (g *Graph) Lookup(name string) (NodeID, bool) {
	id, ok := g.byName[name]
	return id, ok
}

// Resolve is like Lookup but returns a REFERENTIAL error for unknown names.
func (g *Graph) Resolve(name string) (NodeID, error) {
	id, ok := g.byName[name]
	if !ok {
		return 0, asmerr.Wrap(asmerr.ErrCodeReferential, ErrUnknownNode, "node %s", name)
	}
	return id, nil
}

// Node returns the node at id. It panics if id is out of range.
func (g *Graph) Node(id NodeID) *Node { return &g.nodes[id] }

// Edge returns the edge at id. It panics if id is out of range.
func (g *Graph) Edge(id EdgeID) *Edge { return &g.edges[id] }

// NodeCount returns the number of nodes in the arena.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the arena.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// HasNode reports whether id indexes a node of the graph.
func (g *Graph) HasNode(id NodeID) bool { return id >= 0 && int(id) < len(g.nodes) }

// OutDegree returns the number of outgoing edges of id.
func (g *Graph) OutDegree(id NodeID) int { return len(g.nodes[id].Out) }

// InDegree returns the number of incoming edges of id.
func (g *Graph) InDegree(id NodeID) int { return len(g.nodes[id].In) }

// Successors returns the targets of id's outgoing edges, one entry per edge.
func (g *Graph) Successors(id NodeID) []NodeID {
	out := make([]NodeID, len(g.nodes[id].Out))
	for i, e := range g.nodes[id].Out {
		out[i] = g.edges[e].To
	}
	return out
}

// Predecessors returns the sources of id's incoming edges, one entry per edge.
func (g *Graph) Predecessors(id NodeID) []NodeID {
	in := make([]NodeID, len(g.nodes[id].In))
	for i, e := range g.nodes[id].In {
		in[i] = g.edges[e].From
	}
	return in
}

// Links returns every edge as a pair of endpoint names, ordered by source
// node and then by the source's outgoing edge order.
func (g *Graph) Links() []Link {
	links := make([]Link, 0, len(g.edges))
	for i := range g.nodes {
		for _, e := range g.nodes[i].Out {
			links = append(links, Link{From: g.nodes[i].Name, To: g.nodes[g.edges[e].To].Name})
		}
	}
	return links
}
