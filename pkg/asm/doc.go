// Package asm provides the entity model of an assembly graph: an arena that
// owns every node, edge and group record of one parsed assembly.
//
// # Overview
//
// An assembly graph has contigs (or strands of contigs) as nodes and
// adjacencies or scaffold links as edges. The collation pipeline reads the
// graph once, collapses recognizable motifs into [Group] records, splits the
// collapsed graph into connected components and lays each component out.
// Every stage reads and writes the same records, so the records live in one
// arena, [Graph], and every cross reference is an index into it:
//
//	g := asm.New(asm.Assembly{FileName: "reads.gfa", FileType: "GFA"})
//	a, _ := g.AddNode(asm.Node{Name: "1", Length: 120})
//	b, _ := g.AddNode(asm.Node{Name: "2", Length: 80})
//	g.AddEdge("1", "2", asm.Edge{Multiplicity: 3})
//	g.Freeze()
//
// [NodeID], [EdgeID] and [GroupID] are positions in the arena. They are
// stable for the lifetime of the graph and never reused.
//
// # Node state
//
// Two explicit state machines replace ad hoc flags on nodes:
//
//   - classification: [NoGroup] (unclaimed) becomes a [GroupID] exactly once,
//     through [Graph.NewGroup]; a second claim fails with [ErrAlreadyClaimed]
//   - traversal: [Unvisited] → [Queued] → [Visited], driven by the component
//     decomposer
//
// # Drawable items
//
// After classification the graph is drawn as a set of [Drawable] items: a
// [NodeItem] for every node no group claimed, and a [GroupItem] for every
// group. Drawable is a closed union; consumers switch over the two variants
// and use [Group.Kind] to tell bubbles, ropes, cycles and chains apart.
//
// # Assembly totals
//
// Parsers accumulate file-wide totals in the graph's [Assembly] record with
// [Assembly.RecordNode], [Assembly.RecordEdge] and [Assembly.RecordGC].
// [Graph.Freeze] finalizes them; afterwards the graph accepts no new nodes
// or edges and the totals are read-only.
//
// # Concurrency
//
// Graph is not safe for concurrent mutation. The layout stage may process
// different components concurrently because components touch disjoint
// records.
package asm
