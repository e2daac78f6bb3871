// Package motif collapses structural motifs of an assembly graph into
// groups.
//
// [Classify] runs four passes in a fixed precedence order: bubbles, frayed
// ropes, cycles, chains. A node claimed by one pass is never reconsidered by
// a later pass or by a later candidate of the same pass, so groups are
// pairwise disjoint. Within a pass, nodes are tried in arena order, which
// makes the result deterministic for a given input.
//
// # Bubbles
//
// Bubble candidates come from a [bubble.Finder]. They are sorted by size,
// smallest first (the sort is stable), and accepted greedily when none of
// their members is claimed yet. Small bubbles therefore win over large ones
// that overlap them. A candidate with fewer than two members is skipped and
// reported in [Result.Skipped]; a candidate naming an unknown node aborts
// the run.
//
// # Frayed ropes
//
// A rope is found from a start node s with exactly one outgoing edge. Its
// target b0 begins the bottleneck, which extends along single edges
// b0 → b1 → … → bk while each next node has exactly one incoming edge.
// The sources are the in-neighbours of b0 and the sinks the out-neighbours
// of bk. A rope needs at least two sources, each with exactly one outgoing
// edge, and at least two sinks, each with exactly one incoming edge.
//
// # Cycles
//
// A cycle is found from a start node s by following each outgoing edge
// through nodes with one incoming and one outgoing edge until the walk
// returns to s. It needs at least two nodes.
//
// # Chains
//
// A chain is the maximal run through a node n with one outgoing edge,
// extended backwards and forwards across single edges whose target has one
// incoming edge. It needs at least two nodes.
package motif
