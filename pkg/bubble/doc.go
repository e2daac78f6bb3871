// Package bubble proposes bubble candidates for the motif classifier.
//
// A candidate is one group of node names that may form a bubble. The
// classifier decides which candidates to accept; finders only propose.
// Three finders implement [Finder]:
//
//   - [Exec] runs the external spqr program, which proposes the biconnected
//     components of the graph split at two-vertex cuts
//   - [Simple] proposes simple source/sink bubbles found natively
//   - [Static] returns a fixed candidate list, for fixtures and for
//     candidates computed ahead of time (see [ReadFile])
//
// # Candidate format
//
// Candidates are exchanged as text, one candidate per line and
// whitespace-separated node names per candidate:
//
//	12	15	12	13	14	15
//
// spqr writes the separation pair (source and sink) first and then every
// member, so names repeat; [Candidate.Members] collapses repeats.
package bubble
