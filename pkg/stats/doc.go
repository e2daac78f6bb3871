// Package stats computes assembly-wide summary statistics from the entity
// model: N50 over node lengths, GC content per sequence and per assembly,
// and DNA reverse complements.
//
// All functions are pure. Failures are explicit: [N50] of an empty list is
// an EMPTY_INPUT error, never a default value, and [ReverseComplement]
// rejects any base outside A, C, G and T.
package stats
