// Package sink persists collation results.
//
// A run produces one [ComponentRecord] per laid-out component and one
// [AssemblyRecord]. A component record is the all-or-nothing batch of its
// node, edge and cluster records: a [Sink] stores it atomically or not at
// all. Every record of a run carries the same run id.
//
// Three sinks are provided:
//
//   - [Bolt] writes a single-file bbolt database, one transaction per
//     component. [OpenBoltReader] reads it back for the HTTP API.
//   - [Mongo] writes one document per component into MongoDB.
//   - [Memory] keeps records in memory, for tests and embedding.
package sink
