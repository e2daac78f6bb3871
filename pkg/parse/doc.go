// Package parse reads assembly graph files into an [asm.Graph].
//
// # Formats
//
// Three formats are supported, selected by file extension:
//
//   - GFA (.gfa): S (segment) and L (link) lines. A segment without a
//     sequence ("*") takes its length from the LN:i: tag.
//   - Velvet LastGraph (.lastgraph): NODE blocks followed by their forward
//     and reverse sequences, and ARC lines.
//   - Bambus GML (.gml): node and edge blocks with scaffold link
//     orientation, bundle size, mean and standard deviation. GML carries
//     no DNA.
//
// # Strands
//
// GFA and LastGraph describe both strands of every contig. By default
// each contig becomes two nodes, "id" and "-id", and every link also adds
// its implied reverse link (-B to -A). A link that implies itself is added
// once. With [Options.SingleStrand] only the forward nodes are created and
// link orientations are ignored.
//
// # Usage
//
//	g, err := parse.File("assembly.gfa", parse.Options{NoDNA: true})
//	if err != nil {
//	    return err
//	}
//
// The returned graph is frozen and its [asm.Assembly] totals are final.
package parse
