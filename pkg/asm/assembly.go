package asm

// Assembly holds file-wide totals accumulated while parsing.
//
// NodeCount, TotalLength and EdgeCount count each contig or link once, even
// when dual-strand mode adds a mirrored node or edge for it. Lengths has one
// entry per node of the graph, so a mirrored contig appears twice.
type Assembly struct {
	FileName       string
	FileType       string
	NodeCount      int
	EdgeCount      int
	ComponentCount int
	TotalLength    int
	GCCount        *int  // Total G/C bases over all stored strands; nil when the input has no DNA
	Lengths        []int // Node lengths in bp, used for N50
	DoubleStranded bool
}

// RecordNode counts one contig of the given length. When mirrored is true
// the contig's reverse strand was added as a second node.
func (a *Assembly) RecordNode(length int, mirrored bool) {
	a.NodeCount++
	a.TotalLength += length
	a.Lengths = append(a.Lengths, length)
	if mirrored {
		a.Lengths = append(a.Lengths, length)
	}
}

// RecordEdge counts one link of the input file.
func (a *Assembly) RecordEdge() { a.EdgeCount++ }

// RecordGC adds gc G/C bases to the running count.
func (a *Assembly) RecordGC(gc int) {
	if a.GCCount == nil {
		a.GCCount = new(int)
	}
	*a.GCCount += gc
}

// NoSequence marks the input as carrying no DNA, so GC content is
// unavailable.
func (a *Assembly) NoSequence() { a.GCCount = nil }

// Strands returns the number of strands each contig contributes: 2 in
// dual-strand mode, 1 otherwise.
func (a *Assembly) Strands() int {
	if a.DoubleStranded {
		return 2
	}
	return 1
}
