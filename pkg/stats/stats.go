package stats

import (
	"errors"
	"slices"

	"github.com/matzehuels/asmscope/pkg/asm"
	asmerr "github.com/matzehuels/asmscope/pkg/errors"
)

var (
	// ErrNoLengths is returned by [N50] for an empty length list.
	ErrNoLengths = errors.New("no node lengths")

	// ErrInvalidBase is returned by [ReverseComplement] for a character
	// outside {A, C, G, T}.
	ErrInvalidBase = errors.New("invalid DNA base")
)

// N50 returns the length of the first node, in descending length order, at
// which the running sum of lengths reaches half the total.
func N50(lengths []int) (int, error) {
	if len(lengths) == 0 {
		return 0, asmerr.Wrap(asmerr.ErrCodeEmptyInput, ErrNoLengths, "n50")
	}
	sorted := slices.Clone(lengths)
	slices.SortFunc(sorted, func(a, b int) int { return b - a })

	total := 0
	for _, l := range sorted {
		total += l
	}
	// running >= total/2, kept in integers
	running := 0
	for _, l := range sorted {
		running += l
		if 2*running >= total {
			return l, nil
		}
	}
	return sorted[len(sorted)-1], nil
}

// GCContent returns the fraction of G and C bases in seq and their count.
// Lowercase bases count. An empty sequence has content 0.
func GCContent(seq string) (float64, int) {
	if len(seq) == 0 {
		return 0, 0
	}
	gc := 0
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'G', 'C', 'g', 'c':
			gc++
		}
	}
	return float64(gc) / float64(len(seq)), gc
}

var complement = [256]byte{'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C'}

// ReverseComplement returns the reverse complement of an uppercase DNA
// sequence. Any other character yields an INVALID_INPUT error wrapping
// [ErrInvalidBase].
func ReverseComplement(seq string) (string, error) {
	out := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		c := complement[seq[i]]
		if c == 0 {
			return "", asmerr.Wrap(asmerr.ErrCodeInvalidInput, ErrInvalidBase, "%q at position %d", seq[i], i)
		}
		out[len(seq)-1-i] = c
	}
	return string(out), nil
}

// AssemblyGC returns the GC fraction of a whole assembly: gcCount divided by
// the number of bases over all strands, where totalBP counts each contig
// once. ok is false when gcCount is nil (the input carried no DNA) or the
// assembly is empty.
func AssemblyGC(gcCount *int, totalBP int, double bool) (gc float64, ok bool) {
	if gcCount == nil || totalBP == 0 {
		return 0, false
	}
	strands := 1
	if double {
		strands = 2
	}
	return float64(*gcCount) / float64(strands*totalBP), true
}

// Summary is the assembly-wide statistics record.
type Summary struct {
	FileName       string
	FileType       string
	NodeCount      int
	EdgeCount      int
	ComponentCount int
	TotalLength    int
	N50            int
	GC             *float64 // nil when unavailable
}

// Summarize computes the summary record of an assembly. It fails with an
// EMPTY_INPUT error when the assembly has no nodes.
func Summarize(a *asm.Assembly) (Summary, error) {
	n50, err := N50(a.Lengths)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{
		FileName:       a.FileName,
		FileType:       a.FileType,
		NodeCount:      a.NodeCount,
		EdgeCount:      a.EdgeCount,
		ComponentCount: a.ComponentCount,
		TotalLength:    a.TotalLength,
		N50:            n50,
	}
	if gc, ok := AssemblyGC(a.GCCount, a.TotalLength, a.DoubleStranded); ok {
		s.GC = &gc
	}
	return s, nil
}
