package parse

import (
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/asmscope/pkg/asm"
	asmerr "github.com/matzehuels/asmscope/pkg/errors"
	"github.com/matzehuels/asmscope/pkg/stats"
)

// LastGraph parses Velvet LastGraph files. Each NODE line is followed by
// the forward and the reverse sequence of the node. One ARC line stands for
// the arc A -> B and its implied arc -B -> -A.
type LastGraph struct{}

func (LastGraph) Type() string              { return "LastGraph" }
func (LastGraph) Supports(name string) bool { return hasSuffixFold(name, "lastgraph") }

func (LastGraph) Parse(r io.Reader, b *Builder) error {
	b.RecordGC(0)
	var (
		cur     *Contig
		fwdDone bool
	)
	err := b.scan(r, func(line string) error {
		switch {
		case strings.HasPrefix(line, "NODE"):
			if cur != nil {
				return b.errf(asmerr.Wrap(asmerr.ErrCodeInvalidInput, ErrIncompleteNode, "node %s", cur.Name))
			}
			c, err := lastGraphNode(b, strings.Fields(line))
			if err != nil {
				return err
			}
			cur, fwdDone = c, false
		case strings.HasPrefix(line, "ARC"):
			return lastGraphArc(b, strings.Fields(line))
		case cur != nil && !fwdDone:
			cur.Sequence = strings.TrimSpace(line)
			gc, count := stats.GCContent(cur.Sequence)
			cur.GC = &gc
			b.RecordGC(count)
			fwdDone = true
		case cur != nil:
			cur.RevSequence = strings.TrimSpace(line)
			gc, count := stats.GCContent(cur.RevSequence)
			cur.RevGC = &gc
			if b.Double() {
				b.RecordGC(count)
			}
			if err := b.AddContig(*cur); err != nil {
				return err
			}
			cur = nil
		}
		return nil
	})
	if err != nil {
		return err
	}
	if cur != nil {
		return asmerr.Wrap(asmerr.ErrCodeInvalidInput, ErrIncompleteNode, "node %s at end of file", cur.Name)
	}
	return nil
}

func lastGraphNode(b *Builder, f []string) (*Contig, error) {
	if len(f) < 4 {
		return nil, b.malformed("NODE needs an id, a length and coverage")
	}
	length, err := strconv.Atoi(f[2])
	if err != nil {
		return nil, b.malformed("NODE length %q", f[2])
	}
	cov, err := strconv.ParseFloat(f[3], 64)
	if err != nil {
		return nil, b.malformed("NODE coverage %q", f[3])
	}
	c := &Contig{Name: f[1], Length: length}
	if length > 0 {
		depth := cov / float64(length)
		c.Depth = &depth
	}
	return c, nil
}

func lastGraphArc(b *Builder, f []string) error {
	if len(f) < 4 {
		return b.malformed("ARC needs two ids and a multiplicity")
	}
	mult, err := strconv.Atoi(f[3])
	if err != nil {
		return b.malformed("ARC multiplicity %q", f[3])
	}
	from, to := f[1], f[2]
	if !b.Double() {
		from = strings.TrimPrefix(from, "-")
		to = strings.TrimPrefix(to, "-")
	}
	return b.AddLink(from, to, asm.Edge{Multiplicity: mult})
}
