package parse

import (
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/asmscope/pkg/asm"
	asmerr "github.com/matzehuels/asmscope/pkg/errors"
	"github.com/matzehuels/asmscope/pkg/stats"
)

// GFA parses GFA 1 segment and link lines. Other record types are ignored.
type GFA struct{}

func (GFA) Type() string              { return "GFA" }
func (GFA) Supports(name string) bool { return hasSuffixFold(name, ".gfa") }

func (GFA) Parse(r io.Reader, b *Builder) error {
	b.RecordGC(0)
	return b.scan(r, func(line string) error {
		switch {
		case strings.HasPrefix(line, "S"):
			return gfaSegment(b, strings.Fields(line))
		case strings.HasPrefix(line, "L"):
			return gfaLink(b, strings.Fields(line))
		}
		return nil
	})
}

func gfaSegment(b *Builder, f []string) error {
	if len(f) < 3 {
		return b.malformed("segment needs an id and a sequence")
	}
	c := Contig{Name: trimNodePrefix(f[1])}

	if seq := f[2]; seq != "*" {
		c.Length = len(seq)
		gc, count := stats.GCContent(seq)
		c.GC, c.RevGC = &gc, &gc
		// Both strands have the same G/C count.
		b.RecordGC(count * b.g.Assembly().Strands())
		c.Sequence = seq
		if b.Double() && !b.opts.NoDNA {
			rc, err := stats.ReverseComplement(strings.ToUpper(seq))
			if err != nil {
				return b.errf(err)
			}
			c.RevSequence = rc
		}
	} else {
		length, ok, err := lengthTag(f[3:])
		if err != nil {
			return b.malformed("segment %s: %v", c.Name, err)
		}
		if !ok {
			return b.errf(asmerr.Wrap(asmerr.ErrCodeInvalidInput, ErrNoLength, "segment %s", c.Name))
		}
		c.Length = length
	}
	return b.AddContig(c)
}

func lengthTag(tags []string) (int, bool, error) {
	for _, t := range tags {
		if v, ok := strings.CutPrefix(t, "LN:i:"); ok {
			n, err := strconv.Atoi(v)
			return n, err == nil, err
		}
	}
	return 0, false, nil
}

func gfaLink(b *Builder, f []string) error {
	if len(f) < 5 {
		return b.malformed("link needs two ids and two orientations")
	}
	from, to := trimNodePrefix(f[1]), trimNodePrefix(f[3])
	if b.Double() {
		if f[2] == "-" {
			from = "-" + from
		}
		if f[4] == "-" {
			to = "-" + to
		}
	}
	return b.AddLink(from, to, asm.Edge{})
}

// trimNodePrefix maps SPAdes-style "NODE_12_length_..." ids to "12".
func trimNodePrefix(id string) string {
	rest, ok := strings.CutPrefix(id, "NODE_")
	if !ok {
		return id
	}
	if i := strings.IndexByte(rest, '_'); i >= 0 {
		return rest[:i]
	}
	return rest
}
