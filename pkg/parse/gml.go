package parse

import (
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/asmscope/pkg/asm"
)

// GML parses scaffold graphs written by Bambus 3. Each key of a node or
// edge block sits on its own line. Nodes are contig orientations, so no
// reverse strands are added, and the file carries no DNA.
type GML struct{}

func (GML) Type() string              { return "GML" }
func (GML) Supports(name string) bool { return hasSuffixFold(name, ".gml") }

type gmlBlock int

const (
	gmlNone gmlBlock = iota
	gmlNode
	gmlEdge
)

func (GML) Parse(r io.Reader, b *Builder) error {
	b.NoSequence()
	b.opts.SingleStrand = true
	b.g.Assembly().DoubleStranded = false

	var (
		block    gmlBlock
		node     Contig
		src, tgt string
		edge     asm.Edge
	)
	return b.scan(r, func(line string) error {
		trimmed := strings.TrimSpace(line)
		f := strings.Fields(trimmed)

		switch block {
		case gmlNone:
			switch {
			case strings.HasSuffix(trimmed, "node ["):
				block, node = gmlNode, Contig{}
			case strings.HasSuffix(trimmed, "edge ["):
				block, src, tgt, edge = gmlEdge, "", "", asm.Edge{}
			}
			return nil

		case gmlNode:
			if trimmed == "]" {
				block = gmlNone
				if node.Name == "" {
					return b.malformed("node block without id")
				}
				return b.AddContig(node)
			}
			if len(f) < 2 {
				return nil
			}
			switch f[0] {
			case "id":
				node.Name = unquote(f[1])
			case "orientation":
				node.Reverse = unquote(f[1]) == "REV"
			case "length":
				n, err := strconv.Atoi(unquote(f[1]))
				if err != nil {
					return b.malformed("node length %q", f[1])
				}
				node.Length = n
			}
			return nil

		default:
			if trimmed == "]" {
				block = gmlNone
				if src == "" || tgt == "" {
					return b.malformed("edge block without source or target")
				}
				return b.AddLink(src, tgt, edge)
			}
			if len(f) < 2 {
				return nil
			}
			v := unquote(f[1])
			switch f[0] {
			case "source":
				src = v
			case "target":
				tgt = v
			case "orientation":
				edge.Orientation = v
			case "bsize":
				n, err := strconv.Atoi(v)
				if err != nil {
					return b.malformed("edge bsize %q", f[1])
				}
				edge.Multiplicity = n
			case "mean", "stdev":
				x, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return b.malformed("edge %s %q", f[0], f[1])
				}
				if f[0] == "mean" {
					edge.Mean = &x
				} else {
					edge.Stdev = &x
				}
			}
			return nil
		}
	})
}

func unquote(s string) string { return strings.Trim(s, `"`) }
