package parse

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/asmscope/pkg/asm"
	asmerr "github.com/matzehuels/asmscope/pkg/errors"
	"github.com/matzehuels/asmscope/pkg/observability"
)

var (
	// ErrUnknownFormat is returned for a file whose extension matches no
	// parser.
	ErrUnknownFormat = errors.New("unrecognized assembly graph format")

	// ErrMalformedLine is returned for a line that lacks required fields.
	ErrMalformedLine = errors.New("malformed line")

	// ErrNoLength is returned for a GFA segment with neither a sequence
	// nor an LN:i: tag.
	ErrNoLength = errors.New("segment has no sequence and no LN:i: tag")

	// ErrIncompleteNode is returned for a LastGraph node whose sequences
	// are missing.
	ErrIncompleteNode = errors.New("node declaration is incomplete")
)

// maxLineSize bounds a single input line, which holds a whole contig
// sequence in GFA files.
const maxLineSize = 1 << 30

// Options configures parsing.
type Options struct {
	// SingleStrand creates one node per contig instead of one per strand.
	SingleStrand bool
	// NoDNA drops sequences after GC content has been counted.
	NoDNA bool
	// Logger receives progress messages. Defaults to log.Default().
	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}

// Parser reads one assembly graph format.
type Parser interface {
	// Type returns the format name recorded in the assembly totals.
	Type() string
	// Supports reports whether the file name has this format's extension.
	Supports(name string) bool
	// Parse reads the format from r into b.
	Parse(r io.Reader, b *Builder) error
}

var parsers = []Parser{GFA{}, LastGraph{}, GML{}}

// Detect returns the parser for a file name.
func Detect(name string) (Parser, error) {
	for _, p := range parsers {
		if p.Supports(name) {
			return p, nil
		}
	}
	return nil, asmerr.Wrap(asmerr.ErrCodeInvalidInput, ErrUnknownFormat, "%s", filepath.Base(name))
}

// File parses the assembly graph at path, choosing the parser by extension.
func File(ctx context.Context, path string, opts Options) (*asm.Graph, error) {
	p, err := Detect(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, asmerr.Wrap(asmerr.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, path, p.Type())
	start := time.Now()
	g, err := Read(f, p, filepath.Base(path), opts)
	nodes := 0
	if g != nil {
		nodes = g.NodeCount()
	}
	hooks.OnParseComplete(ctx, path, p.Type(), nodes, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	opts.logger().Debug("parsed assembly graph", "file", path, "type", p.Type(),
		"nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}

// Read parses r with p and returns the frozen graph. name is recorded as
// the assembly's file name.
func Read(r io.Reader, p Parser, name string, opts Options) (*asm.Graph, error) {
	b := newBuilder(name, p.Type(), opts)
	if err := p.Parse(r, b); err != nil {
		return nil, err
	}
	if b.g.NodeCount() == 0 {
		return nil, asmerr.New(asmerr.ErrCodeEmptyInput, "%s: no nodes", name)
	}
	b.g.Freeze()
	return b.g, nil
}

// Builder accumulates nodes and edges during parsing and maintains the
// assembly totals.
type Builder struct {
	g    *asm.Graph
	opts Options
	line int
}

func newBuilder(name, fileType string, opts Options) *Builder {
	return &Builder{
		g: asm.New(asm.Assembly{
			FileName:       name,
			FileType:       fileType,
			DoubleStranded: !opts.SingleStrand,
		}),
		opts: opts,
	}
}

// Double reports whether both strands are created.
func (b *Builder) Double() bool { return !b.opts.SingleStrand }

// Contig is one contig as read from the input. Reverse holds the reverse
// strand's sequence and GC fraction where the format stores them.
type Contig struct {
	Name     string
	Length   int
	Sequence string
	GC       *float64
	Depth    *float64

	RevSequence string
	RevGC       *float64

	Reverse bool // Forward node is itself a reverse strand (GML orientation)
}

// AddContig adds the contig's node, and its reverse strand node in
// dual-strand mode, and records it in the totals.
func (b *Builder) AddContig(c Contig) error {
	fwd := asm.Node{
		Name:    c.Name,
		Length:  c.Length,
		Reverse: c.Reverse,
		GC:      c.GC,
		Depth:   c.Depth,
	}
	if !b.opts.NoDNA {
		fwd.Sequence = c.Sequence
	}
	if _, err := b.g.AddNode(fwd); err != nil {
		return b.errf(err)
	}
	if b.Double() {
		rev := asm.Node{
			Name:    asm.NegateName(c.Name),
			Length:  c.Length,
			Reverse: true,
			GC:      c.RevGC,
			Depth:   c.Depth,
		}
		if !b.opts.NoDNA {
			rev.Sequence = c.RevSequence
		}
		if _, err := b.g.AddNode(rev); err != nil {
			return b.errf(err)
		}
	}
	b.g.Assembly().RecordNode(c.Length, b.Double())
	return nil
}

// AddLink adds the edge from -> to and, in dual-strand mode, its implied
// reverse edge -to -> -from unless that is the same edge.
func (b *Builder) AddLink(from, to string, e asm.Edge) error {
	if _, err := b.g.AddEdge(from, to, e); err != nil {
		return b.errf(err)
	}
	if b.Double() {
		nfrom, nto := asm.NegateName(from), asm.NegateName(to)
		if !(from == nto && to == nfrom) {
			if _, err := b.g.AddEdge(nto, nfrom, e); err != nil {
				return b.errf(err)
			}
		}
	}
	b.g.Assembly().RecordEdge()
	return nil
}

// RecordGC adds G/C bases to the assembly count.
func (b *Builder) RecordGC(n int) { b.g.Assembly().RecordGC(n) }

// NoSequence marks the input as carrying no DNA.
func (b *Builder) NoSequence() { b.g.Assembly().NoSequence() }

// malformed returns an INVALID_INPUT error for the current line.
func (b *Builder) malformed(format string, args ...any) error {
	return asmerr.Wrap(asmerr.ErrCodeInvalidInput, ErrMalformedLine, "line %d: %s", b.line, fmt.Sprintf(format, args...))
}

// errf annotates err with the current line number.
func (b *Builder) errf(err error) error {
	return fmt.Errorf("line %d: %w", b.line, err)
}

// scan calls fn for every line of r, tracking line numbers.
func (b *Builder) scan(r io.Reader, fn func(line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	b.line = 0
	for sc.Scan() {
		b.line++
		if err := fn(strings.TrimRight(sc.Text(), "\r")); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return asmerr.Wrap(asmerr.ErrCodeInvalidInput, err, "read line %d", b.line+1)
	}
	return nil
}

func hasSuffixFold(name, suffix string) bool {
	return strings.HasSuffix(strings.ToLower(name), suffix)
}
