package bubble

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/asmscope/pkg/asm"
	asmerr "github.com/matzehuels/asmscope/pkg/errors"
)

// Finder proposes bubble candidates for a graph given as its edge list.
type Finder interface {
	Find(ctx context.Context, links []asm.Link) ([]Candidate, error)
}

// Candidate is one proposed bubble.
type Candidate struct {
	Line   int      // 1-based line in the candidate text, 0 when not parsed
	Tokens []string // Node names as proposed, repeats included
}

// Size returns the number of tokens, the sort key of the classifier.
func (c Candidate) Size() int { return len(c.Tokens) }

// Members returns the tokens with repeats removed, in first-seen order.
func (c Candidate) Members() []string {
	seen := make(map[string]bool, len(c.Tokens))
	out := make([]string, 0, len(c.Tokens))
	for _, t := range c.Tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// Validate returns a MALFORMED_CANDIDATE error when the candidate names
// fewer than two distinct nodes.
func (c Candidate) Validate() error {
	if len(c.Tokens) < 2 || len(c.Members()) < 2 {
		return asmerr.New(asmerr.ErrCodeMalformedCandidate,
			"candidate on line %d has %d member(s), need 2", c.Line, len(c.Members()))
	}
	return nil
}

func (c Candidate) String() string { return strings.Join(c.Tokens, "\t") }

// ParseCandidates reads one candidate per non-blank line. Malformed lines
// are returned as they are; the classifier rejects them.
func ParseCandidates(r io.Reader) ([]Candidate, error) {
	var out []Candidate
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		out = append(out, Candidate{Line: line, Tokens: fields})
	}
	if err := sc.Err(); err != nil {
		return nil, asmerr.Wrap(asmerr.ErrCodeCollaborator, err, "read bubble candidates")
	}
	return out, nil
}

// WriteLinks writes links in the spqr link-file format, one
// "from\tB\tto\tB\t0\t0\t0" line per edge.
func WriteLinks(w io.Writer, links []asm.Link) error {
	bw := bufio.NewWriter(w)
	for _, l := range links {
		if _, err := fmt.Fprintf(bw, "%s\tB\t%s\tB\t0\t0\t0\n", l.From, l.To); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Static is a Finder that returns a fixed candidate list.
type Static []Candidate

// Find returns a copy of the list.
func (s Static) Find(context.Context, []asm.Link) ([]Candidate, error) {
	out := make([]Candidate, len(s))
	copy(out, s)
	return out, nil
}

// StaticLines builds a Static finder from candidate lines.
func StaticLines(lines ...string) Static {
	out, _ := ParseCandidates(strings.NewReader(strings.Join(lines, "\n")))
	return Static(out)
}

// ReadFile reads a candidate file written by an earlier spqr run.
func ReadFile(path string) (Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, asmerr.Wrap(asmerr.ErrCodeInvalidInput, err, "open bubble candidates")
	}
	defer f.Close()
	cands, err := ParseCandidates(f)
	if err != nil {
		return nil, err
	}
	return Static(cands), nil
}
