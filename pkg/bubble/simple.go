package bubble

import (
	"context"

	"github.com/matzehuels/asmscope/pkg/asm"
)

// Simple proposes simple bubbles without external tools: a source s whose
// outgoing edges each start an unbranched path (every interior node has one
// incoming and one outgoing edge) and all paths end at the same sink t.
//
// Simple finds a subset of what spqr finds. It never proposes bubbles whose
// paths branch internally.
type Simple struct{}

type linkGraph struct {
	names []string
	out   [][]int
	indeg []int
}

func newLinkGraph(links []asm.Link) *linkGraph {
	lg := &linkGraph{}
	index := make(map[string]int)
	id := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		i := len(lg.names)
		index[name] = i
		lg.names = append(lg.names, name)
		lg.out = append(lg.out, nil)
		lg.indeg = append(lg.indeg, 0)
		return i
	}
	for _, l := range links {
		a, b := id(l.From), id(l.To)
		lg.out[a] = append(lg.out[a], b)
		lg.indeg[b]++
	}
	return lg
}

// Find returns one candidate per source, in order of first appearance.
func (Simple) Find(ctx context.Context, links []asm.Link) ([]Candidate, error) {
	lg := newLinkGraph(links)
	var out []Candidate
	for s := range lg.names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if members, ok := lg.simpleBubble(s); ok {
			tokens := make([]string, 0, len(members)+2)
			tokens = append(tokens, lg.names[members[0]], lg.names[members[len(members)-1]])
			for _, m := range members {
				tokens = append(tokens, lg.names[m])
			}
			out = append(out, Candidate{Tokens: tokens})
		}
	}
	return out, nil
}

// simpleBubble returns source, interior nodes and sink, in that order.
func (lg *linkGraph) simpleBubble(s int) ([]int, bool) {
	if len(lg.out[s]) < 2 {
		return nil, false
	}
	sink := -1
	var interior []int
	for _, v := range lg.out[s] {
		cur := v
		for steps := 0; cur != s && lg.indeg[cur] == 1 && len(lg.out[cur]) == 1; steps++ {
			if steps > len(lg.names) {
				return nil, false
			}
			interior = append(interior, cur)
			cur = lg.out[cur][0]
		}
		if cur == s {
			return nil, false
		}
		if sink == -1 {
			sink = cur
		} else if cur != sink {
			return nil, false
		}
	}
	if len(interior) == 0 || lg.indeg[sink] < 2 {
		return nil, false
	}
	members := make([]int, 0, len(interior)+2)
	members = append(members, s)
	members = append(members, interior...)
	return append(members, sink), true
}
