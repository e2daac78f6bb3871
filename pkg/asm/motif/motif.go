package motif

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/asmscope/pkg/asm"
	"github.com/matzehuels/asmscope/pkg/bubble"
	asmerr "github.com/matzehuels/asmscope/pkg/errors"
)

// Options configures [Classify].
type Options struct {
	// Logger receives per-pass progress at debug level and skipped
	// candidates at warn level. Defaults to log.Default().
	Logger *log.Logger
}

// Result is the outcome of a classification.
type Result struct {
	Groups   []asm.GroupID      // Groups in creation order
	Counts   map[asm.Kind]int   // Number of groups per kind
	Skipped  []bubble.Candidate // Malformed bubble candidates
	Drawable []asm.Drawable     // Groups, then unclaimed nodes
}

// Classify collapses bubbles, frayed ropes, cycles and chains of g into
// groups. A nil finder skips the bubble pass.
//
// The graph must be frozen. Classify fails on the first fatal error; the
// graph may then hold a partial set of groups and must be discarded.
func Classify(ctx context.Context, g *asm.Graph, finder bubble.Finder, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if !g.Frozen() {
		return nil, asmerr.New(asmerr.ErrCodeInternal, "classify: graph is not frozen")
	}

	c := &classifier{g: g, logger: logger, res: &Result{Counts: make(map[asm.Kind]int)}}

	if finder != nil {
		if err := c.bubbles(ctx, finder); err != nil {
			return nil, err
		}
	}
	passes := []struct {
		kind asm.Kind
		find func(asm.NodeID) []asm.NodeID
	}{
		{asm.Rope, c.rope},
		{asm.Cycle, c.cycle},
		{asm.Chain, c.chain},
	}
	for _, p := range passes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i := range g.NodeCount() {
			n := asm.NodeID(i)
			if g.Claimed(n) {
				continue
			}
			if members := p.find(n); members != nil {
				if err := c.accept(p.kind, members); err != nil {
					return nil, err
				}
			}
		}
		logger.Debug("motif pass", "kind", p.kind, "groups", c.res.Counts[p.kind])
	}

	c.res.Drawable = g.Drawables()
	return c.res, nil
}

type classifier struct {
	g      *asm.Graph
	logger *log.Logger
	res    *Result
}

func (c *classifier) accept(kind asm.Kind, members []asm.NodeID) error {
	id, err := c.g.NewGroup(kind, members)
	if err != nil {
		return err
	}
	c.res.Groups = append(c.res.Groups, id)
	c.res.Counts[kind]++
	return nil
}

func (c *classifier) bubbles(ctx context.Context, finder bubble.Finder) error {
	cands, err := finder.Find(ctx, c.g.Links())
	if err != nil {
		if asmerr.GetCode(err) == "" {
			err = asmerr.Wrap(asmerr.ErrCodeCollaborator, err, "find bubble candidates")
		}
		return err
	}
	slices.SortStableFunc(cands, func(a, b bubble.Candidate) int { return a.Size() - b.Size() })

	for _, cand := range cands {
		if err := cand.Validate(); err != nil {
			c.res.Skipped = append(c.res.Skipped, cand)
			c.logger.Warn("skipping bubble candidate", "line", cand.Line, "candidate", cand.String())
			continue
		}
		names := cand.Members()
		ids := make([]asm.NodeID, len(names))
		for i, name := range names {
			id, err := c.g.Resolve(name)
			if err != nil {
				return asmerr.Wrap(asmerr.ErrCodeReferential, err, "bubble candidate on line %d", cand.Line)
			}
			ids[i] = id
		}
		if slices.ContainsFunc(ids, c.g.Claimed) {
			continue
		}
		if err := c.accept(asm.Bubble, ids); err != nil {
			return err
		}
	}
	c.logger.Debug("motif pass", "kind", asm.Bubble, "candidates", len(cands),
		"groups", c.res.Counts[asm.Bubble], "skipped", len(c.res.Skipped))
	return nil
}

// free reports whether n is unclaimed and not in taken.
func (c *classifier) free(n asm.NodeID, taken map[asm.NodeID]bool) bool {
	return !c.g.Claimed(n) && !taken[n]
}

// distinct returns ids without repeats, in first-seen order.
func distinct(ids []asm.NodeID) []asm.NodeID {
	out := make([]asm.NodeID, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func (c *classifier) rope(s asm.NodeID) []asm.NodeID {
	g := c.g
	if g.OutDegree(s) != 1 {
		return nil
	}
	b0 := g.Successors(s)[0]
	if b0 == s || g.Claimed(b0) {
		return nil
	}

	taken := map[asm.NodeID]bool{b0: true}
	neck := []asm.NodeID{b0}
	bk := b0
	for g.OutDegree(bk) == 1 {
		next := g.Successors(bk)[0]
		if next == s || !c.free(next, taken) || g.InDegree(next) != 1 {
			break
		}
		taken[next] = true
		neck = append(neck, next)
		bk = next
	}

	sources := distinct(g.Predecessors(b0))
	if len(sources) < 2 {
		return nil
	}
	for _, src := range sources {
		if !c.free(src, taken) || g.OutDegree(src) != 1 {
			return nil
		}
		taken[src] = true
	}
	sinks := distinct(g.Successors(bk))
	if len(sinks) < 2 {
		return nil
	}
	for _, dst := range sinks {
		if !c.free(dst, taken) || g.InDegree(dst) != 1 {
			return nil
		}
		taken[dst] = true
	}

	members := make([]asm.NodeID, 0, len(sources)+len(neck)+len(sinks))
	members = append(members, sources...)
	members = append(members, neck...)
	return append(members, sinks...)
}

func (c *classifier) cycle(s asm.NodeID) []asm.NodeID {
	g := c.g
	for _, first := range g.Successors(s) {
		path := []asm.NodeID{s}
		taken := map[asm.NodeID]bool{s: true}
		cur := first
		for {
			if cur == s {
				if len(path) >= 2 {
					return path
				}
				break
			}
			if !c.free(cur, taken) || g.InDegree(cur) != 1 || g.OutDegree(cur) != 1 {
				break
			}
			taken[cur] = true
			path = append(path, cur)
			cur = g.Successors(cur)[0]
		}
	}
	return nil
}

func (c *classifier) chain(n asm.NodeID) []asm.NodeID {
	g := c.g
	if g.OutDegree(n) != 1 {
		return nil
	}
	taken := map[asm.NodeID]bool{n: true}

	var back []asm.NodeID
	for cur := n; g.InDegree(cur) == 1; {
		prev := g.Predecessors(cur)[0]
		if !c.free(prev, taken) || g.OutDegree(prev) != 1 {
			break
		}
		taken[prev] = true
		back = append(back, prev)
		cur = prev
	}

	run := make([]asm.NodeID, 0, len(back)+1)
	for i := len(back) - 1; i >= 0; i-- {
		run = append(run, back[i])
	}
	run = append(run, n)

	for cur := n; g.OutDegree(cur) == 1; {
		next := g.Successors(cur)[0]
		if !c.free(next, taken) || g.InDegree(next) != 1 {
			break
		}
		taken[next] = true
		run = append(run, next)
		cur = next
	}

	if len(run) < 2 {
		return nil
	}
	return run
}
