package motif

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/asmscope/pkg/asm"
	"github.com/matzehuels/asmscope/pkg/bubble"
	asmerr "github.com/matzehuels/asmscope/pkg/errors"
)

var quiet = Options{Logger: log.New(io.Discard)}

// build creates a frozen graph from "a>b" edge specs. Nodes are added in
// order of first appearance in names, then in edges.
func build(t *testing.T, names string, edges ...string) *asm.Graph {
	t.Helper()
	g := asm.New(asm.Assembly{})
	add := func(n string) {
		if _, ok := g.Lookup(n); ok {
			return
		}
		if _, err := g.AddNode(asm.Node{Name: n, Length: 10}); err != nil {
			t.Fatalf("AddNode(%s): %v", n, err)
		}
	}
	for _, n := range strings.Fields(names) {
		add(n)
	}
	for _, e := range edges {
		f := strings.Split(e, ">")
		add(f[0])
		add(f[1])
		if _, err := g.AddEdge(f[0], f[1], asm.Edge{}); err != nil {
			t.Fatalf("AddEdge(%s): %v", e, err)
		}
	}
	g.Freeze()
	return g
}

func names(g *asm.Graph, ids []asm.NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = g.Node(id).Name
	}
	return out
}

func groupsOf(g *asm.Graph, res *Result) map[string][]string {
	out := make(map[string][]string)
	for _, id := range res.Groups {
		grp := g.Group(id)
		out[grp.Name] = names(g, grp.Members)
	}
	return out
}

func TestSmallestBubbleWins(t *testing.T) {
	g := build(t, "1 2 3 4 5 6 7")
	finder := bubble.StaticLines("1 2 3 4 5", "5 6 7")

	res, err := Classify(context.Background(), g, finder, quiet)
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if res.Counts[asm.Bubble] != 1 {
		t.Fatalf("bubbles = %d, want 1", res.Counts[asm.Bubble])
	}
	got := groupsOf(g, res)
	if want := []string{"5", "6", "7"}; !slices.Equal(got["B1"], want) {
		t.Errorf("B1 = %v, want %v", got["B1"], want)
	}
	for _, n := range []string{"1", "2", "3", "4"} {
		id, _ := g.Lookup(n)
		if g.Claimed(id) {
			t.Errorf("node %s claimed by the larger candidate", n)
		}
	}
}

func TestBubbleSortIsStable(t *testing.T) {
	g := build(t, "a b c")
	res, err := Classify(context.Background(), g, bubble.StaticLines("a b", "b c"), quiet)
	if err != nil {
		t.Fatal(err)
	}
	if got := groupsOf(g, res)["B1"]; !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("B1 = %v, want first candidate of equal size", got)
	}
}

func TestMalformedCandidateSkipped(t *testing.T) {
	g := build(t, "a b c")
	res, err := Classify(context.Background(), g, bubble.StaticLines("a", "b b", "b c"), quiet)
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if len(res.Skipped) != 2 {
		t.Errorf("Skipped = %v, want 2 candidates", res.Skipped)
	}
	if res.Counts[asm.Bubble] != 1 {
		t.Errorf("bubbles = %d, want 1", res.Counts[asm.Bubble])
	}
}

func TestUnknownCandidateNodeIsFatal(t *testing.T) {
	g := build(t, "a b")
	_, err := Classify(context.Background(), g, bubble.StaticLines("a zz"), quiet)
	if !asmerr.Is(err, asmerr.ErrCodeReferential) {
		t.Errorf("Classify() error = %v, want referential", err)
	}
}

type failingFinder struct{}

func (failingFinder) Find(context.Context, []asm.Link) ([]bubble.Candidate, error) {
	return nil, errors.New("spqr crashed")
}

func TestFinderFailureIsCollaboratorError(t *testing.T) {
	g := build(t, "a b")
	_, err := Classify(context.Background(), g, failingFinder{}, quiet)
	if !asmerr.Is(err, asmerr.ErrCodeCollaborator) {
		t.Errorf("Classify() error = %v, want collaborator", err)
	}
}

func TestClassifyRequiresFrozenGraph(t *testing.T) {
	g := asm.New(asm.Assembly{})
	if _, err := Classify(context.Background(), g, nil, quiet); err == nil {
		t.Error("Classify() on unfrozen graph succeeded")
	}
}

func TestPasses(t *testing.T) {
	tests := []struct {
		name  string
		order string
		edges []string
		want  map[string][]string
	}{
		{
			name:  "frayed rope",
			edges: []string{"a>x", "b>x", "x>y", "y>c", "y>d"},
			want:  map[string][]string{"R1": {"a", "b", "x", "y", "c", "d"}},
		},
		{
			name:  "rope with single-node bottleneck",
			edges: []string{"a>x", "b>x", "x>c", "x>d"},
			want:  map[string][]string{"R1": {"a", "b", "x", "c", "d"}},
		},
		{
			name:  "rope needs two sinks",
			edges: []string{"a>x", "b>x", "x>c"},
			want:  map[string][]string{"C1": {"x", "c"}},
		},
		{
			name:  "rope sink with second parent",
			edges: []string{"a>x", "b>x", "x>c", "x>d", "e>d"},
			want:  map[string][]string{},
		},
		{
			name:  "cycle",
			edges: []string{"1>2", "2>3", "3>1", "3>4"},
			want:  map[string][]string{"Y1": {"3", "1", "2"}},
		},
		{
			name:  "self loop is no cycle",
			edges: []string{"1>1"},
			want:  map[string][]string{},
		},
		{
			name:  "chain",
			edges: []string{"a>b", "b>c", "c>d", "c>e"},
			want:  map[string][]string{"C1": {"a", "b", "c"}},
		},
		{
			name:  "chain extends backwards",
			order: "w y",
			edges: []string{"z>y", "y>w", "w>q", "w>r", "p>z", "o>z", "x>q"},
			want:  map[string][]string{"C1": {"z", "y", "w"}},
		},
		{
			name:  "two chains",
			edges: []string{"a>b", "b>h", "c>h", "h>d", "d>e"},
			want:  map[string][]string{"C1": {"a", "b"}, "C2": {"h", "d", "e"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.order, tt.edges...)
			res, err := Classify(context.Background(), g, nil, quiet)
			if err != nil {
				t.Fatalf("Classify() error: %v", err)
			}
			got := groupsOf(g, res)
			if len(got) != len(tt.want) {
				t.Fatalf("groups = %v, want %v", got, tt.want)
			}
			for name, members := range tt.want {
				if !slices.Equal(got[name], members) {
					t.Errorf("%s = %v, want %v", name, got[name], members)
				}
			}
		})
	}
}

func TestBubblePrecedesChain(t *testing.T) {
	edges := []string{"s>a", "s>b", "a>t", "b>t", "t>u", "u>v"}

	g := build(t, "", edges...)
	res, err := Classify(context.Background(), g, nil, quiet)
	if err != nil {
		t.Fatal(err)
	}
	if got := groupsOf(g, res)["C1"]; !slices.Equal(got, []string{"t", "u", "v"}) {
		t.Fatalf("without bubbles C1 = %v", got)
	}

	g = build(t, "", edges...)
	res, err = Classify(context.Background(), g, bubble.StaticLines("s t s a b t"), quiet)
	if err != nil {
		t.Fatal(err)
	}
	got := groupsOf(g, res)
	if !slices.Equal(got["B1"], []string{"s", "t", "a", "b"}) {
		t.Errorf("B1 = %v", got["B1"])
	}
	if !slices.Equal(got["C1"], []string{"u", "v"}) {
		t.Errorf("C1 = %v, want [u v]", got["C1"])
	}
}

func TestDrawableOrder(t *testing.T) {
	g := build(t, "", "a>b", "b>c", "c>d", "c>e")
	res, err := Classify(context.Background(), g, nil, quiet)
	if err != nil {
		t.Fatal(err)
	}
	d, _ := g.Lookup("d")
	e, _ := g.Lookup("e")
	want := []asm.Drawable{asm.GroupItem{ID: 0}, asm.NodeItem{ID: d}, asm.NodeItem{ID: e}}
	if !slices.Equal(res.Drawable, want) {
		t.Errorf("Drawable = %v, want %v", res.Drawable, want)
	}
}

// randomGraph builds a frozen graph with n nodes and m random edges.
func randomGraph(t *testing.T, seed int64, n, m int) *asm.Graph {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	g := asm.New(asm.Assembly{})
	for i := range n {
		if _, err := g.AddNode(asm.Node{Name: fmt.Sprint(i), Length: r.Intn(500)}); err != nil {
			t.Fatal(err)
		}
	}
	for range m {
		if _, err := g.AddEdge(fmt.Sprint(r.Intn(n)), fmt.Sprint(r.Intn(n)), asm.Edge{}); err != nil {
			t.Fatal(err)
		}
	}
	g.Freeze()
	return g
}

func TestGroupsAreDisjoint(t *testing.T) {
	for seed := range int64(25) {
		g := randomGraph(t, seed, 60, 70)
		res, err := Classify(context.Background(), g, bubble.Simple{}, quiet)
		if err != nil {
			t.Fatalf("seed %d: Classify() error: %v", seed, err)
		}

		owner := make(map[asm.NodeID]asm.GroupID)
		for _, gid := range res.Groups {
			for _, m := range g.Group(gid).Members {
				if prev, dup := owner[m]; dup {
					t.Fatalf("seed %d: node %d in groups %d and %d", seed, m, prev, gid)
				}
				owner[m] = gid
				if g.Node(m).Group != gid {
					t.Fatalf("seed %d: node %d Group = %d, want %d", seed, m, g.Node(m).Group, gid)
				}
			}
		}

		covered := 0
		for _, item := range res.Drawable {
			covered += len(g.Members(item))
		}
		if covered != g.NodeCount() {
			t.Errorf("seed %d: drawables cover %d nodes, want %d", seed, covered, g.NodeCount())
		}
	}
}

func TestBubbleMembersNeverRegrouped(t *testing.T) {
	for seed := range int64(25) {
		g := randomGraph(t, 100+seed, 40, 50)
		res, err := Classify(context.Background(), g, bubble.Simple{}, quiet)
		if err != nil {
			t.Fatal(err)
		}
		bubbled := make(map[asm.NodeID]bool)
		for _, gid := range res.Groups {
			grp := g.Group(gid)
			for _, m := range grp.Members {
				if grp.Kind == asm.Bubble {
					bubbled[m] = true
				} else if bubbled[m] {
					t.Fatalf("seed %d: bubble node %d reused by %s", seed, m, grp.Name)
				}
			}
		}
	}
}
