package sink

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/matzehuels/asmscope/pkg/asm"
	"github.com/matzehuels/asmscope/pkg/stats"
)

// placed builds a>b>c with a and b grouped as C1 and fake layout values.
func placed(t *testing.T) (*asm.Graph, *asm.Component) {
	t.Helper()
	g := asm.New(asm.Assembly{FileName: "x.gfa", FileType: "GFA"})
	for _, n := range []string{"a", "b", "c"} {
		if _, err := g.AddNode(asm.Node{Name: n, Length: 10}); err != nil {
			t.Fatal(err)
		}
	}
	mean := 2.5
	g.AddEdge("a", "b", asm.Edge{Multiplicity: 2})
	g.AddEdge("b", "c", asm.Edge{Orientation: "EB", Mean: &mean})
	g.Freeze()
	gid, err := g.NewGroup(asm.Chain, []asm.NodeID{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	comp := &asm.Component{
		Items:     []asm.Drawable{asm.GroupItem{ID: gid}, asm.NodeItem{ID: 2}},
		Nodes:     []asm.NodeID{0, 1, 2},
		Groups:    []asm.GroupID{gid},
		NodeCount: 3,
		EdgeCount: 2,
		Length:    30,
		BBox:      asm.BBox{Right: 200, Top: 50},
	}
	comp.SetRank(g, 1)
	g.Node(2).X, g.Node(2).Y, g.Node(2).Shape = 180, 25, "house"
	g.Edge(1).Points = []asm.Point{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}, {X: 7, Y: 8}}
	grp := g.Group(gid)
	grp.Left, grp.Bottom, grp.Right, grp.Top = 0, 10, 120, 40
	return g, comp
}

func TestNewComponentRecord(t *testing.T) {
	g, comp := placed(t)
	rec := NewComponentRecord("run-1", g, comp)

	if rec.RunID != "run-1" || rec.Rank != 1 || rec.NodeCount != 3 || rec.EdgeCount != 2 || rec.Length != 30 {
		t.Errorf("summary = %+v", rec.Summary())
	}
	if rec.BoundingX != 200 || rec.BoundingY != 50 {
		t.Errorf("bounding box = %v,%v", rec.BoundingX, rec.BoundingY)
	}
	if len(rec.Nodes) != 3 || rec.Nodes[0].Group != "C1" || rec.Nodes[2].Group != "" {
		t.Errorf("nodes = %+v", rec.Nodes)
	}
	if n := rec.Nodes[2]; n.X != 180 || n.Shape != "house" || n.Rank != 1 {
		t.Errorf("node c = %+v", n)
	}
	if len(rec.Edges) != 2 {
		t.Fatalf("got %d edges", len(rec.Edges))
	}
	if e := rec.Edges[0]; e.From != "a" || e.To != "b" || e.Multiplicity != 2 || e.Group != "C1" {
		t.Errorf("edge a>b = %+v", e)
	}
	if e := rec.Edges[1]; e.PointCount != 4 || e.Points[3] != (Point{X: 7, Y: 8}) || *e.Mean != 2.5 || e.Group != "" {
		t.Errorf("edge b>c = %+v", e)
	}
	want := ClusterRecord{ID: "C1", Kind: "chain", Rank: 1, NodeCount: 2, Length: 20, Bottom: 10, Right: 120, Top: 40}
	if len(rec.Clusters) != 1 || rec.Clusters[0] != want {
		t.Errorf("clusters = %+v, want %+v", rec.Clusters, want)
	}
}

func TestNewAssemblyRecord(t *testing.T) {
	gc := 0.5
	rec := NewAssemblyRecord("run", stats.Summary{FileName: "x.gfa", N50: 7, GC: &gc}, true, map[string]int{"chain": 1})
	if rec.N50 != 7 || *rec.GC != 0.5 || !rec.DoubleStranded || rec.Groups["chain"] != 1 || rec.CreatedAt.IsZero() {
		t.Errorf("record = %+v", rec)
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == b || len(a) != 36 {
		t.Errorf("NewRunID() = %q, %q", a, b)
	}
}

func testSinkReader(t *testing.T, s Sink, open func() Reader) {
	t.Helper()
	ctx := context.Background()
	g, comp := placed(t)

	second := NewComponentRecord("run", g, comp)
	second.Rank = 2
	for _, rec := range []*ComponentRecord{NewComponentRecord("run", g, comp), second} {
		if err := s.WriteComponent(ctx, rec); err != nil {
			t.Fatalf("WriteComponent(%d) error: %v", rec.Rank, err)
		}
	}
	if err := s.WriteAssembly(ctx, &AssemblyRecord{RunID: "run", FileName: "x.gfa", N50: 10}); err != nil {
		t.Fatalf("WriteAssembly() error: %v", err)
	}

	r := open()
	a, err := r.Assembly(ctx)
	if err != nil || a.FileName != "x.gfa" || a.N50 != 10 {
		t.Errorf("Assembly() = %+v, %v", a, err)
	}
	comps, err := r.Components(ctx)
	if err != nil {
		t.Fatalf("Components() error: %v", err)
	}
	if len(comps) != 2 || comps[0].Rank != 1 || comps[1].Rank != 2 || comps[0].Nodes != nil {
		t.Errorf("Components() = %+v", comps)
	}
	c, err := r.Component(ctx, 1)
	if err != nil || len(c.Nodes) != 3 || len(c.Edges) != 2 {
		t.Errorf("Component(1) = %+v, %v", c, err)
	}
	if _, err := r.Component(ctx, 9); !errors.Is(err, ErrNotFound) {
		t.Errorf("Component(9) error = %v, want ErrNotFound", err)
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	testSinkReader(t, m, func() Reader { return m })
	if got := m.WriteOrder(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("WriteOrder() = %v", got)
	}
}

func TestMemoryEmpty(t *testing.T) {
	if _, err := NewMemory().Assembly(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Assembly() error = %v", err)
	}
}

func TestBolt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.db")
	b, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt() error: %v", err)
	}
	var r *BoltReader
	testSinkReader(t, b, func() Reader {
		if err := b.Close(); err != nil {
			t.Fatal(err)
		}
		r, err = OpenBoltReader(path)
		if err != nil {
			t.Fatalf("OpenBoltReader() error: %v", err)
		}
		return r
	})
	r.Close()
}

func TestBoltReopenResets(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.db")
	b, err := OpenBolt(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.WriteComponent(ctx, &ComponentRecord{Rank: 1}); err != nil {
		t.Fatal(err)
	}
	b.Close()

	b, err = OpenBolt(path)
	if err != nil {
		t.Fatal(err)
	}
	b.Close()

	r, err := OpenBoltReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	comps, err := r.Components(ctx)
	if err != nil || len(comps) != 0 {
		t.Errorf("Components() after reopen = %v, %v", comps, err)
	}
	if _, err := r.Assembly(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("Assembly() error = %v, want ErrNotFound", err)
	}
}

func TestBoltCanceledContext(t *testing.T) {
	b, err := OpenBolt(filepath.Join(t.TempDir(), "out.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.WriteComponent(ctx, &ComponentRecord{Rank: 1}); !errors.Is(err, context.Canceled) {
		t.Errorf("WriteComponent() error = %v", err)
	}
}

func TestMongo(t *testing.T) {
	uri := os.Getenv("ASMSCOPE_TEST_MONGO")
	if uri == "" {
		t.Skip("ASMSCOPE_TEST_MONGO not set (needs a replica set)")
	}
	ctx := context.Background()
	m, err := OpenMongo(ctx, uri, "asmscope_test")
	if err != nil {
		t.Fatalf("OpenMongo() error: %v", err)
	}
	defer m.Close()

	g, comp := placed(t)
	rec := NewComponentRecord(NewRunID(), g, comp)
	if err := m.WriteComponent(ctx, rec); err != nil {
		t.Fatalf("WriteComponent() error: %v", err)
	}
	if err := m.WriteComponent(ctx, rec); err != nil {
		t.Fatalf("second WriteComponent() error: %v", err)
	}
	counts := map[*mongo.Collection]int64{m.nodes: 3, m.edges: 2, m.clusters: 1, m.components: 1}
	for coll, want := range counts {
		n, err := coll.CountDocuments(ctx, bson.M{"run_id": rec.RunID, "rank": rec.Rank})
		if err != nil {
			t.Fatalf("CountDocuments(%s) error: %v", coll.Name(), err)
		}
		if n != want {
			t.Errorf("%s has %d documents, want %d", coll.Name(), n, want)
		}
	}
	if err := m.WriteAssembly(ctx, &AssemblyRecord{RunID: rec.RunID}); err != nil {
		t.Fatalf("WriteAssembly() error: %v", err)
	}
}
