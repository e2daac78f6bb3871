package layout

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/asmscope/pkg/cache"
)

func countingGrid(calls *int) Engine {
	return engineFunc(func(ctx context.Context, s *Spec) (*Result, error) {
		*calls++
		return Grid{}.Layout(ctx, s)
	})
}

func TestCachedHit(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	calls := 0
	c := &Cached{Engine: countingGrid(&calls), Name: "grid", Cache: fc}

	spec := &Spec{
		Name:  "C1",
		Nodes: []NodeSpec{{Name: "a", Width: 1, Height: 0.5}, {Name: "b", Width: 1, Height: 0.5}},
		Edges: []EdgeSpec{{Key: "0", From: "a", To: "b"}},
	}
	first, err := c.Layout(ctx, spec)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Layout(ctx, spec)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("engine called %d times, want 1", calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached result differs:\n%+v\n%+v", first, second)
	}

	spec.Nodes[0].Width = 2
	if _, err := c.Layout(ctx, spec); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("changed spec should miss, engine called %d times", calls)
	}
}

func TestCachedNullCache(t *testing.T) {
	calls := 0
	c := &Cached{Engine: countingGrid(&calls), Name: "grid", Cache: cache.NewNullCache()}
	spec := &Spec{Nodes: []NodeSpec{{Name: "a", Width: 1, Height: 1}}}
	for range 2 {
		if _, err := c.Layout(context.Background(), spec); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 2 {
		t.Errorf("engine called %d times, want 2", calls)
	}
}

func TestCachedUnreadableEntry(t *testing.T) {
	ctx := context.Background()
	fc, _ := cache.NewFileCache(t.TempDir())
	calls := 0
	c := &Cached{Engine: countingGrid(&calls), Name: "grid", Cache: fc}
	spec := &Spec{Nodes: []NodeSpec{{Name: "a", Width: 1, Height: 1}}}

	key := cache.NewDefaultKeyer().LayoutKey("grid", []byte(ToDOT(spec)))
	if err := fc.Set(ctx, key, []byte("not json"), 0); err != nil {
		t.Fatal(err)
	}
	res, err := c.Layout(ctx, spec)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 || res.Nodes["a"]["pos"] == "" {
		t.Errorf("unreadable entry should fall back to the engine, calls=%d res=%+v", calls, res)
	}
}

// keepingGrid is a grid engine that writes a marker file per run.
type keepingGrid struct {
	dir   string
	calls *int
}

func (k keepingGrid) KeepsArtifacts() bool { return k.dir != "" }

func (k keepingGrid) Layout(ctx context.Context, s *Spec) (*Result, error) {
	*k.calls++
	if k.dir != "" {
		if err := os.WriteFile(filepath.Join(k.dir, s.Name+".gv"), []byte(ToDOT(s)), 0o644); err != nil {
			return nil, err
		}
	}
	return Grid{}.Layout(ctx, s)
}

func TestCachedKeepsArtifactsOnEveryRun(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	spec := &Spec{Name: "component_1", Nodes: []NodeSpec{{Name: "a", Width: 1, Height: 1}}}

	calls := 0
	for _, dir := range []string{t.TempDir(), t.TempDir()} {
		c := &Cached{Engine: keepingGrid{dir: dir, calls: &calls}, Name: "grid", Cache: fc}
		if _, err := c.Layout(ctx, spec); err != nil {
			t.Fatal(err)
		}
		if _, err := os.Stat(filepath.Join(dir, "component_1.gv")); err != nil {
			t.Errorf("artifact missing in %s: %v", dir, err)
		}
	}
	if calls != 2 {
		t.Errorf("engine called %d times, want 2", calls)
	}

	// Without artifacts the stored result is served.
	c := &Cached{Engine: keepingGrid{calls: &calls}, Name: "grid", Cache: fc}
	if _, err := c.Layout(ctx, spec); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("engine called %d times after a stored run, want 2", calls)
	}
}

func TestCachedGraphvizArtifactsOnHit(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the embedded Graphviz")
	}
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	spec := &Spec{
		Name:  "component_1",
		Nodes: []NodeSpec{{Name: "a", Width: 0.75, Height: 0.5}, {Name: "b", Width: 0.75, Height: 0.5}},
		Edges: []EdgeSpec{{Key: "0", From: "a", To: "b"}},
	}
	for _, dir := range []string{t.TempDir(), t.TempDir()} {
		gv := Graphviz{ArtifactDir: dir}
		c := &Cached{Engine: gv, Name: gv.Name(), Cache: fc}
		if _, err := c.Layout(ctx, spec); err != nil {
			t.Fatal(err)
		}
		for _, f := range []string{"component_1.gv", "component_1.xdot"} {
			if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
				t.Errorf("%s: %v", f, err)
			}
		}
	}
}

func TestGridNameTracksPointsPerInch(t *testing.T) {
	tests := []struct {
		a, b Grid
		same bool
	}{
		{Grid{}, Grid{PointsPerInch: DefaultPointsPerInch}, true},
		{Grid{PointsPerInch: 72}, Grid{PointsPerInch: 96}, false},
	}
	for _, tt := range tests {
		if got := tt.a.Name() == tt.b.Name(); got != tt.same {
			t.Errorf("%q vs %q: same = %v, want %v", tt.a.Name(), tt.b.Name(), got, tt.same)
		}
	}

	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	spec := &Spec{Name: "C1", Nodes: []NodeSpec{{Name: "a", Width: 1, Height: 1}}}
	var positions []string
	for _, ppi := range []float64{72, 96} {
		g := Grid{PointsPerInch: ppi}
		res, err := (&Cached{Engine: g, Name: g.Name(), Cache: fc}).Layout(ctx, spec)
		if err != nil {
			t.Fatal(err)
		}
		positions = append(positions, res.Nodes["a"]["pos"])
	}
	if positions[0] == positions[1] {
		t.Errorf("changing points per inch served a stale layout: %v", positions)
	}
}
