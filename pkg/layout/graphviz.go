package layout

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-graphviz"

	asmerr "github.com/matzehuels/asmscope/pkg/errors"
)

// graphvizMu serializes calls into go-graphviz, which runs every graph on
// one process-wide wasm module.
var graphvizMu sync.Mutex

// Graphviz lays out specs with the dot algorithm of the embedded Graphviz
// library.
type Graphviz struct {
	// ArtifactDir, when set, receives <spec name>.gv and <spec name>.xdot
	// for every run.
	ArtifactDir string
}

// Name identifies the engine in cache keys.
func (Graphviz) Name() string { return "graphviz-dot" }

// KeepsArtifacts reports whether every run writes files to ArtifactDir.
func (e Graphviz) KeepsArtifacts() bool { return e.ArtifactDir != "" }

// Layout renders spec as DOT, runs dot and reads back the positioned
// attributes. Any Graphviz failure is a COLLABORATOR error. Concurrent
// calls are safe; the Graphviz work itself runs one call at a time.
func (e Graphviz) Layout(ctx context.Context, spec *Spec) (*Result, error) {
	dot := ToDOT(spec)
	xdot, err := render(ctx, spec.Name, dot)
	if err != nil {
		return nil, err
	}
	if e.ArtifactDir != "" {
		if err := e.keep(spec.Name, dot, xdot); err != nil {
			return nil, err
		}
	}
	return ReadXDOT(xdot)
}

// render lays out DOT text and returns the XDOT output.
func render(ctx context.Context, name, dot string) ([]byte, error) {
	graphvizMu.Lock()
	defer graphvizMu.Unlock()

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, asmerr.Wrap(asmerr.ErrCodeCollaborator, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.DOT)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, asmerr.Wrap(asmerr.ErrCodeCollaborator, err, "parse DOT for %s", name)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, asmerr.Wrap(asmerr.ErrCodeCollaborator, err, "layout %s", name)
	}
	return buf.Bytes(), nil
}

func (e Graphviz) keep(name, dot string, xdot []byte) error {
	if err := os.MkdirAll(e.ArtifactDir, 0755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(e.ArtifactDir, name+".gv"), []byte(dot), 0644); err != nil {
		return fmt.Errorf("write %s.gv: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(e.ArtifactDir, name+".xdot"), xdot, 0644); err != nil {
		return fmt.Errorf("write %s.xdot: %w", name, err)
	}
	return nil
}

// ReadXDOT parses laid-out DOT text and collects the graph bounding box,
// node geometry, and edge splines keyed by their comment attribute.
func ReadXDOT(data []byte) (*Result, error) {
	graphvizMu.Lock()
	defer graphvizMu.Unlock()

	g, err := graphviz.ParseBytes(data)
	if err != nil {
		return nil, asmerr.Wrap(asmerr.ErrCodeCorruptLayout, err, "parse laid-out DOT")
	}
	defer g.Close()

	res := NewResult()
	if bb := g.GetStr("bb"); bb != "" {
		res.Graph["bb"] = bb
	}

	n, err := g.FirstNode()
	for n != nil && err == nil {
		name, nerr := n.Name()
		if nerr != nil {
			return nil, asmerr.Wrap(asmerr.ErrCodeCorruptLayout, nerr, "read node name")
		}
		attrs := Attrs{}
		for _, key := range []string{"pos", "width", "height", "shape"} {
			if v := n.GetStr(key); v != "" {
				attrs[key] = v
			}
		}
		res.Nodes[name] = attrs

		e, eerr := g.FirstOut(n)
		for e != nil && eerr == nil {
			if key := e.GetStr("comment"); key != "" {
				res.Edges[key] = Attrs{"pos": e.GetStr("pos")}
			}
			e, eerr = g.NextOut(e)
		}
		if eerr != nil {
			return nil, asmerr.Wrap(asmerr.ErrCodeCorruptLayout, eerr, "read edges of %s", name)
		}
		n, err = g.NextNode(n)
	}
	if err != nil {
		return nil, asmerr.Wrap(asmerr.ErrCodeCorruptLayout, err, "read nodes")
	}
	return res, nil
}
