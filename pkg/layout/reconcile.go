package layout

import (
	"context"
	"fmt"

	"github.com/matzehuels/asmscope/pkg/asm"
)

// DefaultPointsPerInch is the Graphviz resolution.
const DefaultPointsPerInch = 72.0

// Options configures two-level layout.
type Options struct {
	PointsPerInch float64 // Defaults to DefaultPointsPerInch
	Sizer         Sizer   // Zero value means DefaultSizer
}

func (o Options) ppi() float64 {
	if o.PointsPerInch <= 0 {
		return DefaultPointsPerInch
	}
	return o.PointsPerInch
}

func (o Options) sizer() Sizer {
	if o.Sizer == (Sizer{}) {
		return DefaultSizer()
	}
	return o.Sizer
}

// LocalSpec returns the layout spec of one group in isolation: its members
// and its interior edges.
func LocalSpec(g *asm.Graph, gid asm.GroupID, opts Options) *Spec {
	grp := g.Group(gid)
	sizer := opts.sizer()
	spec := &Spec{Name: grp.Name}
	for _, m := range grp.Members {
		spec.Nodes = append(spec.Nodes, sizer.NodeSpec(g.Node(m)))
	}
	for _, id := range grp.Edges {
		e := g.Edge(id)
		spec.Edges = append(spec.Edges, EdgeSpec{
			Key:  EdgeKey(id),
			From: g.Node(e.From).Name,
			To:   g.Node(e.To).Name,
		})
	}
	return spec
}

// Local lays out one group in isolation. Members receive positions relative
// to the lower-left corner of the layout's bounding box, interior edges
// receive relative control points, and the group receives its size in
// inches.
func Local(ctx context.Context, e Engine, g *asm.Graph, gid asm.GroupID, opts Options) error {
	res, err := e.Layout(ctx, LocalSpec(g, gid, opts))
	if err != nil {
		return err
	}
	return ApplyLocal(g, gid, res, opts.ppi())
}

// ApplyLocal stores a group's local layout result.
func ApplyLocal(g *asm.Graph, gid asm.GroupID, res *Result, ppi float64) error {
	grp := g.Group(gid)
	ll, ur, err := res.bbox()
	if err != nil {
		return fmt.Errorf("group %s: %w", grp.Name, err)
	}

	for _, m := range grp.Members {
		n := g.Node(m)
		attrs, err := res.node(n.Name)
		if err != nil {
			return err
		}
		pos, err := attrs.point(n.Name, "pos")
		if err != nil {
			return err
		}
		if n.Width, err = attrs.float(n.Name, "width"); err != nil {
			return err
		}
		if n.Height, err = attrs.float(n.Name, "height"); err != nil {
			return err
		}
		n.Shape = attrs["shape"]
		n.RelX, n.RelY = pos.X-ll.X, pos.Y-ll.Y
	}

	for _, id := range grp.Edges {
		key := EdgeKey(id)
		attrs, err := res.edge(key)
		if err != nil {
			return err
		}
		pos, err := attrs.str("edge "+key, "pos")
		if err != nil {
			return err
		}
		pts, err := ParseSpline(pos)
		if err != nil {
			return fmt.Errorf("edge %s: %w", key, err)
		}
		for i := range pts {
			pts[i].X -= ll.X
			pts[i].Y -= ll.Y
		}
		g.Edge(id).RelPoints = pts
	}

	grp.Width = (ur.X - ll.X) / ppi
	grp.Height = (ur.Y - ll.Y) / ppi
	return nil
}

// GlobalSpec returns the layout spec of a whole component: plain nodes,
// one fixed-size rectangle per group, and every edge that is not interior
// to a group, routed to the boxes of the groups its endpoints belong to.
// Groups must have been laid out by [Local] first.
func GlobalSpec(g *asm.Graph, comp *asm.Component, opts Options) *Spec {
	sizer := opts.sizer()
	spec := &Spec{Name: fmt.Sprintf("component_%d", comp.Rank)}
	for _, item := range comp.Items {
		switch it := item.(type) {
		case asm.NodeItem:
			spec.Nodes = append(spec.Nodes, sizer.NodeSpec(g.Node(it.ID)))
		case asm.GroupItem:
			grp := g.Group(it.ID)
			spec.Nodes = append(spec.Nodes, NodeSpec{
				Name:   PlaceholderName(grp),
				Width:  grp.Width,
				Height: grp.Height,
				Shape:  "rectangle",
				Label:  grp.Name,
				Fixed:  true,
			})
		default:
			panic("layout: unknown drawable item")
		}
	}
	for _, id := range comp.Edges(g) {
		e := g.Edge(id)
		if e.Group != asm.NoGroup {
			continue
		}
		spec.Edges = append(spec.Edges, EdgeSpec{
			Key:  EdgeKey(id),
			From: itemLayoutName(g, g.ItemOf(e.From)),
			To:   itemLayoutName(g, g.ItemOf(e.To)),
		})
	}
	return spec
}

func itemLayoutName(g *asm.Graph, item asm.Drawable) string {
	if it, ok := item.(asm.GroupItem); ok {
		return PlaceholderName(g.Group(it.ID))
	}
	return g.ItemName(item)
}

// Global lays out a component with groups as opaque boxes and returns the
// raw result for [Reconcile].
func Global(ctx context.Context, e Engine, g *asm.Graph, comp *asm.Component, opts Options) (*Result, error) {
	return e.Layout(ctx, GlobalSpec(g, comp, opts))
}

// Reconcile fuses local and global layouts into the component's absolute
// frame and sets the component bounding box.
//
// Plain nodes take their position and size from the global result. A
// group's extent follows from its placeholder center and its local size;
// members and interior edge points are translated by the group's
// lower-left corner. Plain edges take their splines from the global
// result. The box grows by pure maxima, so the result does not depend on
// item order.
func Reconcile(g *asm.Graph, comp *asm.Component, res *Result, ppi float64) error {
	var box asm.BBox

	for _, item := range comp.Items {
		switch it := item.(type) {
		case asm.NodeItem:
			n := g.Node(it.ID)
			attrs, err := res.node(n.Name)
			if err != nil {
				return err
			}
			pos, err := attrs.point(n.Name, "pos")
			if err != nil {
				return err
			}
			if n.Width, err = attrs.float(n.Name, "width"); err != nil {
				return err
			}
			if n.Height, err = attrs.float(n.Name, "height"); err != nil {
				return err
			}
			if s := attrs["shape"]; s != "" {
				n.Shape = s
			}
			n.X, n.Y = pos.X, pos.Y
			box = box.Expand(n.X+ppi*n.Width/2, n.Y+ppi*n.Height/2)

		case asm.GroupItem:
			grp := g.Group(it.ID)
			name := PlaceholderName(grp)
			attrs, err := res.node(name)
			if err != nil {
				return err
			}
			pos, err := attrs.point(name, "pos")
			if err != nil {
				return err
			}
			placeGroup(g, grp, pos, ppi)
			box = box.Expand(grp.Right, grp.Top)

		default:
			panic("layout: unknown drawable item")
		}
	}

	for _, id := range comp.Edges(g) {
		e := g.Edge(id)
		if e.Group != asm.NoGroup {
			continue
		}
		key := EdgeKey(id)
		attrs, err := res.edge(key)
		if err != nil {
			return err
		}
		pos, err := attrs.str("edge "+key, "pos")
		if err != nil {
			return err
		}
		pts, err := ParseSpline(pos)
		if err != nil {
			return fmt.Errorf("edge %s: %w", key, err)
		}
		e.Points = pts
		for _, p := range pts {
			box = box.Expand(p.X, p.Y)
		}
	}

	comp.BBox = box
	return nil
}

func placeGroup(g *asm.Graph, grp *asm.Group, center asm.Point, ppi float64) {
	halfW, halfH := ppi*grp.Width/2, ppi*grp.Height/2
	grp.X, grp.Y = center.X, center.Y
	grp.Left, grp.Right = center.X-halfW, center.X+halfW
	grp.Bottom, grp.Top = center.Y-halfH, center.Y+halfH

	for _, m := range grp.Members {
		n := g.Node(m)
		n.X = grp.Left + n.RelX
		n.Y = grp.Bottom + n.RelY
	}
	for _, id := range grp.Edges {
		e := g.Edge(id)
		e.Points = make([]asm.Point, len(e.RelPoints))
		for i, p := range e.RelPoints {
			e.Points[i] = asm.Point{X: grp.Left + p.X, Y: grp.Bottom + p.Y}
		}
	}
}

// Component lays out every group of the component locally, then the
// component globally, and reconciles the two.
func Component(ctx context.Context, e Engine, g *asm.Graph, comp *asm.Component, opts Options) error {
	for _, gid := range comp.Groups {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := Local(ctx, e, g, gid, opts); err != nil {
			return fmt.Errorf("local layout of %s: %w", g.Group(gid).Name, err)
		}
	}
	res, err := Global(ctx, e, g, comp, opts)
	if err != nil {
		return fmt.Errorf("global layout of component %d: %w", comp.Rank, err)
	}
	if err := Reconcile(g, comp, res, opts.ppi()); err != nil {
		return fmt.Errorf("reconcile component %d: %w", comp.Rank, err)
	}
	return nil
}
