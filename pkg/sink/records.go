package sink

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/asmscope/pkg/asm"
	"github.com/matzehuels/asmscope/pkg/stats"
)

// Point is one control point in points.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// NodeRecord is one finalized node.
type NodeRecord struct {
	ID       string   `json:"id" bson:"id"`
	Length   int      `json:"length" bson:"length"`
	Sequence string   `json:"sequence,omitempty" bson:"sequence,omitempty"`
	GC       *float64 `json:"gc,omitempty" bson:"gc,omitempty"`
	Depth    *float64 `json:"depth,omitempty" bson:"depth,omitempty"`
	Rank     int      `json:"component_rank" bson:"component_rank"`
	X        float64  `json:"x" bson:"x"`
	Y        float64  `json:"y" bson:"y"`
	Width    float64  `json:"w" bson:"w"`
	Height   float64  `json:"h" bson:"h"`
	Shape    string   `json:"shape" bson:"shape"`
	Group    string   `json:"group,omitempty" bson:"group,omitempty"`
}

// EdgeRecord is one finalized edge.
type EdgeRecord struct {
	From         string   `json:"source_id" bson:"source_id"`
	To           string   `json:"target_id" bson:"target_id"`
	Multiplicity int      `json:"multiplicity,omitempty" bson:"multiplicity,omitempty"`
	Orientation  string   `json:"orientation,omitempty" bson:"orientation,omitempty"`
	Mean         *float64 `json:"mean,omitempty" bson:"mean,omitempty"`
	Stdev        *float64 `json:"stdev,omitempty" bson:"stdev,omitempty"`
	Rank         int      `json:"component_rank" bson:"component_rank"`
	PointCount   int      `json:"control_point_count" bson:"control_point_count"`
	Points       []Point  `json:"control_points" bson:"control_points"`
	Group        string   `json:"group,omitempty" bson:"group,omitempty"`
}

// ClusterRecord is one finalized group.
type ClusterRecord struct {
	ID        string  `json:"id" bson:"id"`
	Kind      string  `json:"kind" bson:"kind"`
	Rank      int     `json:"component_rank" bson:"component_rank"`
	NodeCount int     `json:"node_count" bson:"node_count"`
	Length    int     `json:"length" bson:"length"`
	Left      float64 `json:"left" bson:"left"`
	Bottom    float64 `json:"bottom" bson:"bottom"`
	Right     float64 `json:"right" bson:"right"`
	Top       float64 `json:"top" bson:"top"`
}

// ComponentRecord is the batch of one component: its summary and every
// node, edge and cluster in it.
type ComponentRecord struct {
	RunID     string  `json:"run_id" bson:"run_id"`
	Rank      int     `json:"rank" bson:"rank"`
	NodeCount int     `json:"node_count" bson:"node_count"`
	EdgeCount int     `json:"edge_count" bson:"edge_count"`
	Length    int     `json:"total_length" bson:"total_length"`
	BoundingX float64 `json:"boundingbox_x" bson:"boundingbox_x"`
	BoundingY float64 `json:"boundingbox_y" bson:"boundingbox_y"`

	Nodes    []NodeRecord    `json:"nodes" bson:"nodes,omitempty"`
	Edges    []EdgeRecord    `json:"edges" bson:"edges,omitempty"`
	Clusters []ClusterRecord `json:"clusters" bson:"clusters,omitempty"`
}

// Summary returns a copy of the record without its nodes, edges and
// clusters.
func (c *ComponentRecord) Summary() ComponentRecord {
	s := *c
	s.Nodes, s.Edges, s.Clusters = nil, nil, nil
	return s
}

// AssemblyRecord is the assembly-wide summary of a run.
type AssemblyRecord struct {
	RunID          string         `json:"run_id" bson:"run_id"`
	FileName       string         `json:"filename" bson:"filename"`
	FileType       string         `json:"filetype" bson:"filetype"`
	NodeCount      int            `json:"node_count" bson:"node_count"`
	EdgeCount      int            `json:"edge_count" bson:"edge_count"`
	ComponentCount int            `json:"component_count" bson:"component_count"`
	TotalLength    int            `json:"total_length" bson:"total_length"`
	N50            int            `json:"n50" bson:"n50"`
	GC             *float64       `json:"gc_content,omitempty" bson:"gc_content,omitempty"`
	DoubleStranded bool           `json:"double_stranded" bson:"double_stranded"`
	Groups         map[string]int `json:"groups,omitempty" bson:"groups,omitempty"`
	CreatedAt      time.Time      `json:"created_at" bson:"created_at"`
}

// NewRunID returns a fresh run id.
func NewRunID() string { return uuid.NewString() }

// NewComponentRecord builds the batch of a reconciled component.
func NewComponentRecord(runID string, g *asm.Graph, comp *asm.Component) *ComponentRecord {
	rec := &ComponentRecord{
		RunID:     runID,
		Rank:      comp.Rank,
		NodeCount: comp.NodeCount,
		EdgeCount: comp.EdgeCount,
		Length:    comp.Length,
		BoundingX: comp.BBox.Right,
		BoundingY: comp.BBox.Top,
		Nodes:     make([]NodeRecord, 0, len(comp.Nodes)),
		Clusters:  make([]ClusterRecord, 0, len(comp.Groups)),
	}
	for _, id := range comp.Nodes {
		n := g.Node(id)
		rec.Nodes = append(rec.Nodes, NodeRecord{
			ID:       n.Name,
			Length:   n.Length,
			Sequence: n.Sequence,
			GC:       n.GC,
			Depth:    n.Depth,
			Rank:     n.Rank,
			X:        n.X,
			Y:        n.Y,
			Width:    n.Width,
			Height:   n.Height,
			Shape:    n.Shape,
			Group:    groupName(g, n.Group),
		})
	}
	for _, id := range comp.Edges(g) {
		e := g.Edge(id)
		pts := make([]Point, len(e.Points))
		for i, p := range e.Points {
			pts[i] = Point{X: p.X, Y: p.Y}
		}
		rec.Edges = append(rec.Edges, EdgeRecord{
			From:         g.Node(e.From).Name,
			To:           g.Node(e.To).Name,
			Multiplicity: e.Multiplicity,
			Orientation:  e.Orientation,
			Mean:         e.Mean,
			Stdev:        e.Stdev,
			Rank:         e.Rank,
			PointCount:   len(pts),
			Points:       pts,
			Group:        groupName(g, e.Group),
		})
	}
	for _, id := range comp.Groups {
		grp := g.Group(id)
		rec.Clusters = append(rec.Clusters, ClusterRecord{
			ID:        grp.Name,
			Kind:      grp.Kind.String(),
			Rank:      grp.Rank,
			NodeCount: grp.NodeCount(),
			Length:    grp.Length,
			Left:      grp.Left,
			Bottom:    grp.Bottom,
			Right:     grp.Right,
			Top:       grp.Top,
		})
	}
	return rec
}

func groupName(g *asm.Graph, id asm.GroupID) string {
	if id == asm.NoGroup {
		return ""
	}
	return g.Group(id).Name
}

// NewAssemblyRecord builds the assembly summary record of a run.
func NewAssemblyRecord(runID string, s stats.Summary, double bool, groups map[string]int) *AssemblyRecord {
	return &AssemblyRecord{
		RunID:          runID,
		FileName:       s.FileName,
		FileType:       s.FileType,
		NodeCount:      s.NodeCount,
		EdgeCount:      s.EdgeCount,
		ComponentCount: s.ComponentCount,
		TotalLength:    s.TotalLength,
		N50:            s.N50,
		GC:             s.GC,
		DoubleStranded: double,
		Groups:         groups,
		CreatedAt:      time.Now().UTC(),
	}
}
