package diagram

import (
	"github.com/matzehuels/flowboard/pkg/edge"
	"github.com/matzehuels/flowboard/pkg/flow"
	"github.com/matzehuels/flowboard/pkg/interact"
	"github.com/matzehuels/flowboard/pkg/layout"
	"github.com/matzehuels/flowboard/pkg/port"
)

// Layout is a fully derived diagram, ready for rendering.
type Layout struct {
	Oracle string       `json:"oracle,omitempty"`
	Nodes  []LayoutNode `json:"nodes"`
	Edges  []LayoutEdge `json:"edges"`
}

// LayoutNode is a node with its geometry.
type LayoutNode struct {
	ID       string       `json:"id"`
	Label    string       `json:"label"`
	Position flow.Point   `json:"position"`
	Size     port.Size    `json:"size"`
	Offsets  port.Offsets `json:"offsets"`
}

// LayoutEdge is an edge with its absolute segment.
type LayoutEdge struct {
	flow.EdgeProps
	Segment flow.Segment `json:"segment"`
}

// FromResult combines a diagram with its layout. Edges whose geometry
// cannot be derived are skipped.
func FromResult(d Diagram, res layout.Result) (Layout, error) {
	g, err := flow.Build(d.Nodes, d.Edges)
	if err != nil {
		return Layout{}, err
	}
	f := edge.Frame{
		Graph:     g,
		Positions: make([]flow.Point, len(d.Nodes)),
		Offsets:   make([]port.Offsets, len(d.Nodes)),
	}
	out := Layout{
		Oracle: res.Oracle,
		Nodes:  make([]LayoutNode, len(d.Nodes)),
		Edges:  make([]LayoutEdge, 0, len(d.Edges)),
	}
	for i, n := range d.Nodes {
		f.Positions[i] = res.Positions[n.ID]
		f.Offsets[i] = res.Offsets[n.ID]
		out.Nodes[i] = LayoutNode{
			ID:       n.ID,
			Label:    n.Label(),
			Position: f.Positions[i],
			Size:     res.Box,
			Offsets:  f.Offsets[i],
		}
	}
	for _, e := range d.Edges {
		seg, err := f.Derive(e.Ends())
		if err != nil {
			continue
		}
		out.Edges = append(out.Edges, LayoutEdge{EdgeProps: e, Segment: seg})
	}
	return out, nil
}

// FromSnapshot converts a controller snapshot.
func FromSnapshot(s interact.Snapshot) Layout {
	out := Layout{
		Nodes: make([]LayoutNode, len(s.Nodes)),
		Edges: make([]LayoutEdge, len(s.Edges)),
	}
	for i, n := range s.Nodes {
		out.Nodes[i] = LayoutNode{ID: n.ID, Label: n.Label, Position: n.Position, Size: n.Size, Offsets: n.Offsets}
	}
	for i, e := range s.Edges {
		out.Edges[i] = LayoutEdge{EdgeProps: e.EdgeProps, Segment: e.Segment}
	}
	return out
}

// Apply returns a copy of d with node positions taken from res.
func Apply(d Diagram, res layout.Result) Diagram {
	out := Diagram{Nodes: make([]flow.NodeProps, len(d.Nodes)), Edges: d.Edges}
	for i, n := range d.Nodes {
		if p, ok := res.Positions[n.ID]; ok {
			n.Position = p
		}
		out.Nodes[i] = n
	}
	return out
}
