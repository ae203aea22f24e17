package interact

import (
	"github.com/matzehuels/flowboard/pkg/flow"
	"github.com/matzehuels/flowboard/pkg/port"
)

// NodeView is the render state of one node.
type NodeView struct {
	ID        string       `json:"id"`
	Label     string       `json:"label"`
	Position  flow.Point   `json:"position"`
	Size      port.Size    `json:"size"`
	Offsets   port.Offsets `json:"offsets"`
	Deletable bool         `json:"deletable"`
}

// EdgeView is the render state of one active edge.
type EdgeView struct {
	flow.EdgeProps
	Segment flow.Segment `json:"segment"`
}

// Snapshot is a copy of all derived geometry, safe to hold across gestures.
// Pending is non-nil while an edge is dragged; renderers show a crosshair
// cursor then.
type Snapshot struct {
	State   string     `json:"state"`
	Nodes   []NodeView `json:"nodes"`
	Edges   []EdgeView `json:"edges"`
	Pending *Pending   `json:"pending,omitempty"`
}

// Snapshot captures the current render state. Edges are sorted by id.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		State:   c.state.String(),
		Nodes:   make([]NodeView, len(c.nodes)),
		Pending: c.Pending(),
	}
	for i, n := range c.nodes {
		s.Nodes[i] = NodeView{
			ID:        n.ID,
			Label:     n.Label(),
			Position:  c.positions[i],
			Size:      c.sizes[i],
			Offsets:   c.offsets[i].Clone(),
			Deletable: n.Deletable(),
		}
	}
	edges := c.edges.Projection(c.graph)
	s.Edges = make([]EdgeView, 0, len(edges))
	for _, e := range edges {
		seg, _ := c.edges.Segment(e.ID)
		s.Edges = append(s.Edges, EdgeView{EdgeProps: e, Segment: seg})
	}
	return s
}
