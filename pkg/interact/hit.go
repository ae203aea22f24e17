package interact

import (
	"math"

	"github.com/matzehuels/flowboard/pkg/flow"
)

// Target is what a pointer position resolves to.
type Target int

const (
	TargetCanvas Target = iota
	TargetNode
	TargetOutput
	TargetInput
	TargetEdge
)

func (t Target) String() string {
	switch t {
	case TargetNode:
		return "node"
	case TargetOutput:
		return "output"
	case TargetInput:
		return "input"
	case TargetEdge:
		return "edge"
	default:
		return "canvas"
	}
}

// Hit is the result of [Controller.HitTest]. Node and Port are -1 when not
// applicable; Edge is empty unless Target is TargetEdge.
type Hit struct {
	Target Target
	Node   int
	Port   int
	Edge   string
}

// HitTest resolves p. Ports win over node bodies, bodies over edges. Among
// overlapping nodes the one drawn last, which is the last in application
// order, wins.
func (c *Controller) HitTest(p flow.Point) Hit {
	f := c.frame()
	for i := len(c.positions) - 1; i >= 0; i-- {
		for j := range c.offsets[i].Outputs {
			if q, ok := f.OutputAt(i, j); ok && dist(p, q) <= c.radius {
				return Hit{Target: TargetOutput, Node: i, Port: j}
			}
		}
		for j := range c.offsets[i].Inputs {
			if q, ok := f.InputAt(i, j); ok && dist(p, q) <= c.radius {
				return Hit{Target: TargetInput, Node: i, Port: j}
			}
		}
	}
	for i := len(c.positions) - 1; i >= 0; i-- {
		pos, s := c.positions[i], c.sizes[i]
		if p.X >= pos.X && p.X <= pos.X+s.W && p.Y >= pos.Y-s.H/2 && p.Y <= pos.Y+s.H/2 {
			return Hit{Target: TargetNode, Node: i, Port: -1}
		}
	}

	best, bestDist := "", math.Inf(1)
	for _, id := range c.edges.ActiveIDs() {
		seg, _ := c.edges.Segment(id)
		if d := seg.Distance(p); d <= c.radius && d < bestDist {
			best, bestDist = id, d
		}
	}
	if best != "" {
		return Hit{Target: TargetEdge, Node: -1, Port: -1, Edge: best}
	}
	return Hit{Target: TargetCanvas, Node: -1, Port: -1}
}

// PointerDown presses whatever is under p: an output port starts a pending
// edge, a node body starts a drag. Inputs, edges and the canvas start
// nothing. The hit is returned so hosts can track a hovered edge.
func (c *Controller) PointerDown(p flow.Point) (Hit, error) {
	h := c.HitTest(p)
	switch h.Target {
	case TargetOutput:
		return h, c.PressOutput(h.Node, h.Port)
	case TargetNode:
		return h, c.PressNode(h.Node, p)
	}
	return h, nil
}

// PointerMove feeds p to the active gesture.
func (c *Controller) PointerMove(p flow.Point) {
	c.MoveNode(p)
	c.MovePointer(p)
}

// PointerUp ends the active gesture at p. A pending edge released over an
// input port is committed (or rejected); released anywhere else it is
// discarded. The global release always runs last.
func (c *Controller) PointerUp(p flow.Point) (Hit, error) {
	h := c.HitTest(p)
	var err error
	switch c.state.(type) {
	case DraggingPendingEdge:
		if h.Target == TargetInput {
			err = c.ReleaseOnInput(h.Node, h.Port)
		}
	case DraggingNode:
		c.ReleaseNode()
	}
	c.Release()
	return h, err
}

func dist(a, b flow.Point) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }
