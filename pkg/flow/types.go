package flow

import (
	"fmt"
	"math"
)

// =============================================================================
// Geometry Primitives
// =============================================================================

// Point is a 2D coordinate in diagram units. The y axis grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Segment is a straight line between two absolute points. Edges are always
// drawn as segments from the source output port to the target input port.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Translate returns s with both endpoints moved by d.
func (s Segment) Translate(d Point) Segment {
	return Segment{Start: s.Start.Add(d), End: s.End.Add(d)}
}

// Distance returns the shortest distance from p to the segment.
func (s Segment) Distance(p Point) float64 {
	dx, dy := s.End.X-s.Start.X, s.End.Y-s.Start.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(p.X-s.Start.X, p.Y-s.Start.Y)
	}
	t := ((p.X-s.Start.X)*dx + (p.Y-s.Start.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(s.Start.X+t*dx), p.Y-(s.Start.Y+t*dy))
}

// =============================================================================
// Application Props
// =============================================================================

// NodeData is the opaque label/content payload the application attaches to
// a node. Only Label is interpreted, and only by renderers.
type NodeData struct {
	Label   string `json:"label,omitempty"`
	Content any    `json:"content,omitempty"`
}

// NodeActions lists the optional affordances a renderer offers for a node.
type NodeActions struct {
	Delete bool `json:"delete"`
}

// NodeProps is a node as supplied by the surrounding application.
// Position is advisory: it is overwritten by layout on structural change.
type NodeProps struct {
	ID       string       `json:"id"`
	Position Point        `json:"position"`
	Data     NodeData     `json:"data"`
	Inputs   int          `json:"inputs"`
	Outputs  int          `json:"outputs"`
	Actions  *NodeActions `json:"actions,omitempty"`
}

// Label returns the display label, falling back to the node id.
func (n NodeProps) Label() string {
	if n.Data.Label != "" {
		return n.Data.Label
	}
	return n.ID
}

// Deletable reports whether the application enabled the delete affordance.
func (n NodeProps) Deletable() bool { return n.Actions != nil && n.Actions.Delete }

// EdgeProps is an edge as supplied by, and reported back to, the application.
type EdgeProps struct {
	ID           string `json:"id"`
	SourceNode   string `json:"sourceNode"`
	SourceOutput int    `json:"sourceOutput"`
	TargetNode   string `json:"targetNode"`
	TargetInput  int    `json:"targetInput"`
}

// Ends returns the endpoint record of the edge.
func (e EdgeProps) Ends() Ends {
	return Ends{
		SourceNode:   e.SourceNode,
		SourceOutput: e.SourceOutput,
		TargetNode:   e.TargetNode,
		TargetInput:  e.TargetInput,
	}
}

// Ends identifies the two ports an edge connects.
type Ends struct {
	SourceNode   string `json:"sourceNode"`
	SourceOutput int    `json:"sourceOutput"`
	TargetNode   string `json:"targetNode"`
	TargetInput  int    `json:"targetInput"`
}

// Props reconstructs the application-facing edge for id.
func (e Ends) Props(id string) EdgeProps {
	return EdgeProps{
		ID:           id,
		SourceNode:   e.SourceNode,
		SourceOutput: e.SourceOutput,
		TargetNode:   e.TargetNode,
		TargetInput:  e.TargetInput,
	}
}

// ID returns the deterministic edge id for these ends.
func (e Ends) ID() string {
	return EdgeID(e.SourceNode, e.SourceOutput, e.TargetNode, e.TargetInput)
}

// EdgeID derives the identity of the edge connecting output sourceOutput of
// sourceNode to input targetInput of targetNode. The format is part of the
// wire contract:
//
//	edge_<sourceNode>:<sourceOutput>_<targetNode>:<targetInput>
//
// Two edges between the same ports always collide to the same id.
func EdgeID(sourceNode string, sourceOutput int, targetNode string, targetInput int) string {
	return fmt.Sprintf("edge_%s:%d_%s:%d", sourceNode, sourceOutput, targetNode, targetInput)
}
