package interact

import "github.com/matzehuels/flowboard/pkg/flow"

// State is the gesture state. The concrete type is one of [Idle],
// [DraggingNode] or [DraggingPendingEdge].
type State interface {
	String() string
	state()
}

// Idle means no gesture is in progress.
type Idle struct{}

// DraggingNode means node Node follows the pointer. Grab is the pointer
// position relative to the node anchor at press time, so the node keeps
// its place under the pointer instead of jumping to it.
type DraggingNode struct {
	Node int
	Grab flow.Point
}

// DraggingPendingEdge means an edge is being dragged out of output port
// Output of node Node.
type DraggingPendingEdge struct {
	Node   int
	Output int
}

func (Idle) String() string                { return "idle" }
func (DraggingNode) String() string        { return "dragging_node" }
func (DraggingPendingEdge) String() string { return "dragging_pending_edge" }

func (Idle) state()                {}
func (DraggingNode) state()        {}
func (DraggingPendingEdge) state() {}

// Pending is the edge under construction. Start stays fixed at the source
// output port; Preview follows the pointer.
type Pending struct {
	SourceNode   string     `json:"sourceNode"`
	SourceOutput int        `json:"sourceOutput"`
	Start        flow.Point `json:"start"`
	Preview      flow.Point `json:"preview"`
}

// Segment returns the preview segment.
func (p Pending) Segment() flow.Segment { return flow.Segment{Start: p.Start, End: p.Preview} }
