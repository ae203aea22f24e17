package flow

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	ferrors "github.com/matzehuels/flowboard/pkg/errors"
)

var (
	// ErrDuplicateNodeID is returned by [Build] when two nodes share an id.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateEdgeID is returned by [Build] when two edges share an id.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrUnknownSourceNode is returned when an edge's source node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned when an edge's target node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrEdgeIDCollision is returned by [Graph.Attach] when an attached edge
	// already uses the id for different ends. Node ids may contain the ":"
	// and "_" separators of [EdgeID], so distinct port tuples can collide.
	ErrEdgeIDCollision = errors.New("edge ID collision")

	// ErrInconsistentAdjacency is returned by [Graph.Check] when a cached
	// edge id list disagrees with the endpoint table.
	ErrInconsistentAdjacency = errors.New("inconsistent edge adjacency")
)

// Node is the model's view of a node: identity, port counts, and the cached
// ids of incident edges. EdgesIn holds edges whose target is this node,
// EdgesOut edges whose source is this node. Only membership matters.
type Node struct {
	ID       string
	Data     NodeData
	Inputs   int
	Outputs  int
	EdgesIn  []string
	EdgesOut []string
}

// Graph is the geometry-free graph model. Nodes are kept in application
// order and addressed by index; edges are addressed by id through the
// endpoint table.
//
// The endpoint table is never pruned: detached edges keep their record so a
// later re-attach under the same id finds it. Only the per-node lists define
// which edges are connected.
//
// Graph is not safe for concurrent use.
type Graph struct {
	nodes []*Node
	index map[string]int
	ends  map[string]Ends
}

// Build derives a Graph from application props. Every edge is attached to
// both endpoints. Returns an error if ids collide, an edge references a
// missing node, or a port index is outside the node's declared count.
func Build(nodes []NodeProps, edges []EdgeProps) (*Graph, error) {
	g := &Graph{
		nodes: make([]*Node, 0, len(nodes)),
		index: make(map[string]int, len(nodes)),
		ends:  make(map[string]Ends, len(edges)),
	}

	for _, np := range nodes {
		if err := ferrors.ValidateNodeID(np.ID); err != nil {
			return nil, err
		}
		if err := ferrors.ValidatePortCount("input", np.Inputs); err != nil {
			return nil, fmt.Errorf("node %s: %w", np.ID, err)
		}
		if err := ferrors.ValidatePortCount("output", np.Outputs); err != nil {
			return nil, fmt.Errorf("node %s: %w", np.ID, err)
		}
		if _, exists := g.index[np.ID]; exists {
			return nil, fmt.Errorf("node %s: %w", np.ID, ErrDuplicateNodeID)
		}
		g.index[np.ID] = len(g.nodes)
		g.nodes = append(g.nodes, &Node{
			ID:      np.ID,
			Data:    np.Data,
			Inputs:  np.Inputs,
			Outputs: np.Outputs,
		})
	}

	for _, ep := range edges {
		if err := ferrors.ValidateEdgeID(ep.ID); err != nil {
			return nil, err
		}
		if _, exists := g.ends[ep.ID]; exists {
			return nil, fmt.Errorf("edge %s: %w", ep.ID, ErrDuplicateEdgeID)
		}
		if err := g.Attach(ep.ID, ep.Ends()); err != nil {
			return nil, fmt.Errorf("edge %s: %w", ep.ID, err)
		}
	}

	return g, nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node at index i, or nil if i is out of range.
// The returned node is owned by the graph: callers must not mutate it.
func (g *Graph) Node(i int) *Node {
	if i < 0 || i >= len(g.nodes) {
		return nil
	}
	return g.nodes[i]
}

// Index returns the position of the node with the given id.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// Ends returns the endpoint record for an edge id, including detached edges.
func (g *Graph) Ends(edgeID string) (Ends, bool) {
	e, ok := g.ends[edgeID]
	return e, ok
}

// Connected reports whether edgeID is listed on the source node's outgoing
// list or the target node's incoming list. Both lists are consulted so that
// a half-attached edge still counts as present.
func (g *Graph) Connected(edgeID string, source, target int) bool {
	if n := g.Node(source); n != nil && slices.Contains(n.EdgesOut, edgeID) {
		return true
	}
	if n := g.Node(target); n != nil && slices.Contains(n.EdgesIn, edgeID) {
		return true
	}
	return false
}

// Attached reports whether edgeID is listed on either of its recorded
// endpoint nodes.
func (g *Graph) Attached(edgeID string) bool {
	e, ok := g.ends[edgeID]
	if !ok {
		return false
	}
	src, sok := g.index[e.SourceNode]
	dst, dok := g.index[e.TargetNode]
	return (sok && slices.Contains(g.nodes[src].EdgesOut, edgeID)) ||
		(dok && slices.Contains(g.nodes[dst].EdgesIn, edgeID))
}

// Attach records the ends of edgeID and appends the id to the source node's
// outgoing list and the target node's incoming list. A detached record is
// replaced; an attached one with different ends is a collision. Validation
// happens before any mutation, so a failed Attach leaves the graph unchanged.
func (g *Graph) Attach(edgeID string, e Ends) error {
	src, ok := g.index[e.SourceNode]
	if !ok {
		return ferrors.Wrap(ferrors.ErrCodeUnknownNode, ErrUnknownSourceNode, "source %q", e.SourceNode)
	}
	dst, ok := g.index[e.TargetNode]
	if !ok {
		return ferrors.Wrap(ferrors.ErrCodeUnknownNode, ErrUnknownTargetNode, "target %q", e.TargetNode)
	}
	if err := ferrors.ValidatePortIndex("output", e.SourceOutput, g.nodes[src].Outputs); err != nil {
		return err
	}
	if err := ferrors.ValidatePortIndex("input", e.TargetInput, g.nodes[dst].Inputs); err != nil {
		return err
	}
	if prev, ok := g.ends[edgeID]; ok && prev != e && g.Attached(edgeID) {
		return ferrors.Wrap(ferrors.ErrCodeEdgeIDCollision, ErrEdgeIDCollision,
			"%s already joins %s:%d to %s:%d", edgeID, prev.SourceNode, prev.SourceOutput, prev.TargetNode, prev.TargetInput)
	}

	g.ends[edgeID] = e
	if !slices.Contains(g.nodes[src].EdgesOut, edgeID) {
		g.nodes[src].EdgesOut = append(g.nodes[src].EdgesOut, edgeID)
	}
	if !slices.Contains(g.nodes[dst].EdgesIn, edgeID) {
		g.nodes[dst].EdgesIn = append(g.nodes[dst].EdgesIn, edgeID)
	}
	return nil
}

// Detach removes edgeID from both endpoint lists. The endpoint record is
// kept. Returns false if the edge id was never recorded.
func (g *Graph) Detach(edgeID string) (Ends, bool) {
	e, ok := g.ends[edgeID]
	if !ok {
		return Ends{}, false
	}
	match := func(s string) bool { return s == edgeID }
	if src, ok := g.index[e.SourceNode]; ok {
		g.nodes[src].EdgesOut = slices.DeleteFunc(g.nodes[src].EdgesOut, match)
	}
	if dst, ok := g.index[e.TargetNode]; ok {
		g.nodes[dst].EdgesIn = slices.DeleteFunc(g.nodes[dst].EdgesIn, match)
	}
	return e, true
}

// EdgeIDs returns every recorded edge id in sorted order, attached or not.
func (g *Graph) EdgeIDs() []string {
	return slices.Sorted(maps.Keys(g.ends))
}

// Check verifies the adjacency invariant: every id in a node's EdgesIn names
// an edge targeting that node, every id in EdgesOut an edge sourced at it,
// and an edge listed on one endpoint is listed on the other.
func (g *Graph) Check() error {
	for _, n := range g.nodes {
		for _, id := range n.EdgesIn {
			e, ok := g.ends[id]
			if !ok || e.TargetNode != n.ID {
				return fmt.Errorf("%w: %s listed as incoming on %s", ErrInconsistentAdjacency, id, n.ID)
			}
			src := g.nodes[g.index[e.SourceNode]]
			if !slices.Contains(src.EdgesOut, id) {
				return fmt.Errorf("%w: %s missing from outgoing list of %s", ErrInconsistentAdjacency, id, src.ID)
			}
		}
		for _, id := range n.EdgesOut {
			e, ok := g.ends[id]
			if !ok || e.SourceNode != n.ID {
				return fmt.Errorf("%w: %s listed as outgoing on %s", ErrInconsistentAdjacency, id, n.ID)
			}
			dst := g.nodes[g.index[e.TargetNode]]
			if !slices.Contains(dst.EdgesIn, id) {
				return fmt.Errorf("%w: %s missing from incoming list of %s", ErrInconsistentAdjacency, id, dst.ID)
			}
		}
	}
	return nil
}
