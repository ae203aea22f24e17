// Package edge derives absolute edge geometry from node positions and port
// offsets.
//
// An edge is drawn as a straight segment:
//
//	start = position(source) + outputOffset(source, sourceOutput)
//	end   = position(target) + inputOffset(target, targetInput)
//
// [Table] keeps the derived segment and the active flag of every edge id.
// When a node moves, [Table.Follow] walks the node's cached incoming and
// outgoing edge lists and rewrites only the endpoint on that node, so the
// cost of a drag frame is O(degree of the dragged node).
package edge

import (
	"fmt"
	"maps"
	"slices"

	ferrors "github.com/matzehuels/flowboard/pkg/errors"
	"github.com/matzehuels/flowboard/pkg/flow"
	"github.com/matzehuels/flowboard/pkg/port"
)

// Frame is a read-only view of the geometry inputs: the graph model plus the
// per-node positions and offsets, both indexed like the graph's nodes.
type Frame struct {
	Graph     *flow.Graph
	Positions []flow.Point
	Offsets   []port.Offsets
}

// Start returns the absolute position of output port i of a node at pos.
func Start(pos flow.Point, off port.Offsets, i int) (flow.Point, bool) {
	o, ok := off.Output(i)
	if !ok {
		return flow.Point{}, false
	}
	return pos.Add(o), true
}

// End returns the absolute position of input port i of a node at pos.
func End(pos flow.Point, off port.Offsets, i int) (flow.Point, bool) {
	o, ok := off.Input(i)
	if !ok {
		return flow.Point{}, false
	}
	return pos.Add(o), true
}

// OutputAt returns the absolute position of output port out of node i.
func (f Frame) OutputAt(i, out int) (flow.Point, bool) {
	if i < 0 || i >= len(f.Positions) || i >= len(f.Offsets) {
		return flow.Point{}, false
	}
	return Start(f.Positions[i], f.Offsets[i], out)
}

// InputAt returns the absolute position of input port in of node i.
func (f Frame) InputAt(i, in int) (flow.Point, bool) {
	if i < 0 || i >= len(f.Positions) || i >= len(f.Offsets) {
		return flow.Point{}, false
	}
	return End(f.Positions[i], f.Offsets[i], in)
}

// Derive computes the full segment for an edge's ends.
func (f Frame) Derive(e flow.Ends) (flow.Segment, error) {
	src, ok := f.Graph.Index(e.SourceNode)
	if !ok {
		return flow.Segment{}, ferrors.New(ferrors.ErrCodeUnknownNode, "source %q", e.SourceNode)
	}
	dst, ok := f.Graph.Index(e.TargetNode)
	if !ok {
		return flow.Segment{}, ferrors.New(ferrors.ErrCodeUnknownNode, "target %q", e.TargetNode)
	}
	start, ok := f.OutputAt(src, e.SourceOutput)
	if !ok {
		return flow.Segment{}, ferrors.New(ferrors.ErrCodeInvalidPortIndex, "output %d of %s", e.SourceOutput, e.SourceNode)
	}
	end, ok := f.InputAt(dst, e.TargetInput)
	if !ok {
		return flow.Segment{}, ferrors.New(ferrors.ErrCodeInvalidPortIndex, "input %d of %s", e.TargetInput, e.TargetNode)
	}
	return flow.Segment{Start: start, End: end}, nil
}

// Table maps edge ids to their derived segment and active flag.
//
// Records are never deleted by the interaction layer: a deleted edge is
// merely deactivated and drops out of [Table.Projection].
type Table struct {
	segments map[string]flow.Segment
	active   map[string]bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		segments: make(map[string]flow.Segment),
		active:   make(map[string]bool),
	}
}

// Set stores seg for id without changing its active flag.
func (t *Table) Set(id string, seg flow.Segment) { t.segments[id] = seg }

// Segment returns the stored segment for id.
func (t *Table) Segment(id string) (flow.Segment, bool) {
	s, ok := t.segments[id]
	return s, ok
}

// Activate marks id as part of the committed graph.
func (t *Table) Activate(id string) { t.active[id] = true }

// Deactivate marks id as soft-deleted and reports whether it was active.
func (t *Table) Deactivate(id string) bool {
	was := t.active[id]
	t.active[id] = false
	return was
}

// Active reports whether id is part of the committed graph.
func (t *Table) Active(id string) bool { return t.active[id] }

// Known reports whether id has ever been recorded, active or not.
func (t *Table) Known(id string) bool {
	_, ok := t.active[id]
	return ok
}

// ActiveIDs returns the ids of all active edges in sorted order.
func (t *Table) ActiveIDs() []string {
	ids := make([]string, 0, len(t.active))
	for _, id := range slices.Sorted(maps.Keys(t.active)) {
		if t.active[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// Segments returns a copy of the segments of all active edges.
func (t *Table) Segments() map[string]flow.Segment {
	out := make(map[string]flow.Segment, len(t.active))
	for id, on := range t.active {
		if on {
			out[id] = t.segments[id]
		}
	}
	return out
}

// Projection reconstructs the application edge list: exactly the edges whose
// active flag is set, with ends taken from the graph's endpoint table.
func (t *Table) Projection(g *flow.Graph) []flow.EdgeProps {
	ids := t.ActiveIDs()
	out := make([]flow.EdgeProps, 0, len(ids))
	for _, id := range ids {
		if e, ok := g.Ends(id); ok {
			out = append(out, e.Props(id))
		}
	}
	return out
}

// Reset drops every record.
func (t *Table) Reset() {
	clear(t.segments)
	clear(t.active)
}

// Follow rewrites the endpoints lying on node i for every active incident
// edge, leaving the opposite endpoints untouched. Inactive edges and edges
// whose port index has no offset are skipped. Returns the number of
// endpoints rewritten.
func (t *Table) Follow(f Frame, i int) int {
	n := f.Graph.Node(i)
	if n == nil {
		return 0
	}
	updated := 0
	for _, id := range n.EdgesIn {
		if !t.active[id] {
			continue
		}
		e, _ := f.Graph.Ends(id)
		end, ok := f.InputAt(i, e.TargetInput)
		if !ok {
			continue
		}
		seg := t.segments[id]
		seg.End = end
		t.segments[id] = seg
		updated++
	}
	for _, id := range n.EdgesOut {
		if !t.active[id] {
			continue
		}
		e, _ := f.Graph.Ends(id)
		start, ok := f.OutputAt(i, e.SourceOutput)
		if !ok {
			continue
		}
		seg := t.segments[id]
		seg.Start = start
		t.segments[id] = seg
		updated++
	}
	return updated
}

// Refresh re-derives both endpoints of every edge incident on node i and
// activates it. Used when a node's port geometry is first reported. If any
// edge cannot be derived the table is left unchanged.
func (t *Table) Refresh(f Frame, i int) error {
	n := f.Graph.Node(i)
	if n == nil {
		return fmt.Errorf("refresh node %d: %w", i, ferrors.New(ferrors.ErrCodeNotFound, "no node at index %d", i))
	}
	ids := slices.Concat(n.EdgesIn, n.EdgesOut)
	segs := make([]flow.Segment, len(ids))
	for k, id := range ids {
		e, _ := f.Graph.Ends(id)
		seg, err := f.Derive(e)
		if err != nil {
			return fmt.Errorf("refresh edge %s: %w", id, err)
		}
		segs[k] = seg
	}
	for k, id := range ids {
		t.segments[id] = segs[k]
		t.active[id] = true
	}
	return nil
}
