package interact

import (
	"slices"

	ferrors "github.com/matzehuels/flowboard/pkg/errors"
	"github.com/matzehuels/flowboard/pkg/flow"
	"github.com/matzehuels/flowboard/pkg/observability"
	"github.com/matzehuels/flowboard/pkg/port"
)

// PressNode starts dragging node i with the pointer at p.
func (c *Controller) PressNode(i int, p flow.Point) error {
	if c.graph.Node(i) == nil {
		return c.reject(ferrors.New(ferrors.ErrCodeNotFound, "no node at index %d", i))
	}
	c.pending = nil
	c.state = DraggingNode{Node: i, Grab: p.Sub(c.positions[i])}
	return nil
}

// PressOutput starts a pending edge at output port out of node i.
func (c *Controller) PressOutput(i, out int) error {
	n := c.graph.Node(i)
	if n == nil {
		return c.reject(ferrors.New(ferrors.ErrCodeNotFound, "no node at index %d", i))
	}
	if err := ferrors.ValidatePortIndex("output", out, n.Outputs); err != nil {
		return c.reject(err)
	}
	start, ok := c.frame().OutputAt(i, out)
	if !ok {
		return c.reject(ferrors.New(ferrors.ErrCodeInvalidPortIndex, "output %d of %s has no geometry", out, n.ID))
	}
	c.pending = &Pending{SourceNode: n.ID, SourceOutput: out, Start: start, Preview: start}
	c.state = DraggingPendingEdge{Node: i, Output: out}
	return nil
}

// MoveNode moves the dragged node so that it keeps its grab offset to p, then
// updates the geometry of its incident active edges. It does nothing unless
// a node is being dragged.
func (c *Controller) MoveNode(p flow.Point) {
	st, ok := c.state.(DraggingNode)
	if !ok {
		return
	}
	c.positions[st.Node] = p.Sub(st.Grab)
	c.edges.Follow(c.frame(), st.Node)
}

// MovePointer moves the preview endpoint of the pending edge to p. It does
// nothing without a pending edge.
func (c *Controller) MovePointer(p flow.Point) {
	if c.pending != nil {
		c.pending.Preview = p
	}
}

// ReleaseNode ends a node drag.
func (c *Controller) ReleaseNode() {
	if _, ok := c.state.(DraggingNode); ok {
		c.state = Idle{}
	}
}

// ReleaseOnInput drops the pending edge on input port in of node i. On
// success the edge is created, activated and reported through the edges
// callback. Dropping on the source node, on an out-of-range port, onto an
// existing connection, or where the derived id is already taken by other
// ends is rejected without notification.
func (c *Controller) ReleaseOnInput(i, in int) error {
	st, ok := c.state.(DraggingPendingEdge)
	if !ok || c.pending == nil {
		return c.reject(ferrors.New(ferrors.ErrCodeNoPendingEdge, "no edge is being dragged"))
	}
	tgt := c.graph.Node(i)
	if tgt == nil {
		return c.reject(ferrors.New(ferrors.ErrCodeNotFound, "no node at index %d", i))
	}
	if i == st.Node {
		return c.reject(ferrors.New(ferrors.ErrCodeSameNode, "cannot connect %s to itself", tgt.ID))
	}
	if err := ferrors.ValidatePortIndex("input", in, tgt.Inputs); err != nil {
		return c.reject(err)
	}

	src := c.graph.Node(st.Node)
	ends := flow.Ends{SourceNode: src.ID, SourceOutput: st.Output, TargetNode: tgt.ID, TargetInput: in}
	id := ends.ID()
	if prev, ok := c.graph.Ends(id); ok && prev != ends && c.graph.Attached(id) {
		return c.reject(ferrors.New(ferrors.ErrCodeEdgeIDCollision, "%s is taken by an edge from %s:%d to %s:%d",
			id, prev.SourceNode, prev.SourceOutput, prev.TargetNode, prev.TargetInput))
	}
	if c.graph.Connected(id, st.Node, i) || c.connectsSamePorts(src, ends) {
		return c.reject(ferrors.New(ferrors.ErrCodeDuplicateEdge, "%s already exists", id))
	}
	if err := c.graph.Attach(id, ends); err != nil {
		return c.reject(err)
	}
	seg, err := c.frame().Derive(ends)
	if err != nil {
		c.graph.Detach(id)
		return c.reject(err)
	}
	c.edges.Set(id, seg)
	c.edges.Activate(id)
	c.reset()

	list := c.edges.Projection(c.graph)
	c.logger.Debug("edge created", "id", id, "edges", len(list))
	observability.Interaction().OnStructuralChange(observability.ChangeEdgeCreated, len(list))
	c.notifyEdges(list)
	return nil
}

// connectsSamePorts reports whether an edge with a different id already
// joins the same two ports, as can happen with application supplied ids.
func (c *Controller) connectsSamePorts(src *flow.Node, ends flow.Ends) bool {
	return slices.ContainsFunc(src.EdgesOut, func(id string) bool {
		e, ok := c.graph.Ends(id)
		return ok && e == ends
	})
}

// Release is the global pointer-up: it always discards the pending edge and
// leaves the pending-edge state.
func (c *Controller) Release() {
	c.pending = nil
	if _, ok := c.state.(DraggingPendingEdge); ok {
		c.state = Idle{}
	}
}

// DeleteNode asks the application to remove node i and every edge touching
// it. The edges callback fires first, then the nodes callback. Internal
// state is left as is until the application syncs the shorter lists.
func (c *Controller) DeleteNode(i int) error {
	n := c.graph.Node(i)
	if n == nil {
		return ferrors.New(ferrors.ErrCodeNotFound, "no node at index %d", i)
	}
	c.reset()

	edges := slices.DeleteFunc(c.edges.Projection(c.graph), func(e flow.EdgeProps) bool {
		return e.SourceNode == n.ID || e.TargetNode == n.ID
	})
	nodes := slices.Delete(c.Nodes(), i, i+1)

	c.logger.Debug("node deleted", "id", n.ID, "nodes", len(nodes), "edges", len(edges))
	observability.Interaction().OnStructuralChange(observability.ChangeNodeDeleted, len(nodes))
	c.notifyEdges(edges)
	c.notifyNodes(nodes)
	return nil
}

// DeleteEdge soft-deletes an active edge: it drops out of the active
// projection and both endpoint lists, but its endpoint record is kept.
func (c *Controller) DeleteEdge(id string) error {
	if !c.edges.Active(id) {
		return ferrors.New(ferrors.ErrCodeNotFound, "no active edge %q", id)
	}
	c.edges.Deactivate(id)
	c.graph.Detach(id)

	list := c.edges.Projection(c.graph)
	c.logger.Debug("edge deleted", "id", id, "edges", len(list))
	observability.Interaction().OnStructuralChange(observability.ChangeEdgeDeleted, len(list))
	c.notifyEdges(list)
	return nil
}

// MountNode records the rendered size of node i, recomputes its port
// offsets and refreshes and activates every edge attached to it.
func (c *Controller) MountNode(i int, size port.Size) error {
	n := c.graph.Node(i)
	if n == nil {
		return ferrors.New(ferrors.ErrCodeNotFound, "no node at index %d", i)
	}
	if size.W <= 0 || size.H <= 0 {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "node %s: size %vx%v", n.ID, size.W, size.H)
	}
	c.sizes[i] = size
	c.offsets[i] = port.Compute(n.Inputs, n.Outputs, size, c.spacing)
	return c.edges.Refresh(c.frame(), i)
}

// MountPorts records measured port offsets of node i directly, for
// renderers that lay out ports themselves.
func (c *Controller) MountPorts(i int, off port.Offsets) error {
	n := c.graph.Node(i)
	if n == nil {
		return ferrors.New(ferrors.ErrCodeNotFound, "no node at index %d", i)
	}
	if len(off.Inputs) != n.Inputs || len(off.Outputs) != n.Outputs {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "node %s: got %d/%d port offsets, want %d/%d",
			n.ID, len(off.Inputs), len(off.Outputs), n.Inputs, n.Outputs)
	}
	c.offsets[i] = off.Clone()
	return c.edges.Refresh(c.frame(), i)
}

// reject absorbs a failed gesture: back to Idle, no notification.
func (c *Controller) reject(err error) error {
	c.reset()
	code := ferrors.GetCode(err)
	c.logger.Debug("gesture rejected", "code", code, "reason", ferrors.UserMessage(err))
	observability.Interaction().OnGestureRejected(string(code))
	return err
}
