package interact

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowboard/pkg/edge"
	ferrors "github.com/matzehuels/flowboard/pkg/errors"
	"github.com/matzehuels/flowboard/pkg/flow"
	"github.com/matzehuels/flowboard/pkg/layout"
	"github.com/matzehuels/flowboard/pkg/observability"
	"github.com/matzehuels/flowboard/pkg/port"
)

// DefaultPortRadius is the pointer distance within which a port or edge
// counts as hit.
const DefaultPortRadius = 8.0

// Controller is the interaction state machine. See the package
// documentation for the gesture model.
type Controller struct {
	engine  *layout.Engine
	logger  *log.Logger
	spacing float64
	box     port.Size
	radius  float64

	onNodes func([]flow.NodeProps)
	onEdges func([]flow.EdgeProps)

	nodes     []flow.NodeProps
	graph     *flow.Graph
	positions []flow.Point
	sizes     []port.Size
	offsets   []port.Offsets
	edges     *edge.Table

	state      State
	pending    *Pending
	notifying  bool
	layoutSeen bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithNodesChange registers the callback receiving the new node list after
// node deletion.
func WithNodesChange(fn func([]flow.NodeProps)) Option {
	return func(c *Controller) { c.onNodes = fn }
}

// WithEdgesChange registers the callback receiving the active edges after
// edge creation or deletion.
func WithEdgesChange(fn func([]flow.EdgeProps)) Option {
	return func(c *Controller) { c.onEdges = fn }
}

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPortSpacing sets the vertical distance between ports.
func WithPortSpacing(s float64) Option {
	return func(c *Controller) {
		if s > 0 {
			c.spacing = s
		}
	}
}

// WithBoxSize sets the box size assumed for nodes that have not been
// mounted yet. Defaults to the engine's box.
func WithBoxSize(s port.Size) Option {
	return func(c *Controller) {
		if s.W > 0 && s.H > 0 {
			c.box = s
		}
	}
}

// WithPortRadius sets the hit radius of ports and edges.
func WithPortRadius(r float64) Option {
	return func(c *Controller) {
		if r > 0 {
			c.radius = r
		}
	}
}

// New creates a controller, lays out the diagram and derives all geometry.
// Every supplied edge starts active.
//
// If the layout oracle fails, New still returns a usable controller with
// nodes at their previous or supplied positions, together with the
// LAYOUT_FAILED error. Any other error leaves the controller nil.
func New(ctx context.Context, engine *layout.Engine, nodes []flow.NodeProps, edges []flow.EdgeProps, opts ...Option) (*Controller, error) {
	c := &Controller{
		engine:  engine,
		logger:  log.Default(),
		spacing: engine.PortSpacing(),
		box:     engine.Box(),
		radius:  DefaultPortRadius,
		edges:   edge.NewTable(),
		state:   Idle{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.derive(ctx, nodes, edges); err != nil {
		if ferrors.Is(err, ferrors.ErrCodeLayout) {
			return c, err
		}
		return nil, err
	}
	return c, nil
}

// Sync adopts new application lists. When the node count changed, any
// gesture is abandoned and the diagram is laid out again from scratch.
// Otherwise positions and measured sizes are kept and only the edge set
// and node payloads are reconciled.
//
// Sync must not be called from a change callback.
func (c *Controller) Sync(ctx context.Context, nodes []flow.NodeProps, edges []flow.EdgeProps) error {
	if c.notifying {
		return ferrors.New(ferrors.ErrCodeInternal, "Sync called from a change notification")
	}
	if len(nodes) != len(c.nodes) {
		return c.derive(ctx, nodes, edges)
	}
	return c.reconcile(nodes, edges)
}

// derive rebuilds all state from the lists and runs layout.
func (c *Controller) derive(ctx context.Context, nodes []flow.NodeProps, edges []flow.EdgeProps) error {
	g, err := flow.Build(nodes, edges)
	if err != nil {
		return ferrors.Wrap(ferrors.ErrCodeInvalidGraph, err, "derive diagram")
	}

	prev := make(map[string]flow.Point, len(c.nodes))
	for i, n := range c.nodes {
		prev[n.ID] = c.positions[i]
	}

	c.reset()
	c.nodes = slices.Clone(nodes)
	c.graph = g
	c.positions = make([]flow.Point, len(nodes))
	c.sizes = make([]port.Size, len(nodes))
	c.offsets = make([]port.Offsets, len(nodes))

	res, lerr := c.engine.ComputeGraph(ctx, g)
	for i, n := range nodes {
		switch p, ok := prev[n.ID]; {
		case lerr == nil:
			c.positions[i] = res.Positions[n.ID]
		case ok:
			c.positions[i] = p
		default:
			c.positions[i] = n.Position
		}
		c.sizes[i] = c.box
		c.offsets[i] = port.Compute(n.Inputs, n.Outputs, c.box, c.spacing)
	}

	c.edges.Reset()
	f := c.frame()
	for _, id := range g.EdgeIDs() {
		ends, _ := g.Ends(id)
		seg, err := f.Derive(ends)
		if err != nil {
			continue
		}
		c.edges.Set(id, seg)
		c.edges.Activate(id)
	}

	if c.layoutSeen {
		observability.Interaction().OnStructuralChange(observability.ChangeRelayout, len(nodes))
	}
	c.layoutSeen = true

	if lerr != nil {
		c.logger.Warn("layout failed, keeping previous positions", "nodes", len(nodes), "err", lerr)
		return lerr
	}
	c.logger.Debug("diagram derived", "nodes", len(nodes), "edges", len(g.EdgeIDs()), "oracle", res.Oracle)
	return nil
}

// reconcile adopts lists with an unchanged node count without layout.
func (c *Controller) reconcile(nodes []flow.NodeProps, edges []flow.EdgeProps) error {
	g, err := flow.Build(nodes, edges)
	if err != nil {
		return ferrors.Wrap(ferrors.ErrCodeInvalidGraph, err, "sync diagram")
	}
	for i, n := range nodes {
		if old := c.nodes[i]; old.Inputs != n.Inputs || old.Outputs != n.Outputs {
			c.offsets[i] = port.Compute(n.Inputs, n.Outputs, c.sizes[i], c.spacing)
		}
	}
	c.nodes = slices.Clone(nodes)
	c.graph = g

	for _, id := range c.edges.ActiveIDs() {
		if _, ok := g.Ends(id); !ok {
			c.edges.Deactivate(id)
		}
	}
	f := c.frame()
	for _, id := range g.EdgeIDs() {
		ends, _ := g.Ends(id)
		seg, err := f.Derive(ends)
		if err != nil {
			continue
		}
		c.edges.Set(id, seg)
		c.edges.Activate(id)
	}

	if st, ok := c.state.(DraggingPendingEdge); ok {
		if n := nodes[st.Node]; st.Output >= n.Outputs || c.pending == nil || n.ID != c.pending.SourceNode {
			c.reset()
		}
	}
	return nil
}

func (c *Controller) frame() edge.Frame {
	return edge.Frame{Graph: c.graph, Positions: c.positions, Offsets: c.offsets}
}

// reset returns to Idle and drops the pending edge.
func (c *Controller) reset() {
	c.state = Idle{}
	c.pending = nil
}

// State returns the current gesture state.
func (c *Controller) State() State { return c.state }

// Pending returns a copy of the pending edge, or nil.
func (c *Controller) Pending() *Pending {
	if c.pending == nil {
		return nil
	}
	p := *c.pending
	return &p
}

// Len returns the number of nodes.
func (c *Controller) Len() int { return len(c.nodes) }

// Index returns the index of the node with the given id.
func (c *Controller) Index(id string) (int, bool) { return c.graph.Index(id) }

// Position returns the anchor of node i.
func (c *Controller) Position(i int) (flow.Point, bool) {
	if i < 0 || i >= len(c.positions) {
		return flow.Point{}, false
	}
	return c.positions[i], true
}

// Segment returns the geometry of an active edge.
func (c *Controller) Segment(id string) (flow.Segment, bool) {
	if !c.edges.Active(id) {
		return flow.Segment{}, false
	}
	return c.edges.Segment(id)
}

// Nodes returns the application node list with current positions.
func (c *Controller) Nodes() []flow.NodeProps {
	out := slices.Clone(c.nodes)
	for i := range out {
		out[i].Position = c.positions[i]
	}
	return out
}

// Edges returns the active edges sorted by id.
func (c *Controller) Edges() []flow.EdgeProps { return c.edges.Projection(c.graph) }

// Check verifies the adjacency invariant of the internal graph.
func (c *Controller) Check() error { return c.graph.Check() }

func (c *Controller) notifyEdges(list []flow.EdgeProps) {
	if c.onEdges == nil {
		return
	}
	c.notifying = true
	defer func() { c.notifying = false }()
	c.onEdges(list)
}

func (c *Controller) notifyNodes(list []flow.NodeProps) {
	if c.onNodes == nil {
		return
	}
	c.notifying = true
	defer func() { c.notifying = false }()
	c.onNodes(list)
}
