package tui

import (
	"context"
	"fmt"
	"io"
	"math"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/flowboard/pkg/diagram"
	ferrors "github.com/matzehuels/flowboard/pkg/errors"
	"github.com/matzehuels/flowboard/pkg/flow"
	"github.com/matzehuels/flowboard/pkg/interact"
	"github.com/matzehuels/flowboard/pkg/layout"
	"github.com/matzehuels/flowboard/pkg/port"
)

// Cell scale in world units.
const (
	unitsPerCol = 10.0
	unitsPerRow = 20.0
)

// portRadius covers the half cell between a border column and the port.
const portRadius = 12.0

// Options configures a [Model].
type Options struct {
	// Path is where `w` writes the diagram. Empty disables writing.
	Path string
	// Logger receives controller logs. Defaults to a discarding logger,
	// since anything written to the terminal corrupts the canvas.
	Logger *log.Logger
}

// Model is the bubbletea model of the editor.
type Model struct {
	ctx    context.Context
	ctrl   *interact.Controller
	path   string
	logger *log.Logger

	nodes []flow.NodeProps
	edges []flow.EdgeProps

	// Lists reported by the controller, applied after the handler returns.
	queuedNodes []flow.NodeProps
	queuedEdges []flow.EdgeProps
	queued      bool

	sizes map[string]port.Size

	width, height int
	panX, panY    int
	hover         interact.Hit
	status        string
	failed        bool
	dirty         bool
}

// New lays out d and returns an editor for it.
func New(ctx context.Context, engine *layout.Engine, d diagram.Diagram, opts Options) (*Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := &Model{
		ctx:    ctx,
		path:   opts.Path,
		logger: logger,
		nodes:  d.Nodes,
		edges:  d.Edges,
		sizes:  make(map[string]port.Size, len(d.Nodes)),
		width:  100,
		height: 30,
		hover:  interact.Hit{Node: -1, Port: -1},
	}
	ctrl, err := interact.New(ctx, engine, d.Nodes, d.Edges,
		interact.WithNodesChange(m.queueNodes),
		interact.WithEdgesChange(m.queueEdges),
		interact.WithLogger(logger),
		interact.WithPortRadius(portRadius),
	)
	if ctrl == nil {
		return nil, err
	}
	m.ctrl = ctrl
	if err != nil {
		m.setError(err)
	}
	m.mountAll()
	m.centre()
	return m, nil
}

func (m *Model) queueNodes(nodes []flow.NodeProps) {
	m.queuedNodes = nodes
	m.queued = true
}

func (m *Model) queueEdges(edges []flow.EdgeProps) {
	m.queuedEdges = edges
	m.queued = true
}

// flush adopts queued lists and syncs the controller with them.
func (m *Model) flush() {
	if !m.queued {
		return
	}
	if m.queuedNodes != nil {
		m.nodes = m.queuedNodes
	}
	if m.queuedEdges != nil {
		m.edges = m.queuedEdges
	}
	m.queuedNodes, m.queuedEdges, m.queued = nil, nil, false
	m.dirty = true

	relayout := len(m.nodes) != m.ctrl.Len()
	if err := m.ctrl.Sync(m.ctx, m.nodes, m.edges); err != nil {
		m.setError(err)
		if !ferrors.Is(err, ferrors.ErrCodeLayout) {
			return
		}
	}
	if relayout {
		m.mountAll()
	}
}

// measure returns the box size of n, computed once per node id.
func (m *Model) measure(n flow.NodeProps) port.Size {
	if s, ok := m.sizes[n.ID]; ok {
		return s
	}
	cols := max(runewidth.StringWidth(n.Label())+4, 12)
	rows := max(n.Inputs, n.Outputs, 1) + 2
	if rows%2 == 0 {
		rows++
	}
	s := port.Size{W: float64(cols) * unitsPerCol, H: float64(rows) * unitsPerRow}
	m.sizes[n.ID] = s
	return s
}

func (m *Model) mountAll() {
	for i, n := range m.nodes {
		if err := m.ctrl.MountNode(i, m.measure(n)); err != nil {
			m.logger.Warn("mount node", "id", n.ID, "err", err)
		}
	}
}

// centre pans so that the top-left corner of the diagram sits at (1, 1).
func (m *Model) centre() {
	s := m.ctrl.Snapshot()
	if len(s.Nodes) == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	for _, n := range s.Nodes {
		minX = min(minX, n.Position.X)
		minY = min(minY, n.Position.Y-n.Size.H/2)
	}
	m.panX = 1 - int(math.Floor(minX/unitsPerCol))
	m.panY = 1 - rowOf(minY)
}

// rowOf maps a world y to a row; row r is centred on y = r·unitsPerRow.
func rowOf(y float64) int { return int(math.Floor(y/unitsPerRow + 0.5)) }

func colOf(x float64) int { return int(math.Floor(x / unitsPerCol)) }

// cell returns the screen cell of world point p.
func (m *Model) cell(p flow.Point) (int, int) {
	return colOf(p.X) + m.panX, rowOf(p.Y) + m.panY
}

// point returns the world point at the centre of screen cell (x, y).
func (m *Model) point(x, y int) flow.Point {
	return flow.Point{
		X: float64(x-m.panX)*unitsPerCol + unitsPerCol/2,
		Y: float64(y-m.panY) * unitsPerRow,
	}
}

func (m *Model) setError(err error) {
	m.status = ferrors.UserMessage(err)
	m.failed = true
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.failed = false
}

// Nodes returns the application node list.
func (m *Model) Nodes() []flow.NodeProps { return m.nodes }

// Edges returns the application edge list.
func (m *Model) Edges() []flow.EdgeProps { return m.edges }

// Controller returns the underlying interaction controller.
func (m *Model) Controller() *interact.Controller { return m.ctrl }

// Dirty reports whether the diagram changed since the last write.
func (m *Model) Dirty() bool { return m.dirty }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.KeyMsg:
		if cmd := m.key(msg); cmd != nil {
			return m, cmd
		}
	}
	m.flush()
	return m, nil
}

func (m *Model) mouse(msg tea.MouseMsg) {
	p := m.point(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		h, err := m.ctrl.PointerDown(p)
		m.hover = h
		if err != nil {
			m.setError(err)
		}
	case tea.MouseActionMotion:
		m.ctrl.PointerMove(p)
		m.hover = m.ctrl.HitTest(p)
	case tea.MouseActionRelease:
		pending := m.ctrl.Pending() != nil
		h, err := m.ctrl.PointerUp(p)
		m.hover = h
		switch {
		case err != nil:
			m.setError(err)
		case pending && h.Target == interact.TargetInput:
			m.setStatus("connected")
		}
	}
}

func (m *Model) key(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case "left":
		m.panX++
	case "right":
		m.panX--
	case "up":
		m.panY++
	case "down":
		m.panY--
	case "x":
		m.deleteHoveredNode()
	case "d":
		m.deleteHoveredEdge()
	case "w":
		m.write()
	}
	return nil
}

func (m *Model) deleteHoveredNode() {
	i := m.hover.Node
	if m.hover.Target == interact.TargetEdge || m.hover.Target == interact.TargetCanvas || i < 0 || i >= len(m.nodes) {
		m.setStatus("hover a node to delete it")
		return
	}
	n := m.nodes[i]
	if !n.Deletable() {
		m.setStatus("%s cannot be deleted", n.Label())
		return
	}
	if err := m.ctrl.DeleteNode(i); err != nil {
		m.setError(err)
		return
	}
	m.hover = interact.Hit{Node: -1, Port: -1}
	m.setStatus("deleted %s", n.Label())
}

func (m *Model) deleteHoveredEdge() {
	if m.hover.Target != interact.TargetEdge {
		m.setStatus("hover an edge to delete it")
		return
	}
	id := m.hover.Edge
	if err := m.ctrl.DeleteEdge(id); err != nil {
		m.setError(err)
		return
	}
	m.hover = interact.Hit{Node: -1, Port: -1}
	m.setStatus("deleted %s", id)
}

func (m *Model) write() {
	if m.path == "" {
		m.setStatus("no file to write to")
		return
	}
	d := diagram.Diagram{Nodes: m.ctrl.Nodes(), Edges: m.edges}
	if err := diagram.ExportJSON(m.path, d); err != nil {
		m.setError(err)
		return
	}
	m.dirty = false
	m.setStatus("wrote %s", m.path)
}
