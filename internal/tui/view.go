package tui

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/flowboard/pkg/flow"
	"github.com/matzehuels/flowboard/pkg/interact"
)

type glyph struct {
	r rune
	k kind
}

// canvas is a clipped grid of styled cells.
type canvas struct {
	w, h  int
	cells []glyph
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([]glyph, w*h)}
	for i := range c.cells {
		c.cells[i] = glyph{' ', kindBlank}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, k kind) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = glyph{r, k}
}

func (c *canvas) text(x, y int, s string, k kind) {
	for _, r := range s {
		c.set(x, y, r, k)
		x += max(runewidth.RuneWidth(r), 1)
	}
}

// line draws a Bresenham line between two cells.
func (c *canvas) line(x0, y0, x1, y1 int, r rune, k kind) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		c.set(x0, y0, r, k)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// render groups runs of equal style so each run is styled once.
func (c *canvas) render() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		row := c.cells[y*c.w : (y+1)*c.w]
		for x := 0; x < len(row); {
			k := row[x].k
			var run strings.Builder
			for ; x < len(row) && row[x].k == k; x++ {
				run.WriteRune(row[x].r)
			}
			b.WriteString(styles[k].Render(run.String()))
		}
		if y < c.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// View implements tea.Model.
func (m *Model) View() string {
	h := max(m.height-2, 1)
	c := newCanvas(max(m.width, 1), h)
	s := m.ctrl.Snapshot()

	for _, e := range s.Edges {
		k := kindEdge
		if m.hover.Target == interact.TargetEdge && m.hover.Edge == e.ID {
			k = kindEdgeHover
		}
		m.segment(c, e.Segment, glyphEdge, k)
	}
	for i, n := range s.Nodes {
		m.box(c, i, n)
	}
	if s.Pending != nil {
		m.segment(c, s.Pending.Segment(), glyphEdge, kindPending)
	}

	return c.render() + "\n" + m.statusLine(s) + "\n" + styleHelp.Render(help)
}

const help = "drag nodes · drag ○ to ● to connect · x delete node · d delete edge · arrows pan · w write · q quit"

func (m *Model) segment(c *canvas, seg flow.Segment, r rune, k kind) {
	x0, y0 := m.cell(seg.Start)
	x1, y1 := m.cell(seg.End)
	c.line(x0, y0, x1, y1, r, k)
}

func (m *Model) box(c *canvas, i int, n interact.NodeView) {
	hovered := m.hover.Target != interact.TargetCanvas && m.hover.Target != interact.TargetEdge && m.hover.Node == i
	border := kindBox
	if hovered {
		border = kindBoxHover
	}

	cols := int(n.Size.W / unitsPerCol)
	rows := int(n.Size.H / unitsPerRow)
	x0, _ := m.cell(n.Position)
	y0 := rowOf(n.Position.Y-n.Size.H/2) + m.panY
	x1, y1 := x0+cols-1, y0+rows-1

	for x := x0 + 1; x < x1; x++ {
		c.set(x, y0, '─', border)
		c.set(x, y1, '─', border)
		for y := y0 + 1; y < y1; y++ {
			c.set(x, y, ' ', kindBlank)
		}
	}
	for y := y0 + 1; y < y1; y++ {
		c.set(x0, y, '│', border)
		c.set(x1, y, '│', border)
	}
	c.set(x0, y0, '┌', border)
	c.set(x1, y0, '┐', border)
	c.set(x0, y1, '└', border)
	c.set(x1, y1, '┘', border)
	if n.Deletable {
		c.set(x1-1, y0, glyphDelete, border)
	}

	label := n.Label
	mid := (y0 + y1) / 2
	c.text(x0+(cols-runewidth.StringWidth(label))/2, mid, label, kindLabel)

	for j, off := range n.Offsets.Inputs {
		_, y := m.cell(n.Position.Add(off))
		c.set(x0, y, glyphInput, m.portKind(i, j, interact.TargetInput, kindInput))
	}
	for j, off := range n.Offsets.Outputs {
		_, y := m.cell(n.Position.Add(off))
		c.set(x1, y, glyphOutput, m.portKind(i, j, interact.TargetOutput, kindOutput))
	}
}

func (m *Model) portKind(node, port int, t interact.Target, k kind) kind {
	if m.hover.Target == t && m.hover.Node == node && m.hover.Port == port {
		return kindPortHover
	}
	return k
}

func (m *Model) statusLine(s interact.Snapshot) string {
	parts := []string{styleState.Render(s.State)}
	if m.hover.Target != interact.TargetCanvas {
		parts = append(parts, styleStatus.Render(m.describe(m.hover)))
	}
	if m.dirty {
		parts = append(parts, styleStatus.Render("modified"))
	}
	if m.status != "" {
		st := styleStatus
		if m.failed {
			st = styleError
		}
		parts = append(parts, st.Render(m.status))
	}
	return strings.Join(parts, styleHelp.Render(" · "))
}

func (m *Model) describe(h interact.Hit) string {
	switch h.Target {
	case interact.TargetEdge:
		return h.Edge
	case interact.TargetNode:
		return m.nodes[h.Node].Label()
	case interact.TargetInput, interact.TargetOutput:
		return m.nodes[h.Node].Label() + " " + h.Target.String() + " " + strconv.Itoa(h.Port)
	}
	return ""
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
