// Package graphviz is a layout oracle backed by Graphviz dot.
//
// The diagram is emitted as DOT with rankdir=LR and one fixed-size box per
// node, laid out by the embedded Graphviz (goccy/go-graphviz runs it as
// WebAssembly, no system install needed), and the node centers are parsed
// back from the annotated DOT output. Graphviz uses a y-up coordinate system
// in points; the oracle flips y using the graph bounding box. One point is
// one diagram unit.
//
// Node ids are replaced by n0, n1, ... in the DOT source so arbitrary ids
// need no quoting.
package graphviz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/flowboard/pkg/flow"
	"github.com/matzehuels/flowboard/pkg/layout"
)

const pointsPerInch = 72.0

// Oracle implements [layout.Oracle] with Graphviz dot.
type Oracle struct{}

// New creates a Graphviz oracle.
func New() *Oracle { return &Oracle{} }

// Name implements [layout.Oracle].
func (o *Oracle) Name() string { return "graphviz" }

// Place implements [layout.Oracle].
func (o *Oracle) Place(ctx context.Context, g layout.Graph) (map[string]flow.Point, error) {
	if len(g.Nodes) == 0 {
		return map[string]flow.Point{}, nil
	}
	out, err := render(ctx, ToDOT(g))
	if err != nil {
		return nil, err
	}
	return parse(out, g.Nodes)
}

// ToDOT converts the oracle graph to DOT source.
func ToDOT(g layout.Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(g.RankSep))
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(g.NodeSep))
	fmt.Fprintf(&buf, "  node [shape=box, fixedsize=true, label=\"\", width=%s, height=%s];\n",
		inches(g.Box.W), inches(g.Box.H))
	buf.WriteString("\n")

	for i := range g.Nodes {
		fmt.Fprintf(&buf, "  n%d;\n", i)
	}
	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", e.From, e.To)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func inches(units float64) string {
	return strconv.FormatFloat(units/pointsPerInch, 'f', 4, 64)
}

func render(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	nodeRe = regexp.MustCompile(`(?m)^\s*n(\d+)\s*\[([^\]]*)\]`)
	posRe  = regexp.MustCompile(`\bpos="(-?[\d.]+),(-?[\d.]+)!?"`)
	bbRe   = regexp.MustCompile(`\bbb="(-?[\d.]+),(-?[\d.]+),(-?[\d.]+),(-?[\d.]+)"`)
)

// parse extracts node centers from laid-out DOT and converts them to y-down
// coordinates.
func parse(out []byte, ids []string) (map[string]flow.Point, error) {
	bb := bbRe.FindSubmatch(out)
	if bb == nil {
		return nil, fmt.Errorf("graphviz output has no bounding box")
	}
	top, err := strconv.ParseFloat(string(bb[4]), 64)
	if err != nil {
		return nil, fmt.Errorf("bounding box: %w", err)
	}

	centers := make(map[string]flow.Point, len(ids))
	for _, m := range nodeRe.FindAllSubmatch(out, -1) {
		i, err := strconv.Atoi(string(m[1]))
		if err != nil || i >= len(ids) {
			continue
		}
		pos := posRe.FindSubmatch(m[2])
		if pos == nil {
			continue
		}
		x, errX := strconv.ParseFloat(string(pos[1]), 64)
		y, errY := strconv.ParseFloat(string(pos[2]), 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("position of node %s: %q", ids[i], pos[0])
		}
		centers[ids[i]] = flow.Point{X: x, Y: top - y}
	}
	for _, id := range ids {
		if _, ok := centers[id]; !ok {
			return nil, fmt.Errorf("graphviz output has no position for %q", id)
		}
	}
	return centers, nil
}

var _ layout.Oracle = (*Oracle)(nil)
