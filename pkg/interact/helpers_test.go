package interact

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowboard/pkg/flow"
	"github.com/matzehuels/flowboard/pkg/layout"
)

// rowOracle puts node i in rank i, so anchors are (300·i, 0) with the
// default box and separation.
type rowOracle struct {
	calls int
	fail  bool
}

func (o *rowOracle) Name() string { return "row" }

func (o *rowOracle) Place(_ context.Context, g layout.Graph) (map[string]flow.Point, error) {
	o.calls++
	if o.fail {
		return nil, errors.New("oracle unavailable")
	}
	out := make(map[string]flow.Point, len(g.Nodes))
	for i, id := range g.Nodes {
		out[id] = flow.Point{X: g.Box.W/2 + float64(i)*(g.Box.W+g.RankSep)}
	}
	return out, nil
}

type recorder struct {
	events []string
	nodes  [][]flow.NodeProps
	edges  [][]flow.EdgeProps
}

func (r *recorder) options() []Option {
	return []Option{
		WithNodesChange(func(n []flow.NodeProps) {
			r.events = append(r.events, "nodes")
			r.nodes = append(r.nodes, n)
		}),
		WithEdgesChange(func(e []flow.EdgeProps) {
			r.events = append(r.events, "edges")
			r.edges = append(r.edges, e)
		}),
		WithLogger(log.New(io.Discard)),
	}
}

func (r *recorder) lastEdges() []flow.EdgeProps {
	if len(r.edges) == 0 {
		return nil
	}
	return r.edges[len(r.edges)-1]
}

func abNodes() []flow.NodeProps {
	return []flow.NodeProps{
		{ID: "A", Outputs: 1},
		{ID: "B", Inputs: 1},
	}
}

func abcNodes() []flow.NodeProps {
	return []flow.NodeProps{
		{ID: "A", Outputs: 1},
		{ID: "B", Inputs: 1, Outputs: 1},
		{ID: "C", Inputs: 1},
	}
}

func abcEdges() []flow.EdgeProps {
	return []flow.EdgeProps{
		{ID: flow.EdgeID("A", 0, "B", 0), SourceNode: "A", TargetNode: "B"},
		{ID: flow.EdgeID("B", 0, "C", 0), SourceNode: "B", TargetNode: "C"},
	}
}

func newController(t *testing.T, nodes []flow.NodeProps, edges []flow.EdgeProps) (*Controller, *recorder, *rowOracle) {
	t.Helper()
	oracle := &rowOracle{}
	rec := &recorder{}
	c, err := New(context.Background(), layout.New(oracle), nodes, edges, rec.options()...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c, rec, oracle
}
