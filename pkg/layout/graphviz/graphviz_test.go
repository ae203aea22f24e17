package graphviz

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/flowboard/pkg/flow"
	"github.com/matzehuels/flowboard/pkg/layout"
	"github.com/matzehuels/flowboard/pkg/port"
)

func testGraph() layout.Graph {
	return layout.Graph{
		Nodes:   []string{"source node", "B", "C"},
		Edges:   []layout.Pair{{From: 0, To: 1}, {From: 1, To: 2}, {From: 2, To: 0}},
		Box:     port.DefaultSize(),
		RankSep: layout.DefaultRankSep,
		NodeSep: layout.DefaultNodeSep,
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testGraph())
	for _, want := range []string{
		"rankdir=LR;",
		"fixedsize=true",
		"width=2.7778",
		"height=1.3889",
		"ranksep=1.3889;",
		"n0 -> n1;",
		"n2 -> n0;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "source node") {
		t.Error("ToDOT() should not embed application ids")
	}
}

func TestParse(t *testing.T) {
	out := []byte(`digraph G {
	graph [bb="0,0,500,100",
		rankdir=LR
	];
	node [label="", shape=box];
	n0	[height=1.3889,
		pos="100,50",
		width=2.7778];
	n1	[pos="400,30"];
	n0 -> n1	[pos="e,300,30 200,50 250,40"];
}
`)
	got, err := parse(out, []string{"A", "B"})
	if err != nil {
		t.Fatalf("parse() error: %v", err)
	}
	if got["A"] != (flow.Point{X: 100, Y: 50}) || got["B"] != (flow.Point{X: 400, Y: 70}) {
		t.Errorf("parse() = %v", got)
	}

	if _, err := parse(out, []string{"A", "B", "C"}); err == nil {
		t.Error("parse() should fail when a node is missing")
	}
	if _, err := parse([]byte("digraph {}"), []string{"A"}); err == nil {
		t.Error("parse() should fail without a bounding box")
	}
}

func TestPlace(t *testing.T) {
	got, err := New().Place(context.Background(), testGraph())
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Place() returned %d nodes, want 3", len(got))
	}
	for id, p := range got {
		if !p.IsFinite() {
			t.Errorf("%s has non-finite position %v", id, p)
		}
	}
}

func TestPlaceChain(t *testing.T) {
	g := testGraph()
	g.Edges = g.Edges[:2]
	got, err := New().Place(context.Background(), g)
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	if !(got["source node"].X < got["B"].X && got["B"].X < got["C"].X) {
		t.Errorf("ranks do not run left to right: %v", got)
	}
	if got["source node"].Y != got["B"].Y {
		t.Errorf("chain not aligned: %v", got)
	}
}
