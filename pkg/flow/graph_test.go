package flow

import (
	"errors"
	"slices"
	"testing"

	ferrors "github.com/matzehuels/flowboard/pkg/errors"
)

func testNodes() []NodeProps {
	return []NodeProps{
		{ID: "A", Outputs: 2},
		{ID: "B", Inputs: 1, Outputs: 1},
		{ID: "C", Inputs: 2},
	}
}

func TestEdgeID(t *testing.T) {
	tests := []struct {
		src    string
		out    int
		dst    string
		in     int
		expect string
	}{
		{"A", 0, "B", 0, "edge_A:0_B:0"},
		{"node-1", 3, "node-2", 1, "edge_node-1:3_node-2:1"},
	}
	for _, tt := range tests {
		if got := EdgeID(tt.src, tt.out, tt.dst, tt.in); got != tt.expect {
			t.Errorf("EdgeID() = %q, want %q", got, tt.expect)
		}
	}

	e := Ends{SourceNode: "A", SourceOutput: 1, TargetNode: "C", TargetInput: 0}
	if e.ID() != "edge_A:1_C:0" {
		t.Errorf("Ends.ID() = %q", e.ID())
	}
}

func TestBuild(t *testing.T) {
	edges := []EdgeProps{
		{ID: "e1", SourceNode: "A", SourceOutput: 0, TargetNode: "B", TargetInput: 0},
		{ID: "e2", SourceNode: "A", SourceOutput: 1, TargetNode: "C", TargetInput: 1},
		{ID: "e3", SourceNode: "B", SourceOutput: 0, TargetNode: "C", TargetInput: 0},
	}
	g, err := Build(testNodes(), edges)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if g.Len() != 3 {
		t.Errorf("Len() = %d, want 3", g.Len())
	}
	a := g.Node(0)
	if !slices.Equal(a.EdgesOut, []string{"e1", "e2"}) {
		t.Errorf("A.EdgesOut = %v", a.EdgesOut)
	}
	if len(a.EdgesIn) != 0 {
		t.Errorf("A.EdgesIn = %v, want empty", a.EdgesIn)
	}
	c := g.Node(2)
	if !slices.Equal(c.EdgesIn, []string{"e2", "e3"}) {
		t.Errorf("C.EdgesIn = %v", c.EdgesIn)
	}
	if i, ok := g.Index("C"); !ok || i != 2 {
		t.Errorf("Index(C) = %d, %v", i, ok)
	}
	if g.Node(5) != nil || g.Node(-1) != nil {
		t.Error("Node() out of range should be nil")
	}
	if err := g.Check(); err != nil {
		t.Errorf("Check() error: %v", err)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		nodes []NodeProps
		edges []EdgeProps
		check func(error) bool
	}{
		{
			name:  "duplicate node",
			nodes: []NodeProps{{ID: "A"}, {ID: "A"}},
			check: func(err error) bool { return errors.Is(err, ErrDuplicateNodeID) },
		},
		{
			name:  "empty node id",
			nodes: []NodeProps{{ID: ""}},
			check: func(err error) bool { return ferrors.Is(err, ferrors.ErrCodeInvalidInput) },
		},
		{
			name:  "negative ports",
			nodes: []NodeProps{{ID: "A", Inputs: -1}},
			check: func(err error) bool { return ferrors.Is(err, ferrors.ErrCodeInvalidInput) },
		},
		{
			name:  "unknown target",
			nodes: testNodes(),
			edges: []EdgeProps{{ID: "e", SourceNode: "A", TargetNode: "Z"}},
			check: func(err error) bool { return errors.Is(err, ErrUnknownTargetNode) },
		},
		{
			name:  "unknown source",
			nodes: testNodes(),
			edges: []EdgeProps{{ID: "e", SourceNode: "Z", TargetNode: "B"}},
			check: func(err error) bool { return errors.Is(err, ErrUnknownSourceNode) },
		},
		{
			name:  "output out of range",
			nodes: testNodes(),
			edges: []EdgeProps{{ID: "e", SourceNode: "A", SourceOutput: 2, TargetNode: "B"}},
			check: func(err error) bool { return ferrors.Is(err, ferrors.ErrCodeInvalidPortIndex) },
		},
		{
			name:  "input out of range",
			nodes: testNodes(),
			edges: []EdgeProps{{ID: "e", SourceNode: "A", TargetNode: "B", TargetInput: 1}},
			check: func(err error) bool { return ferrors.Is(err, ferrors.ErrCodeInvalidPortIndex) },
		},
		{
			name:  "duplicate edge id",
			nodes: testNodes(),
			edges: []EdgeProps{
				{ID: "e", SourceNode: "A", TargetNode: "B"},
				{ID: "e", SourceNode: "A", SourceOutput: 1, TargetNode: "C"},
			},
			check: func(err error) bool { return errors.Is(err, ErrDuplicateEdgeID) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.nodes, tt.edges)
			if err == nil {
				t.Fatal("Build() expected error")
			}
			if !tt.check(err) {
				t.Errorf("Build() error = %v, unexpected kind", err)
			}
		})
	}
}

func TestAttachDetach(t *testing.T) {
	g, err := Build(testNodes(), nil)
	if err != nil {
		t.Fatal(err)
	}

	e := Ends{SourceNode: "A", SourceOutput: 0, TargetNode: "B", TargetInput: 0}
	id := e.ID()
	if err := g.Attach(id, e); err != nil {
		t.Fatalf("Attach() error: %v", err)
	}
	if !g.Connected(id, 0, 1) {
		t.Error("Connected() = false after Attach")
	}

	// Attaching twice does not duplicate list entries.
	if err := g.Attach(id, e); err != nil {
		t.Fatal(err)
	}
	if len(g.Node(0).EdgesOut) != 1 || len(g.Node(1).EdgesIn) != 1 {
		t.Errorf("duplicate attach grew lists: out=%v in=%v", g.Node(0).EdgesOut, g.Node(1).EdgesIn)
	}

	if _, ok := g.Detach(id); !ok {
		t.Fatal("Detach() = false")
	}
	if g.Connected(id, 0, 1) {
		t.Error("Connected() = true after Detach")
	}
	if _, ok := g.Ends(id); !ok {
		t.Error("Detach should keep the endpoint record")
	}
	if _, ok := g.Detach("missing"); ok {
		t.Error("Detach(missing) = true")
	}
	if err := g.Check(); err != nil {
		t.Errorf("Check() error: %v", err)
	}
}

func TestAttachInvalidLeavesGraphUnchanged(t *testing.T) {
	g, _ := Build(testNodes(), nil)
	bad := Ends{SourceNode: "A", SourceOutput: 0, TargetNode: "C", TargetInput: 5}
	if err := g.Attach(bad.ID(), bad); err == nil {
		t.Fatal("Attach() expected error")
	}
	if len(g.Node(0).EdgesOut) != 0 || len(g.Node(2).EdgesIn) != 0 {
		t.Error("failed Attach mutated adjacency lists")
	}
	if _, ok := g.Ends(bad.ID()); ok {
		t.Error("failed Attach recorded ends")
	}
}

func TestAttachIDCollision(t *testing.T) {
	nodes := []NodeProps{
		{ID: "a:0_b", Outputs: 1},
		{ID: "c", Inputs: 1},
		{ID: "a", Outputs: 1},
		{ID: "b:0_c", Inputs: 1},
	}
	g, err := Build(nodes, nil)
	if err != nil {
		t.Fatal(err)
	}
	first := Ends{SourceNode: "a:0_b", TargetNode: "c"}
	second := Ends{SourceNode: "a", TargetNode: "b:0_c"}
	if first.ID() != second.ID() {
		t.Fatalf("ids differ: %s vs %s", first.ID(), second.ID())
	}
	if err := g.Attach(first.ID(), first); err != nil {
		t.Fatal(err)
	}

	err = g.Attach(second.ID(), second)
	if !errors.Is(err, ErrEdgeIDCollision) || !ferrors.Is(err, ferrors.ErrCodeEdgeIDCollision) {
		t.Fatalf("Attach() = %v, want ErrEdgeIDCollision", err)
	}
	if e, _ := g.Ends(first.ID()); e != first {
		t.Errorf("Ends() = %+v, want %+v", e, first)
	}
	if len(g.Node(2).EdgesOut) != 0 || len(g.Node(3).EdgesIn) != 0 {
		t.Error("colliding Attach mutated adjacency lists")
	}
	if err := g.Check(); err != nil {
		t.Errorf("Check() error: %v", err)
	}

	// Once detached, the record may be reused for other ends.
	if _, ok := g.Detach(first.ID()); !ok {
		t.Fatal("Detach() = false")
	}
	if g.Attached(first.ID()) {
		t.Error("Attached() = true after Detach")
	}
	if err := g.Attach(second.ID(), second); err != nil {
		t.Fatalf("Attach() after Detach error: %v", err)
	}
	if !g.Connected(second.ID(), 2, 3) {
		t.Error("Connected() = false for reattached id")
	}
	if err := g.Check(); err != nil {
		t.Errorf("Check() error: %v", err)
	}
}

func TestConnectedChecksBothLists(t *testing.T) {
	g, _ := Build(testNodes(), nil)
	// Simulate a half-attached edge on the target side only.
	g.nodes[1].EdgesIn = append(g.nodes[1].EdgesIn, "edge_A:0_B:0")
	if !g.Connected("edge_A:0_B:0", 0, 1) {
		t.Error("Connected() should consult the target list")
	}
	if err := g.Check(); !errors.Is(err, ErrInconsistentAdjacency) {
		t.Errorf("Check() = %v, want ErrInconsistentAdjacency", err)
	}
}

func TestSanitize(t *testing.T) {
	edges := []EdgeProps{
		{ID: "ok", SourceNode: "A", TargetNode: "B"},
		{ID: "ok", SourceNode: "A", SourceOutput: 1, TargetNode: "C"},
		{ID: "ghost", SourceNode: "A", TargetNode: "Z"},
		{ID: "port", SourceNode: "B", TargetNode: "C", TargetInput: 7},
		{ID: "", SourceNode: "A", TargetNode: "C"},
	}
	kept, problems, err := Sanitize(testNodes(), edges)
	if err != nil {
		t.Fatalf("Sanitize() error: %v", err)
	}
	if len(kept) != 1 || kept[0].ID != "ok" {
		t.Errorf("kept = %v, want only first 'ok'", kept)
	}
	if len(problems) != 4 {
		t.Errorf("problems = %v, want 4", problems)
	}
	if _, err := Build(testNodes(), kept); err != nil {
		t.Errorf("Build(sanitized) error: %v", err)
	}
}

func TestSegmentDistance(t *testing.T) {
	s := Segment{Start: Point{0, 0}, End: Point{10, 0}}
	tests := []struct {
		p    Point
		want float64
	}{
		{Point{5, 0}, 0},
		{Point{5, 3}, 3},
		{Point{-4, 3}, 5},
		{Point{13, 4}, 5},
	}
	for _, tt := range tests {
		if got := s.Distance(tt.p); got != tt.want {
			t.Errorf("Distance(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	zero := Segment{Start: Point{1, 1}, End: Point{1, 1}}
	if got := zero.Distance(Point{4, 5}); got != 5 {
		t.Errorf("zero-length Distance() = %v, want 5", got)
	}
}

func TestNodePropsHelpers(t *testing.T) {
	n := NodeProps{ID: "A"}
	if n.Label() != "A" {
		t.Errorf("Label() = %q, want id fallback", n.Label())
	}
	n.Data.Label = "Source"
	if n.Label() != "Source" {
		t.Errorf("Label() = %q", n.Label())
	}
	if n.Deletable() {
		t.Error("Deletable() without actions should be false")
	}
	n.Actions = &NodeActions{Delete: true}
	if !n.Deletable() {
		t.Error("Deletable() = false")
	}
}
