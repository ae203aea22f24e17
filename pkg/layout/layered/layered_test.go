package layered

import (
	"context"
	"maps"
	"testing"

	"github.com/matzehuels/flowboard/pkg/flow"
	"github.com/matzehuels/flowboard/pkg/layout"
	"github.com/matzehuels/flowboard/pkg/port"
)

func graph(nodes []string, edges ...layout.Pair) layout.Graph {
	return layout.Graph{
		Nodes:   nodes,
		Edges:   edges,
		Box:     port.DefaultSize(),
		RankSep: layout.DefaultRankSep,
		NodeSep: layout.DefaultNodeSep,
	}
}

func TestPlaceChain(t *testing.T) {
	got, err := New().Place(context.Background(), graph([]string{"A", "B"}, layout.Pair{From: 0, To: 1}))
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	want := map[string]flow.Point{"A": {X: 100, Y: 0}, "B": {X: 400, Y: 0}}
	if !maps.Equal(got, want) {
		t.Errorf("Place() = %v, want %v", got, want)
	}
}

func TestPlaceDisconnected(t *testing.T) {
	got, err := New().Place(context.Background(), graph([]string{"A", "B"}))
	if err != nil {
		t.Fatal(err)
	}
	if got["A"] != (flow.Point{X: 100, Y: -70}) || got["B"] != (flow.Point{X: 100, Y: 70}) {
		t.Errorf("Place() = %v, want one rank centered on y=0", got)
	}
}

func TestPlaceCycle(t *testing.T) {
	g := graph([]string{"A", "B", "C"},
		layout.Pair{From: 0, To: 1},
		layout.Pair{From: 1, To: 2},
		layout.Pair{From: 2, To: 0},
	)
	got, err := New().Place(context.Background(), g)
	if err != nil {
		t.Fatalf("Place() on a cycle should not fail: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Place() returned %d nodes, want 3", len(got))
	}
	if !(got["A"].X < got["B"].X && got["B"].X < got["C"].X) {
		t.Errorf("cycle not ranked left to right: %v", got)
	}
}

func TestPlaceReducesCrossings(t *testing.T) {
	// A->D and B->C cross in index order.
	g := graph([]string{"A", "B", "C", "D"},
		layout.Pair{From: 0, To: 3},
		layout.Pair{From: 1, To: 2},
	)
	got, err := New().Place(context.Background(), g)
	if err != nil {
		t.Fatal(err)
	}
	if (got["A"].Y < got["B"].Y) != (got["D"].Y < got["C"].Y) {
		t.Errorf("edges still cross: %v", got)
	}

	noSweep, _ := New(WithSweeps(0)).Place(context.Background(), g)
	if (noSweep["A"].Y < noSweep["B"].Y) == (noSweep["D"].Y < noSweep["C"].Y) {
		t.Errorf("unswept layout unexpectedly crossing-free: %v", noSweep)
	}
}

func TestPlaceLongEdge(t *testing.T) {
	// A->B->C plus A->C: the long edge gets a virtual node in rank 1.
	g := graph([]string{"A", "B", "C"},
		layout.Pair{From: 0, To: 1},
		layout.Pair{From: 1, To: 2},
		layout.Pair{From: 0, To: 2},
	)
	got, err := New().Place(context.Background(), g)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("virtual nodes leaked into output: %v", got)
	}
	if got["C"].X != 700 {
		t.Errorf("C.X = %v, want 700", got["C"].X)
	}
}

func TestPlaceDeterministic(t *testing.T) {
	g := graph([]string{"a", "b", "c", "d", "e"},
		layout.Pair{From: 0, To: 2}, layout.Pair{From: 1, To: 2},
		layout.Pair{From: 0, To: 3}, layout.Pair{From: 3, To: 4},
		layout.Pair{From: 4, To: 1},
	)
	first, err := New().Place(context.Background(), g)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, _ := New().Place(context.Background(), g)
		if !maps.Equal(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, again, first)
		}
	}
}

func TestPlaceErrors(t *testing.T) {
	_, err := New().Place(context.Background(), graph([]string{"A"}, layout.Pair{From: 0, To: 4}))
	if err == nil {
		t.Error("Place() should reject out-of-range edges")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := graph([]string{"A", "B", "C", "D"}, layout.Pair{From: 0, To: 3}, layout.Pair{From: 1, To: 2})
	if _, err := New().Place(ctx, g); err != context.Canceled {
		t.Errorf("Place(canceled) error = %v, want context.Canceled", err)
	}
}

func TestPlaceEmpty(t *testing.T) {
	got, err := New().Place(context.Background(), graph(nil))
	if err != nil || len(got) != 0 {
		t.Errorf("Place(empty) = %v, %v", got, err)
	}
}

func TestLayerCrossings(t *testing.T) {
	tests := []struct {
		name     string
		children [][]int
		rank     []int
		want     int
	}{
		{"parallel", [][]int{{2}, {3}, nil, nil}, []int{0, 0, 1, 1}, 0},
		{"crossed", [][]int{{3}, {2}, nil, nil}, []int{0, 0, 1, 1}, 1},
		{"complete bipartite", [][]int{{2, 3}, {2, 3}, nil, nil}, []int{0, 0, 1, 1}, 1},
		{"fan", [][]int{{1, 2, 3}, nil, nil, nil}, []int{0, 1, 1, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := subdivide(tt.children, tt.rank)
			if got := l.crossings(); got != tt.want {
				t.Errorf("crossings() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAcyclic(t *testing.T) {
	out := [][]int{{1}, {2}, {0}, {3}}
	dag := acyclic(out)
	rank := longestPath(dag)
	for u, vs := range dag {
		for _, v := range vs {
			if rank[v] <= rank[u] {
				t.Errorf("edge %d->%d not forward: ranks %d, %d", u, v, rank[u], rank[v])
			}
		}
	}
}
