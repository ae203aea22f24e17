package interact

import (
	"testing"

	"github.com/matzehuels/flowboard/pkg/flow"
)

func TestHitTest(t *testing.T) {
	c, _, _ := newController(t, abcNodes(), abcEdges())

	tests := []struct {
		name string
		p    flow.Point
		want Hit
	}{
		{"output port", flow.Point{X: 203, Y: 2}, Hit{Target: TargetOutput, Node: 0, Port: 0}},
		{"input port", flow.Point{X: 300, Y: -4}, Hit{Target: TargetInput, Node: 1, Port: 0}},
		{"body", flow.Point{X: 100, Y: 20}, Hit{Target: TargetNode, Node: 0, Port: -1}},
		{"body edge", flow.Point{X: 650, Y: 50}, Hit{Target: TargetNode, Node: 2, Port: -1}},
		{"edge", flow.Point{X: 250, Y: 3}, Hit{Target: TargetEdge, Node: -1, Port: -1, Edge: "edge_A:0_B:0"}},
		{"canvas", flow.Point{X: 250, Y: 300}, Hit{Target: TargetCanvas, Node: -1, Port: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.HitTest(tt.p); got != tt.want {
				t.Errorf("HitTest(%v) = %+v, want %+v", tt.p, got, tt.want)
			}
		})
	}
}

func TestHitTestTopmost(t *testing.T) {
	c, _, _ := newController(t, abcNodes(), nil)

	// drag C over A
	_ = c.PressNode(2, flow.Point{X: 600})
	c.MoveNode(flow.Point{X: 20})
	c.ReleaseNode()

	if h := c.HitTest(flow.Point{X: 100, Y: 0}); h.Target != TargetNode || h.Node != 2 {
		t.Errorf("HitTest() = %+v, want node 2 (drawn last)", h)
	}
}

func TestPointerDownOnBodyDrags(t *testing.T) {
	c, _, _ := newController(t, abNodes(), nil)

	h, err := c.PointerDown(flow.Point{X: 350, Y: 10})
	if err != nil || h.Target != TargetNode || h.Node != 1 {
		t.Fatalf("PointerDown() = %+v, %v", h, err)
	}
	c.PointerMove(flow.Point{X: 360, Y: 30})
	if p, _ := c.Position(1); p != (flow.Point{X: 310, Y: 20}) {
		t.Errorf("Position(1) = %v, want (310,20)", p)
	}
	c.PointerUp(flow.Point{X: 360, Y: 30})
	if _, ok := c.State().(Idle); !ok {
		t.Errorf("State() = %v after PointerUp", c.State())
	}
}

func TestPointerDownOnInputDoesNothing(t *testing.T) {
	c, _, _ := newController(t, abNodes(), nil)
	h, err := c.PointerDown(flow.Point{X: 300, Y: 0})
	if err != nil || h.Target != TargetInput {
		t.Fatalf("PointerDown() = %+v, %v", h, err)
	}
	if _, ok := c.State().(Idle); !ok {
		t.Errorf("State() = %v, want idle", c.State())
	}
}

func TestTargetString(t *testing.T) {
	for tgt, want := range map[Target]string{
		TargetCanvas: "canvas", TargetNode: "node", TargetOutput: "output",
		TargetInput: "input", TargetEdge: "edge",
	} {
		if tgt.String() != want {
			t.Errorf("%d.String() = %q, want %q", tgt, tgt.String(), want)
		}
	}
}
