package layered

import (
	"context"
	"fmt"

	"github.com/matzehuels/flowboard/pkg/flow"
	"github.com/matzehuels/flowboard/pkg/layout"
)

// DefaultSweeps is the number of ordering sweeps (down and up alternate).
const DefaultSweeps = 8

// Oracle implements [layout.Oracle].
type Oracle struct {
	sweeps int
}

// Option configures an Oracle.
type Option func(*Oracle)

// WithSweeps sets the number of ordering sweeps. Zero disables crossing
// reduction.
func WithSweeps(n int) Option {
	return func(o *Oracle) {
		if n >= 0 {
			o.sweeps = n
		}
	}
}

// New creates a layered oracle.
func New(opts ...Option) *Oracle {
	o := &Oracle{sweeps: DefaultSweeps}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Name implements [layout.Oracle].
func (o *Oracle) Name() string { return "layered" }

// Place implements [layout.Oracle].
func (o *Oracle) Place(ctx context.Context, g layout.Graph) (map[string]flow.Point, error) {
	n := len(g.Nodes)
	out := make([][]int, n)
	for _, e := range g.Edges {
		if e.From < 0 || e.From >= n || e.To < 0 || e.To >= n {
			return nil, fmt.Errorf("edge %d->%d references a missing node", e.From, e.To)
		}
		if e.From != e.To {
			out[e.From] = append(out[e.From], e.To)
		}
	}

	dag := acyclic(out)
	l := subdivide(dag, longestPath(dag))
	if err := l.order(ctx, o.sweeps); err != nil {
		return nil, err
	}

	rankStep := g.Box.W + g.RankSep
	slotStep := g.Box.H + g.NodeSep
	centers := make(map[string]flow.Point, n)
	for r, layer := range l.layers {
		mid := float64(len(layer)-1) / 2
		for j, u := range layer {
			if u >= n {
				continue
			}
			centers[g.Nodes[u]] = flow.Point{
				X: g.Box.W/2 + float64(r)*rankStep,
				Y: (float64(j) - mid) * slotStep,
			}
		}
	}
	return centers, nil
}

var _ layout.Oracle = (*Oracle)(nil)
