package layered

import (
	"cmp"
	"context"
	"slices"
)

// layering is a proper layered graph: every edge joins adjacent ranks.
// Ids below real are diagram nodes, the rest are virtual nodes inserted on
// long edges.
type layering struct {
	real     int
	layers   [][]int
	children [][]int
	parents  [][]int
	pos      []int
}

func subdivide(children [][]int, rank []int) *layering {
	n := len(children)
	top := 0
	for _, r := range rank {
		top = max(top, r)
	}

	l := &layering{
		real:     n,
		layers:   make([][]int, top+1),
		children: make([][]int, n),
		parents:  make([][]int, n),
	}
	if n == 0 {
		l.layers = nil
		return l
	}
	for u := 0; u < n; u++ {
		l.layers[rank[u]] = append(l.layers[rank[u]], u)
	}

	link := func(u, v int) {
		l.children[u] = append(l.children[u], v)
		l.parents[v] = append(l.parents[v], u)
	}
	for u := 0; u < n; u++ {
		for _, v := range children[u] {
			prev := u
			for r := rank[u] + 1; r < rank[v]; r++ {
				d := len(l.children)
				l.children = append(l.children, nil)
				l.parents = append(l.parents, nil)
				l.layers[r] = append(l.layers[r], d)
				link(prev, d)
				prev = d
			}
			link(prev, v)
		}
	}

	l.pos = make([]int, len(l.children))
	for _, layer := range l.layers {
		for i, u := range layer {
			l.pos[u] = i
		}
	}
	return l
}

// order runs the barycenter sweeps and keeps the best ordering found.
func (l *layering) order(ctx context.Context, sweeps int) error {
	best := l.crossings()
	bestLayers := cloneLayers(l.layers)

	for s := 0; s < sweeps && best > 0; s++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s%2 == 0 {
			for r := 1; r < len(l.layers); r++ {
				l.reorder(r, l.parents)
			}
		} else {
			for r := len(l.layers) - 2; r >= 0; r-- {
				l.reorder(r, l.children)
			}
		}
		if c := l.crossings(); c < best {
			best = c
			bestLayers = cloneLayers(l.layers)
		}
	}

	l.layers = bestLayers
	for _, layer := range l.layers {
		for i, u := range layer {
			l.pos[u] = i
		}
	}
	return nil
}

// reorder sorts rank r by the mean position of each node's neighbors in
// the adjacent rank. Nodes without neighbors keep their position as key.
func (l *layering) reorder(r int, nbrs [][]int) {
	type keyed struct {
		u int
		b float64
	}
	layer := l.layers[r]
	ks := make([]keyed, len(layer))
	for i, u := range layer {
		ks[i] = keyed{u: u, b: float64(l.pos[u])}
		if ns := nbrs[u]; len(ns) > 0 {
			sum := 0
			for _, v := range ns {
				sum += l.pos[v]
			}
			ks[i].b = float64(sum) / float64(len(ns))
		}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int { return cmp.Compare(a.b, b.b) })
	for i, k := range ks {
		layer[i] = k.u
		l.pos[k.u] = i
	}
}

// crossings returns the total number of crossings between adjacent ranks.
func (l *layering) crossings() int {
	total := 0
	for r := 0; r+1 < len(l.layers); r++ {
		total += l.layerCrossings(l.layers[r], len(l.layers[r+1]))
	}
	return total
}

// layerCrossings counts crossings between upper and the rank below it,
// which has width nodes. Two edges (u1,v1) and (u2,v2) cross iff
// pos(u1) < pos(u2) and pos(v1) > pos(v2), so this is an inversion count
// over target positions taken in source order.
func (l *layering) layerCrossings(upper []int, width int) int {
	if len(upper) == 0 || width == 0 {
		return 0
	}
	fenwick := make([]int, width+1)
	crossings, total := 0, 0
	for _, u := range upper {
		targets := make([]int, len(l.children[u]))
		for i, v := range l.children[u] {
			targets[i] = l.pos[v]
		}
		slices.Sort(targets)
		for _, t := range targets {
			lessOrEqual := 0
			for q := t + 1; q > 0; q -= q & (-q) {
				lessOrEqual += fenwick[q]
			}
			crossings += total - lessOrEqual
		}
		for _, t := range targets {
			total++
			for q := t + 1; q <= width; q += q & (-q) {
				fenwick[q]++
			}
		}
	}
	return crossings
}

func cloneLayers(layers [][]int) [][]int {
	out := make([][]int, len(layers))
	for i, l := range layers {
		out[i] = slices.Clone(l)
	}
	return out
}
