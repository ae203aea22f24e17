package layered

// acyclic returns a deduplicated copy of the adjacency lists with every
// depth-first back edge reversed and self-loops dropped. Traversal starts from sources in index
// order, then from any node still unvisited (nodes on source-less cycles).
func acyclic(out [][]int) [][]int {
	const (
		white = iota
		gray
		black
	)

	n := len(out)
	color := make([]int, n)
	indeg := make([]int, n)
	for _, vs := range out {
		for _, v := range vs {
			indeg[v]++
		}
	}

	back := make(map[[2]int]bool)
	var dfs func(u int)
	dfs = func(u int) {
		color[u] = gray
		for _, v := range out[u] {
			switch color[v] {
			case white:
				dfs(v)
			case gray:
				back[[2]int{u, v}] = true
			}
		}
		color[u] = black
	}
	for u := range out {
		if indeg[u] == 0 && color[u] == white {
			dfs(u)
		}
	}
	for u := range out {
		if color[u] == white {
			dfs(u)
		}
	}

	children := make([][]int, n)
	seen := make(map[[2]int]bool)
	for u, vs := range out {
		for _, v := range vs {
			if u == v {
				continue
			}
			a, b := u, v
			if back[[2]int{u, v}] {
				a, b = v, u
			}
			if !seen[[2]int{a, b}] {
				seen[[2]int{a, b}] = true
				children[a] = append(children[a], b)
			}
		}
	}
	return children
}

// longestPath assigns each node the rank one past the deepest of its
// predecessors using Kahn's algorithm. Sources get rank 0. The graph must
// be acyclic.
func longestPath(children [][]int) []int {
	n := len(children)
	indeg := make([]int, n)
	for _, vs := range children {
		for _, v := range vs {
			indeg[v]++
		}
	}

	rank := make([]int, n)
	queue := make([]int, 0, n)
	for u := 0; u < n; u++ {
		if indeg[u] == 0 {
			queue = append(queue, u)
		}
	}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range children[u] {
			if r := rank[u] + 1; r > rank[v] {
				rank[v] = r
			}
			indeg[v]--
			if indeg[v] == 0 {
				queue = append(queue, v)
			}
		}
	}
	return rank
}
