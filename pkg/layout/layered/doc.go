// Package layered is a pure-Go layered (Sugiyama style) layout oracle.
//
// Placement runs in four phases:
//
//  1. Cycle removal: edges closing a cycle in a depth-first traversal are
//     reversed, so cyclic diagrams lay out instead of failing.
//  2. Ranking: each node is placed one rank after the deepest of its
//     predecessors (longest path), which is what makes edges flow left to
//     right.
//  3. Ordering: edges spanning several ranks are split with virtual nodes,
//     then a fixed number of alternating barycenter sweeps reorder every
//     rank. The ordering with the fewest crossings seen is kept. Crossings
//     are counted with a Fenwick tree in O(E log V) per rank pair.
//  4. Coordinates: ranks are placed W+RankSep apart along x, and the nodes
//     of a rank H+NodeSep apart along y, centered on y = 0.
//
// The output depends only on the node order and the edge set, so the
// oracle is fully deterministic.
package layered
