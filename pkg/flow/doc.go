// Package flow provides the geometry-free model of a node-and-edge flow
// diagram.
//
// # Overview
//
// A diagram consists of nodes with a fixed number of input and output ports
// and edges that connect one output port to one input port. The surrounding
// application owns the authoritative node and edge lists ([NodeProps],
// [EdgeProps]); this package derives a [Graph] from them that caches, for
// every node, the ids of its incoming and outgoing edges. The cache makes
// "which edges touch this node" an O(degree) lookup, which is what keeps
// node dragging independent of the total edge count.
//
// # Edge Identity
//
// Edge ids are deterministic, see [EdgeID]:
//
//	flow.EdgeID("A", 0, "B", 1) // "edge_A:0_B:1"
//
// Two edges between the same ports always share an id and are deduplicated.
//
// # Invariants
//
// [Graph.Attach] validates endpoints and port indices before it mutates
// anything, and updates both endpoint lists together. [Graph.Check]
// verifies the adjacency invariant and is used by tests after arbitrary
// create/delete sequences.
//
// # Geometry
//
// [Point] and [Segment] are plain value types shared by the port, edge,
// layout and interaction packages. Diagram units are pixels in a
// y-down coordinate system.
package flow
