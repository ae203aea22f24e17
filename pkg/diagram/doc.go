// Package diagram reads and writes flow diagrams as JSON.
//
// # JSON Format
//
// A diagram has two top-level arrays in the same shape the interaction
// controller reports to applications:
//
//	{
//	  "nodes": [
//	    {"id": "A", "position": {"x": 0, "y": 0}, "data": {"label": "Source"}, "inputs": 0, "outputs": 1},
//	    {"id": "B", "position": {"x": 0, "y": 0}, "data": {}, "inputs": 1, "outputs": 0,
//	     "actions": {"delete": true}}
//	  ],
//	  "edges": [
//	    {"id": "edge_A:0_B:0", "sourceNode": "A", "sourceOutput": 0, "targetNode": "B", "targetInput": 0}
//	  ]
//	}
//
// Positions are advisory; layout overwrites them. Edge ids are free-form on
// input, but edges created interactively use the edge_<src>:<out>_<dst>:<in>
// scheme.
//
// # Layout Export
//
// [FromResult] and [FromSnapshot] produce a [Layout]: every node with its
// anchor, box size and port offsets, and every edge with its absolute
// segment. This is what `flowboard layout` writes and what the HTTP API
// returns, ready for an external renderer.
package diagram
