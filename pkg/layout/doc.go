// Package layout positions the nodes of a flow diagram.
//
// # Overview
//
// The layout engine treats every node as a uniform fixed-size box, hands the
// directed node graph to an [Oracle] (a layered graph drawing algorithm) and
// converts the returned box centers into node anchors: the left edge
// horizontally and the vertical midpoint vertically. It also computes the
// default port offsets for the constant box so that edge geometry can be
// derived before any renderer has reported real node sizes.
//
// Edges always flow left to right. Cyclic and disconnected graphs are valid
// input; an oracle that cannot handle them must return an error, which the
// engine reports as LAYOUT_FAILED rather than degenerate coordinates.
//
// # Oracles
//
// Two oracles ship with flowboard:
//
//   - [github.com/matzehuels/flowboard/pkg/layout/graphviz] drives Graphviz dot
//   - [github.com/matzehuels/flowboard/pkg/layout/layered] is a pure-Go
//     Sugiyama implementation with no native dependencies
//
// # Caching
//
// Because a layout is a pure function of the topology and the engine
// settings, results can be cached across runs with [WithCache]. Cache errors
// are logged and otherwise ignored.
//
// # Usage
//
//	eng := layout.New(layered.New())
//	res, err := eng.Compute(ctx, nodes, edges)
//	if err != nil {
//	    return err // LAYOUT_FAILED or INVALID_GRAPH
//	}
//	pos := res.Positions["A"]
package layout
