// Package pkg provides the core libraries for Flowboard flow diagrams.
//
// # Overview
//
// Flowboard turns a list of nodes (boxes with numbered input and output
// ports) and a list of edges (output port to input port) into positioned,
// interactive geometry. The pkg directory is organized bottom-up:
//
//  1. [flow] - The model: props, derived graph with per-node edge lists
//  2. [port] - Port offsets relative to a node's anchor
//  3. [edge] - Absolute edge segments and incremental endpoint updates
//  4. [layout] - Layered left-to-right placement via pluggable oracles
//  5. [interact] - The gesture state machine (drag, connect, delete)
//
// # Architecture
//
// The typical data flow:
//
//	Application node/edge lists
//	         ↓
//	    [flow] package (validate + derive adjacency)
//	         ↓
//	    [layout] package (oracle ranks and orders, anchors + port offsets)
//	         ↓
//	    [edge] package (segments from positions and offsets)
//	         ↓
//	    [interact] package (gestures, callbacks with updated lists)
//
// # Quick Start
//
//	engine := layout.New(layered.New())
//	ctrl, _ := interact.New(ctx, engine, nodes, edges,
//	    interact.WithEdgesChange(func(e []flow.EdgeProps) { edges = e }),
//	)
//	ctrl.PointerDown(flow.Point{X: 200, Y: 0}) // press output 0 of A
//	ctrl.PointerUp(flow.Point{X: 300, Y: 0})   // release on input 0 of B
//
// # Supporting Packages
//
// [diagram] - JSON import and export of diagrams and computed layouts.
//
// [cache] - Layout cache backends (file, Redis, null) and key schemes.
//
// [errors] - Coded errors shared by every layer.
//
// [observability] - Hooks for layout and cache events.
//
// [buildinfo] - Version information injected at build time.
//
// [flow]: https://pkg.go.dev/github.com/matzehuels/flowboard/pkg/flow
// [port]: https://pkg.go.dev/github.com/matzehuels/flowboard/pkg/port
// [edge]: https://pkg.go.dev/github.com/matzehuels/flowboard/pkg/edge
// [layout]: https://pkg.go.dev/github.com/matzehuels/flowboard/pkg/layout
// [interact]: https://pkg.go.dev/github.com/matzehuels/flowboard/pkg/interact
// [diagram]: https://pkg.go.dev/github.com/matzehuels/flowboard/pkg/diagram
// [cache]: https://pkg.go.dev/github.com/matzehuels/flowboard/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/flowboard/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/flowboard/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/flowboard/pkg/buildinfo
package pkg
