// Package interact implements the interaction state machine of a flow
// diagram editor.
//
// # Overview
//
// A [Controller] owns every piece of mutable diagram state: node positions,
// measured node sizes, port offsets, edge geometry, the active flag of each
// edge and the at-most-one pending edge. It calls into the pure packages
// ([github.com/matzehuels/flowboard/pkg/layout], port and edge) and reports
// structural changes to the surrounding application, which owns the
// authoritative node and edge lists.
//
// # States
//
//	Idle ──press node──▶ DraggingNode ──release──▶ Idle
//	Idle ──press output──▶ DraggingPendingEdge ──release on input──▶ Idle (commit)
//	                                           ──release elsewhere──▶ Idle (abort)
//
// While a node is dragged, only the endpoints of its incident active edges
// are recomputed, found through the cached per-node edge lists.
//
// # Notifications
//
// Every committed structural change calls the registered callbacks with the
// complete new list, never a diff: edge creation and deletion call the edges
// callback with the active-edge projection; node deletion calls the edges
// callback and then the nodes callback. Callbacks run synchronously inside
// the gesture method. Hosts must not call [Controller.Sync] from a callback;
// they record the lists and sync after the gesture method returns.
//
// # Rejected Gestures
//
// A gesture that cannot complete (dropping on the source node, a duplicate
// edge, an out-of-range port) is absorbed: the controller returns to Idle,
// fires no notification and returns an error carrying one of the gesture
// codes from [github.com/matzehuels/flowboard/pkg/errors]. Hosts may show or
// ignore it.
//
// # Pointer Hosts
//
// Renderers with per-element events call the primitives directly
// ([Controller.PressNode], [Controller.PressOutput], ...). Hosts that only
// see raw pointer coordinates, such as the terminal editor and the HTTP
// API, use [Controller.PointerDown], [Controller.PointerMove] and
// [Controller.PointerUp], which resolve targets with [Controller.HitTest].
//
// The controller is not safe for concurrent use.
package interact
