// Package tui is a terminal editor for flow diagrams.
//
// The bubbletea [Model] plays the part of the application: it owns the node
// and edge lists, hands them to an [interact.Controller], collects the lists
// the controller reports through its change callbacks and feeds them back
// with Sync once the gesture handler has returned.
//
// World units map to terminal cells at a fixed scale (10 units per column,
// 20 per row), so one port spacing is exactly one row. Each node box is
// measured once from its label and port count and reported with MountNode.
package tui
