// Package port computes node-relative port offsets.
//
// Ports are evenly spaced along the left (inputs) and right (outputs) edges
// of a node box and centered on the node's vertical midpoint. Offsets are
// relative to the node anchor (left edge, vertical midpoint) and depend only
// on the box width, the port count and the spacing, never on the node's
// absolute position, so they stay valid across drags.
//
// For n ports and spacing s the i-th offset (0-indexed) is
//
//	y = (i+1)·s − (n+1)·s/2
//
// with x = 0 for inputs and x = W for outputs.
package port

import (
	"github.com/matzehuels/flowboard/pkg/flow"
)

// DefaultSpacing is the vertical distance between adjacent ports.
const DefaultSpacing = 20.0

// Default box dimensions assumed before a renderer reports real geometry.
const (
	DefaultWidth  = 200.0
	DefaultHeight = 100.0
)

// Size is the rendered size of a node box.
type Size struct {
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// DefaultSize returns the uniform box used by layout.
func DefaultSize() Size { return Size{W: DefaultWidth, H: DefaultHeight} }

// Offsets holds one node-relative point per port, indexed by port index.
type Offsets struct {
	Inputs  []flow.Point `json:"inputs"`
	Outputs []flow.Point `json:"outputs"`
}

// Input returns the offset of input port i.
func (o Offsets) Input(i int) (flow.Point, bool) {
	if i < 0 || i >= len(o.Inputs) {
		return flow.Point{}, false
	}
	return o.Inputs[i], true
}

// Output returns the offset of output port i.
func (o Offsets) Output(i int) (flow.Point, bool) {
	if i < 0 || i >= len(o.Outputs) {
		return flow.Point{}, false
	}
	return o.Outputs[i], true
}

// Clone returns a deep copy.
func (o Offsets) Clone() Offsets {
	return Offsets{
		Inputs:  append([]flow.Point(nil), o.Inputs...),
		Outputs: append([]flow.Point(nil), o.Outputs...),
	}
}

// Compute returns the offsets of a node with the given port counts and box
// size. A non-positive spacing falls back to DefaultSpacing; negative counts
// yield no ports.
func Compute(inputs, outputs int, size Size, spacing float64) Offsets {
	if spacing <= 0 {
		spacing = DefaultSpacing
	}
	return Offsets{
		Inputs:  column(inputs, 0, spacing),
		Outputs: column(outputs, size.W, spacing),
	}
}

// Y returns the vertical offset of port i among n ports.
func Y(i, n int, spacing float64) float64 {
	return float64(i+1)*spacing - float64(n+1)*spacing/2
}

func column(n int, x, spacing float64) []flow.Point {
	if n <= 0 {
		return []flow.Point{}
	}
	pts := make([]flow.Point, n)
	for i := range pts {
		pts[i] = flow.Point{X: x, Y: Y(i, n, spacing)}
	}
	return pts
}
