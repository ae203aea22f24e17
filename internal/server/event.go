package server

import (
	"context"

	ferrors "github.com/matzehuels/flowboard/pkg/errors"
	"github.com/matzehuels/flowboard/pkg/flow"
	"github.com/matzehuels/flowboard/pkg/interact"
	"github.com/matzehuels/flowboard/pkg/port"
)

// Event types accepted by the events endpoint.
const (
	EventPointerDown = "pointer_down"
	EventPointerMove = "pointer_move"
	EventPointerUp   = "pointer_up"
	EventDeleteNode  = "delete_node"
	EventDeleteEdge  = "delete_edge"
	EventMountNode   = "mount_node"
)

// Event is one client interaction. X and Y are world coordinates for
// pointer events; Node, Edge and Size address delete and mount events.
type Event struct {
	Type string     `json:"type"`
	X    float64    `json:"x,omitempty"`
	Y    float64    `json:"y,omitempty"`
	Node string     `json:"node,omitempty"`
	Edge string     `json:"edge,omitempty"`
	Size *port.Size `json:"size,omitempty"`
}

// Rejection reports a gesture the controller refused.
type Rejection struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EventResult is the response to an event. Nodes and Edges are null unless
// the event changed the respective list.
type EventResult struct {
	Snapshot interact.Snapshot `json:"snapshot"`
	Hit      *HitView          `json:"hit,omitempty"`
	Nodes    []flow.NodeProps  `json:"nodes"`
	Edges    []flow.EdgeProps  `json:"edges"`
	Rejected *Rejection        `json:"rejected,omitempty"`
}

// HitView is the JSON form of a pointer hit.
type HitView struct {
	Target string `json:"target"`
	Node   string `json:"node,omitempty"`
	Port   *int   `json:"port,omitempty"`
	Edge   string `json:"edge,omitempty"`
}

// apply runs ev against s. Gesture rejections are folded into the result;
// only malformed events and internal failures return an error.
func (s *session) apply(ctx context.Context, ev Event) (EventResult, error) {
	s.reportedNodes, s.reportedEdges = nil, nil

	var (
		hit    *interact.Hit
		gesErr error
	)
	p := flow.Point{X: ev.X, Y: ev.Y}
	if (ev.Type == EventPointerDown || ev.Type == EventPointerMove || ev.Type == EventPointerUp) && !p.IsFinite() {
		return EventResult{}, ferrors.New(ferrors.ErrCodeInvalidInput, "pointer position must be finite")
	}

	switch ev.Type {
	case EventPointerDown:
		h, err := s.ctrl.PointerDown(p)
		hit, gesErr = &h, err
	case EventPointerMove:
		s.ctrl.PointerMove(p)
		h := s.ctrl.HitTest(p)
		hit = &h
	case EventPointerUp:
		h, err := s.ctrl.PointerUp(p)
		hit, gesErr = &h, err
	case EventDeleteNode:
		i, ok := s.ctrl.Index(ev.Node)
		if !ok {
			return EventResult{}, ferrors.New(ferrors.ErrCodeNotFound, "node %q", ev.Node)
		}
		if err := s.ctrl.DeleteNode(i); err != nil {
			return EventResult{}, err
		}
	case EventDeleteEdge:
		gesErr = s.ctrl.DeleteEdge(ev.Edge)
	case EventMountNode:
		i, ok := s.ctrl.Index(ev.Node)
		if !ok {
			return EventResult{}, ferrors.New(ferrors.ErrCodeNotFound, "node %q", ev.Node)
		}
		if ev.Size == nil {
			return EventResult{}, ferrors.New(ferrors.ErrCodeInvalidInput, "mount_node needs a size")
		}
		if err := s.ctrl.MountNode(i, *ev.Size); err != nil {
			return EventResult{}, err
		}
	default:
		return EventResult{}, ferrors.New(ferrors.ErrCodeInvalidInput, "unknown event type %q", ev.Type)
	}

	res := EventResult{Nodes: s.reportedNodes, Edges: s.reportedEdges}
	if err := s.adopt(ctx); err != nil {
		return EventResult{}, err
	}
	if gesErr != nil {
		if !ferrors.IsGesture(gesErr) {
			return EventResult{}, gesErr
		}
		res.Rejected = &Rejection{Code: string(ferrors.GetCode(gesErr)), Message: ferrors.UserMessage(gesErr)}
	}
	if hit != nil {
		res.Hit = s.hitView(*hit)
	}
	res.Snapshot = s.ctrl.Snapshot()
	return res, nil
}

func (s *session) hitView(h interact.Hit) *HitView {
	v := &HitView{Target: h.Target.String(), Edge: h.Edge}
	if h.Node >= 0 && h.Node < len(s.nodes) {
		v.Node = s.nodes[h.Node].ID
	}
	if h.Port >= 0 {
		idx := h.Port
		v.Port = &idx
	}
	return v
}
