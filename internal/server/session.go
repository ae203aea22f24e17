package server

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/flowboard/pkg/diagram"
	ferrors "github.com/matzehuels/flowboard/pkg/errors"
	"github.com/matzehuels/flowboard/pkg/flow"
	"github.com/matzehuels/flowboard/pkg/interact"
	"github.com/matzehuels/flowboard/pkg/layout"
)

// session is one live controller plus the application lists it edits.
type session struct {
	mu      sync.Mutex
	ctrl    *interact.Controller
	nodes   []flow.NodeProps
	edges   []flow.EdgeProps
	touched time.Time

	// Set by controller callbacks during a single event.
	reportedNodes []flow.NodeProps
	reportedEdges []flow.EdgeProps
}

func newSession(ctx context.Context, engine *layout.Engine, d diagram.Diagram, logger *log.Logger) (*session, error) {
	s := &session{nodes: d.Nodes, edges: d.Edges, touched: time.Now()}
	ctrl, err := interact.New(ctx, engine, d.Nodes, d.Edges,
		interact.WithNodesChange(func(n []flow.NodeProps) { s.reportedNodes = n }),
		interact.WithEdgesChange(func(e []flow.EdgeProps) { s.reportedEdges = e }),
		interact.WithLogger(logger),
	)
	if ctrl == nil {
		return nil, err
	}
	if err != nil {
		logger.Warn("session layout failed, using supplied positions", "err", err)
	}
	s.ctrl = ctrl
	return s, nil
}

// adopt takes over reported lists and syncs the controller. Must be called
// with mu held and after the controller call that reported them returned.
func (s *session) adopt(ctx context.Context) error {
	if s.reportedNodes == nil && s.reportedEdges == nil {
		return nil
	}
	if s.reportedNodes != nil {
		s.nodes = s.reportedNodes
	}
	if s.reportedEdges != nil {
		s.edges = s.reportedEdges
	}
	err := s.ctrl.Sync(ctx, s.nodes, s.edges)
	if ferrors.Is(err, ferrors.ErrCodeLayout) {
		return nil
	}
	return err
}

// store holds sessions by id.
type store struct {
	mu       sync.RWMutex
	sessions map[string]*session
	limit    int
	ttl      time.Duration
}

func newStore(limit int, ttl time.Duration) *store {
	return &store{sessions: make(map[string]*session), limit: limit, ttl: ttl}
}

func (st *store) add(s *session) (string, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.limit > 0 && len(st.sessions) >= st.limit {
		st.expireLocked(time.Now())
		if len(st.sessions) >= st.limit {
			return "", ferrors.New(ferrors.ErrCodeUnsupported, "session limit of %d reached", st.limit)
		}
	}
	id := uuid.NewString()
	st.sessions[id] = s
	return id, nil
}

func (st *store) get(id string) (*session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ferrors.New(ferrors.ErrCodeSessionNotFound, "session %q", id)
	}
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ferrors.New(ferrors.ErrCodeSessionNotFound, "session %s", id)
	}
	return s, nil
}

func (st *store) remove(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}

func (st *store) len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// expireLocked drops sessions idle for longer than ttl.
func (st *store) expireLocked(now time.Time) int {
	if st.ttl <= 0 {
		return 0
	}
	n := 0
	for id, s := range st.sessions {
		s.mu.Lock()
		idle := now.Sub(s.touched)
		s.mu.Unlock()
		if idle > st.ttl {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}
