package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/flowboard/pkg/diagram"
	ferrors "github.com/matzehuels/flowboard/pkg/errors"
	"github.com/matzehuels/flowboard/pkg/layout"
)

// Defaults for [Options].
const (
	DefaultMaxSessions = 1000
	DefaultSessionTTL  = time.Hour
	maxBodyBytes       = 4 << 20
)

// Options configures a [Server].
type Options struct {
	Logger      *log.Logger
	MaxSessions int
	SessionTTL  time.Duration
}

// Server serves the flowboard HTTP API.
type Server struct {
	engine   *layout.Engine
	logger   *log.Logger
	sessions *store
	router   chi.Router
}

// New creates a server that lays out diagrams with engine.
func New(engine *layout.Engine, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.MaxSessions == 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.SessionTTL == 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	s := &Server{
		engine:   engine,
		logger:   opts.Logger,
		sessions: newStore(opts.MaxSessions, opts.SessionTTL),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "oracle": s.engine.Oracle()})
	})
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/events", s.handleEvent)
			})
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr, "oracle", s.engine.Oracle())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) readDiagram(w http.ResponseWriter, r *http.Request) (diagram.Diagram, bool) {
	d, err := diagram.ReadJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err == nil {
		err = d.Validate()
	}
	if err != nil {
		writeError(w, err)
		return diagram.Diagram{}, false
	}
	return d, true
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	d, ok := s.readDiagram(w, r)
	if !ok {
		return
	}
	res, err := s.engine.Compute(r.Context(), d.Nodes, d.Edges)
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := diagram.FromResult(d, res)
	if err != nil {
		writeError(w, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, out)
}

type createResponse struct {
	ID       string `json:"id"`
	Snapshot any    `json:"snapshot"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	d, ok := s.readDiagram(w, r)
	if !ok {
		return
	}
	sess, err := newSession(r.Context(), s.engine, d, s.logger)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := s.sessions.add(sess)
	if err != nil {
		writeError(w, err)
		return
	}
	s.logger.Debug("session created", "id", id, "nodes", len(d.Nodes), "edges", len(d.Edges))
	_ = writeJSON(w, http.StatusCreated, createResponse{ID: id, Snapshot: sess.ctrl.Snapshot()})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	sess.mu.Lock()
	snap := sess.ctrl.Snapshot()
	sess.mu.Unlock()
	_ = writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.remove(id) {
		writeError(w, ferrors.New(ferrors.ErrCodeSessionNotFound, "session %q", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var ev Event
	if err := decodeStrict(http.MaxBytesReader(w, r.Body, maxBodyBytes), &ev); err != nil {
		writeError(w, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "decode event"))
		return
	}

	sess.mu.Lock()
	sess.touched = time.Now()
	res, err := sess.apply(r.Context(), ev)
	sess.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, res)
}
