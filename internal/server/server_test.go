package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowboard/pkg/diagram"
	"github.com/matzehuels/flowboard/pkg/flow"
	"github.com/matzehuels/flowboard/pkg/interact"
	"github.com/matzehuels/flowboard/pkg/layout"
	"github.com/matzehuels/flowboard/pkg/layout/layered"
	"github.com/matzehuels/flowboard/pkg/port"
)

// Two unconnected nodes share rank 0: A's anchor is (0,-70), B's (0,70).
const twoNodes = `{
  "nodes": [
    {"id": "A", "position": {"x": 0, "y": 0}, "data": {"label": "A"}, "inputs": 0, "outputs": 1},
    {"id": "B", "position": {"x": 0, "y": 0}, "data": {"label": "B"}, "inputs": 1, "outputs": 0}
  ],
  "edges": []
}`

const chain = `{
  "nodes": [
    {"id": "A", "position": {"x": 0, "y": 0}, "data": {}, "inputs": 0, "outputs": 1},
    {"id": "B", "position": {"x": 0, "y": 0}, "data": {}, "inputs": 1, "outputs": 0}
  ],
  "edges": [
    {"id": "ab", "sourceNode": "A", "sourceOutput": 0, "targetNode": "B", "targetInput": 0}
  ]
}`

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	srv := httptest.NewServer(New(layout.New(layered.New()), opts).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func event(t *testing.T, base, id string, ev Event) EventResult {
	t.Helper()
	b, _ := json.Marshal(ev)
	resp := do(t, http.MethodPost, base+"/api/v1/sessions/"+id+"/events", string(b))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("event %s: status %d", ev.Type, resp.StatusCode)
	}
	return decode[EventResult](t, resp)
}

func createSession(t *testing.T, base, body string) string {
	t.Helper()
	resp := do(t, http.MethodPost, base+"/api/v1/sessions", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session: status %d", resp.StatusCode)
	}
	return decode[createResponse](t, resp).ID
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp := do(t, http.MethodGet, srv.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decode[map[string]string](t, resp)
	if body["status"] != "ok" || body["oracle"] != "layered" {
		t.Errorf("body = %v", body)
	}
}

func TestLayout(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp := do(t, http.MethodPost, srv.URL+"/api/v1/layout", chain)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	l := decode[diagram.Layout](t, resp)
	if len(l.Nodes) != 2 || l.Nodes[1].Position != (flow.Point{X: 300, Y: 0}) {
		t.Errorf("nodes = %+v", l.Nodes)
	}
	if len(l.Edges) != 1 || l.Edges[0].Segment.Start != (flow.Point{X: 200, Y: 0}) {
		t.Errorf("edges = %+v", l.Edges)
	}
}

func TestLayoutErrors(t *testing.T) {
	srv := newTestServer(t, Options{})
	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed", `{"nodes":`, "INVALID_INPUT"},
		{"unknown field", `{"vertices": []}`, "INVALID_INPUT"},
		{"bad edge", `{"nodes":[{"id":"A"}],"edges":[{"id":"e","sourceNode":"A","targetNode":"Z"}]}`, "INVALID_GRAPH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/api/v1/layout", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if body := decode[errorBody](t, resp); body.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Code, tt.code)
			}
		})
	}
}

func TestSessionConnect(t *testing.T) {
	srv := newTestServer(t, Options{})
	id := createSession(t, srv.URL, twoNodes)

	down := event(t, srv.URL, id, Event{Type: EventPointerDown, X: 200, Y: -70})
	if down.Hit == nil || down.Hit.Target != "output" || down.Hit.Node != "A" {
		t.Fatalf("pointer_down hit = %+v", down.Hit)
	}
	if down.Snapshot.State != "dragging_pending_edge" || down.Snapshot.Pending == nil {
		t.Fatalf("snapshot = %+v", down.Snapshot)
	}

	moved := event(t, srv.URL, id, Event{Type: EventPointerMove, X: 100, Y: 0})
	if moved.Snapshot.Pending.Preview != (flow.Point{X: 100, Y: 0}) {
		t.Errorf("preview = %v", moved.Snapshot.Pending.Preview)
	}

	up := event(t, srv.URL, id, Event{Type: EventPointerUp, X: 0, Y: 70})
	if up.Rejected != nil {
		t.Fatalf("rejected: %+v", up.Rejected)
	}
	if len(up.Edges) != 1 || up.Edges[0].ID != "edge_A:0_B:0" {
		t.Fatalf("reported edges = %v", up.Edges)
	}
	if up.Nodes != nil {
		t.Errorf("nodes reported on connect: %v", up.Nodes)
	}
	if len(up.Snapshot.Edges) != 1 || up.Snapshot.State != "idle" {
		t.Errorf("snapshot = %+v", up.Snapshot)
	}

	// Connecting the same ports again is rejected and changes nothing.
	event(t, srv.URL, id, Event{Type: EventPointerDown, X: 200, Y: -70})
	again := event(t, srv.URL, id, Event{Type: EventPointerUp, X: 0, Y: 70})
	if again.Rejected == nil || again.Rejected.Code != "DUPLICATE_EDGE" {
		t.Errorf("rejected = %+v, want DUPLICATE_EDGE", again.Rejected)
	}
	if again.Edges != nil {
		t.Errorf("rejected gesture reported edges: %v", again.Edges)
	}

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/sessions/"+id, "")
	snap := decode[interact.Snapshot](t, resp)
	if len(snap.Edges) != 1 {
		t.Errorf("GET snapshot edges = %v", snap.Edges)
	}
}

func TestSessionDeletes(t *testing.T) {
	srv := newTestServer(t, Options{})
	id := createSession(t, srv.URL, chain)

	res := event(t, srv.URL, id, Event{Type: EventDeleteEdge, Edge: "ab"})
	if res.Edges == nil || len(res.Edges) != 0 {
		t.Errorf("edges after delete = %v", res.Edges)
	}

	resp := do(t, http.MethodPost, srv.URL+"/api/v1/sessions/"+id+"/events", `{"type":"delete_edge","edge":"ab"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}

	res = event(t, srv.URL, id, Event{Type: EventDeleteNode, Node: "A"})
	if len(res.Nodes) != 1 || res.Nodes[0].ID != "B" {
		t.Errorf("nodes after delete = %v", res.Nodes)
	}
	if len(res.Snapshot.Nodes) != 1 {
		t.Errorf("snapshot not synced: %v", res.Snapshot.Nodes)
	}
}

func TestSessionMount(t *testing.T) {
	srv := newTestServer(t, Options{})
	id := createSession(t, srv.URL, chain)
	res := event(t, srv.URL, id, Event{Type: EventMountNode, Node: "A", Size: &port.Size{W: 120, H: 60}})
	if got := res.Snapshot.Edges[0].Segment.Start; got != (flow.Point{X: 120, Y: 0}) {
		t.Errorf("segment start = %v after mount", got)
	}
}

func TestSessionErrors(t *testing.T) {
	srv := newTestServer(t, Options{})
	id := createSession(t, srv.URL, chain)
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"unknown session", http.MethodGet, "/api/v1/sessions/6f1d1b4e-0c43-4a33-9a3e-8df1b1a1e000", "", http.StatusNotFound},
		{"malformed id", http.MethodGet, "/api/v1/sessions/nope", "", http.StatusNotFound},
		{"unknown event", http.MethodPost, "/api/v1/sessions/" + id + "/events", `{"type":"wiggle"}`, http.StatusBadRequest},
		{"bad json", http.MethodPost, "/api/v1/sessions/" + id + "/events", `{"type":`, http.StatusBadRequest},
		{"unknown node", http.MethodPost, "/api/v1/sessions/" + id + "/events", `{"type":"delete_node","node":"Z"}`, http.StatusNotFound},
		{"mount without size", http.MethodPost, "/api/v1/sessions/" + id + "/events", `{"type":"mount_node","node":"A"}`, http.StatusBadRequest},
		{"invalid diagram", http.MethodPost, "/api/v1/sessions", `{"nodes":[{"id":"A"},{"id":"A"}]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if resp := do(t, tt.method, srv.URL+tt.path, tt.body); resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	srv := newTestServer(t, Options{})
	id := createSession(t, srv.URL, chain)
	if resp := do(t, http.MethodDelete, srv.URL+"/api/v1/sessions/"+id, ""); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodDelete, srv.URL+"/api/v1/sessions/"+id, ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d", resp.StatusCode)
	}
}

func TestSessionLimit(t *testing.T) {
	srv := newTestServer(t, Options{MaxSessions: 1})
	createSession(t, srv.URL, chain)
	resp := do(t, http.MethodPost, srv.URL+"/api/v1/sessions", chain)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestWriteJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, io.ErrUnexpectedEOF)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("unexpected EOF")) {
		t.Errorf("body = %s", rec.Body.String())
	}
}
