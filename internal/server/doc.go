// Package server exposes layout and interactive editing sessions over HTTP.
//
// Routes:
//
//	GET    /healthz
//	POST   /api/v1/layout                diagram -> layout
//	POST   /api/v1/sessions              diagram -> {id, snapshot}
//	GET    /api/v1/sessions/{id}         -> snapshot
//	POST   /api/v1/sessions/{id}/events  event -> snapshot + reported lists
//	DELETE /api/v1/sessions/{id}
//
// A session wraps one [interact.Controller]. The session acts as the
// application: lists reported by the controller are adopted and synced back
// after each event, and returned to the client so it can mirror them.
// Events for one session are serialized; different sessions run in parallel.
package server
