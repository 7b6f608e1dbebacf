package api

import (
	"log"
	"net/http"

	"github.com/jacogrande/high-noon-sub002/internal/netio"

	"github.com/go-chi/chi/v5"
)

// Server combines the HTTP router with the WebSocket hub around one
// running match. Grounded on the teacher's internal/api/server.go
// constructor shape (router built eagerly, workers deferred to Start).
type Server struct {
	match       *netio.Match
	router      *chi.Mux
	hub         *WebSocketHub
	rateLimiter *IPRateLimiter
}

// NewServer builds a server around match. Background workers do not start
// until Start is called, so the router is safe to exercise directly with
// httptest.NewServer via Router().
func NewServer(match *netio.Match) *Server {
	hub := NewWebSocketHub(match)
	rateLimiter := NewIPRateLimiter(DefaultRateLimitConfig)

	router := NewRouter(RouterConfig{
		State:       match,
		Hub:         hub,
		RateLimiter: rateLimiter,
	})

	return &Server{match: match, router: router, hub: hub, rateLimiter: rateLimiter}
}

// Start launches the WebSocket hub's worker goroutines and blocks serving
// HTTP on addr. It does not start the match's own tick loop; callers start
// the match separately so the simulation keeps running independent of the
// HTTP server's lifecycle.
func (s *Server) Start(addr string) error {
	go s.hub.Run()
	s.hub.StartBroadcastLoop()

	log.Printf("api server listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Router returns the HTTP handler, for use with httptest.NewServer.
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop releases the server's own background workers. It does not stop the
// match; callers own that lifecycle separately.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}
