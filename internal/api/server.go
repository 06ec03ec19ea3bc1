package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cosmic-arena/internal/room"
)

// Server is the HTTP API server: the room-directory REST surface plus the
// per-room WebSocket upgrade endpoint.
type Server struct {
	directory   *room.Directory
	hubs        *HubRegistry
	router      *chi.Mux
	rateLimiter *IPRateLimiter
}

// NewServer creates a new API server with default production configuration.
//
// No network listener is opened until Start() is called. Construction does
// start the rate limiter's cleanup goroutine, which Stop() ends.
//
// For testing HTTP endpoints without WebSocket support, use NewRouter() directly.
func NewServer(directory *room.Directory) *Server {
	s := &Server{
		directory: directory,
		hubs:      NewHubRegistry(),
	}

	s.rateLimiter = NewIPRateLimiter(DefaultRateLimitConfig)

	s.router = NewRouter(RouterConfig{
		Directory:   directory,
		Hubs:        s.hubs,
		RateLimiter: s.rateLimiter,
	})

	return s
}

// Start begins listening on addr. This is the ONLY method that opens a
// network listener; call it once and let the process block here.
func (s *Server) Start(addr string) error {
	log.Printf("arena server starting on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Router returns the HTTP handler for use with httptest.
//
// Example:
//
//	server := api.NewServer(directory)
//	ts := httptest.NewServer(server.Router())
//	defer ts.Close()
//	resp, _ := http.Get(ts.URL + "/api/rooms")
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop performs graceful shutdown of background workers owned directly by
// the server. Room goroutines are owned by the Directory and must be
// stopped separately via Directory.Stop.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}
