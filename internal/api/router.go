package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"cosmic-arena/internal/room"
	"cosmic-arena/internal/transport"
)

// RouterConfig contains all dependencies needed to construct the HTTP
// router. This struct is designed for dependency injection and
// testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Directory: directory,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Directory is the room directory (required).
	Directory *room.Directory

	// Hubs resolves a room code to the transport.Hub broadcasting its
	// snapshots (required for the /ws route).
	Hubs *HubRegistry

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// WSRateLimiter is an optional pre-configured per-IP WebSocket
	// connection limiter. If nil, a new one is created with
	// MaxWSConnectionsPerIP.
	WSRateLimiter *WebSocketRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, uses AllowedOrigins.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// Side effects:
//   - No network listeners are opened
//   - transport.Upgrader.CheckOrigin is overwritten
//   - If cfg.RateLimiter is nil, a new IPRateLimiter is created, which
//     starts its cleanup goroutine
//
// Passing a pre-built RateLimiter keeps goroutine ownership with the caller
// when used in tests with httptest.NewServer.
//
// Example:
//
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
//	defer ts.Close()
//	resp, _ := http.Get(ts.URL + "/api/rooms")
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	// CORS configuration
	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = AllowedOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &routerHandlers{directory: cfg.Directory}

	r.Route("/api", func(r chi.Router) {
		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", h.handleCreateRoom)
			r.Get("/", h.handleListRooms)
			r.Get("/{code}", h.handleGetRoom)
			r.Get("/{code}/scoreboard", h.handleGetScoreboard)
			r.Get("/{code}/debug.png", h.handleDebugRender)
		})
	})

	// CheckOrigin is wired here, against the same allowed-origin list CORS
	// uses, since the WebSocket upgrade bypasses the cors.Handler middleware.
	transport.Upgrader.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if IsAllowedOrigin(origin) {
			return true
		}
		log.Printf("websocket connection rejected from origin: %s", origin)
		RecordConnectionRejected("origin")
		return false
	}

	wsLimiter := cfg.WSRateLimiter
	if wsLimiter == nil {
		wsLimiter = NewWebSocketRateLimiter(MaxWSConnectionsPerIP)
	}

	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		handleWebSocket(w, req, cfg.Directory, cfg.Hubs, wsLimiter)
	})

	return r
}

// handleWebSocket resolves the ?room= query parameter to a live room and
// its hub, enforces the server-wide and per-IP WebSocket connection caps,
// then hands the upgrade off to internal/transport.
func handleWebSocket(w http.ResponseWriter, r *http.Request, directory *room.Directory, hubs *HubRegistry, wsLimiter *WebSocketRateLimiter) {
	code := r.URL.Query().Get("room")
	if code == "" {
		http.Error(w, "missing room query parameter", http.StatusBadRequest)
		return
	}

	target, err := directory.Get(code)
	if err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	if total := hubs.TotalClientCount(); total >= MaxWSConnectionsTotal {
		log.Printf("websocket connection rejected: total limit reached (%d)", total)
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	ip := GetClientIP(r)
	if !wsLimiter.Allow(ip) {
		log.Printf("websocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	hub := hubs.Get(code, target)
	transport.HandleConnection(w, r, hub, target, func() { wsLimiter.Release(ip) })
}

// GetRateLimiterFromRouter returns cfg.RateLimiter when it is set. Otherwise
// it builds a new IPRateLimiter from cfg.RateLimitConfig (or
// DefaultRateLimitConfig), which is a separate instance from the one
// NewRouter created for the same cfg.
func GetRateLimiterFromRouter(cfg RouterConfig) *IPRateLimiter {
	if cfg.RateLimiter != nil {
		return cfg.RateLimiter
	}
	rateLimitCfg := DefaultRateLimitConfig
	if cfg.RateLimitConfig != nil {
		rateLimitCfg = *cfg.RateLimitConfig
	}
	return NewIPRateLimiter(rateLimitCfg)
}
