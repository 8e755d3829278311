package api

import (
	"log"
	"net/http"

	"survivalcore/internal/store"

	"github.com/go-chi/chi/v5"
)

// Server is the HTTP API server with WebSocket support.
// It combines the HTTP router with a WebSocket hub that replicates
// world table rows to subscribed clients (§6.1, §6.4).
type Server struct {
	world       *store.World
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
}

// NewServer creates a new API server with default production configuration.
//
// The WebSocket hub and broadcast loop do not start until Start() is
// called, and no network listener is opened before then. Construction
// does start the rate limiter's cleanup goroutine (NewIPRateLimiter).
//
// For testing HTTP endpoints without WebSocket support, use NewRouter() directly.
func NewServer(world *store.World) *Server {
	return NewServerWithAuth(world, nil, false)
}

// NewServerWithAuth creates a new API server with admin authentication support.
func NewServerWithAuth(world *store.World, sessionMgr *SessionManager, enableAuth bool) *Server {
	s := &Server{
		world: world,
		wsHub: NewWebSocketHub(),
	}

	s.rateLimiter = NewIPRateLimiter(DefaultRateLimitConfig)

	s.router = NewRouter(RouterConfig{
		World:           world,
		WSHub:           s.wsHub,
		RateLimiter:     s.rateLimiter,
		SessionManager:  sessionMgr,
		EnableAdminAuth: enableAuth,
	})

	s.setupWebSocketRoutes()

	return s
}

// setupWebSocketRoutes adds WebSocket-specific routes to the router.
// These routes need access to the wsHub instance, so they can't be
// part of the generic NewRouter factory.
func (s *Server) setupWebSocketRoutes() {
	s.router.Get("/ws", s.handleWS)
}

// Start begins the HTTP server AND starts background workers.
// This is the only method that opens network listeners or starts the
// WebSocket hub goroutines.
//
// Call this method only once. To stop the server, signal the process.
func (s *Server) Start(addr string) error {
	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoop(s.world)

	log.Printf("API server starting on %s", addr)
	log.Printf("Admin panel: http://localhost%s/admin", addr)

	return http.ListenAndServe(addr, s.router)
}

// Router returns the HTTP handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop performs graceful shutdown of background workers.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleWebSocket(w, r)
}
