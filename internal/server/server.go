package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/liftcalc/internal/training"
	"github.com/go-chi/chi/v5"
)

// UserResolver maps a tailnet login to a local user ID.
type UserResolver interface {
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc    *training.Service
	users  UserResolver
	ts     WhoIser
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured. users may be nil when
// Tailscale identity is not used.
func New(svc *training.Service, users UserResolver, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		svc:    svc,
		users:  users,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale switches identity from the local dev user to the tailnet
// peer making each request.
func (s *Server) SetTailscale(lc WhoIser) {
	s.ts = lc
}

// SetMCP mounts an MCP HTTP handler at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/api/v1/me", s.handleMe)

	// Calculators (no auth, no state)
	s.router.Get("/api/v1/plates", s.handlePlates)
	s.router.Get("/api/v1/warmup", s.handleWarmup)
	s.router.Get("/api/v1/estimate", s.handleEstimate)
	s.router.Get("/api/v1/weeks/{week}", s.handleWeekScheme)
	s.router.Get("/api/v1/jokers", s.handleJokers)
	s.router.Get("/api/v1/progression", s.handleProgression)
	s.router.Get("/api/v1/days/{lift}/{week}", s.handleDay)

	// Training state reads (no auth, tsnet handles access)
	s.router.Get("/api/v1/lifts", s.handleListLifts)
	s.router.Get("/api/v1/records", s.handleRecords)
	s.router.Get("/api/v1/training-maxes", s.handleTrainingMaxes)
	s.router.Get("/api/v1/training-maxes/{lift}/next", s.handleNextTrainingMax)
	s.router.Get("/api/v1/cycles/{cycle}/status", s.handleCycleStatus)
	s.router.Get("/api/v1/cycles/{cycle}/program", s.handleProgram)

	// Writes (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/lifts", s.handleLogLift)
		r.Put("/api/v1/training-maxes/{lift}", s.handleSetTrainingMax)
		r.Post("/api/v1/cycles/{cycle}/advance", s.handleAdvanceCycle)
	})
}
