package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/docfind/internal/config"
	"github.com/dgallion1/docfind/internal/dom"
	"github.com/dgallion1/docfind/internal/session"
	"github.com/dgallion1/docfind/internal/stats"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for docfind.
type Server struct {
	router  chi.Router
	store   *session.Store
	stats   *stats.PassStats
	exclude dom.Predicate
	log     *slog.Logger
	cfg     config.Config
}

// NewServer creates and configures the HTTP server. rules decide which
// subtrees of an uploaded document are never searched.
func NewServer(store *session.Store, passStats *stats.PassStats, rules dom.Rules, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store:   store,
		stats:   passStats,
		exclude: rules.Predicate(),
		log:     log,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.DocfindAPIKey, s.log))

		r.Post("/api/documents", s.handleUpload)
		r.Route("/api/documents/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleRender)
			r.Delete("/", s.handleDeleteDocument)
			r.Get("/status", s.handleStatus)

			r.Post("/open", s.handleOpen)
			r.Put("/query", s.handleQuery)
			r.Post("/next", s.handleNext)
			r.Post("/prev", s.handlePrev)
			r.Post("/close", s.handleClose)
		})

		r.Get("/api/stats/search", s.handleSearchStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
