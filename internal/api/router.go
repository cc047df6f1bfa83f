package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/edkim3275/notion-todo-AI-agent/internal/agent"
	"github.com/edkim3275/notion-todo-AI-agent/internal/core"
	"github.com/edkim3275/notion-todo-AI-agent/internal/store"
)

// Server holds the HTTP server state.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	svc        *core.Service
	agent      *agent.Agent
	audit      *store.Store
	logger     *slog.Logger
	location   *time.Location
	authToken  string
}

// NewServer constructs the HTTP API server. agentRunner may be nil when no
// language-model key is configured; the /agent endpoint then reports the
// feature as unavailable.
func NewServer(addr, authToken string, svc *core.Service, agentRunner *agent.Agent, audit *store.Store, logger *slog.Logger, location *time.Location) (*Server, error) {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:    router,
		svc:       svc,
		agent:     agentRunner,
		audit:     audit,
		logger:    logger,
		location:  location,
		authToken: authToken,
	}
	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.router.Get("/", s.handleRoot)

	s.router.Route("/v1/notion", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			if s.authToken != "" {
				r.Use(AuthMiddleware(s.authToken))
			}

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/list", s.handleListTasks)
				r.Post("/create", s.handleCreateTask)
				r.Post("/update", s.handleUpdateTask)
				r.Post("/complete", s.handleCompleteTask)
				r.Post("/delete", s.handleDeleteTask)
			})

			r.Get("/db/describe", s.handleDescribeDB)
			r.Post("/agent", s.handleAgent)
			r.Post("/plans/execute", s.handleExecutePlan)
			r.Get("/executions", s.handleListExecutions)
		})
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"message": "notion todo agent server is running.",
		"tz":      s.location.String(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": "notion",
		"tz":      s.location.String(),
	})
}
