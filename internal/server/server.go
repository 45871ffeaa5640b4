package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sakila-dashboard/internal/errors"
	"sakila-dashboard/internal/handlers"
	"sakila-dashboard/internal/middleware"
	"sakila-dashboard/internal/observability"
	"sakila-dashboard/internal/services"
)

type Server struct {
	router      chi.Router
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analytics *services.Analytics, defaults handlers.Defaults, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(analytics, defaults, logger),
		sseHandlers: handlers.NewSSEHandlers(analytics, defaults, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Route metrics need the matched pattern, which only exists inside the
	// router.
	s.router.Use(middleware.Metrics())

	s.router.NotFound(s.notFound)
	s.router.MethodNotAllowed(s.methodNotAllowed)

	// Dashboard routes
	s.router.Get("/", templateHandlers.Dashboard)
	s.router.Get("/health", s.apiHandlers.HandleHealth)
	s.router.Get("/admin/stats", s.apiHandlers.HandleStats)
	s.router.Get("/report", s.apiHandlers.HandleReport)
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/aggregate", s.apiHandlers.HandleAggregate)
		r.Get("/figures", s.apiHandlers.HandleFigures)
		r.Get("/export.xlsx", s.apiHandlers.HandleExport)
	})

	// Datastar SSE endpoint
	s.router.Get("/sse/figures", s.sseHandlers.HandleFigures)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	errors.WriteError(w, s.logger, errors.NotFound("No route for "+r.URL.Path), observability.GetRequestID(r.Context()))
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	appErr := errors.New(errors.CodeBadRequest, "Method not allowed")
	appErr.StatusCode = http.StatusMethodNotAllowed
	errors.WriteError(w, s.logger, appErr, observability.GetRequestID(r.Context()))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
