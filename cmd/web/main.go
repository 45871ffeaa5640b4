package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"sakila-dashboard/internal/config"
	"sakila-dashboard/internal/geo"
	"sakila-dashboard/internal/handlers"
	"sakila-dashboard/internal/middleware"
	"sakila-dashboard/internal/models"
	"sakila-dashboard/internal/observability"
	"sakila-dashboard/internal/server"
	"sakila-dashboard/internal/services"
	"sakila-dashboard/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	sweepInterval = time.Minute
	cacheMaxAge   = "public, max-age=300"
)

func dashboardPage(defaults handlers.Defaults) templates.Page {
	page := templates.Page{
		View:    defaults.View.Name,
		Metric:  string(defaults.Metric),
		MinDate: defaults.MinDate.Format(time.DateOnly),
		MaxDate: defaults.MaxDate.Format(time.DateOnly),
	}
	for _, v := range geo.Views {
		page.Views = append(page.Views, v.Name)
	}
	for _, m := range models.Metrics {
		page.Metrics = append(page.Metrics, templates.Option{Value: string(m), Label: m.OptionLabel()})
	}
	return page
}

func handleDashboard(page templates.Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", cacheMaxAge)
		if err := templates.Dashboard(page).Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func defaultsFrom(cfg *config.Config) handlers.Defaults {
	minDate, maxDate := cfg.DateBounds()
	return handlers.Defaults{
		View:    geo.World,
		Metric:  models.MetricPayments,
		MinDate: minDate,
		MaxDate: maxDate,
	}
}

func newHandler(cfg *config.Config, logger *slog.Logger, rateLimiter *middleware.RateLimiter) http.Handler {
	defaults := defaultsFrom(cfg)
	loader := services.NewLoader(cfg.Dataset.Path, logger)
	analytics := services.NewAnalytics(loader, logger)

	templateHandlers := &server.TemplateHandlers{
		Dashboard: handleDashboard(dashboardPage(defaults)),
	}

	srv := server.NewServer(analytics, defaults, logger, templateHandlers)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	return middlewareChain(srv)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"dataset", cfg.Dataset.Path,
		"date_range", cfg.Dataset.MinDate+".."+cfg.Dataset.MaxDate,
	)

	// The dataset is read per request, so a missing file only degrades queries
	// to 503 until it appears.
	if _, err := os.Stat(cfg.Dataset.Path); err != nil {
		logger.Warn("dataset not readable at startup", "path", cfg.Dataset.Path, "error", err)
	}

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, logger, rateLimiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterTask(func(ctx context.Context) error {
		return rateLimiter.Run(ctx, sweepInterval)
	})

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down dashboard service")
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
