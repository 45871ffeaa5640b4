package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"sakila-dashboard/internal/charts"
	"sakila-dashboard/internal/errors"
	"sakila-dashboard/internal/export"
	"sakila-dashboard/internal/models"
	"sakila-dashboard/internal/observability"
	"sakila-dashboard/internal/services"
)

const version = "1.0.0"

type APIHandlers struct {
	analytics *services.Analytics
	defaults  Defaults
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, defaults Defaults, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		defaults:  defaults,
		logger:    logger,
	}
}

type aggregateResponse struct {
	View    string                 `json:"view"`
	Start   string                 `json:"start"`
	End     string                 `json:"end"`
	Records int                    `json:"records"`
	Rows    []models.AggregatedRow `json:"rows"`
}

type figuresResponse struct {
	Map charts.Figure `json:"map"`
	Bar charts.Figure `json:"bar"`
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, h.logger, toAppError(err), observability.GetRequestID(r.Context()))
}

// HandleAggregate returns the aggregated table for view, start and end.
func (h *APIHandlers) HandleAggregate(w http.ResponseWriter, r *http.Request) {
	q, err := fromQuery(r).query(h.defaults)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	rows, n, err := h.analytics.Table(r.Context(), q.View, q.Range)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	errors.WriteSuccess(w, aggregateResponse{
		View:    q.View.Name,
		Start:   q.Range.Start.Format(time.DateOnly),
		End:     q.Range.End.Format(time.DateOnly),
		Records: n,
		Rows:    rows,
	})
}

// HandleFigures returns the map and bar figures for a full query.
func (h *APIHandlers) HandleFigures(w http.ResponseWriter, r *http.Request) {
	q, err := fromQuery(r).query(h.defaults)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.analytics.Compute(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	errors.WriteSuccess(w, figuresResponse{Map: res.Map, Bar: res.Bar})
}

func (h *APIHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	q, err := fromQuery(r).query(h.defaults)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	rows, _, err := h.analytics.Table(r.Context(), q.View, q.Range)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(q.View, q.Range)+`"`)
	if err := export.WriteWorkbook(w, q.View, q.Range, rows); err != nil {
		// Headers are already out; all that is left is to log.
		h.logger.ErrorContext(r.Context(), "export workbook", "error", err,
			"request_id", observability.GetRequestID(r.Context()))
	}
}

// HandleReport renders a standalone HTML bar chart of the top geographies.
func (h *APIHandlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	q, err := fromQuery(r).query(h.defaults)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	rows, _, err := h.analytics.Table(r.Context(), q.View, q.Range)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := charts.RenderReport(w, q.View, q.Metric, q.Range, rows); err != nil {
		h.logger.ErrorContext(r.Context(), "render report", "error", err,
			"request_id", observability.GetRequestID(r.Context()))
	}
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.Stats(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	errors.WriteSuccess(w, stats)
}
