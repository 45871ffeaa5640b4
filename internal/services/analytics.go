package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sakila-dashboard/internal/charts"
	"sakila-dashboard/internal/geo"
	"sakila-dashboard/internal/metrics"
	"sakila-dashboard/internal/models"
	"sakila-dashboard/internal/observability"
)

// Query is one dashboard interaction: a view, a metric and a rental date range.
type Query struct {
	View   geo.View
	Metric models.Metric
	Range  models.DateRange
}

// Result is everything the dashboard publishes for a Query.
type Result struct {
	Rows    []models.AggregatedRow `json:"rows"`
	Map     charts.Figure          `json:"map"`
	Bar     charts.Figure          `json:"bar"`
	Records int                    `json:"records"`
}

// Analytics runs the load, normalize, aggregate and chart pipeline. It keeps
// no state between calls; every call re-reads the dataset.
type Analytics struct {
	loader *Loader
	logger *slog.Logger
}

func NewAnalytics(loader *Loader, logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{
		loader: loader,
		logger: logger,
	}
}

// Table loads the records for view and r and aggregates them.
func (a *Analytics) Table(ctx context.Context, view geo.View, r models.DateRange) ([]models.AggregatedRow, int, error) {
	loadCtx, span := observability.StartSpan(ctx, "load")
	records, err := a.loader.Load(loadCtx, r)
	if err != nil {
		span.SetError(err)
		span.End(loadCtx, a.logger)
		metrics.PipelineErrors.WithLabelValues("load").Inc()
		return nil, 0, fmt.Errorf("load records: %w", err)
	}
	span.SetTag("records", fmt.Sprint(len(records)))
	span.End(loadCtx, a.logger)
	metrics.RecordsLoaded.Observe(float64(len(records)))

	aggCtx, span := observability.StartSpan(ctx, "aggregate")
	keyed := geo.Normalize(records, view, a.logger)
	rows := Aggregate(keyed)
	span.SetTag("view", view.Name)
	span.SetTag("geographies", fmt.Sprint(len(rows)))
	span.End(aggCtx, a.logger)

	return rows, len(keyed), nil
}

// Compute runs the whole pipeline for q.
func (a *Analytics) Compute(ctx context.Context, q Query) (*Result, error) {
	start := time.Now()

	if err := q.Metric.Validate(); err != nil {
		metrics.PipelineErrors.WithLabelValues("validate").Inc()
		return nil, err
	}

	rows, n, err := a.Table(ctx, q.View, q.Range)
	if err != nil {
		return nil, err
	}

	mapFig, err := charts.BuildMap(q.View, q.Metric, rows)
	if err != nil {
		metrics.PipelineErrors.WithLabelValues("chart").Inc()
		return nil, fmt.Errorf("build map: %w", err)
	}
	barFig, err := charts.BuildBar(q.View, q.Metric, rows)
	if err != nil {
		metrics.PipelineErrors.WithLabelValues("chart").Inc()
		return nil, fmt.Errorf("build bar: %w", err)
	}

	duration := time.Since(start)
	metrics.PipelineDuration.WithLabelValues(q.View.Name).Observe(duration.Seconds())
	a.logger.InfoContext(ctx, "dashboard recomputed",
		"view", q.View.Name,
		"metric", q.Metric,
		"range", q.Range.String(),
		"records", n,
		"geographies", len(rows),
		"duration", duration,
		"request_id", observability.GetRequestID(ctx),
	)

	return &Result{
		Rows:    rows,
		Map:     mapFig,
		Bar:     barFig,
		Records: n,
	}, nil
}

// Stats reports the dataset location and span for monitoring.
func (a *Analytics) Stats(ctx context.Context) (map[string]any, error) {
	span, err := a.loader.Span(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"dataset":           a.loader.Path(),
		"record_count":      span.Records,
		"first_rental_date": span.FirstDate.Format(time.DateOnly),
		"last_rental_date":  span.LastDate.Format(time.DateOnly),
		"views":             len(geo.Views),
		"metrics":           len(models.Metrics),
	}, nil
}
