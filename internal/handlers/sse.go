package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/starfederation/datastar-go/datastar"

	"sakila-dashboard/internal/observability"
	"sakila-dashboard/internal/services"
	"sakila-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	analytics *services.Analytics
	defaults  Defaults
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, defaults Defaults, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		defaults:  defaults,
		logger:    logger,
	}
}

// HandleFigures is the dashboard's only callback. It reads the control
// signals, reruns the pipeline and patches both figures and the summary line.
// A failed recomputation patches an error summary and leaves the previous
// figures on screen.
func (h *SSEHandlers) HandleFigures(w http.ResponseWriter, r *http.Request) {
	var params queryParams
	readErr := datastar.ReadSignals(r, &params)

	sse := datastar.NewSSE(w, r)
	ctx := r.Context()

	if readErr != nil {
		h.patchFailure(ctx, sse, &validationError{cause: readErr})
		return
	}

	q, err := params.query(h.defaults)
	if err != nil {
		h.patchFailure(ctx, sse, err)
		return
	}

	res, err := h.analytics.Compute(ctx, q)
	if err != nil {
		h.patchFailure(ctx, sse, err)
		return
	}

	// Signal patches merge, so clear the old figures first or a World layout
	// would leak its projection into the next USA map.
	if err := sse.PatchSignals([]byte(`{"_mapFigure":null,"_barFigure":null}`)); err != nil {
		h.logger.DebugContext(ctx, "clear figure signals", "error", err)
		return
	}

	signals, err := json.Marshal(map[string]any{
		"_mapFigure": res.Map,
		"_barFigure": res.Bar,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "marshal figure signals", "error", err)
		return
	}
	if err := sse.PatchSignals(signals); err != nil {
		h.logger.DebugContext(ctx, "patch signals", "error", err)
		return
	}

	summary := fmt.Sprintf("%d %s across %d %s between %s and %s",
		res.Records, plural("rental", res.Records), len(res.Rows), plural(q.View.KeyColumn, len(res.Rows)),
		q.Range.Start.Format(time.DateOnly), q.Range.End.Format(time.DateOnly))
	h.patchSummary(ctx, sse, summary, false)
}

func (h *SSEHandlers) patchFailure(ctx context.Context, sse *datastar.ServerSentEventGenerator, err error) {
	appErr := toAppError(err)
	h.logger.WarnContext(ctx, "recomputation failed",
		"error", err,
		"code", appErr.Code,
		"request_id", observability.GetRequestID(ctx),
	)
	h.patchSummary(ctx, sse, appErr.Message, true)
}

func (h *SSEHandlers) patchSummary(ctx context.Context, sse *datastar.ServerSentEventGenerator, text string, failed bool) {
	var buf strings.Builder
	if err := templates.Summary(text, failed).Render(ctx, &buf); err != nil {
		h.logger.ErrorContext(ctx, "render summary", "error", err)
		return
	}
	if err := sse.PatchElements(buf.String()); err != nil {
		h.logger.DebugContext(ctx, "patch summary", "error", err)
	}
}

func plural(noun string, n int) string {
	if n == 1 {
		return noun
	}
	if strings.HasSuffix(noun, "y") {
		return strings.TrimSuffix(noun, "y") + "ies"
	}
	return noun + "s"
}
