package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"sakila-dashboard/internal/config"
)

func TestNewLoggerWithWriter(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"json", `"msg":"hello"`},
		{"text", "msg=hello"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLoggerWithWriter(config.LoggerConfig{Level: "info", Format: tt.format}, &buf)
			logger.Info("hello")
			logger.Debug("hidden")

			out := buf.String()
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q should contain %q", out, tt.want)
			}
			if strings.Contains(out, "hidden") {
				t.Error("debug message should be filtered at info level")
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	if parseLogLevel("warning").String() != "WARN" {
		t.Error("warning should map to WARN")
	}
	if parseLogLevel("bogus").String() != "INFO" {
		t.Error("unknown level should default to INFO")
	}
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	if got := GetRequestID(ctx); got != "abc" {
		t.Errorf("GetRequestID() = %q, want abc", got)
	}
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID() on empty context = %q", got)
	}
}

func TestSpans(t *testing.T) {
	ctx, parent := StartSpan(context.Background(), "pipeline")
	_, child := StartSpan(ctx, "load")

	if child.TraceID != parent.TraceID {
		t.Error("child span should inherit the trace id")
	}
	if child.ParentID != parent.SpanID {
		t.Error("child span should point at its parent")
	}

	child.SetError(errors.New("boom"))
	if child.Status != SpanStatusError || child.Error != "boom" {
		t.Errorf("SetError() left status %q error %q", child.Status, child.Error)
	}

	var buf bytes.Buffer
	logger := NewLoggerWithWriter(config.LoggerConfig{Level: "debug", Format: "json"}, &buf)
	child.End(ctx, logger)
	if child.Duration == nil {
		t.Fatal("End() should set the duration")
	}
	if !strings.Contains(buf.String(), `"operation":"load"`) {
		t.Errorf("End() should log the operation, got %q", buf.String())
	}
}
