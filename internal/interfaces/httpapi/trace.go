package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/riskibarqy/lastmatch-logger/internal/platform/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("lastmatch-logger/internal/interfaces/httpapi")
var noopSpan = trace.SpanFromContext(context.Background())

// startSpan opens a child span for handler entry points only. Middleware and
// response helpers share the request span; untraced requests (health checks,
// preflight) get none.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() || !shouldCreateHTTPAPISpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("lastmatch.handler", strings.TrimPrefix(name, handlerSpanPrefix)),
		attribute.String("lastmatch.request_id", logging.RequestIDFromContext(ctx)),
	))
}

func shouldCreateHTTPAPISpan(name string) bool {
	handler, ok := strings.CutPrefix(name, handlerSpanPrefix)
	return ok && handler != ""
}

// markSpanFailure flags the active span when the response is a server-side failure.
func markSpanFailure(ctx context.Context, status int, message string) {
	if status < http.StatusInternalServerError {
		return
	}
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		span.SetStatus(codes.Error, message)
	}
}
