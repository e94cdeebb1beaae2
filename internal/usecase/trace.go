package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var pipelineTracer = otel.Tracer("lastmatch-logger/internal/usecase")
var pipelineNoopSpan = trace.SpanFromContext(context.Background())

// startPipelineSpan opens a child span for a pipeline run. Without a traced
// parent it returns ctx unchanged and a no-op span.
func startPipelineSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if name == "" || !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, pipelineNoopSpan
	}
	return pipelineTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endPipelineSpan records the outcome kind and ends span. Not-found and
// invalid-input outcomes are not span errors.
func endPipelineSpan(span trace.Span, result AggregationResult) {
	if span.IsRecording() {
		span.SetAttributes(attribute.String("lastmatch.result", result.Kind.String()))
		switch result.Kind {
		case ResultUpstreamFailure, ResultUnexpected, ResultConfigurationMissing:
			if result.Err != nil {
				span.RecordError(result.Err)
			}
			span.SetStatus(codes.Error, result.Kind.String())
		}
	}
	span.End()
}
