package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// GlobalTracer stays a no-op until an SDK tracer provider is installed with otel.SetTracerProvider.
var GlobalTracer = otel.Tracer("training-app")

// EndSpanWithErrCheck records err on span, if any, and ends it.
func EndSpanWithErrCheck(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	}
	span.End()
}
