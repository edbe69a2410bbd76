// Package tracing provides OpenTelemetry tracing for HTTP requests.
// It exposes the application tracer and middleware that creates a server
// span per request and propagates W3C trace context.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer instance for the bookrec application.
var tracer = otel.Tracer("bookrec")

// GetTracer returns the global tracer for creating spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "index.build")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}
