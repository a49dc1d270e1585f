package otelshim

import (
	opentracing "github.com/opentracing/opentracing-go"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/trace"
)

// UnderlyingSpan returns the OpenTelemetry span behind a shimmed
// opentracing.Span, for code that needs to step outside the OpenTracing
// surface. Passing a span that was not started by a TracerShim emits an
// event and returns nil.
func UnderlyingSpan(span opentracing.Span) trace.Span {
	shim, ok := span.(*SpanShim)
	if !ok {
		emitEvent(newEventUnsupportedSpan(span))
		return nil
	}
	return shim.Span()
}

// UnderlyingContext returns the OpenTelemetry span context and baggage held
// by a shimmed opentracing.SpanContext. The bool reports whether the context
// was produced by this package.
func UnderlyingContext(spanContext opentracing.SpanContext) (trace.SpanContext, baggage.Baggage, bool) {
	shim, ok := spanContext.(*SpanContextShim)
	if !ok {
		return trace.SpanContext{}, baggage.Baggage{}, false
	}
	return shim.Context(), shim.Baggage(), true
}

// InitGlobalTracer constructs a TracerShim and installs it as the
// OpenTracing global tracer, so existing instrumentation picks it up via
// opentracing.GlobalTracer(). It returns the shim for further use.
func InitGlobalTracer(opts ...Option) *TracerShim {
	tracer := NewTracer(opts...)
	opentracing.SetGlobalTracer(tracer)
	return tracer
}

// IsShimTracer reports whether the given tracer was produced by this
// package. A mismatch emits an EventUnsupportedTracer.
func IsShimTracer(tracer opentracing.Tracer) bool {
	if _, ok := tracer.(*TracerShim); !ok {
		emitEvent(newEventUnsupportedTracer(tracer))
		return false
	}
	return true
}
