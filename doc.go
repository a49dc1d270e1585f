// Package otelshim lets code instrumented with the OpenTracing Go API run
// unmodified on top of OpenTelemetry.
//
// The shim maps the legacy data model onto the modern one call by call: tags
// become typed attributes (the reserved "error" tag becomes a span status),
// log calls become structured events (error logs become exception events
// with semantic-convention keys), per-span baggage mutation is layered over
// OpenTelemetry's immutable Baggage with copy-on-write derivation, and trace
// and span identifiers render in their canonical lowercase hex forms.
//
// Typical usage:
//
//	tracer := otelshim.NewTracer(otelshim.WithTracerProvider(provider))
//	opentracing.SetGlobalTracer(tracer)
//
// Span creation, sampling and export stay entirely with the configured
// OpenTelemetry SDK; wire propagation delegates to OpenTelemetry
// propagators.
package otelshim
