package otelshim

import (
	opentracing "github.com/opentracing/opentracing-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/opentracing-contrib/otelshim"

type tracerConfig struct {
	provider              trace.TracerProvider
	textMapPropagator     propagation.TextMapPropagator
	httpHeadersPropagator propagation.TextMapPropagator
}

// Option configures a TracerShim at construction time.
type Option func(*tracerConfig)

// WithTracerProvider sets the TracerProvider backing the shim. Defaults to
// the global provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *tracerConfig) {
		c.provider = provider
	}
}

// WithTextMapPropagator sets the propagator used for the opentracing.TextMap
// format. Defaults to the global OpenTelemetry propagator.
func WithTextMapPropagator(propagator propagation.TextMapPropagator) Option {
	return func(c *tracerConfig) {
		c.textMapPropagator = propagator
	}
}

// WithHTTPHeadersPropagator sets the propagator used for the
// opentracing.HTTPHeaders format. Defaults to the global OpenTelemetry
// propagator.
func WithHTTPHeadersPropagator(propagator propagation.TextMapPropagator) Option {
	return func(c *tracerConfig) {
		c.httpHeadersPropagator = propagator
	}
}

func defaultConfig() *tracerConfig {
	return &tracerConfig{
		provider: otel.GetTracerProvider(),
	}
}

func (c *tracerConfig) propagatorFor(format interface{}) propagation.TextMapPropagator {
	var propagator propagation.TextMapPropagator
	if format == opentracing.HTTPHeaders {
		propagator = c.httpHeadersPropagator
	} else {
		propagator = c.textMapPropagator
	}
	if propagator == nil {
		propagator = otel.GetTextMapPropagator()
	}
	return propagator
}
