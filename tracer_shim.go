package otelshim

import (
	"context"

	opentracing "github.com/opentracing/opentracing-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerShim exposes an OpenTelemetry tracer through the opentracing.Tracer
// interface. Spans it starts are SpanShims; contexts it extracts are
// SpanContextShims.
type TracerShim struct {
	tracer trace.Tracer
	config *tracerConfig
}

var _ opentracing.Tracer = &TracerShim{}

// NewTracer returns an opentracing.Tracer backed by an OpenTelemetry tracer
// obtained from the configured (or global) TracerProvider.
//
// Spans started without references begin with empty baggage; unlike span
// references, ambient Go context does not reach the OpenTracing StartSpan
// call.
func NewTracer(opts ...Option) *TracerShim {
	config := defaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	return &TracerShim{
		tracer: config.provider.Tracer(instrumentationName),
		config: config,
	}
}

// StartSpan belongs to the opentracing.Tracer interface.
func (t *TracerShim) StartSpan(operationName string, opts ...opentracing.StartSpanOption) opentracing.Span {
	var options opentracing.StartSpanOptions
	for _, opt := range opts {
		opt.Apply(&options)
	}

	startOpts := make([]trace.SpanStartOption, 0, 3)
	if !options.StartTime.IsZero() {
		startOpts = append(startOpts, trace.WithTimestamp(options.StartTime))
	}
	if links := makeReferenceLinks(options); len(links) > 0 {
		startOpts = append(startOpts, trace.WithLinks(links...))
	}
	if attrs := makeTags(options); len(attrs) > 0 {
		startOpts = append(startOpts, trace.WithAttributes(attrs...))
	}

	ctx := context.Background()
	if parent, ok := parentContext(options); ok {
		ctx = trace.ContextWithSpanContext(ctx, parent)
	}

	_, span := t.tracer.Start(ctx, operationName, startOpts...)

	shim := NewSpanShim(t, span, NewSpanContextShim(span.SpanContext(), makeBaggage(options)))

	// An "error" tag supplied at start time gets the same status mapping as
	// one set later through SetTag.
	if value, ok := options.Tags[errorTagKey]; ok {
		shim.handleError(value)
	}

	return shim
}

// parentContext picks the parent for a new span: the first child-of
// reference wrapping a shim context, or failing that the first shim
// reference of any type.
func parentContext(options opentracing.StartSpanOptions) (trace.SpanContext, bool) {
	var first trace.SpanContext
	var found bool
	for _, ref := range options.References {
		shim, ok := ref.ReferencedContext.(*SpanContextShim)
		if !ok {
			continue
		}
		if ref.Type == opentracing.ChildOfRef {
			return shim.Context(), true
		}
		if !found {
			first = shim.Context()
			found = true
		}
	}
	return first, found
}

// makeReferenceLinks turns every span reference into a link annotated with
// the originating OpenTracing reference type.
func makeReferenceLinks(options opentracing.StartSpanOptions) []trace.Link {
	links := make([]trace.Link, 0, len(options.References))
	for _, ref := range options.References {
		shim, ok := ref.ReferencedContext.(*SpanContextShim)
		if !ok {
			continue
		}
		var refType attribute.KeyValue
		switch ref.Type {
		case opentracing.ChildOfRef:
			refType = semconv.OpentracingRefTypeChildOf
		case opentracing.FollowsFromRef:
			refType = semconv.OpentracingRefTypeFollowsFrom
		default:
			continue
		}
		links = append(links, trace.Link{
			SpanContext: shim.Context(),
			Attributes:  []attribute.KeyValue{refType},
		})
	}
	return links
}

// makeBaggage builds the initial baggage of a new span as the union of the
// referenced contexts' baggage. On repeated keys the first reference wins.
func makeBaggage(options opentracing.StartSpanOptions) baggage.Baggage {
	var members []baggage.Member
	seen := make(map[string]struct{})
	for _, ref := range options.References {
		shim, ok := ref.ReferencedContext.(*SpanContextShim)
		if !ok {
			continue
		}
		shim.ForeachBaggageItem(func(k, v string) bool {
			if _, dup := seen[k]; dup {
				return true
			}
			if member, err := baggage.NewMemberRaw(k, v); err == nil {
				seen[k] = struct{}{}
				members = append(members, member)
			}
			return true
		})
	}
	bag, _ := baggage.New(members...)
	return bag
}

// makeTags coerces the initial tag set into span attributes, the "error" tag
// included; its status mapping is applied separately after span creation.
func makeTags(options opentracing.StartSpanOptions) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(options.Tags))
	for key, value := range options.Tags {
		attrs = append(attrs, attributeFromValue(key, value))
	}
	return attrs
}

// Inject belongs to the opentracing.Tracer interface. TextMap and
// HTTPHeaders formats delegate to the configured OpenTelemetry propagators;
// other formats are unsupported. Non-empty baggage is injected even when the
// span context itself is invalid.
func (t *TracerShim) Inject(spanContext opentracing.SpanContext, format interface{}, carrier interface{}) error {
	shim, ok := spanContext.(*SpanContextShim)
	if !ok {
		return opentracing.ErrInvalidSpanContext
	}

	switch format {
	case opentracing.TextMap, opentracing.HTTPHeaders:
	default:
		return opentracing.ErrUnsupportedFormat
	}

	writer, ok := carrier.(opentracing.TextMapWriter)
	if !ok {
		return opentracing.ErrInvalidCarrier
	}

	ctx := trace.ContextWithSpanContext(context.Background(), shim.Context())
	ctx = baggage.ContextWithBaggage(ctx, shim.Baggage())
	t.config.propagatorFor(format).Inject(ctx, textMapWriterCarrier{writer})
	return nil
}

// Extract belongs to the opentracing.Tracer interface. It returns
// ErrSpanContextNotFound when the carrier yields neither a valid span
// context nor any baggage.
func (t *TracerShim) Extract(format interface{}, carrier interface{}) (opentracing.SpanContext, error) {
	switch format {
	case opentracing.TextMap, opentracing.HTTPHeaders:
	default:
		return nil, opentracing.ErrUnsupportedFormat
	}

	reader, ok := carrier.(opentracing.TextMapReader)
	if !ok {
		return nil, opentracing.ErrInvalidCarrier
	}

	ctx := t.config.propagatorFor(format).Extract(context.Background(), textMapReaderCarrier{reader})
	spanContext := trace.SpanContextFromContext(ctx)
	bag := baggage.FromContext(ctx)

	if !spanContext.IsValid() && bag.Len() == 0 {
		return nil, opentracing.ErrSpanContextNotFound
	}
	return NewSpanContextShim(spanContext, bag), nil
}
