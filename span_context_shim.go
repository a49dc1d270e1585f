package otelshim

import (
	opentracing "github.com/opentracing/opentracing-go"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/trace"
)

// SpanContextShim presents an OpenTelemetry span context plus its associated
// Baggage through the opentracing.SpanContext interface.
//
// The held Baggage is immutable: a shim never changes it in place, and every
// logical mutation derives a fresh shim wrapping a fresh Baggage value, so
// other holders of the previous value observe nothing.
type SpanContextShim struct {
	context trace.SpanContext
	baggage baggage.Baggage
}

var _ opentracing.SpanContext = &SpanContextShim{}

// NewSpanContextShim wraps an OpenTelemetry span context and Baggage.
func NewSpanContextShim(context trace.SpanContext, baggage baggage.Baggage) *SpanContextShim {
	return &SpanContextShim{context: context, baggage: baggage}
}

// Context returns the underlying OpenTelemetry span context.
func (c *SpanContextShim) Context() trace.SpanContext {
	return c.context
}

// Baggage returns the underlying OpenTelemetry Baggage snapshot.
func (c *SpanContextShim) Baggage() baggage.Baggage {
	return c.baggage
}

// WithBaggageItem returns a new SpanContextShim whose Baggage equals the
// current one plus the given key/value pair, wrapping the same span context.
// A pair the Baggage type rejects leaves the shim as-is and reports the
// rejection through the global event handler; OpenTracing callers never see
// an error.
func (c *SpanContextShim) WithBaggageItem(key, value string) *SpanContextShim {
	member, err := baggage.NewMemberRaw(key, value)
	if err != nil {
		emitEvent(newEventInvalidBaggage(key, value, err))
		return c
	}
	bag, err := c.baggage.SetMember(member)
	if err != nil {
		emitEvent(newEventInvalidBaggage(key, value, err))
		return c
	}
	return NewSpanContextShim(c.context, bag)
}

// BaggageItem looks up a single baggage entry. The second return value is
// false when the key is absent.
func (c *SpanContextShim) BaggageItem(key string) (string, bool) {
	member := c.baggage.Member(key)
	if member.Key() == "" {
		return "", false
	}
	return member.Value(), true
}

// ForeachBaggageItem belongs to the opentracing.SpanContext interface. The
// iteration order is not part of the contract. Returning false from the
// handler stops iteration.
func (c *SpanContextShim) ForeachBaggageItem(handler func(k, v string) bool) {
	for _, member := range c.baggage.Members() {
		if !handler(member.Key(), member.Value()) {
			break
		}
	}
}

// ToTraceID renders the trace identifier in its canonical lowercase hex form.
func (c *SpanContextShim) ToTraceID() string {
	return c.context.TraceID().String()
}

// ToSpanID renders the span identifier in its canonical lowercase hex form.
func (c *SpanContextShim) ToSpanID() string {
	return c.context.SpanID().String()
}

// Clone returns an independent shim sharing the same immutable Baggage and
// span context. Cheap by construction.
func (c *SpanContextShim) Clone() *SpanContextShim {
	return NewSpanContextShim(c.context, c.baggage)
}
