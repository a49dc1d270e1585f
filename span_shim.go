package otelshim

import (
	"sync"
	"time"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanShim wraps one OpenTelemetry span behind the opentracing.Span
// interface, translating every call on the fly.
//
// A SpanShim may be shared across goroutines. The only mutable state is the
// current SpanContextShim, guarded by its own mutex; the lock is held just
// long enough to read or swap the context reference, never across other span
// operations.
type SpanShim struct {
	tracer opentracing.Tracer
	span   trace.Span

	mu      sync.Mutex
	context *SpanContextShim
}

var _ opentracing.Span = &SpanShim{}

// NewSpanShim wraps an OpenTelemetry span and its initial Baggage-bearing
// context shim. The tracer is whatever the shim should report from Tracer().
func NewSpanShim(tracer opentracing.Tracer, span trace.Span, context *SpanContextShim) *SpanShim {
	return &SpanShim{tracer: tracer, span: span, context: context}
}

// Span returns the underlying OpenTelemetry span.
func (s *SpanShim) Span() trace.Span {
	return s.span
}

// Context returns the current span context shim. The returned value is
// immutable and safe to retain.
func (s *SpanShim) Context() opentracing.SpanContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.context
}

// Tracer belongs to the opentracing.Span interface.
func (s *SpanShim) Tracer() opentracing.Tracer {
	return s.tracer
}

// SetOperationName renames the underlying span.
func (s *SpanShim) SetOperationName(operationName string) opentracing.Span {
	s.span.SetName(operationName)
	return s
}

// SetTag sets a tag as a typed attribute on the underlying span. The
// reserved "error" tag is mapped to the span status instead: "true" means
// Error, "false" means Ok, anything else leaves the status Unset.
func (s *SpanShim) SetTag(key string, value interface{}) opentracing.Span {
	if key == errorTagKey {
		s.handleError(value)
	} else {
		s.span.SetAttributes(attributeFromValue(key, value))
	}
	return s
}

func (s *SpanShim) handleError(value interface{}) {
	code := codes.Unset
	switch stringFromValue(value) {
	case "true":
		code = codes.Error
	case "false":
		code = codes.Ok
	}
	s.span.SetStatus(code, "")
}

// Finish ends the span at the SDK's notion of now.
func (s *SpanShim) Finish() {
	s.FinishWithOptions(opentracing.FinishOptions{})
}

// FinishWithOptions replays any bulk log records carried in the options and
// then ends the span, at the explicit finish time when one is given.
// Operations on an already finished span are best-effort no-ops, per the
// underlying SDK.
func (s *SpanShim) FinishWithOptions(opts opentracing.FinishOptions) {
	for _, record := range opts.LogRecords {
		s.logFields(record.Timestamp, record.Fields...)
	}
	for _, data := range opts.BulkLogData {
		record := data.ToLogRecord()
		s.logFields(record.Timestamp, record.Fields...)
	}
	if opts.FinishTime.IsZero() {
		s.span.End()
	} else {
		s.span.End(trace.WithTimestamp(opts.FinishTime))
	}
}

// SetBaggageItem derives a new span context shim holding the extra baggage
// entry and swaps it in under the per-span lock, so concurrent writers never
// lose updates.
func (s *SpanShim) SetBaggageItem(restrictedKey, value string) opentracing.Span {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context = s.context.WithBaggageItem(restrictedKey, value)
	return s
}

// BaggageItem returns the value for the given baggage key, or the empty
// string when no such entry exists.
func (s *SpanShim) BaggageItem(restrictedKey string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, _ := s.context.BaggageItem(restrictedKey)
	return value
}

// LogFields records a structured event at the SDK's notion of now.
func (s *SpanShim) LogFields(fields ...log.Field) {
	s.logFields(time.Time{}, fields...)
}

// LogFieldsAt records a structured event at an explicit timestamp.
func (s *SpanShim) LogFieldsAt(timestamp time.Time, fields ...log.Field) {
	s.logFields(timestamp, fields...)
}

// LogKV records alternating key/value pairs as a structured event.
func (s *SpanShim) LogKV(alternatingKeyValues ...interface{}) {
	fields, err := log.InterleavedKVToFields(alternatingKeyValues...)
	if err != nil {
		// Malformed pair lists are dropped, matching the convention that
		// tracing never disrupts the instrumented code.
		return
	}
	s.logFields(time.Time{}, fields...)
}

// LogEvent belongs to the deprecated opentracing.Span surface.
func (s *SpanShim) LogEvent(event string) {
	s.Log(opentracing.LogData{Event: event})
}

// LogEventWithPayload belongs to the deprecated opentracing.Span surface.
func (s *SpanShim) LogEventWithPayload(event string, payload interface{}) {
	s.Log(opentracing.LogData{Event: event, Payload: payload})
}

// Log belongs to the deprecated opentracing.Span surface.
func (s *SpanShim) Log(data opentracing.LogData) {
	fields := []log.Field{log.String(eventFieldKey, data.Event)}
	if data.Payload != nil {
		fields = append(fields, log.Object("payload", data.Payload))
	}
	s.logFields(data.Timestamp, fields...)
}

// logFields is the single event translation path for every Log call shape.
// A zero timestamp means "no explicit timestamp was supplied": the event is
// then appended with the SDK's own current-time variant rather than a
// converted instant.
func (s *SpanShim) logFields(timestamp time.Time, fields ...log.Field) {
	name := defaultEventName
	for _, field := range fields {
		if field.Key() == eventFieldKey {
			name = stringFromValue(field.Value())
			break
		}
	}

	isError := name == errorTagKey
	if isError {
		name = exceptionEventName
	}

	encoder := &fieldEncoder{attrs: make([]attribute.KeyValue, 0, len(fields))}
	for _, field := range fields {
		field.Marshal(encoder)
	}
	attrs := encoder.attrs
	if isError {
		for i := range attrs {
			attrs[i].Key = renameExceptionKey(attrs[i].Key)
		}
	}

	if timestamp.IsZero() {
		s.span.AddEvent(name, trace.WithAttributes(attrs...))
	} else {
		s.span.AddEvent(name, trace.WithTimestamp(timestamp), trace.WithAttributes(attrs...))
	}
}
