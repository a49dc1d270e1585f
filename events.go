package otelshim

import (
	"fmt"
	"reflect"

	opentracing "github.com/opentracing/opentracing-go"
)

// Events are emitted by the shim when an OpenTracing call degrades silently
// instead of failing. They are handled by registering a handler via
// SetGlobalEventHandler. Events may be cast to specific event types in order
// to access additional information.
//
// NOTE: To ensure that events can be accurately identified, each event type
// contains a sentinel method matching the name of the type. This method is a
// no-op, it is only used for type coercion.
type Event interface {
	Event()
	String() string
}

// The ErrorEvent type can be used to filter events for errors. The `Err`
// method returns the underlying error.
type ErrorEvent interface {
	Event
	error
	Err() error
}

// EventInvalidBaggage occurs when a baggage key/value pair is rejected by
// the OpenTelemetry Baggage implementation. The entry is dropped and the
// span's baggage is left unchanged.
type EventInvalidBaggage interface {
	ErrorEvent
	EventInvalidBaggage()
	Key() string
	Value() string
}

type eventInvalidBaggage struct {
	key   string
	value string
	err   error
}

func newEventInvalidBaggage(key, value string, err error) *eventInvalidBaggage {
	return &eventInvalidBaggage{key: key, value: value, err: err}
}

func (*eventInvalidBaggage) Event()               {}
func (*eventInvalidBaggage) EventInvalidBaggage() {}

func (e *eventInvalidBaggage) Key() string {
	return e.key
}

func (e *eventInvalidBaggage) Value() string {
	return e.value
}

func (e *eventInvalidBaggage) String() string {
	return fmt.Sprintf("baggage entry %q dropped: %s", e.key, e.err.Error())
}

func (e *eventInvalidBaggage) Error() string {
	return e.String()
}

func (e *eventInvalidBaggage) Err() error {
	return e.err
}

// EventUnsupportedTracer occurs when a tracer passed to a helper function
// fails to typecast as a TracerShim-produced instance.
type EventUnsupportedTracer interface {
	ErrorEvent
	EventUnsupportedTracer()
	UnsupportedTracer() opentracing.Tracer
}

type eventUnsupportedTracer struct {
	unsupportedTracer opentracing.Tracer
	err               error
}

func newEventUnsupportedTracer(tracer opentracing.Tracer) *eventUnsupportedTracer {
	return &eventUnsupportedTracer{
		unsupportedTracer: tracer,
		err:               fmt.Errorf("unsupported tracer type: %v", reflect.TypeOf(tracer)),
	}
}

func (*eventUnsupportedTracer) Event()                  {}
func (*eventUnsupportedTracer) EventUnsupportedTracer() {}

func (e *eventUnsupportedTracer) UnsupportedTracer() opentracing.Tracer {
	return e.unsupportedTracer
}

func (e *eventUnsupportedTracer) String() string {
	return e.err.Error()
}

func (e *eventUnsupportedTracer) Error() string {
	return e.err.Error()
}

func (e *eventUnsupportedTracer) Err() error {
	return e.err
}

// EventUnsupportedSpan occurs when a span passed to a helper function was
// not started by a TracerShim.
type EventUnsupportedSpan interface {
	ErrorEvent
	EventUnsupportedSpan()
	UnsupportedSpan() opentracing.Span
}

type eventUnsupportedSpan struct {
	unsupportedSpan opentracing.Span
	err             error
}

func newEventUnsupportedSpan(span opentracing.Span) *eventUnsupportedSpan {
	return &eventUnsupportedSpan{
		unsupportedSpan: span,
		err:             fmt.Errorf("unsupported span type: %v", reflect.TypeOf(span)),
	}
}

func (*eventUnsupportedSpan) Event()                {}
func (*eventUnsupportedSpan) EventUnsupportedSpan() {}

func (e *eventUnsupportedSpan) UnsupportedSpan() opentracing.Span {
	return e.unsupportedSpan
}

func (e *eventUnsupportedSpan) String() string {
	return e.err.Error()
}

func (e *eventUnsupportedSpan) Error() string {
	return e.err.Error()
}

func (e *eventUnsupportedSpan) Err() error {
	return e.err
}
