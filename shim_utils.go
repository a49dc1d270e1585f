package otelshim

import (
	"fmt"
	"math"

	"github.com/opentracing/opentracing-go/log"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Reserved OpenTracing literals. Every key comparison the shim performs goes
// through these constants so the mapping table lives in exactly one place.
const (
	errorTagKey   = "error"
	eventFieldKey = "event"

	errorKindFieldKey = "error.kind"
	messageFieldKey   = "message"
	stackFieldKey     = "stack"

	defaultEventName   = "log"
	exceptionEventName = "exception"
)

// attributeFromValue converts a dynamically-typed OpenTracing tag value into
// an OpenTelemetry attribute. Every value produces some attribute: shapes the
// attribute model cannot represent degrade to their string form.
func attributeFromValue(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int8:
		return attribute.Int64(key, int64(v))
	case int16:
		return attribute.Int64(key, int64(v))
	case int32:
		return attribute.Int64(key, int64(v))
	case int64:
		return attribute.Int64(key, v)
	case uint:
		return attribute.Int64(key, int64(v))
	case uint8:
		return attribute.Int64(key, int64(v))
	case uint16:
		return attribute.Int64(key, int64(v))
	case uint32:
		return attribute.Int64(key, int64(v))
	case uint64:
		// No unsigned attribute variant exists; values that would wrap
		// negative keep their decimal form instead.
		if v > math.MaxInt64 {
			return attribute.String(key, fmt.Sprint(v))
		}
		return attribute.Int64(key, int64(v))
	case float32:
		return attribute.Float64(key, float64(v))
	case float64:
		return attribute.Float64(key, v)
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}

// stringFromValue renders a tag value as a plain string for the comparisons
// the shim has to make (the "error" tag classification). It never fails.
func stringFromValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(v)
	}
}

// fieldEncoder accumulates OpenTracing log fields as OpenTelemetry event
// attributes. It covers the full closed set of field types the OpenTracing
// log package can emit, so a new field type fails to compile rather than
// silently dropping data.
type fieldEncoder struct {
	attrs []attribute.KeyValue
}

var _ log.Encoder = &fieldEncoder{}

func (e *fieldEncoder) EmitString(key, value string) {
	e.attrs = append(e.attrs, attribute.String(key, value))
}

func (e *fieldEncoder) EmitBool(key string, value bool) {
	e.attrs = append(e.attrs, attribute.Bool(key, value))
}

func (e *fieldEncoder) EmitInt(key string, value int) {
	e.attrs = append(e.attrs, attribute.Int(key, value))
}

func (e *fieldEncoder) EmitInt32(key string, value int32) {
	e.attrs = append(e.attrs, attribute.Int64(key, int64(value)))
}

func (e *fieldEncoder) EmitInt64(key string, value int64) {
	e.attrs = append(e.attrs, attribute.Int64(key, value))
}

func (e *fieldEncoder) EmitUint32(key string, value uint32) {
	e.attrs = append(e.attrs, attribute.Int64(key, int64(value)))
}

func (e *fieldEncoder) EmitUint64(key string, value uint64) {
	e.attrs = append(e.attrs, attributeFromValue(key, value))
}

func (e *fieldEncoder) EmitFloat32(key string, value float32) {
	e.attrs = append(e.attrs, attribute.Float64(key, float64(value)))
}

func (e *fieldEncoder) EmitFloat64(key string, value float64) {
	e.attrs = append(e.attrs, attribute.Float64(key, value))
}

func (e *fieldEncoder) EmitObject(key string, value interface{}) {
	e.attrs = append(e.attrs, attribute.String(key, fmt.Sprint(value)))
}

func (e *fieldEncoder) EmitLazyLogger(value log.LazyLogger) {
	// Lazy fields expand into further fields against the same encoder.
	value(e)
}

// renameExceptionKey maps the reserved OpenTracing error log keys onto the
// OpenTelemetry exception semantic conventions. Applied only to events
// classified as exceptions; any other key passes through untouched.
func renameExceptionKey(key attribute.Key) attribute.Key {
	switch string(key) {
	case errorKindFieldKey:
		return semconv.ExceptionTypeKey
	case messageFieldKey:
		return semconv.ExceptionMessageKey
	case stackFieldKey:
		return semconv.ExceptionStacktraceKey
	}
	return key
}
