package otelshim

import (
	"errors"
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	"go.opentelemetry.io/otel/propagation"
)

// textMapWriterCarrier adapts an opentracing.TextMapWriter to the
// propagation.TextMapCarrier interface for injection.
type textMapWriterCarrier struct {
	writer opentracing.TextMapWriter
}

var _ propagation.TextMapCarrier = textMapWriterCarrier{}

func (c textMapWriterCarrier) Get(key string) string {
	// Not required for an OpenTracing writer.
	return ""
}

func (c textMapWriterCarrier) Set(key, value string) {
	c.writer.Set(key, value)
}

func (c textMapWriterCarrier) Keys() []string {
	return nil
}

// textMapReaderCarrier adapts an opentracing.TextMapReader to the
// propagation.TextMapCarrier interface for extraction. OpenTracing readers
// only expose iteration, so both Get and Keys walk the carrier.
type textMapReaderCarrier struct {
	reader opentracing.TextMapReader
}

var _ propagation.TextMapCarrier = textMapReaderCarrier{}

// errFoundKey is the non-error used to stop ForeachKey early once the wanted
// key turns up.
var errFoundKey = errors.New("found")

func (c textMapReaderCarrier) Get(key string) string {
	var value string
	// Keys are matched case-insensitively: HTTP header carriers surface
	// canonicalized names.
	_ = c.reader.ForeachKey(func(k, v string) error {
		if strings.EqualFold(k, key) {
			value = v
			return errFoundKey
		}
		return nil
	})
	return value
}

func (c textMapReaderCarrier) Set(key, value string) {
	// Not required for an OpenTracing reader.
}

func (c textMapReaderCarrier) Keys() []string {
	var keys []string
	_ = c.reader.ForeachKey(func(k, v string) error {
		keys = append(keys, k)
		return nil
	})
	return keys
}
