package otelshim_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/trace"

	otelshim "github.com/opentracing-contrib/otelshim"
)

var _ = Describe("SpanContextShim", func() {
	const (
		traceIDHex = "0af7651916cd43dd8448eb211c80319c"
		spanIDHex  = "b7ad6b7169203331"
	)

	var subject *otelshim.SpanContextShim

	newBaggage := func(pairs map[string]string) baggage.Baggage {
		members := make([]baggage.Member, 0, len(pairs))
		for k, v := range pairs {
			member, err := baggage.NewMemberRaw(k, v)
			Expect(err).NotTo(HaveOccurred())
			members = append(members, member)
		}
		bag, err := baggage.New(members...)
		Expect(err).NotTo(HaveOccurred())
		return bag
	}

	BeforeEach(func() {
		traceID, err := trace.TraceIDFromHex(traceIDHex)
		Expect(err).NotTo(HaveOccurred())
		spanID, err := trace.SpanIDFromHex(spanIDHex)
		Expect(err).NotTo(HaveOccurred())

		spanContext := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: traceID,
			SpanID:  spanID,
		})
		subject = otelshim.NewSpanContextShim(spanContext, newBaggage(map[string]string{
			"country": "mx",
		}))
	})

	Describe("identifier rendering", func() {
		It("renders the trace id as 32 lowercase hex characters", func() {
			Expect(subject.ToTraceID()).To(Equal(traceIDHex))
			Expect(subject.ToTraceID()).To(HaveLen(32))
		})

		It("renders the span id as 16 lowercase hex characters", func() {
			Expect(subject.ToSpanID()).To(Equal(spanIDHex))
			Expect(subject.ToSpanID()).To(HaveLen(16))
		})

		It("is deterministic", func() {
			Expect(subject.ToTraceID()).To(Equal(subject.ToTraceID()))
			Expect(subject.ToSpanID()).To(Equal(subject.ToSpanID()))
		})
	})

	Describe("WithBaggageItem", func() {
		It("adds the entry to the derived shim", func() {
			derived := subject.WithBaggageItem("language", "es")

			value, ok := derived.BaggageItem("language")
			Expect(ok).To(BeTrue())
			Expect(value).To(Equal("es"))
		})

		It("keeps the span context snapshot", func() {
			derived := subject.WithBaggageItem("language", "es")
			Expect(derived.ToTraceID()).To(Equal(subject.ToTraceID()))
			Expect(derived.ToSpanID()).To(Equal(subject.ToSpanID()))
		})

		It("never mutates ancestors", func() {
			first := subject.WithBaggageItem("one", "1")
			second := first.WithBaggageItem("two", "2")
			third := second.WithBaggageItem("one", "overwritten")

			_, ok := subject.BaggageItem("one")
			Expect(ok).To(BeFalse())

			value, ok := first.BaggageItem("one")
			Expect(ok).To(BeTrue())
			Expect(value).To(Equal("1"))
			_, ok = first.BaggageItem("two")
			Expect(ok).To(BeFalse())

			value, ok = second.BaggageItem("one")
			Expect(ok).To(BeTrue())
			Expect(value).To(Equal("1"))

			value, ok = third.BaggageItem("one")
			Expect(ok).To(BeTrue())
			Expect(value).To(Equal("overwritten"))
		})

		It("drops entries the baggage implementation rejects and reports an event", func() {
			handler, events := otelshim.NewEventChannel(1)
			otelshim.SetGlobalEventHandler(handler)
			defer otelshim.SetGlobalEventHandler(otelshim.NewLogOnceOnError())

			derived := subject.WithBaggageItem("bad key", "value")

			Expect(derived).To(BeIdenticalTo(subject))
			var event otelshim.Event
			Eventually(events).Should(Receive(&event))
			invalid, ok := event.(otelshim.EventInvalidBaggage)
			Expect(ok).To(BeTrue())
			Expect(invalid.Key()).To(Equal("bad key"))
		})
	})

	Describe("BaggageItem", func() {
		It("reports absence distinctly from empty values", func() {
			value, ok := subject.BaggageItem("never-set")
			Expect(ok).To(BeFalse())
			Expect(value).To(Equal(""))
		})
	})

	Describe("ForeachBaggageItem", func() {
		It("visits every entry", func() {
			shim := subject.WithBaggageItem("language", "es")

			visited := map[string]string{}
			shim.ForeachBaggageItem(func(k, v string) bool {
				visited[k] = v
				return true
			})

			Expect(visited).To(Equal(map[string]string{
				"country":  "mx",
				"language": "es",
			}))
		})

		It("stops early when the handler returns false", func() {
			shim := subject.WithBaggageItem("language", "es")

			count := 0
			shim.ForeachBaggageItem(func(k, v string) bool {
				count++
				return false
			})

			Expect(count).To(Equal(1))
		})
	})

	Describe("Clone", func() {
		It("shares the baggage snapshot and the span context", func() {
			clone := subject.Clone()

			Expect(clone).NotTo(BeIdenticalTo(subject))
			Expect(clone.ToTraceID()).To(Equal(subject.ToTraceID()))
			Expect(clone.ToSpanID()).To(Equal(subject.ToSpanID()))

			value, ok := clone.BaggageItem("country")
			Expect(ok).To(BeTrue())
			Expect(value).To(Equal("mx"))
		})
	})
})
