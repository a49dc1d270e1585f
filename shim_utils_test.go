package otelshim

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/opentracing/opentracing-go/log"
	"go.opentelemetry.io/otel/attribute"
)

var _ = Describe("Value coercion", func() {
	Describe("attributeFromValue", func() {
		It("maps strings to string attributes", func() {
			Expect(attributeFromValue("k", "hello")).To(Equal(attribute.String("k", "hello")))
		})

		It("maps bools to bool attributes", func() {
			Expect(attributeFromValue("k", true)).To(Equal(attribute.Bool("k", true)))
		})

		It("maps every integer width to int64 attributes", func() {
			Expect(attributeFromValue("k", 42)).To(Equal(attribute.Int("k", 42)))
			Expect(attributeFromValue("k", int8(-1))).To(Equal(attribute.Int64("k", -1)))
			Expect(attributeFromValue("k", int16(-2))).To(Equal(attribute.Int64("k", -2)))
			Expect(attributeFromValue("k", int32(-3))).To(Equal(attribute.Int64("k", -3)))
			Expect(attributeFromValue("k", int64(-4))).To(Equal(attribute.Int64("k", -4)))
			Expect(attributeFromValue("k", uint(5))).To(Equal(attribute.Int64("k", 5)))
			Expect(attributeFromValue("k", uint8(6))).To(Equal(attribute.Int64("k", 6)))
			Expect(attributeFromValue("k", uint16(7))).To(Equal(attribute.Int64("k", 7)))
			Expect(attributeFromValue("k", uint32(8))).To(Equal(attribute.Int64("k", 8)))
			Expect(attributeFromValue("k", uint64(9))).To(Equal(attribute.Int64("k", 9)))
		})

		It("degrades uint64 values beyond int64 range to their decimal string", func() {
			Expect(attributeFromValue("k", uint64(math.MaxUint64))).
				To(Equal(attribute.String("k", "18446744073709551615")))
		})

		It("maps floats to float64 attributes", func() {
			Expect(attributeFromValue("k", float32(1.5))).To(Equal(attribute.Float64("k", 1.5)))
			Expect(attributeFromValue("k", 2.25)).To(Equal(attribute.Float64("k", 2.25)))
		})

		It("degrades any other shape to its string form", func() {
			Expect(attributeFromValue("k", errors.New("boom"))).To(Equal(attribute.String("k", "boom")))
			Expect(attributeFromValue("k", []int{1, 2})).To(Equal(attribute.String("k", "[1 2]")))
		})
	})

	Describe("stringFromValue", func() {
		It("returns strings unchanged", func() {
			Expect(stringFromValue("x")).To(Equal("x"))
		})

		It("renders bools as the true/false literals", func() {
			Expect(stringFromValue(true)).To(Equal("true"))
			Expect(stringFromValue(false)).To(Equal("false"))
		})

		It("renders nil as the empty string", func() {
			Expect(stringFromValue(nil)).To(Equal(""))
		})

		It("renders everything else best-effort", func() {
			Expect(stringFromValue(42)).To(Equal("42"))
			Expect(stringFromValue(errors.New("boom"))).To(Equal("boom"))
		})
	})

	Describe("fieldEncoder", func() {
		It("covers every log field type", func() {
			encoder := &fieldEncoder{}
			for _, field := range []log.Field{
				log.String("s", "v"),
				log.Bool("b", true),
				log.Int("i", 1),
				log.Int32("i32", 2),
				log.Int64("i64", 3),
				log.Uint32("u32", 4),
				log.Uint64("u64", 5),
				log.Float32("f32", 1.5),
				log.Float64("f64", 2.5),
				log.Object("o", struct{ A int }{A: 7}),
			} {
				field.Marshal(encoder)
			}

			Expect(encoder.attrs).To(ConsistOf(
				attribute.String("s", "v"),
				attribute.Bool("b", true),
				attribute.Int("i", 1),
				attribute.Int64("i32", 2),
				attribute.Int64("i64", 3),
				attribute.Int64("u32", 4),
				attribute.Int64("u64", 5),
				attribute.Float64("f32", 1.5),
				attribute.Float64("f64", 2.5),
				attribute.String("o", "{7}"),
			))
		})

		It("expands lazy fields in place", func() {
			encoder := &fieldEncoder{}
			log.Lazy(func(fv log.Encoder) {
				fv.EmitString("lazy_key", "lazy_value")
				fv.EmitInt("lazy_int", 9)
			}).Marshal(encoder)

			Expect(encoder.attrs).To(Equal([]attribute.KeyValue{
				attribute.String("lazy_key", "lazy_value"),
				attribute.Int("lazy_int", 9),
			}))
		})
	})
})
