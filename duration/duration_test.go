package duration_test

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/nabbar/netreactor/duration"
	"gopkg.in/yaml.v3"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Parse", func() {
	It("parses plain time.Duration syntax", func() {
		d, err := duration.Parse("90ms")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Time()).To(Equal(90 * time.Millisecond))
	})

	It("parses a leading day component", func() {
		d, err := duration.Parse("5d23h15m13s")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Time()).To(Equal(5*24*time.Hour + 23*time.Hour + 15*time.Minute + 13*time.Second))
	})

	It("parses a bare day count", func() {
		d, err := duration.Parse("7d")
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(Equal(duration.Days(7)))
	})

	It("tolerates surrounding quotes", func() {
		d, err := duration.Parse(`"10ms"`)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Time()).To(Equal(10 * time.Millisecond))
	})

	It("rejects garbage", func() {
		_, err := duration.Parse("not a duration")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("String", func() {
	It("uses days notation at and above one day", func() {
		Expect(duration.Days(2).String()).To(Equal("2d"))
		Expect((duration.Days(1) + duration.Duration(30*time.Minute)).String()).To(Equal("1d30m0s"))
	})

	It("uses time.Duration notation below one day", func() {
		Expect(duration.Duration(10 * time.Millisecond).String()).To(Equal("10ms"))
	})
})

var _ = Describe("Encoding", func() {
	It("round-trips through JSON", func() {
		in := duration.Days(1) + duration.Duration(time.Hour)

		b, err := json.Marshal(in)
		Expect(err).NotTo(HaveOccurred())

		var out duration.Duration
		Expect(json.Unmarshal(b, &out)).To(Succeed())
		Expect(out).To(Equal(in))
	})

	It("decodes a JSON integer of nanoseconds", func() {
		var out duration.Duration
		Expect(json.Unmarshal([]byte("1000000"), &out)).To(Succeed())
		Expect(out.Time()).To(Equal(time.Millisecond))
	})

	It("round-trips through YAML", func() {
		in := duration.Duration(250 * time.Millisecond)

		b, err := yaml.Marshal(in)
		Expect(err).NotTo(HaveOccurred())

		var out duration.Duration
		Expect(yaml.Unmarshal(b, &out)).To(Succeed())
		Expect(out).To(Equal(in))
	})

	It("round-trips through CBOR", func() {
		in := duration.Days(3)

		b, err := cbor.Marshal(in)
		Expect(err).NotTo(HaveOccurred())

		var out duration.Duration
		Expect(cbor.Unmarshal(b, &out)).To(Succeed())
		Expect(out).To(Equal(in))
	})
})

var _ = Describe("ViperDecoderHook", func() {
	It("converts strings targeted at Duration", func() {
		hook := duration.ViperDecoderHook()

		out, err := hook(reflect.TypeOf(""), reflect.TypeOf(duration.Duration(0)), "5h30m")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(duration.Duration(5*time.Hour + 30*time.Minute)))
	})

	It("leaves other target types untouched", func() {
		hook := duration.ViperDecoderHook()

		out, err := hook(reflect.TypeOf(""), reflect.TypeOf(0), "5h30m")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("5h30m"))
	})
})
