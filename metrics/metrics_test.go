package metrics_test

import (
	"github.com/nabbar/netreactor/metrics"
	"github.com/prometheus/client_golang/prometheus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func gaugeValue(reg *prometheus.Registry, name string) float64 {
	families, err := reg.Gather()
	Expect(err).NotTo(HaveOccurred())

	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			if g := m.GetGauge(); g != nil {
				return g.GetValue()
			}
			if c := m.GetCounter(); c != nil {
				return c.GetValue()
			}
		}
	}
	return 0
}

var _ = Describe("Collector", func() {
	It("tracks accepted/closed connections as a gauge plus counters", func() {
		reg := prometheus.NewRegistry()
		c := metrics.New(reg)

		c.ConnectionAccepted()
		c.ConnectionAccepted()
		c.ConnectionClosed()

		Expect(gaugeValue(reg, "netreactor_open_connections")).To(Equal(1.0))
		Expect(gaugeValue(reg, "netreactor_connections_accepted_total")).To(Equal(2.0))
		Expect(gaugeValue(reg, "netreactor_connections_closed_total")).To(Equal(1.0))
	})

	It("accumulates byte and parse-error counters", func() {
		reg := prometheus.NewRegistry()
		c := metrics.New(reg)

		c.BytesRead(10)
		c.BytesRead(5)
		c.BytesWritten(7)
		c.ParseError()

		Expect(gaugeValue(reg, "netreactor_bytes_read_total")).To(Equal(15.0))
		Expect(gaugeValue(reg, "netreactor_bytes_written_total")).To(Equal(7.0))
		Expect(gaugeValue(reg, "netreactor_parse_errors_total")).To(Equal(1.0))
	})

	It("registers against a caller-owned registry rather than the default", func() {
		reg := prometheus.NewRegistry()
		Expect(func() { metrics.New(reg) }).NotTo(Panic())
		Expect(func() { metrics.New(prometheus.NewRegistry()) }).NotTo(Panic())
	})
})
