package rconfig_test

import (
	"time"

	"github.com/nabbar/netreactor/rconfig"
	"github.com/nabbar/netreactor/reactor"
	"github.com/nabbar/netreactor/selector"
	"github.com/spf13/viper"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	It("falls back to Default when the key is absent", func() {
		cfg, err := rconfig.Load(viper.New(), "netreactor")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(rconfig.Default()))
	})

	It("unmarshals and validates an overriding config", func() {
		v := viper.New()
		v.Set("netreactor.family", "unix")
		v.Set("netreactor.host", "/tmp/netreactor.sock")

		cfg, err := rconfig.Load(v, "netreactor")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Family).To(Equal("unix"))
		Expect(cfg.SocketAddress().Network()).To(Equal("unix"))
	})

	It("decodes a string pollTimeout through the duration hook", func() {
		v := viper.New()
		v.Set("netreactor.family", "ipv4")
		v.Set("netreactor.host", "127.0.0.1")
		v.Set("netreactor.port", 6514)
		v.Set("netreactor.pollTimeout", "25ms")

		cfg, err := rconfig.Load(v, "netreactor")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.PollTimeout.Time()).To(Equal(25 * time.Millisecond))
	})

	It("rejects an unknown family", func() {
		v := viper.New()
		v.Set("netreactor.family", "ipx25")
		v.Set("netreactor.host", "example")
		v.Set("netreactor.port", 1)

		_, err := rconfig.Load(v, "netreactor")
		Expect(err).To(HaveOccurred())
	})

	It("rejects an out-of-range port", func() {
		cfg := rconfig.Default()
		cfg.Port = 70000
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("builds an ipv4 SocketAddress compatible with the reactor package", func() {
		cfg := rconfig.Default()
		addr := cfg.SocketAddress()
		Expect(addr.Family()).To(Equal(reactor.FamilyIPv4))
	})

	It("resolves an explicit selector kind and leaves it unset by default", func() {
		cfg := rconfig.Default()
		_, ok := cfg.SelectorKind()
		Expect(ok).To(BeFalse())

		cfg.Selector = "poll"
		kind, ok := cfg.SelectorKind()
		Expect(ok).To(BeTrue())
		Expect(kind).To(Equal(selector.KindPoll))
	})

	It("reports whether metrics are enabled", func() {
		cfg := rconfig.Default()
		_, ok := cfg.MetricsHostPort()
		Expect(ok).To(BeTrue())

		cfg.MetricsAddr = ""
		_, ok = cfg.MetricsHostPort()
		Expect(ok).To(BeFalse())
	})
})
