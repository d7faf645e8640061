package selector_test

import (
	"net"
	"time"

	"github.com/nabbar/netreactor/selector"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("poll selector", func() {
	It("reports read readiness once a registered socket receives data", func() {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		defer ln.Close()

		sel, err := selector.NewPoll()
		Expect(err).NotTo(HaveOccurred())
		defer sel.Close()

		accepted := make(chan net.Conn, 1)
		go func() {
			c, _ := ln.Accept()
			accepted <- c
		}()

		client, err := net.Dial("tcp", ln.Addr().String())
		Expect(err).NotTo(HaveOccurred())
		defer client.Close()

		server := <-accepted
		defer server.Close()

		tc, ok := server.(*net.TCPConn)
		Expect(ok).To(BeTrue())

		f, err := tc.File()
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		fd := int(f.Fd())
		Expect(sel.Register(fd, selector.InterestRead)).To(Succeed())

		_, err = client.Write([]byte("hi"))
		Expect(err).NotTo(HaveOccurred())

		events, err := sel.Poll(500 * time.Millisecond)
		Expect(err).NotTo(HaveOccurred())
		Expect(events).NotTo(BeEmpty())
		Expect(events[0].Readiness & selector.ReadinessRead).NotTo(BeZero())
	})
})
