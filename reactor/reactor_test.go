package reactor_test

import (
	"net"
	"time"

	"github.com/nabbar/netreactor/examples/echo"
	"github.com/nabbar/netreactor/pipeline"
	"github.com/nabbar/netreactor/reactor"
	"github.com/nabbar/netreactor/rerr"
	"github.com/nabbar/netreactor/selector"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type httpLikeHandler struct {
	pipeline.NoopHandler
}

func (httpLikeHandler) OnConnect(net.Addr) pipeline.Result {
	return pipeline.RequestRead()
}

func (httpLikeHandler) OnRead([]byte) pipeline.Result {
	return pipeline.RequestWrite([]byte("HTTP/1.1 200 OK\r\n\r\n"))
}

type closeAfterWrite struct {
	pipeline.NoopHandler
}

func (closeAfterWrite) OnWrite([]byte) pipeline.Result {
	return pipeline.RequestClose()
}

var _ = Describe("Reactor end-to-end", func() {
	It("replies then closes cleanly, matching scenario (b)", func() {
		sel, err := selector.NewPoll()
		Expect(err).NotTo(HaveOccurred())

		addr := reactor.NewTCPAddress(reactor.FamilyIPv4, "127.0.0.1", freePort())

		factory := pipeline.FactoryFunc{
			DownstreamFunc: func() pipeline.Chain { return pipeline.Chain{httpLikeHandler{}} },
			UpstreamFunc:   func() pipeline.Chain { return pipeline.Chain{closeAfterWrite{}} },
		}

		r := reactor.New(addr, factory, reactor.WithSelector(sel))

		done := make(chan error, 1)
		go func() { done <- r.Run() }()

		Eventually(r.IsRunning, 2*time.Second, 10*time.Millisecond).Should(BeTrue())

		conn, err := net.Dial("tcp", addr.String())
		Expect(err).NotTo(HaveOccurred())
		defer conn.Close()

		_, err = conn.Write([]byte("GET / HTTP/1.1\r\n\r\n"))
		Expect(err).NotTo(HaveOccurred())

		buf := make([]byte, 128)
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, _ := conn.Read(buf)

		Expect(string(buf[:n])).To(Equal("HTTP/1.1 200 OK\r\n\r\n"))

		r.Stop()
		Eventually(func() bool { return !r.IsRunning() }, 2*time.Second, 10*time.Millisecond).Should(BeTrue())
	})

	It("echoes bytes end-to-end through the examples echo factory", func() {
		sel, err := selector.NewPoll()
		Expect(err).NotTo(HaveOccurred())

		addr := reactor.NewTCPAddress(reactor.FamilyIPv4, "127.0.0.1", freePort())
		r := reactor.New(addr, echo.NewFactory(), reactor.WithSelector(sel))

		go func() { _ = r.Run() }()
		Eventually(r.IsRunning, 2*time.Second, 10*time.Millisecond).Should(BeTrue())
		defer r.Stop()

		conn, err := net.Dial("tcp", addr.String())
		Expect(err).NotTo(HaveOccurred())
		defer conn.Close()

		_, err = conn.Write([]byte("ping"))
		Expect(err).NotTo(HaveOccurred())

		buf := make([]byte, 16)
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, err := conn.Read(buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(buf[:n])).To(Equal("ping"))

		_, err = conn.Write([]byte("pong"))
		Expect(err).NotTo(HaveOccurred())
		n, err = conn.Read(buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(buf[:n])).To(Equal("pong"))
	})

	It("refuses to run twice", func() {
		sel, err := selector.NewPoll()
		Expect(err).NotTo(HaveOccurred())

		addr := reactor.NewTCPAddress(reactor.FamilyIPv4, "127.0.0.1", freePort())
		factory := pipeline.FactoryFunc{
			DownstreamFunc: func() pipeline.Chain { return pipeline.Chain{httpLikeHandler{}} },
			UpstreamFunc:   func() pipeline.Chain { return pipeline.Chain{closeAfterWrite{}} },
		}

		r := reactor.New(addr, factory, reactor.WithSelector(sel))

		go func() { _ = r.Run() }()
		Eventually(r.IsRunning, 2*time.Second, 10*time.Millisecond).Should(BeTrue())
		defer r.Stop()

		err = r.Run()
		Expect(err).To(HaveOccurred())
		Expect(rerr.InvalidState.Is(err)).To(BeTrue())
	})
})

func freePort() int {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}
