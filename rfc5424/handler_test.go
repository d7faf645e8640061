package rfc5424_test

import (
	"net"

	"github.com/nabbar/netreactor/pipeline"
	"github.com/nabbar/netreactor/rfc5424"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Handler", func() {
	It("requests a read on connect and keeps reading after a complete frame", func() {
		var received []*rfc5424.SyslogMessage
		sink := rfc5424.SinkFunc(func(_ net.Addr, msg *rfc5424.SyslogMessage) {
			received = append(received, msg)
		})

		h := rfc5424.NewHandler(sink, nil)

		res := h.OnConnect(&net.TCPAddr{})
		Expect(res.Signal).To(Equal(pipeline.SigRequestRead))

		body := frame(`<13>1 2024-01-01T00:00:00Z host app - -  hi`)
		res = h.OnRead([]byte(body))

		Expect(res.Signal).To(Equal(pipeline.SigRequestRead))
		Expect(received).To(HaveLen(1))
		Expect(received[0].Body).To(Equal("hi"))
	})

	It("requests close on a malformed frame", func() {
		h := rfc5424.NewHandler(nil, nil)
		h.OnConnect(&net.TCPAddr{})

		huge := make([]byte, 10)
		for i := range huge {
			huge[i] = '1'
		}

		res := h.OnRead(huge)
		Expect(res.Signal).To(Equal(pipeline.SigRequestClose))
	})
})
