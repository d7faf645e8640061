package pipeline_test

import (
	"net"

	"github.com/nabbar/netreactor/pipeline"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type forwardHandler struct {
	pipeline.NoopHandler
	transform func([]byte) []byte
}

func (h forwardHandler) OnRead(p []byte) pipeline.Result {
	return pipeline.Forward(h.transform(p))
}

type terminalHandler struct {
	pipeline.NoopHandler
	result pipeline.Result
}

func (h terminalHandler) OnRead([]byte) pipeline.Result { return h.result }

type panicHandler struct {
	pipeline.NoopHandler
}

func (panicHandler) OnRead([]byte) pipeline.Result { panic("boom") }

type recordingHandler struct {
	pipeline.NoopHandler
	reads  *int
	closes *int
}

func (h recordingHandler) OnRead(p []byte) pipeline.Result {
	*h.reads++
	return pipeline.Forward(p)
}

func (h recordingHandler) OnClose(net.Addr) {
	*h.closes++
}

var _ = Describe("Executor", func() {
	var ex *pipeline.Executor

	BeforeEach(func() {
		ex = pipeline.NewExecutor(nil)
	})

	It("threads the payload through FORWARD and stops at the terminating signal", func() {
		chain := pipeline.Chain{
			forwardHandler{transform: func(b []byte) []byte { return append(append([]byte{}, b...), b...) }},
			terminalHandler{result: pipeline.RequestWrite([]byte("done"))},
		}

		r := ex.Dispatch(chain, pipeline.EventRead, nil, []byte("ab"))

		Expect(r.Signal).To(Equal(pipeline.SigRequestWrite))
		Expect(r.Payload).To(Equal([]byte("done")))
	})

	It("doubles the payload via a forwarding handler then enqueues a write (scenario e)", func() {
		chain := pipeline.Chain{
			forwardHandler{transform: func(b []byte) []byte { return append(append([]byte{}, b...), b...) }},
			terminalHandler{result: pipeline.Result{}}, // placeholder, replaced below
		}
		chain[1] = echoAsWrite{}

		r := ex.Dispatch(chain, pipeline.EventRead, nil, []byte("ab"))

		Expect(r.Signal).To(Equal(pipeline.SigRequestWrite))
		Expect(string(r.Payload)).To(Equal("abab"))
	})

	It("recovers a handler panic and continues the chain to later handlers (scenario f)", func() {
		reads, closes := 0, 0
		chain := pipeline.Chain{
			panicHandler{},
			recordingHandler{reads: &reads, closes: &closes},
		}

		r := ex.Dispatch(chain, pipeline.EventRead, nil, []byte("x"))

		Expect(r.Signal).To(Equal(pipeline.SigNone))
		Expect(reads).To(Equal(1))
	})

	It("always delivers OnClose to every handler in the chain exactly once", func() {
		reads, closes := 0, 0
		chain := pipeline.Chain{
			recordingHandler{reads: &reads, closes: &closes},
			recordingHandler{reads: &reads, closes: &closes},
		}

		ex.Dispatch(chain, pipeline.EventClose, nil, nil)

		Expect(closes).To(Equal(2))
	})
})

type echoAsWrite struct {
	pipeline.NoopHandler
}

func (echoAsWrite) OnRead(p []byte) pipeline.Result { return pipeline.RequestWrite(p) }
